//go:build !linux

package platform

import "os"

func copyStream(src, dst *os.File, ch chan<- CopyChunk) error {
	return copyReadWrite(src, dst, ch)
}
