package platform

import "os"

// CopyWithProgress streams the regular file at from to to, emitting one
// chunk per transferred block. The destination is created with the
// source's permissions and truncated if present. The returned channel is
// closed after the terminating zero chunk or after an error chunk.
func CopyWithProgress(from, to string) <-chan CopyChunk {
	ch := make(chan CopyChunk)
	go func() {
		defer close(ch)

		src, err := os.Open(from)
		if err != nil {
			ch <- CopyChunk{Err: err}
			return
		}
		defer src.Close()

		info, err := src.Stat()
		if err != nil {
			ch <- CopyChunk{Err: err}
			return
		}

		dst, err := os.OpenFile(to, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
		if err != nil {
			ch <- CopyChunk{Err: err}
			return
		}

		if err := copyStream(src, dst, ch); err != nil {
			dst.Close()
			ch <- CopyChunk{Err: err}
			return
		}
		if err := dst.Close(); err != nil {
			ch <- CopyChunk{Err: err}
			return
		}
		ch <- CopyChunk{}
	}()
	return ch
}
