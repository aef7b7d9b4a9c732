// Package platform isolates the filesystem calls whose semantics diverge
// per operating system: streaming file copy, symlink creation, trash
// disposal, and the errno classification behind the copy retry policy.
package platform

// CopyChunk is one increment of a streaming copy. A zero-byte chunk with a
// nil error terminates a successful stream; a chunk carrying an error is
// always the last one sent.
type CopyChunk struct {
	Bytes int64
	Err   error
}
