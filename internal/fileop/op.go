package fileop

import (
	"io/fs"

	"github.com/sablefm/sable/internal/queue"
)

// ID groups every leaf operation and progress event belonging to one
// user-level request. It is minted by the caller and never interpreted
// here.
type ID uint64

// Op is one atomic filesystem mutation. The priority is a pure function
// of the variant and never changes after creation.
type Op interface {
	TaskID() ID
	Priority() queue.Priority
}

// PasteOp copies one regular file, removing the source afterward when Cut
// is set. The planner also uses it as the inbound paste request, rewriting
// From/To per leaf while walking a directory tree. Retry counts transient
// re-enqueues and is bounded by the worker's configured maximum.
type PasteOp struct {
	ID     ID
	From   string
	To     string
	Cut    bool
	Follow bool
	Retry  int
}

func (op PasteOp) TaskID() ID               { return op.ID }
func (op PasteOp) Priority() queue.Priority { return queue.Low }

// LinkOp creates one symlink at To. Meta is the lstat of From captured at
// plan time; Resolve reads the real target of a source link first, and
// Relative rewrites the stored target relative to To's parent.
type LinkOp struct {
	ID       ID
	From     string
	To       string
	Meta     fs.FileInfo
	Resolve  bool
	Relative bool
	Delete   bool
}

func (op LinkOp) TaskID() ID               { return op.ID }
func (op LinkOp) Priority() queue.Priority { return queue.Normal }

// DeleteOp removes one file. Length is the size captured when the op was
// planned; it is reported, never re-validated.
type DeleteOp struct {
	ID     ID
	Target string
	Length int64
}

func (op DeleteOp) TaskID() ID               { return op.ID }
func (op DeleteOp) Priority() queue.Priority { return queue.Normal }

// TrashOp moves one entry to the system trash as a single opaque
// operation, directory or not.
type TrashOp struct {
	ID     ID
	Target string
	Length int64
}

func (op TrashOp) TaskID() ID               { return op.ID }
func (op TrashOp) Priority() queue.Priority { return queue.Low }

// link derives the symlink op used when pasting a symlink entry: the real
// target is resolved and the source link removed when the paste is a cut.
func (op PasteOp) link(meta fs.FileInfo) LinkOp {
	return LinkOp{
		ID:      op.ID,
		From:    op.From,
		To:      op.To,
		Meta:    meta,
		Resolve: true,
		Delete:  op.Cut,
	}
}
