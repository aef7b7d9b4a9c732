package fileop

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sablefm/sable/internal/logging"
	"github.com/sablefm/sable/internal/platform"
	"github.com/sablefm/sable/internal/queue"
)

// copyWithProgress is a hook for tests that need to inject copy failures.
var copyWithProgress = platform.CopyWithProgress

// WorkerConfig controls executor behavior.
type WorkerConfig struct {
	// RetryMax bounds transient-error re-enqueues per paste operation.
	RetryMax int
	// Verify checksums every pasted file against its source.
	Verify bool
}

// Worker executes leaf operations against the filesystem. The returned
// error from Work is fatal for that operation only; tolerated races
// (a concurrently removed source) end in success or an informational note.
type Worker struct {
	emitter
	cfg WorkerConfig
	ops *queue.Queue[Op]
	log zerolog.Logger
}

// NewWorker creates an executor that reports on prog and re-enqueues
// transient retries onto ops.
func NewWorker(ops *queue.Queue[Op], prog chan<- Progress, cfg WorkerConfig) *Worker {
	return &Worker{
		emitter: emitter{prog: prog},
		cfg:     cfg,
		ops:     ops,
		log:     logging.GetLogger("worker"),
	}
}

// Work executes a single leaf operation.
func (w *Worker) Work(op Op) error {
	switch op := op.(type) {
	case PasteOp:
		return w.paste(op)
	case LinkOp:
		return w.link(op)
	case DeleteOp:
		return w.delete(op)
	case TrashOp:
		return w.trash(op)
	default:
		return fmt.Errorf("unknown operation %T", op)
	}
}

func (w *Worker) paste(op PasteOp) error {
	if err := os.Remove(op.To); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	for chunk := range copyWithProgress(op.From, op.To) {
		if chunk.Err != nil {
			switch {
			case errors.Is(chunk.Err, fs.ErrNotExist):
				// The source was removed under us; what landed so far
				// stays, and the operation still counts as done.
				w.log.Warn().Str("from", op.From).Str("to", op.To).
					Msg("paste source vanished mid-copy")
				w.note(op.ID, "paste partially done: %s", op.From)
			case platform.IsRetryableCopyErr(chunk.Err) && op.Retry < w.cfg.RetryMax:
				w.note(op.ID, "retrying paste of %s: %v", op.From, chunk.Err)
				retry := op
				retry.Retry++
				w.ops.Push(retry, retry.Priority())
				return nil
			default:
				return chunk.Err
			}
			break
		}
		if chunk.Bytes == 0 {
			if w.cfg.Verify {
				if err := verifyPaste(op.From, op.To); err != nil {
					return err
				}
			}
			if op.Cut {
				_ = os.Remove(op.From)
			}
			break
		}
		w.adv(op.ID, 0, chunk.Bytes)
	}

	w.adv(op.ID, 1, 0)
	return nil
}

func (w *Worker) link(op LinkOp) error {
	length := op.Meta.Size()

	src := op.From
	if op.Resolve {
		target, err := os.Readlink(op.From)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			w.log.Warn().Str("from", op.From).Msg("link source vanished")
			w.note(op.ID, "link partially done: %s", op.From)
			w.adv(op.ID, 1, length)
			return nil
		case err != nil:
			return err
		}
		src = target
	}

	if op.Relative {
		parent, err := filepath.EvalSymlinks(filepath.Dir(op.To))
		if err != nil {
			return err
		}
		src, err = filepath.Rel(parent, src)
		if err != nil {
			return err
		}
	}

	if err := os.Remove(op.To); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err := platform.Symlink(src, op.To, op.Meta.IsDir()); err != nil {
		return err
	}

	if op.Delete {
		_ = os.Remove(op.From)
	}
	w.adv(op.ID, 1, length)
	return nil
}

func (w *Worker) delete(op DeleteOp) error {
	if err := os.Remove(op.Target); err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		// Not-found is only a tolerated race when nothing is observable
		// at the path anymore; stale link metadata means the removal
		// genuinely failed.
		if _, serr := os.Lstat(op.Target); serr == nil {
			return err
		}
	}
	w.adv(op.ID, 1, op.Length)
	return nil
}

func (w *Worker) trash(op TrashOp) error {
	if err := platform.Trash(op.Target); err != nil {
		return err
	}
	w.adv(op.ID, 1, op.Length)
	return nil
}
