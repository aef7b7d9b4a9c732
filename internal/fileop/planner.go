package fileop

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/sablefm/sable/internal/logging"
	"github.com/sablefm/sable/internal/queue"
)

// Planner decomposes user-level requests into leaf operations. Each entry
// point walks at most one tree sequentially; distinct requests may plan
// concurrently, coordinating only through the queue and progress channel.
type Planner struct {
	emitter
	ops *queue.Queue[Op]
	log zerolog.Logger
}

// NewPlanner creates a planner that enqueues onto ops and reports on prog.
func NewPlanner(ops *queue.Queue[Op], prog chan<- Progress) *Planner {
	return &Planner{
		emitter: emitter{prog: prog},
		ops:     ops,
		log:     logging.GetLogger("planner"),
	}
}

// Paste schedules the copy or move described by op. A cut of a
// non-directory tries an atomic rename first; directories are walked
// breadth-first so parents are created before their children. Problematic
// directories are reported and skipped rather than aborting the walk.
func (p *Planner) Paste(op PasteOp) error {
	if op.Cut {
		switch info, err := os.Lstat(op.From); {
		case errors.Is(err, fs.ErrNotExist):
			// Source vanished before planning started; the move is moot.
			p.succ(op.ID)
			return nil
		case err == nil && !info.IsDir():
			err := os.Rename(op.From, op.To)
			if err == nil || errors.Is(err, fs.ErrNotExist) {
				p.succ(op.ID)
				return nil
			}
			// Cross-device or otherwise un-renameable: fall back to
			// copy-then-delete.
		}
	}

	meta, err := metadata(op.From, op.Follow)
	if err != nil {
		return err
	}

	if !meta.IsDir() {
		p.newTotal(op.ID, meta.Size())
		p.schedule(op, meta)
		p.succ(op.ID)
		return nil
	}

	root := op.To
	dirs := []string{op.From}
	for len(dirs) > 0 {
		src := dirs[0]
		dirs = dirs[1:]

		rel, err := filepath.Rel(op.From, src)
		if err != nil {
			p.pasteDirFailed(op.ID, err)
			continue
		}
		dest := filepath.Join(root, rel)
		if err := os.Mkdir(dest, 0o755); err != nil && !errors.Is(err, fs.ErrExist) {
			p.pasteDirFailed(op.ID, err)
			continue
		}

		entries, err := os.ReadDir(src)
		if err != nil {
			p.pasteDirFailed(op.ID, err)
			continue
		}
		for _, entry := range entries {
			from := filepath.Join(src, entry.Name())
			meta, err := metadata(from, op.Follow)
			if err != nil {
				p.pasteDirFailed(op.ID, err)
				continue
			}
			if meta.IsDir() {
				dirs = append(dirs, from)
				continue
			}

			leaf := op
			leaf.From = from
			leaf.To = filepath.Join(dest, entry.Name())
			p.newTotal(op.ID, meta.Size())
			p.schedule(leaf, meta)
		}
	}
	p.succ(op.ID)
	return nil
}

// Link schedules creation of a single symlink.
func (p *Planner) Link(op LinkOp) error {
	if op.Meta == nil {
		meta, err := os.Lstat(op.From)
		if err != nil {
			return err
		}
		op.Meta = meta
	}

	p.newTotal(op.ID, op.Meta.Size())
	p.ops.Push(op, op.Priority())
	p.succ(op.ID)
	return nil
}

// Delete schedules removal of op.Target. Directories are walked
// depth-first with a stack; only files become leaf operations, and
// unlistable directories or unreadable entries are silently left alone.
// Emptied directories are the pruner's business, not the planner's.
func (p *Planner) Delete(op DeleteOp) error {
	meta, err := os.Lstat(op.Target)
	if err != nil {
		return err
	}

	if !meta.IsDir() {
		op.Length = meta.Size()
		p.newTotal(op.ID, op.Length)
		p.ops.Push(op, op.Priority())
		p.succ(op.ID)
		return nil
	}

	stack := []string{op.Target}
	for len(stack) > 0 {
		dir := stack[0]
		stack = stack[1:]

		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			info, err := entry.Info()
			if err != nil {
				continue
			}
			if info.IsDir() {
				stack = append([]string{path}, stack...)
				continue
			}

			leaf := DeleteOp{ID: op.ID, Target: path, Length: info.Size()}
			p.newTotal(op.ID, leaf.Length)
			p.ops.Push(leaf, leaf.Priority())
		}
	}
	p.succ(op.ID)
	return nil
}

// Trash schedules moving op.Target to the system trash as one opaque
// operation; the total size is computed up front for progress reporting.
func (p *Planner) Trash(op TrashOp) error {
	op.Length = CalculateSize(op.Target)
	p.newTotal(op.ID, op.Length)
	p.ops.Push(op, op.Priority())
	p.succ(op.ID)
	return nil
}

// schedule enqueues the right leaf variant for a non-directory entry.
// Entries that are neither regular files nor symlinks (sockets, fifos) are
// skipped.
func (p *Planner) schedule(op PasteOp, meta fs.FileInfo) {
	switch {
	case meta.Mode().IsRegular():
		p.ops.Push(op, op.Priority())
	case meta.Mode()&fs.ModeSymlink != 0:
		link := op.link(meta)
		p.ops.Push(link, link.Priority())
	default:
		p.log.Debug().Str("from", op.From).Msg("skipping special file")
	}
}

// pasteDirFailed reports one problematic directory (or entry) during a
// paste walk. Silently dropping content during a copy would hide data
// loss, so unlike delete the failure is surfaced to the user.
func (p *Planner) pasteDirFailed(id ID, err error) {
	p.newTotal(id, 0)
	p.fail(id, "an error occurred while pasting: %v", err)
}

// metadata stats path, following symlinks only when follow is set. A
// broken link under follow falls back to the link's own metadata.
func metadata(path string, follow bool) (fs.FileInfo, error) {
	if !follow {
		return os.Lstat(path)
	}
	if info, err := os.Stat(path); err == nil {
		return info, nil
	}
	return os.Lstat(path)
}
