package fileop

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sablefm/sable/internal/queue"
)

func newTestPlanner(t *testing.T) (*Planner, *queue.Queue[Op], chan Progress) {
	t.Helper()
	ops := queue.New[Op]()
	prog := make(chan Progress, 1024)
	return NewPlanner(ops, prog), ops, prog
}

func drainOps(t *testing.T, q *queue.Queue[Op]) []Op {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var out []Op
	for q.Len() > 0 {
		op, ok := q.Pop(ctx)
		require.True(t, ok)
		out = append(out, op)
	}
	return out
}

func drainEvents(prog chan Progress) []Progress {
	var out []Progress
	for {
		select {
		case ev := <-prog:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func eventsOfKind(events []Progress, kind ProgressKind) []Progress {
	var out []Progress
	for _, ev := range events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func TestPlanner_PasteSingleFile(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "src.txt")
	to := filepath.Join(dir, "dst.txt")
	writeFile(t, from, []byte("hello"))

	p, ops, prog := newTestPlanner(t)
	require.NoError(t, p.Paste(PasteOp{ID: 1, From: from, To: to}))

	queued := drainOps(t, ops)
	require.Len(t, queued, 1)
	paste, ok := queued[0].(PasteOp)
	require.True(t, ok)
	assert.Equal(t, from, paste.From)
	assert.Equal(t, to, paste.To)
	assert.Equal(t, queue.Low, paste.Priority())

	events := drainEvents(prog)
	require.Len(t, events, 2)
	assert.Equal(t, ProgressNew, events[0].Kind)
	assert.Equal(t, int64(5), events[0].Size)
	assert.Equal(t, ProgressSucc, events[1].Kind)
}

func TestPlanner_PasteCutRenameFastPath(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "src.txt")
	to := filepath.Join(dir, "dst.txt")
	writeFile(t, from, []byte("move me"))

	p, ops, prog := newTestPlanner(t)
	require.NoError(t, p.Paste(PasteOp{ID: 1, From: from, To: to, Cut: true}))

	// Same volume: atomic rename, no leaf operations, no byte events.
	assert.Empty(t, drainOps(t, ops))
	events := drainEvents(prog)
	require.Len(t, events, 1)
	assert.Equal(t, ProgressSucc, events[0].Kind)

	assert.NoFileExists(t, from)
	data, err := os.ReadFile(to)
	require.NoError(t, err)
	assert.Equal(t, []byte("move me"), data)
}

func TestPlanner_PasteCutVanishedSource(t *testing.T) {
	dir := t.TempDir()

	p, ops, prog := newTestPlanner(t)
	err := p.Paste(PasteOp{
		ID:   1,
		From: filepath.Join(dir, "gone"),
		To:   filepath.Join(dir, "dst"),
		Cut:  true,
	})
	require.NoError(t, err)

	assert.Empty(t, drainOps(t, ops))
	events := drainEvents(prog)
	require.Len(t, events, 1)
	assert.Equal(t, ProgressSucc, events[0].Kind)
}

func TestPlanner_PasteDirectoryTree(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dst := filepath.Join(dir, "dst")

	writeFile(t, filepath.Join(src, "a.txt"), []byte("aa"))
	writeFile(t, filepath.Join(src, "sub", "b.txt"), []byte("bbb"))
	writeFile(t, filepath.Join(src, "sub", "deep", "c.txt"), []byte("cccc"))
	require.NoError(t, os.Symlink(filepath.Join(src, "a.txt"), filepath.Join(src, "link")))

	p, ops, prog := newTestPlanner(t)
	require.NoError(t, p.Paste(PasteOp{ID: 7, From: src, To: dst}))

	// Parent directories are created during planning, before any leaf runs.
	assert.DirExists(t, dst)
	assert.DirExists(t, filepath.Join(dst, "sub"))
	assert.DirExists(t, filepath.Join(dst, "sub", "deep"))

	queued := drainOps(t, ops)
	var pastes []PasteOp
	var links []LinkOp
	for _, op := range queued {
		switch op := op.(type) {
		case PasteOp:
			pastes = append(pastes, op)
		case LinkOp:
			links = append(links, op)
		default:
			t.Fatalf("unexpected op %T", op)
		}
	}
	assert.Len(t, pastes, 3)
	require.Len(t, links, 1)
	assert.True(t, links[0].Resolve)
	assert.Equal(t, filepath.Join(dst, "link"), links[0].To)

	events := drainEvents(prog)
	news := eventsOfKind(events, ProgressNew)
	assert.Len(t, news, 4) // one per leaf entry
	var total int64
	for _, ev := range news {
		total += ev.Size
	}
	assert.Equal(t, int64(2+3+4+len(filepath.Join(src, "a.txt"))), total)

	succs := eventsOfKind(events, ProgressSucc)
	assert.Len(t, succs, 1)
	assert.Empty(t, eventsOfKind(events, ProgressFail))
}

func TestPlanner_PasteDirErrorContinues(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	writeFile(t, filepath.Join(src, "a.txt"), []byte("aa"))

	// Destination parent does not exist, so the root mkdir fails.
	dst := filepath.Join(dir, "missing", "dst")

	p, ops, prog := newTestPlanner(t)
	require.NoError(t, p.Paste(PasteOp{ID: 1, From: src, To: dst}))

	assert.Empty(t, drainOps(t, ops))
	events := drainEvents(prog)

	news := eventsOfKind(events, ProgressNew)
	require.Len(t, news, 1)
	assert.Equal(t, int64(0), news[0].Size)

	fails := eventsOfKind(events, ProgressFail)
	require.Len(t, fails, 1)
	assert.Contains(t, fails[0].Message, "pasting")

	// The walk finishes and the planning unit still reports completion.
	assert.Len(t, eventsOfKind(events, ProgressSucc), 1)
}

func TestPlanner_PasteFollowSchedulesCopyForSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real.txt")
	writeFile(t, target, []byte("real data"))
	from := filepath.Join(dir, "link")
	require.NoError(t, os.Symlink(target, from))

	p, ops, _ := newTestPlanner(t)
	require.NoError(t, p.Paste(PasteOp{ID: 1, From: from, To: filepath.Join(dir, "out"), Follow: true}))

	queued := drainOps(t, ops)
	require.Len(t, queued, 1)
	_, isPaste := queued[0].(PasteOp)
	assert.True(t, isPaste, "followed symlink should be copied as a regular file")
}

func TestPlanner_DeleteSingleFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "victim.txt")
	writeFile(t, target, []byte("doomed"))

	p, ops, prog := newTestPlanner(t)
	require.NoError(t, p.Delete(DeleteOp{ID: 3, Target: target}))

	queued := drainOps(t, ops)
	require.Len(t, queued, 1)
	del, ok := queued[0].(DeleteOp)
	require.True(t, ok)
	assert.Equal(t, int64(6), del.Length)
	assert.Equal(t, queue.Normal, del.Priority())

	events := drainEvents(prog)
	require.Len(t, events, 2)
	assert.Equal(t, ProgressNew, events[0].Kind)
	assert.Equal(t, ProgressSucc, events[1].Kind)
}

func TestPlanner_DeleteTreeSchedulesFilesOnly(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "root")
	writeFile(t, filepath.Join(root, "a"), []byte("1"))
	writeFile(t, filepath.Join(root, "x", "b"), []byte("22"))
	writeFile(t, filepath.Join(root, "x", "y", "c"), []byte("333"))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))

	p, ops, prog := newTestPlanner(t)
	require.NoError(t, p.Delete(DeleteOp{ID: 9, Target: root}))

	queued := drainOps(t, ops)
	require.Len(t, queued, 3)
	targets := map[string]int64{}
	for _, op := range queued {
		del, ok := op.(DeleteOp)
		require.True(t, ok, "directories must never become delete operations")
		targets[del.Target] = del.Length
	}
	assert.Equal(t, map[string]int64{
		filepath.Join(root, "a"):           1,
		filepath.Join(root, "x", "b"):      2,
		filepath.Join(root, "x", "y", "c"): 3,
	}, targets)

	events := drainEvents(prog)
	assert.Len(t, eventsOfKind(events, ProgressNew), 3)
	assert.Len(t, eventsOfKind(events, ProgressSucc), 1)

	// Planning touches nothing on disk; directories are the pruner's job.
	assert.DirExists(t, filepath.Join(root, "empty"))
}

func TestPlanner_DeleteMissingTarget(t *testing.T) {
	p, _, _ := newTestPlanner(t)
	err := p.Delete(DeleteOp{ID: 1, Target: filepath.Join(t.TempDir(), "nope")})
	assert.Error(t, err)
}

func TestPlanner_LinkFillsMetadata(t *testing.T) {
	dir := t.TempDir()
	from := filepath.Join(dir, "src.txt")
	writeFile(t, from, []byte("abcdef"))

	p, ops, prog := newTestPlanner(t)
	require.NoError(t, p.Link(LinkOp{ID: 2, From: from, To: filepath.Join(dir, "lnk")}))

	queued := drainOps(t, ops)
	require.Len(t, queued, 1)
	link, ok := queued[0].(LinkOp)
	require.True(t, ok)
	require.NotNil(t, link.Meta)
	assert.Equal(t, int64(6), link.Meta.Size())
	assert.Equal(t, queue.Normal, link.Priority())

	events := drainEvents(prog)
	require.Len(t, events, 2)
	assert.Equal(t, ProgressNew, events[0].Kind)
	assert.Equal(t, int64(6), events[0].Size)
	assert.Equal(t, ProgressSucc, events[1].Kind)
}

func TestPlanner_TrashIsOneOpaqueOp(t *testing.T) {
	dir := t.TempDir()
	root := filepath.Join(dir, "junk")
	writeFile(t, filepath.Join(root, "a"), []byte("12345"))
	writeFile(t, filepath.Join(root, "sub", "b"), []byte("678"))

	p, ops, prog := newTestPlanner(t)
	require.NoError(t, p.Trash(TrashOp{ID: 4, Target: root}))

	queued := drainOps(t, ops)
	require.Len(t, queued, 1)
	trash, ok := queued[0].(TrashOp)
	require.True(t, ok)
	assert.Equal(t, root, trash.Target)
	assert.Equal(t, int64(8), trash.Length)
	assert.Equal(t, queue.Low, trash.Priority())

	events := drainEvents(prog)
	require.Len(t, events, 2)
	assert.Equal(t, int64(8), events[0].Size)
}
