// Package progress folds the engine's delta-only task events into
// per-task and overall totals. The engine never owns cumulative state;
// events for one task may arrive in any order and are summed here.
package progress

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/sablefm/sable/internal/fileop"
)

// Task is the accumulated state of one user-level request.
type Task struct {
	TotalBytes int64
	Bytes      int64
	Files      int64
	Succeeded  int64
	Failures   []string
	Logs       []string
}

// Done reports whether every expected byte has been accounted for.
func (t Task) Done() bool {
	return t.Bytes >= t.TotalBytes
}

// Aggregator consumes progress events from any number of senders.
type Aggregator struct {
	mu    sync.Mutex
	tasks map[fileop.ID]*Task

	bytesCopied atomic.Int64
	bytesTotal  atomic.Int64
	filesDone   atomic.Int64
	failed      atomic.Int64
}

// New creates an empty aggregator.
func New() *Aggregator {
	return &Aggregator{tasks: make(map[fileop.ID]*Task)}
}

// Run applies events until the channel closes.
func (a *Aggregator) Run(events <-chan fileop.Progress) {
	for ev := range events {
		a.Apply(ev)
	}
}

// Apply folds one event.
func (a *Aggregator) Apply(ev fileop.Progress) {
	a.mu.Lock()
	t := a.tasks[ev.Task]
	if t == nil {
		t = &Task{}
		a.tasks[ev.Task] = t
	}

	switch ev.Kind {
	case fileop.ProgressNew:
		t.TotalBytes += ev.Size
		a.bytesTotal.Add(ev.Size)
	case fileop.ProgressAdv:
		t.Bytes += ev.Size
		t.Files += ev.Files
		a.bytesCopied.Add(ev.Size)
		a.filesDone.Add(ev.Files)
	case fileop.ProgressSucc:
		t.Succeeded++
	case fileop.ProgressFail:
		t.Failures = append(t.Failures, ev.Message)
		a.failed.Add(1)
	case fileop.ProgressLog:
		t.Logs = append(t.Logs, ev.Message)
	}
	a.mu.Unlock()
}

// Snapshot returns a copy of one task's accumulated state.
func (a *Aggregator) Snapshot(id fileop.ID) Task {
	a.mu.Lock()
	defer a.mu.Unlock()
	t := a.tasks[id]
	if t == nil {
		return Task{}
	}
	out := *t
	out.Failures = append([]string(nil), t.Failures...)
	out.Logs = append([]string(nil), t.Logs...)
	return out
}

// Totals is a point-in-time read of the overall counters.
type Totals struct {
	BytesCopied int64
	BytesTotal  int64
	FilesDone   int64
	Failed      int64
}

// Totals returns overall counters across all tasks.
func (a *Aggregator) Totals() Totals {
	return Totals{
		BytesCopied: a.bytesCopied.Load(),
		BytesTotal:  a.bytesTotal.Load(),
		FilesDone:   a.filesDone.Load(),
		Failed:      a.failed.Load(),
	}
}

func (t Totals) String() string {
	return fmt.Sprintf("files=%d bytes=%d/%d failed=%d",
		t.FilesDone, t.BytesCopied, t.BytesTotal, t.Failed)
}
