package fileop

import "fmt"

// ProgressKind identifies the kind of progress event.
type ProgressKind int

const (
	ProgressNew ProgressKind = iota + 1
	ProgressAdv
	ProgressSucc
	ProgressFail
	ProgressLog
)

var kindNames = [...]string{
	ProgressNew:  "New",
	ProgressAdv:  "Adv",
	ProgressSucc: "Succ",
	ProgressFail: "Fail",
	ProgressLog:  "Log",
}

func (k ProgressKind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Unknown"
}

// Progress is one delta-only event on the task progress channel. No
// cumulative state lives here; summation is the consumer's job, and events
// for one task may arrive out of order once leaf operations are dispatched.
type Progress struct {
	Kind    ProgressKind
	Task    ID
	Size    int64  // New: expected bytes; Adv: bytes delta
	Files   int64  // Adv: files delta
	Message string // Fail: user-visible reason; Log: informational note
}

// emitter is the shared progress-sending half of the planner and worker.
type emitter struct {
	prog chan<- Progress
}

func (e emitter) newTotal(id ID, size int64) {
	e.prog <- Progress{Kind: ProgressNew, Task: id, Size: size}
}

func (e emitter) adv(id ID, files, bytes int64) {
	e.prog <- Progress{Kind: ProgressAdv, Task: id, Files: files, Size: bytes}
}

func (e emitter) succ(id ID) {
	e.prog <- Progress{Kind: ProgressSucc, Task: id}
}

func (e emitter) fail(id ID, format string, args ...any) {
	e.prog <- Progress{Kind: ProgressFail, Task: id, Message: fmt.Sprintf(format, args...)}
}

func (e emitter) note(id ID, format string, args ...any) {
	e.prog <- Progress{Kind: ProgressLog, Task: id, Message: fmt.Sprintf(format, args...)}
}
