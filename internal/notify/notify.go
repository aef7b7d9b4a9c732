// Package notify stacks short-lived user-facing messages for the UI.
package notify

import (
	"sync"
	"time"
)

// Level is the severity a message renders with.
type Level int

const (
	Info Level = iota
	Warn
	Error
)

// Message is one pending notification.
type Message struct {
	Title   string
	Content string
	Level   Level
	Timeout time.Duration

	pushedAt time.Time
}

// Center holds pending messages and raises a UI refresh signal on push.
type Center struct {
	mu       sync.Mutex
	messages []Message
	refresh  chan struct{}
}

// NewCenter creates an empty notification center.
func NewCenter() *Center {
	return &Center{refresh: make(chan struct{}, 1)}
}

// Push queues msg. While earlier messages are still pending, the new
// message's timeout is extended by the time the oldest has already been
// on screen, so stacked messages expire in push order.
func (c *Center) Push(msg Message) {
	c.pushAt(msg, time.Now())
	select {
	case c.refresh <- struct{}{}:
	default:
	}
}

func (c *Center) pushAt(msg Message, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.messages) > 0 {
		msg.Timeout += now.Sub(c.messages[0].pushedAt)
	}
	msg.pushedAt = now
	c.messages = append(c.messages, msg)
}

// Refresh signals that the pending set changed and the UI should redraw.
func (c *Center) Refresh() <-chan struct{} {
	return c.refresh
}

// Expire drops messages whose timeout has elapsed as of now and reports
// whether any remain pending.
func (c *Center) Expire(now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	kept := c.messages[:0]
	for _, m := range c.messages {
		if now.Sub(m.pushedAt) < m.Timeout {
			kept = append(kept, m)
		}
	}
	c.messages = kept
	return len(kept) > 0
}

// Pending returns a copy of the messages still on screen.
func (c *Center) Pending() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}
