// Package notify keeps the queue of transient toast notifications shown to
// one browser.
//
// Notifications expire after their duration. Expiry runs on an injectable
// clock: a timer removes the entry on the real clock, and expired entries
// are also pruned whenever the queue is read, so a fake clock gives exact
// results without waiting on timer goroutines.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Kind is the visual type of a notification.
type Kind string

const (
	Success Kind = "success"
	Error   Kind = "error"
	Warning Kind = "warning"
	Info    Kind = "info"
)

// Default lifetimes. A zero duration never expires.
const (
	DefaultDuration = 3 * time.Second
	ErrorDuration   = 5 * time.Second
)

// Notification is one queued message.
type Notification struct {
	ID       string
	Kind     Kind
	Message  string
	Duration time.Duration

	expires time.Time
}

// Sticky reports whether the notification stays until removed.
func (n Notification) Sticky() bool {
	return n.Duration <= 0
}

// Controller is the notification queue. It is safe for concurrent use.
type Controller struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	items     []Notification
	timers    map[string]clockwork.Timer
	delivered map[string]bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock used for expiry.
func WithClock(c clockwork.Clock) Option {
	return func(ctl *Controller) {
		ctl.clock = c
	}
}

// New creates an empty queue.
func New(opts ...Option) *Controller {
	c := &Controller{
		clock:     clockwork.NewRealClock(),
		timers:    make(map[string]clockwork.Timer),
		delivered: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// DurationFor returns the default lifetime for kind.
func DurationFor(kind Kind) time.Duration {
	if kind == Error {
		return ErrorDuration
	}
	return DefaultDuration
}

// Notify appends a notification and returns its id. Without an explicit
// duration the kind's default applies. A duration of 0 keeps the
// notification until Remove or Clear.
func (c *Controller) Notify(kind Kind, message string, duration ...time.Duration) string {
	d := DurationFor(kind)
	if len(duration) > 0 {
		d = duration[0]
	}

	n := Notification{
		ID:       uuid.NewString(),
		Kind:     kind,
		Message:  message,
		Duration: d,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if d > 0 {
		n.expires = c.clock.Now().Add(d)
		id := n.ID
		c.timers[id] = c.clock.AfterFunc(d, func() { c.Remove(id) })
	}
	c.items = append(c.items, n)
	return n.ID
}

func (c *Controller) Success(message string, duration ...time.Duration) string {
	return c.Notify(Success, message, duration...)
}

func (c *Controller) Error(message string, duration ...time.Duration) string {
	return c.Notify(Error, message, duration...)
}

func (c *Controller) Warning(message string, duration ...time.Duration) string {
	return c.Notify(Warning, message, duration...)
}

func (c *Controller) Info(message string, duration ...time.Duration) string {
	return c.Notify(Info, message, duration...)
}

// Remove deletes the notification with id. Unknown ids are ignored.
func (c *Controller) Remove(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removeLocked(id)
}

func (c *Controller) removeLocked(id string) {
	for i, n := range c.items {
		if n.ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			break
		}
	}
	if t, ok := c.timers[id]; ok {
		t.Stop()
		delete(c.timers, id)
	}
	delete(c.delivered, id)
}

// Clear empties the queue and stops pending expiry timers.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for id, t := range c.timers {
		t.Stop()
		delete(c.timers, id)
	}
	c.items = nil
	c.delivered = make(map[string]bool)
}

// Items returns the live notifications in insertion order.
func (c *Controller) Items() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of live notifications.
func (c *Controller) Len() int {
	return len(c.Items())
}

// Drain returns live notifications not handed out by a previous Drain.
// They stay in the queue until they expire or are removed, so a full page
// load can still render them through Items.
func (c *Controller) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pruneLocked()
	var out []Notification
	for _, n := range c.items {
		if !c.delivered[n.ID] {
			c.delivered[n.ID] = true
			out = append(out, n)
		}
	}
	return out
}

// Remaining returns how long n has left on the controller's clock. Sticky
// notifications return 0.
func (c *Controller) Remaining(n Notification) time.Duration {
	if n.Sticky() {
		return 0
	}
	left := n.expires.Sub(c.clock.Now())
	if left < 0 {
		return 0
	}
	return left
}

func (c *Controller) pruneLocked() {
	now := c.clock.Now()
	for i := 0; i < len(c.items); {
		n := c.items[i]
		if n.Duration > 0 && !now.Before(n.expires) {
			c.removeLocked(n.ID)
			continue
		}
		i++
	}
}
