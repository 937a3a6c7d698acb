// Package workspace keeps the controllers of each browser on the server.
//
// A browser is identified by a workspace id stored in its scs session.
// The workspace holds the notification queue, the confirm dialog, the
// named modals and whatever per-page state the pages attach to it.
package workspace

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/pthm/hxdash"
	"github.com/pthm/hxdash/lib/confirm"
	"github.com/pthm/hxdash/lib/modal"
	"github.com/pthm/hxdash/lib/notify"
)

const sessionKey = "workspace"

// ErrNoWorkspace is returned when a request reaches a page without passing
// through the workspace middleware.
var ErrNoWorkspace = errors.New("workspace: no workspace in request context")

type ctxKey struct{}

// Workspace is the controller set of one browser.
type Workspace struct {
	ID      string
	Notify  *notify.Controller
	Confirm *confirm.Controller
	Modals  *modal.Set

	mu       sync.Mutex
	pages    map[string]any
	lastSeen time.Time
}

// Page returns the state stored under key, creating it with init on first
// use.
func Page[T any](ws *Workspace, key string, init func() T) T {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if v, ok := ws.pages[key].(T); ok {
		return v
	}
	v := init()
	ws.pages[key] = v
	return v
}

// Reset drops all page state, e.g. after logout.
func (ws *Workspace) Reset() {
	ws.mu.Lock()
	ws.pages = make(map[string]any)
	ws.mu.Unlock()
	ws.Modals.CloseAll()
	ws.Confirm.Close()
	ws.Notify.Clear()
}

// Manager maps sessions to workspaces.
type Manager struct {
	Sessions *scs.SessionManager

	mu     sync.Mutex
	spaces map[string]*Workspace
	clock  clockwork.Clock
	logger *slog.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the clock used for notifications and idle tracking.
func WithClock(c clockwork.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithLogger sets the logger handed to controllers.
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// NewManager wraps sessions. A nil sessions gets scs defaults with an
// in-memory store.
func NewManager(sessions *scs.SessionManager, opts ...Option) *Manager {
	if sessions == nil {
		sessions = scs.New()
	}
	m := &Manager{
		Sessions: sessions,
		spaces:   make(map[string]*Workspace),
		clock:    clockwork.NewRealClock(),
		logger:   slog.Default(),
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Get returns the workspace with id, creating it when missing.
func (m *Manager) Get(id string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	ws, ok := m.spaces[id]
	if !ok {
		ws = &Workspace{
			ID:      id,
			Notify:  notify.New(notify.WithClock(m.clock)),
			Confirm: confirm.New(m.logger),
			Modals:  &modal.Set{},
			pages:   make(map[string]any),
		}
		m.spaces[id] = ws
	}
	ws.lastSeen = m.clock.Now()
	return ws
}

// Len returns the number of live workspaces.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.spaces)
}

// Prune drops workspaces not used for maxIdle and returns how many were
// dropped.
func (m *Manager) Prune(maxIdle time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	cutoff := m.clock.Now().Add(-maxIdle)
	n := 0
	for id, ws := range m.spaces {
		if ws.lastSeen.Before(cutoff) {
			ws.Notify.Clear()
			delete(m.spaces, id)
			n++
		}
	}
	return n
}

// RunPruner prunes every interval until ctx is done.
func (m *Manager) RunPruner(ctx context.Context, interval, maxIdle time.Duration) {
	t := m.clock.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.Chan():
			if n := m.Prune(maxIdle); n > 0 {
				m.logger.Debug("pruned idle workspaces", "count", n)
			}
		}
	}
}

// Middleware loads the session and attaches the browser's workspace to
// the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return m.Sessions.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := m.Sessions.GetString(ctx, sessionKey)
		if id == "" {
			id = uuid.NewString()
			m.Sessions.Put(ctx, sessionKey, id)
		}
		next.ServeHTTP(w, r.WithContext(NewContext(ctx, m.Get(id))))
	}))
}

// NewContext returns ctx carrying ws.
func NewContext(ctx context.Context, ws *Workspace) context.Context {
	return context.WithValue(ctx, ctxKey{}, ws)
}

// FromContext returns the workspace attached by Middleware.
func FromContext(ctx context.Context) (*Workspace, error) {
	ws, ok := ctx.Value(ctxKey{}).(*Workspace)
	if !ok || ws == nil {
		return nil, ErrNoWorkspace
	}
	return ws, nil
}

// Pending hands the workspace's undelivered notifications to the
// component registry as toasts.
func (m *Manager) Pending(r *http.Request) []hxdash.Flash {
	ws, err := FromContext(r.Context())
	if err != nil {
		return nil
	}
	return Flashes(ws.Notify, ws.Notify.Drain())
}

// Flashes converts notifications into toasts with their remaining
// lifetime.
func Flashes(c *notify.Controller, items []notify.Notification) []hxdash.Flash {
	out := make([]hxdash.Flash, 0, len(items))
	for _, n := range items {
		d := c.Remaining(n)
		if !n.Sticky() && d <= 0 {
			continue
		}
		out = append(out, hxdash.Flash{
			ID:       n.ID,
			Level:    string(n.Kind),
			Message:  n.Message,
			Duration: d,
		})
	}
	return out
}
