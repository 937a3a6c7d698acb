// Package auth holds the process-wide authenticated-account marker.
//
// The marker is a single account identifier: present means signed in,
// absent means signed out. It is loaded from a Persister when the Store is
// opened and written through on every Login and Logout. Writes are last
// write wins.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
)

// ErrEmptyAccount is returned by Login for a blank account identifier.
var ErrEmptyAccount = errors.New("auth: empty account id")

// State is a snapshot of the marker.
type State struct {
	AccountID     string
	Authenticated bool
}

// Listener observes marker changes.
type Listener func(State)

// Persister stores the marker between runs.
type Persister interface {
	// Load returns the stored account id, or "" when signed out.
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, accountID string) error
	Clear(ctx context.Context) error
}

// Store is the marker with change notification. Listeners run
// synchronously after each change, in subscription order.
type Store struct {
	// writeMu orders persisting and publishing a change so the stored
	// and in-memory markers agree.
	writeMu   sync.Mutex
	mu        sync.Mutex
	persister Persister
	state     State
	listeners map[int]Listener
	order     []int
	nextID    int
}

// Open initialises a store from the persister.
func Open(ctx context.Context, p Persister) (*Store, error) {
	id, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("auth: load marker: %w", err)
	}
	return &Store{
		persister: p,
		state:     stateFor(id),
		listeners: make(map[int]Listener),
	}, nil
}

func stateFor(id string) State {
	return State{AccountID: id, Authenticated: id != ""}
}

// Login records accountID as the signed-in account.
func (s *Store) Login(ctx context.Context, accountID string) error {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return ErrEmptyAccount
	}
	return s.write(stateFor(accountID), func() error {
		if err := s.persister.Save(ctx, accountID); err != nil {
			return fmt.Errorf("auth: save marker: %w", err)
		}
		return nil
	})
}

// Logout clears the marker.
func (s *Store) Logout(ctx context.Context) error {
	return s.write(State{}, func() error {
		if err := s.persister.Clear(ctx); err != nil {
			return fmt.Errorf("auth: clear marker: %w", err)
		}
		return nil
	})
}

// write persists and then publishes st. Listeners run after the write
// lock is released.
func (s *Store) write(st State, persist func() error) error {
	s.writeMu.Lock()
	if err := persist(); err != nil {
		s.writeMu.Unlock()
		return err
	}
	fns := s.set(st)
	s.writeMu.Unlock()

	for _, fn := range fns {
		fn(st)
	}
	return nil
}

// State returns the current marker.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// AccountID returns the signed-in account, or "".
func (s *Store) AccountID() string {
	return s.State().AccountID
}

// Subscribe registers fn and returns a function that removes it. The
// returned function is safe to call more than once.
func (s *Store) Subscribe(fn Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.order = append(s.order, id)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.listeners, id)
			for i, v := range s.order {
				if v == id {
					s.order = append(s.order[:i], s.order[i+1:]...)
					break
				}
			}
		})
	}
}

// set stores st and returns the listeners to notify.
func (s *Store) set(st State) []Listener {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = st
	fns := make([]Listener, 0, len(s.order))
	for _, id := range s.order {
		fns = append(fns, s.listeners[id])
	}
	return fns
}

// MemoryPersister keeps the marker in memory.
type MemoryPersister struct {
	mu sync.Mutex
	id string
}

func (m *MemoryPersister) Load(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.id, nil
}

func (m *MemoryPersister) Save(_ context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = accountID
	return nil
}

func (m *MemoryPersister) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.id = ""
	return nil
}
