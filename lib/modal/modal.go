// Package modal tracks whether a dialog is shown.
package modal

import "sync"

// Controller is an open/closed flag. The zero value is closed and ready to use.
type Controller struct {
	mu   sync.Mutex
	open bool
}

func (c *Controller) Open() {
	c.mu.Lock()
	c.open = true
	c.mu.Unlock()
}

func (c *Controller) Close() {
	c.mu.Lock()
	c.open = false
	c.mu.Unlock()
}

// Toggle flips the flag and returns the new state.
func (c *Controller) Toggle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open = !c.open
	return c.open
}

func (c *Controller) IsOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.open
}

// Set groups named modals, e.g. "create" and "edit" on one page.
type Set struct {
	mu     sync.Mutex
	modals map[string]*Controller
}

// Get returns the modal registered under name, creating it closed.
func (s *Set) Get(name string) *Controller {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modals == nil {
		s.modals = make(map[string]*Controller)
	}
	m, ok := s.modals[name]
	if !ok {
		m = &Controller{}
		s.modals[name] = m
	}
	return m
}

// CloseAll closes every modal in the set.
func (s *Set) CloseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.modals {
		m.Close()
	}
}
