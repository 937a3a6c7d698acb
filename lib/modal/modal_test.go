package modal

import "testing"

func TestController(t *testing.T) {
	var m Controller
	if m.IsOpen() {
		t.Fatal("zero value should be closed")
	}

	m.Open()
	if !m.IsOpen() {
		t.Error("IsOpen() after Open = false")
	}

	m.Close()
	if m.IsOpen() {
		t.Error("IsOpen() after Close = true")
	}

	if !m.Toggle() || !m.IsOpen() {
		t.Error("Toggle from closed should open")
	}
	if m.Toggle() || m.IsOpen() {
		t.Error("Toggle from open should close")
	}
}

func TestSet(t *testing.T) {
	var s Set
	s.Get("create").Open()
	s.Get("edit").Open()

	if s.Get("create") != s.Get("create") {
		t.Error("Get should return the same controller for a name")
	}

	s.CloseAll()
	if s.Get("create").IsOpen() || s.Get("edit").IsOpen() {
		t.Error("CloseAll left a modal open")
	}
}
