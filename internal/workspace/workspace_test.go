package workspace

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pthm/hxdash"
)

func TestMiddlewareKeepsWorkspacePerBrowser(t *testing.T) {
	m := NewManager(nil)
	var seen []string
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := FromContext(r.Context())
		if err != nil {
			t.Fatalf("FromContext failed: %v", err)
		}
		seen = append(seen, ws.ID)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("expected a session cookie")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	h.ServeHTTP(httptest.NewRecorder(), req)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if len(seen) != 3 {
		t.Fatalf("handler ran %d times, want 3", len(seen))
	}
	if seen[0] != seen[1] {
		t.Errorf("same browser got workspaces %q and %q", seen[0], seen[1])
	}
	if seen[2] == seen[0] {
		t.Error("a new browser reused another browser's workspace")
	}
	if m.Len() != 2 {
		t.Errorf("Len = %d, want 2", m.Len())
	}
}

func TestFromContextWithoutMiddleware(t *testing.T) {
	if _, err := FromContext(context.Background()); !errors.Is(err, ErrNoWorkspace) {
		t.Errorf("FromContext = %v, want ErrNoWorkspace", err)
	}
}

func TestPageStateIsCreatedOnce(t *testing.T) {
	ws := NewManager(nil).Get("a")
	calls := 0
	init := func() *int { calls++; n := 5; return &n }

	p1 := Page(ws, "counter", init)
	p2 := Page(ws, "counter", init)
	if p1 != p2 || calls != 1 {
		t.Errorf("Page created state %d times", calls)
	}

	ws.Reset()
	if p3 := Page(ws, "counter", init); p3 == p1 {
		t.Error("Reset kept page state")
	}
}

func TestPendingDeliversOnce(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewManager(nil, WithClock(clock))
	ws := m.Get("a")
	ws.Notify.Success("Saved")
	ws.Notify.Error("Broken", 0)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(NewContext(req.Context(), ws))

	clock.Advance(time.Second)
	got := m.Pending(req)
	if len(got) != 2 {
		t.Fatalf("Pending = %d flashes, want 2", len(got))
	}
	want := hxdash.Flash{ID: got[0].ID, Level: hxdash.FlashSuccess, Message: "Saved", Duration: 2 * time.Second}
	if got[0] != want {
		t.Errorf("flash = %+v, want %+v", got[0], want)
	}
	if got[1].Duration != 0 || got[1].Level != hxdash.FlashError {
		t.Errorf("sticky flash = %+v", got[1])
	}

	if again := m.Pending(req); len(again) != 0 {
		t.Errorf("second Pending = %d flashes, want 0", len(again))
	}
}

func TestPendingWithoutWorkspace(t *testing.T) {
	m := NewManager(nil)
	if got := m.Pending(httptest.NewRequest(http.MethodGet, "/", nil)); got != nil {
		t.Errorf("Pending = %v, want nil", got)
	}
}

func TestPrune(t *testing.T) {
	clock := clockwork.NewFakeClock()
	m := NewManager(nil, WithClock(clock))
	m.Get("old")
	clock.Advance(2 * time.Hour)
	m.Get("fresh")

	if n := m.Prune(time.Hour); n != 1 {
		t.Errorf("Prune = %d, want 1", n)
	}
	if m.Len() != 1 {
		t.Errorf("Len = %d, want 1", m.Len())
	}
}
