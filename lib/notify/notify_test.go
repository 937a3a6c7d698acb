package notify

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func newFake() (*Controller, *clockwork.FakeClock) {
	clock := clockwork.NewFakeClock()
	return New(WithClock(clock)), clock
}

func TestNotifyAutoExpiry(t *testing.T) {
	c, clock := newFake()

	id := c.Notify(Info, "x", 100*time.Millisecond)
	items := c.Items()
	if len(items) != 1 || items[0].ID != id {
		t.Fatalf("Items() = %+v, want the new notification", items)
	}

	clock.Advance(99 * time.Millisecond)
	if c.Len() != 1 {
		t.Errorf("Len() after 99ms = %d, want 1", c.Len())
	}

	clock.Advance(time.Millisecond)
	if c.Len() != 0 {
		t.Errorf("Len() after 100ms = %d, want 0", c.Len())
	}
}

func TestDefaultDurations(t *testing.T) {
	tests := []struct {
		name   string
		notify func(c *Controller) string
		want   time.Duration
	}{
		{"success", func(c *Controller) string { return c.Success("ok") }, 3 * time.Second},
		{"info", func(c *Controller) string { return c.Info("fyi") }, 3 * time.Second},
		{"warning", func(c *Controller) string { return c.Warning("careful") }, 3 * time.Second},
		{"error", func(c *Controller) string { return c.Error("Failed") }, 5 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, clock := newFake()
			tt.notify(c)

			if got := c.Items()[0].Duration; got != tt.want {
				t.Errorf("Duration = %v, want %v", got, tt.want)
			}

			clock.Advance(tt.want - time.Millisecond)
			if c.Len() != 1 {
				t.Errorf("expired early: Len() = %d", c.Len())
			}
			clock.Advance(time.Millisecond)
			if c.Len() != 0 {
				t.Errorf("not expired after %v: Len() = %d", tt.want, c.Len())
			}
		})
	}
}

func TestErrorOutlivesSuccess(t *testing.T) {
	c, clock := newFake()
	c.Success("Saved")
	errID := c.Error("Failed")

	clock.Advance(3 * time.Second)
	items := c.Items()
	if len(items) != 1 || items[0].ID != errID {
		t.Fatalf("after 3s Items() = %+v, want only the error", items)
	}

	clock.Advance(2 * time.Second)
	if c.Len() != 0 {
		t.Errorf("after 5s Len() = %d, want 0", c.Len())
	}
}

func TestStickyNotification(t *testing.T) {
	c, clock := newFake()
	id := c.Warning("Session expires soon", 0)

	clock.Advance(time.Hour)
	items := c.Items()
	if len(items) != 1 || items[0].ID != id {
		t.Fatalf("sticky notification expired: %+v", items)
	}
	if !items[0].Sticky() {
		t.Error("Sticky() = false, want true")
	}
	if c.Remaining(items[0]) != 0 {
		t.Errorf("Remaining(sticky) = %v, want 0", c.Remaining(items[0]))
	}
}

func TestRemoveIdempotent(t *testing.T) {
	c, _ := newFake()
	id := c.Info("x")
	keep := c.Info("y")

	c.Remove(id)
	c.Remove(id)
	c.Remove("missing")

	items := c.Items()
	if len(items) != 1 || items[0].ID != keep {
		t.Errorf("Items() = %+v, want only %s", items, keep)
	}
}

func TestInsertionOrderAndDuplicates(t *testing.T) {
	c, _ := newFake()
	a := c.Info("same")
	b := c.Info("same")
	d := c.Error("other")

	items := c.Items()
	if len(items) != 3 {
		t.Fatalf("len(Items()) = %d, want 3", len(items))
	}
	for i, want := range []string{a, b, d} {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %s, want %s", i, items[i].ID, want)
		}
	}
	if a == b {
		t.Error("ids should be unique")
	}
}

func TestClear(t *testing.T) {
	c, clock := newFake()
	c.Info("a")
	c.Error("b")
	c.Warning("c", 0)

	c.Clear()
	if c.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", c.Len())
	}

	// timers from before Clear must not touch new entries
	id := c.Info("fresh", 10*time.Second)
	clock.Advance(5 * time.Second)
	if items := c.Items(); len(items) != 1 || items[0].ID != id {
		t.Errorf("Items() = %+v, want the fresh notification", items)
	}
}

func TestDrain(t *testing.T) {
	c, clock := newFake()
	first := c.Success("Saved")

	drained := c.Drain()
	if len(drained) != 1 || drained[0].ID != first {
		t.Fatalf("Drain() = %+v", drained)
	}
	if again := c.Drain(); len(again) != 0 {
		t.Errorf("second Drain() = %+v, want empty", again)
	}
	if c.Len() != 1 {
		t.Errorf("Drain should not remove, Len() = %d", c.Len())
	}

	second := c.Error("Failed")
	drained = c.Drain()
	if len(drained) != 1 || drained[0].ID != second {
		t.Errorf("Drain() = %+v, want only the new error", drained)
	}

	clock.Advance(time.Second)
	items := c.Items()
	if got := c.Remaining(items[0]); got != 2*time.Second {
		t.Errorf("Remaining = %v, want 2s", got)
	}
}
