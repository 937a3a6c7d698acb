package hxdash

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestFlashDurationByLevel(t *testing.T) {
	tests := map[string]time.Duration{
		FlashSuccess: 3 * time.Second,
		FlashInfo:    3 * time.Second,
		FlashWarning: 3 * time.Second,
		FlashError:   5 * time.Second,
	}
	for level, want := range tests {
		if got := FlashDuration(level); got != want {
			t.Errorf("FlashDuration(%q) = %v, want %v", level, got, want)
		}
	}
}

func TestRenderFlashesOOB(t *testing.T) {
	if got := RenderFlashesOOB(nil); got != "" {
		t.Errorf("RenderFlashesOOB(nil) = %q", got)
	}

	got := RenderFlashesOOB([]Flash{
		{ID: "n1", Level: FlashSuccess, Message: "Category created", Duration: 3 * time.Second},
		{Level: FlashError, Message: "Failed to delete"},
	})
	want := `<div id="toasts" hx-swap-oob="beforeend">` +
		`<div class="toast toast-success" id="toast-n1" data-auto-dismiss="3000"><span>Category created</span>` +
		`<button type="button" class="toast-close" aria-label="Close">&times;</button></div>` +
		`<div class="toast toast-error"><span>Failed to delete</span>` +
		`<button type="button" class="toast-close" aria-label="Close">&times;</button></div>` +
		`</div>`
	if got != want {
		t.Errorf("RenderFlashesOOB =\n%s\nwant\n%s", got, want)
	}
}

func TestToastEscaping(t *testing.T) {
	got := RenderFlashesOOB([]Flash{{ID: `"x`, Level: `warn"ing`, Message: "Deleted 2 of 3: <b>locked</b>"}})
	for _, bad := range []string{"<b>", `warn"ing`, `toast-"x`} {
		if strings.Contains(got, bad) {
			t.Errorf("unescaped %q in %s", bad, got)
		}
	}
	flashes := parseFlashesFromHTML(got)
	if len(flashes) != 1 || flashes[0].Message != "Deleted 2 of 3: <b>locked</b>" {
		t.Errorf("round trip = %+v", flashes)
	}
}

func TestToastContainerPrefilled(t *testing.T) {
	var sb strings.Builder
	err := ToastContainer([]Flash{{ID: "9", Level: FlashInfo, Message: "Signed in as 42"}}).Render(context.Background(), &sb)
	if err != nil {
		t.Fatal(err)
	}
	html := sb.String()
	if !strings.HasPrefix(html, `<div id="toasts" class="toast-container">`) {
		t.Errorf("container = %s", html)
	}
	if strings.Contains(html, "hx-swap-oob") {
		t.Error("full page container must not be an OOB swap")
	}
	if strings.Contains(html, "data-auto-dismiss") {
		t.Error("zero duration toast should be sticky")
	}
	if got := parseFlashesFromHTML(html); len(got) != 1 || got[0].Level != FlashInfo {
		t.Errorf("flashes = %+v", got)
	}
}
