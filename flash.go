package hxdash

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
)

// Flash levels for toast notifications.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashWarning = "warning"
	FlashInfo    = "info"
)

// Default auto-dismiss delays. Errors stay up longer so they can be read.
const (
	DefaultFlashDuration = 3 * time.Second
	ErrorFlashDuration   = 5 * time.Second
)

// Flash represents a one-time notification message.
//
// Flash messages are rendered as out-of-band (OOB) swaps that append to
// the #toasts container. The layout script removes each toast after its
// data-auto-dismiss delay. A zero Duration renders a sticky toast that only
// goes away when the user closes it.
//
//	return hxdash.OK(props).Flash("success", "Organization saved")
type Flash struct {
	ID       string
	Level    string // success, error, warning, info
	Message  string
	Duration time.Duration
}

// FlashSource supplies flashes queued outside of the handler's Result,
// typically a per-browser notification queue. Pending returns only flashes
// that were not handed out before.
type FlashSource interface {
	Pending(r *http.Request) []Flash
}

// FlashDuration returns the default auto-dismiss delay for a level.
func FlashDuration(level string) time.Duration {
	if level == FlashError {
		return ErrorFlashDuration
	}
	return DefaultFlashDuration
}

// RenderFlashesOOB renders flashes as OOB swap HTML.
//
// Generates HTML that appends to the #toasts container using the
// hx-swap-oob="beforeend" attribute.
func RenderFlashesOOB(flashes []Flash) string {
	if len(flashes) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(`<div id="toasts" hx-swap-oob="beforeend">`)
	for _, f := range flashes {
		writeToast(&sb, f)
	}
	sb.WriteString(`</div>`)
	return sb.String()
}

func writeToast(sb *strings.Builder, f Flash) {
	sb.WriteString(`<div class="toast toast-`)
	sb.WriteString(templ.EscapeString(f.Level))
	sb.WriteString(`"`)
	if f.ID != "" {
		sb.WriteString(` id="toast-`)
		sb.WriteString(templ.EscapeString(f.ID))
		sb.WriteString(`"`)
	}
	if f.Duration > 0 {
		sb.WriteString(` data-auto-dismiss="`)
		sb.WriteString(strconv.FormatInt(f.Duration.Milliseconds(), 10))
		sb.WriteString(`"`)
	}
	sb.WriteString(`><span>`)
	sb.WriteString(templ.EscapeString(f.Message))
	sb.WriteString(`</span><button type="button" class="toast-close" aria-label="Close">&times;</button></div>`)
}

// ToastContainer returns a templ component for the toast container,
// pre-filled with flashes that are still live (for full page loads).
//
//	@hxdash.ToastContainer(flashes)
func ToastContainer(flashes []Flash) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var sb strings.Builder
		sb.WriteString(`<div id="toasts" class="toast-container">`)
		for _, f := range flashes {
			writeToast(&sb, f)
		}
		sb.WriteString(`</div>`)
		_, err := io.WriteString(w, sb.String())
		return err
	})
}
