package hxdash

import (
	"context"
	"errors"
	"io"

	"github.com/a-h/templ"
)

// Sentinel errors for component operations.
var (
	ErrNotFound         = errors.New("hxdash: resource not found")
	ErrDecryptFailed    = errors.New("hxdash: parameter decryption failed")
	ErrSignatureInvalid = errors.New("hxdash: signature verification failed")
	ErrInvalidFormat    = errors.New("hxdash: invalid parameter format")
	ErrHydrationFailed  = errors.New("hxdash: hydration failed")
	ErrUnauthorized     = errors.New("hxdash: not logged in")
)

// IsNotFound checks if err is a not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsDecryptionError checks if err is a decryption, signature or format error.
func IsDecryptionError(err error) bool {
	return errors.Is(err, ErrDecryptFailed) ||
		errors.Is(err, ErrSignatureInvalid) ||
		errors.Is(err, ErrInvalidFormat)
}

// IsUnauthorized checks if err means the staff user must sign in first.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// ErrorComponent renders an inline error banner. The registry's default
// OnError handler sends it as the body of failed HTMX requests.
func ErrorComponent(err error) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, werr := io.WriteString(w, `<div class="hxdash-error" role="alert">Error: `+templ.EscapeString(err.Error())+`</div>`)
		return werr
	})
}
