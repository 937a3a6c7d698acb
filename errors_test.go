package hxdash

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/pthm/hxdash/lib/encoding"
)

func TestErrorClassification(t *testing.T) {
	hydrateSignedOut := fmt.Errorf("%w: %w", ErrHydrationFailed, ErrUnauthorized)

	tests := []struct {
		name         string
		err          error
		notFound     bool
		decode       bool
		unauthorized bool
	}{
		{"missing form", fmt.Errorf("%w: form %q", ErrNotFound, "archive"), true, false, false},
		{"signed out during hydrate", hydrateSignedOut, false, false, true},
		{"forged props", WrapDecodeError(fmt.Errorf("%w: bad mac", encoding.ErrSignatureInvalid)), false, true, false},
		{"garbled props", WrapDecodeError(encoding.ErrInvalidFormat), false, true, false},
		{"undecryptable props", WrapDecodeError(encoding.ErrDecryptFailed), false, true, false},
		{"remote failure", errors.New("apiclient: 502"), false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotFound(tt.err); got != tt.notFound {
				t.Errorf("IsNotFound = %v", got)
			}
			if got := IsDecryptionError(tt.err); got != tt.decode {
				t.Errorf("IsDecryptionError = %v", got)
			}
			if got := IsUnauthorized(tt.err); got != tt.unauthorized {
				t.Errorf("IsUnauthorized = %v", got)
			}
		})
	}
}

func TestWrapDecodeErrorPassesOthersThrough(t *testing.T) {
	if WrapDecodeError(nil) != nil {
		t.Error("WrapDecodeError(nil) != nil")
	}
	other := errors.New("msgpack: short buffer")
	if got := WrapDecodeError(other); got != other {
		t.Errorf("WrapDecodeError = %v, want the same error", got)
	}
}

func TestErrorComponentEscapes(t *testing.T) {
	var sb strings.Builder
	err := ErrorComponent(errors.New(`category "<script>" not found`)).Render(context.Background(), &sb)
	if err != nil {
		t.Fatal(err)
	}
	want := `<div class="hxdash-error" role="alert">Error: category &#34;&lt;script&gt;&#34; not found</div>`
	if sb.String() != want {
		t.Errorf("ErrorComponent =\n%s\nwant\n%s", sb.String(), want)
	}
}
