package hxdash

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"
)

// mountable is satisfied by every type embedding *Component[P].
type mountable interface {
	HXComponent
	mount(reg *Registry, parent any)
}

// Registry manages component registration and routing.
type Registry struct {
	mu         sync.RWMutex
	mux        *http.ServeMux
	encoder    *Encoder
	components map[string]any // map[prefix]component

	// OnError is called when a component fails: undecodable props,
	// hydration errors or Err results.
	OnError func(http.ResponseWriter, *http.Request, error)

	// Flashes, when set, supplies queued notifications that are appended
	// to every rendered response as OOB toasts.
	Flashes FlashSource

	// Logger receives component failures. Defaults to slog.Default().
	Logger *slog.Logger
}

// NewRegistry creates a new component registry with the given encryption key.
func NewRegistry(encryptionKey []byte) *Registry {
	enc, err := NewEncoder(encryptionKey)
	if err != nil {
		panic(fmt.Sprintf("hxdash: failed to create encoder: %v", err))
	}

	reg := &Registry{
		mux:        http.NewServeMux(),
		encoder:    enc,
		components: make(map[string]any),
	}
	reg.OnError = reg.defaultOnError
	return reg
}

func (reg *Registry) defaultOnError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case IsNotFound(err):
		status = http.StatusNotFound
	case IsDecryptionError(err):
		status = http.StatusBadRequest
	case IsUnauthorized(err):
		w.Header().Set("HX-Redirect", "/login")
		status = http.StatusUnauthorized
	}
	reg.logger().Error("component request failed",
		"path", r.URL.Path, "method", r.Method, "status", status, "err", err)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_ = ErrorComponent(err).Render(r.Context(), w)
}

func (reg *Registry) logger() *slog.Logger {
	if reg.Logger != nil {
		return reg.Logger
	}
	return slog.Default()
}

// Encoder returns the registry's encoder (used by components).
func (reg *Registry) Encoder() *Encoder {
	return reg.encoder
}

// Add registers components with the registry.
// Components must embed *hxdash.Component[P] and implement Hydrater and
// Renderer. Panics if a component doesn't meet requirements or has a
// prefix collision.
func (reg *Registry) Add(components ...any) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	for _, comp := range components {
		reg.registerComponent(comp)
	}
}

func (reg *Registry) registerComponent(comp any) {
	m, ok := comp.(mountable)
	if !ok {
		panic(fmt.Sprintf("hxdash: %T does not embed *hxdash.Component[P]", comp))
	}

	prefix := m.HXPrefix()
	if _, exists := reg.components[prefix]; exists {
		panic(fmt.Sprintf("hxdash: prefix collision for %q", prefix))
	}
	m.mount(reg, comp)
	reg.components[prefix] = comp

	reg.mux.HandleFunc(prefix+"/", m.HXServeHTTP)
}

// Handler returns the HTTP handler for component routes.
// Mount this at "/_c/" in your application.
func (reg *Registry) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// CSRF protection: mutating methods require HX-Request header
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			if r.Header.Get("HX-Request") != "true" {
				http.Error(w, "Forbidden: HTMX request required", http.StatusForbidden)
				return
			}
		}

		reg.mux.ServeHTTP(w, r)
	})
}
