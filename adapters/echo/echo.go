// Package hxdashecho mounts hxdash components on an Echo server.
//
//	e := echo.New()
//	reg := hxdashecho.Mount(e, hxdashecho.WithKey(secret))
//	reg.Add(pages.NewLoginPage(store))
//
// Or on a group sharing its middleware:
//
//	g := e.Group("", sessionMiddleware)
//	reg := hxdashecho.MountGroup(g)
package hxdashecho

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/pthm/hxdash"
)

// Option configures Mount and MountGroup.
type Option func(*options)

type options struct {
	key     []byte
	path    string
	flashes hxdash.FlashSource
	logger  *slog.Logger
}

// WithKey sets the props key. Without one a random key is generated, so
// URLs do not survive a restart.
func WithKey(key []byte) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithPath sets the URL prefix for component routes. Defaults to "/_c/".
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithFlashes sets the registry's FlashSource.
func WithFlashes(src hxdash.FlashSource) Option {
	return func(o *options) {
		o.flashes = src
	}
}

// WithLogger sets the registry's logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// Mount creates a registry and serves it on e.
func Mount(e *echo.Echo, opts ...Option) *hxdash.Registry {
	reg, path := newRegistry(opts)
	e.Any(path+"*", echo.WrapHandler(reg.Handler()))
	return reg
}

// MountGroup creates a registry and serves it on g, behind the group's
// middleware.
func MountGroup(g *echo.Group, opts ...Option) *hxdash.Registry {
	reg, path := newRegistry(opts)
	g.Any(path+"*", echo.WrapHandler(reg.Handler()))
	return reg
}

func newRegistry(opts []Option) (*hxdash.Registry, string) {
	o := &options{path: "/_c/"}
	for _, opt := range opts {
		opt(o)
	}

	key := o.key
	if key == nil {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("hxdashecho: failed to generate random key: %v", err))
		}
	}

	reg := hxdash.NewRegistry(key)
	reg.Flashes = o.flashes
	reg.Logger = o.logger
	return reg, o.path
}

// Render writes a templ component to the Echo response.
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(c.Request().Context(), c.Response())
}

// Redirect sends HTMX requests an HX-Redirect and everything else a 303.
func Redirect(c echo.Context, url string) error {
	if hxdash.IsHTMX(c.Request()) {
		c.Response().Header().Set("HX-Redirect", url)
		return c.NoContent(http.StatusOK)
	}
	return c.Redirect(http.StatusSeeOther, url)
}
