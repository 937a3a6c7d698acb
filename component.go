package hxdash

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"path/filepath"
	"runtime"
	"strings"
)

// actionFunc is the normalized form of every supported handler signature.
type actionFunc[P any] func(w http.ResponseWriter, r *http.Request, props P) Result[P]

// actionDef holds metadata about a registered action.
type actionDef[P any] struct {
	name   string
	method string
	handle actionFunc[P]
}

// Component[P] is the base type embedded by dashboard components.
// P is the Props type for this component.
//
//	type OrganizationsPage struct {
//	    *hxdash.Component[Props]
//	    orgs api.Service[entity.Organization]
//	}
//
//	func NewOrganizationsPage(orgs api.Service[entity.Organization]) *OrganizationsPage {
//	    c := &OrganizationsPage{Component: hxdash.New[Props]("organizations"), orgs: orgs}
//	    c.Action("refresh", c.handleRefresh)
//	    return c
//	}
//
// The embedding type must implement Hydrater[P] and Renderer[P]; the
// registry checks this when the component is added. Each instance receives
// a deterministic URL prefix derived from its name and the source location
// of the New call.
type Component[P any] struct {
	name      string
	prefix    string
	sensitive bool
	actions   map[string]*actionDef[P]
	encoder   *Encoder
	hydrater  Hydrater[P]
	renderer  Renderer[P]
	registry  *Registry
}

// New creates a new component with the given name.
//
// By default, props are signed (visible in URLs but tamper-proof via HMAC).
// Call .Sensitive() to encrypt them instead.
func New[P any](name string) *Component[P] {
	prefix := "/_c/" + name + "-" + componentHash(name, 1)
	return &Component[P]{
		name:    name,
		prefix:  prefix,
		actions: make(map[string]*actionDef[P]),
	}
}

// Sensitive marks the component as sensitive, enabling full encryption.
func (c *Component[P]) Sensitive() *Component[P] {
	c.sensitive = true
	return c
}

// Name returns the component's name.
func (c *Component[P]) Name() string {
	return c.name
}

// IsSensitive returns whether the component uses encrypted props.
func (c *Component[P]) IsSensitive() bool {
	return c.sensitive
}

// Action registers a named action handler with default POST method.
//
// Supported handler signatures:
//   - func(ctx, P) Result[P]
//   - func(ctx, P, *http.Request) Result[P]
//   - func(ctx, P, http.ResponseWriter) Result[P]
//   - func(ctx, P, http.ResponseWriter, *http.Request) Result[P]
//
// Any other signature panics at registration time.
func (c *Component[P]) Action(name string, handler any) *ActionBuilder {
	def := &actionDef[P]{
		name:   name,
		method: http.MethodPost,
		handle: adaptHandler[P](name, handler),
	}
	c.actions[name] = def
	return &ActionBuilder{method: &def.method}
}

func adaptHandler[P any](name string, handler any) actionFunc[P] {
	switch h := handler.(type) {
	case func(context.Context, P) Result[P]:
		return func(w http.ResponseWriter, r *http.Request, props P) Result[P] {
			return h(r.Context(), props)
		}
	case func(context.Context, P, *http.Request) Result[P]:
		return func(w http.ResponseWriter, r *http.Request, props P) Result[P] {
			return h(r.Context(), props, r)
		}
	case func(context.Context, P, http.ResponseWriter) Result[P]:
		return func(w http.ResponseWriter, r *http.Request, props P) Result[P] {
			return h(r.Context(), props, w)
		}
	case func(context.Context, P, http.ResponseWriter, *http.Request) Result[P]:
		return func(w http.ResponseWriter, r *http.Request, props P) Result[P] {
			return h(r.Context(), props, w, r)
		}
	default:
		panic(fmt.Sprintf("hxdash: action %q has unsupported handler type %T", name, handler))
	}
}

// Encoder returns the encoder for this component.
func (c *Component[P]) Encoder() *Encoder {
	return c.encoder
}

// mount binds the component to a registry. parent is the value passed to
// Registry.Add, i.e. the type embedding this Component.
func (c *Component[P]) mount(reg *Registry, parent any) {
	h, ok := parent.(Hydrater[P])
	if !ok {
		panic(fmt.Sprintf("hxdash: %T does not implement Hydrater", parent))
	}
	rn, ok := parent.(Renderer[P])
	if !ok {
		panic(fmt.Sprintf("hxdash: %T does not implement Renderer", parent))
	}
	c.hydrater = h
	c.renderer = rn
	c.encoder = reg.encoder
	c.registry = reg
}

// HXPrefix returns the component's URL prefix.
func (c *Component[P]) HXPrefix() string {
	return c.prefix
}

// HXServeHTTP decodes props, hydrates them, routes to the action handler
// and writes the Result.
func (c *Component[P]) HXServeHTTP(w http.ResponseWriter, r *http.Request) {
	if c.renderer == nil {
		http.Error(w, "component not registered", http.StatusInternalServerError)
		return
	}

	var props P
	encoded := r.URL.Query().Get("p")
	if encoded == "" {
		encoded = r.FormValue("p")
	}
	if encoded != "" {
		if err := c.encoder.Decode(encoded, c.sensitive, &props); err != nil {
			c.fail(w, r, WrapDecodeError(err))
			return
		}
	}

	if err := c.hydrater.Hydrate(r.Context(), &props); err != nil {
		c.fail(w, r, fmt.Errorf("%w: %w", ErrHydrationFailed, err))
		return
	}

	name := strings.Trim(strings.TrimPrefix(r.URL.Path, c.prefix), "/")
	if name == "" {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		c.write(w, r, OK(props))
		return
	}

	def, ok := c.actions[name]
	if !ok {
		http.NotFound(w, r)
		return
	}
	if def.method != r.Method {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	c.write(w, r, def.handle(w, r, props))
}

// write applies a Result: headers first, then status, then the rendered
// component followed by any flashes as OOB swaps.
func (c *Component[P]) write(w http.ResponseWriter, r *http.Request, result Result[P]) {
	if err := result.GetErr(); err != nil {
		c.fail(w, r, err)
		return
	}

	for k, v := range result.GetHeaders() {
		w.Header().Set(k, v)
	}
	if trigger := BuildTriggerHeader(result.GetTrigger(), result.GetTriggerData()); trigger != "" {
		w.Header().Set("HX-Trigger", trigger)
	}

	if redirect := result.GetRedirect(); redirect != "" {
		w.Header().Set("HX-Redirect", redirect)
		if status := result.GetStatus(); status != 0 {
			w.WriteHeader(status)
		}
		return
	}

	if result.ShouldSkip() {
		return
	}

	var buf bytes.Buffer
	if err := c.renderer.Render(r.Context(), result.GetProps()).Render(r.Context(), &buf); err != nil {
		c.fail(w, r, err)
		return
	}

	flashes := result.GetFlashes()
	if c.registry != nil && c.registry.Flashes != nil {
		flashes = append(flashes, c.registry.Flashes.Pending(r)...)
	}
	buf.WriteString(RenderFlashesOOB(flashes))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if status := result.GetStatus(); status != 0 {
		w.WriteHeader(status)
	}
	_, _ = w.Write(buf.Bytes())
}

func (c *Component[P]) fail(w http.ResponseWriter, r *http.Request, err error) {
	if c.registry != nil && c.registry.OnError != nil {
		c.registry.OnError(w, r, err)
		return
	}
	http.Error(w, "Internal error", http.StatusInternalServerError)
}

// Call returns an action builder for a registered action, using the
// action's HTTP method. Calling an unknown action panics so typos surface
// on first render.
//
//	c.Call("delete", props).Vals(map[string]any{"id": id}).Attrs()
func (c *Component[P]) Call(action string, props P) *Action {
	def, ok := c.actions[action]
	if !ok {
		panic(fmt.Sprintf("hxdash: component %q has no action %q", c.name, action))
	}
	return NewAction(c.buildURL(action, props), def.method)
}

// Refresh returns an action builder for the default render (GET).
//
//	c.Refresh(props).Trigger("organization:saved from:body").Attrs()
func (c *Component[P]) Refresh(props P) *Action {
	return NewAction(c.buildURL("", props), http.MethodGet)
}

// buildURL constructs the URL for an action with encoded props.
// Empty action string means default render (GET).
func (c *Component[P]) buildURL(action string, props P) string {
	path := c.prefix + "/"
	if action != "" {
		path = c.prefix + "/" + action
	}

	if c.encoder == nil {
		return path
	}

	encoded, err := c.encoder.Encode(props, c.sensitive)
	if err != nil {
		if c.registry != nil {
			c.registry.logger().Error("encode props", "component", c.name, "err", err)
		}
		return path
	}

	return path + "?p=" + encoded
}

// componentHash generates a deterministic hash based on component name and source location.
func componentHash(name string, skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	var input string
	if ok {
		input = fmt.Sprintf("%s:%d:%s", filepath.Base(file), line, name)
	} else {
		input = name
	}
	h := sha256.Sum256([]byte(input))
	return hex.EncodeToString(h[:4])
}
