package hxdash

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/a-h/templ"
)

// ActionBuilder configures action registration (e.g., HTTP method override).
//
//	c.Action("save", c.handleSave)                            // POST by default
//	c.Action("export", c.handleExport).Method(http.MethodGet)
type ActionBuilder struct {
	method *string
}

// Method overrides the default POST method for an action.
func (ab *ActionBuilder) Method(m string) *ActionBuilder {
	*ab.method = m
	return ab
}

// Action builds the HTMX attributes for one request to a component action.
//
// Components hand out Actions from Call and Refresh; views turn them into
// attributes with Attrs:
//
//	page.Call("delete", props).Vals(map[string]any{"id": org.ID}).Target("#orgs").Attrs()
type Action struct {
	url     string
	method  string
	target  string
	swap    SwapMode
	trigger string
	include string
	sel     string
	vals    map[string]any
}

// NewAction creates an action for url using the given HTTP method.
// An empty method means GET. The swap mode defaults to outerHTML.
func NewAction(url, method string) *Action {
	if method == "" {
		method = http.MethodGet
	}
	return &Action{url: url, method: method, swap: SwapOuter}
}

// URL returns the request URL including encoded props.
func (a *Action) URL() string { return a.url }

// Method returns the HTTP method.
func (a *Action) Method() string { return a.method }

// Target sets hx-target to a CSS selector.
func (a *Action) Target(selector string) *Action {
	a.target = selector
	return a
}

// SwapNone discards the response body. Headers and OOB toasts still apply.
func (a *Action) SwapNone() *Action {
	a.swap = SwapNone
	return a
}

// Trigger sets a raw hx-trigger expression.
func (a *Action) Trigger(expr string) *Action {
	a.trigger = expr
	return a
}

// OnChange fires on input changes, debounced by delay. A zero delay sends
// every change immediately.
func (a *Action) OnChange(delay time.Duration) *Action {
	if delay <= 0 {
		return a.Trigger("change")
	}
	return a.Trigger("input changed delay:" + formatDelay(delay) + ", change")
}

// OnClickConsume fires on click and stops the click from triggering HTMX
// requests of ancestor elements (row click handlers).
func (a *Action) OnClickConsume() *Action { return a.Trigger("click consume") }

// Include adds the values of the elements matching selector to the request.
func (a *Action) Include(selector string) *Action {
	a.include = selector
	return a
}

// Select swaps only the part of the response matching selector.
func (a *Action) Select(selector string) *Action {
	a.sel = selector
	return a
}

// Vals merges extra values into hx-vals.
func (a *Action) Vals(vals map[string]any) *Action {
	if a.vals == nil {
		a.vals = make(map[string]any, len(vals))
	}
	for k, v := range vals {
		a.vals[k] = v
	}
	return a
}

// Attrs returns the HTMX attributes for use in views.
func (a *Action) Attrs() templ.Attributes {
	attrs := templ.Attributes{}
	switch a.method {
	case http.MethodPost:
		attrs["hx-post"] = a.url
	case http.MethodPut:
		attrs["hx-put"] = a.url
	case http.MethodPatch:
		attrs["hx-patch"] = a.url
	case http.MethodDelete:
		attrs["hx-delete"] = a.url
	default:
		attrs["hx-get"] = a.url
	}
	if a.swap != "" {
		attrs["hx-swap"] = string(a.swap)
	}
	if a.target != "" {
		attrs["hx-target"] = a.target
	}
	if a.trigger != "" {
		attrs["hx-trigger"] = a.trigger
	}
	if a.include != "" {
		attrs["hx-include"] = a.include
	}
	if a.sel != "" {
		attrs["hx-select"] = a.sel
	}
	if len(a.vals) > 0 {
		data, err := json.Marshal(a.vals)
		if err == nil {
			attrs["hx-vals"] = string(data)
		}
	}
	return attrs
}

func formatDelay(d time.Duration) string {
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int64(d/time.Second))
	}
	return fmt.Sprintf("%dms", d.Milliseconds())
}
