package hxdash

import (
	"encoding/json"
	"net/http"

	"github.com/a-h/templ"
)

// Render writes a templ component to the HTTP response.
//
// Use it for full pages outside the component routes:
//
//	func handleLogin(w http.ResponseWriter, r *http.Request) {
//	    hxdash.Render(w, r, loginPage())
//	}
func Render(w http.ResponseWriter, r *http.Request, component templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return component.Render(r.Context(), w)
}

// IsHTMX returns true if the request originated from HTMX.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// TriggerName returns the name attribute of the element that triggered the request.
//
// Form fields post their changes with their own name, which is how the
// form builder tells which field changed.
func TriggerName(r *http.Request) string {
	return r.Header.Get("HX-Trigger-Name")
}

// BuildTriggerHeader builds a properly formatted HX-Trigger header value.
//
//  1. Simple event name: "item-updated" -> "item-updated"
//  2. Event with data: "organization:saved" + {"id": 3} -> {"organization:saved": {"id": 3}}
//
// Returns empty string when there is no event.
func BuildTriggerHeader(trigger string, triggerData map[string]any) string {
	if trigger == "" {
		return ""
	}
	if triggerData == nil {
		return trigger
	}

	data, err := json.Marshal(map[string]any{trigger: triggerData})
	if err != nil {
		return trigger
	}
	return string(data)
}
