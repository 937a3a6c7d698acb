package hxdash

import (
	"bytes"
	"context"
	"encoding/json"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
)

// TestResult holds the result of rendering a component for testing.
//
// Provides convenience methods for asserting on HTML content, headers,
// status codes, events, flashes, and redirects.
type TestResult struct {
	HTML            string
	StatusCode      int
	Headers         http.Header
	TriggeredEvents []string
	Flashes         []Flash
	RedirectURL     string
}

// TestableComponent combines Hydrater and Renderer for testing.
type TestableComponent[P any] interface {
	Hydrater[P]
	Renderer[P]
}

// TestRender renders a component and returns testable output.
//
// Use this for pure unit tests of rendering logic when you control props
// directly. It bypasses URL encoding and runs only Hydrate + Render.
//
//	result, err := hxdash.TestRender(page, props)
//	if !result.HTMLContains("Organizations") {
//	    t.Fatal("missing title")
//	}
func TestRender[P any](comp TestableComponent[P], props P) (*TestResult, error) {
	return TestRenderWithContext(context.Background(), comp, props)
}

// TestRenderWithContext renders a component with a custom context, for
// components that read the workspace or the user from the context.
func TestRenderWithContext[P any](ctx context.Context, comp TestableComponent[P], props P) (*TestResult, error) {
	if err := comp.Hydrate(ctx, &props); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := comp.Render(ctx, props).Render(ctx, &buf); err != nil {
		return nil, err
	}

	return &TestResult{
		HTML:       buf.String(),
		StatusCode: http.StatusOK,
		Headers:    make(http.Header),
	}, nil
}

// TestAction simulates an action request against an HXComponent.
//
// This runs the full HTTP lifecycle: decoding, hydration, handler execution
// and response rendering.
//
//	result, err := hxdash.TestAction(page, page.Call("submit", props).URL(), "POST", map[string]string{
//	    "name": "Acme",
//	})
func TestAction(comp HXComponent, actionURL, method string, formData map[string]string) (*TestResult, error) {
	return NewTestRequest(method, actionURL).WithFormValues(formData).Execute(comp)
}

// TestActionWithContext simulates an action request with a custom context.
func TestActionWithContext(ctx context.Context, comp HXComponent, actionURL, method string, formData map[string]string) (*TestResult, error) {
	return NewTestRequest(method, actionURL).WithFormValues(formData).WithContext(ctx).Execute(comp)
}

// HTMLContains checks if the HTML contains a substring.
func (r *TestResult) HTMLContains(substr string) bool {
	return strings.Contains(r.HTML, substr)
}

// HTMLContainsAll checks if the HTML contains all the given substrings.
func (r *TestResult) HTMLContainsAll(substrs ...string) bool {
	for _, s := range substrs {
		if !strings.Contains(r.HTML, s) {
			return false
		}
	}
	return true
}

// HasEvent checks if an event was triggered.
func (r *TestResult) HasEvent(event string) bool {
	for _, e := range r.TriggeredEvents {
		if e == event {
			return true
		}
	}
	return false
}

// HasFlash checks if a flash message was set with the given level and message.
func (r *TestResult) HasFlash(level, message string) bool {
	for _, f := range r.Flashes {
		if f.Level == level && f.Message == message {
			return true
		}
	}
	return false
}

// HasFlashLevel checks if any flash message was set with the given level.
func (r *TestResult) HasFlashLevel(level string) bool {
	for _, f := range r.Flashes {
		if f.Level == level {
			return true
		}
	}
	return false
}

// IsOK checks if the status code is 200.
func (r *TestResult) IsOK() bool {
	return r.StatusCode == http.StatusOK
}

// GetHeader returns the value of a header.
func (r *TestResult) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// parseTriggerHeader parses the HX-Trigger header value into event names.
// The header is either a comma separated list of names or a JSON object
// keyed by event name.
func parseTriggerHeader(trigger string) []string {
	trigger = strings.TrimSpace(trigger)
	if trigger == "" {
		return nil
	}

	if strings.HasPrefix(trigger, "{") {
		var payload map[string]json.RawMessage
		if err := json.Unmarshal([]byte(trigger), &payload); err != nil {
			return nil
		}
		events := make([]string, 0, len(payload))
		for name := range payload {
			events = append(events, name)
		}
		return events
	}

	parts := strings.Split(trigger, ",")
	events := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			events = append(events, p)
		}
	}
	return events
}

// parseFlashesFromHTML extracts flash messages from toast markup:
// <div class="toast toast-success" ...><span>message</span>...</div>
func parseFlashesFromHTML(body string) []Flash {
	var flashes []Flash

	const prefix = `<div class="toast toast-`
	rest := body
	for {
		start := strings.Index(rest, prefix)
		if start == -1 {
			break
		}
		rest = rest[start+len(prefix):]

		level, after, ok := strings.Cut(rest, `"`)
		if !ok {
			break
		}
		_, after, ok = strings.Cut(after, "<span>")
		if !ok {
			break
		}
		message, after, ok := strings.Cut(after, "</span>")
		if !ok {
			break
		}

		flashes = append(flashes, Flash{
			Level:   html.UnescapeString(level),
			Message: html.UnescapeString(message),
		})
		rest = after
	}

	return flashes
}

// TestRequestBuilder provides a fluent interface for building test requests.
//
//	result, err := hxdash.NewTestRequest("POST", actionURL).
//	    WithFormValues(map[string]string{"name": "Acme"}).
//	    WithHeader("HX-Trigger-Name", "name").
//	    WithContext(ctx).
//	    Execute(page)
type TestRequestBuilder struct {
	method   string
	url      string
	formData map[string]string
	headers  map[string]string
	ctx      context.Context
}

// NewTestRequest creates a new test request builder.
func NewTestRequest(method, url string) *TestRequestBuilder {
	return &TestRequestBuilder{
		method:   method,
		url:      url,
		formData: make(map[string]string),
		headers:  make(map[string]string),
		ctx:      context.Background(),
	}
}

// WithFormValues adds multiple form values to the request.
func (b *TestRequestBuilder) WithFormValues(data map[string]string) *TestRequestBuilder {
	for k, v := range data {
		b.formData[k] = v
	}
	return b
}

// WithHeader adds a header to the request.
func (b *TestRequestBuilder) WithHeader(key, value string) *TestRequestBuilder {
	b.headers[key] = value
	return b
}

// WithContext sets the context for the request.
func (b *TestRequestBuilder) WithContext(ctx context.Context) *TestRequestBuilder {
	b.ctx = ctx
	return b
}

// Build returns the *http.Request without executing it, for handlers that
// are not HXComponents (the registry handler, the echo adapter).
func (b *TestRequestBuilder) Build() *http.Request {
	form := url.Values{}
	for k, v := range b.formData {
		form.Set(k, v)
	}

	req := httptest.NewRequest(b.method, b.url, strings.NewReader(form.Encode()))
	req = req.WithContext(b.ctx)
	req.Header.Set("HX-Request", "true")
	if len(b.formData) > 0 {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	for k, v := range b.headers {
		req.Header.Set(k, v)
	}
	return req
}

// Execute executes the request against an HXComponent.
func (b *TestRequestBuilder) Execute(comp HXComponent) (*TestResult, error) {
	rec := httptest.NewRecorder()
	comp.HXServeHTTP(rec, b.Build())
	return NewTestResult(rec), nil
}

// NewTestResult converts a recorded response into a TestResult.
func NewTestResult(rec *httptest.ResponseRecorder) *TestResult {
	result := &TestResult{
		HTML:       rec.Body.String(),
		StatusCode: rec.Code,
		Headers:    rec.Header(),
	}
	if trigger := rec.Header().Get("HX-Trigger"); trigger != "" {
		result.TriggeredEvents = parseTriggerHeader(trigger)
	}
	if redirect := rec.Header().Get("HX-Redirect"); redirect != "" {
		result.RedirectURL = redirect
	}
	result.Flashes = parseFlashesFromHTML(result.HTML)
	return result
}
