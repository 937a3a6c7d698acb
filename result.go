package hxdash

import "time"

// Result[P] is returned from action handlers to control rendering and side effects.
//
// Result is a fluent builder that lets handlers specify flash messages,
// redirects, events and headers without writing to the ResponseWriter. The
// component runtime applies it after the handler returns and calls Render
// as appropriate.
//
//	return hxdash.OK(props)
//	return hxdash.OK(props).Flash(hxdash.FlashSuccess, "Saved")
//	return hxdash.Err(props, err)
//	return hxdash.Redirect[Props]("/organizations")
//	return hxdash.OK(props).Trigger("organization:saved", map[string]any{"id": id})
type Result[P any] struct {
	props       P
	err         error
	redirect    string
	flashes     []Flash
	trigger     string
	triggerData map[string]any
	headers     map[string]string
	status      int
	skip        bool
}

// OK creates a success result that will auto-render with the given props.
func OK[P any](props P) Result[P] {
	return Result[P]{props: props}
}

// Err creates an error result that passes the error to the registry's
// OnError handler. Use it for failures the page cannot turn into state
// (bad props, missing workspace). Request failures against the remote
// services belong in controller error fields and notifications instead.
func Err[P any](props P, err error) Result[P] {
	return Result[P]{props: props, err: err}
}

// Skip creates a result indicating the handler wrote its own response,
// for example a file download.
func Skip[P any]() Result[P] {
	return Result[P]{skip: true}
}

// Redirect creates a result that will redirect via HX-Redirect header.
func Redirect[P any](url string) Result[P] {
	var zero P
	return Result[P]{props: zero, redirect: url}
}

// Flash adds a toast with the level's default auto-dismiss delay.
//
//	return hxdash.OK(props).
//	    Flash(hxdash.FlashSuccess, "Category created").
//	    Flash(hxdash.FlashInfo, "Autoposting rules were not changed")
func (r Result[P]) Flash(level, message string) Result[P] {
	return r.FlashFor(level, message, FlashDuration(level))
}

// FlashFor adds a toast with an explicit auto-dismiss delay. Zero keeps
// the toast until it is closed.
func (r Result[P]) FlashFor(level, message string, d time.Duration) Result[P] {
	r.flashes = append(r.flashes, Flash{Level: level, Message: message, Duration: d})
	return r
}

// Trigger emits an event via HX-Trigger header for component communication.
//
// Other components listen with hx-trigger="<event> from:body". When data is
// provided it is sent as the event detail.
func (r Result[P]) Trigger(event string, data ...map[string]any) Result[P] {
	r.trigger = event
	if len(data) > 0 {
		r.triggerData = data[0]
	}
	return r
}

// PushURL updates the browser URL via HX-Push-Url header.
func (r Result[P]) PushURL(url string) Result[P] {
	return r.Header("HX-Push-Url", url)
}

// Header sets a custom response header.
func (r Result[P]) Header(key, value string) Result[P] {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

// Status sets the HTTP status code.
//
// The default is 200. Validation failures rendered back into a form still
// use 200 so HTMX swaps the response.
func (r Result[P]) Status(code int) Result[P] {
	r.status = code
	return r
}

// GetProps returns the props from the result.
func (r Result[P]) GetProps() P {
	return r.props
}

// GetErr returns the error from the result.
func (r Result[P]) GetErr() error {
	return r.err
}

// GetRedirect returns the redirect URL.
func (r Result[P]) GetRedirect() string {
	return r.redirect
}

// GetFlashes returns the flash messages.
func (r Result[P]) GetFlashes() []Flash {
	return r.flashes
}

// GetTrigger returns the trigger event name.
func (r Result[P]) GetTrigger() string {
	return r.trigger
}

// GetTriggerData returns the trigger event data.
func (r Result[P]) GetTriggerData() map[string]any {
	return r.triggerData
}

// GetHeaders returns the response headers.
func (r Result[P]) GetHeaders() map[string]string {
	return r.headers
}

// GetStatus returns the HTTP status code (0 means not set, use default 200).
func (r Result[P]) GetStatus() int {
	return r.status
}

// ShouldSkip returns whether the handler wrote its own response.
func (r Result[P]) ShouldSkip() bool {
	return r.skip
}
