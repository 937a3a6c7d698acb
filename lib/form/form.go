// Package form implements the entity form controller used for both
// creating and editing records.
//
// The controller holds Values, validates them before submitting and turns
// every failure into its Error field. It does not close dialogs or refresh
// lists after a successful submit; the Submit handler does that, so one
// controller type serves create and edit with different follow-ups.
//
// Overlapping Submit calls are not rejected. Callers disable the submit
// button while State().Submitting is true.
package form

import (
	"context"
	"errors"
	"log/slog"
	"reflect"
	"sync"

	"github.com/pthm/hxdash/lib/apiclient"
)

// DefaultErrorMessage is shown when a remote call fails without a server
// detail.
const DefaultErrorMessage = "Failed to save"

// Mode says whether the form creates a new entity or edits one.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeEdit   Mode = "edit"
)

// SubmitFunc sends the values to the remote service.
type SubmitFunc func(ctx context.Context, values Values, mode Mode) error

// Options configures a Controller.
type Options struct {
	Initial  Values
	Validate Validator
	Submit   SubmitFunc
	Logger   *slog.Logger
}

// State is a snapshot for rendering.
type State struct {
	Values     Values
	Mode       Mode
	Submitting bool
	Error      string
	// FieldErrors holds the first validation message per field.
	FieldErrors map[string]string
	Dirty       bool
}

// Controller holds one form. It is safe for concurrent use.
type Controller struct {
	mu          sync.Mutex
	opts        Options
	values      Values
	snapshot    Values
	mode        Mode
	submitting  bool
	err         string
	fieldErrors map[string]string
	logger      *slog.Logger
}

// New creates a form in create mode holding a copy of opts.Initial.
func New(opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	c := &Controller{opts: opts, logger: logger}
	c.resetLocked(ModeCreate, opts.Initial)
	return c
}

func (c *Controller) resetLocked(mode Mode, values Values) {
	c.values = values.Clone()
	c.snapshot = values.Clone()
	c.mode = mode
	c.clearErrorLocked()
}

func (c *Controller) clearErrorLocked() {
	c.err = ""
	c.fieldErrors = nil
}

// UpdateField sets one value and clears the error.
func (c *Controller) UpdateField(name string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[name] = value
	c.clearErrorLocked()
}

// UpdateFields merges partial into the values and clears the error.
func (c *Controller) UpdateFields(partial Values) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range partial.Clone() {
		c.values[k] = v
	}
	c.clearErrorLocked()
}

// SwitchToCreate resets the values to the initial ones in create mode.
func (c *Controller) SwitchToCreate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked(ModeCreate, c.opts.Initial)
}

// Edit switches to edit mode with values produced from an entity.
func (c *Controller) Edit(values Values) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked(ModeEdit, values)
}

// SwitchToEdit switches c to edit mode with the values transform produces
// for entity. transform must be total: it fills defaults for every missing
// field instead of failing.
func SwitchToEdit[E any](c *Controller, entity E, transform func(E) Values) {
	c.Edit(transform(entity))
}

// Submit validates and submits the values. It reports whether the submit
// handler succeeded. Validation failures and handler errors are stored in
// Error; a form without a handler returns false.
func (c *Controller) Submit(ctx context.Context) bool {
	c.mu.Lock()
	values := c.values.Clone()
	mode := c.mode
	validate := c.opts.Validate
	submit := c.opts.Submit

	if validate != nil {
		if err := validate(values); err != nil {
			c.setValidationLocked(err)
			c.mu.Unlock()
			return false
		}
	}
	if submit == nil {
		c.mu.Unlock()
		c.logger.Warn("form submitted without a submit handler", "mode", mode)
		return false
	}
	c.submitting = true
	c.clearErrorLocked()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.submitting = false
		c.mu.Unlock()
	}()

	err := submit(ctx, values, mode)
	if err == nil {
		return true
	}

	c.mu.Lock()
	c.setErrorLocked(err)
	c.mu.Unlock()
	if !IsValidation(err) {
		c.logger.Error("form submit failed", "mode", mode, "err", err)
	}
	return false
}

// setValidationLocked stores a validator result. Any non-nil result is
// shown as is.
func (c *Controller) setValidationLocked(err error) {
	if IsValidation(err) {
		c.err = Messages(err)[0]
	} else {
		c.err = err.Error()
	}
	c.fieldErrors = FieldErrors(err)
}

// setErrorLocked stores a submit handler failure.
func (c *Controller) setErrorLocked(err error) {
	var ve *ValidationError
	switch {
	case IsValidation(err):
		c.setValidationLocked(err)
	case errors.As(err, &ve):
		c.err = ve.Message
	default:
		c.err = submitMessage(err)
	}
}

// submitMessage prefers the server detail. Remote failures without one
// get DefaultErrorMessage; any other error is shown as is.
func submitMessage(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) || apiclient.IsTransport(err) {
		return apiclient.Message(err, DefaultErrorMessage)
	}
	return err.Error()
}

// IsDirty reports whether the values differ from the snapshot taken at
// construction or the last switch.
func (c *Controller) IsDirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !reflect.DeepEqual(c.values, c.snapshot)
}

// Values returns a copy of the current values.
func (c *Controller) Values() Values {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values.Clone()
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// State returns a snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	var fe map[string]string
	if len(c.fieldErrors) > 0 {
		fe = make(map[string]string, len(c.fieldErrors))
		for k, v := range c.fieldErrors {
			fe[k] = v
		}
	}
	return State{
		Values:      c.values.Clone(),
		Mode:        c.mode,
		Submitting:  c.submitting,
		Error:       c.err,
		FieldErrors: fe,
		Dirty:       !reflect.DeepEqual(c.values, c.snapshot),
	}
}
