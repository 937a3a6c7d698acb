package form

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync/atomic"
	"testing"

	"github.com/pthm/hxdash/lib/apiclient"
)

func quiet() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSubmitValidationGate(t *testing.T) {
	var calls atomic.Int32
	c := New(Options{
		Initial:  Values{"name": ""},
		Validate: Required("name", "Name"),
		Submit: func(ctx context.Context, v Values, m Mode) error {
			calls.Add(1)
			return nil
		},
		Logger: quiet(),
	})

	if c.Submit(context.Background()) {
		t.Fatal("Submit() = true, want false for invalid values")
	}
	if calls.Load() != 0 {
		t.Errorf("submit handler called %d times, want 0", calls.Load())
	}
	s := c.State()
	if s.Error != "Name is required" {
		t.Errorf("Error = %q, want %q", s.Error, "Name is required")
	}
	if s.FieldErrors["name"] != "Name is required" {
		t.Errorf("FieldErrors = %v", s.FieldErrors)
	}
}

func TestSubmitPlainValidatorMessage(t *testing.T) {
	var calls atomic.Int32
	c := New(Options{
		Validate: func(Values) error { return errors.New("Name must not be empty") },
		Submit: func(ctx context.Context, v Values, m Mode) error {
			calls.Add(1)
			return nil
		},
		Logger: quiet(),
	})

	if c.Submit(context.Background()) {
		t.Fatal("Submit() = true, want false")
	}
	if calls.Load() != 0 {
		t.Errorf("submit handler called %d times, want 0", calls.Load())
	}
	if got := c.State().Error; got != "Name must not be empty" {
		t.Errorf("Error = %q, want the validator message", got)
	}
}

func TestSubmitSuccess(t *testing.T) {
	var got Values
	var gotMode Mode
	c := New(Options{
		Initial:  Values{"name": ""},
		Validate: Required("name", "Name"),
		Submit: func(ctx context.Context, v Values, m Mode) error {
			got, gotMode = v, m
			return nil
		},
	})

	c.UpdateField("name", "Acme")
	if !c.Submit(context.Background()) {
		t.Fatalf("Submit() = false, error %q", c.State().Error)
	}
	if got.String("name") != "Acme" || gotMode != ModeCreate {
		t.Errorf("handler got %v/%s", got, gotMode)
	}
	s := c.State()
	if s.Error != "" || s.Submitting {
		t.Errorf("State = %+v, want no error and not submitting", s)
	}
}

func TestSubmitWithoutHandler(t *testing.T) {
	c := New(Options{Initial: Values{"name": "x"}, Logger: quiet()})

	if c.Submit(context.Background()) {
		t.Error("Submit() without handler = true, want false")
	}
	if c.State().Error != "" {
		t.Errorf("Error = %q, misconfiguration should not be user facing", c.State().Error)
	}
}

func TestSubmitFailure(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server detail", &apiclient.Error{Status: 409, Detail: "Category already exists"}, "Category already exists"},
		{"server without detail", &apiclient.Error{Status: 500}, DefaultErrorMessage},
		{"transport", &apiclient.TransportError{Method: "POST", Path: "categories", Err: errors.New("connection reset")}, DefaultErrorMessage},
		{"handler message", errors.New("name already taken"), "name already taken"},
		{"conversion problem", Invalid("priority", "Priority must be a whole number"), "Priority must be a whole number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(Options{
				Submit: func(ctx context.Context, v Values, m Mode) error { return tt.err },
				Logger: quiet(),
			})

			if c.Submit(context.Background()) {
				t.Fatal("Submit() = true, want false")
			}
			s := c.State()
			if s.Error != tt.want {
				t.Errorf("Error = %q, want %q", s.Error, tt.want)
			}
			if s.Submitting {
				t.Error("Submitting should be cleared after failure")
			}
		})
	}
}

func TestSubmitPanicsStillClearSubmitting(t *testing.T) {
	c := New(Options{
		Submit: func(ctx context.Context, v Values, m Mode) error { panic("boom") },
	})

	func() {
		defer func() { _ = recover() }()
		c.Submit(context.Background())
	}()
	if c.State().Submitting {
		t.Error("Submitting should be cleared even when the handler panics")
	}
}

func TestSubmittingDuringFlight(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	c := New(Options{Submit: func(ctx context.Context, v Values, m Mode) error {
		close(entered)
		<-release
		return nil
	}})

	done := make(chan bool)
	go func() { done <- c.Submit(context.Background()) }()
	<-entered
	if !c.State().Submitting {
		t.Error("Submitting should be true while the handler runs")
	}
	close(release)
	if !<-done {
		t.Error("Submit() = false")
	}
}

func TestUpdateClearsError(t *testing.T) {
	c := New(Options{Initial: Values{"name": ""}, Validate: Required("name", "Name")})
	c.Submit(context.Background())
	if c.State().Error == "" {
		t.Fatal("expected a validation error")
	}

	c.UpdateFields(Values{"name": "Acme", "description": "x"})
	s := c.State()
	if s.Error != "" || s.FieldErrors != nil {
		t.Errorf("error not cleared: %+v", s)
	}
	if s.Values.String("description") != "x" {
		t.Errorf("UpdateFields did not merge: %v", s.Values)
	}
}

type category struct {
	ID       int64
	Name     string
	Keywords []string
}

func categoryToForm(c category) Values {
	keywords := c.Keywords
	if keywords == nil {
		keywords = []string{}
	}
	return Values{"id": c.ID, "name": c.Name, "keywords": keywords}
}

func TestSwitchModes(t *testing.T) {
	initial := Values{"name": "", "keywords": []string{}}
	c := New(Options{Initial: initial})

	SwitchToEdit(c, category{ID: 4, Name: "News"}, categoryToForm)
	if c.Mode() != ModeEdit {
		t.Errorf("Mode() = %s, want edit", c.Mode())
	}
	if got := c.Values(); got.String("name") != "News" || !reflect.DeepEqual(got.StringList("keywords"), []string{}) {
		t.Errorf("Values() = %v", got)
	}
	if c.IsDirty() {
		t.Error("freshly switched form should not be dirty")
	}

	c.UpdateField("name", "World news")
	if !c.IsDirty() {
		t.Error("IsDirty() = false after change")
	}

	c.SwitchToCreate()
	if c.Mode() != ModeCreate || !reflect.DeepEqual(c.Values(), initial) {
		t.Errorf("SwitchToCreate: mode %s values %v", c.Mode(), c.Values())
	}
	if c.IsDirty() {
		t.Error("reset form should not be dirty")
	}
}

func TestIsDirtyDeepEquality(t *testing.T) {
	c := New(Options{Initial: Values{"keywords": []string{"a"}}})

	c.UpdateField("keywords", []string{"a"})
	if c.IsDirty() {
		t.Error("equal slice contents should not be dirty")
	}

	c.UpdateField("keywords", []string{"a", "b"})
	if !c.IsDirty() {
		t.Error("changed slice should be dirty")
	}
}

func TestInitialNotAliased(t *testing.T) {
	initial := Values{"tags": []string{"a"}}
	c := New(Options{Initial: initial})

	v := c.Values()
	v.StringList("tags")[0] = "changed"
	if c.Values().StringList("tags")[0] != "a" {
		t.Error("Values() should return a copy")
	}
	if initial.StringList("tags")[0] != "a" {
		t.Error("Initial should not be modified")
	}
}
