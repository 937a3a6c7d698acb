package ui

import (
	"time"

	"github.com/a-h/templ"
)

// Per-kind debounce delays for posting edits.
const (
	InputDebounce    = 300 * time.Millisecond
	TextareaDebounce = 500 * time.Millisecond
	ListDebounce     = 300 * time.Millisecond
)

// Field is one form or details field. The concrete kinds are Input,
// Textarea, StringList, ObjectList, Checkbox and Custom; renderers switch
// on the kind.
type Field interface {
	base() *FieldBase
}

// FieldBase carries the attributes every kind shares.
type FieldBase struct {
	Name        string
	Label       string
	Placeholder string
	Required    bool
	// Debounce overrides the kind's default delay. Negative sends every
	// change immediately.
	Debounce time.Duration
	Help     string
}

func (b *FieldBase) base() *FieldBase { return b }

// Input is a single-line text field.
type Input struct {
	FieldBase
	// Type is the HTML input type: text (default), number, email, url.
	Type string
}

// Textarea is a multi-line text field.
type Textarea struct {
	FieldBase
	Rows int
}

// StringList edits a list of strings, one per line.
type StringList struct {
	FieldBase
}

// ObjectList edits a list of objects with the given keys.
type ObjectList struct {
	FieldBase
	Keys []ObjectKey
}

// ObjectKey is one column of an ObjectList.
type ObjectKey struct {
	Key   string
	Label string
}

// Checkbox edits a boolean.
type Checkbox struct {
	FieldBase
}

// Custom delegates rendering to the page. Edit receives the current value
// and the attributes that post a change; View renders the value read-only.
// Either may be nil, in which case the value is shown as text.
type Custom struct {
	FieldBase
	Edit  func(value any, change templ.Attributes) templ.Component
	View  func(value any) templ.Component
	Parse func(raw []string) any
}

// Section groups fields under a title. Grouped sections lay their fields
// out side by side.
type Section struct {
	Title   string
	Grouped bool
	Fields  []Field
}

// Name returns the field's name.
func Name(f Field) string {
	return f.base().Name
}

// Label returns the field's label, falling back to the name.
func Label(f Field) string {
	b := f.base()
	if b.Label != "" {
		return b.Label
	}
	return b.Name
}

// Debounce returns the delay before an edit of f is posted.
func Debounce(f Field) time.Duration {
	b := f.base()
	if b.Debounce < 0 {
		return 0
	}
	if b.Debounce > 0 {
		return b.Debounce
	}
	switch f.(type) {
	case *Input:
		return InputDebounce
	case *Textarea:
		return TextareaDebounce
	case *StringList, *ObjectList:
		return ListDebounce
	default:
		return 0
	}
}

// Fields returns every field of the sections in order.
func Fields(sections []Section) []Field {
	var out []Field
	for _, s := range sections {
		out = append(out, s.Fields...)
	}
	return out
}

// Lookup finds the field called name.
func Lookup(sections []Section, name string) (Field, bool) {
	for _, f := range Fields(sections) {
		if Name(f) == name {
			return f, true
		}
	}
	return nil, false
}
