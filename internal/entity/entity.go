// Package entity defines the records the dashboard manages and, per kind,
// the form sections, table columns, validators and entity/form transforms
// the generic pages are parameterised with.
package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pthm/hxdash/lib/form"
	"github.com/pthm/hxdash/lib/ui"
	"gopkg.in/yaml.v3"
)

// ErrEmptyImport is returned by ParseImport for blank input.
var ErrEmptyImport = errors.New("entity: nothing to import")

// ErrNotObject is returned by ParseImport when the document is not a
// single object.
var ErrNotObject = errors.New("entity: import must be a single object")

// Schema describes one entity kind to the generic pages.
type Schema[E any] struct {
	// Kind is the singular machine name, used in URLs and export names.
	Kind string
	// Title is the singular display name.
	Title string
	// Plural is the page heading.
	Plural string
	// Scoped kinds are listed per organization. SetOrganization stamps
	// the organization on a record before it is sent.
	Scoped          bool
	SetOrganization func(e E, orgID int64) E
	Sections        []ui.Section
	Columns         []ui.Column[E]
	Initial         form.Values
	ToForm          func(E) form.Values
	FromForm        func(form.Values) E
	Validate        form.Validator
	Matches         func(e E, query string) bool
	Compare         func(a, b E) int
	// Name labels an entity in confirmations.
	Name func(E) string
}

// FromJSON maps an imported object onto form values field by field.
// Only fields present in data are returned, so the result can be merged
// into a form that already holds values.
func (s Schema[E]) FromJSON(data map[string]any) (form.Values, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("entity: encode import: %w", err)
	}
	var e E
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, fmt.Errorf("entity: import %s: %w", s.Kind, err)
	}
	full := s.ToForm(e)
	out := form.Values{}
	for k := range data {
		if v, ok := full[k]; ok {
			out[k] = v
		}
	}
	return out, nil
}

// ParseImport reads a pasted or uploaded document. JSON is tried first,
// then YAML.
func ParseImport(text []byte) (map[string]any, error) {
	text = bytes.TrimSpace(text)
	if len(text) == 0 {
		return nil, ErrEmptyImport
	}

	var doc any
	if err := json.Unmarshal(text, &doc); err != nil {
		if yerr := yaml.Unmarshal(text, &doc); yerr != nil {
			return nil, fmt.Errorf("entity: parse import: %w", err)
		}
	}
	m, ok := doc.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return m, nil
}

// ExportFileName returns "<kind>-<id>-<YYYY-MM-DD>.json".
func ExportFileName(kind string, id int64, now time.Time) string {
	return fmt.Sprintf("%s-%d-%s.json", kind, id, now.Format(time.DateOnly))
}

// Export renders v as indented JSON.
func Export(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("entity: export: %w", err)
	}
	return append(data, '\n'), nil
}

func contains(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}

func formatID(id int64) string {
	if id == 0 {
		return ""
	}
	return strconv.FormatInt(id, 10)
}

func formatInt(n int) string {
	return strconv.Itoa(n)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func intValue(v form.Values, name string) int64 {
	n, _ := v.Int(name)
	return n
}

func floatValue(v form.Values, name string) float64 {
	f, _ := v.Float(name)
	return f
}

func stringList(v form.Values, name string) []string {
	list := v.StringList(name)
	if list == nil {
		return []string{}
	}
	return append([]string(nil), list...)
}

func trimmed(v form.Values, name string) string {
	return strings.TrimSpace(v.String(name))
}

func objectString(m map[string]any, key string) string {
	switch t := m[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return fmt.Sprint(t)
	}
}
