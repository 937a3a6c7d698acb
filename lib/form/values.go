package form

import (
	"fmt"
	"strconv"
	"strings"
)

// Values is the editable, JSON-shaped state of one form: strings, numbers,
// booleans, string lists, lists of objects and nested objects.
type Values map[string]any

// Clone returns a deep copy.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	out := make(Values, len(v))
	for k, val := range v {
		out[k] = cloneValue(val)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case Values:
		return t.Clone()
	case map[string]any:
		return map[string]any(Values(t).Clone())
	case []string:
		return append([]string(nil), t...)
	case []map[string]any:
		out := make([]map[string]any, len(t))
		for i, m := range t {
			out[i] = map[string]any(Values(m).Clone())
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	default:
		return v
	}
}

// String returns the field as text. Numbers and booleans are formatted.
func (v Values) String(name string) string {
	switch t := v[name].(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}

// Bool returns the field as a boolean. Checkbox posts ("on", "true") count
// as true.
func (v Values) Bool(name string) bool {
	switch t := v[name].(type) {
	case bool:
		return t
	case string:
		switch strings.ToLower(strings.TrimSpace(t)) {
		case "on", "true", "1", "yes":
			return true
		}
	}
	return false
}

// Int returns the field as an integer. Blank or unparsable values report
// ok=false.
func (v Values) Int(name string) (n int64, ok bool) {
	switch t := v[name].(type) {
	case int:
		return int64(t), true
	case int64:
		return t, true
	case int32:
		return int64(t), true
	case float64:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Float returns the field as a float.
func (v Values) Float(name string) (f float64, ok bool) {
	switch t := v[name].(type) {
	case float64:
		return t, true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// StringList returns the field as a list of strings.
func (v Values) StringList(name string) []string {
	switch t := v[name].(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, e := range t {
			if e != nil {
				out = append(out, fmt.Sprint(e))
			}
		}
		return out
	case string:
		if strings.TrimSpace(t) == "" {
			return nil
		}
		return []string{t}
	}
	return nil
}

// ObjectList returns the field as a list of key/value objects.
func (v Values) ObjectList(name string) []map[string]any {
	switch t := v[name].(type) {
	case []map[string]any:
		return t
	case []any:
		out := make([]map[string]any, 0, len(t))
		for _, e := range t {
			switch m := e.(type) {
			case map[string]any:
				out = append(out, m)
			case Values:
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}

// Object returns the field as a nested key/value object.
func (v Values) Object(name string) map[string]any {
	switch t := v[name].(type) {
	case map[string]any:
		return t
	case Values:
		return t
	}
	return nil
}

// Blank reports whether the field is missing or holds only whitespace or
// an empty list.
func (v Values) Blank(name string) bool {
	switch t := v[name].(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	case []string:
		return len(t) == 0
	case []any:
		return len(t) == 0
	case []map[string]any:
		return len(t) == 0
	}
	return false
}
