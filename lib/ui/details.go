package ui

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/hxdash/lib/form"
)

// LongTextThreshold is the length above which strings render as a
// preformatted block.
const LongTextThreshold = 100

// NotSet is shown for empty values.
const NotSet = "Not set"

// Details renders sections read-only. When Raw is set, a collapsible
// block with the raw JSON view follows the sections.
type Details struct {
	Sections []Section
	Values   form.Values
	Raw      *RawJSON
}

// Component renders the viewer.
func (d Details) Component() templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<div class="hxdash-details">`)
		for _, s := range d.Sections {
			hw.raw(`<section class="hxdash-section`)
			if s.Grouped {
				hw.raw(` hxdash-grouped`)
			}
			hw.raw(`">`)
			if s.Title != "" {
				hw.raw(`<h3>`)
				hw.text(s.Title)
				hw.raw(`</h3>`)
			}
			hw.raw(`<dl>`)
			for _, f := range s.Fields {
				hw.raw(`<dt>`)
				hw.text(Label(f))
				hw.raw(`</dt><dd>`)
				value := d.Values[Name(f)]
				if c, ok := f.(*Custom); ok && c.View != nil {
					hw.component(c.View(value))
				} else {
					writeValue(hw, value)
				}
				hw.raw(`</dd>`)
			}
			hw.raw(`</dl></section>`)
		}
		if d.Raw != nil {
			hw.raw(`<details class="hxdash-raw"><summary>View JSON</summary>`)
			hw.component(d.Raw.Component())
			hw.raw(`</details>`)
		}
		hw.raw(`</div>`)
	})
}

// FormatValue renders one value with type-aware formatting.
func FormatValue(v any) templ.Component {
	return component(func(hw *htmlWriter) { writeValue(hw, v) })
}

func writeValue(hw *htmlWriter, v any) {
	if isEmpty(v) {
		hw.raw(`<span class="hxdash-empty">` + NotSet + `</span>`)
		return
	}

	switch t := v.(type) {
	case bool:
		if t {
			hw.raw(`<span class="hxdash-bool hxdash-yes" title="Yes">✓</span>`)
		} else {
			hw.raw(`<span class="hxdash-bool hxdash-no" title="No">✗</span>`)
		}
		return
	case string:
		if len(t) > LongTextThreshold || strings.Contains(t, "\n") {
			hw.raw(`<pre class="hxdash-longtext">`)
			hw.text(t)
			hw.raw(`</pre>`)
			return
		}
		hw.text(t)
		return
	case float64:
		hw.text(strconv.FormatFloat(t, 'f', -1, 64))
		return
	case json.Number:
		hw.text(t.String())
		return
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		rv = deref(rv)
		if !rv.IsValid() {
			hw.raw(`<span class="hxdash-empty">` + NotSet + `</span>`)
			return
		}
		writeValue(hw, rv.Interface())
		return
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		writeList(hw, rv)
	case reflect.Map:
		writeCard(hw, rv)
	case reflect.Struct:
		if m, ok := toMap(rv.Interface()); ok {
			writeValue(hw, m)
			return
		}
		hw.text(fmt.Sprint(rv.Interface()))
	default:
		hw.text(fmt.Sprint(rv.Interface()))
	}
}

func writeList(hw *htmlWriter, rv reflect.Value) {
	objects := true
	for i := 0; i < rv.Len(); i++ {
		if !isObject(rv.Index(i)) {
			objects = false
			break
		}
	}

	if objects {
		hw.raw(`<div class="hxdash-cards">`)
		for i := 0; i < rv.Len(); i++ {
			writeValue(hw, rv.Index(i).Interface())
		}
		hw.raw(`</div>`)
		return
	}

	hw.raw(`<ul class="hxdash-list">`)
	for i := 0; i < rv.Len(); i++ {
		hw.raw(`<li>`)
		writeValue(hw, rv.Index(i).Interface())
		hw.raw(`</li>`)
	}
	hw.raw(`</ul>`)
}

func writeCard(hw *htmlWriter, rv reflect.Value) {
	keys := make([]string, 0, rv.Len())
	byKey := make(map[string]reflect.Value, rv.Len())
	for _, k := range rv.MapKeys() {
		ks := fmt.Sprint(k.Interface())
		keys = append(keys, ks)
		byKey[ks] = rv.MapIndex(k)
	}
	sort.Strings(keys)

	hw.raw(`<div class="hxdash-card"><dl>`)
	for _, k := range keys {
		hw.raw(`<dt>`)
		hw.text(k)
		hw.raw(`</dt><dd>`)
		writeValue(hw, byKey[k].Interface())
		hw.raw(`</dd>`)
	}
	hw.raw(`</dl></div>`)
}

// deref follows pointers and interfaces. It returns the zero Value when
// the chain ends in nil.
func deref(rv reflect.Value) reflect.Value {
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func isObject(rv reflect.Value) bool {
	rv = deref(rv)
	return rv.IsValid() && (rv.Kind() == reflect.Map || rv.Kind() == reflect.Struct)
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := deref(reflect.ValueOf(v))
	if !rv.IsValid() {
		return true
	}
	switch rv.Kind() {
	case reflect.String:
		return strings.TrimSpace(rv.String()) == ""
	case reflect.Slice, reflect.Map:
		return rv.Len() == 0
	}
	return false
}

// toMap converts a struct through its JSON form.
func toMap(v any) (map[string]any, bool) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, false
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, false
	}
	return m, true
}
