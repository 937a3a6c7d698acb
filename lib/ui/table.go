package ui

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/hxdash"
)

// DefaultSkeletonRows is the number of placeholder rows shown while loading.
const DefaultSkeletonRows = 5

// DefaultEmptyMessage is shown for an empty table.
const DefaultEmptyMessage = "No data"

// Column describes one table column. Render wins over Key; Key reads a
// struct field (by json name or Go name) or a map entry.
type Column[E any] struct {
	Header string
	Key    string
	Render func(e E) templ.Component
}

// RowAction is one button in the trailing actions cell.
type RowAction[E any] struct {
	Label    string
	Action   func(e E) *hxdash.Action
	Variant  string
	Disabled func(e E) bool
	// Render replaces the default button entirely.
	Render func(e E) templ.Component
}

// Table renders rows of E.
type Table[E any] struct {
	ID           string
	Columns      []Column[E]
	Actions      []RowAction[E]
	Rows         []E
	Loading      bool
	Error        string
	EmptyMessage string
	SkeletonRows int
	// RowClick, when set, makes the whole row clickable. Action buttons
	// consume their clicks so they never trigger it.
	RowClick func(e E) *hxdash.Action
	// Selected marks rows as selected.
	Selected func(e E) bool
}

// Component renders the table.
func (t Table[E]) Component() templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw(`<div class="hxdash-table"`)
		if t.ID != "" {
			hw.attr("id", t.ID)
		}
		hw.raw(`>`)

		if t.Error != "" {
			hw.raw(`<div class="hxdash-error-banner" role="alert">`)
			hw.text(t.Error)
			hw.raw(`</div>`)
		}

		hw.raw(`<table><thead><tr>`)
		for _, c := range t.Columns {
			hw.raw(`<th>`)
			hw.text(c.Header)
			hw.raw(`</th>`)
		}
		if len(t.Actions) > 0 {
			hw.raw(`<th class="hxdash-actions">Actions</th>`)
		}
		hw.raw(`</tr></thead><tbody>`)

		switch {
		case t.Loading:
			t.skeleton(hw)
		case len(t.Rows) == 0:
			msg := t.EmptyMessage
			if msg == "" {
				msg = DefaultEmptyMessage
			}
			hw.raw(`<tr><td class="hxdash-empty-row"`)
			hw.attr("colspan", strconv.Itoa(t.width()))
			hw.raw(`>`)
			hw.text(msg)
			hw.raw(`</td></tr>`)
		default:
			for _, row := range t.Rows {
				t.row(hw, row)
			}
		}

		hw.raw(`</tbody></table></div>`)
	})
}

func (t Table[E]) width() int {
	n := len(t.Columns)
	if len(t.Actions) > 0 {
		n++
	}
	return n
}

func (t Table[E]) skeleton(hw *htmlWriter) {
	n := t.SkeletonRows
	if n <= 0 {
		n = DefaultSkeletonRows
	}
	for i := 0; i < n; i++ {
		hw.raw(`<tr class="hxdash-skeleton-row" aria-hidden="true">`)
		for j := 0; j < t.width(); j++ {
			hw.raw(`<td><span class="hxdash-skeleton"></span></td>`)
		}
		hw.raw(`</tr>`)
	}
}

func (t Table[E]) row(hw *htmlWriter, row E) {
	attrs := templ.Attributes{}
	var classes []string
	if t.RowClick != nil {
		if a := t.RowClick(row); a != nil {
			attrs = a.Trigger("click").Attrs()
			classes = append(classes, "hxdash-clickable")
		}
	}
	if t.Selected != nil && t.Selected(row) {
		classes = append(classes, "hxdash-selected")
	}
	if len(classes) > 0 {
		attrs["class"] = strings.Join(classes, " ")
	}

	hw.raw(`<tr`)
	hw.attrs(attrs)
	hw.raw(`>`)
	for _, c := range t.Columns {
		hw.raw(`<td>`)
		switch {
		case c.Render != nil:
			hw.component(c.Render(row))
		case c.Key != "":
			v, _ := FieldValue(row, c.Key)
			writeValue(hw, v)
		}
		hw.raw(`</td>`)
	}
	if len(t.Actions) > 0 {
		hw.raw(`<td class="hxdash-actions">`)
		for _, a := range t.Actions {
			writeRowAction(hw, a, row)
		}
		hw.raw(`</td>`)
	}
	hw.raw(`</tr>`)
}

func writeRowAction[E any](hw *htmlWriter, a RowAction[E], row E) {
	if a.Render != nil {
		hw.component(a.Render(row))
		return
	}
	variant := a.Variant
	if variant == "" {
		variant = "secondary"
	}
	attrs := templ.Attributes{"type": "button", "class": "btn btn-sm btn-" + variant}
	if a.Disabled != nil && a.Disabled(row) {
		attrs["disabled"] = true
	} else if a.Action != nil {
		if act := a.Action(row); act != nil {
			attrs = mergeAttrs(act.OnClickConsume().Attrs(), attrs)
		}
	}
	hw.raw(`<button`)
	hw.attrs(attrs)
	hw.raw(`>`)
	hw.text(a.Label)
	hw.raw(`</button>`)
}

// FieldValue reads key from a struct (json name or Go field name,
// case-insensitive) or a string-keyed map. Missing keys report false.
func FieldValue(v any, key string) (any, bool) {
	rv := deref(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		mv := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !mv.IsValid() {
			return nil, false
		}
		return mv.Interface(), true
	case reflect.Struct:
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			sf := rt.Field(i)
			if !sf.IsExported() {
				continue
			}
			jsonName, _, _ := strings.Cut(sf.Tag.Get("json"), ",")
			if jsonName == key || strings.EqualFold(sf.Name, key) {
				return rv.Field(i).Interface(), true
			}
		}
	}
	return nil, false
}
