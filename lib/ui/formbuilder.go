package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/hxdash"
	"github.com/pthm/hxdash/lib/form"
)

// FormBuilder renders editable sections. Every control posts its edits
// through Change, debounced per field kind, with the field's value and
// name. The page applies the change to its form controller and answers
// with an empty swap, so the control keeps focus.
type FormBuilder struct {
	ID       string
	Sections []Section
	Values   form.Values
	Errors   map[string]string
	// Change returns a fresh action for a field edit. Nil renders plain
	// controls that are only sent on submit.
	Change   func() *hxdash.Action
	Disabled bool
}

// Component renders the sections.
func (b FormBuilder) Component() templ.Component {
	return component(func(hw *htmlWriter) {
		for _, s := range b.Sections {
			hw.raw(`<fieldset class="hxdash-section`)
			if s.Grouped {
				hw.raw(` hxdash-grouped`)
			}
			hw.raw(`"`)
			if b.Disabled {
				hw.raw(` disabled`)
			}
			hw.raw(`>`)
			if s.Title != "" {
				hw.raw(`<legend>`)
				hw.text(s.Title)
				hw.raw(`</legend>`)
			}
			for _, f := range s.Fields {
				b.field(hw, f)
			}
			hw.raw(`</fieldset>`)
		}
	})
}

func (b FormBuilder) controlID(f Field) string {
	if b.ID == "" {
		return "field-" + Name(f)
	}
	return b.ID + "-" + Name(f)
}

func (b FormBuilder) changeAttrs(f Field) templ.Attributes {
	if b.Change == nil {
		return nil
	}
	return b.Change().
		OnChange(Debounce(f)).
		SwapNone().
		Include("closest .hxdash-field").
		Attrs()
}

func (b FormBuilder) field(hw *htmlWriter, f Field) {
	base := f.base()
	id := b.controlID(f)
	value := b.Values[base.Name]

	hw.raw(`<div class="hxdash-field"`)
	hw.attr("data-field", base.Name)
	hw.raw(`>`)

	if _, isCheckbox := f.(*Checkbox); !isCheckbox {
		hw.raw(`<label`)
		hw.attr("for", id)
		hw.raw(`>`)
		hw.text(Label(f))
		if base.Required {
			hw.raw(`<span class="hxdash-required">*</span>`)
		}
		hw.raw(`</label>`)
	}

	change := b.changeAttrs(f)
	common := templ.Attributes{"id": id, "name": base.Name}
	if base.Placeholder != "" {
		common["placeholder"] = base.Placeholder
	}
	if base.Required {
		common["required"] = true
	}

	switch field := f.(type) {
	case *Input:
		typ := field.Type
		if typ == "" {
			typ = "text"
		}
		hw.raw(`<input`)
		hw.attrs(mergeAttrs(common, change, templ.Attributes{"type": typ, "value": scalarText(value)}))
		hw.raw(`>`)
	case *Textarea:
		rows := field.Rows
		if rows <= 0 {
			rows = 4
		}
		hw.raw(`<textarea`)
		hw.attrs(mergeAttrs(common, change, templ.Attributes{"rows": strconv.Itoa(rows)}))
		hw.raw(`>`)
		hw.text(scalarText(value))
		hw.raw(`</textarea>`)
	case *StringList:
		hw.raw(`<textarea`)
		hw.attrs(mergeAttrs(common, change, templ.Attributes{"rows": "4", "class": "hxdash-stringlist"}))
		hw.raw(`>`)
		hw.text(strings.Join(form.Values{"v": value}.StringList("v"), "\n"))
		hw.raw(`</textarea><small class="hxdash-help">One item per line</small>`)
	case *ObjectList:
		b.objectList(hw, field, id, value, change)
	case *Checkbox:
		hw.raw(`<input type="hidden"`)
		hw.attr("name", base.Name)
		hw.raw(` value="false"><label class="hxdash-checkbox"><input`)
		attrs := mergeAttrs(common, change, templ.Attributes{"type": "checkbox", "value": "true"})
		delete(attrs, "placeholder")
		if form.Values(map[string]any{"v": value}).Bool("v") {
			attrs["checked"] = true
		}
		hw.attrs(attrs)
		hw.raw(`> `)
		hw.text(Label(f))
		hw.raw(`</label>`)
	case *Custom:
		if field.Edit != nil {
			hw.component(field.Edit(value, mergeAttrs(common, change)))
		} else {
			hw.raw(`<input`)
			hw.attrs(mergeAttrs(common, change, templ.Attributes{"type": "text", "value": scalarText(value)}))
			hw.raw(`>`)
		}
	}

	if msg := b.Errors[base.Name]; msg != "" {
		hw.raw(`<small class="hxdash-field-error" role="alert">`)
		hw.text(msg)
		hw.raw(`</small>`)
	}
	if base.Help != "" {
		hw.raw(`<small class="hxdash-help">`)
		hw.text(base.Help)
		hw.raw(`</small>`)
	}
	hw.raw(`</div>`)
}

// objectList renders one row of inputs per object plus a blank row for
// adding. Clearing every input of a row removes it.
func (b FormBuilder) objectList(hw *htmlWriter, f *ObjectList, id string, value any, change templ.Attributes) {
	rows := form.Values{"v": value}.ObjectList("v")

	hw.raw(`<input type="hidden"`)
	hw.attr("name", f.Name)
	hw.raw(` value=""><table class="hxdash-objectlist"`)
	hw.attr("id", id)
	hw.raw(`><thead><tr>`)
	for _, k := range f.Keys {
		hw.raw(`<th>`)
		if k.Label != "" {
			hw.text(k.Label)
		} else {
			hw.text(k.Key)
		}
		hw.raw(`</th>`)
	}
	hw.raw(`</tr></thead><tbody>`)
	for i := 0; i <= len(rows); i++ {
		hw.raw(`<tr>`)
		for _, k := range f.Keys {
			var cell any
			if i < len(rows) {
				cell = rows[i][k.Key]
			}
			hw.raw(`<td><input`)
			hw.attrs(mergeAttrs(change, templ.Attributes{
				"type":  "text",
				"name":  fmt.Sprintf("%s.%d.%s", f.Name, i, k.Key),
				"value": scalarText(cell),
			}))
			hw.raw(`></td>`)
		}
		hw.raw(`</tr>`)
	}
	hw.raw(`</tbody></table>`)
}

// scalarText formats a scalar form value for an input.
func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
