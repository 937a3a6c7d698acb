package ui

import (
	"encoding/json"
	"fmt"

	"github.com/a-h/templ"
)

// RawJSON shows a value as indented JSON with copy and export controls.
// The layout script copies the text of the element named by
// data-copy-target.
type RawJSON struct {
	ID        string
	Value     any
	ExportURL string
	FileName  string
}

// Indent returns the value as indented JSON, falling back to fmt output
// for values JSON cannot represent.
func Indent(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%+v", v)
	}
	return string(data)
}

// Component renders the block.
func (r RawJSON) Component() templ.Component {
	id := r.ID
	if id == "" {
		id = "raw-json"
	}
	return component(func(hw *htmlWriter) {
		hw.raw(`<div class="hxdash-rawjson"`)
		hw.attr("id", id)
		hw.raw(`><div class="hxdash-toolbar"><button type="button" class="btn btn-secondary"`)
		hw.attr("data-copy-target", "#"+id+"-json")
		hw.raw(`>Copy</button>`)
		if r.ExportURL != "" {
			hw.raw(`<a class="btn btn-secondary"`)
			hw.attr("href", r.ExportURL)
			if r.FileName != "" {
				hw.attr("download", r.FileName)
			}
			hw.raw(`>Export</a>`)
		}
		hw.raw(`</div><pre`)
		hw.attr("id", id+"-json")
		hw.raw(`>`)
		hw.text(Indent(r.Value))
		hw.raw(`</pre></div>`)
	})
}
