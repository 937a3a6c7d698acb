package ui

import (
	"github.com/a-h/templ"
	"github.com/pthm/hxdash/lib/confirm"
)

// Modal renders a dialog frame around body. A closed modal renders an
// empty placeholder with the same id so later swaps have a target.
type Modal struct {
	ID     string
	Title  string
	Open   bool
	Body   templ.Component
	Footer templ.Component
	// Close is attached to the close button and the backdrop.
	Close templ.Attributes
	Wide  bool
}

// Component renders the modal.
func (m Modal) Component() templ.Component {
	return component(func(hw *htmlWriter) {
		if !m.Open {
			hw.raw(`<div`)
			hw.attr("id", m.ID)
			hw.raw(`></div>`)
			return
		}
		class := "hxdash-modal"
		if m.Wide {
			class += " hxdash-modal-wide"
		}
		hw.raw(`<div`)
		hw.attr("id", m.ID)
		hw.attr("class", "hxdash-modal-root")
		hw.raw(`><div class="hxdash-backdrop"`)
		hw.attrs(m.Close)
		hw.raw(`></div><div`)
		hw.attr("class", class)
		hw.raw(` role="dialog" aria-modal="true"><header><h2>`)
		hw.text(m.Title)
		hw.raw(`</h2><button type="button" class="hxdash-modal-close" aria-label="Close"`)
		hw.attrs(m.Close)
		hw.raw(`>&times;</button></header><div class="hxdash-modal-body">`)
		hw.component(m.Body)
		hw.raw(`</div>`)
		if m.Footer != nil {
			hw.raw(`<footer>`)
			hw.component(m.Footer)
			hw.raw(`</footer>`)
		}
		hw.raw(`</div></div>`)
	})
}

// ConfirmDialog renders the confirmation dialog for state. While the
// action runs both buttons are disabled and the confirm button says so.
type ConfirmDialog struct {
	ID      string
	State   confirm.State
	Confirm templ.Attributes
	Cancel  templ.Attributes
}

// Component renders the dialog.
func (d ConfirmDialog) Component() templ.Component {
	return component(func(hw *htmlWriter) {
		s := d.State
		if !s.Open {
			hw.raw(`<div`)
			hw.attr("id", d.ID)
			hw.raw(`></div>`)
			return
		}
		kind := s.Type
		if kind == "" {
			kind = confirm.TypeInfo
		}

		confirmAttrs := templ.Attributes{"type": "button", "class": "btn btn-" + confirmVariant(kind)}
		cancelAttrs := templ.Attributes{"type": "button", "class": "btn btn-secondary"}
		if s.Processing {
			confirmAttrs["disabled"] = true
			confirmAttrs["aria-busy"] = "true"
			cancelAttrs["disabled"] = true
		} else {
			confirmAttrs = mergeAttrs(d.Confirm, confirmAttrs)
			cancelAttrs = mergeAttrs(d.Cancel, cancelAttrs)
		}

		hw.raw(`<div`)
		hw.attr("id", d.ID)
		hw.attr("class", "hxdash-modal-root")
		hw.raw(`><div class="hxdash-backdrop"></div><div`)
		hw.attr("class", "hxdash-modal hxdash-confirm hxdash-confirm-"+string(kind))
		hw.raw(` role="alertdialog" aria-modal="true"><header><h2>`)
		hw.text(s.Title)
		hw.raw(`</h2></header><div class="hxdash-modal-body"><p>`)
		hw.text(s.Message)
		hw.raw(`</p></div><footer><button`)
		hw.attrs(cancelAttrs)
		hw.raw(`>`)
		hw.text(s.CancelText)
		hw.raw(`</button><button`)
		hw.attrs(confirmAttrs)
		hw.raw(`>`)
		if s.Processing {
			hw.text("Processing...")
		} else {
			hw.text(s.ConfirmText)
		}
		hw.raw(`</button></footer></div></div>`)
	})
}

func confirmVariant(t confirm.Type) string {
	switch t {
	case confirm.TypeDanger:
		return "danger"
	case confirm.TypeWarning:
		return "warning"
	case confirm.TypeSuccess:
		return "success"
	default:
		return "primary"
	}
}
