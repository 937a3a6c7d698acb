package pages

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/a-h/templ"
	"github.com/pthm/hxdash"
	"github.com/pthm/hxdash/internal/entity"
	"github.com/pthm/hxdash/internal/workspace"
	"github.com/pthm/hxdash/lib/form"
	"github.com/pthm/hxdash/lib/ui"
)

// searchDelay debounces the search box.
const searchDelay = 300 * time.Millisecond

// Render draws the whole page. Every action swaps the page root except
// search, which swaps only the table so the search box keeps focus.
func (p *EntityPage[E]) Render(ctx context.Context, props Props) templ.Component {
	ws, err := workspace.FromContext(ctx)
	if err != nil {
		return ui.Banner(err.Error())
	}
	st := p.state(ws)

	return ui.Element("div", templ.Attributes{"id": p.root(), "class": "hxdash-page"},
		ui.Element("h1", nil, ui.Text(p.schema.Plural)),
		p.toolbar(props, st),
		p.table(props, st),
		p.formModal(props, ws, st, formCreate, "New "+p.schema.Title),
		p.formModal(props, ws, st, formEdit, "Edit "+p.schema.Title),
		p.detailsModal(props, ws, st),
		p.importModal(props, ws),
		ui.ConfirmDialog{
			ID:      p.id("confirm"),
			State:   ws.Confirm.State(),
			Confirm: p.call("confirm", props).Attrs(),
			Cancel:  p.call("cancel", props).Attrs(),
		}.Component(),
	)
}

func (p *EntityPage[E]) root() string { return p.id("page") }

// call returns an action that swaps the page root.
func (p *EntityPage[E]) call(action string, props Props) *hxdash.Action {
	return p.Call(action, props).Target("#" + p.root())
}

func (p *EntityPage[E]) toolbar(props Props, st *pageState[E]) templ.Component {
	s := st.List.State()
	items := []templ.Component{}

	if p.schema.Scoped {
		items = append(items, p.orgPicker(props, st))
	}

	tableID := p.id("table")
	items = append(items,
		ui.Element("input", ui.Attrs(
			templ.Attributes{
				"type":        "search",
				"name":        "q",
				"value":       s.Query,
				"placeholder": "Search " + p.schema.Plural,
				"class":       "hxdash-search",
			},
			p.Call("search", props).OnChange(searchDelay).Target("#"+tableID).Select("#"+tableID).Attrs(),
		)),
		ui.Button("Refresh", "secondary", p.call("refresh", props).Attrs()),
	)

	newAttrs := p.call("new", props).Attrs()
	if p.schema.Scoped && props.OrgID == 0 {
		newAttrs = templ.Attributes{"disabled": true, "title": "Select an organization first"}
	}
	items = append(items, ui.Button("New "+p.schema.Title, "primary", newAttrs))

	if len(s.Entities) > 0 {
		items = append(items, ui.Button("Select all", "secondary", p.call("select-all", props).Attrs()))
	}
	if n := len(s.Selected); n > 0 {
		items = append(items,
			ui.Element("span", templ.Attributes{"class": "hxdash-selection"}, ui.Text(fmt.Sprintf("%d selected", n))),
			ui.Button("Delete selected", "danger", p.call("delete-selected", props).Attrs()),
		)
	}
	return ui.Element("div", templ.Attributes{"class": "hxdash-toolbar"}, items...)
}

func (p *EntityPage[E]) orgPicker(props Props, st *pageState[E]) templ.Component {
	options := []templ.Component{
		ui.Element("option", templ.Attributes{"value": "0", "selected": props.OrgID == 0}, ui.Text("Select organization")),
	}
	if st.Orgs != nil {
		for _, o := range st.Orgs.State().Entities {
			options = append(options, ui.Element("option", templ.Attributes{
				"value":    strconv.FormatInt(o.ID, 10),
				"selected": o.ID == props.OrgID,
			}, ui.Text(o.Name)))
		}
	}
	attrs := ui.Attrs(
		templ.Attributes{"name": "organization_id", "class": "hxdash-org-picker"},
		p.call("scope", props).Trigger("change").Attrs(),
	)
	return ui.Element("select", attrs, options...)
}

func (p *EntityPage[E]) table(props Props, st *pageState[E]) templ.Component {
	s := st.List.State()
	selectCol := ui.Column[E]{
		Header: "",
		Render: func(e E) templ.Component {
			return ui.Element("input", ui.Attrs(
				templ.Attributes{
					"type":       "checkbox",
					"aria-label": "Select",
					"checked":    s.Selected[e.GetID()],
				},
				p.call("select", props).Vals(idVals(e.GetID())).OnClickConsume().Attrs(),
			))
		},
	}

	empty := ui.DefaultEmptyMessage
	if p.schema.Scoped && props.OrgID == 0 {
		empty = "Select an organization to see its " + p.schema.Plural
	}
	return ui.Table[E]{
		ID:           p.id("table"),
		Columns:      append([]ui.Column[E]{selectCol}, p.schema.Columns...),
		Rows:         s.Entities,
		Loading:      s.Loading,
		Error:        s.Error,
		EmptyMessage: empty,
		Selected:     func(e E) bool { return s.Selected[e.GetID()] },
		RowClick: func(e E) *hxdash.Action {
			return p.call("view", props).Vals(idVals(e.GetID()))
		},
		Actions: []ui.RowAction[E]{
			{Label: "Edit", Action: func(e E) *hxdash.Action {
				return p.call("edit", props).Vals(idVals(e.GetID()))
			}},
			{Label: "Delete", Variant: "danger", Action: func(e E) *hxdash.Action {
				return p.call("delete", props).Vals(idVals(e.GetID()))
			}},
		},
	}.Component()
}

func (p *EntityPage[E]) closeAttrs(props Props, modal string) templ.Attributes {
	return p.call("close", props).Vals(map[string]any{"modal": modal}).Attrs()
}

func (p *EntityPage[E]) formModal(props Props, ws *workspace.Workspace, st *pageState[E], name, title string) templ.Component {
	open := ws.Modals.Get(p.id(name)).IsOpen()
	if !open {
		return ui.Modal{ID: p.id(name + "-modal")}.Component()
	}
	ctl, _ := st.form(name)
	fs := ctl.State()
	vals := map[string]any{"form": name}

	submitLabel := "Create"
	if fs.Mode == form.ModeEdit {
		submitLabel = "Save"
	}
	if fs.Submitting {
		submitLabel = "Saving..."
	}

	// The browser disables the submit button while the request is in
	// flight, so one click dispatches one submit.
	body := ui.Element("form", ui.Attrs(
		templ.Attributes{"class": "hxdash-form", "hx-disabled-elt": "find button[type=submit]"},
		p.call("submit", props).Vals(vals).Attrs(),
	),
		ui.Banner(fs.Error),
		ui.FormBuilder{
			ID:       p.id(name),
			Sections: p.schema.Sections,
			Values:   fs.Values,
			Errors:   fs.FieldErrors,
			Change:   func() *hxdash.Action { return p.Call("change", props).Vals(vals) },
			Disabled: fs.Submitting,
		}.Component(),
		ui.Element("div", templ.Attributes{"class": "hxdash-form-actions"},
			ui.Button("Import", "secondary", p.call("import-open", props).Vals(vals).Attrs()),
			ui.Button("Cancel", "secondary", p.closeAttrs(props, name)),
			ui.Element("button", templ.Attributes{
				"type":     "submit",
				"class":    "btn btn-primary",
				"disabled": fs.Submitting,
			}, ui.Text(submitLabel)),
		),
	)

	return ui.Modal{
		ID:    p.id(name + "-modal"),
		Title: title,
		Open:  true,
		Body:  body,
		Close: p.closeAttrs(props, name),
		Wide:  true,
	}.Component()
}

func (p *EntityPage[E]) detailsModal(props Props, ws *workspace.Workspace, st *pageState[E]) templ.Component {
	st.mu.Lock()
	view, raw := st.view, st.viewRaw
	st.mu.Unlock()

	id := p.id("details-modal")
	if view == nil || !ws.Modals.Get(p.id("details")).IsOpen() {
		return ui.Modal{ID: id}.Component()
	}

	e := *view
	title := p.schema.Title
	if p.schema.Name != nil {
		title = p.schema.Name(e)
	}
	return ui.Modal{
		ID:    id,
		Title: title,
		Open:  true,
		Wide:  true,
		Close: p.closeAttrs(props, "details"),
		Body: ui.Details{
			Sections: p.schema.Sections,
			Values:   p.schema.ToForm(e),
			Raw: &ui.RawJSON{
				ID:        p.id("raw"),
				Value:     raw,
				ExportURL: p.exportURL(props, e.GetID()),
				FileName:  entity.ExportFileName(p.schema.Kind, e.GetID(), p.clock.Now()),
			},
		}.Component(),
		Footer: ui.Group(
			ui.Button("Edit", "primary", p.call("edit", props).Vals(idVals(e.GetID())).Attrs()),
			ui.Button("Delete", "danger", p.call("delete", props).Vals(idVals(e.GetID())).Attrs()),
		),
	}.Component()
}

func (p *EntityPage[E]) importModal(props Props, ws *workspace.Workspace) templ.Component {
	id := p.id("import-modal")
	if !ws.Modals.Get(p.id("import")).IsOpen() {
		return ui.Modal{ID: id}.Component()
	}

	body := ui.Element("form", ui.Attrs(
		templ.Attributes{"class": "hxdash-form", "hx-encoding": "multipart/form-data"},
		p.call("import", props).Attrs(),
	),
		ui.Element("label", templ.Attributes{"for": p.id("import-text")}, ui.Text("Paste JSON or YAML")),
		ui.Element("textarea", templ.Attributes{
			"id":   p.id("import-text"),
			"name": "import",
			"rows": 12,
		}),
		ui.Element("label", templ.Attributes{"for": p.id("import-file")}, ui.Text("Or choose a file")),
		ui.Element("input", templ.Attributes{
			"id":     p.id("import-file"),
			"type":   "file",
			"name":   "file",
			"accept": ".json,.yaml,.yml,application/json",
		}),
		ui.Element("div", templ.Attributes{"class": "hxdash-form-actions"},
			ui.Button("Cancel", "secondary", p.closeAttrs(props, "import")),
			ui.Element("button", templ.Attributes{"type": "submit", "class": "btn btn-primary"}, ui.Text("Import")),
		),
	)
	return ui.Modal{
		ID:    id,
		Title: "Import " + p.schema.Title,
		Open:  true,
		Body:  body,
		Close: p.closeAttrs(props, "import"),
	}.Component()
}

func idVals(id int64) map[string]any {
	return map[string]any{"id": id}
}
