package pages

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/a-h/templ"
	"github.com/jonboulle/clockwork"
	"github.com/pthm/hxdash"
	"github.com/pthm/hxdash/internal/api"
	"github.com/pthm/hxdash/internal/entity"
	"github.com/pthm/hxdash/internal/workspace"
	"github.com/pthm/hxdash/lib/apiclient"
	"github.com/pthm/hxdash/lib/form"
	"github.com/pthm/hxdash/lib/list"
	"github.com/pthm/hxdash/lib/ui"
	"go.uber.org/multierr"
)

// Form names used in requests and modal ids.
const (
	formCreate = "create"
	formEdit   = "edit"
)

// maxImportSize bounds uploaded import files.
const maxImportSize = 1 << 20

// Options configures an EntityPage.
type Options[E list.Entity] struct {
	Schema  entity.Schema[E]
	Service api.Service[E]
	// Orgs feeds the organization picker of scoped kinds.
	Orgs api.Service[entity.Organization]
	// Inspect loads the value shown as raw JSON and exported. Defaults to
	// the entity itself.
	Inspect func(ctx context.Context, e E) (any, error)
	Auth    Auth
	Clock   clockwork.Clock
	Logger  *slog.Logger
}

// EntityPage lists, views, creates, edits, imports, exports and deletes
// one entity kind.
type EntityPage[E list.Entity] struct {
	*hxdash.Component[Props]
	opts   Options[E]
	schema entity.Schema[E]
	svc    api.Service[E]
	clock  clockwork.Clock
	logger *slog.Logger
}

// pageState is what one browser holds for one entity page.
type pageState[E list.Entity] struct {
	List   *list.Controller[E]
	Orgs   *list.Controller[entity.Organization]
	Create *form.Controller
	Edit   *form.Controller

	mu         sync.Mutex
	orgID      int64
	editID     int64
	view       *E
	viewRaw    any
	importInto string
	visited    bool
}

func (st *pageState[E]) org() int64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.orgID
}

func (st *pageState[E]) editing() int64 {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.editID
}

func (st *pageState[E]) form(name string) (*form.Controller, error) {
	switch name {
	case formCreate:
		return st.Create, nil
	case formEdit:
		return st.Edit, nil
	}
	return nil, fmt.Errorf("%w: form %q", hxdash.ErrNotFound, name)
}

// NewEntityPage builds the page for opts.Schema.
func NewEntityPage[E list.Entity](opts Options[E]) *EntityPage[E] {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	p := &EntityPage[E]{
		Component: hxdash.New[Props](opts.Schema.Kind),
		opts:      opts,
		schema:    opts.Schema,
		svc:       opts.Service,
		clock:     opts.Clock,
		logger:    opts.Logger.With("page", opts.Schema.Kind),
	}

	p.Action("refresh", p.with(p.handleRefresh))
	p.Action("search", p.with(p.handleSearch))
	p.Action("scope", p.with(p.handleScope))
	p.Action("select", p.with(p.handleSelect))
	p.Action("select-all", p.with(p.handleSelectAll))
	p.Action("new", p.with(p.handleNew))
	p.Action("edit", p.with(p.handleEdit))
	p.Action("view", p.with(p.handleView))
	p.Action("close", p.with(p.handleClose))
	p.Action("change", p.with(p.handleChange))
	p.Action("submit", p.with(p.handleSubmit))
	p.Action("import-open", p.with(p.handleImportOpen))
	p.Action("import", p.with(p.handleImport))
	p.Action("delete", p.with(p.handleDelete))
	p.Action("delete-selected", p.with(p.handleDeleteSelected))
	p.Action("confirm", p.with(p.handleConfirm))
	p.Action("cancel", p.with(p.handleCancel))
	p.Action("export", p.handleExport).Method(http.MethodGet)
	return p
}

// Path is the plural name, e.g. "/autoposting-categories".
func (p *EntityPage[E]) Path() string {
	return "/" + strings.ReplaceAll(strings.ToLower(p.schema.Plural), " ", "-")
}

func (p *EntityPage[E]) Title() string { return p.schema.Plural }
func (p *EntityPage[E]) Public() bool  { return false }

// id namespaces element and modal ids by kind.
func (p *EntityPage[E]) id(part string) string {
	return p.schema.Kind + "-" + part
}

func (p *EntityPage[E]) state(ws *workspace.Workspace) *pageState[E] {
	return workspace.Page(ws, "page:"+p.schema.Kind, func() *pageState[E] {
		return p.newState()
	})
}

func (p *EntityPage[E]) newState() *pageState[E] {
	st := &pageState[E]{}
	listOpts := list.Options[E]{
		Filter:   p.schema.Matches,
		Compare:  p.schema.Compare,
		AutoLoad: true,
		Logger:   p.logger,
	}
	if !p.schema.Scoped {
		listOpts.Loader = p.svc.GetAll
		listOpts.LoaderKey = "all"
	}
	st.List = list.New(listOpts)

	if p.schema.Scoped && p.opts.Orgs != nil {
		st.Orgs = list.New(list.Options[entity.Organization]{
			Loader:    p.opts.Orgs.GetAll,
			LoaderKey: "all",
			Compare:   entity.Organizations.Compare,
			AutoLoad:  true,
			Logger:    p.logger,
		})
	}

	st.Create = form.New(form.Options{
		Initial:  p.schema.Initial,
		Validate: p.schema.Validate,
		Logger:   p.logger,
		Submit: func(ctx context.Context, v form.Values, _ form.Mode) error {
			_, err := p.svc.Create(ctx, p.record(st, v))
			return err
		},
	})
	st.Edit = form.New(form.Options{
		Initial:  p.schema.Initial,
		Validate: p.schema.Validate,
		Logger:   p.logger,
		Submit: func(ctx context.Context, v form.Values, _ form.Mode) error {
			_, err := p.svc.Update(ctx, st.editing(), p.record(st, v))
			return err
		},
	})
	return st
}

func (p *EntityPage[E]) record(st *pageState[E], v form.Values) E {
	e := p.schema.FromForm(v)
	if p.schema.Scoped && p.schema.SetOrganization != nil {
		e = p.schema.SetOrganization(e, st.org())
	}
	return e
}

// Hydrate binds the browser's list to the organization in props. Load
// failures are kept in the list state.
func (p *EntityPage[E]) Hydrate(ctx context.Context, props *Props) error {
	if p.opts.Auth != nil && !p.opts.Auth.State().Authenticated {
		return hxdash.ErrUnauthorized
	}
	ws, err := workspace.FromContext(ctx)
	if err != nil {
		return err
	}
	p.bind(ctx, p.state(ws), *props)
	return nil
}

func (p *EntityPage[E]) bind(ctx context.Context, st *pageState[E], props Props) {
	if st.Orgs != nil {
		_ = st.Orgs.Start(ctx)
	}
	if !p.schema.Scoped {
		_ = st.List.Start(ctx)
		return
	}

	st.mu.Lock()
	st.orgID = props.OrgID
	st.mu.Unlock()

	orgID := props.OrgID
	_ = st.List.SetLoader(ctx, "org:"+strconv.FormatInt(orgID, 10), func(ctx context.Context) ([]E, error) {
		if orgID == 0 {
			return []E{}, nil
		}
		return p.svc.GetByOrganization(ctx, orgID)
	})
}

// Full renders the page for a full page load. Revisits reload the list.
func (p *EntityPage[E]) Full(ctx context.Context, r *http.Request) (templ.Component, error) {
	props := Props{OrgID: parseID(r.URL.Query().Get("org"))}
	if err := p.Hydrate(ctx, &props); err != nil {
		return nil, err
	}
	ws, _ := workspace.FromContext(ctx)
	st := p.state(ws)

	st.mu.Lock()
	revisit := st.visited
	st.visited = true
	st.mu.Unlock()
	if revisit {
		_ = st.List.Refresh(ctx)
	}
	return p.Render(ctx, props), nil
}

type handler[E list.Entity] func(ctx context.Context, props Props, r *http.Request, ws *workspace.Workspace, st *pageState[E]) hxdash.Result[Props]

// with resolves the workspace and page state for a handler.
func (p *EntityPage[E]) with(h handler[E]) func(context.Context, Props, *http.Request) hxdash.Result[Props] {
	return func(ctx context.Context, props Props, r *http.Request) hxdash.Result[Props] {
		ws, err := workspace.FromContext(ctx)
		if err != nil {
			return hxdash.Err(props, err)
		}
		return h(ctx, props, r, ws, p.state(ws))
	}
}

func (p *EntityPage[E]) handleRefresh(ctx context.Context, props Props, _ *http.Request, _ *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	if st.Orgs != nil {
		_ = st.Orgs.Refresh(ctx)
	}
	_ = st.List.Refresh(ctx)
	return hxdash.OK(props)
}

func (p *EntityPage[E]) handleSearch(_ context.Context, props Props, r *http.Request, _ *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	st.List.SetSearch(r.FormValue("q"))
	return hxdash.OK(props)
}

func (p *EntityPage[E]) handleScope(ctx context.Context, props Props, r *http.Request, _ *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	props.OrgID = parseID(r.FormValue("organization_id"))
	st.List.ClearSelection()
	p.bind(ctx, st, props)
	return hxdash.OK(props).PushURL(p.pageURL(props))
}

func (p *EntityPage[E]) pageURL(props Props) string {
	if props.OrgID == 0 {
		return p.Path()
	}
	return withQuery(p.Path(), "org", strconv.FormatInt(props.OrgID, 10))
}

func (p *EntityPage[E]) handleSelect(_ context.Context, props Props, r *http.Request, _ *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	st.List.ToggleSelect(parseID(r.FormValue("id")))
	return hxdash.OK(props)
}

// handleSelectAll selects every visible row, or clears the selection when
// all of them are already selected.
func (p *EntityPage[E]) handleSelectAll(_ context.Context, props Props, _ *http.Request, _ *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	s := st.List.State()
	all := len(s.Entities) > 0
	for _, e := range s.Entities {
		if !s.Selected[e.GetID()] {
			all = false
			break
		}
	}
	if all {
		st.List.ClearSelection()
	} else {
		st.List.SelectAll()
	}
	return hxdash.OK(props)
}

func (p *EntityPage[E]) handleNew(_ context.Context, props Props, _ *http.Request, ws *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	st.Create.SwitchToCreate()
	ws.Modals.Get(p.id(formCreate)).Open()
	return hxdash.OK(props)
}

// lookup finds id in the loaded list, falling back to the service.
func (p *EntityPage[E]) lookup(ctx context.Context, st *pageState[E], id int64) (E, error) {
	if e, ok := st.List.Find(id); ok {
		return e, nil
	}
	return p.svc.GetByID(ctx, id)
}

func (p *EntityPage[E]) handleEdit(ctx context.Context, props Props, r *http.Request, ws *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	id := parseID(r.FormValue("id"))
	e, err := p.lookup(ctx, st, id)
	if err != nil {
		p.logger.Error("load for edit", "id", id, "err", err)
		ws.Notify.Error(apiclient.Message(err, "Failed to load item"))
		return hxdash.OK(props)
	}

	st.mu.Lock()
	st.editID = id
	st.mu.Unlock()
	form.SwitchToEdit(st.Edit, e, p.schema.ToForm)

	ws.Modals.Get(p.id("details")).Close()
	ws.Modals.Get(p.id(formEdit)).Open()
	return hxdash.OK(props)
}

func (p *EntityPage[E]) handleView(ctx context.Context, props Props, r *http.Request, ws *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	id := parseID(r.FormValue("id"))
	e, err := p.lookup(ctx, st, id)
	if err != nil {
		p.logger.Error("load for view", "id", id, "err", err)
		ws.Notify.Error(apiclient.Message(err, "Failed to load item"))
		return hxdash.OK(props)
	}
	raw := p.inspect(ctx, ws, e)

	st.mu.Lock()
	st.view = &e
	st.viewRaw = raw
	st.mu.Unlock()

	ws.Modals.Get(p.id("details")).Open()
	return hxdash.OK(props)
}

// inspect returns the raw value for e. A failing Inspect falls back to
// the entity and notifies.
func (p *EntityPage[E]) inspect(ctx context.Context, ws *workspace.Workspace, e E) any {
	if p.opts.Inspect == nil {
		return e
	}
	raw, err := p.opts.Inspect(ctx, e)
	if err != nil {
		p.logger.Error("inspect", "id", e.GetID(), "err", err)
		ws.Notify.Warning(apiclient.Message(err, "Some details could not be loaded"))
		return e
	}
	return raw
}

func (p *EntityPage[E]) handleClose(_ context.Context, props Props, r *http.Request, ws *workspace.Workspace, _ *pageState[E]) hxdash.Result[Props] {
	ws.Modals.Get(p.id(r.FormValue("modal"))).Close()
	return hxdash.OK(props)
}

// handleChange applies one field edit. The browser keeps its control, so
// nothing is rendered.
func (p *EntityPage[E]) handleChange(_ context.Context, props Props, r *http.Request, _ *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	ctl, err := st.form(r.FormValue("form"))
	if err != nil {
		return hxdash.Err(props, err)
	}
	f, ok := ui.ChangedField(p.schema.Sections, hxdash.TriggerName(r))
	if !ok {
		return hxdash.Skip[Props]()
	}
	if v, ok := ui.ParseField(f, r.Form); ok {
		ctl.UpdateField(ui.Name(f), v)
	}
	return hxdash.Skip[Props]()
}

func (p *EntityPage[E]) handleSubmit(ctx context.Context, props Props, r *http.Request, ws *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	name := r.FormValue("form")
	ctl, err := st.form(name)
	if err != nil {
		return hxdash.Err(props, err)
	}
	ctl.UpdateFields(ui.ParseForm(p.schema.Sections, r.Form))
	if !ctl.Submit(ctx) {
		return hxdash.OK(props)
	}

	ws.Modals.Get(p.id(name)).Close()
	verb := "created"
	if name == formEdit {
		verb = "updated"
	}
	ws.Notify.Success(p.schema.Title + " " + verb)
	_ = st.List.Refresh(ctx)
	return hxdash.OK(props).Trigger(p.schema.Kind+":saved", map[string]any{"form": name})
}

func (p *EntityPage[E]) handleImportOpen(_ context.Context, props Props, r *http.Request, ws *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	name := r.FormValue("form")
	if _, err := st.form(name); err != nil {
		return hxdash.Err(props, err)
	}
	st.mu.Lock()
	st.importInto = name
	st.mu.Unlock()
	ws.Modals.Get(p.id("import")).Open()
	return hxdash.OK(props)
}

// handleImport maps a pasted or uploaded document onto the form that
// opened the import dialog.
func (p *EntityPage[E]) handleImport(_ context.Context, props Props, r *http.Request, ws *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	st.mu.Lock()
	target := st.importInto
	st.mu.Unlock()
	ctl, err := st.form(target)
	if err != nil {
		return hxdash.Err(props, err)
	}

	text := []byte(r.FormValue("import"))
	if file, _, err := r.FormFile("file"); err == nil {
		data, rerr := io.ReadAll(io.LimitReader(file, maxImportSize))
		file.Close()
		if rerr != nil {
			ws.Notify.Error("Could not read the uploaded file")
			return hxdash.OK(props)
		}
		if len(bytes.TrimSpace(data)) > 0 {
			text = data
		}
	}

	doc, err := entity.ParseImport(text)
	if err != nil {
		ws.Notify.Error(importMessage(err))
		return hxdash.OK(props)
	}
	values, err := p.schema.FromJSON(doc)
	if err != nil {
		ws.Notify.Error(importMessage(err))
		return hxdash.OK(props)
	}
	if len(values) == 0 {
		ws.Notify.Warning("No matching fields found")
		return hxdash.OK(props)
	}

	ctl.UpdateFields(values)
	ws.Modals.Get(p.id("import")).Close()
	ws.Notify.Success(fmt.Sprintf("Imported %d fields", len(values)))
	return hxdash.OK(props)
}

func importMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrEmptyImport):
		return "Paste JSON or choose a file to import"
	case errors.Is(err, entity.ErrNotObject):
		return "The import must be a single JSON object"
	default:
		return "Invalid JSON: " + err.Error()
	}
}

// handleExport downloads the raw value of one entity.
func (p *EntityPage[E]) handleExport(ctx context.Context, props Props, w http.ResponseWriter, r *http.Request) hxdash.Result[Props] {
	ws, err := workspace.FromContext(ctx)
	if err != nil {
		return hxdash.Err(props, err)
	}
	st := p.state(ws)
	id := parseID(r.URL.Query().Get("id"))
	e, err := p.lookup(ctx, st, id)
	if err != nil {
		if apiclient.IsNotFound(err) {
			err = fmt.Errorf("%w: %s %d", hxdash.ErrNotFound, p.schema.Kind, id)
		}
		return hxdash.Err(props, err)
	}
	data, err := entity.Export(p.inspect(ctx, ws, e))
	if err != nil {
		return hxdash.Err(props, err)
	}

	name := entity.ExportFileName(p.schema.Kind, id, p.clock.Now())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
	return hxdash.Skip[Props]()
}

func (p *EntityPage[E]) exportURL(props Props, id int64) string {
	return withQuery(p.Call("export", props).URL(), "id", strconv.FormatInt(id, 10))
}

func (p *EntityPage[E]) handleDelete(ctx context.Context, props Props, r *http.Request, ws *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	id := parseID(r.FormValue("id"))
	name := "#" + strconv.FormatInt(id, 10)
	if e, ok := st.List.Find(id); ok && p.schema.Name != nil {
		name = p.schema.Name(e)
	}

	ws.Confirm.ConfirmDelete(name, func(ctx context.Context) error {
		if err := p.svc.Delete(ctx, id); err != nil {
			ws.Notify.Error(apiclient.Message(err, "Failed to delete"))
			return err
		}
		ws.Modals.Get(p.id("details")).Close()
		ws.Notify.Success(p.schema.Title + " deleted")
		_ = st.List.Refresh(ctx)
		return nil
	})
	return hxdash.OK(props)
}

// handleDeleteSelected deletes every selected row after one confirmation.
// Failed rows stay selected.
func (p *EntityPage[E]) handleDeleteSelected(_ context.Context, props Props, _ *http.Request, ws *workspace.Workspace, st *pageState[E]) hxdash.Result[Props] {
	ids := st.List.SelectedIDs()
	if len(ids) == 0 {
		ws.Notify.Info("Nothing selected")
		return hxdash.OK(props)
	}

	ws.Confirm.ConfirmDelete(fmt.Sprintf("%d selected items", len(ids)), func(ctx context.Context) error {
		var errs error
		deleted := 0
		for _, id := range ids {
			if err := p.svc.Delete(ctx, id); err != nil {
				errs = multierr.Append(errs, err)
				continue
			}
			st.List.Deselect(id)
			deleted++
		}
		_ = st.List.Refresh(ctx)
		if errs != nil {
			ws.Notify.Error(fmt.Sprintf("Deleted %d of %d: %s", deleted, len(ids),
				apiclient.Message(multierr.Errors(errs)[0], "Failed to delete")))
			return errs
		}
		ws.Notify.Success(fmt.Sprintf("Deleted %d items", deleted))
		return nil
	})
	return hxdash.OK(props)
}

func (p *EntityPage[E]) handleConfirm(ctx context.Context, props Props, _ *http.Request, ws *workspace.Workspace, _ *pageState[E]) hxdash.Result[Props] {
	// A failure keeps the dialog open; the action has already notified.
	_ = ws.Confirm.HandleConfirm(ctx)
	return hxdash.OK(props)
}

func (p *EntityPage[E]) handleCancel(_ context.Context, props Props, _ *http.Request, ws *workspace.Workspace, _ *pageState[E]) hxdash.Result[Props] {
	ws.Confirm.HandleCancel()
	return hxdash.OK(props)
}
