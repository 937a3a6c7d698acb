// Package hxdash provides the component system the dashboard is built on:
// server-rendered, interactive pages using Go, templ and HTMX.
//
// Components are self-contained units with their own templates, handlers
// and routes. They are strongly typed via Go generics.
//
// # Core Concepts
//
// Components embed *Component[P] where P is the Props type. Props must be
// serializable and should contain only ids and small view settings. Rich
// state (list and form controllers, the signed-in account) is attached
// during hydration.
//
//	type OrganizationsPage struct {
//	    *hxdash.Component[Props]
//	    orgs *api.Resource[entity.Organization]
//	}
//
// The lifecycle is formalized through two required interfaces:
//   - Hydrater[P]: Hydrate(ctx, *P) rebuilds request state from props
//   - Renderer[P]: Render(ctx, P) produces the templ.Component output
//
// Hydrate runs before any handler. Render is called after actions that
// return OK.
//
// # Actions and Routing
//
// Actions are registered with semantic names using c.Action():
//
//	c.Action("submit", c.handleSubmit)
//	c.Action("export", c.handleExport).Method(http.MethodGet)
//
// Templates reach an action through Call, which panics on unknown names so
// typos surface on first render:
//
//	c.Call("delete", props).Vals(map[string]any{"id": org.ID}).Target("#organizations").Attrs()
//
// Each component receives a unique URL prefix based on its name and source
// location hash. The registry prevents prefix collisions at registration time.
//
// # Security Model
//
// Props are encoded in URLs using one of two modes:
//   - Signed (default): HMAC-authenticated msgpack, visible but tamper-proof
//   - Encrypted: AES-GCM encrypted, opaque to clients (use .Sensitive())
//
// CSRF protection is automatic: mutating methods (POST/PUT/DELETE/PATCH)
// require the HX-Request: true header that HTMX sends.
//
// # Component Communication
//
// Components communicate through events and flash messages:
//
//	// Emitter sends event with data:
//	return hxdash.OK(props).Trigger("organization:saved", map[string]any{"id": org.ID})
//
//	// Listener responds to event in template:
//	c.Refresh(props).Trigger("organization:saved from:body").Attrs()
//
//	// One-time toast rendered as an OOB swap:
//	return hxdash.OK(props).Flash(hxdash.FlashSuccess, "Saved")
//
// Toasts queued outside of a Result (the per-browser notification
// controller) reach the browser through Registry.Flashes.
//
// # Registration
//
//	reg := hxdash.NewRegistry(secret)
//	reg.Add(organizationsPage, categoriesPage, confirmDialog)
//	e.Any("/_c/*", echo.WrapHandler(reg.Handler()))
//
// The registry provides centralized error handling via OnError and checks
// interface requirements at registration time, not during requests.
package hxdash
