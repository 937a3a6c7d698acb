package hxdash

import (
	"context"
	"net/http"

	"github.com/a-h/templ"
)

// Hydrater is implemented by components to rebuild request state from the
// small props carried in URLs. Called before every handler, including the
// default GET render.
//
// Dashboard pages use Hydrate to look up the browser's workspace and attach
// its controllers to props:
//
//	func (p *Page) Hydrate(ctx context.Context, props *Props) error {
//	    ws, ok := workspace.FromContext(ctx)
//	    if !ok {
//	        return hxdash.ErrUnauthorized
//	    }
//	    props.state = p.stateFor(ws, props.Scope)
//	    return nil
//	}
type Hydrater[P any] interface {
	Hydrate(ctx context.Context, props *P) error
}

// Renderer is implemented by components to produce templ output.
// Called for GET requests and after action handlers that return OK.
type Renderer[P any] interface {
	Render(ctx context.Context, props P) templ.Component
}

// HXComponent is what the registry routes requests to. Every type that
// embeds *Component[P] satisfies it.
type HXComponent interface {
	HXPrefix() string
	HXServeHTTP(w http.ResponseWriter, r *http.Request)
}
