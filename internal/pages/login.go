package pages

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"github.com/a-h/templ"
	"github.com/pthm/hxdash"
	"github.com/pthm/hxdash/internal/workspace"
	"github.com/pthm/hxdash/lib/auth"
	"github.com/pthm/hxdash/lib/ui"
)

// LoginProps is empty; the login page has no URL state.
type LoginProps struct{}

type loginState struct {
	mu  sync.Mutex
	err string
}

func (s *loginState) set(msg string) {
	s.mu.Lock()
	s.err = msg
	s.mu.Unlock()
}

func (s *loginState) message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// LoginPage signs the dashboard in to one account and out again.
type LoginPage struct {
	*hxdash.Component[LoginProps]
	auth   Auth
	home   string
	logger *slog.Logger
}

// NewLoginPage builds the login page. home is where a successful login
// goes.
func NewLoginPage(a Auth, home string, logger *slog.Logger) *LoginPage {
	if logger == nil {
		logger = slog.Default()
	}
	p := &LoginPage{
		Component: hxdash.New[LoginProps]("login"),
		auth:      a,
		home:      home,
		logger:    logger.With("page", "login"),
	}
	p.Action("login", p.handleLogin)
	p.Action("logout", p.handleLogout)
	return p
}

func (p *LoginPage) Path() string  { return "/login" }
func (p *LoginPage) Title() string { return "Sign in" }
func (p *LoginPage) Public() bool  { return true }

func (p *LoginPage) Hydrate(context.Context, *LoginProps) error { return nil }

func (p *LoginPage) Full(ctx context.Context, _ *http.Request) (templ.Component, error) {
	return p.Render(ctx, LoginProps{}), nil
}

// LogoutAttrs returns the attributes of a sign-out button.
func (p *LoginPage) LogoutAttrs() templ.Attributes {
	return p.Call("logout", LoginProps{}).Attrs()
}

func (p *LoginPage) state(ws *workspace.Workspace) *loginState {
	return workspace.Page(ws, "page:login", func() *loginState { return &loginState{} })
}

func (p *LoginPage) handleLogin(ctx context.Context, props LoginProps, r *http.Request) hxdash.Result[LoginProps] {
	ws, err := workspace.FromContext(ctx)
	if err != nil {
		return hxdash.Err(props, err)
	}
	st := p.state(ws)
	if err := p.auth.Login(ctx, r.FormValue("account_id")); err != nil {
		if errors.Is(err, auth.ErrEmptyAccount) {
			st.set("Enter an account ID")
		} else {
			p.logger.Error("login", "err", err)
			st.set("Could not save the session")
		}
		return hxdash.OK(props)
	}
	st.set("")
	ws.Notify.Success("Signed in")
	return hxdash.Redirect[LoginProps](p.home)
}

func (p *LoginPage) handleLogout(ctx context.Context, props LoginProps) hxdash.Result[LoginProps] {
	ws, err := workspace.FromContext(ctx)
	if err != nil {
		return hxdash.Err(props, err)
	}
	if err := p.auth.Logout(ctx); err != nil {
		p.logger.Error("logout", "err", err)
		ws.Notify.Error("Could not sign out")
		return hxdash.Redirect[LoginProps](p.Path())
	}
	ws.Reset()
	return hxdash.Redirect[LoginProps](p.Path())
}

func (p *LoginPage) Render(ctx context.Context, props LoginProps) templ.Component {
	ws, err := workspace.FromContext(ctx)
	if err != nil {
		return ui.Banner(err.Error())
	}
	root := templ.Attributes{"id": "login-page", "class": "hxdash-page hxdash-login"}

	if s := p.auth.State(); s.Authenticated {
		return ui.Element("div", root,
			ui.Element("h1", nil, ui.Text("Signed in")),
			ui.Element("p", nil, ui.Text("Account "+s.AccountID)),
			ui.Element("div", templ.Attributes{"class": "hxdash-form-actions"},
				ui.Element("a", templ.Attributes{"href": p.home, "class": "btn btn-primary"}, ui.Text("Continue")),
				ui.Button("Sign out", "secondary", p.LogoutAttrs()),
			),
		)
	}

	st := p.state(ws)
	return ui.Element("div", root,
		ui.Element("h1", nil, ui.Text(p.Title())),
		ui.Element("form", ui.Attrs(
			templ.Attributes{"class": "hxdash-form"},
			p.Call("login", props).Target("#login-page").Attrs(),
		),
			ui.Banner(st.message()),
			ui.Element("label", templ.Attributes{"for": "account_id"}, ui.Text("Account ID")),
			ui.Element("input", templ.Attributes{
				"id":        "account_id",
				"name":      "account_id",
				"required":  true,
				"autofocus": true,
			}),
			ui.Element("div", templ.Attributes{"class": "hxdash-form-actions"},
				ui.Element("button", templ.Attributes{"type": "submit", "class": "btn btn-primary"}, ui.Text("Sign in")),
			),
		),
	)
}
