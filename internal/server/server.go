// Package server wires configuration, the auth store, the remote API and
// the dashboard pages into an Echo server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pthm/hxdash"
	hxdashecho "github.com/pthm/hxdash/adapters/echo"
	"github.com/pthm/hxdash/internal/api"
	"github.com/pthm/hxdash/internal/config"
	"github.com/pthm/hxdash/internal/entity"
	"github.com/pthm/hxdash/internal/pages"
	"github.com/pthm/hxdash/internal/workspace"
	"github.com/pthm/hxdash/lib/apiclient"
	"github.com/pthm/hxdash/lib/auth"
	"golang.org/x/sync/errgroup"
)

const (
	sessionCookie   = "hxdash_session"
	pruneInterval   = 10 * time.Minute
	shutdownTimeout = 10 * time.Second
)

// Server is the assembled dashboard.
type Server struct {
	Echo       *echo.Echo
	Registry   *hxdash.Registry
	Workspaces *workspace.Manager

	cfg    *config.Config
	auth   *auth.Store
	login  *pages.LoginPage
	pages  []pages.Page
	nav    []pages.NavItem
	logger *slog.Logger
}

// New builds the server. The API is reached through an apiclient that
// sends the signed-in account with every request.
func New(cfg *config.Config, store *auth.Store, logger *slog.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	client, err := apiclient.New(apiclient.Config{
		BaseURL:       cfg.API.BaseURL,
		Timeout:       cfg.API.Timeout,
		RateLimit:     cfg.API.RateLimit,
		Burst:         cfg.API.Burst,
		AccountHeader: cfg.API.AccountHeader,
		AccountID:     store.AccountID,
		Logger:        logger,
	})
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}
	return NewWithAPI(cfg, store, api.New(client), logger), nil
}

// NewWithAPI builds the server around an existing API binding.
func NewWithAPI(cfg *config.Config, store *auth.Store, a *api.API, logger *slog.Logger) *Server {
	sessions := scs.New()
	sessions.Lifetime = cfg.Session.Lifetime
	sessions.Cookie.Name = sessionCookie
	sessions.Cookie.SameSite = http.SameSiteLaxMode

	s := &Server{
		Echo:       echo.New(),
		Workspaces: workspace.NewManager(sessions, workspace.WithLogger(logger)),
		cfg:        cfg,
		auth:       store,
		logger:     logger,
	}
	s.Echo.HideBanner = true
	s.Echo.HidePort = true
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "err", v.Error)
			return nil
		},
	}))

	g := s.Echo.Group("", echo.WrapMiddleware(s.Workspaces.Middleware))
	opts := []hxdashecho.Option{hxdashecho.WithFlashes(s.Workspaces), hxdashecho.WithLogger(logger)}
	if cfg.Secret != "" {
		opts = append(opts, hxdashecho.WithKey([]byte(cfg.Secret)))
	}
	s.Registry = hxdashecho.MountGroup(g, opts...)

	s.pages = entityPages(a, store, logger)
	s.login = pages.NewLoginPage(store, s.pages[0].Path(), logger)
	s.nav = pages.Nav(s.pages...)

	s.Registry.Add(s.login)
	g.GET(s.login.Path(), s.page(s.login))
	for _, p := range s.pages {
		s.Registry.Add(p)
		g.GET(p.Path(), s.page(p))
	}
	g.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusSeeOther, s.pages[0].Path())
	})

	store.Subscribe(func(st auth.State) {
		logger.Info("auth changed", "authenticated", st.Authenticated, "account", st.AccountID)
	})
	return s
}

func entityPages(a *api.API, store *auth.Store, logger *slog.Logger) []pages.Page {
	return []pages.Page{
		pages.NewEntityPage(pages.Options[entity.Organization]{
			Schema:  entity.Organizations,
			Service: a.Organizations,
			Inspect: func(ctx context.Context, o entity.Organization) (any, error) {
				return a.OrganizationWithCost(ctx, o.ID)
			},
			Auth:   store,
			Logger: logger,
		}),
		pages.NewEntityPage(pages.Options[entity.CostMultiplier]{
			Schema: entity.CostMultipliers, Service: a.CostMultipliers, Orgs: a.Organizations, Auth: store, Logger: logger,
		}),
		pages.NewEntityPage(pages.Options[entity.Category]{
			Schema: entity.Categories, Service: a.Categories, Orgs: a.Organizations, Auth: store, Logger: logger,
		}),
		pages.NewEntityPage(pages.Options[entity.Autoposting]{
			Schema: entity.Autopostings, Service: a.Autopostings, Orgs: a.Organizations, Auth: store, Logger: logger,
		}),
		pages.NewEntityPage(pages.Options[entity.AutopostingCategory]{
			Schema: entity.AutopostingCategories, Service: a.AutopostingCategories, Auth: store, Logger: logger,
		}),
		pages.NewEntityPage(pages.Options[entity.Employee]{
			Schema: entity.Employees, Service: a.Employees, Orgs: a.Organizations, Auth: store, Logger: logger,
		}),
	}
}

// page serves p as a full document. Private pages send signed-out
// browsers to the login page.
func (s *Server) page(p pages.Page) echo.HandlerFunc {
	return func(c echo.Context) error {
		st := s.auth.State()
		if !p.Public() && !st.Authenticated {
			return hxdashecho.Redirect(c, s.login.Path())
		}

		ctx := c.Request().Context()
		ws, err := workspace.FromContext(ctx)
		if err != nil {
			return err
		}
		body, err := p.Full(ctx, c.Request())
		if errors.Is(err, hxdash.ErrUnauthorized) {
			return hxdashecho.Redirect(c, s.login.Path())
		}
		if err != nil {
			return err
		}

		// Toasts still alive are shown again on a full load; the queue
		// is marked delivered so the next swap does not repeat them.
		ws.Notify.Drain()
		layout := pages.Layout{
			Title:  p.Title(),
			Active: p.Path(),
			Body:   body,
			Toasts: workspace.Flashes(ws.Notify, ws.Notify.Items()),
		}
		if st.Authenticated {
			layout.Nav = s.nav
			layout.Account = st.AccountID
			layout.Logout = s.login.LogoutAttrs()
		}
		return hxdashecho.Render(c, layout.Component())
	}
}

// Run serves until ctx is done, pruning idle workspaces meanwhile.
func (s *Server) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", s.cfg.Listen)
		if err := s.Echo.Start(s.cfg.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		s.Workspaces.RunPruner(ctx, pruneInterval, s.cfg.Session.Lifetime)
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Echo.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
