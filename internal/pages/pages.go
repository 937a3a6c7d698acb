// Package pages implements the dashboard screens as hxdash components:
// one generic entity page per entity kind plus the login page.
//
// Pages keep no state of their own. Everything a browser sees lives in its
// workspace, so the components can be shared by every session.
package pages

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/pthm/hxdash/lib/auth"
)

// Props address an entity page. OrgID scopes kinds listed per
// organization.
type Props struct {
	OrgID int64 `msgpack:"o,omitempty"`
}

// Auth is the part of the auth store pages use.
type Auth interface {
	State() auth.State
	Login(ctx context.Context, accountID string) error
	Logout(ctx context.Context) error
}

// Page is a screen with its own URL.
type Page interface {
	// Path is the URL of the full page, e.g. "/organizations".
	Path() string
	Title() string
	// Public pages are served without a signed-in account.
	Public() bool
	// Full renders the page body for a full page load.
	Full(ctx context.Context, r *http.Request) (templ.Component, error)
}

// NavItem is one entry of the navigation bar.
type NavItem struct {
	Path  string
	Label string
}

// Nav lists pages in order.
func Nav(pages ...Page) []NavItem {
	out := make([]NavItem, 0, len(pages))
	for _, p := range pages {
		if p.Public() {
			continue
		}
		out = append(out, NavItem{Path: p.Path(), Label: p.Title()})
	}
	return out
}

func parseID(s string) int64 {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// withQuery appends key=value to a URL that may already have a query.
func withQuery(u, key, value string) string {
	sep := "?"
	if strings.Contains(u, "?") {
		sep = "&"
	}
	return u + sep + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}
