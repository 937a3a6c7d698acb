package hxdash

import (
	"context"
	"errors"
	"io"
	"net/http"
	"reflect"
	"sort"
	"testing"

	"github.com/a-h/templ"
)

type accountKey struct{}

// accountBadge renders the signed-in account found in the context.
type accountBadge struct {
	*Component[struct{}]
}

func (b *accountBadge) Hydrate(ctx context.Context, _ *struct{}) error {
	if _, ok := ctx.Value(accountKey{}).(string); !ok {
		return ErrUnauthorized
	}
	return nil
}

func (b *accountBadge) Render(ctx context.Context, _ struct{}) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "Signed in as "+templ.EscapeString(ctx.Value(accountKey{}).(string)))
		return err
	})
}

func TestTestRenderRunsHydrate(t *testing.T) {
	b := &accountBadge{Component: New[struct{}]("badge")}

	if _, err := TestRender(b, struct{}{}); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("TestRender without account: err = %v", err)
	}

	ctx := context.WithValue(context.Background(), accountKey{}, "42")
	res, err := TestRenderWithContext(ctx, b, struct{}{})
	if err != nil {
		t.Fatal(err)
	}
	if !res.IsOK() || res.HTML != "Signed in as 42" {
		t.Errorf("result = %+v", res)
	}
}

func TestTestActionWithContextReachesHandler(t *testing.T) {
	reg := NewRegistry([]byte("dashboard-test-secret"))
	p := newOrgsPage()
	var seen any
	p.Action("whoami", func(ctx context.Context, props orgProps) Result[orgProps] {
		seen = ctx.Value(accountKey{})
		return OK(props)
	})
	reg.Add(p)

	ctx := context.WithValue(context.Background(), accountKey{}, "7")
	if _, err := TestActionWithContext(ctx, p, p.Call("whoami", orgProps{}).URL(), http.MethodPost, nil); err != nil {
		t.Fatal(err)
	}
	if seen != "7" {
		t.Errorf("handler saw account %v", seen)
	}
}

func TestTestRequestBuild(t *testing.T) {
	ctx := context.WithValue(context.Background(), accountKey{}, "3")
	r := NewTestRequest(http.MethodPost, "/_c/categories/search").
		WithFormValues(map[string]string{"q": "food", "organization_id": "3"}).
		WithHeader("HX-Trigger-Name", "q").
		WithContext(ctx).
		Build()

	if r.Header.Get("HX-Request") != "true" {
		t.Error("HX-Request header missing")
	}
	if r.Header.Get("Content-Type") != "application/x-www-form-urlencoded" {
		t.Errorf("Content-Type = %q", r.Header.Get("Content-Type"))
	}
	if r.FormValue("q") != "food" || r.FormValue("organization_id") != "3" {
		t.Errorf("form = %v", r.Form)
	}
	if TriggerName(r) != "q" || r.Context().Value(accountKey{}) != "3" {
		t.Error("header or context not applied")
	}

	if got := NewTestRequest(http.MethodGet, "/_c/categories/").Build().Header.Get("Content-Type"); got != "" {
		t.Errorf("GET without form has Content-Type %q", got)
	}
}

func TestParseTriggerHeader(t *testing.T) {
	tests := []struct {
		header string
		want   []string
	}{
		{"", nil},
		{"category:saved", []string{"category:saved"}},
		{"category:saved, list:refresh", []string{"category:saved", "list:refresh"}},
		{`{"category:saved":{"form":"edit"},"list:refresh":null}`, []string{"category:saved", "list:refresh"}},
		{`{broken`, nil},
	}
	for _, tt := range tests {
		got := parseTriggerHeader(tt.header)
		sort.Strings(got)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseTriggerHeader(%q) = %v, want %v", tt.header, got, tt.want)
		}
	}
}

func TestParseFlashesIgnoresOtherMarkup(t *testing.T) {
	body := `<table id="orgs"></table>` +
		`<div class="toast-container"></div>` +
		RenderFlashesOOB([]Flash{
			{Level: FlashWarning, Message: "Select an organization first"},
			{Level: FlashSuccess, Message: "Saved & closed"},
		})

	got := parseFlashesFromHTML(body)
	want := []Flash{
		{Level: FlashWarning, Message: "Select an organization first"},
		{Level: FlashSuccess, Message: "Saved & closed"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("parseFlashesFromHTML = %+v, want %+v", got, want)
	}
}

func TestTestResultHelpers(t *testing.T) {
	res := &TestResult{
		HTML:            `<h1>Categories</h1><table id="category-table"></table>`,
		StatusCode:      http.StatusOK,
		Headers:         http.Header{"Hx-Push-Url": {"/categories?org=8"}},
		TriggeredEvents: []string{"category:saved"},
		Flashes:         []Flash{{Level: FlashSuccess, Message: "Category created"}},
	}

	if !res.HTMLContains("Categories") || !res.HTMLContainsAll("<h1>", `id="category-table"`) {
		t.Error("HTML helpers")
	}
	if res.HTMLContainsAll("<h1>", "Employees") {
		t.Error("HTMLContainsAll matched a missing string")
	}
	if !res.HasEvent("category:saved") || res.HasEvent("category:deleted") {
		t.Error("HasEvent")
	}
	if !res.HasFlash(FlashSuccess, "Category created") || res.HasFlash(FlashError, "Category created") {
		t.Error("HasFlash")
	}
	if !res.HasFlashLevel(FlashSuccess) || res.HasFlashLevel(FlashWarning) {
		t.Error("HasFlashLevel")
	}
	if !res.IsOK() || res.GetHeader("HX-Push-Url") != "/categories?org=8" {
		t.Error("status or header helpers")
	}
}
