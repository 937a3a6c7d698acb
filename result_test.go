package hxdash

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestResultConstructors(t *testing.T) {
	props := orgProps{OrgID: 5}

	ok := OK(props)
	if ok.GetProps() != props || ok.GetErr() != nil || ok.ShouldSkip() || ok.GetRedirect() != "" {
		t.Errorf("OK = %+v", ok)
	}

	failure := errors.New("organization 5 gone")
	if got := Err(props, failure); got.GetErr() != failure || got.GetProps() != props {
		t.Errorf("Err = %+v", got)
	}

	if !Skip[orgProps]().ShouldSkip() {
		t.Error("Skip().ShouldSkip() = false")
	}

	r := Redirect[orgProps]("/login")
	if r.GetRedirect() != "/login" || r.GetProps() != (orgProps{}) {
		t.Errorf("Redirect = %+v", r)
	}
}

func TestResultFlashes(t *testing.T) {
	r := OK(orgProps{}).
		Flash(FlashSuccess, "Deleted 3 items").
		Flash(FlashError, "Deleted 3 of 4: locked").
		FlashFor(FlashWarning, "Some details could not be loaded", 0)

	want := []Flash{
		{Level: FlashSuccess, Message: "Deleted 3 items", Duration: 3 * time.Second},
		{Level: FlashError, Message: "Deleted 3 of 4: locked", Duration: 5 * time.Second},
		{Level: FlashWarning, Message: "Some details could not be loaded"},
	}
	got := r.GetFlashes()
	if len(got) != len(want) {
		t.Fatalf("GetFlashes = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("flash %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestResultTriggerAndHeaders(t *testing.T) {
	r := OK(orgProps{}).
		Trigger("employee:saved", map[string]any{"form": "create"}).
		PushURL("/employees?org=3").
		Header("Cache-Control", "no-store").
		Status(422)

	if r.GetTrigger() != "employee:saved" || r.GetTriggerData()["form"] != "create" {
		t.Errorf("trigger = %q %v", r.GetTrigger(), r.GetTriggerData())
	}
	h := r.GetHeaders()
	if h["HX-Push-Url"] != "/employees?org=3" || h["Cache-Control"] != "no-store" {
		t.Errorf("headers = %v", h)
	}
	if r.GetStatus() != 422 {
		t.Errorf("status = %d", r.GetStatus())
	}

	if bare := OK(orgProps{}).Trigger("category:saved"); bare.GetTriggerData() != nil {
		t.Errorf("trigger without detail carried %v", bare.GetTriggerData())
	}
}

func TestResultBuilderKeepsBaseIntact(t *testing.T) {
	base := OK(orgProps{}).Flash(FlashInfo, "Nothing selected")
	_ = base.Flash(FlashSuccess, "Imported 2 fields").Header("X-Extra", "1")

	if n := len(base.GetFlashes()); n != 1 {
		t.Errorf("base has %d flashes, want 1", n)
	}
	if base.GetHeaders() != nil {
		t.Errorf("base headers = %v", base.GetHeaders())
	}
}

func TestResultStatusApplied(t *testing.T) {
	reg := NewRegistry([]byte("dashboard-test-secret"))
	p := newOrgsPage()
	p.Action("reject", func(ctx context.Context, props orgProps) Result[orgProps] {
		return OK(props).Status(422).Header("X-Form", "create")
	})
	reg.Add(p)

	res := post(t, p, "reject", orgProps{}, nil)
	if res.StatusCode != 422 || res.GetHeader("X-Form") != "create" {
		t.Errorf("status %d headers %v", res.StatusCode, res.Headers)
	}
	if !res.HTMLContains(`<table id="orgs"`) {
		t.Errorf("HTML = %s", res.HTML)
	}
}
