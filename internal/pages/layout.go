package pages

import (
	"github.com/a-h/templ"
	"github.com/pthm/hxdash"
	"github.com/pthm/hxdash/lib/ui"
)

// HTMXScript is the htmx build the layout loads.
const HTMXScript = "https://unpkg.com/htmx.org@2.0.4"

// layoutScript removes toasts after their delay, closes them on click and
// copies the text named by data-copy-target.
const layoutScript = `
(function () {
  function arm(root) {
    root.querySelectorAll("[data-auto-dismiss]").forEach(function (el) {
      if (el.dataset.armed) return;
      el.dataset.armed = "1";
      setTimeout(function () { el.remove(); }, parseInt(el.dataset.autoDismiss, 10));
    });
  }
  document.addEventListener("click", function (ev) {
    var close = ev.target.closest(".toast-close");
    if (close) { close.closest(".toast").remove(); return; }
    var copy = ev.target.closest("[data-copy-target]");
    if (copy) {
      var src = document.querySelector(copy.dataset.copyTarget);
      if (src && navigator.clipboard) navigator.clipboard.writeText(src.textContent);
    }
  });
  document.addEventListener("DOMContentLoaded", function () { arm(document); });
  document.addEventListener("htmx:afterSettle", function () { arm(document); });
})();
`

// Layout is the document around a page body.
type Layout struct {
	Title  string
	Nav    []NavItem
	Active string
	// Account is shown next to the sign-out button when set.
	Account string
	Logout  templ.Attributes
	Toasts  []hxdash.Flash
	Body    templ.Component
}

// Component renders the full HTML document.
func (l Layout) Component() templ.Component {
	return ui.Group(
		templ.Raw("<!DOCTYPE html>"),
		ui.Element("html", templ.Attributes{"lang": "en"},
			ui.Element("head", nil,
				ui.Element("meta", templ.Attributes{"charset": "utf-8"}),
				ui.Element("meta", templ.Attributes{"name": "viewport", "content": "width=device-width, initial-scale=1"}),
				ui.Element("title", nil, ui.Text(l.Title+" | hxdash")),
				ui.Element("script", templ.Attributes{"src": HTMXScript}),
			),
			ui.Element("body", nil,
				l.nav(),
				ui.Element("main", nil, l.Body),
				hxdash.ToastContainer(l.Toasts),
				ui.Element("script", nil, templ.Raw(layoutScript)),
			),
		),
	)
}

func (l Layout) nav() templ.Component {
	if len(l.Nav) == 0 {
		return ui.Group()
	}
	links := make([]templ.Component, 0, len(l.Nav)+2)
	for _, n := range l.Nav {
		attrs := templ.Attributes{"href": n.Path}
		if n.Path == l.Active {
			attrs["class"] = "active"
			attrs["aria-current"] = "page"
		}
		links = append(links, ui.Element("a", attrs, ui.Text(n.Label)))
	}
	if l.Account != "" {
		links = append(links, ui.Element("span", templ.Attributes{"class": "hxdash-account"}, ui.Text(l.Account)))
	}
	if l.Logout != nil {
		links = append(links, ui.Button("Sign out", "secondary", l.Logout))
	}
	return ui.Element("nav", templ.Attributes{"class": "hxdash-nav"}, links...)
}
