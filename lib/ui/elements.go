package ui

import (
	"github.com/a-h/templ"
)

var voidElements = map[string]bool{
	"br": true, "hr": true, "img": true, "input": true, "link": true, "meta": true,
}

// Element renders <tag attrs>children</tag>. Void elements ignore
// children.
func Element(tag string, attrs templ.Attributes, children ...templ.Component) templ.Component {
	return component(func(hw *htmlWriter) {
		hw.raw("<" + templ.EscapeString(tag))
		hw.attrs(attrs)
		hw.raw(">")
		if voidElements[tag] {
			return
		}
		for _, c := range children {
			hw.component(c)
		}
		hw.raw("</" + templ.EscapeString(tag) + ">")
	})
}

// Group renders children one after another.
func Group(children ...templ.Component) templ.Component {
	return component(func(hw *htmlWriter) {
		for _, c := range children {
			hw.component(c)
		}
	})
}

// Button renders a button. attrs are merged over type="button".
func Button(label, variant string, attrs templ.Attributes) templ.Component {
	if variant == "" {
		variant = "secondary"
	}
	base := templ.Attributes{"type": "button", "class": "btn btn-" + variant}
	return Element("button", mergeAttrs(base, attrs), Text(label))
}

// Banner renders an error message box, or nothing for "".
func Banner(message string) templ.Component {
	if message == "" {
		return Group()
	}
	return Element("div", templ.Attributes{"class": "hxdash-error-banner", "role": "alert"}, Text(message))
}

// Attrs merges attribute sets; later sets win.
func Attrs(sets ...templ.Attributes) templ.Attributes {
	return mergeAttrs(sets...)
}
