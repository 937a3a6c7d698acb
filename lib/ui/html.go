// Package ui renders the generic dashboard building blocks: the data
// table, the form builder, the read-only details viewer and the dialogs.
//
// Everything here is a templ.Component driven by descriptors supplied by
// each entity page. Rendering never fails on missing or oddly shaped
// values; every branch has a textual fallback.
package ui

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter writes markup and remembers the first write error.
type htmlWriter struct {
	w   io.Writer
	ctx context.Context
	err error
}

func newHTMLWriter(ctx context.Context, w io.Writer) *htmlWriter {
	return &htmlWriter{w: w, ctx: ctx}
}

func (hw *htmlWriter) raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

func (hw *htmlWriter) text(s string) {
	hw.raw(templ.EscapeString(s))
}

func (hw *htmlWriter) printf(format string, args ...any) {
	hw.text(fmt.Sprintf(format, args...))
}

// attrs writes attributes in key order.
func (hw *htmlWriter) attrs(a templ.Attributes) {
	if hw.err != nil {
		return
	}
	hw.err = templ.RenderAttributes(hw.ctx, hw.w, renderable(a))
}

func (hw *htmlWriter) attr(key, value string) {
	if hw.err != nil {
		return
	}
	hw.err = templ.RenderAttributes(hw.ctx, hw.w, templ.OrderedAttributes{{Key: key, Value: value}})
}

// renderable keeps the value types templ renders and turns any other
// non-nil value into its string form.
func renderable(a templ.Attributes) templ.Attributes {
	out := make(templ.Attributes, len(a))
	for k, v := range a {
		switch v.(type) {
		case nil:
		case string, bool, int, int32, int64, float64:
			out[k] = v
		default:
			out[k] = fmt.Sprint(v)
		}
	}
	return out
}

func (hw *htmlWriter) component(c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(hw.ctx, hw.w)
}

// component wraps a render function into a templ.Component.
func component(fn func(hw *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := newHTMLWriter(ctx, w)
		fn(hw)
		return hw.err
	})
}

// Text renders escaped text.
func Text(s string) templ.Component {
	return component(func(hw *htmlWriter) { hw.text(s) })
}

func mergeAttrs(sets ...templ.Attributes) templ.Attributes {
	out := templ.Attributes{}
	for _, s := range sets {
		for k, v := range s {
			out[k] = v
		}
	}
	return out
}
