// This file defines the typed-content wrappers that let a caller mark a
// value as already safe for a particular output kind (e.g. HTML produced
// by a trusted markdown renderer). htmlEscaper passes typed HTML through
// unchanged and urlFilter passes typed URLs through; the other escapers
// and filters treat a wrapper as its raw text. Modeled on html/template's content.go
// and exposed under the names the Closure-style "kind" attribute uses.

package autoescape

import "github.com/ctxsoy/soy/data"

// content is a data.Value that carries a raw string tagged with the
// output kind it is already safe for.
type content struct {
	text string
	kind kind
}

func (c content) Truthy() bool { return c.text != "" }
func (c content) String() string { return c.text }
func (c content) Equals(o data.Value) bool {
	o2, ok := o.(content)
	return ok && c.kind == o2.kind && c.text == o2.text
}

var _ data.Value = content{}

// HTML marks s as safe, well-formed HTML markup.
func HTML(s string) data.Value { return content{s, kindHTML} }

// CSS marks s as safe CSS source text (a full style block or a
// property value).
func CSS(s string) data.Value { return content{s, kindCSS} }

// JS marks s as safe JavaScript source text.
func JS(s string) data.Value { return content{s, kindJS} }

// URL marks s as a safe, already-escaped URL reference.
func URL(s string) data.Value { return content{s, kindURL} }

// Attr marks s as a safe, fully formed "name=value" attribute list.
func Attr(s string) data.Value { return content{s, kindAttr} }

// stringArg extracts the display form of a data.Value for use inside an
// escaper: data.String.String() wraps its payload in quotes for use in
// debug/expression dumps, which no escaper wants, so string values are
// unwrapped directly; typed content wrappers return their raw text;
// everything else falls back to its own String().
func stringArg(v data.Value) string {
	switch t := v.(type) {
	case data.String:
		return string(t)
	case content:
		return t.text
	default:
		return v.String()
	}
}

// contentKindOf reports the kind a content wrapper was tagged with, or
// kindNone if v is not one.
func contentKindOf(v data.Value) (kind, bool) {
	if c, ok := v.(content); ok {
		return c.kind, true
	}
	return kindNone, false
}
