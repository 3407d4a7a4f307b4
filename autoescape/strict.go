// Package autoescape provides template rewriters that apply escaping rules.
package autoescape

import (
	"github.com/ctxsoy/soy/data"
	"github.com/ctxsoy/soy/soyhtml"
	"github.com/ctxsoy/soy/template"
)

// Strict rewrites all templates in the given registry to add
// contextually-appropriate escaping directives to all print commands.
//
// Instead of specifying an escaping routine to use for a dynamic value,
// specify the "kind" of the data (text, html, css, uri, js, attributes) and
// the correct escaping routines will be used for the kind of data and the
// context in which it's used.
//
// Analysis starts independently from every template that is never the
// target of a {call} (the roots of the call graph), each from the state its
// own declared kind starts in; every other template's start/end context
// pair is inferred once, on first reference, and reused at every call site,
// since that pair depends only on the template's own kind and body, never
// on where it's called from.
//
// NOTE: There are some differences in the escaping behavior from the
// official implementation. Roughly, this implementation is a little more
// conservative. Here is a partial list
//
//  +----------------+------+-----------+---------+
//  | Context        | From | To (Java) | To (Go) |
//  +----------------+------+-----------+---------+
//  | Attributes     | '    | '         | &#34;   |
//  | JS             | <    | &lt;      | \u003c  |
//  | JS             | >    | &gt;      | (JSON)  |
//  | JS String      | /    | /         | \/      |
//  | JS String      | '    | \'        | \x27    |
//  | JS String      | "    | \"        | \x22    |
//  +----------------+------+-----------+---------+
//
//  (JSON): '>' becomes its JSON unicode escape, the same form as '<' above.
func Strict(reg *template.Registry) (err error) {
	var currentTemplate string
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(*Error); ok {
				if e.Name == "" {
					e.Name = currentTemplate
				}
				err = e
				return
			}
			panic(r)
		}
	}()

	var inf = newInferences(reg)
	var e = &engine{registry: reg, inferences: inf}

	var graph = newCallGraph(reg)
	for _, root := range graph.roots() {
		currentTemplate = root.Node.Name
		e.walk(root.Node, context{state: startStateForKind(kind(root.Node.Kind))})
	}

	rewrite(inf, reg)
	return nil
}

// startStateForKind returns the scanner state a content block of the given
// kind is always analyzed as starting in, regardless of where it's called
// or declared from: a template, {let}, or {param}'s kind alone fixes it.
func startStateForKind(k kind) state {
	switch k {
	case kindCSS:
		return stateCSS
	case kindNone, kindHTML:
		return stateText
	case kindAttr:
		return stateTag
	case kindJS:
		return stateJS
	case kindURL:
		return stateURL
	case kindText:
		return stateText
	default:
		panic("unknown kind: " + string(k))
	}
}

// funcMap maps command names to functions that render their inputs safe.
var funcMap = map[string]func(value data.Value, args []data.Value) data.Value{
	"escapeHtmlAttribute":        attrEscaper,
	"escapeCssString":            cssEscaper,
	"filterCssValue":             cssValueFilter,
	"filterHtmlElementName":      htmlNameFilter,
	"filterHtmlAttributes":       filterHtmlAttributes,
	"escapeHtml":                 htmlEscaper,
	"escapeJsRegex":              jsRegexpEscaper,
	"escapeJsString":             jsStrEscaper,
	"escapeJsValue":              jsValEscaper,
	"escapeHtmlAttributeNospace": htmlNospaceEscaper,
	"escapeHtmlRcdata":           rcdataEscaper,
	"escapeUri":                  urlEscaper,
	"filterNormalizeUri":         urlFilter,
	"normalizeUri":               urlNormalizer,
}

func init() {
	for k, v := range funcMap {
		soyhtml.PrintDirectives[k] = soyhtml.PrintDirective{v, []int{0}, true}
	}
}

// filterFailsafe is an innocuous word that is emitted in place of unsafe
// values by sanitizer functions. It is not a keyword in any programming
// language, contains no special characters, is not empty, and when it
// appears in output it is distinct enough that a developer can find the
// source of the problem via a search engine.
const filterFailsafe = data.String("zSoyz")
