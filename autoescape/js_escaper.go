// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// JS-context escaper functions, adapted from html/template's js.go.
//
// Two distinct escaping styles are used depending on where the value
// lands:
//   - inside an already-quoted JS string or regexp literal, only the
//     handful of characters that could end the literal early need
//     escaping, using \xHH byte escapes (jsStrEscaper, jsRegexpEscaper);
//   - printed as a bare JS value (e.g. in `onclick="{$x}"` or
//     `alert({$x})`), the value must supply its own quoting, using the
//     \uHHHH escapes that encoding/json already produces when asked to
//     guard against HTML-sensitive characters (jsValEscaper).

package autoescape

import (
	"encoding/json"
	"strings"

	"github.com/ctxsoy/soy/data"
)

// jsStrEscapeReplacer escapes the characters that could end a
// single- or double-quoted JS string literal early, or that could be
// misread as closing a surrounding <script> tag.
var jsStrEscapeReplacer = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\x27`,
	`"`, `\x22`,
	`<`, `\x3c`,
	`>`, `\x3e`,
	`&`, `\x26`,
	"/", `\/`,
	"\n", `\n`,
	"\r", `\r`,
)

// jsStrEscaper escapes for inclusion inside an already-quoted JS string
// literal.
func jsStrEscaper(value data.Value, _ []data.Value) data.Value {
	return data.String(jsStrEscapeReplacer.Replace(stringArg(value)))
}

// jsRegexpEscaper escapes for inclusion inside a JS regular expression
// literal. The same characters that could end a string early can also
// end a regexp early, so the same replacer serves both.
func jsRegexpEscaper(value data.Value, _ []data.Value) data.Value {
	return data.String(jsStrEscapeReplacer.Replace(stringArg(value)))
}

// jsValEscaper renders value as a self-delimiting JS expression: a
// quoted, HTML-safely-escaped string literal for string-like values, or
// the value's own literal form padded with a guard space for bare
// numbers/booleans/null (so that, e.g., a preceding '+' in the template
// text cannot combine with a leading digit to change the parse).
func jsValEscaper(value data.Value, _ []data.Value) data.Value {
	switch v := value.(type) {
	case data.String:
		return data.String(jsonQuote(string(v)))
	case content:
		return data.String(jsonQuote(v.text))
	case data.Int, data.Float, data.Bool:
		return data.String(" " + v.String() + " ")
	case data.Null:
		return data.String(" null ")
	default:
		return data.String(jsonQuote(stringArg(value)))
	}
}

// jsonQuote renders s as a JSON string literal, which doubles as a safe
// JS string literal: encoding/json already escapes '<', '>', and '&' to
// guard against breaking out of a surrounding <script> element.
func jsonQuote(s string) string {
	b, err := json.Marshal(s)
	if err != nil {
		return `""`
	}
	return string(b)
}
