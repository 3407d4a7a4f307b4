// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// HTML-context escaper functions: plain text, RCDATA, element/attribute
// names, and the attribute-value quoting wrappers. Adapted from
// html/template's html.go and generalized to read from/return
// data.Value so they can be registered directly into
// soyhtml.PrintDirectives.

package autoescape

import (
	"strings"

	"github.com/ctxsoy/soy/data"
)

var htmlReplacer = strings.NewReplacer(
	`&`, "&amp;",
	`'`, "&#34;",
	`"`, "&#34;",
	`<`, "&lt;",
	`>`, "&gt;",
)

// htmlEscaper escapes for inclusion in ordinary HTML text or attribute
// values (it is used as the default content escaper everywhere except
// RCDATA elements, which decode entities eagerly and so get
// rcdataEscaper instead). Typed HTML content is passed through unchanged.
func htmlEscaper(value data.Value, _ []data.Value) data.Value {
	if k, ok := contentKindOf(value); ok && k == kindHTML {
		return data.String(stringArg(value))
	}
	return data.String(htmlReplacer.Replace(stringArg(value)))
}

// rcdataEscaper is identical to htmlEscaper for this package's
// purposes: RCDATA (textarea, title) still forbids a literal "<" from
// being misread as a tag, since browsers only suppress tag-parsing,
// not entity-decoding, inside those elements.
func rcdataEscaper(value data.Value, _ []data.Value) data.Value {
	return data.String(htmlReplacer.Replace(stringArg(value)))
}

// attrEscaper escapes for inclusion in a quoted HTML attribute value.
func attrEscaper(value data.Value, _ []data.Value) data.Value {
	return data.String(htmlReplacer.Replace(stringArg(value)))
}

// htmlNospaceReplacer also escapes whitespace and other characters that
// are significant in an unquoted attribute value.
var htmlNospaceReplacer = strings.NewReplacer(
	`&`, "&amp;",
	`'`, "&#34;",
	`"`, "&#34;",
	`<`, "&lt;",
	`>`, "&gt;",
	"\t", "&#9;",
	"\n", "&#10;",
	"\f", "&#12;",
	"\r", "&#13;",
	" ", "&#32;",
	"=", "&#61;",
	"`", "&#96;",
)

// htmlNospaceEscaper escapes for inclusion in an unquoted attribute
// value (one ended by whitespace or the tag's closing '>').
func htmlNospaceEscaper(value data.Value, _ []data.Value) data.Value {
	return data.String(htmlNospaceReplacer.Replace(stringArg(value)))
}

// validIdentPart accepts the runes of element and attribute names that are safe
// to emit verbatim; anything else is almost certainly an attempt to
// smuggle a new tag or attribute into the output.
var validIdentPart = func(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '-' || r == '_' || r == ':'
}

// htmlNameFilter ensures a dynamic element or attribute name contains
// only characters that cannot introduce a new attribute or tag
// boundary. A disallowed value is replaced by the failsafe sentinel.
func htmlNameFilter(value data.Value, _ []data.Value) data.Value {
	s := stringArg(value)
	if s == "" {
		return filterFailsafe
	}
	for _, r := range s {
		if !validIdentPart(r) {
			return filterFailsafe
		}
	}
	return data.String(s)
}

// filterHtmlAttributes is used where a dynamic value supplies one or
// more whole "name=value" attribute pairs (the kind="attributes"
// content kind). Each pair's name is filtered as with
// htmlNameFilter and its value is HTML-attribute-escaped; a malformed
// pair is dropped entirely rather than risk smuggling markup.
func filterHtmlAttributes(value data.Value, _ []data.Value) data.Value {
	s := stringArg(value)
	fields := strings.Fields(s)
	var out []string
	for _, f := range fields {
		eq := strings.IndexByte(f, '=')
		if eq <= 0 {
			continue
		}
		name, val := f[:eq], f[eq+1:]
		val = strings.Trim(val, `"'`)
		ok := true
		for _, r := range name {
			if !validIdentPart(r) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		out = append(out, name+`="`+htmlReplacer.Replace(val)+`"`)
	}
	if out == nil {
		return data.String("")
	}
	return data.String(" " + strings.Join(out, " "))
}
