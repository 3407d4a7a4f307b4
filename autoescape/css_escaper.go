// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// CSS-context escaper functions, adapted from html/template's css.go.

package autoescape

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ctxsoy/soy/data"
)

const cssUnsafe = "\x00\n\r\f\\\"'<>{};:*/(),&#"

func needsCSSEscape(r rune) bool {
	return r < 0x20 || strings.ContainsRune(cssUnsafe, r) || r == utf8.RuneError
}

func isHexDigitOrSpace(r rune) bool {
	switch {
	case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		return true
	case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f':
		return true
	}
	return false
}

// cssEscapeString backslash-escapes runes that are special inside a CSS
// string or identifier, leaving ordinary letters, digits, and the
// common punctuation CSS treats as plain text untouched. A \XXXXXX
// escape only needs a trailing space to terminate its hex digits when
// the following rune could otherwise be read as part of them (or when
// nothing in the template is known to follow, at the end of the
// value).
func cssEscapeString(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if !needsCSSEscape(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteByte('\\')
		b.WriteString(strconv.FormatInt(int64(r), 16))
		if i+1 == len(runes) || isHexDigitOrSpace(runes[i+1]) {
			b.WriteByte(' ')
		}
	}
	return b.String()
}

// cssEscaper escapes for inclusion inside a single- or double-quoted
// CSS string literal.
func cssEscaper(value data.Value, _ []data.Value) data.Value {
	return data.String(cssEscapeString(stringArg(value)))
}

// cssValueFilter is used where a dynamic value sits directly in a CSS
// property value (outside any string or url()), the riskiest CSS
// position since there's no closing delimiter to contain it. Only
// values that look like a harmless CSS token (an identifier, number,
// hex color, or similar) pass through; anything else is replaced by the
// failsafe sentinel.
var cssTokenAllowed = func(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || strings.ContainsRune(" \t#-_.%!", r)
}

func cssValueFilter(value data.Value, _ []data.Value) data.Value {
	s := stringArg(value)
	if s == "" {
		return data.String("")
	}
	for _, r := range s {
		if !cssTokenAllowed(r) {
			return filterFailsafe
		}
	}
	if strings.Contains(strings.ToLower(s), "expression") {
		return filterFailsafe
	}
	return data.String(s)
}
