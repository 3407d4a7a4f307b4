// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// URL-context escaper and filter functions, adapted from
// html/template's url.go.

package autoescape

import (
	"strings"

	"github.com/ctxsoy/soy/data"
)

// urlSafeSchemes lists the schemes a dynamic value is allowed to
// introduce into a URL reference. A relative reference (no scheme) is
// always allowed. Anything else — most notably "javascript:" and
// "data:" — is replaced by the failsafe fragment.
var urlSafeSchemes = map[string]bool{
	"http":   true,
	"https":  true,
	"mailto": true,
	"ftp":    true,
	"tel":    true,
}

// urlFilterFailsafe is substituted for a URL whose scheme is not
// allowlisted. It keeps the enclosing attribute a syntactically valid,
// inert same-document fragment reference.
const urlFilterFailsafe = data.String("#" + string(filterFailsafe))

// schemeOf returns the lowercased scheme of s, and whether s has one.
// A colon only introduces a scheme if everything before it looks like
// a scheme name (letters, digits, +, -, .); a colon reached after a
// '/', '?', or '#' belongs to a path/query/fragment, not a scheme.
func schemeOf(s string) (string, bool) {
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == ':':
			if i == 0 {
				return "", false
			}
			return strings.ToLower(s[:i]), true
		case c == '/' || c == '?' || c == '#':
			return "", false
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '+', c == '-', c == '.':
			// still within a possible scheme name
		default:
			return "", false
		}
	}
	return "", false
}

// urlFilter rejects values whose scheme is not allowlisted, replacing
// them with an inert fragment reference. Typed URL content bypasses the
// filter entirely, on the theory that a caller who explicitly wrapped a
// value with URL(...) has already vetted it.
func urlFilter(value data.Value, _ []data.Value) data.Value {
	if k, ok := contentKindOf(value); ok && k == kindURL {
		return data.String(stringArg(value))
	}
	s := stringArg(value)
	if scheme, ok := schemeOf(s); ok && !urlSafeSchemes[scheme] {
		return urlFilterFailsafe
	}
	return data.String(s)
}

// urlNormalizer percent-encodes runes that are unsafe to leave raw in a
// URL reference, while leaving existing percent-escapes, and the
// structural characters relevant before the query (':','/' etc.),
// untouched. It is paired with urlFilter: for a URL hole, escapingModes
// emits filterNormalizeUri (urlFilter) followed by normalizeUri (this
// function).
func urlNormalizer(value data.Value, _ []data.Value) data.Value {
	return data.String(normalizeURL(stringArg(value), false))
}

// urlEscaper more aggressively percent-encodes, for use in the
// query/fragment portion of a URL where even structural characters like
// '/' and ':' must be escaped to avoid introducing new parameters.
func urlEscaper(value data.Value, _ []data.Value) data.Value {
	return data.String(normalizeURL(stringArg(value), true))
}

// urlNormalizeSafe lists the bytes normalizeUri leaves untouched: the
// unreserved set plus the structural delimiters that are safe to carry
// through unescaped before the query/fragment begins. Notably absent
// are the quote and parenthesis characters, since those can break out
// of the quoted or parenthesized contexts a URL often sits inside.
const urlNormalizeSafe = "#!$&*+,-./:;=?@_~"

// urlEscapeSafe is the much smaller safe set used once inside the
// query or fragment, where even structural characters like '&' and '='
// must be escaped to avoid introducing new parameters.
const urlEscapeSafe = "-._~"

func normalizeURL(s string, aggressive bool) string {
	safe := urlNormalizeSafe
	if aggressive {
		safe = urlEscapeSafe
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '%' && i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2]):
			b.WriteByte(c)
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
			b.WriteByte(c)
		case strings.IndexByte(safe, c) >= 0:
			b.WriteByte(c)
		default:
			b.WriteByte('%')
			b.WriteByte(lowerHex(c >> 4))
			b.WriteByte(lowerHex(c & 0xf))
		}
	}
	return b.String()
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func lowerHex(n byte) byte {
	if n < 10 {
		return '0' + n
	}
	return 'a' + n - 10
}
