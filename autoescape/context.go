// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// This file defines the context lattice used by the contextual autoescaper.
// It packs the parser state at any point inside a template into a single
// value with a handful of orthogonal sub-fields, adapted from html/template
// and generalized to the full state space used by the Closure-style
// contextual escaper (see autoesc/context.py in the reference
// implementation this package is derived from).

package autoescape

import "fmt"

// state describes a high-level HTML/CSS/JS parser state.
type state uint8

const (
	// stateText is parsed character data, outside any tag, comment, or
	// embedded language.
	stateText state = iota
	// stateRCDATA is inside an element (title, textarea) whose content is
	// RCDATA: entities decode, but nested tags do not.
	stateRCDATA
	// stateTag is after the name of a tag, before the next attribute or the
	// end of the tag.
	stateTag
	// stateAttrName is inside an attribute name.
	stateAttrName
	// stateAfterName is after an attribute name, before any '=' is seen.
	stateAfterName
	// stateBeforeValue is after an attribute's '=', before the first
	// character of its value.
	stateBeforeValue
	// stateHTMLCmt is inside an HTML comment.
	stateHTMLCmt
	// stateAttr is inside a plain (non CSS/JS/URL) attribute value.
	stateAttr
	// stateURL is inside a URL-valued attribute.
	stateURL
	// stateJS is inside a <script> element or JS-valued attribute, outside
	// any comment, string, or regexp literal.
	stateJS
	stateJSLineCmt
	stateJSBlockCmt
	stateJSDqStr
	stateJSSqStr
	stateJSRegexp
	// stateCSS is inside a <style> element or CSS-valued attribute, outside
	// any comment, string, or url(...).
	stateCSS
	stateCSSLineCmt
	stateCSSBlockCmt
	stateCSSDqStr
	stateCSSSqStr
	stateCSSURL
	stateCSSDqURL
	stateCSSSqURL
	// stateError is an absorbing state: once reached, the scanner has found
	// something it cannot safely reason about further.
	stateError
)

var stateNames = map[state]string{
	stateText:        "TEXT",
	stateRCDATA:      "RCDATA",
	stateTag:         "TAG",
	stateAttrName:    "ATTR_NAME",
	stateAfterName:   "AFTER_NAME",
	stateBeforeValue: "BEFORE_VALUE",
	stateHTMLCmt:     "HTML_CMT",
	stateAttr:        "ATTR",
	stateURL:         "URL",
	stateJS:          "JS",
	stateJSLineCmt:   "JS_LINE_CMT",
	stateJSBlockCmt:  "JS_BLOCK_CMT",
	stateJSDqStr:     "JS_DQ_STRING",
	stateJSSqStr:     "JS_SQ_STRING",
	stateJSRegexp:    "JS_REGEXP",
	stateCSS:         "CSS",
	stateCSSLineCmt:  "CSS_LINE_CMT",
	stateCSSBlockCmt: "CSS_BLOCK_CMT",
	stateCSSDqStr:    "CSS_DQ_STRING",
	stateCSSSqStr:    "CSS_SQ_STRING",
	stateCSSURL:      "CSS_URL",
	stateCSSDqURL:    "CSS_DQ_URL",
	stateCSSSqURL:    "CSS_SQ_URL",
	stateError:       "ERROR",
}

func (s state) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// isComment reports whether s is inside any kind of comment (HTML, CSS, JS).
func isComment(s state) bool {
	switch s {
	case stateHTMLCmt, stateJSLineCmt, stateJSBlockCmt, stateCSSLineCmt, stateCSSBlockCmt:
		return true
	}
	return false
}

// isInTag reports whether s occurs inside an HTML tag (but outside any
// attribute value).
func isInTag(s state) bool {
	switch s {
	case stateTag, stateAttrName, stateAfterName, stateBeforeValue:
		return true
	}
	return false
}

// element names the special parent element, if any, whose content model
// differs from ordinary HTML.
type element uint8

const (
	elementNone element = iota
	elementScript
	elementStyle
	elementTextarea
	elementTitle
	elementListing
	elementXMP
)

func (e element) String() string {
	switch e {
	case elementNone:
		return "NONE"
	case elementScript:
		return "SCRIPT"
	case elementStyle:
		return "STYLE"
	case elementTextarea:
		return "TEXTAREA"
	case elementTitle:
		return "TITLE"
	case elementListing:
		return "LISTING"
	case elementXMP:
		return "XMP"
	}
	return "element(?)"
}

// attr names the semantic class of the attribute the context is inside.
type attr uint8

const (
	attrNone attr = iota
	attrScript
	attrStyle
	attrURL
)

func (a attr) String() string {
	switch a {
	case attrNone:
		return "NONE"
	case attrScript:
		return "SCRIPT"
	case attrStyle:
		return "STYLE"
	case attrURL:
		return "URL"
	}
	return "attr(?)"
}

// delim identifies how the current attribute value is terminated.
type delim uint8

const (
	delimNone delim = iota
	delimDoubleQuote
	delimSingleQuote
	delimSpaceOrTagEnd
)

func (d delim) String() string {
	switch d {
	case delimNone:
		return "NONE"
	case delimDoubleQuote:
		return "DOUBLE_QUOTE"
	case delimSingleQuote:
		return "SINGLE_QUOTE"
	case delimSpaceOrTagEnd:
		return "SPACE_OR_TAG_END"
	}
	return "delim(?)"
}

// jsCtx determines whether a following '/' starts a regexp literal or a
// division operator.
type jsCtx uint8

const (
	jsCtxNone jsCtx = iota
	jsCtxRegexp
	jsCtxDivOp
	jsCtxUnknown
)

func (j jsCtx) String() string {
	switch j {
	case jsCtxNone:
		return "NONE"
	case jsCtxRegexp:
		return "REGEXP"
	case jsCtxDivOp:
		return "DIV_OP"
	case jsCtxUnknown:
		return "UNKNOWN"
	}
	return "jsCtx(?)"
}

// urlPart identifies the portion of a URL reference the context is in.
type urlPart uint8

const (
	urlPartNone urlPart = iota
	urlPartPreQuery
	urlPartQueryOrFrag
	urlPartUnknown
)

func (u urlPart) String() string {
	switch u {
	case urlPartNone:
		return "NONE"
	case urlPartPreQuery:
		return "PRE_QUERY"
	case urlPartQueryOrFrag:
		return "QUERY_OR_FRAG"
	case urlPartUnknown:
		return "UNKNOWN"
	}
	return "urlPart(?)"
}

// context packs the lexical parser state at some point inside a template.
// Each sub-field is orthogonal: most combinations are meaningless (e.g.
// urlPart is only relevant inside a URL), but validity is enforced by
// construction, not by the type, exactly as in the reference
// implementation.
type context struct {
	state   state
	element element
	attr    attr
	delim   delim
	jsCtx   jsCtx
	urlPart urlPart
	err     *Error
}

func (c context) String() string {
	return fmt.Sprintf("(Context %v element=%v attr=%v delim=%v jsCtx=%v urlPart=%v)",
		c.state, c.element, c.attr, c.delim, c.jsCtx, c.urlPart)
}

func (c context) isError() bool {
	return c.state == stateError
}

// eq reports whether two contexts are identical in every field relevant to
// their state (ignoring any attached error, which is metadata about how an
// error context arose, not part of the lattice value).
func (c context) eq(o context) bool {
	return c.state == o.state && c.element == o.element && c.attr == o.attr &&
		c.delim == o.delim && c.jsCtx == o.jsCtx && c.urlPart == o.urlPart
}

// attrStartStates maps the semantic attr class to the state entered when an
// attribute value of that class begins.
var attrStartStates = map[attr]state{
	attrNone:   stateAttr,
	attrScript: stateJS,
	attrStyle:  stateCSS,
	attrURL:    stateURL,
}

// attrValueContext computes the context entered immediately after the
// opening delimiter of an attribute value of class a, nested in element el.
func attrValueContext(el element, a attr, d delim) context {
	switch a {
	case attrScript:
		return context{state: stateJS, element: el, attr: a, delim: d, jsCtx: jsCtxRegexp}
	case attrStyle:
		return context{state: stateCSS, element: el, attr: a, delim: d}
	case attrURL:
		return context{state: stateURL, element: el, attr: a, delim: d, urlPart: urlPartNone}
	default:
		return context{state: stateAttr, element: el, attr: a, delim: d}
	}
}

// nudge is defined in rawtext.go (ported verbatim from html/template); it
// resolves epsilon transitions such as the one between "before a value"
// and "inside an unquoted value".

// contextUnion computes the least upper bound of two contexts, as used
// where two template branches (if/else, switch cases, loop iterations)
// merge back into one trace. It tries, in order:
//  1. identical contexts unify to themselves,
//  2. contexts differing only in jsCtx unify with jsCtx=unknown,
//  3. contexts differing only in urlPart unify with urlPart=unknown,
//  4. if either side is mid-epsilon-transition, nudge both sides and retry,
//  5. otherwise the union is an error context.
func contextUnion(c0, c1 context) context {
	if c0.eq(c1) {
		return c0
	}

	c0jsless, c1jsless := c0, c1
	c0jsless.jsCtx, c1jsless.jsCtx = jsCtxNone, jsCtxNone
	if c0jsless.eq(c1jsless) {
		c0jsless.jsCtx = jsCtxUnknown
		return c0jsless
	}

	c0urlless, c1urlless := c0, c1
	c0urlless.urlPart, c1urlless.urlPart = urlPartNone, urlPartNone
	if c0urlless.eq(c1urlless) {
		c0urlless.urlPart = urlPartUnknown
		return c0urlless
	}

	if isInTag(c0.state) || isInTag(c1.state) {
		nudged0, nudged1 := nudge(c0), nudge(c1)
		if !(nudged0.eq(c0) && nudged1.eq(c1)) {
			return contextUnion(nudged0, nudged1)
		}
	}

	return context{state: stateError}
}
