// This file implements the escape-mode selector (mapping a context to an
// ordered pipeline of escaping directives) and the small amount of state
// bookkeeping that accompanies it. The selection logic is a refactor of
// the inline switch that used to live directly in Strict's escape pass;
// it is now exposed as context methods so the trace analyzer in
// engine.go can call it uniformly for {print}, {call} holes, and typed
// {let}/{param} blocks.

package autoescape

// escapingMode names one directive in soyhtml.PrintDirectives that
// contextual autoescaping can insert into a print pipeline.
type escapingMode string

const (
	modeFilterNormalizeURI    escapingMode = "filterNormalizeUri"
	modeNormalizeURI          escapingMode = "normalizeUri"
	modeEscapeURI             escapingMode = "escapeUri"
	modeEscapeCSSString       escapingMode = "escapeCssString"
	modeFilterCSSValue        escapingMode = "filterCssValue"
	modeEscapeJSValue         escapingMode = "escapeJsValue"
	modeEscapeJSString        escapingMode = "escapeJsString"
	modeEscapeJSRegex         escapingMode = "escapeJsRegex"
	modeEscapeHTML            escapingMode = "escapeHtml"
	modeEscapeHTMLRCDATA      escapingMode = "escapeHtmlRcdata"
	modeFilterHTMLElementName escapingMode = "filterHtmlElementName"
	modeFilterHTMLAttributes  escapingMode = "filterHtmlAttributes"
	modeEscapeHTMLAttr        escapingMode = "escapeHtmlAttribute"
	modeEscapeHTMLAttrNospace escapingMode = "escapeHtmlAttributeNospace"
)

// beforeDynamicValue nudges c across any pending epsilon transition, so
// that a dynamic value (a {print}, {call}, or interpolated {let}/{param}
// result) is classified by the state it actually lands in rather than
// the state immediately preceding it.
func (c context) beforeDynamicValue() context {
	return nudge(c)
}

// escapingModes returns the ordered pipeline of directives that must be
// applied to a dynamic value appearing in context c, outermost-last (the
// order in which they must run, content escaper first, then any
// attribute-quoting wrapper). A nil slice means the position is invalid
// for any dynamic value (e.g. inside a comment); c.err then explains why.
func (c context) escapingModes() []escapingMode {
	var modes []escapingMode
	switch c.state {
	case stateError:
		return nil
	case stateURL, stateCSSDqStr, stateCSSSqStr, stateCSSDqURL, stateCSSSqURL, stateCSSURL:
		switch c.urlPart {
		case urlPartNone:
			modes = append(modes, modeFilterNormalizeURI)
			fallthrough
		case urlPartPreQuery:
			switch c.state {
			case stateCSSDqStr, stateCSSSqStr:
				modes = append(modes, modeEscapeCSSString)
			default:
				modes = append(modes, modeNormalizeURI)
			}
		case urlPartQueryOrFrag:
			modes = append(modes, modeEscapeURI)
		case urlPartUnknown:
			return nil
		}
	case stateJS:
		modes = append(modes, modeEscapeJSValue)
	case stateJSDqStr, stateJSSqStr:
		modes = append(modes, modeEscapeJSString)
	case stateJSRegexp:
		modes = append(modes, modeEscapeJSRegex)
	case stateCSS:
		modes = append(modes, modeFilterCSSValue)
	case stateText:
		modes = append(modes, modeEscapeHTML)
	case stateRCDATA:
		modes = append(modes, modeEscapeHTMLRCDATA)
	case stateAttr:
		// No content escaper: the value is already known plain text;
		// only the attribute-quoting wrapper below applies.
	case stateAttrName, stateTag:
		modes = append(modes, modeFilterHTMLElementName)
	default:
		return nil
	}

	switch c.delim {
	case delimNone:
		// Non-attribute text: no quoting wrapper needed.
	case delimSpaceOrTagEnd:
		modes = append(modes, modeEscapeHTMLAttrNospace)
	default:
		modes = append(modes, modeEscapeHTMLAttr)
	}
	return modes
}

// isCompatibleWith reports whether the directive pipeline already
// assigned to a node (first computed the first time the node was
// visited) remains valid for context c. A node can be visited more than
// once when it sits inside a loop body or a template called from more
// than one context; in both cases the fixed-point search in engine.go
// requires that every visit agree on the same escaping.
func (c context) isCompatibleWith(first escapingMode) bool {
	modes := c.escapingModes()
	if len(modes) == 0 {
		return false
	}
	return modes[0] == first
}

// contextAfterEscaping returns the context following a dynamic value
// that was escaped using mode. Most escaping modes are side-effect free,
// but printing a plain JS value makes any subsequent '/' a division
// operator rather than the start of a regexp literal, and printing a hole
// into a URL whose part was still undetermined settles it: text after the
// hole is treated as before the query/fragment until the template's own
// text supplies a '?' or '#'.
func (c context) contextAfterEscaping(mode escapingMode) context {
	switch mode {
	case modeEscapeJSValue:
		c.jsCtx = jsCtxDivOp
	case modeFilterNormalizeURI:
		c.urlPart = urlPartPreQuery
	}
	return c
}
