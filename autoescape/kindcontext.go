package autoescape

import "fmt"

// isValidStartContextForKind reports whether ctx is one a block of the
// given kind is allowed to begin analysis from. "attributes"-kind blocks
// are unusual: they're meant to be spliced directly inside a tag, so they
// may start either right after the tag name or inside an already-open
// attribute name.
func isValidStartContextForKind(k kind, ctx context) bool {
	if k == kindAttr {
		return ctx.state == stateAttrName || ctx.state == stateTag
	}
	return ctx.state == startStateForKind(k)
}

// isValidEndContextForKind reports whether ctx is an acceptable context for
// a block of the given kind to leave its callers in.
func isValidEndContextForKind(k kind, ctx context) bool {
	switch k {
	case kindText:
		return true
	case kindNone, kindHTML:
		return ctx.state == stateText
	case kindCSS:
		return ctx.state == stateCSS
	case kindURL:
		return ctx.state == stateURL && ctx.urlPart != urlPartNone
	case kindAttr:
		return ctx.state == stateAttrName || ctx.state == stateTag
	case kindJS:
		return ctx.state == stateJS
	default:
		panic(fmt.Errorf("content kind %v has no associated end context", k))
	}
}

// likelyEndContextMismatchCause guesses a human-readable explanation for
// why a block ended in an unexpected context, for use in error messages.
func likelyEndContextMismatchCause(k kind, ctx context) string {
	if k == kindAttr {
		return "an unterminated attribute value, or ending with an unquoted attribute"
	}
	switch ctx.state {
	case stateTag, stateAttrName, stateAfterName, stateBeforeValue:
		return "an unterminated HTML tag or attribute"
	case stateCSS:
		return "an unclosed style block or attribute"
	case stateJS:
		return "an unclosed script block or attribute"
	case stateCSSBlockCmt, stateCSSLineCmt, stateJSBlockCmt, stateJSLineCmt:
		return "an unterminated comment"
	case stateCSSDqStr, stateCSSSqStr, stateJSDqStr, stateJSSqStr:
		return "an unterminated string literal"
	case stateURL, stateCSSURL, stateCSSDqURL, stateCSSSqURL:
		return "an unterminated or empty URI"
	case stateJSRegexp:
		return "an unterminated regular expression"
	default:
		return "unknown to compiler"
	}
}
