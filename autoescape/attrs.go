package autoescape

import "strings"

// isURLAttr reports whether name holds a URL reference whose value
// must be filtered/escaped as a URL (e.g. href, src, action, ...).
func isURLAttr(name string) bool {
	switch strings.ToLower(name) {
	case "action", "archive", "background", "cite", "classid", "codebase",
		"data", "dsync", "formaction", "href", "icon", "longdesc",
		"manifest", "poster", "src", "srcset", "usemap":
		return true
	}
	return false
}

// isScriptAttr reports whether name is an event handler attribute
// (onclick, onload, ...) whose value is JavaScript.
func isScriptAttr(name string) bool {
	return len(name) > 2 && strings.EqualFold(name[:2], "on")
}

// isStyleAttr reports whether name holds inline CSS.
func isStyleAttr(name string) bool {
	return strings.EqualFold(name, "style")
}
