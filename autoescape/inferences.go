package autoescape

import (
	"github.com/ctxsoy/soy/ast"
	"github.com/ctxsoy/soy/template"
)

// inferences accumulates everything the engine learns while walking a
// template set, for the rewriter to apply in a second pass.
type inferences struct {
	templatesByName map[string]*ast.TemplateNode

	escapingModes        map[ast.Node][]escapingMode
	idToStartContext     map[ast.Node]context
	templateToEndContext map[*ast.TemplateNode]context

	// textReplacements and literalReplacements hold the raw-text scanner's
	// normalized rendering of text/literal nodes (comment elision, a bare
	// '<' rewritten to '&lt;', collapsed CSS/JS comments, ...), keyed by
	// node identity so the rewriter can substitute them in a second pass
	// without the engine mutating the tree mid-inference.
	textReplacements    map[*ast.RawTextNode][]byte
	literalReplacements map[*ast.LiteralNode]string

	// inferring marks templates currently being walked, to detect and
	// break infinite recursion through {call} cycles: a template being
	// re-entered while still on the call stack is assumed (optimistically)
	// to end in the context it started in, letting mutually recursive
	// templates converge instead of looping the inferrer forever.
	inferring map[*ast.TemplateNode]bool
}

func newInferences(reg *template.Registry) *inferences {
	var templatesByName = make(map[string]*ast.TemplateNode)
	for _, t := range reg.Templates {
		templatesByName[t.Node.Name] = t.Node
	}
	return &inferences{
		templatesByName:      templatesByName,
		escapingModes:        make(map[ast.Node][]escapingMode),
		idToStartContext:     make(map[ast.Node]context),
		templateToEndContext: make(map[*ast.TemplateNode]context),
		textReplacements:     make(map[*ast.RawTextNode][]byte),
		literalReplacements:  make(map[*ast.LiteralNode]string),
		inferring:            make(map[*ast.TemplateNode]bool),
	}
}

func (i *inferences) setEscapingDirectives(node ast.Node, ctx context, escapes []escapingMode) {
	i.escapingModes[node] = escapes
	i.idToStartContext[node] = ctx
}

func (i *inferences) recordTemplateEndContext(tmpl *ast.TemplateNode, ctx context) {
	i.templateToEndContext[tmpl] = ctx
}

func (i *inferences) setTextReplacement(node *ast.RawTextNode, text []byte) {
	i.textReplacements[node] = text
}

func (i *inferences) setLiteralReplacement(node *ast.LiteralNode, text string) {
	i.literalReplacements[node] = text
}
