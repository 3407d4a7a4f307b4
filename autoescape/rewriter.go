package autoescape

import (
	"github.com/ctxsoy/soy/ast"
	"github.com/ctxsoy/soy/template"
)

// rewriter applies the directives the engine inferred to the print nodes
// they were inferred for. A {call}'s target is never renamed or cloned —
// under the kind-fixed model a template's behavior doesn't depend on its
// caller's context, so nothing needs rewriting at the call site itself.
type rewriter struct {
	inferences *inferences
}

func rewrite(inferences *inferences, registry *template.Registry) {
	var rewriter = rewriter{inferences}
	for _, t := range registry.Templates {
		rewriter.walk(t.Node)
	}
}

func (r *rewriter) walk(node ast.Node) {
	switch node := node.(type) {
	case *ast.PrintNode:
		for _, escapingMode := range r.inferences.escapingModes[node] {
			node.Directives = append(node.Directives, &ast.PrintDirectiveNode{
				Pos:  node.Pos,
				Name: string(escapingMode),
			})
		}
	case *ast.RawTextNode:
		if replacement, ok := r.inferences.textReplacements[node]; ok {
			node.Text = replacement
		}
	case *ast.LiteralNode:
		if replacement, ok := r.inferences.literalReplacements[node]; ok {
			node.Body = replacement
		}
	}
	if node, ok := node.(ast.ParentNode); ok {
		for _, child := range node.Children() {
			r.walk(child)
		}
	}
}
