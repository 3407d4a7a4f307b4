// This file implements the trace analyzer: it walks every reachable node of
// a template body, threading a context value through it the way a browser's
// HTML/CSS/JS tokenizers would, and records at each {print} the escaping
// directives that context calls for. Control-flow nodes do not themselves
// emit anything; instead each of their branches is walked independently
// from the same starting context and the branches' end contexts are joined
// (contextUnion) back into one, exactly as in html/template's escape.go.
package autoescape

import (
	"github.com/ctxsoy/soy/ast"
	"github.com/ctxsoy/soy/template"
)

type engine struct {
	registry            *template.Registry
	inferences          *inferences
	currentTemplateName string
}

// fail raises a template-analysis error positioned at node, in the
// currently-inferred template, and unwinds the stack with it; Strict
// recovers the panic at the call site of each root template.
func (e *engine) fail(node ast.Node, code ErrorCode, f string, args ...interface{}) {
	line := e.registry.LineNumber(e.currentTemplateName, node)
	fail(code, line, f, args...)
}

func (e *engine) walk(node ast.Node, ctx context) context {
	switch node := node.(type) {
	case *ast.TemplateNode:
		e.currentTemplateName = node.Name
		if !isValidStartContextForKind(kind(node.Kind), ctx) {
			e.fail(node, ErrOutputContext,
				"template %s declared kind %q but visited in context %v", node.Name, node.Kind, ctx.state)
		}
		return e.walkTemplateBody(node)

	case *ast.ListNode:
		for _, child := range node.Nodes {
			ctx = e.walk(child, ctx)
		}
		return ctx

	case *ast.RawTextNode:
		next, normalized := escapeText(ctx, node)
		if next.state == stateError {
			e.fail(node, ErrBadHTML,
				"starting in %v, failed to compute output context for raw text:\n%s", ctx.state, node.Text)
		}
		if normalized != nil {
			e.inferences.setTextReplacement(node, normalized)
		}
		return next

	case *ast.LiteralNode:
		next, normalized := escapeText(ctx, &ast.RawTextNode{Pos: node.Pos, Text: []byte(node.Body)})
		if next.state == stateError {
			e.fail(node, ErrBadHTML, "failed to compute output context for literal block")
		}
		if normalized != nil {
			e.inferences.setLiteralReplacement(node, string(normalized))
		}
		return next

	case *ast.PrintNode:
		return e.walkPrint(node, ctx)

	case *ast.IfNode:
		return e.walkIf(node, ctx)

	case *ast.SwitchNode:
		return e.walkSwitch(node, ctx)

	case *ast.ForNode:
		return e.walkFor(node, ctx)

	case *ast.CallNode:
		return e.walkCall(node, ctx)

	case *ast.LetContentNode:
		e.walkTypedBlock(node.Body, node, kind(node.Kind))
		return ctx

	case *ast.CallParamContentNode:
		e.walkTypedBlock(node.Content, node, kind(node.Kind))
		return ctx

	case *ast.MsgNode:
		return e.walk(node.Body, ctx)

	case *ast.LogNode, *ast.DebuggerNode, *ast.CssNode:
		// {log}...{/log} never reaches rendered output; {debugger} and
		// {css ...} emit nothing whose context depends on surrounding
		// markup (a css() reference is a bare, statically-known class
		// name token).
		return ctx

	case *ast.LetValueNode, *ast.CallParamValueNode:
		// Binds a plain (non-markup) expression result to a name; the
		// value is traced when and if it is later {print}ed.
		return ctx
	}

	return ctx
}

// walkTemplateBody infers a template's body starting from its declared
// kind's canonical context, validates that it ends in a context that kind
// allows, and records the result for reuse by every {call} site.
func (e *engine) walkTemplateBody(tmpl *ast.TemplateNode) context {
	saved := e.currentTemplateName
	e.currentTemplateName = tmpl.Name
	defer func() { e.currentTemplateName = saved }()

	k := kind(tmpl.Kind)
	start := context{state: startStateForKind(k)}
	end := e.walk(tmpl.Body, start)
	if !isValidEndContextForKind(k, end) {
		e.fail(tmpl, ErrEndContext, "template %s of kind %q may not end in state %v: %s",
			tmpl.Name, tmpl.Kind, end.state, likelyEndContextMismatchCause(k, end))
	}
	e.inferences.recordTemplateEndContext(tmpl, end)
	return end
}

// walkTypedBlock infers the body of a {let}/{param} block that declares a
// content kind. Such a block is evaluated independently of the context it
// sits in textually — its rendered result is captured as a typed value
// rather than streamed into the surrounding output — so it is traced the
// same way a template body is, and contributes nothing to the caller's ctx.
func (e *engine) walkTypedBlock(body ast.Node, declNode ast.Node, k kind) {
	start := context{state: startStateForKind(k)}
	end := e.walk(body, start)
	if !isValidEndContextForKind(k, end) {
		e.fail(declNode, ErrEndContext, "%s-kind content block may not end in state %v: %s",
			k, end.state, likelyEndContextMismatchCause(k, end))
	}
}

func (e *engine) walkPrint(node *ast.PrintNode, ctx context) context {
	ctx = ctx.beforeDynamicValue()
	escapingModes := e.inferences.escapingModes[node]
	if len(escapingModes) == 0 {
		escapingModes = ctx.escapingModes()
		e.inferences.setEscapingDirectives(node, ctx, escapingModes)
	} else if !ctx.isCompatibleWith(escapingModes[0]) {
		e.fail(node, ErrOutputContext, "escaping modes %v not compatible with %v: %v",
			escapingModes, ctx.state, node)
	}
	return e.contextAfterEscaping(node, ctx, escapingModes)
}

func (e *engine) contextAfterEscaping(node ast.Node, start context, escapes []escapingMode) context {
	end := start
	if len(escapes) > 0 {
		end = start.contextAfterEscaping(escapes[0])
	}
	if end.state == stateError {
		if start.urlPart == urlPartUnknown {
			e.fail(node, ErrAmbigContext, "%v appears in an ambiguous URL context", node)
		} else {
			e.fail(node, ErrEndContext, "{print} or {call} not allowed here: %v", node)
		}
	}
	return end
}

// walkIf joins the contexts at the end of every {if}/{elseif}/{else}
// branch, each walked independently from the context on entry. A missing
// {else} means control may fall through having executed nothing, so the
// entry context itself joins the set of possible outcomes.
func (e *engine) walkIf(node *ast.IfNode, ctx context) context {
	var end context
	hasElse := false
	for i, cond := range node.Conds {
		branchEnd := e.walk(cond.Body, ctx)
		if cond.Cond == nil {
			hasElse = true
		}
		if i == 0 {
			end = branchEnd
		} else {
			end = contextUnion(end, branchEnd)
		}
	}
	if !hasElse {
		end = contextUnion(end, ctx)
	}
	if end.isError() {
		e.fail(node, ErrBranchesEndInDifferentContexts, "{if} branches end in incompatible contexts")
	}
	return end
}

// walkSwitch is walkIf's analogue for {switch}: every {case} (and a
// {default}, if present) is walked from the same entry context and joined.
func (e *engine) walkSwitch(node *ast.SwitchNode, ctx context) context {
	if len(node.Cases) == 0 {
		return ctx
	}
	var end context
	hasDefault := false
	for i, c := range node.Cases {
		branchEnd := e.walk(c.Body, ctx)
		if len(c.Values) == 0 {
			hasDefault = true
		}
		if i == 0 {
			end = branchEnd
		} else {
			end = contextUnion(end, branchEnd)
		}
	}
	if !hasDefault {
		end = contextUnion(end, ctx)
	}
	if end.isError() {
		e.fail(node, ErrBranchesEndInDifferentContexts, "{switch} cases end in incompatible contexts")
	}
	return end
}

// walkFor infers a loop body that may run zero, one, or many times. The
// body is first walked assuming it starts where the loop starts; if that
// leaves the context unchanged, the body is a no-op on context and one pass
// suffices. Otherwise the start and first-pass end are joined and the body
// is walked once more from that join, which must be a fixed point — the
// context after any iteration, first or last, needs to be a context every
// other iteration can also start from.
func (e *engine) walkFor(node *ast.ForNode, ctx context) context {
	bodyEnd := e.walk(node.Body, ctx)
	if !bodyEnd.eq(ctx) {
		joined := contextUnion(ctx, bodyEnd)
		if joined.isError() {
			e.fail(node, ErrBranchesEndInDifferentContexts, "loop body starts and ends in incompatible contexts")
		}
		again := e.walk(node.Body, joined)
		if !again.eq(joined) {
			e.fail(node, ErrAmbiguousAutoescape, "loop body does not settle into a stable context across iterations")
		}
		bodyEnd = again
	}

	ifEmptyEnd := ctx
	if node.IfEmpty != nil {
		ifEmptyEnd = e.walk(node.IfEmpty, ctx)
	}

	end := contextUnion(bodyEnd, ifEmptyEnd)
	if end.isError() {
		e.fail(node, ErrBranchesEndInDifferentContexts, "loop body and {ifempty} branch end in incompatible contexts")
	}
	return end
}

// walkCall inlines a {call}: the callee is traced exactly once, starting
// from its own kind's canonical context (not the call site's), and the
// result is memoized so every other call to the same template reuses it.
// The call site's context must already be one the callee's kind is allowed
// to appear in; what the callee does internally can't depend on it.
func (e *engine) walkCall(node *ast.CallNode, ctx context) context {
	callee, ok := e.inferences.templatesByName[node.Name]
	if !ok {
		e.fail(node, ErrNoSuchTemplate, "{call %s}: no such template", node.Name)
	}

	k := kind(callee.Kind)
	if !isValidStartContextForKind(k, ctx) {
		e.fail(node, ErrOutputContext, "{call %s}: kind %q not allowed in context %v", node.Name, callee.Kind, ctx.state)
	}

	if end, ok := e.inferences.templateToEndContext[callee]; ok {
		return end
	}
	if e.inferences.inferring[callee] {
		// A cycle through {call}s: assume the callee's own end state,
		// which is what walkTemplateBody will check and record once
		// the outermost call in the cycle finishes inferring it.
		return context{state: startStateForKind(k)}
	}

	e.inferences.inferring[callee] = true
	end := e.walkTemplateBody(callee)
	delete(e.inferences.inferring, callee)
	return end
}
