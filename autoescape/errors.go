package autoescape

import (
	"fmt"

	"github.com/ctxsoy/soy/errortypes"
)

// ErrorCode classifies the reason a template failed contextual analysis.
type ErrorCode int

const (
	// ErrAmbiguousAutoescape is returned when a context cannot be
	// determined because a loop body does not converge to a fixed
	// point. A recursive template call is not iterated: it assumes the
	// callee's start context, and a callee that ends elsewhere is
	// reported as ErrEndContext.
	ErrAmbiguousAutoescape ErrorCode = iota
	// ErrBadHTML is returned when the raw-text scanner finds text that
	// does not parse as valid HTML/CSS/JS, e.g. an unclosed tag or a
	// quote character inside an unquoted attribute value.
	ErrBadHTML
	// ErrBranchesEndInDifferentContexts is returned when the branches
	// of an if/switch/for leave the scanner in incompatible contexts
	// that cannot be unioned.
	ErrBranchesEndInDifferentContexts
	// ErrNoSuchTemplate is returned when a {call} names a template that
	// is not in the registry.
	ErrNoSuchTemplate
	// ErrEndContext is returned when a strict-mode template, a typed
	// {let}, or a typed {param} block does not end in the context its
	// declared kind requires.
	ErrEndContext
	// ErrOutputContext is returned when a node is visited in a context
	// its declared kind cannot start from, or when a {print}'s required
	// escaping modes are incompatible with the context inferred for it.
	ErrOutputContext
	// ErrAmbigContext is returned when a {print} falls in a URL whose
	// part (path vs. query/fragment) cannot be determined statically.
	ErrAmbigContext
)

func (c ErrorCode) String() string {
	switch c {
	case ErrAmbiguousAutoescape:
		return "AMBIGUOUS_AUTOESCAPE"
	case ErrBadHTML:
		return "BAD_HTML"
	case ErrBranchesEndInDifferentContexts:
		return "BRANCHES_END_IN_DIFFERENT_CONTEXTS"
	case ErrNoSuchTemplate:
		return "NO_SUCH_TEMPLATE"
	case ErrEndContext:
		return "END_CONTEXT"
	case ErrOutputContext:
		return "OUTPUT_CONTEXT"
	case ErrAmbigContext:
		return "AMBIG_CONTEXT"
	}
	return "UNKNOWN"
}

// Error reports a problem found while inferring or applying escaping
// directives. It wraps errortypes.ErrFilePos so callers that walk causal
// chains can recover the originating source line even after this error
// has been wrapped again higher up the stack.
type Error struct {
	Code ErrorCode
	// Name is the template in which the error occurred. It starts
	// empty, since errorf is called from deep inside the scanner
	// before the enclosing template is known, and is filled in by the
	// caller that first has that context (Strict).
	Name string
	errortypes.ErrFilePos
}

func (e *Error) Error() string { return e.ErrFilePos.Error() }

// errorf builds an *Error positioned at the given source line, in the
// style of html/template's errors: terse, naming the code and the
// template construct at fault. It also returns the built value so
// callers that want to embed it in a context (e.g. context{state:
// stateError, err: ...}) can do so without a second call.
func errorf(code ErrorCode, line int, f string, args ...interface{}) *Error {
	msg := fmt.Sprintf(f, args...)
	wrapped := errortypes.NewErrFilePosf("", line, 0, "%s: %s", code, msg)
	return &Error{Code: code, ErrFilePos: wrapped.(errortypes.ErrFilePos)}
}

// fail is errorf plus panic, used by the engine, which has no context
// value at hand to carry the error back through — Strict recovers the
// panic at the template root. The rawtext scanner instead returns its
// errors inside a stateError context.
func fail(code ErrorCode, line int, f string, args ...interface{}) {
	panic(errorf(code, line, f, args...))
}
