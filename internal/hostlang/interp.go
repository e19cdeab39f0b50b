package hostlang

import (
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
)

// Resolver resolves a free identifier that no enclosing scope has
// bound — the emitted routine's function parameters (ctx, y), the
// handful of package-level helpers the emitter calls by name
// (katagami.UseFeature, ResolveExceptHook, ...), and ultimately a
// template's own variables, by delegating to the ExecutionContext the
// katagami package built for this render. Mirrors pongo2's own
// variable.go resolving a path against its ExecutionContext, but
// as a single indirection instead of a dotted-path resolver, since the
// host language is real Go identifiers rather than a template
// mini-language.
type Resolver func(name string) (any, bool)

// Interp tree-walks a Program's statement list. One Interp is created
// per render and discarded afterwards; it carries no state beyond the
// current local-variable scope chain.
type Interp struct {
	prog    *Program
	resolve Resolver
	scopes  []map[string]any
}

// NewInterp creates an interpreter for prog. resolve supplies values
// for identifiers not bound by an enclosing local scope.
func NewInterp(prog *Program, resolve Resolver) *Interp {
	return &Interp{prog: prog, resolve: resolve, scopes: []map[string]any{{}}}
}

// Run executes the program's statement list to completion (or until a
// return statement, or an unrecovered error aborts it) and reports the
// routine's terminal error, if any.
func (in *Interp) Run() (err error) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(returnSignal)
			if !ok {
				panic(r)
			}
			err = sig.err
		}
	}()
	in.execStmts(in.prog.Body)
	return nil
}

// returnSignal unwinds the statement-execution stack for both an
// explicit `return` and any runtime fault that must abort the routine;
// Run recovers it, and so does evalExprSafe for a call's arguments (see
// evalCallExpr). This mirrors how a Python
// generator's uncaught exception unwinds straight out of the frame
// that `yield`-ed, rather than being threaded through every caller's
// return value by hand.
type returnSignal struct{ err error }

var errorType = reflect.TypeOf((*error)(nil)).Elem()

func (in *Interp) fail(pos token.Pos, err error) {
	panic(returnSignal{err: withLine(in.prog.LineOf(pos), err)})
}

func (in *Interp) failErr(err error) {
	panic(returnSignal{err: err})
}

func (in *Interp) pushScope() { in.scopes = append(in.scopes, map[string]any{}) }
func (in *Interp) popScope()  { in.scopes = in.scopes[:len(in.scopes)-1] }

func (in *Interp) define(name string, v any) {
	in.scopes[len(in.scopes)-1][name] = v
}

func (in *Interp) assign(name string, v any) bool {
	for i := len(in.scopes) - 1; i >= 0; i-- {
		if _, ok := in.scopes[i][name]; ok {
			in.scopes[i][name] = v
			return true
		}
	}
	return false
}

func (in *Interp) lookup(name string) (any, bool) {
	if name == "_" {
		return nil, true
	}
	for i := len(in.scopes) - 1; i >= 0; i-- {
		if v, ok := in.scopes[i][name]; ok {
			return v, true
		}
	}
	return in.resolve(name)
}

func exprString(e ast.Expr) string {
	switch n := e.(type) {
	case *ast.Ident:
		return n.Name
	case *ast.SelectorExpr:
		return exprString(n.X) + "." + n.Sel.Name
	default:
		return fmt.Sprintf("%T", e)
	}
}
