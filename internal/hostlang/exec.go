package hostlang

import (
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
)

func (in *Interp) execStmts(stmts []ast.Stmt) {
	for _, stmt := range stmts {
		in.execStmt(stmt)
	}
}

func (in *Interp) execStmt(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.ExprStmt:
		in.evalExpr(s.X)
	case *ast.AssignStmt:
		in.execAssign(s)
	case *ast.IfStmt:
		in.execIf(s)
	case *ast.RangeStmt:
		in.execRange(s)
	case *ast.ForStmt:
		in.execFor(s)
	case *ast.ReturnStmt:
		in.execReturn(s)
	case *ast.BlockStmt:
		in.pushScope()
		in.execStmts(s.List)
		in.popScope()
	case *ast.DeclStmt:
		in.execDecl(s)
	case *ast.IncDecStmt:
		in.execIncDec(s)
	case *ast.EmptyStmt:
	default:
		in.fail(stmt.Pos(), fmt.Errorf("hostlang: unsupported statement %T", stmt))
	}
}

// LineRecorder is implemented by a terminal error that wants the
// generated-source line its explicit "return" statement escaped from
// recorded on it, even though execReturn otherwise propagates a
// returned error exactly as given rather than wrapping it in a
// PosError (see returnSignal's doc comment).
type LineRecorder interface {
	RecordLine(line int)
}

func (in *Interp) execReturn(s *ast.ReturnStmt) {
	switch len(s.Results) {
	case 0:
		panic(returnSignal{})
	case 1:
		v := in.evalExpr(s.Results[0])
		if v == nil {
			panic(returnSignal{})
		}
		err, ok := v.(error)
		if !ok {
			in.fail(s.Pos(), fmt.Errorf("hostlang: return value is not an error: %T", v))
		}
		if lr, ok := err.(LineRecorder); ok {
			lr.RecordLine(in.prog.LineOf(s.Pos()))
		}
		panic(returnSignal{err: err})
	default:
		in.fail(s.Pos(), fmt.Errorf("hostlang: multi-value return not supported"))
	}
}

func (in *Interp) execAssign(s *ast.AssignStmt) {
	if len(s.Rhs) == 1 && len(s.Lhs) > 1 {
		in.execMultiAssign(s)
		return
	}

	if len(s.Lhs) != len(s.Rhs) {
		in.fail(s.Pos(), fmt.Errorf("hostlang: mismatched assignment arity"))
	}

	values := make([]any, len(s.Rhs))
	for i, rhs := range s.Rhs {
		values[i] = in.evalRhs(s.Tok, s.Lhs[i], rhs)
	}
	for i, lhs := range s.Lhs {
		in.bind(s.Tok, lhs, values[i])
	}
}

// evalRhs evaluates rhs, applying the compound-assignment operator
// (+=, -=, ...) against lhs's current value when s.Tok calls for one.
func (in *Interp) evalRhs(tok token.Token, lhs, rhs ast.Expr) any {
	v := in.evalExpr(rhs)
	op, ok := compoundOp(tok)
	if !ok {
		return v
	}
	cur := in.evalExpr(lhs)
	result, err := applyBinary(op, cur, v)
	if err != nil {
		in.fail(rhs.Pos(), err)
	}
	return result
}

func compoundOp(tok token.Token) (token.Token, bool) {
	switch tok {
	case token.ADD_ASSIGN:
		return token.ADD, true
	case token.SUB_ASSIGN:
		return token.SUB, true
	case token.MUL_ASSIGN:
		return token.MUL, true
	case token.QUO_ASSIGN:
		return token.QUO, true
	default:
		return 0, false
	}
}

func (in *Interp) execMultiAssign(s *ast.AssignStmt) {
	call, ok := s.Rhs[0].(*ast.CallExpr)
	if !ok {
		in.fail(s.Pos(), fmt.Errorf("hostlang: multi-assign requires a call on the right-hand side"))
	}
	result := in.evalCallExpr(call)
	values, ok := result.([]any)
	if !ok || len(values) != len(s.Lhs) {
		in.fail(s.Pos(), fmt.Errorf("hostlang: call returns %d values, %d expected", len(asSlice(result)), len(s.Lhs)))
	}
	for i, lhs := range s.Lhs {
		in.bind(s.Tok, lhs, values[i])
	}
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return []any{v}
}

func (in *Interp) bind(tok token.Token, lhs ast.Expr, v any) {
	ident, ok := lhs.(*ast.Ident)
	if !ok {
		in.fail(lhs.Pos(), fmt.Errorf("hostlang: unsupported assignment target %T", lhs))
	}
	if ident.Name == "_" {
		return
	}
	if tok == token.DEFINE {
		in.define(ident.Name, v)
		return
	}
	if !in.assign(ident.Name, v) {
		in.fail(lhs.Pos(), fmt.Errorf("hostlang: assignment to undeclared variable %s", ident.Name))
	}
}

func (in *Interp) execIncDec(s *ast.IncDecStmt) {
	cur := in.evalExpr(s.X)
	op := token.ADD
	if s.Tok == token.DEC {
		op = token.SUB
	}
	result, err := applyBinary(op, cur, int64(1))
	if err != nil {
		in.fail(s.Pos(), err)
	}
	in.bind(token.ASSIGN, s.X, result)
}

func (in *Interp) execDecl(s *ast.DeclStmt) {
	gen, ok := s.Decl.(*ast.GenDecl)
	if !ok || gen.Tok != token.VAR {
		in.fail(s.Pos(), fmt.Errorf("hostlang: unsupported declaration"))
	}
	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}
		for i, name := range vs.Names {
			var v any
			if i < len(vs.Values) {
				v = in.evalExpr(vs.Values[i])
			}
			in.define(name.Name, v)
		}
	}
}

func (in *Interp) execIf(s *ast.IfStmt) {
	in.pushScope()
	defer in.popScope()

	if s.Init != nil {
		in.execStmt(s.Init)
	}

	cond, ok := in.evalExpr(s.Cond).(bool)
	if !ok {
		in.fail(s.Cond.Pos(), fmt.Errorf("hostlang: if condition is not a bool"))
	}

	if cond {
		in.execStmt(s.Body)
		return
	}
	if s.Else != nil {
		in.execStmt(s.Else)
	}
}

func (in *Interp) execFor(s *ast.ForStmt) {
	in.pushScope()
	defer in.popScope()

	if s.Init != nil {
		in.execStmt(s.Init)
	}
	for {
		if s.Cond != nil {
			cond, ok := in.evalExpr(s.Cond).(bool)
			if !ok {
				in.fail(s.Cond.Pos(), fmt.Errorf("hostlang: for condition is not a bool"))
			}
			if !cond {
				return
			}
		}
		in.execStmt(s.Body)
		if s.Post != nil {
			in.execStmt(s.Post)
		}
	}
}

// execRange executes a `for k, v := range X { ... }` header, the Go
// shape the block/brace bridge syntax produces most often. Grounded on
// pongo2's own tagForNode.Execute (tags_for.go), which likewise opens a
// child scope per loop and resolves the iterable once before looping,
// rather than re-evaluating it every iteration.
func (in *Interp) execRange(s *ast.RangeStmt) {
	in.pushScope()
	defer in.popScope()

	x := in.evalExpr(s.X)
	rv := reflect.ValueOf(x)

	assign := func(key, value any) {
		if s.Key != nil {
			in.bind(s.Tok, s.Key, key)
		}
		if s.Value != nil {
			in.bind(s.Tok, s.Value, value)
		}
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			assign(int64(i), rv.Index(i).Interface())
			in.execStmt(s.Body)
		}
	case reflect.Map:
		iter := rv.MapRange()
		for iter.Next() {
			assign(iter.Key().Interface(), iter.Value().Interface())
			in.execStmt(s.Body)
		}
	case reflect.String:
		for i, r := range rv.String() {
			assign(int64(i), r)
			in.execStmt(s.Body)
		}
	case reflect.Chan:
		for {
			v, ok := rv.Recv()
			if !ok {
				return
			}
			assign(nil, v.Interface())
			in.execStmt(s.Body)
		}
	default:
		in.fail(s.X.Pos(), fmt.Errorf("hostlang: cannot range over %T", x))
	}
}
