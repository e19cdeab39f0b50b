package hostlang

import (
	"fmt"
	"go/ast"
	"go/token"
	"reflect"
	"strconv"
)

// evalExpr evaluates e to its dynamic value. Any failure aborts the
// routine via returnSignal (see fail/failErr); evalCallExpr is the one
// place that intercepts that abort locally, so an error that occurs
// while evaluating a call's arguments can be handed to the call's own
// single error-typed result instead of unwinding past it — see its
// doc comment.
func (in *Interp) evalExpr(e ast.Expr) any {
	switch n := e.(type) {
	case *ast.Ident:
		return in.evalIdent(n)
	case *ast.BasicLit:
		return in.evalBasicLit(n)
	case *ast.ParenExpr:
		return in.evalExpr(n.X)
	case *ast.UnaryExpr:
		return in.evalUnary(n)
	case *ast.BinaryExpr:
		return in.evalBinary(n)
	case *ast.CallExpr:
		return in.evalCallExpr(n)
	case *ast.SelectorExpr:
		v, _ := in.evalSelector(n)
		return v
	case *ast.IndexExpr:
		return in.evalIndex(n)
	default:
		in.fail(e.Pos(), fmt.Errorf("hostlang: unsupported expression %T", e))
		panic("unreachable")
	}
}

// evalExprSafe evaluates e and recovers a returnSignal raised while
// doing so into an ordinary (nil, err) pair, rather than letting it
// keep unwinding. Used only by evalCallExpr's argument loop.
func (in *Interp) evalExprSafe(e ast.Expr) (v any, err error) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(returnSignal)
			if !ok {
				panic(r)
			}
			err = sig.err
		}
	}()
	return in.evalExpr(e), nil
}

func (in *Interp) evalIdent(n *ast.Ident) any {
	switch n.Name {
	case "true":
		return true
	case "false":
		return false
	case "nil":
		return nil
	}
	v, ok := in.lookup(n.Name)
	if !ok {
		in.fail(n.Pos(), fmt.Errorf("hostlang: undefined: %s", n.Name))
	}
	return v
}

func (in *Interp) evalBasicLit(n *ast.BasicLit) any {
	switch n.Kind {
	case token.STRING:
		s, err := strconv.Unquote(n.Value)
		if err != nil {
			in.fail(n.Pos(), fmt.Errorf("hostlang: bad string literal %s: %w", n.Value, err))
		}
		return s
	case token.INT:
		i, err := strconv.ParseInt(n.Value, 0, 64)
		if err != nil {
			in.fail(n.Pos(), fmt.Errorf("hostlang: bad int literal %s: %w", n.Value, err))
		}
		return i
	case token.FLOAT:
		f, err := strconv.ParseFloat(n.Value, 64)
		if err != nil {
			in.fail(n.Pos(), fmt.Errorf("hostlang: bad float literal %s: %w", n.Value, err))
		}
		return f
	case token.CHAR:
		r, _, _, err := strconv.UnquoteChar(n.Value[1:len(n.Value)-1], '\'')
		if err != nil {
			in.fail(n.Pos(), fmt.Errorf("hostlang: bad rune literal %s: %w", n.Value, err))
		}
		return r
	default:
		in.fail(n.Pos(), fmt.Errorf("hostlang: unsupported literal kind %v", n.Kind))
		panic("unreachable")
	}
}

func (in *Interp) evalUnary(n *ast.UnaryExpr) any {
	x := in.evalExpr(n.X)
	switch n.Op {
	case token.NOT:
		b, ok := x.(bool)
		if !ok {
			in.fail(n.Pos(), fmt.Errorf("hostlang: '!' on non-bool %T", x))
		}
		return !b
	case token.SUB:
		return negate(in, n, x)
	case token.ADD:
		return x
	default:
		in.fail(n.Pos(), fmt.Errorf("hostlang: unsupported unary operator %s", n.Op))
		panic("unreachable")
	}
}

func negate(in *Interp, n *ast.UnaryExpr, x any) any {
	switch v := x.(type) {
	case int64:
		return -v
	case float64:
		return -v
	default:
		in.fail(n.Pos(), fmt.Errorf("hostlang: '-' on non-numeric %T", x))
		panic("unreachable")
	}
}

func (in *Interp) evalBinary(n *ast.BinaryExpr) any {
	// && and || short-circuit, so the right operand must not be
	// evaluated eagerly.
	switch n.Op {
	case token.LAND:
		l, ok := in.evalExpr(n.X).(bool)
		if !ok {
			in.fail(n.Pos(), fmt.Errorf("hostlang: '&&' on non-bool left operand"))
		}
		if !l {
			return false
		}
		r, ok := in.evalExpr(n.Y).(bool)
		if !ok {
			in.fail(n.Pos(), fmt.Errorf("hostlang: '&&' on non-bool right operand"))
		}
		return r
	case token.LOR:
		l, ok := in.evalExpr(n.X).(bool)
		if !ok {
			in.fail(n.Pos(), fmt.Errorf("hostlang: '||' on non-bool left operand"))
		}
		if l {
			return true
		}
		r, ok := in.evalExpr(n.Y).(bool)
		if !ok {
			in.fail(n.Pos(), fmt.Errorf("hostlang: '||' on non-bool right operand"))
		}
		return r
	}

	l, r := in.evalExpr(n.X), in.evalExpr(n.Y)
	result, err := applyBinary(n.Op, l, r)
	if err != nil {
		in.fail(n.Pos(), err)
	}
	return result
}

func (in *Interp) evalSelector(n *ast.SelectorExpr) (any, reflect.Value) {
	recv := in.evalExpr(n.X)
	if recv == nil {
		in.fail(n.Pos(), fmt.Errorf("hostlang: nil pointer/interface dereference selecting %s", n.Sel.Name))
	}

	rv := reflect.ValueOf(recv)
	m := rv.MethodByName(n.Sel.Name)
	if m.IsValid() {
		return nil, m
	}

	for rv.Kind() == reflect.Ptr {
		rv = rv.Elem()
	}
	if rv.Kind() == reflect.Struct {
		f := rv.FieldByName(n.Sel.Name)
		if f.IsValid() {
			return f.Interface(), reflect.Value{}
		}
	}
	if rv.Kind() == reflect.Map {
		key := reflect.ValueOf(n.Sel.Name)
		v := rv.MapIndex(key)
		if v.IsValid() {
			return v.Interface(), reflect.Value{}
		}
		return nil, reflect.Value{}
	}

	in.fail(n.Pos(), fmt.Errorf("hostlang: %s has no field or method %s", exprString(n.X), n.Sel.Name))
	panic("unreachable")
}

func (in *Interp) evalIndex(n *ast.IndexExpr) any {
	x := in.evalExpr(n.X)
	idx := in.evalExpr(n.Index)

	rv := reflect.ValueOf(x)
	switch rv.Kind() {
	case reflect.Map:
		key := anyToReflect(idx, rv.Type().Key())
		v := rv.MapIndex(key)
		if !v.IsValid() {
			return reflect.Zero(rv.Type().Elem()).Interface()
		}
		return v.Interface()
	case reflect.Slice, reflect.Array, reflect.String:
		i, ok := asInt(idx)
		if !ok || i < 0 || i >= rv.Len() {
			in.fail(n.Pos(), fmt.Errorf("hostlang: index %v out of range", idx))
		}
		return rv.Index(i).Interface()
	default:
		in.fail(n.Pos(), fmt.Errorf("hostlang: cannot index %T", x))
		panic("unreachable")
	}
}

// evalCallExpr evaluates a call. If evaluating one of its arguments
// fails and the callee has exactly one return value of type error,
// that failure is handed back AS the call's result rather than
// unwinding past it — the evaluator's stand-in for how a Python-style
// generator's `yield expr` raising inside a try/except is caught by
// the very statement that was about to consume the yielded value. Any
// other callee shape propagates an argument failure normally.
func (in *Interp) evalCallExpr(e *ast.CallExpr) any {
	fn, method := in.evalSelectorOrIdentFunc(e.Fun)

	var fnv reflect.Value
	if method.IsValid() {
		fnv = method
	} else {
		fnv = reflect.ValueOf(fn)
	}
	if fnv.Kind() != reflect.Func {
		in.fail(e.Pos(), fmt.Errorf("hostlang: %s is not callable", exprString(e.Fun)))
	}

	ft := fnv.Type()
	singleErrorReturn := ft.NumOut() == 1 && ft.Out(0) == errorType

	args := make([]reflect.Value, 0, len(e.Args))
	for i, a := range e.Args {
		v, err := in.evalExprSafe(a)
		if err != nil {
			if singleErrorReturn {
				return err
			}
			in.failErr(err)
		}
		var pt reflect.Type
		switch {
		case ft.IsVariadic() && i >= ft.NumIn()-1:
			pt = ft.In(ft.NumIn() - 1).Elem()
		case i < ft.NumIn():
			pt = ft.In(i)
		default:
			pt = reflect.TypeOf((*any)(nil)).Elem()
		}
		args = append(args, anyToReflect(v, pt))
	}

	results := fnv.Call(args)
	switch len(results) {
	case 0:
		return nil
	case 1:
		return results[0].Interface()
	default:
		out := make([]any, len(results))
		for i, r := range results {
			out[i] = r.Interface()
		}
		return out
	}
}

// evalSelectorOrIdentFunc resolves e.Fun to either a plain value (an
// Ident or a SelectorExpr naming a struct field/map entry that happens
// to hold a func) or a bound method value (a SelectorExpr naming a
// method), distinguishing the two so evalCallExpr doesn't have to.
func (in *Interp) evalSelectorOrIdentFunc(fun ast.Expr) (any, reflect.Value) {
	if sel, ok := fun.(*ast.SelectorExpr); ok {
		return in.evalSelector(sel)
	}
	return in.evalExpr(fun), reflect.Value{}
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int64:
		return int(n), true
	case int:
		return n, true
	default:
		return 0, false
	}
}

func anyToReflect(v any, t reflect.Type) reflect.Value {
	if v == nil {
		return reflect.Zero(t)
	}
	rv := reflect.ValueOf(v)
	if rv.Type().AssignableTo(t) {
		return rv
	}
	if rv.Type().ConvertibleTo(t) {
		return rv.Convert(t)
	}
	return rv
}
