package hostlang

import (
	"fmt"
	"go/token"
)

// applyBinary implements the small set of binary operators the
// emitted code actually needs: string concatenation, numeric
// arithmetic/comparison, and equality over arbitrary values. Anything
// wider (bit ops, shifts, complex) is outside the subset of Go the
// translator emits.
func applyBinary(op token.Token, l, r any) (any, error) {
	if op == token.EQL {
		return l == r, nil
	}
	if op == token.NEQ {
		return l != r, nil
	}

	if ls, ok := l.(string); ok {
		rs, ok := r.(string)
		if !ok {
			return nil, fmt.Errorf("hostlang: %v %s %T: mismatched operand types", l, op, r)
		}
		switch op {
		case token.ADD:
			return ls + rs, nil
		case token.LSS:
			return ls < rs, nil
		case token.LEQ:
			return ls <= rs, nil
		case token.GTR:
			return ls > rs, nil
		case token.GEQ:
			return ls >= rs, nil
		}
		return nil, fmt.Errorf("hostlang: unsupported string operator %s", op)
	}

	lf, lok := asFloat(l)
	rf, rok := asFloat(r)
	if !lok || !rok {
		return nil, fmt.Errorf("hostlang: unsupported operand types for %s: %T, %T", op, l, r)
	}

	switch op {
	case token.ADD:
		return reifyNumeric(l, r, lf+rf), nil
	case token.SUB:
		return reifyNumeric(l, r, lf-rf), nil
	case token.MUL:
		return reifyNumeric(l, r, lf*rf), nil
	case token.QUO:
		if rf == 0 {
			return nil, fmt.Errorf("hostlang: division by zero")
		}
		return reifyNumeric(l, r, lf/rf), nil
	case token.LSS:
		return lf < rf, nil
	case token.LEQ:
		return lf <= rf, nil
	case token.GTR:
		return lf > rf, nil
	case token.GEQ:
		return lf >= rf, nil
	}

	return nil, fmt.Errorf("hostlang: unsupported numeric operator %s", op)
}

func asFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// reifyNumeric returns result as an int64 if both operands were
// integral, else as a float64 — a small stand-in for Go's real
// untyped-constant/operand-type arithmetic rules, sufficient for the
// arithmetic a template's embedded expressions actually perform.
func reifyNumeric(l, r any, result float64) any {
	if isIntegral(l) && isIntegral(r) {
		return int64(result)
	}
	return result
}

func isIntegral(v any) bool {
	switch v.(type) {
	case int64, int:
		return true
	}
	return false
}
