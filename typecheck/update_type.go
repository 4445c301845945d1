package typecheck

import (
	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/diag"
	"github.com/whylang/wyc/tat"
	"github.com/whylang/wyc/types"
)

// checkExprExpected deep-checks e with a target type already known from its
// context (a declared initialisation type, a function's declared return, a
// call's parameter type, a struct field's declared type). This is how a
// still-unresolved type cell gets filled in before the general checker ever
// sees it (spec.md §4.5's update_type cascade): a lambda with unannotated
// parameters adopts them from the surrounding Function type, and an empty
// array literal adopts its element type, rather than leaving an Unknown cell
// for the generic checker to reject.
//
// Numeric literals carry no such cascade here: the lexer commits a literal to
// Integer or FloatingPoint by its written form ("3" vs "3.0"), so there is no
// ambiguous cell left for a declared type to resolve.
func (c *Checker) checkExprExpected(e ast.Expression, expected types.Resolved) tat.Expression {
	switch e := e.(type) {
	case *ast.Lambda:
		return c.checkLambda(e, expected)
	case *ast.ArrayLiteral:
		return c.checkArrayLiteralExpected(e, expected)
	case *ast.Block:
		return c.checkBlockExpected(e, expected)
	case *ast.If:
		return c.checkIfExpected(e, expected)
	case *ast.Paren:
		inner := c.checkExprExpected(e.Inner, expected)
		v := c.fresh()
		if t, ok := c.typeOf(inner); ok {
			c.setVar(v, t)
		}
		return &tat.Paren{Inner: inner, Info: tat.Info{Var: v}, Sp: e.Sp}
	default:
		return c.checkExpr(e)
	}
}

func (c *Checker) checkArrayLiteralExpected(e *ast.ArrayLiteral, expected types.Resolved) *tat.ArrayLiteral {
	v := c.fresh()
	if len(e.Elements) == 0 {
		if expected.Kind() == types.ArrayKind {
			c.setVar(v, expected)
		}
		return &tat.ArrayLiteral{Info: tat.Info{Var: v}, Sp: e.Sp}
	}
	var elemExpected types.Resolved
	if expected.Kind() == types.ArrayKind {
		elemExpected = expected.Elem()
	}
	elems := make([]tat.Expression, len(e.Elements))
	var common types.Resolved
	haveCommon := false
	for i, el := range e.Elements {
		elems[i] = c.checkExprExpected(el, elemExpected)
		t, ok := c.typeOf(elems[i])
		if !ok {
			continue
		}
		if !haveCommon {
			common = t
			haveCommon = true
		} else if !t.Equal(common) {
			c.bag.Add(diag.TypeMismatch, el.Span(), "array literal elements must share a type, found %s and %s", common, t)
		}
	}
	if haveCommon {
		c.setVar(v, types.Array(common))
	}
	return &tat.ArrayLiteral{Elements: elems, Info: tat.Info{Var: v}, Sp: e.Sp}
}
