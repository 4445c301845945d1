package typecheck

import (
	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/diag"
	"github.com/whylang/wyc/scope"
	"github.com/whylang/wyc/tat"
	"github.com/whylang/wyc/types"
)

// checkStatement deep-checks one UAT statement into its TAT counterpart
// (spec.md §4.5). Statement-position const/declare/struct are legal here
// too (spec.md §4.3's "top-level or statement" rule) and must bind into the
// current frame themselves, since only top-level occurrences are registered
// by the shallow pass.
func (c *Checker) checkStatement(s ast.Statement) tat.Statement {
	switch s := s.(type) {
	case *ast.Initialisation:
		return c.checkInitialisation(s)
	case *ast.Assignment:
		return c.checkAssignment(s)
	case *ast.ReturnStmt:
		return c.checkReturn(s)
	case *ast.WhileStmt:
		return c.checkWhile(s)
	case *ast.NestedFunction:
		return c.checkNestedFunction(s)
	case *ast.ConstDecl:
		return c.checkConstStmt(s)
	case *ast.Declaration:
		return c.checkDeclarationStmt(s)
	case *ast.StructDecl:
		c.shallowStruct(s)
		return c.deepStruct(s)
	case *ast.CommentNode:
		return &tat.CommentNode{Text: s.Text, Sp: s.Sp}
	case *ast.ExprStmt:
		return c.checkExprStmt(s)
	default:
		return nil
	}
}

func (c *Checker) checkInitialisation(n *ast.Initialisation) *tat.Initialisation {
	var declared types.Resolved
	hasDeclared := false
	if n.Type != nil {
		if t, ok := scope.ResolveTypeName(c.scope, n.Type); ok {
			declared = t
			hasDeclared = true
		} else {
			c.bag.Add(diag.UndefinedType, n.Sp, "undefined type for %q", n.Name)
		}
	}
	value := c.checkExprExpected(n.Value, declared)
	vt, ok := c.typeOf(value)
	final := declared
	switch {
	case !ok:
		c.bag.Add(diag.MissingInitialisationType, n.Sp, "cannot infer type for %q", n.Name)
	case !hasDeclared:
		final = vt
	case !vt.CoercesTo(declared):
		c.bag.Add(diag.TypeMismatch, n.Sp, "initialisation of %q: expected %s, found %s", n.Name, declared, vt)
	}
	c.scope.AddVariable(n.Name, final, n.Mutable)
	return &tat.Initialisation{Name: n.Name, Mutable: n.Mutable, Type: final, Value: value, Sp: n.Sp}
}

func (c *Checker) checkAssignment(n *ast.Assignment) *tat.Assignment {
	t, mutable, ok := c.scope.Resolve(n.Name)
	var expected types.Resolved
	if ok {
		expected = t
	}
	value := c.checkExprExpected(n.Value, expected)
	switch {
	case !ok:
		c.bag.Add(diag.UndefinedVariable, n.Sp, "undefined variable %q", n.Name)
	case !mutable:
		c.bag.Add(diag.ImmutableReassign, n.Sp, "cannot assign to immutable %q", n.Name)
	default:
		if vt, vok := c.typeOf(value); vok && !vt.CoercesTo(t) {
			c.bag.Add(diag.TypeMismatch, n.Sp, "assignment to %q: expected %s, found %s", n.Name, t, vt)
		}
	}
	return &tat.Assignment{Name: n.Name, Value: value, Sp: n.Sp}
}

func (c *Checker) checkReturn(n *ast.ReturnStmt) *tat.ReturnStmt {
	if n.Value == nil {
		if !c.currentReturn.IsUnknown() && !c.currentReturn.Equal(types.Void) {
			c.bag.Add(diag.TypeMismatch, n.Sp, "bare return in function returning %s", c.currentReturn)
		}
		return &tat.ReturnStmt{Sp: n.Sp}
	}
	value := c.checkExprExpected(n.Value, c.currentReturn)
	if vt, ok := c.typeOf(value); ok && !c.currentReturn.IsUnknown() {
		if !vt.CompatibleReturn(c.currentReturn) && !vt.CoercesTo(c.currentReturn) {
			c.bag.Add(diag.TypeMismatch, n.Sp, "return type mismatch: expected %s, found %s", c.currentReturn, vt)
		}
	}
	return &tat.ReturnStmt{Value: value, Sp: n.Sp}
}

func (c *Checker) checkWhile(n *ast.WhileStmt) *tat.WhileStmt {
	cond := c.checkExpr(n.Cond)
	if ct, ok := c.typeOf(cond); ok && !ct.Equal(types.Boolean) {
		c.bag.Add(diag.TypeMismatch, n.Cond.Span(), "while condition must be Boolean, found %s", ct)
	}
	body := c.checkBlock(n.Body)
	return &tat.WhileStmt{Cond: cond, Body: body, Sp: n.Sp}
}

func (c *Checker) checkNestedFunction(n *ast.NestedFunction) *tat.NestedFunction {
	if fn, ok := c.functionSignature(n.Decl.Params, n.Decl.ReturnType); ok {
		if !c.scope.AddConstant(n.Decl.Name, fn) {
			c.bag.Add(diag.RedefinedFunction, n.Decl.Sp, "function %q is already defined", n.Decl.Name)
		}
	}
	decl, _ := c.deepFunction(n.Decl, types.Resolved{})
	return &tat.NestedFunction{Decl: decl, Sp: n.Sp}
}

func (c *Checker) checkConstStmt(n *ast.ConstDecl) *tat.ConstDecl {
	out := c.checkConstBody(n)
	if !c.scope.AddConstant(n.Name, out.Type) {
		c.bag.Add(diag.RedefinedConstant, n.Sp, "constant %q is already defined", n.Name)
	}
	return out
}

func (c *Checker) checkDeclarationStmt(n *ast.Declaration) *tat.Declaration {
	out := c.deepDeclaration(n)
	if !c.scope.AddConstant(n.Name, out.Type) {
		c.bag.Add(diag.RedefinedConstant, n.Sp, "%q is already defined", n.Name)
	}
	return out
}

func (c *Checker) checkExprStmt(n *ast.ExprStmt) *tat.ExprStmt {
	return &tat.ExprStmt{Expr: c.checkExpr(n.Expr), Sp: n.Sp}
}
