// Package typecheck implements name resolution and two-phase type checking
// (spec.md §4.3-§4.5): a shallow pass that records top-level signatures so
// forward references resolve, followed by a deep pass that walks every
// function body, constant and instance method, producing a tat.Program.
//
// Grounded on parsepasses/datarefcheck.go's two-pass shape (CheckDataRefs
// builds a templateChecker per template, then separately verifies every
// declared param was used) generalized from "one flat pass per template" to
// "a shallow signature pass across the whole program, then a deep pass per
// body" as spec.md §4.5 requires for forward references between functions.
package typecheck

import (
	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/diag"
	"github.com/whylang/wyc/scope"
	"github.com/whylang/wyc/tat"
	"github.com/whylang/wyc/types"
)

// Checker carries the state shared by the shallow and deep passes: the name
// environment, the type-variable arena backing every TAT expression's type
// cell, and the accumulated diagnostics.
type Checker struct {
	scope *scope.Scope
	arena *tat.Arena
	bag   diag.Bag

	// currentReturn is the declared return type of the function body
	// currently being deep-checked, consulted by `return` statements.
	currentReturn types.Resolved
	// currentThis is the receiver type inside an instance method body, the
	// zero Resolved outside one.
	currentThis types.Resolved
}

// Check runs both passes over prog and returns the resulting typed tree, the
// type-variable arena backing every node's type cell, and every diagnostic
// raised. The tree is returned even when diagnostics are non-empty: callers
// that only need "is main well-formed" or editor-style partial feedback can
// still walk it. The arena is what package validate reads every Var against
// in the final pass (spec.md §4.6).
func Check(prog *ast.Program) (*tat.Program, *tat.Arena, []diag.Diagnostic) {
	c := &Checker{scope: scope.New(), arena: tat.NewArena()}
	c.shallow(prog)
	out := c.deep(prog)
	c.checkMain(prog)
	return out, c.arena, c.bag.Items()
}

// CheckExpr type-checks a single standalone expression against a fresh
// scope (builtins only) and arena, for callers that don't have a whole
// Program to shallow-check first — cmd/wyrepl's one-expression-at-a-time
// loop, grounded on spec.md §4.5's per-expression rules applying uniformly
// regardless of where an expression appears.
func CheckExpr(e ast.Expression) (tat.Expression, *tat.Arena, []diag.Diagnostic) {
	c := &Checker{scope: scope.New(), arena: tat.NewArena()}
	te := c.checkExpr(e)
	return te, c.arena, c.bag.Items()
}

func (c *Checker) fresh() tat.Var { return c.arena.Fresh() }

// setVar resolves v's type to t, the Arena equivalent of filling in a type
// cell with Some(T).
func (c *Checker) setVar(v tat.Var, t types.Resolved) { c.arena.Set(v, t) }

func (c *Checker) checkMain(prog *ast.Program) {
	for _, item := range prog.Items {
		fn, ok := item.(*ast.FunctionDecl)
		if !ok || fn.Name != "main" {
			continue
		}
		if len(fn.Params) != 0 {
			c.bag.Add(diag.InvalidMainSignature, fn.Sp, "main must take no parameters")
			return
		}
		ret, ok := scope.ResolveTypeName(c.scope, fn.ReturnType)
		if fn.ReturnType != nil && (!ok || (!ret.Equal(types.Void) && !ret.Equal(types.Integer))) {
			c.bag.Add(diag.InvalidMainSignature, fn.Sp, "main must return void or i64")
		}
		return
	}
	c.bag.Add(diag.MissingMainFunction, prog.Span(), "no main function declared")
}
