// Package validate implements the final pass: TAT plus its type-variable
// arena in, a fully monomorphic tree out (spec.md §4.6). It walks every node
// depth-first and asserts each expression's type cell has been resolved by
// the checker; an unresolved cell becomes a type-validation-error at the
// node's span.
//
// spec.md's output "info" slot drops the cell in favour of a plain
// `{type: T, captured-context}`. Rather than mirror tat's node set a third
// time just to swap one field's type, Validate only reports diagnostics and
// the package-level Resolve(arena, e) reads types off the same arena: once
// validation reports no diagnostics, every expression's Info.Var is
// guaranteed present in the arena, so Resolve reads as a plain T lookup with no cell left to observe. This
// mirrors datarefcheck.go's verify-after-the-fact shape (CheckDataRefs
// re-walks a tree it didn't itself build to confirm an invariant holds)
// rather than introducing a fourth tree representation.
package validate

import (
	"github.com/whylang/wyc/diag"
	"github.com/whylang/wyc/tat"
	"github.com/whylang/wyc/types"
)

// Validate walks root depth-first and reports a type-validation-error for
// every expression whose type cell never resolved. root is usually a
// *tat.Program, but tat.Walk itself only needs a tat.Node, and so does
// Validate: cmd/wyrepl's one-expression-at-a-time loop calls it directly on
// the tat.Expression typecheck.CheckExpr returns, with no need to wrap a
// single expression in a throwaway Program just to satisfy this signature.
func Validate(root tat.Node, arena *tat.Arena) []diag.Diagnostic {
	var bag diag.Bag
	tat.Walk(root, func(n tat.Node) {
		e, ok := n.(tat.Expression)
		if !ok {
			return
		}
		t, ok := arena.Get(e.TypeInfo().Var)
		if !ok || containsUnknown(t) {
			bag.Add(diag.TypeValidationError, e.Span(), "unresolved type for %T", e)
		}
	})
	return bag.Items()
}

// containsUnknown reports whether t is Unknown or references/contains
// Unknown anywhere in its structure (spec.md §3: "validation fails if any
// cell still references or contains Unknown").
func containsUnknown(t types.Resolved) bool {
	switch t.Kind() {
	case types.Unknown:
		return true
	case types.ReferenceKind, types.ArrayKind:
		return containsUnknown(t.Elem())
	case types.TupleKind:
		for _, e := range t.TupleElems() {
			if containsUnknown(e) {
				return true
			}
		}
		return false
	case types.StructKind:
		for _, f := range t.Fields() {
			if containsUnknown(f.Type) {
				return true
			}
		}
		return false
	case types.FunctionKind, types.ClosureKind:
		for _, p := range t.Params() {
			if containsUnknown(p) {
				return true
			}
		}
		return containsUnknown(t.Return())
	default:
		return false
	}
}

// Resolve reads e's validated type. It is only meaningful to call this after
// Validate(prog, arena) returned no diagnostics; otherwise Unknown silently
// stands for a cell the checker never filled in.
func Resolve(arena *tat.Arena, e tat.Expression) types.Resolved {
	t, ok := arena.Get(e.TypeInfo().Var)
	if !ok {
		return types.Resolved{}
	}
	return t
}
