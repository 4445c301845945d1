package typecheck

import (
	"testing"

	"github.com/go-test/deep"

	"github.com/whylang/wyc/diag"
	"github.com/whylang/wyc/parser"
	"github.com/whylang/wyc/tat"
	"github.com/whylang/wyc/token"
	"github.com/whylang/wyc/types"
)

func mustCheck(t *testing.T, src string) (*tat.Program, *tat.Arena, []diag.Diagnostic) {
	t.Helper()
	prog, errs := parser.Parse(token.NewSource("test"), src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return Check(prog)
}

func kindsOf(diags []diag.Diagnostic) []diag.Kind {
	out := make([]diag.Kind, len(diags))
	for i, d := range diags {
		out[i] = d.Kind
	}
	return out
}

func hasKind(diags []diag.Diagnostic, k diag.Kind) bool {
	for _, d := range diags {
		if d.Kind == k {
			return true
		}
	}
	return false
}

func TestCheckSimpleFunctionNoErrors(t *testing.T) {
	_, _, diags := mustCheck(t, `fn add(a: i64, b: i64): i64 { a + b } fn main(): void {}`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", kindsOf(diags))
	}
}

func TestCheckForwardReference(t *testing.T) {
	_, _, diags := mustCheck(t, `
		fn main(): i64 { helper(1) }
		fn helper(x: i64): i64 { x }
	`)
	if len(diags) != 0 {
		t.Fatalf("expected forward reference to resolve, got: %v", kindsOf(diags))
	}
}

func TestCheckUndefinedVariable(t *testing.T) {
	_, _, diags := mustCheck(t, `fn main(): i64 { missing }`)
	if !hasKind(diags, diag.UndefinedVariable) {
		t.Fatalf("expected undefined-variable, got %v", kindsOf(diags))
	}
}

func TestCheckTypeMismatchInReturn(t *testing.T) {
	_, _, diags := mustCheck(t, `fn f(): i64 { true }`)
	if !hasKind(diags, diag.TypeMismatch) {
		t.Fatalf("expected type-mismatch, got %v", kindsOf(diags))
	}
}

func TestCheckMissingMain(t *testing.T) {
	_, _, diags := mustCheck(t, `fn f(): void {}`)
	if !hasKind(diags, diag.MissingMainFunction) {
		t.Fatalf("expected missing-main-function, got %v", kindsOf(diags))
	}
}

func TestCheckInvalidMainSignature(t *testing.T) {
	_, _, diags := mustCheck(t, `fn main(x: i64): void {}`)
	if !hasKind(diags, diag.InvalidMainSignature) {
		t.Fatalf("expected invalid-main-signature, got %v", kindsOf(diags))
	}
}

func TestCheckImmutableReassign(t *testing.T) {
	_, _, diags := mustCheck(t, `
		fn main(): void {
			let n = 1;
			n = 2;
		}
	`)
	if !hasKind(diags, diag.ImmutableReassign) {
		t.Fatalf("expected immutable-reassign, got %v", kindsOf(diags))
	}
}

func TestCheckMutableReassignOK(t *testing.T) {
	_, _, diags := mustCheck(t, `
		fn main(): void {
			let mut n = 1;
			n = 2;
		}
	`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", kindsOf(diags))
	}
}

func TestCheckRedefinedFunction(t *testing.T) {
	_, _, diags := mustCheck(t, `
		fn f(): void {}
		fn f(): void {}
		fn main(): void {}
	`)
	if !hasKind(diags, diag.RedefinedFunction) {
		t.Fatalf("expected redefined-function, got %v", kindsOf(diags))
	}
}

func TestCheckStructFieldAccess(t *testing.T) {
	prog, arena, diags := mustCheck(t, `
		struct Point {
			x: i64;
			y: i64;
		}
		fn main(): i64 {
			let p = Point { x: 1, y: 2 };
			p.x
		}
	`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", kindsOf(diags))
	}
	main := findFunction(t, prog, "main")
	ret := main.Body.Tail.Expr
	rt, ok := arena.Get(ret.TypeInfo().Var)
	if !ok || !rt.Equal(types.Integer) {
		t.Fatalf("main's tail type = %v, %v; want i64, true", rt, ok)
	}
}

func TestCheckInstanceMethod(t *testing.T) {
	_, _, diags := mustCheck(t, `
		struct Point {
			x: i64;
			y: i64;
		}
		instance Point {
			fn sum(this): i64 { this.x + this.y }
		}
		fn main(): i64 {
			let p = Point { x: 1, y: 2 };
			p.sum()
		}
	`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", kindsOf(diags))
	}
}

func TestCheckLambdaInfersParamsFromCallee(t *testing.T) {
	_, arena, diags := mustCheck(t, `
		fn apply(f: (i64) -> i64, x: i64): i64 { f(x) }
		fn main(): i64 { apply(\(n) => n + 1, 2) }
	`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", kindsOf(diags))
	}
	_ = arena
}

func TestCheckArrayIndexAndElementType(t *testing.T) {
	_, arena, diags := mustCheck(t, `
		fn main(): i64 {
			let xs = &[1, 2, 3];
			xs[0]
		}
	`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", kindsOf(diags))
	}
	_ = arena
}

// TestCheckLambdaCapturesOuterLocal exercises spec.md §9's Closure-at-return
// distinction: a function whose body evaluates to a lambda closing over one
// of the function's own locals gets a Closure-typed tail, and that lambda's
// Info.Captured records exactly what it closed over. types.Resolved carries
// only unexported fields, so deep.Equal needs CompareUnexportedFields to see
// past its Kind() tag rather than reporting every pair of Resolved values as
// equal.
func TestCheckLambdaCapturesOuterLocal(t *testing.T) {
	deep.CompareUnexportedFields = true
	defer func() { deep.CompareUnexportedFields = false }()

	prog, arena, diags := mustCheck(t, `
		fn makeAdder(n: i64): (i64) -> i64 {
			\(x) => x + n
		}
		fn main(): i64 { makeAdder(1)(2) }
	`)
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", kindsOf(diags))
	}
	maker := findFunction(t, prog, "makeAdder")
	lambda, ok := maker.Body.Tail.Expr.(*tat.Lambda)
	if !ok {
		t.Fatalf("expected *tat.Lambda tail, got %T", maker.Body.Tail.Expr)
	}
	want := []tat.CapturedVar{{Name: "n", Type: types.Integer}}
	if diff := deep.Equal(want, lambda.Info.Captured); diff != nil {
		t.Errorf("Info.Captured mismatch: %v", diff)
	}
	bodyType, ok := arena.Get(lambda.Info.Var)
	if !ok || bodyType.Kind() != types.ClosureKind {
		t.Fatalf("lambda type = %v, %v; want a resolved Closure", bodyType, ok)
	}
	if maker.ReturnType.Kind() != types.ClosureKind {
		t.Fatalf("makeAdder's narrowed return type = %v; want Closure", maker.ReturnType)
	}
}

func findFunction(t *testing.T, prog *tat.Program, name string) *tat.FunctionDecl {
	t.Helper()
	for _, item := range prog.Items {
		if fn, ok := item.(*tat.FunctionDecl); ok && fn.Name == name {
			return fn
		}
	}
	t.Fatalf("function %q not found", name)
	return nil
}
