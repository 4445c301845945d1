package validate

import (
	"testing"

	"github.com/whylang/wyc/parser"
	"github.com/whylang/wyc/tat"
	"github.com/whylang/wyc/token"
	"github.com/whylang/wyc/typecheck"
	"github.com/whylang/wyc/types"
)

func checkAndValidate(t *testing.T, src string) (int, int) {
	t.Helper()
	prog, errs := parser.Parse(token.NewSource("test"), src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	out, arena, checkDiags := typecheck.Check(prog)
	validateDiags := Validate(out, arena)
	return len(checkDiags), len(validateDiags)
}

func TestValidateWellTypedProgramHasNoFailures(t *testing.T) {
	checkCount, validateCount := checkAndValidate(t, `
		fn add(a: i64, b: i64): i64 { a + b }
		fn main(): i64 { add(1, 2) }
	`)
	if checkCount != 0 {
		t.Fatalf("expected no check diagnostics, got %d", checkCount)
	}
	if validateCount != 0 {
		t.Fatalf("expected no validation diagnostics, got %d", validateCount)
	}
}

func TestResolveReadsCheckedType(t *testing.T) {
	prog, errs := parser.Parse(token.NewSource("test"), `fn main(): i64 { 1 + 2 }`)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	out, arena, checkDiags := typecheck.Check(prog)
	if len(checkDiags) != 0 {
		t.Fatalf("unexpected check diagnostics: %v", checkDiags)
	}
	if diags := Validate(out, arena); len(diags) != 0 {
		t.Fatalf("unexpected validation diagnostics: %v", diags)
	}
	main := findFunction(t, out, "main")
	got := Resolve(arena, main.Body.Tail.Expr)
	if !got.Equal(types.Integer) {
		t.Fatalf("Resolve(main's tail) = %v; want i64", got)
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
