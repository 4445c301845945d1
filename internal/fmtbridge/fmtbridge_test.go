package fmtbridge_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/internal/fmtbridge"
	"github.com/whylang/wyc/parser"
	"github.com/whylang/wyc/token"
)

// spanInsensitive treats every token.Span as equal, realizing spec.md §8's
// "equal modulo spans" tree-equality property for tests.
var spanInsensitive = cmp.Comparer(func(a, b token.Span) bool { return true })

const roundTripSource = `struct Point {
    x: i64;
    y: i64;
}

fn distanceSquared(p: Point): i64 {
    let dx: i64 = p.x;
    let dy: i64 = p.y;
    dx * dx + dy * dy
}

fn main(): i64 {
    let p: Point = Point { x: 3, y: 4 };
    distanceSquared(p)
}
`

func TestRoundTripIsIdempotentModuloSpans(t *testing.T) {
	src := token.NewSource("roundtrip.why")
	prog, errs := parser.Parse(src, roundTripSource)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	rendered := fmtbridge.Program(prog)

	reparsed, errs := parser.Parse(token.NewSource("roundtrip.why"), rendered)
	if len(errs) != 0 {
		t.Fatalf("re-parsing formatted output failed: %v\n--- rendered ---\n%s", errs, rendered)
	}

	if diff := cmp.Diff(prog, reparsed, spanInsensitive); diff != "" {
		t.Errorf("tree changed across format/re-parse (-original +reparsed):\n%s", diff)
	}

	// Formatting is itself idempotent: formatting the reparsed tree and
	// parsing that text again yields the same tree, modulo spans.
	again := fmtbridge.Program(reparsed)
	reparsedAgain, errs := parser.Parse(token.NewSource("roundtrip.why"), again)
	if len(errs) != 0 {
		t.Fatalf("re-parsing twice-formatted output failed: %v", errs)
	}
	if diff := cmp.Diff(reparsed, reparsedAgain, spanInsensitive); diff != "" {
		t.Errorf("formatting is not idempotent (-once +twice):\n%s", diff)
	}
}

func TestFormatEmptyProgram(t *testing.T) {
	if got := fmtbridge.Program(&ast.Program{}); got != "" {
		t.Errorf("Program(empty) = %q, want empty string", got)
	}
}

// TestFormatTextIsStable re-formats the reparsed tree and requires the
// rendered text itself to match character-for-character, not just the tree
// it reparses to. A character-level dmp.DiffMain report is far more useful
// here than a raw string mismatch once roundTripSource grows past a few
// lines.
func TestFormatTextIsStable(t *testing.T) {
	src := token.NewSource("stable.why")
	prog, errs := parser.Parse(src, roundTripSource)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}

	once := fmtbridge.Program(prog)
	reparsed, errs := parser.Parse(token.NewSource("stable.why"), once)
	if len(errs) != 0 {
		t.Fatalf("re-parsing formatted output failed: %v", errs)
	}
	twice := fmtbridge.Program(reparsed)

	if once != twice {
		dmp := diffmatchpatch.New()
		diffs := dmp.DiffMain(once, twice, false)
		t.Errorf("formatted text is not stable across a reparse:\n%s", dmp.DiffPrettyText(diffs))
	}
}
