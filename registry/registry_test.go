package registry

import (
	"testing"

	"github.com/whylang/wyc/parser"
	"github.com/whylang/wyc/token"
)

func TestAddAndLookup(t *testing.T) {
	r := New()
	src := token.NewSource("a.why")
	prog, errs := parser.Parse(src, `fn main(): void {}`)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	if err := r.Add(src, prog); err != nil {
		t.Fatalf("Add: %v", err)
	}
	u, ok := r.Unit("a.why")
	if !ok || u.Program != prog {
		t.Fatalf("Unit(%q) = %v, %v; want the added program, true", "a.why", u, ok)
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d; want 1", r.Len())
	}
}

func TestAddDuplicateNameFails(t *testing.T) {
	r := New()
	src := token.NewSource("a.why")
	prog, _ := parser.Parse(src, `fn main(): void {}`)
	if err := r.Add(src, prog); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	if err := r.Add(src, prog); err == nil {
		t.Fatalf("expected error re-adding %q", "a.why")
	}
}
