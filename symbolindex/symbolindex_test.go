package symbolindex

import (
	"path/filepath"
	"testing"

	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/parser"
	"github.com/whylang/wyc/token"
	"github.com/whylang/wyc/typecheck"
)

func TestIndexAndFind(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "symbols.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	prog, errs := parser.Parse(token.NewSource("a.why"), `
		struct Point {
			x: i64;
			y: i64;
		}
		instance Point {
			fn sum(this): i64 { this.x + this.y }
		}
		fn main(): i64 { 1 }
	`)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	out, _, diags := typecheck.Check(prog)
	if len(diags) != 0 {
		t.Fatalf("unexpected check diagnostics: %v", diags)
	}

	if err := store.Index("a.why", out); err != nil {
		t.Fatalf("Index: %v", err)
	}

	syms, err := store.Find("main")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(syms) != 1 || syms[0].Kind != Function || syms[0].URI != "a.why" {
		t.Fatalf("Find(main) = %+v; want one Function symbol in a.why", syms)
	}

	syms, err = store.Find("sum")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(syms) != 1 || syms[0].Kind != Method {
		t.Fatalf("Find(sum) = %+v; want one Method symbol", syms)
	}
}

func TestIndexReplacesPreviousEntriesForURI(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(filepath.Join(dir, "symbols.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer store.Close()

	first, _, _ := typecheck.Check(mustParse(t, `fn f(): void {} fn main(): void {}`))
	if err := store.Index("a.why", first); err != nil {
		t.Fatalf("Index: %v", err)
	}
	second, _, _ := typecheck.Check(mustParse(t, `fn main(): void {}`))
	if err := store.Index("a.why", second); err != nil {
		t.Fatalf("Index: %v", err)
	}

	syms, err := store.Find("f")
	if err != nil {
		t.Fatalf("Find: %v", err)
	}
	if len(syms) != 0 {
		t.Fatalf("Find(f) = %+v; want none after re-indexing without f", syms)
	}
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := parser.Parse(token.NewSource("a.why"), src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return prog
}
