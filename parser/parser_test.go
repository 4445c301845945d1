package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"

	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/token"
)

// equalTrees compares two trees for semantic equality, ignoring Span: two
// trees that differ only in source position are considered equal (spec.md
// §3, §8), so every expected tree below is built with zero Sp fields.
func equalTrees(t *testing.T, got, want ast.Node) {
	t.Helper()
	if diff := cmp.Diff(want, got, cmpopts.IgnoreTypes(token.Span{})); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := Parse(token.NewSource("test"), src)
	if len(errs) != 0 {
		t.Fatalf("unexpected parse errors: %v", errs)
	}
	return prog
}

func ident(name string) *ast.Identifier { return &ast.Identifier{Name: name} }

func TestParseFunctionDecl(t *testing.T) {
	prog := mustParse(t, `fn add(a: i64, b: i64): i64 { a + b }`)
	want := &ast.Program{Items: []ast.TopLevel{
		&ast.FunctionDecl{
			Name: "add",
			Params: []ast.Param{
				{Name: "a", Type: &ast.LiteralType{Name: "i64"}},
				{Name: "b", Type: &ast.LiteralType{Name: "i64"}},
			},
			ReturnType: &ast.LiteralType{Name: "i64"},
			Body: &ast.Block{
				Tail: &ast.YieldExpr{Expr: &ast.Binary{
					Op: ast.Add, Left: ident("a"), Right: ident("b"),
				}},
			},
		},
	}}
	equalTrees(t, prog, want)
}

func TestParseConstDecl(t *testing.T) {
	prog := mustParse(t, `const Pi: f64 = 3.14;`)
	want := &ast.Program{Items: []ast.TopLevel{
		&ast.ConstDecl{
			Name:  "Pi",
			Type:  &ast.LiteralType{Name: "f64"},
			Value: &ast.FloatLiteral{Value: 3.14},
		},
	}}
	equalTrees(t, prog, want)
}

func TestParseStructDeclAndInit(t *testing.T) {
	prog := mustParse(t, `
struct Point {
	x: i64;
	y: i64;
}
const Origin: Point = Point{x: 0, y: 0};
`)
	want := &ast.Program{Items: []ast.TopLevel{
		&ast.StructDecl{
			Name: "Point",
			Fields: []ast.StructField{
				{Name: "x", Type: &ast.LiteralType{Name: "i64"}},
				{Name: "y", Type: &ast.LiteralType{Name: "i64"}},
			},
		},
		&ast.ConstDecl{
			Name: "Origin",
			Type: &ast.LiteralType{Name: "Point"},
			Value: &ast.StructInit{
				StructName: "Point",
				Fields: []ast.StructInitField{
					{Name: "x", Value: &ast.IntegerLiteral{Value: 0}},
					{Name: "y", Value: &ast.IntegerLiteral{Value: 0}},
				},
			},
		},
	}}
	equalTrees(t, prog, want)
}

// TestPrecedenceBalancing exercises spec.md §8's left-associative,
// precedence-respecting shape: multiplicative binds tighter than additive,
// which binds tighter than comparison, regardless of source order.
func TestPrecedenceBalancing(t *testing.T) {
	prog := mustParse(t, `fn f(): bool { 1 + 2 * 3 < 4 }`)
	mul := &ast.Binary{Op: ast.Mul, Left: &ast.IntegerLiteral{Value: 2}, Right: &ast.IntegerLiteral{Value: 3}}
	add := &ast.Binary{Op: ast.Add, Left: &ast.IntegerLiteral{Value: 1}, Right: mul}
	cmp := &ast.Binary{Op: ast.CmpLt, Left: add, Right: &ast.IntegerLiteral{Value: 4}}
	want := &ast.Program{Items: []ast.TopLevel{
		&ast.FunctionDecl{
			Name:       "f",
			ReturnType: &ast.LiteralType{Name: "bool"},
			Body:       &ast.Block{Tail: &ast.YieldExpr{Expr: cmp}},
		},
	}}
	equalTrees(t, prog, want)
}

// TestPrecedenceLeftAssociative checks that same-precedence operators chain
// left-to-right: `1 - 2 - 3` means `(1 - 2) - 3`, not `1 - (2 - 3)`.
func TestPrecedenceLeftAssociative(t *testing.T) {
	prog := mustParse(t, `fn f(): i64 { 1 - 2 - 3 }`)
	inner := &ast.Binary{Op: ast.Sub, Left: &ast.IntegerLiteral{Value: 1}, Right: &ast.IntegerLiteral{Value: 2}}
	outer := &ast.Binary{Op: ast.Sub, Left: inner, Right: &ast.IntegerLiteral{Value: 3}}
	want := &ast.Program{Items: []ast.TopLevel{
		&ast.FunctionDecl{
			Name:       "f",
			ReturnType: &ast.LiteralType{Name: "i64"},
			Body:       &ast.Block{Tail: &ast.YieldExpr{Expr: outer}},
		},
	}}
	equalTrees(t, prog, want)
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, `
fn sign(n: i64): i64 {
	if (n < 0) {
		0 - 1
	} else {
		1
	}
}
`)
	ifExpr := &ast.If{
		Cond: &ast.Binary{Op: ast.CmpLt, Left: ident("n"), Right: &ast.IntegerLiteral{Value: 0}},
		Then: &ast.Block{Tail: &ast.YieldExpr{Expr: &ast.Binary{
			Op: ast.Sub, Left: &ast.IntegerLiteral{Value: 0}, Right: &ast.IntegerLiteral{Value: 1},
		}}},
		Else: &ast.Block{Tail: &ast.YieldExpr{Expr: &ast.IntegerLiteral{Value: 1}}},
	}
	want := &ast.Program{Items: []ast.TopLevel{
		&ast.FunctionDecl{
			Name:       "sign",
			Params:     []ast.Param{{Name: "n", Type: &ast.LiteralType{Name: "i64"}}},
			ReturnType: &ast.LiteralType{Name: "i64"},
			Body:       &ast.Block{Tail: &ast.YieldExpr{Expr: ifExpr}},
		},
	}}
	equalTrees(t, prog, want)
}

func TestParseLambdaAndCall(t *testing.T) {
	prog := mustParse(t, `
fn apply(): i64 {
	let f = \(x: i64) => x + 1;
	f(41)
}
`)
	lambda := &ast.Lambda{
		Params: []ast.Param{{Name: "x", Type: &ast.LiteralType{Name: "i64"}}},
		Body:   &ast.Binary{Op: ast.Add, Left: ident("x"), Right: &ast.IntegerLiteral{Value: 1}},
	}
	want := &ast.Program{Items: []ast.TopLevel{
		&ast.FunctionDecl{
			Name:       "apply",
			ReturnType: &ast.LiteralType{Name: "i64"},
			Body: &ast.Block{
				Stmts: []ast.Statement{
					&ast.Initialisation{Name: "f", Value: lambda},
				},
				Tail: &ast.YieldExpr{Expr: &ast.Call{
					Callee: ident("f"),
					Args:   []ast.Expression{&ast.IntegerLiteral{Value: 41}},
				}},
			},
		},
	}}
	equalTrees(t, prog, want)
}

func TestParseArrayLiteralAndDefault(t *testing.T) {
	prog := mustParse(t, `
fn lits(): i64 {
	let xs = &[1, 2, 3];
	let ys = &[0; 10];
	xs[0]
}
`)
	want := &ast.Program{Items: []ast.TopLevel{
		&ast.FunctionDecl{
			Name:       "lits",
			ReturnType: &ast.LiteralType{Name: "i64"},
			Body: &ast.Block{
				Stmts: []ast.Statement{
					&ast.Initialisation{Name: "xs", Value: &ast.ArrayLiteral{Elements: []ast.Expression{
						&ast.IntegerLiteral{Value: 1}, &ast.IntegerLiteral{Value: 2}, &ast.IntegerLiteral{Value: 3},
					}}},
					&ast.Initialisation{Name: "ys", Value: &ast.ArrayDefault{
						Init: &ast.IntegerLiteral{Value: 0}, Len: &ast.IntegerLiteral{Value: 10},
					}},
				},
				Tail: &ast.YieldExpr{Expr: &ast.Index{Array: ident("xs"), At: &ast.IntegerLiteral{Value: 0}}},
			},
		},
	}}
	equalTrees(t, prog, want)
}

func TestParseWhileAndAssignment(t *testing.T) {
	assignProg := mustParse(t, `fn f(): void { n = n - 1; }`)
	body := assignProg.Items[0].(*ast.FunctionDecl).Body
	require.Len(t, body.Stmts, 1)
	assign, ok := body.Stmts[0].(*ast.Assignment)
	require.True(t, ok, "expected *ast.Assignment, got %T", body.Stmts[0])
	require.Equal(t, "n", assign.Name)
	equalTrees(t, assign.Value, &ast.Binary{Op: ast.Sub, Left: ident("n"), Right: &ast.IntegerLiteral{Value: 1}})

	wprog, errs := Parse(token.NewSource("test"), `
fn countdown(): void {
	let mut n = 3;
	while (n > 0) {
		n = n - 1;
	}
}
`)
	require.Empty(t, errs)
	wbody := wprog.Items[0].(*ast.FunctionDecl).Body
	while, ok := wbody.Stmts[1].(*ast.WhileStmt)
	require.True(t, ok, "expected *ast.WhileStmt, got %T", wbody.Stmts[1])
	require.Len(t, while.Body.Stmts, 1)
}

func TestParseDeclareAndInstance(t *testing.T) {
	prog := mustParse(t, `
declare sqrt: (f64) -> f64;
struct Vec2 {
	x: f64;
	y: f64;
}
instance Vec2 {
	fn length(this): f64 {
		this.x
	}
}
`)
	require.Len(t, prog.Items, 3)
	decl, ok := prog.Items[0].(*ast.Declaration)
	require.True(t, ok, "expected *ast.Declaration, got %T", prog.Items[0])
	ft, ok := decl.Type.(*ast.FunctionType)
	require.True(t, ok, "expected function type, got %T", decl.Type)
	require.Len(t, ft.Params, 1)
	inst, ok := prog.Items[2].(*ast.InstanceBlock)
	require.True(t, ok, "expected *ast.InstanceBlock, got %T", prog.Items[2])
	require.Len(t, inst.Methods, 1)
	require.Equal(t, "length", inst.Methods[0].Name)
}

func TestParseRecoversFromError(t *testing.T) {
	_, errs := Parse(token.NewSource("test"), `
fn broken( { }
fn ok(): i64 { 1 }
`)
	if len(errs) == 0 {
		t.Fatalf("expected at least one parse error")
	}
}

func TestParseExprStandalone(t *testing.T) {
	e, errs := ParseExpr(token.NewSource("test"), `1 + 2 * 3`)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	mul := &ast.Binary{Op: ast.Mul, Left: &ast.IntegerLiteral{Value: 2}, Right: &ast.IntegerLiteral{Value: 3}}
	want := &ast.Binary{Op: ast.Add, Left: &ast.IntegerLiteral{Value: 1}, Right: mul}
	equalTrees(t, e, want)
}
