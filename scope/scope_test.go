package scope

import (
	"testing"

	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/types"
)

func TestBuiltinTypes(t *testing.T) {
	s := New()
	for name, want := range map[string]types.Resolved{
		"i64": types.Integer, "f64": types.FloatingPoint, "bool": types.Boolean,
		"char": types.Character, "string": types.String, "void": types.Void,
	} {
		got, ok := s.GetType(name)
		if !ok || !got.Equal(want) {
			t.Errorf("GetType(%q) = %v, %v; want %v, true", name, got, ok, want)
		}
	}
}

func TestVariableShadowing(t *testing.T) {
	s := New()
	if !s.AddVariable("x", types.Integer, false) {
		t.Fatal("expected AddVariable to succeed")
	}
	s.Enter()
	if !s.AddVariable("x", types.String, true) {
		t.Fatal("expected shadowing in a nested frame to succeed")
	}
	typ, mutable, ok := s.Resolve("x")
	if !ok || !typ.Equal(types.String) || !mutable {
		t.Fatalf("Resolve(x) = %v, %v, %v; want string, true, true", typ, mutable, ok)
	}
	s.Exit()
	typ, mutable, ok = s.Resolve("x")
	if !ok || !typ.Equal(types.Integer) || mutable {
		t.Fatalf("after Exit, Resolve(x) = %v, %v, %v; want i64, false, true", typ, mutable, ok)
	}
}

func TestVariableRedeclarationInSameFrameRejected(t *testing.T) {
	s := New()
	if !s.AddVariable("x", types.Integer, false) {
		t.Fatal("expected first AddVariable to succeed")
	}
	if s.AddVariable("x", types.Integer, false) {
		t.Fatal("expected redeclaration in the same frame to fail")
	}
}

func TestConstantPrecedesVariable(t *testing.T) {
	s := New()
	if !s.AddConstant("Pi", types.FloatingPoint) {
		t.Fatal("expected AddConstant to succeed")
	}
	if s.AddVariable("Pi", types.Integer, false) {
		t.Fatal("expected AddVariable colliding with a constant name to fail")
	}
	typ, mutable, ok := s.Resolve("Pi")
	if !ok || mutable || !typ.Equal(types.FloatingPoint) {
		t.Fatalf("Resolve(Pi) = %v, %v, %v; want f64, false, true", typ, mutable, ok)
	}
}

func TestMethodTable(t *testing.T) {
	s := New()
	fn := types.Function([]types.Resolved{}, types.Integer)
	if !s.AddMethod("Point", "length", fn) {
		t.Fatal("expected AddMethod to succeed")
	}
	if s.AddMethod("Point", "length", fn) {
		t.Fatal("expected duplicate AddMethod to fail")
	}
	got, ok := s.ResolveMethod("Point", "length")
	if !ok || !got.Equal(fn) {
		t.Fatalf("ResolveMethod = %v, %v; want %v, true", got, ok, fn)
	}
	if _, ok := s.ResolveMethod("Point", "area"); ok {
		t.Fatal("expected ResolveMethod for an undeclared method to fail")
	}
}

func TestResolveTypeName(t *testing.T) {
	s := New()
	pointFields := []types.Field{{Name: "x", Type: types.Integer}, {Name: "y", Type: types.Integer}}
	s.AddType("Point", types.StructOf("Point", pointFields))

	cases := []struct {
		name string
		node ast.TypeNameNode
		want types.Resolved
	}{
		{"literal", &ast.LiteralType{Name: "i64"}, types.Integer},
		{"reference", &ast.ReferenceType{Referent: &ast.LiteralType{Name: "Point"}}, types.Reference(types.StructOf("Point", pointFields))},
		{"array", &ast.ArrayType{Element: &ast.LiteralType{Name: "i64"}}, types.Array(types.Integer)},
		{
			"function",
			&ast.FunctionType{Params: []ast.TypeNameNode{&ast.LiteralType{Name: "f64"}}, Return: &ast.LiteralType{Name: "bool"}},
			types.Function([]types.Resolved{types.FloatingPoint}, types.Boolean),
		},
	}
	for _, c := range cases {
		got, ok := ResolveTypeName(s, c.node)
		if !ok || !got.Equal(c.want) {
			t.Errorf("%s: ResolveTypeName = %v, %v; want %v, true", c.name, got, ok, c.want)
		}
	}
}

func TestResolveTypeNameUndefined(t *testing.T) {
	s := New()
	if _, ok := ResolveTypeName(s, &ast.LiteralType{Name: "Nope"}); ok {
		t.Fatal("expected undefined type name to fail")
	}
}
