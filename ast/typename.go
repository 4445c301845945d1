package ast

import "github.com/whylang/wyc/token"

// ---- Syntactic type names ------------------------------------------------
//
// These are what the parser produces for a `: T` annotation;
// scope.ResolveTypeName resolves them against the current scope's type table into
// a types.Resolved (spec.md §4.4).

// LiteralType is a bare name: `i64`, `f64`, `void`, `bool`, or a struct name.
type LiteralType struct {
	Name string
	Sp   token.Span
}

func (n *LiteralType) typeName()        {}
func (n *LiteralType) Span() token.Span { return n.Sp }
func (n *LiteralType) Children() []Node { return nil }

// FunctionType is `(T, ...) -> T`.
type FunctionType struct {
	Params []TypeNameNode
	Return TypeNameNode
	Sp     token.Span
}

func (n *FunctionType) typeName()        {}
func (n *FunctionType) Span() token.Span { return n.Sp }
func (n *FunctionType) Children() []Node {
	nodes := make([]Node, 0, len(n.Params)+1)
	for _, p := range n.Params {
		nodes = append(nodes, p)
	}
	return append(nodes, n.Return)
}

// TupleType is `(T, ...)`, distinguished from FunctionType by the absence of
// a trailing `->`.
type TupleType struct {
	Elements []TypeNameNode
	Sp       token.Span
}

func (n *TupleType) typeName()        {}
func (n *TupleType) Span() token.Span { return n.Sp }
func (n *TupleType) Children() []Node {
	nodes := make([]Node, len(n.Elements))
	for i, e := range n.Elements {
		nodes[i] = e
	}
	return nodes
}

// ArrayType is `&[T]`.
type ArrayType struct {
	Element TypeNameNode
	Sp      token.Span
}

func (n *ArrayType) typeName()        {}
func (n *ArrayType) Span() token.Span { return n.Sp }
func (n *ArrayType) Children() []Node { return []Node{n.Element} }

// ReferenceType is `&T`.
type ReferenceType struct {
	Referent TypeNameNode
	Sp       token.Span
}

func (n *ReferenceType) typeName()        {}
func (n *ReferenceType) Span() token.Span { return n.Sp }
func (n *ReferenceType) Children() []Node { return []Node{n.Referent} }
