package tat

import (
	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/token"
)

// Every Expression variant below mirrors its package ast counterpart but
// adds an Info slot (spec.md §3's "{type-cell, captured-context}"). Literal
// value fields are carried straight through from the UAT node rather than
// recomputed, since the checker never revisits decoded literal values.

type Identifier struct {
	Name string
	Info Info
	Sp   token.Span
}

func (n *Identifier) expression()      {}
func (n *Identifier) Span() token.Span { return n.Sp }
func (n *Identifier) Children() []Node { return nil }
func (n *Identifier) TypeInfo() Info   { return n.Info }

type IntegerLiteral struct {
	Value int64
	Info  Info
	Sp    token.Span
}

func (n *IntegerLiteral) expression()      {}
func (n *IntegerLiteral) Span() token.Span { return n.Sp }
func (n *IntegerLiteral) Children() []Node { return nil }
func (n *IntegerLiteral) TypeInfo() Info   { return n.Info }

type FloatLiteral struct {
	Value float64
	Info  Info
	Sp    token.Span
}

func (n *FloatLiteral) expression()      {}
func (n *FloatLiteral) Span() token.Span { return n.Sp }
func (n *FloatLiteral) Children() []Node { return nil }
func (n *FloatLiteral) TypeInfo() Info   { return n.Info }

type CharLiteral struct {
	Value rune
	Info  Info
	Sp    token.Span
}

func (n *CharLiteral) expression()      {}
func (n *CharLiteral) Span() token.Span { return n.Sp }
func (n *CharLiteral) Children() []Node { return nil }
func (n *CharLiteral) TypeInfo() Info   { return n.Info }

type StringLiteral struct {
	Value string
	Info  Info
	Sp    token.Span
}

func (n *StringLiteral) expression()      {}
func (n *StringLiteral) Span() token.Span { return n.Sp }
func (n *StringLiteral) Children() []Node { return nil }
func (n *StringLiteral) TypeInfo() Info   { return n.Info }

type BooleanLiteral struct {
	Value bool
	Info  Info
	Sp    token.Span
}

func (n *BooleanLiteral) expression()      {}
func (n *BooleanLiteral) Span() token.Span { return n.Sp }
func (n *BooleanLiteral) Children() []Node { return nil }
func (n *BooleanLiteral) TypeInfo() Info   { return n.Info }

type Paren struct {
	Inner Expression
	Info  Info
	Sp    token.Span
}

func (n *Paren) expression()      {}
func (n *Paren) Span() token.Span { return n.Sp }
func (n *Paren) Children() []Node { return []Node{n.Inner} }
func (n *Paren) TypeInfo() Info   { return n.Info }

type Prefix struct {
	Op      ast.PrefixOp
	Operand Expression
	Info    Info
	Sp      token.Span
}

func (n *Prefix) expression()      {}
func (n *Prefix) Span() token.Span { return n.Sp }
func (n *Prefix) Children() []Node { return []Node{n.Operand} }
func (n *Prefix) TypeInfo() Info   { return n.Info }

type Binary struct {
	Op          ast.BinaryOp
	Left, Right Expression
	Info        Info
	Sp          token.Span
}

func (n *Binary) expression()      {}
func (n *Binary) Span() token.Span { return n.Sp }
func (n *Binary) Children() []Node { return []Node{n.Left, n.Right} }
func (n *Binary) TypeInfo() Info   { return n.Info }

type Call struct {
	Callee Expression
	Args   []Expression
	Info   Info
	Sp     token.Span
}

func (n *Call) expression()      {}
func (n *Call) Span() token.Span { return n.Sp }
func (n *Call) Children() []Node {
	nodes := []Node{n.Callee}
	for _, a := range n.Args {
		nodes = append(nodes, a)
	}
	return nodes
}
func (n *Call) TypeInfo() Info { return n.Info }

type Index struct {
	Array Expression
	At    Expression
	Info  Info
	Sp    token.Span
}

func (n *Index) expression()      {}
func (n *Index) Span() token.Span { return n.Sp }
func (n *Index) Children() []Node { return []Node{n.Array, n.At} }
func (n *Index) TypeInfo() Info   { return n.Info }

type PropertyAccess struct {
	Target   Expression
	Property string
	Info     Info
	Sp       token.Span
}

func (n *PropertyAccess) expression()      {}
func (n *PropertyAccess) Span() token.Span { return n.Sp }
func (n *PropertyAccess) Children() []Node { return []Node{n.Target} }
func (n *PropertyAccess) TypeInfo() Info   { return n.Info }

type ArrayLiteral struct {
	Elements []Expression
	Info     Info
	Sp       token.Span
}

func (n *ArrayLiteral) expression()      {}
func (n *ArrayLiteral) Span() token.Span { return n.Sp }
func (n *ArrayLiteral) Children() []Node {
	nodes := make([]Node, len(n.Elements))
	for i, e := range n.Elements {
		nodes[i] = e
	}
	return nodes
}
func (n *ArrayLiteral) TypeInfo() Info { return n.Info }

type ArrayDefault struct {
	Init Expression
	Len  Expression
	Info Info
	Sp   token.Span
}

func (n *ArrayDefault) expression()      {}
func (n *ArrayDefault) Span() token.Span { return n.Sp }
func (n *ArrayDefault) Children() []Node { return []Node{n.Init, n.Len} }
func (n *ArrayDefault) TypeInfo() Info   { return n.Info }

// Block is an expression in TAT (its tail expression, if any, gives it a
// value) as well as a statement container.
type Block struct {
	Stmts []Statement
	Tail  *YieldExpr
	Info  Info
	Sp    token.Span
}

func (n *Block) expression()      {}
func (n *Block) Span() token.Span { return n.Sp }
func (n *Block) Children() []Node {
	nodes := make([]Node, 0, len(n.Stmts)+1)
	for _, s := range n.Stmts {
		nodes = append(nodes, s)
	}
	if n.Tail != nil {
		nodes = append(nodes, n.Tail)
	}
	return nodes
}
func (n *Block) TypeInfo() Info { return n.Info }

type If struct {
	Cond Expression
	Then *Block
	Else *Block
	Info Info
	Sp   token.Span
}

func (n *If) expression()      {}
func (n *If) Span() token.Span { return n.Sp }
func (n *If) Children() []Node {
	nodes := []Node{n.Cond, n.Then}
	if n.Else != nil {
		nodes = append(nodes, n.Else)
	}
	return nodes
}
func (n *If) TypeInfo() Info { return n.Info }

type Lambda struct {
	Params []Param
	Body   Expression
	Info   Info
	Sp     token.Span
}

func (n *Lambda) expression()      {}
func (n *Lambda) Span() token.Span { return n.Sp }
func (n *Lambda) Children() []Node {
	nodes := []Node{}
	for _, p := range n.Params {
		nodes = append(nodes, p)
	}
	return append(nodes, n.Body)
}
func (n *Lambda) TypeInfo() Info { return n.Info }

type StructInitField struct {
	Name  string
	Value Expression
	Sp    token.Span
}

func (f StructInitField) Span() token.Span { return f.Sp }
func (f StructInitField) Children() []Node { return []Node{f.Value} }

type StructInit struct {
	StructName string
	Fields     []StructInitField
	Info       Info
	Sp         token.Span
}

func (n *StructInit) expression()      {}
func (n *StructInit) Span() token.Span { return n.Sp }
func (n *StructInit) Children() []Node {
	nodes := make([]Node, len(n.Fields))
	for i, f := range n.Fields {
		nodes[i] = f
	}
	return nodes
}
func (n *StructInit) TypeInfo() Info { return n.Info }

type FunctionExpr struct {
	Decl *FunctionDecl
	Info Info
	Sp   token.Span
}

func (n *FunctionExpr) expression()      {}
func (n *FunctionExpr) Span() token.Span { return n.Sp }
func (n *FunctionExpr) Children() []Node { return []Node{n.Decl} }
func (n *FunctionExpr) TypeInfo() Info   { return n.Info }
