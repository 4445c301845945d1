package tat

import (
	"github.com/whylang/wyc/token"
	"github.com/whylang/wyc/types"
)

// Node is any node in the typed abstract tree.
type Node interface {
	Span() token.Span
}

type ParentNode interface {
	Node
	Children() []Node
}

// CapturedVar names one free variable a lambda closes over, along with its
// type at the point of capture (spec.md §3's captured-context info slot).
type CapturedVar struct {
	Name string
	Type types.Resolved
}

// Info is the TAT info slot attached to every Expression node: a type
// variable into the checker's Arena, plus the captured-context list (non-nil
// only for Lambda and FunctionExpr).
type Info struct {
	Var      Var
	Captured []CapturedVar
}

// TopLevel, Statement and Expression mirror package ast's marker interfaces.
type TopLevel interface {
	Node
	topLevel()
}

type Statement interface {
	Node
	statement()
}

type Expression interface {
	Node
	expression()
	TypeInfo() Info
}

type Program struct {
	Items []TopLevel
}

func (p *Program) Children() []Node {
	out := make([]Node, len(p.Items))
	for i, it := range p.Items {
		out[i] = it
	}
	return out
}
func (p *Program) Span() token.Span {
	var s token.Span
	for _, it := range p.Items {
		s = token.Join(s, it.Span())
	}
	return s
}

type Param struct {
	Name string
	Type types.Resolved
	Sp   token.Span
}

func (p Param) Span() token.Span { return p.Sp }

// ---- Top-level items ----------------------------------------------------

type FunctionDecl struct {
	Name       string
	Params     []Param
	ReturnType types.Resolved
	Body       *Block
	Sp         token.Span
}

func (n *FunctionDecl) topLevel()        {}
func (n *FunctionDecl) Span() token.Span { return n.Sp }
func (n *FunctionDecl) Children() []Node {
	nodes := []Node{}
	for _, p := range n.Params {
		nodes = append(nodes, p)
	}
	return append(nodes, n.Body)
}

type ConstDecl struct {
	Name  string
	Type  types.Resolved
	Value Expression
	Sp    token.Span
}

func (n *ConstDecl) topLevel()        {}
func (n *ConstDecl) statement()       {}
func (n *ConstDecl) Span() token.Span { return n.Sp }
func (n *ConstDecl) Children() []Node { return []Node{n.Value} }

type Declaration struct {
	Name string
	Type types.Resolved
	Sp   token.Span
}

func (n *Declaration) topLevel()        {}
func (n *Declaration) statement()       {}
func (n *Declaration) Span() token.Span { return n.Sp }
func (n *Declaration) Children() []Node { return nil }

type StructField struct {
	Name string
	Type types.Resolved
	Sp   token.Span
}

func (f StructField) Span() token.Span { return f.Sp }

type StructDecl struct {
	Name   string
	Fields []StructField
	Sp     token.Span
}

func (n *StructDecl) topLevel()        {}
func (n *StructDecl) statement()       {}
func (n *StructDecl) Span() token.Span { return n.Sp }
func (n *StructDecl) Children() []Node {
	nodes := make([]Node, len(n.Fields))
	for i, f := range n.Fields {
		nodes[i] = f
	}
	return nodes
}

type InstanceBlock struct {
	TargetType types.Resolved
	Methods    []*FunctionDecl
	Externs    []*Declaration
	Sp         token.Span
}

func (n *InstanceBlock) topLevel()        {}
func (n *InstanceBlock) Span() token.Span { return n.Sp }
func (n *InstanceBlock) Children() []Node {
	nodes := []Node{}
	for _, m := range n.Methods {
		nodes = append(nodes, m)
	}
	for _, e := range n.Externs {
		nodes = append(nodes, e)
	}
	return nodes
}

type CommentNode struct {
	Text string
	Sp   token.Span
}

func (n *CommentNode) topLevel()        {}
func (n *CommentNode) statement()       {}
func (n *CommentNode) Span() token.Span { return n.Sp }
func (n *CommentNode) Children() []Node { return nil }

// ---- Statements -----------------------------------------------------------

type ExprStmt struct {
	Expr Expression
	Sp   token.Span
}

func (n *ExprStmt) statement()       {}
func (n *ExprStmt) Span() token.Span { return n.Sp }
func (n *ExprStmt) Children() []Node { return []Node{n.Expr} }

type YieldExpr struct {
	Expr Expression
	Sp   token.Span
}

func (n *YieldExpr) statement()       {}
func (n *YieldExpr) Span() token.Span { return n.Sp }
func (n *YieldExpr) Children() []Node { return []Node{n.Expr} }

type Initialisation struct {
	Name    string
	Mutable bool
	Type    types.Resolved
	Value   Expression
	Sp      token.Span
}

func (n *Initialisation) statement()       {}
func (n *Initialisation) Span() token.Span { return n.Sp }
func (n *Initialisation) Children() []Node { return []Node{n.Value} }

type Assignment struct {
	Name  string
	Value Expression
	Sp    token.Span
}

func (n *Assignment) statement()       {}
func (n *Assignment) Span() token.Span { return n.Sp }
func (n *Assignment) Children() []Node { return []Node{n.Value} }

type ReturnStmt struct {
	Value Expression
	Sp    token.Span
}

func (n *ReturnStmt) statement()       {}
func (n *ReturnStmt) Span() token.Span { return n.Sp }
func (n *ReturnStmt) Children() []Node {
	if n.Value == nil {
		return nil
	}
	return []Node{n.Value}
}

type WhileStmt struct {
	Cond Expression
	Body *Block
	Sp   token.Span
}

func (n *WhileStmt) statement()       {}
func (n *WhileStmt) Span() token.Span { return n.Sp }
func (n *WhileStmt) Children() []Node { return []Node{n.Cond, n.Body} }

type NestedFunction struct {
	Decl *FunctionDecl
	Sp   token.Span
}

func (n *NestedFunction) statement()       {}
func (n *NestedFunction) Span() token.Span { return n.Sp }
func (n *NestedFunction) Children() []Node { return []Node{n.Decl} }
