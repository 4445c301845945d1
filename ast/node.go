// Package ast defines the untyped abstract tree (UAT): the parser's output
// (spec.md §3). Every node carries exactly one Span, set at construction and
// never mutated.
//
// The shape is grounded on the teacher's ast/node.go: a single Node
// interface with a Position()-style accessor, a ParentNode interface for
// generic tree walks, and one concrete struct per grammar production. The
// teacher's Pos embedding is replaced by a Span (spec.md requires a
// {line, column-range, source-handle} span, not a single offset) and the
// node set is replaced wholesale for the "why" expression grammar instead of
// Soy's template tags.
package ast

import "github.com/whylang/wyc/token"

// Node is any node in the untyped abstract tree.
type Node interface {
	Span() token.Span
}

// ParentNode is any Node with children, enabling generic depth-first walks
// (grounded on ast.ParentNode / parsepasses' walk-the-children idiom).
type ParentNode interface {
	Node
	Children() []Node
}

// Program is the parser's top-level output: an ordered list of top-level
// items (spec.md §3).
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

// TopLevel is implemented by every top-level item variant.
type TopLevel interface {
	Node
	topLevel()
}

// Statement is implemented by every statement variant.
type Statement interface {
	Node
	statement()
}

// Expression is implemented by every expression variant.
type Expression interface {
	Node
	expression()
}

// TypeNameNode is implemented by every syntactic type-name variant.
type TypeNameNode interface {
	Node
	typeName()
}

// Param is a single function/lambda parameter: `name: T`.
type Param struct {
	Name string
	Type TypeNameNode // nil for lambda parameters with no annotation
	Sp   token.Span
}

func (p Param) Span() token.Span { return p.Sp }

// ---- Top-level items -------------------------------------------------

type FunctionDecl struct {
	Name       string
	Params     []Param
	ReturnType TypeNameNode // nil means inferred/void
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
	if n.ReturnType != nil {
		nodes = append(nodes, n.ReturnType)
	}
	if n.Body != nil {
		nodes = append(nodes, n.Body)
	}
	return nodes
}

type ConstDecl struct {
	Name  string
	Type  TypeNameNode // required at top level (spec.md: invalid-constant-type otherwise)
	Value Expression
	Sp    token.Span
}

func (n *ConstDecl) topLevel()       {}
func (n *ConstDecl) statement()      {} // const may also appear as a statement
func (n *ConstDecl) Span() token.Span { return n.Sp }
func (n *ConstDecl) Children() []Node {
	nodes := []Node{}
	if n.Type != nil {
		nodes = append(nodes, n.Type)
	}
	return append(nodes, n.Value)
}

// Declaration is an external signature: `declare name: T;`.
type Declaration struct {
	Name string
	Type TypeNameNode
	Sp   token.Span
}

func (n *Declaration) topLevel()        {}
func (n *Declaration) statement()       {}
func (n *Declaration) Span() token.Span { return n.Sp }
func (n *Declaration) Children() []Node { return []Node{n.Type} }

type StructField struct {
	Name string
	Type TypeNameNode
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

// InstanceBlock attaches methods (and external signatures) to TargetType.
type InstanceBlock struct {
	TargetType TypeNameNode
	Methods    []*FunctionDecl
	Externs    []*Declaration
	Sp         token.Span
}

func (n *InstanceBlock) topLevel()        {}
func (n *InstanceBlock) Span() token.Span { return n.Sp }
func (n *InstanceBlock) Children() []Node {
	nodes := []Node{n.TargetType}
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

// ---- Statements --------------------------------------------------------

// ExprStmt is a semicolon-terminated expression whose value is discarded.
type ExprStmt struct {
	Expr Expression
	Sp   token.Span
}

func (n *ExprStmt) statement()       {}
func (n *ExprStmt) Span() token.Span { return n.Sp }
func (n *ExprStmt) Children() []Node { return []Node{n.Expr} }

// YieldExpr is a block's final expression (no semicolon); its value becomes
// the block's result.
type YieldExpr struct {
	Expr Expression
	Sp   token.Span
}

func (n *YieldExpr) statement()       {}
func (n *YieldExpr) Span() token.Span { return n.Sp }
func (n *YieldExpr) Children() []Node { return []Node{n.Expr} }

// Initialisation is `let name[: T] = value;` or `let mut name[: T] = value;`.
type Initialisation struct {
	Name    string
	Mutable bool
	Type    TypeNameNode // nil if inferred from Value
	Value   Expression
	Sp      token.Span
}

func (n *Initialisation) statement()       {}
func (n *Initialisation) Span() token.Span { return n.Sp }
func (n *Initialisation) Children() []Node {
	nodes := []Node{}
	if n.Type != nil {
		nodes = append(nodes, n.Type)
	}
	return append(nodes, n.Value)
}

type Assignment struct {
	Name  string
	Value Expression
	Sp    token.Span
}

func (n *Assignment) statement()       {}
func (n *Assignment) Span() token.Span { return n.Sp }
func (n *Assignment) Children() []Node { return []Node{n.Value} }

type ReturnStmt struct {
	Value Expression // nil for bare `return;`
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

// NestedFunction is a `fn` statement nested inside a block.
type NestedFunction struct {
	Decl *FunctionDecl
	Sp   token.Span
}

func (n *NestedFunction) statement()       {}
func (n *NestedFunction) Span() token.Span { return n.Sp }
func (n *NestedFunction) Children() []Node { return []Node{n.Decl} }
