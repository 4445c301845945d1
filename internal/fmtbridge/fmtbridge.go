// Package fmtbridge implements the narrow "pretty-printer" collaborator
// spec.md §6 names but deliberately keeps out of CORE scope: `format(text)
// -> text` delegates to an external formatter on successful parse and
// returns the original text otherwise. This package is that formatter,
// grounded on why_lib/src/formatter/{expression,statement}.rs's one-
// function-per-node-kind shape — not a full layout engine (no line
// wrapping, no comment reflow), just enough to round-trip a parsed Program
// back to source text so spec.md §8's re-serialise/re-parse idempotence
// property has a real implementation to exercise instead of a stub.
package fmtbridge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/whylang/wyc/ast"
)

// Program renders prog back to "why" source text.
func Program(prog *ast.Program) string {
	var w writer
	for i, item := range prog.Items {
		if i > 0 {
			w.WriteString("\n")
		}
		w.topLevel(item)
		w.WriteString("\n")
	}
	return w.String()
}

type writer struct {
	strings.Builder
	indent int
}

func (w *writer) nl() {
	w.WriteString("\n")
	w.WriteString(strings.Repeat("    ", w.indent))
}

func (w *writer) topLevel(n ast.TopLevel) {
	switch n := n.(type) {
	case *ast.FunctionDecl:
		w.function(n)
	case *ast.ConstDecl:
		w.constDecl(n)
		w.WriteString(";")
	case *ast.Declaration:
		w.declaration(n)
		w.WriteString(";")
	case *ast.StructDecl:
		w.structDecl(n)
	case *ast.InstanceBlock:
		w.instanceBlock(n)
	case *ast.CommentNode:
		w.WriteString(n.Text)
	default:
		fmt.Fprintf(w, "/* unknown top-level %T */", n)
	}
}

func (w *writer) function(n *ast.FunctionDecl) {
	w.WriteString("fn ")
	w.WriteString(n.Name)
	w.WriteString("(")
	for i, p := range n.Params {
		if i > 0 {
			w.WriteString(", ")
		}
		w.param(p)
	}
	w.WriteString(")")
	if n.ReturnType != nil {
		w.WriteString(": ")
		w.typeName(n.ReturnType)
	}
	w.WriteString(" ")
	if n.Body != nil {
		w.block(n.Body)
	} else {
		w.WriteString("{}")
	}
}

func (w *writer) param(p ast.Param) {
	w.WriteString(p.Name)
	if p.Type != nil {
		w.WriteString(": ")
		w.typeName(p.Type)
	}
}

func (w *writer) constDecl(n *ast.ConstDecl) {
	w.WriteString("const ")
	w.WriteString(n.Name)
	if n.Type != nil {
		w.WriteString(": ")
		w.typeName(n.Type)
	}
	w.WriteString(" = ")
	w.expr(n.Value)
}

func (w *writer) declaration(n *ast.Declaration) {
	w.WriteString("declare ")
	w.WriteString(n.Name)
	w.WriteString(": ")
	w.typeName(n.Type)
}

func (w *writer) structDecl(n *ast.StructDecl) {
	w.WriteString("struct ")
	w.WriteString(n.Name)
	w.WriteString(" {")
	w.indent++
	for _, f := range n.Fields {
		w.nl()
		w.WriteString(f.Name)
		w.WriteString(": ")
		w.typeName(f.Type)
		w.WriteString(";")
	}
	w.indent--
	w.nl()
	w.WriteString("}")
}

func (w *writer) instanceBlock(n *ast.InstanceBlock) {
	w.WriteString("instance ")
	w.typeName(n.TargetType)
	w.WriteString(" {")
	w.indent++
	for _, e := range n.Externs {
		w.nl()
		w.declaration(e)
		w.WriteString(";")
	}
	for _, m := range n.Methods {
		w.nl()
		w.function(m)
	}
	w.indent--
	w.nl()
	w.WriteString("}")
}

func (w *writer) statement(s ast.Statement) {
	switch s := s.(type) {
	case *ast.ExprStmt:
		w.expr(s.Expr)
		w.WriteString(";")
	case *ast.YieldExpr:
		w.expr(s.Expr)
	case *ast.Initialisation:
		w.WriteString("let ")
		if s.Mutable {
			w.WriteString("mut ")
		}
		w.WriteString(s.Name)
		if s.Type != nil {
			w.WriteString(": ")
			w.typeName(s.Type)
		}
		w.WriteString(" = ")
		w.expr(s.Value)
		w.WriteString(";")
	case *ast.Assignment:
		w.WriteString(s.Name)
		w.WriteString(" = ")
		w.expr(s.Value)
		w.WriteString(";")
	case *ast.ConstDecl:
		w.constDecl(s)
		w.WriteString(";")
	case *ast.ReturnStmt:
		w.WriteString("return")
		if s.Value != nil {
			w.WriteString(" ")
			w.expr(s.Value)
		}
		w.WriteString(";")
	case *ast.WhileStmt:
		w.WriteString("while (")
		w.expr(s.Cond)
		w.WriteString(") ")
		w.block(s.Body)
	case *ast.Declaration:
		w.declaration(s)
		w.WriteString(";")
	case *ast.StructDecl:
		w.structDecl(s)
	case *ast.NestedFunction:
		w.function(s.Decl)
	case *ast.CommentNode:
		w.WriteString(s.Text)
	default:
		fmt.Fprintf(w, "/* unknown statement %T */", s)
	}
}

func (w *writer) block(n *ast.Block) {
	w.WriteString("{")
	w.indent++
	for _, s := range n.Stmts {
		w.nl()
		w.statement(s)
	}
	if n.Tail != nil {
		w.nl()
		w.statement(n.Tail)
	}
	w.indent--
	if len(n.Stmts) > 0 || n.Tail != nil {
		w.nl()
	}
	w.WriteString("}")
}

func (w *writer) expr(e ast.Expression) {
	switch e := e.(type) {
	case *ast.Identifier:
		w.WriteString(e.Name)
	case *ast.IntegerLiteral:
		fmt.Fprintf(w, "%d", e.Value)
	case *ast.FloatLiteral:
		s := strconv.FormatFloat(e.Value, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		w.WriteString(s)
	case *ast.CharLiteral:
		fmt.Fprintf(w, "'%s'", escapeRune(e.Value))
	case *ast.StringLiteral:
		fmt.Fprintf(w, "%q", e.Value)
	case *ast.BooleanLiteral:
		if e.Value {
			w.WriteString("true")
		} else {
			w.WriteString("false")
		}
	case *ast.Paren:
		w.WriteString("(")
		w.expr(e.Inner)
		w.WriteString(")")
	case *ast.Prefix:
		if e.Op == ast.Negate {
			w.WriteString("-")
		} else {
			w.WriteString("!")
		}
		w.expr(e.Operand)
	case *ast.Binary:
		w.expr(e.Left)
		w.WriteString(" ")
		w.WriteString(e.Op.String())
		w.WriteString(" ")
		w.expr(e.Right)
	case *ast.Call:
		w.expr(e.Callee)
		w.WriteString("(")
		for i, a := range e.Args {
			if i > 0 {
				w.WriteString(", ")
			}
			w.expr(a)
		}
		w.WriteString(")")
	case *ast.Index:
		w.expr(e.Array)
		w.WriteString("[")
		w.expr(e.At)
		w.WriteString("]")
	case *ast.PropertyAccess:
		w.expr(e.Target)
		w.WriteString(".")
		w.WriteString(e.Property)
	case *ast.ArrayLiteral:
		w.WriteString("&[")
		for i, el := range e.Elements {
			if i > 0 {
				w.WriteString(", ")
			}
			w.expr(el)
		}
		w.WriteString("]")
	case *ast.ArrayDefault:
		w.WriteString("&[")
		w.expr(e.Init)
		w.WriteString("; ")
		w.expr(e.Len)
		w.WriteString("]")
	case *ast.Block:
		w.block(e)
	case *ast.If:
		w.WriteString("if (")
		w.expr(e.Cond)
		w.WriteString(") ")
		w.block(e.Then)
		if e.Else != nil {
			w.WriteString(" else ")
			w.block(e.Else)
		}
	case *ast.Lambda:
		w.WriteString("\\(")
		for i, p := range e.Params {
			if i > 0 {
				w.WriteString(", ")
			}
			w.param(p)
		}
		w.WriteString(") => ")
		w.expr(e.Body)
	case *ast.StructInit:
		w.WriteString(e.StructName)
		w.WriteString(" { ")
		for i, f := range e.Fields {
			if i > 0 {
				w.WriteString(", ")
			}
			w.WriteString(f.Name)
			w.WriteString(": ")
			w.expr(f.Value)
		}
		w.WriteString(" }")
	case *ast.FunctionExpr:
		w.function(e.Decl)
	default:
		fmt.Fprintf(w, "/* unknown expression %T */", e)
	}
}

func (w *writer) typeName(n ast.TypeNameNode) {
	switch n := n.(type) {
	case *ast.LiteralType:
		w.WriteString(n.Name)
	case *ast.FunctionType:
		w.WriteString("(")
		for i, p := range n.Params {
			if i > 0 {
				w.WriteString(", ")
			}
			w.typeName(p)
		}
		w.WriteString(") -> ")
		w.typeName(n.Return)
	case *ast.TupleType:
		w.WriteString("(")
		for i, e := range n.Elements {
			if i > 0 {
				w.WriteString(", ")
			}
			w.typeName(e)
		}
		w.WriteString(")")
	case *ast.ArrayType:
		w.WriteString("&[")
		w.typeName(n.Element)
		w.WriteString("]")
	case *ast.ReferenceType:
		w.WriteString("&")
		w.typeName(n.Referent)
	default:
		fmt.Fprintf(w, "/* unknown type %T */", n)
	}
}

func escapeRune(r rune) string {
	switch r {
	case '\n':
		return `\n`
	case '\t':
		return `\t`
	case '\r':
		return `\r`
	case '\\':
		return `\\`
	case '\'':
		return `\'`
	default:
		return string(r)
	}
}
