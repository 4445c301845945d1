package parser

import (
	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/token"
)

func (p *parser) block() (*ast.Block, bool) {
	start, ok := p.expect(token.LBrace, "block")
	if !ok {
		return nil, false
	}
	b := &ast.Block{}
	for !p.cur.at(token.RBrace) && !p.cur.at(token.EOF) {
		if p.cur.at(token.Comment) {
			tok := p.cur.next()
			b.Stmts = append(b.Stmts, &ast.CommentNode{Text: tok.Text, Sp: tok.Span})
			continue
		}
		stmt, isTail, ok := p.statement()
		if !ok {
			p.recoverStatement()
			continue
		}
		if isTail {
			b.Tail = stmt.(*ast.YieldExpr)
			break
		}
		b.Stmts = append(b.Stmts, stmt)
	}
	end, ok := p.expect(token.RBrace, "block")
	if !ok {
		return nil, false
	}
	b.Sp = token.Join(start.Span, end.Span)
	return b, true
}

// recoverStatement mirrors recoverTopLevel but for statement lists: skip to
// the next `;` or `}` so one malformed statement doesn't sink the block.
func (p *parser) recoverStatement() {
	tok := p.cur.peek()
	p.fail(tok.Span, "unexpected %s in statement", tok.Kind)
	for !p.cur.at(token.EOF) && !p.cur.at(token.RBrace) {
		if p.cur.at(token.Semicolon) {
			p.cur.next()
			return
		}
		p.cur.next()
	}
}

// statement parses one block-level statement. The third return reports
// whether it is a yielding tail expression (no semicolon): spec.md §3 — "the
// final yielding expression" ends a block with no terminator, so the parser
// must distinguish "expression with a trailing `;`" (ExprStmt) from "the
// last expression, no `;`" (YieldExpr) by whether a semicolon follows.
func (p *parser) statement() (ast.Statement, bool, bool) {
	switch p.cur.peek().Kind {
	case token.Let:
		s, ok := p.initialisation()
		return s, false, ok
	case token.Const:
		s, ok := p.constDecl(false)
		return s, false, ok
	case token.Return:
		s, ok := p.returnStmt()
		return s, false, ok
	case token.While:
		s, ok := p.whileStmt()
		return s, false, ok
	case token.Declare:
		s, ok := p.declaration()
		return s, false, ok
	case token.Struct:
		s, ok := p.structDecl()
		return s, false, ok
	case token.Fn:
		start := p.cur.peek().Span
		decl, ok := p.functionDecl()
		if !ok {
			return nil, false, false
		}
		return &ast.NestedFunction{Decl: decl, Sp: token.Join(start, decl.Sp)}, false, true
	default:
		return p.exprOrAssignment()
	}
}

func (p *parser) initialisation() (*ast.Initialisation, bool) {
	start, _ := p.expect(token.Let, "let")
	mutable := false
	if p.cur.at(token.Mut) {
		p.cur.next()
		mutable = true
	}
	name, ok := p.expect(token.Ident, "let name")
	if !ok {
		return nil, false
	}
	var typ ast.TypeNameNode
	if p.cur.at(token.Colon) {
		p.cur.next()
		typ, ok = p.typeName()
		if !ok {
			return nil, false
		}
	}
	if _, ok := p.expect(token.Assign, "let"); !ok {
		return nil, false
	}
	value, ok := p.expr(0)
	if !ok {
		return nil, false
	}
	semi, ok := p.expect(token.Semicolon, "let")
	if !ok {
		return nil, false
	}
	return &ast.Initialisation{
		Name: name.Text, Mutable: mutable, Type: typ, Value: value,
		Sp: token.Join(start.Span, semi.Span),
	}, true
}

func (p *parser) returnStmt() (*ast.ReturnStmt, bool) {
	start, _ := p.expect(token.Return, "return")
	if p.cur.at(token.Semicolon) {
		semi := p.cur.next()
		return &ast.ReturnStmt{Sp: token.Join(start.Span, semi.Span)}, true
	}
	value, ok := p.expr(0)
	if !ok {
		return nil, false
	}
	semi, ok := p.expect(token.Semicolon, "return")
	if !ok {
		return nil, false
	}
	return &ast.ReturnStmt{Value: value, Sp: token.Join(start.Span, semi.Span)}, true
}

func (p *parser) whileStmt() (*ast.WhileStmt, bool) {
	start, _ := p.expect(token.While, "while")
	if _, ok := p.expect(token.LParen, "while condition"); !ok {
		return nil, false
	}
	cond, ok := p.expr(0)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.RParen, "while condition"); !ok {
		return nil, false
	}
	body, ok := p.block()
	if !ok {
		return nil, false
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Sp: token.Join(start.Span, body.Sp)}, true
}

// exprOrAssignment parses either `name = value;` or a general expression,
// which is then either an ExprStmt (`;` follows) or a YieldExpr (tail,
// terminates the enclosing block).
func (p *parser) exprOrAssignment() (ast.Statement, bool, bool) {
	if p.cur.at(token.Ident) && p.cur.peekAt(1).Kind == token.Assign {
		name := p.cur.next()
		p.cur.next() // '='
		value, ok := p.expr(0)
		if !ok {
			return nil, false, false
		}
		semi, ok := p.expect(token.Semicolon, "assignment")
		if !ok {
			return nil, false, false
		}
		return &ast.Assignment{Name: name.Text, Value: value, Sp: token.Join(name.Span, semi.Span)}, false, true
	}
	e, ok := p.expr(0)
	if !ok {
		return nil, false, false
	}
	if p.cur.at(token.Semicolon) {
		semi := p.cur.next()
		return &ast.ExprStmt{Expr: e, Sp: token.Join(e.Span(), semi.Span)}, false, true
	}
	return &ast.YieldExpr{Expr: e, Sp: e.Span()}, true, true
}
