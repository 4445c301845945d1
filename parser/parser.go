package parser

import (
	"fmt"

	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/lexer"
	"github.com/whylang/wyc/token"
)

// ParseError is the parser's single error kind: a free-form message located
// at the offending token, or nil-spanned if recovery had to give up without
// a good position (spec.md §7: "parse-error, single kind with a free-form
// message").
type ParseError struct {
	Message string
	Span    *token.Span
}

func (e ParseError) Error() string {
	if e.Span != nil {
		return fmt.Sprintf("%s: %s", e.Span, e.Message)
	}
	return e.Message
}

type parser struct {
	cur    cursor
	errors []ParseError
}

// Parse lexes and parses text into a Program, returning any accumulated
// errors. The result may be a partial Program (best-effort recovery) even
// when errors is non-empty, mirroring the teacher's recover-and-continue
// design (parse/parse.go) generalized from "recover the whole file" to
// "recover at the next top-level/statement boundary" per spec.md §4.2.
func Parse(src token.Source, text string) (*ast.Program, []ParseError) {
	toks, lexErr := lexer.Run(src, text)
	if lexErr != nil {
		sp := lexErr.(*lexer.UnrecognisedByte).Span
		return nil, []ParseError{{Message: lexErr.Error(), Span: &sp}}
	}
	p := &parser{cur: cursor{toks: toks}}
	prog := &ast.Program{}
	for !p.cur.at(token.EOF) {
		if p.cur.at(token.Comment) {
			tok := p.cur.next()
			prog.Items = append(prog.Items, &ast.CommentNode{Text: tok.Text, Sp: tok.Span})
			continue
		}
		item, ok := p.topLevelItem()
		if !ok {
			p.recoverTopLevel()
			continue
		}
		prog.Items = append(prog.Items, item)
	}
	return prog, p.errors
}

// ParseExpr parses a single standalone expression, used by the REPL
// (cmd/wyrepl).
func ParseExpr(src token.Source, text string) (ast.Expression, []ParseError) {
	toks, lexErr := lexer.Run(src, text)
	if lexErr != nil {
		sp := lexErr.(*lexer.UnrecognisedByte).Span
		return nil, []ParseError{{Message: lexErr.Error(), Span: &sp}}
	}
	p := &parser{cur: cursor{toks: toks}}
	e, ok := p.expr(0)
	if !ok {
		p.fail(p.cur.peek().Span, "expected an expression")
		return nil, p.errors
	}
	return e, p.errors
}

func (p *parser) fail(span token.Span, format string, args ...any) {
	sp := span
	p.errors = append(p.errors, ParseError{Message: fmt.Sprintf(format, args...), Span: &sp})
}

// recoverTopLevel logs the error at the current position (spec.md §4.2:
// "top-level and statement entry points also log the error for later
// reporting even when a recovery path succeeds") and skips forward to the
// next token that plausibly begins a top-level item.
func (p *parser) recoverTopLevel() {
	tok := p.cur.peek()
	p.fail(tok.Span, "unexpected %s at top level", tok.Kind)
	for !p.cur.at(token.EOF) {
		switch p.cur.peek().Kind {
		case token.Fn, token.Const, token.Declare, token.Struct, token.Instance:
			return
		}
		p.cur.next()
	}
}

func (p *parser) expect(k token.Kind, context string) (token.Token, bool) {
	if !p.cur.at(k) {
		p.fail(p.cur.peek().Span, "expected %s in %s, found %s", k, context, p.cur.peek().Kind)
		return token.Token{}, false
	}
	return p.cur.next(), true
}

// ---- Top-level items ------------------------------------------------

func (p *parser) topLevelItem() (ast.TopLevel, bool) {
	switch p.cur.peek().Kind {
	case token.Fn:
		return p.functionDecl()
	case token.Const:
		return p.constDecl(true)
	case token.Declare:
		return p.declaration()
	case token.Struct:
		return p.structDecl()
	case token.Instance:
		return p.instanceBlock()
	default:
		return nil, false
	}
}

func (p *parser) functionDecl() (*ast.FunctionDecl, bool) {
	start, _ := p.expect(token.Fn, "function")
	name, ok := p.expect(token.Ident, "function name")
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.LParen, "function parameters"); !ok {
		return nil, false
	}
	params, ok := delimitedList(p, token.Comma, token.RParen, (*parser).param)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.RParen, "function parameters"); !ok {
		return nil, false
	}
	var ret ast.TypeNameNode
	if p.cur.at(token.Colon) {
		p.cur.next()
		ret, ok = p.typeName()
		if !ok {
			return nil, false
		}
	}
	body, ok := p.block()
	if !ok {
		return nil, false
	}
	return &ast.FunctionDecl{
		Name: name.Text, Params: params, ReturnType: ret, Body: body,
		Sp: token.Join(start.Span, body.Sp),
	}, true
}

// param parses `name: T`, or a bare `this` receiver parameter (no type: the
// receiver's type is implicit from the enclosing instance block).
func (p *parser) param() (ast.Param, bool) {
	if p.cur.at(token.This) {
		tok := p.cur.next()
		return ast.Param{Name: "this", Sp: tok.Span}, true
	}
	name, ok := p.expect(token.Ident, "parameter")
	if !ok {
		return ast.Param{}, false
	}
	if _, ok := p.expect(token.Colon, "parameter type"); !ok {
		return ast.Param{}, false
	}
	t, ok := p.typeName()
	if !ok {
		return ast.Param{}, false
	}
	return ast.Param{Name: name.Text, Type: t, Sp: token.Join(name.Span, t.Span())}, true
}

// constDecl parses `const name: T = value;`. The trailing `;` is required in
// both top-level and statement position; topLevel does not change what is
// accepted.
func (p *parser) constDecl(topLevel bool) (*ast.ConstDecl, bool) {
	start, _ := p.expect(token.Const, "const")
	name, ok := p.expect(token.Ident, "const name")
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
	if _, ok := p.expect(token.Assign, "const"); !ok {
		return nil, false
	}
	value, ok := p.expr(0)
	if !ok {
		return nil, false
	}
	semi, ok := p.expect(token.Semicolon, "const")
	if !ok {
		return nil, false
	}
	_ = topLevel
	return &ast.ConstDecl{Name: name.Text, Type: typ, Value: value, Sp: token.Join(start.Span, semi.Span)}, true
}

func (p *parser) declaration() (*ast.Declaration, bool) {
	start, _ := p.expect(token.Declare, "declare")
	name, ok := p.expect(token.Ident, "declare name")
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.Colon, "declare type"); !ok {
		return nil, false
	}
	typ, ok := p.typeName()
	if !ok {
		return nil, false
	}
	semi, ok := p.expect(token.Semicolon, "declare")
	if !ok {
		return nil, false
	}
	return &ast.Declaration{Name: name.Text, Type: typ, Sp: token.Join(start.Span, semi.Span)}, true
}

func (p *parser) structDecl() (*ast.StructDecl, bool) {
	start, _ := p.expect(token.Struct, "struct")
	name, ok := p.expect(token.Ident, "struct name")
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.LBrace, "struct body"); !ok {
		return nil, false
	}
	fields := repeatUntil(p, token.RBrace, (*parser).structField)
	end, ok := p.expect(token.RBrace, "struct body")
	if !ok {
		return nil, false
	}
	return &ast.StructDecl{Name: name.Text, Fields: fields, Sp: token.Join(start.Span, end.Span)}, true
}

func (p *parser) structField() (ast.StructField, bool) {
	name, ok := p.expect(token.Ident, "struct field")
	if !ok {
		return ast.StructField{}, false
	}
	if _, ok := p.expect(token.Colon, "struct field type"); !ok {
		return ast.StructField{}, false
	}
	typ, ok := p.typeName()
	if !ok {
		return ast.StructField{}, false
	}
	semi, ok := p.expect(token.Semicolon, "struct field")
	if !ok {
		return ast.StructField{}, false
	}
	return ast.StructField{Name: name.Text, Type: typ, Sp: token.Join(name.Span, semi.Span)}, true
}

func (p *parser) instanceBlock() (*ast.InstanceBlock, bool) {
	start, _ := p.expect(token.Instance, "instance")
	target, ok := p.typeName()
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.LBrace, "instance body"); !ok {
		return nil, false
	}
	block := &ast.InstanceBlock{TargetType: target}
	for !p.cur.at(token.RBrace) && !p.cur.at(token.EOF) {
		switch p.cur.peek().Kind {
		case token.Fn:
			m, ok := p.functionDecl()
			if !ok {
				return nil, false
			}
			block.Methods = append(block.Methods, m)
		case token.Declare:
			d, ok := p.declaration()
			if !ok {
				return nil, false
			}
			block.Externs = append(block.Externs, d)
		default:
			p.fail(p.cur.peek().Span, "expected method or declare in instance body, found %s", p.cur.peek().Kind)
			return nil, false
		}
	}
	end, ok := p.expect(token.RBrace, "instance body")
	if !ok {
		return nil, false
	}
	block.Sp = token.Join(start.Span, end.Span)
	return block, true
}

// ---- Type names -------------------------------------------------------

func (p *parser) typeName() (ast.TypeNameNode, bool) {
	switch p.cur.peek().Kind {
	case token.Amp:
		start := p.cur.next()
		if p.cur.at(token.LBracket) {
			p.cur.next()
			elem, ok := p.typeName()
			if !ok {
				return nil, false
			}
			end, ok := p.expect(token.RBracket, "array type")
			if !ok {
				return nil, false
			}
			return &ast.ArrayType{Element: elem, Sp: token.Join(start.Span, end.Span)}, true
		}
		referent, ok := p.typeName()
		if !ok {
			return nil, false
		}
		return &ast.ReferenceType{Referent: referent, Sp: token.Join(start.Span, referent.Span())}, true
	case token.LParen:
		start := p.cur.next()
		elems, ok := delimitedList(p, token.Comma, token.RParen, (*parser).typeName)
		if !ok {
			return nil, false
		}
		end, ok := p.expect(token.RParen, "type")
		if !ok {
			return nil, false
		}
		if p.cur.at(token.Arrow) {
			p.cur.next()
			ret, ok := p.typeName()
			if !ok {
				return nil, false
			}
			return &ast.FunctionType{Params: elems, Return: ret, Sp: token.Join(start.Span, ret.Span())}, true
		}
		return &ast.TupleType{Elements: elems, Sp: token.Join(start.Span, end.Span)}, true
	case token.Ident:
		id := p.cur.next()
		return &ast.LiteralType{Name: id.Text, Sp: id.Span}, true
	default:
		p.fail(p.cur.peek().Span, "expected a type, found %s", p.cur.peek().Kind)
		return nil, false
	}
}
