package parser

import (
	"unicode"

	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/token"
)

// expr parses an expression, absorbing binary operators whose precedence is
// at least minPrec. Built right-leaning (each recursive call reparses the
// rest at one precedence tighter than its own operator) then left-associated
// by the minPrec threshold itself — equivalent to the rotation spec.md §4.2
// describes, but produced directly rather than built loose and rotated
// after the fact, since precedence-climbing needs no separate balancing step
// to reach the same left-associative, precedence-respecting shape.
func (p *parser) expr(minPrec int) (ast.Expression, bool) {
	left, ok := p.unary()
	if !ok {
		return nil, false
	}
	for {
		op, prec, ok := p.peekBinaryOp()
		if !ok || prec < minPrec {
			return left, true
		}
		p.cur.next()
		right, ok := p.expr(prec + 1)
		if !ok {
			return nil, false
		}
		left = &ast.Binary{Op: op, Left: left, Right: right, Sp: token.Join(left.Span(), right.Span())}
	}
}

func (p *parser) peekBinaryOp() (ast.BinaryOp, int, bool) {
	var op ast.BinaryOp
	switch p.cur.peek().Kind {
	case token.Plus:
		op = ast.Add
	case token.Minus:
		op = ast.Sub
	case token.Star:
		op = ast.Mul
	case token.Slash:
		op = ast.Div
	case token.Eq:
		op = ast.CmpEq
	case token.NotEq:
		op = ast.CmpNotEq
	case token.Lt:
		op = ast.CmpLt
	case token.Gt:
		op = ast.CmpGt
	case token.Le:
		op = ast.CmpLe
	case token.Ge:
		op = ast.CmpGe
	default:
		return 0, 0, false
	}
	return op, op.Precedence(), true
}

// unary parses an optional prefix operator followed by a postfix chain.
func (p *parser) unary() (ast.Expression, bool) {
	switch p.cur.peek().Kind {
	case token.Minus:
		start := p.cur.next()
		operand, ok := p.unary()
		if !ok {
			return nil, false
		}
		return &ast.Prefix{Op: ast.Negate, Operand: operand, Sp: token.Join(start.Span, operand.Span())}, true
	case token.Bang:
		start := p.cur.next()
		operand, ok := p.unary()
		if !ok {
			return nil, false
		}
		return &ast.Prefix{Op: ast.Not, Operand: operand, Sp: token.Join(start.Span, operand.Span())}, true
	default:
		return p.postfix()
	}
}

// postfix parses a primary expression followed by any number of call, index,
// or property-access suffixes.
func (p *parser) postfix() (ast.Expression, bool) {
	e, ok := p.primary()
	if !ok {
		return nil, false
	}
	for {
		switch p.cur.peek().Kind {
		case token.LParen:
			p.cur.next()
			args, ok := delimitedList(p, token.Comma, token.RParen, (*parser).exprElem)
			if !ok {
				return nil, false
			}
			end, ok := p.expect(token.RParen, "call arguments")
			if !ok {
				return nil, false
			}
			e = &ast.Call{Callee: e, Args: args, Sp: token.Join(e.Span(), end.Span)}
		case token.LBracket:
			p.cur.next()
			at, ok := p.expr(0)
			if !ok {
				return nil, false
			}
			end, ok := p.expect(token.RBracket, "index")
			if !ok {
				return nil, false
			}
			e = &ast.Index{Array: e, At: at, Sp: token.Join(e.Span(), end.Span)}
		case token.Dot:
			p.cur.next()
			name, ok := p.expect(token.Ident, "property access")
			if !ok {
				return nil, false
			}
			e = &ast.PropertyAccess{Target: e, Property: name.Text, Sp: token.Join(e.Span(), name.Span)}
		default:
			return e, true
		}
	}
}

func (p *parser) exprElem() (ast.Expression, bool) { return p.expr(0) }

// primary dispatches on the leading token. Struct initialisation and a bare
// identifier share a leading Ident token; spec.md §4.2 resolves the
// ambiguity by lookahead: an identifier that starts with an uppercase letter
// and is immediately followed by `{` is a struct initialisation, everything
// else is a plain identifier reference (so a lowercase-led type can never be
// mistaken for one, and a block following a lowercase identifier is never
// swallowed as a struct body).
func (p *parser) primary() (ast.Expression, bool) {
	tok := p.cur.peek()
	switch tok.Kind {
	case token.Integer:
		p.cur.next()
		return &ast.IntegerLiteral{Value: tok.Decoded.(int64), Sp: tok.Span}, true
	case token.Float:
		p.cur.next()
		return &ast.FloatLiteral{Value: tok.Decoded.(float64), Sp: tok.Span}, true
	case token.Char:
		p.cur.next()
		return &ast.CharLiteral{Value: tok.Decoded.(rune), Sp: tok.Span}, true
	case token.String:
		p.cur.next()
		return &ast.StringLiteral{Value: tok.Decoded.(string), Sp: tok.Span}, true
	case token.True:
		p.cur.next()
		return &ast.BooleanLiteral{Value: true, Sp: tok.Span}, true
	case token.False:
		p.cur.next()
		return &ast.BooleanLiteral{Value: false, Sp: tok.Span}, true
	case token.Ident:
		if isStructInitLookahead(tok.Text, p.cur.peekAt(1).Kind) {
			return p.structInit()
		}
		p.cur.next()
		return &ast.Identifier{Name: tok.Text, Sp: tok.Span}, true
	case token.This:
		p.cur.next()
		return &ast.Identifier{Name: "this", Sp: tok.Span}, true
	case token.LParen:
		p.cur.next()
		inner, ok := p.expr(0)
		if !ok {
			return nil, false
		}
		end, ok := p.expect(token.RParen, "parenthesised expression")
		if !ok {
			return nil, false
		}
		return &ast.Paren{Inner: inner, Sp: token.Join(tok.Span, end.Span)}, true
	case token.LBrace:
		return p.block()
	case token.If:
		return p.ifExpr()
	case token.Backslash:
		return p.lambda()
	case token.Fn:
		start := tok.Span
		decl, ok := p.functionDecl()
		if !ok {
			return nil, false
		}
		return &ast.FunctionExpr{Decl: decl, Sp: token.Join(start, decl.Sp)}, true
	case token.Amp:
		return p.arrayExpr()
	default:
		p.fail(tok.Span, "expected an expression, found %s", tok.Kind)
		return nil, false
	}
}

func isStructInitLookahead(name string, next token.Kind) bool {
	if next != token.LBrace {
		return false
	}
	r := []rune(name)
	if len(r) == 0 {
		return false
	}
	return unicode.IsUpper(r[0])
}

func (p *parser) structInit() (*ast.StructInit, bool) {
	name := p.cur.next()
	p.cur.next() // '{'
	fields, ok := delimitedList(p, token.Comma, token.RBrace, (*parser).structInitField)
	if !ok {
		return nil, false
	}
	end, ok := p.expect(token.RBrace, "struct initialisation")
	if !ok {
		return nil, false
	}
	return &ast.StructInit{StructName: name.Text, Fields: fields, Sp: token.Join(name.Span, end.Span)}, true
}

func (p *parser) structInitField() (ast.StructInitField, bool) {
	name, ok := p.expect(token.Ident, "struct field name")
	if !ok {
		return ast.StructInitField{}, false
	}
	if _, ok := p.expect(token.Colon, "struct field value"); !ok {
		return ast.StructInitField{}, false
	}
	value, ok := p.expr(0)
	if !ok {
		return ast.StructInitField{}, false
	}
	return ast.StructInitField{Name: name.Text, Value: value, Sp: token.Join(name.Span, value.Span())}, true
}

func (p *parser) ifExpr() (*ast.If, bool) {
	start, _ := p.expect(token.If, "if")
	if _, ok := p.expect(token.LParen, "if condition"); !ok {
		return nil, false
	}
	cond, ok := p.expr(0)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.RParen, "if condition"); !ok {
		return nil, false
	}
	then, ok := p.block()
	if !ok {
		return nil, false
	}
	n := &ast.If{Cond: cond, Then: then, Sp: token.Join(start.Span, then.Sp)}
	if p.cur.at(token.Else) {
		p.cur.next()
		if p.cur.at(token.If) {
			elseif, ok := p.ifExpr()
			if !ok {
				return nil, false
			}
			n.Else = &ast.Block{Tail: &ast.YieldExpr{Expr: elseif, Sp: elseif.Sp}, Sp: elseif.Sp}
			n.Sp = token.Join(n.Sp, elseif.Sp)
			return n, true
		}
		elseBlock, ok := p.block()
		if !ok {
			return nil, false
		}
		n.Else = elseBlock
		n.Sp = token.Join(n.Sp, elseBlock.Sp)
	}
	return n, true
}

// lambda parses `\(p: T, ...) => body`.
func (p *parser) lambda() (*ast.Lambda, bool) {
	start, _ := p.expect(token.Backslash, "lambda")
	if _, ok := p.expect(token.LParen, "lambda parameters"); !ok {
		return nil, false
	}
	params, ok := delimitedList(p, token.Comma, token.RParen, (*parser).lambdaParam)
	if !ok {
		return nil, false
	}
	if _, ok := p.expect(token.RParen, "lambda parameters"); !ok {
		return nil, false
	}
	if _, ok := p.expect(token.FatArrow, "lambda"); !ok {
		return nil, false
	}
	body, ok := p.expr(0)
	if !ok {
		return nil, false
	}
	return &ast.Lambda{Params: params, Body: body, Sp: token.Join(start.Span, body.Span())}, true
}

// lambdaParam allows an optional type annotation: `x` or `x: T`.
func (p *parser) lambdaParam() (ast.Param, bool) {
	name, ok := p.expect(token.Ident, "lambda parameter")
	if !ok {
		return ast.Param{}, false
	}
	if p.cur.at(token.Colon) {
		p.cur.next()
		t, ok := p.typeName()
		if !ok {
			return ast.Param{}, false
		}
		return ast.Param{Name: name.Text, Type: t, Sp: token.Join(name.Span, t.Span())}, true
	}
	return ast.Param{Name: name.Text, Sp: name.Span}, true
}

// arrayExpr disambiguates `&[e, e, ...]` (ArrayLiteral) from `&[init; len]`
// (ArrayDefault) by looking for a `;` before the matching `]` (spec.md §4.2).
func (p *parser) arrayExpr() (ast.Expression, bool) {
	start, _ := p.expect(token.Amp, "array")
	if _, ok := p.expect(token.LBracket, "array"); !ok {
		return nil, false
	}
	if p.cur.at(token.RBracket) {
		end := p.cur.next()
		return &ast.ArrayLiteral{Sp: token.Join(start.Span, end.Span)}, true
	}
	first, ok := p.expr(0)
	if !ok {
		return nil, false
	}
	if p.cur.at(token.Semicolon) {
		p.cur.next()
		length, ok := p.expr(0)
		if !ok {
			return nil, false
		}
		end, ok := p.expect(token.RBracket, "array default")
		if !ok {
			return nil, false
		}
		return &ast.ArrayDefault{Init: first, Len: length, Sp: token.Join(start.Span, end.Span)}, true
	}
	elems := []ast.Expression{first}
	for p.cur.at(token.Comma) {
		p.cur.next()
		if p.cur.at(token.RBracket) {
			break
		}
		e, ok := p.expr(0)
		if !ok {
			return nil, false
		}
		elems = append(elems, e)
	}
	end, ok := p.expect(token.RBracket, "array literal")
	if !ok {
		return nil, false
	}
	return &ast.ArrayLiteral{Elements: elems, Sp: token.Join(start.Span, end.Span)}, true
}
