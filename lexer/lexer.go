// Package lexer turns "why" source text into a token sequence.
//
// The scanning loop is grounded on the teacher's parse/lexer.go state-function
// design (itself modeled on text/template's lexer): a stateFn advances the
// scanner and returns the next stateFn to run. Unlike the teacher, which
// streams items across a goroutine/channel boundary, Run accumulates the
// whole token sequence into a slice before returning — the core pipeline is
// required to be single-threaded and synchronous (spec.md §5), so there is
// no suspension point to hide behind a channel.
package lexer

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/whylang/wyc/token"
)

const eof = -1

// UnrecognisedByte is returned (wrapped in diag-free form here; the caller
// maps it to a diag.Diagnostic) when no matcher accepts the current byte.
type UnrecognisedByte struct {
	Span token.Span
	Byte byte
}

func (e *UnrecognisedByte) Error() string {
	return "unrecognised byte " + strconv.QuoteRune(rune(e.Byte)) + " at " + e.Span.String()
}

// stateFn represents the state of the lexer as a function that returns the
// next state, or nil when scanning is complete.
type stateFn func(*lexer) stateFn

type lexer struct {
	src    token.Source
	input  string
	pos    int // byte offset of the next rune to read
	start  int // byte offset where the current token began
	width  int // width of the last rune returned by next()
	line   int // one-based line of pos
	col    int // one-based column of pos (in runes, not bytes)
	startP token.Pos
	tokens []token.Token
	err    error
}

// Run scans input to completion and returns the token sequence (terminated
// by an explicit token.EOF) or the first UnrecognisedByte encountered.
func Run(src token.Source, input string) ([]token.Token, error) {
	l := &lexer{src: src, input: input, line: 1, col: 1}
	l.startP = l.startPos()
	for state := lexAny; state != nil && l.err == nil; {
		state = state(l)
	}
	if l.err != nil {
		return nil, l.err
	}
	l.emit(token.EOF)
	return l.tokens, nil
}

func (l *lexer) startPos() token.Pos { return token.Pos{Line: l.line, Column: l.col} }

func (l *lexer) next() rune {
	if l.pos >= len(l.input) {
		l.width = 0
		return eof
	}
	r, w := utf8.DecodeRuneInString(l.input[l.pos:])
	l.width = w
	l.pos += w
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) backup() {
	if l.width == 0 {
		return
	}
	l.pos -= l.width
	if l.input[l.pos] == '\n' {
		l.line--
		l.col = utf8.RuneCountInString(l.input[strings.LastIndexByte(l.input[:l.pos], '\n')+1:l.pos]) + 1
	} else {
		l.col--
	}
}

func (l *lexer) peek() rune {
	r := l.next()
	l.backup()
	return r
}

func (l *lexer) accept(valid string) bool {
	if strings.ContainsRune(valid, l.next()) {
		return true
	}
	l.backup()
	return false
}

func (l *lexer) acceptRun(valid string) {
	for strings.ContainsRune(valid, l.next()) {
	}
	l.backup()
}

func (l *lexer) acceptWhile(pred func(rune) bool) {
	for pred(l.peek()) {
		l.next()
	}
}

// emit appends a token spanning [start, pos) with the given decoded value.
func (l *lexer) emit(k token.Kind) {
	l.emitDecoded(k, nil)
}

func (l *lexer) emitDecoded(k token.Kind, decoded any) {
	span := token.Span{Source: l.src, Start: l.startP, End: l.startPos()}
	l.tokens = append(l.tokens, token.Token{Kind: k, Text: l.input[l.start:l.pos], Span: span, Decoded: decoded})
	l.start = l.pos
	l.startP = l.startPos()
}

func (l *lexer) ignore() {
	l.start = l.pos
	l.startP = l.startPos()
}

func (l *lexer) fail(err error) stateFn {
	l.err = err
	return nil
}

// lexAny is the top-level state: skip whitespace, then dispatch on the
// longest-matching candidate for the current prefix (spec.md §4.1).
func lexAny(l *lexer) stateFn {
	r := l.peek()
	switch {
	case r == eof:
		return nil
	case r == ' ' || r == '\t' || r == '\r' || r == '\n':
		l.next()
		l.ignore()
		return lexAny
	case strings.HasPrefix(l.input[l.pos:], "//"):
		return lexLineComment
	case r == '"':
		return lexString
	case r == '\'':
		return lexChar
	case unicode.IsDigit(r):
		return lexNumber
	case isIdentStart(r):
		return lexIdent
	default:
		return lexOperator
	}
}

func isIdentStart(r rune) bool { return r == '_' || unicode.IsLetter(r) }
func isIdentCont(r rune) bool  { return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) }

func lexLineComment(l *lexer) stateFn {
	for {
		r := l.peek()
		if r == '\n' || r == eof {
			break
		}
		l.next()
	}
	l.emit(token.Comment)
	return lexAny
}

func lexIdent(l *lexer) stateFn {
	l.acceptWhile(isIdentCont)
	text := l.input[l.start:l.pos]
	if kind, ok := token.Keywords[text]; ok {
		if kind == token.True {
			l.emitDecoded(token.True, true)
		} else if kind == token.False {
			l.emitDecoded(token.False, false)
		} else {
			l.emit(kind)
		}
		return lexAny
	}
	l.emit(token.Ident)
	return lexAny
}

func lexNumber(l *lexer) stateFn {
	const digits = "0123456789"
	l.acceptRun(digits)
	isFloat := false
	if l.accept(".") {
		if unicode.IsDigit(l.peek()) {
			isFloat = true
			l.acceptRun(digits)
		} else {
			l.width = 1 // peek overwrote width with the following rune's
			l.backup()  // lone '.', e.g. `1.field` is not meaningful here but don't eat the dot
		}
	}
	text := l.input[l.start:l.pos]
	if isFloat {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return l.fail(&UnrecognisedByte{Span: l.currentSpan(), Byte: l.input[l.start]})
		}
		l.emitDecoded(token.Float, f)
	} else {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return l.fail(&UnrecognisedByte{Span: l.currentSpan(), Byte: l.input[l.start]})
		}
		l.emitDecoded(token.Integer, n)
	}
	return lexAny
}

func (l *lexer) currentSpan() token.Span {
	return token.Span{Source: l.src, Start: l.startP, End: l.startPos()}
}

// escapes maps the character following a backslash to its decoded rune.
var escapes = map[rune]rune{
	'n': '\n', 't': '\t', 'r': '\r', '\\': '\\', '\'': '\'', '"': '"', '0': 0,
}

func lexString(l *lexer) stateFn {
	l.next() // opening quote
	var sb strings.Builder
	for {
		r := l.next()
		switch r {
		case eof, '\n':
			return l.fail(&UnrecognisedByte{Span: l.currentSpan(), Byte: '"'})
		case '"':
			l.emitDecoded(token.String, sb.String())
			return lexAny
		case '\\':
			esc, err := l.decodeEscape()
			if err != nil {
				return l.fail(err)
			}
			sb.WriteRune(esc)
		default:
			sb.WriteRune(r)
		}
	}
}

func lexChar(l *lexer) stateFn {
	l.next() // opening quote
	var value rune
	switch r := l.next(); r {
	case eof, '\n':
		return l.fail(&UnrecognisedByte{Span: l.currentSpan(), Byte: '\''})
	case '\\':
		esc, err := l.decodeEscape()
		if err != nil {
			return l.fail(err)
		}
		value = esc
	default:
		value = r
	}
	if l.peek() != '\'' {
		return l.fail(&UnrecognisedByte{Span: l.currentSpan(), Byte: '\''})
	}
	l.next()
	l.emitDecoded(token.Char, value)
	return lexAny
}

// decodeEscape decodes the escape sequence following a consumed backslash:
// \n \t \r \\ \' \" \0, plus \xNN hex escapes (spec.md SPEC_FULL §4).
func (l *lexer) decodeEscape() (rune, error) {
	r := l.next()
	if r == 'x' {
		const hex = "0123456789ABCDEFabcdef"
		start := l.pos
		for i := 0; i < 2 && strings.ContainsRune(hex, l.peek()); i++ {
			l.next()
		}
		n, err := strconv.ParseUint(l.input[start:l.pos], 16, 8)
		if err != nil {
			return 0, &UnrecognisedByte{Span: l.currentSpan(), Byte: 'x'}
		}
		return rune(n), nil
	}
	if decoded, ok := escapes[r]; ok {
		return decoded, nil
	}
	return 0, &UnrecognisedByte{Span: l.currentSpan(), Byte: byte(r)}
}

// twoCharOps is tried before oneCharOps, implementing
// longest-match disambiguation (spec.md §4.1: `<` vs `<=`, `=` vs `==`,
// `-` vs `->`, `=` vs `=>`).
var twoCharOps = map[string]token.Kind{
	"==": token.Eq, "!=": token.NotEq, "<=": token.Le, ">=": token.Ge,
	"->": token.Arrow, "=>": token.FatArrow,
}

var oneCharOps = map[rune]token.Kind{
	'(': token.LParen, ')': token.RParen, '{': token.LBrace, '}': token.RBrace,
	'[': token.LBracket, ']': token.RBracket, ',': token.Comma, ';': token.Semicolon,
	':': token.Colon, '.': token.Dot, '&': token.Amp, '\\': token.Backslash,
	'+': token.Plus, '-': token.Minus, '*': token.Star, '/': token.Slash,
	'!': token.Bang, '=': token.Assign, '<': token.Lt, '>': token.Gt,
}

func lexOperator(l *lexer) stateFn {
	r1 := l.next()
	if r2 := l.peek(); r2 != eof {
		if kind, ok := twoCharOps[string(r1)+string(r2)]; ok {
			l.next()
			l.emit(kind)
			return lexAny
		}
	}
	kind, ok := oneCharOps[r1]
	if !ok {
		return l.fail(&UnrecognisedByte{Span: l.currentSpan(), Byte: byte(r1)})
	}
	l.emit(kind)
	return lexAny
}
