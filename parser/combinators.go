// Package parser turns a token sequence into the untyped abstract tree
// (spec.md §4.2).
//
// The cursor is grounded on the teacher's parse/parse.go tree type: a
// token-lookahead buffer with next/backup/peek, plus a panic/recover-based
// error signal (parse/parse.go's errorf/recover, itself modeled on
// text/template). Every grammar ambiguity this language actually has
// (struct-init vs. bare identifier, array literal vs. array default)
// resolves with one token of lookahead, so this file keeps only the two
// combinators real productions use, repeat-until and delimited-list,
// generalizing the ad-hoc save/restore the teacher does inline in functions
// like itemList and beginTag's lookahead. A general sequence/alternation/
// optional/repetition algebra with transactional cursor rollback was tried
// first and dropped: nothing in the grammar needs to try a branch, fail, and
// roll back, so that machinery (and the p.secondary losing-branch channel
// only alternation wrote to) never ran and was never exercised by a real
// production.
package parser

import (
	"github.com/whylang/wyc/token"
)

// cursor is a read-only view over a token slice with arbitrary lookahead,
// matching the teacher's t.token[2]/t.peekCount lookahead buffer generalized
// to an explicit integer index plus peekAt, since this grammar's ambiguities
// resolve by looking further ahead rather than by speculatively consuming
// and backing up.
type cursor struct {
	toks []token.Token
	pos  int
}

func (c *cursor) peek() token.Token { return c.toks[c.pos] }

func (c *cursor) peekAt(offset int) token.Token {
	i := c.pos + offset
	if i >= len(c.toks) {
		return c.toks[len(c.toks)-1] // EOF
	}
	return c.toks[i]
}

func (c *cursor) next() token.Token {
	t := c.toks[c.pos]
	if t.Kind != token.EOF {
		c.pos++
	}
	return t
}

func (c *cursor) at(k token.Kind) bool { return c.peek().Kind == k }

// repeatUntil runs step until stop matches the next token (not consumed) or
// the token stream is exhausted.
func repeatUntil[T any](p *parser, stop token.Kind, step func(*parser) (T, bool)) []T {
	var out []T
	for !p.cur.at(stop) && !p.cur.at(token.EOF) {
		v, ok := step(p)
		if !ok {
			return out
		}
		out = append(out, v)
	}
	return out
}

// delimitedList parses a (possibly empty) list of T separated by sep and
// terminated by close (close is not consumed).
func delimitedList[T any](p *parser, sep, close token.Kind, elem func(*parser) (T, bool)) ([]T, bool) {
	var out []T
	if p.cur.at(close) {
		return out, true
	}
	for {
		v, ok := elem(p)
		if !ok {
			return nil, false
		}
		out = append(out, v)
		if !p.cur.at(sep) {
			break
		}
		p.cur.next()
	}
	return out, true
}
