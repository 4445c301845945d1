// Package editorutil remaps the checker's rune-counted source positions to
// the zero-based, UTF-16-code-unit positions most editor protocols (LSP
// among them) expect, the external collaborator spec.md §3/§6 names without
// specifying an encoding.
//
// token.Pos.Column counts runes, one-based, matching how the lexer advances
// its own column counter one rune at a time. A source line containing
// characters outside the Basic Multilingual Plane's non-surrogate range (or,
// less dramatically, any codepoint above U+FFFF) needs more UTF-16 code
// units than runes, so a naive rune-column cannot be handed to an editor
// directly.
package editorutil

import (
	"fmt"

	"github.com/whylang/wyc/token"
	"golang.org/x/text/encoding/unicode"
)

var utf16Encoder = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()

// UTF16Column converts a one-based, rune-counted column on the given source
// line into a zero-based UTF-16 code-unit column, by encoding the runes
// before that column and counting the resulting 16-bit units.
func UTF16Column(line string, runeColumn int) (int, error) {
	if runeColumn < 1 {
		return 0, fmt.Errorf("editorutil: column %d is not one-based", runeColumn)
	}
	runes := []rune(line)
	n := runeColumn - 1
	if n > len(runes) {
		n = len(runes)
	}
	encoded, err := utf16Encoder.String(string(runes[:n]))
	if err != nil {
		return 0, fmt.Errorf("editorutil: encoding to utf-16: %w", err)
	}
	return len(encoded) / 2, nil
}

// Position is a zero-based {line, UTF-16 column} pair, the shape LSP-style
// editor protocols expect.
type Position struct {
	Line   int
	Column int
}

// Remap converts a one-based token.Pos into a zero-based editor Position,
// given the exact text of p's line.
func Remap(p token.Pos, line string) (Position, error) {
	col, err := UTF16Column(line, p.Column)
	if err != nil {
		return Position{}, err
	}
	return Position{Line: p.Line - 1, Column: col}, nil
}
