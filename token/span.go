// Package token defines the lexical tokens and source spans shared by the
// lexer, parser and type checker.
package token

import (
	"fmt"

	"github.com/google/uuid"
)

// Source identifies the buffer a span was carved out of. Two spans are only
// meaningfully comparable when they share a Source.
type Source struct {
	Name string    // e.g. the file path or editor URI
	id   uuid.UUID // stable handle, independent of Name (files can be renamed)
}

// NewSource allocates a fresh source handle for the given name.
func NewSource(name string) Source {
	return Source{Name: name, id: uuid.New()}
}

func (s Source) String() string { return s.Name }

// ID returns the stable handle for this source, usable as a map key even if
// two sources share a Name (e.g. two in-memory buffers for scratch input).
func (s Source) ID() uuid.UUID { return s.id }

// Pos is a one-based line/column position within a Source.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Less reports whether p sorts before o (line-major, then column).
func (p Pos) Less(o Pos) bool {
	if p.Line != o.Line {
		return p.Line < o.Line
	}
	return p.Column < o.Column
}

// Span is a contiguous source range: start inclusive, end exclusive, both
// one-based. It is attached to every token and every tree node.
//
// Span equality is structural, but by design it must never influence
// semantic tree-equality checks in tests: two trees that differ only in
// spans are considered equal (spec.md §3, §8). Callers that need that
// property should compare trees with a Span-ignoring comparer rather than
// relying on Span itself ignoring anything.
type Span struct {
	Source Source
	Start  Pos
	End    Pos
}

func (s Span) String() string {
	if s.Start.Line == s.End.Line {
		return fmt.Sprintf("%s:%d:%d-%d", s.Source, s.Start.Line, s.Start.Column, s.End.Column)
	}
	return fmt.Sprintf("%s:%s-%s", s.Source, s.Start, s.End)
}

// Join returns the smallest span covering both a and b. Both must share a
// Source; Join of a zero Span with b returns b, which lets callers fold
// spans over a slice starting from the zero value.
func Join(a, b Span) Span {
	if a == (Span{}) {
		return b
	}
	if b == (Span{}) {
		return a
	}
	start, end := a.Start, a.End
	if b.Start.Less(start) {
		start = b.Start
	}
	if end.Less(b.End) {
		end = b.End
	}
	return Span{Source: a.Source, Start: start, End: end}
}
