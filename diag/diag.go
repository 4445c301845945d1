// Package diag defines the stable diagnostic vocabulary produced by every
// pipeline stage (spec.md §7): lexing, parsing, checking and validation all
// report through the same Kind enumeration and Diagnostic shape, so a host
// (editor, CLI) can switch on Kind without caring which pass raised it.
//
// Grounded on errortypes/filepos.go's ErrFilePos: that type extends error
// with File/Line/Col accessors and a Cause-unwrapping root-cause walk so a
// wrapped error can still be recognised as file-positioned. Diagnostic plays
// the same role here, generalized to a full Span (spec.md requires a
// {line, column-range, source-handle} span, not a bare line/col pair) and to
// a closed Kind enum instead of an open interface, since spec.md §7 commits
// to a fixed, stable set of kinds rather than an extensible one.
package diag

import (
	"fmt"

	"github.com/whylang/wyc/token"
)

// Kind is one of the stable diagnostic kinds from spec.md §7.
type Kind int

const (
	// Lexing
	UnrecognisedByte Kind = iota

	// Parsing
	ParseError

	// Checking
	TypeMismatch
	UndefinedVariable
	UndefinedType
	MissingInitialisationType
	InvalidConstantType
	RedefinedConstant
	RedefinedFunction
	RedefinedMethod
	ImmutableReassign
	MissingMainFunction
	InvalidMainSignature
	UnsupportedBinaryOperation

	// Validation
	TypeValidationError
)

var kindNames = map[Kind]string{
	UnrecognisedByte:           "unrecognised-byte",
	ParseError:                 "parse-error",
	TypeMismatch:               "type-mismatch",
	UndefinedVariable:          "undefined-variable",
	UndefinedType:              "undefined-type",
	MissingInitialisationType:  "missing-initialisation-type",
	InvalidConstantType:        "invalid-constant-type",
	RedefinedConstant:          "redefined-constant",
	RedefinedFunction:          "redefined-function",
	RedefinedMethod:            "redefined-method",
	ImmutableReassign:          "immutable-reassign",
	MissingMainFunction:        "missing-main-function",
	InvalidMainSignature:       "invalid-main-signature",
	UnsupportedBinaryOperation: "unsupported-binary-operation",
	TypeValidationError:        "type-validation-error",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Diagnostic is a single located error or warning. Every pass appends to a
// shared []Diagnostic rather than stopping at the first problem, matching
// the recover-and-continue posture the parser already takes (spec.md §9:
// "report everything reachable rather than only the first failure").
type Diagnostic struct {
	Kind    Kind
	Message string
	Span    token.Span
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s: %s", d.Span, d.Kind, d.Message)
}

func New(kind Kind, span token.Span, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Span: span}
}

// Bag accumulates diagnostics across a pass. A zero Bag is ready to use.
type Bag struct {
	items []Diagnostic
}

func (b *Bag) Add(kind Kind, span token.Span, format string, args ...any) {
	b.items = append(b.items, New(kind, span, format, args...))
}

func (b *Bag) Append(d Diagnostic) { b.items = append(b.items, d) }

func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) HasErrors() bool { return len(b.items) > 0 }
