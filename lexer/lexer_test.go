package lexer

import (
	"strings"
	"testing"

	"github.com/andreyvit/diff"

	"github.com/whylang/wyc/token"
)

type lexTest struct {
	name  string
	input string
	kinds []token.Kind
}

var lexTests = []lexTest{
	{"empty", "", []token.Kind{token.EOF}},
	{"whitespace", " \t\n\r", []token.Kind{token.EOF}},
	{"ident", "foobar", []token.Kind{token.Ident, token.EOF}},
	{"keywords", "let mut const fn if else while return declare struct instance this",
		[]token.Kind{token.Let, token.Mut, token.Const, token.Fn, token.If, token.Else,
			token.While, token.Return, token.Declare, token.Struct, token.Instance, token.This, token.EOF}},
	{"integer", "42", []token.Kind{token.Integer, token.EOF}},
	{"float", "3.14", []token.Kind{token.Float, token.EOF}},
	{"bool", "true false", []token.Kind{token.True, token.False, token.EOF}},
	{"string", `"hi\n"`, []token.Kind{token.String, token.EOF}},
	{"char", `'a'`, []token.Kind{token.Char, token.EOF}},
	{"comment", "// hello\nlet", []token.Kind{token.Comment, token.Let, token.EOF}},
	{"operator disambiguation", "< <= = == - -> = =>",
		[]token.Kind{token.Lt, token.Le, token.Assign, token.Eq, token.Minus, token.Arrow,
			token.Assign, token.FatArrow, token.EOF}},
	{"array literal prefix", "&[1, 2]", []token.Kind{token.Amp, token.LBracket, token.Integer,
		token.Comma, token.Integer, token.RBracket, token.EOF}},
	{"lambda arrow", `\(x) => x`, []token.Kind{token.Backslash, token.LParen, token.Ident,
		token.RParen, token.FatArrow, token.Ident, token.EOF}},
}

func TestLex(t *testing.T) {
	for _, test := range lexTests {
		t.Run(test.name, func(t *testing.T) {
			toks, err := Run(token.NewSource(test.name), test.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(toks) != len(test.kinds) {
				t.Fatalf("%s: got %d tokens, want %d (%v)", test.name, len(toks), len(test.kinds), toks)
			}
			for i, want := range test.kinds {
				if toks[i].Kind != want {
					t.Errorf("%s: token %d: got %s, want %s", test.name, i, toks[i].Kind, want)
				}
			}
		})
	}
}

// TestSpanRoundtrip checks spec.md §8's invariant: for every token t emitted
// over input s, s[t.span] is the textual form that produced t.
func TestSpanRoundtrip(t *testing.T) {
	src := "let mut x: i64 = 42 + foo;\nreturn x;"
	toks, err := Run(token.NewSource("roundtrip"), src)
	if err != nil {
		t.Fatal(err)
	}
	lines := splitLines(src)
	for _, tok := range toks {
		if tok.Kind == token.EOF {
			continue
		}
		got := sliceSpan(lines, tok.Span)
		if got != tok.Text {
			t.Errorf("token %v: span covers %q, want %q", tok, got, tok.Text)
		}
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	lines = append(lines, s[start:])
	return lines
}

func sliceSpan(lines []string, sp token.Span) string {
	if sp.Start.Line != sp.End.Line {
		return "" // not exercised by single-line tokens in this test
	}
	line := lines[sp.Start.Line-1]
	runes := []rune(line)
	if sp.Start.Column-1 > len(runes) || sp.End.Column-1 > len(runes) {
		return ""
	}
	return string(runes[sp.Start.Column-1 : sp.End.Column-1])
}

// TestGoldenKindDump renders the token-kind stream for a small program as
// one kind per line and diffs it against a golden dump, the same
// line-oriented comparison exec_test.go runs over rendered JS.
func TestGoldenKindDump(t *testing.T) {
	const src = "fn main(): i64 {\n    return 0;\n}\n"
	const want = `fn
identifier
(
)
:
identifier
{
return
integer
;
}
eof
`
	toks, err := Run(token.NewSource("golden"), src)
	if err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	for _, tok := range toks {
		b.WriteString(tok.Kind.String())
		b.WriteByte('\n')
	}
	if got := b.String(); got != want {
		t.Errorf("token kind dump mismatch:\n%s", diff.LineDiff(want, got))
	}
}

func TestUnrecognisedByte(t *testing.T) {
	_, err := Run(token.NewSource("bad"), "let x = @;")
	if err == nil {
		t.Fatal("expected an error")
	}
	var ub *UnrecognisedByte
	if _, ok := any(err).(*UnrecognisedByte); !ok {
		t.Fatalf("expected *UnrecognisedByte, got %T", err)
	}
	ub = err.(*UnrecognisedByte)
	if ub.Byte != '@' {
		t.Errorf("got byte %q, want '@'", ub.Byte)
	}
}
