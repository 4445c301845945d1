package editorutil

import (
	"testing"

	"github.com/whylang/wyc/token"
)

func TestUTF16ColumnASCII(t *testing.T) {
	col, err := UTF16Column("let x = 1;", 5)
	if err != nil {
		t.Fatalf("UTF16Column: %v", err)
	}
	if col != 4 {
		t.Fatalf("UTF16Column = %d; want 4", col)
	}
}

func TestUTF16ColumnSurrogatePair(t *testing.T) {
	// U+1F600 (grinning face) needs a surrogate pair: two UTF-16 units for
	// one rune. A column just past it should count both units.
	line := "😀x"
	col, err := UTF16Column(line, 3)
	if err != nil {
		t.Fatalf("UTF16Column: %v", err)
	}
	if col != 3 {
		t.Fatalf("UTF16Column = %d; want 3 (2 surrogate units + 1)", col)
	}
}

func TestRemap(t *testing.T) {
	pos, err := Remap(token.Pos{Line: 1, Column: 5}, "let x = 1;")
	if err != nil {
		t.Fatalf("Remap: %v", err)
	}
	if pos.Line != 0 || pos.Column != 4 {
		t.Fatalf("Remap = %+v; want {0 4}", pos)
	}
}
