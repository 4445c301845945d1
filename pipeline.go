package wyc

import (
	"github.com/whylang/wyc/diag"
	"github.com/whylang/wyc/internal/fmtbridge"
	"github.com/whylang/wyc/parser"
	"github.com/whylang/wyc/symbolindex"
	"github.com/whylang/wyc/tat"
	"github.com/whylang/wyc/token"
	"github.com/whylang/wyc/typecheck"
	"github.com/whylang/wyc/validate"
)

// Diagnose runs the full lex/parse/check/validate pipeline over text and
// returns every diagnostic it accumulates, stage by stage (parse errors,
// then checker diagnostics, then validation diagnostics) — the collaborator
// interface spec.md §6 names for editor integration: "diagnose(uri, text) ->
// [Diagnostic]: runs lex/parse/check/validate and returns the first fatal
// diagnostic plus any accumulated non-fatal diagnostics." Every stage still
// runs on whatever partial tree the previous stage recovered, so a single
// malformed statement never hides diagnostics from the rest of the file.
func Diagnose(uri, text string) []diag.Diagnostic {
	diags, _, _ := DiagnoseTree(uri, text)
	return diags
}

// DiagnoseTree is Diagnose plus the typed tree and arena it produced, for
// callers that need the tree along with its diagnostics rather than
// re-running the pipeline.
func DiagnoseTree(uri, text string) ([]diag.Diagnostic, *tat.Program, *tat.Arena) {
	src := token.NewSource(uri)
	prog, perrs := parser.Parse(src, text)

	var out []diag.Diagnostic
	for _, pe := range perrs {
		var sp token.Span
		if pe.Span != nil {
			sp = *pe.Span
		} else if prog != nil {
			sp = prog.Span()
		}
		out = append(out, diag.New(diag.ParseError, sp, "%s", pe.Message))
	}
	if prog == nil {
		return out, nil, nil
	}

	tprog, arena, cerrs := typecheck.Check(prog)
	out = append(out, cerrs...)

	verrs := validate.Validate(tprog, arena)
	out = append(out, verrs...)

	return out, tprog, arena
}

// Format delegates to the internal formatter when text parses cleanly,
// otherwise it returns text unchanged (spec.md §6: "format(text) -> text —
// delegates to the external formatter when parsing succeeds; on failure,
// returns the original text").
func Format(text string) string {
	prog, errs := parser.Parse(token.NewSource("<format>"), text)
	if len(errs) != 0 || prog == nil {
		return text
	}
	return fmtbridge.Program(prog)
}

// Symbols enumerates the top-level definitions in prog (functions, structs,
// constants, declare signatures and instance methods), for "go to
// definition" support (spec.md §6). References to those names, and
// definitions nested inside bodies, are not collected. It both returns the
// collected symbols and persists them into index for lookup across a
// restart; index may be nil to skip persistence.
func Symbols(uri string, prog *tat.Program, index *symbolindex.Store) ([]symbolindex.Symbol, error) {
	if index != nil {
		if err := index.Index(uri, prog); err != nil {
			return nil, err
		}
	}
	return collectSymbols(uri, prog), nil
}

func collectSymbols(uri string, prog *tat.Program) []symbolindex.Symbol {
	var out []symbolindex.Symbol
	for _, item := range prog.Items {
		switch n := item.(type) {
		case *tat.FunctionDecl:
			out = append(out, symbol(uri, n.Name, symbolindex.Function, n.Span()))
		case *tat.StructDecl:
			out = append(out, symbol(uri, n.Name, symbolindex.Struct, n.Span()))
		case *tat.ConstDecl:
			out = append(out, symbol(uri, n.Name, symbolindex.Const, n.Span()))
		case *tat.Declaration:
			out = append(out, symbol(uri, n.Name, symbolindex.Const, n.Span()))
		case *tat.InstanceBlock:
			for _, m := range n.Methods {
				out = append(out, symbol(uri, m.Name, symbolindex.Method, m.Span()))
			}
		}
	}
	return out
}

func symbol(uri, name string, kind symbolindex.Kind, span token.Span) symbolindex.Symbol {
	return symbolindex.Symbol{Name: name, Kind: kind, URI: uri, Line: span.Start.Line, Column: span.Start.Column}
}
