// Command wyrepl is a read-eval-print loop that type-checks one "why"
// expression at a time and prints its resolved type, an editor-adjacent
// convenience exercising the same lex/parse/check pipeline as wyc.Diagnose
// on small inputs. Grounded on go-mix/repl/repl.go's readline-driven loop
// shape (colored banner, history, graceful EOF handling) retargeted from
// "evaluate and print a value" to "check and print a type," since the core
// has no interpreter (spec.md §1 excludes any interpretation back end).
package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/whylang/wyc"
	"github.com/whylang/wyc/parser"
	"github.com/whylang/wyc/token"
	"github.com/whylang/wyc/typecheck"
	"github.com/whylang/wyc/validate"
)

var (
	promptColor = color.New(color.FgCyan)
	typeColor   = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
)

const banner = `wyrepl %s — type an expression, ".exit" to quit`

func main() {
	rl, err := readline.New("why> ")
	if err != nil {
		panic(err)
	}
	defer rl.Close()

	promptColor.Println(fmt.Sprintf(banner, wyc.Version().Short()))
	run(rl, rl.Stdout())
}

func run(rl *readline.Instance, out io.Writer) {
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on Ctrl-D, readline.ErrInterrupt on Ctrl-C
			fmt.Fprintln(out, "bye")
			return
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == ".exit" {
			fmt.Fprintln(out, "bye")
			return
		}
		rl.SaveHistory(line)
		evalOne(out, line)
	}
}

func evalOne(out io.Writer, line string) {
	defer func() {
		if r := recover(); r != nil {
			errorColor.Fprintf(out, "internal error: %v\n", r)
		}
	}()

	src := token.NewSource("<repl>")
	expr, perrs := parser.ParseExpr(src, line)
	if len(perrs) != 0 {
		for _, e := range perrs {
			errorColor.Fprintf(out, "parse error: %s\n", e.Error())
		}
		return
	}

	typed, arena, diags := typecheck.CheckExpr(expr)
	if len(diags) != 0 {
		for _, d := range diags {
			errorColor.Fprintf(out, "%s: %s\n", d.Kind, d.Message)
		}
		return
	}

	if vdiags := validate.Validate(typed, arena); len(vdiags) != 0 {
		for _, d := range vdiags {
			errorColor.Fprintf(out, "%s: %s\n", d.Kind, d.Message)
		}
		return
	}

	typeColor.Fprintf(out, ": %s\n", validate.Resolve(arena, typed))
}
