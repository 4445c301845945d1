// Package symbolindex persists the definitions spec.md §6's
// `symbols(uri, TAT) -> [SymbolRef]` collaborator collects, so an editor
// integration can answer "go to definition" across a restart without
// re-parsing every open file.
//
// Grounded on internal/stores/sqlite/store.go's Open/Close shape
// (sql.Open("sqlite", path), schema applied once, *sql.DB wrapped in a
// Store), using modernc.org/sqlite's pure-Go driver so the editor
// integration needs no cgo toolchain.
package symbolindex

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/whylang/wyc/tat"
	"github.com/whylang/wyc/token"
)

// Kind identifies what a Symbol names.
type Kind string

const (
	Function Kind = "function"
	Struct   Kind = "struct"
	Method   Kind = "method"
	Const    Kind = "const"
)

// Symbol is one definition collected from a typed tree: a name, what it
// names, the source it came from, and its location.
type Symbol struct {
	Name   string
	Kind   Kind
	URI    string
	Line   int
	Column int
}

const schema = `
CREATE TABLE IF NOT EXISTS symbols (
	uri    TEXT NOT NULL,
	name   TEXT NOT NULL,
	kind   TEXT NOT NULL,
	line   INTEGER NOT NULL,
	column INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS symbols_name_idx ON symbols(name);
CREATE INDEX IF NOT EXISTS symbols_uri_idx ON symbols(uri);
`

// Store is a sqlite-backed symbol index. The zero value is not usable; call
// Open.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures its schema exists. Callers must Close the returned Store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("symbolindex: open %q: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("symbolindex: schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// Index replaces every symbol previously recorded for uri with the
// definitions collected from prog: every top-level function, struct,
// const, declare signature, and instance method.
func (s *Store) Index(uri string, prog *tat.Program) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("symbolindex: begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM symbols WHERE uri = ?`, uri); err != nil {
		return fmt.Errorf("symbolindex: clearing %q: %w", uri, err)
	}

	insert := func(sym Symbol) error {
		_, err := tx.Exec(
			`INSERT INTO symbols (uri, name, kind, line, column) VALUES (?, ?, ?, ?, ?)`,
			sym.URI, sym.Name, string(sym.Kind), sym.Line, sym.Column,
		)
		return err
	}

	for _, item := range prog.Items {
		switch n := item.(type) {
		case *tat.FunctionDecl:
			if err := insert(symbolOf(uri, n.Name, Function, n.Span())); err != nil {
				return err
			}
		case *tat.StructDecl:
			if err := insert(symbolOf(uri, n.Name, Struct, n.Span())); err != nil {
				return err
			}
		case *tat.ConstDecl:
			if err := insert(symbolOf(uri, n.Name, Const, n.Span())); err != nil {
				return err
			}
		case *tat.Declaration:
			if err := insert(symbolOf(uri, n.Name, Const, n.Span())); err != nil {
				return err
			}
		case *tat.InstanceBlock:
			for _, m := range n.Methods {
				if err := insert(symbolOf(uri, m.Name, Method, m.Span())); err != nil {
					return err
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("symbolindex: commit: %w", err)
	}
	return nil
}

func symbolOf(uri, name string, kind Kind, span token.Span) Symbol {
	return Symbol{Name: name, Kind: kind, URI: uri, Line: span.Start.Line, Column: span.Start.Column}
}

// Find returns every symbol recorded under the given name, across every
// indexed uri.
func (s *Store) Find(name string) ([]Symbol, error) {
	rows, err := s.db.Query(`SELECT uri, name, kind, line, column FROM symbols WHERE name = ?`, name)
	if err != nil {
		return nil, fmt.Errorf("symbolindex: find %q: %w", name, err)
	}
	defer rows.Close()

	var out []Symbol
	for rows.Next() {
		var sym Symbol
		var kind string
		if err := rows.Scan(&sym.URI, &sym.Name, &kind, &sym.Line, &sym.Column); err != nil {
			return nil, fmt.Errorf("symbolindex: scan: %w", err)
		}
		sym.Kind = Kind(kind)
		out = append(out, sym)
	}
	return out, rows.Err()
}
