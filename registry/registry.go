// Package registry aggregates parsed compilation units by source name, the
// same convenience role template/registry.go plays for a Soy bundle: look up
// a previously-added unit by name, walk every unit in the collection.
//
// Generalized from "fully-qualified template name -> Template" (one Soy file
// can hold many namespaced templates) to "source name -> Unit" (one "why"
// file is one compilation unit, so the key collapses to the file/URI
// itself).
package registry

import (
	"fmt"

	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/token"
)

// Unit pairs a parsed program with the source it came from.
type Unit struct {
	Source  token.Source
	Program *ast.Program
}

// Registry is a collection of parsed "why" units, indexed by source name.
type Registry struct {
	units map[string]*Unit
	order []string
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{units: make(map[string]*Unit)}
}

// Add registers prog under src's name. It is an error to add two units under
// the same source name, mirroring registry.Add's duplicate-namespace check.
func (r *Registry) Add(src token.Source, prog *ast.Program) error {
	if _, exists := r.units[src.Name]; exists {
		return fmt.Errorf("registry: %q already added", src.Name)
	}
	r.units[src.Name] = &Unit{Source: src, Program: prog}
	r.order = append(r.order, src.Name)
	return nil
}

// Unit looks up a previously added unit by source name.
func (r *Registry) Unit(name string) (*Unit, bool) {
	u, ok := r.units[name]
	return u, ok
}

// Units returns every registered unit, in the order they were added.
func (r *Registry) Units() []*Unit {
	out := make([]*Unit, len(r.order))
	for i, name := range r.order {
		out[i] = r.units[name]
	}
	return out
}

// Len reports how many units are registered.
func (r *Registry) Len() int { return len(r.order) }
