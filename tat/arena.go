// Package tat defines the typed abstract tree: the checker's output (spec.md
// §3, §4.5). TAT mirrors the shape of package ast, but every expression
// additionally carries type-checking info instead of the unit info the
// parser produces.
//
// spec.md §9 notes that the source system represents a node's not-yet-known
// type as a shared, interior-mutable optional reference, and recommends that
// a systems re-implementation prefer "an arena of type-variables with
// union-find: allocate a fresh variable per tree node, union on type
// equality, and read the representative at validation" instead — it
// preserves the same observable sharing (an identifier and its defining
// site see the same resolved type) without pervasive mutable aliasing. Arena
// is that union-find store; Var is an index into it standing in for the
// source's "type cell".
package tat

import "github.com/whylang/wyc/types"

// Var identifies one type-checking slot. The zero Var is never issued by
// Fresh, so an unset Var field reliably means "no slot was allocated here".
type Var int

type cell struct {
	parent Var
	rank   int
	typ    *types.Resolved
}

// Arena owns every Var allocated while checking one compilation unit.
type Arena struct {
	cells []cell
}

func NewArena() *Arena { return &Arena{} }

// Fresh allocates a new, as-yet-unresolved Var.
func (a *Arena) Fresh() Var {
	v := Var(len(a.cells) + 1)
	a.cells = append(a.cells, cell{parent: v})
	return v
}

func (a *Arena) index(v Var) int { return int(v) - 1 }

func (a *Arena) find(v Var) Var {
	i := a.index(v)
	if a.cells[i].parent != v {
		a.cells[i].parent = a.find(a.cells[i].parent)
	}
	return a.cells[i].parent
}

// Get returns the resolved type standing for v's equivalence class, if any
// member of that class has been resolved.
func (a *Arena) Get(v Var) (types.Resolved, bool) {
	r := a.find(v)
	c := a.cells[a.index(r)]
	if c.typ == nil {
		return types.Resolved{}, false
	}
	return *c.typ, true
}

// Set assigns t as the resolved type for v's whole equivalence class. This
// is the arena's equivalent of the source's update_type side-channel
// (spec.md §4.5): every Var unioned with v, directly or transitively,
// observes t from Get thereafter.
func (a *Arena) Set(v Var, t types.Resolved) {
	r := a.find(v)
	a.cells[a.index(r)].typ = &t
}

// Union merges the equivalence classes of x and y. The type checker does not
// call it: an identifier reference gets a fresh Var set to the type its
// binding has in scope. If exactly one side already carries a resolved type,
// the merged class adopts it.
func (a *Arena) Union(x, y Var) {
	rx, ry := a.find(x), a.find(y)
	if rx == ry {
		return
	}
	ix, iy := a.index(rx), a.index(ry)
	if a.cells[ix].rank < a.cells[iy].rank {
		rx, ry = ry, rx
		ix, iy = iy, ix
	}
	if a.cells[ix].typ == nil {
		a.cells[ix].typ = a.cells[iy].typ
	}
	a.cells[iy].parent = rx
	if a.cells[ix].rank == a.cells[iy].rank {
		a.cells[ix].rank++
	}
}
