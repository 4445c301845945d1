// Package types implements the resolved-type lattice that the type checker
// and validator refine UAT/TAT nodes against (spec.md §3, §4.4).
//
// Resolved is a closed sum type, grounded on the tagged-union shape of the
// teacher's data.Value (data/value.go): a single interface implemented by a
// handful of concrete kinds, switched on by a Kind() tag rather than by type
// assertion chains, so callers (the checker, the validator, the formatter)
// can dispatch uniformly.
package types

import (
	"fmt"
	"strings"
)

// Kind tags the variant of a Resolved type.
type Kind int

const (
	Unknown Kind = iota // placeholder for "not yet inferred"; must not survive validation
	IntegerKind
	FloatingPointKind
	BooleanKind
	CharacterKind
	StringKind
	VoidKind
	ReferenceKind
	TupleKind
	ArrayKind
	StructKind
	FunctionKind
	ClosureKind // see spec.md §9: a Function-compatible type returned by a capturing lambda
)

// Resolved is a fully resolved (monomorphic) type. The zero Resolved is
// Unknown. Resolved values are immutable and safe to share by value; Struct
// and Function carry slices, so copy-on-write isn't needed since nothing
// mutates a Resolved in place once constructed.
type Resolved struct {
	kind   Kind
	elem   *Resolved   // Reference, Array
	fields []Field     // Struct, in declaration order
	name   string      // Struct name
	params []Resolved  // Function, Closure
	ret    *Resolved   // Function, Closure
	tuple  []Resolved  // Tuple
}

// Field is a named, typed struct member, in declaration order.
type Field struct {
	Name string
	Type Resolved
}

var (
	Integer       = Resolved{kind: IntegerKind}
	FloatingPoint = Resolved{kind: FloatingPointKind}
	Boolean       = Resolved{kind: BooleanKind}
	Character     = Resolved{kind: CharacterKind}
	String        = Resolved{kind: StringKind}
	Void          = Resolved{kind: VoidKind}
)

func Reference(to Resolved) Resolved { return Resolved{kind: ReferenceKind, elem: &to} }
func Array(elem Resolved) Resolved   { return Resolved{kind: ArrayKind, elem: &elem} }
func Tuple(elems ...Resolved) Resolved {
	return Resolved{kind: TupleKind, tuple: append([]Resolved(nil), elems...)}
}

func StructOf(name string, fields []Field) Resolved {
	return Resolved{kind: StructKind, name: name, fields: append([]Field(nil), fields...)}
}

func Function(params []Resolved, ret Resolved) Resolved {
	return Resolved{kind: FunctionKind, params: append([]Resolved(nil), params...), ret: &ret}
}

// Closure is a Function-shaped type produced by a lambda that captures its
// defining environment (spec.md §9). It satisfies a declared Function return
// type when params and return agree (see CompatibleReturn).
func Closure(params []Resolved, ret Resolved) Resolved {
	return Resolved{kind: ClosureKind, params: append([]Resolved(nil), params...), ret: &ret}
}

func (r Resolved) Kind() Kind { return r.kind }
func (r Resolved) IsUnknown() bool { return r.kind == Unknown }
func (r Resolved) Elem() Resolved {
	if r.elem == nil {
		return Resolved{}
	}
	return *r.elem
}
func (r Resolved) Fields() []Field    { return r.fields }
func (r Resolved) StructName() string { return r.name }
func (r Resolved) Params() []Resolved { return r.params }
func (r Resolved) Return() Resolved {
	if r.ret == nil {
		return Resolved{}
	}
	return *r.ret
}
func (r Resolved) TupleElems() []Resolved { return r.tuple }

// Field looks up a struct field by name, returning its type and whether it
// was found, in O(n) — struct arities in practice are small and the
// declaration-order slice is what callers need to walk for initialisation
// checks (spec.md §3's "stored tuple is canonical").
func (r Resolved) Field(name string) (Resolved, bool) {
	for _, f := range r.fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return Resolved{}, false
}

// Equal reports structural equality, with nominal identity for structs
// (two Struct types are equal iff their names match; spec.md §4.4).
// No subtyping and no implicit numeric coercion exist in this lattice:
// Integer and FloatingPoint are always disjoint.
func (r Resolved) Equal(o Resolved) bool {
	if r.kind != o.kind {
		return false
	}
	switch r.kind {
	case ReferenceKind, ArrayKind:
		return r.Elem().Equal(o.Elem())
	case StructKind:
		return r.name == o.name
	case TupleKind:
		if len(r.tuple) != len(o.tuple) {
			return false
		}
		for i := range r.tuple {
			if !r.tuple[i].Equal(o.tuple[i]) {
				return false
			}
		}
		return true
	case FunctionKind, ClosureKind:
		return sameSignature(r, o)
	default:
		return true
	}
}

func sameSignature(a, b Resolved) bool {
	if len(a.params) != len(b.params) {
		return false
	}
	for i := range a.params {
		if !a.params[i].Equal(b.params[i]) {
			return false
		}
	}
	return a.Return().Equal(b.Return())
}

// CompatibleReturn implements the narrow Function/Closure exception from
// spec.md §4.4 and §9: a declared Function{...} return type is satisfied by
// a Closure with matching parameter and return types, and vice versa is not
// required (back-ends lower both the same way; the checker only needs the
// one direction to validate a function whose body evaluates to a capturing
// lambda).
func (r Resolved) CompatibleReturn(o Resolved) bool {
	if r.Equal(o) {
		return true
	}
	if r.kind == FunctionKind && o.kind == ClosureKind {
		return sameSignature(Resolved{kind: FunctionKind, params: o.params, ret: o.ret}, r)
	}
	if r.kind == ClosureKind && o.kind == FunctionKind {
		return o.CompatibleReturn(r)
	}
	return false
}

// CoercesTo implements the reference/referent mutual-coercion exception from
// spec.md §4.4: T and &T are interchangeable at parameter-passing and
// assignment sites.
func (r Resolved) CoercesTo(target Resolved) bool {
	if r.Equal(target) {
		return true
	}
	if r.kind == ReferenceKind && r.Elem().Equal(target) {
		return true
	}
	if target.kind == ReferenceKind && target.Elem().Equal(r) {
		return true
	}
	return false
}

func (r Resolved) String() string {
	switch r.kind {
	case Unknown:
		return "<unknown>"
	case IntegerKind:
		return "i64"
	case FloatingPointKind:
		return "f64"
	case BooleanKind:
		return "bool"
	case CharacterKind:
		return "char"
	case StringKind:
		return "string"
	case VoidKind:
		return "void"
	case ReferenceKind:
		return "&" + r.Elem().String()
	case ArrayKind:
		return "&[" + r.Elem().String() + "]"
	case TupleKind:
		parts := make([]string, len(r.tuple))
		for i, t := range r.tuple {
			parts[i] = t.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case StructKind:
		return r.name
	case FunctionKind, ClosureKind:
		parts := make([]string, len(r.params))
		for i, t := range r.params {
			parts[i] = t.String()
		}
		prefix := ""
		if r.kind == ClosureKind {
			prefix = "closure "
		}
		return fmt.Sprintf("%s(%s) -> %s", prefix, strings.Join(parts, ", "), r.Return())
	default:
		return "?"
	}
}
