// Package scope implements name resolution: a LIFO stack of frames tracking
// variables, types, constants and instance methods (spec.md §4.3, §4.4).
//
// Grounded on parsepasses/datarefcheck.go's templateChecker, which threads a
// running list of names (letVars, params) through a recursive checker and
// consults the shared template.Registry for cross-template lookups; Scope
// generalizes that single running list into a proper push/pop stack of
// frames (one per function/block) plus a separate global frame for
// top-level constants, types and instance methods, since spec.md needs
// nested lexical scoping that datarefcheck's flat template body never did.
package scope

import (
	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/types"
)

// variable is a resolved local binding: its declared/inferred type and
// whether it was declared `let mut`.
type variable struct {
	typ     types.Resolved
	mutable bool
}

// methodKey identifies an instance method by receiver type name and method
// name (spec.md §4.3's "method table keyed by (type, method name)").
type methodKey struct {
	typeName string
	method   string
}

// frame is one lexical level: the global top level, a function body, or a
// nested block.
type frame struct {
	variables map[string]variable
	constants map[string]types.Resolved
	typeNames map[string]types.Resolved
}

func newFrame() *frame {
	return &frame{
		variables: make(map[string]variable),
		constants: make(map[string]types.Resolved),
		typeNames: make(map[string]types.Resolved),
	}
}

// Scope is the stack of frames active while checking one construct. The
// instance method table is not frame-scoped: methods are registered once,
// program-wide, during the shallow pass (spec.md §4.3's "method_table.add/
// resolve_property give ad-hoc polymorphism on struct types").
type Scope struct {
	frames  []*frame
	methods map[methodKey]types.Resolved
}

// New returns a Scope seeded with the built-in type names (spec.md §3:
// i64, f64, bool, char, string, void) in its global frame.
func New() *Scope {
	s := &Scope{frames: []*frame{newFrame()}, methods: make(map[methodKey]types.Resolved)}
	g := s.frames[0]
	g.typeNames["i64"] = types.Integer
	g.typeNames["f64"] = types.FloatingPoint
	g.typeNames["bool"] = types.Boolean
	g.typeNames["char"] = types.Character
	g.typeNames["string"] = types.String
	g.typeNames["void"] = types.Void
	return s
}

// Enter pushes a new, empty frame (entering a function body or block).
func (s *Scope) Enter() { s.frames = append(s.frames, newFrame()) }

// Exit pops the innermost frame. Calling Exit on the global frame panics:
// it is a programmer error, mirroring scope-stack misuse elsewhere in the
// corpus (e.g. unbalanced template.Registry nesting).
func (s *Scope) Exit() {
	if len(s.frames) == 1 {
		panic("scope: Exit called with no frame to pop")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *Scope) top() *frame { return s.frames[len(s.frames)-1] }

// boundAnywhere reports whether name is bound as either a variable or a
// constant in any currently open frame.
func (s *Scope) boundAnywhere(name string) bool {
	for _, f := range s.frames {
		if _, ok := f.variables[name]; ok {
			return true
		}
		if _, ok := f.constants[name]; ok {
			return true
		}
	}
	return false
}

// AddVariable declares name in the innermost frame. It fails if a constant
// with that name exists in any open frame (spec.md §4.3: "collision if a
// constant with that name exists anywhere above"), or if name is already a
// variable in the *same* frame — shadowing an outer frame's variable is
// allowed, redeclaring within one frame is not.
func (s *Scope) AddVariable(name string, typ types.Resolved, mutable bool) bool {
	for _, f := range s.frames {
		if _, ok := f.constants[name]; ok {
			return false
		}
	}
	f := s.top()
	if _, exists := f.variables[name]; exists {
		return false
	}
	f.variables[name] = variable{typ: typ, mutable: mutable}
	return true
}

// AddConstant declares name as a constant in the innermost frame. It fails
// if any binding (variable or constant) with that name exists in any
// currently open frame (spec.md §4.3: stricter than AddVariable, since a
// constant can never be shadowed or shadow anything).
func (s *Scope) AddConstant(name string, typ types.Resolved) bool {
	if s.boundAnywhere(name) {
		return false
	}
	s.top().constants[name] = typ
	return true
}

// AddType registers name in the type table of the innermost frame. It fails
// only if that name is already a type in the *current* frame (spec.md
// §4.3's add_type: "duplicate-type if that name is bound as a type in the
// current frame"), so a nested struct may shadow an outer one.
func (s *Scope) AddType(name string, typ types.Resolved) bool {
	f := s.top()
	if _, exists := f.typeNames[name]; exists {
		return false
	}
	f.typeNames[name] = typ
	return true
}

// AddMethod registers an instance method's Function type (receiver
// excluded from params) under (typeName, method). Returns false if that
// pair is already bound.
func (s *Scope) AddMethod(typeName, method string, fn types.Resolved) bool {
	key := methodKey{typeName: typeName, method: method}
	if _, exists := s.methods[key]; exists {
		return false
	}
	s.methods[key] = fn
	return true
}

// ResolveMethod looks up an instance method by receiver type name.
func (s *Scope) ResolveMethod(typeName, method string) (types.Resolved, bool) {
	fn, ok := s.methods[methodKey{typeName: typeName, method: method}]
	return fn, ok
}

// Resolve looks up name as a variable or constant, scanning frames
// innermost-first (spec.md §4.3). A name can never be both a constant in one
// frame and a variable in another — AddConstant and AddVariable each check
// every open frame before binding — so within a single frame, checking
// constants before variables is enough to realise "constants take
// precedence over variables".
func (s *Scope) Resolve(name string) (typ types.Resolved, mutable bool, ok bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if t, exists := s.frames[i].constants[name]; exists {
			return t, false, true
		}
		if v, exists := s.frames[i].variables[name]; exists {
			return v.typ, v.mutable, true
		}
	}
	return types.Resolved{}, false, false
}

// ResolveEnclosing is Resolve restricted to frames strictly below the
// current innermost one and above the global frame: it reports whether name
// is a variable or constant bound by some *enclosing* function or block,
// excluding both the frame currently being checked and the top-level
// declarations reachable from anywhere. Used to tell a lambda's genuine
// captures (an outer local it closes over) apart from its own parameters
// and locals, and from a program-level constant or function, which never
// needs closing over (spec.md §9).
func (s *Scope) ResolveEnclosing(name string) (typ types.Resolved, ok bool) {
	for i := len(s.frames) - 2; i >= 1; i-- {
		if t, exists := s.frames[i].constants[name]; exists {
			return t, true
		}
		if v, exists := s.frames[i].variables[name]; exists {
			return v.typ, true
		}
	}
	return types.Resolved{}, false
}

// UpdateVariable replaces the recorded type of the innermost variable named
// name, reporting whether one was found. The type checker does not call it.
func (s *Scope) UpdateVariable(name string, typ types.Resolved) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, exists := s.frames[i].variables[name]; exists {
			v.typ = typ
			s.frames[i].variables[name] = v
			return true
		}
	}
	return false
}

// UpdateConstant refines an existing constant's recorded type, used after a
// free function's body is deep-checked to record its return type as
// inferred or narrowed to a Closure (spec.md §4.5: "update the scope entry installed in the shallow pass").
func (s *Scope) UpdateConstant(name string, typ types.Resolved) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, exists := s.frames[i].constants[name]; exists {
			s.frames[i].constants[name] = typ
			return true
		}
	}
	return false
}

// GetType resolves a type name to its Resolved form, scanning frames
// innermost-first so a nested struct can shadow an outer one.
func (s *Scope) GetType(name string) (types.Resolved, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if t, exists := s.frames[i].typeNames[name]; exists {
			return t, true
		}
	}
	return types.Resolved{}, false
}

// ResolveTypeName converts a syntactic type name (from the parser) into a
// Resolved type, consulting the scope's type table for struct/built-in
// names (spec.md §4.4).
func ResolveTypeName(s *Scope, n ast.TypeNameNode) (types.Resolved, bool) {
	switch n := n.(type) {
	case *ast.LiteralType:
		return s.GetType(n.Name)
	case *ast.ReferenceType:
		referent, ok := ResolveTypeName(s, n.Referent)
		if !ok {
			return types.Resolved{}, false
		}
		return types.Reference(referent), true
	case *ast.ArrayType:
		elem, ok := ResolveTypeName(s, n.Element)
		if !ok {
			return types.Resolved{}, false
		}
		return types.Array(elem), true
	case *ast.TupleType:
		elems := make([]types.Resolved, len(n.Elements))
		for i, e := range n.Elements {
			r, ok := ResolveTypeName(s, e)
			if !ok {
				return types.Resolved{}, false
			}
			elems[i] = r
		}
		return types.Tuple(elems...), true
	case *ast.FunctionType:
		params := make([]types.Resolved, len(n.Params))
		for i, p := range n.Params {
			r, ok := ResolveTypeName(s, p)
			if !ok {
				return types.Resolved{}, false
			}
			params[i] = r
		}
		ret, ok := ResolveTypeName(s, n.Return)
		if !ok {
			return types.Resolved{}, false
		}
		return types.Function(params, ret), true
	default:
		return types.Resolved{}, false
	}
}
