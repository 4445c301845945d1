package typecheck

import (
	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/diag"
	"github.com/whylang/wyc/scope"
	"github.com/whylang/wyc/tat"
	"github.com/whylang/wyc/types"
)

// typeOf reads the resolved type for e's type cell, if any.
func (c *Checker) typeOf(e tat.Expression) (types.Resolved, bool) {
	return c.arena.Get(e.TypeInfo().Var)
}

// checkExpr deep-checks one UAT expression into its TAT counterpart
// (spec.md §4.5's per-form expression rules). Every variant allocates a
// fresh Var up front; most forms Set it before returning, leaving it unset
// only where the spec calls for deferred resolution via checkExprExpected (empty
// array literals, lambdas with unknown parameter types).
func (c *Checker) checkExpr(e ast.Expression) tat.Expression {
	switch e := e.(type) {
	case *ast.Identifier:
		return c.checkIdentifier(e)
	case *ast.IntegerLiteral:
		v := c.fresh()
		c.setVar(v, types.Integer)
		return &tat.IntegerLiteral{Value: e.Value, Info: tat.Info{Var: v}, Sp: e.Sp}
	case *ast.FloatLiteral:
		v := c.fresh()
		c.setVar(v, types.FloatingPoint)
		return &tat.FloatLiteral{Value: e.Value, Info: tat.Info{Var: v}, Sp: e.Sp}
	case *ast.CharLiteral:
		v := c.fresh()
		c.setVar(v, types.Character)
		return &tat.CharLiteral{Value: e.Value, Info: tat.Info{Var: v}, Sp: e.Sp}
	case *ast.StringLiteral:
		v := c.fresh()
		c.setVar(v, types.String)
		return &tat.StringLiteral{Value: e.Value, Info: tat.Info{Var: v}, Sp: e.Sp}
	case *ast.BooleanLiteral:
		v := c.fresh()
		c.setVar(v, types.Boolean)
		return &tat.BooleanLiteral{Value: e.Value, Info: tat.Info{Var: v}, Sp: e.Sp}
	case *ast.Paren:
		return c.checkParen(e)
	case *ast.Prefix:
		return c.checkPrefix(e)
	case *ast.Binary:
		return c.checkBinary(e)
	case *ast.Call:
		return c.checkCall(e)
	case *ast.Index:
		return c.checkIndex(e)
	case *ast.PropertyAccess:
		return c.checkPropertyAccess(e)
	case *ast.ArrayLiteral:
		return c.checkArrayLiteral(e)
	case *ast.ArrayDefault:
		return c.checkArrayDefault(e)
	case *ast.Block:
		return c.checkBlock(e)
	case *ast.If:
		return c.checkIf(e)
	case *ast.Lambda:
		return c.checkLambda(e, types.Resolved{})
	case *ast.StructInit:
		return c.checkStructInit(e)
	case *ast.FunctionExpr:
		return c.checkFunctionExpr(e)
	default:
		v := c.fresh()
		return &tat.Identifier{Name: "<invalid>", Info: tat.Info{Var: v}, Sp: e.Span()}
	}
}

func (c *Checker) checkIdentifier(e *ast.Identifier) *tat.Identifier {
	v := c.fresh()
	t, _, ok := c.scope.Resolve(e.Name)
	if !ok {
		c.bag.Add(diag.UndefinedVariable, e.Sp, "undefined variable %q", e.Name)
	} else {
		c.setVar(v, t)
	}
	return &tat.Identifier{Name: e.Name, Info: tat.Info{Var: v}, Sp: e.Sp}
}

func (c *Checker) checkParen(e *ast.Paren) *tat.Paren {
	inner := c.checkExpr(e.Inner)
	v := c.fresh()
	if t, ok := c.typeOf(inner); ok {
		c.setVar(v, t)
	}
	return &tat.Paren{Inner: inner, Info: tat.Info{Var: v}, Sp: e.Sp}
}

func (c *Checker) checkPrefix(e *ast.Prefix) *tat.Prefix {
	operand := c.checkExpr(e.Operand)
	v := c.fresh()
	t, ok := c.typeOf(operand)
	if ok {
		switch e.Op {
		case ast.Negate:
			if t.Equal(types.Integer) || t.Equal(types.FloatingPoint) {
				c.setVar(v, t)
			} else {
				c.bag.Add(diag.TypeMismatch, e.Sp, "unary - requires Integer or FloatingPoint, found %s", t)
			}
		case ast.Not:
			if t.Equal(types.Boolean) {
				c.setVar(v, types.Boolean)
			} else {
				c.bag.Add(diag.TypeMismatch, e.Sp, "unary ! requires Boolean, found %s", t)
			}
		}
	}
	return &tat.Prefix{Op: e.Op, Operand: operand, Info: tat.Info{Var: v}, Sp: e.Sp}
}

func (c *Checker) checkBinary(e *ast.Binary) *tat.Binary {
	left := c.checkExpr(e.Left)
	right := c.checkExpr(e.Right)
	v := c.fresh()
	lt, lok := c.typeOf(left)
	rt, rok := c.typeOf(right)
	if lok && rok {
		if !lt.Equal(rt) {
			c.bag.Add(diag.UnsupportedBinaryOperation, e.Sp, "operator %s requires matching operand types, found %s and %s", e.Op, lt, rt)
		} else if e.Op.IsComparison() {
			c.setVar(v, types.Boolean)
		} else if lt.Equal(types.Integer) || lt.Equal(types.FloatingPoint) {
			c.setVar(v, lt)
		} else {
			c.bag.Add(diag.UnsupportedBinaryOperation, e.Sp, "operator %s requires Integer or FloatingPoint, found %s", e.Op, lt)
		}
	}
	return &tat.Binary{Op: e.Op, Left: left, Right: right, Info: tat.Info{Var: v}, Sp: e.Sp}
}

// checkCall checks the callee first so each argument can be checked against
// its declared parameter type (letting an unannotated lambda argument adopt
// its parameter types from the callee's signature, spec.md §4.5).
func (c *Checker) checkCall(e *ast.Call) *tat.Call {
	callee := c.checkExpr(e.Callee)
	v := c.fresh()
	ct, calleeOK := c.typeOf(callee)
	isFn := calleeOK && (ct.Kind() == types.FunctionKind || ct.Kind() == types.ClosureKind)
	if calleeOK && !isFn {
		c.bag.Add(diag.TypeMismatch, e.Sp, "call target is not a function, found %s", ct)
	}
	args := make([]tat.Expression, len(e.Args))
	for i, a := range e.Args {
		var expected types.Resolved
		if isFn && i < len(ct.Params()) {
			expected = ct.Params()[i]
		}
		args[i] = c.checkExprExpected(a, expected)
	}
	if isFn {
		if len(ct.Params()) != len(args) {
			c.bag.Add(diag.TypeMismatch, e.Sp, "expected %d arguments, found %d", len(ct.Params()), len(args))
		} else {
			argsOK := true
			for i, p := range ct.Params() {
				at, aok := c.typeOf(args[i])
				if !aok || !at.CoercesTo(p) {
					c.bag.Add(diag.TypeMismatch, e.Args[i].Span(), "argument %d: expected %s, found %s", i, p, at)
					argsOK = false
				}
			}
			if argsOK {
				c.setVar(v, ct.Return())
			}
		}
	}
	return &tat.Call{Callee: callee, Args: args, Info: tat.Info{Var: v}, Sp: e.Sp}
}

func (c *Checker) checkIndex(e *ast.Index) *tat.Index {
	arr := c.checkExpr(e.Array)
	at := c.checkExpr(e.At)
	v := c.fresh()
	arrType, arrOK := c.typeOf(arr)
	idxType, idxOK := c.typeOf(at)
	if arrOK && idxOK {
		if arrType.Kind() != types.ArrayKind {
			c.bag.Add(diag.TypeMismatch, e.Sp, "index target is not an array, found %s", arrType)
		} else if !idxType.Equal(types.Integer) {
			c.bag.Add(diag.TypeMismatch, e.At.Span(), "array index must be Integer, found %s", idxType)
		} else {
			c.setVar(v, arrType.Elem())
		}
	}
	return &tat.Index{Array: arr, At: at, Info: tat.Info{Var: v}, Sp: e.Sp}
}

func (c *Checker) checkPropertyAccess(e *ast.PropertyAccess) *tat.PropertyAccess {
	target := c.checkExpr(e.Target)
	v := c.fresh()
	tt, ok := c.typeOf(target)
	if ok {
		if tt.Kind() != types.StructKind {
			c.bag.Add(diag.TypeMismatch, e.Sp, "property access target is not a struct, found %s", tt)
		} else if ft, found := tt.Field(e.Property); found {
			c.setVar(v, ft)
		} else if mt, found := c.scope.ResolveMethod(tt.StructName(), e.Property); found {
			c.setVar(v, mt)
		} else {
			c.bag.Add(diag.UndefinedVariable, e.Sp, "struct %s has no field or method %q", tt.StructName(), e.Property)
		}
	}
	return &tat.PropertyAccess{Target: target, Property: e.Property, Info: tat.Info{Var: v}, Sp: e.Sp}
}

func (c *Checker) checkArrayLiteral(e *ast.ArrayLiteral) *tat.ArrayLiteral {
	elems := make([]tat.Expression, len(e.Elements))
	v := c.fresh()
	if len(e.Elements) == 0 {
		return &tat.ArrayLiteral{Elements: elems, Info: tat.Info{Var: v}, Sp: e.Sp}
	}
	var common types.Resolved
	haveCommon := false
	for i, el := range e.Elements {
		elems[i] = c.checkExpr(el)
		t, ok := c.typeOf(elems[i])
		if !ok {
			continue
		}
		if !haveCommon {
			common = t
			haveCommon = true
		} else if !t.Equal(common) {
			c.bag.Add(diag.TypeMismatch, el.Span(), "array literal elements must share a type, found %s and %s", common, t)
		}
	}
	if haveCommon {
		c.setVar(v, types.Array(common))
	}
	return &tat.ArrayLiteral{Elements: elems, Info: tat.Info{Var: v}, Sp: e.Sp}
}

func (c *Checker) checkArrayDefault(e *ast.ArrayDefault) *tat.ArrayDefault {
	init := c.checkExpr(e.Init)
	length := c.checkExpr(e.Len)
	v := c.fresh()
	if lt, ok := c.typeOf(length); ok && !lt.Equal(types.Integer) {
		c.bag.Add(diag.TypeMismatch, e.Len.Span(), "array length must be Integer, found %s", lt)
	}
	if it, ok := c.typeOf(init); ok {
		c.setVar(v, types.Array(it))
	}
	return &tat.ArrayDefault{Init: init, Len: length, Info: tat.Info{Var: v}, Sp: e.Sp}
}

// checkBlock enters a new frame, checks every statement in order, and types
// the block as its tail expression's type or Void (spec.md §4.5). It has no
// context to propagate into the tail; callers that do (a function body, an
// if/else branch) use checkBlockExpected instead.
func (c *Checker) checkBlock(b *ast.Block) *tat.Block {
	return c.checkBlockExpected(b, types.Resolved{})
}

// checkBlockExpected is checkBlock with a target type for the tail
// expression already known from context, threaded down via
// checkExprExpected exactly as a function's declared return type reaches
// its body's tail (spec.md §4.5: "check body block with the block's tail
// expression expected to have the return type").
func (c *Checker) checkBlockExpected(b *ast.Block, expected types.Resolved) *tat.Block {
	c.scope.Enter()
	defer c.scope.Exit()
	out := &tat.Block{Sp: b.Sp}
	for _, s := range b.Stmts {
		if typed := c.checkStatement(s); typed != nil {
			out.Stmts = append(out.Stmts, typed)
		}
	}
	v := c.fresh()
	if b.Tail != nil {
		tailExpr := c.checkExprExpected(b.Tail.Expr, expected)
		out.Tail = &tat.YieldExpr{Expr: tailExpr, Sp: b.Tail.Sp}
		if t, ok := c.typeOf(tailExpr); ok {
			c.setVar(v, t)
		}
	} else {
		c.setVar(v, types.Void)
	}
	out.Info = tat.Info{Var: v}
	return out
}

func (c *Checker) checkIf(e *ast.If) *tat.If {
	return c.checkIfExpected(e, types.Resolved{})
}

func (c *Checker) checkIfExpected(e *ast.If, expected types.Resolved) *tat.If {
	cond := c.checkExpr(e.Cond)
	if ct, ok := c.typeOf(cond); ok && !ct.Equal(types.Boolean) {
		c.bag.Add(diag.TypeMismatch, e.Cond.Span(), "if condition must be Boolean, found %s", ct)
	}
	then := c.checkBlockExpected(e.Then, expected)
	var elseBlock *tat.Block
	if e.Else != nil {
		elseBlock = c.checkBlockExpected(e.Else, expected)
	}
	v := c.fresh()
	switch {
	case elseBlock == nil:
		c.setVar(v, types.Void)
	case then.Tail == nil || elseBlock.Tail == nil:
		// Either arm has no tail expression, matching if_expression.rs's
		// (statements.last(), else_statements.last()) match: only the
		// both-non-empty arm compares branch types, every other arm is Void
		// with no mismatch.
		c.setVar(v, types.Void)
	default:
		thenType, thenOK := c.typeOf(then)
		elseType, elseOK := c.typeOf(elseBlock)
		if thenOK && elseOK {
			if !thenType.Equal(elseType) {
				c.bag.Add(diag.TypeMismatch, e.Sp, "if/else branches disagree: %s vs %s", thenType, elseType)
			} else {
				c.setVar(v, thenType)
			}
		}
	}
	return &tat.If{Cond: cond, Then: then, Else: elseBlock, Info: tat.Info{Var: v}, Sp: e.Sp}
}

// checkLambda enters a frame and binds each parameter, preferring its own
// annotation but falling back to the matching position in expected (a
// Function/Closure type known from the surrounding context: a call argument,
// an initialisation's declared type, a field's declared type) when the
// parameter carries none. Only once every parameter type is known does the
// lambda get a Function type of its own; otherwise its Var is left unset.
func (c *Checker) checkLambda(e *ast.Lambda, expected types.Resolved) *tat.Lambda {
	var expectedParams []types.Resolved
	if (expected.Kind() == types.FunctionKind || expected.Kind() == types.ClosureKind) && len(expected.Params()) == len(e.Params) {
		expectedParams = expected.Params()
	}
	c.scope.Enter()
	defer c.scope.Exit()
	params := make([]tat.Param, len(e.Params))
	allKnown := true
	paramTypes := make([]types.Resolved, len(e.Params))
	for i, p := range e.Params {
		var t types.Resolved
		known := false
		if p.Type != nil {
			if rt, ok := scope.ResolveTypeName(c.scope, p.Type); ok {
				t = rt
				known = true
			}
		} else if expectedParams != nil {
			t = expectedParams[i]
			known = true
		}
		if !known {
			allKnown = false
		}
		c.scope.AddVariable(p.Name, t, false)
		params[i] = tat.Param{Name: p.Name, Type: t, Sp: p.Sp}
		paramTypes[i] = t
	}
	var expectedReturn types.Resolved
	if expectedParams != nil {
		expectedReturn = expected.Return()
	}
	body := c.checkExprExpected(e.Body, expectedReturn)
	v := c.fresh()
	captured := c.freeVariables(e)
	if allKnown {
		if bt, ok := c.typeOf(body); ok {
			if len(captured) != 0 {
				c.setVar(v, types.Closure(paramTypes, bt))
			} else {
				c.setVar(v, types.Function(paramTypes, bt))
			}
		}
	}
	return &tat.Lambda{Params: params, Body: body, Info: tat.Info{Var: v, Captured: captured}, Sp: e.Sp}
}

// freeVariables reports the outer local variables e.Body references that
// aren't among e's own parameters, in first-reference order, de-duplicated
// by name — spec.md §9's "captured-context" info slot, and the condition
// under which a lambda's inferred type is Closure rather than Function
// (spec.md §4.4, §4.5: "may change return to a Closure if the body
// evaluates to a lambda capturing outer names"). A name only counts as
// captured if it resolves to a binding from an enclosing function or block:
// a top-level constant or function is reachable from anywhere and never
// needs to be closed over.
func (c *Checker) freeVariables(e *ast.Lambda) []tat.CapturedVar {
	bound := make(map[string]bool, len(e.Params))
	for _, p := range e.Params {
		bound[p.Name] = true
	}
	var out []tat.CapturedVar
	seen := map[string]bool{}
	ast.Walk(e.Body, func(n ast.Node) {
		id, ok := n.(*ast.Identifier)
		if !ok || bound[id.Name] || seen[id.Name] {
			return
		}
		typ, ok := c.scope.ResolveEnclosing(id.Name)
		if !ok {
			return
		}
		seen[id.Name] = true
		out = append(out, tat.CapturedVar{Name: id.Name, Type: typ})
	})
	return out
}

func (c *Checker) checkStructInit(e *ast.StructInit) *tat.StructInit {
	v := c.fresh()
	st, ok := c.scope.GetType(e.StructName)
	fields := make([]tat.StructInitField, len(e.Fields))
	for i, f := range e.Fields {
		var declared types.Resolved
		found := false
		if ok {
			declared, found = st.Field(f.Name)
			if !found {
				c.bag.Add(diag.UndefinedVariable, f.Sp, "struct %s has no field %q", e.StructName, f.Name)
			}
		}
		value := c.checkExprExpected(f.Value, declared)
		if found {
			if vt, has := c.typeOf(value); has && !vt.CoercesTo(declared) {
				c.bag.Add(diag.TypeMismatch, f.Value.Span(), "field %q: expected %s, found %s", f.Name, declared, vt)
			}
		}
		fields[i] = tat.StructInitField{Name: f.Name, Value: value, Sp: f.Sp}
	}
	if !ok {
		c.bag.Add(diag.UndefinedType, e.Sp, "undefined struct %q", e.StructName)
	} else {
		for _, field := range st.Fields() {
			found := false
			for _, f := range e.Fields {
				if f.Name == field.Name {
					found = true
					break
				}
			}
			if !found {
				c.bag.Add(diag.UndefinedVariable, e.Sp, "struct initialisation missing field %q", field.Name)
			}
		}
		ordered := make([]tat.StructInitField, 0, len(fields))
		for _, field := range st.Fields() {
			for _, f := range fields {
				if f.Name == field.Name {
					ordered = append(ordered, f)
					break
				}
			}
		}
		if len(ordered) == len(fields) {
			fields = ordered
		}
		c.setVar(v, st)
	}
	return &tat.StructInit{StructName: e.StructName, Fields: fields, Info: tat.Info{Var: v}, Sp: e.Sp}
}

func (c *Checker) checkFunctionExpr(e *ast.FunctionExpr) *tat.FunctionExpr {
	decl, captured := c.deepFunction(e.Decl, types.Resolved{})
	v := c.fresh()
	if len(captured) != 0 {
		c.setVar(v, types.Closure(paramTypesOf(decl.Params), decl.ReturnType))
	} else {
		c.setVar(v, types.Function(paramTypesOf(decl.Params), decl.ReturnType))
	}
	return &tat.FunctionExpr{Decl: decl, Info: tat.Info{Var: v, Captured: captured}, Sp: e.Sp}
}
