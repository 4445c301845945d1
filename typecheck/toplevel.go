package typecheck

import (
	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/diag"
	"github.com/whylang/wyc/scope"
	"github.com/whylang/wyc/tat"
	"github.com/whylang/wyc/types"
)

// deep walks every top-level item a second time, this time entering bodies,
// now that shallow has made every signature resolvable regardless of
// declaration order (spec.md §4.5).
func (c *Checker) deep(prog *ast.Program) *tat.Program {
	out := &tat.Program{}
	for _, item := range prog.Items {
		out.Items = append(out.Items, c.deepTopLevelItem(item))
	}
	return out
}

func (c *Checker) deepTopLevelItem(item ast.TopLevel) tat.TopLevel {
	switch item := item.(type) {
	case *ast.FunctionDecl:
		decl, _ := c.deepFunction(item, types.Resolved{})
		return decl
	case *ast.ConstDecl:
		return c.checkConstBody(item)
	case *ast.Declaration:
		return c.deepDeclaration(item)
	case *ast.StructDecl:
		return c.deepStruct(item)
	case *ast.InstanceBlock:
		return c.deepInstance(item)
	case *ast.CommentNode:
		return &tat.CommentNode{Text: item.Text, Sp: item.Sp}
	default:
		return &tat.CommentNode{Sp: item.Span()}
	}
}

func paramTypesOf(params []tat.Param) []types.Resolved {
	out := make([]types.Resolved, len(params))
	for i, p := range params {
		out[i] = p.Type
	}
	return out
}

// deepFunction checks one function body. receiver is the zero Resolved for a
// free function, or the enclosing struct's type for an instance method, in
// which case the bare `this` parameter is bound to it (spec.md §4.3, §4.5).
// A free function's shallow-pass signature is narrowed afterwards if its
// body evaluates to a Closure (spec.md §9).
//
// The second return value lists the outer locals n's body references that
// aren't its own parameters — meaningful only when n is itself nested
// inside another function's body (an *ast.FunctionExpr's Decl), since a
// top-level function or instance method has nothing outside the global
// frame to capture. checkFunctionExpr is the only caller that uses it.
func (c *Checker) deepFunction(n *ast.FunctionDecl, receiver types.Resolved) (*tat.FunctionDecl, []tat.CapturedVar) {
	c.scope.Enter()
	defer c.scope.Exit()
	savedReturn, savedThis := c.currentReturn, c.currentThis
	defer func() { c.currentReturn, c.currentThis = savedReturn, savedThis }()

	params := make([]tat.Param, len(n.Params))
	for i, p := range n.Params {
		if p.Name == "this" && p.Type == nil {
			c.currentThis = receiver
			c.scope.AddVariable("this", receiver, false)
			params[i] = tat.Param{Name: "this", Type: receiver, Sp: p.Sp}
			continue
		}
		t, ok := scope.ResolveTypeName(c.scope, p.Type)
		if !ok {
			c.bag.Add(diag.UndefinedType, p.Sp, "undefined type for parameter %q", p.Name)
		}
		c.scope.AddVariable(p.Name, t, false)
		params[i] = tat.Param{Name: p.Name, Type: t, Sp: p.Sp}
	}

	retType := types.Void
	declaredReturn := false
	if n.ReturnType != nil {
		t, ok := scope.ResolveTypeName(c.scope, n.ReturnType)
		if ok {
			retType = t
			declaredReturn = true
		} else {
			c.bag.Add(diag.UndefinedType, n.Sp, "undefined return type for function %q", n.Name)
		}
	}
	c.currentReturn = retType

	var bodyExpected types.Resolved
	if declaredReturn {
		bodyExpected = retType
	}
	block := c.checkBlockExpected(n.Body, bodyExpected)
	captured := c.freeVariablesInBody(n, params)
	if bodyType, ok := c.typeOf(block); ok {
		if !declaredReturn {
			retType = bodyType
		} else if !bodyType.CompatibleReturn(retType) && !bodyType.CoercesTo(retType) {
			c.bag.Add(diag.TypeMismatch, n.Sp, "function %q: body type %s disagrees with declared return %s", n.Name, bodyType, retType)
		} else if bodyType.Kind() == types.ClosureKind {
			retType = bodyType
		}
	}

	if receiver.IsUnknown() {
		fnType := types.Function(paramTypesOf(params), retType)
		c.scope.UpdateConstant(n.Name, fnType)
	}

	return &tat.FunctionDecl{Name: n.Name, Params: params, ReturnType: retType, Body: block, Sp: n.Sp}, captured
}

// freeVariablesInBody is freeVariables generalised from a lambda's single
// expression body to a full function body block, for *ast.FunctionExpr: a
// named or anonymous `fn` used in expression position, which can likewise
// close over the locals of whatever function it's nested inside.
func (c *Checker) freeVariablesInBody(n *ast.FunctionDecl, params []tat.Param) []tat.CapturedVar {
	bound := make(map[string]bool, len(params))
	for _, p := range params {
		bound[p.Name] = true
	}
	var out []tat.CapturedVar
	seen := map[string]bool{}
	ast.Walk(n.Body, func(node ast.Node) {
		id, ok := node.(*ast.Identifier)
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

// checkConstBody type-checks a const's value without touching scope; callers
// decide whether the binding still needs to be installed (checkConstStmt,
// for statement-position const) or was already installed by shallow
// (deepTopLevelItem, for top-level const).
func (c *Checker) checkConstBody(n *ast.ConstDecl) *tat.ConstDecl {
	var declared types.Resolved
	hasDeclared := false
	if n.Type != nil {
		if t, ok := scope.ResolveTypeName(c.scope, n.Type); ok {
			declared = t
			hasDeclared = true
		}
	}
	value := c.checkExprExpected(n.Value, declared)
	vt, ok := c.typeOf(value)
	final := declared
	if !hasDeclared {
		if ok {
			final = vt
		}
	} else if ok && !vt.CoercesTo(declared) {
		c.bag.Add(diag.TypeMismatch, n.Sp, "constant %q: expected %s, found %s", n.Name, declared, vt)
	}
	return &tat.ConstDecl{Name: n.Name, Type: final, Value: value, Sp: n.Sp}
}

func (c *Checker) deepDeclaration(n *ast.Declaration) *tat.Declaration {
	t, _ := scope.ResolveTypeName(c.scope, n.Type)
	return &tat.Declaration{Name: n.Name, Type: t, Sp: n.Sp}
}

func (c *Checker) deepStruct(n *ast.StructDecl) *tat.StructDecl {
	fields := make([]tat.StructField, len(n.Fields))
	for i, f := range n.Fields {
		t, _ := scope.ResolveTypeName(c.scope, f.Type)
		fields[i] = tat.StructField{Name: f.Name, Type: t, Sp: f.Sp}
	}
	return &tat.StructDecl{Name: n.Name, Fields: fields, Sp: n.Sp}
}

func (c *Checker) deepInstance(n *ast.InstanceBlock) *tat.InstanceBlock {
	out := &tat.InstanceBlock{Sp: n.Sp}
	target, ok := scope.ResolveTypeName(c.scope, n.TargetType)
	if !ok {
		return out
	}
	out.TargetType = target
	for _, m := range n.Methods {
		decl, _ := c.deepFunction(m, target)
		out.Methods = append(out.Methods, decl)
	}
	for _, e := range n.Externs {
		t, _ := scope.ResolveTypeName(c.scope, e.Type)
		out.Externs = append(out.Externs, &tat.Declaration{Name: e.Name, Type: t, Sp: e.Sp})
	}
	return out
}
