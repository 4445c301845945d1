package typecheck

import (
	"github.com/whylang/wyc/ast"
	"github.com/whylang/wyc/diag"
	"github.com/whylang/wyc/scope"
	"github.com/whylang/wyc/types"
)

// shallow populates scope constants, the struct type table, and instance
// method tables from every top-level item's signature, without entering any
// body. This is what lets a function call a sibling declared later in the
// file, and lets a struct be referenced before its declaration (spec.md
// §4.5's "forward references among top-level functions are thus resolved").
func (c *Checker) shallow(prog *ast.Program) {
	for _, item := range prog.Items {
		switch item := item.(type) {
		case *ast.StructDecl:
			c.shallowStruct(item)
		}
	}
	for _, item := range prog.Items {
		switch item := item.(type) {
		case *ast.FunctionDecl:
			c.shallowFunction(item)
		case *ast.ConstDecl:
			c.shallowConst(item)
		case *ast.Declaration:
			c.shallowDeclaration(item)
		case *ast.InstanceBlock:
			c.shallowInstance(item)
		}
	}
}

func (c *Checker) shallowStruct(n *ast.StructDecl) {
	fields := make([]types.Field, 0, len(n.Fields))
	for _, f := range n.Fields {
		t, ok := scope.ResolveTypeName(c.scope, f.Type)
		if !ok {
			c.bag.Add(diag.UndefinedType, f.Sp, "undefined type in field %q of struct %q", f.Name, n.Name)
			continue
		}
		fields = append(fields, types.Field{Name: f.Name, Type: t})
	}
	st := types.StructOf(n.Name, fields)
	if !c.scope.AddType(n.Name, st) {
		c.bag.Add(diag.RedefinedConstant, n.Sp, "struct %q redefines an existing type", n.Name)
	}
}

func (c *Checker) functionSignature(params []ast.Param, ret ast.TypeNameNode) (types.Resolved, bool) {
	paramTypes := make([]types.Resolved, 0, len(params))
	ok := true
	for _, p := range params {
		if p.Type == nil {
			continue // implicit `this` receiver, excluded from the Function type
		}
		t, resolved := scope.ResolveTypeName(c.scope, p.Type)
		if !resolved {
			ok = false
			continue
		}
		paramTypes = append(paramTypes, t)
	}
	retType := types.Void
	if ret != nil {
		t, resolved := scope.ResolveTypeName(c.scope, ret)
		if !resolved {
			ok = false
		} else {
			retType = t
		}
	}
	if !ok {
		return types.Resolved{}, false
	}
	return types.Function(paramTypes, retType), true
}

func (c *Checker) shallowFunction(n *ast.FunctionDecl) {
	fn, ok := c.functionSignature(n.Params, n.ReturnType)
	if !ok {
		c.bag.Add(diag.UndefinedType, n.Sp, "undefined type in signature of function %q", n.Name)
		return
	}
	if !c.scope.AddConstant(n.Name, fn) {
		c.bag.Add(diag.RedefinedFunction, n.Sp, "function %q is already defined", n.Name)
	}
}

func (c *Checker) shallowConst(n *ast.ConstDecl) {
	if n.Type == nil {
		c.bag.Add(diag.InvalidConstantType, n.Sp, "top-level constant %q requires a type annotation", n.Name)
		return
	}
	t, ok := scope.ResolveTypeName(c.scope, n.Type)
	if !ok {
		c.bag.Add(diag.UndefinedType, n.Sp, "undefined type for constant %q", n.Name)
		return
	}
	if !c.scope.AddConstant(n.Name, t) {
		c.bag.Add(diag.RedefinedConstant, n.Sp, "constant %q is already defined", n.Name)
	}
}

func (c *Checker) shallowDeclaration(n *ast.Declaration) {
	t, ok := scope.ResolveTypeName(c.scope, n.Type)
	if !ok {
		c.bag.Add(diag.UndefinedType, n.Sp, "undefined type in declaration of %q", n.Name)
		return
	}
	if !c.scope.AddConstant(n.Name, t) {
		c.bag.Add(diag.RedefinedConstant, n.Sp, "%q is already defined", n.Name)
	}
}

func (c *Checker) shallowInstance(n *ast.InstanceBlock) {
	target, ok := scope.ResolveTypeName(c.scope, n.TargetType)
	if !ok {
		c.bag.Add(diag.UndefinedType, n.Sp, "undefined instance target type")
		return
	}
	typeName := target.StructName()
	for _, m := range n.Methods {
		fn, ok := c.functionSignature(m.Params, m.ReturnType)
		if !ok {
			c.bag.Add(diag.UndefinedType, m.Sp, "undefined type in signature of method %q", m.Name)
			continue
		}
		if !c.scope.AddMethod(typeName, m.Name, fn) {
			c.bag.Add(diag.RedefinedMethod, m.Sp, "method %q is already defined on %s", m.Name, typeName)
		}
	}
	for _, e := range n.Externs {
		t, ok := scope.ResolveTypeName(c.scope, e.Type)
		if !ok {
			c.bag.Add(diag.UndefinedType, e.Sp, "undefined type in declaration of %q", e.Name)
			continue
		}
		if !c.scope.AddMethod(typeName, e.Name, t) {
			c.bag.Add(diag.RedefinedMethod, e.Sp, "method %q is already defined on %s", e.Name, typeName)
		}
	}
}
