package analyzer

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/symbols"
)

// CallFind filters the callees CallInfo reports.
type CallFind int

const (
	FindAny CallFind = iota
	FindOperator
	FindFunction
)

// toASTType returns the type node of a type symbol, falling back to the
// node of its meta type, or unknown.
func (c *Context) toASTType(id symbols.ID) ast.Type {
	if id == symbols.None {
		return c.Prelude.Unknown
	}
	s := c.Table.Get(id)
	n := s.Node
	if n == nil && s.MetaType != symbols.None {
		n = c.Table.Get(s.MetaType).Node
	}
	switch x := n.(type) {
	case ast.Type:
		return x
	case *ast.TypeSymbol:
		if x.Type != nil {
			return x.Type
		}
	}
	return c.Prelude.Unknown
}

// TypeInfo returns the static type bound to a node: the type of the
// value of an expression or statement, or the type of a symbol.
func (c *Context) TypeInfo(n ast.Node) ast.Type {
	var id symbols.ID
	switch n.(type) {
	case ast.Expression, ast.Statement:
		i := c.infos[n]
		if i == nil {
			return c.Prelude.Unknown
		}
		id = i.Symbol()
	default:
		id = c.syms[n]
	}
	if id == symbols.None {
		return c.Prelude.Unknown
	}
	return c.toASTType(c.Table.Get(id).Type)
}

// ReturnTypeInfo returns the static type of the return value of fn.
func (c *Context) ReturnTypeInfo(fn *ast.FnSymbol) ast.Type {
	id, ok := c.syms[fn]
	if !ok {
		return c.Prelude.Unknown
	}
	ret := c.Table.Get(id).Ret
	if ret == symbols.None {
		return c.Prelude.Unknown
	}
	return c.toASTType(c.Table.Get(ret).Type)
}

// FunctionReturnsVoid reports whether no return statement of fn returns
// a value.
func (c *Context) FunctionReturnsVoid(fn *ast.FnSymbol) bool {
	return !c.sym(fn).FunReturnsValue
}

// ElementTypeInfo returns the element type of a container type.
func (c *Context) ElementTypeInfo(t *ast.TypeSymbol) ast.Type {
	id, ok := c.syms[t.Type]
	if !ok {
		return c.Prelude.Unknown
	}
	el := c.Table.Get(id).Element
	if el == symbols.None {
		return c.Prelude.Unknown
	}
	return c.toASTType(c.Table.Get(el).Type)
}

// StructuralSubtypes returns the types that specialize t.
func (c *Context) StructuralSubtypes(t ast.Type) []ast.Type {
	var out []ast.Type
	for _, id := range c.sym(t).Specializers {
		s := c.Table.Get(id)
		tt, ok := s.Node.(ast.Type)
		diagnostics.Assert(ok, s.Pos, "subtype %s has no type node", s.Name)
		out = append(out, tt)
	}
	return out
}

// CallInfo returns the functions the engine dispatched the sends of e
// to. It returns nil when e is not code of an analyzed function. The
// callees must come from a single send.
func (c *Context) CallInfo(e ast.Expression, find CallFind) (fns []*ast.FnSymbol, err error) {
	defer diagnostics.Recover(&err)
	f := parentFn(e)
	if f == nil {
		return nil, nil
	}
	fun := c.funsByNode[f]
	i := c.infos[e]
	if fun == nil || i == nil {
		return nil, nil
	}
	found := -1
	for k, pn := range i.PNodes {
		for _, callee := range fun.Calls[pn] {
			fs := callee.Node
			diagnostics.Assert(fs != nil, e.GetToken(), "callee without a definition")
			switch find {
			case FindOperator:
				if !isOperatorName(fs.Name) {
					continue
				}
			case FindFunction:
				if isOperatorName(fs.Name) {
					continue
				}
			}
			if found >= 0 && found != k {
				diagnostics.Fail("bad call to call_info")
			}
			found = k
			fns = append(fns, fs)
		}
	}
	return fns, nil
}
