package analyzer

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/funvibe/lowerkit/internal/typesystem"
)

// nodeSym is the symbol a query about n and s is asked for: s when
// given, else the value of n.
func (c *Context) nodeSym(n ast.Node, s ast.Symbol) symbols.ID {
	if s != nil {
		return c.syms[s]
	}
	switch n.(type) {
	case ast.Expression, ast.Statement:
		if i := c.infos[n]; i != nil {
			return i.Symbol()
		}
		return symbols.None
	}
	return c.syms[n]
}

// ConstantInfo returns the constants that reach the value of n, or of s
// when s is not nil.
func (c *Context) ConstantInfo(n ast.Node, s ast.Symbol) []symbols.ID {
	if c.results == nil {
		return nil
	}
	id := c.nodeSym(n, s)
	if id == symbols.None {
		return nil
	}
	av, ok := c.results.Var(id)
	if !ok {
		return nil
	}
	var out []symbols.ID
	for _, cs := range c.results.Out(av) {
		k := c.results.CreationSetSym(cs)
		if ks := c.Table.Get(k); ks != nil && ks.IsConstant && !symbols.Contains(out, k) {
			out = append(out, k)
		}
	}
	return out
}

// FunctionIsUsed reports whether the engine analyzed fn in any entry
// set. Without results every function counts as used.
func (c *Context) FunctionIsUsed(fn *ast.FnSymbol) bool {
	if c.results == nil {
		return true
	}
	id, ok := c.syms[fn]
	if !ok {
		return false
	}
	return len(c.results.EntrySets(id)) > 0
}

// TypeIsUsed reports whether values of the type t defines can exist.
// Scalar, nil, sum, index and variable types always can; other types
// need a creation point. Without results every type counts as used.
func (c *Context) TypeIsUsed(t *ast.TypeSymbol) bool {
	if c.results == nil {
		return true
	}
	id, ok := c.syms[t]
	if !ok {
		return false
	}
	s := c.Table.Get(id)
	if !s.IsMetaType {
		return false
	}
	switch x := t.Type.(type) {
	case *ast.NilType, *ast.SumType, *ast.IndexType, *ast.VariableType:
		return true
	case *ast.UserType:
		if x.Definition != nil {
			if d := ast.TypeInfoOf(x.Definition).Symbol; d != nil && c.TypeIsUsed(d) {
				return true
			}
		}
	}
	if c.Prelude.IsScalarType(t.Type) {
		return true
	}
	return len(c.results.Creators(s.MetaType)) > 0
}

// ASTIsUsed reports whether the value of n, or s when s is not nil, got
// a concrete type from the engine.
func (c *Context) ASTIsUsed(n ast.Node, s ast.Symbol) bool {
	if c.results == nil {
		return false
	}
	id := c.nodeSym(n, s)
	if id == symbols.None {
		return false
	}
	av, ok := c.results.Var(id)
	return ok && c.results.Type(av) != symbols.None
}

// ResolveMember returns the offset and type of field v in the instances
// of t. The offset is -1 when no instance has the field.
func (c *Context) ResolveMember(t *ast.StructuralType, v *ast.VarSymbol) (offset int, typ ast.Type, err error) {
	defer diagnostics.Recover(&err)
	id, ok := c.syms[t]
	if c.results == nil || !ok {
		return -1, c.Prelude.Unknown, nil
	}
	offset, typ = c.memberInfo(id, v.Name)
	return offset, typ, nil
}

// ResolveMemberAccess resolves the member e reads through its accessor
// send. The offset is -1 when e was not lowered to one.
func (c *Context) ResolveMemberAccess(e *ast.MemberAccess) (offset int, typ ast.Type, err error) {
	defer diagnostics.Recover(&err)
	i := c.infos[e]
	if c.results == nil || i == nil || len(i.PNodes) == 0 {
		return -1, c.Prelude.Unknown, nil
	}
	rv := i.PNodes[0].Rvals
	if len(rv) < 4 || rv[0] != c.b.operator {
		return -1, c.Prelude.Unknown, nil
	}
	obj := c.Table.Get(rv[1]).Type
	if av, ok := c.results.Var(rv[1]); ok {
		if t := c.results.Type(av); t != symbols.None {
			obj = t
		}
	}
	offset, typ = c.memberInfo(obj, c.Table.Name(rv[3]))
	return offset, typ, nil
}

// memberInfo looks name up in every creation set of typ, or of the
// members of typ when it is a sum. All of them must agree on the offset.
func (c *Context) memberInfo(typ symbols.ID, name string) (int, ast.Type) {
	types := []symbols.ID{typ}
	if s := c.Table.Get(typ); s != nil && s.Kind == typesystem.KindLUB {
		types = s.Has
	}
	offset := -1
	var found []symbols.ID
	for _, t := range types {
		for _, cs := range c.results.Creators(t) {
			m, ok := c.results.Member(cs, name)
			if !ok {
				continue
			}
			if offset >= 0 && offset != m.Offset {
				diagnostics.Fail("mismatched member offsets")
			}
			offset = m.Offset
			if !symbols.Contains(found, m.Type) {
				found = append(found, m.Type)
			}
		}
	}
	switch len(found) {
	case 0:
		return offset, c.Prelude.Unknown
	case 1:
		return offset, c.toASTType(found[0])
	}
	return offset, c.toASTType(c.MakeLUBType(found))
}
