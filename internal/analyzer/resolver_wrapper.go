package analyzer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/pdb"
	"github.com/funvibe/lowerkit/internal/symbols"
)

// Context implements the resolver callbacks.
var _ pdb.Callbacks = (*Context)(nil)

// argSymbol returns the source formal at position pos of fun.
func (c *Context) argSymbol(fun *pdb.Fun, pos int) ast.Symbol {
	id, ok := fun.ArgSyms[pos]
	if !ok {
		return nil
	}
	s, _ := c.Table.Get(id).Node.(ast.Symbol)
	return s
}

// OrderWrapper installs a wrapper of m.Fun that reorders the actuals as
// the match bound them.
func (c *Context) OrderWrapper(m *pdb.Match) (*pdb.Fun, error) {
	fndef := m.Fun.Node
	if fndef == nil {
		return nil, nil
	}
	formalToActual := make(map[ast.Symbol]ast.Symbol)
	for fp, ap := range m.FormalToActual {
		s1, s2 := c.argSymbol(m.Fun, fp), c.argSymbol(m.Fun, ap)
		if s1 != nil && s2 != nil {
			formalToActual[s1] = s2
		}
	}
	return c.wrap(m, fndef.OrderWrapper(formalToActual), nil)
}

// CoercionWrapper installs a wrapper of m.Fun that accepts the coerced
// types at the matched positions.
func (c *Context) CoercionWrapper(m *pdb.Match) (*pdb.Fun, error) {
	fndef := m.Fun.Node
	if fndef == nil {
		return nil, nil
	}
	coercions := make(map[ast.Symbol]*ast.TypeSymbol)
	for _, p := range m.Fun.PositionalArgPositions {
		symbol := c.argSymbol(m.Fun, p)
		typ, ok := m.CoercionSubstitutions[p]
		if symbol == nil || !ok {
			continue
		}
		if t := c.symToType(typ); t != nil {
			coercions[symbol] = ast.TypeInfoOf(t).Symbol
		}
	}
	return c.wrap(m, fndef.CoercionWrapper(coercions), nil)
}

// DefaultWrapper installs a wrapper of m.Fun that supplies the default
// arguments the call site omits.
func (c *Context) DefaultWrapper(m *pdb.Match) (*pdb.Fun, error) {
	fndef := m.Fun.Node
	if fndef == nil {
		return nil, nil
	}
	defaults := make(map[ast.Symbol]bool)
	for _, p := range m.DefaultArgs {
		if symbol := c.argSymbol(m.Fun, p); symbol != nil {
			defaults[symbol] = true
		}
	}
	return c.wrap(m, fndef.DefaultWrapper(defaults), nil)
}

// InstantiateGeneric installs the instance of the generic m.Fun under
// the substitutions of the match.
func (c *Context) InstantiateGeneric(m *pdb.Match) (*pdb.Fun, error) {
	fndef := m.Fun.Node
	if fndef == nil {
		return nil, nil
	}
	subs := make(map[ast.Type]ast.Type)
	for k, v := range m.GenericSubstitutions {
		if t := c.genericType(k); t != nil {
			subs[t] = c.symToType(v)
		}
	}
	f, cmap := fndef.InstantiateGeneric(subs)
	return c.wrap(m, f, cmap)
}

func (c *Context) wrap(m *pdb.Match, f *ast.FnSymbol, cmap *ast.CloneMap) (*pdb.Fun, error) {
	return c.installNewFunction(f, cmap, m.Fun)
}

// genericType is the type a generic substitution key stands for: a type,
// the type a type symbol defines, or the type variable of a formal.
func (c *Context) genericType(id symbols.ID) ast.Type {
	switch x := c.Table.Get(id).Node.(type) {
	case ast.Type:
		return x
	case *ast.TypeSymbol:
		return x.Type
	case *ast.ParamSymbol:
		if x.TypeVariable != nil {
			return x.TypeVariable.Type
		}
	}
	return nil
}

func (c *Context) symToType(id symbols.ID) ast.Type {
	switch x := c.Table.Get(id).Node.(type) {
	case ast.Type:
		return x
	case *ast.TypeSymbol:
		return x.Type
	}
	return nil
}

// NewSym allocates an unscoped symbol.
func (c *Context) NewSym(name string) symbols.ID {
	return c.Table.New(name).ID
}

// FormalToGeneric returns the type variable of a generic formal, or the
// formal itself.
func (c *Context) FormalToGeneric(formal symbols.ID) symbols.ID {
	if p, ok := c.Table.Get(formal).Node.(*ast.ParamSymbol); ok && p.IsGeneric && p.TypeVariable != nil {
		return c.symOf(p.TypeVariable.Type)
	}
	return formal
}

// Instantiate returns the instance of the generic type or formal s under
// subs, or None when subs does not bind s.
func (c *Context) Instantiate(s symbols.ID, subs map[symbols.ID]symbols.ID) symbols.ID {
	if subs[s] == symbols.None {
		return symbols.None
	}
	tsubs := make(map[ast.Type]ast.Type, len(subs))
	for k, v := range subs {
		if t := c.genericType(k); t != nil {
			tsubs[t] = c.symToType(v)
		}
	}
	t := c.genericType(s)
	if t == nil {
		return symbols.None
	}
	return c.symOf(c.instantiateType(t, tsubs))
}

// instantiateType replaces the type variables of t by their
// substitutions. Sequences, arrays and classes mentioning a substituted
// variable are copied once per distinct substitution.
func (c *Context) instantiateType(t ast.Type, subs map[ast.Type]ast.Type) ast.Type {
	if t == nil {
		return nil
	}
	if r, ok := subs[t]; ok && r != nil {
		return r
	}
	if !c.mentions(t, subs, map[ast.Type]bool{}) {
		return t
	}
	key := c.instanceKey(t, subs)
	if n, ok := c.instances[key]; ok {
		return n
	}
	var n ast.Type
	switch x := t.(type) {
	case *ast.SeqType:
		cp := *x
		cp.Symbol = nil
		cp.ElementType = c.instantiateType(x.ElementType, subs)
		n = &cp
	case *ast.ArrayType:
		cp := *x
		cp.Symbol = nil
		cp.ElementType = c.instantiateType(x.ElementType, subs)
		n = &cp
	case *ast.StructuralType:
		cp := *x
		ts := &ast.TypeSymbol{}
		if x.Symbol != nil {
			ts.SymBase = x.Symbol.SymBase
		}
		ts.Type = &cp
		cp.Symbol = ts
		c.instances[key] = &cp
		cp.Fields = make([]*ast.VarSymbol, len(x.Fields))
		for i, f := range x.Fields {
			nf := *f
			nf.Type = c.instantiateType(f.Type, subs)
			nf.DefPoint = nil
			cp.Fields[i] = &nf
		}
		n = &cp
	default:
		return t
	}
	c.instances[key] = n
	c.Table.Get(c.symOf(n)).Instantiates = c.symOf(t)
	return n
}

// mentions reports whether t refers to a substituted type.
func (c *Context) mentions(t ast.Type, subs map[ast.Type]ast.Type, seen map[ast.Type]bool) bool {
	if t == nil || seen[t] {
		return false
	}
	seen[t] = true
	if _, ok := subs[t]; ok {
		return true
	}
	switch x := t.(type) {
	case *ast.SeqType:
		return c.mentions(x.ElementType, subs, seen)
	case *ast.ArrayType:
		return c.mentions(x.ElementType, subs, seen)
	case *ast.StructuralType:
		for _, f := range x.Fields {
			if c.mentions(f.Type, subs, seen) {
				return true
			}
		}
	}
	return false
}

func (c *Context) instanceKey(t ast.Type, subs map[ast.Type]ast.Type) string {
	parts := make([]string, 0, len(subs))
	for k, v := range subs {
		parts = append(parts, fmt.Sprintf("%d=%d", c.symOf(k), c.symOf(v)))
	}
	sort.Strings(parts)
	return fmt.Sprintf("%d[%s]", c.symOf(t), strings.Join(parts, ","))
}
