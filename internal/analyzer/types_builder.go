package analyzer

import (
	"fmt"

	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/funvibe/lowerkit/internal/typesystem"
)

func (c *Context) buildTypes(nodes []ast.Node) {
	var types []ast.Type
	for _, n := range nodes {
		if t, ok := n.(ast.Type); ok {
			types = append(types, t)
		}
	}
	for _, t := range types {
		c.buildType(t)
	}
}

// buildType derives the canonical type symbol of t from its syntactic
// category. Building a type twice has no further effect.
func (c *Context) buildType(t ast.Type) symbols.ID {
	if _, ok := c.syms[t]; !ok {
		c.mapNode(t)
	}
	if c.builtTypes[t] {
		return c.syms[t]
	}
	c.builtTypes[t] = true

	id := c.syms[t]
	tab := c.Table
	tb := ast.TypeInfoOf(t)
	if tb.Symbol != nil {
		tab.PairMeta(id, c.symOf(tb.Symbol))
	}
	tab.MakeMetaType(id)
	if tb.DefaultVal != nil {
		c.defaultVal(t)
	}
	s := tab.Get(id)

	switch x := t.(type) {
	case *ast.UnknownType:
		s.Kind = typesystem.KindUnknown
	case *ast.BuiltinType:
	case *ast.FnType:
		s.Kind = typesystem.KindFun
	case *ast.EnumType:
		s.Kind = typesystem.KindTagged
		tab.InheritsAdd(id, c.b.enumElement)
		for i, v := range x.Values {
			e := c.sym(v)
			tab.InheritsAdd(e.ID, id)
			e.Type = id
			e.MetaType = e.ID
			e.Imm = typesystem.IntImm(int64(i))
			e.IsConstant = true
			if !symbols.Contains(s.Has, e.ID) {
				s.Has = append(s.Has, e.ID)
			}
		}
	case *ast.DomainType:
		c.buildRecordType(id, c.b.domain)
	case *ast.IndexType:
		c.buildRecordType(id, c.b.index)
		s.Element = c.newElement(x, c.symOf(x.IdxType))
		if x.DomainType != nil {
			s.Domain = c.symOf(x.DomainType)
		}
	case *ast.ArrayType:
		c.buildRecordType(id, c.b.array)
		s.Element = c.newElement(x, c.symOf(x.ElementType))
		diagnostics.Assert(x.DomainType != nil, x.GetToken(), "array type without domain")
		s.Domain = c.symOf(x.DomainType)
	case *ast.TupleType:
		s.Kind = typesystem.KindProduct
		tab.InheritsAdd(id, c.b.tuple)
	case *ast.UserType:
		s.Kind = typesystem.KindAlias
		s.Alias = c.symOf(x.Definition)
	case *ast.LikeType:
		if v, ok := x.Expr.(*ast.Variable); ok && v.Var != nil {
			if vt := ast.Base(v.Var).Type; !c.Prelude.IsUnknown(vt) {
				s.Kind = typesystem.KindAlias
				s.Alias = c.symOf(vt)
				break
			}
		}
		diagnostics.Fatal(x.GetToken(), "No analysis support for 'like'")
	case *ast.SeqType:
		s.Element = c.Table.New("").ID
		c.buildRecordType(id, c.b.sequence)
	case *ast.StructuralType:
		s.Kind = typesystem.KindRecord
		if x.Kind == ast.StructRecord || x.Kind == ast.StructUnion {
			s.IsValueClass = true
		}
		if x.Kind == ast.StructUnion {
			s.IsUnionClass = true
		}
		if x.ParentStruct != nil {
			tab.InheritsAdd(id, c.symOf(x.ParentStruct))
		} else {
			tab.InheritsAdd(id, c.b.object)
		}
		if id == c.b.sequence && s.Element == symbols.None {
			s.Element = c.Table.New("").ID
		}
	case *ast.MetaType:
		if x.Base == nil || ast.TypeInfoOf(x.Base).Symbol == nil {
			diagnostics.Fatal(x.GetToken(), "meta type of an anonymous type")
		}
		c.syms[t] = c.symOf(ast.TypeInfoOf(x.Base).Symbol)
	case *ast.VariableType:
		s.Kind = typesystem.KindVariable
		m := tab.Get(s.MetaType)
		m.Kind = typesystem.KindNone
		m.Type = id
	case *ast.NilType:
	case *ast.SumType:
		s.Kind = typesystem.KindLUB
		for _, m := range x.Components {
			s.Has = append(s.Has, c.symOf(m))
		}
	default:
		diagnostics.Fatal(t.GetToken(), "unhandled type %T", t)
	}
	if tb.ParentType != nil {
		tab.MustImplementAndSpecialize(c.syms[t], c.symOf(tb.ParentType))
	}
	return c.syms[t]
}

func (c *Context) buildRecordType(id, parent symbols.ID) {
	c.Table.Get(id).Kind = typesystem.KindRecord
	if parent != symbols.None {
		c.Table.InheritsAdd(id, parent)
	}
}

// newElement allocates the element placeholder of a container type.
func (c *Context) newElement(t ast.Type, typ symbols.ID) symbols.ID {
	e := c.Table.New("")
	e.FunctionScope = true
	e.Type = typ
	e.IsVar = true
	e.IsExternal = true
	e.Pos = t.GetToken()
	return e.ID
}

// defaultVal returns the value symbol of the default value of t,
// lowering a literal default on first use.
func (c *Context) defaultVal(t ast.Type) symbols.ID {
	dv := ast.TypeInfoOf(t).DefaultVal
	if v, ok := dv.(*ast.Variable); ok {
		return c.symOf(v.Var)
	}
	diagnostics.Assert(isLiteral(dv), t.GetToken(), "default value of %s is not a literal", ast.TypeName(t))
	i := c.info(dv)
	if i.Rval == symbols.None {
		c.genLiteral(dv, i)
	}
	return i.Rval
}

// buildClasses adds the fields of records and tuples to their members.
func (c *Context) buildClasses(nodes []ast.Node) {
	type class struct {
		id     symbols.ID
		fields []*ast.VarSymbol
	}
	var classes []class
	for _, n := range nodes {
		switch x := n.(type) {
		case *ast.StructuralType:
			classes = append(classes, class{c.symOf(x), x.Fields})
		case *ast.TupleType:
			classes = append(classes, class{c.symOf(x), x.Fields})
		}
	}
	c.tracef("build_classes: %d classes", len(classes))
	for _, cl := range classes {
		s := c.Table.Get(cl.id)
		for _, f := range cl.fields {
			fs := c.symOf(f)
			if !symbols.Contains(s.Has, fs) {
				s.Has = append(s.Has, fs)
			}
		}
	}
}

// basicType returns the numeric primitive t stands for, or None.
func (c *Context) basicType(t symbols.ID) symbols.ID {
	u := c.Table.Get(c.Table.Unalias(t))
	if u == nil || u.NumKind == typesystem.NumNone {
		return symbols.None
	}
	return u.ID
}

// MakeLUBType returns the least upper bound of types. A bound of two
// distinct numeric primitives is a soft abort. The bound of a single
// type is that type and of none is void; otherwise it is the sum type of
// the members, built once per member set.
func (c *Context) MakeLUBType(types []symbols.ID) symbols.ID {
	var basic symbols.ID
	var nodes []ast.Type
	seen := make(map[ast.Type]bool)
	for _, t := range types {
		if b := c.basicType(t); b != symbols.None {
			if basic == symbols.None {
				basic = b
			} else if basic != b {
				diagnostics.Fail("mixed primitive types")
			}
		}
		if n, ok := c.Table.Get(t).Node.(ast.Type); ok && !seen[n] {
			seen[n] = true
			nodes = append(nodes, n)
		}
	}
	switch len(nodes) {
	case 0:
		return c.b.void
	case 1:
		return c.symOf(nodes[0])
	}
	sum := c.Prelude.FindOrMakeSumType(nodes)
	if id, ok := c.syms[sum]; ok {
		return id
	}
	var members []symbols.ID
	for _, n := range nodes {
		members = append(members, c.symOf(n))
	}
	lub := c.Table.New(ast.TypeName(sum))
	lub.Node = sum
	lub.GlobalScope = true
	lub.Kind = typesystem.KindLUB
	lub.Has = members
	for _, m := range members {
		c.Table.InheritsAdd(m, lub.ID)
	}
	c.syms[sum] = lub.ID
	c.nodes = append(c.nodes, sum)
	c.builtTypes[sum] = true
	meta := c.Table.MakeMetaType(lub.ID)
	c.Table.Get(meta).Node = sum.Symbol
	c.syms[sum.Symbol] = meta
	c.nodes = append(c.nodes, sum.Symbol)
	lub.Type = lub.ID
	return lub.ID
}

// getTupleType returns the product type of n unknown components,
// building it once per arity.
func (c *Context) getTupleType(n int) symbols.ID {
	if id, ok := c.tuples[n]; ok {
		return id
	}
	scope := ast.NewScope(ast.ScopeClass, c.Prelude.Scope)
	tt := &ast.TupleType{}
	ts := &ast.TypeSymbol{SymBase: ast.SymBase{Name: fmt.Sprintf("tuple%d", n), Type: tt, Scope: c.Prelude.Scope}}
	tt.Symbol = ts
	for i := 0; i < n; i++ {
		tt.Components = append(tt.Components, c.Prelude.Unknown)
		f := &ast.VarSymbol{SymBase: ast.SymBase{Name: fmt.Sprintf("f%d", i+1), Type: c.Prelude.Unknown, Scope: scope}}
		tt.Fields = append(tt.Fields, f)
	}
	c.mapNode(ts)
	c.mapNode(tt)
	for _, f := range tt.Fields {
		c.mapNode(f)
	}
	c.buildClasses([]ast.Node{tt})
	c.finalizeSymbols()
	c.finalizeTypes()
	id := c.buildType(tt)
	c.Table.Get(id).Type = id
	c.buildTypeHierarchy()
	c.tuples[n] = id
	return id
}
