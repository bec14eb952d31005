package analyzer

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/symbols"
)

// gen lowers n bottom-up: children first, then n itself. parent is the
// node n is a child of. Function definitions are lowered separately.
func (c *Context) gen(n ast.Node, parent ast.Node) error {
	if d, ok := n.(*ast.DefStmt); !ok || !d.DefinesFunctions() {
		for _, ch := range ast.Children(n) {
			if err := c.gen(ch, n); err != nil {
				return err
			}
		}
	}
	i := c.info(n)
	switch x := n.(type) {
	case ast.Statement:
		return c.genStmt(x, i)
	case ast.Expression:
		return c.genExpr(x, parent, i)
	}
	diagnostics.Fatal(n.GetToken(), "cannot lower %T", n)
	return nil
}

func (c *Context) genStmt(s ast.Statement, i *AInfo) error {
	switch x := s.(type) {
	case *ast.LabelStmt:
		target := labelTarget(x)
		i.Code.Label(entryLabel(target, c.info(target)), x.Stmt)
		i.Code.Append(&c.info(x.Stmt).Code)
	case *ast.GotoStmt:
		i.Code.Goto(i.Label[0], x)
	case *ast.NoopStmt, *ast.WithStmt, *ast.UseStmt:
	case *ast.DefStmt:
		if x.VarDef() {
			return c.genVardef(x, i)
		}
	case *ast.ExprStmt:
		i.Code.Append(&c.info(x.Expr).Code)
	case *ast.ReturnStmt:
		fn := ast.ParentFunction(x)
		diagnostics.Assert(fn != nil, x.GetToken(), "return outside of a function")
		f := c.sym(fn)
		if x.Expr != nil {
			f.FunReturnsValue = true
			ei := c.info(x.Expr)
			i.Code.Append(&ei.Code)
			i.Code.Move(ei.Rval, f.Ret, x)
		} else {
			i.Code.Move(c.b.void, f.Ret, x)
		}
		i.Code.Goto(i.Label[0], x)
	case *ast.BlockStmt:
		for _, st := range x.Body {
			i.Code.Append(&c.info(st).Code)
		}
	case *ast.WhileLoopStmt:
		c.genWhile(x, i)
	case *ast.ForLoopStmt:
		c.genFor(x, i)
	case *ast.CondStmt:
		c.genCond(i, x.Cond, x.Then, x.Else, x)
	default:
		diagnostics.Fatal(s.GetToken(), "unhandled statement %T", s)
	}
	return nil
}

// genCond emits a conditional. A missing else branch is empty.
func (c *Context) genCond(i *AInfo, cond ast.Expression, then, els ast.Node, n ast.Node) {
	ci, ti := c.info(cond), c.info(then)
	var eb *ir.Block
	var elseVal symbols.ID
	if els != nil {
		ei := c.info(els)
		eb, elseVal = &ei.Code, ei.Rval
	}
	i.Code.If(&ci.Code, ci.Rval, &ti.Code, ti.Rval, eb, elseVal, i.Rval, n)
}

func (c *Context) blockCode(b *ast.BlockStmt) *ir.Block {
	var code ir.Block
	if b == nil {
		return &code
	}
	for _, st := range b.Body {
		code.Append(&c.info(st).Code)
	}
	return &code
}

func (c *Context) genWhile(s *ast.WhileLoopStmt, i *AInfo) {
	ci := c.info(s.Condition)
	i.Code.Loop(i.Label[0], i.Label[1], ci.Rval, nil, &ci.Code, nil, c.blockCode(s.Body), s)
}

func (c *Context) genFor(s *ast.ForLoopStmt, i *AInfo) {
	var indices []symbols.ID
	for _, d := range s.Indices {
		indices = append(indices, c.symOf(d.Sym))
	}
	c.genForallInternal(i, c.blockCode(s.Body), indices, []ast.Expression{s.Domain}, s)
}

// genForallInternal emits a loop of indices over domains: the start index
// before the loop, the validity test as condition and the next index at
// the end of body.
func (c *Context) genForallInternal(i *AInfo, body *ir.Block, indices []symbols.ID, domains []ast.Expression, n ast.Node) {
	var setup, cond ir.Block
	var doms []symbols.ID
	for _, d := range domains {
		di := c.info(d)
		setup.Append(&di.Code)
		doms = append(doms, di.Rval)
	}
	c.prim(&setup, n, c.sel.domainStartIndex, doms, indices...)

	condVal := c.newSym(n)
	c.prim(&cond, n, c.sel.domainValidIndex, append(append([]symbols.ID(nil), doms...), indices...), condVal)

	var loopBody ir.Block
	loopBody.Append(body)
	c.prim(&loopBody, n, c.sel.domainNextIndex, append(append([]symbols.ID(nil), doms...), indices...), indices...)

	if i.Label[0] == nil {
		i.Label[0] = c.Program.AllocLabel()
		i.Label[1] = c.Program.AllocLabel()
	}
	i.Code.Loop(i.Label[0], i.Label[1], condVal, &setup, &cond, nil, &loopBody, n)
}

func (c *Context) genVardef(s *ast.DefStmt, i *AInfo) error {
	for _, d := range s.Defs {
		v, ok := d.Sym.(*ast.VarSymbol)
		if !ok {
			continue
		}
		if err := c.genOneVardef(v, d); err != nil {
			return err
		}
		i.Code.Append(&c.info(d).Code)
	}
	return nil
}

// genOneVardef emits the initialization of v at its definition def.
func (c *Context) genOneVardef(v *ast.VarSymbol, def *ast.DefExpr) error {
	typ := v.Type
	if ut, ok := typ.(*ast.UserType); ok {
		typ = ut.Definition
	}
	if typ == nil {
		typ = c.Prelude.Unknown
	}
	id := c.symOf(v)
	s := c.Table.Get(id)
	i := c.info(def)
	i.Sym = id

	switch v.VarClass {
	case ast.VarNormal, ast.VarRef:
	case ast.VarConfig:
		s.IsExternal = true
	default:
		return c.errorAt(diagnostics.ErrA004, def.GetToken())
	}
	if v.ConsClass == ast.ConsConst {
		s.IsReadOnly = true
	}
	if !c.isUnknown(typ) {
		t := c.Table.Unalias(c.symOf(typ))
		if !ast.IsReferenceType(typ) {
			s.Type = t
			s.IsVar = true
		} else {
			s.MustImplement = t
		}
	}

	fn := ast.ParentFunction(ast.GetStmt(def))
	init := def.Init
	tb := ast.TypeInfoOf(typ)
	thisConstructor := fn != nil && fn.IsConstructor && v.IsThis()
	thisIsInit := false
	if dv, ok := tb.DefaultVal.(*ast.Variable); ok && dv.Var == ast.Symbol(v) {
		thisIsInit = true
	}

	standard := false
	if s.IsVar && !c.scalarOrReference(typ) {
		switch x := typ.(type) {
		case *ast.VariableType, *ast.MetaType:
			typ = c.Prelude.Unknown
			tb = ast.TypeInfoOf(typ)
		case *ast.SeqType, *ast.UserType:
			standard = true
		case *ast.DomainType, *ast.IndexType:
			tmp := c.newSym(def)
			c.send(&i.Code, def, []symbols.ID{c.b.new, c.symOf(x)}, tmp)
			i.Code.Move(tmp, id, def)
		case *ast.StructuralType, *ast.TupleType:
			if fn != nil && fn.This == v {
				tmp := c.newSym(def)
				c.send(&i.Code, def, []symbols.ID{c.b.new, c.symOf(x)}, tmp)
				i.Code.Move(tmp, id, def)
			} else {
				standard = true
			}
		case *ast.ArrayType:
			c.genAlloc(id, s.Type, i, def, v.IsThis())
		default:
			diagnostics.Fatal(def.GetToken(), "impossible variable type %T", typ)
		}
	} else if init == nil {
		standard = true
	}

	if standard {
		switch {
		case !v.NoDefaultInit:
			switch {
			case c.opts.NewVarDef:
				tmp := c.newSym(def)
				c.prim(&i.Code, def, c.sel.vardef, []symbols.ID{c.symOf(typ)}, tmp)
				i.Code.Move(tmp, id, def)
			case !thisIsInit && tb.DefaultVal != nil:
				i.Code.Move(c.defaultVal(typ), id, def)
			case tb.DefaultConstructor != nil:
				tmp := c.newSym(def)
				c.send(&i.Code, def, []symbols.ID{c.ctorName(typ)}, tmp)
				i.Code.Move(tmp, id, def)
			case !thisConstructor:
				i.Code.Move(c.b.nil, id, def)
			}
		case c.isUnknown(typ):
			i.Code.Move(c.b.nil, id, def)
		}
	}

	if init == nil {
		return nil
	}
	ii := c.info(init)
	if at, ok := typ.(*ast.ArrayType); ok {
		i.Code.Append(&ii.Code)
		c.genSetArray(id, at, ii.Rval, i, def)
		return nil
	}
	val := ii.Rval
	switch {
	case c.isScalar(typ):
		i.Code.Append(&ii.Code)
		if typ != c.Prelude.TypeInfo(init) {
			val = c.genCoerce(val, s.Type, &i.Code, def)
		}
		i.Code.Move(val, id, def)
	case !v.NoDefaultInit && !ast.IsReferenceType(typ) && !c.isUnknown(typ):
		old := val
		val = c.newSym(init)
		c.send(&ii.Code, init, []symbols.ID{c.makeSymbol("="), id, old}, val)
		i.Code.Append(&ii.Code)
	default:
		i.Code.Append(&ii.Code)
		i.Code.Move(val, id, def)
	}
	return nil
}

// genAlloc emits the allocation of a value of type typ into s. Records
// are built by their constructor unless s is the receiver; arrays also
// get their elements initialized.
func (c *Context) genAlloc(s, typ symbols.ID, i *AInfo, n ast.Node, isThis bool) {
	t := c.typeNode(typ)
	sent := false
	if st, ok := t.(*ast.StructuralType); ok && (st.Kind == ast.StructRecord || st.Kind == ast.StructUnion) && !isThis {
		c.send(&i.Code, n, []symbols.ID{c.ctorName(st)}, s)
		sent = true
	}
	if !sent {
		tmp := c.newSym(n)
		c.send(&i.Code, n, []symbols.ID{c.b.new, typ}, tmp)
		i.Code.Move(tmp, s, n)
	}
	at, ok := t.(*ast.ArrayType)
	if !ok {
		return
	}
	et := at.ElementType
	etb := ast.TypeInfoOf(et)
	var val symbols.ID
	switch {
	case isArray(et):
		val = c.newSym(n)
		c.genAlloc(val, c.symOf(et), i, n, false)
	case etb.DefaultVal != nil:
		val = c.newSym(n)
		i.Code.Move(c.defaultVal(et), val, n)
	case etb.DefaultConstructor != nil:
		val = c.newSym(n)
		c.send(&i.Code, n, []symbols.ID{c.ctorName(et)}, val)
	default:
		val = c.b.nil
	}
	c.genSetArray(s, at, val, i, n)
}

func isArray(t ast.Type) bool {
	_, ok := t.(*ast.ArrayType)
	return ok
}

// genSetArray stores val at the start index of array and returns the
// result of the store.
func (c *Context) genSetArray(array symbols.ID, at *ast.ArrayType, val symbols.ID, i *AInfo, n ast.Node) symbols.ID {
	diagnostics.Assert(at.DomainType != nil, at.GetToken(), "array type without domain")
	idx := c.newSym(n)
	c.prim(&i.Code, n, c.sel.domainStartIndex, []symbols.ID{c.symOf(at.DomainType)}, idx)
	res := c.newSym(n)
	c.prim(&i.Code, n, c.sel.arraySet, []symbols.ID{array, idx, val}, res)
	return res
}
