package analyzer

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/config"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/symbols"
)

var assignOpNames = map[ast.AssignKind]string{
	ast.AssignPlus:   "+",
	ast.AssignMinus:  "-",
	ast.AssignMult:   "*",
	ast.AssignDiv:    "/",
	ast.AssignBitAnd: "&",
	ast.AssignBitOr:  "|",
	ast.AssignBitXor: "^",
}

func (c *Context) genAssign(s *ast.AssignOp, i *AInfo) error {
	switch l := s.Left.(type) {
	case *ast.TupleExpr:
		return c.genDestruct(l, s.Right, s, i)
	case *ast.MemberAccess:
		return c.genSetMember(l, s, i)
	case *ast.ParenOpExpr:
		return c.genSet(l, s.Right, i)
	}

	li := c.info(s.Left)
	i.Code.Append(&li.Code)
	rval := c.genAssignOp(s, i)

	var symbol ast.Symbol
	var vs *ast.VarSymbol
	if v, ok := s.Left.(*ast.Variable); ok && v.Var != nil {
		symbol = v.Var
		vs, _ = v.Var.(*ast.VarSymbol)
	}
	var symType ast.Type
	var typ symbols.ID
	if symbol != nil {
		symType = ast.Base(symbol).Type
		if symType != nil {
			typ = c.sym(symType).Type
		}
	}
	f := parentFn(s)
	getterSetter := f != nil && (f.IsSetter || f.IsGetter)
	// the left side is never a member access here
	constructorAssignment := false
	uninitUnknown := false
	if symbol != nil && c.isUnknown(symType) {
		def := ast.Base(symbol).DefPoint
		uninitUnknown = def == nil || def.Init == nil
	}
	operatorEqual := !(constructorAssignment || getterSetter ||
		(vs != nil && vs.NoDefaultInit) ||
		uninitUnknown ||
		(symbol != nil && (ast.Base(symbol).IsThis() || c.scalarOrReference(symType))))

	if operatorEqual {
		old := rval
		rval = c.newSym(s)
		told := c.newSym(s)
		i.Code.Move(old, told, s)
		c.send(&i.Code, s, []symbols.ID{c.makeSymbol(config.AssignOp), li.Rval, told}, rval)
	}
	if li.Sym == symbols.None {
		return c.errorAt(diagnostics.ErrA002, s.GetToken())
	}
	if symbol != nil && symType != nil && c.isScalar(symType) && !operatorEqual &&
		symType != c.Prelude.TypeInfo(s.Right) {
		rval = c.genCoerce(rval, typ, &i.Code, s)
	}
	i.Code.Move(rval, i.Rval, s)
	if symbol == nil || c.isUnknown(symType) || !operatorEqual {
		i.Code.Move(i.Rval, li.Sym, s)
	}
	return nil
}

// genAssignOp emits the right side of s, combined with the left value
// for compound operators, and returns the assigned value.
func (c *Context) genAssignOp(s *ast.AssignOp, i *AInfo) symbols.ID {
	li, ri := c.info(s.Left), c.info(s.Right)
	i.Rval = c.newSym(s)
	i.Sym = li.Sym
	i.Code.Append(&ri.Code)
	rval := c.newSym(s)
	if op, ok := assignOpNames[s.Op]; ok {
		c.send(&i.Code, s, []symbols.ID{c.makeSymbol(op), li.Rval, ri.Rval}, rval)
	} else {
		i.Code.Move(ri.Rval, rval, s)
	}
	return rval
}

// genDestructSym builds the pattern matched by a tuple on the left of an
// assignment.
func (c *Context) genDestructSym(t *ast.TupleExpr, s *ast.AssignOp) (symbols.ID, error) {
	p := c.Table.New("")
	p.Pos = s.GetToken()
	p.IsPattern = true
	c.Table.MustImplementAndSpecialize(p.ID, c.b.tuple)
	for _, e := range t.Exprs {
		switch x := e.(type) {
		case *ast.TupleExpr:
			sub, err := c.genDestructSym(x, s)
			if err != nil {
				return symbols.None, err
			}
			p.Has = append(p.Has, sub)
		case *ast.Variable:
			p.Has = append(p.Has, c.symOf(x.Var))
		default:
			return symbols.None, c.errorAt(diagnostics.ErrA003, e.GetToken())
		}
	}
	return p.ID, nil
}

func (c *Context) genDestruct(left *ast.TupleExpr, right ast.Expression, s *ast.AssignOp, i *AInfo) error {
	pattern, err := c.genDestructSym(left, s)
	if err != nil {
		return err
	}
	i.Rval = pattern
	ri := c.info(right)
	i.Code.Append(&ri.Code)
	c.send(&i.Code, s, []symbols.ID{c.b.destruct, ri.Rval}, i.Rval)
	return nil
}

// genSetMember assigns to base.member through the setter method
// "=member", or through the low level accessor inside setters and for
// receiver fields in constructors.
func (c *Context) genSetMember(ma *ast.MemberAccess, s *ast.AssignOp, i *AInfo) error {
	fn := parentFn(ma)
	bi := c.info(ma.Base)
	i.Code.Append(&c.info(ma).Code)
	rhs := c.genAssignOp(s, i)
	name := ast.Base(ma.Member).Name
	var send *ir.Send
	if fn == nil || (!fn.IsSetter && (!fn.IsConstructor || !isThisMemberAccess(ma))) {
		sel := c.makeSymbol(config.SetterPrefix + name)
		send = c.send(&i.Code, s, []symbols.ID{sel, c.sel.method, bi.Rval, rhs}, i.Rval)
	} else {
		send = c.send(&i.Code, s, []symbols.ID{c.b.operator, bi.Rval,
			c.makeSymbol(config.SetMemberOp), c.makeSymbol(name), rhs}, i.Rval)
	}
	send.Partial = ir.PartialNever
	return nil
}

// genSet assigns rhs through the "=this" method of the base of p, or
// through the setter of an unresolved name.
func (c *Context) genSet(p *ast.ParenOpExpr, rhs ast.Expression, i *AInfo) error {
	return c.genParenOp(p, rhs, i)
}

// genParenOp lowers a call, array reference or tuple select. With rhs it
// lowers an assignment to one.
func (c *Context) genParenOp(p *ast.ParenOpExpr, rhs ast.Expression, i *AInfo) error {
	bi := c.info(p.Base)
	if _, ok := p.Base.(*ast.MemberAccess); ok && rhs == nil && bi.Send != nil {
		if len(p.Args) == 0 {
			i.Rval = bi.Rval
			i.Code.Append(&bi.Code)
			bi.Send.Partial = ir.PartialNever
			return nil
		}
		bi.Send.Partial = ir.PartialAlways
	}
	i.Rval = c.newSym(p)
	i.Code.Append(&bi.Code)

	var baseVar ast.Symbol
	if v, ok := p.Base.(*ast.Variable); ok {
		baseVar = v.Var
	}
	_, unresolved := baseVar.(*ast.UnresolvedSymbol)
	name := c.Table.Name(bi.Sym)

	var rvals []symbols.ID
	if rhs != nil {
		if unresolved {
			rvals = append(rvals, c.makeSymbol(config.SetterPrefix+name))
		} else {
			rvals = append(rvals, c.sel.setThis, c.sel.method, bi.Rval)
		}
	}
	for _, a := range p.Args {
		ai := c.info(a)
		i.Code.Append(&ai.Code)
		rvals = append(rvals, ai.Rval)
	}
	if rhs != nil {
		ri := c.info(rhs)
		i.Code.Append(&ri.Code)
		rvals = append(rvals, ri.Rval)
	}

	var base symbols.ID
	switch {
	case name == config.PrimitiveCallName:
		if prim, ok := primitiveName(p.Args, 0); ok {
			rvals[0] = c.Table.Builtin(prim)
			if rvals[0] == symbols.None {
				rvals[0] = c.makeSymbol(prim)
			}
		} else if len(p.Args) == 3 {
			if _, ok := primitiveName(p.Args, 1); ok {
				rvals[1] = c.makeSymbol(c.Table.Get(rvals[1]).Constant)
				base = c.b.operator
			} else {
				base = c.b.primitive
			}
		} else {
			base = c.b.primitive
		}
	case unresolved:
		if rhs == nil {
			base = c.makeSymbol(name)
		}
	default:
		if fn, ok := baseVar.(*ast.FnSymbol); ok {
			base = c.symOf(fn)
		} else if rhs == nil {
			base = bi.Rval
		}
	}

	var args []symbols.ID
	if base != symbols.None {
		args = append(args, base)
	}
	args = append(args, rvals...)
	send := c.send(&i.Code, p, args, i.Rval)
	send.Partial = ir.PartialNever
	i.Sym = i.Rval
	return nil
}
