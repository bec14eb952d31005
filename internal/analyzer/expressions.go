package analyzer

import (
	"strconv"

	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/config"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/funvibe/lowerkit/internal/typesystem"
)

var unOpNames = map[ast.UnOpKind]string{
	ast.UnOpPlus:   "+",
	ast.UnOpMinus:  "-",
	ast.UnOpLogNot: "!",
	ast.UnOpBitNot: "~",
}

var binOpNames = map[ast.BinOpKind]string{
	ast.BinOpPlus:   "+",
	ast.BinOpMinus:  "-",
	ast.BinOpMult:   "*",
	ast.BinOpDiv:    "/",
	ast.BinOpMod:    "mod",
	ast.BinOpEqual:  "==",
	ast.BinOpLEqual: "<=",
	ast.BinOpGEqual: ">=",
	ast.BinOpGThan:  ">",
	ast.BinOpLThan:  "<",
	ast.BinOpNEqual: "!=",
	ast.BinOpBitAnd: "&",
	ast.BinOpBitOr:  "|",
	ast.BinOpBitXor: "^",
	ast.BinOpLogAnd: "and",
	ast.BinOpLogOr:  "or",
	ast.BinOpExp:    "**",
	ast.BinOpSeqCat: "#",
	ast.BinOpBy:     "by",
}

func (c *Context) genExpr(e ast.Expression, parent ast.Node, i *AInfo) error {
	switch x := e.(type) {
	case *ast.BoolLiteral, *ast.IntLiteral, *ast.FloatLiteral, *ast.ComplexLiteral, *ast.StringLiteral:
		c.genLiteral(x, i)
	case *ast.Variable:
		c.genVariable(x, parent, i)
	case *ast.VarInitExpr:
		c.genVarInit(x, i)
	case *ast.UserInitExpr:
		ei := c.info(x.Expr)
		i.Code.Append(&ei.Code)
		i.Rval = ei.Rval
	case *ast.DefExpr:
	case *ast.UnOp:
		oi := c.info(x.Operand)
		i.Rval = c.newSym(x)
		i.Code.Append(&oi.Code)
		c.send(&i.Code, x, []symbols.ID{c.b.operator, c.makeSymbol(unOpNames[x.Op]), oi.Rval}, i.Rval)
	case *ast.BinOp:
		li, ri := c.info(x.Left), c.info(x.Right)
		i.Rval = c.newSym(x)
		i.Code.Append(&li.Code)
		i.Code.Append(&ri.Code)
		c.send(&i.Code, x, []symbols.ID{c.makeSymbol(binOpNames[x.Op]), li.Rval, ri.Rval}, i.Rval)
	case *ast.MemberAccess:
		c.genGetMember(x, parent, i)
	case *ast.AssignOp:
		return c.genAssign(x, i)
	case *ast.SeqExpr:
		i.Rval = c.newSym(x)
		i.Sym = i.Rval
		var args []symbols.ID
		for _, a := range x.Exprs {
			ai := c.info(a)
			i.Code.Append(&ai.Code)
			args = append(args, ai.Rval)
		}
		c.prim(&i.Code, x, c.sel.makeSeq, args, i.Rval)
	case *ast.SimpleSeqExpr:
		c.genSimpleSeq(x, i)
	case *ast.FloodExpr:
		i.Rval = c.sel.flood
	case *ast.CompleteDimExpr:
		i.Rval = c.sel.completeDim
	case *ast.LetExpr:
		for _, d := range x.Defs {
			if d.Init == nil {
				continue
			}
			di := c.info(d.Init)
			i.Code.Append(&di.Code)
			i.Code.Move(di.Rval, c.symOf(d.Sym), d)
		}
		ii := c.info(x.Inner)
		i.Code.Append(&ii.Code)
		i.Rval = ii.Rval
	case *ast.CondExpr:
		i.Rval = c.newSym(x)
		c.genCond(i, x.Cond, x.Then, x.Else, x)
	case *ast.ForallExpr:
		c.genForallExpr(x, i)
	case *ast.ParenOpExpr:
		return c.genParenOp(x, nil, i)
	case *ast.CastExpr:
		ei := c.info(x.Expr)
		i.Rval = c.newSym(x)
		i.Code.Append(&ei.Code)
		c.prim(&i.Code, x, c.sel.cast, []symbols.ID{c.sym(x.NewType).MetaType, ei.Rval}, i.Rval)
	case *ast.CastLikeExpr:
		ei := c.info(x.Expr)
		i.Rval = c.newSym(x)
		i.Code.Append(&ei.Code)
		c.prim(&i.Code, x, c.sel.cast, []symbols.ID{c.metaOf(x.Variable), ei.Rval}, i.Rval)
	case *ast.ReduceExpr:
		c.genReduce(x, i)
	case *ast.TupleExpr:
		i.Rval = c.newSym(x)
		i.Sym = i.Rval
		var args []symbols.ID
		for _, a := range x.Exprs {
			ai := c.info(a)
			i.Code.Append(&ai.Code)
			args = append(args, ai.Rval)
		}
		c.prim(&i.Code, x, c.sel.makeTuple, args, i.Rval)
	case *ast.SizeofExpr:
		i.Rval = c.newSym(x)
		c.prim(&i.Code, x, c.sel.sizeof, []symbols.ID{c.metaOf(x.Variable)}, i.Rval)
	case *ast.NamedExpr:
		ai := c.info(x.Actual)
		i.Rval = c.newSym(x)
		i.Code.Append(&ai.Code)
		i.Code.Move(ai.Rval, i.Rval, x)
		c.Table.Get(i.Rval).ArgName = x.Name
	default:
		diagnostics.Fatal(e.GetToken(), "unhandled expression %T", e)
	}
	return nil
}

// genLiteral binds the constant of a literal.
func (c *Context) genLiteral(e ast.Expression, i *AInfo) {
	switch x := e.(type) {
	case *ast.BoolLiteral:
		i.Rval = c.makeConst(c.b.bool, literalText(x.Str, strconv.FormatBool(x.Val)), typesystem.BoolImm(x.Val))
	case *ast.IntLiteral:
		i.Rval = c.makeConst(c.b.int64, literalText(x.Str, strconv.FormatInt(x.Val, 10)), typesystem.IntImm(x.Val))
	case *ast.FloatLiteral:
		i.Rval = c.makeConst(c.b.float64, literalText(x.Str, strconv.FormatFloat(x.Val, 'g', -1, 64)), typesystem.FloatImm(x.Val))
	case *ast.ComplexLiteral:
		v := complex(x.Real, x.Imag)
		i.Rval = c.makeConst(c.b.complex64, literalText(x.Str, strconv.FormatComplex(v, 'g', -1, 128)), typesystem.ComplexImm(v))
	case *ast.StringLiteral:
		i.Rval = c.makeConst(c.b.string, x.Str, typesystem.StringImm(x.Str))
	}
}

func literalText(src, formatted string) string {
	if src != "" {
		return src
	}
	return formatted
}

// genVariable binds a reference. A type name denotes its type, or the
// meta type when it is the base of a member access.
func (c *Context) genVariable(v *ast.Variable, parent ast.Node, i *AInfo) {
	sym := c.symOf(v.Var)
	if ts, ok := v.Var.(*ast.TypeSymbol); ok && ts.Type != nil {
		sym = c.symOf(ts.Type)
		if _, ok := parent.(*ast.MemberAccess); ok {
			sym = c.Table.Get(sym).MetaType
		}
	}
	i.Sym = sym
	i.Rval = sym
}

// genVarInit produces the default value of the type of x.Expr.
func (c *Context) genVarInit(x *ast.VarInitExpr, i *AInfo) {
	t := c.Prelude.TypeInfo(x.Expr)
	tb := ast.TypeInfoOf(t)
	i.Rval = c.newSym(x)
	switch {
	case tb.DefaultVal != nil:
		i.Code.Move(c.defaultVal(t), i.Rval, x)
	case tb.DefaultConstructor != nil:
		c.send(&i.Code, x, []symbols.ID{c.ctorName(t)}, i.Rval)
	default:
		i.Code.Move(c.b.nil, i.Rval, x)
		c.Table.Get(i.Rval).Aspect = c.symOf(t)
	}
}

func (c *Context) genSimpleSeq(x *ast.SimpleSeqExpr, i *AInfo) {
	i.Rval = c.newSym(x)
	var args []symbols.ID
	for _, e := range []ast.Expression{x.Lo, x.Hi} {
		ei := c.info(e)
		i.Code.Append(&ei.Code)
		args = append(args, ei.Rval)
	}
	if x.Stride != nil {
		si := c.info(x.Stride)
		i.Code.Append(&si.Code)
		args = append(args, si.Rval)
	} else {
		args = append(args, c.makeConst(c.b.int64, "1", typesystem.IntImm(1)))
	}
	c.prim(&i.Code, x, c.sel.exprSimpleSeq, args, i.Rval)
}

func (c *Context) genForallExpr(x *ast.ForallExpr, i *AInfo) {
	i.Rval = c.newSym(x)
	if x.Body != nil {
		var indices []symbols.ID
		for _, d := range x.Indices {
			indices = append(indices, c.symOf(d.Sym))
		}
		var body ir.Block
		body.Append(&c.info(x.Body).Code)
		c.genForallInternal(i, &body, indices, x.Domains, x)
		return
	}
	var doms []symbols.ID
	for _, d := range x.Domains {
		di := c.info(d)
		i.Code.Append(&di.Code)
		doms = append(doms, di.Rval)
	}
	c.prim(&i.Code, x, c.sel.exprCreateDomain, doms, i.Rval)
}

func (c *Context) genReduce(x *ast.ReduceExpr, i *AInfo) {
	i.Rval = c.newSym(x)
	dim := c.b.nil
	if x.Dim != nil {
		di := c.info(x.Dim)
		i.Code.Append(&di.Code)
		dim = di.Rval
	}
	ai := c.info(x.Arg)
	i.Code.Append(&ai.Code)
	c.prim(&i.Code, x, c.sel.exprReduce, []symbols.ID{c.symOf(x.ReduceType), dim, ai.Rval}, i.Rval)
}

// genGetMember reads base.member. Outside getters and receiver access
// in constructors, and unless the access is the target of an assignment
// or a call, the read becomes a getter method send. Otherwise it is the
// low level accessor.
func (c *Context) genGetMember(x *ast.MemberAccess, parent ast.Node, i *AInfo) {
	fn := parentFn(x)
	getter := fn != nil && fn.IsGetter
	ctor := fn != nil && fn.IsConstructor
	inAssignOrCall := false
	switch parent.(type) {
	case *ast.AssignOp, *ast.ParenOpExpr:
		inAssignOrCall = true
	}
	bi := c.info(x.Base)
	member := c.makeSymbol(ast.Base(x.Member).Name)
	if !getter && (!ctor || !isThisMemberAccess(x)) && !inAssignOrCall {
		i.Rval = c.newSym(x)
		i.Code.Append(&bi.Code)
		s := c.send(&i.Code, x, []symbols.ID{member, c.sel.method, bi.Rval}, i.Rval)
		s.Partial = ir.PartialNever
		return
	}
	i.Rval = c.newSym(x)
	i.Sym = i.Rval
	i.Code.Append(&bi.Code)
	s := c.send(&i.Code, x, []symbols.ID{c.b.operator, bi.Rval, c.makeSymbol(config.GetMemberOp), member}, i.Rval)
	s.Partial = ir.PartialNever
	i.Send = s
}
