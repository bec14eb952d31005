package ast

// ClonePair records one node copied by Clone.
type ClonePair struct {
	Old Node
	New Node
}

// CloneMap maps every node copied by Clone to its copy, in copy order.
type CloneMap struct {
	pairs []ClonePair
	index map[Node]Node
}

func newCloneMap() *CloneMap {
	return &CloneMap{index: make(map[Node]Node)}
}

func (m *CloneMap) put(old, n Node) {
	m.pairs = append(m.pairs, ClonePair{Old: old, New: n})
	m.index[old] = n
}

// Get returns the copy of old, or nil if old was not copied.
func (m *CloneMap) Get(old Node) Node {
	if m == nil {
		return nil
	}
	return m.index[old]
}

// Pairs returns the copied nodes in copy order.
func (m *CloneMap) Pairs() []ClonePair {
	if m == nil {
		return nil
	}
	return m.pairs
}

// Len returns the number of copied nodes.
func (m *CloneMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.pairs)
}

// Clone deep copies fn: its formals, receiver, body and every symbol the
// body defines, including local types and nested functions. References to
// symbols defined outside fn are shared. The copy gets a fresh DefExpr and
// DefStmt and is linked; the returned map pairs every original node with
// its copy, the definition points included.
func Clone(fn *FnSymbol) (*FnSymbol, *CloneMap) {
	c := &cloner{m: newCloneMap(), owned: make(map[Symbol]bool)}
	c.own(fn)
	n := c.symbol(fn).(*FnSymbol)
	def := &DefExpr{Sym: n, Pragmas: clonePragmas(fn.DefPoint)}
	def.Token = fn.Token
	stmt := &DefStmt{Defs: []*DefExpr{def}}
	stmt.Token = fn.Token
	if fn.DefPoint != nil {
		def.Token = fn.DefPoint.Token
		c.m.put(fn.DefPoint, def)
		if old := fn.DefPoint.Stmt; old != nil {
			stmt.StmtBase = *old.stmtBase()
			c.m.put(old, stmt)
		}
	}
	n.DefPoint = def
	def.Stmt = stmt
	LinkFunction(n, stmt)
	return n, c.m
}

func clonePragmas(d *DefExpr) []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.Pragmas...)
}

type cloner struct {
	m     *CloneMap
	owned map[Symbol]bool
}

// own marks fn and every symbol defined within it as copied.
func (c *cloner) own(fn *FnSymbol) {
	c.owned[fn] = true
	for _, p := range fn.Formals {
		c.owned[p] = true
	}
	if fn.This != nil {
		c.owned[fn.This] = true
	}
	if fn.Body == nil {
		return
	}
	var visit func(n Node)
	visit = func(n Node) {
		switch x := n.(type) {
		case *DefExpr:
			c.ownDefined(x.Sym)
		case *LabelStmt:
			if x.Label != nil {
				c.owned[x.Label] = true
			}
		}
		for _, ch := range n.children(false) {
			visit(ch)
		}
	}
	visit(fn.Body)
}

func (c *cloner) ownDefined(s Symbol) {
	switch x := s.(type) {
	case nil:
	case *FnSymbol:
		c.own(x)
	case *TypeSymbol:
		c.owned[x] = true
		if st, ok := x.Type.(*StructuralType); ok {
			for _, f := range st.Fields {
				c.owned[f] = true
			}
		}
		if et, ok := x.Type.(*EnumType); ok {
			for _, v := range et.Values {
				c.owned[v] = true
			}
		}
	default:
		c.owned[s] = true
	}
}

func (c *cloner) symbol(s Symbol) Symbol {
	if s == nil {
		return nil
	}
	if n := c.m.Get(s); n != nil {
		return n.(Symbol)
	}
	if !c.owned[s] {
		return s
	}
	switch x := s.(type) {
	case *VarSymbol:
		n := *x
		c.m.put(x, &n)
		n.Type = c.typ(x.Type)
		n.Aspect = c.typ(x.Aspect)
		return &n
	case *ParamSymbol:
		n := *x
		c.m.put(x, &n)
		n.Type = c.typ(x.Type)
		n.Init = c.expr(x.Init)
		return &n
	case *LabelSymbol:
		n := *x
		c.m.put(x, &n)
		return &n
	case *EnumSymbol:
		n := *x
		c.m.put(x, &n)
		return &n
	case *TypeSymbol:
		n := *x
		c.m.put(x, &n)
		n.Type = c.copyType(x.Type, &n)
		return &n
	case *FnSymbol:
		n := *x
		c.m.put(x, &n)
		n.Formals = make([]*ParamSymbol, len(x.Formals))
		for i, p := range x.Formals {
			n.Formals[i] = c.symbol(p).(*ParamSymbol)
		}
		if x.This != nil {
			n.This = c.symbol(x.This).(*VarSymbol)
		}
		n.RetType = c.typ(x.RetType)
		if x.Body != nil {
			n.Body = c.stmt(x.Body).(*BlockStmt)
		}
		n.Pragmas = append([]string(nil), x.Pragmas...)
		return &n
	case *ModuleSymbol, *UnresolvedSymbol:
		return s
	}
	return s
}

// copyType copies the type a local TypeSymbol defines.
func (c *cloner) copyType(t Type, ts *TypeSymbol) Type {
	var n Type
	switch x := t.(type) {
	case nil:
		return nil
	case *StructuralType:
		cp := *x
		cp.Fields = make([]*VarSymbol, len(x.Fields))
		for i, f := range x.Fields {
			cp.Fields[i] = c.symbol(f).(*VarSymbol)
		}
		cp.Methods = append([]*FnSymbol(nil), x.Methods...)
		n = &cp
	case *EnumType:
		cp := *x
		cp.Values = make([]*EnumSymbol, len(x.Values))
		for i, v := range x.Values {
			cp.Values[i] = c.symbol(v).(*EnumSymbol)
		}
		n = &cp
	case *UserType:
		cp := *x
		n = &cp
	case *VariableType:
		cp := *x
		n = &cp
	case *TupleType:
		cp := *x
		n = &cp
	case *ArrayType:
		cp := *x
		n = &cp
	case *DomainType:
		cp := *x
		n = &cp
	case *IndexType:
		cp := *x
		n = &cp
	case *SeqType:
		cp := *x
		n = &cp
	default:
		return t
	}
	n.typeBase().Symbol = ts
	c.m.put(t, n)
	return n
}

func (c *cloner) typ(t Type) Type {
	if t == nil {
		return nil
	}
	if n := c.m.Get(t); n != nil {
		return n.(Type)
	}
	return t
}

func (c *cloner) stmts(ss []Statement) []Statement {
	if ss == nil {
		return nil
	}
	out := make([]Statement, len(ss))
	for i, s := range ss {
		out[i] = c.stmt(s)
	}
	return out
}

func (c *cloner) block(b *BlockStmt) *BlockStmt {
	if b == nil {
		return nil
	}
	return c.stmt(b).(*BlockStmt)
}

func (c *cloner) defs(ds []*DefExpr) []*DefExpr {
	if ds == nil {
		return nil
	}
	out := make([]*DefExpr, len(ds))
	for i, d := range ds {
		out[i] = c.expr(d).(*DefExpr)
	}
	return out
}

func (c *cloner) stmt(s Statement) Statement {
	if s == nil {
		return nil
	}
	var n Statement
	switch x := s.(type) {
	case *LabelStmt:
		cp := *x
		if x.Label != nil {
			cp.Label = c.symbol(x.Label).(*LabelSymbol)
		}
		cp.Stmt = c.stmt(x.Stmt)
		n = &cp
	case *GotoStmt:
		cp := *x
		if x.Label != nil {
			cp.Label = c.symbol(x.Label).(*LabelSymbol)
		}
		n = &cp
	case *NoopStmt:
		cp := *x
		n = &cp
	case *WithStmt:
		cp := *x
		cp.Expr = c.expr(x.Expr)
		n = &cp
	case *UseStmt:
		cp := *x
		cp.Expr = c.expr(x.Expr)
		n = &cp
	case *DefStmt:
		cp := *x
		cp.Defs = c.defs(x.Defs)
		n = &cp
	case *ExprStmt:
		cp := *x
		cp.Expr = c.expr(x.Expr)
		n = &cp
	case *ReturnStmt:
		cp := *x
		cp.Expr = c.expr(x.Expr)
		n = &cp
	case *BlockStmt:
		cp := *x
		cp.Body = c.stmts(x.Body)
		n = &cp
	case *WhileLoopStmt:
		cp := *x
		cp.Condition = c.expr(x.Condition)
		cp.Body = c.block(x.Body)
		n = &cp
	case *ForLoopStmt:
		cp := *x
		cp.Indices = c.defs(x.Indices)
		cp.Domain = c.expr(x.Domain)
		cp.Body = c.block(x.Body)
		n = &cp
	case *CondStmt:
		cp := *x
		cp.Cond = c.expr(x.Cond)
		cp.Then = c.stmt(x.Then)
		cp.Else = c.stmt(x.Else)
		n = &cp
	}
	c.m.put(s, n)
	return n
}

func (c *cloner) exprs(es []Expression) []Expression {
	if es == nil {
		return nil
	}
	out := make([]Expression, len(es))
	for i, e := range es {
		out[i] = c.expr(e)
	}
	return out
}

func (c *cloner) variable(v *Variable) *Variable {
	if v == nil {
		return nil
	}
	return c.expr(v).(*Variable)
}

func (c *cloner) expr(e Expression) Expression {
	if e == nil {
		return nil
	}
	var n Expression
	switch x := e.(type) {
	case *BoolLiteral:
		cp := *x
		n = &cp
	case *IntLiteral:
		cp := *x
		n = &cp
	case *FloatLiteral:
		cp := *x
		n = &cp
	case *ComplexLiteral:
		cp := *x
		n = &cp
	case *StringLiteral:
		cp := *x
		n = &cp
	case *Variable:
		cp := *x
		cp.Var = c.symbol(x.Var)
		n = &cp
	case *VarInitExpr:
		cp := *x
		cp.Expr = c.expr(x.Expr)
		n = &cp
	case *UserInitExpr:
		cp := *x
		cp.Expr = c.expr(x.Expr)
		n = &cp
	case *DefExpr:
		cp := *x
		cp.Sym = c.symbol(x.Sym)
		cp.Init = c.expr(x.Init)
		cp.Pragmas = append([]string(nil), x.Pragmas...)
		n = &cp
	case *UnOp:
		cp := *x
		cp.Operand = c.expr(x.Operand)
		n = &cp
	case *BinOp:
		cp := *x
		cp.Left = c.expr(x.Left)
		cp.Right = c.expr(x.Right)
		n = &cp
	case *MemberAccess:
		cp := *x
		cp.Base = c.expr(x.Base)
		cp.Member = c.symbol(x.Member)
		n = &cp
	case *AssignOp:
		cp := *x
		cp.Left = c.expr(x.Left)
		cp.Right = c.expr(x.Right)
		n = &cp
	case *SeqExpr:
		cp := *x
		cp.Exprs = c.exprs(x.Exprs)
		n = &cp
	case *SimpleSeqExpr:
		cp := *x
		cp.Lo = c.expr(x.Lo)
		cp.Hi = c.expr(x.Hi)
		cp.Stride = c.expr(x.Stride)
		n = &cp
	case *FloodExpr:
		cp := *x
		n = &cp
	case *CompleteDimExpr:
		cp := *x
		n = &cp
	case *LetExpr:
		cp := *x
		cp.Defs = c.defs(x.Defs)
		cp.Inner = c.expr(x.Inner)
		n = &cp
	case *CondExpr:
		cp := *x
		cp.Cond = c.expr(x.Cond)
		cp.Then = c.expr(x.Then)
		cp.Else = c.expr(x.Else)
		n = &cp
	case *ForallExpr:
		cp := *x
		cp.Indices = c.defs(x.Indices)
		cp.Domains = c.exprs(x.Domains)
		cp.Body = c.expr(x.Body)
		n = &cp
	case *ParenOpExpr:
		cp := *x
		cp.Base = c.expr(x.Base)
		cp.Args = c.exprs(x.Args)
		n = &cp
	case *CastExpr:
		cp := *x
		cp.NewType = c.typ(x.NewType)
		cp.Expr = c.expr(x.Expr)
		n = &cp
	case *CastLikeExpr:
		cp := *x
		cp.Variable = c.variable(x.Variable)
		cp.Expr = c.expr(x.Expr)
		n = &cp
	case *ReduceExpr:
		cp := *x
		cp.ReduceType = c.typ(x.ReduceType)
		cp.Dim = c.expr(x.Dim)
		cp.Arg = c.expr(x.Arg)
		n = &cp
	case *TupleExpr:
		cp := *x
		cp.Exprs = c.exprs(x.Exprs)
		n = &cp
	case *SizeofExpr:
		cp := *x
		cp.Variable = c.variable(x.Variable)
		n = &cp
	case *NamedExpr:
		cp := *x
		cp.Actual = c.expr(x.Actual)
		n = &cp
	}
	n.exprBase().Typ = c.typ(e.exprBase().Typ)
	c.m.put(e, n)
	return n
}
