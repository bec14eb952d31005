package ast

// Link fills the parent back references of every statement and expression
// reachable from stmts. owner is the module or function that owns them.
// Function bodies defined along the way are linked with the function as
// their owner, and every DefExpr becomes the DefPoint of its symbol.
func Link(owner Symbol, stmts ...Statement) {
	fn, _ := owner.(*FnSymbol)
	l := linker{fn: fn, owner: owner}
	for _, s := range stmts {
		l.stmt(s)
	}
}

// LinkFunction links the body and default arguments of fn. def is the
// statement that defines fn; it may be nil.
func LinkFunction(fn *FnSymbol, def Statement) {
	for _, p := range fn.Formals {
		if p.Init != nil && def != nil {
			outer := linker{fn: ParentFunction(def), owner: ParentSymbolOf(def)}
			outer.expr(p.Init, def)
		}
	}
	if fn.Body != nil {
		Link(fn, fn.Body)
	}
}

type linker struct {
	fn    *FnSymbol
	owner Symbol
}

func (l linker) stmt(s Statement) {
	if s == nil {
		return
	}
	b := s.stmtBase()
	b.ParentFn = l.fn
	b.ParentSymbol = l.owner
	for _, c := range s.children(false) {
		switch x := c.(type) {
		case Statement:
			l.stmt(x)
		case Expression:
			l.expr(x, s)
		}
	}
}

func (l linker) expr(e Expression, s Statement) {
	if e == nil {
		return
	}
	e.exprBase().Stmt = s
	if d, ok := e.(*DefExpr); ok && d.Sym != nil {
		d.Sym.symBase().DefPoint = d
		if fn, ok := d.Sym.(*FnSymbol); ok {
			LinkFunction(fn, s)
		}
	}
	for _, c := range e.children(false) {
		if x, ok := c.(Expression); ok {
			l.expr(x, s)
		}
	}
}

// Walk calls visit for n and every node reachable from it through
// AllChildren, each node once, parents before children.
func Walk(n Node, visit func(Node)) {
	seen := make(map[Node]bool)
	var walk func(Node)
	walk = func(n Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		visit(n)
		for _, c := range n.children(true) {
			walk(c)
		}
	}
	walk(n)
}
