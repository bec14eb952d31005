package ast

import (
	"testing"

	"github.com/funvibe/lowerkit/internal/token"
	"github.com/nalgeon/be"
)

type testModule struct {
	mod  *ModuleSymbol
	line int
}

func newTestModule() *testModule {
	mod := &ModuleSymbol{}
	mod.Name = "m"
	mod.ModScope = NewScope(ScopeModule, nil)
	return &testModule{mod: mod}
}

func (m *testModule) tok() token.Token {
	m.line++
	return token.Token{File: "m", Line: m.line, Column: 1}
}

// fn defines name(formals) { return body } in the module.
func (m *testModule) fn(name string, formals ...string) *FnSymbol {
	f := &FnSymbol{}
	f.Token = m.tok()
	f.Name = name
	f.Scope = m.mod.ModScope
	f.ParamScope = NewScope(ScopeParam, m.mod.ModScope)
	for _, n := range formals {
		p := &ParamSymbol{}
		p.Token = m.tok()
		p.Name = n
		p.Scope = f.ParamScope
		f.Formals = append(f.Formals, p)
	}
	d := &DefExpr{Sym: f}
	d.Token = f.Token
	st := &DefStmt{Defs: []*DefExpr{d}}
	st.Token = f.Token
	m.mod.Stmts = append(m.mod.Stmts, st)
	m.mod.ModScope.AddVisible(f)
	return f
}

func (m *testModule) ret(e Expression) *BlockStmt {
	r := &ReturnStmt{Expr: e}
	r.Token = m.tok()
	b := &BlockStmt{Body: []Statement{r}}
	b.Token = r.Token
	return b
}

func forwarded(t *testing.T, w *FnSymbol) *ParenOpExpr {
	t.Helper()
	r, ok := w.Body.Body[len(w.Body.Body)-1].(*ReturnStmt)
	be.True(t, ok)
	call, ok := r.Expr.(*ParenOpExpr)
	be.True(t, ok)
	return call
}

func TestLink(t *testing.T) {
	m := newTestModule()
	f := m.fn("f", "x")
	ref := varRef(f.Formals[0])
	f.Body = m.ret(ref)
	Link(m.mod, m.mod.Stmts...)

	def := m.mod.Stmts[0].(*DefStmt)
	be.Equal(t, f.DefPoint, def.Defs[0])
	be.Equal(t, GetStmt(f.DefPoint), Statement(def))
	be.True(t, ParentSymbolOf(def) == Symbol(m.mod))

	r := f.Body.Body[0]
	be.Equal(t, ParentFunction(r), f)
	be.Equal(t, GetStmt(ref), r)
}

func TestClone(t *testing.T) {
	m := newTestModule()
	g := m.fn("g")
	f := m.fn("f", "x")
	call := &ParenOpExpr{Kind: CallFn, Base: varRef(g), Args: []Expression{varRef(f.Formals[0])}}
	call.Token = m.tok()
	f.Body = m.ret(call)
	Link(m.mod, m.mod.Stmts...)

	n, cm := Clone(f)
	be.True(t, n != f)
	be.True(t, n.Formals[0] != f.Formals[0])
	be.Equal(t, cm.Get(f.Formals[0]), Node(n.Formals[0]))
	be.Equal(t, cm.Get(f.DefPoint), Node(n.DefPoint))
	be.True(t, cm.Len() > 3)

	got := n.Body.Body[0].(*ReturnStmt).Expr.(*ParenOpExpr)
	// outer references are shared, owned ones are copied
	be.True(t, got.Base.(*Variable).Var == Symbol(g))
	be.True(t, got.Args[0].(*Variable).Var == Symbol(n.Formals[0]))
	be.Equal(t, ParentFunction(n.Body.Body[0]), n)

	// the original is untouched
	be.True(t, call.Args[0].(*Variable).Var == Symbol(f.Formals[0]))
	be.Equal(t, ParentFunction(f.Body.Body[0]), f)
}

func TestOrderWrapper(t *testing.T) {
	m := newTestModule()
	f := m.fn("f", "a", "b")
	f.Body = m.ret(varRef(f.Formals[0]))
	m.fn("after")
	Link(m.mod, m.mod.Stmts...)

	a, b := f.Formals[0], f.Formals[1]
	w := f.OrderWrapper(map[Symbol]Symbol{a: b, b: a})
	be.Equal(t, w.Formals[0].Name, "b")
	be.Equal(t, w.Formals[1].Name, "a")

	// the body passes arguments in the original order
	call := forwarded(t, w)
	be.True(t, call.Base.(*Variable).Var == Symbol(f))
	be.True(t, call.Args[0].(*Variable).Var == Symbol(w.Formals[1]))
	be.True(t, call.Args[1].(*Variable).Var == Symbol(w.Formals[0]))

	// installed right after the original and visible with it
	be.Equal(t, len(m.mod.Stmts), 3)
	be.Equal(t, m.mod.Stmts[1], Statement(GetStmt(w.DefPoint)))
	be.Equal(t, m.mod.ModScope.Visible("f"), []*FnSymbol{f, w})
	be.Equal(t, ParentFunction(w.Body.Body[0]), w)
}

func TestDefaultWrapper(t *testing.T) {
	m := newTestModule()
	f := m.fn("f", "a", "b")
	b := f.Formals[1]
	b.Init = varRef(f.Formals[0])
	f.Body = m.ret(varRef(b))
	Link(m.mod, m.mod.Stmts...)

	w := f.DefaultWrapper(map[Symbol]bool{b: true})
	be.Equal(t, len(w.Formals), 1)
	be.Equal(t, len(w.Body.Body), 2)

	// the omitted formal is a local initialized from the default, which
	// refers to the wrapper's own formal
	def := w.Body.Body[0].(*DefStmt).Defs[0]
	be.Equal(t, def.Sym.(*VarSymbol).Name, "b")
	be.True(t, def.Init.(*Variable).Var == Symbol(w.Formals[0]))
	call := forwarded(t, w)
	be.True(t, call.Args[1].(*Variable).Var == def.Sym)
}

func TestInstantiateGenericSubstitutes(t *testing.T) {
	m := newTestModule()
	tv := &VariableType{}
	ts := &TypeSymbol{}
	ts.Name = "T"
	ts.Type = tv
	tv.Symbol = ts
	f := m.fn("id", "x")
	x := f.Formals[0]
	x.Type = tv
	x.IsGeneric = true
	x.TypeVariable = ts
	f.Body = m.ret(varRef(x))
	Link(m.mod, m.mod.Stmts...)

	p := NewPrelude()
	n, cm := f.InstantiateGeneric(map[Type]Type{tv: p.Integer})
	nx := cm.Get(x).(*ParamSymbol)
	be.Equal(t, nx.Type, Type(p.Integer))
	be.True(t, !nx.IsGeneric)
	be.True(t, !n.IsGeneric())
	be.True(t, f.IsGeneric())
	be.Equal(t, m.mod.ModScope.Visible("id"), []*FnSymbol{f, n})
}

func TestFindOrMakeSumType(t *testing.T) {
	p := NewPrelude()
	a := p.FindOrMakeSumType([]Type{p.Integer, p.String})
	b := p.FindOrMakeSumType([]Type{p.String, p.Integer})
	c := p.FindOrMakeSumType([]Type{p.Integer, p.Float})
	be.True(t, a == b)
	be.True(t, a != c)
	be.Equal(t, len(a.Components), 2)
}
