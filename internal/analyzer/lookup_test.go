package analyzer

import (
	"testing"

	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/pdb"
	"github.com/nalgeon/be"
)

func TestVisibleFunctions(t *testing.T) {
	g := newProgram()
	h := g.fn("h")
	hidden := g.declare("hidden")
	f := g.fn("main")
	call := g.call(g.ref(h))
	f.Body = g.block(g.expr(call))
	c := g.analyze(t)

	i := c.Info(call)
	hFun := c.DB.FunOf(c.SymOf(h))
	hiddenFun := c.DB.FunOf(c.SymOf(hidden))

	tests := []struct {
		name string
		arg0 string
		want []*pdb.Fun
	}{
		{"visible from module", "h", []*pdb.Fun{hFun}},
		{"not visible", "hidden", nil},
		{"unknown name", "nothing", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.VisibleFunctions(i, c.makeSymbol(tt.arg0))
			be.Equal(t, len(got), len(tt.want))
			for k := range tt.want {
				be.Equal(t, got[k], tt.want[k])
			}
		})
	}

	// a function symbol denotes exactly that function
	be.Equal(t, c.VisibleFunctions(i, c.SymOf(hidden)), []*pdb.Fun{hiddenFun})

	// candidate lists are computed once per scope and name
	first := c.VisibleFunctions(i, c.makeSymbol("h"))
	second := c.VisibleFunctions(i, c.makeSymbol("h"))
	be.Equal(t, len(c.visible[f.ParamScope]), 3)
	be.True(t, &first[0] == &second[0])
}

func TestVisibleFunctionsUniversal(t *testing.T) {
	g := newProgram()
	cls := g.class("C")
	m := g.declare("m")
	m.MethodType = ast.PrimaryMethod
	m.TypeBinding = cls.Symbol
	this := &ast.VarSymbol{}
	this.Token = g.tok()
	this.Name = "this"
	this.Type = cls
	this.Scope = m.ParamScope
	m.This = this

	f := g.fn("main", g.param("o", cls))
	call := g.call(g.ref(f))
	f.Body = g.block(g.expr(call))
	c := g.analyze(t)
	be.Err(t, c.FinalizeFunctions(), nil)

	mFun := c.DB.FunOf(c.SymOf(m))
	got := c.VisibleFunctions(c.Info(call), c.makeSymbol("m"))
	be.Equal(t, got, []*pdb.Fun{mFun})

	ms := c.Table.Get(mFun.Sym)
	be.Equal(t, ms.Self, c.SymOf(this))
	be.Equal(t, c.Table.Get(ms.Has[1]).MustSpecialize, c.sel.method)

	// finalizing twice does not add the method again
	be.Err(t, c.FinalizeFunctions(), nil)
	be.Equal(t, len(c.universal["m"]), 1)
}

func TestVisibleFunctionsWrapped(t *testing.T) {
	g := newProgram()
	a := g.param("a", g.p.Integer)
	b := g.param("b", g.p.Integer)
	f := g.fn("f", a, b)
	main := g.fn("main")
	call := g.call(g.ref(f), g.num(1), g.num(2))
	main.Body = g.block(g.expr(call))
	c := g.analyze(t)

	fun := c.DB.FunOf(c.SymOf(f))
	w, err := c.OrderWrapper(&pdb.Match{Fun: fun, FormalToActual: map[int]int{2: 3, 3: 2}})
	be.Err(t, err, nil)

	// a wrapper symbol resolves to the function it wraps
	be.Equal(t, c.VisibleFunctions(c.Info(call), w.Sym), []*pdb.Fun{fun})
}
