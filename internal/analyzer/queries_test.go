package analyzer

import (
	"testing"

	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/flow"
	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/pdb"
	"github.com/nalgeon/be"
)

func TestTypeInfo(t *testing.T) {
	g := newProgram()
	f := g.fn("main")
	x := g.local("x", g.p.Integer)
	lit := g.num(7)
	s := g.str("hi")
	f.Body = g.block(g.def(x, lit), g.expr(s))
	c := g.analyze(t)

	tests := []struct {
		name string
		node ast.Node
		want ast.Type
	}{
		{"int literal", lit, g.p.Integer},
		{"string literal", s, g.p.String},
		{"typed variable", x, g.p.Integer},
		{"unmapped node", g.num(1), g.p.Unknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			be.Equal(t, c.TypeInfo(tt.node), tt.want)
		})
	}
	be.Equal(t, c.ReturnTypeInfo(f), ast.Type(g.p.Unknown))
	be.True(t, c.FunctionReturnsVoid(f))
}

func TestStructuralSubtypes(t *testing.T) {
	g := newProgram()
	base := g.class("Base")
	derived := g.class("Derived")
	derived.ParentStruct = base
	g.fn("main")
	c := g.analyze(t)

	be.Equal(t, c.StructuralSubtypes(base), []ast.Type{derived})
	be.Equal(t, len(c.StructuralSubtypes(derived)), 0)
}

func TestElementTypeInfo(t *testing.T) {
	g := newProgram()
	c := g.analyze(t)
	// the element of sequence has no declared type
	be.Equal(t, c.ElementTypeInfo(g.p.Sequence.Symbol), ast.Type(g.p.Unknown))
}

func TestCallInfo(t *testing.T) {
	g := newProgram()
	h := g.fn("h")
	f := g.fn("main")
	call := g.call(g.ref(h))
	f.Body = g.block(g.expr(call))
	c := g.analyze(t)

	i := c.Info(call)
	be.Equal(t, len(i.PNodes), 1)
	fun := c.DB.FunOf(c.SymOf(f))
	hFun := c.DB.FunOf(c.SymOf(h))

	got, err := c.CallInfo(call, FindAny)
	be.Err(t, err, nil)
	be.Equal(t, len(got), 0)

	fun.Calls[i.PNodes[0]] = []*pdb.Fun{hFun}
	got, err = c.CallInfo(call, FindAny)
	be.Err(t, err, nil)
	be.Equal(t, got, []*ast.FnSymbol{h})

	got, err = c.CallInfo(call, FindFunction)
	be.Err(t, err, nil)
	be.Equal(t, got, []*ast.FnSymbol{h})

	got, err = c.CallInfo(call, FindOperator)
	be.Err(t, err, nil)
	be.Equal(t, len(got), 0)

	// callees from two different sends
	extra := flow.NewPNode(&ir.Send{})
	i.PNodes = append(i.PNodes, extra)
	fun.Calls[extra] = []*pdb.Fun{hFun}
	_, err = c.CallInfo(call, FindAny)
	be.Err(t, err)
}

func TestCallInfoOutsideFunction(t *testing.T) {
	g := newProgram()
	c := g.analyze(t)
	got, err := c.CallInfo(g.num(1), FindAny)
	be.Err(t, err, nil)
	be.Equal(t, len(got), 0)
}
