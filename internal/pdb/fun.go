// Package pdb holds the installed functions of a compilation: the
// callable units the flow engine dispatches to, their provenance and
// dispatch metadata.
package pdb

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/flow"
	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/symbols"
)

// DefaultArg is the lowered default value of one formal.
type DefaultArg struct {
	Expr ast.Expression
	Code ir.Block
	Val  symbols.ID
}

// Fun is an installed function.
type Fun struct {
	Sym  symbols.ID
	Node *ast.FnSymbol

	// ArgSyms maps argument positions, starting at 1, to formal symbols.
	// Position 1 is the selector of named functions.
	ArgSyms map[int]symbols.ID
	// PositionalArgPositions lists the keys of ArgSyms in order.
	PositionalArgPositions []int

	// Wraps is the function this one specializes.
	Wraps *Fun

	// DefaultArgs is keyed by formal position, starting at 1.
	DefaultArgs map[int]*DefaultArg

	// VecOfOne is the single-candidate list for call sites that name
	// this function directly.
	VecOfOne []*Fun

	Calls map[*flow.PNode][]*Fun
}

// NewFun wraps the function symbol sym.
func NewFun(sym symbols.ID, node *ast.FnSymbol) *Fun {
	return &Fun{
		Sym:         sym,
		Node:        node,
		ArgSyms:     make(map[int]symbols.ID),
		DefaultArgs: make(map[int]*DefaultArg),
		Calls:       make(map[*flow.PNode][]*Fun),
	}
}

// BuildArgPositions indexes the formals of the function symbol.
func (f *Fun) BuildArgPositions(tab *symbols.Table) {
	s := tab.Get(f.Sym)
	f.PositionalArgPositions = f.PositionalArgPositions[:0]
	for i, id := range s.Has {
		f.ArgSyms[i+1] = id
		f.PositionalArgPositions = append(f.PositionalArgPositions, i+1)
	}
}

// Root follows the wraps chain to the function that has no Wraps.
func (f *Fun) Root() *Fun {
	for f.Wraps != nil {
		f = f.Wraps
	}
	return f
}

// Depth is the length of the wraps chain.
func (f *Fun) Depth() int {
	n := 0
	for w := f.Wraps; w != nil; w = w.Wraps {
		n++
	}
	return n
}

// One returns the memoized candidate list holding the root of the wraps
// chain.
func (f *Fun) One() []*Fun {
	if f.VecOfOne == nil {
		f.VecOfOne = []*Fun{f.Root()}
	}
	return f.VecOfOne
}
