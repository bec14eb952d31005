package flow

import (
	"testing"

	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/nalgeon/be"
)

func TestNewPNode(t *testing.T) {
	s := &ir.Send{Args: []symbols.ID{1, 2, 3}, Results: []symbols.ID{4}}
	pn := NewPNode(s)
	be.Equal(t, pn.Rvals, []symbols.ID{1, 2, 3})
	be.Equal(t, pn.Lvals, []symbols.ID{4})

	s.Args[0] = 9
	be.Equal(t, pn.Rvals[0], symbols.ID(1))
}

func TestRegistry(t *testing.T) {
	r := Registry{}
	calls := 0
	f := func(Engine, *PNode, EntrySet) { calls++ }

	be.True(t, r.Register("write", f))
	be.True(t, !r.Register("write", f))

	got, ok := r.Lookup("write")
	be.True(t, ok)
	got(nil, nil, 0)
	be.Equal(t, calls, 1)

	_, ok = r.Lookup("read")
	be.True(t, !ok)
}
