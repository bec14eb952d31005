package analyzer

import (
	"testing"

	"github.com/funvibe/lowerkit/internal/pdb"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/nalgeon/be"
)

func TestStoreRecordsProvenance(t *testing.T) {
	g := newProgram()
	g.c.Options().Database = ":memory:"
	be.Err(t, g.c.Open(), nil)
	defer g.c.Close()

	id, _ := g.generic()
	a := g.param("a", g.p.Integer)
	b := g.param("b", g.p.Integer)
	b.Init = g.num(2)
	f := g.fn("f", a, b)
	c := g.analyze(t)
	be.Err(t, c.FinalizeFunctions(), nil)

	idFun := c.DB.FunOf(c.SymOf(id))
	fFun := c.DB.FunOf(c.SymOf(f))

	inst, err := c.InstantiateGeneric(&pdb.Match{
		Fun:                  idFun,
		GenericSubstitutions: map[symbols.ID]symbols.ID{c.SymOf(id.Formals[0]): c.b.int64},
	})
	be.Err(t, err, nil)
	order, err := c.OrderWrapper(&pdb.Match{Fun: fFun, FormalToActual: map[int]int{2: 3, 3: 2}})
	be.Err(t, err, nil)
	def, err := c.DefaultWrapper(&pdb.Match{Fun: fFun, DefaultArgs: []int{3}})
	be.Err(t, err, nil)
	// a wrapper of a wrapper
	nested, err := c.OrderWrapper(&pdb.Match{Fun: def})
	be.Err(t, err, nil)

	rows, err := c.Store().Funs()
	be.Err(t, err, nil)
	bySym := make(map[int]pdb.FunRecord)
	for _, r := range rows {
		bySym[r.Sym] = r
	}

	tests := []struct {
		name  string
		fun   *pdb.Fun
		wraps *pdb.Fun
		depth int
	}{
		{"plain function", fFun, nil, 0},
		{"generic instance", inst, idFun, 1},
		{"order wrapper", order, fFun, 1},
		{"default wrapper", def, fFun, 1},
		{"nested wrapper", nested, def, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := bySym[int(tt.fun.Sym)]
			be.True(t, ok)
			want := 0
			if tt.wraps != nil {
				want = int(tt.wraps.Sym)
			}
			be.Equal(t, r.Wraps, want)
			be.Equal(t, r.Depth, tt.depth)
			be.Equal(t, r.Depth, tt.fun.Depth())
		})
	}
	be.Equal(t, len(rows), c.DB.Len())
}
