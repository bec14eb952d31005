package analyzer

import (
	"testing"

	"github.com/funvibe/lowerkit/internal/config"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/flow"
	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/nalgeon/be"
)

type typeUpdate struct {
	av flow.AVar
	t  flow.AType
}

type creation struct {
	av  flow.AVar
	typ symbols.ID
}

// recorder is a flow engine that records what transfer functions ask of
// it. Abstract variables are the symbol IDs themselves; abstract types of
// whole types are their IDs, those of creation sets are negative.
type recorder struct {
	updates     []typeUpdate
	flows       [][2]flow.AVar
	containers  [][2]flow.AVar
	created     []creation
	out         map[flow.AVar][]flow.CreationSet
	csSym       map[flow.CreationSet]symbols.ID
	made        []symbols.ID
	constrained []flow.AVar
	dispatched  int
}

func newRecorder() *recorder {
	return &recorder{
		out:   make(map[flow.AVar][]flow.CreationSet),
		csSym: make(map[flow.CreationSet]symbols.ID),
	}
}

func (r *recorder) MakeAVar(v symbols.ID, es flow.EntrySet) flow.AVar {
	return flow.AVar(v)
}

func (r *recorder) UpdateIn(av flow.AVar, t flow.AType) {
	r.updates = append(r.updates, typeUpdate{av, t})
}

func (r *recorder) MakeAbstractType(typ symbols.ID) flow.AType {
	return flow.AType(typ)
}

func (r *recorder) MakeAType(cs flow.CreationSet) flow.AType {
	return flow.AType(-cs)
}

func (r *recorder) CreationSets(t flow.AType) []flow.CreationSet {
	return []flow.CreationSet{flow.CreationSet(t)}
}

func (r *recorder) CreationPoint(av flow.AVar, typ symbols.ID) flow.CreationSet {
	r.created = append(r.created, creation{av, typ})
	cs := flow.CreationSet(1000 + len(r.created))
	r.csSym[cs] = typ
	return cs
}

func (r *recorder) ElementAVar(cs flow.CreationSet) flow.AVar {
	return flow.AVar(-cs)
}

func (r *recorder) SetContainer(element, container flow.AVar) {
	r.containers = append(r.containers, [2]flow.AVar{element, container})
}

func (r *recorder) FlowVars(src, dst flow.AVar) {
	r.flows = append(r.flows, [2]flow.AVar{src, dst})
}

func (r *recorder) Out(av flow.AVar) []flow.CreationSet {
	return r.out[av]
}

func (r *recorder) CreationSetSym(cs flow.CreationSet) symbols.ID {
	return r.csSym[cs]
}

func (r *recorder) PrimMake(pn *flow.PNode, es flow.EntrySet, typ symbols.ID, start int) {
	r.made = append(r.made, typ)
}

func (r *recorder) AddVarConstraint(av flow.AVar) {
	r.constrained = append(r.constrained, av)
}

func (r *recorder) FunctionDispatch(pn *flow.PNode, es flow.EntrySet, fn flow.AVar, cs flow.CreationSet, args []flow.AVar, partial ir.Partial) {
	r.dispatched++
}

var _ flow.Engine = (*recorder)(nil)

// primNode builds the program point of a primitive send.
func primNode(c *Context, name string, args []symbols.ID, res symbols.ID) *flow.PNode {
	rvals := append([]symbols.ID{c.b.primitive, c.makeSymbol(name)}, args...)
	s := &ir.Send{Args: rvals, Results: []symbols.ID{res}}
	return flow.NewPNode(s)
}

func transfer(t *testing.T, c *Context, name string) flow.TransferFunc {
	t.Helper()
	f, ok := c.Prims.Lookup(name)
	be.True(t, ok)
	return f
}

func runTransfer(f flow.TransferFunc, e flow.Engine, pn *flow.PNode) (err error) {
	defer diagnostics.Recover(&err)
	f(e, pn, 0)
	return nil
}

func TestPrimitiveRegistry(t *testing.T) {
	g := newProgram()
	c := g.analyze(t)
	for name := range primitiveNames {
		_, ok := c.Prims.Lookup(name)
		be.True(t, ok)
	}
	be.Equal(t, len(c.Prims), len(primitiveNames))
}

func TestPrimIntegerResults(t *testing.T) {
	g := newProgram()
	c := g.analyze(t)
	names := []string{
		config.PrimDomainValidIndex, config.PrimSizeof, config.PrimWrite,
		config.PrimWriteln, config.PrimRead, config.PrimPtrEq, config.PrimPtrNeq,
	}
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			r := newRecorder()
			res := c.newSym(nil)
			transfer(t, c, name)(r, primNode(c, name, nil, res), 0)
			be.Equal(t, r.updates, []typeUpdate{{flow.AVar(res), flow.AType(c.b.int)}})
		})
	}
}

func TestPrimStringOp(t *testing.T) {
	g := newProgram()
	c := g.analyze(t)
	r := newRecorder()
	res := c.newSym(nil)
	transfer(t, c, config.PrimStringOp)(r, primNode(c, config.PrimStringOp, nil, res), 0)
	be.Equal(t, r.updates, []typeUpdate{{flow.AVar(res), flow.AType(c.b.string)}})
}

func TestPrimIndexResults(t *testing.T) {
	g := newProgram()
	c := g.analyze(t)
	r := newRecorder()
	i, j := c.newSym(nil), c.newSym(nil)
	pn := primNode(c, config.PrimDomainStartIndex, []symbols.ID{c.newSym(nil)}, i)
	pn.Lvals = append(pn.Lvals, j)
	transfer(t, c, config.PrimDomainStartIndex)(r, pn, 0)
	be.Equal(t, r.updates, []typeUpdate{
		{flow.AVar(i), flow.AType(c.b.int)},
		{flow.AVar(j), flow.AType(c.b.int)},
	})
}

func TestPrimCast(t *testing.T) {
	g := newProgram()
	cls := g.class("C")
	g.fn("main")
	c := g.analyze(t)
	classSym := c.SymOf(cls)

	t.Run("scalar", func(t *testing.T) {
		r := newRecorder()
		res := c.newSym(nil)
		meta := c.Table.MakeMetaType(c.b.int64)
		transfer(t, c, config.PrimCast)(r, primNode(c, config.PrimCast, []symbols.ID{meta, c.newSym(nil)}, res), 0)
		be.Equal(t, r.updates, []typeUpdate{{flow.AVar(res), flow.AType(c.b.int64)}})
		be.Equal(t, len(r.created), 0)
	})
	t.Run("class", func(t *testing.T) {
		r := newRecorder()
		res := c.newSym(nil)
		meta := c.Table.MakeMetaType(classSym)
		transfer(t, c, config.PrimCast)(r, primNode(c, config.PrimCast, []symbols.ID{meta, c.newSym(nil)}, res), 0)
		be.Equal(t, r.created, []creation{{flow.AVar(res), classSym}})
		be.Equal(t, len(r.updates), 0)
	})
	t.Run("wrong arity", func(t *testing.T) {
		r := newRecorder()
		pn := primNode(c, config.PrimCast, []symbols.ID{c.b.int64}, c.newSym(nil))
		err := runTransfer(transfer(t, c, config.PrimCast), r, pn)
		be.Err(t, err)
	})
}

func TestPrimMakeSeq(t *testing.T) {
	g := newProgram()
	c := g.analyze(t)
	r := newRecorder()
	a, b, res := c.newSym(nil), c.newSym(nil), c.newSym(nil)
	transfer(t, c, config.PrimMakeSeq)(r, primNode(c, config.PrimMakeSeq, []symbols.ID{a, b}, res), 0)

	be.Equal(t, r.created, []creation{{flow.AVar(res), c.b.sequence}})
	cs := flow.CreationSet(1001)
	elem := r.ElementAVar(cs)
	be.Equal(t, r.flows, [][2]flow.AVar{{flow.AVar(a), elem}, {flow.AVar(b), elem}})
	be.Equal(t, r.updates, []typeUpdate{{flow.AVar(res), r.MakeAType(cs)}})
}

func TestPrimMakeTuple(t *testing.T) {
	g := newProgram()
	c := g.analyze(t)
	r := newRecorder()
	pn := primNode(c, config.PrimMakeTuple, []symbols.ID{c.newSym(nil), c.newSym(nil)}, c.newSym(nil))
	transfer(t, c, config.PrimMakeTuple)(r, pn, 0)
	be.Equal(t, r.made, []symbols.ID{c.getTupleType(2)})

	tuple := c.Table.Get(c.getTupleType(2))
	be.Equal(t, len(tuple.Has), 2)
	be.True(t, c.getTupleType(3) != c.getTupleType(2))
}

func TestPrimSeqcat(t *testing.T) {
	g := newProgram()
	c := g.analyze(t)
	ints, floats := c.Table.New("ints"), c.Table.New("floats")
	ints.Element, floats.Element = c.b.int64, c.b.float64

	tests := []struct {
		name string
		prim string
		// second is a sequence of floats for seqcat_seq and a float
		// for seqcat_element
		seq  bool
		want func(r *recorder, first, second flow.AVar) [2]flow.AVar
	}{
		{
			name: "element",
			prim: config.PrimSeqcatElement,
			want: func(r *recorder, first, second flow.AVar) [2]flow.AVar {
				return [2]flow.AVar{second, r.ElementAVar(7)}
			},
		},
		{
			name: "sequence",
			prim: config.PrimSeqcatSeq,
			seq:  true,
			want: func(r *recorder, first, second flow.AVar) [2]flow.AVar {
				return [2]flow.AVar{r.ElementAVar(8), r.ElementAVar(7)}
			},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := newRecorder()
			s1, s2, res := c.newSym(nil), c.newSym(nil), c.newSym(nil)
			r.out[flow.AVar(s1)] = []flow.CreationSet{7}
			r.csSym[7] = ints.ID
			if test.seq {
				r.out[flow.AVar(s2)] = []flow.CreationSet{8}
				r.csSym[8] = floats.ID
			} else {
				c.Table.Get(s2).Type = c.b.float64
			}
			first, second := flow.AVar(s1), flow.AVar(s2)
			transfer(t, c, test.prim)(r, primNode(c, test.prim, []symbols.ID{s1, s2}, res), 0)
			be.Equal(t, r.flows, [][2]flow.AVar{
				test.want(r, first, second),
				{first, flow.AVar(res)},
			})
		})
	}
}

func TestPrimArrays(t *testing.T) {
	g := newProgram()
	c := g.analyze(t)
	arrType := c.Table.New("arr")
	elem := c.Table.New("")
	arrType.Element = elem.ID

	t.Run("index", func(t *testing.T) {
		r := newRecorder()
		a, idx, res := c.newSym(nil), c.newSym(nil), c.newSym(nil)
		r.out[flow.AVar(a)] = []flow.CreationSet{5}
		r.csSym[5] = arrType.ID
		transfer(t, c, config.PrimArrayIndex)(r, primNode(c, config.PrimArrayIndex, []symbols.ID{a, idx}, res), 0)
		be.Equal(t, r.containers, [][2]flow.AVar{{flow.AVar(res), flow.AVar(a)}})
		be.Equal(t, r.flows, [][2]flow.AVar{{r.ElementAVar(5), flow.AVar(res)}})
	})
	t.Run("set untyped element", func(t *testing.T) {
		r := newRecorder()
		a, idx, val, res := c.newSym(nil), c.newSym(nil), c.newSym(nil), c.newSym(nil)
		r.out[flow.AVar(a)] = []flow.CreationSet{5}
		r.csSym[5] = arrType.ID
		transfer(t, c, config.PrimArraySet)(r, primNode(c, config.PrimArraySet, []symbols.ID{a, idx, val}, res), 0)
		be.Equal(t, r.flows, [][2]flow.AVar{
			{flow.AVar(val), r.ElementAVar(5)},
			{flow.AVar(a), flow.AVar(res)},
		})
	})
	t.Run("set scalar element", func(t *testing.T) {
		scalar := c.Table.New("iarr")
		se := c.Table.New("")
		se.Type = c.b.int64
		scalar.Element = se.ID
		r := newRecorder()
		a, idx, val, res := c.newSym(nil), c.newSym(nil), c.newSym(nil), c.newSym(nil)
		r.out[flow.AVar(a)] = []flow.CreationSet{6}
		r.csSym[6] = scalar.ID
		transfer(t, c, config.PrimArraySet)(r, primNode(c, config.PrimArraySet, []symbols.ID{a, idx, val}, res), 0)
		be.Equal(t, r.updates, []typeUpdate{{r.ElementAVar(6), flow.AType(c.b.int64)}})
		be.Equal(t, r.flows, [][2]flow.AVar{{flow.AVar(a), flow.AVar(res)}})
	})
	t.Run("pointwise", func(t *testing.T) {
		r := newRecorder()
		a, res := c.newSym(nil), c.newSym(nil)
		transfer(t, c, config.PrimArrayPointwiseOp)(r, primNode(c, config.PrimArrayPointwiseOp, []symbols.ID{a}, res), 0)
		be.Equal(t, r.flows, [][2]flow.AVar{{flow.AVar(a), flow.AVar(res)}})
	})
}

func TestPrimDomains(t *testing.T) {
	g := newProgram()
	c := g.analyze(t)

	r := newRecorder()
	res := c.newSym(nil)
	transfer(t, c, config.PrimExprSimpleSeq)(r, primNode(c, config.PrimExprSimpleSeq, []symbols.ID{c.newSym(nil), c.newSym(nil), c.newSym(nil)}, res), 0)
	be.Equal(t, r.created, []creation{{flow.AVar(res), c.b.sequence}})
	be.Equal(t, r.updates, []typeUpdate{{r.ElementAVar(1001), flow.AType(c.b.int)}})

	r = newRecorder()
	transfer(t, c, config.PrimExprCreateDomain)(r, primNode(c, config.PrimExprCreateDomain, nil, res), 0)
	be.Equal(t, r.created, []creation{{flow.AVar(res), c.b.domain}})

	for _, name := range []string{config.PrimExprDomain, config.PrimExprReduce} {
		err := runTransfer(transfer(t, c, name), newRecorder(), primNode(c, name, nil, res))
		be.Err(t, err)
	}
}

func TestPrimIndextype(t *testing.T) {
	g := newProgram()
	c := g.analyze(t)
	d, x, res := c.newSym(nil), c.newSym(nil), c.newSym(nil)

	r := newRecorder()
	r.out[flow.AVar(d)] = []flow.CreationSet{3}
	transfer(t, c, config.PrimIndextypeGet)(r, primNode(c, config.PrimIndextypeGet, []symbols.ID{d}, res), 0)
	be.Equal(t, r.flows, [][2]flow.AVar{{r.ElementAVar(3), flow.AVar(res)}})

	r = newRecorder()
	r.out[flow.AVar(d)] = []flow.CreationSet{3}
	transfer(t, c, config.PrimIndextypeSet)(r, primNode(c, config.PrimIndextypeSet, []symbols.ID{d, x}, res), 0)
	be.Equal(t, r.flows, [][2]flow.AVar{
		{flow.AVar(x), r.ElementAVar(3)},
		{flow.AVar(x), flow.AVar(res)},
	})
}

func TestPrimVardef(t *testing.T) {
	g := newProgram()
	g.fn("main")
	c := g.analyze(t)

	// a type without a source node is allocated
	bare := c.Table.New("bare")
	meta := c.Table.MakeMetaType(bare.ID)
	tv, res := c.newSym(nil), c.newSym(nil)
	r := newRecorder()
	r.out[flow.AVar(tv)] = []flow.CreationSet{4}
	r.csSym[4] = meta
	transfer(t, c, config.PrimVardef)(r, primNode(c, config.PrimVardef, []symbols.ID{tv}, res), 0)
	be.Equal(t, r.created, []creation{{flow.AVar(res), bare.ID}})
	be.Equal(t, r.dispatched, 0)
}
