package analyzer

import (
	"testing"

	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/flow"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/nalgeon/be"
)

// results is an engine at its fixpoint, filled in by hand.
type results struct {
	*recorder
	entries  map[symbols.ID][]flow.EntrySet
	vars     map[symbols.ID]flow.AVar
	types    map[flow.AVar]symbols.ID
	creators map[symbols.ID][]flow.CreationSet
	members  map[flow.CreationSet]map[string]flow.Member
}

func newResults() *results {
	return &results{
		recorder: newRecorder(),
		entries:  make(map[symbols.ID][]flow.EntrySet),
		vars:     make(map[symbols.ID]flow.AVar),
		types:    make(map[flow.AVar]symbols.ID),
		creators: make(map[symbols.ID][]flow.CreationSet),
		members:  make(map[flow.CreationSet]map[string]flow.Member),
	}
}

func (r *results) EntrySets(fn symbols.ID) []flow.EntrySet { return r.entries[fn] }

func (r *results) Var(v symbols.ID) (flow.AVar, bool) {
	av, ok := r.vars[v]
	return av, ok
}

func (r *results) Type(av flow.AVar) symbols.ID { return r.types[av] }

func (r *results) Creators(typ symbols.ID) []flow.CreationSet { return r.creators[typ] }

func (r *results) Member(cs flow.CreationSet, name string) (flow.Member, bool) {
	m, ok := r.members[cs][name]
	return m, ok
}

// create allocates a creation set of typ holding members.
func (r *results) create(typ symbols.ID, members map[string]flow.Member) flow.CreationSet {
	cs := flow.CreationSet(2000 + len(r.csSym))
	r.csSym[cs] = typ
	r.creators[typ] = append(r.creators[typ], cs)
	r.members[cs] = members
	return cs
}

var _ flow.Results = (*results)(nil)

func TestFunctionIsUsed(t *testing.T) {
	g := newProgram()
	used := g.fn("used")
	dead := g.fn("dead")
	c := g.analyze(t)
	stray := &ast.FnSymbol{}

	r := newResults()
	r.entries[c.SymOf(used)] = []flow.EntrySet{1}

	tests := []struct {
		name    string
		results flow.Results
		fn      *ast.FnSymbol
		want    bool
	}{
		{"no results", nil, dead, true},
		{"analyzed", r, used, true},
		{"never entered", r, dead, false},
		{"unmapped", r, stray, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c.SetResults(test.results)
			be.Equal(t, c.FunctionIsUsed(test.fn), test.want)
		})
	}
}

func TestTypeIsUsed(t *testing.T) {
	g := newProgram()
	made := g.class("Made")
	never := g.class("Never")
	c := g.analyze(t)

	r := newResults()
	r.create(c.SymOf(made), nil)

	tests := []struct {
		name    string
		results flow.Results
		ts      *ast.TypeSymbol
		want    bool
	}{
		{"no results", nil, never.Symbol, true},
		{"created", r, made.Symbol, true},
		{"never created", r, never.Symbol, false},
		{"scalar", r, g.p.Integer.Symbol, true},
		{"nil", r, g.p.Nil.Symbol, true},
		{"unmapped", r, &ast.TypeSymbol{}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c.SetResults(test.results)
			be.Equal(t, c.TypeIsUsed(test.ts), test.want)
		})
	}
}

func TestASTIsUsed(t *testing.T) {
	g := newProgram()
	a := g.local("a", g.p.Integer)
	b := g.local("b", g.p.Integer)
	d := g.local("d", g.p.Integer)
	f := g.fn("main")
	use := g.ref(a)
	f.Body = g.block(g.def(a, g.num(1)), g.def(b, g.num(2)), g.def(d, g.num(3)), g.expr(use))
	c := g.analyze(t)

	r := newResults()
	r.vars[c.SymOf(a)] = 1
	r.types[1] = c.SymOf(g.p.Integer)
	r.vars[c.SymOf(b)] = 2

	tests := []struct {
		name    string
		results flow.Results
		n       ast.Node
		s       ast.Symbol
		want    bool
	}{
		{"no results", nil, nil, a, false},
		{"typed", r, nil, a, true},
		{"typed through expression", r, use, nil, true},
		{"seen without type", r, nil, b, false},
		{"never seen", r, nil, d, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c.SetResults(test.results)
			be.Equal(t, c.ASTIsUsed(test.n, test.s), test.want)
		})
	}
}

func TestConstantInfo(t *testing.T) {
	g := newProgram()
	a := g.local("a", g.p.Integer)
	f := g.fn("main")
	f.Body = g.block(g.def(a, g.num(1)))
	c := g.analyze(t)

	one := c.Table.Const(c.b.int64, "1").ID
	two := c.Table.Const(c.b.int64, "2").ID
	r := newResults()
	av := flow.AVar(7)
	r.vars[c.SymOf(a)] = av
	var sets []flow.CreationSet
	for _, typ := range []symbols.ID{one, c.b.int64, two, one} {
		cs := r.create(typ, nil)
		sets = append(sets, cs)
	}
	r.out[av] = sets

	c.SetResults(r)
	be.Equal(t, c.ConstantInfo(nil, a), []symbols.ID{one, two})

	c.SetResults(nil)
	be.Equal(t, len(c.ConstantInfo(nil, a)), 0)
}

func TestResolveMember(t *testing.T) {
	g := newProgram()
	x := g.field("x", g.p.Integer)
	cls := g.class("C", x, g.field("y", g.p.Integer))
	other := g.class("D")
	c := g.analyze(t)

	cSym, dSym := c.SymOf(cls), c.SymOf(other)
	integer := c.SymOf(g.p.Integer)

	tests := []struct {
		name    string
		members []map[string]flow.Member
		offset  int
		typ     func(ast.Type) bool
		fails   bool
	}{
		{
			name: "agreeing creation sets",
			members: []map[string]flow.Member{
				{"x": {Offset: 0, Type: integer}},
				{"x": {Offset: 0, Type: integer}},
			},
			offset: 0,
			typ:    func(t ast.Type) bool { return t == ast.Type(g.p.Integer) },
		},
		{
			name:    "missing field",
			members: []map[string]flow.Member{{"y": {Offset: 1, Type: integer}}},
			offset:  -1,
			typ:     func(t ast.Type) bool { return t == ast.Type(g.p.Unknown) },
		},
		{
			name: "two member types",
			members: []map[string]flow.Member{
				{"x": {Offset: 1, Type: cSym}},
				{"x": {Offset: 1, Type: dSym}},
			},
			offset: 1,
			typ: func(t ast.Type) bool {
				_, ok := t.(*ast.SumType)
				return ok
			},
		},
		{
			name: "mismatched offsets",
			members: []map[string]flow.Member{
				{"x": {Offset: 0, Type: integer}},
				{"x": {Offset: 1, Type: integer}},
			},
			fails: true,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			r := newResults()
			for _, m := range test.members {
				r.create(cSym, m)
			}
			c.SetResults(r)
			offset, typ, err := c.ResolveMember(cls, x)
			if test.fails {
				be.True(t, err != nil)
				return
			}
			be.Err(t, err, nil)
			be.Equal(t, offset, test.offset)
			be.True(t, test.typ(typ))
		})
	}

	c.SetResults(nil)
	offset, typ, err := c.ResolveMember(cls, x)
	be.Err(t, err, nil)
	be.Equal(t, offset, -1)
	be.Equal(t, typ, ast.Type(g.p.Unknown))
}

func TestResolveMemberAccess(t *testing.T) {
	g := newProgram()
	fld := g.field("f", g.p.Float)
	cls := g.class("C", fld)
	o := g.param("o", cls)
	get := g.fn("get", o)
	get.IsGetter = true
	ma := &ast.MemberAccess{Base: g.ref(o), Member: fld}
	ma.Token = g.tok()
	get.Body = g.block(g.ret(ma))

	plainParam := g.param("o", cls)
	plain := g.fn("read", plainParam)
	read := &ast.MemberAccess{Base: g.ref(plainParam), Member: fld}
	read.Token = g.tok()
	plain.Body = g.block(g.ret(read))
	c := g.analyze(t)

	cSym := c.SymOf(cls)
	r := newResults()
	r.create(cSym, map[string]flow.Member{"f": {Offset: 2, Type: c.SymOf(g.p.Float)}})
	av := flow.AVar(5)
	r.vars[c.Info(ma.Base).Rval] = av
	r.types[av] = cSym
	c.SetResults(r)

	tests := []struct {
		name   string
		e      *ast.MemberAccess
		offset int
		typ    ast.Type
	}{
		{"accessor send", ma, 2, g.p.Float},
		{"getter method send", read, -1, g.p.Unknown},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			offset, typ, err := c.ResolveMemberAccess(test.e)
			be.Err(t, err, nil)
			be.Equal(t, offset, test.offset)
			be.Equal(t, typ, test.typ)
		})
	}
}
