package symbols

import (
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/typesystem"
)

// InheritsAdd records that s inherits from parent.
func (t *Table) InheritsAdd(s, parent ID) {
	x := t.Get(s)
	x.Inherits = addUnique(x.Inherits, parent)
}

// SpecializesAdd records that s promotes to to.
func (t *Table) SpecializesAdd(s, to ID) {
	x := t.Get(s)
	x.Specializes = addUnique(x.Specializes, to)
}

// MustImplementAndSpecialize constrains s to values of typ.
func (t *Table) MustImplementAndSpecialize(s, typ ID) {
	x := t.Get(s)
	x.MustImplement = typ
	x.MustSpecialize = typ
}

// MakeMetaType gives s a meta type if it has none and returns it.
func (t *Table) MakeMetaType(s ID) ID {
	x := t.Get(s)
	if x.MetaType != None {
		return x.MetaType
	}
	m := t.New(x.Name)
	m.IsMetaType = true
	m.Kind = typesystem.KindPrimitive
	m.GlobalScope = true
	m.MetaType = s
	x.MetaType = m.ID
	return m.ID
}

// PairMeta makes meta the meta type of base and base the meta type of
// meta.
func (t *Table) PairMeta(base, meta ID) {
	b, m := t.Get(base), t.Get(meta)
	b.MetaType = meta
	m.MetaType = base
	m.IsMetaType = true
}

// Unalias follows alias links to the underlying type.
func (t *Table) Unalias(id ID) ID {
	for i := 0; i <= len(t.syms); i++ {
		s := t.Get(id)
		if s == nil || s.Kind != typesystem.KindAlias || s.Alias == None {
			return id
		}
		id = s.Alias
	}
	diagnostics.Fatal(t.Get(id).Pos, "alias cycle at %s", t.Get(id))
	return id
}

// Promotes reports whether a promotes to b through one or more
// specializes edges.
func (t *Table) Promotes(a, b ID) bool {
	return t.reaches(a, b, false)
}

// Specializes reports whether a is b or reaches b through specializes or
// inherits edges, looking through aliases.
func (t *Table) Specializes(a, b ID) bool {
	a, b = t.Unalias(a), t.Unalias(b)
	if a == b {
		return true
	}
	return t.reaches(a, b, true)
}

func (t *Table) reaches(a, b ID, inherits bool) bool {
	seen := make(map[ID]bool)
	stack := []ID{a}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s := t.Get(id)
		if s == nil {
			continue
		}
		next := s.Specializes
		if inherits {
			next = append(append([]ID(nil), s.Specializes...), s.Inherits...)
		}
		for _, n := range next {
			if n == b {
				return true
			}
			if !seen[n] {
				seen[n] = true
				stack = append(stack, n)
			}
		}
	}
	return false
}

// PromotionAcyclic reports whether the specializes relation has no
// cycle.
func (t *Table) PromotionAcyclic() bool {
	return t.findCycle(false) == None
}

// findCycle returns a symbol on a cycle, or None.
func (t *Table) findCycle(inherits bool) ID {
	const (
		white = iota
		grey
		black
	)
	color := make([]uint8, len(t.syms))
	var found ID
	var visit func(id ID) bool
	visit = func(id ID) bool {
		color[id] = grey
		s := t.syms[id]
		edges := s.Specializes
		if inherits {
			edges = append(append([]ID(nil), s.Specializes...), s.Inherits...)
		}
		for _, n := range edges {
			switch color[n] {
			case grey:
				found = n
				return true
			case white:
				if visit(n) {
					return true
				}
			}
		}
		color[id] = black
		return false
	}
	for id := 1; id < len(t.syms); id++ {
		if color[id] == white && visit(ID(id)) {
			return found
		}
	}
	return None
}

// BuildHierarchy recomputes the reverse edges of the type graph. A cycle
// through inherits or specializes edges aborts.
func (t *Table) BuildHierarchy() {
	if c := t.findCycle(true); c != None {
		diagnostics.Fail("cycle in type hierarchy at %s", t.Get(c))
	}
	for _, s := range t.All() {
		s.Specializers = nil
		s.Implementors = nil
	}
	for _, s := range t.All() {
		for _, p := range s.Inherits {
			ps := t.Get(p)
			ps.Implementors = addUnique(ps.Implementors, s.ID)
			ps.Specializers = addUnique(ps.Specializers, s.ID)
		}
		for _, p := range s.Specializes {
			ps := t.Get(p)
			ps.Specializers = addUnique(ps.Specializers, s.ID)
		}
	}
}
