// symbols/symbol_table.go - canonical symbol arena
//
// The package is split by concern:
// - symbol_table_core.go: ID and the Sym record
// - symbol_table.go: Table allocation, interning and builtins
// - symbol_table_hierarchy.go: inheritance, promotion and meta types

package symbols

import (
	"github.com/funvibe/lowerkit/internal/typesystem"
)

// Table owns every Sym of one compilation. Symbols are never removed, so
// IDs stay valid for the lifetime of the table.
type Table struct {
	syms     []*Sym
	interned map[string]ID
	consts   map[constKey]ID
	builtins map[string]ID
}

type constKey struct {
	typ  ID
	text string
}

func NewTable() *Table {
	return &Table{
		syms:     []*Sym{nil},
		interned: make(map[string]ID),
		consts:   make(map[constKey]ID),
		builtins: make(map[string]ID),
	}
}

// New allocates a symbol.
func (t *Table) New(name string) *Sym {
	s := &Sym{ID: ID(len(t.syms)), Name: name}
	t.syms = append(t.syms, s)
	return s
}

// Get returns the symbol for id, or nil for None.
func (t *Table) Get(id ID) *Sym {
	if id <= 0 || int(id) >= len(t.syms) {
		return nil
	}
	return t.syms[id]
}

// Name returns the name of id, or "" for None.
func (t *Table) Name(id ID) string {
	if s := t.Get(id); s != nil {
		return s.Name
	}
	return ""
}

// Len returns the number of allocated symbols.
func (t *Table) Len() int { return len(t.syms) - 1 }

// Since returns the symbols allocated after the first n.
func (t *Table) Since(n int) []*Sym {
	if n+1 >= len(t.syms) {
		return nil
	}
	return t.syms[n+1:]
}

// All returns every symbol in allocation order.
func (t *Table) All() []*Sym { return t.syms[1:] }

// Copy allocates a copy of id. A copied type is its own type.
func (t *Table) Copy(id ID) *Sym {
	old := t.Get(id)
	s := t.New(old.Name)
	n := *old
	n.ID = s.ID
	n.Has = append([]ID(nil), old.Has...)
	n.Inherits = append([]ID(nil), old.Inherits...)
	n.Specializes = append([]ID(nil), old.Specializes...)
	n.Specializers = nil
	n.Implementors = nil
	*s = n
	if s.Kind != typesystem.KindNone {
		s.Type = s.ID
	}
	return s
}

// MakeSymbol returns the interned selector symbol for name.
func (t *Table) MakeSymbol(name string) *Sym {
	if id, ok := t.interned[name]; ok {
		return t.syms[id]
	}
	s := t.New(name)
	s.IsSymbol = true
	s.GlobalScope = true
	s.Type = t.builtins["symbol"]
	t.interned[name] = s.ID
	return s
}

// SetSymbolsType types every selector symbol with typ.
func (t *Table) SetSymbolsType(typ ID) {
	for _, id := range t.interned {
		t.syms[id].Type = typ
	}
}

// Const returns the interned constant of type typ with source text text.
func (t *Table) Const(typ ID, text string) *Sym {
	k := constKey{typ: typ, text: text}
	if id, ok := t.consts[k]; ok {
		return t.syms[id]
	}
	s := t.New("")
	s.IsConstant = true
	s.GlobalScope = true
	s.Type = typ
	s.Constant = text
	t.consts[k] = s.ID
	return s
}

// SetBuiltin registers s under name.
func (t *Table) SetBuiltin(s *Sym, name string) {
	s.Builtin = name
	t.builtins[name] = s.ID
}

// Builtin returns the symbol registered under name, or None.
func (t *Table) Builtin(name string) ID {
	return t.builtins[name]
}
