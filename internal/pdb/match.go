package pdb

import (
	"github.com/funvibe/lowerkit/internal/symbols"
)

// Match is a call-site binding chosen by the resolver. Positions are
// formal positions starting at 1.
type Match struct {
	Fun *Fun

	FormalToActual        map[int]int
	CoercionSubstitutions map[int]symbols.ID
	DefaultArgs           []int
	GenericSubstitutions  map[symbols.ID]symbols.ID
}

// Callbacks are the operations the resolver calls back into the
// analyzer with. Wrapper operations return a nil Fun when the matched
// function has no source to specialize.
type Callbacks interface {
	OrderWrapper(m *Match) (*Fun, error)
	CoercionWrapper(m *Match) (*Fun, error)
	DefaultWrapper(m *Match) (*Fun, error)
	InstantiateGeneric(m *Match) (*Fun, error)

	MakeLUBType(types []symbols.ID) symbols.ID
	NewSym(name string) symbols.ID
	// Instantiate returns the instance of the generic type or formal s
	// under subs, or None when subs does not bind s.
	Instantiate(s symbols.ID, subs map[symbols.ID]symbols.ID) symbols.ID
	// FormalToGeneric returns the type variable of a generic formal, or
	// the formal itself.
	FormalToGeneric(formal symbols.ID) symbols.ID
	FinalizeFunctions() error
}
