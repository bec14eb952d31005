// Package flow describes the interface of the interprocedural fixpoint
// engine. The analyzer registers one transfer function per primitive and
// never runs the engine itself.
package flow

import (
	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/symbols"
)

// Handles of engine-owned abstract values.
type (
	AVar        int
	CreationSet int
	AType       int
	EntrySet    int
)

// PNode is one program point: a send together with the value symbols it
// reads and writes.
type PNode struct {
	Send  *ir.Send
	Rvals []symbols.ID
	Lvals []symbols.ID
}

// NewPNode builds the program point of s.
func NewPNode(s *ir.Send) *PNode {
	return &PNode{
		Send:  s,
		Rvals: append([]symbols.ID(nil), s.Args...),
		Lvals: append([]symbols.ID(nil), s.Results...),
	}
}

// Engine is the abstract interpretation the transfer functions update.
type Engine interface {
	// MakeAVar returns the abstract variable of v in es.
	MakeAVar(v symbols.ID, es EntrySet) AVar
	// UpdateIn merges t into the values of av.
	UpdateIn(av AVar, t AType)
	// MakeAbstractType is the abstract type of all values of typ.
	MakeAbstractType(typ symbols.ID) AType
	// MakeAType is the abstract type holding exactly cs.
	MakeAType(cs CreationSet) AType
	// CreationSets lists the creation sets of t.
	CreationSets(t AType) []CreationSet
	// CreationPoint records an allocation of typ at av.
	CreationPoint(av AVar, typ symbols.ID) CreationSet
	// ElementAVar is the element placeholder of cs.
	ElementAVar(cs CreationSet) AVar
	// SetContainer links element to the container av.
	SetContainer(element, container AVar)
	// FlowVars adds a flow edge from src to dst.
	FlowVars(src, dst AVar)
	// Out returns the creation sets reaching av.
	Out(av AVar) []CreationSet
	// CreationSetSym is the type of the allocation cs.
	CreationSetSym(cs CreationSet) symbols.ID
	// PrimMake builds a product of the values at rvals[start:].
	PrimMake(pn *PNode, es EntrySet, typ symbols.ID, start int)
	// AddVarConstraint constrains av to its declared type.
	AddVarConstraint(av AVar)
	// FunctionDispatch dispatches a call to the function value fn.
	FunctionDispatch(pn *PNode, es EntrySet, fn AVar, cs CreationSet, args []AVar, partial ir.Partial)
}

// TransferFunc updates the engine for one program point.
type TransferFunc func(e Engine, pn *PNode, es EntrySet)

// Registry maps primitive names to their transfer functions.
type Registry map[string]TransferFunc

// Register adds f under name. A name registers once.
func (r Registry) Register(name string, f TransferFunc) bool {
	if _, ok := r[name]; ok {
		return false
	}
	r[name] = f
	return true
}

// Lookup returns the transfer function for name.
func (r Registry) Lookup(name string) (TransferFunc, bool) {
	f, ok := r[name]
	return f, ok
}

// Member is an instance variable slot of a creation set.
type Member struct {
	Offset int
	Type   symbols.ID
}

// Results is an engine that has reached its fixpoint. The analysis
// queries read it.
type Results interface {
	Engine
	// EntrySets lists the entry sets fn was analyzed in.
	EntrySets(fn symbols.ID) []EntrySet
	// Var is the abstract variable of v merged over all entry sets. It
	// reports false when the engine never saw v.
	Var(v symbols.ID) (AVar, bool)
	// Type is the concrete type of av, or None when no value reaches av.
	Type(av AVar) symbols.ID
	// Creators lists the creation sets allocated with type typ.
	Creators(typ symbols.ID) []CreationSet
	// Member returns the instance variable name of cs.
	Member(cs CreationSet, name string) (Member, bool)
}
