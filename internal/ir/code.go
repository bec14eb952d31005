package ir

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/funvibe/lowerkit/internal/token"
)

// Code is one intermediate instruction. The set is closed.
type Code interface {
	// Pos is the source position of the node the instruction was
	// generated for.
	Pos() token.Token
	// Source is that node, or nil for synthesized code.
	Source() ast.Node
	code()
}

// At is embedded in every instruction.
type At struct {
	Node ast.Node
}

func (a *At) Source() ast.Node { return a.Node }
func (a *At) code()            {}

func (a *At) Pos() token.Token {
	if a.Node == nil {
		return token.Token{}
	}
	return a.Node.GetToken()
}

// Label is a control-flow target.
type Label struct {
	ID int
}

// Partial is the dispatch hint of a send.
type Partial int

const (
	PartialUnknown Partial = iota
	PartialNever
	PartialAlways
)

func (p Partial) String() string {
	switch p {
	case PartialNever:
		return "never"
	case PartialAlways:
		return "always"
	}
	return ""
}

// Move copies Src to Dst.
type Move struct {
	At
	Src, Dst symbols.ID
}

// Send dispatches on Args and binds Results. Args[0] is the selector or a
// marker such as the primitive symbol.
type Send struct {
	At
	Args    []symbols.ID
	Results []symbols.ID
	Partial Partial
}

// AddArg appends an argument.
func (s *Send) AddArg(id symbols.ID) { s.Args = append(s.Args, id) }

// AddResult appends a result.
func (s *Send) AddResult(id symbols.ID) { s.Results = append(s.Results, id) }

// LabelCode marks the position of Label.
type LabelCode struct {
	At
	Label *Label
}

// Goto jumps to Label.
type Goto struct {
	At
	Label *Label
}

// If evaluates Cond, then Then or Else, and moves the selected value to
// Result when Result is set.
type If struct {
	At
	Cond    Block
	CondVal symbols.ID
	Then    Block
	ThenVal symbols.ID
	Else    Block
	ElseVal symbols.ID
	Result  symbols.ID
}

// Loop runs Setup once, then Cond and Body while CondVal holds. Entry is
// the continue target and Exit the break target. Next is kept for the
// engine and never produced here.
type Loop struct {
	At
	Entry   *Label
	Exit    *Label
	CondVal symbols.ID
	Setup   Block
	Cond    Block
	Next    Block
	Body    Block
}

// Closure is the code of function Fn over Formals.
type Closure struct {
	At
	Fn      symbols.ID
	Body    Block
	Formals []symbols.ID
}

// Arity is the number of formals.
func (c *Closure) Arity() int { return len(c.Formals) }
