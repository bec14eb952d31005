package ir

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/symbols"
)

// Program collects the closures of one compilation and allocates labels.
type Program struct {
	labels   int
	Closures []*Closure
	byFn     map[symbols.ID]*Closure
}

func NewProgram() *Program {
	return &Program{byFn: make(map[symbols.ID]*Closure)}
}

// AllocLabel returns a fresh label.
func (p *Program) AllocLabel() *Label {
	p.labels++
	return &Label{ID: p.labels}
}

// Labels returns the number of labels allocated so far.
func (p *Program) Labels() int { return p.labels }

// AddClosure records the code of fn.
func (p *Program) AddClosure(fn symbols.ID, body *Block, formals []symbols.ID, n ast.Node) *Closure {
	c := &Closure{At: At{Node: n}, Fn: fn, Formals: append([]symbols.ID(nil), formals...)}
	c.Body.Append(body)
	p.Closures = append(p.Closures, c)
	p.byFn[fn] = c
	return c
}

// Closure returns the code of fn, or nil.
func (p *Program) Closure(fn symbols.ID) *Closure {
	return p.byFn[fn]
}
