package ir

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/symbols"
)

// Block is a code fragment. The zero value is empty and ready to use.
type Block struct {
	Code []Code
}

// Len returns the number of instructions.
func (b *Block) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Code)
}

// Empty reports whether the block has no instructions.
func (b *Block) Empty() bool { return b.Len() == 0 }

// Append adds the instructions of o to b.
func (b *Block) Append(o *Block) {
	if o == nil || o == b {
		return
	}
	b.Code = append(b.Code, o.Code...)
}

// Emit adds one instruction.
func (b *Block) Emit(c Code) { b.Code = append(b.Code, c) }

// Move emits src -> dst.
func (b *Block) Move(src, dst symbols.ID, n ast.Node) *Move {
	m := &Move{At: At{Node: n}, Src: src, Dst: dst}
	b.Emit(m)
	return m
}

// Send emits a send with nargs arguments followed by results taken from
// syms.
func (b *Block) Send(nargs int, n ast.Node, syms ...symbols.ID) *Send {
	s := &Send{At: At{Node: n}}
	s.Args = append(s.Args, syms[:nargs]...)
	s.Results = append(s.Results, syms[nargs:]...)
	b.Emit(s)
	return s
}

// Label emits a label marker.
func (b *Block) Label(l *Label, n ast.Node) *LabelCode {
	c := &LabelCode{At: At{Node: n}, Label: l}
	b.Emit(c)
	return c
}

// Goto emits a jump.
func (b *Block) Goto(l *Label, n ast.Node) *Goto {
	c := &Goto{At: At{Node: n}, Label: l}
	b.Emit(c)
	return c
}

// If emits a conditional. Blocks are copied.
func (b *Block) If(cond *Block, condVal symbols.ID, then *Block, thenVal symbols.ID,
	els *Block, elseVal symbols.ID, result symbols.ID, n ast.Node) *If {
	c := &If{At: At{Node: n}, CondVal: condVal, ThenVal: thenVal, ElseVal: elseVal, Result: result}
	c.Cond.Append(cond)
	c.Then.Append(then)
	c.Else.Append(els)
	b.Emit(c)
	return c
}

// Loop emits a loop. Blocks are copied.
func (b *Block) Loop(entry, exit *Label, condVal symbols.ID, setup, cond, next, body *Block, n ast.Node) *Loop {
	c := &Loop{At: At{Node: n}, Entry: entry, Exit: exit, CondVal: condVal}
	c.Setup.Append(setup)
	c.Cond.Append(cond)
	c.Next.Append(next)
	c.Body.Append(body)
	b.Emit(c)
	return c
}

// Walk calls visit for every instruction in b, descending into nested
// blocks, in emission order.
func (b *Block) Walk(visit func(Code)) {
	if b == nil {
		return
	}
	for _, c := range b.Code {
		visit(c)
		switch x := c.(type) {
		case *If:
			x.Cond.Walk(visit)
			x.Then.Walk(visit)
			x.Else.Walk(visit)
		case *Loop:
			x.Setup.Walk(visit)
			x.Cond.Walk(visit)
			x.Next.Walk(visit)
			x.Body.Walk(visit)
		case *Closure:
			x.Body.Walk(visit)
		}
	}
}

// Sends returns every send in b in emission order.
func (b *Block) Sends() []*Send {
	var out []*Send
	b.Walk(func(c Code) {
		if s, ok := c.(*Send); ok {
			out = append(out, s)
		}
	})
	return out
}
