package ir

import (
	"fmt"
	"io"
	"strings"

	"github.com/funvibe/lowerkit/internal/symbols"
)

// Disassemble returns a human-readable listing of the closure of fn.
func Disassemble(tab *symbols.Table, c *Closure) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("== %s ==\n", tab.Name(c.Fn)))
	if len(c.Formals) > 0 {
		sb.WriteString("formals")
		for _, f := range c.Formals {
			sb.WriteString(" ")
			sb.WriteString(symName(tab, f))
		}
		sb.WriteString("\n")
	}
	disassembleBlock(&sb, tab, &c.Body, 0)

	return sb.String()
}

// Fprint writes the listing of every closure of p to w.
func Fprint(w io.Writer, tab *symbols.Table, p *Program) error {
	for _, c := range p.Closures {
		if _, err := io.WriteString(w, Disassemble(tab, c)); err != nil {
			return err
		}
	}
	return nil
}

// DisassembleBlock returns the listing of a code fragment.
func DisassembleBlock(tab *symbols.Table, b *Block) string {
	var sb strings.Builder
	disassembleBlock(&sb, tab, b, 0)
	return sb.String()
}

func disassembleBlock(sb *strings.Builder, tab *symbols.Table, b *Block, depth int) {
	lastLine := -1
	for _, c := range b.Code {
		line := c.Pos().Line
		sb.WriteString(strings.Repeat("  ", depth))
		if line == lastLine {
			sb.WriteString("   | ")
		} else {
			sb.WriteString(fmt.Sprintf("%4d ", line))
		}
		lastLine = line
		disassembleInstruction(sb, tab, c, depth)
	}
}

func disassembleInstruction(sb *strings.Builder, tab *symbols.Table, c Code, depth int) {
	switch x := c.(type) {
	case *Move:
		sb.WriteString(fmt.Sprintf("MOVE %s -> %s\n", symName(tab, x.Src), symName(tab, x.Dst)))
	case *Send:
		sendInstruction(sb, tab, x)
	case *LabelCode:
		sb.WriteString(fmt.Sprintf("LABEL L%d\n", x.Label.ID))
	case *Goto:
		sb.WriteString(fmt.Sprintf("GOTO L%d\n", x.Label.ID))
	case *If:
		sb.WriteString(fmt.Sprintf("IF %s ? %s : %s -> %s\n",
			symName(tab, x.CondVal), symName(tab, x.ThenVal), symName(tab, x.ElseVal), symName(tab, x.Result)))
		nestedBlock(sb, tab, "cond", &x.Cond, depth)
		nestedBlock(sb, tab, "then", &x.Then, depth)
		nestedBlock(sb, tab, "else", &x.Else, depth)
	case *Loop:
		sb.WriteString(fmt.Sprintf("LOOP L%d L%d while %s\n", labelID(x.Entry), labelID(x.Exit), symName(tab, x.CondVal)))
		nestedBlock(sb, tab, "setup", &x.Setup, depth)
		nestedBlock(sb, tab, "cond", &x.Cond, depth)
		nestedBlock(sb, tab, "next", &x.Next, depth)
		nestedBlock(sb, tab, "body", &x.Body, depth)
	case *Closure:
		sb.WriteString(fmt.Sprintf("CLOSURE %s/%d\n", tab.Name(x.Fn), x.Arity()))
	default:
		sb.WriteString(fmt.Sprintf("Unknown code %T\n", c))
	}
}

func sendInstruction(sb *strings.Builder, tab *symbols.Table, s *Send) {
	sb.WriteString("SEND")
	for _, a := range s.Args {
		sb.WriteString(" ")
		sb.WriteString(symName(tab, a))
	}
	sb.WriteString(" ->")
	for _, r := range s.Results {
		sb.WriteString(" ")
		sb.WriteString(symName(tab, r))
	}
	if p := s.Partial.String(); p != "" {
		sb.WriteString(" [partial " + p + "]")
	}
	sb.WriteString("\n")
}

func nestedBlock(sb *strings.Builder, tab *symbols.Table, name string, b *Block, depth int) {
	if b.Empty() {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth+1))
	sb.WriteString(name + ":\n")
	disassembleBlock(sb, tab, b, depth+2)
}

func labelID(l *Label) int {
	if l == nil {
		return 0
	}
	return l.ID
}

func symName(tab *symbols.Table, id symbols.ID) string {
	s := tab.Get(id)
	if s == nil {
		return "_"
	}
	if s.IsSymbol {
		return "#" + s.Name
	}
	return s.String()
}
