package analyzer

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/ir"
)

// labelTarget follows chained labels to the labeled statement.
func labelTarget(s *ast.LabelStmt) ast.Statement {
	t := s.Stmt
	for {
		l, ok := t.(*ast.LabelStmt)
		if !ok {
			return t
		}
		t = l.Stmt
	}
}

func isLoop(s ast.Statement) bool {
	switch s.(type) {
	case *ast.WhileLoopStmt, *ast.ForLoopStmt:
		return true
	}
	return false
}

// defineLabels records the named labels under s and allocates the
// labels of label targets and loops. A loop gets an entry and an exit
// label; any other target gets one label in both slots.
func (c *Context) defineLabels(s ast.Statement, labels map[string]*ast.LabelStmt) {
	if s == nil {
		return
	}
	if ls, ok := s.(*ast.LabelStmt); ok && ls.Label != nil {
		labels[ls.Label.Name] = ls
		if t := labelTarget(ls); t != nil && !isLoop(t) {
			ti := c.info(t)
			if ti.Label[0] == nil {
				l := c.Program.AllocLabel()
				ti.Label = [2]*ir.Label{l, l}
			}
		}
	}
	if isLoop(s) {
		i := c.info(s)
		if i.Label[0] == nil {
			i.Label[0] = c.Program.AllocLabel()
			i.Label[1] = c.Program.AllocLabel()
		}
	}
	for _, ch := range ast.Children(s) {
		if st, ok := ch.(ast.Statement); ok {
			c.defineLabels(st, labels)
		}
	}
}

// resolveLabels points every return at ret and every goto at its
// target. loops is the stack of enclosing loops.
func (c *Context) resolveLabels(s ast.Statement, labels map[string]*ast.LabelStmt, ret *ir.Label, loops []ast.Statement) error {
	if s == nil {
		return nil
	}
	switch x := s.(type) {
	case *ast.WhileLoopStmt, *ast.ForLoopStmt:
		loops = append(loops, x)
	case *ast.ReturnStmt:
		// slot 1 keeps the label of a labeled return
		c.info(x).Label[0] = ret
	case *ast.GotoStmt:
		if err := c.resolveGoto(x, labels, loops); err != nil {
			return err
		}
	}
	for _, ch := range ast.Children(s) {
		if st, ok := ch.(ast.Statement); ok {
			if err := c.resolveLabels(st, labels, ret, loops); err != nil {
				return err
			}
		}
	}
	return nil
}

// entryLabel is the label a jump to the labeled statement t lands on.
func entryLabel(t ast.Statement, ti *AInfo) *ir.Label {
	if _, ok := t.(*ast.ReturnStmt); ok {
		return ti.Label[1]
	}
	return ti.Label[0]
}

func (c *Context) resolveGoto(g *ast.GotoStmt, labels map[string]*ast.LabelStmt, loops []ast.Statement) error {
	var target ast.Statement
	if g.Label != nil {
		ls, ok := labels[g.Label.Name]
		if !ok {
			return c.errorAt(diagnostics.ErrA001, g.GetToken(), g.Label.Name)
		}
		target = labelTarget(ls)
	}
	gi := c.info(g)
	switch g.Kind {
	case ast.GotoNormal:
		if target == nil {
			return c.errorAt(diagnostics.ErrA001, g.GetToken(), "<nil>")
		}
		gi.Label[0] = entryLabel(target, c.info(target))
	case ast.GotoBreak, ast.GotoContinue:
		if target == nil && len(loops) > 0 {
			target = loops[len(loops)-1]
		}
		if target == nil || !isLoop(target) {
			name := "break"
			if g.Kind == ast.GotoContinue {
				name = "continue"
			}
			if g.Label != nil {
				name = g.Label.Name
			}
			return c.errorAt(diagnostics.ErrA001, g.GetToken(), name)
		}
		ti := c.info(target)
		if g.Kind == ast.GotoBreak {
			gi.Label[0] = ti.Label[1]
		} else {
			gi.Label[0] = ti.Label[0]
		}
	}
	return nil
}
