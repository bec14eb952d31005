package analyzer

import (
	"io"
	"strconv"
	"testing"

	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/config"
	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/funvibe/lowerkit/internal/token"
	"github.com/nalgeon/be"
)

// program builds a single module by hand.
type program struct {
	p    *ast.Prelude
	mod  *ast.ModuleSymbol
	c    *Context
	line int
}

func newProgram() *program {
	p := ast.NewPrelude()
	mod := &ast.ModuleSymbol{}
	mod.Name = "main"
	mod.ModScope = ast.NewScope(ast.ScopeModule, p.Scope)
	opts := config.DefaultOptions()
	opts.Trace = io.Discard
	return &program{p: p, mod: mod, c: New(opts, p)}
}

func (g *program) tok() token.Token {
	g.line++
	return token.Token{File: "main.chpl", Line: g.line, Column: 1}
}

// fn defines a module level function and makes it visible. The body is
// filled by the caller through the returned function.
func (g *program) fn(name string, formals ...*ast.ParamSymbol) *ast.FnSymbol {
	f := g.declare(name, formals...)
	g.mod.ModScope.AddVisible(f)
	return f
}

// declare defines a function without making it visible.
func (g *program) declare(name string, formals ...*ast.ParamSymbol) *ast.FnSymbol {
	f := &ast.FnSymbol{}
	f.Token = g.tok()
	f.Name = name
	f.Scope = g.mod.ModScope
	f.ParamScope = ast.NewScope(ast.ScopeParam, g.mod.ModScope)
	for _, p := range formals {
		p.Scope = f.ParamScope
	}
	f.Formals = formals
	f.Body = &ast.BlockStmt{}
	def := &ast.DefExpr{Sym: f}
	def.Token = f.Token
	st := &ast.DefStmt{Defs: []*ast.DefExpr{def}}
	st.Token = f.Token
	g.mod.Stmts = append(g.mod.Stmts, st)
	return f
}

func (g *program) param(name string, t ast.Type) *ast.ParamSymbol {
	p := &ast.ParamSymbol{}
	p.Token = g.tok()
	p.Name = name
	p.Type = t
	return p
}

func (g *program) local(name string, t ast.Type) *ast.VarSymbol {
	v := &ast.VarSymbol{}
	v.Token = g.tok()
	v.Name = name
	v.Type = t
	v.Scope = ast.NewScope(ast.ScopeLocal, nil)
	return v
}

// class defines a class type with the given fields at module level.
func (g *program) class(name string, fields ...*ast.VarSymbol) *ast.StructuralType {
	st := &ast.StructuralType{Kind: ast.StructClass}
	st.Token = g.tok()
	ts := &ast.TypeSymbol{}
	ts.Token = st.Token
	ts.Name = name
	ts.Type = st
	ts.Scope = g.mod.ModScope
	st.Symbol = ts
	cs := ast.NewScope(ast.ScopeClass, g.mod.ModScope)
	for _, f := range fields {
		f.Scope = cs
	}
	st.Fields = fields
	def := &ast.DefExpr{Sym: ts}
	def.Token = st.Token
	g.mod.Stmts = append(g.mod.Stmts, &ast.DefStmt{Defs: []*ast.DefExpr{def}})
	return st
}

func (g *program) field(name string, t ast.Type) *ast.VarSymbol {
	v := &ast.VarSymbol{}
	v.Token = g.tok()
	v.Name = name
	v.Type = t
	return v
}

func (g *program) ref(s ast.Symbol) *ast.Variable {
	v := &ast.Variable{Var: s}
	v.Token = g.tok()
	return v
}

func (g *program) num(n int64) *ast.IntLiteral {
	l := &ast.IntLiteral{Val: n}
	l.Token = g.tok()
	return l
}

func (g *program) str(s string) *ast.StringLiteral {
	l := &ast.StringLiteral{Str: s}
	l.Token = g.tok()
	return l
}

func (g *program) def(v *ast.VarSymbol, init ast.Expression) *ast.DefStmt {
	d := &ast.DefExpr{Sym: v, Init: init}
	d.Token = v.Token
	st := &ast.DefStmt{Defs: []*ast.DefExpr{d}}
	st.Token = v.Token
	return st
}

func (g *program) expr(e ast.Expression) *ast.ExprStmt {
	s := &ast.ExprStmt{Expr: e}
	s.Token = g.tok()
	return s
}

func (g *program) ret(e ast.Expression) *ast.ReturnStmt {
	s := &ast.ReturnStmt{Expr: e}
	s.Token = g.tok()
	return s
}

func (g *program) assign(left, right ast.Expression) *ast.AssignOp {
	a := &ast.AssignOp{Op: ast.AssignNorm, Left: left, Right: right}
	a.Token = g.tok()
	return a
}

func (g *program) binop(op ast.BinOpKind, l, r ast.Expression) *ast.BinOp {
	b := &ast.BinOp{Op: op, Left: l, Right: r}
	b.Token = g.tok()
	return b
}

func (g *program) call(base ast.Expression, args ...ast.Expression) *ast.ParenOpExpr {
	p := &ast.ParenOpExpr{Kind: ast.CallFn, Base: base, Args: args}
	p.Token = g.tok()
	return p
}

func (g *program) block(stmts ...ast.Statement) *ast.BlockStmt {
	b := &ast.BlockStmt{Body: stmts}
	b.Token = g.tok()
	return b
}

// analyze runs the analysis and fails the test on error.
func (g *program) analyze(t *testing.T) *Context {
	t.Helper()
	err := g.c.Analyze(g.mod)
	be.Err(t, err, nil)
	return g.c
}

// closure returns the lowered code of f.
func (g *program) closure(t *testing.T, f *ast.FnSymbol) *ir.Closure {
	t.Helper()
	cl := g.c.Program.Closure(g.c.SymOf(f))
	be.True(t, cl != nil)
	return cl
}

// selectorsOf returns the first argument of every send in b.
func selectorsOf(b *ir.Block) []symbols.ID {
	var out []symbols.ID
	for _, s := range b.Sends() {
		if len(s.Args) > 0 {
			out = append(out, s.Args[0])
		}
	}
	return out
}

// countPrims counts the primitive sends of b to name.
func (g *program) countPrims(b *ir.Block, name string) int {
	n := 0
	for _, s := range b.Sends() {
		if len(s.Args) > 1 && s.Args[0] == g.c.b.primitive && g.c.Table.Name(s.Args[1]) == name {
			n++
		}
	}
	return n
}

// shape describes the instruction kinds and arities of b, without
// symbol identities.
func shape(b *ir.Block) []string {
	var out []string
	b.Walk(func(c ir.Code) {
		switch x := c.(type) {
		case *ir.Send:
			out = append(out, "send/"+strconv.Itoa(len(x.Args))+"/"+strconv.Itoa(len(x.Results)))
		case *ir.Move:
			out = append(out, "move")
		case *ir.Goto:
			out = append(out, "goto")
		case *ir.LabelCode:
			out = append(out, "label")
		case *ir.If:
			out = append(out, "if")
		case *ir.Loop:
			out = append(out, "loop")
		}
	})
	return out
}
