package analyzer

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/funvibe/lowerkit/internal/typesystem"
)

// newSym allocates a temporary for the code of n.
func (c *Context) newSym(n ast.Node) symbols.ID {
	s := c.Table.New("")
	if n != nil {
		s.Pos = n.GetToken()
	}
	return s.ID
}

// newNamedSym allocates a named symbol for the code of n.
func (c *Context) newNamedSym(name string, n ast.Node) *symbols.Sym {
	s := c.Table.New(name)
	if n != nil {
		s.Pos = n.GetToken()
	}
	return s
}

func (c *Context) makeConst(typ symbols.ID, text string, imm typesystem.Imm) symbols.ID {
	s := c.Table.Const(typ, text)
	s.Imm = imm
	return s.ID
}

// send emits args -> results into b.
func (c *Context) send(b *ir.Block, n ast.Node, args []symbols.ID, results ...symbols.ID) *ir.Send {
	return b.Send(len(args), n, append(append([]symbols.ID(nil), args...), results...)...)
}

// prim emits a send to the primitive name.
func (c *Context) prim(b *ir.Block, n ast.Node, name symbols.ID, args []symbols.ID, results ...symbols.ID) *ir.Send {
	return c.send(b, n, append([]symbols.ID{c.b.primitive, name}, args...), results...)
}

// genCoerce converts val to typ and returns the converted value.
func (c *Context) genCoerce(val, typ symbols.ID, b *ir.Block, n ast.Node) symbols.ID {
	tmp := c.newSym(n)
	c.send(b, n, []symbols.ID{c.b.coerce, typ, val}, tmp)
	return tmp
}

func isLiteral(e ast.Expression) bool {
	switch e.(type) {
	case *ast.BoolLiteral, *ast.IntLiteral, *ast.FloatLiteral, *ast.ComplexLiteral, *ast.StringLiteral:
		return true
	}
	return false
}

func (c *Context) isScalar(t ast.Type) bool { return c.Prelude.IsScalarType(t) }

func (c *Context) scalarOrReference(t ast.Type) bool {
	return c.isScalar(t) || ast.IsReferenceType(t)
}

func (c *Context) isUnknown(t ast.Type) bool { return c.Prelude.IsUnknown(t) }

// isThisMemberAccess reports whether ma reads a member of the receiver.
func isThisMemberAccess(ma *ast.MemberAccess) bool {
	v, ok := ma.Base.(*ast.Variable)
	return ok && v.Var != nil && ast.Base(v.Var).IsThis()
}

// ctorName is the selector of the default constructor of t.
func (c *Context) ctorName(t ast.Type) symbols.ID {
	ctor := ast.TypeInfoOf(t).DefaultConstructor
	if ctor == nil {
		diagnostics.Fatal(t.GetToken(), "type %s has no default constructor", ast.TypeName(t))
	}
	return c.makeSymbol(ctor.Name)
}

// typeNode returns the type node the type symbol id was built from.
func (c *Context) typeNode(id symbols.ID) ast.Type {
	s := c.Table.Get(id)
	if s == nil {
		return nil
	}
	t, _ := s.Node.(ast.Type)
	return t
}

// metaOf is the meta type of the type of v.
func (c *Context) metaOf(v *ast.Variable) symbols.ID {
	if v == nil || v.Var == nil {
		return symbols.None
	}
	t := ast.Base(v.Var).Type
	if t == nil {
		t = c.Prelude.Unknown
	}
	return c.sym(t).MetaType
}

// parentFn returns the function whose code n is part of.
func parentFn(n ast.Node) *ast.FnSymbol {
	switch x := n.(type) {
	case ast.Statement:
		return ast.ParentFunction(x)
	case ast.Expression:
		return ast.ParentFunction(ast.GetStmt(x))
	}
	return nil
}

// isOperatorName reports whether name starts with one or two operator
// characters, like "+", "==" or "<=".
func isOperatorName(name string) bool {
	if name == "" || !isOperatorChar(name[0]) {
		return false
	}
	return len(name) == 1 || isOperatorChar(name[1])
}

func isOperatorChar(ch byte) bool {
	punct := (ch > ' ' && ch < '0') || (ch > '9' && ch < 'A') ||
		(ch > 'Z' && ch < 'a') || ch > 'z'
	return punct && ch != '_' && ch != '?' && ch != '$'
}
