package ast

import (
	"github.com/funvibe/lowerkit/internal/token"
)

// TokenProvider is an interface for any AST node that can provide its primary token.
// This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes. The set of node types is
// closed: only this package can implement it.
type Node interface {
	GetToken() token.Token
	// children returns statement and expression children in source
	// order; with all set it also returns symbol and type children.
	children(all bool) []Node
}

// Statement is a Node that represents a statement.
type Statement interface {
	Node
	statementNode()
	stmtBase() *StmtBase
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	exprBase() *ExprBase
}

// Symbol is a Node that declares a name.
type Symbol interface {
	Node
	symbolNode()
	symBase() *SymBase
}

// Type is a Node that denotes a type.
type Type interface {
	Node
	typeNode()
	typeBase() *TypeBase
}

// Children returns the statement and expression children of n.
func Children(n Node) []Node { return n.children(false) }

// AllChildren returns every child of n including symbols and types.
func AllChildren(n Node) []Node { return n.children(true) }

// StmtBase is embedded in every statement.
type StmtBase struct {
	Token token.Token
	// ParentFn is the enclosing function, nil at module level.
	ParentFn *FnSymbol
	// ParentSymbol is the module or function that owns the statement.
	ParentSymbol Symbol
}

func (b *StmtBase) GetToken() token.Token { return b.Token }
func (b *StmtBase) stmtBase() *StmtBase   { return b }
func (b *StmtBase) statementNode()        {}

// ParentFunction returns the function containing the statement.
func (b *StmtBase) ParentFunction() *FnSymbol { return b.ParentFn }

// ParentFunction returns the function containing s, or nil.
func ParentFunction(s Statement) *FnSymbol {
	if s == nil {
		return nil
	}
	return s.stmtBase().ParentFn
}

// ParentSymbolOf returns the module or function that owns s.
func ParentSymbolOf(s Statement) Symbol {
	if s == nil {
		return nil
	}
	return s.stmtBase().ParentSymbol
}

// ExprBase is embedded in every expression.
type ExprBase struct {
	Token token.Token
	// Stmt is the statement the expression belongs to.
	Stmt Statement
	// Typ is the type an earlier pass assigned to the expression, if any.
	Typ Type
}

func (b *ExprBase) GetToken() token.Token { return b.Token }
func (b *ExprBase) exprBase() *ExprBase   { return b }
func (b *ExprBase) expressionNode()       {}

// GetStmt returns the statement containing e.
func GetStmt(e Expression) Statement {
	if e == nil {
		return nil
	}
	return e.exprBase().Stmt
}

// SymBase is embedded in every symbol.
type SymBase struct {
	Token    token.Token
	Name     string
	Type     Type
	Scope    *Scope
	Pragmas  []string
	DefPoint *DefExpr
}

func (b *SymBase) GetToken() token.Token { return b.Token }
func (b *SymBase) symBase() *SymBase     { return b }
func (b *SymBase) symbolNode()           {}

// IsThis reports whether the symbol is the implicit receiver.
func (b *SymBase) IsThis() bool { return b.Name == "this" }

// HasPragma reports whether the symbol carries pragma p.
func (b *SymBase) HasPragma(p string) bool {
	for _, x := range b.Pragmas {
		if x == p {
			return true
		}
	}
	return false
}

// Base returns the shared symbol fields of s.
func Base(s Symbol) *SymBase { return s.symBase() }

// TypeBase is embedded in every type.
type TypeBase struct {
	Token token.Token
	// Symbol declares the type; nil for anonymous types.
	Symbol *TypeSymbol
	// DefaultVal is a literal or variable used to initialize variables
	// of this type.
	DefaultVal Expression
	// DefaultConstructor is invoked when there is no DefaultVal.
	DefaultConstructor *FnSymbol
	// ParentType is a declared supertype constraint.
	ParentType Type
}

func (b *TypeBase) GetToken() token.Token { return b.Token }
func (b *TypeBase) typeBase() *TypeBase   { return b }
func (b *TypeBase) typeNode()             {}

// TypeInfoOf returns the shared type fields of t.
func TypeInfoOf(t Type) *TypeBase { return t.typeBase() }

func (b *TypeBase) baseChildren(all bool) []Node {
	if !all {
		return nil
	}
	var out []Node
	if b.Symbol != nil {
		out = append(out, b.Symbol)
	}
	if b.DefaultVal != nil {
		out = append(out, b.DefaultVal)
	}
	if b.DefaultConstructor != nil {
		out = append(out, b.DefaultConstructor)
	}
	if b.ParentType != nil {
		out = append(out, b.ParentType)
	}
	return out
}

// ScopeKind classifies a lexical scope.
type ScopeKind int

const (
	ScopeIntrinsic ScopeKind = iota
	ScopeInternalPrelude
	ScopePrelude
	ScopeModule
	ScopePostparse
	ScopeLetExpr
	ScopeParam
	ScopeFunction
	ScopeLocal
	ScopeForLoop
	ScopeForallExpr
	ScopeClass
)

// Scope is a lexical scope with the functions visible from it.
type Scope struct {
	Kind             ScopeKind
	Parent           *Scope
	VisibleFunctions map[string][]*FnSymbol
}

func NewScope(kind ScopeKind, parent *Scope) *Scope {
	return &Scope{Kind: kind, Parent: parent}
}

// AddVisible makes fn visible from s and from every scope nested in s
// that does not shadow it.
func (s *Scope) AddVisible(fn *FnSymbol) {
	if s.VisibleFunctions == nil {
		s.VisibleFunctions = make(map[string][]*FnSymbol)
	}
	s.VisibleFunctions[fn.Name] = append(s.VisibleFunctions[fn.Name], fn)
}

// Visible returns the functions named name visible from s, walking
// outward through parents.
func (s *Scope) Visible(name string) []*FnSymbol {
	var out []*FnSymbol
	for sc := s; sc != nil; sc = sc.Parent {
		out = append(out, sc.VisibleFunctions[name]...)
	}
	return out
}

func appendExprs(out []Node, es ...Expression) []Node {
	for _, e := range es {
		if e != nil {
			out = append(out, e)
		}
	}
	return out
}

func appendStmts(out []Node, ss ...Statement) []Node {
	for _, s := range ss {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func appendTypes(out []Node, ts ...Type) []Node {
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}
