package ast

// LabelStmt attaches a label to a statement.
// label L: stmt
type LabelStmt struct {
	StmtBase
	Label *LabelSymbol
	Stmt  Statement
}

func (s *LabelStmt) children(all bool) []Node {
	var out []Node
	if all && s.Label != nil {
		out = append(out, s.Label)
	}
	return appendStmts(out, s.Stmt)
}

type GotoKind int

const (
	GotoNormal GotoKind = iota
	GotoBreak
	GotoContinue
)

// GotoStmt jumps to a named label. Break and continue jump out of or back
// to the top of the labeled loop, or the innermost loop when Label is nil.
type GotoStmt struct {
	StmtBase
	Kind  GotoKind
	Label *LabelSymbol
}

func (s *GotoStmt) children(all bool) []Node { return nil }

// NoopStmt does nothing.
type NoopStmt struct {
	StmtBase
}

func (s *NoopStmt) children(all bool) []Node { return nil }

// WithStmt imports a record's fields into scope.
type WithStmt struct {
	StmtBase
	Expr Expression
}

func (s *WithStmt) children(all bool) []Node { return appendExprs(nil, s.Expr) }

// UseStmt imports a module.
type UseStmt struct {
	StmtBase
	Expr Expression
}

func (s *UseStmt) children(all bool) []Node { return appendExprs(nil, s.Expr) }

// DefStmt defines variables, types or functions.
type DefStmt struct {
	StmtBase
	Defs []*DefExpr
}

func (s *DefStmt) children(all bool) []Node {
	out := make([]Node, 0, len(s.Defs))
	for _, d := range s.Defs {
		out = append(out, d)
	}
	return out
}

// VarDef reports whether the statement defines variables.
func (s *DefStmt) VarDef() bool {
	for _, d := range s.Defs {
		if _, ok := d.Sym.(*VarSymbol); ok {
			return true
		}
	}
	return false
}

// DefinesFunctions reports whether the statement defines functions.
func (s *DefStmt) DefinesFunctions() bool {
	for _, d := range s.Defs {
		if _, ok := d.Sym.(*FnSymbol); ok {
			return true
		}
	}
	return false
}

// ExprStmt evaluates an expression for its effect.
type ExprStmt struct {
	StmtBase
	Expr Expression
}

func (s *ExprStmt) children(all bool) []Node { return appendExprs(nil, s.Expr) }

// ReturnStmt returns from the enclosing function.
type ReturnStmt struct {
	StmtBase
	Expr Expression // nil for a bare return
}

func (s *ReturnStmt) children(all bool) []Node { return appendExprs(nil, s.Expr) }

// BlockStmt is a sequence of statements.
type BlockStmt struct {
	StmtBase
	Body []Statement
}

func (s *BlockStmt) children(all bool) []Node {
	out := make([]Node, 0, len(s.Body))
	return appendStmts(out, s.Body...)
}

// WhileLoopStmt loops while Condition holds.
type WhileLoopStmt struct {
	StmtBase
	Condition Expression
	Body      *BlockStmt
}

func (s *WhileLoopStmt) children(all bool) []Node {
	out := appendExprs(nil, s.Condition)
	if s.Body != nil {
		out = append(out, s.Body)
	}
	return out
}

// ForLoopStmt iterates indices over a domain. Forall marks the
// data-parallel form; both lower identically.
type ForLoopStmt struct {
	StmtBase
	Forall  bool
	Indices []*DefExpr
	Domain  Expression
	Body    *BlockStmt
}

func (s *ForLoopStmt) children(all bool) []Node {
	var out []Node
	for _, d := range s.Indices {
		out = append(out, d)
	}
	out = appendExprs(out, s.Domain)
	if s.Body != nil {
		out = append(out, s.Body)
	}
	return out
}

// CondStmt is if/then/else.
type CondStmt struct {
	StmtBase
	Cond Expression
	Then Statement
	Else Statement // may be nil
}

func (s *CondStmt) children(all bool) []Node {
	return appendStmts(appendExprs(nil, s.Cond), s.Then, s.Else)
}
