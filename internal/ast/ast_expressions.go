package ast

// BoolLiteral is true or false.
type BoolLiteral struct {
	ExprBase
	Str string
	Val bool
}

func (e *BoolLiteral) children(all bool) []Node { return nil }

// IntLiteral is an integer constant.
type IntLiteral struct {
	ExprBase
	Str string
	Val int64
}

func (e *IntLiteral) children(all bool) []Node { return nil }

// FloatLiteral is a floating point constant.
type FloatLiteral struct {
	ExprBase
	Str string
	Val float64
}

func (e *FloatLiteral) children(all bool) []Node { return nil }

// ComplexLiteral is a complex constant.
type ComplexLiteral struct {
	ExprBase
	Str  string
	Real float64
	Imag float64
}

func (e *ComplexLiteral) children(all bool) []Node { return nil }

// StringLiteral is a string constant.
type StringLiteral struct {
	ExprBase
	Str string
}

func (e *StringLiteral) children(all bool) []Node { return nil }

// Variable references a symbol.
type Variable struct {
	ExprBase
	Var Symbol
}

func (e *Variable) children(all bool) []Node {
	if all && e.Var != nil {
		return []Node{e.Var}
	}
	return nil
}

// VarInitExpr produces the default value of Expr's type.
type VarInitExpr struct {
	ExprBase
	Expr Expression
}

func (e *VarInitExpr) children(all bool) []Node { return appendExprs(nil, e.Expr) }

// UserInitExpr wraps a user supplied initializer.
type UserInitExpr struct {
	ExprBase
	Expr Expression
}

func (e *UserInitExpr) children(all bool) []Node { return appendExprs(nil, e.Expr) }

// DefExpr defines one symbol, with an optional initializer.
type DefExpr struct {
	ExprBase
	Sym     Symbol
	Init    Expression
	Pragmas []string
}

func (e *DefExpr) children(all bool) []Node {
	var out []Node
	if all && e.Sym != nil {
		out = append(out, e.Sym)
	}
	return appendExprs(out, e.Init)
}

type UnOpKind int

const (
	UnOpPlus UnOpKind = iota
	UnOpMinus
	UnOpLogNot
	UnOpBitNot
)

// UnOp is a prefix operator application.
type UnOp struct {
	ExprBase
	Op      UnOpKind
	Operand Expression
}

func (e *UnOp) children(all bool) []Node { return appendExprs(nil, e.Operand) }

type BinOpKind int

const (
	BinOpPlus BinOpKind = iota
	BinOpMinus
	BinOpMult
	BinOpDiv
	BinOpMod
	BinOpEqual
	BinOpLEqual
	BinOpGEqual
	BinOpGThan
	BinOpLThan
	BinOpNEqual
	BinOpBitAnd
	BinOpBitOr
	BinOpBitXor
	BinOpLogAnd
	BinOpLogOr
	BinOpExp
	BinOpSeqCat
	BinOpBy
)

// BinOp is an infix operator application. Special marks operators the
// parser rewrote from domain syntax; they lower identically.
type BinOp struct {
	ExprBase
	Op      BinOpKind
	Left    Expression
	Right   Expression
	Special bool
}

func (e *BinOp) children(all bool) []Node { return appendExprs(nil, e.Left, e.Right) }

// MemberAccess is base.member.
type MemberAccess struct {
	ExprBase
	Base   Expression
	Member Symbol
}

func (e *MemberAccess) children(all bool) []Node {
	out := appendExprs(nil, e.Base)
	if all && e.Member != nil {
		out = append(out, e.Member)
	}
	return out
}

type AssignKind int

const (
	AssignNorm AssignKind = iota
	AssignPlus
	AssignMinus
	AssignMult
	AssignDiv
	AssignBitAnd
	AssignBitOr
	AssignBitXor
)

// AssignOp is left op= right.
type AssignOp struct {
	ExprBase
	Op    AssignKind
	Left  Expression
	Right Expression
}

func (e *AssignOp) children(all bool) []Node { return appendExprs(nil, e.Left, e.Right) }

// SeqExpr is a sequence literal (/ a, b, c /).
type SeqExpr struct {
	ExprBase
	Exprs []Expression
}

func (e *SeqExpr) children(all bool) []Node { return appendExprs(nil, e.Exprs...) }

// SimpleSeqExpr is lo..hi by stride.
type SimpleSeqExpr struct {
	ExprBase
	Lo     Expression
	Hi     Expression
	Stride Expression
}

func (e *SimpleSeqExpr) children(all bool) []Node {
	return appendExprs(nil, e.Lo, e.Hi, e.Stride)
}

// FloodExpr is the * dimension specifier.
type FloodExpr struct {
	ExprBase
}

func (e *FloodExpr) children(all bool) []Node { return nil }

// CompleteDimExpr is the .. dimension specifier.
type CompleteDimExpr struct {
	ExprBase
}

func (e *CompleteDimExpr) children(all bool) []Node { return nil }

// LetExpr binds variables for the inner expression.
type LetExpr struct {
	ExprBase
	Defs  []*DefExpr
	Inner Expression
}

func (e *LetExpr) children(all bool) []Node {
	var out []Node
	for _, d := range e.Defs {
		out = append(out, d)
	}
	return appendExprs(out, e.Inner)
}

// CondExpr is if c then a else b as an expression.
type CondExpr struct {
	ExprBase
	Cond Expression
	Then Expression
	Else Expression
}

func (e *CondExpr) children(all bool) []Node {
	return appendExprs(nil, e.Cond, e.Then, e.Else)
}

// ForallExpr is either a domain literal [D1, D2] or, when Body is set,
// a forall expression [i in D] body.
type ForallExpr struct {
	ExprBase
	Indices []*DefExpr
	Domains []Expression
	Body    Expression
}

func (e *ForallExpr) children(all bool) []Node {
	var out []Node
	for _, d := range e.Indices {
		out = append(out, d)
	}
	out = appendExprs(out, e.Domains...)
	return appendExprs(out, e.Body)
}

type CallKind int

const (
	CallParenOp CallKind = iota
	CallFn
	CallArrayRef
	CallTupleSelect
)

// ParenOpExpr is base(args): a call, array reference or tuple select.
type ParenOpExpr struct {
	ExprBase
	Kind CallKind
	Base Expression
	Args []Expression
}

func (e *ParenOpExpr) children(all bool) []Node {
	out := appendExprs(nil, e.Base)
	return appendExprs(out, e.Args...)
}

// CastExpr is expr: NewType.
type CastExpr struct {
	ExprBase
	NewType Type
	Expr    Expression
}

func (e *CastExpr) children(all bool) []Node {
	var out []Node
	if all && e.NewType != nil {
		out = append(out, e.NewType)
	}
	return appendExprs(out, e.Expr)
}

// CastLikeExpr casts Expr to the type of Variable.
type CastLikeExpr struct {
	ExprBase
	Variable *Variable
	Expr     Expression
}

func (e *CastLikeExpr) children(all bool) []Node {
	var out []Node
	if e.Variable != nil {
		out = append(out, e.Variable)
	}
	return appendExprs(out, e.Expr)
}

// ReduceExpr is ReduceType reduce [dim] arg.
type ReduceExpr struct {
	ExprBase
	ReduceType Type
	Dim        Expression
	Arg        Expression
}

func (e *ReduceExpr) children(all bool) []Node {
	var out []Node
	if all && e.ReduceType != nil {
		out = append(out, e.ReduceType)
	}
	return appendExprs(out, e.Dim, e.Arg)
}

// TupleExpr is (a, b, ...).
type TupleExpr struct {
	ExprBase
	Exprs []Expression
}

func (e *TupleExpr) children(all bool) []Node { return appendExprs(nil, e.Exprs...) }

// SizeofExpr is sizeof(variable's type).
type SizeofExpr struct {
	ExprBase
	Variable *Variable
}

func (e *SizeofExpr) children(all bool) []Node {
	if e.Variable != nil {
		return []Node{e.Variable}
	}
	return nil
}

// NamedExpr is a named actual name = actual.
type NamedExpr struct {
	ExprBase
	Name   string
	Actual Expression
}

func (e *NamedExpr) children(all bool) []Node { return appendExprs(nil, e.Actual) }
