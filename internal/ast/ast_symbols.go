package ast

type VarClass int

const (
	VarNormal VarClass = iota
	VarRef
	VarConfig
	VarState
)

type ConsClass int

const (
	ConsVar ConsClass = iota
	ConsConst
	ConsParam
)

// VarSymbol is a variable or field.
type VarSymbol struct {
	SymBase
	VarClass      VarClass
	ConsClass     ConsClass
	NoDefaultInit bool
	Aspect        Type
}

func (s *VarSymbol) children(all bool) []Node {
	if !all {
		return nil
	}
	return appendTypes(nil, s.Type, s.Aspect)
}

type ParamIntent int

const (
	ParamBlank ParamIntent = iota
	ParamIn
	ParamInOut
	ParamOut
	ParamConst
)

// ParamSymbol is a formal parameter.
type ParamSymbol struct {
	SymBase
	Intent    ParamIntent
	IsGeneric bool
	// TypeVariable is the type parameter a generic formal introduces.
	TypeVariable *TypeSymbol
	// Init is the default argument, nil if none.
	Init Expression
}

func (s *ParamSymbol) children(all bool) []Node {
	if !all {
		return nil
	}
	out := appendTypes(nil, s.Type)
	if s.TypeVariable != nil {
		out = append(out, s.TypeVariable)
	}
	return appendExprs(out, s.Init)
}

// TypeSymbol names a type. Its Type field is the defined type.
type TypeSymbol struct {
	SymBase
}

func (s *TypeSymbol) children(all bool) []Node {
	if !all {
		return nil
	}
	return appendTypes(nil, s.Type)
}

type MethodType int

const (
	NonMethod MethodType = iota
	PrimaryMethod
	SecondaryMethod
)

// FnSymbol is a function definition.
type FnSymbol struct {
	SymBase
	Formals       []*ParamSymbol
	RetType       Type
	Body          *BlockStmt
	IsConstructor bool
	IsGetter      bool
	IsSetter      bool
	// This is the receiver variable of methods and constructors.
	This        *VarSymbol
	MethodType  MethodType
	TypeBinding *TypeSymbol
	ParamScope  *Scope
}

func (s *FnSymbol) children(all bool) []Node {
	if !all {
		return nil
	}
	var out []Node
	for _, f := range s.Formals {
		out = append(out, f)
	}
	out = appendTypes(out, s.RetType)
	if s.This != nil {
		out = append(out, s.This)
	}
	if s.Body != nil {
		out = append(out, s.Body)
	}
	return out
}

// IsGeneric reports whether any formal is generic.
func (s *FnSymbol) IsGeneric() bool {
	for _, f := range s.Formals {
		if f.IsGeneric {
			return true
		}
	}
	return false
}

// EnumSymbol is one enumeration constant.
type EnumSymbol struct {
	SymBase
}

func (s *EnumSymbol) children(all bool) []Node { return nil }

// ModuleSymbol is a module and its top-level statements.
type ModuleSymbol struct {
	SymBase
	ModScope *Scope
	Stmts    []Statement
}

func (s *ModuleSymbol) children(all bool) []Node {
	if !all {
		return nil
	}
	return appendStmts(nil, s.Stmts...)
}

// UnresolvedSymbol is a name the resolver left for dynamic dispatch.
type UnresolvedSymbol struct {
	SymBase
}

func (s *UnresolvedSymbol) children(all bool) []Node { return nil }

// LabelSymbol names a label.
type LabelSymbol struct {
	SymBase
}

func (s *LabelSymbol) children(all bool) []Node { return nil }
