package ast

// UnknownType is the type of expressions not yet typed.
type UnknownType struct {
	TypeBase
}

func (t *UnknownType) children(all bool) []Node { return t.baseChildren(all) }

// BuiltinType is a primitive type provided by the prelude.
type BuiltinType struct {
	TypeBase
	Name string
}

func (t *BuiltinType) children(all bool) []Node { return t.baseChildren(all) }

// FnType is the type of a function value.
type FnType struct {
	TypeBase
}

func (t *FnType) children(all bool) []Node { return t.baseChildren(all) }

// EnumType is an enumeration.
type EnumType struct {
	TypeBase
	Values []*EnumSymbol
}

func (t *EnumType) children(all bool) []Node {
	out := t.baseChildren(all)
	if all {
		for _, v := range t.Values {
			out = append(out, v)
		}
	}
	return out
}

// DomainType is an index space of Rank dimensions.
type DomainType struct {
	TypeBase
	Rank int
}

func (t *DomainType) children(all bool) []Node { return t.baseChildren(all) }

// IndexType is an index into a domain.
type IndexType struct {
	TypeBase
	IdxType    Type
	DomainType Type // may be nil
}

func (t *IndexType) children(all bool) []Node {
	out := t.baseChildren(all)
	if all {
		out = appendTypes(out, t.IdxType, t.DomainType)
	}
	return out
}

// ArrayType is [DomainType] ElementType.
type ArrayType struct {
	TypeBase
	ElementType Type
	DomainType  Type
}

func (t *ArrayType) children(all bool) []Node {
	out := t.baseChildren(all)
	if all {
		out = appendTypes(out, t.ElementType, t.DomainType)
	}
	return out
}

// TupleType is a product of component types. Fields are the positional
// component fields.
type TupleType struct {
	TypeBase
	Components []Type
	Fields     []*VarSymbol
}

func (t *TupleType) children(all bool) []Node {
	out := t.baseChildren(all)
	if all {
		out = appendTypes(out, t.Components...)
		for _, f := range t.Fields {
			out = append(out, f)
		}
	}
	return out
}

// UserType is a named alias of Definition.
type UserType struct {
	TypeBase
	Definition Type
}

func (t *UserType) children(all bool) []Node {
	out := t.baseChildren(all)
	if all {
		out = appendTypes(out, t.Definition)
	}
	return out
}

// LikeType is the type of the expression Expr.
type LikeType struct {
	TypeBase
	Expr Expression
}

func (t *LikeType) children(all bool) []Node {
	out := t.baseChildren(all)
	if all {
		out = appendExprs(out, t.Expr)
	}
	return out
}

// SeqType is a sequence of ElementType.
type SeqType struct {
	TypeBase
	ElementType Type
}

func (t *SeqType) children(all bool) []Node {
	out := t.baseChildren(all)
	if all {
		out = appendTypes(out, t.ElementType)
	}
	return out
}

type StructKind int

const (
	StructClass StructKind = iota
	StructRecord
	StructUnion
)

// StructuralType is a class, record or union.
type StructuralType struct {
	TypeBase
	Kind         StructKind
	Fields       []*VarSymbol
	ParentStruct Type
	Methods      []*FnSymbol
}

func (t *StructuralType) children(all bool) []Node {
	out := t.baseChildren(all)
	if all {
		for _, f := range t.Fields {
			out = append(out, f)
		}
		out = appendTypes(out, t.ParentStruct)
		for _, m := range t.Methods {
			out = append(out, m)
		}
	}
	return out
}

// MetaType is the type of the type Base.
type MetaType struct {
	TypeBase
	Base Type
}

func (t *MetaType) children(all bool) []Node {
	out := t.baseChildren(all)
	if all {
		out = appendTypes(out, t.Base)
	}
	return out
}

// VariableType is a generic type parameter.
type VariableType struct {
	TypeBase
}

func (t *VariableType) children(all bool) []Node { return t.baseChildren(all) }

// NilType is the type of nil.
type NilType struct {
	TypeBase
}

func (t *NilType) children(all bool) []Node { return t.baseChildren(all) }

// SumType is the union of Components.
type SumType struct {
	TypeBase
	Components []Type
}

func (t *SumType) children(all bool) []Node {
	out := t.baseChildren(all)
	if all {
		out = appendTypes(out, t.Components...)
	}
	return out
}

// IsReferenceType reports whether values of t are references.
func IsReferenceType(t Type) bool {
	switch tt := t.(type) {
	case *NilType:
		return true
	case *StructuralType:
		return tt.Kind == StructClass
	}
	return false
}

// TypeName returns the declared name of t, or "" for anonymous types.
func TypeName(t Type) string {
	if t == nil {
		return ""
	}
	if s := t.typeBase().Symbol; s != nil {
		return s.Name
	}
	if b, ok := t.(*BuiltinType); ok {
		return b.Name
	}
	return ""
}
