package ast

import (
	"sort"
	"strconv"
	"strings"
)

// Prelude owns the builtin type nodes every program shares.
type Prelude struct {
	Scope *Scope

	Void     *BuiltinType
	Nil      *NilType
	Unknown  *UnknownType
	Boolean  *BuiltinType
	Integer  *BuiltinType
	Float    *BuiltinType
	Complex  *BuiltinType
	String   *BuiltinType
	Numeric  *BuiltinType
	Any      *BuiltinType
	Object   *BuiltinType
	Sequence *StructuralType
	Tuple    *StructuralType
	Index    *StructuralType
	Domain   *StructuralType
	Array    *StructuralType
	Locale   *StructuralType

	// NilVar is the global nil value.
	NilVar *VarSymbol

	sums      map[string]*SumType
	anonymous map[Type]int
}

// NewPrelude builds the builtin types, each declared by a TypeSymbol in
// the prelude scope.
func NewPrelude() *Prelude {
	p := &Prelude{
		Scope:     NewScope(ScopePrelude, nil),
		sums:      make(map[string]*SumType),
		anonymous: make(map[Type]int),
	}
	p.Void = p.builtin("void")
	p.Nil = &NilType{}
	p.declare("nil", p.Nil)
	p.Unknown = &UnknownType{}
	p.declare("?", p.Unknown)
	p.Boolean = p.builtin("bool")
	p.Integer = p.builtin("int64")
	p.Float = p.builtin("float64")
	p.Complex = p.builtin("complex64")
	p.String = p.builtin("string")
	p.Numeric = p.builtin("numeric")
	p.Any = p.builtin("any")
	p.Object = p.builtin("object")
	p.Sequence = p.class("sequence")
	p.Tuple = p.class("tuple")
	p.Index = p.class("index")
	p.Domain = p.class("domain")
	p.Array = p.class("array")
	p.Locale = p.class("locale")
	p.NilVar = &VarSymbol{SymBase: SymBase{Name: "nil", Type: p.Nil, Scope: p.Scope}}
	return p
}

func (p *Prelude) declare(name string, t Type) {
	ts := &TypeSymbol{SymBase: SymBase{Name: name, Type: t, Scope: p.Scope}}
	t.typeBase().Symbol = ts
}

func (p *Prelude) builtin(name string) *BuiltinType {
	t := &BuiltinType{Name: name}
	p.declare(name, t)
	return t
}

func (p *Prelude) class(name string) *StructuralType {
	t := &StructuralType{Kind: StructClass}
	p.declare(name, t)
	return t
}

// Types returns every builtin type node.
func (p *Prelude) Types() []Type {
	out := []Type{p.Void, p.Nil, p.Unknown, p.Boolean, p.Integer, p.Float,
		p.Complex, p.String, p.Numeric, p.Any, p.Object}
	out = append(out, p.Sequence, p.Tuple, p.Index, p.Domain, p.Array, p.Locale)
	for _, key := range p.sumKeys() {
		out = append(out, p.sums[key])
	}
	return out
}

func (p *Prelude) sumKeys() []string {
	keys := make([]string, 0, len(p.sums))
	for k := range p.sums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// IsScalarType reports whether t is a known builtin or enum type.
func (p *Prelude) IsScalarType(t Type) bool {
	if t == nil || t == Type(p.Unknown) {
		return false
	}
	switch t.(type) {
	case *BuiltinType, *EnumType:
		return true
	}
	return false
}

// IsUnknown reports whether t is absent or the unknown type.
func (p *Prelude) IsUnknown(t Type) bool {
	return t == nil || t == Type(p.Unknown)
}

// TypeInfo returns the static type of e as assigned by earlier passes,
// falling back to literal and variable types.
func (p *Prelude) TypeInfo(e Expression) Type {
	if e == nil {
		return p.Unknown
	}
	if t := e.exprBase().Typ; t != nil {
		return t
	}
	switch x := e.(type) {
	case *BoolLiteral:
		return p.Boolean
	case *IntLiteral:
		return p.Integer
	case *FloatLiteral:
		return p.Float
	case *ComplexLiteral:
		return p.Complex
	case *StringLiteral:
		return p.String
	case *Variable:
		if x.Var != nil && x.Var.symBase().Type != nil {
			return x.Var.symBase().Type
		}
	case *UserInitExpr:
		return p.TypeInfo(x.Expr)
	case *VarInitExpr:
		return p.TypeInfo(x.Expr)
	case *CastExpr:
		return x.NewType
	}
	return p.Unknown
}

// FindOrMakeSumType returns the sum type of types, creating it once per
// distinct member set.
func (p *Prelude) FindOrMakeSumType(types []Type) *SumType {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, p.typeKey(t))
	}
	sort.Strings(names)
	key := strings.Join(names, "|")
	if st, ok := p.sums[key]; ok {
		return st
	}
	st := &SumType{Components: append([]Type(nil), types...)}
	p.declare("sum("+key+")", st)
	p.sums[key] = st
	return st
}

func (p *Prelude) typeKey(t Type) string {
	if n := TypeName(t); n != "" {
		return n
	}
	id, ok := p.anonymous[t]
	if !ok {
		id = len(p.anonymous) + 1
		p.anonymous[t] = id
	}
	return "#" + strconv.Itoa(id)
}
