package typesystem

// TypeKind classifies a canonical symbol that denotes a type.
type TypeKind int

const (
	KindNone TypeKind = iota
	KindUnknown
	KindPrimitive
	KindAlias
	KindRecord
	KindTagged
	KindProduct
	KindFun
	KindLUB
	KindVariable
)

var typeKindNames = [...]string{
	KindNone:      "none",
	KindUnknown:   "unknown",
	KindPrimitive: "primitive",
	KindAlias:     "alias",
	KindRecord:    "record",
	KindTagged:    "tagged",
	KindProduct:   "product",
	KindFun:       "function",
	KindLUB:       "lub",
	KindVariable:  "variable",
}

func (k TypeKind) String() string {
	if int(k) < len(typeKindNames) {
		return typeKindNames[k]
	}
	return "?"
}

// IsType reports whether symbols of this kind denote types.
func (k TypeKind) IsType() bool { return k != KindNone }

// Intent is the parameter passing mode of a formal.
type Intent int

const (
	IntentNone Intent = iota
	IntentIn
	IntentInOut
	IntentOut
)

func (i Intent) String() string {
	switch i {
	case IntentIn:
		return "in"
	case IntentInOut:
		return "inout"
	case IntentOut:
		return "out"
	}
	return ""
}

// NumKind is the basic numeric class of a primitive type.
type NumKind int

const (
	NumNone NumKind = iota
	NumBool
	NumInt
	NumUint
	NumFloat
	NumComplex
)

func (n NumKind) String() string {
	switch n {
	case NumBool:
		return "bool"
	case NumInt:
		return "int"
	case NumUint:
		return "uint"
	case NumFloat:
		return "float"
	case NumComplex:
		return "complex"
	}
	return "none"
}
