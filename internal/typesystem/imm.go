package typesystem

import (
	"strconv"
)

// Imm is the immediate value of a constant symbol.
type Imm struct {
	Kind    NumKind
	Bool    bool
	Int     int64
	Uint    uint64
	Float   float64
	Complex complex128
	Str     string
	IsStr   bool
}

func BoolImm(v bool) Imm          { return Imm{Kind: NumBool, Bool: v} }
func IntImm(v int64) Imm          { return Imm{Kind: NumInt, Int: v} }
func UintImm(v uint64) Imm        { return Imm{Kind: NumUint, Uint: v} }
func FloatImm(v float64) Imm      { return Imm{Kind: NumFloat, Float: v} }
func ComplexImm(v complex128) Imm { return Imm{Kind: NumComplex, Complex: v} }
func StringImm(v string) Imm      { return Imm{Str: v, IsStr: true} }

func (i Imm) String() string {
	if i.IsStr {
		return strconv.Quote(i.Str)
	}
	switch i.Kind {
	case NumBool:
		return strconv.FormatBool(i.Bool)
	case NumInt:
		return strconv.FormatInt(i.Int, 10)
	case NumUint:
		return strconv.FormatUint(i.Uint, 10)
	case NumFloat:
		return strconv.FormatFloat(i.Float, 'g', -1, 64)
	case NumComplex:
		return strconv.FormatComplex(i.Complex, 'g', -1, 128)
	}
	return ""
}
