package typesystem

import (
	"testing"
)

func TestTypeKindString(t *testing.T) {
	tests := []struct {
		kind TypeKind
		want string
	}{
		{KindNone, "none"},
		{KindPrimitive, "primitive"},
		{KindRecord, "record"},
		{KindLUB, "lub"},
		{KindVariable, "variable"},
		{TypeKind(99), "?"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("TypeKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
	if KindNone.IsType() {
		t.Errorf("KindNone should not be a type")
	}
	if !KindAlias.IsType() {
		t.Errorf("KindAlias should be a type")
	}
}

func TestImmString(t *testing.T) {
	tests := []struct {
		name string
		imm  Imm
		want string
	}{
		{"bool", BoolImm(true), "true"},
		{"int", IntImm(42), "42"},
		{"negative", IntImm(-7), "-7"},
		{"uint", UintImm(7), "7"},
		{"float", FloatImm(1.5), "1.5"},
		{"complex", ComplexImm(complex(1, 2)), "(1+2i)"},
		{"string", StringImm("hi"), `"hi"`},
		{"empty", Imm{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.imm.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
