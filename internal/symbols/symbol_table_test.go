package symbols

import (
	"errors"
	"testing"

	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/typesystem"
)

func TestInterning(t *testing.T) {
	tab := NewTable()
	a := tab.MakeSymbol("+")
	b := tab.MakeSymbol("+")
	if a != b {
		t.Fatalf("MakeSymbol should intern: %v vs %v", a, b)
	}
	if !a.IsSymbol || !a.GlobalScope {
		t.Errorf("selector flags not set: %+v", a)
	}

	typ := tab.New("int64")
	c1 := tab.Const(typ.ID, "42")
	c2 := tab.Const(typ.ID, "42")
	c3 := tab.Const(typ.ID, "43")
	if c1 != c2 {
		t.Errorf("Const should intern equal text")
	}
	if c1 == c3 {
		t.Errorf("Const should distinguish text")
	}
	if c1.Type != typ.ID || !c1.IsConstant {
		t.Errorf("constant not typed: %+v", c1)
	}
}

func TestGetNone(t *testing.T) {
	tab := NewTable()
	if tab.Get(None) != nil {
		t.Errorf("Get(None) should be nil")
	}
	if tab.Get(5) != nil {
		t.Errorf("Get of unallocated id should be nil")
	}
	tab.New("x")
	if tab.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tab.Len())
	}
	if got := tab.Since(1); len(got) != 0 {
		t.Errorf("Since(1) = %v, want empty", got)
	}
}

func TestMetaTypePairing(t *testing.T) {
	tab := NewTable()
	s := tab.New("record")
	m := tab.MakeMetaType(s.ID)
	if tab.MakeMetaType(s.ID) != m {
		t.Errorf("MakeMetaType should be idempotent")
	}
	if tab.Get(tab.Get(s.ID).MetaType).MetaType != s.ID {
		t.Errorf("meta type of meta type should be the base")
	}
	if !tab.Get(m).IsMetaType {
		t.Errorf("meta type not flagged")
	}
}

func TestCopyType(t *testing.T) {
	tab := NewTable()
	s := tab.New("r")
	s.Kind = typesystem.KindRecord
	s.Has = []ID{tab.New("f").ID}
	c := tab.Copy(s.ID)
	if c.ID == s.ID || c.Type != c.ID {
		t.Errorf("copied type should be its own type: %+v", c)
	}
	c.Has[0] = None
	if s.Has[0] == None {
		t.Errorf("Copy shares Has with the original")
	}
}

func TestPromotion(t *testing.T) {
	tab := NewTable()
	i8 := tab.New("int8")
	i16 := tab.New("int16")
	i32 := tab.New("int32")
	tab.SpecializesAdd(i8.ID, i16.ID)
	tab.SpecializesAdd(i16.ID, i32.ID)

	if !tab.Promotes(i8.ID, i32.ID) {
		t.Errorf("int8 should promote to int32")
	}
	if tab.Promotes(i32.ID, i8.ID) {
		t.Errorf("promotion must be antisymmetric")
	}
	if !tab.PromotionAcyclic() {
		t.Errorf("chain reported cyclic")
	}
	tab.SpecializesAdd(i32.ID, i8.ID)
	if tab.PromotionAcyclic() {
		t.Errorf("cycle not detected")
	}
}

func TestBuildHierarchy(t *testing.T) {
	tab := NewTable()
	obj := tab.New("object")
	a := tab.New("A")
	b := tab.New("B")
	tab.InheritsAdd(a.ID, obj.ID)
	tab.InheritsAdd(b.ID, a.ID)
	tab.BuildHierarchy()

	if !Contains(obj.Implementors, a.ID) || !Contains(a.Implementors, b.ID) {
		t.Errorf("implementors not recorded: %v %v", obj.Implementors, a.Implementors)
	}
	if !tab.Specializes(b.ID, obj.ID) {
		t.Errorf("B should specialize object transitively")
	}

	tab.InheritsAdd(obj.ID, b.ID)
	var err error
	func() {
		defer diagnostics.Recover(&err)
		tab.BuildHierarchy()
	}()
	var abort *diagnostics.AbortError
	if !errors.As(err, &abort) {
		t.Fatalf("expected abort on cycle, got %v", err)
	}
}

func TestUnalias(t *testing.T) {
	tab := NewTable()
	i64 := tab.New("int64")
	i64.Kind = typesystem.KindPrimitive
	alias := tab.New("int")
	alias.Kind = typesystem.KindAlias
	alias.Alias = i64.ID
	if got := tab.Unalias(alias.ID); got != i64.ID {
		t.Errorf("Unalias(int) = %d, want %d", got, i64.ID)
	}
	if !tab.Specializes(alias.ID, i64.ID) {
		t.Errorf("alias should specialize its target")
	}
}
