package symbols

import (
	"fmt"

	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/token"
	"github.com/funvibe/lowerkit/internal/typesystem"
)

// ID addresses a Sym in its Table. The zero ID means "no symbol".
type ID int32

const None ID = 0

// Sym is the canonical analysis symbol. Every symbol, type, constant,
// selector and temporary the analysis creates is a Sym; references
// between them are IDs into the owning Table.
type Sym struct {
	ID   ID
	Name string
	Kind typesystem.TypeKind

	// Has lists record members, LUB members, enum elements or, for
	// functions, the formals of the closure.
	Has []ID
	// Element is the placeholder for container elements.
	Element ID
	// Domain is the index space of arrays and indices.
	Domain ID
	// Alias is the target of alias kinds.
	Alias ID
	// MetaType is the type of this type. Meta types pair with their
	// base: Get(Get(s).MetaType).MetaType == s.
	MetaType ID
	// Type is the static type of a value symbol, or the type itself.
	Type ID

	Inherits       []ID
	Specializes    []ID
	Specializers   []ID // reverse of Specializes and Inherits
	Implementors   []ID // reverse of Inherits
	Instantiates   ID
	MustSpecialize ID
	MustImplement  ID
	Aspect         ID

	IsConstant        bool
	IsSymbol          bool
	IsVar             bool
	IsExternal        bool
	IsReadOnly        bool
	GlobalScope       bool
	FunctionScope     bool
	IsPattern         bool
	IsMetaType        bool
	IsValueClass      bool
	IsUnionClass      bool
	IsGeneric         bool
	CloneForConstants bool
	FunReturnsValue   bool

	Intent   typesystem.Intent
	Imm      typesystem.Imm
	Constant string // source text of constants
	Builtin  string // name under which the symbol is a builtin

	NumKind  typesystem.NumKind
	NumWidth int

	// Function symbols: continuation, return value and receiver.
	Cont ID
	Ret  ID
	Self ID

	// ArgName is the name of a named actual.
	ArgName string

	// Node is the source node the symbol was created for, if any.
	Node ast.Node
	// Pos is the position of the lowering unit that created the symbol.
	Pos token.Token
}

func (s *Sym) String() string {
	if s == nil {
		return "<nil>"
	}
	name := s.Name
	if name == "" {
		name = "_"
	}
	if s.IsConstant {
		return fmt.Sprintf("%s#%d", s.Constant, s.ID)
	}
	return fmt.Sprintf("%s#%d", name, s.ID)
}

// IsType reports whether the symbol denotes a type.
func (s *Sym) IsType() bool { return s.Kind.IsType() }

// IsOut reports whether the symbol is an out formal.
func (s *Sym) IsOut() bool { return s.Intent == typesystem.IntentOut }

func addUnique(list []ID, id ID) []ID {
	for _, x := range list {
		if x == id {
			return list
		}
	}
	return append(list, id)
}

// Contains reports whether list holds id.
func Contains(list []ID, id ID) bool {
	for _, x := range list {
		if x == id {
			return true
		}
	}
	return false
}
