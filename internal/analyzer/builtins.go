package analyzer

import (
	"strconv"
	"strings"

	"github.com/funvibe/lowerkit/internal/config"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/funvibe/lowerkit/internal/typesystem"
)

// builtins holds the symbols of the builtin type lattice.
type builtins struct {
	system, init, newObject symbols.ID

	void, null, unknown, module, symbol, function, continuation, vector symbols.ID
	object, list, ref, value, set                                    symbols.ID

	bool, true, false                symbols.ID
	int8, int16, int32, int64, int   symbols.ID
	uint8, uint16, uint32, uint64    symbols.ID
	uint, size, enumElement          symbols.ID
	float32, float64, float128       symbols.ID
	float                            symbols.ID
	complex32, complex64, complex128 symbols.ID
	complex, char, string            symbols.ID

	any, anyclass, anyint, anyfloat, anycomplex, anynum symbols.ID

	nil symbols.ID

	sequence, tuple, index, domain, array, locale symbols.ID

	// markers of the intermediate code
	primitive, operator, new, coerce, destruct, reply symbols.ID
}

// selectors are the interned names the lowering sends to.
type selectors struct {
	domainStartIndex, domainNextIndex, domainValidIndex symbols.ID
	exprSimpleSeq, exprDomain, exprCreateDomain        symbols.ID
	exprReduce, sizeof, cast                           symbols.ID
	method, setThis                                    symbols.ID
	makeSeq, makeTuple, vardef                         symbols.ID
	write, writeln, read                               symbols.ID
	arrayIndex, arraySet                               symbols.ID
	flood, completeDim                                 symbols.ID
}

func (c *Context) makeSymbol(name string) symbols.ID {
	return c.Table.MakeSymbol(name).ID
}

func (c *Context) initSymbols() {
	c.sel = selectors{
		domainStartIndex: c.makeSymbol(config.PrimDomainStartIndex),
		domainNextIndex:  c.makeSymbol(config.PrimDomainNextIndex),
		domainValidIndex: c.makeSymbol(config.PrimDomainValidIndex),
		exprSimpleSeq:    c.makeSymbol(config.PrimExprSimpleSeq),
		exprDomain:       c.makeSymbol(config.PrimExprDomain),
		exprCreateDomain: c.makeSymbol(config.PrimExprCreateDomain),
		exprReduce:       c.makeSymbol(config.PrimExprReduce),
		sizeof:           c.makeSymbol(config.PrimSizeof),
		cast:             c.makeSymbol(config.PrimCast),
		method:           c.makeSymbol(config.MethodSelector),
		setThis:          c.makeSymbol(config.SetThisSelector),
		makeSeq:          c.makeSymbol(config.PrimMakeSeq),
		makeTuple:        c.makeSymbol(config.PrimMakeTuple),
		vardef:           c.makeSymbol(config.PrimVardef),
		write:            c.makeSymbol(config.PrimWrite),
		writeln:          c.makeSymbol(config.PrimWriteln),
		read:             c.makeSymbol(config.PrimRead),
		arrayIndex:       c.makeSymbol(config.PrimArrayIndex),
		arraySet:         c.makeSymbol(config.PrimArraySet),
		flood:            c.makeSymbol(config.FloodName),
		completeDim:      c.makeSymbol(config.CompleteDimName),
	}
}

// newGlobal allocates a global symbol registered as builtin name.
func (c *Context) newGlobal(id *symbols.ID, name string) *symbols.Sym {
	var s *symbols.Sym
	if *id == symbols.None {
		s = c.Table.New(name)
		*id = s.ID
	} else {
		s = c.Table.Get(*id)
	}
	s.GlobalScope = true
	c.Table.SetBuiltin(s, name)
	return s
}

func (c *Context) newPrimitiveType(id *symbols.ID, name string) {
	s := c.newGlobal(id, name)
	s.Name = name
	s.Kind = typesystem.KindPrimitive
}

func (c *Context) newAliasType(id *symbols.ID, name string, alias symbols.ID) {
	s := c.newGlobal(id, name)
	s.Kind = typesystem.KindAlias
	s.Alias = alias
}

// newLUBType makes id the least upper bound of members. Every member
// inherits from it.
func (c *Context) newLUBType(id *symbols.ID, name string, members []symbols.ID) {
	s := c.newGlobal(id, name)
	s.Kind = typesystem.KindLUB
	for _, m := range members {
		if m != symbols.None {
			s.Has = append(s.Has, m)
		}
	}
	for _, m := range s.Has {
		c.Table.InheritsAdd(m, s.ID)
	}
}

// builtinClass binds a prelude class type as builtin name.
func (c *Context) builtinClass(id *symbols.ID, t symbols.ID, name string) {
	*id = t
	s := c.Table.Get(t)
	c.Table.SetBuiltin(s, name)
	if s.Kind == typesystem.KindNone {
		s.Kind = typesystem.KindPrimitive
	}
}

// buildBuiltinSymbols installs the builtin types, their aliases, the
// least upper bounds and the promotion edges. It runs once per context.
func (c *Context) buildBuiltinSymbols() {
	if c.lattice {
		return
	}
	c.lattice = true
	b := &c.b
	p := c.Prelude

	c.newGlobal(&b.system, "system")
	if b.init == symbols.None {
		b.init = c.Table.New("__init").ID
		c.Table.Get(b.init).GlobalScope = true
	}

	b.void = c.symOf(p.Void)
	b.null = c.symOf(p.Nil)
	b.unknown = c.symOf(p.Unknown)
	b.bool = c.symOf(p.Boolean)
	b.int64 = c.symOf(p.Integer)
	b.float64 = c.symOf(p.Float)
	b.complex64 = c.symOf(p.Complex)
	b.string = c.symOf(p.String)
	b.anynum = c.symOf(p.Numeric)
	b.any = c.symOf(p.Any)
	b.object = c.symOf(p.Object)

	c.newLUBType(&b.anyclass, config.AnyClassTypeName, nil)
	c.Table.Get(b.anyclass).MetaType = b.anyclass
	c.newLUBType(&b.any, config.AnyTypeName, nil)
	c.newPrimitiveType(&b.null, config.NullTypeName)
	c.newPrimitiveType(&b.module, "module")
	c.newPrimitiveType(&b.symbol, config.SymbolTypeName)
	c.Table.SetSymbolsType(b.symbol)
	c.newPrimitiveType(&b.function, "function")
	c.newPrimitiveType(&b.continuation, "continuation")
	c.newPrimitiveType(&b.vector, "vector")
	c.newPrimitiveType(&b.void, config.VoidTypeName)
	c.newPrimitiveType(&b.unknown, config.UnknownTypeName)
	obj := c.newGlobal(&b.object, config.ObjectTypeName)
	obj.Kind = typesystem.KindRecord
	c.newPrimitiveType(&b.list, "list")
	c.newPrimitiveType(&b.ref, "ref")
	c.newPrimitiveType(&b.value, "value")
	c.newPrimitiveType(&b.set, "set")

	c.newPrimitiveType(&b.int8, "int8")
	c.newPrimitiveType(&b.int16, "int16")
	c.newPrimitiveType(&b.int32, "int32")
	c.newPrimitiveType(&b.int64, "int64")
	c.newAliasType(&b.int, config.IntTypeName, b.int64)
	c.newPrimitiveType(&b.true, "true")
	c.newPrimitiveType(&b.false, "false")
	c.newPrimitiveType(&b.bool, config.BoolTypeName)
	c.Table.InheritsAdd(b.true, b.bool)
	c.Table.InheritsAdd(b.false, b.bool)
	c.newPrimitiveType(&b.uint8, "uint8")
	c.newPrimitiveType(&b.uint16, "uint16")
	c.newPrimitiveType(&b.uint32, "uint32")
	c.newPrimitiveType(&b.uint64, "uint64")
	c.newAliasType(&b.uint, config.UintTypeName, b.uint64)
	c.newLUBType(&b.anyint, config.AnyIntTypeName, []symbols.ID{
		b.int8, b.int16, b.int32, b.int64, b.bool,
		b.uint8, b.uint16, b.uint32, b.uint64,
	})
	c.newAliasType(&b.size, config.SizeTypeName, b.int64)
	c.newAliasType(&b.enumElement, config.EnumElementName, b.int64)
	c.newPrimitiveType(&b.float32, "float32")
	c.newPrimitiveType(&b.float64, "float64")
	c.newPrimitiveType(&b.float128, "float128")
	c.newAliasType(&b.float, config.FloatTypeName, b.float64)
	c.newLUBType(&b.anyfloat, config.AnyFloatTypeName, []symbols.ID{b.float32, b.float64, b.float128})
	c.newPrimitiveType(&b.complex32, "complex32")
	c.newPrimitiveType(&b.complex64, "complex64")
	c.newPrimitiveType(&b.complex128, "complex128")
	c.newPrimitiveType(&b.complex, config.ComplexTypeName)
	c.newLUBType(&b.anycomplex, config.AnyComplexTypeName, []symbols.ID{b.complex32, b.complex64, b.complex128})
	c.newLUBType(&b.anynum, config.AnyNumTypeName, []symbols.ID{b.bool, b.anyint, b.anyfloat, b.anycomplex})
	c.newPrimitiveType(&b.char, config.CharTypeName)
	c.newPrimitiveType(&b.string, config.StringTypeName)
	c.newGlobal(&b.newObject, "new_object")

	b.nil = c.symOf(p.NilVar)
	nilSym := c.newGlobal(&b.nil, config.NilName)
	nilSym.Type = b.null
	nilSym.IsExternal = true

	c.builtinClass(&b.sequence, c.symOf(p.Sequence), config.SequenceTypeName)
	c.builtinClass(&b.tuple, c.symOf(p.Tuple), config.TupleTypeName)
	c.builtinClass(&b.index, c.symOf(p.Index), config.IndexTypeName)
	c.builtinClass(&b.domain, c.symOf(p.Domain), config.DomainTypeName)
	c.builtinClass(&b.array, c.symOf(p.Array), config.ArrayTypeName)
	c.builtinClass(&b.locale, c.symOf(p.Locale), config.LocaleTypeName)

	promote := func(from, to symbols.ID) { c.Table.SpecializesAdd(from, to) }
	promote(b.bool, b.int8)
	promote(b.int8, b.int16)
	promote(b.int16, b.int32)
	promote(b.int32, b.int64)
	promote(b.int32, b.float32)
	promote(b.int64, b.float64)
	promote(b.float32, b.complex32)
	promote(b.float64, b.complex64)
	promote(b.float128, b.complex128)
	promote(b.complex32, b.complex64)
	promote(b.complex64, b.complex128)
	promote(b.anynum, b.string)

	c.newGlobal(&b.primitive, config.PrimitiveMarker)
	c.newGlobal(&b.operator, config.OperatorMarker)
	c.newGlobal(&b.new, config.NewMarker)
	c.newGlobal(&b.coerce, config.CoerceMarker)
	c.newGlobal(&b.destruct, config.DestructMarker)
	c.newGlobal(&b.reply, config.ReplyMarker)
}

// setPrimitiveTypes classifies the numeric primitives by basic kind and
// width.
func (c *Context) setPrimitiveTypes() {
	b := &c.b
	c.Table.Get(b.bool).NumKind = typesystem.NumBool
	c.Table.Get(b.true).NumKind = typesystem.NumBool
	c.Table.Get(b.false).NumKind = typesystem.NumBool
	for _, id := range []symbols.ID{b.int8, b.int16, b.int32, b.int64} {
		c.setNum(id, typesystem.NumInt)
	}
	for _, id := range []symbols.ID{b.uint8, b.uint16, b.uint32, b.uint64} {
		c.setNum(id, typesystem.NumUint)
	}
	for _, id := range []symbols.ID{b.float32, b.float64, b.float128} {
		c.setNum(id, typesystem.NumFloat)
	}
	for _, id := range []symbols.ID{b.complex32, b.complex64, b.complex128} {
		c.setNum(id, typesystem.NumComplex)
	}
}

// setNum reads the width from the trailing digits of the type name.
func (c *Context) setNum(id symbols.ID, k typesystem.NumKind) {
	s := c.Table.Get(id)
	s.NumKind = k
	digits := strings.TrimLeft(s.Name, "abcdefghijklmnopqrstuvwxyz")
	if w, err := strconv.Atoi(digits); err == nil {
		s.NumWidth = w
	}
}

func (c *Context) buildTypeHierarchy() {
	c.Table.BuildHierarchy()
}

// finalizeTypes makes every type symbol its own type.
func (c *Context) finalizeTypes() {
	for _, s := range c.Table.All() {
		if s.Kind != typesystem.KindNone && s.Type == symbols.None {
			s.Type = s.ID
		}
	}
}
