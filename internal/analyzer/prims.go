package analyzer

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/config"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/flow"
	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/symbols"
)

// primitiveNames are the primitives a call of __primitive may name by
// its first argument.
var primitiveNames = map[string]bool{
	config.PrimDomainStartIndex: true,
	config.PrimDomainNextIndex:  true,
	config.PrimDomainValidIndex: true,
	config.PrimExprSimpleSeq:    true,
	config.PrimExprDomain:       true,
	config.PrimExprCreateDomain: true,
	config.PrimExprReduce:       true,
	config.PrimSizeof:           true,
	config.PrimCast:             true,
	config.PrimMakeSeq:          true,
	config.PrimMakeTuple:        true,
	config.PrimVardef:           true,
	config.PrimWrite:            true,
	config.PrimWriteln:          true,
	config.PrimRead:             true,
	config.PrimArrayIndex:       true,
	config.PrimArraySet:         true,
	config.PrimPtrEq:            true,
	config.PrimPtrNeq:           true,
	config.PrimArrayPointwiseOp: true,
	config.PrimStringOp:         true,
	config.PrimSeqcatSeq:        true,
	config.PrimSeqcatElement:    true,
	config.PrimIndextypeGet:     true,
	config.PrimIndextypeSet:     true,
}

// operatorPrimitives are the binary operators a call of __primitive may
// name by its second argument.
var operatorPrimitives = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true, "mod": true,
	"==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
	"&": true, "|": true, "^": true, "&&": true, "||": true,
	"and": true, "or": true, "**": true, "<<": true, ">>": true,
	"#": true, "by": true,
}

// primitiveName returns the string literal at args[i] when it names a
// primitive for that position.
func primitiveName(args []ast.Expression, i int) (string, bool) {
	if i >= len(args) {
		return "", false
	}
	lit, ok := args[i].(*ast.StringLiteral)
	if !ok {
		return "", false
	}
	switch i {
	case 0:
		return lit.Str, primitiveNames[lit.Str]
	case 1:
		return lit.Str, operatorPrimitives[lit.Str]
	}
	return "", false
}

// registerPrimitives fills the transfer function registry.
func (c *Context) registerPrimitives() {
	for name, f := range map[string]flow.TransferFunc{
		config.PrimDomainStartIndex: c.indexResult,
		config.PrimDomainNextIndex:  c.indexResult,
		config.PrimDomainValidIndex: c.integerResult,
		config.PrimExprSimpleSeq:    c.exprSimpleSeq,
		config.PrimExprDomain:       unsupportedPrim(config.PrimExprDomain),
		config.PrimExprCreateDomain: c.exprCreateDomain,
		config.PrimExprReduce:       unsupportedPrim(config.PrimExprReduce),
		config.PrimSizeof:           c.integerResult,
		config.PrimCast:             c.castValue,
		config.PrimWrite:            c.integerResult,
		config.PrimWriteln:          c.integerResult,
		config.PrimRead:             c.integerResult,
		config.PrimArrayIndex:       c.arrayIndex,
		config.PrimArraySet:         c.arraySet,
		config.PrimMakeSeq:          c.makeSeq,
		config.PrimMakeTuple:        c.makeTuple,
		config.PrimVardef:           c.vardef,
		config.PrimPtrEq:            c.integerResult,
		config.PrimPtrNeq:           c.integerResult,
		config.PrimArrayPointwiseOp: c.arrayPointwiseOp,
		config.PrimStringOp:         c.stringOp,
		config.PrimSeqcatSeq:        c.seqcatSeq,
		config.PrimSeqcatElement:    c.seqcatElement,
		config.PrimIndextypeGet:     c.indextypeGet,
		config.PrimIndextypeSet:     c.indextypeSet,
	} {
		c.Prims.Register(name, f)
	}
}

func unsupportedPrim(name string) flow.TransferFunc {
	return func(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
		diagnostics.Fatal(pn.Send.Pos(), "primitive %s is not supported", name)
	}
}

// arg is the i-th argument of a primitive send, after the primitive
// marker and name.
func arg(e flow.Engine, pn *flow.PNode, es flow.EntrySet, i int) flow.AVar {
	return e.MakeAVar(pn.Rvals[2+i], es)
}

func result(e flow.Engine, pn *flow.PNode, es flow.EntrySet) flow.AVar {
	return e.MakeAVar(pn.Lvals[0], es)
}

// indexResult makes every index an integer.
func (c *Context) indexResult(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	for _, v := range pn.Lvals {
		e.UpdateIn(e.MakeAVar(v, es), e.MakeAbstractType(c.b.int))
	}
}

func (c *Context) integerResult(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	e.UpdateIn(result(e, pn, es), e.MakeAbstractType(c.b.int))
}

func (c *Context) stringOp(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	e.UpdateIn(result(e, pn, es), e.MakeAbstractType(c.b.string))
}

// castValue narrows to the target type when it is scalar and creates a
// value of the target type otherwise.
func (c *Context) castValue(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	diagnostics.Assert(len(pn.Rvals) == 4, pn.Send.Pos(), "cast takes a type and a value")
	res := result(e, pn, es)
	ts := c.Table.Get(pn.Rvals[2]).MetaType
	if ts == symbols.None {
		return
	}
	if c.isScalarSym(ts) {
		e.UpdateIn(res, e.MakeAbstractType(ts))
	} else {
		e.CreationPoint(res, ts)
	}
}

func (c *Context) isScalarSym(id symbols.ID) bool {
	t, ok := c.Table.Get(id).Node.(ast.Type)
	return ok && c.isScalar(t)
}

func (c *Context) exprSimpleSeq(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	cs := e.CreationPoint(result(e, pn, es), c.b.sequence)
	e.UpdateIn(e.ElementAVar(cs), e.MakeAbstractType(c.b.int))
}

func (c *Context) exprCreateDomain(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	e.CreationPoint(result(e, pn, es), c.b.domain)
}

// arrayIndex flows the elements of every array reaching the send into
// the result.
func (c *Context) arrayIndex(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	res := result(e, pn, es)
	array := arg(e, pn, es, 0)
	e.SetContainer(res, array)
	for _, a := range e.Out(array) {
		if c.Table.Get(e.CreationSetSym(a)).Element != symbols.None {
			e.FlowVars(e.ElementAVar(a), res)
		}
	}
}

// arraySet stores the last argument into the elements of every reaching
// array. Scalar elements keep their declared type.
func (c *Context) arraySet(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	res := result(e, pn, es)
	array := arg(e, pn, es, 0)
	val := e.MakeAVar(pn.Rvals[len(pn.Rvals)-1], es)
	e.SetContainer(res, array)
	for _, a := range e.Out(array) {
		el := c.Table.Get(e.CreationSetSym(a)).Element
		if el == symbols.None {
			continue
		}
		if t := c.Table.Get(el).Type; t != symbols.None && c.isScalarSym(t) {
			e.UpdateIn(e.ElementAVar(a), e.MakeAbstractType(t))
		} else {
			e.FlowVars(val, e.ElementAVar(a))
		}
	}
	e.FlowVars(array, res)
}

func (c *Context) arrayPointwiseOp(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	e.FlowVars(arg(e, pn, es, 0), result(e, pn, es))
}

func (c *Context) makeSeq(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	res := result(e, pn, es)
	cs := e.CreationPoint(res, c.b.sequence)
	element := e.ElementAVar(cs)
	for i := 2; i < len(pn.Rvals); i++ {
		e.FlowVars(e.MakeAVar(pn.Rvals[i], es), element)
	}
	e.UpdateIn(res, e.MakeAType(cs))
}

func (c *Context) makeTuple(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	e.PrimMake(pn, es, c.getTupleType(len(pn.Rvals)-2), 2)
}

// seqcatSeq appends the elements of the second sequence to the first.
func (c *Context) seqcatSeq(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	s1, s2 := arg(e, pn, es, 0), arg(e, pn, es, 1)
	for _, a := range e.Out(s1) {
		ea := e.ElementAVar(a)
		for _, b := range e.Out(s2) {
			e.FlowVars(e.ElementAVar(b), ea)
		}
	}
	e.FlowVars(s1, result(e, pn, es))
}

// seqcatElement appends the second argument to the first sequence.
func (c *Context) seqcatElement(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	s1, x := arg(e, pn, es, 0), arg(e, pn, es, 1)
	for _, a := range e.Out(s1) {
		e.FlowVars(x, e.ElementAVar(a))
	}
	e.FlowVars(s1, result(e, pn, es))
}

func (c *Context) indextypeGet(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	res := result(e, pn, es)
	for _, a := range e.Out(arg(e, pn, es, 0)) {
		e.FlowVars(e.ElementAVar(a), res)
	}
}

func (c *Context) indextypeSet(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	x := arg(e, pn, es, 1)
	for _, a := range e.Out(arg(e, pn, es, 0)) {
		e.FlowVars(x, e.ElementAVar(a))
	}
	e.FlowVars(x, result(e, pn, es))
}

// vardef initializes a variable from its type value: a type without a
// source node is allocated, otherwise its default value flows in and its
// default constructor is dispatched.
func (c *Context) vardef(e flow.Engine, pn *flow.PNode, es flow.EntrySet) {
	tav := arg(e, pn, es, 0)
	res := result(e, pn, es)
	for _, tt := range e.Out(tav) {
		typeSym := c.Table.Get(e.CreationSetSym(tt)).MetaType
		t := c.typeNode(typeSym)
		if t == nil {
			e.CreationPoint(res, typeSym)
			continue
		}
		tb := ast.TypeInfoOf(t)
		if tb.DefaultVal != nil {
			av := e.MakeAVar(c.defaultVal(t), es)
			e.AddVarConstraint(av)
			e.FlowVars(av, res)
		}
		if tb.DefaultConstructor != nil {
			ctor := c.ctorName(t)
			cavar := e.MakeAVar(ctor, es)
			ctype := e.MakeAbstractType(ctor)
			cs := e.CreationSets(ctype)
			diagnostics.Assert(len(cs) > 0, pn.Send.Pos(), "constructor %s has no creation set", c.Table.Name(ctor))
			e.UpdateIn(cavar, ctype)
			e.FunctionDispatch(pn, es, cavar, cs[0], nil, ir.PartialNever)
		}
	}
}
