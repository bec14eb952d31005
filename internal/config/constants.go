package config

// ConfigFileName is searched for by FindConfig.
const ConfigFileName = "lowerkit.yaml"

// IsTestMode indicates if the program is running under tests.
var IsTestMode = false

// Builtin type names installed by the lattice builder.
const (
	VoidTypeName       = "void"
	NullTypeName       = "null"
	UnknownTypeName    = "unknown"
	BoolTypeName       = "bool"
	IntTypeName        = "int"
	UintTypeName       = "uint"
	FloatTypeName      = "float"
	ComplexTypeName    = "complex"
	StringTypeName     = "string"
	CharTypeName       = "char"
	AnyIntTypeName     = "anyint"
	AnyFloatTypeName   = "anyfloat"
	AnyComplexTypeName = "anycomplex"
	AnyNumTypeName     = "anynum"
	AnyTypeName        = "any"
	AnyClassTypeName   = "anyclass"
	ObjectTypeName     = "object"
	SequenceTypeName   = "sequence"
	TupleTypeName      = "tuple"
	IndexTypeName      = "index"
	DomainTypeName     = "domain"
	ArrayTypeName      = "array"
	LocaleTypeName     = "locale"
	EnumElementName    = "enum_element"
	SizeTypeName       = "size"
	NilName            = "nil"
)

// Selectors and markers used in sends.
const (
	MethodSelector    = "__method"
	SetThisSelector   = "=this"
	GetMemberOp       = "."
	SetMemberOp       = ".="
	AssignOp          = "="
	SetterPrefix      = "="
	PrimitiveCallName = "__primitive"
	ThisName          = "this"
	InitEntryPoint    = "__init_entryPoint"
	InitBuiltinName   = "init"
)

// Builtin markers of the intermediate code.
const (
	PrimitiveMarker = "primitive"
	OperatorMarker  = "operator"
	NewMarker       = "new"
	CoerceMarker    = "coerce"
	DestructMarker  = "destruct"
	ReplyMarker     = "reply"
	SymbolTypeName  = "symbol"
)

// Primitive operation names. They key the transfer-function registry.
const (
	PrimDomainStartIndex = "domain_start_index"
	PrimDomainNextIndex  = "domain_next_index"
	PrimDomainValidIndex = "domain_valid_index"
	PrimExprSimpleSeq    = "expr_simple_seq"
	PrimExprDomain       = "expr_domain"
	PrimExprCreateDomain = "expr_create_domain"
	PrimExprReduce       = "expr_reduce"
	PrimSizeof           = "sizeof"
	PrimCast             = "cast"
	PrimMakeSeq          = "make_seq"
	PrimMakeTuple        = "make_chapel_tuple"
	PrimVardef           = "chapel_vardef"
	PrimWrite            = "write"
	PrimWriteln          = "writeln"
	PrimRead             = "read"
	PrimArrayIndex       = "array_index"
	PrimArraySet         = "array_set"
	PrimPtrEq            = "ptr_eq"
	PrimPtrNeq           = "ptr_neq"
	PrimArrayPointwiseOp = "array_pointwise_op"
	PrimStringOp         = "string_op"
	PrimSeqcatSeq        = "seqcat_seq"
	PrimSeqcatElement    = "seqcat_element"
	PrimIndextypeGet     = "indextype_get"
	PrimIndextypeSet     = "indextype_set"
	FloodName            = "*"
	CompleteDimName      = ".."
)

// Pragmas recognized on symbols.
const (
	PragmaCloneForConstants = "clone_for_constants"
)

// BogusTypeName names type nodes that have no declaring symbol.
const BogusTypeName = "BOGUS"
