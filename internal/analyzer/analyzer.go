package analyzer

import (
	"fmt"
	"sort"

	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/config"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/flow"
	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/pdb"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/funvibe/lowerkit/internal/token"
)

// AInfo is the analysis record of one statement or expression.
type AInfo struct {
	Node ast.Node
	// Sym is the symbol the node denotes, if any.
	Sym symbols.ID
	// Rval holds the value of an expression.
	Rval symbols.ID
	Code ir.Block
	// Label holds the labels of label targets and loops, or the target
	// of gotos and returns. A labeled return keeps its own label in
	// slot 1.
	Label [2]*ir.Label
	// Send is the accessor send of a member access.
	Send *ir.Send
	// PNodes are the program points generated for the node.
	PNodes []*flow.PNode
}

// Symbol returns Rval when set, else Sym.
func (i *AInfo) Symbol() symbols.ID {
	if i.Rval != symbols.None {
		return i.Rval
	}
	return i.Sym
}

// Context is the state of one compilation. Nothing is shared between
// contexts.
type Context struct {
	Table   *symbols.Table
	Program *ir.Program
	DB      *pdb.DB
	Prelude *ast.Prelude
	Prims   flow.Registry

	opts    *config.Options
	store   *pdb.Store
	results flow.Results

	syms       map[ast.Node]symbols.ID
	infos      map[ast.Node]*AInfo
	builtTypes map[ast.Type]bool
	// nodes holds every mapped node in mapping order.
	nodes []ast.Node

	b        builtins
	sel      selectors
	lattice  bool
	finished int // symbol watermark of finalizeSymbols

	labelMaps  map[*ast.FnSymbol]map[string]*ast.LabelStmt
	tuples     map[int]symbols.ID
	instances  map[string]ast.Type
	universal  map[string][]*pdb.Fun
	visible    map[*ast.Scope]map[string][]*pdb.Fun
	finalized  map[*pdb.Fun]bool
	funsByNode map[*ast.FnSymbol]*pdb.Fun

	errorSet map[string]*diagnostics.DiagnosticError
}

// New creates a context. A nil opts uses the defaults; a nil prelude
// creates a fresh one.
func New(opts *config.Options, prelude *ast.Prelude) *Context {
	if opts == nil {
		opts = config.DefaultOptions()
	}
	if prelude == nil {
		prelude = ast.NewPrelude()
	}
	return &Context{
		Table:      symbols.NewTable(),
		Program:    ir.NewProgram(),
		DB:         pdb.NewDB(),
		Prelude:    prelude,
		Prims:      make(flow.Registry),
		opts:       opts,
		syms:       make(map[ast.Node]symbols.ID),
		infos:      make(map[ast.Node]*AInfo),
		builtTypes: make(map[ast.Type]bool),
		labelMaps:  make(map[*ast.FnSymbol]map[string]*ast.LabelStmt),
		tuples:     make(map[int]symbols.ID),
		instances:  make(map[string]ast.Type),
		universal:  make(map[string][]*pdb.Fun),
		visible:    make(map[*ast.Scope]map[string][]*pdb.Fun),
		finalized:  make(map[*pdb.Fun]bool),
		funsByNode: make(map[*ast.FnSymbol]*pdb.Fun),
	}
}

// Options returns the options of the context.
func (c *Context) Options() *config.Options { return c.opts }

// Open opens the program database named by the options, if any.
func (c *Context) Open() error {
	if c.opts.Database == "" || c.store != nil {
		return nil
	}
	st, err := pdb.OpenStore(c.opts.Database)
	if err != nil {
		return err
	}
	c.store = st
	return nil
}

// Close closes the program database.
func (c *Context) Close() error {
	if c.store == nil {
		return nil
	}
	err := c.store.Close()
	c.store = nil
	return err
}

// SetResults hands the analysis the engine at its fixpoint. The usage
// and member queries read it.
func (c *Context) SetResults(r flow.Results) { c.results = r }

// Store returns the open program database, or nil.
func (c *Context) Store() *pdb.Store { return c.store }

// Info returns the analysis record of n, or nil if n was never mapped.
func (c *Context) Info(n ast.Node) *AInfo { return c.infos[n] }

// SymOf returns the canonical symbol of a symbol or type node.
func (c *Context) SymOf(n ast.Node) symbols.ID { return c.symOf(n) }

// Analyze binds and lowers mods. The statements of every module are
// linked first. A user error stops the analysis and is returned; the
// same error is kept in Errors.
func (c *Context) Analyze(mods ...*ast.ModuleSymbol) (err error) {
	defer func() {
		if err != nil && c.opts.Verbose > 0 {
			diagnostics.Print(c.opts.Trace, []error{err})
		}
	}()
	defer diagnostics.Recover(&err)

	var stmts []ast.Statement
	for _, m := range mods {
		ast.Link(m, m.Stmts...)
		stmts = append(stmts, m.Stmts...)
	}

	nodes := c.closeSymbols(stmts)
	c.initSymbols()
	fresh := c.mapASTs(nodes)
	c.buildBuiltinSymbols()
	c.buildTypes(fresh)
	c.buildSymbols(fresh)
	c.setPrimitiveTypes()
	c.buildClasses(fresh)
	c.finalizeTypes()
	funs, err := c.buildFunctions(fresh)
	if err != nil {
		return err
	}
	c.registerPrimitives()
	c.buildTypeHierarchy()
	c.finalizeSymbols()
	c.finalizeTypes()
	for _, f := range funs {
		c.installFun(f)
	}
	return c.recordFuns(funs)
}

// installFun registers the Fun of a lowered function.
func (c *Context) installFun(f *ast.FnSymbol) *pdb.Fun {
	if fun := c.funsByNode[f]; fun != nil {
		return fun
	}
	fun := pdb.NewFun(c.symOf(f), f)
	fun.BuildArgPositions(c.Table)
	c.DB.Add(fun)
	c.funsByNode[f] = fun
	return fun
}

func (c *Context) recordFuns(funs []*ast.FnSymbol) error {
	if c.store == nil {
		return nil
	}
	for _, f := range funs {
		fun := c.funsByNode[f]
		cl := c.Program.Closure(fun.Sym)
		var code string
		if cl != nil {
			code = ir.Disassemble(c.Table, cl)
		}
		if err := c.store.Record(fun, f.Name, code); err != nil {
			return err
		}
	}
	return nil
}

// addError records err, deduplicating by position and code, and returns
// it.
func (c *Context) addError(err *diagnostics.DiagnosticError) error {
	key := fmt.Sprintf("%d:%d:%s", err.Token.Line, err.Token.Column, err.Code)
	if c.errorSet == nil {
		c.errorSet = make(map[string]*diagnostics.DiagnosticError)
	}
	c.errorSet[key] = err
	return err
}

func (c *Context) errorAt(code diagnostics.ErrorCode, tok token.Token, args ...interface{}) error {
	return c.addError(diagnostics.NewError(code, tok, args...))
}

// Errors returns the user errors reported so far, sorted by position.
func (c *Context) Errors() []*diagnostics.DiagnosticError {
	result := make([]*diagnostics.DiagnosticError, 0, len(c.errorSet))
	for _, err := range c.errorSet {
		result = append(result, err)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Token.Line != result[j].Token.Line {
			return result[i].Token.Line < result[j].Token.Line
		}
		return result[i].Token.Column < result[j].Token.Column
	})
	return result
}

func (c *Context) tracef(format string, args ...interface{}) {
	if c.opts.Verbose > 1 {
		fmt.Fprintf(c.opts.Trace, format+"\n", args...)
	}
}
