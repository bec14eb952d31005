package analyzer

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/config"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/flow"
	"github.com/funvibe/lowerkit/internal/ir"
	"github.com/funvibe/lowerkit/internal/pdb"
	"github.com/funvibe/lowerkit/internal/symbols"
)

// buildFunctions lowers every function in nodes. All functions get their
// continuation and return symbols before any body is lowered.
func (c *Context) buildFunctions(nodes []ast.Node) ([]*ast.FnSymbol, error) {
	var funs []*ast.FnSymbol
	for _, n := range nodes {
		if f, ok := n.(*ast.FnSymbol); ok {
			funs = append(funs, f)
		}
	}
	for _, f := range funs {
		c.initFunction(f)
	}
	for _, f := range funs {
		if err := c.buildFunction(f); err != nil {
			return nil, err
		}
	}
	return funs, nil
}

func (c *Context) initFunction(f *ast.FnSymbol) {
	diagnostics.Assert(f.DefPoint != nil, f.GetToken(), "function %s has no definition", f.Name)
	s := c.sym(f)
	if f.Name != "" {
		c.tracef("build_functions: %s", f.Name)
	}
	if s.Name == config.InitEntryPoint {
		c.Table.SetBuiltin(s, config.InitBuiltinName)
		c.b.init = s.ID
	}
	s.Cont = c.newSym(f.DefPoint)
	s.Ret = c.newSym(f.DefPoint)
	c.labelMaps[f] = make(map[string]*ast.LabelStmt)
	s.GlobalScope = true
	s.FunctionScope = false
}

func (c *Context) buildFunction(f *ast.FnSymbol) error {
	labels := c.labelMaps[f]
	if f.Body != nil {
		c.defineLabels(f.Body, labels)
	}
	di := c.info(f.DefPoint)
	di.Label[0] = c.Program.AllocLabel()
	if f.Body != nil {
		if err := c.resolveLabels(f.Body, labels, di.Label[0], nil); err != nil {
			return err
		}
		if err := c.gen(f.Body, f.DefPoint); err != nil {
			return err
		}
	}
	for _, p := range f.Formals {
		if p.Init != nil {
			if err := c.gen(p.Init, f.DefPoint); err != nil {
				return err
			}
		}
	}
	c.genFun(f)
	return nil
}

// genFun closes the body of f: a fallthrough returns void, the return
// label is followed by the reply to the continuation with the return
// value and the out formals.
func (c *Context) genFun(f *ast.FnSymbol) {
	fn := c.sym(f)
	def := f.DefPoint
	di := c.info(def)

	var formals, outs []symbols.ID
	if fn.Name != config.ThisName {
		sel := c.newNamedSym(fn.Name, def)
		sel.MustSpecialize = c.makeSymbol(fn.Name)
		formals = append(formals, sel.ID)
		if f.MethodType != ast.NonMethod {
			m := c.newNamedSym(config.MethodSelector, def)
			m.MustSpecialize = c.sel.method
			formals = append(formals, m.ID)
		}
	}
	for _, p := range f.Formals {
		id := c.symOf(p)
		if c.Table.Get(id).IsOut() {
			outs = append(outs, id)
		}
		formals = append(formals, id)
	}

	var body ir.Block
	if f.Body != nil {
		body.Append(&c.info(f.Body).Code)
	}
	body.Move(c.b.void, fn.Ret, def)
	body.Label(di.Label[0], def)
	c.send(&body, def, append([]symbols.ID{c.b.reply, fn.Cont, fn.Ret}, outs...))

	fn.Has = formals
	cl := c.Program.AddClosure(fn.ID, &body, formals, def)
	c.finalizeClosure(cl)
	if f.This != nil && !f.IsConstructor {
		fn.Self = c.symOf(f.This)
	}
}

// finalizeClosure builds the program points of the sends of cl.
func (c *Context) finalizeClosure(cl *ir.Closure) {
	for _, s := range cl.Body.Sends() {
		pn := flow.NewPNode(s)
		if n := s.Source(); n != nil {
			if i := c.infos[n]; i != nil {
				i.PNodes = append(i.PNodes, pn)
			}
		}
	}
}

// FinalizeFunctions finalizes every installed function not finalized
// yet.
func (c *Context) FinalizeFunctions() (err error) {
	defer diagnostics.Recover(&err)
	for _, fun := range c.DB.Funs {
		c.finalizeFunction(fun)
	}
	return nil
}

// finalizeFunction puts dispatched functions in the universal cache and
// records default argument positions.
func (c *Context) finalizeFunction(fun *pdb.Fun) {
	if c.finalized[fun] {
		return
	}
	c.finalized[fun] = true
	s := c.Table.Get(fun.Sym)
	diagnostics.Assert(len(s.Has) > 0, s.Pos, "function %s has no formals", s.Name)
	name := c.Table.Name(s.Has[0])

	added := false
	if f := fun.Node; f != nil && f.MethodType != ast.NonMethod &&
		f.TypeBinding != nil && ast.IsReferenceType(f.TypeBinding.Type) {
		c.addToUniversalCache(name, fun)
		added = true
	}
	for i, id := range s.Has {
		a := c.Table.Get(id)
		diagnostics.Assert(!a.IsPattern, a.Pos, "pattern formals are not supported")
		if !added && a.MustSpecialize != symbols.None && c.isReferenceSym(a.MustSpecialize) {
			c.addToUniversalCache(name, fun)
			added = true
		}
		if p, ok := a.Node.(*ast.ParamSymbol); ok && p.Init != nil {
			pi := c.info(p.Init)
			fun.DefaultArgs[i+1] = &pdb.DefaultArg{Expr: p.Init, Code: pi.Code, Val: pi.Rval}
		}
	}
}

func (c *Context) isReferenceSym(id symbols.ID) bool {
	t, ok := c.Table.Get(id).Node.(ast.Type)
	return ok && ast.IsReferenceType(t)
}

// installNewFunction binds, lowers and installs a function created after
// the initial analysis. cmap is the clone map of a generic instance and
// wraps the function f was derived from; both may be nil.
func (c *Context) installNewFunction(f *ast.FnSymbol, cmap *ast.CloneMap, wraps *pdb.Fun) (fun *pdb.Fun, err error) {
	defer diagnostics.Recover(&err)

	var roots []ast.Node
	if cmap != nil {
		for _, p := range cmap.Pairs() {
			roots = append(roots, p.New)
		}
	}
	roots = append(roots, f.DefPoint, f)
	if f.DefPoint.Stmt != nil {
		roots = append(roots, f.DefPoint.Stmt)
	}
	fresh := c.mapASTs(c.collectNew(roots))

	var funs []*ast.FnSymbol
	for _, n := range fresh {
		if fs, ok := n.(*ast.FnSymbol); ok {
			funs = append(funs, fs)
		}
	}
	c.buildTypes(fresh)
	c.buildSymbols(fresh)
	if cmap != nil {
		for _, p := range cmap.Pairs() {
			old, ok := p.Old.(ast.Type)
			if !ok {
				continue
			}
			c.sym(p.New).Instantiates = c.symOf(old)
		}
	}
	c.finalizeTypes()
	for _, fs := range funs {
		c.initFunction(fs)
	}
	for _, fs := range funs {
		if err := c.buildFunction(fs); err != nil {
			return nil, err
		}
	}
	c.buildTypeHierarchy()
	c.buildClasses(fresh)
	c.finalizeSymbols()
	c.finalizeTypes()
	for _, fs := range funs {
		c.installFun(fs)
	}
	// provenance is set before finalizing and recording
	if wraps != nil {
		c.funsByNode[f].Wraps = wraps
	}
	for _, fs := range funs {
		c.finalizeFunction(c.funsByNode[fs])
	}
	if err := c.recordFuns(funs); err != nil {
		return nil, err
	}
	return c.funsByNode[f], nil
}

// collectNew returns the nodes reachable from roots without passing
// through nodes that are already mapped.
func (c *Context) collectNew(roots []ast.Node) []ast.Node {
	seen := make(map[ast.Node]bool)
	var out []ast.Node
	add := func(n ast.Node) {
		if n == nil || seen[n] || c.mapped(n) {
			return
		}
		seen[n] = true
		out = append(out, n)
	}
	for _, r := range roots {
		add(r)
	}
	for i := 0; i < len(out); i++ {
		for _, ch := range ast.AllChildren(out[i]) {
			add(ch)
		}
	}
	return out
}

func (c *Context) mapped(n ast.Node) bool {
	if _, ok := c.syms[n]; ok {
		return true
	}
	_, ok := c.infos[n]
	return ok
}
