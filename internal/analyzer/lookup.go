package analyzer

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/config"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/pdb"
	"github.com/funvibe/lowerkit/internal/symbols"
)

// VisibleFunctions returns the candidates of a send from the code of i
// whose first argument is arg0. A function symbol denotes exactly its
// unwrapped function. Otherwise the candidates are the functions named
// by arg0 that are visible from the enclosing module or function, plus
// the dispatched functions of that name.
func (c *Context) VisibleFunctions(i *AInfo, arg0 symbols.ID) []*pdb.Fun {
	if fun := c.DB.FunOf(arg0); fun != nil {
		return fun.One()
	}
	name := config.ThisName
	if a := c.Table.Get(arg0); a != nil && a.IsSymbol {
		name = a.Name
	}

	var s ast.Statement
	switch x := i.Node.(type) {
	case ast.Statement:
		s = x
	case ast.Expression:
		s = ast.GetStmt(x)
	}
	var scope *ast.Scope
	switch p := ast.ParentSymbolOf(s).(type) {
	case *ast.ModuleSymbol:
		scope = p.ModScope
	case *ast.FnSymbol:
		scope = p.ParamScope
	default:
		diagnostics.Fatal(i.Node.GetToken(), "send outside of a module or function")
	}

	cache := c.visible[scope]
	if v, ok := cache[name]; ok {
		return v
	}
	var v []*pdb.Fun
	seen := make(map[*pdb.Fun]bool)
	add := func(f *pdb.Fun) {
		if f != nil && !seen[f] {
			seen[f] = true
			v = append(v, f)
		}
	}
	if scope != nil {
		for _, f := range scope.Visible(name) {
			add(c.funsByNode[f])
		}
	}
	for _, f := range c.universal[name] {
		add(f)
	}
	if cache == nil {
		cache = make(map[string][]*pdb.Fun)
		c.visible[scope] = cache
	}
	cache[name] = v
	return v
}

// addToUniversalCache makes fun a candidate for every send of name.
// Candidate lists are write-once per scope and name.
func (c *Context) addToUniversalCache(name string, fun *pdb.Fun) {
	c.universal[name] = append(c.universal[name], fun)
}
