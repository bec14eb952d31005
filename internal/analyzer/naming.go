package analyzer

import (
	"github.com/funvibe/lowerkit/internal/ast"
	"github.com/funvibe/lowerkit/internal/config"
	"github.com/funvibe/lowerkit/internal/diagnostics"
	"github.com/funvibe/lowerkit/internal/symbols"
	"github.com/funvibe/lowerkit/internal/typesystem"
)

// closeSymbols returns every node reachable from stmts, the prelude
// types and the nil value, each once, in breadth-first order.
func (c *Context) closeSymbols(stmts []ast.Statement) []ast.Node {
	seen := make(map[ast.Node]bool)
	var out []ast.Node
	add := func(n ast.Node) {
		if n == nil || seen[n] {
			return
		}
		seen[n] = true
		out = append(out, n)
	}
	for _, s := range stmts {
		add(s)
	}
	for _, t := range c.Prelude.Types() {
		add(t)
	}
	add(c.Prelude.NilVar)
	for i := 0; i < len(out); i++ {
		for _, ch := range ast.AllChildren(out[i]) {
			add(ch)
		}
	}
	return out
}

// mapASTs gives every node its canonical symbol or analysis record and
// returns the nodes that were not mapped before.
func (c *Context) mapASTs(nodes []ast.Node) []ast.Node {
	var fresh []ast.Node
	for _, n := range nodes {
		if c.mapNode(n) {
			fresh = append(fresh, n)
		}
	}
	return fresh
}

// mapNode maps one node. It reports false when n was already mapped.
func (c *Context) mapNode(n ast.Node) bool {
	switch x := n.(type) {
	case ast.Symbol:
		if _, ok := c.syms[n]; ok {
			return false
		}
		c.mapSymbol(x)
	case ast.Type:
		if _, ok := c.syms[n]; ok {
			return false
		}
		name := ast.TypeName(x)
		if name == "" {
			name = config.BogusTypeName
		}
		s := c.Table.New(name)
		s.Node = n
		s.Pos = n.GetToken()
		c.syms[n] = s.ID
	case ast.Expression, ast.Statement:
		if _, ok := c.infos[n]; ok {
			return false
		}
		c.infos[n] = &AInfo{Node: n}
	default:
		diagnostics.Fatal(n.GetToken(), "cannot map node %T", n)
	}
	c.nodes = append(c.nodes, n)
	return true
}

func (c *Context) mapSymbol(x ast.Symbol) {
	b := ast.Base(x)
	s := c.Table.New(b.Name)
	s.Node = x
	s.Pos = x.GetToken()
	c.syms[x] = s.ID

	if b.Scope == nil {
		s.GlobalScope = true
	} else {
		switch b.Scope.Kind {
		case ast.ScopeIntrinsic, ast.ScopeInternalPrelude, ast.ScopePrelude,
			ast.ScopeModule, ast.ScopePostparse:
			s.GlobalScope = true
		case ast.ScopeLetExpr, ast.ScopeParam, ast.ScopeFunction, ast.ScopeLocal,
			ast.ScopeForLoop, ast.ScopeForallExpr:
			s.FunctionScope = true
		case ast.ScopeClass:
		}
	}

	if p, ok := x.(*ast.ParamSymbol); ok {
		switch p.Intent {
		case ast.ParamIn:
			s.Intent = typesystem.IntentIn
		case ast.ParamInOut:
			s.Intent = typesystem.IntentInOut
		case ast.ParamOut:
			s.Intent = typesystem.IntentOut
		case ast.ParamConst:
			s.IsReadOnly = true
		}
	}
	if hasPragma(x, config.PragmaCloneForConstants) {
		s.CloneForConstants = true
	}
	c.tracef("map_asts: found Symbol '%s'", b.Name)
}

func hasPragma(x ast.Symbol, p string) bool {
	b := ast.Base(x)
	if b.HasPragma(p) {
		return true
	}
	if b.DefPoint != nil {
		for _, q := range b.DefPoint.Pragmas {
			if q == p {
				return true
			}
		}
	}
	return false
}

// buildSymbols records aspects and the specialization constraints of
// formals.
func (c *Context) buildSymbols(nodes []ast.Node) {
	for _, n := range nodes {
		switch x := n.(type) {
		case *ast.VarSymbol:
			if x.Aspect != nil {
				c.sym(x).Aspect = c.Table.Unalias(c.symOf(x.Aspect))
			}
		case *ast.TypeSymbol:
			if _, ok := x.Type.(*ast.VariableType); ok {
				c.sym(x).MustSpecialize = c.b.anyclass
			}
		case *ast.ParamSymbol:
			s := c.sym(x)
			if x.IsGeneric {
				s.IsGeneric = true
			}
			if mt, ok := x.Type.(*ast.MetaType); ok {
				s.MustSpecialize = c.symOf(mt)
			} else if !c.Prelude.IsUnknown(x.Type) {
				t := c.symOf(x.Type)
				if s.Intent != typesystem.IntentOut {
					c.Table.MustImplementAndSpecialize(s.ID, t)
				} else {
					s.MustImplement = t
				}
			}
		}
	}
}

// finalizeSymbols scopes and types the symbols created since the last
// call.
func (c *Context) finalizeSymbols() {
	for _, s := range c.Table.Since(c.finished) {
		if s.IsConstant || s.IsSymbol || s.Kind != typesystem.KindNone {
			s.GlobalScope = true
			s.FunctionScope = false
		}
		if v, ok := s.Node.(*ast.VarSymbol); ok && !c.Prelude.IsUnknown(v.Type) {
			if t := c.Table.Get(c.symOf(v.Type)); t.NumKind != typesystem.NumNone {
				s.Type = t.ID
			}
		}
	}
	c.finished = c.Table.Len()
}

// symOf returns the canonical symbol of a symbol or type node, mapping
// and building it on first use.
func (c *Context) symOf(n ast.Node) symbols.ID {
	if n == nil {
		return symbols.None
	}
	if id, ok := c.syms[n]; ok {
		return id
	}
	switch x := n.(type) {
	case ast.Symbol:
		c.mapNode(x)
		c.buildSymbols([]ast.Node{x})
	case ast.Type:
		c.mapNode(x)
		if ts := ast.TypeInfoOf(x).Symbol; ts != nil {
			c.mapNode(ts)
		}
		c.buildType(x)
	default:
		diagnostics.Fatal(n.GetToken(), "%T has no symbol", n)
	}
	return c.syms[n]
}

// sym returns the canonical symbol record of n.
func (c *Context) sym(n ast.Node) *symbols.Sym {
	return c.Table.Get(c.symOf(n))
}

// info returns the analysis record of n, mapping it on first use.
func (c *Context) info(n ast.Node) *AInfo {
	if i, ok := c.infos[n]; ok {
		return i
	}
	c.mapNode(n)
	return c.infos[n]
}
