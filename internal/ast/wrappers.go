package ast

// Wrappers adapt an existing function to the exact shape of a call site.
// Each one builds a new FnSymbol with its own DefExpr and DefStmt whose
// body calls the original, links it, and makes it visible next to the
// original.

// OrderWrapper returns a function whose formal at position i takes the
// argument meant for formalToActual[formal i]. Formals missing from the
// map keep their position.
func (fn *FnSymbol) OrderWrapper(formalToActual map[Symbol]Symbol) *FnSymbol {
	w, copies := fn.newWrapper()
	w.Formals = make([]*ParamSymbol, len(fn.Formals))
	for i, f := range fn.Formals {
		src := f
		if a, ok := formalToActual[f].(*ParamSymbol); ok {
			src = a
		}
		w.Formals[i] = copies[src]
	}
	w.Body = fn.forwardBody(w, copies, nil)
	return fn.installWrapper(w)
}

// CoercionWrapper returns a function whose formals in coercions accept the
// given type and are cast to the original formal type before the call.
func (fn *FnSymbol) CoercionWrapper(coercions map[Symbol]*TypeSymbol) *FnSymbol {
	w, copies := fn.newWrapper()
	w.Formals = make([]*ParamSymbol, len(fn.Formals))
	for i, f := range fn.Formals {
		w.Formals[i] = copies[f]
	}
	var pre []Statement
	actuals := make(map[*ParamSymbol]Expression)
	for _, f := range fn.Formals {
		ts, ok := coercions[f]
		if !ok || ts == nil {
			continue
		}
		wf := copies[f]
		wf.Type = ts.Type
		tmp := &VarSymbol{SymBase: SymBase{Token: f.Token, Name: "_coerce_" + f.Name, Type: f.Type, Scope: w.ParamScope}}
		cast := &CastExpr{NewType: f.Type, Expr: varRef(wf)}
		cast.Token = f.Token
		pre = append(pre, defStmt(tmp, cast))
		actuals[f] = varRef(tmp)
	}
	w.Body = fn.forwardBody(w, copies, actuals)
	w.Body.Body = append(pre, w.Body.Body...)
	return fn.installWrapper(w)
}

// DefaultWrapper returns a function without the formals in defaults; each
// omitted formal becomes a local initialized from its default argument.
func (fn *FnSymbol) DefaultWrapper(defaults map[Symbol]bool) *FnSymbol {
	w, copies := fn.newWrapper()
	var pre []Statement
	actuals := make(map[*ParamSymbol]Expression)
	for _, f := range fn.Formals {
		if !defaults[f] {
			w.Formals = append(w.Formals, copies[f])
			continue
		}
		tmp := &VarSymbol{SymBase: SymBase{Token: f.Token, Name: f.Name, Type: f.Type, Scope: w.ParamScope}}
		var init Expression
		if f.Init != nil {
			init = cloneExprInto(f.Init, copies)
		}
		pre = append(pre, defStmt(tmp, init))
		actuals[f] = varRef(tmp)
	}
	w.Body = fn.forwardBody(w, copies, actuals)
	w.Body.Body = append(pre, w.Body.Body...)
	return fn.installWrapper(w)
}

// InstantiateGeneric clones fn and replaces every use of a key of subs by
// its value. Formals whose type variable is substituted stop being
// generic. The clone map pairs original nodes with their copies.
func (fn *FnSymbol) InstantiateGeneric(subs map[Type]Type) (*FnSymbol, *CloneMap) {
	n, m := Clone(fn)
	sub := func(t Type) Type {
		if r, ok := subs[t]; ok {
			return r
		}
		return t
	}
	for _, p := range m.Pairs() {
		switch x := p.New.(type) {
		case *ParamSymbol:
			x.Type = sub(x.Type)
			if x.TypeVariable != nil {
				if _, ok := subs[x.TypeVariable.Type]; ok {
					x.TypeVariable = nil
					x.IsGeneric = false
				}
			}
		case *VarSymbol:
			x.Type = sub(x.Type)
			x.Aspect = sub(x.Aspect)
		case *FnSymbol:
			x.RetType = sub(x.RetType)
		case *CastExpr:
			x.NewType = sub(x.NewType)
		case *ReduceExpr:
			x.ReduceType = sub(x.ReduceType)
		}
		if e, ok := p.New.(Expression); ok {
			if t := e.exprBase().Typ; t != nil {
				e.exprBase().Typ = sub(t)
			}
		}
	}
	fn.installWrapper(n)
	return n, m
}

// newWrapper allocates the wrapper and one copy of every formal.
func (fn *FnSymbol) newWrapper() (*FnSymbol, map[*ParamSymbol]*ParamSymbol) {
	w := &FnSymbol{
		SymBase:     SymBase{Token: fn.Token, Name: fn.Name, Type: fn.Type, Scope: fn.Scope},
		RetType:     fn.RetType,
		IsGetter:    fn.IsGetter,
		IsSetter:    fn.IsSetter,
		MethodType:  fn.MethodType,
		TypeBinding: fn.TypeBinding,
	}
	w.ParamScope = NewScope(ScopeParam, fn.Scope)
	copies := make(map[*ParamSymbol]*ParamSymbol, len(fn.Formals))
	for _, f := range fn.Formals {
		cp := *f
		cp.Scope = w.ParamScope
		cp.Init = nil
		cp.DefPoint = nil
		copies[f] = &cp
	}
	if fn.This != nil {
		w.This = &VarSymbol{SymBase: SymBase{Token: fn.This.Token, Name: fn.This.Name, Type: fn.This.Type, Scope: w.ParamScope}}
	}
	return w, copies
}

// forwardBody builds { return fn(actuals...) } in fn's formal order.
func (fn *FnSymbol) forwardBody(w *FnSymbol, copies map[*ParamSymbol]*ParamSymbol, actuals map[*ParamSymbol]Expression) *BlockStmt {
	args := make([]Expression, 0, len(fn.Formals))
	for _, f := range fn.Formals {
		if a, ok := actuals[f]; ok {
			args = append(args, a)
			continue
		}
		args = append(args, varRef(copies[f]))
	}
	callee := varRef(fn)
	call := &ParenOpExpr{Kind: CallFn, Base: callee, Args: args}
	call.Token = fn.Token
	var s Statement
	if returnsVoid(fn) {
		es := &ExprStmt{Expr: call}
		es.Token = fn.Token
		s = es
	} else {
		rs := &ReturnStmt{Expr: call}
		rs.Token = fn.Token
		s = rs
	}
	body := &BlockStmt{Body: []Statement{s}}
	body.Token = fn.Token
	return body
}

// installWrapper gives w a definition point next to fn and links it.
func (fn *FnSymbol) installWrapper(w *FnSymbol) *FnSymbol {
	def := w.DefPoint
	var stmt *DefStmt
	if def == nil {
		def = &DefExpr{Sym: w}
		def.Token = w.Token
		stmt = &DefStmt{Defs: []*DefExpr{def}}
		stmt.Token = w.Token
		if fn.DefPoint != nil && fn.DefPoint.Stmt != nil {
			stmt.StmtBase = *fn.DefPoint.Stmt.stmtBase()
		}
		def.Stmt = stmt
		w.DefPoint = def
	} else {
		stmt, _ = def.Stmt.(*DefStmt)
	}
	if fn.DefPoint != nil {
		def.Pragmas = append([]string(nil), fn.DefPoint.Pragmas...)
		if mod, ok := ParentSymbolOf(fn.DefPoint.Stmt).(*ModuleSymbol); ok && stmt != nil {
			mod.Stmts = insertAfter(mod.Stmts, fn.DefPoint.Stmt, stmt)
		}
	}
	if w.Scope != nil {
		w.Scope.AddVisible(w)
	}
	LinkFunction(w, def.Stmt)
	return w
}

func insertAfter(stmts []Statement, at, s Statement) []Statement {
	for i, x := range stmts {
		if x == at {
			out := make([]Statement, 0, len(stmts)+1)
			out = append(out, stmts[:i+1]...)
			out = append(out, s)
			return append(out, stmts[i+1:]...)
		}
	}
	return append(stmts, s)
}

// cloneExprInto copies e, replacing references to the original formals
// with the wrapper's copies.
func cloneExprInto(e Expression, copies map[*ParamSymbol]*ParamSymbol) Expression {
	c := &cloner{m: newCloneMap(), owned: make(map[Symbol]bool)}
	for old, cp := range copies {
		c.m.index[old] = cp
	}
	return c.expr(e)
}

func returnsVoid(fn *FnSymbol) bool {
	b, ok := fn.RetType.(*BuiltinType)
	return ok && b.Name == "void"
}

func varRef(s Symbol) *Variable {
	v := &Variable{Var: s}
	v.Token = s.GetToken()
	return v
}

func defStmt(s *VarSymbol, init Expression) *DefStmt {
	d := &DefExpr{Sym: s, Init: init}
	d.Token = s.Token
	s.DefPoint = d
	st := &DefStmt{Defs: []*DefExpr{d}}
	st.Token = s.Token
	return st
}
