package naming

import (
	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/source"
)

// sequence resolves a block body in its own scope.
func (c *Context) sequence(seq expansion.Sequence) Sequence {
	c.newLocalScope()
	defer c.closeLocalScope()
	out := make(Sequence, 0, len(seq))
	for _, item := range seq {
		out = append(out, c.sequenceItem(item))
	}
	return out
}

func (c *Context) sequenceItem(item *expansion.SequenceItem) *SequenceItem {
	sp := item.Span
	switch item.Kind {
	case expansion.SeqExp:
		return &SequenceItem{Kind: SeqExp, Span: sp, Exp: c.exp(item.Exp)}
	case expansion.SeqDeclare:
		binds, ok := c.bindList(item.Binds)
		var ty *Type
		if item.Type != nil {
			ty = c.type_(item.Type)
		}
		if !ok {
			c.expectErrors()
			return &SequenceItem{Kind: SeqExp, Span: sp, Exp: unresolvedExpr(sp)}
		}
		return &SequenceItem{Kind: SeqDeclare, Span: sp, Binds: binds, Type: ty}
	case expansion.SeqBind:
		// the initializer cannot see the names it binds
		e := c.exp(item.Exp)
		binds, ok := c.bindList(item.Binds)
		if !ok {
			c.expectErrors()
			return &SequenceItem{Kind: SeqExp, Span: sp, Exp: unresolvedExpr(sp)}
		}
		return &SequenceItem{Kind: SeqBind, Span: sp, Binds: binds, Exp: e}
	default:
		panic("ICE: unknown sequence item kind")
	}
}

func (c *Context) exps(es []*expansion.Expr) []*Expr {
	out := make([]*Expr, 0, len(es))
	for _, e := range es {
		out = append(out, c.exp(e))
	}
	return out
}

func (c *Context) exp(e *expansion.Expr) *Expr {
	out := c.exp_(e)
	out.Span = e.Span
	return out
}

// exp_ resolves one expression. The span is filled in by exp.
func (c *Context) exp_(e *expansion.Expr) *Expr {
	sp := e.Span
	switch e.Kind {
	case expansion.ExprUnit:
		return &Expr{Kind: ExprUnit, Data: UnitData{Trailing: e.Data.(expansion.UnitData).Trailing}}
	case expansion.ExprValue:
		return &Expr{Kind: ExprValue, Data: ValueData{Value: e.Data.(expansion.ValueData).Value}}

	case expansion.ExprMove, expansion.ExprCopy:
		kind, verb := ExprMove, "move"
		if e.Kind == expansion.ExprCopy {
			kind, verb = ExprCopy, "copy"
		}
		v, ok := c.resolveLocal(sp, verb, e.Data.(expansion.VarData).Var)
		if !ok {
			c.expectErrors()
			return unresolvedExpr(sp)
		}
		return &Expr{Kind: kind, Data: VarData{Var: v}}

	case expansion.ExprName:
		data := e.Data.(expansion.NameData)
		if data.TypeArgs.Present {
			panic("ICE: unexpected specification construct")
		}
		if data.Access.IsName() && !isConstantName(data.Access.Name.Value) {
			v, ok := c.resolveLocal(sp, "variable usage", data.Access.Name)
			if !ok {
				c.expectErrors()
				return unresolvedExpr(sp)
			}
			return &Expr{Kind: ExprUse, Data: VarData{Var: v}}
		}
		return c.accessConstant(sp, data.Access)

	case expansion.ExprIfElse:
		data := e.Data.(expansion.IfElseData)
		return &Expr{Kind: ExprIfElse, Data: IfElseData{
			Cond: c.exp(data.Cond),
			Then: c.exp(data.Then),
			Else: c.exp(data.Else),
		}}
	case expansion.ExprWhile:
		data := e.Data.(expansion.WhileData)
		return &Expr{Kind: ExprWhile, Data: WhileData{Cond: c.exp(data.Cond), Body: c.exp(data.Body)}}
	case expansion.ExprLoop:
		return &Expr{Kind: ExprLoop, Data: InnerData{Inner: c.exp(e.Data.(expansion.InnerData).Inner)}}
	case expansion.ExprBlock:
		return &Expr{Kind: ExprBlock, Data: BlockData{Seq: c.sequence(e.Data.(expansion.BlockData).Seq)}}

	case expansion.ExprAssign:
		data := e.Data.(expansion.AssignData)
		targets, ok := c.assignList(data.Targets)
		value := c.exp(data.Value)
		if !ok {
			c.expectErrors()
			return unresolvedExpr(sp)
		}
		return &Expr{Kind: ExprAssign, Data: AssignData{Targets: targets, Value: value}}
	case expansion.ExprFieldMutate:
		data := e.Data.(expansion.FieldMutateData)
		target, ok := c.dotted(data.Target)
		value := c.exp(data.Value)
		if !ok {
			c.expectErrors()
			return unresolvedExpr(sp)
		}
		return &Expr{Kind: ExprFieldMutate, Data: FieldMutateData{Target: target, Value: value}}
	case expansion.ExprMutate:
		data := e.Data.(expansion.MutateData)
		return &Expr{Kind: ExprMutate, Data: MutateData{Target: c.exp(data.Target), Value: c.exp(data.Value)}}

	case expansion.ExprReturn:
		return &Expr{Kind: ExprReturn, Data: InnerData{Inner: c.exp(e.Data.(expansion.InnerData).Inner)}}
	case expansion.ExprAbort:
		return &Expr{Kind: ExprAbort, Data: InnerData{Inner: c.exp(e.Data.(expansion.InnerData).Inner)}}
	case expansion.ExprBreak:
		return &Expr{Kind: ExprBreak}
	case expansion.ExprContinue:
		return &Expr{Kind: ExprContinue}
	case expansion.ExprDereference:
		return &Expr{Kind: ExprDereference, Data: InnerData{Inner: c.exp(e.Data.(expansion.InnerData).Inner)}}
	case expansion.ExprUnary:
		data := e.Data.(expansion.UnaryData)
		return &Expr{Kind: ExprUnary, Data: UnaryData{Op: data.Op, Operand: c.exp(data.Operand)}}
	case expansion.ExprBinop:
		data := e.Data.(expansion.BinopData)
		return &Expr{Kind: ExprBinop, Data: BinopData{Left: c.exp(data.Left), Op: data.Op, Right: c.exp(data.Right)}}

	case expansion.ExprPack:
		data := e.Data.(expansion.PackData)
		st, ok := c.resolveStructName(sp, "construction", data.Access, data.TypeArgs)
		if !ok {
			c.expectErrors()
			return unresolvedExpr(sp)
		}
		fields := make([]FieldExpr, 0, len(data.Fields))
		for _, f := range data.Fields {
			fields = append(fields, FieldExpr{Name: f.Name, Value: c.exp(f.Value)})
		}
		return &Expr{Kind: ExprPack, Data: PackData{
			Module:   st.module,
			Struct:   st.name,
			TypeArgs: st.typeArgs,
			Fields:   fields,
		}}
	case expansion.ExprList:
		data := e.Data.(expansion.ListData)
		if len(data.Exprs) < 2 {
			panic("ICE: expression list with fewer than two elements")
		}
		return &Expr{Kind: ExprList, Data: ListData{Exprs: c.exps(data.Exprs)}}

	case expansion.ExprBorrow:
		data := e.Data.(expansion.BorrowData)
		if data.Inner.Kind == expansion.ExprDotted {
			d, ok := c.dotted(data.Inner.Data.(expansion.DottedData).Dotted)
			if !ok {
				c.expectErrors()
				return unresolvedExpr(sp)
			}
			return &Expr{Kind: ExprBorrow, Data: BorrowData{Mut: data.Mut, Dotted: d}}
		}
		inner := c.exp(data.Inner)
		return &Expr{Kind: ExprBorrow, Data: BorrowData{
			Mut:    data.Mut,
			Dotted: &ExpDotted{Kind: DottedExp, Span: inner.Span, Exp: inner},
		}}
	case expansion.ExprDotted:
		d, ok := c.dotted(e.Data.(expansion.DottedData).Dotted)
		if !ok {
			c.expectErrors()
			return unresolvedExpr(sp)
		}
		return &Expr{Kind: ExprDerefBorrow, Data: DerefBorrowData{Dotted: d}}

	case expansion.ExprCast, expansion.ExprAnnotate:
		data := e.Data.(expansion.CastData)
		kind := ExprCast
		if e.Kind == expansion.ExprAnnotate {
			kind = ExprAnnotate
		}
		return &Expr{Kind: kind, Data: CastData{Value: c.exp(data.Value), Type: c.type_(data.Type)}}

	case expansion.ExprCall:
		data := e.Data.(expansion.CallData)
		if data.IsMacro {
			return c.macroCall(data)
		}
		return c.call(sp, data)
	case expansion.ExprVector:
		data := e.Data.(expansion.VectorData)
		targs := c.typeArgs(data.TypeArgs)
		args := c.exps(data.Args)
		return &Expr{Kind: ExprVector, Data: VectorData{
			NameSpan: data.NameSpan,
			ElemType: c.vectorElemType(data.NameSpan, sp, targs),
			ArgsSpan: data.ArgsSpan,
			Args:     args,
		}}

	case expansion.ExprSpec:
		data := e.Data.(expansion.SpecData)
		// names not bound here belong to the specification itself
		used := make([]LocalVar, 0, len(data.Unbound))
		for _, n := range data.Unbound {
			if !c.isLocalInScope(n) {
				continue
			}
			v, ok := c.resolveLocal(n.Span, "ICE should always resolve", n)
			if !ok {
				panic("ICE: local in scope did not resolve")
			}
			used = append(used, v)
		}
		return &Expr{Kind: ExprSpec, Data: SpecData{ID: data.ID, Used: used}}

	case expansion.ExprUnresolved:
		c.expectErrors()
		return unresolvedExpr(sp)
	case expansion.ExprIndex, expansion.ExprLambda, expansion.ExprQuant:
		panic("ICE: unexpected specification construct")
	default:
		panic("ICE: unknown expression kind " + e.Kind.String())
	}
}

func (c *Context) typeArgs(targs expansion.TypeArgs) TypeArgs {
	if !targs.Present {
		return TypeArgs{}
	}
	return someTypeArgs(c.types(targs.Types))
}

func (c *Context) accessConstant(sp source.Span, acc expansion.ModuleAccess) *Expr {
	out, ok := c.resolveConstant(acc)
	if !ok {
		c.expectErrors()
		return unresolvedExpr(sp)
	}
	return out
}

// macroCall resolves `name!(args)`. Only assert! exists.
func (c *Context) macroCall(data expansion.CallData) *Expr {
	if data.TypeArgs.Present {
		panic("ICE: macros do not have type arguments")
	}
	args := c.exps(data.Args)
	acc := data.Access
	if acc.IsName() && source.CanonicalName(acc.Name.Value) == AssertName {
		return &Expr{Kind: ExprBuiltin, Data: BuiltinData{
			Function: BuiltinFunction{Kind: BuiltinAssert, Span: acc.Span, Macro: true},
			ArgsSpan: data.ArgsSpan,
			Args:     args,
		}}
	}
	c.errorf(diag.NameUnboundMacro, acc.Span, "Unbound macro '%s'", acc).Emit()
	return unresolvedExpr(acc.Span)
}

// call resolves a function call. Builtin names win over everything else;
// other bare names are never functions.
func (c *Context) call(sp source.Span, data expansion.CallData) *Expr {
	targs := c.typeArgs(data.TypeArgs)
	args := c.exps(data.Args)
	acc := data.Access
	switch {
	case acc.IsName() && IsBuiltinFunctionName(source.CanonicalName(acc.Name.Value)):
		f, ok := c.resolveBuiltinFunction(sp, acc.Name, targs)
		if !ok {
			c.expectErrors()
			return unresolvedExpr(sp)
		}
		f.Span = acc.Span
		return &Expr{Kind: ExprBuiltin, Data: BuiltinData{Function: f, ArgsSpan: data.ArgsSpan, Args: args}}
	case acc.IsName():
		c.errorf(diag.NameUnboundUnscopedName, acc.Name.Span,
			"Unbound function '%s' in current scope", acc.Name.Value).Emit()
		return unresolvedExpr(sp)
	default:
		if !c.resolveModuleFunction(acc) {
			c.expectErrors()
			return unresolvedExpr(sp)
		}
		return &Expr{Kind: ExprModuleCall, Data: ModuleCallData{
			Module:   *acc.Module,
			Function: acc.Name,
			TypeArgs: targs,
			ArgsSpan: data.ArgsSpan,
			Args:     args,
		}}
	}
}

// dotted resolves a field path. It fails when the base expression did not
// resolve.
func (c *Context) dotted(d *expansion.ExpDotted) (*ExpDotted, bool) {
	switch d.Kind {
	case expansion.DottedExp:
		e := c.exp(d.Exp)
		if e.Kind == ExprUnresolved {
			return nil, false
		}
		return &ExpDotted{Kind: DottedExp, Span: d.Span, Exp: e}, true
	case expansion.DottedDot:
		inner, ok := c.dotted(d.Inner)
		if !ok {
			return nil, false
		}
		return &ExpDotted{Kind: DottedDot, Span: d.Span, Inner: inner, Field: d.Field}, true
	default:
		panic("ICE: unknown dotted kind")
	}
}

// isConstantName reports whether a bare name is shaped like a constant:
// it starts with an ASCII uppercase letter.
func isConstantName(s string) bool {
	return s != "" && s[0] >= 'A' && s[0] <= 'Z'
}
