package naming

import (
	"fmt"

	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/source"
)

func (c *Context) types(tys []*expansion.Type) []*Type {
	out := make([]*Type, 0, len(tys))
	for _, t := range tys {
		out = append(out, c.type_(t))
	}
	return out
}

// multipleType normalizes a tuple type: no elements is unit, one element is
// the element itself.
func multipleType(sp source.Span, tys []*Type) *Type {
	switch len(tys) {
	case 0:
		return &Type{Kind: TypeUnit, Span: sp}
	case 1:
		return tys[0]
	default:
		return &Type{Kind: TypeMultiple, Span: sp, Data: MultipleType{Types: tys}}
	}
}

func (c *Context) type_(t *expansion.Type) *Type {
	sp := t.Span
	switch t.Kind {
	case expansion.TypeUnit:
		return &Type{Kind: TypeUnit, Span: sp}
	case expansion.TypeMultiple:
		data := t.Data.(expansion.MultipleType)
		return multipleType(sp, c.types(data.Types))
	case expansion.TypeRef:
		data := t.Data.(expansion.RefType)
		return &Type{Kind: TypeRef, Span: sp, Data: RefType{Mut: data.Mut, Inner: c.type_(data.Inner)}}
	case expansion.TypeUnresolved:
		c.expectErrors()
		return unresolvedType(sp)
	case expansion.TypeApply:
		data := t.Data.(expansion.ApplyType)
		if data.Access.IsName() {
			return c.unscopedApply(sp, data.Access.Name, data.Args)
		}
		return c.moduleApply(sp, data.Access, data.Args)
	case expansion.TypeFun:
		panic("ICE: function types are only allowed in specifications")
	default:
		panic("ICE: unknown type kind " + t.Kind.String())
	}
}

func (c *Context) unscopedApply(sp source.Span, n expansion.Name, args []*expansion.Type) *Type {
	u, ok := c.resolveUnscopedType(n)
	if !ok {
		c.expectErrors()
		return unresolvedType(sp)
	}
	if u.builtin {
		bn, _ := ResolveBuiltinTypeName(source.CanonicalName(n.Value))
		tys := c.checkTypeArgumentArity(sp, bn.String(), c.types(args), bn.Arity())
		return &Type{Kind: TypeBuiltin, Span: sp, Data: BuiltinType{Name: bn, NameSpan: n.Span, Args: tys}}
	}
	if len(args) != 0 {
		c.errorf(diag.NamePositionMismatch, sp, "Generic type parameters cannot take type arguments").Emit()
		return unresolvedType(sp)
	}
	if c.translatingFun {
		c.usedFunTParams[u.param.ID] = struct{}{}
	}
	return &Type{Kind: TypeParam, Span: sp, Data: ParamType{Param: u.param}}
}

func (c *Context) moduleApply(sp source.Span, acc expansion.ModuleAccess, args []*expansion.Type) *Type {
	entry, ok := c.resolveModuleType(acc)
	if !ok {
		c.expectErrors()
		return unresolvedType(sp)
	}
	tys := c.checkTypeArgumentArity(sp, acc.String(), c.types(args), entry.arity)
	return &Type{Kind: TypeUser, Span: sp, Data: UserType{
		Module:   *acc.Module,
		Struct:   acc.Name,
		NameSpan: acc.Span,
		Args:     tys,
	}}
}

// checkTypeArgumentArity reports a count mismatch once, then truncates or
// pads tys so that its length equals arity.
func (c *Context) checkTypeArgumentArity(sp source.Span, name string, tys []*Type, arity int) []*Type {
	if n := len(tys); n != arity {
		code := diag.NameTooFewTypeArguments
		if n > arity {
			code = diag.NameTooManyTypeArguments
		}
		c.errorf(code, sp, "Invalid instantiation of '%s'. Expected %d type argument(s) but got %d", name, arity, n).Emit()
	}
	return fixArity(sp, tys, arity)
}

func fixArity(sp source.Span, tys []*Type, arity int) []*Type {
	if len(tys) > arity {
		return tys[:arity]
	}
	for len(tys) < arity {
		tys = append(tys, unresolvedType(sp))
	}
	return tys
}

// checkBuiltinTypeArgs is the arity check for builtin calls: the primary
// label sits on the builtin's name, the note on the call. Absent type
// arguments stay absent.
func (c *Context) checkBuiltinTypeArgs(msgSpan source.Span, msg string, targsSpan source.Span, arity int, targs TypeArgs) TypeArgs {
	if !targs.Present {
		return targs
	}
	tys := targs.Types
	if n := len(tys); n != arity {
		code := diag.NameTooFewTypeArguments
		if n > arity {
			code = diag.NameTooManyTypeArguments
		}
		c.errorf(code, msgSpan, "%s", msg).
			WithNote(targsSpan, fmtExpected(arity, n)).
			Emit()
	}
	return someTypeArgs(fixArity(targsSpan, tys, arity))
}

func fmtExpected(arity, got int) string {
	return fmt.Sprintf("Expected %d type argument(s) but got %d", arity, got)
}
