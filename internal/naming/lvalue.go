package naming

import (
	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/source"
)

type lvalueCase uint8

const (
	lvalueBind lvalueCase = iota
	lvalueAssign
)

// seenLocals tracks names already bound by one pattern group.
type seenLocals map[string]source.Span

func (c *Context) bindList(ls *expansion.LValueList) (*LValueList, bool) {
	return c.lvalueList(make(seenLocals), lvalueBind, ls)
}

func (c *Context) assignList(ls *expansion.LValueList) (*LValueList, bool) {
	return c.lvalueList(make(seenLocals), lvalueAssign, ls)
}

// lvalueList stops at the first pattern that fails to resolve.
func (c *Context) lvalueList(seen seenLocals, lc lvalueCase, ls *expansion.LValueList) (*LValueList, bool) {
	out := &LValueList{Span: ls.Span, Items: make([]*LValue, 0, len(ls.Items))}
	for _, l := range ls.Items {
		nl, ok := c.lvalue(seen, lc, l)
		if !ok {
			return nil, false
		}
		out.Items = append(out.Items, nl)
	}
	return out, true
}

func (c *Context) lvalue(seen seenLocals, lc lvalueCase, l *expansion.LValue) (*LValue, bool) {
	sp := l.Span
	switch l.Kind {
	case expansion.LValueVar:
		if !l.Access.IsName() || l.TypeArgs.Present {
			panic("ICE: unexpected specification construct")
		}
		n := l.Access.Name
		if n.IsUnderscore() {
			return &LValue{Kind: LValueIgnore, Span: sp}, true
		}
		key := source.CanonicalName(n.Value)
		if prev, dup := seen[key]; dup {
			c.reportDuplicateLocal(lc, n, prev)
		} else {
			seen[key] = n.Span
		}
		var v LocalVar
		if lc == lvalueBind {
			v = c.declareLocal(false, n)
		} else {
			var ok bool
			if v, ok = c.resolveLocal(sp, "assignment", n); !ok {
				return nil, false
			}
		}
		return &LValue{Kind: LValueVar, Span: sp, Var: v}, true

	case expansion.LValueUnpack:
		verb := "deconstructing binding"
		if lc == lvalueAssign {
			verb = "deconstructing assignment"
		}
		st, ok := c.resolveStructName(sp, verb, l.Access, l.TypeArgs)
		if !ok {
			return nil, false
		}
		fields := make([]LValueField, 0, len(l.Fields))
		fieldSeen := make(map[string]struct{}, len(l.Fields))
		for _, f := range l.Fields {
			key := source.CanonicalName(f.Name.Value)
			if _, dup := fieldSeen[key]; dup {
				continue
			}
			fieldSeen[key] = struct{}{}
			inner, ok := c.lvalue(seen, lc, f.Value)
			if !ok {
				return nil, false
			}
			fields = append(fields, LValueField{Name: f.Name, Value: inner})
		}
		return &LValue{
			Kind:     LValueUnpack,
			Span:     sp,
			Module:   st.module,
			Struct:   st.name,
			TypeArgs: st.typeArgs,
			Fields:   fields,
		}, true
	default:
		panic("ICE: unknown lvalue kind")
	}
}

func (c *Context) reportDuplicateLocal(lc lvalueCase, n expansion.Name, prev source.Span) {
	if lc == lvalueBind {
		c.errorf(diag.DeclDuplicateItem, n.Span, "Duplicate declaration for local '%s' in a given 'let'", n.Value).
			WithNote(prev, "Previously declared here").
			Emit()
		return
	}
	c.errorf(diag.DeclDuplicateItem, n.Span, "Duplicate usage of local '%s' in a given assignment", n.Value).
		WithNote(prev, "Previously assigned here").
		Emit()
}
