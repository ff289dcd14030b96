package naming

import (
	"fmt"

	"keelc/internal/diag"
)

// unusedBindings flags the locals of f that nothing reads. Declarations in
// `let` get the flag and a warning; assignment targets are left alone.
type unusedBindings struct {
	c    *Context
	used map[Var]struct{}
}

func (c *Context) removeUnusedBindings(f *Function) {
	if f.Body == nil || f.Body.Native {
		return
	}
	u := unusedBindings{c: c, used: c.usedLocals}
	u.seq(f.Body.Seq)
	for _, p := range f.Signature.Params {
		if _, ok := u.used[p.Var.Var]; !ok {
			c.reportUnusedLocal(p.Var)
		}
	}
}

func (u unusedBindings) seq(seq Sequence) {
	for _, item := range seq {
		switch item.Kind {
		case SeqExp:
			u.exp(item.Exp)
		case SeqDeclare:
			u.lvalues(item.Binds)
		case SeqBind:
			// `let x = e` is reported here too; no later liveness pass
			// runs in this tool to catch it.
			u.lvalues(item.Binds)
			u.exp(item.Exp)
		}
	}
}

func (u unusedBindings) lvalues(ls *LValueList) {
	for _, l := range ls.Items {
		u.lvalue(l)
	}
}

func (u unusedBindings) lvalue(l *LValue) {
	switch l.Kind {
	case LValueVar:
		if _, ok := u.used[l.Var.Var]; ok {
			return
		}
		u.c.reportUnusedLocal(l.Var)
		l.Unused = true
	case LValueUnpack:
		for _, f := range l.Fields {
			u.lvalue(f.Value)
		}
	}
}

func (u unusedBindings) exps(es []*Expr) {
	for _, e := range es {
		u.exp(e)
	}
}

func (u unusedBindings) exp(e *Expr) {
	switch data := e.Data.(type) {
	case InnerData:
		u.exp(data.Inner)
	case UnaryData:
		u.exp(data.Operand)
	case CastData:
		u.exp(data.Value)
	case AssignData:
		u.exp(data.Value)
	case IfElseData:
		u.exp(data.Cond)
		u.exp(data.Then)
		u.exp(data.Else)
	case WhileData:
		u.exp(data.Cond)
		u.exp(data.Body)
	case BlockData:
		u.seq(data.Seq)
	case FieldMutateData:
		u.dotted(data.Target)
		u.exp(data.Value)
	case MutateData:
		u.exp(data.Target)
		u.exp(data.Value)
	case BinopData:
		u.exp(data.Left)
		u.exp(data.Right)
	case PackData:
		for _, f := range data.Fields {
			u.exp(f.Value)
		}
	case BuiltinData:
		u.exps(data.Args)
	case VectorData:
		u.exps(data.Args)
	case ModuleCallData:
		u.exps(data.Args)
	case ListData:
		u.exps(data.Exprs)
	case BorrowData:
		u.dotted(data.Dotted)
	case DerefBorrowData:
		u.dotted(data.Dotted)
	}
}

func (u unusedBindings) dotted(d *ExpDotted) {
	if d.Kind == DottedDot {
		u.dotted(d.Inner)
		return
	}
	u.exp(d.Exp)
}

// reportUnusedLocal warns about v unless its name opts out: only names that
// start with an ASCII lowercase letter are reported.
func (c *Context) reportUnusedLocal(v LocalVar) {
	name := v.Var.Name
	if name == "" || name[0] < 'a' || name[0] > 'z' {
		return
	}
	kind := "local variable"
	if v.Var.ID == 0 {
		kind = "parameter"
	}
	msg := fmt.Sprintf("Unused %s '%s'. Consider removing or prefixing with an underscore: '_%s'", kind, name, name)
	diag.Report(c.env, diag.UnusedVariable, v.Span, msg).Emit()
}
