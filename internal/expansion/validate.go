package expansion

import (
	"errors"
	"fmt"

	"keelc/internal/source"
)

// ErrMalformed is wrapped by every error Validate returns.
var ErrMalformed = errors.New("malformed program")

// Validate checks that every node the naming phase walks is present: required
// children are non-nil and sequence, pattern and dotted kinds are known.
// DecodeProgram runs it, so a hand-edited or truncated file is reported as an
// error instead of reaching the resolver.
func (p *Program) Validate() error {
	for i, m := range p.Modules {
		if m == nil {
			return malformed(fmt.Sprintf("module #%d", i), source.Span{}, "nil module")
		}
		if err := validateModule(m); err != nil {
			return err
		}
	}
	for i, s := range p.Scripts {
		if s == nil {
			return malformed(fmt.Sprintf("script #%d", i), source.Span{}, "nil script")
		}
		if err := validateScript(s); err != nil {
			return err
		}
	}
	return nil
}

func malformed(where string, sp source.Span, what string) error {
	return fmt.Errorf("%w: %s at %s: %s", ErrMalformed, where, sp, what)
}

type validator struct {
	where string
}

func validateModule(m *ModuleDefinition) error {
	v := validator{where: "module " + m.Ident.String()}
	for _, f := range m.Friends {
		if f == nil {
			return v.fail(m.Span, "nil friend")
		}
	}
	for _, s := range m.Structs {
		if s == nil {
			return v.fail(m.Span, "nil struct")
		}
		sv := validator{where: v.where + "::" + s.Name.Value}
		if !s.Native {
			for _, f := range s.Fields {
				if err := sv.typ(f.Type, s.Span, "field "+f.Name.Value); err != nil {
					return err
				}
			}
		}
	}
	for _, f := range m.Functions {
		if f == nil {
			return v.fail(m.Span, "nil function")
		}
		if err := (validator{where: v.where + "::" + f.Name.Value}).function(f); err != nil {
			return err
		}
	}
	for _, k := range m.Constants {
		if k == nil {
			return v.fail(m.Span, "nil constant")
		}
		if err := (validator{where: v.where + "::" + k.Name.Value}).constant(k); err != nil {
			return err
		}
	}
	return v.specs(m.Specs, m.Span)
}

func validateScript(s *Script) error {
	v := validator{where: "script " + s.Name}
	for _, k := range s.Constants {
		if k == nil {
			return v.fail(s.Span, "nil constant")
		}
		if err := (validator{where: v.where + "::" + k.Name.Value}).constant(k); err != nil {
			return err
		}
	}
	if s.Function == nil {
		return v.fail(s.Span, "missing function")
	}
	if err := (validator{where: v.where + "::" + s.Function.Name.Value}).function(s.Function); err != nil {
		return err
	}
	return v.specs(s.Specs, s.Span)
}

func (v validator) fail(sp source.Span, what string) error {
	return malformed(v.where, sp, what)
}

func (v validator) function(f *Function) error {
	for _, p := range f.Signature.Params {
		if err := v.typ(p.Type, f.Span, "parameter "+p.Name.Value); err != nil {
			return err
		}
	}
	if err := v.typ(f.Signature.Return, f.Span, "return type"); err != nil {
		return err
	}
	if f.Body == nil {
		return v.fail(f.Span, "missing body")
	}
	if !f.Body.Native {
		if err := v.seq(f.Body.Seq, f.Body.Span); err != nil {
			return err
		}
	}
	return v.specs(f.Specs, f.Span)
}

func (v validator) constant(k *Constant) error {
	if err := v.typ(k.Signature, k.Span, "type"); err != nil {
		return err
	}
	return v.exp(k.Value, k.Span, "value")
}

func (v validator) specs(blocks []*SpecBlock, parent source.Span) error {
	for _, b := range blocks {
		if b == nil {
			return v.fail(parent, "nil spec block")
		}
		for _, m := range b.Members {
			if m == nil {
				return v.fail(b.Span, "nil spec member")
			}
			if err := v.specMember(m); err != nil {
				return err
			}
		}
	}
	return nil
}

// specMember only checks what is present: spec members leave most fields unset.
func (v validator) specMember(m *SpecMember) error {
	for _, e := range []*Expr{m.Exp, m.Lhs, m.Rhs} {
		if err := v.optExp(e); err != nil {
			return err
		}
	}
	if err := v.exps(m.Additional, m.Span, "condition argument"); err != nil {
		return err
	}
	if m.Kind == SpecFunction && m.Body != nil && !m.Body.Native {
		return v.seq(m.Body.Seq, m.Body.Span)
	}
	return nil
}

func (v validator) seq(seq Sequence, parent source.Span) error {
	for _, item := range seq {
		if item == nil {
			return v.fail(parent, "nil sequence item")
		}
		switch item.Kind {
		case SeqExp:
			if err := v.exp(item.Exp, item.Span, "expression"); err != nil {
				return err
			}
		case SeqDeclare, SeqBind:
			if err := v.lvalues(item.Binds, item.Span); err != nil {
				return err
			}
			if item.Type != nil {
				if err := v.typ(item.Type, item.Span, "annotation"); err != nil {
					return err
				}
			}
			if item.Kind == SeqBind {
				if err := v.exp(item.Exp, item.Span, "bound expression"); err != nil {
					return err
				}
			}
		default:
			return v.fail(item.Span, fmt.Sprintf("unknown sequence kind %d", item.Kind))
		}
	}
	return nil
}

func (v validator) lvalues(ls *LValueList, parent source.Span) error {
	if ls == nil {
		return v.fail(parent, "missing patterns")
	}
	for _, l := range ls.Items {
		if err := v.lvalue(l, ls.Span); err != nil {
			return err
		}
	}
	return nil
}

func (v validator) lvalue(l *LValue, parent source.Span) error {
	if l == nil {
		return v.fail(parent, "nil pattern")
	}
	switch l.Kind {
	case LValueVar, LValueUnpack:
	default:
		return v.fail(l.Span, fmt.Sprintf("unknown pattern kind %d", l.Kind))
	}
	if err := v.typeArgs(l.TypeArgs, l.Span); err != nil {
		return err
	}
	for _, f := range l.Fields {
		if err := v.lvalue(f.Value, l.Span); err != nil {
			return err
		}
	}
	return nil
}

func (v validator) typeArgs(targs TypeArgs, parent source.Span) error {
	for _, t := range targs.Types {
		if err := v.typ(t, parent, "type argument"); err != nil {
			return err
		}
	}
	return nil
}

func (v validator) types(tys []*Type, parent source.Span, what string) error {
	for _, t := range tys {
		if err := v.typ(t, parent, what); err != nil {
			return err
		}
	}
	return nil
}

func (v validator) typ(t *Type, parent source.Span, what string) error {
	if t == nil {
		return v.fail(parent, "missing "+what)
	}
	switch data := t.Data.(type) {
	case MultipleType:
		return v.types(data.Types, t.Span, "tuple element")
	case ApplyType:
		return v.types(data.Args, t.Span, "type argument")
	case RefType:
		return v.typ(data.Inner, t.Span, "referenced type")
	case FunType:
		if err := v.types(data.Params, t.Span, "parameter type"); err != nil {
			return err
		}
		return v.typ(data.Ret, t.Span, "result type")
	}
	return nil
}

func (v validator) exps(es []*Expr, parent source.Span, what string) error {
	for _, e := range es {
		if err := v.exp(e, parent, what); err != nil {
			return err
		}
	}
	return nil
}

func (v validator) optExp(e *Expr) error {
	if e == nil {
		return nil
	}
	return v.exp(e, e.Span, "")
}

func (v validator) exp(e *Expr, parent source.Span, what string) error {
	if e == nil {
		return v.fail(parent, "missing "+what)
	}
	sp := e.Span
	kind := e.Kind.String()
	switch data := e.Data.(type) {
	case NameData:
		return v.typeArgs(data.TypeArgs, sp)
	case CallData:
		if err := v.typeArgs(data.TypeArgs, sp); err != nil {
			return err
		}
		return v.exps(data.Args, sp, kind+" argument")
	case PackData:
		if err := v.typeArgs(data.TypeArgs, sp); err != nil {
			return err
		}
		for _, f := range data.Fields {
			if err := v.exp(f.Value, sp, kind+" field "+f.Name.Value); err != nil {
				return err
			}
		}
	case VectorData:
		if err := v.typeArgs(data.TypeArgs, sp); err != nil {
			return err
		}
		return v.exps(data.Args, sp, kind+" element")
	case IfElseData:
		return v.all(sp, kind, child{"Cond", data.Cond}, child{"Then", data.Then}, child{"Else", data.Else})
	case WhileData:
		return v.all(sp, kind, child{"Cond", data.Cond}, child{"Body", data.Body})
	case InnerData:
		return v.exp(data.Inner, sp, kind+" operand")
	case BlockData:
		return v.seq(data.Seq, sp)
	case LambdaData:
		if err := v.lvalues(data.Binds, sp); err != nil {
			return err
		}
		return v.exp(data.Body, sp, kind+" Body")
	case QuantData:
		for _, r := range data.Ranges {
			if err := v.lvalue(r.Bind, r.Span); err != nil {
				return err
			}
			if err := v.optExp(r.Range); err != nil {
				return err
			}
		}
		for _, trig := range data.Triggers {
			if err := v.exps(trig, sp, kind+" trigger"); err != nil {
				return err
			}
		}
		if err := v.optExp(data.Where); err != nil {
			return err
		}
		return v.exp(data.Body, sp, kind+" Body")
	case AssignData:
		if err := v.lvalues(data.Targets, sp); err != nil {
			return err
		}
		return v.exp(data.Value, sp, kind+" Value")
	case FieldMutateData:
		if err := v.dotted(data.Target, sp); err != nil {
			return err
		}
		return v.exp(data.Value, sp, kind+" Value")
	case MutateData:
		return v.all(sp, kind, child{"Target", data.Target}, child{"Value", data.Value})
	case UnaryData:
		return v.exp(data.Operand, sp, kind+" operand")
	case BinopData:
		return v.all(sp, kind, child{"Left", data.Left}, child{"Right", data.Right})
	case ListData:
		return v.exps(data.Exprs, sp, kind+" element")
	case BorrowData:
		return v.exp(data.Inner, sp, kind+" operand")
	case DottedData:
		return v.dotted(data.Dotted, sp)
	case CastData:
		if err := v.exp(data.Value, sp, kind+" Value"); err != nil {
			return err
		}
		return v.typ(data.Type, sp, kind+" Type")
	case IndexData:
		return v.all(sp, kind, child{"Value", data.Value}, child{"Index", data.Index})
	}
	return nil
}

type child struct {
	name string
	e    *Expr
}

// all checks required children of one expression.
func (v validator) all(sp source.Span, kind string, children ...child) error {
	for _, c := range children {
		if err := v.exp(c.e, sp, kind+" "+c.name); err != nil {
			return err
		}
	}
	return nil
}

func (v validator) dotted(d *ExpDotted, parent source.Span) error {
	if d == nil {
		return v.fail(parent, "missing dotted path")
	}
	switch d.Kind {
	case DottedExp:
		return v.exp(d.Exp, d.Span, "dotted base")
	case DottedDot:
		return v.dotted(d.Inner, d.Span)
	}
	return v.fail(d.Span, fmt.Sprintf("unknown dotted kind %d", d.Kind))
}
