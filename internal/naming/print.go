//nolint:errcheck // Type assertions are checked by construction
package naming

import (
	"fmt"
	"io"
	"strings"
)

// Printer writes the naming AST in a stable textual form. Locals print as
// name#id, type parameters as Name#id.
type Printer struct {
	w      io.Writer
	indent int
	err    error
}

func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w}
}

// Dump writes p to w.
func Dump(w io.Writer, p *Program) error {
	return NewPrinter(w).PrintProgram(p)
}

func (p *Printer) PrintProgram(prog *Program) error {
	for _, m := range prog.Modules {
		p.PrintModule(m)
	}
	for _, s := range prog.Scripts {
		p.PrintScript(s)
	}
	return p.err
}

func (p *Printer) PrintModule(m *ModuleDefinition) {
	p.line("module %s", m.Ident)
	p.indent++
	for _, f := range m.Friends {
		p.line("friend %s", f.Ident)
	}
	for _, s := range m.Structs {
		p.printStruct(s)
	}
	for _, f := range m.Functions {
		p.printFunction(f.Name.Value, f)
	}
	for _, k := range m.Constants {
		p.printConstant(k)
	}
	p.printSpecDeps(&m.SpecDeps)
	p.indent--
}

func (p *Printer) PrintScript(s *Script) {
	p.line("script %s", s.Name)
	p.indent++
	for _, k := range s.Constants {
		p.printConstant(k)
	}
	if s.Function != nil {
		p.printFunction(s.FunctionName.Value, s.Function)
	}
	p.printSpecDeps(&s.SpecDeps)
	p.indent--
}

func (p *Printer) printSpecDeps(deps *SpecDeps) {
	for _, d := range deps.Sorted() {
		p.line("spec_dep %s %s", d.Module, d.Neighbor)
	}
}

func (p *Printer) printStruct(s *StructDefinition) {
	var sb strings.Builder
	sb.WriteString("struct ")
	sb.WriteString(s.Name.Value)
	if len(s.TypeParams) > 0 {
		parts := make([]string, 0, len(s.TypeParams))
		for _, tp := range s.TypeParams {
			str := tparamString(tp.Param)
			if tp.IsPhantom {
				str = "phantom " + str
			}
			parts = append(parts, str)
		}
		sb.WriteString("<" + strings.Join(parts, ", ") + ">")
	}
	if s.Abilities != 0 {
		sb.WriteString(" has " + s.Abilities.String())
	}
	if s.Native {
		sb.WriteString(" native")
		p.line("%s", sb.String())
		return
	}
	p.line("%s", sb.String())
	p.indent++
	for _, f := range s.Fields {
		p.line("%s: %s", f.Name.Value, typeString(f.Type))
	}
	p.indent--
}

func (p *Printer) printFunction(name string, f *Function) {
	var sb strings.Builder
	if vis := f.Visibility.String(); vis != "" {
		sb.WriteString(vis + " ")
	}
	if f.Entry {
		sb.WriteString("entry ")
	}
	if f.Body.Native {
		sb.WriteString("native ")
	}
	sb.WriteString("fun " + name)
	if len(f.Signature.TypeParams) > 0 {
		parts := make([]string, 0, len(f.Signature.TypeParams))
		for _, tp := range f.Signature.TypeParams {
			parts = append(parts, tparamString(tp))
		}
		sb.WriteString("<" + strings.Join(parts, ", ") + ">")
	}
	params := make([]string, 0, len(f.Signature.Params))
	for _, prm := range f.Signature.Params {
		params = append(params, prm.Var.Var.String()+": "+typeString(prm.Type))
	}
	sb.WriteString("(" + strings.Join(params, ", ") + "): " + typeString(f.Signature.Return))
	if len(f.Acquires) > 0 {
		names := make([]string, 0, len(f.Acquires))
		for _, a := range f.Acquires {
			names = append(names, a.Struct.Value)
		}
		sb.WriteString(" acquires " + strings.Join(names, ", "))
	}
	p.line("%s", sb.String())
	if f.Body.Native {
		return
	}
	p.indent++
	p.printSeq(f.Body.Seq)
	p.indent--
}

func (p *Printer) printConstant(k *Constant) {
	p.line("const %s: %s = %s", k.Name.Value, typeString(k.Signature), exprString(k.Value))
}

func (p *Printer) printSeq(seq Sequence) {
	for _, item := range seq {
		switch item.Kind {
		case SeqExp:
			p.line("%s;", exprString(item.Exp))
		case SeqDeclare:
			if item.Type != nil {
				p.line("let %s: %s;", lvaluesString(item.Binds), typeString(item.Type))
			} else {
				p.line("let %s;", lvaluesString(item.Binds))
			}
		case SeqBind:
			p.line("let %s = %s;", lvaluesString(item.Binds), exprString(item.Exp))
		}
	}
}

func (p *Printer) line(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, "%s%s\n", strings.Repeat("  ", p.indent), fmt.Sprintf(format, args...))
}

func tparamString(tp TParam) string {
	s := fmt.Sprintf("%s#%d", tp.UserName.Value, tp.ID)
	if tp.Abilities != 0 {
		s += ": " + strings.ReplaceAll(tp.Abilities.String(), ", ", " + ")
	}
	return s
}

func typesString(tys []*Type) string {
	parts := make([]string, 0, len(tys))
	for _, t := range tys {
		parts = append(parts, typeString(t))
	}
	return strings.Join(parts, ", ")
}

func typeString(t *Type) string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case TypeUnit:
		return "()"
	case TypeRef:
		data := t.Data.(RefType)
		if data.Mut {
			return "&mut " + typeString(data.Inner)
		}
		return "&" + typeString(data.Inner)
	case TypeBuiltin:
		data := t.Data.(BuiltinType)
		if len(data.Args) == 0 {
			return data.Name.String()
		}
		return data.Name.String() + "<" + typesString(data.Args) + ">"
	case TypeUser:
		data := t.Data.(UserType)
		s := data.Module.String() + "::" + data.Struct.Value
		if len(data.Args) == 0 {
			return s
		}
		return s + "<" + typesString(data.Args) + ">"
	case TypeParam:
		tp := t.Data.(ParamType).Param
		return fmt.Sprintf("%s#%d", tp.UserName.Value, tp.ID)
	case TypeMultiple:
		return "(" + typesString(t.Data.(MultipleType).Types) + ")"
	default:
		return "_|_"
	}
}

func typeArgsString(targs TypeArgs) string {
	if !targs.Present {
		return ""
	}
	return "<" + typesString(targs.Types) + ">"
}

func exprsString(es []*Expr) string {
	parts := make([]string, 0, len(es))
	for _, e := range es {
		parts = append(parts, exprString(e))
	}
	return strings.Join(parts, ", ")
}

func exprString(e *Expr) string {
	if e == nil {
		return "<nil>"
	}
	switch data := e.Data.(type) {
	case ValueData:
		return data.Value.String()
	case VarData:
		switch e.Kind {
		case ExprMove:
			return "move " + data.Var.Var.String()
		case ExprCopy:
			return "copy " + data.Var.Var.String()
		}
		return data.Var.Var.String()
	case ConstantData:
		if data.Module == nil {
			return data.Name.Value
		}
		return data.Module.String() + "::" + data.Name.Value
	case ModuleCallData:
		return fmt.Sprintf("%s::%s%s(%s)", data.Module, data.Function.Value, typeArgsString(data.TypeArgs), exprsString(data.Args))
	case BuiltinData:
		targ := ""
		if data.Function.Type != nil {
			targ = "<" + typeString(data.Function.Type) + ">"
		}
		return data.Function.String() + targ + "(" + exprsString(data.Args) + ")"
	case VectorData:
		targ := ""
		if data.ElemType != nil {
			targ = "<" + typeString(data.ElemType) + ">"
		}
		return "vector" + targ + "[" + exprsString(data.Args) + "]"
	case IfElseData:
		return fmt.Sprintf("if (%s) %s else %s", exprString(data.Cond), exprString(data.Then), exprString(data.Else))
	case WhileData:
		return fmt.Sprintf("while (%s) %s", exprString(data.Cond), exprString(data.Body))
	case InnerData:
		switch e.Kind {
		case ExprLoop:
			return "loop " + exprString(data.Inner)
		case ExprReturn:
			return "return " + exprString(data.Inner)
		case ExprAbort:
			return "abort " + exprString(data.Inner)
		}
		return "*" + exprString(data.Inner)
	case BlockData:
		return seqString(data.Seq)
	case AssignData:
		return lvaluesString(data.Targets) + " = " + exprString(data.Value)
	case FieldMutateData:
		return dottedString(data.Target) + " = " + exprString(data.Value)
	case MutateData:
		return "*" + exprString(data.Target) + " = " + exprString(data.Value)
	case UnaryData:
		return data.Op.String() + exprString(data.Operand)
	case BinopData:
		return "(" + exprString(data.Left) + " " + data.Op.String() + " " + exprString(data.Right) + ")"
	case ListData:
		return "(" + exprsString(data.Exprs) + ")"
	case UnitData:
		return "()"
	case PackData:
		fields := make([]string, 0, len(data.Fields))
		for _, f := range data.Fields {
			fields = append(fields, f.Name.Value+": "+exprString(f.Value))
		}
		return fmt.Sprintf("%s::%s%s { %s }", data.Module, data.Struct.Value, typeArgsString(data.TypeArgs), strings.Join(fields, ", "))
	case BorrowData:
		if data.Mut {
			return "&mut " + dottedString(data.Dotted)
		}
		return "&" + dottedString(data.Dotted)
	case DerefBorrowData:
		return dottedString(data.Dotted)
	case CastData:
		if e.Kind == ExprCast {
			return "(" + exprString(data.Value) + " as " + typeString(data.Type) + ")"
		}
		return "(" + exprString(data.Value) + ": " + typeString(data.Type) + ")"
	case SpecData:
		used := make([]string, 0, len(data.Used))
		for _, v := range data.Used {
			used = append(used, v.Var.String())
		}
		return fmt.Sprintf("spec#%d[%s]", data.ID, strings.Join(used, ", "))
	}
	switch e.Kind {
	case ExprBreak:
		return "break"
	case ExprContinue:
		return "continue"
	}
	return "_|_"
}

func seqString(seq Sequence) string {
	parts := make([]string, 0, len(seq))
	for _, item := range seq {
		switch item.Kind {
		case SeqExp:
			parts = append(parts, exprString(item.Exp))
		case SeqDeclare:
			s := "let " + lvaluesString(item.Binds)
			if item.Type != nil {
				s += ": " + typeString(item.Type)
			}
			parts = append(parts, s)
		case SeqBind:
			parts = append(parts, "let "+lvaluesString(item.Binds)+" = "+exprString(item.Exp))
		}
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}

func dottedString(d *ExpDotted) string {
	if d.Kind == DottedDot {
		return dottedString(d.Inner) + "." + d.Field.Value
	}
	return exprString(d.Exp)
}

func lvaluesString(ls *LValueList) string {
	if len(ls.Items) == 1 {
		return lvalueString(ls.Items[0])
	}
	parts := make([]string, 0, len(ls.Items))
	for _, l := range ls.Items {
		parts = append(parts, lvalueString(l))
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func lvalueString(l *LValue) string {
	switch l.Kind {
	case LValueIgnore:
		return "_"
	case LValueVar:
		if l.Unused {
			return l.Var.Var.String() + "(unused)"
		}
		return l.Var.Var.String()
	default:
		fields := make([]string, 0, len(l.Fields))
		for _, f := range l.Fields {
			fields = append(fields, f.Name.Value+": "+lvalueString(f.Value))
		}
		return fmt.Sprintf("%s::%s%s { %s }", l.Module, l.Struct.Value, typeArgsString(l.TypeArgs), strings.Join(fields, ", "))
	}
}
