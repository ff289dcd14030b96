package expansion

import "keelc/internal/source"

// Builder assembles programs by hand. Every node gets a fresh one-byte span
// in File, so locations are unique and deterministic. Used by tests and by
// tools that synthesize programs.
type Builder struct {
	File source.FileID
	pos  uint32
}

// Span returns the next unused span.
func (b *Builder) Span() source.Span {
	sp := source.Span{File: b.File, Start: b.pos, End: b.pos + 1}
	b.pos++
	return sp
}

func (b *Builder) Name(v string) Name {
	return Name{Span: b.Span(), Value: v}
}

// Access is a bare name access.
func (b *Builder) Access(v string) ModuleAccess {
	n := b.Name(v)
	return ModuleAccess{Span: n.Span, Name: n}
}

// QAccess is a `module::name` access.
func (b *Builder) QAccess(m ModuleIdent, v string) ModuleAccess {
	mod := m
	return ModuleAccess{Span: b.Span(), Module: &mod, ModuleSpan: b.Span(), Name: b.Name(v)}
}

// Targs is an explicit type argument list.
func Targs(tys ...*Type) TypeArgs {
	return TypeArgs{Present: true, Types: tys}
}

// Types

func (b *Builder) TUnit() *Type {
	return &Type{Kind: TypeUnit, Span: b.Span()}
}

func (b *Builder) TApply(acc ModuleAccess, args ...*Type) *Type {
	return &Type{Kind: TypeApply, Span: b.Span(), Data: ApplyType{Access: acc, Args: args}}
}

// TName is an unqualified type such as `u64`, `vector<T>` or a type parameter.
func (b *Builder) TName(v string, args ...*Type) *Type {
	return b.TApply(b.Access(v), args...)
}

func (b *Builder) TQual(m ModuleIdent, v string, args ...*Type) *Type {
	return b.TApply(b.QAccess(m, v), args...)
}

func (b *Builder) TRef(mut bool, inner *Type) *Type {
	return &Type{Kind: TypeRef, Span: b.Span(), Data: RefType{Mut: mut, Inner: inner}}
}

func (b *Builder) TMultiple(tys ...*Type) *Type {
	return &Type{Kind: TypeMultiple, Span: b.Span(), Data: MultipleType{Types: tys}}
}

// Expressions

func (b *Builder) Num(lit string) *Expr {
	return &Expr{Kind: ExprValue, Span: b.Span(), Data: ValueData{Value: Value{Kind: ValueU64, Lit: lit}}}
}

func (b *Builder) Bool(v bool) *Expr {
	lit := "false"
	if v {
		lit = "true"
	}
	return &Expr{Kind: ExprValue, Span: b.Span(), Data: ValueData{Value: Value{Kind: ValueBool, Lit: lit}}}
}

func (b *Builder) Unit() *Expr {
	return &Expr{Kind: ExprUnit, Span: b.Span(), Data: UnitData{}}
}

// Var is a bare name expression: a local, or a constant when capitalized.
func (b *Builder) Var(v string) *Expr {
	return b.NameExpr(b.Access(v))
}

func (b *Builder) NameExpr(acc ModuleAccess) *Expr {
	return &Expr{Kind: ExprName, Span: b.Span(), Data: NameData{Access: acc}}
}

func (b *Builder) Move(v string) *Expr {
	return &Expr{Kind: ExprMove, Span: b.Span(), Data: VarData{Var: b.Name(v)}}
}

func (b *Builder) Copy(v string) *Expr {
	return &Expr{Kind: ExprCopy, Span: b.Span(), Data: VarData{Var: b.Name(v)}}
}

func (b *Builder) Call(acc ModuleAccess, targs TypeArgs, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Span: b.Span(), Data: CallData{
		Access: acc, TypeArgs: targs, ArgsSpan: b.Span(), Args: args,
	}}
}

func (b *Builder) Macro(name string, args ...*Expr) *Expr {
	return &Expr{Kind: ExprCall, Span: b.Span(), Data: CallData{
		Access: b.Access(name), IsMacro: true, ArgsSpan: b.Span(), Args: args,
	}}
}

func (b *Builder) Vector(targs TypeArgs, args ...*Expr) *Expr {
	return &Expr{Kind: ExprVector, Span: b.Span(), Data: VectorData{
		NameSpan: b.Span(), TypeArgs: targs, ArgsSpan: b.Span(), Args: args,
	}}
}

func (b *Builder) Field(name string, v *Expr) FieldExpr {
	return FieldExpr{Name: b.Name(name), Value: v}
}

func (b *Builder) Pack(acc ModuleAccess, targs TypeArgs, fields ...FieldExpr) *Expr {
	return &Expr{Kind: ExprPack, Span: b.Span(), Data: PackData{Access: acc, TypeArgs: targs, Fields: fields}}
}

func (b *Builder) Block(items ...*SequenceItem) *Expr {
	return &Expr{Kind: ExprBlock, Span: b.Span(), Data: BlockData{Seq: items}}
}

func (b *Builder) IfElse(cond, then, els *Expr) *Expr {
	return &Expr{Kind: ExprIfElse, Span: b.Span(), Data: IfElseData{Cond: cond, Then: then, Else: els}}
}

func (b *Builder) While(cond, body *Expr) *Expr {
	return &Expr{Kind: ExprWhile, Span: b.Span(), Data: WhileData{Cond: cond, Body: body}}
}

// Inner builds Loop, Return, Abort and Dereference.
func (b *Builder) Inner(kind ExprKind, inner *Expr) *Expr {
	return &Expr{Kind: kind, Span: b.Span(), Data: InnerData{Inner: inner}}
}

func (b *Builder) Assign(targets *LValueList, v *Expr) *Expr {
	return &Expr{Kind: ExprAssign, Span: b.Span(), Data: AssignData{Targets: targets, Value: v}}
}

func (b *Builder) Mutate(target, v *Expr) *Expr {
	return &Expr{Kind: ExprMutate, Span: b.Span(), Data: MutateData{Target: target, Value: v}}
}

func (b *Builder) FieldMutate(target *ExpDotted, v *Expr) *Expr {
	return &Expr{Kind: ExprFieldMutate, Span: b.Span(), Data: FieldMutateData{Target: target, Value: v}}
}

func (b *Builder) Binop(l *Expr, op BinOp, r *Expr) *Expr {
	return &Expr{Kind: ExprBinop, Span: b.Span(), Data: BinopData{Left: l, Op: op, Right: r}}
}

func (b *Builder) Not(e *Expr) *Expr {
	return &Expr{Kind: ExprUnary, Span: b.Span(), Data: UnaryData{Op: UnaryNot, Operand: e}}
}

func (b *Builder) List(es ...*Expr) *Expr {
	return &Expr{Kind: ExprList, Span: b.Span(), Data: ListData{Exprs: es}}
}

func (b *Builder) Borrow(mut bool, inner *Expr) *Expr {
	return &Expr{Kind: ExprBorrow, Span: b.Span(), Data: BorrowData{Mut: mut, Inner: inner}}
}

// Dot builds the dotted path base.f1.f2...
func (b *Builder) Dot(base *Expr, fields ...string) *ExpDotted {
	d := &ExpDotted{Kind: DottedExp, Span: b.Span(), Exp: base}
	for _, f := range fields {
		d = &ExpDotted{Kind: DottedDot, Span: b.Span(), Inner: d, Field: b.Name(f)}
	}
	return d
}

func (b *Builder) Dotted(d *ExpDotted) *Expr {
	return &Expr{Kind: ExprDotted, Span: b.Span(), Data: DottedData{Dotted: d}}
}

func (b *Builder) Cast(e *Expr, t *Type) *Expr {
	return &Expr{Kind: ExprCast, Span: b.Span(), Data: CastData{Value: e, Type: t}}
}

func (b *Builder) Annotate(e *Expr, t *Type) *Expr {
	return &Expr{Kind: ExprAnnotate, Span: b.Span(), Data: CastData{Value: e, Type: t}}
}

func (b *Builder) SpecExpr(id uint64, names ...string) *Expr {
	unbound := make([]Name, 0, len(names))
	for _, n := range names {
		unbound = append(unbound, b.Name(n))
	}
	return &Expr{Kind: ExprSpec, Span: b.Span(), Data: SpecData{ID: id, Unbound: unbound}}
}

// Sequences and patterns

func (b *Builder) Do(e *Expr) *SequenceItem {
	return &SequenceItem{Kind: SeqExp, Span: b.Span(), Exp: e}
}

// Let builds `let binds = e;`, or `let binds: ty;` when e is nil.
func (b *Builder) Let(binds *LValueList, ty *Type, e *Expr) *SequenceItem {
	if e == nil {
		return &SequenceItem{Kind: SeqDeclare, Span: b.Span(), Binds: binds, Type: ty}
	}
	if ty != nil {
		e = b.Annotate(e, ty)
	}
	return &SequenceItem{Kind: SeqBind, Span: b.Span(), Binds: binds, Exp: e}
}

func (b *Builder) Binds(items ...*LValue) *LValueList {
	return &LValueList{Span: b.Span(), Items: items}
}

func (b *Builder) LVar(name string) *LValue {
	return &LValue{Kind: LValueVar, Span: b.Span(), Access: b.Access(name)}
}

func (b *Builder) LField(name string, v *LValue) LValueField {
	return LValueField{Name: b.Name(name), Value: v}
}

func (b *Builder) LUnpack(acc ModuleAccess, targs TypeArgs, fields ...LValueField) *LValue {
	return &LValue{Kind: LValueUnpack, Span: b.Span(), Access: acc, TypeArgs: targs, Fields: fields}
}

// Declarations

func (b *Builder) TParam(name string, abilities ...Ability) TypeParameter {
	return TypeParameter{Name: b.Name(name), Constraints: NewAbilitySet(abilities...)}
}

func (b *Builder) Param(name string, ty *Type) Param {
	return Param{Name: b.Name(name), Type: ty}
}

// Fun builds a function with a defined body. A nil ret means unit.
func (b *Builder) Fun(name string, tparams []TypeParameter, params []Param, ret *Type, body ...*SequenceItem) *Function {
	if ret == nil {
		ret = b.TUnit()
	}
	return &Function{
		Span: b.Span(),
		Name: b.Name(name),
		Signature: FunctionSignature{
			TypeParams: tparams,
			Params:     params,
			Return:     ret,
		},
		Body: &FunctionBody{Span: b.Span(), Seq: body},
	}
}

// NativeFun builds a native function.
func (b *Builder) NativeFun(name string, tparams []TypeParameter, params []Param, ret *Type) *Function {
	f := b.Fun(name, tparams, params, ret)
	f.Body.Native = true
	return f
}

func (b *Builder) StructField(name string, ty *Type) StructField {
	return StructField{Name: b.Name(name), Type: ty}
}

func (b *Builder) StructTParam(name string, phantom bool) StructTypeParameter {
	return StructTypeParameter{Name: b.Name(name), IsPhantom: phantom}
}

func (b *Builder) Struct(name string, abilities AbilitySet, tparams []StructTypeParameter, fields ...StructField) *StructDefinition {
	return &StructDefinition{
		Span:       b.Span(),
		Name:       b.Name(name),
		Abilities:  abilities,
		TypeParams: tparams,
		Fields:     fields,
	}
}

func (b *Builder) Constant(name string, ty *Type, v *Expr) *Constant {
	return &Constant{Span: b.Span(), Name: b.Name(name), Signature: ty, Value: v}
}

func (b *Builder) Friend(m ModuleIdent) *Friend {
	return &Friend{Span: b.Span(), Ident: m, IdentSpan: b.Span()}
}

// Module builds an empty source module; callers append members.
func (b *Builder) Module(ident ModuleIdent) *ModuleDefinition {
	return &ModuleDefinition{Span: b.Span(), Ident: ident, IdentSpan: b.Span(), IsSource: true}
}

// Seal assigns declaration indices in list order.
func (m *ModuleDefinition) Seal() *ModuleDefinition {
	for i, s := range m.Structs {
		s.Index = i
	}
	for i, f := range m.Functions {
		f.Index = i
	}
	for i, c := range m.Constants {
		c.Index = i
	}
	return m
}
