package naming

import (
	"keelc/internal/expansion"
	"keelc/internal/source"
)

// ExprKind enumerates resolved expression kinds.
type ExprKind uint8

const (
	ExprValue ExprKind = iota
	ExprMove
	ExprCopy
	// ExprUse is a local read whose move/copy mode is decided later.
	ExprUse
	ExprConstant
	ExprModuleCall
	ExprBuiltin
	ExprVector
	ExprIfElse
	ExprWhile
	ExprLoop
	ExprBlock
	ExprAssign
	ExprFieldMutate
	ExprMutate
	ExprReturn
	ExprAbort
	ExprBreak
	ExprContinue
	ExprDereference
	ExprUnary
	ExprBinop
	ExprList
	ExprUnit
	ExprPack
	ExprBorrow
	// ExprDerefBorrow is a dotted path read, `*&e.f`.
	ExprDerefBorrow
	ExprCast
	ExprAnnotate
	ExprSpec
	ExprUnresolved
)

var exprKindNames = [...]string{
	ExprValue: "Value", ExprMove: "Move", ExprCopy: "Copy", ExprUse: "Use",
	ExprConstant: "Constant", ExprModuleCall: "ModuleCall", ExprBuiltin: "Builtin",
	ExprVector: "Vector", ExprIfElse: "IfElse", ExprWhile: "While", ExprLoop: "Loop",
	ExprBlock: "Block", ExprAssign: "Assign", ExprFieldMutate: "FieldMutate",
	ExprMutate: "Mutate", ExprReturn: "Return", ExprAbort: "Abort", ExprBreak: "Break",
	ExprContinue: "Continue", ExprDereference: "Dereference", ExprUnary: "Unary",
	ExprBinop: "Binop", ExprList: "ExpList", ExprUnit: "Unit", ExprPack: "Pack",
	ExprBorrow: "Borrow", ExprDerefBorrow: "DerefBorrow", ExprCast: "Cast",
	ExprAnnotate: "Annotate", ExprSpec: "Spec", ExprUnresolved: "UnresolvedError",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Unknown"
}

// Expr is a resolved expression. Data is nil for Break, Continue and
// UnresolvedError.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data ExprData
}

// ExprData is the sealed set of resolved expression payloads.
type ExprData interface {
	exprData()
}

type ValueData struct {
	Value expansion.Value
}

func (ValueData) exprData() {}

// VarData holds data for ExprMove, ExprCopy and ExprUse.
type VarData struct {
	Var LocalVar
}

func (VarData) exprData() {}

// ConstantData refers to a module constant, or to a script constant when
// Module is nil.
type ConstantData struct {
	Module *expansion.ModuleIdent
	Name   expansion.Name
}

func (ConstantData) exprData() {}

type ModuleCallData struct {
	Module   expansion.ModuleIdent
	Function expansion.Name
	TypeArgs TypeArgs
	ArgsSpan source.Span
	Args     []*Expr
}

func (ModuleCallData) exprData() {}

type BuiltinData struct {
	Function BuiltinFunction
	ArgsSpan source.Span
	Args     []*Expr
}

func (BuiltinData) exprData() {}

// VectorData holds a vector literal; ElemType is nil when not written.
type VectorData struct {
	NameSpan source.Span
	ElemType *Type
	ArgsSpan source.Span
	Args     []*Expr
}

func (VectorData) exprData() {}

type IfElseData struct {
	Cond *Expr
	Then *Expr
	Else *Expr
}

func (IfElseData) exprData() {}

type WhileData struct {
	Cond *Expr
	Body *Expr
}

func (WhileData) exprData() {}

// InnerData holds the operand of Loop, Return, Abort and Dereference.
type InnerData struct {
	Inner *Expr
}

func (InnerData) exprData() {}

type BlockData struct {
	Seq Sequence
}

func (BlockData) exprData() {}

type AssignData struct {
	Targets *LValueList
	Value   *Expr
}

func (AssignData) exprData() {}

type FieldMutateData struct {
	Target *ExpDotted
	Value  *Expr
}

func (FieldMutateData) exprData() {}

type MutateData struct {
	Target *Expr
	Value  *Expr
}

func (MutateData) exprData() {}

type UnaryData struct {
	Op      expansion.UnaryOp
	Operand *Expr
}

func (UnaryData) exprData() {}

type BinopData struct {
	Left  *Expr
	Op    expansion.BinOp
	Right *Expr
}

func (BinopData) exprData() {}

type ListData struct {
	Exprs []*Expr
}

func (ListData) exprData() {}

type UnitData struct {
	Trailing bool
}

func (UnitData) exprData() {}

type FieldExpr struct {
	Name  expansion.Name
	Value *Expr
}

type PackData struct {
	Module   expansion.ModuleIdent
	Struct   expansion.Name
	TypeArgs TypeArgs
	Fields   []FieldExpr
}

func (PackData) exprData() {}

type BorrowData struct {
	Mut    bool
	Dotted *ExpDotted
}

func (BorrowData) exprData() {}

type DerefBorrowData struct {
	Dotted *ExpDotted
}

func (DerefBorrowData) exprData() {}

// CastData holds data for ExprCast and ExprAnnotate.
type CastData struct {
	Value *Expr
	Type  *Type
}

func (CastData) exprData() {}

// SpecData keeps the locals an embedded spec block refers to.
type SpecData struct {
	ID   uint64
	Used []LocalVar
}

func (SpecData) exprData() {}

func unresolvedExpr(sp source.Span) *Expr {
	return &Expr{Kind: ExprUnresolved, Span: sp}
}

// BuiltinKind enumerates builtin functions.
type BuiltinKind uint8

const (
	BuiltinMoveTo BuiltinKind = iota
	BuiltinMoveFrom
	BuiltinBorrowGlobal
	BuiltinExists
	BuiltinFreeze
	BuiltinAssert
)

// Builtin function names as written in source.
const (
	MoveToName          = "move_to"
	MoveFromName        = "move_from"
	BorrowGlobalName    = "borrow_global"
	BorrowGlobalMutName = "borrow_global_mut"
	ExistsName          = "exists"
	FreezeName          = "freeze"
	AssertName          = "assert"
)

// IsBuiltinFunctionName reports whether a bare call name is reserved for a
// builtin.
func IsBuiltinFunctionName(s string) bool {
	switch s {
	case MoveToName, MoveFromName, BorrowGlobalName, BorrowGlobalMutName,
		ExistsName, FreezeName, AssertName:
		return true
	}
	return false
}

// BuiltinFunction is a resolved builtin call target. Type is the single type
// argument of the global storage builtins and freeze (nil when omitted).
// Macro is set for `assert!`.
type BuiltinFunction struct {
	Kind  BuiltinKind
	Span  source.Span
	Mut   bool
	Type  *Type
	Macro bool
}

func (f BuiltinFunction) String() string {
	switch f.Kind {
	case BuiltinMoveTo:
		return MoveToName
	case BuiltinMoveFrom:
		return MoveFromName
	case BuiltinBorrowGlobal:
		if f.Mut {
			return BorrowGlobalMutName
		}
		return BorrowGlobalName
	case BuiltinExists:
		return ExistsName
	case BuiltinFreeze:
		return FreezeName
	case BuiltinAssert:
		if f.Macro {
			return AssertName + "!"
		}
		return AssertName
	}
	return "?"
}

type DottedKind uint8

const (
	DottedExp DottedKind = iota
	DottedDot
)

// ExpDotted is `e` or `d.f`.
type ExpDotted struct {
	Kind  DottedKind
	Span  source.Span
	Exp   *Expr
	Inner *ExpDotted
	Field expansion.Name
}

type Sequence []*SequenceItem

type SequenceKind uint8

const (
	SeqExp SequenceKind = iota
	SeqDeclare
	SeqBind
)

type SequenceItem struct {
	Kind  SequenceKind
	Span  source.Span
	Binds *LValueList
	Type  *Type
	Exp   *Expr
}

type LValueList struct {
	Span  source.Span
	Items []*LValue
}

type LValueKind uint8

const (
	LValueIgnore LValueKind = iota
	LValueVar
	LValueUnpack
)

type LValueField struct {
	Name  expansion.Name
	Value *LValue
}

// LValue is a resolved pattern. For LValueVar, Unused is set by the
// unused-binding analysis when nothing reads the variable.
type LValue struct {
	Kind     LValueKind
	Span     source.Span
	Var      LocalVar
	Unused   bool
	Module   expansion.ModuleIdent
	Struct   expansion.Name
	TypeArgs TypeArgs
	Fields   []LValueField
}
