package expansion

import "keelc/internal/source"

// ExprKind enumerates surface expression kinds.
type ExprKind uint8

const (
	ExprValue ExprKind = iota
	ExprMove
	ExprCopy
	// ExprName is a name or module access, possibly with type arguments (spec only).
	ExprName
	ExprCall
	ExprPack
	ExprVector
	ExprIfElse
	ExprWhile
	ExprLoop
	ExprBlock
	ExprLambda // spec only
	ExprQuant  // spec only
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
	ExprBorrow
	ExprDotted
	ExprCast
	ExprIndex // spec only
	ExprAnnotate
	// ExprSpec embeds a specification block inside code.
	ExprSpec
	ExprUnresolved
)

var exprKindNames = [...]string{
	ExprValue: "Value", ExprMove: "Move", ExprCopy: "Copy", ExprName: "Name",
	ExprCall: "Call", ExprPack: "Pack", ExprVector: "Vector", ExprIfElse: "IfElse",
	ExprWhile: "While", ExprLoop: "Loop", ExprBlock: "Block", ExprLambda: "Lambda",
	ExprQuant: "Quant", ExprAssign: "Assign", ExprFieldMutate: "FieldMutate",
	ExprMutate: "Mutate", ExprReturn: "Return", ExprAbort: "Abort", ExprBreak: "Break",
	ExprContinue: "Continue", ExprDereference: "Dereference", ExprUnary: "Unary",
	ExprBinop: "Binop", ExprList: "ExpList", ExprUnit: "Unit", ExprBorrow: "Borrow",
	ExprDotted: "Dotted", ExprCast: "Cast", ExprIndex: "Index", ExprAnnotate: "Annotate",
	ExprSpec: "Spec", ExprUnresolved: "UnresolvedError",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) {
		return exprKindNames[k]
	}
	return "Unknown"
}

// Expr is a surface expression. Data is nil for Break, Continue and
// UnresolvedError.
type Expr struct {
	Kind ExprKind
	Span source.Span
	Data ExprData
}

// ExprData is the sealed set of expression payloads.
type ExprData interface {
	exprData()
}

// TypeArgs is an optional explicit type argument list.
type TypeArgs struct {
	Present bool
	Types   []*Type
}

type ValueData struct {
	Value Value
}

func (ValueData) exprData() {}

// VarData holds data for ExprMove and ExprCopy.
type VarData struct {
	Var Name
}

func (VarData) exprData() {}

type NameData struct {
	Access   ModuleAccess
	TypeArgs TypeArgs
}

func (NameData) exprData() {}

type CallData struct {
	Access   ModuleAccess
	IsMacro  bool
	TypeArgs TypeArgs
	ArgsSpan source.Span
	Args     []*Expr
}

func (CallData) exprData() {}

// FieldExpr is one `name: value` of a pack expression.
type FieldExpr struct {
	Name  Name
	Value *Expr
}

type PackData struct {
	Access   ModuleAccess
	TypeArgs TypeArgs
	Fields   []FieldExpr
}

func (PackData) exprData() {}

// VectorData holds data for `vector<T>[args]`.
type VectorData struct {
	NameSpan source.Span
	TypeArgs TypeArgs
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

type LambdaData struct {
	Binds *LValueList
	Body  *Expr
}

func (LambdaData) exprData() {}

type QuantKind uint8

const (
	QuantForall QuantKind = iota
	QuantExists
	QuantChoose
	QuantChooseMin
)

// QuantRange binds one quantifier variable over a range or type.
type QuantRange struct {
	Span  source.Span
	Bind  *LValue
	Range *Expr
}

type QuantData struct {
	Quant    QuantKind
	Ranges   []QuantRange
	Triggers [][]*Expr
	Where    *Expr
	Body     *Expr
}

func (QuantData) exprData() {}

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
	Op      UnaryOp
	Operand *Expr
}

func (UnaryData) exprData() {}

type BinopData struct {
	Left  *Expr
	Op    BinOp
	Right *Expr
}

func (BinopData) exprData() {}

// ListData holds an expression tuple with at least two elements.
type ListData struct {
	Exprs []*Expr
}

func (ListData) exprData() {}

type UnitData struct {
	Trailing bool
}

func (UnitData) exprData() {}

type BorrowData struct {
	Mut   bool
	Inner *Expr
}

func (BorrowData) exprData() {}

type DottedData struct {
	Dotted *ExpDotted
}

func (DottedData) exprData() {}

// CastData holds data for ExprCast and ExprAnnotate.
type CastData struct {
	Value *Expr
	Type  *Type
}

func (CastData) exprData() {}

type IndexData struct {
	Value *Expr
	Index *Expr
}

func (IndexData) exprData() {}

// SpecData refers to a specification block by id and lists the free names
// it mentions.
type SpecData struct {
	ID      uint64
	Unbound []Name
}

func (SpecData) exprData() {}

// DottedKind enumerates dotted path shapes.
type DottedKind uint8

const (
	DottedExp DottedKind = iota
	DottedDot
)

// ExpDotted is `e` or `d.f`.
type ExpDotted struct {
	Kind  DottedKind
	Span  source.Span
	Exp   *Expr      // DottedExp
	Inner *ExpDotted // DottedDot
	Field Name       // DottedDot
}

// Sequence is the body of a block.
type Sequence []*SequenceItem

type SequenceKind uint8

const (
	SeqExp SequenceKind = iota
	SeqDeclare
	SeqBind
)

// SequenceItem is `e;`, `let p: T;` or `let p = e;`.
type SequenceItem struct {
	Kind  SequenceKind
	Span  source.Span
	Binds *LValueList // SeqDeclare, SeqBind
	Type  *Type       // SeqDeclare, optional
	Exp   *Expr       // SeqExp, SeqBind
}

type LValueList struct {
	Span  source.Span
	Items []*LValue
}

type LValueKind uint8

const (
	LValueVar LValueKind = iota
	LValueUnpack
)

// LValueField is one `field: pattern` of an unpack.
type LValueField struct {
	Name  Name
	Value *LValue
}

// LValue is a binding or assignment pattern. A Var with type arguments is
// spec only.
type LValue struct {
	Kind     LValueKind
	Span     source.Span
	Access   ModuleAccess
	TypeArgs TypeArgs
	Fields   []LValueField // LValueUnpack
}
