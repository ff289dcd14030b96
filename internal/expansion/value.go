package expansion

// ValueKind enumerates literal kinds. Literals pass through naming untouched.
type ValueKind uint8

const (
	ValueAddress ValueKind = iota
	ValueInferredNum
	ValueU8
	ValueU16
	ValueU32
	ValueU64
	ValueU128
	ValueU256
	ValueBool
	ValueBytearray
)

// Value is a literal with its canonical text.
type Value struct {
	Kind ValueKind
	Lit  string
}

func (v Value) String() string {
	switch v.Kind {
	case ValueAddress:
		return "@" + v.Lit
	case ValueU8:
		return v.Lit + "u8"
	case ValueU16:
		return v.Lit + "u16"
	case ValueU32:
		return v.Lit + "u32"
	case ValueU64:
		return v.Lit + "u64"
	case ValueU128:
		return v.Lit + "u128"
	case ValueU256:
		return v.Lit + "u256"
	case ValueBytearray:
		return "x\"" + v.Lit + "\""
	}
	return v.Lit
}

type UnaryOp uint8

const (
	UnaryNot UnaryOp = iota
)

func (op UnaryOp) String() string {
	return "!"
}

type BinOp uint8

const (
	BinAdd BinOp = iota
	BinSub
	BinMul
	BinMod
	BinDiv
	BinBitOr
	BinBitAnd
	BinXor
	BinShl
	BinShr
	BinRange   // spec only
	BinImplies // spec only
	BinIff     // spec only
	BinAnd
	BinOr
	BinEq
	BinNeq
	BinLt
	BinGt
	BinLe
	BinGe
)

var binOpText = [...]string{
	BinAdd: "+", BinSub: "-", BinMul: "*", BinMod: "%", BinDiv: "/",
	BinBitOr: "|", BinBitAnd: "&", BinXor: "^", BinShl: "<<", BinShr: ">>",
	BinRange: "..", BinImplies: "==>", BinIff: "<==>", BinAnd: "&&", BinOr: "||",
	BinEq: "==", BinNeq: "!=", BinLt: "<", BinGt: ">", BinLe: "<=", BinGe: ">=",
}

func (op BinOp) String() string {
	if int(op) < len(binOpText) {
		return binOpText[op]
	}
	return "?"
}
