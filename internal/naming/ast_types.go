package naming

import (
	"keelc/internal/expansion"
	"keelc/internal/source"
)

// TypeKind enumerates resolved type shapes.
type TypeKind uint8

const (
	TypeUnit TypeKind = iota
	TypeRef
	TypeBuiltin
	// TypeUser is a struct declared in some module.
	TypeUser
	TypeParam
	TypeMultiple
	TypeUnresolved
)

func (k TypeKind) String() string {
	switch k {
	case TypeUnit:
		return "Unit"
	case TypeRef:
		return "Ref"
	case TypeBuiltin:
		return "Builtin"
	case TypeUser:
		return "User"
	case TypeParam:
		return "Param"
	case TypeMultiple:
		return "Multiple"
	case TypeUnresolved:
		return "UnresolvedError"
	default:
		return "Unknown"
	}
}

// Type is a resolved type. Builtin and User types always carry exactly as
// many arguments as their declared arity. Data is nil for Unit and
// UnresolvedError.
type Type struct {
	Kind TypeKind
	Span source.Span
	Data TypeData
}

// TypeData is the sealed set of resolved type payloads.
type TypeData interface {
	typeData()
}

type RefType struct {
	Mut   bool
	Inner *Type
}

func (RefType) typeData() {}

type BuiltinType struct {
	Name     BuiltinTypeName
	NameSpan source.Span
	Args     []*Type
}

func (BuiltinType) typeData() {}

type UserType struct {
	Module   expansion.ModuleIdent
	Struct   expansion.Name
	NameSpan source.Span
	Args     []*Type
}

func (UserType) typeData() {}

type ParamType struct {
	Param TParam
}

func (ParamType) typeData() {}

type MultipleType struct {
	Types []*Type
}

func (MultipleType) typeData() {}

func unresolvedType(sp source.Span) *Type {
	return &Type{Kind: TypeUnresolved, Span: sp}
}

// BuiltinTypeName enumerates the primitive types.
type BuiltinTypeName uint8

const (
	BuiltinAddress BuiltinTypeName = iota
	BuiltinSigner
	BuiltinU8
	BuiltinU16
	BuiltinU32
	BuiltinU64
	BuiltinU128
	BuiltinU256
	BuiltinBool
	BuiltinVector
)

var builtinTypeNames = [...]string{
	BuiltinAddress: "address",
	BuiltinSigner:  "signer",
	BuiltinU8:      "u8",
	BuiltinU16:     "u16",
	BuiltinU32:     "u32",
	BuiltinU64:     "u64",
	BuiltinU128:    "u128",
	BuiltinU256:    "u256",
	BuiltinBool:    "bool",
	BuiltinVector:  "vector",
}

func (n BuiltinTypeName) String() string {
	if int(n) < len(builtinTypeNames) {
		return builtinTypeNames[n]
	}
	return "?"
}

// Arity is the number of type arguments the builtin takes.
func (n BuiltinTypeName) Arity() int {
	if n == BuiltinVector {
		return 1
	}
	return 0
}

// ResolveBuiltinTypeName maps a source name to a builtin type.
func ResolveBuiltinTypeName(s string) (BuiltinTypeName, bool) {
	for i, name := range builtinTypeNames {
		if name == s {
			return BuiltinTypeName(i), true
		}
	}
	return 0, false
}
