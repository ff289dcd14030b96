package expansion

import "keelc/internal/source"

// TypeKind enumerates surface type shapes.
type TypeKind uint8

const (
	TypeUnit TypeKind = iota
	// TypeMultiple is a tuple of types, e.g. a multi-value return.
	TypeMultiple
	// TypeApply is a named type with type arguments.
	TypeApply
	TypeRef
	// TypeFun is only allowed inside specification blocks.
	TypeFun
	TypeUnresolved
)

func (k TypeKind) String() string {
	switch k {
	case TypeUnit:
		return "Unit"
	case TypeMultiple:
		return "Multiple"
	case TypeApply:
		return "Apply"
	case TypeRef:
		return "Ref"
	case TypeFun:
		return "Fun"
	case TypeUnresolved:
		return "UnresolvedError"
	default:
		return "Unknown"
	}
}

// Type is a surface type. Data is nil for Unit and UnresolvedError.
type Type struct {
	Kind TypeKind
	Span source.Span
	Data TypeData
}

// TypeData is the sealed set of type payloads.
type TypeData interface {
	typeData()
}

type MultipleType struct {
	Types []*Type
}

func (MultipleType) typeData() {}

type ApplyType struct {
	Access ModuleAccess
	Args   []*Type
}

func (ApplyType) typeData() {}

type RefType struct {
	Mut   bool
	Inner *Type
}

func (RefType) typeData() {}

type FunType struct {
	Params []*Type
	Ret    *Type
}

func (FunType) typeData() {}
