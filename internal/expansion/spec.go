package expansion

import "keelc/internal/source"

// SpecBlock is a formal verification block attached to a module, script or
// function. Naming only walks it to collect module dependencies.
type SpecBlock struct {
	Span    source.Span
	Target  string // "module", "schema Foo", "fun bar", ...
	Members []*SpecMember
}

type SpecMemberKind uint8

const (
	SpecCondition SpecMemberKind = iota
	SpecFunction
	SpecVariable
	SpecLet
	SpecInclude
	SpecApply
	SpecPragma
	SpecUpdate
)

func (k SpecMemberKind) String() string {
	switch k {
	case SpecCondition:
		return "condition"
	case SpecFunction:
		return "function"
	case SpecVariable:
		return "variable"
	case SpecLet:
		return "let"
	case SpecInclude:
		return "include"
	case SpecApply:
		return "apply"
	case SpecPragma:
		return "pragma"
	case SpecUpdate:
		return "update"
	}
	return "unknown"
}

// SpecMember is one member of a spec block; which fields are set depends on
// Kind.
type SpecMember struct {
	Kind SpecMemberKind
	Span source.Span

	Condition  string        // SpecCondition: requires, ensures, aborts_if, ...
	Exp        *Expr         // SpecCondition, SpecLet (definition), SpecInclude, SpecApply
	Additional []*Expr       // SpecCondition
	Name       Name          // SpecFunction, SpecVariable, SpecLet
	Type       *Type         // SpecVariable
	Body       *FunctionBody // SpecFunction
	Lhs        *Expr         // SpecUpdate
	Rhs        *Expr         // SpecUpdate
	Properties []PragmaProperty
}

type PragmaProperty struct {
	Span  source.Span
	Name  Name
	Value *PragmaValue // nil for a bare flag
}

// PragmaValue is either a literal or an identifier.
type PragmaValue struct {
	Literal *Value
	Ident   *ModuleAccess
}
