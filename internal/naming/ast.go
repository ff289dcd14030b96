package naming

import (
	"fmt"

	"keelc/internal/expansion"
	"keelc/internal/source"
)

// Var identifies a local variable within one function. ID separates
// shadowed declarations of the same name; Color is reserved for macro
// hygiene and is always 0 after this phase. Two vars are equal iff all
// fields match.
type Var struct {
	Name  string
	ID    uint16
	Color uint16
}

func (v Var) String() string {
	return fmt.Sprintf("%s#%d", v.Name, v.ID)
}

// LocalVar is a Var at a location.
type LocalVar struct {
	Span source.Span
	Var  Var
}

// TParamID is unique among the type parameters of one program.
type TParamID uint64

// TParam is a declared type parameter.
type TParam struct {
	ID        TParamID
	UserName  expansion.Name
	Abilities expansion.AbilitySet
}

type StructTypeParameter struct {
	Param     TParam
	IsPhantom bool
}

// TypeArgs is an optional explicit type argument list.
type TypeArgs struct {
	Present bool
	Types   []*Type
}

func someTypeArgs(tys []*Type) TypeArgs {
	return TypeArgs{Present: true, Types: tys}
}
