package naming

import (
	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/source"
)

// Program is the output of the naming phase.
type Program struct {
	Modules []*ModuleDefinition
	Scripts []*Script
}

type ModuleDefinition struct {
	Span        source.Span
	Ident       expansion.ModuleIdent
	IdentSpan   source.Span
	Warnings    *diag.WarningFilter
	PackageName string
	Attributes  []expansion.Attribute
	IsSource    bool
	Friends     []*expansion.Friend
	Structs     []*StructDefinition
	Functions   []*Function
	Constants   []*Constant
	SpecDeps    SpecDeps
}

type StructDefinition struct {
	Span       source.Span
	Name       expansion.Name
	Index      int
	Warnings   *diag.WarningFilter
	Attributes []expansion.Attribute
	Abilities  expansion.AbilitySet
	TypeParams []StructTypeParameter
	Native     bool
	NativeSpan source.Span
	Fields     []StructField
}

type StructField struct {
	Name expansion.Name
	Type *Type
}

type FunctionParam struct {
	Var  LocalVar
	Type *Type
}

type FunctionSignature struct {
	TypeParams []TParam
	Params     []FunctionParam
	Return     *Type
}

type FunctionBody struct {
	Span   source.Span
	Native bool
	Seq    Sequence
}

// Acquire is a validated acquires item: a key struct of the current module.
type Acquire struct {
	Struct expansion.Name
	Span   source.Span
}

type Function struct {
	Span           source.Span
	Name           expansion.Name
	Index          int
	Warnings       *diag.WarningFilter
	Attributes     []expansion.Attribute
	Visibility     expansion.Visibility
	VisibilitySpan source.Span
	Entry          bool
	Signature      FunctionSignature
	Acquires       []Acquire
	Body           *FunctionBody
}

type Constant struct {
	Span       source.Span
	Name       expansion.Name
	Index      int
	Warnings   *diag.WarningFilter
	Attributes []expansion.Attribute
	Signature  *Type
	Value      *Expr
}

type Script struct {
	Span         source.Span
	Name         string
	Warnings     *diag.WarningFilter
	PackageName  string
	Attributes   []expansion.Attribute
	Constants    []*Constant
	FunctionName expansion.Name
	Function     *Function
	SpecDeps     SpecDeps
}
