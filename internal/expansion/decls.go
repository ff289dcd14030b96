package expansion

import (
	"keelc/internal/diag"
	"keelc/internal/source"
)

// Program is the output of the expansion pass. Files are listed in FileID
// order; Diagnostics are those the earlier passes already reported.
type Program struct {
	Files       []File
	Diagnostics []diag.Diagnostic
	Modules     []*ModuleDefinition
	Scripts     []*Script
}

type File struct {
	Path    string
	Content []byte
}

type Attribute struct {
	Span source.Span
	Name string
	Args []string
}

type Friend struct {
	Span       source.Span
	Ident      ModuleIdent
	IdentSpan  source.Span
	Attributes []Attribute
}

type ModuleDefinition struct {
	Span        source.Span
	Ident       ModuleIdent
	IdentSpan   source.Span
	Warnings    *diag.WarningFilter
	PackageName string
	Attributes  []Attribute
	IsSource    bool
	Friends     []*Friend
	Structs     []*StructDefinition
	Functions   []*Function
	Constants   []*Constant
	Specs       []*SpecBlock
}

type TypeParameter struct {
	Name        Name
	Constraints AbilitySet
}

type StructTypeParameter struct {
	Name        Name
	Constraints AbilitySet
	IsPhantom   bool
}

type StructField struct {
	Name Name
	Type *Type
}

type StructDefinition struct {
	Span       source.Span
	Name       Name
	Index      int
	Warnings   *diag.WarningFilter
	Attributes []Attribute
	Abilities  AbilitySet
	TypeParams []StructTypeParameter
	Native     bool
	NativeSpan source.Span
	Fields     []StructField
}

type Visibility uint8

const (
	VisibilityInternal Visibility = iota
	VisibilityPublic
	VisibilityFriend
	VisibilityPackage
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPublic:
		return "public"
	case VisibilityFriend:
		return "public(friend)"
	case VisibilityPackage:
		return "public(package)"
	}
	return ""
}

type Param struct {
	Name Name
	Type *Type
}

type FunctionSignature struct {
	TypeParams []TypeParameter
	Params     []Param
	Return     *Type
}

type FunctionBody struct {
	Span   source.Span
	Native bool
	Seq    Sequence
}

type Function struct {
	Span           source.Span
	Name           Name
	Index          int
	Warnings       *diag.WarningFilter
	Attributes     []Attribute
	Visibility     Visibility
	VisibilitySpan source.Span
	Entry          bool
	Signature      FunctionSignature
	Acquires       []ModuleAccess
	Body           *FunctionBody
	Specs          []*SpecBlock
}

type Constant struct {
	Span       source.Span
	Name       Name
	Index      int
	Warnings   *diag.WarningFilter
	Attributes []Attribute
	Signature  *Type
	Value      *Expr
}

type Script struct {
	Span         source.Span
	Name         string
	Warnings     *diag.WarningFilter
	PackageName  string
	Attributes   []Attribute
	Constants    []*Constant
	FunctionName Name
	Function     *Function
	Specs        []*SpecBlock
}
