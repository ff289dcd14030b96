package diag

import (
	"fmt"
)

// Code identifies a diagnostic kind. The thousands digit encodes the category.
type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Разрешение имён
	NameInfo                 Code = 1000
	NameUnboundType          Code = 1001
	NameUnboundUnscopedName  Code = 1002
	NameUnboundModule        Code = 1003
	NameUnboundModuleMember  Code = 1004
	NameUnboundVariable      Code = 1005
	NameUnboundMacro         Code = 1006
	NamePositionMismatch     Code = 1007
	NameTooManyTypeArguments Code = 1008
	NameTooFewTypeArguments  Code = 1009

	// Объявления
	DeclInfo                     Code = 2000
	DeclDuplicateItem            Code = 2001
	DeclInvalidFriendDeclaration Code = 2002
	DeclInvalidAcquiresItem      Code = 2003

	// Неиспользуемые элементы
	UnusedInfo         Code = 3000
	UnusedVariable     Code = 3001
	UnusedFunTypeParam Code = 3002

	// Прочее
	UncatInfo                    Code = 4000
	UncatDeprecatedWillBeRemoved Code = 4001
)

// Category groups codes for filtering and rendering.
type Category uint8

const (
	CategoryUnknown Category = iota
	CategoryNameResolution
	CategoryDeclarations
	CategoryUnusedItem
	CategoryUncategorized
)

func (c Category) String() string {
	switch c {
	case CategoryNameResolution:
		return "name_resolution"
	case CategoryDeclarations:
		return "declarations"
	case CategoryUnusedItem:
		return "unused"
	case CategoryUncategorized:
		return "uncategorized"
	default:
		return "unknown"
	}
}

// ParseCategory accepts the names printed by Category.String.
func ParseCategory(s string) (Category, bool) {
	switch s {
	case "name_resolution":
		return CategoryNameResolution, true
	case "declarations":
		return CategoryDeclarations, true
	case "unused":
		return CategoryUnusedItem, true
	case "uncategorized":
		return CategoryUncategorized, true
	}
	return CategoryUnknown, false
}

var (
	codeDescription = map[Code]string{
		UnknownCode:                  "Unknown error",
		NameInfo:                     "Name resolution information",
		NameUnboundType:              "Unbound type",
		NameUnboundUnscopedName:      "Unbound unscoped name",
		NameUnboundModule:            "Unbound module",
		NameUnboundModuleMember:      "Unbound module member",
		NameUnboundVariable:          "Unbound variable",
		NameUnboundMacro:             "Unbound macro",
		NamePositionMismatch:         "Unexpected name in this position",
		NameTooManyTypeArguments:     "Too many type arguments",
		NameTooFewTypeArguments:      "Too few type arguments",
		DeclInfo:                     "Declaration information",
		DeclDuplicateItem:            "Duplicate declaration, item, or annotation",
		DeclInvalidFriendDeclaration: "Invalid 'friend' declaration",
		DeclInvalidAcquiresItem:      "Invalid 'acquires' item",
		UnusedInfo:                   "Unused item information",
		UnusedVariable:               "Unused variable",
		UnusedFunTypeParam:           "Unused function type parameter",
		UncatInfo:                    "Information",
		UncatDeprecatedWillBeRemoved: "Deprecated usage",
	}

	codeSeverity = map[Code]Severity{
		NameTooManyTypeArguments:     SevError,
		NameTooFewTypeArguments:      SevError,
		UnusedVariable:               SevWarning,
		UnusedFunTypeParam:           SevWarning,
		UncatDeprecatedWillBeRemoved: SevWarning,
	}
)

func (c Code) Category() Category {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return CategoryNameResolution
	case ic >= 2000 && ic < 3000:
		return CategoryDeclarations
	case ic >= 3000 && ic < 4000:
		return CategoryUnusedItem
	case ic >= 4000 && ic < 5000:
		return CategoryUncategorized
	}
	return CategoryUnknown
}

func (c Code) ID() string {
	switch ic := int(c); c.Category() {
	case CategoryNameResolution:
		return fmt.Sprintf("NAM%04d", ic)
	case CategoryDeclarations:
		return fmt.Sprintf("DCL%04d", ic)
	case CategoryUnusedItem:
		return fmt.Sprintf("UNU%04d", ic)
	case CategoryUncategorized:
		return fmt.Sprintf("UNC%04d", ic)
	}
	return "E0000"
}

// ParseCode parses the string produced by Code.ID.
func ParseCode(s string) (Code, bool) {
	for c := range codeDescription {
		if c != UnknownCode && c.ID() == s {
			return c, true
		}
	}
	return UnknownCode, false
}

// DefaultSeverity is the severity a code is reported with. Info codes are
// SevInfo, everything not listed explicitly is an error.
func (c Code) DefaultSeverity() Severity {
	if sev, ok := codeSeverity[c]; ok {
		return sev
	}
	if c%1000 == 0 {
		return SevInfo
	}
	return SevError
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
