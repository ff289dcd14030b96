package expansion

import (
	"fmt"
	"strings"

	"keelc/internal/source"
)

// Address is the canonical textual form of an account address, e.g. "0x1".
type Address string

// ModuleIdent identifies a module. Comparable and immutable; the location it
// was written at travels separately.
type ModuleIdent struct {
	Address Address
	Module  string
}

func (m ModuleIdent) String() string {
	return fmt.Sprintf("%s::%s", m.Address, m.Module)
}

// Name is an identifier with its location.
type Name struct {
	Span  source.Span
	Value string
}

func (n Name) String() string { return n.Value }

// IsUnderscore reports whether the name is the wildcard `_`.
func (n Name) IsUnderscore() bool { return n.Value == "_" }

// ModuleAccess is either a bare name (Module == nil) or `module::name`.
type ModuleAccess struct {
	Span       source.Span
	Module     *ModuleIdent
	ModuleSpan source.Span
	Name       Name
}

// IsName reports whether the access has no module qualifier.
func (a ModuleAccess) IsName() bool { return a.Module == nil }

func (a ModuleAccess) String() string {
	if a.Module == nil {
		return a.Name.Value
	}
	return a.Module.String() + "::" + a.Name.Value
}

// Ability is one of the struct abilities.
type Ability uint8

const (
	AbilityCopy Ability = 1 << iota
	AbilityDrop
	AbilityStore
	AbilityKey
)

func (a Ability) String() string {
	switch a {
	case AbilityCopy:
		return "copy"
	case AbilityDrop:
		return "drop"
	case AbilityStore:
		return "store"
	case AbilityKey:
		return "key"
	}
	return "?"
}

// AbilitySet is a bitmask of abilities.
type AbilitySet uint8

func NewAbilitySet(abilities ...Ability) AbilitySet {
	var s AbilitySet
	for _, a := range abilities {
		s |= AbilitySet(a)
	}
	return s
}

func (s AbilitySet) Has(a Ability) bool { return s&AbilitySet(a) != 0 }

func (s AbilitySet) String() string {
	parts := make([]string, 0, 4)
	for _, a := range []Ability{AbilityCopy, AbilityDrop, AbilityStore, AbilityKey} {
		if s.Has(a) {
			parts = append(parts, a.String())
		}
	}
	return strings.Join(parts, ", ")
}
