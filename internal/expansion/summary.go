package expansion

import (
	"sort"

	"keelc/internal/source"
)

// StructSummary is what name resolution needs to know about a struct.
type StructSummary struct {
	Name      string
	Span      source.Span
	Abilities AbilitySet
	Arity     int
}

// MemberSummary records a function or constant name.
type MemberSummary struct {
	Name string
	Span source.Span
}

// ModuleSummary is the shape of a module as seen by other modules. A
// precompiled library is a list of them.
type ModuleSummary struct {
	Ident     ModuleIdent
	Span      source.Span
	Structs   []StructSummary
	Functions []MemberSummary
	Constants []MemberSummary
}

// SummarizeModule extracts the summary of one module definition.
func SummarizeModule(m *ModuleDefinition) ModuleSummary {
	sum := ModuleSummary{
		Ident:     m.Ident,
		Span:      m.IdentSpan,
		Structs:   make([]StructSummary, 0, len(m.Structs)),
		Functions: make([]MemberSummary, 0, len(m.Functions)),
		Constants: make([]MemberSummary, 0, len(m.Constants)),
	}
	for _, s := range m.Structs {
		sum.Structs = append(sum.Structs, StructSummary{
			Name:      s.Name.Value,
			Span:      s.Name.Span,
			Abilities: s.Abilities,
			Arity:     len(s.TypeParams),
		})
	}
	for _, f := range m.Functions {
		sum.Functions = append(sum.Functions, MemberSummary{Name: f.Name.Value, Span: f.Name.Span})
	}
	for _, c := range m.Constants {
		sum.Constants = append(sum.Constants, MemberSummary{Name: c.Name.Value, Span: c.Name.Span})
	}
	return sum
}

// Summarize returns the summaries of all modules of p sorted by ident.
func Summarize(p *Program) []ModuleSummary {
	if p == nil {
		return nil
	}
	out := make([]ModuleSummary, 0, len(p.Modules))
	for _, m := range p.Modules {
		out = append(out, SummarizeModule(m))
	}
	sort.Slice(out, func(i, j int) bool {
		return IdentLess(out[i].Ident, out[j].Ident)
	})
	return out
}

// Detach rewrites every span of the summary to point nowhere. Summaries
// stored in a library outlive the files they were read from.
func (s *ModuleSummary) Detach() {
	s.Span = detached(s.Span)
	for i := range s.Structs {
		s.Structs[i].Span = detached(s.Structs[i].Span)
	}
	for i := range s.Functions {
		s.Functions[i].Span = detached(s.Functions[i].Span)
	}
	for i := range s.Constants {
		s.Constants[i].Span = detached(s.Constants[i].Span)
	}
}

func detached(sp source.Span) source.Span {
	return source.Span{File: source.NoFile, Start: sp.Start, End: sp.End}
}

// IdentLess orders module identifiers by address, then name.
func IdentLess(a, b ModuleIdent) bool {
	if a.Address != b.Address {
		return a.Address < b.Address
	}
	return a.Module < b.Module
}
