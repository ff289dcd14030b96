package diag

import (
	"fmt"
	"strings"
)

// WarningFilter suppresses warnings. Errors always pass through.
type WarningFilter struct {
	AllWarnings bool
	Categories  map[Category]struct{}
	Codes       map[Code]struct{}
}

// AllWarningsFilter suppresses every warning.
func AllWarningsFilter() *WarningFilter {
	return &WarningFilter{AllWarnings: true}
}

// NewWarningFilter builds a filter from category names and code IDs, the
// form used by the manifest's allow list (e.g. "unused", "UNU3001", "all").
func NewWarningFilter(items []string) (*WarningFilter, error) {
	f := &WarningFilter{}
	for _, raw := range items {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		if item == "all" {
			f.AllWarnings = true
			continue
		}
		if cat, ok := ParseCategory(item); ok {
			f.AddCategory(cat)
			continue
		}
		if code, ok := ParseCode(item); ok {
			f.AddCode(code)
			continue
		}
		return nil, fmt.Errorf("unknown warning category or code %q", item)
	}
	return f, nil
}

func (f *WarningFilter) AddCategory(cat Category) {
	if f.Categories == nil {
		f.Categories = make(map[Category]struct{})
	}
	f.Categories[cat] = struct{}{}
}

func (f *WarningFilter) AddCode(code Code) {
	if f.Codes == nil {
		f.Codes = make(map[Code]struct{})
	}
	f.Codes[code] = struct{}{}
}

// IsEmpty reports whether the filter suppresses nothing.
func (f *WarningFilter) IsEmpty() bool {
	return f == nil || (!f.AllWarnings && len(f.Categories) == 0 && len(f.Codes) == 0)
}

// Suppresses reports whether a diagnostic with the given code and severity is
// hidden by this filter.
func (f *WarningFilter) Suppresses(code Code, sev Severity) bool {
	if f == nil || !sev.Suppressible() {
		return false
	}
	if f.AllWarnings {
		return true
	}
	if _, ok := f.Codes[code]; ok {
		return true
	}
	_, ok := f.Categories[code.Category()]
	return ok
}
