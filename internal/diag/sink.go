package diag

import (
	"sync"

	"keelc/internal/source"
)

// Sink is the diagnostic environment of one compilation. It forwards
// diagnostics that survive the active warning filters to the next reporter
// and remembers whether any error was recorded.
type Sink struct {
	mu       sync.Mutex
	next     Reporter
	filters  []*WarningFilter
	errors   int
	warnings int
	filtered int
}

// NewSink returns a sink forwarding to next. A non-empty global filter stays
// at the bottom of the stack for the sink's lifetime.
func NewSink(next Reporter, global *WarningFilter) *Sink {
	s := &Sink{next: next}
	if !global.IsEmpty() {
		s.filters = append(s.filters, global)
	}
	return s
}

func (s *Sink) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note) {
	s.mu.Lock()
	for _, f := range s.filters {
		if f.Suppresses(code, sev) {
			s.filtered++
			s.mu.Unlock()
			return
		}
	}
	switch sev {
	case SevError:
		s.errors++
	case SevWarning:
		s.warnings++
	}
	next := s.next
	s.mu.Unlock()
	if next != nil {
		next.Report(code, sev, primary, msg, notes)
	}
}

// HasErrors reports whether an error diagnostic has been recorded.
func (s *Sink) HasErrors() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors > 0
}

func (s *Sink) ErrorCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

func (s *Sink) WarningCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.warnings
}

// FilteredCount is the number of warnings hidden by filters.
func (s *Sink) FilteredCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filtered
}

// PushWarningFilter activates f until the matching PopWarningFilter. A nil
// filter is pushed as an empty one so push and pop stay balanced.
func (s *Sink) PushWarningFilter(f *WarningFilter) {
	if f == nil {
		f = &WarningFilter{}
	}
	s.mu.Lock()
	s.filters = append(s.filters, f)
	s.mu.Unlock()
}

// PopWarningFilter removes the most recently pushed filter.
func (s *Sink) PopWarningFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.filters) == 0 {
		panic("ICE: warning filter stack underflow")
	}
	s.filters[len(s.filters)-1] = nil
	s.filters = s.filters[:len(s.filters)-1]
}

// FilterDepth returns the number of active filters, the global one included.
func (s *Sink) FilterDepth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.filters)
}
