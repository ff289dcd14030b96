package naming

import "testing"

func TestLocalScopeIDs(t *testing.T) {
	s := newLocalScopes()
	if !s.empty() {
		t.Fatalf("new scopes should be empty")
	}
	s.reset()
	if got := s.next("x", true); got != 0 {
		t.Fatalf("first parameter id = %d, want 0", got)
	}
	if got := s.next("x", false); got != 1 {
		t.Fatalf("redeclared parameter id = %d, want 1", got)
	}
	if got := s.next("y", false); got != 1 {
		t.Fatalf("first local id = %d, want 1", got)
	}
	if got := s.next("y", false); got != 2 {
		t.Fatalf("second local id = %d, want 2", got)
	}
}

func TestLocalScopeFramesAreCopies(t *testing.T) {
	s := newLocalScopes()
	s.reset()
	s.top()["x"] = 0
	s.push()
	s.top()["x"] = 1
	s.top()["y"] = 1
	s.pop()
	if id := s.top()["x"]; id != 0 {
		t.Fatalf("outer frame changed by inner declaration: x#%d", id)
	}
	if _, ok := s.top()["y"]; ok {
		t.Fatalf("inner declaration leaked")
	}
	s.clear()
	if !s.empty() {
		t.Fatalf("cleared scopes should be empty")
	}
	mustPanic(t, "ICE: local scope underflow", s.pop)
	mustPanic(t, "ICE: no local scope", func() { s.top() })
}

func TestLocalScopeIDOverflowPanics(t *testing.T) {
	s := newLocalScopes()
	s.reset()
	s.counts["x"] = ^uint16(0)
	mustPanic(t, "ICE: too many declarations of local 'x'", func() { s.next("x", false) })
}
