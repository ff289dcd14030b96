package naming

import (
	"maps"

	"fortio.org/safecast"

	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/source"
)

// localScopes is the block scope stack of the declaration being resolved.
// Each frame is a full copy of the enclosing one plus its own declarations,
// so lookups only ever consult the top frame.
type localScopes struct {
	frames []map[string]uint16
	// counts holds the last id handed out per name.
	counts map[string]uint16
}

func newLocalScopes() localScopes {
	return localScopes{counts: make(map[string]uint16)}
}

func (s *localScopes) empty() bool {
	return len(s.frames) == 0 && len(s.counts) == 0
}

// reset starts a declaration with a single empty frame.
func (s *localScopes) reset() {
	s.frames = []map[string]uint16{make(map[string]uint16)}
	clear(s.counts)
}

func (s *localScopes) clear() {
	s.frames = nil
	clear(s.counts)
}

func (s *localScopes) top() map[string]uint16 {
	if len(s.frames) == 0 {
		panic("ICE: no local scope")
	}
	return s.frames[len(s.frames)-1]
}

func (s *localScopes) push() {
	s.frames = append(s.frames, maps.Clone(s.top()))
}

func (s *localScopes) pop() {
	if len(s.frames) == 0 {
		panic("ICE: local scope underflow")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// next returns the id for a new declaration of key. Parameters start at 0,
// other locals at 1; every later declaration of the same name increments.
func (s *localScopes) next(key string, isParam bool) uint16 {
	prev, seen := s.counts[key]
	var id uint16
	switch {
	case !seen && isParam:
		id = 0
	case !seen:
		id = 1
	default:
		n, err := safecast.Conv[uint16](int(prev) + 1)
		if err != nil {
			panic("ICE: too many declarations of local '" + key + "'")
		}
		id = n
	}
	s.counts[key] = id
	return id
}

// newLocalScope enters a nested block.
func (c *Context) newLocalScope() {
	c.locals.push()
}

func (c *Context) closeLocalScope() {
	c.locals.pop()
}

// declareLocal binds n in the current block and returns its identity.
func (c *Context) declareLocal(isParam bool, n expansion.Name) LocalVar {
	key := source.CanonicalName(n.Value)
	id := c.locals.next(key, isParam)
	c.locals.top()[key] = id
	return LocalVar{Span: n.Span, Var: Var{Name: key, ID: id}}
}

// resolveLocal looks n up in the current block and marks it used. sp is
// the location of the reference; verb names the kind of use for the error.
func (c *Context) resolveLocal(sp source.Span, verb string, n expansion.Name) (LocalVar, bool) {
	key := source.CanonicalName(n.Value)
	id, ok := c.locals.top()[key]
	if !ok {
		c.errorf(diag.NameUnboundVariable, sp, "Invalid %s. Unbound variable '%s'", verb, n.Value).Emit()
		return LocalVar{}, false
	}
	v := Var{Name: key, ID: id}
	c.usedLocals[v] = struct{}{}
	return LocalVar{Span: n.Span, Var: v}, true
}

func (c *Context) isLocalInScope(n expansion.Name) bool {
	if len(c.locals.frames) == 0 {
		return false
	}
	_, ok := c.locals.top()[source.CanonicalName(n.Value)]
	return ok
}
