package naming

import (
	"strconv"

	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/trace"
)

// Resolve resolves every name of prog. Problems are reported to env and
// replaced by UnresolvedError nodes; the caller decides success by asking
// env whether errors were recorded. lib may be nil.
func Resolve(env Env, lib Precompiled, prog *expansion.Program, opts Options) *Program {
	c := newContext(env, lib, prog, opts)
	span := trace.Begin(c.tracer, trace.ScopePass, "naming", c.parent)
	defer span.End("")
	c.parent = span.ID()

	out := &Program{
		Modules: make([]*ModuleDefinition, 0, len(prog.Modules)),
		Scripts: make([]*Script, 0, len(prog.Scripts)),
	}
	for _, m := range prog.Modules {
		out.Modules = append(out.Modules, c.module(m))
	}
	for _, s := range prog.Scripts {
		out.Scripts = append(out.Scripts, c.script(s))
	}
	span.WithExtra("modules", strconv.Itoa(len(out.Modules))).
		WithExtra("scripts", strconv.Itoa(len(out.Scripts)))
	return out
}

// enterTraceScope opens a child span and makes it the parent of nested
// spans until the returned func runs.
func (c *Context) enterTraceScope(scope trace.Scope, name string) func() {
	parent := c.parent
	span := trace.Begin(c.tracer, scope, name, parent)
	c.parent = span.ID()
	return func() {
		span.End("")
		c.parent = parent
	}
}

func (c *Context) module(m *expansion.ModuleDefinition) *ModuleDefinition {
	defer c.enterTraceScope(trace.ScopeModule, "module "+m.Ident.String())()

	ident := m.Ident
	c.currentModule = &ident
	defer func() { c.currentModule = nil }()
	defer c.withWarningFilter(m.Warnings)()

	out := &ModuleDefinition{
		Span:        m.Span,
		Ident:       m.Ident,
		IdentSpan:   m.IdentSpan,
		Warnings:    m.Warnings,
		PackageName: m.PackageName,
		Attributes:  m.Attributes,
		IsSource:    m.IsSource,
	}
	specBlocks(&out.SpecDeps, m.Specs)
	for _, f := range m.Friends {
		if c.friend(f) {
			out.Friends = append(out.Friends, f)
		}
	}

	baseline := c.saveUnscoped()
	defer c.restoreUnscoped(baseline)
	for _, s := range m.Structs {
		c.restoreUnscoped(baseline)
		out.Structs = append(out.Structs, c.structDef(s))
	}
	for _, f := range m.Functions {
		c.restoreUnscoped(baseline)
		out.Functions = append(out.Functions, c.function(&out.SpecDeps, f))
	}
	for _, k := range m.Constants {
		c.restoreUnscoped(baseline)
		out.Constants = append(out.Constants, c.constant(k))
	}
	return out
}

// friend validates a friend declaration of the current module.
func (c *Context) friend(f *expansion.Friend) bool {
	current := *c.currentModule
	var note string
	switch {
	case f.Ident.Address != current.Address:
		note = "Cannot declare modules out of the current address as a friend"
	case moduleKey(f.Ident) == moduleKey(current):
		note = "Cannot declare the module itself as a friend"
	default:
		if c.resolveModule(f.Ident, f.IdentSpan) {
			return true
		}
		c.expectErrors()
		return false
	}
	c.errorf(diag.DeclInvalidFriendDeclaration, f.Span, "Invalid friend declaration").
		WithNote(f.IdentSpan, note).
		Emit()
	return false
}

// script resolves a script. Its constants are visible to each other and to
// the script function as bare names.
func (c *Context) script(s *expansion.Script) *Script {
	defer c.enterTraceScope(trace.ScopeModule, "script "+s.Name)()

	c.currentModule = nil
	defer c.withWarningFilter(s.Warnings)()

	out := &Script{
		Span:         s.Span,
		Name:         s.Name,
		Warnings:     s.Warnings,
		PackageName:  s.PackageName,
		Attributes:   s.Attributes,
		FunctionName: s.FunctionName,
	}
	specBlocks(&out.SpecDeps, s.Specs)

	outer := c.saveUnscoped()
	defer c.restoreUnscoped(outer)
	for _, k := range s.Constants {
		c.bindConstant(k.Name.Value, k.Name.Span)
	}
	inner := c.saveUnscoped()
	for _, k := range s.Constants {
		c.restoreUnscoped(inner)
		out.Constants = append(out.Constants, c.constant(k))
	}
	c.restoreUnscoped(inner)
	out.Function = c.function(&out.SpecDeps, s.Function)
	return out
}
