package naming

import (
	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/source"
)

// typeEntry describes a struct visible through `module::Name`.
type typeEntry struct {
	declSpan  source.Span
	module    expansion.ModuleIdent
	abilities expansion.AbilitySet
	arity     int
}

type moduleMembers struct {
	types     map[string]typeEntry
	functions map[string]source.Span
	constants map[string]source.Span
}

// symbolTables are the scoped tables of one program. Read-only after
// construction.
type symbolTables struct {
	modules map[expansion.ModuleIdent]*moduleMembers
}

// moduleKey canonicalizes the module name of an identifier.
func moduleKey(m expansion.ModuleIdent) expansion.ModuleIdent {
	return expansion.ModuleIdent{Address: m.Address, Module: source.CanonicalName(m.Module)}
}

// buildSymbolTables indexes library summaries, then the program's own modules
// on top, so a recompiled module shadows its stale library copy.
func buildSymbolTables(lib Precompiled, prog *expansion.Program) *symbolTables {
	t := &symbolTables{modules: make(map[expansion.ModuleIdent]*moduleMembers)}
	if lib != nil {
		for _, sum := range lib.ModuleSummaries() {
			t.addSummary(sum)
		}
	}
	if prog != nil {
		for _, m := range prog.Modules {
			t.addSummary(expansion.SummarizeModule(m))
		}
	}
	return t
}

func (t *symbolTables) addSummary(sum expansion.ModuleSummary) {
	mems := &moduleMembers{
		types:     make(map[string]typeEntry, len(sum.Structs)),
		functions: make(map[string]source.Span, len(sum.Functions)),
		constants: make(map[string]source.Span, len(sum.Constants)),
	}
	for _, s := range sum.Structs {
		mems.types[source.CanonicalName(s.Name)] = typeEntry{
			declSpan:  s.Span,
			module:    sum.Ident,
			abilities: s.Abilities,
			arity:     s.Arity,
		}
	}
	for _, f := range sum.Functions {
		mems.functions[source.CanonicalName(f.Name)] = f.Span
	}
	for _, c := range sum.Constants {
		mems.constants[source.CanonicalName(c.Name)] = c.Span
	}
	t.modules[moduleKey(sum.Ident)] = mems
}

func (t *symbolTables) lookup(m expansion.ModuleIdent) (*moduleMembers, bool) {
	mems, ok := t.modules[moduleKey(m)]
	return mems, ok
}

func (c *Context) reportUnboundModule(m expansion.ModuleIdent, sp source.Span) {
	c.errorf(diag.NameUnboundModule, sp, "Unbound module '%s'", m).Emit()
}

// resolveModule checks that m exists; modSpan is where it was written.
func (c *Context) resolveModule(m expansion.ModuleIdent, modSpan source.Span) bool {
	if _, ok := c.tables.lookup(m); !ok {
		c.reportUnboundModule(m, modSpan)
		return false
	}
	return true
}

// resolveModuleType looks up the struct named by acc, which must be
// qualified.
func (c *Context) resolveModuleType(acc expansion.ModuleAccess) (typeEntry, bool) {
	mems, ok := c.tables.lookup(*acc.Module)
	if !ok {
		c.reportUnboundModule(*acc.Module, acc.ModuleSpan)
		return typeEntry{}, false
	}
	entry, ok := mems.types[source.CanonicalName(acc.Name.Value)]
	if !ok {
		c.errorf(diag.NameUnboundModuleMember, acc.Span,
			"Invalid module access. Unbound struct '%s' in module '%s'", acc.Name.Value, acc.Module).Emit()
		return typeEntry{}, false
	}
	return entry, true
}

func (c *Context) resolveModuleFunction(acc expansion.ModuleAccess) bool {
	mems, ok := c.tables.lookup(*acc.Module)
	if !ok {
		c.reportUnboundModule(*acc.Module, acc.ModuleSpan)
		return false
	}
	if _, ok := mems.functions[source.CanonicalName(acc.Name.Value)]; !ok {
		c.errorf(diag.NameUnboundModuleMember, acc.Span,
			"Invalid module access. Unbound function '%s' in module '%s'", acc.Name.Value, acc.Module).Emit()
		return false
	}
	return true
}

func (c *Context) resolveModuleConstant(acc expansion.ModuleAccess) bool {
	mems, ok := c.tables.lookup(*acc.Module)
	if !ok {
		c.reportUnboundModule(*acc.Module, acc.ModuleSpan)
		return false
	}
	if _, ok := mems.constants[source.CanonicalName(acc.Name.Value)]; !ok {
		c.errorf(diag.NameUnboundModuleMember, acc.Span,
			"Invalid module access. Unbound constant '%s' in module '%s'", acc.Name.Value, acc.Module).Emit()
		return false
	}
	return true
}
