package naming

import (
	"maps"

	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/source"
)

// unscopedType is what a bare type name refers to: a builtin type or a type
// parameter in scope.
type unscopedType struct {
	builtin bool
	// tparam fields
	declSpan source.Span
	param    TParam
}

// note explains what a bare name is when a struct name was expected.
func (u unscopedType) note(n expansion.Name) (source.Span, string) {
	if u.builtin {
		return n.Span, "But '" + n.Value + "' is a builtin type"
	}
	return u.declSpan, "But '" + n.Value + "' was declared as a type parameter here"
}

func (u unscopedType) kindName() string {
	if u.builtin {
		return "builtin type"
	}
	return "type parameter"
}

// unscopedEnv holds names visible without a module qualifier.
type unscopedEnv struct {
	types     map[string]unscopedType
	constants map[string]source.Span
}

func newUnscopedEnv() unscopedEnv {
	env := unscopedEnv{
		types:     make(map[string]unscopedType, len(builtinTypeNames)),
		constants: make(map[string]source.Span),
	}
	for _, name := range builtinTypeNames {
		env.types[name] = unscopedType{builtin: true}
	}
	return env
}

// unscopedSnapshot is a saved unscoped environment. Restoring it undoes every
// binding made since the save.
type unscopedSnapshot struct {
	types     map[string]unscopedType
	constants map[string]source.Span
}

func (c *Context) saveUnscoped() unscopedSnapshot {
	return unscopedSnapshot{
		types:     maps.Clone(c.unscoped.types),
		constants: maps.Clone(c.unscoped.constants),
	}
}

func (c *Context) restoreUnscoped(s unscopedSnapshot) {
	c.unscoped.types = maps.Clone(s.types)
	c.unscoped.constants = maps.Clone(s.constants)
}

func (c *Context) bindType(name string, u unscopedType) {
	c.unscoped.types[source.CanonicalName(name)] = u
}

func (c *Context) bindConstant(name string, sp source.Span) {
	c.unscoped.constants[source.CanonicalName(name)] = sp
}

func (c *Context) resolveUnscopedType(n expansion.Name) (unscopedType, bool) {
	u, ok := c.unscoped.types[source.CanonicalName(n.Value)]
	if !ok {
		c.errorf(diag.NameUnboundType, n.Span, "Unbound type '%s' in current scope", n.Value).Emit()
		return unscopedType{}, false
	}
	return u, true
}

// resolvedStruct is a struct reference in construction or deconstruction
// position.
type resolvedStruct struct {
	module   expansion.ModuleIdent
	name     expansion.Name
	typeArgs TypeArgs
}

// resolveStructName resolves acc where only a struct may appear. Type
// arguments, when written, are resolved and arity-checked against the
// declaration.
func (c *Context) resolveStructName(sp source.Span, verb string, acc expansion.ModuleAccess, targs expansion.TypeArgs) (resolvedStruct, bool) {
	if acc.IsName() {
		u, ok := c.resolveUnscopedType(acc.Name)
		if !ok {
			c.expectErrors()
			return resolvedStruct{}, false
		}
		noteSpan, note := u.note(acc.Name)
		c.errorf(diag.NamePositionMismatch, acc.Span, "Invalid %s. Expected a struct name", verb).
			WithNote(noteSpan, note).
			Emit()
		return resolvedStruct{}, false
	}
	entry, ok := c.resolveModuleType(acc)
	if !ok {
		c.expectErrors()
		return resolvedStruct{}, false
	}
	out := resolvedStruct{module: *acc.Module, name: acc.Name}
	if targs.Present {
		tys := c.types(targs.Types)
		out.typeArgs = someTypeArgs(c.checkTypeArgumentArity(sp, acc.String(), tys, entry.arity))
	}
	return out, true
}

// resolveConstant resolves a constant access: bare names against the
// unscoped constants, qualified ones against the module table.
func (c *Context) resolveConstant(acc expansion.ModuleAccess) (*Expr, bool) {
	if acc.IsName() {
		if _, ok := c.unscoped.constants[source.CanonicalName(acc.Name.Value)]; !ok {
			c.errorf(diag.NameUnboundUnscopedName, acc.Span, "Unbound constant '%s'", acc.Name.Value).Emit()
			return nil, false
		}
		return &Expr{Kind: ExprConstant, Data: ConstantData{Name: acc.Name}}, true
	}
	if !c.resolveModuleConstant(acc) {
		c.expectErrors()
		return nil, false
	}
	m := *acc.Module
	return &Expr{Kind: ExprConstant, Data: ConstantData{Module: &m, Name: acc.Name}}, true
}
