package naming

import (
	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/source"
)

// typeParameter binds a type parameter in the unscoped environment. A
// repeated name is reported and the later binding wins.
func (c *Context) typeParameter(seen map[string]source.Span, name expansion.Name, abilities expansion.AbilitySet) TParam {
	tp := TParam{ID: c.newTParamID(), UserName: name, Abilities: abilities}
	c.bindType(name.Value, unscopedType{declSpan: name.Span, param: tp})
	key := source.CanonicalName(name.Value)
	if prev, dup := seen[key]; dup {
		c.errorf(diag.DeclDuplicateItem, name.Span, "Duplicate type parameter declared with name '%s'", name.Value).
			WithNote(prev, "Type parameter previously defined here").
			Emit()
	} else {
		seen[key] = name.Span
	}
	return tp
}

func (c *Context) funTypeParameters(tps []expansion.TypeParameter) []TParam {
	seen := make(map[string]source.Span, len(tps))
	out := make([]TParam, 0, len(tps))
	for _, tp := range tps {
		out = append(out, c.typeParameter(seen, tp.Name, tp.Constraints))
	}
	return out
}

func (c *Context) structTypeParameters(tps []expansion.StructTypeParameter) []StructTypeParameter {
	seen := make(map[string]source.Span, len(tps))
	out := make([]StructTypeParameter, 0, len(tps))
	for _, tp := range tps {
		out = append(out, StructTypeParameter{
			Param:     c.typeParameter(seen, tp.Name, tp.Constraints),
			IsPhantom: tp.IsPhantom,
		})
	}
	return out
}

func (c *Context) structDef(s *expansion.StructDefinition) *StructDefinition {
	defer c.withWarningFilter(s.Warnings)()
	out := &StructDefinition{
		Span:       s.Span,
		Name:       s.Name,
		Index:      s.Index,
		Warnings:   s.Warnings,
		Attributes: s.Attributes,
		Abilities:  s.Abilities,
		TypeParams: c.structTypeParameters(s.TypeParams),
		Native:     s.Native,
		NativeSpan: s.NativeSpan,
	}
	if !s.Native {
		out.Fields = make([]StructField, 0, len(s.Fields))
		for _, f := range s.Fields {
			out.Fields = append(out.Fields, StructField{Name: f.Name, Type: c.type_(f.Type)})
		}
	}
	return out
}

// constant resolves a constant in a single top-level frame.
func (c *Context) constant(k *expansion.Constant) *Constant {
	c.enterConstant()
	defer c.exitConstant()
	defer c.withWarningFilter(k.Warnings)()
	return &Constant{
		Span:       k.Span,
		Name:       k.Name,
		Index:      k.Index,
		Warnings:   k.Warnings,
		Attributes: k.Attributes,
		Signature:  c.type_(k.Signature),
		Value:      c.exp(k.Value),
	}
}

// functionAcquires keeps the valid acquires items in order. Repeats are
// reported against the first listing.
func (c *Context) functionAcquires(items []expansion.ModuleAccess) []Acquire {
	out := make([]Acquire, 0, len(items))
	seen := make(map[string]source.Span, len(items))
	for _, acc := range items {
		name, ok := c.acquiresType(acc)
		if !ok {
			continue
		}
		key := source.CanonicalName(name.Value)
		if prev, dup := seen[key]; dup {
			c.errorf(diag.DeclDuplicateItem, acc.Span, "Duplicate acquires item").
				WithNote(prev, "Item previously listed here").
				Emit()
			continue
		}
		seen[key] = acc.Span
		out = append(out, Acquire{Struct: name, Span: acc.Span})
	}
	return out
}

func (c *Context) acquiresType(acc expansion.ModuleAccess) (expansion.Name, bool) {
	if acc.IsName() {
		u, ok := c.resolveUnscopedType(acc.Name)
		if !ok {
			return expansion.Name{}, false
		}
		c.errorf(diag.NamePositionMismatch, acc.Span,
			"Invalid acquires item. Expected a struct name, but got a %s", u.kindName()).Emit()
		return expansion.Name{}, false
	}
	entry, ok := c.resolveModuleType(acc)
	if !ok {
		return expansion.Name{}, false
	}
	valid := true
	if !entry.abilities.Has(expansion.AbilityKey) {
		c.errorf(diag.DeclInvalidAcquiresItem, acc.Span,
			"Invalid acquires item. Expected a struct with the 'key' ability.").
			WithNote(entry.declSpan, "Declared without the 'key' ability here").
			Emit()
		valid = false
	}
	if c.currentModule == nil || moduleKey(*c.currentModule) != moduleKey(entry.module) {
		c.errorf(diag.DeclInvalidAcquiresItem, acc.Span, "Invalid acquires item").
			WithNote(entry.declSpan, "The struct '"+acc.Name.Value+
				"' was not declared in the current module. Global storage access is internal to the module'").
			Emit()
		valid = false
	}
	return acc.Name, valid
}
