package naming

import (
	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/source"
	"keelc/internal/trace"
)

// function resolves one function. Spec dependencies of its spec blocks go
// into deps. Function-local state is empty before and after.
func (c *Context) function(deps *SpecDeps, f *expansion.Function) *Function {
	span := trace.Begin(c.tracer, trace.ScopeDecl, "fun "+f.Name.Value, c.parent)
	defer span.End("")

	c.enterFunction()
	defer c.exitFunction()
	defer c.withWarningFilter(f.Warnings)()

	specBlocks(deps, f.Specs)

	out := &Function{
		Span:           f.Span,
		Name:           f.Name,
		Index:          f.Index,
		Warnings:       f.Warnings,
		Attributes:     f.Attributes,
		Visibility:     f.Visibility,
		VisibilitySpan: f.VisibilitySpan,
		Entry:          f.Entry,
	}
	out.Signature = c.functionSignature(f.Signature)
	out.Acquires = c.functionAcquires(f.Acquires)
	out.Body = c.functionBody(f.Body)

	if !out.Body.Native {
		for _, tp := range out.Signature.TypeParams {
			if _, used := c.usedFunTParams[tp.ID]; !used {
				diag.Report(c.env, diag.UnusedFunTypeParam, tp.UserName.Span,
					"Unused type parameter '"+tp.UserName.Value+"'.").Emit()
			}
		}
	}
	c.removeUnusedBindings(out)
	return out
}

// functionSignature binds type parameters, then declares each parameter
// before resolving its type.
func (c *Context) functionSignature(sig expansion.FunctionSignature) FunctionSignature {
	out := FunctionSignature{
		TypeParams: c.funTypeParameters(sig.TypeParams),
		Params:     make([]FunctionParam, 0, len(sig.Params)),
	}
	seen := make(map[string]source.Span, len(sig.Params))
	for _, p := range sig.Params {
		key := source.CanonicalName(p.Name.Value)
		if prev, dup := seen[key]; dup {
			if !p.Name.IsUnderscore() {
				c.errorf(diag.DeclDuplicateItem, p.Name.Span, "Duplicate parameter with name '%s'", p.Name.Value).
					WithNote(prev, "Previously declared here").
					Emit()
			}
		} else {
			seen[key] = p.Name.Span
		}
		v := c.declareLocal(true, p.Name)
		out.Params = append(out.Params, FunctionParam{Var: v, Type: c.type_(p.Type)})
	}
	out.Return = c.type_(sig.Return)
	return out
}

func (c *Context) functionBody(b *expansion.FunctionBody) *FunctionBody {
	if b.Native {
		return &FunctionBody{Span: b.Span, Native: true}
	}
	return &FunctionBody{Span: b.Span, Seq: c.sequence(b.Seq)}
}
