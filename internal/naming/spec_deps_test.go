package naming

import (
	"testing"

	"keelc/internal/expansion"
)

func TestSpecBlocksCollectModuleEdges(t *testing.T) {
	b := &expansion.Builder{}
	friendAcc := b.QAccess(modX, "g")
	first := b.Call(b.QAccess(modK, "f"), expansion.Targs(b.TQual(modX, "S")))
	m := b.Module(modM)
	m.Specs = []*expansion.SpecBlock{{
		Span:   b.Span(),
		Target: "module",
		Members: []*expansion.SpecMember{
			{Kind: expansion.SpecCondition, Span: b.Span(), Condition: "ensures", Exp: first},
			{Kind: expansion.SpecCondition, Span: b.Span(), Condition: "aborts_if",
				Exp: b.NameExpr(b.QAccess(modK, "C"))},
			{Kind: expansion.SpecPragma, Span: b.Span(), Properties: []expansion.PragmaProperty{
				{Span: b.Span(), Name: b.Name("verify")},
				{Span: b.Span(), Name: b.Name("friend"), Value: &expansion.PragmaValue{Ident: &friendAcc}},
			}},
			// variables are declarations, not references
			{Kind: expansion.SpecVariable, Span: b.Span(), Name: b.Name("v"), Type: b.TQual(expansion.ModuleIdent{Address: "0x3", Module: "Z"}, "T")},
		},
	}}
	f := b.Fun("f", nil, nil, nil)
	f.Specs = []*expansion.SpecBlock{{
		Span:   b.Span(),
		Target: "fun f",
		Members: []*expansion.SpecMember{{
			Kind: expansion.SpecLet, Span: b.Span(), Name: b.Name("x"),
			Exp: b.Binop(b.NameExpr(b.QAccess(modM, "D")), expansion.BinAdd, b.Num("1")),
		}},
	}}
	m.Functions = append(m.Functions, f)
	r := resolveModules(t, m)
	// spec blocks never report, even for unknown modules
	r.expectClean(t)

	deps := &r.prog.Modules[0].SpecDeps
	if deps.Len() != 4 {
		t.Fatalf("expected 4 edges, got %+v", deps.Sorted())
	}
	for _, want := range []struct {
		m expansion.ModuleIdent
		n Neighbor
	}{
		{modK, NeighborDependency},
		{modM, NeighborDependency},
		{modX, NeighborDependency},
		{modX, NeighborFriend},
	} {
		if !deps.Has(want.m, want.n) {
			t.Fatalf("missing edge %s %s", want.m, want.n)
		}
	}
	sorted := deps.Sorted()
	if sorted[0].Module != modK || sorted[0].Span != first.Data.(expansion.CallData).Access.Span {
		t.Fatalf("first edge should keep its first location, got %+v", sorted[0])
	}
	if sorted[2].Neighbor != NeighborDependency || sorted[3].Neighbor != NeighborFriend {
		t.Fatalf("edges of one module should order dependency before friend")
	}
}

func TestSpecDepsAddKeepsFirstSpan(t *testing.T) {
	b := &expansion.Builder{}
	var deps SpecDeps
	if deps.Len() != 0 || deps.Has(modK, NeighborDependency) || len(deps.Sorted()) != 0 {
		t.Fatalf("zero value should be empty")
	}
	sp1, sp2 := b.Span(), b.Span()
	deps.Add(modK, NeighborDependency, sp1)
	deps.Add(modK, NeighborDependency, sp2)
	deps.Add(modK, NeighborFriend, sp2)
	if deps.Len() != 2 {
		t.Fatalf("expected 2 edges, got %d", deps.Len())
	}
	if got := deps.Sorted()[0]; got.Neighbor != NeighborDependency || got.Span != sp1 {
		t.Fatalf("unexpected edge %+v", got)
	}
}
