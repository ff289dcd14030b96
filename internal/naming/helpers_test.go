package naming

import (
	"strings"
	"testing"

	"keelc/internal/diag"
	"keelc/internal/expansion"
)

var (
	modM = expansion.ModuleIdent{Address: "0x1", Module: "M"}
	modK = expansion.ModuleIdent{Address: "0x1", Module: "K"}
	modX = expansion.ModuleIdent{Address: "0x2", Module: "X"}
)

type testLib []expansion.ModuleSummary

func (l testLib) ModuleSummaries() []expansion.ModuleSummary { return l }

type run struct {
	prog *Program
	bag  *diag.Bag
	sink *diag.Sink
}

func resolveProgram(t *testing.T, lib Precompiled, prog *expansion.Program) run {
	t.Helper()
	bag := diag.NewBag(100)
	sink := diag.NewSink(diag.BagReporter{Bag: bag}, nil)
	out := Resolve(sink, lib, prog, Options{})
	if sink.FilterDepth() != 0 {
		t.Fatalf("warning filters left on the stack: %d", sink.FilterDepth())
	}
	return run{prog: out, bag: bag, sink: sink}
}

func resolveModules(t *testing.T, mods ...*expansion.ModuleDefinition) run {
	t.Helper()
	for _, m := range mods {
		m.Seal()
	}
	return resolveProgram(t, nil, &expansion.Program{Modules: mods})
}

func (r run) count(code diag.Code) int {
	n := 0
	for _, d := range r.bag.Items() {
		if d.Code == code {
			n++
		}
	}
	return n
}

func (r run) only(t *testing.T, code diag.Code) diag.Diagnostic {
	t.Helper()
	var found []diag.Diagnostic
	for _, d := range r.bag.Items() {
		if d.Code == code {
			found = append(found, d)
		}
	}
	if len(found) != 1 {
		t.Fatalf("expected exactly one %s, got %d:\n%s", code.ID(), len(found), r.dump())
	}
	return found[0]
}

func (r run) expectClean(t *testing.T) {
	t.Helper()
	if r.bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got:\n%s", r.dump())
	}
}

func (r run) dump() string {
	var sb strings.Builder
	for _, d := range r.bag.Items() {
		sb.WriteString(d.Code.ID())
		sb.WriteString(" ")
		sb.WriteString(d.Primary.String())
		sb.WriteString(" ")
		sb.WriteString(d.Message)
		sb.WriteString("\n")
	}
	return sb.String()
}

func (r run) fun(t *testing.T, mod, fun int) *Function {
	t.Helper()
	if mod >= len(r.prog.Modules) || fun >= len(r.prog.Modules[mod].Functions) {
		t.Fatalf("no function %d in module %d", fun, mod)
	}
	return r.prog.Modules[mod].Functions[fun]
}

func mustPanic(t *testing.T, want string, fn func()) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected panic containing %q", want)
		}
		msg, _ := r.(string)
		if !strings.Contains(msg, want) {
			t.Fatalf("expected panic containing %q, got %v", want, r)
		}
	}()
	fn()
}

func params(ps ...expansion.Param) []expansion.Param { return ps }

func tparams(tps ...expansion.TypeParameter) []expansion.TypeParameter { return tps }

func key() expansion.AbilitySet { return expansion.NewAbilitySet(expansion.AbilityKey) }
