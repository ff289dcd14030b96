package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"keelc/internal/driver"
	"keelc/internal/expansion"
)

var (
	modM = expansion.ModuleIdent{Address: "0x1", Module: "M"}
	modK = expansion.ModuleIdent{Address: "0x1", Module: "K"}
)

// writePrograms writes m.kexp (M::f calls K::g and leaves y unused) and
// k.kexp (K with g and C) into a fresh directory.
func writePrograms(t *testing.T) (dir, m, k string) {
	t.Helper()
	dir = t.TempDir()

	b := &expansion.Builder{}
	mm := b.Module(modM)
	mm.Functions = append(mm.Functions, b.Fun("f", nil, nil, nil,
		b.Let(b.Binds(b.LVar("y")), nil, b.Num("1")),
		b.Do(b.Call(b.QAccess(modK, "g"), expansion.TypeArgs{})),
	))
	mm.Specs = []*expansion.SpecBlock{{
		Span:   b.Span(),
		Target: "module",
		Members: []*expansion.SpecMember{{
			Kind: expansion.SpecCondition, Span: b.Span(), Condition: "invariant",
			Exp: b.NameExpr(b.QAccess(modK, "C")),
		}},
	}}
	m = filepath.Join(dir, "m.kexp")
	if err := driver.WriteProgram(m, &expansion.Program{
		Files:   []expansion.File{{Path: "sources/m.move", Content: []byte("module 0x1::M {}\n")}},
		Modules: []*expansion.ModuleDefinition{mm.Seal()},
	}); err != nil {
		t.Fatalf("write m: %v", err)
	}

	kb := &expansion.Builder{}
	kk := kb.Module(modK)
	kk.Functions = append(kk.Functions, kb.Fun("g", nil, nil, nil))
	kk.Constants = append(kk.Constants, kb.Constant("C", kb.TName("u64"), kb.Num("0")))
	k = filepath.Join(dir, "lib", "k.kexp")
	if err := driver.WriteProgram(k, &expansion.Program{Modules: []*expansion.ModuleDefinition{kk.Seal()}}); err != nil {
		t.Fatalf("write k: %v", err)
	}
	return dir, m, k
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestResolveWithoutLibraryExitsWithErrors(t *testing.T) {
	_, m, _ := writePrograms(t)
	out, err := runCLI(t, "resolve", "--no-cache", "--color", "off", "--format", "short", m)

	var exit exitError
	if !errors.As(err, &exit) || exit.code != 1 {
		t.Fatalf("expected exit status 1, got %v", err)
	}
	if !strings.Contains(out, "error NAM1003") || !strings.Contains(out, "warning UNU3001") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestSummarizeThenResolveAgainstLibrary(t *testing.T) {
	dir, m, k := writePrograms(t)
	lib := filepath.Join(dir, "build", "deps.klib")

	out, err := runCLI(t, "summarize", k, "-o", lib)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !strings.HasPrefix(out, "wrote 1 module(s) to "+lib) {
		t.Fatalf("unexpected summarize output: %q", out)
	}

	out, err = runCLI(t, "resolve", "--no-cache", "--format", "json", "--deps", "--lib", lib, m)
	if err != nil {
		t.Fatalf("resolve: %v\n%s", err, out)
	}
	var files []fileJSON
	if err := json.Unmarshal([]byte(out), &files); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(files) != 1 || files[0].Result.Count != 1 || files[0].Result.Diagnostics[0].Code != "UNU3001" {
		t.Fatalf("unexpected result: %+v", files)
	}
	deps := files[0].Deps
	if len(deps) != 1 || deps[0].Owner != "0x1::M" || len(deps[0].Deps) != 1 {
		t.Fatalf("unexpected deps: %+v", deps)
	}
	if deps[0].Deps[0].Module != "0x1::K" || deps[0].Deps[0].Neighbor != "dependency" {
		t.Fatalf("unexpected dep: %+v", deps[0].Deps[0])
	}

	out, err = runCLI(t, "resolve", "--no-cache", "--color", "off", "--format", "short", "--deps", "--lib", lib, m)
	if err != nil {
		t.Fatalf("resolve short: %v\n%s", err, out)
	}
	if !strings.Contains(out, "spec dependency order:\n  1: 0x1::K\n  2: 0x1::M\n") {
		t.Fatalf("missing dependency order:\n%s", out)
	}
}

func TestResolveEmitAndAllow(t *testing.T) {
	dir, m, k := writePrograms(t)
	lib := filepath.Join(dir, "deps.klib")
	if _, err := runCLI(t, "--quiet", "summarize", k, "-o", lib); err != nil {
		t.Fatalf("summarize: %v", err)
	}

	out, err := runCLI(t, "resolve", "--no-cache", "--color", "off", "--emit", "--allow", "unused", "--lib", lib, m)
	if err != nil {
		t.Fatalf("resolve: %v\n%s", err, out)
	}
	if !strings.Contains(out, "module 0x1::M") || !strings.Contains(out, "(1 suppressed by allow list)") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}

func TestResolveUsesCache(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	_, m, _ := writePrograms(t)

	for i, wantCached := range []bool{false, true} {
		out, err := runCLI(t, "resolve", "--format", "json", "--allow", "NAM1003", m)
		var exit exitError
		if !errors.As(err, &exit) {
			t.Fatalf("run %d: expected exit error, got %v", i, err)
		}
		var files []fileJSON
		if err := json.Unmarshal([]byte(out), &files); err != nil {
			t.Fatalf("run %d: invalid JSON: %v", i, err)
		}
		if files[0].Cached != wantCached {
			t.Fatalf("run %d: cached = %v, want %v", i, files[0].Cached, wantCached)
		}
	}

	out, err := runCLI(t, "clean")
	if err != nil || strings.TrimSpace(out) != "cache cleared" {
		t.Fatalf("clean: %q, %v", out, err)
	}
	out, _ = runCLI(t, "resolve", "--format", "json", "--allow", "NAM1003", m)
	if strings.Contains(out, `"cached": true`) {
		t.Fatalf("cache should be empty after clean:\n%s", out)
	}
}

func TestResolveRejectsBadFlags(t *testing.T) {
	_, m, _ := writePrograms(t)
	cases := [][]string{
		{"resolve", "--format", "xml", m},
		{"resolve", "--ui", "sometimes", m},
		{"resolve", "--emit", "--format", "json", m},
		{"resolve", "--no-cache", "--allow", "shadowing", m},
		{"resolve", "--no-cache", filepath.Join(t.TempDir(), "missing.kexp")},
	}
	for _, args := range cases {
		if _, err := runCLI(t, args...); err == nil {
			t.Fatalf("%v: expected error", args)
		} else if errors.As(err, new(exitError)) {
			t.Fatalf("%v: expected a usage error, got %v", args, err)
		}
	}
}

func TestVersionJSON(t *testing.T) {
	out, err := runCLI(t, "version", "--format", "json", "--full")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	var payload versionPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if payload.Tool != "keelc" || payload.Version == "" || payload.GitCommit != "unknown" {
		t.Fatalf("unexpected payload: %+v", payload)
	}
}
