package driver

import (
	"os"
	"path/filepath"
	"testing"

	"keelc/internal/expansion"
	"keelc/internal/source"
)

func TestLibraryRoundTrip(t *testing.T) {
	lib := libraryWithK()
	path := filepath.Join(t.TempDir(), "lib", "deps.klib")
	if err := SaveLibrary(path, lib); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := LoadLibrary(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got.ModuleSummaries()) != 1 {
		t.Fatalf("expected one module, got %d", len(got.ModuleSummaries()))
	}
	sum := got.ModuleSummaries()[0]
	if sum.Ident != modK || len(sum.Functions) != 1 || sum.Functions[0].Name != "g" || len(sum.Constants) != 1 {
		t.Fatalf("unexpected summary %+v", sum)
	}
	if sum.Functions[0].Span.File != source.NoFile {
		t.Fatalf("library spans must be detached")
	}
	if got.Digest() != lib.Digest() {
		t.Fatalf("digest changed across save/load")
	}
}

func TestNewLibraryLastDefinitionWins(t *testing.T) {
	b := &expansion.Builder{}
	first := b.Module(modK)
	second := b.Module(modK)
	second.Functions = append(second.Functions, b.Fun("g", nil, nil, nil))
	lib := NewLibrary(
		&expansion.Program{Modules: []*expansion.ModuleDefinition{first}},
		&expansion.Program{Modules: []*expansion.ModuleDefinition{second, b.Module(modM)}},
	)
	mods := lib.ModuleSummaries()
	if len(mods) != 2 || mods[0].Ident != modK || mods[1].Ident != modM {
		t.Fatalf("unexpected modules %+v", mods)
	}
	if len(mods[0].Functions) != 1 {
		t.Fatalf("later definition should win")
	}
	var nilLib *Library
	if nilLib.ModuleSummaries() != nil || !nilLib.Digest().IsZero() {
		t.Fatalf("nil library should be empty")
	}
}

func TestLoadLibraryRejectsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	prog := filepath.Join(dir, "m.kexp")
	if err := WriteProgram(prog, sampleProgram()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadLibrary(prog); err == nil {
		t.Fatalf("program file accepted as a library")
	}
	junk := filepath.Join(dir, "junk")
	if err := os.WriteFile(junk, []byte{0xc1}, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadLibrary(junk); err == nil {
		t.Fatalf("junk accepted as a library")
	}
}

func TestLibraryExtendOverridesBase(t *testing.T) {
	base := libraryWithK()
	b := &expansion.Builder{}
	k := b.Module(modK)
	k.Functions = append(k.Functions, b.Fun("h", nil, nil, nil))
	ext := base.Extend(&expansion.Program{Modules: []*expansion.ModuleDefinition{k.Seal(), b.Module(modM)}})

	mods := ext.ModuleSummaries()
	if len(mods) != 2 || mods[0].Ident != modK || mods[0].Functions[0].Name != "h" {
		t.Fatalf("unexpected modules %+v", mods)
	}
	if got := base.ModuleSummaries()[0].Functions[0].Name; got != "g" {
		t.Fatalf("base library modified: %s", got)
	}
	if ext.Digest() == base.Digest() {
		t.Fatalf("extended library must have its own digest")
	}
}
