package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, manifestName)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadProjectManifestDiscoversUpwards(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `
[package]
name = "demo"

[naming]
max_diagnostics = 20
allow = ["unused", "NAM1009"]
library = "build/deps.mp"

[trace]
level = "phase"
output = "-"
`)
	nested := filepath.Join(root, "sources", "nested")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, err := loadProjectManifest("", nested)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m == nil {
		t.Fatal("manifest not found")
	}
	if m.Config.Package.Name != "demo" || m.Config.Naming.MaxDiagnostics != 20 {
		t.Fatalf("unexpected config: %+v", m.Config)
	}
	if len(m.Config.Naming.Allow) != 2 || m.Config.Trace.Level != "phase" {
		t.Fatalf("unexpected config: %+v", m.Config)
	}
	wantRoot, _ := filepath.Abs(root)
	if m.Root != wantRoot {
		t.Fatalf("root = %q, want %q", m.Root, wantRoot)
	}
	if got, want := m.libraryPath(), filepath.Join(wantRoot, "build", "deps.mp"); got != want {
		t.Fatalf("libraryPath = %q, want %q", got, want)
	}
}

func TestLoadProjectManifestMissingIsNotAnError(t *testing.T) {
	m, err := loadProjectManifest("", t.TempDir())
	if err != nil || m != nil {
		t.Fatalf("expected no manifest, got %+v, %v", m, err)
	}
	var nilManifest *projectManifest
	if nilManifest.libraryPath() != "" {
		t.Fatal("nil manifest has no library")
	}
}

func TestLoadProjectConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"no package", "[naming]\nallow = []\n", "missing [package]"},
		{"no name", "[package]\nname = \" \"\n", "missing [package].name"},
		{"unknown key", "[package]\nname = \"x\"\n[naming]\nlibary = \"a\"\n", "unknown key naming.libary"},
		{"bad max", "[package]\nname = \"x\"\n[naming]\nmax_diagnostics = 0\n", "max_diagnostics must be positive"},
		{"bad allow", "[package]\nname = \"x\"\n[naming]\nallow = [\"shadowing\"]\n", "[naming].allow"},
		{"bad level", "[package]\nname = \"x\"\n[trace]\nlevel = \"loud\"\n", "[trace].level"},
		{"bad toml", "[package\n", "failed to parse TOML"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeManifest(t, t.TempDir(), tc.content)
			_, err := loadProjectConfig(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error = %v, want containing %q", err, tc.want)
			}
		})
	}
}

func TestLoadProjectManifestExplicitPath(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "[package]\nname = \"solo\"\n")
	m, err := loadProjectManifest(path, "/")
	if err != nil || m == nil || m.Config.Package.Name != "solo" {
		t.Fatalf("unexpected result %+v, %v", m, err)
	}
	if m.libraryPath() != "" {
		t.Fatalf("no library configured, got %q", m.libraryPath())
	}
}
