package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"keelc/internal/diag"
	"keelc/internal/trace"
)

const manifestName = "keelc.toml"

type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Package packageConfig `toml:"package"`
	Naming  namingConfig  `toml:"naming"`
	Trace   traceConfig   `toml:"trace"`
}

type packageConfig struct {
	Name string `toml:"name"`
}

type namingConfig struct {
	MaxDiagnostics int      `toml:"max_diagnostics"`
	Allow          []string `toml:"allow"`
	Library        string   `toml:"library"`
}

type traceConfig struct {
	Level  string `toml:"level"`
	Output string `toml:"output"`
}

func findManifest(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// loadProjectManifest reads the manifest at explicit, or the first keelc.toml
// found walking up from startDir. A missing discovered manifest is not an error.
func loadProjectManifest(explicit, startDir string) (*projectManifest, error) {
	manifestPath := explicit
	if manifestPath == "" {
		found, ok, err := findManifest(startDir)
		if err != nil || !ok {
			return nil, err
		}
		manifestPath = found
	}
	cfg, err := loadProjectConfig(manifestPath)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest path: %w", err)
	}
	return &projectManifest{
		Path:   abs,
		Root:   filepath.Dir(abs),
		Config: cfg,
	}, nil
}

func loadProjectConfig(path string) (projectConfig, error) {
	var cfg projectConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return projectConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return projectConfig{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return projectConfig{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return projectConfig{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0])
	}
	if meta.IsDefined("naming", "max_diagnostics") && cfg.Naming.MaxDiagnostics <= 0 {
		return projectConfig{}, fmt.Errorf("%s: [naming].max_diagnostics must be positive", path)
	}
	if _, err := diag.NewWarningFilter(cfg.Naming.Allow); err != nil {
		return projectConfig{}, fmt.Errorf("%s: [naming].allow: %w", path, err)
	}
	if _, err := trace.ParseLevel(cfg.Trace.Level); err != nil {
		return projectConfig{}, fmt.Errorf("%s: [trace].level: %w", path, err)
	}
	return cfg, nil
}

// libraryPath returns the configured library relative to the manifest root.
func (m *projectManifest) libraryPath() string {
	if m == nil || strings.TrimSpace(m.Config.Naming.Library) == "" {
		return ""
	}
	lib := filepath.FromSlash(m.Config.Naming.Library)
	if filepath.IsAbs(lib) {
		return lib
	}
	return filepath.Join(m.Root, lib)
}
