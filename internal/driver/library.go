package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/vmihailenco/msgpack/v5"

	"keelc/internal/expansion"
)

// librarySchema is bumped whenever the encoded library layout changes.
const librarySchema uint16 = 1

const libraryMagic = "keel-library"

// Library is a set of precompiled module summaries. It implements
// naming.Precompiled and is shared read-only between concurrent runs.
type Library struct {
	Modules []expansion.ModuleSummary
	digest  Digest
}

type libraryFile struct {
	Magic   string                    `msgpack:"magic"`
	Schema  uint16                    `msgpack:"schema"`
	Modules []expansion.ModuleSummary `msgpack:"modules"`
}

// NewLibrary summarizes the modules of progs. A module defined more than once
// keeps its last definition. Spans are detached from the source files.
func NewLibrary(progs ...*expansion.Program) *Library {
	return buildLibrary(nil, progs)
}

// Extend returns a new library holding the modules of l, overridden by the
// modules of progs. l is not modified.
func (l *Library) Extend(progs ...*expansion.Program) *Library {
	return buildLibrary(l.ModuleSummaries(), progs)
}

func buildLibrary(seed []expansion.ModuleSummary, progs []*expansion.Program) *Library {
	byIdent := make(map[expansion.ModuleIdent]expansion.ModuleSummary, len(seed))
	for _, sum := range seed {
		byIdent[sum.Ident] = sum
	}
	for _, p := range progs {
		for _, sum := range expansion.Summarize(p) {
			sum.Detach()
			byIdent[sum.Ident] = sum
		}
	}
	mods := make([]expansion.ModuleSummary, 0, len(byIdent))
	for _, sum := range byIdent {
		mods = append(mods, sum)
	}
	slices.SortFunc(mods, func(a, b expansion.ModuleSummary) int {
		switch {
		case expansion.IdentLess(a.Ident, b.Ident):
			return -1
		case expansion.IdentLess(b.Ident, a.Ident):
			return 1
		}
		return 0
	})
	lib := &Library{Modules: mods}
	if data, err := lib.encode(); err == nil {
		lib.digest = digestOf(data)
	}
	return lib
}

// ModuleSummaries implements naming.Precompiled. A nil library is empty.
func (l *Library) ModuleSummaries() []expansion.ModuleSummary {
	if l == nil {
		return nil
	}
	return l.Modules
}

// Digest identifies the library contents for cache keys.
func (l *Library) Digest() Digest {
	if l == nil {
		return Digest{}
	}
	if !l.digest.IsZero() {
		return l.digest
	}
	data, err := l.encode()
	if err != nil {
		return Digest{}
	}
	return digestOf(data)
}

func (l *Library) encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	if err := enc.Encode(&libraryFile{Magic: libraryMagic, Schema: librarySchema, Modules: l.Modules}); err != nil {
		return nil, fmt.Errorf("encode library: %w", err)
	}
	return buf.Bytes(), nil
}

// SaveLibrary writes lib to path, replacing any existing file atomically.
func SaveLibrary(path string, lib *Library) error {
	data, err := lib.encode()
	if err != nil {
		return err
	}
	return writeFileAtomic(path, data)
}

// LoadLibrary reads a library written by SaveLibrary.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read library: %w", err)
	}
	var file libraryFile
	if err := msgpack.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("decode library %s: %w", path, err)
	}
	if file.Magic != libraryMagic {
		return nil, fmt.Errorf("%s is not a keelc library", path)
	}
	if file.Schema != librarySchema {
		return nil, fmt.Errorf("library %s has schema v%d, want v%d", path, file.Schema, librarySchema)
	}
	return &Library{Modules: file.Modules, digest: digestOf(data)}, nil
}

// writeFileAtomic пишет через временный файл и rename.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() {
		// после успешного rename файла уже нет
		_ = os.Remove(tmp)
	}()
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
