package driver

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"time"

	"keelc/internal/diag"
	"keelc/internal/expansion"
	"keelc/internal/naming"
	"keelc/internal/source"
	"keelc/internal/trace"
)

// Options configures a resolve run.
type Options struct {
	Library        *Library
	MaxDiagnostics int
	// Allow lists warning categories and codes suppressed for the whole
	// program, as accepted by diag.NewWarningFilter.
	Allow []string
	// Cache is consulted unless KeepAST is set. May be nil.
	Cache *DiskCache
	// KeepAST makes the result carry the naming AST; cached results do not
	// have one.
	KeepAST  bool
	Jobs     int
	Progress ProgressSink
}

// ModuleDeps lists the specification dependencies of one module or script.
type ModuleDeps struct {
	Owner string           `msgpack:"owner"`
	Deps  []naming.SpecDep `msgpack:"deps"`
}

// FileResult is the outcome of resolving one program file.
type FileResult struct {
	Path    string
	FileSet *source.FileSet
	Bag     *diag.Bag
	// Program is nil when the result came from the cache.
	Program  *naming.Program
	Deps     []ModuleDeps
	Filtered int
	Cached   bool
	Elapsed  time.Duration
	// Err is set when the file could not be read or decoded.
	Err error
}

// HasErrors reports whether the program failed to resolve.
func (r *FileResult) HasErrors() bool {
	return r.Err != nil || (r.Bag != nil && r.Bag.HasErrors())
}

// LoadProgram reads a program written by the expansion pass.
func LoadProgram(path string) (*expansion.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	prog, err := expansion.DecodeProgram(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return prog, nil
}

// WriteProgram writes prog in the hand-off format.
func WriteProgram(path string, prog *expansion.Program) error {
	var buf bytes.Buffer
	if err := expansion.EncodeProgram(&buf, prog); err != nil {
		return err
	}
	return writeFileAtomic(path, buf.Bytes())
}

// ResolveFile loads and resolves one program file. I/O and decoding
// failures are returned as errors; problems in the program are diagnostics.
func ResolveFile(ctx context.Context, path string, opts *Options) (*FileResult, error) {
	if opts == nil {
		opts = &Options{}
	}
	start := time.Now()
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "resolve_file", trace.CurrentSpan(ctx)).
		WithExtra("path", path)
	defer span.End("")

	emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusWorking})
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read program: %w", err)
	}
	var key Digest
	useCache := opts.Cache != nil && !opts.KeepAST
	if useCache {
		key = resultKey(data, opts.Library.Digest(), opts.Allow)
		cached, ok, cacheErr := opts.Cache.Get(key)
		if cacheErr != nil {
			trace.Point(tracer, trace.ScopeDriver, "cache_error", cacheErr.Error(), span.ID())
		}
		if ok {
			prog, err := expansion.DecodeProgram(bytes.NewReader(data))
			if err != nil {
				return nil, fmt.Errorf("%s: %w", path, err)
			}
			res := fromCache(path, prog, cached, opts.MaxDiagnostics)
			res.Elapsed = time.Since(start)
			span.WithExtra("cached", "true")
			return res, nil
		}
	}
	prog, err := expansion.DecodeProgram(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	emit(opts.Progress, Event{File: path, Stage: StageResolve, Status: StatusWorking})
	res, err := ResolveProgram(trace.WithSpan(ctx, span), path, prog, opts)
	if err != nil {
		return nil, err
	}
	if useCache {
		entry := &CachedResult{Diagnostics: res.Bag.Items(), Deps: res.Deps, Filtered: res.Filtered}
		if err := opts.Cache.Put(key, entry); err != nil {
			trace.Point(tracer, trace.ScopeDriver, "cache_error", err.Error(), span.ID())
		}
	}
	if !opts.KeepAST {
		res.Program = nil
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

// ResolveProgram resolves an in-memory program. Diagnostics carried over
// from earlier passes are replayed first, so the global warning filter
// applies to them too.
func ResolveProgram(ctx context.Context, path string, prog *expansion.Program, opts *Options) (*FileResult, error) {
	if opts == nil {
		opts = &Options{}
	}
	global, err := diag.NewWarningFilter(opts.Allow)
	if err != nil {
		return nil, err
	}
	fs := fileSetOf(prog)
	bag := diag.NewBag(opts.MaxDiagnostics)
	sink := diag.NewSink(diag.NewDedupReporter(diag.BagReporter{Bag: bag}), global)
	for _, d := range prog.Diagnostics {
		sink.Report(d.Code, d.Severity, d.Primary, d.Message, d.Notes)
	}

	out := naming.Resolve(sink, opts.Library, prog, naming.Options{
		Tracer: trace.FromContext(ctx),
		Parent: trace.CurrentSpan(ctx),
	})
	base := 0
	if !global.IsEmpty() {
		base = 1
	}
	if sink.FilterDepth() != base {
		panic("ICE: unbalanced warning filters after naming")
	}
	bag.Sort()
	return &FileResult{
		Path:     path,
		FileSet:  fs,
		Bag:      bag,
		Program:  out,
		Deps:     collectDeps(out),
		Filtered: sink.FilteredCount(),
	}, nil
}

func fromCache(path string, prog *expansion.Program, cached *CachedResult, maxDiagnostics int) *FileResult {
	bag := diag.NewBag(maxDiagnostics)
	for _, d := range cached.Diagnostics {
		bag.Add(d)
	}
	return &FileResult{
		Path:     path,
		FileSet:  fileSetOf(prog),
		Bag:      bag,
		Deps:     cached.Deps,
		Filtered: cached.Filtered,
		Cached:   true,
	}
}

// fileSetOf rebuilds the file table the program's spans point into.
func fileSetOf(prog *expansion.Program) *source.FileSet {
	fs := source.NewFileSet()
	for _, f := range prog.Files {
		fs.Add(f.Path, f.Content)
	}
	return fs
}

func collectDeps(p *naming.Program) []ModuleDeps {
	out := make([]ModuleDeps, 0, len(p.Modules)+len(p.Scripts))
	for _, m := range p.Modules {
		if m.SpecDeps.Len() > 0 {
			out = append(out, ModuleDeps{Owner: m.Ident.String(), Deps: m.SpecDeps.Sorted()})
		}
	}
	for _, s := range p.Scripts {
		if s.SpecDeps.Len() > 0 {
			out = append(out, ModuleDeps{Owner: "script " + s.Name, Deps: s.SpecDeps.Sorted()})
		}
	}
	return out
}
