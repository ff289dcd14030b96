package driver

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"keelc/internal/trace"
)

// ProgramExt is the extension of program files written by the expansion pass.
const ProgramExt = ".kexp"

// ExpandPaths turns files and directories into a sorted list of program
// files. Directories are walked for *.kexp files.
func ExpandPaths(paths []string) ([]string, error) {
	seen := make(map[string]struct{}, len(paths))
	var files []string
	add := func(p string) {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		files = append(files, p)
	}
	for _, root := range paths {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			// явно указанный файл принимаем с любым расширением
			if path == root || strings.HasSuffix(path, ProgramExt) {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ResolveFiles resolves every file with its own naming context. Up to
// opts.Jobs files run at once; only the library is shared. A file that
// cannot be loaded yields a result with Err set and does not stop the
// others. Results are in the order of paths.
func ResolveFiles(ctx context.Context, paths []string, opts *Options) ([]*FileResult, error) {
	if opts == nil {
		opts = &Options{}
	}
	results := make([]*FileResult, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeDriver, "resolve_files", trace.CurrentSpan(ctx)).
		WithExtra("files", fmt.Sprint(len(paths)))
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	for _, p := range paths {
		emit(opts.Progress, Event{File: p, Stage: StageLoad, Status: StatusQueued})
	}

	// Настраиваем параллелизм
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			// Проверка отмены
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			start := time.Now()
			res, err := ResolveFile(gctx, path, opts)
			if err != nil {
				res = &FileResult{Path: path, Err: err, Elapsed: time.Since(start)}
				emit(opts.Progress, Event{File: path, Stage: StageLoad, Status: StatusError, Err: err, Elapsed: res.Elapsed})
			} else {
				status := StatusDone
				if res.HasErrors() {
					status = StatusError
				}
				emit(opts.Progress, Event{File: path, Stage: StageResolve, Status: status, Elapsed: res.Elapsed, Cached: res.Cached})
			}
			// индекс i уникален, мьютекс не нужен
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
