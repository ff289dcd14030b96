package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"keelc/internal/diag"
	"keelc/internal/diagfmt"
	"keelc/internal/driver"
	"keelc/internal/observ"
)

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve [flags] [program.kexp|directory]...",
		Short: "Resolve names of expanded programs",
		Long: `Resolve names of programs written by the expansion pass (*.kexp) against their
own modules and an optional precompiled library. Without arguments the
directory of keelc.toml is searched for programs.`,
		RunE: runResolve,
	}
	cmd.Flags().String("lib", "", "precompiled library written by 'keelc summarize'")
	cmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	cmd.Flags().String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	cmd.Flags().StringSlice("allow", nil, "warning categories or codes to suppress (e.g. unused,UNC4001)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	cmd.Flags().Bool("watch", false, "re-resolve when program files change")
	cmd.Flags().Bool("deps", false, "print module dependencies found in specification blocks")
	cmd.Flags().Bool("emit", false, "print the resolved program")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("no-cache", false, "do not use the on-disk result cache")
	return cmd
}

type resolveFlags struct {
	lib       string
	format    string
	pathMode  diagfmt.PathMode
	allow     []string
	jobs      int
	ui        uiMode
	watch     bool
	deps      bool
	emit      bool
	withNotes bool
	noCache   bool
	quiet     bool
	timings   bool
	maxDiag   int
}

func readResolveFlags(cmd *cobra.Command, manifest *projectManifest) (resolveFlags, error) {
	var (
		f   resolveFlags
		err error
	)
	flags := cmd.Flags()
	if f.lib, err = flags.GetString("lib"); err != nil {
		return f, fmt.Errorf("failed to get lib flag: %w", err)
	}
	if f.format, err = flags.GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	if err = validFormat(f.format); err != nil {
		return f, err
	}
	pathMode, err := flags.GetString("path-mode")
	if err != nil {
		return f, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if f.pathMode, err = diagfmt.ParsePathMode(pathMode); err != nil {
		return f, err
	}
	if f.allow, err = flags.GetStringSlice("allow"); err != nil {
		return f, fmt.Errorf("failed to get allow flag: %w", err)
	}
	if f.jobs, err = flags.GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiStr); err != nil {
		return f, err
	}
	if f.watch, err = flags.GetBool("watch"); err != nil {
		return f, fmt.Errorf("failed to get watch flag: %w", err)
	}
	if f.deps, err = flags.GetBool("deps"); err != nil {
		return f, fmt.Errorf("failed to get deps flag: %w", err)
	}
	if f.emit, err = flags.GetBool("emit"); err != nil {
		return f, fmt.Errorf("failed to get emit flag: %w", err)
	}
	if f.withNotes, err = flags.GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.noCache, err = flags.GetBool("no-cache"); err != nil {
		return f, fmt.Errorf("failed to get no-cache flag: %w", err)
	}

	root := cmd.Root().PersistentFlags()
	if f.quiet, err = root.GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.timings, err = root.GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.maxDiag, err = root.GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	// CLI flags override the manifest
	if manifest != nil {
		cfg := manifest.Config.Naming
		if !root.Changed("max-diagnostics") && cfg.MaxDiagnostics > 0 {
			f.maxDiag = cfg.MaxDiagnostics
		}
		if !flags.Changed("lib") {
			f.lib = manifest.libraryPath()
		}
		if !flags.Changed("allow") {
			f.allow = cfg.Allow
		}
	}
	if _, err := diag.NewWarningFilter(f.allow); err != nil {
		return f, fmt.Errorf("invalid --allow: %w", err)
	}
	if f.emit && f.format != "pretty" && f.format != "short" {
		return f, fmt.Errorf("--emit requires --format pretty|short")
	}
	return f, nil
}

// runResolve executes the "resolve" command. It exits with status 1 when any
// program has errors or could not be loaded.
func runResolve(cmd *cobra.Command, args []string) error {
	configPath, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	manifest, err := loadProjectManifest(configPath, ".")
	if err != nil {
		return err
	}

	cleanup, err := setupTracing(cmd, manifest)
	if err != nil {
		return err
	}
	defer cleanup()
	defer dumpTraceOnPanic()

	stopProfiling, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	defer stopProfiling()

	f, err := readResolveFlags(cmd, manifest)
	if err != nil {
		return err
	}
	colorOn, err := useColor(cmd, stdoutFile(cmd))
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		if manifest == nil {
			return fmt.Errorf("no input programs and no %s found", manifestName)
		}
		inputs = []string{manifest.Root}
	}
	files, err := driver.ExpandPaths(inputs)
	if err != nil {
		return fmt.Errorf("failed to collect programs: %w", err)
	}
	if len(files) == 0 {
		return fmt.Errorf("no %s programs found", driver.ProgramExt)
	}

	timer := observ.NewTimer()
	opts := driver.Options{
		MaxDiagnostics: f.maxDiag,
		Allow:          f.allow,
		KeepAST:        f.emit,
		Jobs:           f.jobs,
	}
	if f.lib != "" {
		idx := timer.Begin("load library")
		lib, err := driver.LoadLibrary(f.lib)
		if err != nil {
			return err
		}
		opts.Library = lib
		timer.End(idx, fmt.Sprintf("%d modules", len(lib.ModuleSummaries())))
	}
	if !f.noCache {
		cache, err := driver.OpenDiskCache("keelc")
		if err != nil {
			if !f.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: result cache disabled: %v\n", err)
			}
		} else {
			opts.Cache = cache
		}
	}

	ropts := renderOptions{
		Format:    f.format,
		Color:     colorOn,
		PathMode:  f.pathMode,
		WithNotes: f.withNotes,
		Deps:      f.deps,
		Emit:      f.emit,
		Quiet:     f.quiet,
		Args:      os.Args[1:],
	}
	useTUI := !f.quiet && f.format == "pretty" && shouldUseTUI(f.ui, len(files))

	ctx := cmd.Context()
	if f.watch {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, os.Interrupt)
		defer stop()
	}

	once := func(ctx context.Context) (int, error) {
		return resolveOnce(ctx, cmd.OutOrStdout(), files, opts, ropts, useTUI, timer)
	}

	exit, err := once(ctx)
	if err != nil {
		return err
	}
	if f.timings {
		if err := timer.WriteSummary(cmd.ErrOrStderr()); err != nil {
			return err
		}
	}

	if f.watch {
		if !f.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "watching %d program(s), press Ctrl+C to stop\n", len(files))
		}
		err := driver.Watch(ctx, files, driver.DefaultDebounce, func(changed []string) {
			if !f.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "\n%d program(s) changed, resolving again\n", len(changed))
			}
			timer = observ.NewTimer()
			if _, err := resolveOnce(ctx, cmd.OutOrStdout(), files, opts, ropts, false, timer); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	}

	if exit != 0 {
		return exitError{code: exit}
	}
	return nil
}

// resolveOnce runs one resolve pass over files and renders the results.
func resolveOnce(ctx context.Context, out io.Writer, files []string, opts driver.Options, ropts renderOptions, useTUI bool, timer *observ.Timer) (int, error) {
	idx := timer.Begin("resolve")
	var (
		results []*driver.FileResult
		err     error
	)
	if useTUI {
		results, err = runResolveWithUI(ctx, "resolving", files, opts)
	} else {
		results, err = driver.ResolveFiles(ctx, files, &opts)
	}
	if err != nil {
		return 0, fmt.Errorf("resolution failed: %w", err)
	}
	cached := 0
	for _, r := range results {
		if r.Cached {
			cached++
		}
	}
	timer.End(idx, fmt.Sprintf("%d programs, %d cached", len(results), cached))
	for _, r := range results {
		note := ""
		if r.Cached {
			note = "cached"
		}
		timer.Record(r.Path, r.Elapsed, note)
	}

	idx = timer.Begin("render")
	if err := renderResults(out, results, ropts); err != nil {
		return 0, err
	}
	timer.End(idx, "")

	exit := 0
	for _, r := range results {
		if r.HasErrors() {
			exit = 1
			break
		}
	}
	return exit, nil
}
