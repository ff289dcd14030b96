package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"keelc/internal/diag"
	"keelc/internal/diagfmt"
	"keelc/internal/driver"
	"keelc/internal/naming"
	"keelc/internal/source"
	"keelc/internal/version"
)

type renderOptions struct {
	Format    string
	Color     bool
	PathMode  diagfmt.PathMode
	WithNotes bool
	Deps      bool
	Emit      bool
	Quiet     bool
	Args      []string
}

func validFormat(format string) error {
	switch format {
	case "pretty", "short", "json", "sarif":
		return nil
	}
	return fmt.Errorf("unknown format: %s (expected pretty|short|json|sarif)", format)
}

// renderResults writes the outcome of a resolve run in the requested format.
func renderResults(w io.Writer, results []*driver.FileResult, opts renderOptions) error {
	switch opts.Format {
	case "pretty":
		return renderPretty(w, results, opts)
	case "short":
		return renderShort(w, results, opts)
	case "json":
		return renderJSON(w, results, opts)
	case "sarif":
		inputs := make([]diagfmt.SarifInput, 0, len(results))
		for _, r := range results {
			inputs = append(inputs, diagfmt.SarifInput{Bag: r.Bag, FileSet: r.FileSet})
		}
		return diagfmt.Sarif(w, inputs, diagfmt.SarifRunMeta{
			ToolName:       "keelc",
			ToolVersion:    version.Version,
			InvocationArgs: opts.Args,
		})
	default:
		return validFormat(opts.Format)
	}
}

func renderPretty(w io.Writer, results []*driver.FileResult, opts renderOptions) error {
	errColor := color.New(color.FgRed, color.Bold)
	headColor := color.New(color.Bold)
	if opts.Color {
		errColor.EnableColor()
		headColor.EnableColor()
	} else {
		errColor.DisableColor()
		headColor.DisableColor()
	}
	prettyOpts := diagfmt.PrettyOpts{
		Color:     opts.Color,
		Context:   1,
		PathMode:  opts.PathMode,
		ShowNotes: opts.WithNotes,
	}

	for idx, r := range results {
		if len(results) > 1 {
			if idx > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintln(w, headColor.Sprintf("== %s ==", r.Path))
		}
		if r.Err != nil {
			fmt.Fprintf(w, "%s %v\n", errColor.Sprint("error:"), r.Err)
			continue
		}
		diagfmt.Pretty(w, r.Bag, r.FileSet, prettyOpts)
		if r.Filtered > 0 && !opts.Quiet {
			fmt.Fprintf(w, "(%d suppressed by allow list)\n", r.Filtered)
		}
		if opts.Deps {
			writeDeps(w, r)
		}
		if opts.Emit && r.Program != nil {
			if err := naming.Dump(w, r.Program); err != nil {
				return fmt.Errorf("failed to dump %s: %w", r.Path, err)
			}
		}
	}
	if opts.Deps {
		writeDepOrder(w, driver.DependencyOrder(results))
	}
	return nil
}

func renderShort(w io.Writer, results []*driver.FileResult, opts renderOptions) error {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(w, "error %s %v\n", r.Path, r.Err)
			continue
		}
		if out := diag.FormatShortDiagnostics(r.Bag.Pointers(), r.FileSet, opts.WithNotes); out != "" {
			fmt.Fprintln(w, out)
		}
		if opts.Deps {
			writeDeps(w, r)
		}
		if opts.Emit && r.Program != nil {
			if err := naming.Dump(w, r.Program); err != nil {
				return fmt.Errorf("failed to dump %s: %w", r.Path, err)
			}
		}
	}
	if opts.Deps {
		writeDepOrder(w, driver.DependencyOrder(results))
	}
	return nil
}

type depJSON struct {
	Module   string `json:"module"`
	Neighbor string `json:"neighbor"`
}

type ownerDepsJSON struct {
	Owner string    `json:"owner"`
	Deps  []depJSON `json:"deps"`
}

type fileJSON struct {
	Path   string                    `json:"path"`
	Error  string                    `json:"error,omitempty"`
	Cached bool                      `json:"cached,omitempty"`
	Result diagfmt.DiagnosticsOutput `json:"result"`
	Deps   []ownerDepsJSON           `json:"deps,omitempty"`
}

func renderJSON(w io.Writer, results []*driver.FileResult, opts renderOptions) error {
	out := make([]fileJSON, 0, len(results))
	for _, r := range results {
		fj := fileJSON{Path: r.Path, Cached: r.Cached}
		if r.Err != nil {
			fj.Error = r.Err.Error()
			fj.Result.Diagnostics = []diagfmt.DiagnosticJSON{}
			out = append(out, fj)
			continue
		}
		fj.Result = diagfmt.BuildDiagnosticsOutput(r.Bag, r.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.PathMode,
			IncludeNotes:     opts.WithNotes,
		})
		fj.Result.Filtered = r.Filtered
		if opts.Deps {
			for _, md := range r.Deps {
				od := ownerDepsJSON{Owner: md.Owner, Deps: make([]depJSON, 0, len(md.Deps))}
				for _, d := range md.Deps {
					od.Deps = append(od.Deps, depJSON{Module: d.Module.String(), Neighbor: d.Neighbor.String()})
				}
				fj.Deps = append(fj.Deps, od)
			}
		}
		out = append(out, fj)
	}
	return encodeJSON(w, out)
}

func writeDeps(w io.Writer, r *driver.FileResult) {
	for _, md := range r.Deps {
		fmt.Fprintf(w, "spec deps of %s:\n", md.Owner)
		for _, d := range md.Deps {
			fmt.Fprintf(w, "  %s %s%s\n", d.Neighbor, d.Module, depLocation(r.FileSet, d.Span))
		}
	}
}

// writeDepOrder prints modules in verification order, one batch per line.
func writeDepOrder(w io.Writer, order driver.DepOrder) {
	if len(order.Batches) == 0 && len(order.Cycle) == 0 {
		return
	}
	fmt.Fprintln(w, "spec dependency order:")
	for i, batch := range order.Batches {
		fmt.Fprintf(w, "  %d: %s\n", i+1, strings.Join(batch, ", "))
	}
	if len(order.Cycle) > 0 {
		fmt.Fprintf(w, "  cycle: %s\n", strings.Join(order.Cycle, ", "))
	}
}

func depLocation(fs *source.FileSet, sp source.Span) string {
	if fs == nil {
		return ""
	}
	f := fs.Get(sp.File)
	if f == nil {
		return ""
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf(" (%s:%d:%d)", strings.TrimPrefix(f.Path, "./"), start.Line, start.Col)
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
