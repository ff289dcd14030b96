package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"keelc/internal/source"
)

// libraryPath stands for spans that point outside the program's files,
// i.e. into precompiled library declarations.
const libraryPath = "<library>"

type lineEntry struct {
	sev   Severity
	code  string
	loc   lineLoc
	msg   string
	notes []lineEntry
}

type lineLoc struct {
	path      string
	line, col uint32
	known     bool
}

func (l lineLoc) String() string {
	if !l.known {
		return libraryPath
	}
	return fmt.Sprintf("%s:%d:%d", l.path, l.line, l.col)
}

// FormatGoldenDiagnostics renders diagnostics one per line, ordered by
// location, for golden comparisons. Diagnostics and notes pointing outside
// the file set are dropped. Notes follow their diagnostic, indented.
func FormatGoldenDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatLines(diags, fs, includeNotes, true)
}

// FormatShortDiagnostics is the CLI short form: like FormatGoldenDiagnostics
// but library locations are kept and printed as <library>.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	return formatLines(diags, fs, includeNotes, false)
}

func formatLines(diags []*Diagnostic, fs *source.FileSet, includeNotes, dropUnknown bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	entries := make([]lineEntry, 0, len(diags))
	for _, d := range diags {
		if d == nil {
			continue
		}
		e := lineEntry{sev: d.Severity, code: d.Code.ID(), loc: locate(fs, d.Primary), msg: oneLine(d.Message)}
		if !e.loc.known && dropUnknown {
			continue
		}
		if includeNotes {
			for _, n := range d.Notes {
				nloc := locate(fs, n.Span)
				if !nloc.known && dropUnknown {
					continue
				}
				e.notes = append(e.notes, lineEntry{loc: nloc, msg: oneLine(n.Msg)})
			}
		}
		entries = append(entries, e)
	}

	// library entries sort after every file entry
	slices.SortStableFunc(entries, func(a, b lineEntry) int {
		if a.loc.known != b.loc.known {
			if a.loc.known {
				return -1
			}
			return 1
		}
		return cmp.Or(
			cmp.Compare(a.loc.path, b.loc.path),
			cmp.Compare(a.loc.line, b.loc.line),
			cmp.Compare(a.loc.col, b.loc.col),
			cmp.Compare(b.sev, a.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %s", e.sev.Label(), e.code, e.loc, e.msg)
		for _, n := range e.notes {
			fmt.Fprintf(&b, "\n  note %s %s", n.loc, n.msg)
		}
	}
	return b.String()
}

func locate(fs *source.FileSet, span source.Span) lineLoc {
	file := fs.Get(span.File)
	if file == nil {
		return lineLoc{}
	}
	start, _ := fs.Resolve(span)
	return lineLoc{
		path:  normalizePath(file.RelativePath(fs.BaseDir())),
		line:  start.Line,
		col:   start.Col,
		known: true,
	}
}

func normalizePath(path string) string {
	p := filepath.ToSlash(path)
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}

func oneLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
