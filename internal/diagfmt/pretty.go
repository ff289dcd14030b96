package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"keelc/internal/diag"
	"keelc/internal/source"
)

const tabWidth = 4

type palette struct {
	err     *color.Color
	warning *color.Color
	info    *color.Color
	note    *color.Color
	code    *color.Color
	gutter  *color.Color
	caret   *color.Color
	path    *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		note:    color.New(color.FgCyan),
		code:    color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		path:    color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warning, p.info, p.note, p.code, p.gutter, p.caret, p.path} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warning
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes с аналогичным форматом.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Pointers() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeDiagnostic(w, p, d, fs, opts)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, summaryLine(bag))
}

func writeDiagnostic(w io.Writer, p palette, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := p.severity(d.Severity)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprint(location(fs, d.Primary, opts.PathMode)),
		sev.Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message,
	)
	writeSnippet(w, p, fs, d.Primary, int(opts.Context), opts.Width)

	if !opts.ShowNotes {
		return
	}
	for _, note := range d.Notes {
		fmt.Fprintf(w, "  %s %s: %s\n",
			p.note.Sprint("note:"),
			location(fs, note.Span, opts.PathMode),
			note.Msg,
		)
		writeSnippet(w, p, fs, note.Span, 0, opts.Width)
	}
}

func location(fs *source.FileSet, span source.Span, mode PathMode) string {
	path := displayPath(fs, span.File, mode)
	if fs == nil || fs.Get(span.File) == nil {
		return path
	}
	start, _ := fs.Resolve(span)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

// writeSnippet prints the source line of span with a caret underline. Files
// without content (and library spans) produce no snippet.
func writeSnippet(w io.Writer, p palette, fs *source.FileSet, span source.Span, context int, width uint8) {
	if fs == nil {
		return
	}
	f := fs.Get(span.File)
	if f == nil || len(f.Content) == 0 || int(span.Start) > len(f.Content) {
		return
	}
	start, end := fs.Resolve(span)
	firstLine := start.Line
	if context > 0 {
		firstLine = uint32(max(1, int(start.Line)-context))
	}
	gutterWidth := len(strconv.FormatUint(uint64(start.Line), 10))
	pad := strings.Repeat(" ", gutterWidth)

	for ln := firstLine; ln <= start.Line; ln++ {
		text := expandTabs(f.Line(ln))
		if width > 0 {
			text = runewidth.Truncate(text, int(width), "...")
		}
		fmt.Fprintf(w, " %s %s %s\n", p.gutter.Sprintf("%*d", gutterWidth, ln), p.gutter.Sprint("|"), text)
	}

	line := f.Line(start.Line)
	col := int(start.Col) - 1
	col = min(max(col, 0), len(line))
	lineEnd := len(line)
	if end.Line == start.Line {
		lineEnd = min(max(int(end.Col)-1, col), len(line))
	}
	offset := runewidth.StringWidth(expandTabs(line[:col]))
	under := max(runewidth.StringWidth(expandTabs(line[col:lineEnd])), 1)
	underline := "^" + strings.Repeat("~", under-1)
	fmt.Fprintf(w, " %s %s %s%s\n", pad, p.gutter.Sprint("|"), strings.Repeat(" ", offset), p.caret.Sprint(underline))
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func summaryLine(bag *diag.Bag) string {
	errs := bag.CountBySeverity(diag.SevError)
	warns := bag.CountBySeverity(diag.SevWarning)
	return fmt.Sprintf("%s, %s", plural(errs, "error"), plural(warns, "warning"))
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
