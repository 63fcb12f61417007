package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"convlint/internal/diag"
	"convlint/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note, fix       *color.Color
	removed, added  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		code:    color.New(color.Bold),
		path:    color.New(color.FgWhite, color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgGreen, color.Bold),
		note:    color.New(color.FgCyan),
		fix:     color.New(color.FgGreen),
		removed: color.New(color.FgRed),
		added:   color.New(color.FgGreen),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note, p.fix, p.removed, p.added} {
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
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeDiagnostic(w, d, fs, opts, pal)
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	file := fs.Get(d.Primary.File)
	if file == nil {
		fmt.Fprintf(w, "%s %s: %s\n", pal.severity(d.Severity).Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message)
		return
	}
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		pal.path.Sprint(displayPath(file, fs, opts.PathMode)), start.Line, start.Col,
		pal.severity(d.Severity).Sprint(d.Severity.String()),
		pal.code.Sprint(d.Code.ID()),
		d.Message)

	writeSnippet(w, file, start, end, opts, pal)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			nstart, _ := fs.Resolve(note.Span)
			loc := ""
			if nf := fs.Get(note.Span.File); nf != nil {
				loc = fmt.Sprintf("%s:%d:%d: ", displayPath(nf, fs, opts.PathMode), nstart.Line, nstart.Col)
			}
			fmt.Fprintf(w, "  %s %s%s\n", pal.note.Sprint("note:"), loc, note.Msg)
		}
	}

	if opts.ShowFixes {
		for _, hint := range opts.Fixes.lookup(d) {
			fmt.Fprintf(w, "  %s %s (%s)", pal.fix.Sprint("fix:"), hint.Title, hint.Applicability)
			if hint.ID != "" {
				fmt.Fprintf(w, " [%s]", hint.ID)
			}
			fmt.Fprintln(w)
			if !opts.ShowPreview {
				continue
			}
			for _, edit := range hint.Edits {
				preview, err := buildPreview(fs, edit)
				if err != nil {
					continue
				}
				for _, line := range preview.before {
					fmt.Fprintf(w, "    %s\n", pal.removed.Sprint("- "+clip(expandTabs(line), opts.Width)))
				}
				for _, line := range preview.after {
					fmt.Fprintf(w, "    %s\n", pal.added.Sprint("+ "+clip(expandTabs(line), opts.Width)))
				}
			}
		}
	}
}

// writeSnippet prints the primary line with opts.Context lines around it and
// a caret line under the span. Multi-line spans are underlined to the end of
// the first line.
func writeSnippet(w io.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts, pal palette) {
	ctx := uint32(max(opts.Context, 0))
	first := start.Line
	if first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := start.Line + ctx
	gutterWidth := len(fmt.Sprint(last))

	for ln := first; ln <= last; ln++ {
		raw := file.GetLine(ln)
		if raw == "" && ln != start.Line {
			if ln > start.Line {
				break
			}
			continue
		}
		fmt.Fprintf(w, " %s %s %s\n", pal.gutter.Sprintf("%*d", gutterWidth, ln), pal.gutter.Sprint("|"), clip(expandTabs(raw), opts.Width))
		if ln != start.Line {
			continue
		}
		startCol := int(start.Col) - 1
		endCol := len(raw)
		if end.Line == start.Line {
			endCol = int(end.Col) - 1
		}
		startCol = min(max(startCol, 0), len(raw))
		endCol = min(max(endCol, startCol), len(raw))
		pad := runewidth.StringWidth(expandTabs(raw[:startCol]))
		span := runewidth.StringWidth(expandTabs(raw[startCol:endCol]))
		marker := "^"
		if span > 1 {
			marker += strings.Repeat("~", span-1)
		}
		fmt.Fprintf(w, " %s %s %s%s\n", strings.Repeat(" ", gutterWidth), pal.gutter.Sprint("|"), strings.Repeat(" ", pad), pal.caret.Sprint(marker))
	}
}

func displayPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	default:
		return f.FormatPath(mode.String(), "")
	}
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// clip truncates s to width display cells; zero means no limit.
func clip(s string, width uint8) string {
	if width == 0 || runewidth.StringWidth(s) <= int(width) {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, int(width), "")
	}
	return runewidth.Truncate(s, int(width), "...")
}

// Short writes one line per diagnostic: "<sev> <CODE> <path>:<line>:<col> <message>".
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, false)
	if out == "" {
		return nil
	}
	_, err := fmt.Fprintln(w, out)
	return err
}
