package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/diagfmt"
	"convlint/internal/observ"
	"convlint/internal/source"
	"convlint/internal/version"
)

type outputFormat string

const (
	formatPretty outputFormat = "pretty"
	formatShort  outputFormat = "short"
	formatJSON   outputFormat = "json"
	formatSarif  outputFormat = "sarif"
)

func readFormat(value string) (outputFormat, error) {
	switch f := outputFormat(strings.ToLower(strings.TrimSpace(value))); f {
	case formatPretty, formatShort, formatJSON, formatSarif:
		return f, nil
	case "":
		return formatPretty, nil
	}
	return "", fmt.Errorf("unknown format %q (expected pretty|short|json|sarif)", value)
}

// renderOptions is what check passes to the renderers.
type renderOptions struct {
	format   outputFormat
	color    bool
	pathMode diagfmt.PathMode
	context  int8
	notes    bool
	suggest  bool
	preview  bool
	max      int
	fixes    diagfmt.FixSource
	rules    []diag.Rule
	args     []string
}

func render(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts renderOptions) error {
	switch opts.format {
	case formatShort:
		return diagfmt.Short(w, bag, fs)
	case formatJSON:
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         opts.pathMode,
			Max:              opts.max,
			IncludeNotes:     opts.notes,
			IncludeFixes:     opts.suggest,
			IncludePreviews:  opts.preview,
			Fixes:            opts.fixes,
		})
	case formatSarif:
		return diagfmt.Sarif(w, bag, fs, diagfmt.SarifRunMeta{
			ToolName:       "convlint",
			ToolVersion:    version.Version,
			InvocationArgs: opts.args,
			Rules:          opts.rules,
			PathMode:       opts.pathMode,
		})
	default:
		width := 0
		if f, ok := w.(*os.File); ok && isTerminal(f) {
			width = terminalWidth(f)
		}
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:       opts.color,
			Context:     opts.context,
			PathMode:    opts.pathMode,
			Width:       uint8(min(max(width, 0), 255)),
			ShowNotes:   opts.notes,
			ShowFixes:   opts.suggest,
			ShowPreview: opts.preview,
			Fixes:       opts.fixes,
		})
		return nil
	}
}

// summary prints the trailing "N errors, M warnings" line of pretty output.
func summary(w io.Writer, bag *diag.Bag, files, skipped int) {
	var errs, warns, infos int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		default:
			infos++
		}
	}
	line := fmt.Sprintf("%d file(s) checked: %d error(s), %d warning(s), %d info", files, errs, warns, infos)
	if skipped > 0 {
		line += fmt.Sprintf(", %d generated file(s) skipped", skipped)
	}
	fmt.Fprintln(w, line)
}

// printTimings writes the per-file phase report to w, then the sum over
// every file.
func printTimings(w io.Writer, results []*analysis.Result) {
	fmt.Fprintln(w, "timings:")
	var total observ.Report
	for _, res := range results {
		if res == nil || res.Skipped {
			continue
		}
		total = total.Add(res.Timing)
		fmt.Fprintf(w, "  %s %7.2f ms\n", res.Path, res.Timing.TotalMS)
		writePhases(w, res.Timing)
	}
	fmt.Fprintf(w, "  total %7.2f ms\n", total.TotalMS)
	writePhases(w, total)
}

func writePhases(w io.Writer, report observ.Report) {
	for _, ph := range report.Phases {
		fmt.Fprintf(w, "    %-18s %7.2f ms", ph.Name, ph.DurationMS)
		if ph.Note != "" {
			fmt.Fprintf(w, "  // %s", ph.Note)
		}
		fmt.Fprintln(w)
	}
}
