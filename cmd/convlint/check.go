package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"convlint/internal/diag"
	"convlint/internal/diagfmt"
	"convlint/internal/metrics"
	"convlint/internal/rules"
	"convlint/internal/snapshot"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] [snapshot|directory]...",
	Short: "Report convention violations in syntax-tree snapshots",
	Long:  `Load .json/.yaml/.msgpack snapshots, run every enabled detector and report the diagnostics. Directories are searched recursively.`,
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (pretty|short|json|sarif); default from config")
	checkCmd.Flags().String("ui", "auto", "progress view for multi-file runs (auto|on|off)")
	checkCmd.Flags().Bool("watch", false, "re-run a full check when a snapshot changes")
	checkCmd.Flags().String("metrics-out", "", "write Prometheus metrics to this textfile after each run")
	checkCmd.Flags().String("metrics-addr", "", "serve Prometheus metrics on this address in --watch mode")
	checkCmd.Flags().Int("jobs", 0, "max parallel detector workers (0 = from config or GOMAXPROCS)")
	checkCmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	checkCmd.Flags().Bool("preview", false, "show before/after lines for suggested fixes")
	checkCmd.Flags().String("path-mode", "", "how paths are printed (auto|absolute|relative|basename); default from config")
	checkCmd.Flags().Int8("context", 0, "source lines of context around each diagnostic")
	checkCmd.Flags().Bool("no-warnings", false, "drop warnings and infos from the output")
	checkCmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
}

// checkOptions collects the flag values of one check invocation.
type checkOptions struct {
	render           renderOptions
	ui               uiMode
	watch            bool
	metricsOut       string
	metricsAddr      string
	jobs             int
	noWarnings       bool
	warningsAsErrors bool
}

func readCheckOptions(cmd *cobra.Command, s *session, args []string) (checkOptions, error) {
	var opts checkOptions
	flags := cmd.Flags()

	formatStr, err := flags.GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	if formatStr == "" {
		formatStr = s.cfg.Output.Format
	}
	if opts.render.format, err = readFormat(formatStr); err != nil {
		return opts, err
	}

	uiStr, err := flags.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiStr); err != nil {
		return opts, err
	}

	pathModeStr, err := flags.GetString("path-mode")
	if err != nil {
		return opts, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	if pathModeStr == "" {
		pathModeStr = s.cfg.Output.PathMode
	}
	if opts.render.pathMode, err = diagfmt.ParsePathMode(pathModeStr); err != nil {
		return opts, err
	}

	if opts.watch, err = flags.GetBool("watch"); err != nil {
		return opts, fmt.Errorf("failed to get watch flag: %w", err)
	}
	if opts.metricsOut, err = flags.GetString("metrics-out"); err != nil {
		return opts, fmt.Errorf("failed to get metrics-out flag: %w", err)
	}
	if opts.metricsAddr, err = flags.GetString("metrics-addr"); err != nil {
		return opts, fmt.Errorf("failed to get metrics-addr flag: %w", err)
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.render.notes, err = flags.GetBool("with-notes"); err != nil {
		return opts, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if opts.render.suggest, err = flags.GetBool("suggest"); err != nil {
		return opts, fmt.Errorf("failed to get suggest flag: %w", err)
	}
	if opts.render.preview, err = flags.GetBool("preview"); err != nil {
		return opts, fmt.Errorf("failed to get preview flag: %w", err)
	}
	if opts.render.context, err = flags.GetInt8("context"); err != nil {
		return opts, fmt.Errorf("failed to get context flag: %w", err)
	}
	if opts.noWarnings, err = flags.GetBool("no-warnings"); err != nil {
		return opts, fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	if opts.warningsAsErrors, err = flags.GetBool("warnings-as-errors"); err != nil {
		return opts, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	if opts.noWarnings && opts.warningsAsErrors {
		return opts, fmt.Errorf("no-warnings and warnings-as-errors flags cannot be used together")
	}
	if opts.metricsAddr != "" && !opts.watch {
		return opts, fmt.Errorf("--metrics-addr requires --watch")
	}
	if opts.render.preview {
		opts.render.suggest = true
	}

	opts.render.color = s.color
	opts.render.args = args
	return opts, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		args = []string{"."}
	}
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	opts, err := readCheckOptions(cmd, s, args)
	if err != nil {
		return err
	}

	m := metrics.New()
	engine, err := s.engine(opts.jobs, m)
	if err != nil {
		return err
	}
	opts.render.rules = engine.Registry().Rules()
	base := baseDir(args)

	check := func(ctx context.Context) (bool, error) {
		files, err := snapshot.Discover(args)
		if err != nil {
			return false, fmt.Errorf("check: %w", err)
		}
		s.log.WithField("files", len(files)).Debug("snapshots discovered")

		var p *pass
		if shouldUseTUI(opts.ui, len(files), opts.render.format) && !opts.watch {
			p, err = runPassWithUI(ctx, s, engine, base, files)
		} else {
			p, err = runPass(ctx, s, engine, base, files, nil)
		}
		if err != nil {
			return false, err
		}
		return report(s, p, opts, m)
	}

	if opts.watch {
		return watch(cmd.Context(), s, args, opts, m, check)
	}

	failed, err := check(cmd.Context())
	if err != nil {
		return err
	}
	if failed {
		return errFindings
	}
	return nil
}

// report renders one pass and reports whether it has errors.
func report(s *session, p *pass, opts checkOptions, m *metrics.Metrics) (bool, error) {
	bag := p.bag(bagLimit(s.maxDiagnostics, len(p.files)))
	if opts.noWarnings {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity == diag.SevError })
	}
	if opts.warningsAsErrors {
		bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				return d.WithSeverity(diag.SevError)
			}
			return d
		})
	}

	ro := opts.render
	if ro.suggest {
		ro.fixes = p.fixHints(rules.NewFixRegistry())
	}
	if err := render(os.Stdout, bag, p.fs, ro); err != nil {
		return false, fmt.Errorf("failed to write output: %w", err)
	}

	skipped := 0
	for _, res := range p.results {
		if res != nil && res.Skipped {
			skipped++
		}
	}
	if ro.format == formatPretty && !s.quiet {
		summary(os.Stdout, bag, len(p.files), skipped)
	}
	if s.timings {
		printTimings(os.Stderr, p.results)
	}
	if opts.metricsOut != "" {
		if err := m.WriteTextfile(opts.metricsOut); err != nil {
			return false, fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return bag.HasErrors(), nil
}
