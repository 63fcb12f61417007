package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"convlint/internal/diag"
	"convlint/internal/diagfmt"
	"convlint/internal/fix"
	"convlint/internal/metrics"
	"convlint/internal/rules"
	"convlint/internal/snapshot"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <snapshot|directory>...",
	Short: "Apply available fixes to syntax-tree snapshots",
	Long:  "Run the detectors, plan fixes for their diagnostics and apply them according to the chosen strategy. Nothing is written without --write.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply all safe fixes")
	fixCmd.Flags().Bool("once", false, "apply the first available fix (default)")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("allow-manual", false, "with --all, also apply fixes that need review")
	fixCmd.Flags().StringSlice("code", nil, "only fix these rules (STY3001 or 3001, repeatable)")
	fixCmd.Flags().Bool("write", false, "save fixed snapshots back to disk")
	fixCmd.Flags().Int("jobs", 0, "max parallel detector workers (0 = from config or GOMAXPROCS)")
	fixCmd.Flags().String("metrics-out", "", "write Prometheus metrics to this textfile")
}

// fixOptions collects the flag values of one fix invocation.
type fixOptions struct {
	apply      fix.ApplyOptions
	write      bool
	jobs       int
	metricsOut string
}

func readFixOptions(cmd *cobra.Command) (fixOptions, error) {
	var opts fixOptions
	flags := cmd.Flags()

	applyAll, err := flags.GetBool("all")
	if err != nil {
		return opts, fmt.Errorf("failed to get all flag: %w", err)
	}
	applyOnce, err := flags.GetBool("once")
	if err != nil {
		return opts, fmt.Errorf("failed to get once flag: %w", err)
	}
	targetID, err := flags.GetString("id")
	if err != nil {
		return opts, fmt.Errorf("failed to get id flag: %w", err)
	}
	allowManual, err := flags.GetBool("allow-manual")
	if err != nil {
		return opts, fmt.Errorf("failed to get allow-manual flag: %w", err)
	}
	codeArgs, err := flags.GetStringSlice("code")
	if err != nil {
		return opts, fmt.Errorf("failed to get code flag: %w", err)
	}
	if opts.write, err = flags.GetBool("write"); err != nil {
		return opts, fmt.Errorf("failed to get write flag: %w", err)
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.metricsOut, err = flags.GetString("metrics-out"); err != nil {
		return opts, fmt.Errorf("failed to get metrics-out flag: %w", err)
	}

	if targetID != "" && (applyAll || applyOnce) {
		return opts, fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return opts, fmt.Errorf("--all and --once are mutually exclusive")
	}
	if allowManual && !applyAll {
		return opts, fmt.Errorf("--allow-manual requires --all")
	}

	mode := fix.ApplyModeOnce
	if targetID != "" {
		mode = fix.ApplyModeID
	} else if applyAll {
		mode = fix.ApplyModeAll
	}
	codes, err := parseCodes(codeArgs)
	if err != nil {
		return opts, err
	}
	opts.apply = fix.ApplyOptions{
		Mode:        mode,
		TargetID:    targetID,
		Codes:       codes,
		AllowManual: allowManual,
	}
	return opts, nil
}

func parseCodes(args []string) ([]diag.Code, error) {
	codes := make([]diag.Code, 0, len(args))
	for _, arg := range args {
		code, ok := diag.ParseCode(arg)
		if !ok {
			return nil, fmt.Errorf("unknown rule %q", arg)
		}
		if !rules.Fixable(code) {
			return nil, fmt.Errorf("rule %s has no fixer", code.ID())
		}
		codes = append(codes, code)
	}
	return codes, nil
}

func runFix(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd, args)
	if err != nil {
		return err
	}
	defer s.close()

	opts, err := readFixOptions(cmd)
	if err != nil {
		return err
	}

	files, err := snapshot.Discover(args)
	if err != nil {
		return fmt.Errorf("fix: %w", err)
	}
	// id уникален только в пределах одного файла
	if opts.apply.Mode == fix.ApplyModeID && len(files) != 1 {
		return fmt.Errorf("fix: id can only be used with a single file")
	}

	m := metrics.New()
	engine, err := s.engine(opts.jobs, m)
	if err != nil {
		return err
	}
	p, err := runPass(cmd.Context(), s, engine, baseDir(args), files, nil)
	if err != nil {
		return err
	}
	if p.io.Len() > 0 {
		if err := diagfmt.Short(os.Stderr, p.io, p.fs); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}

	reg := rules.NewFixRegistry()
	out := cmd.OutOrStdout()
	total := 0
	for i, res := range p.results {
		if res == nil || res.Skipped {
			continue
		}
		path := p.loaded[i]
		res.Bag.Sort()
		opts.apply.Logger = s.log
		applied, applyErr := fix.Apply(res.Tree, p.model(i), res.Bag.Items(), reg, opts.apply)
		m.FixesDone(applied)
		if applyErr != nil && !errors.Is(applyErr, fix.ErrNoFixes) {
			return fmt.Errorf("fix %s: %w", path, applyErr)
		}
		if err := printApplyResult(out, path, applied, s.quiet); err != nil {
			return err
		}
		if len(applied.Applied) == 0 {
			continue
		}
		total += len(applied.Applied)
		if opts.write {
			if err := snapshot.Save(path, applied.Tree, p.model(i)); err != nil {
				return fmt.Errorf("fix %s: %w", path, err)
			}
			s.log.WithField("path", path).Info("snapshot updated")
		}
		if opts.apply.Mode == fix.ApplyModeOnce {
			break
		}
	}

	if opts.metricsOut != "" {
		if err := m.WriteTextfile(opts.metricsOut); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return printFixSummary(out, total, opts.write)
}

func printApplyResult(w io.Writer, path string, res *fix.ApplyResult, quiet bool) error {
	if res == nil {
		return nil
	}
	if len(res.Applied) > 0 {
		if _, err := fmt.Fprintf(w, "%s: applied %d fix(es):\n", path, len(res.Applied)); err != nil {
			return err
		}
		for _, item := range res.Applied {
			replanned := ""
			if item.Sequential {
				replanned = ", replanned"
			}
			if _, err := fmt.Fprintf(w, "  %s [%s] %s (%s%s)\n",
				item.Title, item.ID, item.Code.ID(), item.Applicability, replanned); err != nil {
				return err
			}
		}
	}
	if len(res.Skipped) == 0 || quiet {
		return nil
	}
	if _, err := fmt.Fprintf(w, "%s: skipped fixes:\n", path); err != nil {
		return err
	}
	for _, skip := range res.Skipped {
		id := skip.ID
		if id == "" {
			id = "(unnamed)"
		}
		var err error
		if skip.Title != "" {
			_, err = fmt.Fprintf(w, "  %s [%s]: %s\n", skip.Title, id, skip.Reason)
		} else {
			_, err = fmt.Fprintf(w, "  [%s]: %s\n", id, skip.Reason)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func printFixSummary(w io.Writer, total int, written bool) error {
	var err error
	switch {
	case total == 0:
		_, err = fmt.Fprintln(w, "No applicable fixes found.")
	case !written:
		_, err = fmt.Fprintf(w, "%d fix(es) planned; dry run, pass --write to save.\n", total)
	default:
		_, err = fmt.Fprintf(w, "%d fix(es) written.\n", total)
	}
	return err
}
