package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"convlint/internal/analysis"
	"convlint/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List every rule with its severity and fixer",
	Long:  "List the rules of every detector as the current config sees them: disabled rules and severity overrides from convlint.toml are applied.",
	Args:  cobra.NoArgs,
	RunE:  runRules,
}

func init() {
	rulesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

// ruleInfo is one row of the listing.
type ruleInfo struct {
	ID          string `json:"id"`
	Detector    string `json:"detector"`
	Category    string `json:"category"`
	Severity    string `json:"severity"`
	Enabled     bool   `json:"enabled"`
	Fixable     bool   `json:"fixable"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

func runRules(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}

	s, err := newSession(cmd, []string{"."})
	if err != nil {
		return err
	}
	defer s.close()

	engine, err := s.engine(0, nil)
	if err != nil {
		return err
	}
	infos := collectRules(engine.Registry())
	if format == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(infos)
	}
	return printRules(cmd.OutOrStdout(), infos)
}

func collectRules(reg *analysis.Registry) []ruleInfo {
	owner := make(map[string]string)
	for _, det := range reg.Detectors() {
		for _, rule := range det.Rules() {
			owner[rule.ID()] = det.Name()
		}
	}
	all := reg.Rules()
	out := make([]ruleInfo, 0, len(all))
	for _, rule := range all {
		out = append(out, ruleInfo{
			ID:          rule.ID(),
			Detector:    owner[rule.ID()],
			Category:    rule.Category(),
			Severity:    rule.Severity.String(),
			Enabled:     reg.IsEnabled(rule.Code),
			Fixable:     rules.Fixable(rule.Code),
			Title:       rule.Title,
			Description: rule.Description,
		})
	}
	return out
}

var rulesHeaderColor = color.New(color.Bold)

func printRules(w io.Writer, infos []ruleInfo) error {
	header := []string{"ID", "DETECTOR", "SEVERITY", "FIX", "TITLE"}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		sev := info.Severity
		if !info.Enabled {
			sev = "off"
		}
		fixable := "-"
		if info.Fixable {
			fixable = "yes"
		}
		rows = append(rows, []string{info.ID, info.Detector, sev, fixable, info.Title})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	line := func(cells []string) string {
		parts := make([]string, len(cells))
		for i, cell := range cells {
			if i == len(cells)-1 {
				parts[i] = cell
				continue
			}
			parts[i] = runewidth.FillRight(cell, widths[i])
		}
		return strings.Join(parts, "  ")
	}

	if _, err := fmt.Fprintln(w, rulesHeaderColor.Sprint(line(header))); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, line(row)); err != nil {
			return err
		}
	}
	return nil
}
