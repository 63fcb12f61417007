package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"convlint/internal/version"
)

// errFindings makes the process exit with status 1 without printing an error:
// the diagnostics were already reported.
var errFindings = errors.New("error diagnostics reported")

var rootCmd = &cobra.Command{
	Use:           "convlint",
	Short:         "Convention checker and fixer for C# member trees",
	Long:          `convlint enforces naming, ordering, documentation and design conventions on syntax-tree snapshots and rewrites them in place`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|on|off); default from config")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 = from config)")
	rootCmd.PersistentFlags().String("config", "", "path to convlint.toml (default: search upwards from the first target)")
	rootCmd.PersistentFlags().String("log-level", "warning", "log level (debug|info|warning|error)")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write heap profile to file")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write runtime trace to file")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errFindings) {
			fmt.Fprintf(os.Stderr, "convlint: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
