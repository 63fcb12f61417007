package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"convlint/internal/analysis"
	"convlint/internal/config"
	"convlint/internal/prof"
	"convlint/internal/rules"
	"convlint/internal/snapshot"
)

// session carries what every command resolves from global flags and the
// project config.
type session struct {
	log            *logrus.Logger
	cfg            config.Config
	color          bool
	quiet          bool
	timings        bool
	maxDiagnostics int
	profile        *prof.Session
	// cache is set in watch mode; nil decodes every snapshot on each pass.
	cache *snapshot.Cache
}

// newSession reads global flags, loads convlint.toml and starts profiling.
// close must be called when the command finishes.
func newSession(cmd *cobra.Command, targets []string) (*session, error) {
	flags := cmd.Root().PersistentFlags()
	levelName, err := flags.GetString("log-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get log-level flag: %w", err)
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	configPath, err := flags.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	log, err := newLogger(levelName, quiet)
	if err != nil {
		return nil, err
	}

	cfg, err := loadConfig(configPath, targets)
	if err != nil {
		return nil, err
	}
	if cfg.Path != "" {
		log.WithField("path", cfg.Path).Debug("config loaded")
	}

	if colorFlag == "" {
		colorFlag = cfg.Output.Color
	}
	useColor, err := resolveColor(colorFlag)
	if err != nil {
		return nil, err
	}
	color.NoColor = !useColor

	if maxDiagnostics <= 0 {
		maxDiagnostics = cfg.Engine.MaxDiagnostics
	}
	if maxDiagnostics <= 0 {
		maxDiagnostics = math.MaxInt32
	}

	opts, err := profileOptions(cmd)
	if err != nil {
		return nil, err
	}
	profile, err := prof.Start(opts)
	if err != nil {
		return nil, err
	}

	return &session{
		log:            log,
		cfg:            cfg,
		color:          useColor,
		quiet:          quiet,
		timings:        timings,
		maxDiagnostics: maxDiagnostics,
		profile:        profile,
	}, nil
}

func (s *session) close() {
	if err := s.profile.Stop(); err != nil {
		s.log.WithError(err).Error("failed to finish profiling")
	}
}

// engine builds the detector registry with the config applied and an engine
// over it.
func (s *session) engine(jobs int, observer analysis.Observer) (*analysis.Engine, error) {
	reg := rules.NewRegistry()
	if err := s.cfg.Apply(reg); err != nil {
		return nil, err
	}
	if jobs <= 0 {
		jobs = s.cfg.Engine.Jobs
	}
	opts := []analysis.Option{
		analysis.WithGate(s.cfg.Gate()),
		analysis.WithLogger(s.log),
		analysis.WithMaxDiagnostics(s.maxDiagnostics),
	}
	if jobs > 0 {
		opts = append(opts, analysis.WithJobs(jobs))
	}
	if observer != nil {
		opts = append(opts, analysis.WithObserver(observer))
	}
	return analysis.NewEngine(reg, opts...), nil
}

func newLogger(level string, quiet bool) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}
	if quiet && lvl > logrus.ErrorLevel {
		lvl = logrus.ErrorLevel
	}
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(lvl)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		ForceColors:      isTerminal(os.Stderr),
	})
	return log, nil
}

// loadConfig reads the explicit --config file, or searches upwards from the
// first target. A missing file yields the defaults.
func loadConfig(explicit string, targets []string) (config.Config, error) {
	if explicit != "" {
		return config.Load(explicit)
	}
	start := "."
	if len(targets) > 0 {
		start = targets[0]
	}
	cfg, err := config.Discover(start)
	if errors.Is(err, config.ErrNotFound) {
		return cfg, nil
	}
	return cfg, err
}

func resolveColor(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		return isTerminal(os.Stdout), nil
	case "on", "always":
		return true, nil
	case "off", "never":
		return false, nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
}

func profileOptions(cmd *cobra.Command) (prof.Options, error) {
	flags := cmd.Root().PersistentFlags()
	cpu, err := flags.GetString("cpu-profile")
	if err != nil {
		return prof.Options{}, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	mem, err := flags.GetString("mem-profile")
	if err != nil {
		return prof.Options{}, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	trace, err := flags.GetString("runtime-trace")
	if err != nil {
		return prof.Options{}, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	return prof.Options{CPU: cpu, Mem: mem, Trace: trace}, nil
}

// baseDir is the directory relative paths in output are computed from.
func baseDir(targets []string) string {
	if len(targets) == 1 {
		if info, err := os.Stat(targets[0]); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(targets[0]); err == nil {
				return abs
			}
		}
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// bagLimit caps a merged bag at perFile diagnostics for each file.
func bagLimit(perFile, files int) int {
	return int(min(int64(perFile)*int64(max(files, 1)), math.MaxInt32))
}
