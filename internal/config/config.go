// Package config loads convlint.toml.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"convlint/internal/analysis"
	"convlint/internal/diag"
	"convlint/internal/generated"
)

// FileName is the project configuration file looked up from the target
// directory upwards.
const FileName = "convlint.toml"

// ErrNotFound is returned by Discover when no convlint.toml exists above the
// start directory. The returned Config is the default one.
var ErrNotFound = errors.New("no convlint.toml found")

type Config struct {
	// Path is the file the config was read from; empty for defaults.
	Path      string          `toml:"-"`
	Rules     RulesConfig     `toml:"rules"`
	Generated GeneratedConfig `toml:"generated"`
	Engine    EngineConfig    `toml:"engine"`
	Output    OutputConfig    `toml:"output"`
}

type RulesConfig struct {
	// Disable lists rule ids ("STY3002") or detector names ("member-order").
	Disable []string `toml:"disable"`
	// Severity maps a rule id to "info", "warning" or "error".
	Severity map[string]string `toml:"severity"`
}

type GeneratedConfig struct {
	Suffixes   []string `toml:"suffixes"`
	Substrings []string `toml:"substrings"`
}

type EngineConfig struct {
	Jobs           int `toml:"jobs"`
	MaxDiagnostics int `toml:"max_diagnostics"`
}

type OutputConfig struct {
	Format   string `toml:"format"`
	Color    string `toml:"color"`
	PathMode string `toml:"path_mode"`
}

func Default() Config {
	gate := generated.Default()
	return Config{
		Generated: GeneratedConfig{Suffixes: gate.Suffixes, Substrings: gate.Substrings},
		Engine:    EngineConfig{MaxDiagnostics: 1000},
		Output:    OutputConfig{Format: "pretty", Color: "auto", PathMode: "auto"},
	}
}

// Find walks up from startDir to locate convlint.toml.
func Find(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the config for startDir.
func Discover(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return Default(), err
	}
	if !ok {
		return Default(), ErrNotFound
	}
	return Load(path)
}

// Load reads path over the defaults. Unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Default(), fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return Default(), fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	cfg.Path = path
	if err := cfg.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that TOML types cannot express.
func (c Config) Validate() error {
	if c.Engine.Jobs < 0 {
		return fmt.Errorf("[engine].jobs must not be negative, got %d", c.Engine.Jobs)
	}
	if c.Engine.MaxDiagnostics < 0 {
		return fmt.Errorf("[engine].max_diagnostics must not be negative, got %d", c.Engine.MaxDiagnostics)
	}
	for code, sev := range c.Rules.Severity {
		if _, ok := diag.ParseSeverity(sev); !ok {
			return fmt.Errorf("[rules.severity].%s: unknown severity %q", code, sev)
		}
	}
	switch c.Output.Color {
	case "", "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color must be auto, on or off, got %q", c.Output.Color)
	}
	return nil
}

// Apply disables rules and sets severity overrides on reg.
func (c Config) Apply(reg *analysis.Registry) error {
	for _, ref := range c.Rules.Disable {
		if err := reg.Disable(strings.TrimSpace(ref)); err != nil {
			return fmt.Errorf("[rules].disable: %w", err)
		}
	}
	codes := make([]string, 0, len(c.Rules.Severity))
	for code := range c.Rules.Severity {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		sev, _ := diag.ParseSeverity(c.Rules.Severity[code])
		if err := reg.SetSeverity(code, sev); err != nil {
			return fmt.Errorf("[rules.severity]: %w", err)
		}
	}
	return nil
}

// Gate builds the generated-code gate. An empty section keeps the defaults.
func (c Config) Gate() generated.Gate {
	if len(c.Generated.Suffixes) == 0 && len(c.Generated.Substrings) == 0 {
		return generated.Default()
	}
	return generated.Gate{Suffixes: c.Generated.Suffixes, Substrings: c.Generated.Substrings}
}
