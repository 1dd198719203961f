// Package config loads gengoka configuration from built-in defaults, an
// optional YAML file and GENGOKA_* environment variables.
package config

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/gengoka/internal/habits"
	"github.com/abhisek/gengoka/internal/learning"
)

const (
	// EnvPrefix is the prefix of every environment override.
	EnvPrefix = "GENGOKA_"

	maxConfigFileSize = 1024 * 1024 // 1MB
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config is the full application configuration.
type Config struct {
	Store    StoreConfig          `koanf:"store"`
	Log      LogConfig            `koanf:"log"`
	Progress learning.PhaseTotals `koanf:"progress"`
	Analysis AnalysisConfig       `koanf:"analysis"`
	Phases   PhasesConfig         `koanf:"phases"`
}

// StoreConfig locates the database.
type StoreConfig struct {
	// Path to the SQLite file. Empty means the XDG data directory.
	Path string `koanf:"path"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // console or json
}

// AnalysisConfig tunes the habit engine and report retention.
type AnalysisConfig struct {
	KeepReports      int      `koanf:"keep_reports"`
	StructureMarkers []string `koanf:"structure_markers"`
	PoliteMarkers    []string `koanf:"polite_markers"`
}

// PhasesConfig maps a phase number ("1".."3") to legacy problem id prefixes.
type PhasesConfig struct {
	Prefixes map[string][]string `koanf:"prefixes"`
}

// Load reads configuration with this precedence, highest first:
//  1. Environment variables (GENGOKA_STORE_PATH, GENGOKA_LOG_LEVEL, ...)
//  2. YAML config file
//  3. Built-in defaults
//
// When configPath is empty the default path is used and a missing file is
// not an error. An explicitly named file must exist.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(rawbytes.Provider(defaultsYAML), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	explicit := configPath != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	content, err := readConfigFile(configPath)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return nil, err
	}

	// GENGOKA_ANALYSIS_KEEP_REPORTS -> analysis.keep_reports
	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// envKey maps an environment variable to a config key. The first
// underscore separates the section, the rest belong to the field name.
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 {
		return lower
	}
	return parts[0] + "." + parts[1]
}

// envValue maps an environment variable to a config key and value. Marker
// lists are comma separated: GENGOKA_ANALYSIS_POLITE_MARKERS="です,ます".
func envValue(key, value string) (string, interface{}) {
	k := envKey(key)
	if !strings.HasSuffix(k, "_markers") {
		return k, value
	}
	items := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return k, items
}

func readConfigFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() > maxConfigFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", info.Size(), maxConfigFileSize)
	}
	content, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return content, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/gengoka/config.yaml, falling back
// to ~/.config/gengoka/config.yaml.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "gengoka", "config.yaml"), nil
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format must be console or json, got %q", c.Log.Format)
	}
	for i, n := range []int{c.Progress.Phase1, c.Progress.Phase2, c.Progress.Phase3} {
		if n < 0 {
			return fmt.Errorf("progress.phase%d_total must not be negative", i+1)
		}
	}
	if c.Analysis.KeepReports < 0 {
		return fmt.Errorf("analysis.keep_reports must not be negative")
	}
	for key := range c.Phases.Prefixes {
		n, err := strconv.Atoi(key)
		if err != nil || !learning.Phase(n).Valid() {
			return fmt.Errorf("phases.prefixes: unknown phase %q", key)
		}
	}
	return nil
}

// PhaseResolver builds the legacy prefix resolver.
func (c *Config) PhaseResolver() learning.PhaseResolver {
	if len(c.Phases.Prefixes) == 0 {
		return learning.NewPhaseResolver(nil)
	}
	prefixes := make(map[learning.Phase][]string, len(c.Phases.Prefixes))
	for key, list := range c.Phases.Prefixes {
		n, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		prefixes[learning.Phase(n)] = list
	}
	return learning.NewPhaseResolver(prefixes)
}

// Markers returns the habit engine marker sets.
func (c *Config) Markers() habits.Markers {
	return habits.Markers{
		Structure: c.Analysis.StructureMarkers,
		Polite:    c.Analysis.PoliteMarkers,
	}
}
