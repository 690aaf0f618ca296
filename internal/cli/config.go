package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/Masterminds/semver/v3"
)

// DefaultConfigFile is looked up in the working directory when no
// --config flag is given
const DefaultConfigFile = "kestrel.toml"

// Output formats accepted by [output] format
var OutputFormats = []string{"tree", "json", "yaml", "source"}

// Color modes accepted by [output] color
var ColorModes = []string{"auto", "always", "never"}

// Config is the kestrel.toml file
type Config struct {
	Requires string       `toml:"requires"`
	Parser   ParserConfig `toml:"parser"`
	Output   OutputConfig `toml:"output"`
	Log      LogConfig    `toml:"log"`
	Watch    WatchConfig  `toml:"watch"`
}

// ParserConfig holds parser limits
type ParserConfig struct {
	MaxDepth int `toml:"max_depth"`
}

// OutputConfig controls how trees and diagnostics are printed
type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// LogConfig holds the log threshold
type LogConfig struct {
	Level string `toml:"level"`
}

// WatchConfig holds watch mode settings
type WatchConfig struct {
	Debounce Duration `toml:"debounce"`
}

// Duration wraps time.Duration for TOML strings such as "150ms"
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// DefaultConfig returns the settings used when no file is present
func DefaultConfig() *Config {
	return &Config{
		Parser: ParserConfig{MaxDepth: 512},
		Output: OutputConfig{Format: "tree", Color: "auto"},
		Log:    LogConfig{Level: "warn"},
		Watch:  WatchConfig{Debounce: Duration{150 * time.Millisecond}},
	}
}

// LoadConfig loads configuration from path. An empty path reads
// DefaultConfigFile from the working directory and falls back to the
// defaults when it does not exist; a named file must exist. Keys absent
// from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()
	optional := path == ""
	if optional {
		path = DefaultConfigFile
	}

	md, err := toml.DecodeFile(path, config)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			if optional {
				return DefaultConfig(), nil
			}
			return nil, fmt.Errorf("config file %s not found: %w", path, err)
		}
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return nil, fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

// Validate checks enumerated values and limits
func (c *Config) Validate() error {
	if c.Parser.MaxDepth < 1 {
		return fmt.Errorf("parser.max_depth must be positive, got %d", c.Parser.MaxDepth)
	}
	if !contains(OutputFormats, c.Output.Format) {
		return fmt.Errorf("output.format must be one of %s, got %q", strings.Join(OutputFormats, ", "), c.Output.Format)
	}
	if !contains(ColorModes, c.Output.Color) {
		return fmt.Errorf("output.color must be one of %s, got %q", strings.Join(ColorModes, ", "), c.Output.Color)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if c.Watch.Debounce.Duration < 0 {
		return fmt.Errorf("watch.debounce must not be negative, got %s", c.Watch.Debounce.Duration)
	}
	if c.Requires != "" {
		if _, err := semver.NewConstraint(c.Requires); err != nil {
			return fmt.Errorf("requires: %w", err)
		}
	}
	return nil
}

// CheckRequires reports whether version satisfies the constraint. An empty
// constraint accepts every version.
func CheckRequires(constraint, version string) error {
	if strings.TrimSpace(constraint) == "" {
		return nil
	}
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return fmt.Errorf("invalid requires constraint %q: %w", constraint, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid version %q: %w", version, err)
	}
	if ok, errs := c.Validate(v); !ok {
		if len(errs) > 0 {
			return fmt.Errorf("kestrelc %s does not satisfy requires %q: %w", version, constraint, errs[0])
		}
		return fmt.Errorf("kestrelc %s does not satisfy requires %q", version, constraint)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
