// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Convert   ConvertConfig   `toml:"convert"`
	Tools     ToolsConfig     `toml:"tools"`
	Subtitles SubtitlesConfig `toml:"subtitles"`
	Journal   JournalConfig   `toml:"journal"`
	Log       LogConfig       `toml:"log"`
}

// ConvertConfig sets the default conversion parameters. Command line
// flags override these per run.
type ConvertConfig struct {
	TargetSizePerHourMB float64 `toml:"target_size_per_hour_mb"`
	AudioBitrateKbps    int     `toml:"audio_bitrate_kbps"`
	TargetDir           string  `toml:"target_dir"`
	Overwrite           bool    `toml:"overwrite"`
}

// ToolsConfig overrides the external tool locations. Empty values fall
// back to PATH lookup.
type ToolsConfig struct {
	FFmpeg  string `toml:"ffmpeg"`
	FFprobe string `toml:"ffprobe"`
}

// SubtitlesConfig controls bitmap subtitle OCR.
type SubtitlesConfig struct {
	// OCRCommand is the helper invoked per extracted track, in argv
	// form, e.g. ["python3", "/opt/tvforge/ocr.py"].
	OCRCommand []string `toml:"ocr_command"`
	Disabled   bool     `toml:"disabled"`
}

// JournalConfig controls the conversion history database.
type JournalConfig struct {
	Path     string `toml:"path"`
	Disabled bool   `toml:"disabled"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and parses the configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content, missing := substituteEnvVars(string(data))

	var cfg Config
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyDefaults()
	if len(missing) > 0 {
		return &cfg, &ConfigError{Path: path, Missing: missing}
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Convert.TargetSizePerHourMB == 0 {
		c.Convert.TargetSizePerHourMB = 900.0
	}
	if c.Convert.AudioBitrateKbps == 0 {
		c.Convert.AudioBitrateKbps = 192
	}
	if c.Journal.Path == "" {
		c.Journal.Path = defaultJournalPath()
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

func defaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "./tvforge.db"
	}
	return home + "/.local/share/tvforge/journal.db"
}

// substituteEnvVars replaces ${VAR} references with environment variable
// values. ${VAR:-default} falls back to default when VAR is unset or
// empty; ${VAR:?message} records the message as a missing-variable error.
// Unresolvable references are left unchanged and reported.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) (string, []string) {
	var missing []string
	result := envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		expr := match[2 : len(match)-1] // Strip ${ and }

		if name, def, ok := strings.Cut(expr, ":-"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			return def
		}
		if name, msg, ok := strings.Cut(expr, ":?"); ok {
			if value := os.Getenv(name); value != "" {
				return value
			}
			missing = append(missing, name+": "+msg)
			return match
		}
		if value, ok := os.LookupEnv(expr); ok {
			return value
		}
		missing = append(missing, expr)
		return match
	})
	return result, missing
}
