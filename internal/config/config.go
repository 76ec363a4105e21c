// Package config loads yarn-indent settings from an optional YAML or TOML
// file and applies environment overrides on top of the defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/r9s-ai/yarn-indent/internal/lines"
	"github.com/r9s-ai/yarn-indent/internal/preprocess"
)

// ErrUnsupportedConfigFormat is returned for config files that are neither
// YAML nor TOML.
var ErrUnsupportedConfigFormat = errors.New("unsupported config format")

// ErrInvalidMarker is returned when a marker is not exactly one usable
// character or when indent and dedent collide.
var ErrInvalidMarker = errors.New("invalid marker")

type MarkerConfig struct {
	Indent string `yaml:"indent" toml:"indent"`
	Dedent string `yaml:"dedent" toml:"dedent"`
}

type LoggingConfig struct {
	Level  string `yaml:"level" toml:"level"`
	Format string `yaml:"format" toml:"format"`
	File   string `yaml:"file" toml:"file"`
}

// Config holds every setting the CLI reads. Empty marker strings select the
// built-in defaults.
type Config struct {
	Markers     MarkerConfig  `yaml:"markers" toml:"markers"`
	Debug       bool          `yaml:"debug" toml:"debug"`
	TabWidth    int           `yaml:"tab_width" toml:"tab_width"`
	CloseBlocks bool          `yaml:"close_blocks" toml:"close_blocks"`
	Output      string        `yaml:"output" toml:"output"`
	Logging     LoggingConfig `yaml:"logging" toml:"logging"`
}

// Env var names used as overrides.
const (
	EnvDebug       = "YARN_INDENT_DEBUG"
	EnvTabWidth    = "YARN_INDENT_TAB_WIDTH"
	EnvCloseBlocks = "YARN_INDENT_CLOSE_BLOCKS"
	EnvLogLevel    = "YARN_INDENT_LOG_LEVEL"
	EnvLogFormat   = "YARN_INDENT_LOG_FORMAT"
	EnvLogFile     = "YARN_INDENT_LOG_FILE"
)

// Defaults returns the configuration used when nothing else is set.
func Defaults() Config {
	return Config{
		TabWidth: lines.DefaultTabWidth,
		Logging:  LoggingConfig{Level: "warn", Format: "console"},
	}
}

// Load reads the file at path when path is non-empty, merges it over the
// defaults and applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		fileCfg, err := readFile(path)
		if err != nil {
			return cfg, err
		}
		mergeInto(&cfg, &fileCfg)
	}
	applyEnvOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func readFile(path string) (Config, error) {
	var fileCfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		return fileCfg, fmt.Errorf("read config %q: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fileCfg)
	case ".toml":
		err = toml.Unmarshal(data, &fileCfg)
	default:
		return fileCfg, fmt.Errorf("%w: %q", ErrUnsupportedConfigFormat, path)
	}
	if err != nil {
		return fileCfg, fmt.Errorf("parse config %q: %w", path, err)
	}
	return fileCfg, nil
}

// Validate checks the marker strings. A marker must be one character that
// neither splits lines nor shifts indentation, and the effective indent and
// dedent markers must differ.
func (c Config) Validate() error {
	indentMarker, err := parseMarker(c.Markers.Indent)
	if err != nil {
		return fmt.Errorf("markers.indent: %w", err)
	}
	dedentMarker, err := parseMarker(c.Markers.Dedent)
	if err != nil {
		return fmt.Errorf("markers.dedent: %w", err)
	}

	m := preprocess.Options{IndentMarker: indentMarker, DedentMarker: dedentMarker}.Markers()
	if m.Indent == m.Dedent {
		return fmt.Errorf("%w: indent and dedent are both %q", ErrInvalidMarker, m.Indent)
	}
	return nil
}

// IndentMarker returns the configured indent rune, or 0 when unset.
func (c Config) IndentMarker() rune {
	r, _ := parseMarker(c.Markers.Indent)
	return r
}

// DedentMarker returns the configured dedent rune, or 0 when unset.
func (c Config) DedentMarker() rune {
	r, _ := parseMarker(c.Markers.Dedent)
	return r
}

// parseMarker accepts a single character or an escape such as "\a" or
// "\u0007". A lone backslash is taken literally.
func parseMarker(s string) (rune, error) {
	if s == "" {
		return 0, nil
	}
	if utf8.RuneCountInString(s) > 1 && strings.HasPrefix(s, `\`) {
		unq, err := strconv.Unquote(`"` + s + `"`)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidMarker, s)
		}
		s = unq
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMarker, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	switch r {
	case '\n', '\r', ' ', '\t':
		return 0, fmt.Errorf("%w: %q is line structure or indentation", ErrInvalidMarker, r)
	}
	return r, nil
}

func mergeInto(dst *Config, src *Config) {
	if src.Markers.Indent != "" {
		dst.Markers.Indent = src.Markers.Indent
	}
	if src.Markers.Dedent != "" {
		dst.Markers.Dedent = src.Markers.Dedent
	}
	dst.Debug = src.Debug
	dst.CloseBlocks = src.CloseBlocks
	if src.TabWidth > 0 {
		dst.TabWidth = src.TabWidth
	}
	if strings.TrimSpace(src.Output) != "" {
		dst.Output = strings.TrimSpace(src.Output)
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvDebug)); v != "" {
		cfg.Debug = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvCloseBlocks)); v != "" {
		cfg.CloseBlocks = truthy(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvTabWidth)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.TabWidth = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

func truthy(v string) bool {
	lv := strings.ToLower(v)
	return lv == "1" || lv == "true" || lv == "on" || lv == "yes"
}
