// Package config loads pakview settings from a YAML file.
//
// Values are decoded over DefaultConfig, so a file only needs the keys it
// changes. The result is checked against an embedded CUE schema.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"gopkg.in/yaml.v3"
)

//go:embed schema.cue
var schemaCUE string

// Config holds settings shared by all commands.
type Config struct {
	ExportRoot string `yaml:"export_root" json:"export_root"`
	ExportMode string `yaml:"export_mode" json:"export_mode"`
	NameCache  string `yaml:"name_cache" json:"name_cache"`
	Workers    int    `yaml:"workers" json:"workers"`
	LogLevel   string `yaml:"log_level" json:"log_level"`
	LogFormat  string `yaml:"log_format" json:"log_format"`
}

// DefaultConfig returns the built-in settings.
func DefaultConfig() Config {
	return Config{
		ExportRoot: "exported_files",
		ExportMode: "MSW",
		Workers:    0,
		LogLevel:   "info",
		LogFormat:  "text",
	}
}

// ValidationError reports a config value the schema rejects.
type ValidationError struct {
	Message string
	Line    int // 0 when unknown
}

func (e *ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid config (line %d): %s", e.Line, e.Message)
	}
	return "invalid config: " + e.Message
}

// Load reads path and returns the merged, validated config. An empty file
// yields DefaultConfig.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over DefaultConfig and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := DefaultConfig()

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks c against the schema.
func (c Config) Validate() error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	def := schema.LookupPath(cue.ParsePath("#Config"))
	v := def.Unify(ctx.Encode(c))
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// Level returns the slog level named by LogLevel.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ValidationError{Message: err.Error()}
	}

	first := errs[0]
	verr := &ValidationError{Message: first.Error()}
	for _, pos := range cueerrors.Positions(first) {
		if pos.Filename() == "schema.cue" {
			verr.Line = pos.Line()
			break
		}
	}
	return verr
}
