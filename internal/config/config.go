// Package config holds the settings shared by the batch lemmatization tools.
//
// Settings are read from an optional YAML file laid over Default. Keys that
// are absent from the file keep their default value, so a file may set
// workers: 0 or strict: false explicitly without those being replaced.
package config

import (
	"fmt"
	"os"
	"runtime"

	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v2"
)

// OnError selects what the batch processor does with a token whose edit
// script cannot be applied.
type OnError string

const (
	OnErrorKeep OnError = "keep" // emit the word itself as the lemma
	OnErrorSkip OnError = "skip" // drop the line from the output
	OnErrorFail OnError = "fail" // abort the run
)

const (
	defaultChunkLines = 4096
	defaultLogLevel   = "info"
)

// Config is the YAML configuration of the batch tools.
type Config struct {
	Strict       bool    `yaml:"strict"`        // reject scripts with unterminated segments
	OnError      OnError `yaml:"on_error"`      // keep | skip | fail
	WordColumn   int     `yaml:"word_column"`   // 0-based tab-separated column holding the word
	ScriptColumn int     `yaml:"script_column"` // 0-based column holding the edit script
	Workers      int     `yaml:"workers"`       // concurrent lemmatization workers per chunk
	ChunkLines   int     `yaml:"chunk_lines"`   // lines read before a chunk is lemmatized
	LogLevel     string  `yaml:"log_level"`     // zap level name
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		OnError:      OnErrorKeep,
		WordColumn:   0,
		ScriptColumn: 1,
		Workers:      runtime.NumCPU(),
		ChunkLines:   defaultChunkLines,
		LogLevel:     defaultLogLevel,
	}
}

// Load reads the YAML file at path over Default and validates the result.
// An empty path returns Default.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.OnError {
	case OnErrorKeep, OnErrorSkip, OnErrorFail:
	default:
		return fmt.Errorf("config: on_error must be keep, skip or fail, got %q", c.OnError)
	}
	if c.WordColumn < 0 || c.ScriptColumn < 0 {
		return fmt.Errorf("config: columns must be non-negative, got word=%d script=%d", c.WordColumn, c.ScriptColumn)
	}
	if c.WordColumn == c.ScriptColumn {
		return fmt.Errorf("config: word_column and script_column are both %d", c.WordColumn)
	}
	if c.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.Workers)
	}
	if c.ChunkLines < 1 {
		return fmt.Errorf("config: chunk_lines must be at least 1, got %d", c.ChunkLines)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("config: log_level: %w", err)
	}
	return nil
}

// Level returns the configured zap level, falling back to info.
func (c *Config) Level() zapcore.Level {
	lvl, err := zapcore.ParseLevel(c.LogLevel)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
