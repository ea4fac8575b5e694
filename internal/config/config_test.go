package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lemmatize.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error: %v", err)
	}
	if cfg.OnError != OnErrorKeep {
		t.Errorf("OnError = %q, want %q", cfg.OnError, OnErrorKeep)
	}
	if cfg.WordColumn != 0 || cfg.ScriptColumn != 1 {
		t.Errorf("columns = (%d, %d), want (0, 1)", cfg.WordColumn, cfg.ScriptColumn)
	}
	if cfg.Strict {
		t.Error("Strict = true, want false")
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}
	if *cfg != *Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
strict: true
on_error: skip
word_column: 1
script_column: 3
workers: 2
log_level: debug
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !cfg.Strict || cfg.OnError != OnErrorSkip || cfg.WordColumn != 1 || cfg.ScriptColumn != 3 || cfg.Workers != 2 {
		t.Errorf("Load = %+v", cfg)
	}
	if cfg.ChunkLines != defaultChunkLines {
		t.Errorf("ChunkLines = %d, want default %d", cfg.ChunkLines, defaultChunkLines)
	}
	if cfg.Level() != zapcore.DebugLevel {
		t.Errorf("Level() = %v, want debug", cfg.Level())
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad policy", "on_error: retry\n", "on_error"},
		{"same columns", "word_column: 2\nscript_column: 2\n", "both 2"},
		{"negative column", "word_column: -1\n", "non-negative"},
		{"zero workers", "workers: 0\n", "workers"},
		{"zero chunk", "chunk_lines: 0\n", "chunk_lines"},
		{"bad level", "log_level: loud\n", "log_level"},
		{"malformed yaml", "strict: [\n", "parse"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil {
				t.Fatal("Load succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Load(absent) error = %v, want not-exist", err)
	}
}

func TestLevelFallback(t *testing.T) {
	cfg := Default()
	cfg.LogLevel = "nonsense"
	if cfg.Level() != zapcore.InfoLevel {
		t.Errorf("Level() = %v, want info", cfg.Level())
	}
}
