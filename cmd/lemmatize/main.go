// Command lemmatize applies lemma edit scripts to a tab-separated token
// stream and appends the lemma of every token as a new column.
//
//	lemmatize -i tagged.tsv -o lemmas.tsv
//	lemmatize --strict --on-error fail < tagged.tsv
//
// Input and output are URLs resolved through afs (plain paths, file://,
// mem://, or any registered storage scheme). Without -i/-o the command
// reads standard input and writes standard output. Logs go to stderr.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/google/uuid"
	flags "github.com/jessevdk/go-flags"
	"go.uber.org/zap"

	"github.com/TessDejaeghere/deepfrog/internal/batch"
	"github.com/TessDejaeghere/deepfrog/internal/config"
)

// Options defines CLI flags. Set flags override the configuration file.
type Options struct {
	Config   string `short:"c" long:"config" description:"Path to YAML configuration file"`
	Input    string `short:"i" long:"input" description:"Input URL (stdin when empty)"`
	Output   string `short:"o" long:"output" description:"Output URL (stdout when empty)"`
	Strict   bool   `long:"strict" description:"Reject edit scripts with unterminated segments"`
	OnError  string `long:"on-error" description:"What to do when a rule does not apply: keep, skip or fail"`
	Workers  int    `long:"workers" description:"Concurrent lemmatization workers"`
	LogLevel string `long:"log-level" description:"Log level (debug, info, warn, error)"`
}

func main() {
	var opts Options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		if fe, ok := err.(*flags.Error); ok && fe.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "lemmatize: %v\n", err)
		os.Exit(1)
	}
}

func run(opts Options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger = logger.With(zap.String("run_id", uuid.New().String()))
	logger.Debug("Configuration loaded", zap.Any("config", cfg))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	stats, err := batch.New(cfg, logger).ProcessURL(ctx, opts.Input, opts.Output)
	if err != nil {
		logger.Error("Lemmatization failed", zap.Int("lines", stats.Lines), zap.Error(err))
		return err
	}

	logger.Info("Lemmatization finished",
		zap.Int("lines", stats.Lines),
		zap.Int("tokens", stats.Tokens),
		zap.Int("changed", stats.Changed),
		zap.Int("unchanged", stats.Unchanged),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped))
	return nil
}

// loadConfig reads the configuration file and applies flag overrides.
func loadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, err
	}
	if opts.Strict {
		cfg.Strict = true
	}
	if opts.OnError != "" {
		cfg.OnError = config.OnError(opts.OnError)
	}
	if opts.Workers != 0 {
		cfg.Workers = opts.Workers
	}
	if opts.LogLevel != "" {
		cfg.LogLevel = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	cfgZap := zap.NewProductionConfig()
	cfgZap.Level.SetLevel(cfg.Level())
	cfgZap.OutputPaths = []string{"stderr"}
	return cfgZap.Build()
}
