// Package batch applies lemma edit scripts to tab-separated token streams.
//
// Each input line holds one token; the word and its edit script sit in
// configurable columns. The output is the input line with the lemma
// appended as a new column. Blank lines and lines starting with '#' are
// copied through unchanged, so sentence boundaries and comments survive.
//
// Lines are lemmatized in chunks by a bounded pool of workers; output order
// always matches input order.
package batch

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/viant/afs"
	"go.uber.org/zap"

	"github.com/TessDejaeghere/deepfrog/internal/config"
	"github.com/TessDejaeghere/deepfrog/lemma"
)

const (
	scannerBufSize = 1 << 20 // 1 MB, longest accepted line
	outputMode     = 0o644
)

// Standard streams used by ProcessURL for empty URLs.
var (
	stdin  io.Reader = os.Stdin
	stdout io.Writer = os.Stdout
)

// Stats counts what a run did.
type Stats struct {
	Lines     int // input lines read
	Tokens    int // lines carrying a word and a script
	Changed   int // tokens whose lemma differs from the word
	Unchanged int // tokens whose lemma equals the word
	Failed    int // tokens whose script did not apply
	Skipped   int // failed tokens dropped from the output
}

// Processor lemmatizes token streams according to a Config.
// A Processor is safe for concurrent use.
type Processor struct {
	cfg    *config.Config
	logger *zap.Logger
	fs     afs.Service
}

// New returns a Processor. A nil logger disables logging.
func New(cfg *config.Config, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{cfg: cfg, logger: logger, fs: afs.New()}
}

// Lemmatize returns the lemma of word under script, honoring the Strict
// setting.
func (p *Processor) Lemmatize(word, script string) (string, error) {
	if !p.cfg.Strict {
		return lemma.Compute(word, script)
	}
	if lemma.IsIdentity(script) {
		return word, nil
	}
	s, err := lemma.ParseStrict(script)
	if err != nil {
		return "", err
	}
	return s.Apply(word)
}

// Process reads token lines from r and writes them with their lemma to w.
// The context is checked between chunks.
func (p *Processor) Process(ctx context.Context, r io.Reader, w io.Writer) (Stats, error) {
	var stats Stats

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), scannerBufSize)
	bw := bufio.NewWriter(w)

	chunk := make([]record, 0, p.cfg.ChunkLines)
	flush := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.lemmatizeChunk(chunk)
		for i := range chunk {
			if err := p.emit(bw, &chunk[i], &stats); err != nil {
				return err
			}
		}
		chunk = chunk[:0]
		return nil
	}

	for scanner.Scan() {
		stats.Lines++
		chunk = append(chunk, record{line: stats.Lines, text: scanner.Text()})
		if len(chunk) == p.cfg.ChunkLines {
			if err := flush(); err != nil {
				return stats, err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return stats, fmt.Errorf("batch: read input: %w", err)
	}
	if err := flush(); err != nil {
		return stats, err
	}
	if err := bw.Flush(); err != nil {
		return stats, fmt.Errorf("batch: write output: %w", err)
	}
	return stats, nil
}

// ProcessURL runs Process from inURL to outURL through afs, so any scheme
// afs supports (file, mem, cloud storage) can be used. An empty inURL reads
// standard input; an empty outURL writes standard output.
func (p *Processor) ProcessURL(ctx context.Context, inURL, outURL string) (Stats, error) {
	in := stdin
	if inURL != "" {
		rc, err := p.fs.OpenURL(ctx, inURL)
		if err != nil {
			return Stats{}, fmt.Errorf("batch: open %s: %w", inURL, err)
		}
		defer func() { _ = rc.Close() }()
		in = rc
	}

	if outURL == "" {
		return p.Process(ctx, in, stdout)
	}

	var buf bytes.Buffer
	stats, err := p.Process(ctx, in, &buf)
	if err != nil {
		return stats, err
	}
	if err := p.fs.Upload(ctx, outURL, outputMode, &buf); err != nil {
		return stats, fmt.Errorf("batch: upload %s: %w", outURL, err)
	}
	return stats, nil
}

// lemmatizeChunk fills in every record of chunk, splitting the work into
// contiguous shards, one per worker.
func (p *Processor) lemmatizeChunk(chunk []record) {
	workers := min(p.cfg.Workers, len(chunk))
	if workers <= 1 {
		for i := range chunk {
			p.lemmatize(&chunk[i])
		}
		return
	}

	shard := (len(chunk) + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < len(chunk); lo += shard {
		part := chunk[lo:min(lo+shard, len(chunk))]
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range part {
				p.lemmatize(&part[i])
			}
		}()
	}
	wg.Wait()
}

func (p *Processor) lemmatize(rec *record) {
	word, script, ok, err := Fields(rec.text, p.cfg.WordColumn, p.cfg.ScriptColumn)
	if !ok {
		rec.pass = true
		return
	}
	rec.word, rec.script = word, script
	if err != nil {
		rec.err = err
		return
	}
	rec.lemma, rec.err = p.Lemmatize(word, script)
}

// emit writes one record according to the error policy and updates stats.
func (p *Processor) emit(w *bufio.Writer, rec *record, stats *Stats) error {
	if rec.pass {
		return writeLine(w, rec.text)
	}
	stats.Tokens++

	if rec.err == nil {
		if rec.lemma == rec.word {
			stats.Unchanged++
		} else {
			stats.Changed++
		}
		return writeLine(w, rec.text+columnSep+rec.lemma)
	}

	stats.Failed++
	switch p.cfg.OnError {
	case config.OnErrorFail:
		return fmt.Errorf("batch: line %d: %w", rec.line, rec.err)
	case config.OnErrorSkip:
		stats.Skipped++
		p.logger.Debug("Skipping token, rule does not apply",
			zap.Int("line", rec.line),
			zap.String("word", rec.word),
			zap.String("script", rec.script),
			zap.Error(rec.err))
		return nil
	default:
		p.logger.Warn("Rule does not apply, keeping word as lemma",
			zap.Int("line", rec.line),
			zap.String("word", rec.word),
			zap.String("script", rec.script),
			zap.Error(rec.err))
		return writeLine(w, rec.text+columnSep+rec.word)
	}
}

func writeLine(w *bufio.Writer, s string) error {
	if _, err := w.WriteString(s); err != nil {
		return fmt.Errorf("batch: write output: %w", err)
	}
	if err := w.WriteByte('\n'); err != nil {
		return fmt.Errorf("batch: write output: %w", err)
	}
	return nil
}
