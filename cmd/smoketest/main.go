// Command smoketest runs every lemma rule found in a corpus directory and
// reports how many apply, how many are identities, and whether every
// applied rule inverts back to its word.
//
//	go run ./cmd/smoketest <directory>
//
// Each *.tsv file holds one token per line with the word in the first
// column and its edit script in the second.
package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/TessDejaeghere/deepfrog/internal/batch"
	"github.com/TessDejaeghere/deepfrog/internal/config"
	"github.com/TessDejaeghere/deepfrog/lemma"
)

const (
	maxWorkers     = 4
	expectedArgs   = 2
	scannerBufSize = 1 << 20 // 1 MB
	outlierFactor  = 3
)

type fileRatio struct {
	path   string
	tokens int
	failed int
	ratio  float64
}

type Stats struct {
	mu            sync.Mutex
	filesScanned  int
	lines         int
	tokens        int
	identity      int
	applied       int
	failed        int
	invertOK      int
	invertFail    int
	notInvertible int
	failOutliers  int
	opCounts      map[lemma.Op]int
	fileRatios    []fileRatio
}

type fileState struct {
	path          string
	lines         int
	tokens        int
	identity      int
	applied       int
	failed        int
	invertOK      int
	invertFail    int
	notInvertible int
	opCounts      map[lemma.Op]int
	failLogged    bool
	invertLogged  bool
}

func main() {
	if len(os.Args) != expectedArgs {
		fmt.Fprintf(os.Stderr, "Usage: %s <directory>\n", os.Args[0])
		os.Exit(1)
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	dirPath := os.Args[1]
	stats := &Stats{
		opCounts: make(map[lemma.Op]int),
	}

	var filePaths []string
	err = filepath.WalkDir(dirPath, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".tsv") {
			return nil
		}
		filePaths = append(filePaths, path)
		return nil
	})
	if err != nil {
		logger.Fatal("Error walking directory", zap.String("dir", dirPath), zap.Error(err))
	}

	logger.Info("Found files to process", zap.Int("files", len(filePaths)))
	start := time.Now()
	cfg := config.Default()

	semaphore := make(chan struct{}, maxWorkers)
	var wg sync.WaitGroup

	for _, path := range filePaths {
		path := path
		semaphore <- struct{}{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-semaphore }()
			processFile(path, cfg, stats, logger)
		}()
	}

	wg.Wait()

	flagFailureOutliers(stats, logger)

	logger.Info("Completed", zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
	printStats(stats)
}

func processFile(path string, cfg *config.Config, stats *Stats, logger *zap.Logger) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		logger.Error("Error opening file", zap.String("path", path), zap.Error(err))
		return
	}
	defer func() { _ = f.Close() }()

	fileStart := time.Now()
	state := &fileState{
		path:     path,
		opCounts: make(map[lemma.Op]int),
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), scannerBufSize)
	for scanner.Scan() {
		state.lines++
		word, script, ok, err := batch.Fields(scanner.Text(), cfg.WordColumn, cfg.ScriptColumn)
		if !ok {
			continue
		}
		state.tokens++
		if err != nil {
			state.recordFailure(word, script, err, logger)
			continue
		}
		state.checkRule(word, script, logger)
	}
	if err := scanner.Err(); err != nil {
		logger.Error("Error reading file", zap.String("path", path), zap.Error(err))
	}

	logger.Debug("Processed file",
		zap.String("file", filepath.Base(path)),
		zap.Int("tokens", state.tokens),
		zap.Duration("elapsed", time.Since(fileStart).Round(time.Millisecond)))

	mergeFileState(state, stats)
}

// checkRule applies one rule and, when it is invertible, verifies that the
// inverse leads back to the word.
func (fs *fileState) checkRule(word, script string, logger *zap.Logger) {
	if lemma.IsIdentity(script) {
		fs.identity++
		return
	}

	s, err := lemma.Parse(script)
	if err != nil {
		fs.recordFailure(word, script, err, logger)
		return
	}
	for _, in := range s {
		fs.opCounts[in.Op]++
	}

	lem, err := s.Apply(word)
	if err != nil {
		fs.recordFailure(word, script, err, logger)
		return
	}
	fs.applied++

	inv, err := s.Invert()
	if err != nil {
		fs.notInvertible++
		return
	}
	back, err := inv.Apply(lem)
	if err == nil && back == word {
		fs.invertOK++
		return
	}
	fs.invertFail++
	if !fs.invertLogged {
		pos, got, want := firstDivergence(word, back)
		logger.Warn("INVERT_FAIL",
			zap.String("path", fs.path),
			zap.String("word", word),
			zap.String("script", script),
			zap.String("inverse", inv.String()),
			zap.Int("divergence", pos),
			zap.Uint8("got", got),
			zap.Uint8("want", want),
			zap.Error(err))
		fs.invertLogged = true
	}
}

func (fs *fileState) recordFailure(word, script string, err error, logger *zap.Logger) {
	fs.failed++
	if !fs.failLogged {
		logger.Warn("RULE_FAIL",
			zap.String("path", fs.path),
			zap.String("word", word),
			zap.String("script", script),
			zap.Error(err))
		fs.failLogged = true
	}
}

func mergeFileState(fs *fileState, stats *Stats) {
	stats.mu.Lock()
	defer stats.mu.Unlock()

	stats.filesScanned++
	stats.lines += fs.lines
	stats.tokens += fs.tokens
	stats.identity += fs.identity
	stats.applied += fs.applied
	stats.failed += fs.failed
	stats.invertOK += fs.invertOK
	stats.invertFail += fs.invertFail
	stats.notInvertible += fs.notInvertible

	for op, count := range fs.opCounts {
		stats.opCounts[op] += count
	}

	if fs.tokens > 0 {
		stats.fileRatios = append(stats.fileRatios, fileRatio{
			path:   fs.path,
			tokens: fs.tokens,
			failed: fs.failed,
			ratio:  float64(fs.failed) / float64(fs.tokens),
		})
	}
}

// flagFailureOutliers computes the median failure ratio across all files and
// flags any file whose ratio exceeds outlierFactor times the median.
func flagFailureOutliers(stats *Stats, logger *zap.Logger) {
	if len(stats.fileRatios) == 0 {
		return
	}

	ratios := make([]float64, len(stats.fileRatios))
	for i, fr := range stats.fileRatios {
		ratios[i] = fr.ratio
	}
	med := computeMedian(ratios)

	for _, fr := range stats.fileRatios {
		if med > 0 && fr.ratio > outlierFactor*med {
			stats.failOutliers++
			logger.Warn("FAILURE_OUTLIER",
				zap.String("path", fr.path),
				zap.Int("failed", fr.failed),
				zap.Int("tokens", fr.tokens),
				zap.Float64("ratio", fr.ratio),
				zap.Float64("median", med))
		}
	}
}

// firstDivergence finds the byte position where two strings first differ.
// Returns the position and the differing bytes from each string.
func firstDivergence(original, reconstructed string) (pos int, got, want byte) {
	n := min(len(original), len(reconstructed))
	for i := 0; i < n; i++ {
		if original[i] != reconstructed[i] {
			return i, reconstructed[i], original[i]
		}
	}
	pos = n
	if pos < len(reconstructed) {
		got = reconstructed[pos]
	}
	if pos < len(original) {
		want = original[pos]
	}
	return pos, got, want
}

func computeMedian(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2 //nolint:mnd // arithmetic mean of two middle values
	}
	return sorted[mid]
}

func printStats(stats *Stats) {
	fmt.Printf("Files scanned:           %d\n", stats.filesScanned)
	fmt.Printf("Lines:                   %d\n", stats.lines)
	fmt.Printf("Tokens:                  %d\n", stats.tokens)
	fmt.Printf("Identity rules:          %d\n", stats.identity)
	fmt.Printf("Rules applied:           %d\n", stats.applied)
	fmt.Printf("Rules FAIL:              %d\n", stats.failed)
	fmt.Printf("Invert OK:               %d\n", stats.invertOK)
	fmt.Printf("Invert FAIL:             %d\n", stats.invertFail)
	fmt.Printf("Not invertible:          %d\n", stats.notInvertible)
	fmt.Printf("Failure outliers:        %d\n", stats.failOutliers)
	fmt.Println()

	totalOps := 0
	for _, count := range stats.opCounts {
		totalOps += count
	}

	fmt.Println("Instruction distribution:")
	for _, op := range []lemma.Op{lemma.Remove, lemma.Add, lemma.Keep, lemma.KeepLength} {
		printOpStats(op, stats.opCounts, totalOps)
	}
}

func printOpStats(op lemma.Op, counts map[lemma.Op]int, total int) {
	count := counts[op]
	percentage := 0.0
	if total > 0 {
		percentage = float64(count) / float64(total) * 100
	}
	fmt.Printf("  %-15s %d  (%.1f%%)\n", op.String()+":", count, percentage)
}
