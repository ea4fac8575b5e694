package batch

import (
	"errors"
	"fmt"
	"strings"
)

const (
	columnSep     = "\t"
	commentPrefix = "#"
)

// ErrColumns reports a token line with fewer columns than configured.
var ErrColumns = errors.New("missing column")

// record is one input line and, once lemmatized, its outcome.
type record struct {
	line   int
	text   string
	word   string
	script string
	lemma  string
	pass   bool // blank or comment line, copied through unchanged
	err    error
}

// Fields extracts the word and edit script from a tab-separated token line.
// Reports ok=false for blank and comment lines, which carry no token.
func Fields(line string, wordCol, scriptCol int) (word, script string, ok bool, err error) {
	if strings.TrimSpace(line) == "" || strings.HasPrefix(line, commentPrefix) {
		return "", "", false, nil
	}
	cols := strings.Split(line, columnSep)
	if wordCol < len(cols) {
		word = cols[wordCol]
	}
	if need := max(wordCol, scriptCol) + 1; len(cols) < need {
		return word, "", true, fmt.Errorf("%w: line has %d columns, need %d", ErrColumns, len(cols), need)
	}
	return word, cols[scriptCol], true, nil
}
