package lemma

import (
	"errors"
	"strconv"
	"strings"
)

var (
	// ErrMismatch reports that an instruction's suffix or length does not
	// match the word at that point of the replay.
	ErrMismatch = errors.New("rule does not match current word")

	// ErrParserState reports an internal parser inconsistency. It signals a
	// bug in the scanner and should never surface.
	ErrParserState = errors.New("invalid parser state")

	// ErrUnterminated reports a script ending inside a segment (strict parsing only).
	ErrUnterminated = errors.New("unterminated segment")

	// ErrInvalidInstruction reports an instruction with an unknown Op or a
	// negative length.
	ErrInvalidInstruction = errors.New("invalid instruction")

	// ErrNotInvertible reports a script holding a KeepLength instruction,
	// which carries no literal text to restore.
	ErrNotInvertible = errors.New("script is not invertible")
)

// Error describes a failed parse, replay, or inversion.
type Error struct {
	Op      string // operation being attempted, e.g. "remove suffix"
	Segment string // offending segment text or length
	Reason  string // optional detail, e.g. "suffix is longer than head"
	Err     error  // one of the package sentinels
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString("lemma: ")
	sb.WriteString(e.Err.Error())
	if e.Reason != "" {
		sb.WriteString(", ")
		sb.WriteString(e.Reason)
	}
	if e.Op != "" {
		sb.WriteString(" (unable to ")
		sb.WriteString(e.Op)
		sb.WriteByte(' ')
		sb.WriteString(strconv.Quote(e.Segment))
		sb.WriteByte(')')
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Err }
