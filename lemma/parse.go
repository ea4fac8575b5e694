package lemma

import (
	"strconv"
	"strings"
)

// Parse converts editscript into a Script.
//
// The scan is rune by rune. A tag character (+, -, =) arms the mode for the
// next segment, a '[' seen while armed starts the content, and a ']' closes
// the segment once content has started. The last tag before a bracket wins.
// Content of the form #N, with N a non-negative decimal integer, inside an
// = segment yields KeepLength(N); any other = content yields Keep.
//
// Unterminated trailing segments and stray brackets produce no instruction.
// Parse does not special-case the identity sentinels; see IsIdentity.
func Parse(editscript string) (Script, error) {
	return parse(editscript, false)
}

// ParseStrict is like Parse but returns an error wrapping ErrUnterminated
// when the script ends with an armed tag or an open segment.
func ParseStrict(editscript string) (Script, error) {
	return parse(editscript, true)
}

func parse(editscript string, strict bool) (Script, error) {
	var (
		script Script
		mode   rune
		start  = -1 // byte offset of the current segment content
		rest   int  // byte offset just past the last closed segment
	)

	for i, r := range editscript {
		if mode != 0 {
			if start >= 0 && r == segmentClose {
				in, err := segment(mode, editscript[start:i])
				if err != nil {
					return nil, err
				}
				script = append(script, in)
				start, mode = -1, 0
				rest = i + 1
			}
			if r == segmentOpen {
				start = i + 1
			}
		}
		if r == tagAdd || r == tagRemove || r == tagKeep {
			mode = r
		}
	}

	if strict && (mode != 0 || start >= 0) {
		return nil, &Error{Op: "parse", Segment: editscript[rest:], Err: ErrUnterminated}
	}
	return script, nil
}

// segment classifies the content of a closed segment under mode.
func segment(mode rune, text string) (Instruction, error) {
	switch mode {
	case tagAdd:
		return Instruction{Op: Add, Text: text}, nil
	case tagRemove:
		return Instruction{Op: Remove, Text: text}, nil
	case tagKeep:
		if n, ok := keepLength(text); ok {
			return Instruction{Op: KeepLength, N: n}, nil
		}
		return Instruction{Op: Keep, Text: text}, nil
	default:
		return Instruction{}, &Error{Op: "parse", Segment: string(mode) + "[" + text + "]", Err: ErrParserState}
	}
}

// keepLength parses #N content. Values that do not fit in an int are
// treated as literal text.
func keepLength(text string) (int, bool) {
	digits, ok := strings.CutPrefix(text, keepLengthMark)
	if !ok || digits == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(digits, 10, strconv.IntSize-1)
	if err != nil {
		return 0, false
	}
	return int(n), true
}
