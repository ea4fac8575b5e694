package lemma

import (
	"strconv"
	"unicode/utf8"
)

// Apply replays the script against word and returns the lemma.
//
// The replay keeps two parts: the head, still subject to edits, and the
// tail, already final. Every instruction works on the end of the head;
// Keep and KeepLength move runes from the end of the head to the front of
// the tail. The lemma is the head followed by the tail.
//
// Returns an error wrapping ErrMismatch when a Remove or Keep suffix is
// longer than the head or differs from it, or when a KeepLength count
// exceeds the head length.
func (s Script) Apply(word string) (string, error) {
	head, tail := word, ""

	for _, in := range s {
		switch in.Op {
		case Remove:
			cut, err := matchSuffix(head, in.Text, "remove suffix")
			if err != nil {
				return "", err
			}
			head = head[:cut]
		case Add:
			head += in.Text
		case Keep:
			cut, err := matchSuffix(head, in.Text, "keep suffix")
			if err != nil {
				return "", err
			}
			head, tail = head[:cut], head[cut:]+tail
		case KeepLength:
			if in.N < 0 {
				return "", &Error{Op: "keep length", Segment: strconv.Itoa(in.N), Err: ErrInvalidInstruction}
			}
			cut, ok := suffixStart(head, in.N)
			if !ok {
				return "", &Error{
					Op:      "keep length",
					Segment: strconv.Itoa(in.N),
					Reason:  "length to keep is longer than head " + strconv.Quote(head),
					Err:     ErrMismatch,
				}
			}
			head, tail = head[:cut], head[cut:]+tail
		default:
			return "", &Error{Op: "apply", Segment: in.Op.String(), Err: ErrInvalidInstruction}
		}
	}

	return head + tail, nil
}

// matchSuffix returns the byte offset at which suffix starts in head.
func matchSuffix(head, suffix, op string) (int, error) {
	cut, ok := suffixStart(head, utf8.RuneCountInString(suffix))
	if !ok {
		return 0, &Error{Op: op, Segment: suffix, Reason: "suffix is longer than head", Err: ErrMismatch}
	}
	if head[cut:] != suffix {
		return 0, &Error{Op: op, Segment: suffix, Err: ErrMismatch}
	}
	return cut, nil
}

// suffixStart returns the byte offset where the last n runes of s begin.
// Reports false if s has fewer than n runes.
func suffixStart(s string, n int) (int, bool) {
	cut := len(s)
	for ; n > 0; n-- {
		if cut == 0 {
			return 0, false
		}
		_, size := utf8.DecodeLastRuneInString(s[:cut])
		cut -= size
	}
	return cut, true
}
