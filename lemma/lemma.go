// Package lemma converts word-forms into their lemmas by replaying compact
// suffix edit scripts.
//
// An edit script is a concatenation of tagged bracketed segments that
// describe, from the end of the word backward, what to remove, add, or keep:
//
//	-[ed]          remove the suffix "ed"
//	+[en]          append "en"
//	=[pen]         keep the suffix "pen" unchanged
//	=[#3]          keep the last three characters, whatever they are
//
// Segments concatenate without separators (e.g. "=[pen]-[ie]+[o]" turns
// "liepen" into "lopen"). The empty script and the literal "0" mean the
// lemma equals the word.
//
// The package provides two API layers:
//
//   - Structured: Parse and ParseStrict return a Script, which can be
//     applied to many words, rendered back into notation, or inverted.
//
//   - Convenience: Compute parses and applies in one call, and Lemma falls
//     back to the unmodified word when the rule does not apply.
//
// All lengths and offsets are counted in runes. A suffix operation never
// splits a multi-byte character.
//
// All functions are safe for concurrent use by multiple goroutines.
//
// Known limitations:
//
//   - Edit scripts are consumed, not generated. Producing a script from a
//     word/lemma pair is the job of an external diff tool.
//   - Tag characters (+ - =) inside a segment re-arm the parser, so a
//     segment's literal text cannot contain them. This matches the notation
//     emitted by upstream producers.
//   - No normalization or case folding is performed. Input is compared
//     byte for byte.
package lemma

// identityScript is the sentinel emitted for words whose lemma is the word itself.
const identityScript = "0"

// IsIdentity reports whether editscript is one of the no-change sentinels:
// the empty string or "0".
func IsIdentity(editscript string) bool {
	return editscript == "" || editscript == identityScript
}

// Compute returns the lemma of word under editscript.
//
// The empty script and "0" return word unchanged without parsing.
// Unterminated trailing segments are ignored; use ParseStrict followed by
// Script.Apply to reject them.
//
// Returns an error wrapping ErrMismatch when the script was produced for a
// different word-form. No partial lemma is returned on failure.
func Compute(word, editscript string) (string, error) {
	if IsIdentity(editscript) {
		return word, nil
	}
	script, err := Parse(editscript)
	if err != nil {
		return "", err
	}
	return script.Apply(word)
}

// Lemma is like Compute but returns word unchanged when the script cannot be
// parsed or does not apply.
func Lemma(word, editscript string) string {
	l, err := Compute(word, editscript)
	if err != nil {
		return word
	}
	return l
}
