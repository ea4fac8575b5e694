package lemma

import (
	"fmt"
	"strconv"
	"strings"
)

// Op is the kind of an edit instruction.
type Op uint8

const (
	Remove     Op = iota // strip Text from the end of the head
	Add                  // append Text to the head
	Keep                 // move the suffix Text from the head to the tail
	KeepLength           // move the last N runes from the head to the tail
)

var opNames = [...]string{
	Remove:     "Remove",
	Add:        "Add",
	Keep:       "Keep",
	KeepLength: "KeepLength",
}

// String returns the name of the instruction kind.
func (o Op) String() string {
	if int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

const (
	tagAdd    = '+'
	tagRemove = '-'
	tagKeep   = '='

	segmentOpen    = '['
	segmentClose   = ']'
	keepLengthMark = "#"
)

// Instruction is a single edit. Text is a substring of the script it was
// parsed from; N is only meaningful for KeepLength.
type Instruction struct {
	Op   Op
	Text string
	N    int
}

// String renders the instruction in edit-script notation, e.g. -[ed] or =[#3].
func (in Instruction) String() string {
	switch in.Op {
	case Remove:
		return string(tagRemove) + "[" + in.Text + "]"
	case Add:
		return string(tagAdd) + "[" + in.Text + "]"
	case Keep:
		return string(tagKeep) + "[" + in.Text + "]"
	case KeepLength:
		return string(tagKeep) + "[" + keepLengthMark + strconv.Itoa(in.N) + "]"
	default:
		return in.Op.String()
	}
}

// Script is an ordered sequence of instructions, applied left to right.
type Script []Instruction

// String renders the script back into edit-script notation. An empty script
// renders as "", which Compute treats as the identity.
func (s Script) String() string {
	var sb strings.Builder
	for _, in := range s {
		sb.WriteString(in.String())
	}
	return sb.String()
}

// Invert returns the script that turns the lemma produced by s back into the
// original word.
//
// Each run of Remove/Add instructions is reversed with the two kinds
// swapped. A Keep(p) becomes a leading Remove(p) plus an Add(p) placed after
// the inverse of the run that followed it, so every kept piece is restored
// at its original position.
//
// Returns an error wrapping ErrNotInvertible if s contains KeepLength.
func (s Script) Invert() (Script, error) {
	var (
		kept []string
		runs = [][]Instruction{nil}
	)
	for _, in := range s {
		switch in.Op {
		case Remove, Add:
			runs[len(runs)-1] = append(runs[len(runs)-1], in)
		case Keep:
			kept = append(kept, in.Text)
			runs = append(runs, nil)
		case KeepLength:
			return nil, &Error{Op: "invert", Segment: in.String(), Err: ErrNotInvertible}
		default:
			return nil, &Error{Op: "invert", Segment: in.String(), Err: ErrInvalidInstruction}
		}
	}

	out := make(Script, 0, len(s)+len(kept))
	for _, p := range kept {
		out = append(out, Instruction{Op: Remove, Text: p})
	}
	for i := len(runs) - 1; i >= 0; i-- {
		run := runs[i]
		for j := len(run) - 1; j >= 0; j-- {
			out = append(out, mirror(run[j]))
		}
		if i > 0 {
			out = append(out, Instruction{Op: Add, Text: kept[i-1]})
		}
	}
	return out, nil
}

func mirror(in Instruction) Instruction {
	if in.Op == Remove {
		return Instruction{Op: Add, Text: in.Text}
	}
	return Instruction{Op: Remove, Text: in.Text}
}
