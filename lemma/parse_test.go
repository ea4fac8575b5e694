package lemma

import (
	"errors"
	"slices"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   Script
	}{
		// -- Well-formed --
		{"remove add", "-[en]+[t]", Script{{Op: Remove, Text: "en"}, {Op: Add, Text: "t"}}},
		{"keep length remove", "=[#2]-[s]", Script{{Op: KeepLength, N: 2}, {Op: Remove, Text: "s"}}},
		{"keep literal", "=[pen]", Script{{Op: Keep, Text: "pen"}}},
		{"keep length zero", "=[#0]", Script{{Op: KeepLength, N: 0}}},
		{"keep length large", "=[#120]", Script{{Op: KeepLength, N: 120}}},
		{"empty add", "+[]", Script{{Op: Add, Text: ""}}},
		{"multi-byte", "-[ä]+[ö]", Script{{Op: Remove, Text: "ä"}, {Op: Add, Text: "ö"}}},
		{"cjk", "-[った]+[る]", Script{{Op: Remove, Text: "った"}, {Op: Add, Text: "る"}}},
		{
			"four segments", "-[d]+[en]=[wandelen]-[ge]",
			Script{{Op: Remove, Text: "d"}, {Op: Add, Text: "en"}, {Op: Keep, Text: "wandelen"}, {Op: Remove, Text: "ge"}},
		},

		// -- Hash content that is not a count --
		{"bare hash", "=[#]", Script{{Op: Keep, Text: "#"}}},
		{"hash with letters", "=[#12a]", Script{{Op: Keep, Text: "#12a"}}},
		{"hash with space", "=[# 1]", Script{{Op: Keep, Text: "# 1"}}},
		{"hash overflow", "=[#99999999999999999999999]", Script{{Op: Keep, Text: "#99999999999999999999999"}}},
		{"hash outside keep", "+[#2]", Script{{Op: Add, Text: "#2"}}},

		// -- Scanner quirks --
		{"last tag wins", "+-[a]", Script{{Op: Remove, Text: "a"}}},
		{"tag inside content re-arms", "+[a-b]", Script{{Op: Remove, Text: "a-b"}}},
		{"open bracket restarts content", "-[a[b]", Script{{Op: Remove, Text: "b"}}},
		{"stray close bracket", "-[a]]", Script{{Op: Remove, Text: "a"}}},
		{"bracket without tag", "-[a]x[b]", Script{{Op: Remove, Text: "a"}}},

		// -- Nothing to emit --
		{"empty", "", nil},
		{"identity sentinel", "0", nil},
		{"no tag", "[x]", nil},
		{"close only", "x]", nil},
		{"tag only", "-", nil},
		{"unterminated", "-[abc", nil},
		{"unterminated after segment", "-[s]+[x", Script{{Op: Remove, Text: "s"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.script)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.script, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.script, got, tt.want)
			}
		})
	}
}

func TestParseTextSharesInput(t *testing.T) {
	in := "-[lange]+[kort]"
	got, err := Parse(in)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(got) != 2 || got[0].Text != in[2:7] || got[1].Text != in[10:14] {
		t.Errorf("Parse(%q) = %#v", in, got)
	}
}

func TestParseStrict(t *testing.T) {
	tests := []struct {
		name    string
		script  string
		want    Script
		wantErr bool
	}{
		{"well-formed", "-[en]+[t]", Script{{Op: Remove, Text: "en"}, {Op: Add, Text: "t"}}, false},
		{"empty", "", nil, false},
		{"no tag", "[x]", nil, false},
		{"stray close bracket", "-[a]]", Script{{Op: Remove, Text: "a"}}, false},
		{"open segment", "-[s]+[x", nil, true},
		{"trailing tag", "-[s]+", nil, true},
		{"tag only", "=", nil, true},
		{"open bracket only", "-[", nil, true},
		{"identity sentinel", "0", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStrict(tt.script)
			if tt.wantErr {
				if !errors.Is(err, ErrUnterminated) {
					t.Fatalf("ParseStrict(%q) error = %v, want ErrUnterminated", tt.script, err)
				}
				if got != nil {
					t.Errorf("ParseStrict(%q) = %#v on error, want nil", tt.script, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseStrict(%q) error: %v", tt.script, err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseStrict(%q) = %#v, want %#v", tt.script, got, tt.want)
			}
		})
	}
}

func TestParseStrictNamesTrailingFragment(t *testing.T) {
	_, err := ParseStrict("-[s]+[x")
	var le *Error
	if !errors.As(err, &le) {
		t.Fatalf("error %T is not *Error", err)
	}
	if le.Segment != "+[x" {
		t.Errorf("Segment = %q, want %q", le.Segment, "+[x")
	}
}

func TestSegmentInvalidMode(t *testing.T) {
	_, err := segment('?', "x")
	if !errors.Is(err, ErrParserState) {
		t.Errorf("segment('?') error = %v, want ErrParserState", err)
	}
}

func TestKeepLength(t *testing.T) {
	tests := []struct {
		text   string
		want   int
		wantOK bool
	}{
		{"#0", 0, true},
		{"#7", 7, true},
		{"#007", 7, true},
		{"#", 0, false},
		{"7", 0, false},
		{"#-1", 0, false},
		{"#+1", 0, false},
		{"#1.5", 0, false},
		{"##1", 0, false},
		{"#99999999999999999999999", 0, false},
	}
	for _, tt := range tests {
		got, ok := keepLength(tt.text)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("keepLength(%q) = (%d, %v), want (%d, %v)", tt.text, got, ok, tt.want, tt.wantOK)
		}
	}
}
