package trip

import (
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "simple lowercase",
			input: "Nusa Penida",
			want:  "nusa penida",
		},
		{
			name:  "trim whitespace",
			input: "  bali  ",
			want:  "bali",
		},
		{
			name:  "collapse internal whitespace",
			input: "raja    ampat",
			want:  "raja ampat",
		},
		{
			name:  "tabs and newlines",
			input: "nusa\t\n  penida",
			want:  "nusa penida",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   \t\n   ",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.input)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestCleanLine(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"keeps case", "  Kelingking   Beach ", 100, "Kelingking Beach"},
		{"truncates runes", "Ubud rice terraces", 4, "Ubud"},
		{"multibyte safe", "Île de Gili", 3, "Île"},
		{"trailing space after cut", "ab cd", 3, "ab"},
		{"empty", "   ", 10, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanLine(tt.input, tt.max); got != tt.want {
				t.Errorf("CleanLine(%q, %d) = %q, want %q", tt.input, tt.max, got, tt.want)
			}
		})
	}
}

func TestCleanText_KeepsLineBreaks(t *testing.T) {
	got := CleanText("  bring cash\nboat leaves 8am  ", MaxNote)
	if got != "bring cash\nboat leaves 8am" {
		t.Errorf("CleanText() = %q", got)
	}
}
