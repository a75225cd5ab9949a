package planner

import (
	"strings"
	"testing"
)

func TestCanonical(t *testing.T) {
	cat := DefaultCatalog()
	tests := []struct {
		label string
		want  string
	}{
		{"Bali", "Bali"},
		{"  BALI ", "Bali"},
		{"nusa", "Nusa Penida"},
		{"Nusa   Penida", "Nusa Penida"},
		{"raja ampat", "RajaAmpat"},
		{"Gili Trawangan", "Gili"},
		{"", "Other"},
		{"Ubud", "Other"},
	}
	for _, tt := range tests {
		if got := cat.Canonical(tt.label); got != tt.want {
			t.Errorf("Canonical(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestMoveCost(t *testing.T) {
	cat := DefaultCatalog()
	tests := []struct {
		from, to string
		want     int
	}{
		{"Bali", "Nusa Penida", 1},
		{"nusa", "bali", 1},
		{"Flores", "Komodo", 1},
		{"Sumatra", "Flores", 6},
		{"Bali", "Bali", 0},
		{"Bali", "Atlantis", 3},
		{"", "Bali", 3},
		{"Bali", "", 3},
	}
	for _, tt := range tests {
		if got := cat.MoveCost(tt.from, tt.to); got != tt.want {
			t.Errorf("MoveCost(%q, %q) = %d, want %d", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestDefaultCatalog_Names(t *testing.T) {
	names := DefaultCatalog().Names()
	if len(names) != 12 {
		t.Fatalf("len(Names()) = %d, want 12", len(names))
	}
	if names[0] != "Bali" {
		t.Errorf("Names()[0] = %q, want Bali", names[0])
	}
	if DefaultCatalog().Fallback() != "Other" {
		t.Errorf("Fallback() = %q, want Other", DefaultCatalog().Fallback())
	}

	// Names returns a copy.
	names[0] = "Mutated"
	if DefaultCatalog().Names()[0] != "Bali" {
		t.Error("Names() exposed internal slice")
	}
}

func TestParseCatalog_Custom(t *testing.T) {
	cat, err := ParseCatalog([]byte(`
fallback: Elsewhere
fallback_cost: 9
locations:
  - name: North
    synonyms: [n, up]
  - name: South
  - name: Elsewhere
costs:
  North: {South: 4}
`))
	if err != nil {
		t.Fatalf("ParseCatalog: %v", err)
	}
	if got := cat.Canonical("UP"); got != "North" {
		t.Errorf("Canonical(UP) = %q, want North", got)
	}
	if got := cat.Canonical("south"); got != "South" {
		t.Errorf("Canonical(south) = %q, want South", got)
	}
	if got := cat.Canonical("west"); got != "Elsewhere" {
		t.Errorf("Canonical(west) = %q, want Elsewhere", got)
	}
	if got := cat.MoveCost("n", "South"); got != 4 {
		t.Errorf("MoveCost(n, South) = %d, want 4", got)
	}
	if got := cat.MoveCost("South", "North"); got != 9 {
		t.Errorf("MoveCost(South, North) = %d, want fallback 9", got)
	}
}

func TestParseCatalog_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"empty", "  \n", "empty"},
		{"bad yaml", "fallback: [", "decode"},
		{"no fallback", "locations:\n  - name: A\n", "fallback location is required"},
		{"fallback not listed", "fallback: Z\nlocations:\n  - name: A\n", "not a listed location"},
		{"negative fallback cost", "fallback: A\nfallback_cost: -1\nlocations:\n  - name: A\n", "must not be negative"},
		{"unnamed location", "fallback: A\nlocations:\n  - synonyms: [x]\n", "without a name"},
		{"duplicate", "fallback: A\nlocations:\n  - name: A\n  - name: A\n", "duplicate"},
		{"synonym clash", "fallback: A\nlocations:\n  - name: A\n    synonyms: [x]\n  - name: B\n    synonyms: [x]\n", "maps to both"},
		{"unknown cost row", "fallback: A\nlocations:\n  - name: A\ncosts:\n  B: {A: 1}\n", "unknown location"},
		{"unknown cost column", "fallback: A\nlocations:\n  - name: A\ncosts:\n  A: {B: 1}\n", "unknown location"},
		{"negative cost", "fallback: A\nlocations:\n  - name: A\n  - name: B\ncosts:\n  A: {B: -2}\n", "negative"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCatalog([]byte(tt.input))
			if err == nil {
				t.Fatal("ParseCatalog() expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}
