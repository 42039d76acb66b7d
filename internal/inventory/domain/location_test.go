package domain

import (
	"errors"
	"testing"
)

func TestNormalizeLocation(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{"legacy lowercase", "h1/9", "H9/1", true},
		{"canonical idempotent", "H9/1", "H9/1", true},
		{"canonical with spaces", "  a 12 / 3 ", "A12/3", true},
		{"legacy slashed", "b/2/15", "B15/2", true},
		{"ambiguous text prefers canonical", "C2/3", "C2/3", true},
		{"position out of range", "Z5/99", "", false},
		{"legacy level first", "A1/5", "A5/1", true},
		{"level out of range", "A5/7", "", false},
		{"position out of range both ways", "A1/21", "", false},
		{"position zero", "A0/1", "", false},
		{"not a letter", "11/1", "", false},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := NormalizeLocation(tt.raw)
			if ok != tt.ok || got != tt.want {
				t.Errorf("NormalizeLocation(%q) = (%q, %v), want (%q, %v)", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestNormalizeLocationIsIdempotent(t *testing.T) {
	for _, raw := range []string{"h1/9", "A20/4", "q/4/20", "m3/7"} {
		once, ok := NormalizeLocation(raw)
		if !ok {
			t.Fatalf("NormalizeLocation(%q) failed", raw)
		}
		twice, ok := NormalizeLocation(once)
		if !ok || twice != once {
			t.Errorf("NormalizeLocation(%q) = %q, not stable", once, twice)
		}
	}
}

func TestParseLocationReturnsFormatError(t *testing.T) {
	_, err := ParseLocation("Z5/99")

	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected *FormatError, got %v", err)
	}
	if formatErr.Input != "Z5/99" {
		t.Errorf("Input = %q", formatErr.Input)
	}
}

func TestDisplayLocation(t *testing.T) {
	if got := DisplayLocation("h1/9"); got != "H9/1" {
		t.Errorf("DisplayLocation(h1/9) = %q", got)
	}
	if got := DisplayLocation("DOCK-2"); got != "DOCK-2" {
		t.Errorf("unparseable text should pass through, got %q", got)
	}
	for _, blank := range []string{"", "   ", "\t"} {
		if got := DisplayLocation(blank); got != "" {
			t.Errorf("DisplayLocation(%q) = %q, want empty", blank, got)
		}
	}
}

func TestSameLocation(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"a9/1", "A9/1", true},
		{"H1/9", "H9/1", true},
		{"H/1/9", "h9/1", true},
		{"A2/3", "A3/2", false},
		{"A9/1", "B9/1", false},
		{"", "", false},
		{"DOCK", "DOCK", false},
	}

	for _, tt := range tests {
		if got := SameLocation(tt.a, tt.b); got != tt.want {
			t.Errorf("SameLocation(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestLocationVariants(t *testing.T) {
	code := LocationCode{Row: 'H', Position: 9, Level: 1}
	got := LocationVariants(code)
	want := []string{"H9/1", "H1/9", "H/1/9"}
	if len(got) != len(want) {
		t.Fatalf("LocationVariants = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("variant %d = %q, want %q", i, got[i], want[i])
		}
	}

	if got := LocationVariants(LocationCode{Row: 'A', Position: 1, Level: 1}); len(got) != 2 {
		t.Errorf("A1/1 variants = %v, want two after dedupe", got)
	}
}
