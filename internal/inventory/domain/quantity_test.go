package domain

import (
	"errors"
	"testing"
)

var testRate = ConversionRate{
	SKU:        "SKU-1",
	Level1Name: "carton",
	Level2Name: "box",
	Level3Name: "piece",
	Level1Rate: 144,
	Level2Rate: 12,
}

func TestToBaseUnits(t *testing.T) {
	tests := []struct {
		name string
		q    Quantities
		rate ConversionRate
		want int
	}{
		{"mixed", Quantities{Level1: 2, Level2: 3, Level3: 5}, testRate, 2*144 + 3*12 + 5},
		{"pieces only", Quantities{Level3: 7}, testRate, 7},
		{"zero rates count as one", Quantities{Level1: 2, Level2: 3, Level3: 1}, ConversionRate{}, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToBaseUnits(tt.q, tt.rate); got != tt.want {
				t.Errorf("ToBaseUnits = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToBaseUnitsIsAdditive(t *testing.T) {
	a := Quantities{Level1: 1, Level2: 4, Level3: 9}
	b := Quantities{Level1: 3, Level2: 0, Level3: 13}
	if ToBaseUnits(a, testRate)+ToBaseUnits(b, testRate) != ToBaseUnits(a.Add(b), testRate) {
		t.Error("ToBaseUnits is not additive")
	}
}

func TestFromBaseUnitsRoundTrip(t *testing.T) {
	for _, total := range []int{0, 1, 11, 12, 143, 144, 145, 1000, 12345} {
		q := FromBaseUnits(total, testRate)
		if got := ToBaseUnits(q, testRate); got != total {
			t.Errorf("round trip of %d gave %d (%+v)", total, got, q)
		}
		if q.Level2 >= 12 || q.Level3 >= 12 {
			t.Errorf("FromBaseUnits(%d) = %+v is not canonical", total, q)
		}
	}

	if q := FromBaseUnits(-5, testRate); !q.IsZero() {
		t.Errorf("negative total should give zero, got %+v", q)
	}
	if q := FromBaseUnits(10, ConversionRate{}); q.Level1 != 10 {
		t.Errorf("zero rate decomposition = %+v", q)
	}
}

func TestConvertBetweenTiers(t *testing.T) {
	tests := []struct {
		qty      int
		from, to Tier
		want     int
	}{
		{2, TierLevel1, TierLevel3, 288},
		{2, TierLevel1, TierLevel2, 24},
		{30, TierLevel3, TierLevel2, 2},
		{143, TierLevel3, TierLevel1, 0},
		{5, TierLevel2, TierLevel2, 5},
		{5, Tier(9), TierLevel2, 0},
	}

	for _, tt := range tests {
		if got := ConvertBetweenTiers(tt.qty, tt.from, tt.to, testRate); got != tt.want {
			t.Errorf("ConvertBetweenTiers(%d, %s, %s) = %d, want %d", tt.qty, tt.from, tt.to, got, tt.want)
		}
	}
}

func TestFormatBreakdown(t *testing.T) {
	if got := FormatBreakdown(Quantities{Level1: 2, Level3: 1}, testRate); got != "2 carton 1 piece" {
		t.Errorf("FormatBreakdown = %q", got)
	}
	if got := FormatBreakdown(Quantities{}, testRate); got != "0 piece" {
		t.Errorf("FormatBreakdown(zero) = %q", got)
	}
	if got := FormatBreakdown(Quantities{Level2: 1}, ConversionRate{}); got != "1 level2" {
		t.Errorf("FormatBreakdown without names = %q", got)
	}
}

func TestPickQuantities(t *testing.T) {
	available := Quantities{Level1: 1, Level2: 5, Level3: 20}

	pick, err := PickQuantities(available, 144+24+3, testRate)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pick != (Quantities{Level1: 1, Level2: 2, Level3: 3}) {
		t.Errorf("pick = %+v", pick)
	}

	// Only one carton on hand, so the second carton's worth comes from boxes and pieces
	pick, err = PickQuantities(available, 2*144, testRate)
	if err == nil {
		t.Fatalf("expected shortage, got pick %+v", pick)
	}
	var insufficient *InsufficientStockError
	if !errors.As(err, &insufficient) {
		t.Fatalf("expected *InsufficientStockError, got %v", err)
	}
	s, ok := insufficient.Shortage(TierLevel3)
	if !ok || s.Shortfall != 144-60-20 {
		t.Errorf("shortage = %+v", s)
	}

	// Boxes cover the request once the carton is left on the shelf
	uneven := ConversionRate{Level1Rate: 10, Level2Rate: 4}
	pick, err = PickQuantities(Quantities{Level1: 1, Level2: 3}, 12, uneven)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pick != (Quantities{Level2: 3}) {
		t.Errorf("pick = %+v", pick)
	}

	var validation *ValidationError
	if _, err := PickQuantities(available, -1, testRate); !errors.As(err, &validation) {
		t.Errorf("negative pick should be a validation error, got %v", err)
	}
}
