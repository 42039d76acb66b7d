package domain

import (
	"fmt"
	"strings"
)

// Tier identifies one packaging level. TierLevel3 is always the base (piece) unit.
type Tier int

const (
	TierLevel1 Tier = iota + 1
	TierLevel2
	TierLevel3
)

// Tiers lists all tiers from the largest pack to the base unit
var Tiers = []Tier{TierLevel1, TierLevel2, TierLevel3}

func (t Tier) String() string {
	switch t {
	case TierLevel1:
		return "level1"
	case TierLevel2:
		return "level2"
	case TierLevel3:
		return "level3"
	default:
		return fmt.Sprintf("tier(%d)", int(t))
	}
}

// Valid reports whether t is one of the three known tiers
func (t Tier) Valid() bool {
	return t >= TierLevel1 && t <= TierLevel3
}

// Quantities is a tier-quantity triple
type Quantities struct {
	Level1 int `json:"level1"`
	Level2 int `json:"level2"`
	Level3 int `json:"level3"`
}

// Get returns the quantity held in tier t
func (q Quantities) Get(t Tier) int {
	switch t {
	case TierLevel1:
		return q.Level1
	case TierLevel2:
		return q.Level2
	case TierLevel3:
		return q.Level3
	}
	return 0
}

// Add sums two triples component-wise
func (q Quantities) Add(o Quantities) Quantities {
	return Quantities{Level1: q.Level1 + o.Level1, Level2: q.Level2 + o.Level2, Level3: q.Level3 + o.Level3}
}

// Sub subtracts component-wise; the result may be negative
func (q Quantities) Sub(o Quantities) Quantities {
	return Quantities{Level1: q.Level1 - o.Level1, Level2: q.Level2 - o.Level2, Level3: q.Level3 - o.Level3}
}

// IsZero reports whether every tier is zero
func (q Quantities) IsZero() bool {
	return q.Level1 == 0 && q.Level2 == 0 && q.Level3 == 0
}

// HasNegative reports whether any tier is below zero
func (q Quantities) HasNegative() bool {
	return q.Level1 < 0 || q.Level2 < 0 || q.Level3 < 0
}

// ToBaseUnits is the single formula for total pieces across all tiers
func ToBaseUnits(q Quantities, rate ConversionRate) int {
	return q.Level1*rate.TierRate(TierLevel1) + q.Level2*rate.TierRate(TierLevel2) + q.Level3
}

// FromBaseUnits greedily decomposes a piece total into the canonical breakdown
func FromBaseUnits(total int, rate ConversionRate) Quantities {
	if total <= 0 {
		return Quantities{}
	}
	r1 := rate.TierRate(TierLevel1)
	r2 := rate.TierRate(TierLevel2)

	rest := total % r1
	return Quantities{
		Level1: total / r1,
		Level2: rest / r2,
		Level3: rest % r2,
	}
}

// ConvertBetweenTiers converts qty units of tier from into whole units of tier to, truncating
func ConvertBetweenTiers(qty int, from, to Tier, rate ConversionRate) int {
	if !from.Valid() || !to.Valid() {
		return 0
	}
	return qty * rate.TierRate(from) / rate.TierRate(to)
}

// FormatBreakdown renders quantities with tier names, skipping empty tiers
func FormatBreakdown(q Quantities, rate ConversionRate) string {
	var parts []string
	for _, t := range Tiers {
		if n := q.Get(t); n != 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, rate.TierName(t)))
		}
	}
	if len(parts) == 0 {
		return "0 " + rate.TierName(TierLevel3)
	}
	return strings.Join(parts, " ")
}

// PickQuantities turns a scalar piece count into tiered pick quantities bounded
// by what is available in each tier. Larger packs are taken first and packs are
// never broken. When the level1 rate is not a multiple of the level2 rate, fewer
// level1 packs are tried before reporting the smallest shortfall.
func PickQuantities(available Quantities, pieces int, rate ConversionRate) (Quantities, error) {
	if pieces < 0 {
		return Quantities{}, &ValidationError{Subject: "pick quantity", Errors: []string{"pieces cannot be negative"}}
	}

	r1 := rate.TierRate(TierLevel1)
	r2 := rate.TierRate(TierLevel2)

	shortfall := pieces
	for level1 := min(pieces/r1, max(available.Level1, 0)); level1 >= 0; level1-- {
		pick := Quantities{Level1: level1}
		remaining := pieces - level1*r1

		pick.Level2 = min(remaining/r2, max(available.Level2, 0))
		remaining -= pick.Level2 * r2

		pick.Level3 = min(remaining, max(available.Level3, 0))
		remaining -= pick.Level3

		if remaining == 0 {
			return pick, nil
		}
		shortfall = min(shortfall, remaining)
	}

	return Quantities{}, &InsufficientStockError{
		Shortages: []TierShortage{{
			Tier:      TierLevel3,
			Name:      rate.TierName(TierLevel3),
			Requested: pieces,
			Available: pieces - shortfall,
			Shortfall: shortfall,
		}},
	}
}
