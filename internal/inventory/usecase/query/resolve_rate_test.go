package query

import (
	"context"
	"errors"
	"testing"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

func TestGetRateFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		repo *fakeRateRepo
	}{
		{"missing row", &fakeRateRepo{rates: map[string]domain.ConversionRate{}}},
		{"store failure", &fakeRateRepo{err: errors.New("connection refused")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewResolveRateHandler(tt.repo, nil, defaultRate)
			rate := h.GetRate(context.Background(), "SKU-9")

			if !rate.IsDefault || rate.SKU != "SKU-9" {
				t.Errorf("rate = %+v, want default for SKU-9", rate)
			}
			if rate.Level1Rate != 144 || rate.Level2Rate != 12 {
				t.Errorf("default rates = %d/%d", rate.Level1Rate, rate.Level2Rate)
			}
		})
	}
}

func TestGetRateReadsThroughCache(t *testing.T) {
	repo := &fakeRateRepo{rates: map[string]domain.ConversionRate{
		"SKU-1": {SKU: "SKU-1", Level1Name: "case", Level2Name: "pack", Level3Name: "unit", Level1Rate: 48, Level2Rate: 6},
	}}
	cache := mapCache{}
	h := NewResolveRateHandler(repo, cache, defaultRate)

	for i := 0; i < 3; i++ {
		rate := h.GetRate(context.Background(), " SKU-1 ")
		if rate.IsDefault || rate.Level1Rate != 48 {
			t.Fatalf("rate = %+v", rate)
		}
	}
	if repo.lookups != 1 {
		t.Errorf("store lookups = %d, want 1", repo.lookups)
	}
}

func TestGetRateDoesNotCacheDefault(t *testing.T) {
	repo := &fakeRateRepo{rates: map[string]domain.ConversionRate{}}
	cache := mapCache{}
	h := NewResolveRateHandler(repo, cache, defaultRate)

	h.GetRate(context.Background(), "SKU-2")
	if len(cache) != 0 {
		t.Errorf("default rate was cached: %v", cache)
	}
}
