package query

import (
	"context"
	"errors"
	"strings"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/pkg/logger"
)

// ResolveRateHandler answers the conversion rate of a SKU.
// Lookups go cache, then store, then the configured default.
type ResolveRateHandler struct {
	repo        domain.ConversionRateRepository
	cache       domain.RateCache
	defaultRate domain.ConversionRate
}

// NewResolveRateHandler creates a new rate resolver. cache may be nil.
func NewResolveRateHandler(repo domain.ConversionRateRepository, cache domain.RateCache, defaultRate domain.ConversionRate) *ResolveRateHandler {
	defaultRate.IsDefault = true
	return &ResolveRateHandler{repo: repo, cache: cache, defaultRate: defaultRate}
}

// GetRate never fails: a missing row or an unreachable store yields the default
func (h *ResolveRateHandler) GetRate(ctx context.Context, sku string) domain.ConversionRate {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return h.defaultRate
	}

	if h.cache != nil {
		if rate, ok := h.cache.Get(ctx, sku); ok {
			return *rate
		}
	}

	rate, err := h.repo.FindBySKU(ctx, sku)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn(ctx).Err(err).Str("sku", sku).Msg("Conversion rate lookup failed, using default")
		}
		return h.defaultRate.ForSKU(sku)
	}

	rate.IsDefault = false
	if h.cache != nil {
		h.cache.Set(ctx, *rate)
	}
	return *rate
}

// DefaultRate returns the rate used for unconfigured SKUs
func (h *ResolveRateHandler) DefaultRate() domain.ConversionRate {
	return h.defaultRate
}

// ListConversionRatesHandler handles list conversion rates query
type ListConversionRatesHandler struct {
	repo domain.ConversionRateRepository
}

func NewListConversionRatesHandler(repo domain.ConversionRateRepository) *ListConversionRatesHandler {
	return &ListConversionRatesHandler{repo: repo}
}

func (h *ListConversionRatesHandler) Handle(ctx context.Context) ([]domain.ConversionRate, error) {
	rates, err := h.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return rates, nil
}
