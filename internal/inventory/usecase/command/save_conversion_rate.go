package command

import (
	"context"
	"fmt"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// SaveConversionRateHandler validates and stores a per-SKU rate
type SaveConversionRateHandler struct {
	repo  domain.ConversionRateRepository
	cache domain.RateCache
}

// NewSaveConversionRateHandler creates a new save conversion rate handler. cache may be nil.
func NewSaveConversionRateHandler(repo domain.ConversionRateRepository, cache domain.RateCache) *SaveConversionRateHandler {
	return &SaveConversionRateHandler{repo: repo, cache: cache}
}

// Handle refuses invalid candidates; nothing is written unless every rule passes
func (h *SaveConversionRateHandler) Handle(ctx context.Context, in domain.ConversionRateInput) (*domain.ConversionRate, error) {
	if result := domain.ValidateConversionRate(in); !result.IsValid {
		return nil, &domain.ValidationError{Subject: "conversion rate", Errors: result.Errors}
	}

	rate := in.ToRate()
	if err := h.repo.Save(ctx, &rate); err != nil {
		return nil, fmt.Errorf("failed to save conversion rate for %s: %w", rate.SKU, err)
	}

	if h.cache != nil {
		h.cache.Invalidate(ctx, rate.SKU)
	}
	return &rate, nil
}
