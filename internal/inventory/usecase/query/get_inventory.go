package query

import (
	"context"
	"fmt"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// GetInventoryHandler handles get inventory query
type GetInventoryHandler struct {
	repo  domain.InventoryRepository
	rates domain.RateResolver
}

// NewGetInventoryHandler creates a new get inventory handler
func NewGetInventoryHandler(repo domain.InventoryRepository, rates domain.RateResolver) *GetInventoryHandler {
	return &GetInventoryHandler{repo: repo, rates: rates}
}

// Handle executes the get inventory query
func (h *GetInventoryHandler) Handle(ctx context.Context, id int64) (*ItemView, error) {
	if id == 0 {
		return nil, &domain.ValidationError{Subject: "inventory id", Errors: []string{"id is required"}}
	}

	item, err := h.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory %d: %w", id, err)
	}

	view := NewItemView(ctx, h.rates, *item)
	return &view, nil
}
