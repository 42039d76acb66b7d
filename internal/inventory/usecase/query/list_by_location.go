package query

import (
	"context"
	"fmt"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// LocationView lists the active records stored at one slot
type LocationView struct {
	Location    string     `json:"location"`
	Items       []ItemView `json:"items"`
	TotalPieces int        `json:"total_pieces"`
}

// ListByLocationHandler handles list by location query
type ListByLocationHandler struct {
	repo  domain.InventoryRepository
	rates domain.RateResolver
}

func NewListByLocationHandler(repo domain.InventoryRepository, rates domain.RateResolver) *ListByLocationHandler {
	return &ListByLocationHandler{repo: repo, rates: rates}
}

func (h *ListByLocationHandler) Handle(ctx context.Context, location string) (*LocationView, error) {
	code, err := domain.ParseLocation(location)
	if err != nil {
		return nil, err
	}

	items, err := h.repo.FindActiveByLocation(ctx, code.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory at %s: %w", code, err)
	}

	view := &LocationView{Location: code.String(), Items: newItemViews(ctx, h.rates, items)}
	for _, item := range view.Items {
		view.TotalPieces += item.TotalPieces
	}
	return view, nil
}
