package query

import (
	"context"
	"fmt"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// CheckDestinationQuery asks what a slot would hold after the incoming records arrive
type CheckDestinationQuery struct {
	Destination string
	IncomingIDs []int64
}

// DestinationPreview summarises a transfer destination before anything moves
type DestinationPreview struct {
	Location       string     `json:"location"`
	Occupied       bool       `json:"occupied"`
	Existing       []ItemView `json:"existing"`
	Incoming       []ItemView `json:"incoming"`
	ExistingPieces int        `json:"existing_pieces"`
	IncomingPieces int        `json:"incoming_pieces"`
	TotalItems     int        `json:"total_items"`
	TotalPieces    int        `json:"total_pieces"`
}

// CheckDestinationHandler handles check destination query
type CheckDestinationHandler struct {
	repo  domain.InventoryRepository
	rates domain.RateResolver
}

func NewCheckDestinationHandler(repo domain.InventoryRepository, rates domain.RateResolver) *CheckDestinationHandler {
	return &CheckDestinationHandler{repo: repo, rates: rates}
}

// Handle previews the destination. Incoming records already stored there count only once.
func (h *CheckDestinationHandler) Handle(ctx context.Context, q CheckDestinationQuery) (*DestinationPreview, error) {
	code, err := domain.ParseLocation(q.Destination)
	if err != nil {
		return nil, err
	}

	incomingSet := make(map[int64]bool, len(q.IncomingIDs))
	preview := &DestinationPreview{Location: code.String()}

	for _, id := range q.IncomingIDs {
		if incomingSet[id] {
			continue
		}
		incomingSet[id] = true

		item, err := h.repo.FindByID(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to load incoming item %d: %w", id, err)
		}
		view := NewItemView(ctx, h.rates, *item)
		preview.Incoming = append(preview.Incoming, view)
		preview.IncomingPieces += view.TotalPieces
	}

	existing, err := h.repo.FindActiveByLocation(ctx, code.String())
	if err != nil {
		return nil, fmt.Errorf("failed to check destination %s: %w", code, err)
	}
	for _, item := range existing {
		if incomingSet[item.ID] {
			continue
		}
		view := NewItemView(ctx, h.rates, item)
		preview.Existing = append(preview.Existing, view)
		preview.ExistingPieces += view.TotalPieces
	}

	preview.Occupied = len(preview.Existing) > 0
	preview.TotalItems = len(preview.Existing) + len(preview.Incoming)
	preview.TotalPieces = preview.ExistingPieces + preview.IncomingPieces
	return preview, nil
}
