package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// FulfilPiecesCommand deducts a scalar piece count, picking whole packs first
type FulfilPiecesCommand struct {
	ItemID int64
	Pieces int
}

// FulfilPiecesHandler handles fulfil pieces command
type FulfilPiecesHandler struct {
	repo   domain.InventoryRepository
	rates  domain.RateResolver
	deduct *DeductStockHandler
}

func NewFulfilPiecesHandler(repo domain.InventoryRepository, rates domain.RateResolver, deduct *DeductStockHandler) *FulfilPiecesHandler {
	return &FulfilPiecesHandler{repo: repo, rates: rates, deduct: deduct}
}

func (h *FulfilPiecesHandler) Handle(ctx context.Context, cmd FulfilPiecesCommand) (*DeductionResult, error) {
	if cmd.Pieces <= 0 {
		return nil, &domain.ValidationError{Subject: "fulfilment", Errors: []string{"pieces must be greater than 0"}}
	}

	item, err := h.repo.FindByID(ctx, cmd.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item %d: %w", cmd.ItemID, err)
	}

	pick, err := domain.PickQuantities(item.Quantities(), cmd.Pieces, domain.EffectiveRate(ctx, h.rates, item))
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if errors.As(err, &insufficient) {
			insufficient.ItemID = item.ID
			insufficient.SKU = item.SKU
			insufficient.Location = item.Location
		}
		return nil, err
	}

	return h.deduct.Handle(ctx, DeductStockCommand{ItemID: item.ID, Quantities: pick})
}
