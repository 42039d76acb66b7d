package command

import (
	"context"
	"fmt"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// AdjustQuantitiesCommand overwrites a record's quantities after a physical count.
// Expected must hold what the counter saw on screen; a concurrent change makes the adjustment stale.
type AdjustQuantitiesCommand struct {
	ItemID     int64
	Expected   domain.Quantities
	Quantities domain.Quantities
}

// AdjustQuantitiesHandler handles adjust quantities command
type AdjustQuantitiesHandler struct {
	writer    domain.StockWriter
	repo      domain.InventoryRepository
	publisher domain.EventPublisher
}

// NewAdjustQuantitiesHandler creates a new adjust quantities handler
func NewAdjustQuantitiesHandler(repo domain.InventoryRepository, writer domain.StockWriter, publisher domain.EventPublisher) *AdjustQuantitiesHandler {
	return &AdjustQuantitiesHandler{repo: repo, writer: writer, publisher: publisher}
}

// Handle executes the adjust quantities command
func (h *AdjustQuantitiesHandler) Handle(ctx context.Context, cmd AdjustQuantitiesCommand) (*domain.InventoryItem, error) {
	if cmd.ItemID == 0 {
		return nil, &domain.ValidationError{Subject: "adjustment", Errors: []string{"item id is required"}}
	}

	if cmd.Quantities.HasNegative() {
		return nil, &domain.ValidationError{Subject: "adjustment", Errors: []string{"quantities cannot be negative"}}
	}

	if err := h.writer.UpdateQuantities(ctx, cmd.ItemID, cmd.Expected, cmd.Quantities); err != nil {
		return nil, err
	}

	item, err := h.repo.FindByID(ctx, cmd.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload item %d: %w", cmd.ItemID, err)
	}

	publishEvent(ctx, h.publisher, domain.StockEvent{
		EventType:    domain.EventStockAdjusted,
		ItemID:       item.ID,
		SKU:          item.SKU,
		FromLocation: domain.DisplayLocation(item.Location),
		Before:       cmd.Expected,
		After:        cmd.Quantities,
	})

	return item, nil
}
