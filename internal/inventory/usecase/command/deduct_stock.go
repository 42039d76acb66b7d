package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/pkg/logger"
)

// DeductStockCommand removes tiered quantities from one record
type DeductStockCommand struct {
	ItemID     int64
	Quantities domain.Quantities
}

// DeductionResult reports what a deduction left behind
type DeductionResult struct {
	ItemID            int64             `json:"item_id,string"`
	SKU               string            `json:"sku"`
	Location          string            `json:"location"`
	Before            domain.Quantities `json:"before"`
	After             domain.Quantities `json:"after"`
	TotalPiecesBefore int               `json:"total_pieces_before"`
	TotalPiecesAfter  int               `json:"total_pieces_after"`
	IsEmpty           bool              `json:"is_empty"`
	Deleted           bool              `json:"deleted"`
	Message           string            `json:"message"`
}

// DeductStockHandler handles deduct stock command
type DeductStockHandler struct {
	repo      domain.InventoryRepository
	writer    domain.StockWriter
	rates     domain.RateResolver
	publisher domain.EventPublisher
}

// NewDeductStockHandler creates a new deduct stock handler
func NewDeductStockHandler(repo domain.InventoryRepository, writer domain.StockWriter, rates domain.RateResolver, publisher domain.EventPublisher) *DeductStockHandler {
	return &DeductStockHandler{repo: repo, writer: writer, rates: rates, publisher: publisher}
}

// Handle re-reads the record, checks it covers the request and writes the
// remainder conditionally on what was read. An emptied record is deleted,
// or kept at zero when other rows still reference it.
func (h *DeductStockHandler) Handle(ctx context.Context, cmd DeductStockCommand) (*DeductionResult, error) {
	result, err := h.deduct(ctx, cmd)
	if err != nil {
		deductionsTotal.WithLabelValues(outcomeLabel(err)).Inc()
		return nil, err
	}
	if result.IsEmpty {
		deductionsTotal.WithLabelValues("emptied").Inc()
	} else {
		deductionsTotal.WithLabelValues("success").Inc()
	}
	return result, nil
}

func (h *DeductStockHandler) deduct(ctx context.Context, cmd DeductStockCommand) (*DeductionResult, error) {
	if cmd.ItemID == 0 {
		return nil, &domain.ValidationError{Subject: "deduction", Errors: []string{"item id is required"}}
	}
	if cmd.Quantities.HasNegative() {
		return nil, &domain.ValidationError{Subject: "deduction", Errors: []string{"quantities cannot be negative"}}
	}
	if cmd.Quantities.IsZero() {
		return nil, &domain.ValidationError{Subject: "deduction", Errors: []string{"at least one quantity must be positive"}}
	}

	item, err := h.repo.FindByID(ctx, cmd.ItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to load item %d: %w", cmd.ItemID, err)
	}

	if err := domain.CheckItemStock(item, cmd.Quantities); err != nil {
		return nil, err
	}

	before := item.Quantities()
	after := before.Sub(cmd.Quantities)

	// Zero the record first so the delete below only ever removes an empty row
	if err := h.writer.UpdateQuantities(ctx, item.ID, before, after); err != nil {
		return nil, err
	}

	deleted := false
	if after.IsZero() {
		err := h.writer.Delete(ctx, item.ID)
		switch {
		case err == nil:
			deleted = true
		case errors.Is(err, domain.ErrReferenced):
			logger.Info(ctx).Int64("item_id", item.ID).Msg("Emptied record is still referenced, kept with zero quantities")
		default:
			// The zeros are already stored; leaving the empty row is safe
			logger.Warn(ctx).Err(err).Int64("item_id", item.ID).Msg("Failed to delete emptied record")
		}
	}

	rate := domain.EffectiveRate(ctx, h.rates, item)
	result := &DeductionResult{
		ItemID:            item.ID,
		SKU:               item.SKU,
		Location:          domain.DisplayLocation(item.Location),
		Before:            before,
		After:             after,
		TotalPiecesBefore: domain.ToBaseUnits(before, rate),
		TotalPiecesAfter:  domain.ToBaseUnits(after, rate),
		IsEmpty:           after.IsZero(),
		Deleted:           deleted,
	}
	result.Message = fmt.Sprintf("Deducted %s from %s at %s, %s remaining",
		domain.FormatBreakdown(cmd.Quantities, rate), item.SKU, result.Location, domain.FormatBreakdown(after, rate))

	event := domain.StockEvent{
		EventType:    domain.EventStockDeducted,
		ItemID:       item.ID,
		SKU:          item.SKU,
		FromLocation: result.Location,
		Before:       before,
		After:        after,
		Deleted:      deleted,
	}
	publishEvent(ctx, h.publisher, event)
	if result.IsEmpty {
		event.EventType = domain.EventInventoryEmptied
		publishEvent(ctx, h.publisher, event)
	}

	return result, nil
}

func outcomeLabel(err error) string {
	var (
		insufficient *domain.InsufficientStockError
		validation   *domain.ValidationError
		stale        *domain.StaleRecordError
		persistence  *domain.PersistenceError
	)
	switch {
	case errors.As(err, &insufficient):
		return "insufficient"
	case errors.As(err, &validation):
		return "invalid"
	case errors.As(err, &stale):
		return "stale"
	case errors.As(err, &persistence):
		return "persistence"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}
