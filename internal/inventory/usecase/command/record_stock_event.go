package command

import (
	"context"
	"fmt"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/pkg/logger"
)

// RecordStockEventHandler appends consumed stock events to the audit trail
type RecordStockEventHandler struct {
	repo domain.AuditLogRepository
}

func NewRecordStockEventHandler(repo domain.AuditLogRepository) *RecordStockEventHandler {
	return &RecordStockEventHandler{repo: repo}
}

// Handle stores the event; redelivered events are absorbed by the event id
func (h *RecordStockEventHandler) Handle(ctx context.Context, event domain.StockEvent) error {
	if event.EventID == "" || event.ItemID == 0 {
		return &domain.ValidationError{Subject: "stock event", Errors: []string{"event id and item id are required"}}
	}

	if err := h.repo.Record(ctx, domain.NewStockAuditLog(event)); err != nil {
		return fmt.Errorf("failed to record event %s: %w", event.EventID, err)
	}

	logger.Debug(ctx).
		Str("event_id", event.EventID).
		Str("event_type", string(event.EventType)).
		Int64("item_id", event.ItemID).
		Msg("Stock event recorded")
	return nil
}
