package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/pkg/logger"
)

// publishEvent never fails the caller; the audit trail is best effort
func publishEvent(ctx context.Context, publisher domain.EventPublisher, event domain.StockEvent) {
	if publisher == nil {
		return
	}

	event.EventID = uuid.New().String()
	event.Timestamp = time.Now().UTC()

	if err := publisher.PublishStockEvent(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", string(event.EventType)).
			Int64("item_id", event.ItemID).
			Msg("Failed to publish stock event")
	}
}
