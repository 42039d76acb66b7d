package kafka

import (
	"context"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/pkg/logger"
)

// DefaultTopic carries every stock event, keyed by item id
const DefaultTopic = "inventory-stock-events"

// Message header keys
const (
	HeaderEventType = "event_type"
	HeaderEventID   = "event_id"
)

// StockEventTypes lists the event types the audit consumer persists
var StockEventTypes = []domain.StockEventType{
	domain.EventStockDeducted,
	domain.EventInventoryEmptied,
	domain.EventInventoryTransferred,
	domain.EventStockAdjusted,
}

// LogPublisher stands in for Kafka when no brokers are configured
type LogPublisher struct{}

func (LogPublisher) PublishStockEvent(ctx context.Context, event domain.StockEvent) error {
	logger.Info(ctx).
		Str("event_id", event.EventID).
		Str("event_type", string(event.EventType)).
		Int64("item_id", event.ItemID).
		Str("sku", event.SKU).
		Msg("Stock event (kafka disabled)")
	return nil
}
