package domain

import (
	"context"
	"time"
)

// StockEventType names what happened to a record
type StockEventType string

const (
	EventStockDeducted        StockEventType = "stock.deducted"
	EventInventoryEmptied     StockEventType = "inventory.emptied"
	EventInventoryTransferred StockEventType = "inventory.transferred"
	EventStockAdjusted        StockEventType = "stock.adjusted"
)

// StockEvent is the audit record emitted after a stock mutation
type StockEvent struct {
	EventID      string         `json:"event_id"`
	EventType    StockEventType `json:"event_type"`
	ItemID       int64          `json:"item_id,string"`
	SKU          string         `json:"sku"`
	FromLocation string         `json:"from_location,omitempty"`
	ToLocation   string         `json:"to_location,omitempty"`
	Before       Quantities     `json:"before"`
	After        Quantities     `json:"after"`
	Deleted      bool           `json:"deleted,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}

// EventPublisher ships stock events to the audit log
type EventPublisher interface {
	PublishStockEvent(ctx context.Context, event StockEvent) error
}
