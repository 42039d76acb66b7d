package domain

import (
	"context"
	"time"
)

// StockAuditLog is the persisted form of a StockEvent
type StockAuditLog struct {
	ID           int64          `json:"id,string" gorm:"primaryKey;autoIncrement"`
	EventID      string         `json:"event_id" gorm:"size:64;uniqueIndex;not null"`
	EventType    StockEventType `json:"event_type" gorm:"size:32;not null"`
	ItemID       int64          `json:"item_id,string" gorm:"index;not null"`
	SKU          string         `json:"sku" gorm:"size:64"`
	FromLocation string         `json:"from_location,omitempty" gorm:"size:32"`
	ToLocation   string         `json:"to_location,omitempty" gorm:"size:32"`
	Level1Before int            `json:"level1_before"`
	Level2Before int            `json:"level2_before"`
	Level3Before int            `json:"level3_before"`
	Level1After  int            `json:"level1_after"`
	Level2After  int            `json:"level2_after"`
	Level3After  int            `json:"level3_after"`
	Deleted      bool           `json:"deleted"`
	OccurredAt   time.Time      `json:"occurred_at" gorm:"index"`
	CreatedAt    time.Time      `json:"created_at"`
}

// TableName specifies the table name
func (StockAuditLog) TableName() string {
	return "stock_audit_logs"
}

// NewStockAuditLog flattens an event into an audit row
func NewStockAuditLog(e StockEvent) *StockAuditLog {
	return &StockAuditLog{
		EventID:      e.EventID,
		EventType:    e.EventType,
		ItemID:       e.ItemID,
		SKU:          e.SKU,
		FromLocation: e.FromLocation,
		ToLocation:   e.ToLocation,
		Level1Before: e.Before.Level1,
		Level2Before: e.Before.Level2,
		Level3Before: e.Before.Level3,
		Level1After:  e.After.Level1,
		Level2After:  e.After.Level2,
		Level3After:  e.After.Level3,
		Deleted:      e.Deleted,
		OccurredAt:   e.Timestamp,
	}
}

// AuditLogRepository stores and reads the stock audit trail
type AuditLogRepository interface {
	// Record stores the entry once; replaying the same event id is a no-op
	Record(ctx context.Context, entry *StockAuditLog) error
	FindByItemID(ctx context.Context, itemID int64, limit int) ([]StockAuditLog, error)
}
