package command

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

type memoryAuditRepo struct {
	entries map[string]domain.StockAuditLog
	err     error
}

func (r *memoryAuditRepo) Record(ctx context.Context, entry *domain.StockAuditLog) error {
	if r.err != nil {
		return r.err
	}
	if _, ok := r.entries[entry.EventID]; !ok {
		r.entries[entry.EventID] = *entry
	}
	return nil
}

func (r *memoryAuditRepo) FindByItemID(ctx context.Context, itemID int64, limit int) ([]domain.StockAuditLog, error) {
	return nil, nil
}

func TestRecordStockEventFlattensQuantities(t *testing.T) {
	repo := &memoryAuditRepo{entries: map[string]domain.StockAuditLog{}}
	h := NewRecordStockEventHandler(repo)

	event := domain.StockEvent{
		EventID:      "evt-1",
		EventType:    domain.EventStockDeducted,
		ItemID:       7,
		SKU:          "SKU-1",
		FromLocation: "A1/1",
		Before:       domain.Quantities{Level1: 2, Level3: 5},
		After:        domain.Quantities{Level1: 1, Level3: 5},
		Timestamp:    time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC),
	}
	for i := 0; i < 2; i++ {
		if err := h.Handle(context.Background(), event); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(repo.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(repo.entries))
	}
	got := repo.entries["evt-1"]
	if got.Level1Before != 2 || got.Level1After != 1 || got.Level3After != 5 || !got.OccurredAt.Equal(event.Timestamp) {
		t.Errorf("entry = %+v", got)
	}
}

func TestRecordStockEventRejectsAnonymousEvents(t *testing.T) {
	h := NewRecordStockEventHandler(&memoryAuditRepo{entries: map[string]domain.StockAuditLog{}})

	var validation *domain.ValidationError
	if err := h.Handle(context.Background(), domain.StockEvent{ItemID: 1}); !errors.As(err, &validation) {
		t.Errorf("got %v, want ValidationError", err)
	}
}

func TestRecordStockEventWrapsStoreErrors(t *testing.T) {
	storeErr := errors.New("disk full")
	h := NewRecordStockEventHandler(&memoryAuditRepo{err: storeErr})

	err := h.Handle(context.Background(), domain.StockEvent{EventID: "evt-2", ItemID: 1})
	if !errors.Is(err, storeErr) {
		t.Errorf("got %v, want wrapped store error", err)
	}
}
