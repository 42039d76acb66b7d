package query

import (
	"context"
	"fmt"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// GetStockHistoryHandler returns the audit trail of one record
type GetStockHistoryHandler struct {
	repo domain.AuditLogRepository
}

func NewGetStockHistoryHandler(repo domain.AuditLogRepository) *GetStockHistoryHandler {
	return &GetStockHistoryHandler{repo: repo}
}

func (h *GetStockHistoryHandler) Handle(ctx context.Context, itemID int64, limit int) ([]domain.StockAuditLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	entries, err := h.repo.FindByItemID(ctx, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history of item %d: %w", itemID, err)
	}
	return entries, nil
}
