package writer

import (
	"context"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// DirectWriter writes straight to the store through the repository
type DirectWriter struct {
	repo domain.StockWriter
}

func NewDirectWriter(repo domain.StockWriter) *DirectWriter {
	return &DirectWriter{repo: repo}
}

func (w *DirectWriter) Name() string { return "direct" }

func (w *DirectWriter) UpdateQuantities(ctx context.Context, id int64, expected, next domain.Quantities) error {
	return w.repo.UpdateQuantities(ctx, id, expected, next)
}

func (w *DirectWriter) UpdateLocation(ctx context.Context, id int64, expectedLocation, location string) error {
	return w.repo.UpdateLocation(ctx, id, expectedLocation, location)
}

func (w *DirectWriter) Delete(ctx context.Context, id int64) error {
	return w.repo.Delete(ctx, id)
}
