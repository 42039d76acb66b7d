package query

import (
	"context"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// ItemView is an inventory record with its location in canonical form and its piece total
type ItemView struct {
	domain.InventoryItem
	DisplayLocation string `json:"display_location"`
	TotalPieces     int    `json:"total_pieces"`
	Breakdown       string `json:"breakdown"`
}

// NewItemView decorates item using its effective conversion rate
func NewItemView(ctx context.Context, resolver domain.RateResolver, item domain.InventoryItem) ItemView {
	rate := domain.EffectiveRate(ctx, resolver, &item)
	q := item.Quantities()
	return ItemView{
		InventoryItem:   item,
		DisplayLocation: domain.DisplayLocation(item.Location),
		TotalPieces:     domain.ToBaseUnits(q, rate),
		Breakdown:       domain.FormatBreakdown(q, rate),
	}
}

func newItemViews(ctx context.Context, resolver domain.RateResolver, items []domain.InventoryItem) []ItemView {
	views := make([]ItemView, 0, len(items))
	for _, item := range items {
		views = append(views, NewItemView(ctx, resolver, item))
	}
	return views
}
