package query

import (
	"context"
	"errors"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

type fakeInventoryRepo struct {
	items   map[int64]*domain.InventoryItem
	findErr error
}

func newFakeInventoryRepo(items ...domain.InventoryItem) *fakeInventoryRepo {
	r := &fakeInventoryRepo{items: make(map[int64]*domain.InventoryItem)}
	for i := range items {
		item := items[i]
		r.items[item.ID] = &item
	}
	return r
}

func (r *fakeInventoryRepo) Create(ctx context.Context, item *domain.InventoryItem) error {
	r.items[item.ID] = item
	return nil
}

func (r *fakeInventoryRepo) FindByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	item, ok := r.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeInventoryRepo) FindAll(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, item := range r.items {
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeInventoryRepo) FindActiveByLocation(ctx context.Context, location string) ([]domain.InventoryItem, error) {
	var out []domain.InventoryItem
	for _, item := range r.items {
		if domain.SameLocation(item.Location, location) && !item.IsEmpty() {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) UpdateQuantities(ctx context.Context, id int64, expected, next domain.Quantities) error {
	return errors.New("not used")
}

func (r *fakeInventoryRepo) UpdateLocation(ctx context.Context, id int64, expectedLocation, location string) error {
	return errors.New("not used")
}

func (r *fakeInventoryRepo) Delete(ctx context.Context, id int64) error {
	return errors.New("not used")
}

type fakeRateRepo struct {
	rates   map[string]domain.ConversionRate
	err     error
	lookups int
}

func (r *fakeRateRepo) FindBySKU(ctx context.Context, sku string) (*domain.ConversionRate, error) {
	r.lookups++
	if r.err != nil {
		return nil, r.err
	}
	rate, ok := r.rates[sku]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rate, nil
}

func (r *fakeRateRepo) FindAll(ctx context.Context) ([]domain.ConversionRate, error) {
	var out []domain.ConversionRate
	for _, rate := range r.rates {
		out = append(out, rate)
	}
	return out, nil
}

func (r *fakeRateRepo) Save(ctx context.Context, rate *domain.ConversionRate) error {
	r.rates[rate.SKU] = *rate
	return nil
}

type mapCache map[string]domain.ConversionRate

func (c mapCache) Get(ctx context.Context, sku string) (*domain.ConversionRate, bool) {
	rate, ok := c[sku]
	if !ok {
		return nil, false
	}
	return &rate, true
}

func (c mapCache) Set(ctx context.Context, rate domain.ConversionRate) { c[rate.SKU] = rate }

func (c mapCache) Invalidate(ctx context.Context, sku string) { delete(c, sku) }

var defaultRate = domain.ConversionRate{
	Level1Name: "carton",
	Level2Name: "box",
	Level3Name: "piece",
	Level1Rate: 144,
	Level2Rate: 12,
}
