package command

import (
	"context"
	"errors"
	"sync"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// memoryStore is an in-memory InventoryRepository with compare-and-set writes
type memoryStore struct {
	mu     sync.Mutex
	items  map[int64]*domain.InventoryItem
	nextID int64

	referenced   map[int64]bool
	failLocation map[int64]error
	failUpdate   map[int64]error
}

func newMemoryStore(items ...domain.InventoryItem) *memoryStore {
	s := &memoryStore{
		items:        make(map[int64]*domain.InventoryItem),
		nextID:       1000,
		referenced:   make(map[int64]bool),
		failLocation: make(map[int64]error),
		failUpdate:   make(map[int64]error),
	}
	for i := range items {
		item := items[i]
		s.items[item.ID] = &item
	}
	return s
}

func (s *memoryStore) Create(ctx context.Context, item *domain.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if item.ID == 0 {
		s.nextID++
		item.ID = s.nextID
	}
	copied := *item
	s.items[item.ID] = &copied
	return nil
}

func (s *memoryStore) FindByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *memoryStore) FindAll(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error) {
	return nil, nil
}

func (s *memoryStore) FindActiveByLocation(ctx context.Context, location string) ([]domain.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.InventoryItem
	for _, item := range s.items {
		if domain.SameLocation(item.Location, location) && !item.IsEmpty() {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (s *memoryStore) UpdateQuantities(ctx context.Context, id int64, expected, next domain.Quantities) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failUpdate[id]; err != nil {
		return err
	}
	item, ok := s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if item.Quantities() != expected {
		return &domain.StaleRecordError{ItemID: id}
	}
	item.SetQuantities(next)
	return nil
}

func (s *memoryStore) UpdateLocation(ctx context.Context, id int64, expectedLocation, location string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failLocation[id]; err != nil {
		return err
	}
	item, ok := s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	if item.Location != expectedLocation {
		return &domain.StaleRecordError{ItemID: id}
	}
	item.Location = location
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.referenced[id] {
		return domain.ErrReferenced
	}
	if _, ok := s.items[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *memoryStore) get(id int64) (domain.InventoryItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return domain.InventoryItem{}, false
	}
	return *item, true
}

type recordingPublisher struct {
	events []domain.StockEvent
	err    error
}

func (p *recordingPublisher) PublishStockEvent(ctx context.Context, event domain.StockEvent) error {
	p.events = append(p.events, event)
	return p.err
}

func (p *recordingPublisher) types() []domain.StockEventType {
	out := make([]domain.StockEventType, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType
	}
	return out
}

type staticRates struct{ rate domain.ConversionRate }

func (r staticRates) GetRate(ctx context.Context, sku string) domain.ConversionRate {
	return r.rate.ForSKU(sku)
}

type memoryRateRepo struct {
	rates map[string]domain.ConversionRate
	err   error
}

func (r *memoryRateRepo) FindBySKU(ctx context.Context, sku string) (*domain.ConversionRate, error) {
	rate, ok := r.rates[sku]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &rate, nil
}

func (r *memoryRateRepo) FindAll(ctx context.Context) ([]domain.ConversionRate, error) {
	return nil, nil
}

func (r *memoryRateRepo) Save(ctx context.Context, rate *domain.ConversionRate) error {
	if r.err != nil {
		return r.err
	}
	r.rates[rate.SKU] = *rate
	return nil
}

type recordingCache struct{ invalidated []string }

func (c *recordingCache) Get(ctx context.Context, sku string) (*domain.ConversionRate, bool) {
	return nil, false
}
func (c *recordingCache) Set(ctx context.Context, rate domain.ConversionRate) {}
func (c *recordingCache) Invalidate(ctx context.Context, sku string) {
	c.invalidated = append(c.invalidated, sku)
}

var (
	cartonRate = domain.ConversionRate{
		Level1Name: "carton",
		Level2Name: "box",
		Level3Name: "piece",
		Level1Rate: 144,
		Level2Rate: 12,
	}
	errUnreachable = errors.New("store unreachable")
)

func newItem(id int64, location string, q domain.Quantities) domain.InventoryItem {
	item := domain.InventoryItem{ID: id, SKU: "SKU-1", Location: location}
	item.SetQuantities(q)
	item.ApplyRate(cartonRate)
	return item
}
