package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

type GormInventoryRepository struct {
	db *gorm.DB
}

func NewGormInventoryRepository(db *gorm.DB) *GormInventoryRepository {
	return &GormInventoryRepository{db: db}
}

func (r *GormInventoryRepository) AutoMigrate() error {
	return r.db.AutoMigrate(&domain.InventoryItem{}, &domain.ConversionRate{}, &domain.StockAuditLog{})
}

func (r *GormInventoryRepository) Create(ctx context.Context, item *domain.InventoryItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormInventoryRepository) FindByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	var item domain.InventoryItem
	err := r.db.WithContext(ctx).First(&item, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &item, nil
}

func (r *GormInventoryRepository) FindAll(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error) {
	var items []domain.InventoryItem
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	return items, err
}

// FindActiveByLocation matches every stored encoding of the slot, then keeps only
// rows whose text really denotes it. A legacy variant of one slot can be the
// canonical text of another (A3/2 vs A2/3), so the SQL filter alone is not enough.
func (r *GormInventoryRepository) FindActiveByLocation(ctx context.Context, location string) ([]domain.InventoryItem, error) {
	code, err := domain.ParseLocation(location)
	if err != nil {
		return nil, err
	}

	var candidates []domain.InventoryItem
	err = r.db.WithContext(ctx).
		Where("UPPER(TRIM(location)) IN ?", domain.LocationVariants(code)).
		Where("level1_quantity > 0 OR level2_quantity > 0 OR level3_quantity > 0").
		Order("id").
		Find(&candidates).Error
	if err != nil {
		return nil, err
	}

	items := candidates[:0]
	for _, item := range candidates {
		if domain.SameLocation(item.Location, code.String()) {
			items = append(items, item)
		}
	}
	return items, nil
}

// UpdateQuantities is a compare-and-set on all three tiers
func (r *GormInventoryRepository) UpdateQuantities(ctx context.Context, id int64, expected, next domain.Quantities) error {
	res := r.db.WithContext(ctx).
		Model(&domain.InventoryItem{}).
		Where("id = ? AND level1_quantity = ? AND level2_quantity = ? AND level3_quantity = ?",
			id, expected.Level1, expected.Level2, expected.Level3).
		Updates(map[string]interface{}{
			"level1_quantity": next.Level1,
			"level2_quantity": next.Level2,
			"level3_quantity": next.Level3,
			"updated_at":      time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missOrStale(ctx, id)
	}
	return nil
}

// UpdateLocation moves the record only while it still sits at expectedLocation
func (r *GormInventoryRepository) UpdateLocation(ctx context.Context, id int64, expectedLocation, location string) error {
	res := r.db.WithContext(ctx).
		Model(&domain.InventoryItem{}).
		Where("id = ? AND location = ?", id, expectedLocation).
		Updates(map[string]interface{}{
			"location":   location,
			"updated_at": time.Now(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return r.missOrStale(ctx, id)
	}
	return nil
}

func (r *GormInventoryRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&domain.InventoryItem{}, id)
	if res.Error != nil {
		if isForeignKeyViolation(res.Error) {
			return domain.ErrReferenced
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *GormInventoryRepository) missOrStale(ctx context.Context, id int64) error {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.InventoryItem{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return domain.ErrNotFound
	}
	return &domain.StaleRecordError{ItemID: id}
}

// isForeignKeyViolation covers drivers whose errors gorm cannot translate
func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key")
}
