package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

type GormConversionRateRepository struct {
	db *gorm.DB
}

func NewGormConversionRateRepository(db *gorm.DB) *GormConversionRateRepository {
	return &GormConversionRateRepository{db: db}
}

func (r *GormConversionRateRepository) FindBySKU(ctx context.Context, sku string) (*domain.ConversionRate, error) {
	var rate domain.ConversionRate
	err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&rate).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &rate, nil
}

func (r *GormConversionRateRepository) FindAll(ctx context.Context) ([]domain.ConversionRate, error) {
	var rates []domain.ConversionRate
	err := r.db.WithContext(ctx).Order("sku").Find(&rates).Error
	return rates, err
}

// Save inserts the rate or replaces the existing one for the same SKU
func (r *GormConversionRateRepository) Save(ctx context.Context, rate *domain.ConversionRate) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "sku"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"level1_name", "level2_name", "level3_name",
				"level1_rate", "level2_rate", "updated_at",
			}),
		}).
		Create(rate).Error
}
