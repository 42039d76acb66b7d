package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

type GormAuditLogRepository struct {
	db *gorm.DB
}

func NewGormAuditLogRepository(db *gorm.DB) *GormAuditLogRepository {
	return &GormAuditLogRepository{db: db}
}

func (r *GormAuditLogRepository) Record(ctx context.Context, entry *domain.StockAuditLog) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "event_id"}}, DoNothing: true}).
		Create(entry).Error
}

func (r *GormAuditLogRepository) FindByItemID(ctx context.Context, itemID int64, limit int) ([]domain.StockAuditLog, error) {
	var entries []domain.StockAuditLog
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("occurred_at DESC, id DESC").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}
