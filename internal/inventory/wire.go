//go:build wireinject
// +build wireinject

package inventory

import (
	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/pkg/config"
)

// InitializeApp initializes the stock service with all dependencies
func InitializeApp(cfg *config.Config, db *gorm.DB, redisClient *redis.Client, publisher domain.EventPublisher) (*App, error) {
	wire.Build(
		RepositorySet,
		WriterSet,
		HandlerSet,
	)
	return nil, nil
}
