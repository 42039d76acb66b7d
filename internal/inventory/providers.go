package inventory

import (
	"fmt"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	httpDelivery "github.com/tair/warehouse-stock/internal/inventory/delivery/http"
	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/internal/inventory/repository"
	"github.com/tair/warehouse-stock/internal/inventory/usecase/query"
	"github.com/tair/warehouse-stock/internal/inventory/writer"
	"github.com/tair/warehouse-stock/pkg/config"
)

// App holds everything the HTTP server mounts
type App struct {
	Handler *httpDelivery.InventoryHandler
	Store   *httpDelivery.StoreHandler
	Chain   *writer.Chain
	Gateway *writer.GatewayWriter
}

// NewApp creates a new app
func NewApp(handler *httpDelivery.InventoryHandler, store *httpDelivery.StoreHandler, chain *writer.Chain, gateway *writer.GatewayWriter) *App {
	return &App{Handler: handler, Store: store, Chain: chain, Gateway: gateway}
}

// GatewayBreaker returns the gateway circuit breaker, or nil when no gateway is configured
func (a *App) GatewayBreaker() *writer.CircuitBreaker {
	if a.Gateway == nil {
		return nil
	}
	return a.Gateway.Breaker()
}

// ProvideInventoryRepository provides the traced inventory repository
func ProvideInventoryRepository(db *gorm.DB) *repository.GormInventoryRepositoryWithTracing {
	return repository.NewGormInventoryRepositoryWithTracing(db)
}

// ProvideItemRepository exposes the traced repository through the domain interface
func ProvideItemRepository(repo *repository.GormInventoryRepositoryWithTracing) domain.InventoryRepository {
	return repo
}

// ProvideConversionRateRepository provides the traced conversion rate repository
func ProvideConversionRateRepository(db *gorm.DB) domain.ConversionRateRepository {
	return repository.NewGormConversionRateRepositoryWithTracing(db)
}

// ProvideAuditLogRepository provides the audit log repository
func ProvideAuditLogRepository(db *gorm.DB) domain.AuditLogRepository {
	return repository.NewGormAuditLogRepository(db)
}

// ProvideRateCache provides the Redis rate cache; a nil client disables it
func ProvideRateCache(cfg *config.Config, client *redis.Client) domain.RateCache {
	return repository.NewRateCache(client, cfg.Redis.RateTTL)
}

// ProvideRateResolver builds the resolver around the configured default rate
func ProvideRateResolver(cfg *config.Config, rates domain.ConversionRateRepository, cache domain.RateCache) (*query.ResolveRateHandler, error) {
	d := cfg.DefaultRate
	if d.Level1Rate <= 0 || d.Level2Rate <= 0 {
		return nil, fmt.Errorf("default conversion rates must be positive, got %d and %d", d.Level1Rate, d.Level2Rate)
	}

	return query.NewResolveRateHandler(rates, cache, domain.ConversionRate{
		Level1Name: d.Level1Name,
		Level2Name: d.Level2Name,
		Level3Name: d.Level3Name,
		Level1Rate: d.Level1Rate,
		Level2Rate: d.Level2Rate,
	}), nil
}

// ProvideGatewayWriter provides the gateway strategy, nil when GATEWAY_URL is empty
func ProvideGatewayWriter(cfg *config.Config) *writer.GatewayWriter {
	return writer.NewGatewayWriter(cfg.Gateway)
}

// ProvideWriteChain tries the gateway first and the store directly second
func ProvideWriteChain(gateway *writer.GatewayWriter, repo *repository.GormInventoryRepositoryWithTracing) *writer.Chain {
	return writer.NewChain(gateway, writer.NewDirectWriter(repo))
}

// ProvideTransferPolicy parses the configured default policy
func ProvideTransferPolicy(cfg *config.Config) (domain.TransferPolicy, error) {
	return domain.ParseTransferPolicy(cfg.TransferPolicy)
}

// ProvideHandlerDependencies groups the handler inputs
func ProvideHandlerDependencies(
	items domain.InventoryRepository,
	rates domain.ConversionRateRepository,
	audit domain.AuditLogRepository,
	chain *writer.Chain,
	resolver *query.ResolveRateHandler,
	cache domain.RateCache,
	publisher domain.EventPublisher,
	policy domain.TransferPolicy,
) httpDelivery.Dependencies {
	return httpDelivery.Dependencies{
		Items:     items,
		Rates:     rates,
		Audit:     audit,
		Writer:    chain,
		Resolver:  resolver,
		RateCache: cache,
		Publisher: publisher,
		Policy:    policy,
	}
}

// ProvideStoreHandler serves peer writes straight to the store
func ProvideStoreHandler(repo *repository.GormInventoryRepositoryWithTracing) *httpDelivery.StoreHandler {
	return httpDelivery.NewStoreHandler(repo)
}

// Wire sets
var RepositorySet = wire.NewSet(
	ProvideInventoryRepository,
	ProvideItemRepository,
	ProvideConversionRateRepository,
	ProvideAuditLogRepository,
	ProvideRateCache,
)

var WriterSet = wire.NewSet(
	ProvideGatewayWriter,
	ProvideWriteChain,
)

var HandlerSet = wire.NewSet(
	ProvideRateResolver,
	ProvideTransferPolicy,
	ProvideHandlerDependencies,
	httpDelivery.NewInventoryHandler,
	ProvideStoreHandler,
	NewApp,
)
