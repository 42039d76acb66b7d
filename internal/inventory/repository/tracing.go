package repository

import (
	"context"
	"errors"
	"strconv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

var tracer = otel.Tracer("inventory-repository")

// GormInventoryRepositoryWithTracing wraps GormInventoryRepository with tracing
type GormInventoryRepositoryWithTracing struct {
	*GormInventoryRepository
}

// NewGormInventoryRepositoryWithTracing creates a new repository with tracing
func NewGormInventoryRepositoryWithTracing(db *gorm.DB) *GormInventoryRepositoryWithTracing {
	return &GormInventoryRepositoryWithTracing{
		GormInventoryRepository: NewGormInventoryRepository(db),
	}
}

func itemIDAttr(id int64) attribute.KeyValue {
	return attribute.String("inventory.id", strconv.FormatInt(id, 10))
}

func quantityAttrs(prefix string, q domain.Quantities) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Int(prefix+".level1", q.Level1),
		attribute.Int(prefix+".level2", q.Level2),
		attribute.Int(prefix+".level3", q.Level3),
	}
}

// Create with tracing
func (r *GormInventoryRepositoryWithTracing) Create(ctx context.Context, item *domain.InventoryItem) error {
	ctx, span := tracer.Start(ctx, "repository.Create",
		trace.WithAttributes(
			attribute.String("inventory.sku", item.SKU),
			attribute.String("inventory.location", item.Location),
		),
	)
	defer span.End()

	if err := r.GormInventoryRepository.Create(ctx, item); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}

	span.SetAttributes(itemIDAttr(item.ID))
	return nil
}

// FindByID with tracing
func (r *GormInventoryRepositoryWithTracing) FindByID(ctx context.Context, id int64) (*domain.InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "repository.FindByID", trace.WithAttributes(itemIDAttr(id)))
	defer span.End()

	item, err := r.GormInventoryRepository.FindByID(ctx, id)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(
		attribute.String("inventory.sku", item.SKU),
		attribute.String("inventory.location", item.Location),
	)
	span.SetAttributes(quantityAttrs("inventory.quantity", item.Quantities())...)
	return item, nil
}

// FindAll with tracing
func (r *GormInventoryRepositoryWithTracing) FindAll(ctx context.Context, limit, offset int) ([]domain.InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	items, err := r.GormInventoryRepository.FindAll(ctx, limit, offset)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

// FindActiveByLocation with tracing
func (r *GormInventoryRepositoryWithTracing) FindActiveByLocation(ctx context.Context, location string) ([]domain.InventoryItem, error) {
	ctx, span := tracer.Start(ctx, "repository.FindActiveByLocation",
		trace.WithAttributes(attribute.String("inventory.location", location)),
	)
	defer span.End()

	items, err := r.GormInventoryRepository.FindActiveByLocation(ctx, location)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(items)))
	return items, nil
}

// UpdateQuantities with tracing
func (r *GormInventoryRepositoryWithTracing) UpdateQuantities(ctx context.Context, id int64, expected, next domain.Quantities) error {
	attrs := append([]attribute.KeyValue{itemIDAttr(id)}, quantityAttrs("quantity.expected", expected)...)
	attrs = append(attrs, quantityAttrs("quantity.new_value", next)...)
	ctx, span := tracer.Start(ctx, "repository.UpdateQuantities", trace.WithAttributes(attrs...))
	defer span.End()

	if err := r.GormInventoryRepository.UpdateQuantities(ctx, id, expected, next); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}
	return nil
}

// UpdateLocation with tracing
func (r *GormInventoryRepositoryWithTracing) UpdateLocation(ctx context.Context, id int64, expectedLocation, location string) error {
	ctx, span := tracer.Start(ctx, "repository.UpdateLocation",
		trace.WithAttributes(
			itemIDAttr(id),
			attribute.String("location.from", expectedLocation),
			attribute.String("location.to", location),
		),
	)
	defer span.End()

	if err := r.GormInventoryRepository.UpdateLocation(ctx, id, expectedLocation, location); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}
	return nil
}

// Delete with tracing
func (r *GormInventoryRepositoryWithTracing) Delete(ctx context.Context, id int64) error {
	ctx, span := tracer.Start(ctx, "repository.Delete", trace.WithAttributes(itemIDAttr(id)))
	defer span.End()

	if err := r.GormInventoryRepository.Delete(ctx, id); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}
	return nil
}

// GormConversionRateRepositoryWithTracing wraps GormConversionRateRepository with tracing
type GormConversionRateRepositoryWithTracing struct {
	*GormConversionRateRepository
}

func NewGormConversionRateRepositoryWithTracing(db *gorm.DB) *GormConversionRateRepositoryWithTracing {
	return &GormConversionRateRepositoryWithTracing{
		GormConversionRateRepository: NewGormConversionRateRepository(db),
	}
}

func (r *GormConversionRateRepositoryWithTracing) FindBySKU(ctx context.Context, sku string) (*domain.ConversionRate, error) {
	ctx, span := tracer.Start(ctx, "repository.FindRateBySKU",
		trace.WithAttributes(attribute.String("rate.sku", sku)),
	)
	defer span.End()

	rate, err := r.GormConversionRateRepository.FindBySKU(ctx, sku)
	if err != nil {
		// A missing rate is an expected answer, not a failed span
		if !errors.Is(err, domain.ErrNotFound) {
			addDBErrorToSpan(span, err)
		}
		return nil, err
	}
	return rate, nil
}

func (r *GormConversionRateRepositoryWithTracing) FindAll(ctx context.Context) ([]domain.ConversionRate, error) {
	ctx, span := tracer.Start(ctx, "repository.FindAllRates")
	defer span.End()

	rates, err := r.GormConversionRateRepository.FindAll(ctx)
	if err != nil {
		addDBErrorToSpan(span, err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(rates)))
	return rates, nil
}

func (r *GormConversionRateRepositoryWithTracing) Save(ctx context.Context, rate *domain.ConversionRate) error {
	ctx, span := tracer.Start(ctx, "repository.SaveRate",
		trace.WithAttributes(
			attribute.String("rate.sku", rate.SKU),
			attribute.Int("rate.level1", rate.Level1Rate),
			attribute.Int("rate.level2", rate.Level2Rate),
		),
	)
	defer span.End()

	if err := r.GormConversionRateRepository.Save(ctx, rate); err != nil {
		addDBErrorToSpan(span, err)
		return err
	}
	return nil
}

// Helper function to add database error details to span
func addDBErrorToSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "database error: "+err.Error())
	}
}
