// Package writer persists stock mutations through an ordered list of strategies.
// The first strategy that answers wins; definitive answers about the record
// (not found, still referenced, changed concurrently) are returned as-is.
package writer

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/pkg/logger"
)

// Strategy is one way of reaching the store
type Strategy interface {
	domain.StockWriter
	Name() string
}

var (
	writeAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_service_write_attempts_total",
			Help: "Stock write attempts by strategy, operation and outcome",
		},
		[]string{"strategy", "operation", "outcome"},
	)

	writeExhaustedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stock_service_write_exhausted_total",
			Help: "Stock writes for which every strategy failed",
		},
		[]string{"operation"},
	)
)

func init() {
	prometheus.MustRegister(writeAttemptsTotal)
	prometheus.MustRegister(writeExhaustedTotal)
}

// Chain tries each strategy in order
type Chain struct {
	strategies []Strategy
}

// NewChain builds a chain; nil strategies are skipped so optional ones can be passed unconditionally
func NewChain(strategies ...Strategy) *Chain {
	c := &Chain{}
	for _, s := range strategies {
		if s != nil && !isNilStrategy(s) {
			c.strategies = append(c.strategies, s)
		}
	}
	return c
}

func isNilStrategy(s Strategy) bool {
	switch v := s.(type) {
	case *GatewayWriter:
		return v == nil
	case *DirectWriter:
		return v == nil
	}
	return false
}

// Strategies lists the active strategy names in order
func (c *Chain) Strategies() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

func (c *Chain) UpdateQuantities(ctx context.Context, id int64, expected, next domain.Quantities) error {
	return c.run(ctx, "update_quantities", id, func(s Strategy) error {
		return s.UpdateQuantities(ctx, id, expected, next)
	})
}

func (c *Chain) UpdateLocation(ctx context.Context, id int64, expectedLocation, location string) error {
	return c.run(ctx, "update_location", id, func(s Strategy) error {
		return s.UpdateLocation(ctx, id, expectedLocation, location)
	})
}

func (c *Chain) Delete(ctx context.Context, id int64) error {
	return c.run(ctx, "delete", id, func(s Strategy) error {
		return s.Delete(ctx, id)
	})
}

func (c *Chain) run(ctx context.Context, op string, id int64, call func(Strategy) error) error {
	var attempts []domain.StrategyError

	for _, s := range c.strategies {
		err := call(s)
		if err == nil {
			writeAttemptsTotal.WithLabelValues(s.Name(), op, "success").Inc()
			return nil
		}

		if domain.IsDefinitive(err) {
			writeAttemptsTotal.WithLabelValues(s.Name(), op, "rejected").Inc()
			return err
		}

		writeAttemptsTotal.WithLabelValues(s.Name(), op, "error").Inc()
		logger.Warn(ctx).
			Err(err).
			Str("strategy", s.Name()).
			Str("operation", op).
			Int64("item_id", id).
			Msg("Write strategy failed, trying next")
		attempts = append(attempts, domain.StrategyError{Strategy: s.Name(), Err: err})
	}

	writeExhaustedTotal.WithLabelValues(op).Inc()
	return &domain.PersistenceError{Op: op, ItemID: id, Attempts: attempts}
}
