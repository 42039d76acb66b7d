package writer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/pkg/config"
	"github.com/tair/warehouse-stock/pkg/logger"
)

// Store endpoint error codes shared by the gateway client and the store routes
const (
	CodeNotFound   = "not_found"
	CodeReferenced = "referenced"
	CodeStale      = "stale"
)

// QuantitiesUpdate is the body of PUT /api/store/inventory/{id}/quantities
type QuantitiesUpdate struct {
	Expected   domain.Quantities `json:"expected"`
	Quantities domain.Quantities `json:"quantities"`
}

// LocationUpdate is the body of PUT /api/store/inventory/{id}/location
type LocationUpdate struct {
	ExpectedLocation string `json:"expected_location"`
	Location         string `json:"location"`
}

// StoreError is the error body returned by the store endpoints
type StoreError struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

// GatewayWriter writes through the intermediary store service over HTTP
type GatewayWriter struct {
	baseURL string
	client  *http.Client
	breaker *CircuitBreaker
}

// NewGatewayWriter returns nil when no gateway is configured
func NewGatewayWriter(cfg config.GatewayConfig) *GatewayWriter {
	if cfg.URL == "" {
		return nil
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}

	return &GatewayWriter{
		baseURL: cfg.URL,
		client: &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		breaker: NewCircuitBreaker("store-gateway", cfg.MaxFailures, cfg.BreakerOpenTimeout, func(err error) bool {
			return !domain.IsDefinitive(err)
		}),
	}
}

func (w *GatewayWriter) Name() string { return "gateway" }

// Breaker exposes the circuit state for health reporting
func (w *GatewayWriter) Breaker() *CircuitBreaker { return w.breaker }

func (w *GatewayWriter) UpdateQuantities(ctx context.Context, id int64, expected, next domain.Quantities) error {
	return w.do(ctx, http.MethodPut, id, "/quantities", QuantitiesUpdate{Expected: expected, Quantities: next})
}

func (w *GatewayWriter) UpdateLocation(ctx context.Context, id int64, expectedLocation, location string) error {
	return w.do(ctx, http.MethodPut, id, "/location", LocationUpdate{ExpectedLocation: expectedLocation, Location: location})
}

func (w *GatewayWriter) Delete(ctx context.Context, id int64) error {
	return w.do(ctx, http.MethodDelete, id, "", nil)
}

func (w *GatewayWriter) do(ctx context.Context, method string, id int64, suffix string, body interface{}) error {
	return w.breaker.Call(func() error {
		return w.send(ctx, method, id, suffix, body)
	})
}

func (w *GatewayWriter) send(ctx context.Context, method string, id int64, suffix string, body interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode gateway request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	url := w.baseURL + "/api/store/inventory/" + strconv.FormatInt(id, 10) + suffix
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("failed to create gateway request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	var storeErr StoreError
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(raw, &storeErr)

	switch {
	case resp.StatusCode == http.StatusNotFound && storeErr.Code == CodeNotFound:
		return domain.ErrNotFound
	case resp.StatusCode == http.StatusConflict && storeErr.Code == CodeReferenced:
		return domain.ErrReferenced
	case resp.StatusCode == http.StatusConflict && storeErr.Code == CodeStale:
		return &domain.StaleRecordError{ItemID: id}
	}

	logger.Debug(ctx).
		Int("status", resp.StatusCode).
		Str("url", url).
		Msg("Gateway rejected stock write")

	if storeErr.Error != "" {
		return fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, storeErr.Error)
	}
	return fmt.Errorf("gateway returned status %d", resp.StatusCode)
}
