package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/internal/inventory/repository"
	"github.com/tair/warehouse-stock/internal/inventory/usecase/query"
	"github.com/tair/warehouse-stock/internal/inventory/writer"
)

type testServer struct {
	router *mux.Router
	repo   *repository.GormInventoryRepository
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := gorm.Open(sqlite.Open("file:"+name+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	repo := repository.NewGormInventoryRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	rates := repository.NewGormConversionRateRepository(db)

	resolver := query.NewResolveRateHandler(rates, nil, domain.ConversionRate{
		Level1Name: "carton", Level2Name: "box", Level3Name: "piece",
		Level1Rate: 144, Level2Rate: 12,
	})
	chain := writer.NewChain(writer.NewDirectWriter(repo))

	handler := NewInventoryHandler(Dependencies{
		Items:    repo,
		Rates:    rates,
		Audit:    repository.NewGormAuditLogRepository(db),
		Writer:   chain,
		Resolver: resolver,
		Policy:   domain.PolicyBestEffort,
	})

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	NewStoreHandler(repo).RegisterRoutes(router)
	RegisterHealthCheck(router, sqlDB, chain, nil)

	return &testServer{router: router, repo: repo}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, Response) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	var resp Response
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	}
	return rec, resp
}

func (s *testServer) seed(t *testing.T, location string, q domain.Quantities) domain.InventoryItem {
	t.Helper()
	item := domain.InventoryItem{SKU: "SKU-1", Location: location}
	item.SetQuantities(q)
	if err := s.repo.Create(context.Background(), &item); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return item
}

func TestCreateInventoryNormalizesLocation(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodPost, "/api/inventory", map[string]interface{}{
		"sku":             "SKU-1",
		"location":        "h1/9",
		"level1_quantity": 1,
		"level3_quantity": 5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	data := resp.Data.(map[string]interface{})
	if data["location"] != "H9/1" {
		t.Errorf("location = %v, want H9/1", data["location"])
	}
	if data["total_pieces"] != float64(149) {
		t.Errorf("total_pieces = %v, want 149", data["total_pieces"])
	}
}

func TestCreateInventoryRejectsBadLocation(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodPost, "/api/inventory", map[string]interface{}{
		"sku":      "SKU-1",
		"location": "nowhere",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if resp.Success || resp.Error == "" {
		t.Errorf("response = %+v", resp)
	}
}

func TestDeductStockEndpoint(t *testing.T) {
	s := newTestServer(t)
	item := s.seed(t, "A1/1", domain.Quantities{Level1: 2, Level2: 1})
	path := fmt.Sprintf("/api/inventory/%d/deduct", item.ID)

	rec, resp := s.do(t, http.MethodPost, path, domain.Quantities{Level1: 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	data := resp.Data.(map[string]interface{})
	if data["is_empty"] != false {
		t.Errorf("is_empty = %v", data["is_empty"])
	}

	rec, resp = s.do(t, http.MethodPost, path, domain.Quantities{Level1: 5})
	if rec.Code != http.StatusConflict {
		t.Fatalf("status = %d, want 409", rec.Code)
	}
	shortages := resp.Data.(map[string]interface{})["shortages"].([]interface{})
	if len(shortages) != 1 {
		t.Errorf("shortages = %v", shortages)
	}

	stored, err := s.repo.FindByID(context.Background(), item.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if stored.Quantities() != (domain.Quantities{Level1: 1, Level2: 1}) {
		t.Errorf("stored = %+v", stored.Quantities())
	}
}

func TestDeductStockMissingRecord(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/inventory/999/deduct", domain.Quantities{Level3: 1})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestTransferEndpointReportsPerItem(t *testing.T) {
	s := newTestServer(t)
	moving := s.seed(t, "A1/1", domain.Quantities{Level1: 1})
	staying := s.seed(t, "B2/1", domain.Quantities{Level1: 1})

	rec, resp := s.do(t, http.MethodPost, "/api/transfers", map[string]interface{}{
		"transfers": []map[string]interface{}{
			{"item_id": fmt.Sprint(moving.ID), "destination": "c3/1"},
			{"item_id": fmt.Sprint(staying.ID), "destination": "B2/1"},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	data := resp.Data.(map[string]interface{})
	if data["success_count"] != float64(1) || data["failed_count"] != float64(1) {
		t.Errorf("report = %v", data)
	}

	moved, _ := s.repo.FindByID(context.Background(), moving.ID)
	if moved.Location != "C3/1" {
		t.Errorf("moved location = %q, want C3/1", moved.Location)
	}
}

func TestTransferEndpointRejectsUnknownPolicy(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/transfers", map[string]interface{}{
		"transfers": []map[string]interface{}{{"item_id": "1", "destination": "A1/1"}},
		"policy":    "sometimes",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestConversionRateEndpoints(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/conversion-rates/UNKNOWN", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if resp.Data.(map[string]interface{})["is_default"] != true {
		t.Errorf("unconfigured SKU should resolve to the default rate, got %v", resp.Data)
	}

	rec, _ = s.do(t, http.MethodPut, "/api/conversion-rates", map[string]interface{}{
		"sku": "SKU-9", "level1_name": "pallet", "level2_name": "case", "level3_name": "unit",
		"level1_rate": 0, "level2_rate": 6,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid rate status = %d, want 400", rec.Code)
	}

	rec, _ = s.do(t, http.MethodPut, "/api/conversion-rates", map[string]interface{}{
		"sku": "SKU-9", "level1_name": "pallet", "level2_name": "case", "level3_name": "unit",
		"level1_rate": 48, "level2_rate": 6,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("save status = %d, body %s", rec.Code, rec.Body.String())
	}

	_, resp = s.do(t, http.MethodGet, "/api/conversion-rates/SKU-9", nil)
	data := resp.Data.(map[string]interface{})
	if data["is_default"] != false || data["level1_rate"] != float64(48) {
		t.Errorf("saved rate = %v", data)
	}
}

func TestStoreEndpointsSpeakGatewayCodes(t *testing.T) {
	s := newTestServer(t)
	item := s.seed(t, "A1/1", domain.Quantities{Level3: 4})
	path := fmt.Sprintf("/api/store/inventory/%d/quantities", item.ID)

	rec, _ := s.do(t, http.MethodPut, path, writer.QuantitiesUpdate{
		Expected:   domain.Quantities{Level3: 4},
		Quantities: domain.Quantities{Level3: 3},
	})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec, _ = s.do(t, http.MethodPut, path, writer.QuantitiesUpdate{
		Expected:   domain.Quantities{Level3: 4},
		Quantities: domain.Quantities{Level3: 2},
	})
	var storeErr writer.StoreError
	_ = json.Unmarshal(rec.Body.Bytes(), &storeErr)
	if rec.Code != http.StatusConflict || storeErr.Code != writer.CodeStale {
		t.Errorf("stale write = %d %+v", rec.Code, storeErr)
	}

	rec, _ = s.do(t, http.MethodDelete, "/api/store/inventory/999", nil)
	_ = json.Unmarshal(rec.Body.Bytes(), &storeErr)
	if rec.Code != http.StatusNotFound || storeErr.Code != writer.CodeNotFound {
		t.Errorf("missing delete = %d %+v", rec.Code, storeErr)
	}
}

func TestHealthCheckListsWriteStrategies(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	strategies := resp.Data.(map[string]interface{})["write_strategies"].([]interface{})
	if len(strategies) != 1 || strategies[0] != "direct" {
		t.Errorf("write_strategies = %v", strategies)
	}
}

func TestStatusForErrorTaxonomy(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"format", &domain.FormatError{Input: "x"}, http.StatusBadRequest},
		{"validation", &domain.ValidationError{Subject: "x"}, http.StatusBadRequest},
		{"insufficient", &domain.InsufficientStockError{}, http.StatusConflict},
		{"conflict", &domain.ConflictError{Reason: domain.ConflictOccupied}, http.StatusConflict},
		{"stale", &domain.StaleRecordError{ItemID: 1}, http.StatusConflict},
		{"referenced", domain.ErrReferenced, http.StatusConflict},
		{"not found wrapped", fmt.Errorf("load: %w", domain.ErrNotFound), http.StatusNotFound},
		{"persistence", &domain.PersistenceError{Op: "delete"}, http.StatusBadGateway},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
