package http

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/internal/inventory/usecase/command"
	"github.com/tair/warehouse-stock/internal/inventory/usecase/query"
	"github.com/tair/warehouse-stock/internal/inventory/writer"
	"github.com/tair/warehouse-stock/pkg/logger"
)

const maxImportSize = 10 << 20

// InventoryHandler handles HTTP requests for inventory
type InventoryHandler struct {
	// Command handlers
	createHandler     *command.CreateInventoryHandler
	deductHandler     *command.DeductStockHandler
	fulfilHandler     *command.FulfilPiecesHandler
	adjustHandler     *command.AdjustQuantitiesHandler
	deleteHandler     *command.DeleteInventoryHandler
	transferHandler   *command.TransferInventoryHandler
	saveRateHandler   *command.SaveConversionRateHandler
	importRateHandler *command.ImportConversionRatesHandler

	// Query handlers
	getHandler         *query.GetInventoryHandler
	listHandler        *query.ListInventoryHandler
	byLocationHandler  *query.ListByLocationHandler
	destinationHandler *query.CheckDestinationHandler
	rateHandler        *query.ResolveRateHandler
	listRatesHandler   *query.ListConversionRatesHandler
	historyHandler     *query.GetStockHistoryHandler
}

// Dependencies groups what the inventory handler is built from
type Dependencies struct {
	Items     domain.InventoryRepository
	Rates     domain.ConversionRateRepository
	Audit     domain.AuditLogRepository
	Writer    domain.StockWriter
	Resolver  *query.ResolveRateHandler
	RateCache domain.RateCache
	Publisher domain.EventPublisher
	Policy    domain.TransferPolicy
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(deps Dependencies) *InventoryHandler {
	deduct := command.NewDeductStockHandler(deps.Items, deps.Writer, deps.Resolver, deps.Publisher)
	saveRate := command.NewSaveConversionRateHandler(deps.Rates, deps.RateCache)

	return &InventoryHandler{
		createHandler:     command.NewCreateInventoryHandler(deps.Items, deps.Resolver),
		deductHandler:     deduct,
		fulfilHandler:     command.NewFulfilPiecesHandler(deps.Items, deps.Resolver, deduct),
		adjustHandler:     command.NewAdjustQuantitiesHandler(deps.Items, deps.Writer, deps.Publisher),
		deleteHandler:     command.NewDeleteInventoryHandler(deps.Items, deps.Writer),
		transferHandler:   command.NewTransferInventoryHandler(deps.Items, deps.Writer, deduct, deps.Publisher, deps.Policy),
		saveRateHandler:   saveRate,
		importRateHandler: command.NewImportConversionRatesHandler(saveRate),

		getHandler:         query.NewGetInventoryHandler(deps.Items, deps.Resolver),
		listHandler:        query.NewListInventoryHandler(deps.Items, deps.Resolver),
		byLocationHandler:  query.NewListByLocationHandler(deps.Items, deps.Resolver),
		destinationHandler: query.NewCheckDestinationHandler(deps.Items, deps.Resolver),
		rateHandler:        deps.Resolver,
		listRatesHandler:   query.NewListConversionRatesHandler(deps.Rates),
		historyHandler:     query.NewGetStockHistoryHandler(deps.Audit),
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// CreateInventory handles POST /api/inventory
func (h *InventoryHandler) CreateInventory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SKU             string     `json:"sku"`
		Location        string     `json:"location"`
		LotNumber       string     `json:"lot_number"`
		ManufactureDate *time.Time `json:"manufacture_date"`
		Level1          int        `json:"level1_quantity"`
		Level2          int        `json:"level2_quantity"`
		Level3          int        `json:"level3_quantity"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	item, err := h.createHandler.Handle(r.Context(), command.CreateInventoryCommand{
		SKU:             req.SKU,
		Location:        req.Location,
		Quantities:      domain.Quantities{Level1: req.Level1, Level2: req.Level2, Level3: req.Level3},
		LotNumber:       req.LotNumber,
		ManufactureDate: req.ManufactureDate,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: "Inventory created successfully",
		Data:    query.NewItemView(r.Context(), h.rateHandler, *item),
	})
}

// GetInventory handles GET /api/inventory/{id}
func (h *InventoryHandler) GetInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	view, err := h.getHandler.Handle(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

// ListInventory handles GET /api/inventory
func (h *InventoryHandler) ListInventory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	views, err := h.listHandler.Handle(r.Context(), query.ListInventoryQuery{Limit: limit, Offset: offset})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    views,
	})
}

// ListByLocation handles GET /api/inventory/by-location?location=B1/2
func (h *InventoryHandler) ListByLocation(w http.ResponseWriter, r *http.Request) {
	view, err := h.byLocationHandler.Handle(r.Context(), r.URL.Query().Get("location"))
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

// DeductStock handles POST /api/inventory/{id}/deduct
func (h *InventoryHandler) DeductStock(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req domain.Quantities
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.deductHandler.Handle(r.Context(), command.DeductStockCommand{ItemID: id, Quantities: req})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: result.Message,
		Data:    result,
	})
}

// FulfilPieces handles POST /api/inventory/{id}/fulfil
func (h *InventoryHandler) FulfilPieces(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Pieces int `json:"pieces"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.fulfilHandler.Handle(r.Context(), command.FulfilPiecesCommand{ItemID: id, Pieces: req.Pieces})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: result.Message,
		Data:    result,
	})
}

// AdjustQuantities handles PUT /api/inventory/{id}/quantities
func (h *InventoryHandler) AdjustQuantities(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req struct {
		Expected   domain.Quantities `json:"expected"`
		Quantities domain.Quantities `json:"quantities"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	item, err := h.adjustHandler.Handle(r.Context(), command.AdjustQuantitiesCommand{
		ItemID:     id,
		Expected:   req.Expected,
		Quantities: req.Quantities,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Quantities updated successfully",
		Data:    query.NewItemView(r.Context(), h.rateHandler, *item),
	})
}

// DeleteInventory handles DELETE /api/inventory/{id}
func (h *InventoryHandler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.deleteHandler.Handle(r.Context(), command.DeleteInventoryCommand{ID: id}); err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Inventory deleted successfully",
	})
}

// GetHistory handles GET /api/inventory/{id}/history
func (h *InventoryHandler) GetHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.historyHandler.Handle(r.Context(), id, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    logs,
	})
}

// CheckDestination handles POST /api/transfers/check
func (h *InventoryHandler) CheckDestination(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Destination string        `json:"destination"`
		ItemIDs     []json.Number `json:"item_ids"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	ids := make([]int64, 0, len(req.ItemIDs))
	for _, raw := range req.ItemIDs {
		id, err := raw.Int64()
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   "Invalid item ID: " + raw.String(),
			})
			return
		}
		ids = append(ids, id)
	}

	preview, err := h.destinationHandler.Handle(r.Context(), query.CheckDestinationQuery{
		Destination: req.Destination,
		IncomingIDs: ids,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    preview,
	})
}

// TransferInventory handles POST /api/transfers
func (h *InventoryHandler) TransferInventory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Transfers       []domain.TransferRequest `json:"transfers"`
		ConfirmOccupied bool                     `json:"confirm_occupied"`
		Policy          string                   `json:"policy"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	var policy domain.TransferPolicy
	if req.Policy != "" {
		p, err := domain.ParseTransferPolicy(req.Policy)
		if err != nil {
			respondJSON(w, http.StatusBadRequest, Response{
				Success: false,
				Error:   err.Error(),
			})
			return
		}
		policy = p
	}

	report, err := h.transferHandler.Handle(r.Context(), command.TransferBatch{
		Requests:        req.Transfers,
		ConfirmOccupied: req.ConfirmOccupied,
		Policy:          policy,
	})
	if err != nil {
		respondError(w, r, err)
		return
	}

	status := http.StatusOK
	if !report.Success {
		status = http.StatusConflict
	}
	respondJSON(w, status, Response{
		Success: report.Success,
		Message: strconv.Itoa(report.SuccessCount) + " moved, " + strconv.Itoa(report.FailedCount) + " failed",
		Data:    report,
	})
}

// GetConversionRate handles GET /api/conversion-rates/{sku}
func (h *InventoryHandler) GetConversionRate(w http.ResponseWriter, r *http.Request) {
	rate := h.rateHandler.GetRate(r.Context(), mux.Vars(r)["sku"])

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    rate,
	})
}

// ListConversionRates handles GET /api/conversion-rates
func (h *InventoryHandler) ListConversionRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.listRatesHandler.Handle(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data: map[string]interface{}{
			"rates":   rates,
			"default": h.rateHandler.DefaultRate(),
		},
	})
}

// SaveConversionRate handles PUT /api/conversion-rates
func (h *InventoryHandler) SaveConversionRate(w http.ResponseWriter, r *http.Request) {
	var req domain.ConversionRateInput
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	rate, err := h.saveRateHandler.Handle(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Conversion rate saved successfully",
		Data:    rate,
	})
}

// ImportConversionRates handles POST /api/conversion-rates/import (multipart field "file")
func (h *InventoryHandler) ImportConversionRates(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, header, err := r.FormFile("file")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Excel file is required in field \"file\"",
		})
		return
	}
	defer file.Close()

	if !strings.HasSuffix(strings.ToLower(header.Filename), ".xlsx") {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Only .xlsx files are supported",
		})
		return
	}

	result, err := h.importRateHandler.Handle(r.Context(), file)
	if err != nil {
		respondError(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: result.ErrorCount == 0,
		Message: strconv.Itoa(result.SuccessCount) + " of " + strconv.Itoa(result.TotalRows) + " rows imported",
		Data:    result,
	})
}

// RegisterRoutes registers all inventory routes
func (h *InventoryHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/inventory", metricsMiddleware("list_inventory", h.ListInventory)).Methods("GET")
	router.HandleFunc("/api/inventory", metricsMiddleware("create_inventory", h.CreateInventory)).Methods("POST")
	router.HandleFunc("/api/inventory/by-location", metricsMiddleware("list_by_location", h.ListByLocation)).Methods("GET")
	router.HandleFunc("/api/inventory/{id:[0-9]+}", metricsMiddleware("get_inventory", h.GetInventory)).Methods("GET")
	router.HandleFunc("/api/inventory/{id:[0-9]+}", metricsMiddleware("delete_inventory", h.DeleteInventory)).Methods("DELETE")
	router.HandleFunc("/api/inventory/{id:[0-9]+}/deduct", metricsMiddleware("deduct_stock", h.DeductStock)).Methods("POST")
	router.HandleFunc("/api/inventory/{id:[0-9]+}/fulfil", metricsMiddleware("fulfil_pieces", h.FulfilPieces)).Methods("POST")
	router.HandleFunc("/api/inventory/{id:[0-9]+}/quantities", metricsMiddleware("adjust_quantities", h.AdjustQuantities)).Methods("PUT")
	router.HandleFunc("/api/inventory/{id:[0-9]+}/history", metricsMiddleware("stock_history", h.GetHistory)).Methods("GET")

	router.HandleFunc("/api/transfers/check", metricsMiddleware("check_destination", h.CheckDestination)).Methods("POST")
	router.HandleFunc("/api/transfers", metricsMiddleware("transfer_inventory", h.TransferInventory)).Methods("POST")

	router.HandleFunc("/api/conversion-rates", metricsMiddleware("list_conversion_rates", h.ListConversionRates)).Methods("GET")
	router.HandleFunc("/api/conversion-rates", metricsMiddleware("save_conversion_rate", h.SaveConversionRate)).Methods("PUT")
	router.HandleFunc("/api/conversion-rates/import", metricsMiddleware("import_conversion_rates", h.ImportConversionRates)).Methods("POST")
	router.HandleFunc("/api/conversion-rates/{sku}", metricsMiddleware("get_conversion_rate", h.GetConversionRate)).Methods("GET")
}

// RegisterHealthCheck registers health check endpoint. chain and breaker may be nil.
func RegisterHealthCheck(router *mux.Router, db *sql.DB, chain *writer.Chain, breaker *writer.CircuitBreaker) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			respondJSON(w, http.StatusServiceUnavailable, Response{
				Success: false,
				Error:   "Database unavailable",
			})
			return
		}

		data := map[string]interface{}{}
		if chain != nil {
			data["write_strategies"] = chain.Strategies()
		}
		if breaker != nil {
			data["gateway_breaker"] = breaker.GetStats()
		}

		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "Stock service is healthy",
			Data:    data,
		})
	}).Methods("GET")
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil || id <= 0 {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid inventory ID",
		})
		return 0, false
	}
	return id, true
}

// statusFor maps the domain error taxonomy onto HTTP status codes
func statusFor(err error) int {
	var (
		format       *domain.FormatError
		validation   *domain.ValidationError
		insufficient *domain.InsufficientStockError
		conflict     *domain.ConflictError
		stale        *domain.StaleRecordError
		persistence  *domain.PersistenceError
	)

	switch {
	case errors.As(err, &format), errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &persistence):
		return http.StatusBadGateway
	case errors.As(err, &insufficient), errors.As(err, &conflict), errors.As(err, &stale), errors.Is(err, domain.ErrReferenced):
		return http.StatusConflict
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err with its mapped status. Shortages ride along as data.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	resp := Response{Success: false, Error: err.Error()}

	var insufficient *domain.InsufficientStockError
	if errors.As(err, &insufficient) {
		resp.Data = map[string]interface{}{"shortages": insufficient.Shortages}
	}

	if status >= http.StatusInternalServerError {
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Request failed")
		if status == http.StatusInternalServerError {
			resp.Error = "Internal server error"
		}
	}

	respondJSON(w, status, resp)
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
