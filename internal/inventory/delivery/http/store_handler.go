package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/internal/inventory/writer"
	"github.com/tair/warehouse-stock/pkg/logger"
)

// StoreHandler exposes conditional record writes for peers that reach this
// service as their gateway. It always writes straight to the store.
type StoreHandler struct {
	store domain.StockWriter
}

// NewStoreHandler creates a new store handler
func NewStoreHandler(store domain.StockWriter) *StoreHandler {
	return &StoreHandler{store: store}
}

// UpdateQuantities handles PUT /api/store/inventory/{id}/quantities
func (h *StoreHandler) UpdateQuantities(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req writer.QuantitiesUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, writer.StoreError{Error: "Invalid request body"})
		return
	}

	h.finish(w, r, h.store.UpdateQuantities(r.Context(), id, req.Expected, req.Quantities))
}

// UpdateLocation handles PUT /api/store/inventory/{id}/location
func (h *StoreHandler) UpdateLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req writer.LocationUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, writer.StoreError{Error: "Invalid request body"})
		return
	}

	h.finish(w, r, h.store.UpdateLocation(r.Context(), id, req.ExpectedLocation, req.Location))
}

// Delete handles DELETE /api/store/inventory/{id}
func (h *StoreHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	h.finish(w, r, h.store.Delete(r.Context(), id))
}

func (h *StoreHandler) finish(w http.ResponseWriter, r *http.Request, err error) {
	var stale *domain.StaleRecordError
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, writer.StoreError{Code: writer.CodeNotFound, Error: err.Error()})
	case errors.Is(err, domain.ErrReferenced):
		respondJSON(w, http.StatusConflict, writer.StoreError{Code: writer.CodeReferenced, Error: err.Error()})
	case errors.As(err, &stale):
		respondJSON(w, http.StatusConflict, writer.StoreError{Code: writer.CodeStale, Error: err.Error()})
	default:
		logger.Error(r.Context()).Err(err).Str("path", r.URL.Path).Msg("Store write failed")
		respondJSON(w, http.StatusInternalServerError, writer.StoreError{Error: "store write failed"})
	}
}

// RegisterRoutes registers the store routes
func (h *StoreHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/store/inventory/{id:[0-9]+}/quantities", metricsMiddleware("store_update_quantities", h.UpdateQuantities)).Methods("PUT")
	router.HandleFunc("/api/store/inventory/{id:[0-9]+}/location", metricsMiddleware("store_update_location", h.UpdateLocation)).Methods("PUT")
	router.HandleFunc("/api/store/inventory/{id:[0-9]+}", metricsMiddleware("store_delete", h.Delete)).Methods("DELETE")
}
