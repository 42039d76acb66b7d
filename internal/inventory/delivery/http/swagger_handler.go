package http

import (
	"net/http"

	"github.com/gorilla/mux"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// RegisterSwaggerDocs serves Swagger UI for the OpenAPI document generated by `swag init -g cmd/inventory/docs.go`
// @Summary Swagger documentation
// @Description Swagger API documentation for Stock Service
// @Tags Swagger
// @Success 200 {string} string "Swagger UI"
// @Router /swagger/ [get]
func RegisterSwaggerDocs(router *mux.Router) {
	router.PathPrefix("/swagger/").Handler(SwaggerHandler())
}

// SwaggerHandler returns the Swagger UI handler
func SwaggerHandler() http.Handler {
	return httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json"))
}

// CreateInventory godoc
// @Summary Receive stock
// @Description Create a stock record at a location. Legacy location text is normalised to ROW+POSITION/LEVEL.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body object{sku=string,location=string,level1_quantity=int,level2_quantity=int,level3_quantity=int,lot_number=string} true "Stock record"
// @Success 201 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/inventory [post]
func (h *InventoryHandler) CreateInventoryDoc() {}

// ListInventory godoc
// @Summary List stock records
// @Description Newest first, with tier breakdown and total pieces
// @Tags Inventory
// @Produce json
// @Param limit query int false "Limit (default 10, max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} object{success=bool,data=array}
// @Failure 500 {object} object{success=bool,error=string}
// @Router /api/inventory [get]
func (h *InventoryHandler) ListInventoryDoc() {}

// GetInventory godoc
// @Summary Get stock record by ID
// @Tags Inventory
// @Produce json
// @Param id path string true "Inventory ID"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Router /api/inventory/{id} [get]
func (h *InventoryHandler) GetInventoryDoc() {}

// ListByLocation godoc
// @Summary List stock at a location
// @Description Matches records stored under canonical or legacy location text
// @Tags Inventory
// @Produce json
// @Param location query string true "Location, e.g. B1/2"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/inventory/by-location [get]
func (h *InventoryHandler) ListByLocationDoc() {}

// DeductStock godoc
// @Summary Deduct tiered quantities
// @Description Conditional write of the remainder; emptied records are deleted unless still referenced
// @Tags Stock
// @Accept json
// @Produce json
// @Param id path string true "Inventory ID"
// @Param request body object{level1=int,level2=int,level3=int} true "Quantities to remove"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 404 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string,data=object}
// @Failure 502 {object} object{success=bool,error=string}
// @Router /api/inventory/{id}/deduct [post]
func (h *InventoryHandler) DeductStockDoc() {}

// FulfilPieces godoc
// @Summary Deduct a piece count
// @Description Picks whole top-tier packs first, then middle-tier packs, then loose pieces
// @Tags Stock
// @Accept json
// @Produce json
// @Param id path string true "Inventory ID"
// @Param request body object{pieces=int} true "Pieces to fulfil"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 409 {object} object{success=bool,error=string,data=object}
// @Router /api/inventory/{id}/fulfil [post]
func (h *InventoryHandler) FulfilPiecesDoc() {}

// AdjustQuantities godoc
// @Summary Overwrite quantities after a count
// @Tags Stock
// @Accept json
// @Produce json
// @Param id path string true "Inventory ID"
// @Param request body object{expected=object,quantities=object} true "Expected and counted quantities"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/inventory/{id}/quantities [put]
func (h *InventoryHandler) AdjustQuantitiesDoc() {}

// DeleteInventory godoc
// @Summary Remove an empty record
// @Tags Inventory
// @Produce json
// @Param id path string true "Inventory ID"
// @Success 200 {object} object{success=bool,message=string}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,error=string}
// @Router /api/inventory/{id} [delete]
func (h *InventoryHandler) DeleteInventoryDoc() {}

// GetHistory godoc
// @Summary Stock movement history of a record
// @Tags Inventory
// @Produce json
// @Param id path string true "Inventory ID"
// @Param limit query int false "Limit (default 50)"
// @Success 200 {object} object{success=bool,data=array}
// @Router /api/inventory/{id}/history [get]
func (h *InventoryHandler) GetHistoryDoc() {}

// CheckDestination godoc
// @Summary Preview a transfer destination
// @Tags Transfers
// @Accept json
// @Produce json
// @Param request body object{destination=string,item_ids=array} true "Destination and incoming records"
// @Success 200 {object} object{success=bool,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/transfers/check [post]
func (h *InventoryHandler) CheckDestinationDoc() {}

// TransferInventory godoc
// @Summary Move records between locations
// @Description Runs in list order under the best_effort or all_or_nothing policy
// @Tags Transfers
// @Accept json
// @Produce json
// @Param request body object{transfers=array,confirm_occupied=bool,policy=string} true "Transfer batch"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Failure 409 {object} object{success=bool,message=string,data=object}
// @Router /api/transfers [post]
func (h *InventoryHandler) TransferInventoryDoc() {}

// ListConversionRates godoc
// @Summary List configured conversion rates
// @Tags Conversion Rates
// @Produce json
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/conversion-rates [get]
func (h *InventoryHandler) ListConversionRatesDoc() {}

// GetConversionRate godoc
// @Summary Resolve the conversion rate of a SKU
// @Description Falls back to the default rate (is_default=true) for unconfigured SKUs
// @Tags Conversion Rates
// @Produce json
// @Param sku path string true "SKU"
// @Success 200 {object} object{success=bool,data=object}
// @Router /api/conversion-rates/{sku} [get]
func (h *InventoryHandler) GetConversionRateDoc() {}

// SaveConversionRate godoc
// @Summary Create or replace a conversion rate
// @Tags Conversion Rates
// @Accept json
// @Produce json
// @Param request body object{sku=string,level1_name=string,level1_rate=int,level2_name=string,level2_rate=int,level3_name=string} true "Rate"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/conversion-rates [put]
func (h *InventoryHandler) SaveConversionRateDoc() {}

// ImportConversionRates godoc
// @Summary Bulk import conversion rates from Excel
// @Tags Conversion Rates
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Workbook (.xlsx)"
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 400 {object} object{success=bool,error=string}
// @Router /api/conversion-rates/import [post]
func (h *InventoryHandler) ImportConversionRatesDoc() {}

// HealthCheck godoc
// @Summary Health check
// @Description Database connectivity, active write strategies and gateway breaker state
// @Tags Health
// @Produce json
// @Success 200 {object} object{success=bool,message=string,data=object}
// @Failure 503 {object} object{success=bool,error=string}
// @Router /health [get]
func (h *InventoryHandler) HealthCheckDoc() {}
