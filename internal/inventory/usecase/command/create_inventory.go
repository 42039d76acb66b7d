package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// CreateInventoryCommand represents the command to receive stock into a location
type CreateInventoryCommand struct {
	SKU             string
	Location        string
	Quantities      domain.Quantities
	LotNumber       string
	ManufactureDate *time.Time
}

// CreateInventoryHandler handles create inventory command
type CreateInventoryHandler struct {
	repo  domain.InventoryRepository
	rates domain.RateResolver
}

// NewCreateInventoryHandler creates a new create inventory handler
func NewCreateInventoryHandler(repo domain.InventoryRepository, rates domain.RateResolver) *CreateInventoryHandler {
	return &CreateInventoryHandler{repo: repo, rates: rates}
}

// Handle executes the create inventory command
func (h *CreateInventoryHandler) Handle(ctx context.Context, cmd CreateInventoryCommand) (*domain.InventoryItem, error) {
	var problems []string
	sku := strings.TrimSpace(cmd.SKU)
	if sku == "" {
		problems = append(problems, "sku is required")
	}
	if cmd.Quantities.HasNegative() {
		problems = append(problems, "quantities cannot be negative")
	}
	if len(problems) > 0 {
		return nil, &domain.ValidationError{Subject: "inventory", Errors: problems}
	}

	code, err := domain.ParseLocation(cmd.Location)
	if err != nil {
		return nil, err
	}

	item := &domain.InventoryItem{
		SKU:             sku,
		Location:        code.String(),
		LotNumber:       strings.TrimSpace(cmd.LotNumber),
		ManufactureDate: cmd.ManufactureDate,
	}
	item.SetQuantities(cmd.Quantities)
	item.ApplyRate(h.rates.GetRate(ctx, sku))

	if err := h.repo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("failed to create inventory: %w", err)
	}

	return item, nil
}
