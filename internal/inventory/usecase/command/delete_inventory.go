package command

import (
	"context"
	"fmt"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

// DeleteInventoryCommand represents the command to remove an empty record
type DeleteInventoryCommand struct {
	ID int64
}

// DeleteInventoryHandler removes records that were emptied but kept because they were referenced
type DeleteInventoryHandler struct {
	repo   domain.InventoryRepository
	writer domain.StockWriter
}

// NewDeleteInventoryHandler creates a new delete inventory handler
func NewDeleteInventoryHandler(repo domain.InventoryRepository, writer domain.StockWriter) *DeleteInventoryHandler {
	return &DeleteInventoryHandler{repo: repo, writer: writer}
}

// Handle executes the delete inventory command. Records still holding stock are refused.
func (h *DeleteInventoryHandler) Handle(ctx context.Context, cmd DeleteInventoryCommand) error {
	if cmd.ID == 0 {
		return &domain.ValidationError{Subject: "inventory id", Errors: []string{"id is required"}}
	}

	item, err := h.repo.FindByID(ctx, cmd.ID)
	if err != nil {
		return fmt.Errorf("failed to load item %d: %w", cmd.ID, err)
	}

	if !item.IsEmpty() {
		return &domain.ValidationError{
			Subject: "inventory",
			Errors:  []string{fmt.Sprintf("item %d still holds stock; deduct or transfer it first", item.ID)},
		}
	}

	return h.writer.Delete(ctx, item.ID)
}
