package command

import (
	"context"
	"errors"
	"fmt"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
	"github.com/tair/warehouse-stock/pkg/logger"
)

// ErrBatchRejected marks items that were not moved because another item of an all-or-nothing batch failed
var ErrBatchRejected = errors.New("not executed: another item in the batch failed")

// TransferBatch is a list of moves executed one after another in list order
type TransferBatch struct {
	Requests []domain.TransferRequest
	// ConfirmOccupied allows moving into slots that already hold other stock
	ConfirmOccupied bool
	// Policy overrides the configured policy when set
	Policy domain.TransferPolicy
}

// TransferPlan is the checked, not yet executed, form of one request
type TransferPlan struct {
	Request     domain.TransferRequest
	Item        *domain.InventoryItem
	Destination string
	// Split is set when only part of the record moves
	Split bool
	State domain.TransferState
	Err   error
}

// Ready reports whether the plan may be executed
func (p TransferPlan) Ready() bool {
	return p.State == domain.TransferReady
}

func (p TransferPlan) result() domain.TransferResult {
	res := domain.TransferResult{ItemID: p.Request.ItemID, State: p.State, Err: p.Err, To: p.Destination}
	if p.Item != nil {
		res.SKU = p.Item.SKU
		res.From = domain.DisplayLocation(p.Item.Location)
	}
	if res.To == "" {
		res.To = p.Request.Destination
	}
	if p.Err != nil {
		res.Message = p.Err.Error()
	}
	return res
}

// TransferInventoryHandler moves records between locations
type TransferInventoryHandler struct {
	repo      domain.InventoryRepository
	writer    domain.StockWriter
	deduct    *DeductStockHandler
	publisher domain.EventPublisher
	policy    domain.TransferPolicy
}

// NewTransferInventoryHandler creates a new transfer handler with the default policy
func NewTransferInventoryHandler(repo domain.InventoryRepository, writer domain.StockWriter, deduct *DeductStockHandler, publisher domain.EventPublisher, policy domain.TransferPolicy) *TransferInventoryHandler {
	if policy == "" {
		policy = domain.PolicyBestEffort
	}
	return &TransferInventoryHandler{repo: repo, writer: writer, deduct: deduct, publisher: publisher, policy: policy}
}

// Plan checks every request against the current store state without writing
func (h *TransferInventoryHandler) Plan(ctx context.Context, batch TransferBatch) []TransferPlan {
	plans := make([]TransferPlan, len(batch.Requests))
	seen := make(map[int64]bool, len(batch.Requests))

	for i, req := range batch.Requests {
		plan := TransferPlan{Request: req, State: domain.TransferPending}
		if seen[req.ItemID] {
			plan.fail(&domain.ValidationError{Subject: "transfer", Errors: []string{fmt.Sprintf("item %d is listed more than once", req.ItemID)}})
		} else {
			seen[req.ItemID] = true
			h.plan(ctx, &plan, batch.ConfirmOccupied)
		}
		plans[i] = plan
	}
	return plans
}

func (p *TransferPlan) fail(err error) {
	p.State = domain.TransferFailed
	p.Err = err
}

func (p *TransferPlan) conflict(err error) {
	p.State = domain.TransferConflict
	p.Err = err
}

func (h *TransferInventoryHandler) plan(ctx context.Context, p *TransferPlan, confirmOccupied bool) {
	item, err := h.repo.FindByID(ctx, p.Request.ItemID)
	if err != nil {
		p.fail(fmt.Errorf("failed to load item %d: %w", p.Request.ItemID, err))
		return
	}
	p.Item = item

	code, err := domain.ParseLocation(p.Request.Destination)
	if err != nil {
		p.fail(err)
		return
	}
	p.Destination = code.String()

	if q := p.Request.Quantities; q != nil && *q != item.Quantities() {
		if q.IsZero() {
			p.fail(&domain.ValidationError{Subject: "transfer", Errors: []string{"at least one quantity must be positive"}})
			return
		}
		if err := domain.CheckItemStock(item, *q); err != nil {
			p.fail(err)
			return
		}
		p.Split = true
	}
	p.State = domain.TransferValidated

	if domain.SameLocation(item.Location, p.Destination) {
		p.conflict(&domain.ConflictError{ItemID: item.ID, SKU: item.SKU, Location: p.Destination, Reason: domain.ConflictSameLocation})
		return
	}

	occupants, err := h.repo.FindActiveByLocation(ctx, p.Destination)
	if err != nil {
		p.fail(fmt.Errorf("failed to check destination %s: %w", p.Destination, err))
		return
	}
	others := 0
	for _, o := range occupants {
		if o.ID != item.ID {
			others++
		}
	}
	if others > 0 && !confirmOccupied {
		p.conflict(&domain.ConflictError{ItemID: item.ID, SKU: item.SKU, Location: p.Destination, Reason: domain.ConflictOccupied, Occupants: others})
		return
	}

	p.State = domain.TransferReady
}

// executed remembers how to put a completed move back
type executed struct {
	index int
	undo  func(ctx context.Context) error
}

// Handle plans the batch and executes the ready items sequentially. Items run to
// completion once started; ctx is honoured by the store calls, not between items.
func (h *TransferInventoryHandler) Handle(ctx context.Context, batch TransferBatch) (*domain.TransferReport, error) {
	if len(batch.Requests) == 0 {
		return nil, &domain.ValidationError{Subject: "transfer", Errors: []string{"at least one item is required"}}
	}

	policy := batch.Policy
	if policy == "" {
		policy = h.policy
	}

	plans := h.Plan(ctx, batch)
	results := make([]domain.TransferResult, len(plans))
	for i, p := range plans {
		results[i] = p.result()
		// An unresolved conflict is final once the batch runs
		if p.State == domain.TransferConflict {
			results[i].State = domain.TransferFailed
		}
	}

	if policy == domain.PolicyAllOrNothing {
		for _, p := range plans {
			if !p.Ready() {
				h.rejectRemaining(plans, results, 0)
				return h.report(ctx, policy, results), nil
			}
		}
	}

	var done []executed
	for i, p := range plans {
		if !p.Ready() {
			continue
		}

		res, undo, err := h.execute(ctx, p)
		results[i] = res
		if err == nil {
			done = append(done, executed{index: i, undo: undo})
			continue
		}

		if policy == domain.PolicyAllOrNothing {
			h.compensate(ctx, done, results)
			h.rejectRemaining(plans, results, i+1)
			break
		}
	}

	return h.report(ctx, policy, results), nil
}

func (h *TransferInventoryHandler) execute(ctx context.Context, p TransferPlan) (domain.TransferResult, func(context.Context) error, error) {
	res := p.result()
	item := p.Item
	from := item.Location

	var (
		undo  func(context.Context) error
		moved = item.Quantities()
		err   error
	)
	if p.Split {
		moved = *p.Request.Quantities
		res.NewItemID, undo, err = h.split(ctx, item, p.Destination, moved)
	} else {
		err = h.writer.UpdateLocation(ctx, item.ID, from, p.Destination)
		undo = func(ctx context.Context) error {
			return h.writer.UpdateLocation(ctx, item.ID, p.Destination, from)
		}
	}

	if err != nil {
		res.State = domain.TransferFailed
		res.Success = false
		res.Err = err
		res.Message = err.Error()
		return res, nil, err
	}

	res.State = domain.TransferSuccess
	res.Success = true
	res.Err = nil
	res.Message = fmt.Sprintf("Moved %s from %s to %s", item.SKU, res.From, p.Destination)
	if p.Split {
		res.Message = fmt.Sprintf("Moved part of %s from %s to %s as item %d", item.SKU, res.From, p.Destination, res.NewItemID)
	}

	publishEvent(ctx, h.publisher, domain.StockEvent{
		EventType:    domain.EventInventoryTransferred,
		ItemID:       item.ID,
		SKU:          item.SKU,
		FromLocation: res.From,
		ToLocation:   p.Destination,
		Before:       item.Quantities(),
		After:        moved,
	})

	return res, undo, nil
}

// split creates the destination record first, then deducts the source. If the
// deduction fails the created record is removed again.
func (h *TransferInventoryHandler) split(ctx context.Context, item *domain.InventoryItem, destination string, q domain.Quantities) (int64, func(context.Context) error, error) {
	part := &domain.InventoryItem{
		SKU:             item.SKU,
		Location:        destination,
		LotNumber:       item.LotNumber,
		ManufactureDate: item.ManufactureDate,
	}
	part.SetQuantities(q)
	part.ApplyRate(item.Rate())

	if err := h.repo.Create(ctx, part); err != nil {
		return 0, nil, fmt.Errorf("failed to create destination record: %w", err)
	}

	deduction, err := h.deduct.Handle(ctx, DeductStockCommand{ItemID: item.ID, Quantities: q})
	if err != nil {
		if cleanupErr := h.writer.Delete(ctx, part.ID); cleanupErr != nil {
			logger.Error(ctx).
				Err(cleanupErr).
				Int64("item_id", part.ID).
				Msg("Failed to remove destination record after source deduction failed")
		}
		return 0, nil, err
	}

	undo := func(ctx context.Context) error {
		if err := h.writer.UpdateQuantities(ctx, item.ID, deduction.After, deduction.Before); err != nil {
			return err
		}
		return h.writer.Delete(ctx, part.ID)
	}
	return part.ID, undo, nil
}

// compensate moves completed items back, newest first
func (h *TransferInventoryHandler) compensate(ctx context.Context, done []executed, results []domain.TransferResult) {
	for i := len(done) - 1; i >= 0; i-- {
		res := &results[done[i].index]
		if err := done[i].undo(ctx); err != nil {
			logger.Error(ctx).Err(err).Int64("item_id", res.ItemID).Msg("Failed to roll back transfer")
			res.Message += fmt.Sprintf("; rollback failed: %v", err)
			continue
		}
		res.State = domain.TransferFailed
		res.Success = false
		res.Err = ErrBatchRejected
		res.Message = "rolled back: another item in the batch failed"
	}
}

func (h *TransferInventoryHandler) rejectRemaining(plans []TransferPlan, results []domain.TransferResult, from int) {
	for i := from; i < len(plans); i++ {
		if !plans[i].Ready() {
			continue
		}
		results[i].State = domain.TransferFailed
		results[i].Success = false
		results[i].Err = ErrBatchRejected
		results[i].Message = ErrBatchRejected.Error()
	}
}

func (h *TransferInventoryHandler) report(ctx context.Context, policy domain.TransferPolicy, results []domain.TransferResult) *domain.TransferReport {
	report := &domain.TransferReport{Policy: policy, Results: make([]domain.TransferResult, 0, len(results))}
	for _, res := range results {
		report.Add(res)
		transferItemsTotal.WithLabelValues(string(policy), string(res.State)).Inc()
	}

	logger.Info(ctx).
		Str("policy", string(policy)).
		Int("success", report.SuccessCount).
		Int("failed", report.FailedCount).
		Msg("Transfer batch finished")
	return report
}
