package command

import (
	"context"
	"errors"
	"testing"

	"github.com/tair/warehouse-stock/internal/inventory/domain"
)

func newTransferHandler(store *memoryStore, pub *recordingPublisher, policy domain.TransferPolicy) *TransferInventoryHandler {
	deduct := newDeductHandler(store, pub)
	return NewTransferInventoryHandler(store, store, deduct, pub, policy)
}

func move(id int64, destination string) domain.TransferRequest {
	return domain.TransferRequest{ItemID: id, Destination: destination}
}

func TestTransferBestEffortSkipsConflicts(t *testing.T) {
	store := newMemoryStore(
		newItem(1, "A1/1", domain.Quantities{Level1: 1}),
		newItem(2, "C5/2", domain.Quantities{Level1: 1}),
		newItem(3, "A1/3", domain.Quantities{Level1: 1}),
	)
	pub := &recordingPublisher{}

	report, err := newTransferHandler(store, pub, domain.PolicyBestEffort).Handle(context.Background(), TransferBatch{
		Requests: []domain.TransferRequest{move(1, "B1/1"), move(2, "c5/2"), move(3, "B1/2")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if report.SuccessCount != 2 || report.FailedCount != 1 || !report.Success {
		t.Fatalf("report = %+v", report)
	}
	second := report.Results[1]
	if second.Success || second.State != domain.TransferFailed {
		t.Errorf("second result = %+v", second)
	}
	var conflict *domain.ConflictError
	if !errors.As(second.Err, &conflict) || conflict.Reason != domain.ConflictSameLocation {
		t.Errorf("second error = %v", second.Err)
	}

	moved, _ := store.get(3)
	if moved.Location != "B1/2" {
		t.Errorf("item 3 location = %q", moved.Location)
	}
	if len(pub.events) != 2 {
		t.Errorf("events = %v", pub.types())
	}
}

func TestTransferTreatsLegacySourceAsSameLocation(t *testing.T) {
	store := newMemoryStore(newItem(1, "H1/9", domain.Quantities{Level3: 1}))

	report, _ := newTransferHandler(store, &recordingPublisher{}, "").Handle(context.Background(), TransferBatch{
		Requests: []domain.TransferRequest{move(1, "H9/1")},
	})
	if report.Success || report.Results[0].State != domain.TransferFailed {
		t.Errorf("report = %+v", report)
	}
}

func TestTransferOccupiedDestinationNeedsConfirmation(t *testing.T) {
	newStore := func() *memoryStore {
		return newMemoryStore(
			newItem(1, "A1/1", domain.Quantities{Level1: 1}),
			newItem(2, "B1/1", domain.Quantities{Level2: 1}),
		)
	}

	report, _ := newTransferHandler(newStore(), &recordingPublisher{}, "").Handle(context.Background(), TransferBatch{
		Requests: []domain.TransferRequest{move(1, "b1/1")},
	})
	var conflict *domain.ConflictError
	if report.Success || !errors.As(report.Results[0].Err, &conflict) || conflict.Reason != domain.ConflictOccupied || conflict.Occupants != 1 {
		t.Fatalf("unconfirmed report = %+v", report)
	}

	plans := newTransferHandler(newStore(), &recordingPublisher{}, "").Plan(context.Background(), TransferBatch{
		Requests: []domain.TransferRequest{move(1, "b1/1")},
	})
	if plans[0].State != domain.TransferConflict || plans[0].Ready() {
		t.Errorf("plan = %+v, want an unconfirmed conflict", plans[0])
	}

	store := newStore()
	report, _ = newTransferHandler(store, &recordingPublisher{}, "").Handle(context.Background(), TransferBatch{
		Requests:        []domain.TransferRequest{move(1, "b1/1")},
		ConfirmOccupied: true,
	})
	if !report.Success {
		t.Fatalf("confirmed report = %+v", report)
	}
	if item, _ := store.get(1); item.Location != "B1/1" {
		t.Errorf("location = %q, want canonical B1/1", item.Location)
	}
}

func TestTransferPlanRejectsBadInput(t *testing.T) {
	store := newMemoryStore(newItem(1, "A1/1", domain.Quantities{Level1: 1}))
	h := newTransferHandler(store, &recordingPublisher{}, "")

	plans := h.Plan(context.Background(), TransferBatch{
		Requests: []domain.TransferRequest{move(1, "Z5/99"), move(1, "B1/1"), move(42, "B1/1")},
	})

	var formatErr *domain.FormatError
	if plans[0].State != domain.TransferFailed || !errors.As(plans[0].Err, &formatErr) {
		t.Errorf("bad destination plan = %+v", plans[0])
	}
	var validation *domain.ValidationError
	if plans[1].State != domain.TransferFailed || !errors.As(plans[1].Err, &validation) {
		t.Errorf("duplicate plan = %+v", plans[1])
	}
	if plans[2].State != domain.TransferFailed || !errors.Is(plans[2].Err, domain.ErrNotFound) {
		t.Errorf("missing item plan = %+v", plans[2])
	}
}

func TestTransferAllOrNothingRefusesWhenAnyPlanFails(t *testing.T) {
	store := newMemoryStore(
		newItem(1, "A1/1", domain.Quantities{Level1: 1}),
		newItem(2, "A1/2", domain.Quantities{Level1: 1}),
	)

	report, _ := newTransferHandler(store, &recordingPublisher{}, domain.PolicyAllOrNothing).Handle(context.Background(), TransferBatch{
		Requests: []domain.TransferRequest{move(1, "B1/1"), move(2, "A1/2")},
	})

	if report.Success || report.SuccessCount != 0 {
		t.Fatalf("report = %+v", report)
	}
	if !errors.Is(report.Results[0].Err, ErrBatchRejected) {
		t.Errorf("ready item error = %v", report.Results[0].Err)
	}
	if item, _ := store.get(1); item.Location != "A1/1" {
		t.Errorf("item 1 moved to %q", item.Location)
	}
}

func TestTransferAllOrNothingRollsBackOnExecutionFailure(t *testing.T) {
	store := newMemoryStore(
		newItem(1, "A1/1", domain.Quantities{Level1: 1}),
		newItem(2, "A1/2", domain.Quantities{Level1: 1}),
		newItem(3, "A1/3", domain.Quantities{Level1: 1}),
	)
	store.failLocation[2] = &domain.PersistenceError{Op: "update_location", ItemID: 2}

	report, _ := newTransferHandler(store, &recordingPublisher{}, "").Handle(context.Background(), TransferBatch{
		Requests: []domain.TransferRequest{move(1, "B1/1"), move(2, "B1/2"), move(3, "B1/3")},
		Policy:   domain.PolicyAllOrNothing,
	})

	if report.Success || report.FailedCount != 3 {
		t.Fatalf("report = %+v", report)
	}
	if item, _ := store.get(1); item.Location != "A1/1" {
		t.Errorf("item 1 not rolled back: %q", item.Location)
	}
	if item, _ := store.get(3); item.Location != "A1/3" {
		t.Errorf("item 3 should not have moved: %q", item.Location)
	}
	var persistence *domain.PersistenceError
	if !errors.As(report.Results[1].Err, &persistence) {
		t.Errorf("failing item error = %v", report.Results[1].Err)
	}
}

func TestTransferSplitMovesPartialQuantities(t *testing.T) {
	store := newMemoryStore(newItem(1, "A1/1", domain.Quantities{Level1: 3, Level3: 5}))
	pub := &recordingPublisher{}

	report, err := newTransferHandler(store, pub, "").Handle(context.Background(), TransferBatch{
		Requests: []domain.TransferRequest{{ItemID: 1, Destination: "B2/1", Quantities: &domain.Quantities{Level1: 1, Level3: 2}}},
	})
	if err != nil || !report.Success {
		t.Fatalf("report = %+v, err = %v", report, err)
	}

	source, _ := store.get(1)
	if source.Location != "A1/1" || source.Quantities() != (domain.Quantities{Level1: 2, Level3: 3}) {
		t.Errorf("source = %+v", source)
	}

	part, ok := store.get(report.Results[0].NewItemID)
	if !ok {
		t.Fatal("destination record not created")
	}
	if part.Location != "B2/1" || part.Quantities() != (domain.Quantities{Level1: 1, Level3: 2}) || part.Level1Rate != 144 {
		t.Errorf("part = %+v", part)
	}
}

func TestTransferSplitRemovesPartWhenDeductionFails(t *testing.T) {
	store := newMemoryStore(newItem(1, "A1/1", domain.Quantities{Level1: 3}))
	store.failUpdate[1] = &domain.StaleRecordError{ItemID: 1}

	report, _ := newTransferHandler(store, &recordingPublisher{}, "").Handle(context.Background(), TransferBatch{
		Requests: []domain.TransferRequest{{ItemID: 1, Destination: "B2/1", Quantities: &domain.Quantities{Level1: 1}}},
	})
	if report.Success {
		t.Fatalf("report = %+v", report)
	}

	items, _ := store.FindActiveByLocation(context.Background(), "B2/1")
	if len(items) != 0 {
		t.Errorf("orphan destination record left behind: %+v", items)
	}
}

func TestTransferRejectsEmptyBatch(t *testing.T) {
	h := newTransferHandler(newMemoryStore(), &recordingPublisher{}, "")

	var validation *domain.ValidationError
	if _, err := h.Handle(context.Background(), TransferBatch{}); !errors.As(err, &validation) {
		t.Errorf("expected *ValidationError, got %v", err)
	}
}
