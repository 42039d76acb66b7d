package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")
	// ErrReferenced is returned when a record cannot be removed because other rows still reference it
	ErrReferenced = errors.New("record is still referenced")
)

// FormatError means a location text matches no recognised grammar
type FormatError struct {
	Input  string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid location %q: %s", e.Input, e.Reason)
}

// ValidationError carries every rule a submitted record violated
type ValidationError struct {
	Subject string
	Errors  []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Subject, strings.Join(e.Errors, "; "))
}

// TierShortage describes how far one tier falls short of a request
type TierShortage struct {
	Tier      Tier   `json:"tier"`
	Name      string `json:"name"`
	Requested int    `json:"requested"`
	Available int    `json:"available"`
	Shortfall int    `json:"shortfall"`
}

func (s TierShortage) String() string {
	name := s.Name
	if name == "" {
		name = s.Tier.String()
	}
	return fmt.Sprintf("requested %d %s, only %d available (short %d)", s.Requested, name, s.Available, s.Shortfall)
}

// InsufficientStockError means a request exceeds what a record holds in at least one tier
type InsufficientStockError struct {
	ItemID    int64
	SKU       string
	Location  string
	Shortages []TierShortage
}

func (e *InsufficientStockError) Error() string {
	parts := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		parts[i] = s.String()
	}
	detail := strings.Join(parts, "; ")
	if e.ItemID == 0 {
		return "insufficient stock: " + detail
	}
	return fmt.Sprintf("insufficient stock for item %d (SKU %s) at %s: %s", e.ItemID, e.SKU, DisplayLocation(e.Location), detail)
}

// Shortage returns the shortage recorded for tier t, if any
func (e *InsufficientStockError) Shortage(t Tier) (TierShortage, bool) {
	for _, s := range e.Shortages {
		if s.Tier == t {
			return s, true
		}
	}
	return TierShortage{}, false
}

// ConflictReason explains why a transfer destination was refused
type ConflictReason string

const (
	ConflictSameLocation ConflictReason = "same_location"
	ConflictOccupied     ConflictReason = "occupied"
)

// ConflictError means a transfer destination equals the source or is occupied without confirmation
type ConflictError struct {
	ItemID    int64
	SKU       string
	Location  string
	Reason    ConflictReason
	Occupants int
}

func (e *ConflictError) Error() string {
	switch e.Reason {
	case ConflictSameLocation:
		return fmt.Sprintf("item %d (SKU %s) is already at %s", e.ItemID, e.SKU, e.Location)
	case ConflictOccupied:
		return fmt.Sprintf("destination %s already holds %d other record(s); confirm co-location to move item %d (SKU %s)", e.Location, e.Occupants, e.ItemID, e.SKU)
	default:
		return fmt.Sprintf("transfer conflict for item %d at %s", e.ItemID, e.Location)
	}
}

// StaleRecordError means the record changed between read and conditional write
type StaleRecordError struct {
	ItemID int64
}

func (e *StaleRecordError) Error() string {
	return fmt.Sprintf("item %d was modified concurrently; reload and retry", e.ItemID)
}

// StrategyError is the failure of one write strategy
type StrategyError struct {
	Strategy string
	Err      error
}

func (e StrategyError) Error() string {
	return e.Strategy + ": " + e.Err.Error()
}

// PersistenceError means every write strategy failed for an operation
type PersistenceError struct {
	Op       string
	ItemID   int64
	Attempts []StrategyError
}

func (e *PersistenceError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = a.Error()
	}
	return fmt.Sprintf("failed to %s item %d: %s", e.Op, e.ItemID, strings.Join(parts, "; "))
}

// Unwrap exposes each strategy's error to errors.Is / errors.As
func (e *PersistenceError) Unwrap() []error {
	errs := make([]error, len(e.Attempts))
	for i, a := range e.Attempts {
		errs[i] = a.Err
	}
	return errs
}

// IsDefinitive reports whether err is an answer about the record itself rather
// than a failure of the path used to reach the store
func IsDefinitive(err error) bool {
	var stale *StaleRecordError
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrReferenced) || errors.As(err, &stale)
}
