package domain

import "fmt"

// TransferState is the lifecycle position of one item in a transfer
type TransferState string

const (
	TransferPending   TransferState = "pending"
	TransferValidated TransferState = "validated"
	TransferConflict  TransferState = "conflict"
	TransferReady     TransferState = "ready"
	TransferSuccess   TransferState = "success"
	TransferFailed    TransferState = "failed"
)

// TransferPolicy decides what a batch does when some items cannot move
type TransferPolicy string

const (
	// PolicyBestEffort moves every item it can and reports the rest
	PolicyBestEffort TransferPolicy = "best_effort"
	// PolicyAllOrNothing refuses the batch if any item fails planning and moves
	// completed items back when a later one fails
	PolicyAllOrNothing TransferPolicy = "all_or_nothing"
)

// ParseTransferPolicy maps a configured name onto a policy; empty means best effort
func ParseTransferPolicy(s string) (TransferPolicy, error) {
	switch TransferPolicy(s) {
	case "", PolicyBestEffort:
		return PolicyBestEffort, nil
	case PolicyAllOrNothing:
		return PolicyAllOrNothing, nil
	default:
		return "", fmt.Errorf("unknown transfer policy %q", s)
	}
}

// TransferRequest pairs one record with a destination. Nil Quantities moves the whole record;
// otherwise only those quantities are split off into a new record at the destination.
type TransferRequest struct {
	ItemID      int64       `json:"item_id,string"`
	Destination string      `json:"destination"`
	Quantities  *Quantities `json:"quantities,omitempty"`
}

// TransferResult is the outcome of one request
type TransferResult struct {
	ItemID    int64         `json:"item_id,string"`
	NewItemID int64         `json:"new_item_id,string,omitempty"`
	SKU       string        `json:"sku,omitempty"`
	From      string        `json:"from,omitempty"`
	To        string        `json:"to,omitempty"`
	State     TransferState `json:"state"`
	Success   bool          `json:"success"`
	Message   string        `json:"message"`
	Error     string        `json:"error,omitempty"`
	Err       error         `json:"-"`
}

// TransferReport aggregates a batch; it succeeds when at least one item moved
type TransferReport struct {
	Policy       TransferPolicy   `json:"policy"`
	Results      []TransferResult `json:"results"`
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	Success      bool             `json:"success"`
}

// Add records a result and refreshes the counters
func (r *TransferReport) Add(res TransferResult) {
	if res.Err != nil && res.Error == "" {
		res.Error = res.Err.Error()
	}
	r.Results = append(r.Results, res)
	if res.Success {
		r.SuccessCount++
	} else {
		r.FailedCount++
	}
	r.Success = r.SuccessCount > 0
}
