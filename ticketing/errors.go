package ticketing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidState              = errors.New("invalid state")
	ErrInvalidArgument           = errors.New("invalid argument")
	ErrItemNotFound              = errors.New("item not found")
	ErrTableHasActiveOrders      = errors.New("active orders remain, cannot close table")
	ErrConflictOnConcurrentWrite = errors.New("document changed concurrently, reload and retry")
	ErrNotFound                  = errors.New("not found")
)

// OrderFailure records why one constituent order of a merged group could
// not be updated.
type OrderFailure struct {
	OrderID string   `json:"order_id"`
	ItemIDs []string `json:"item_ids"`
	Err     error    `json:"-"`
	Reason  string   `json:"reason"`
}

// PropagationError is returned when marking a merged group ready reached
// some orders but not all of them. Orders not listed were updated.
type PropagationError struct {
	Failures []OrderFailure
}

func (e *PropagationError) Error() string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.OrderID)
	}
	return fmt.Sprintf("could not mark items ready on %d order(s): %s", len(e.Failures), strings.Join(ids, ", "))
}

// FailedOrderIDs lists the orders the caller should retry.
func (e *PropagationError) FailedOrderIDs() []string {
	ids := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		ids = append(ids, f.OrderID)
	}
	return ids
}

// Unwrap exposes every underlying cause to errors.Is.
func (e *PropagationError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		if f.Err != nil {
			errs = append(errs, f.Err)
		}
	}
	return errs
}
