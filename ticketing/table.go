package ticketing

import (
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
)

// OpenTable seats guestCount guests at an empty table.
func OpenTable(table *models.Table, guestCount int, waiterID uint, waiter string, now time.Time) error {
	if table.Status != models.TableEmpty {
		return fmt.Errorf("%w: table %d is %s", ErrInvalidState, table.Number, table.Status)
	}
	if guestCount < 1 {
		return fmt.Errorf("%w: guest count must be at least 1, got %d", ErrInvalidArgument, guestCount)
	}
	opened := now
	table.Status = models.TableOccupied
	table.GuestCount = guestCount
	table.WaiterID = waiterID
	table.Waiter = waiter
	table.OpenedAt = &opened
	return nil
}

// CloseTable resets an occupied table. orders must be the current orders
// of the business (or of this table); any active one blocks the close.
func CloseTable(table *models.Table, orders []models.Order) error {
	if table.Status != models.TableOccupied {
		return fmt.Errorf("%w: table %d is %s", ErrInvalidState, table.Number, table.Status)
	}
	if HasActiveOrders(table.ID, orders) {
		return fmt.Errorf("%w (table %d)", ErrTableHasActiveOrders, table.Number)
	}
	table.Status = models.TableEmpty
	table.GuestCount = 0
	table.WaiterID = 0
	table.Waiter = ""
	table.OpenedAt = nil
	return nil
}

func HasActiveOrders(tableID string, orders []models.Order) bool {
	for _, o := range orders {
		if o.TableID == tableID && o.IsActive() {
			return true
		}
	}
	return false
}

// ValidateSeat checks a seat number against the table it is ordered for.
// Seat numbers only mean something when more than one guest is seated, so
// they are dropped otherwise.
func ValidateSeat(seat int, table models.Table) (int, error) {
	if seat == 0 || table.GuestCount <= 1 {
		return 0, nil
	}
	if seat < 0 || seat > table.GuestCount {
		return 0, fmt.Errorf("%w: seat %d outside 1..%d", ErrInvalidArgument, seat, table.GuestCount)
	}
	return seat, nil
}
