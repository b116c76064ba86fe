package ticketing

import (
	"fmt"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
)

type CartLine struct {
	MenuItem   models.MenuItemSnapshot
	Quantity   int
	Notes      string
	SeatNumber int
}

// Cart collects a waiter's selections for one table before submission.
type Cart struct {
	Lines []CartLine
}

// Add appends a selection. The same menu item with the same notes and
// seat only bumps the quantity of the existing line.
func (c *Cart) Add(item models.MenuItemSnapshot, quantity int, notes string, seat int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1, got %d for %s", ErrInvalidArgument, quantity, item.Name)
	}
	if !item.Destination.Valid() {
		return fmt.Errorf("%w: menu item %s has no destination", ErrInvalidArgument, item.ID)
	}
	notes = strings.TrimSpace(notes)
	for i := range c.Lines {
		l := &c.Lines[i]
		if l.MenuItem.ID == item.ID && l.Notes == notes && l.SeatNumber == seat {
			l.Quantity += quantity
			return nil
		}
	}
	c.Lines = append(c.Lines, CartLine{MenuItem: item, Quantity: quantity, Notes: notes, SeatNumber: seat})
	return nil
}

func (c Cart) Total() float64 {
	var total float64
	for _, l := range c.Lines {
		if l.MenuItem.Price != nil {
			total += *l.MenuItem.Price * float64(l.Quantity)
		}
	}
	return total
}

// OrderItems turns the cart into pending order items. newID must return a
// fresh id on every call.
func (c Cart) OrderItems(now time.Time, newID func() string) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(c.Lines))
	for _, l := range c.Lines {
		items = append(items, models.OrderItem{
			ID:         newID(),
			MenuItem:   l.MenuItem,
			Quantity:   l.Quantity,
			Notes:      l.Notes,
			SeatNumber: l.SeatNumber,
			Status:     models.ItemPending,
			CreatedAt:  now,
		})
	}
	return items
}
