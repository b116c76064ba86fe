package models

import (
	"time"
)

type ItemStatus string

// Only pending and ready drive the lifecycle; preparing and served are
// accepted on input and treated as not ready.
const (
	ItemPending   ItemStatus = "pending"
	ItemPreparing ItemStatus = "preparing"
	ItemReady     ItemStatus = "ready"
	ItemServed    ItemStatus = "served"
)

// MenuItemSnapshot is embedded by value in every order item.
type MenuItemSnapshot struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Price       *float64    `json:"price"`
	Category    string      `json:"category"`
	SubCategory string      `json:"sub_category"`
	Destination Destination `json:"destination"`
}

type OrderItem struct {
	ID         string           `json:"id"`
	MenuItem   MenuItemSnapshot `json:"menu_item"`
	Quantity   int              `json:"quantity"`
	Notes      string           `json:"notes,omitempty"`
	SeatNumber int              `json:"seat_number,omitempty"`
	Status     ItemStatus       `json:"status"`
	CreatedAt  time.Time        `json:"created_at"`
}

func (i OrderItem) IsReady() bool {
	return i.Status == ItemReady
}

// LineTotal is zero for free items.
func (i OrderItem) LineTotal() float64 {
	if i.MenuItem.Price == nil {
		return 0
	}
	return *i.MenuItem.Price * float64(i.Quantity)
}
