package ticketing

import (
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
)

var base = time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)

func price(v float64) *float64 { return &v }

func snapshot(id, name string, dest models.Destination, p *float64) models.MenuItemSnapshot {
	return models.MenuItemSnapshot{ID: id, Name: name, Price: p, Category: "c", SubCategory: "s", Destination: dest}
}

var (
	soup  = snapshot("soup", "Soup", models.DestinationKitchen, price(90))
	cola  = snapshot("cola", "Cola", models.DestinationBar, price(40))
	kofte = snapshot("kofte", "Kofte", models.DestinationKitchen, price(250))
	water = snapshot("water", "Water", models.DestinationBar, nil)
)

func item(id string, menu models.MenuItemSnapshot, qty int, notes string, status models.ItemStatus) models.OrderItem {
	if status == "" {
		status = models.ItemPending
	}
	return models.OrderItem{ID: id, MenuItem: menu, Quantity: qty, Notes: notes, Status: status, CreatedAt: base}
}

func order(id, tableID string, tableNumber int, created time.Time, items ...models.OrderItem) models.Order {
	return models.Order{
		ID:          id,
		BusinessID:  "biz",
		TableID:     tableID,
		TableNumber: tableNumber,
		Items:       items,
		Waiter:      "Ayse",
		WaiterID:    7,
		Status:      models.OrderActive,
		CreatedAt:   created,
		UpdatedAt:   created,
		Version:     1,
	}
}

func itemIDs(items []models.OrderItem) []string {
	ids := make([]string, 0, len(items))
	for _, i := range items {
		ids = append(ids, i.ID)
	}
	return ids
}
