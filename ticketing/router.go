// Package ticketing holds the order lifecycle and ticket routing rules.
// Everything here is synchronous and free of I/O so it can be re-run on
// every store snapshot.
package ticketing

import "github.com/yeremiapane/restaurant-pos/models"

// ItemsFor returns the items of order routed to destination, in their
// original order.
func ItemsFor(order models.Order, destination models.Destination) []models.OrderItem {
	var items []models.OrderItem
	for _, item := range order.Items {
		if item.MenuItem.Destination == destination {
			items = append(items, item)
		}
	}
	return items
}

// IsDestinationComplete reports whether every item for destination is
// ready. An order with nothing for destination is complete there.
func IsDestinationComplete(order models.Order, destination models.Destination) bool {
	for _, item := range ItemsFor(order, destination) {
		if !item.IsReady() {
			return false
		}
	}
	return true
}

// HasItemsFor reports whether destination would show anything for order.
func HasItemsFor(order models.Order, destination models.Destination) bool {
	for _, item := range order.Items {
		if item.MenuItem.Destination == destination {
			return true
		}
	}
	return false
}

// ForDestination keeps the active orders that route at least one item to
// destination. Orders keep their relative order.
func ForDestination(orders []models.Order, destination models.Destination) []models.Order {
	var out []models.Order
	for _, order := range orders {
		if order.IsActive() && HasItemsFor(order, destination) {
			out = append(out, order)
		}
	}
	return out
}

// ReadyQuantity sums the quantities of ready items across every destination.
func ReadyQuantity(order models.Order) int {
	n := 0
	for _, item := range order.Items {
		if item.IsReady() {
			n += item.Quantity
		}
	}
	return n
}
