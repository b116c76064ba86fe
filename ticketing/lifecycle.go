package ticketing

import (
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
)

// MarkItemReady sets one item to ready. Marking a ready item again is a
// no-op and leaves UpdatedAt alone.
func MarkItemReady(order *models.Order, itemID string, now time.Time) error {
	if err := requireActive(order); err != nil {
		return err
	}
	for i := range order.Items {
		if order.Items[i].ID != itemID {
			continue
		}
		if order.Items[i].IsReady() {
			return nil
		}
		order.Items[i].Status = models.ItemReady
		order.UpdatedAt = now
		return nil
	}
	return fmt.Errorf("%w: %s in order %s", ErrItemNotFound, itemID, order.ID)
}

// MarkDestinationReady sets every not-yet-ready item for destination to
// ready and returns how many changed.
func MarkDestinationReady(order *models.Order, destination models.Destination, now time.Time) (int, error) {
	if !destination.Valid() {
		return 0, fmt.Errorf("%w: unknown destination %q", ErrInvalidArgument, destination)
	}
	if err := requireActive(order); err != nil {
		return 0, err
	}
	changed := 0
	for i := range order.Items {
		item := &order.Items[i]
		if item.MenuItem.Destination != destination || item.IsReady() {
			continue
		}
		item.Status = models.ItemReady
		changed++
	}
	if changed > 0 {
		order.UpdatedAt = now
	}
	return changed, nil
}

// MarkItemsReady applies MarkItemReady for each id, stopping at the first
// unknown item so a half-applied order is never written back.
func MarkItemsReady(order *models.Order, itemIDs []string, now time.Time) error {
	for _, id := range itemIDs {
		if !hasItem(*order, id) {
			return fmt.Errorf("%w: %s in order %s", ErrItemNotFound, id, order.ID)
		}
	}
	for _, id := range itemIDs {
		if err := MarkItemReady(order, id, now); err != nil {
			return err
		}
	}
	return nil
}

// Complete closes an active order. Readiness of its items is not checked:
// completion is a business event, not a kitchen one.
func Complete(order *models.Order, now time.Time) error {
	return transition(order, models.OrderCompleted, now)
}

func Cancel(order *models.Order, now time.Time) error {
	return transition(order, models.OrderCancelled, now)
}

// AllReady reports whether every item of the order, at every destination,
// is ready.
func AllReady(order models.Order) bool {
	for _, d := range models.Destinations {
		if !IsDestinationComplete(order, d) {
			return false
		}
	}
	return true
}

func transition(order *models.Order, to models.OrderStatus, now time.Time) error {
	if err := requireActive(order); err != nil {
		return err
	}
	order.Status = to
	order.UpdatedAt = now
	return nil
}

func requireActive(order *models.Order) error {
	if order.Status != models.OrderActive {
		return fmt.Errorf("%w: order %s is %s", ErrInvalidState, order.ID, order.Status)
	}
	return nil
}

func hasItem(order models.Order, itemID string) bool {
	for _, item := range order.Items {
		if item.ID == itemID {
			return true
		}
	}
	return false
}
