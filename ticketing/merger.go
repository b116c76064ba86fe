package ticketing

import (
	"sort"
	"strings"
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
)

// ItemRef points at one order item inside a merged group.
type ItemRef struct {
	OrderID     string            `json:"order_id"`
	ItemID      string            `json:"item_id"`
	TableID     string            `json:"table_id"`
	TableNumber int               `json:"table_number"`
	Quantity    int               `json:"quantity"`
	Notes       string            `json:"notes,omitempty"`
	SeatNumber  int               `json:"seat_number,omitempty"`
	Status      models.ItemStatus `json:"status"`
	CreatedAt   time.Time         `json:"created_at"`
}

// MergedGroup is one display row on a preparation screen.
type MergedGroup struct {
	Key           string                  `json:"key"`
	MenuItem      models.MenuItemSnapshot `json:"menu_item"`
	Notes         string                  `json:"notes,omitempty"`
	TotalQuantity int                     `json:"total_quantity"`
	AllReady      bool                    `json:"all_ready"`
	Items         []ItemRef               `json:"items"`
}

// Merge folds the items routed to destination across every active order
// into display groups. Items without notes merge by menu item id; an item
// with notes always stays on its own.
//
// Orders are walked oldest first (ties by id), so the same snapshot always
// yields the same groups in the same order.
func Merge(orders []models.Order, destination models.Destination) []MergedGroup {
	active := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.IsActive() {
			active = append(active, o)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if !active[i].CreatedAt.Equal(active[j].CreatedAt) {
			return active[i].CreatedAt.Before(active[j].CreatedAt)
		}
		return active[i].ID < active[j].ID
	})

	var groups []MergedGroup
	index := make(map[string]int)
	for _, order := range active {
		for _, item := range ItemsFor(order, destination) {
			ref := ItemRef{
				OrderID:     order.ID,
				ItemID:      item.ID,
				TableID:     order.TableID,
				TableNumber: order.TableNumber,
				Quantity:    item.Quantity,
				Notes:       item.Notes,
				SeatNumber:  item.SeatNumber,
				Status:      item.Status,
				CreatedAt:   item.CreatedAt,
			}
			key := groupKey(order.ID, item)
			pos, ok := index[key]
			if !ok {
				groups = append(groups, MergedGroup{
					Key:      key,
					MenuItem: item.MenuItem,
					Notes:    strings.TrimSpace(item.Notes),
					AllReady: true,
				})
				pos = len(groups) - 1
				index[key] = pos
			}
			g := &groups[pos]
			g.TotalQuantity += item.Quantity
			g.AllReady = g.AllReady && item.IsReady()
			g.Items = append(g.Items, ref)
		}
	}
	return groups
}

// Partition splits groups into the "to prepare" and "done" sections.
func Partition(groups []MergedGroup) (pending, ready []MergedGroup) {
	for _, g := range groups {
		if g.AllReady {
			ready = append(ready, g)
		} else {
			pending = append(pending, g)
		}
	}
	return pending, ready
}

// FindGroup looks a group up by key in a freshly merged snapshot.
func FindGroup(groups []MergedGroup, key string) (MergedGroup, bool) {
	for _, g := range groups {
		if g.Key == key {
			return g, true
		}
	}
	return MergedGroup{}, false
}

// ByOrder regroups the refs of a merged group per owning order, keeping
// first-seen order, so each order can be written exactly once.
func ByOrder(refs []ItemRef) (orderIDs []string, items map[string][]string) {
	items = make(map[string][]string)
	for _, ref := range refs {
		if _, seen := items[ref.OrderID]; !seen {
			orderIDs = append(orderIDs, ref.OrderID)
		}
		items[ref.OrderID] = append(items[ref.OrderID], ref.ItemID)
	}
	return orderIDs, items
}

func groupKey(orderID string, item models.OrderItem) string {
	if strings.TrimSpace(item.Notes) != "" {
		return "item:" + orderID + ":" + item.ID
	}
	return "menu:" + item.MenuItem.ID
}
