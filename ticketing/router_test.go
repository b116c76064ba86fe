package ticketing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/yeremiapane/restaurant-pos/models"
)

func TestItemsForPartitionsEveryItemExactlyOnce(t *testing.T) {
	o := order("o1", "table-5", 5, base,
		item("a", soup, 2, "", ""),
		item("b", cola, 1, "", ""),
		item("c", kofte, 1, "no onion", ""),
		item("d", water, 3, "", ""),
	)

	bar := itemIDs(ItemsFor(o, models.DestinationBar))
	kitchen := itemIDs(ItemsFor(o, models.DestinationKitchen))

	assert.Equal(t, []string{"b", "d"}, bar)
	assert.Equal(t, []string{"a", "c"}, kitchen)
	assert.ElementsMatch(t, itemIDs(o.Items), append(bar, kitchen...))
	for _, id := range bar {
		assert.NotContains(t, kitchen, id)
	}
}

func TestIsDestinationComplete(t *testing.T) {
	tests := []struct {
		name    string
		items   []models.OrderItem
		bar     bool
		kitchen bool
	}{
		{
			name:    "kitchen only order is vacuously bar complete",
			items:   []models.OrderItem{item("a", soup, 1, "", "")},
			bar:     true,
			kitchen: false,
		},
		{
			name:    "bar ready kitchen pending",
			items:   []models.OrderItem{item("a", soup, 1, "", ""), item("b", cola, 1, "", models.ItemReady)},
			bar:     true,
			kitchen: false,
		},
		{
			name:    "preparing counts as not ready",
			items:   []models.OrderItem{item("b", cola, 1, "", models.ItemPreparing)},
			bar:     false,
			kitchen: true,
		},
		{
			name:    "everything ready",
			items:   []models.OrderItem{item("a", soup, 1, "", models.ItemReady), item("b", cola, 1, "", models.ItemReady)},
			bar:     true,
			kitchen: true,
		},
		{
			name:    "no items at all",
			bar:     true,
			kitchen: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := order("o1", "table-1", 1, base, tt.items...)
			assert.Equal(t, tt.bar, IsDestinationComplete(o, models.DestinationBar))
			assert.Equal(t, tt.kitchen, IsDestinationComplete(o, models.DestinationKitchen))
		})
	}
}

func TestForDestinationSkipsInactiveAndUnrelatedOrders(t *testing.T) {
	drinks := order("o1", "table-1", 1, base, item("a", cola, 1, "", ""))
	food := order("o2", "table-2", 2, base, item("b", soup, 1, "", ""))
	done := order("o3", "table-3", 3, base, item("c", soup, 1, "", ""))
	done.Status = models.OrderCompleted

	got := ForDestination([]models.Order{drinks, food, done}, models.DestinationKitchen)

	assert.Len(t, got, 1)
	assert.Equal(t, "o2", got[0].ID)
}
