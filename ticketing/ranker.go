package ticketing

import (
	"sort"
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
)

type PriorityTier string

const (
	TierPrimary   PriorityTier = "primary"
	TierSecondary PriorityTier = "secondary"
	TierNone      PriorityTier = "none"
)

const (
	BarUrgencyThreshold     = 10 * time.Minute
	KitchenUrgencyThreshold = 15 * time.Minute
)

type TablePriority struct {
	TableID             string       `json:"table_id"`
	TableNumber         int          `json:"table_number"`
	Waiter              string       `json:"waiter,omitempty"`
	ReadyItemCount      int          `json:"ready_item_count"`
	OldestActiveOrderAt time.Time    `json:"oldest_active_order_at"`
	Rank                int          `json:"rank"`
	Tier                PriorityTier `json:"tier"`
}

// RankTables orders occupied tables holding ready items by how long their
// oldest active order has been waiting. Older tables win over tables with
// more ready items; ties go to the lower table number.
func RankTables(tables []models.Table, orders []models.Order) []TablePriority {
	byTable := make(map[string][]models.Order)
	for _, o := range orders {
		if o.IsActive() {
			byTable[o.TableID] = append(byTable[o.TableID], o)
		}
	}

	var ranked []TablePriority
	for _, t := range tables {
		if t.Status != models.TableOccupied {
			continue
		}
		active := byTable[t.ID]
		if len(active) == 0 {
			continue
		}
		p := TablePriority{TableID: t.ID, TableNumber: t.Number, Waiter: t.Waiter}
		for i, o := range active {
			p.ReadyItemCount += ReadyQuantity(o)
			if i == 0 || o.CreatedAt.Before(p.OldestActiveOrderAt) {
				p.OldestActiveOrderAt = o.CreatedAt
			}
		}
		if p.ReadyItemCount > 0 {
			ranked = append(ranked, p)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if !ranked[i].OldestActiveOrderAt.Equal(ranked[j].OldestActiveOrderAt) {
			return ranked[i].OldestActiveOrderAt.Before(ranked[j].OldestActiveOrderAt)
		}
		return ranked[i].TableNumber < ranked[j].TableNumber
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
		ranked[i].Tier = tierFor(ranked[i].Rank)
	}
	return ranked
}

func tierFor(rank int) PriorityTier {
	switch {
	case rank == 1:
		return TierPrimary
	case rank <= 3:
		return TierSecondary
	default:
		return TierNone
	}
}

func UrgencyThreshold(destination models.Destination) time.Duration {
	if destination == models.DestinationBar {
		return BarUrgencyThreshold
	}
	return KitchenUrgencyThreshold
}

// IsUrgent flags an order for visual escalation once the whole minutes
// since it was created exceed the destination threshold. It plays no part
// in ranking.
func IsUrgent(order models.Order, destination models.Destination, now time.Time) bool {
	minutes := int(now.Sub(order.CreatedAt) / time.Minute)
	return minutes > int(UrgencyThreshold(destination)/time.Minute)
}
