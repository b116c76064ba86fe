package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/store"
	"github.com/yeremiapane/restaurant-pos/ticketing"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// ChangeMonitor drains the change journal and turns every batch into full
// snapshots: active orders and tables go to in-process subscribers, and
// recomputed boards, rankings and stats go to the websocket hub.
type ChangeMonitor struct {
	Feed      store.ChangeFeed
	Orders    store.OrderStore
	Tables    store.TableStore
	Hub       *kds.Hub
	Interval  time.Duration
	BatchSize int
	Now       func() time.Time
	StopChan  chan struct{}

	stopOnce  sync.Once
	mu        sync.Mutex
	nextID    int
	orderSubs map[int]orderSubscription
	tableSubs map[int]tableSubscription
}

type orderSubscription struct {
	businessID string
	fn         func([]models.Order)
}

type tableSubscription struct {
	businessID string
	fn         func([]models.Table)
}

func NewChangeMonitor(s store.Store, hub *kds.Hub) *ChangeMonitor {
	return &ChangeMonitor{
		Feed:      s,
		Orders:    s,
		Tables:    s,
		Hub:       hub,
		Interval:  1 * time.Second,
		BatchSize: 100,
		Now:       time.Now,
		StopChan:  make(chan struct{}),
		orderSubs: make(map[int]orderSubscription),
		tableSubs: make(map[int]tableSubscription),
	}
}

// Start polls the journal every Interval until Stop. A non-positive
// Interval falls back to one second.
func (cm *ChangeMonitor) Start() {
	interval := cm.Interval
	if interval <= 0 {
		interval = time.Second
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := cm.CheckChanges(context.Background()); err != nil {
					utils.ErrorLogger.Errorf("Error processing changes: %v", err)
				}
			case <-cm.StopChan:
				return
			}
		}
	}()
}

func (cm *ChangeMonitor) Stop() {
	cm.stopOnce.Do(func() { close(cm.StopChan) })
}

// SubscribeActiveOrders calls fn with the full active order list of
// businessID now and after every change to it. The returned func cancels
// the subscription.
func (cm *ChangeMonitor) SubscribeActiveOrders(ctx context.Context, businessID string, fn func([]models.Order)) (func(), error) {
	orders, err := cm.Orders.ListActiveOrders(ctx, businessID)
	if err != nil {
		return nil, err
	}
	cm.mu.Lock()
	id := cm.nextID
	cm.nextID++
	cm.orderSubs[id] = orderSubscription{businessID: businessID, fn: fn}
	cm.mu.Unlock()

	fn(orders)
	return func() {
		cm.mu.Lock()
		delete(cm.orderSubs, id)
		cm.mu.Unlock()
	}, nil
}

// SubscribeTables is SubscribeActiveOrders for the table list.
func (cm *ChangeMonitor) SubscribeTables(ctx context.Context, businessID string, fn func([]models.Table)) (func(), error) {
	tables, err := cm.Tables.ListTables(ctx, businessID)
	if err != nil {
		return nil, err
	}
	cm.mu.Lock()
	id := cm.nextID
	cm.nextID++
	cm.tableSubs[id] = tableSubscription{businessID: businessID, fn: fn}
	cm.mu.Unlock()

	fn(tables)
	return func() {
		cm.mu.Lock()
		delete(cm.tableSubs, id)
		cm.mu.Unlock()
	}, nil
}

type touched struct {
	orders bool
	tables bool
}

// CheckChanges processes one batch of the journal. Changes are marked
// processed only after every affected business has been refreshed.
func (cm *ChangeMonitor) CheckChanges(ctx context.Context) error {
	changes, err := cm.Feed.PendingChanges(ctx, cm.BatchSize)
	if err != nil || len(changes) == 0 {
		return err
	}

	var businesses []string
	affected := make(map[string]*touched)
	ids := make([]uint, 0, len(changes))
	for _, change := range changes {
		ids = append(ids, change.ID)
		t, ok := affected[change.BusinessID]
		if !ok {
			t = &touched{}
			affected[change.BusinessID] = t
			businesses = append(businesses, change.BusinessID)
		}
		switch change.Collection {
		case models.CollectionOrders:
			t.orders = true
			if cm.Hub != nil {
				cm.Hub.BroadcastOrderUpdate(change.BusinessID, change.RecordID, change.ActionType)
			}
		case models.CollectionTables:
			t.tables = true
		}
	}

	for _, businessID := range businesses {
		if err := cm.refresh(ctx, businessID, *affected[businessID]); err != nil {
			return err
		}
	}

	if err := cm.Feed.MarkProcessed(ctx, ids); err != nil {
		return err
	}
	utils.InfoLogger.WithFields(logrus.Fields{
		"changes":    len(changes),
		"businesses": len(businesses),
	}).Debug("Changes processed")
	return nil
}

func (cm *ChangeMonitor) refresh(ctx context.Context, businessID string, t touched) error {
	orders, err := cm.Orders.ListActiveOrders(ctx, businessID)
	if err != nil {
		return err
	}
	tables, err := cm.Tables.ListTables(ctx, businessID)
	if err != nil {
		return err
	}

	cm.mu.Lock()
	var orderFns []func([]models.Order)
	var tableFns []func([]models.Table)
	for _, sub := range cm.orderSubs {
		if sub.businessID == businessID && t.orders {
			orderFns = append(orderFns, sub.fn)
		}
	}
	for _, sub := range cm.tableSubs {
		if sub.businessID == businessID && t.tables {
			tableFns = append(tableFns, sub.fn)
		}
	}
	cm.mu.Unlock()

	for _, fn := range orderFns {
		fn(orders)
	}
	for _, fn := range tableFns {
		fn(tables)
	}

	if cm.Hub == nil {
		return nil
	}
	now := cm.Now()
	if t.orders {
		for _, d := range models.Destinations {
			cm.Hub.BroadcastBoard(businessID, d, BuildBoard(orders, d, now))
		}
	}
	if t.tables {
		cm.Hub.BroadcastTables(businessID, tables)
	}
	priorities := ticketing.RankTables(tables, orders)
	if priorities == nil {
		priorities = []ticketing.TablePriority{}
	}
	cm.Hub.BroadcastPriorities(businessID, priorities)
	cm.Hub.BroadcastDashboard(businessID, BuildDashboard(tables, orders))
	return nil
}
