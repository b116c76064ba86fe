package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/database"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/store/gormstore"
	"github.com/yeremiapane/restaurant-pos/ticketing"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const biz = "biz-1"

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

type recordingPublisher struct {
	tickets []ticketing.Ticket
}

func (p *recordingPublisher) PublishTicket(_ context.Context, ticket ticketing.Ticket) error {
	p.tickets = append(p.tickets, ticket)
	return nil
}

type recordingNotifier struct {
	messages []string
}

func (n *recordingNotifier) BroadcastStaffNotification(_ string, message string) {
	n.messages = append(n.messages, message)
}

type fixture struct {
	store     *gormstore.Store
	clock     *fakeClock
	orders    *OrderService
	tables    *TableService
	publisher *recordingPublisher
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	clock := newClock()
	s := gormstore.New(db)
	s.Now = clock.Now
	publisher := &recordingPublisher{}

	f := &fixture{
		store:     s,
		clock:     clock,
		orders:    NewOrderService(s, s, s, publisher),
		tables:    NewTableService(s, s, s),
		publisher: publisher,
	}
	f.orders.Now = clock.Now
	f.tables.Now = clock.Now

	ctx := context.Background()
	require.NoError(t, s.CreateBusiness(ctx, &models.Business{ID: biz, Name: "Meyhane", Slug: "meyhane", IsActive: true}))
	_, err = f.tables.SetTableCount(ctx, biz, 6)
	require.NoError(t, err)

	price := func(v float64) *float64 { return &v }
	for _, item := range []models.MenuItem{
		{ID: "soup", Name: "Lentil Soup", Price: price(65), Category: "food", Destination: models.DestinationKitchen},
		{ID: "kofte", Name: "Meatballs", Price: price(250), Category: "food", Destination: models.DestinationKitchen},
		{ID: "cola", Name: "Cola", Price: price(40), Category: "drinks", Destination: models.DestinationBar},
		{ID: "water", Name: "Tap Water", Category: "drinks", Destination: models.DestinationBar},
		{ID: "retired", Name: "Old Dish", Price: price(10), Category: "food", Destination: models.DestinationKitchen},
	} {
		item.BusinessID = biz
		item.IsActive = true
		require.NoError(t, s.CreateMenuItem(ctx, &item))
	}
	retired, err := s.GetMenuItem(ctx, biz, "retired")
	require.NoError(t, err)
	retired.IsActive = false
	require.NoError(t, s.UpdateMenuItem(ctx, &retired))
	return f
}

func (f *fixture) open(t *testing.T, tableID string, guests int) models.Table {
	t.Helper()
	table, err := f.tables.OpenTable(context.Background(), biz, tableID, guests, 7, "Ayse")
	require.NoError(t, err)
	return table
}

func (f *fixture) submit(t *testing.T, tableID string, lines ...SubmitLine) models.Order {
	t.Helper()
	order, err := f.orders.SubmitOrder(context.Background(), SubmitOrderInput{
		BusinessID: biz,
		TableID:    tableID,
		WaiterID:   7,
		Waiter:     "Ayse",
		Lines:      lines,
	})
	require.NoError(t, err)
	return order
}
