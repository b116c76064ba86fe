package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/ticketing"
)

func TestOpenTableTwiceFails(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	table := f.open(t, "table-3", 4)
	assert.Equal(t, models.TableOccupied, table.Status)
	assert.Equal(t, 4, table.GuestCount)

	_, err := f.tables.OpenTable(ctx, biz, "table-3", 2, 8, "Mehmet")
	assert.True(t, errors.Is(err, ticketing.ErrInvalidState))

	stored, err := f.store.GetTable(ctx, biz, "table-3")
	require.NoError(t, err)
	assert.Equal(t, 4, stored.GuestCount)
	assert.Equal(t, "Ayse", stored.Waiter)

	_, err = f.tables.OpenTable(ctx, biz, "table-4", 0, 7, "Ayse")
	assert.True(t, errors.Is(err, ticketing.ErrInvalidArgument))
	_, err = f.tables.OpenTable(ctx, biz, "table-99", 2, 7, "Ayse")
	assert.True(t, errors.Is(err, ticketing.ErrNotFound))
}

func TestCloseTableWaitsForActiveOrders(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.open(t, "table-3", 4)
	order := f.submit(t, "table-3", SubmitLine{MenuItemID: "kofte", Quantity: 1})

	_, err := f.tables.CloseTable(ctx, biz, "table-3")
	assert.True(t, errors.Is(err, ticketing.ErrTableHasActiveOrders))

	stillActive, err := f.orders.Get(ctx, biz, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderActive, stillActive.Status)

	_, err = f.orders.Complete(ctx, biz, order.ID)
	require.NoError(t, err)

	closed, err := f.tables.CloseTable(ctx, biz, "table-3")
	require.NoError(t, err)
	assert.Equal(t, models.TableEmpty, closed.Status)
	assert.Zero(t, closed.GuestCount)
	assert.Nil(t, closed.OpenedAt)

	_, err = f.tables.CloseTable(ctx, biz, "table-3")
	assert.True(t, errors.Is(err, ticketing.ErrInvalidState))
}

func TestSetTableCount(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.open(t, "table-5", 2)

	result, err := f.tables.SetTableCount(ctx, biz, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"table-5"}, result.Kept)

	tables, err := f.tables.List(ctx, biz)
	require.NoError(t, err)
	ids := make([]string, 0, len(tables))
	for _, tb := range tables {
		ids = append(ids, tb.ID)
	}
	assert.Equal(t, []string{"table-1", "table-2", "table-3", "table-5"}, ids)

	result, err = f.tables.SetTableCount(ctx, biz, 8)
	require.NoError(t, err)
	assert.Empty(t, result.Kept)
	tables, err = f.tables.List(ctx, biz)
	require.NoError(t, err)
	assert.Len(t, tables, 8)

	business, err := f.store.GetBusiness(ctx, biz)
	require.NoError(t, err)
	assert.Equal(t, 8, business.TableCount)

	_, err = f.tables.SetTableCount(ctx, biz, -1)
	assert.True(t, errors.Is(err, ticketing.ErrInvalidArgument))
}

func TestPrioritiesAndMine(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.open(t, "table-1", 2)
	f.open(t, "table-2", 2)
	_, err := f.tables.OpenTable(ctx, biz, "table-3", 2, 8, "Mehmet")
	require.NoError(t, err)

	old := f.submit(t, "table-2", SubmitLine{MenuItemID: "soup", Quantity: 1})
	f.clock.Advance(5 * time.Minute)
	newer := f.submit(t, "table-1", SubmitLine{MenuItemID: "cola", Quantity: 4})

	ranked, err := f.tables.Priorities(ctx, biz)
	require.NoError(t, err)
	assert.Empty(t, ranked)

	_, err = f.orders.MarkDestinationReady(ctx, biz, newer.ID, models.DestinationBar)
	require.NoError(t, err)
	_, err = f.orders.MarkDestinationReady(ctx, biz, old.ID, models.DestinationKitchen)
	require.NoError(t, err)

	ranked, err = f.tables.Priorities(ctx, biz)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "table-2", ranked[0].TableID)
	assert.Equal(t, ticketing.TierPrimary, ranked[0].Tier)
	assert.Equal(t, "table-1", ranked[1].TableID)
	assert.Equal(t, 4, ranked[1].ReadyItemCount)

	mine, err := f.tables.Mine(ctx, biz, 7)
	require.NoError(t, err)
	assert.Len(t, mine, 2)
}

func TestDashboard(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	f.open(t, "table-1", 3)
	f.submit(t, "table-1", SubmitLine{MenuItemID: "kofte", Quantity: 5})

	stats, err := f.tables.Dashboard(ctx, biz)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.Tables)
	assert.Equal(t, 1, stats.OccupiedTables)
	assert.Equal(t, 5, stats.EmptyTables)
	assert.Equal(t, 3, stats.Guests)
	assert.Equal(t, 1, stats.ActiveOrders)
	assert.Equal(t, 1250.0, stats.OpenTotal)
	assert.Equal(t, "1.250,00", stats.OpenTotalText)
}
