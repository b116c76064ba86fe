package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/restaurant-pos/database"
	"github.com/yeremiapane/restaurant-pos/ticketing"
)

func TestCreateBusinessProvisionsTablesAndMenu(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()
	svc := NewBusinessService(f.store, f.store, f.tables, database.SeedMenu)

	business, err := svc.Create(ctx, CreateBusinessInput{Name: "Kadıköy Meyhanesi", TableCount: 4}, true)
	require.NoError(t, err)
	assert.NotEmpty(t, business.ID)
	assert.Equal(t, "kad-k-y-meyhanesi", business.Slug)

	tables, err := f.tables.List(ctx, business.ID)
	require.NoError(t, err)
	assert.Len(t, tables, 4)

	items, err := f.store.GetActiveMenuItems(ctx, business.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, items)
	categories, err := f.store.ListCategories(ctx, business.ID)
	require.NoError(t, err)
	assert.Len(t, categories, 2)

	noSeed := false
	bare, err := svc.Create(ctx, CreateBusinessInput{Name: "Bare", SeedMenu: &noSeed}, true)
	require.NoError(t, err)
	items, err = f.store.GetActiveMenuItems(ctx, bare.ID)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = svc.Create(ctx, CreateBusinessInput{Name: "  "}, false)
	assert.True(t, errors.Is(err, ticketing.ErrInvalidArgument))
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "la-petite-maison", Slugify("  La Petite  Maison! "))
}
