// Package store declares the persistence boundary the services work
// against. Writes that lose a version race fail with
// ticketing.ErrConflictOnConcurrentWrite; missing documents fail with
// ticketing.ErrNotFound.
package store

import (
	"context"

	"github.com/yeremiapane/restaurant-pos/models"
)

const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

type Catalog interface {
	GetActiveMenuItems(ctx context.Context, businessID string) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, businessID, id string) (models.MenuItem, error)
	ListCategories(ctx context.Context, businessID string) ([]models.MenuCategory, error)
	CreateMenuItem(ctx context.Context, item *models.MenuItem) error
	UpdateMenuItem(ctx context.Context, item *models.MenuItem) error
	CreateCategory(ctx context.Context, category *models.MenuCategory) error
}

// OrderStore persists orders. Update methods compare order.Version with
// expectedVersion and bump it on success. CreateOrder does the same with
// the version of the order's table, which must still be occupied.
type OrderStore interface {
	CreateOrder(ctx context.Context, order *models.Order, tableVersion int64) error
	GetOrder(ctx context.Context, businessID, orderID string) (models.Order, error)
	ListActiveOrders(ctx context.Context, businessID string) ([]models.Order, error)
	ListActiveOrdersForTable(ctx context.Context, businessID, tableID string) ([]models.Order, error)
	UpdateOrderItems(ctx context.Context, order *models.Order, expectedVersion int64) error
	UpdateOrderStatus(ctx context.Context, order *models.Order, expectedVersion int64) error
}

type TableStore interface {
	GetTable(ctx context.Context, businessID, tableID string) (models.Table, error)
	ListTables(ctx context.Context, businessID string) ([]models.Table, error)
	UpdateTable(ctx context.Context, table *models.Table, expectedVersion int64) error
	CreateTables(ctx context.Context, businessID string, from, to int) error
	// DeleteEmptyTable reports false when the table exists but is occupied.
	DeleteEmptyTable(ctx context.Context, businessID, tableID string) (bool, error)
}

type BusinessStore interface {
	CreateBusiness(ctx context.Context, business *models.Business) error
	GetBusiness(ctx context.Context, businessID string) (models.Business, error)
	SetTableCount(ctx context.Context, businessID string, count int) error
}

type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (models.User, error)
	CountUsers(ctx context.Context, businessID string) (int64, error)
}

// ChangeFeed exposes the journal every write appends to.
type ChangeFeed interface {
	PendingChanges(ctx context.Context, limit int) ([]models.DBChange, error)
	MarkProcessed(ctx context.Context, ids []uint) error
}

type Store interface {
	Catalog
	OrderStore
	TableStore
	BusinessStore
	UserStore
	ChangeFeed
}
