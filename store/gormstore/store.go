// Package gormstore implements store.Store on gorm. Every write appends a
// models.DBChange row in the same transaction so the change monitor can
// fan snapshots out to subscribers.
package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/store"
	"github.com/yeremiapane/restaurant-pos/ticketing"
	"gorm.io/gorm"
)

type Store struct {
	DB  *gorm.DB
	Now func() time.Time
}

var _ store.Store = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{DB: db, Now: time.Now}
}

func (s *Store) journal(tx *gorm.DB, businessID, collection, recordID, action string) error {
	change := models.DBChange{
		BusinessID: businessID,
		Collection: collection,
		RecordID:   recordID,
		ActionType: action,
		ChangedAt:  s.Now(),
	}
	if err := tx.Create(&change).Error; err != nil {
		return fmt.Errorf("journal %s %s: %w", collection, recordID, err)
	}
	return nil
}

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ticketing.ErrNotFound, what)
	}
	return err
}

// ---- catalog ----

func (s *Store) GetActiveMenuItems(ctx context.Context, businessID string) ([]models.MenuItem, error) {
	var items []models.MenuItem
	err := s.DB.WithContext(ctx).
		Where("business_id = ? AND is_active = ?", businessID, true).
		Order("category ASC, name ASC").
		Find(&items).Error
	return items, err
}

func (s *Store) GetMenuItem(ctx context.Context, businessID, id string) (models.MenuItem, error) {
	var item models.MenuItem
	err := s.DB.WithContext(ctx).Where("business_id = ? AND id = ?", businessID, id).First(&item).Error
	if err != nil {
		return item, notFound(err, "menu item "+id)
	}
	return item, nil
}

func (s *Store) ListCategories(ctx context.Context, businessID string) ([]models.MenuCategory, error) {
	var categories []models.MenuCategory
	err := s.DB.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("sort_order ASC").
		Find(&categories).Error
	return categories, err
}

func (s *Store) CreateMenuItem(ctx context.Context, item *models.MenuItem) error {
	return s.DB.WithContext(ctx).Create(item).Error
}

// UpdateMenuItem writes every column, so deactivating an item sticks.
func (s *Store) UpdateMenuItem(ctx context.Context, item *models.MenuItem) error {
	res := s.DB.WithContext(ctx).
		Model(&models.MenuItem{}).
		Where("business_id = ? AND id = ?", item.BusinessID, item.ID).
		Select("name", "price", "category", "sub_category", "destination", "description", "is_active", "updated_at").
		Updates(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: menu item %s", ticketing.ErrNotFound, item.ID)
	}
	return nil
}

func (s *Store) CreateCategory(ctx context.Context, category *models.MenuCategory) error {
	return s.DB.WithContext(ctx).Create(category).Error
}

// ---- orders ----

// CreateOrder stores order only while its table is still occupied at
// tableVersion. The table version is bumped in the same transaction, so a
// close that read the table before this order landed loses its own
// compare-and-swap.
func (s *Store) CreateOrder(ctx context.Context, order *models.Order, tableVersion int64) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Table{}).
			Where("business_id = ? AND id = ? AND version = ? AND status = ?",
				order.BusinessID, order.TableID, tableVersion, models.TableOccupied).
			UpdateColumn("version", gorm.Expr("version + 1"))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missOrConflict(tx, &models.Table{}, order.BusinessID, order.TableID, "table")
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		return s.journal(tx, order.BusinessID, models.CollectionOrders, order.ID, store.ActionInsert)
	})
}

func (s *Store) GetOrder(ctx context.Context, businessID, orderID string) (models.Order, error) {
	var order models.Order
	err := s.DB.WithContext(ctx).Where("business_id = ? AND id = ?", businessID, orderID).First(&order).Error
	if err != nil {
		return order, notFound(err, "order "+orderID)
	}
	return order, nil
}

func (s *Store) ListActiveOrders(ctx context.Context, businessID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Where("business_id = ? AND status = ?", businessID, models.OrderActive).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	return orders, err
}

func (s *Store) ListActiveOrdersForTable(ctx context.Context, businessID, tableID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.DB.WithContext(ctx).
		Where("business_id = ? AND table_id = ? AND status = ?", businessID, tableID, models.OrderActive).
		Order("created_at ASC, id ASC").
		Find(&orders).Error
	return orders, err
}

func (s *Store) UpdateOrderItems(ctx context.Context, order *models.Order, expectedVersion int64) error {
	return s.casOrder(ctx, order, expectedVersion, "items", "updated_at")
}

func (s *Store) UpdateOrderStatus(ctx context.Context, order *models.Order, expectedVersion int64) error {
	return s.casOrder(ctx, order, expectedVersion, "status", "updated_at")
}

func (s *Store) casOrder(ctx context.Context, order *models.Order, expectedVersion int64, columns ...string) error {
	next := *order
	next.Version = expectedVersion + 1
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Order{}).
			Where("business_id = ? AND id = ? AND version = ?", order.BusinessID, order.ID, expectedVersion).
			Select(append(columns, "version")).
			Updates(&next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missOrConflict(tx, &models.Order{}, order.BusinessID, order.ID, "order")
		}
		return s.journal(tx, order.BusinessID, models.CollectionOrders, order.ID, store.ActionUpdate)
	})
	if err != nil {
		return err
	}
	order.Version = next.Version
	return nil
}

// missOrConflict tells a vanished document apart from a stale version
// after a compare-and-swap matched no row.
func missOrConflict(tx *gorm.DB, model interface{}, businessID, id, kind string) error {
	var n int64
	if err := tx.Model(model).Where("business_id = ? AND id = ?", businessID, id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s %s", ticketing.ErrNotFound, kind, id)
	}
	return fmt.Errorf("%w: %s %s", ticketing.ErrConflictOnConcurrentWrite, kind, id)
}

// ---- tables ----

func (s *Store) GetTable(ctx context.Context, businessID, tableID string) (models.Table, error) {
	var table models.Table
	err := s.DB.WithContext(ctx).Where("business_id = ? AND id = ?", businessID, tableID).First(&table).Error
	if err != nil {
		return table, notFound(err, "table "+tableID)
	}
	return table, nil
}

func (s *Store) ListTables(ctx context.Context, businessID string) ([]models.Table, error) {
	var tables []models.Table
	err := s.DB.WithContext(ctx).
		Where("business_id = ?", businessID).
		Order("number ASC").
		Find(&tables).Error
	return tables, err
}

func (s *Store) UpdateTable(ctx context.Context, table *models.Table, expectedVersion int64) error {
	next := *table
	next.Version = expectedVersion + 1
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Table{}).
			Where("business_id = ? AND id = ? AND version = ?", table.BusinessID, table.ID, expectedVersion).
			Select("status", "guest_count", "waiter", "waiter_id", "opened_at", "updated_at", "version").
			Updates(&next)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return missOrConflict(tx, &models.Table{}, table.BusinessID, table.ID, "table")
		}
		return s.journal(tx, table.BusinessID, models.CollectionTables, table.ID, store.ActionUpdate)
	})
	if err != nil {
		return err
	}
	table.Version = next.Version
	return nil
}

// CreateTables adds tables numbered from..to inclusive, skipping numbers
// that already exist.
func (s *Store) CreateTables(ctx context.Context, businessID string, from, to int) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for n := from; n <= to; n++ {
			id := models.TableID(n)
			var exists int64
			if err := tx.Model(&models.Table{}).Where("business_id = ? AND id = ?", businessID, id).Count(&exists).Error; err != nil {
				return err
			}
			if exists > 0 {
				continue
			}
			table := models.Table{
				ID:         id,
				BusinessID: businessID,
				Number:     n,
				Status:     models.TableEmpty,
				Version:    1,
				UpdatedAt:  s.Now(),
			}
			if err := tx.Create(&table).Error; err != nil {
				return fmt.Errorf("create %s: %w", id, err)
			}
			if err := s.journal(tx, businessID, models.CollectionTables, id, store.ActionInsert); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) DeleteEmptyTable(ctx context.Context, businessID, tableID string) (bool, error) {
	deleted := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("business_id = ? AND id = ? AND status = ?", businessID, tableID, models.TableEmpty).
			Delete(&models.Table{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var n int64
			if err := tx.Model(&models.Table{}).Where("business_id = ? AND id = ?", businessID, tableID).Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("%w: table %s", ticketing.ErrNotFound, tableID)
			}
			return nil
		}
		deleted = true
		return s.journal(tx, businessID, models.CollectionTables, tableID, store.ActionDelete)
	})
	return deleted, err
}

// ---- businesses & users ----

func (s *Store) CreateBusiness(ctx context.Context, business *models.Business) error {
	return s.DB.WithContext(ctx).Create(business).Error
}

func (s *Store) GetBusiness(ctx context.Context, businessID string) (models.Business, error) {
	var business models.Business
	if err := s.DB.WithContext(ctx).Where("id = ?", businessID).First(&business).Error; err != nil {
		return business, notFound(err, "business "+businessID)
	}
	return business, nil
}

func (s *Store) SetTableCount(ctx context.Context, businessID string, count int) error {
	return s.DB.WithContext(ctx).
		Model(&models.Business{}).
		Where("id = ?", businessID).
		Update("table_count", count).Error
}

func (s *Store) CreateUser(ctx context.Context, user *models.User) error {
	return s.DB.WithContext(ctx).Create(user).Error
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return user, notFound(err, "user "+email)
	}
	return user, nil
}

func (s *Store) CountUsers(ctx context.Context, businessID string) (int64, error) {
	var n int64
	err := s.DB.WithContext(ctx).Model(&models.User{}).Where("business_id = ?", businessID).Count(&n).Error
	return n, err
}

// ---- change feed ----

func (s *Store) PendingChanges(ctx context.Context, limit int) ([]models.DBChange, error) {
	var changes []models.DBChange
	err := s.DB.WithContext(ctx).
		Where("processed = ?", false).
		Order("id ASC").
		Limit(limit).
		Find(&changes).Error
	return changes, err
}

func (s *Store) MarkProcessed(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return s.DB.WithContext(ctx).
		Model(&models.DBChange{}).
		Where("id IN ?", ids).
		Update("processed", true).Error
}
