package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/store"
	"github.com/yeremiapane/restaurant-pos/ticketing"
	"github.com/yeremiapane/restaurant-pos/utils"
)

type TableService struct {
	Tables     store.TableStore
	Orders     store.OrderStore
	Businesses store.BusinessStore
	Now        func() time.Time
}

func NewTableService(tables store.TableStore, orders store.OrderStore, businesses store.BusinessStore) *TableService {
	return &TableService{Tables: tables, Orders: orders, Businesses: businesses, Now: time.Now}
}

func (s *TableService) List(ctx context.Context, businessID string) ([]models.Table, error) {
	return s.Tables.ListTables(ctx, businessID)
}

// Mine lists the occupied tables opened by waiterID.
func (s *TableService) Mine(ctx context.Context, businessID string, waiterID uint) ([]models.Table, error) {
	tables, err := s.Tables.ListTables(ctx, businessID)
	if err != nil {
		return nil, err
	}
	mine := make([]models.Table, 0)
	for _, t := range tables {
		if t.Status == models.TableOccupied && t.WaiterID == waiterID {
			mine = append(mine, t)
		}
	}
	return mine, nil
}

func (s *TableService) OpenTable(ctx context.Context, businessID, tableID string, guestCount int, waiterID uint, waiter string) (models.Table, error) {
	table, err := s.Tables.GetTable(ctx, businessID, tableID)
	if err != nil {
		return models.Table{}, err
	}
	if err := ticketing.OpenTable(&table, guestCount, waiterID, waiter, s.Now()); err != nil {
		return models.Table{}, err
	}
	if err := s.save(ctx, &table); err != nil {
		return models.Table{}, err
	}
	tableLog(table).WithField("guests", guestCount).Info("Table opened")
	return table, nil
}

// CloseTable resets a table once none of its orders is active. The active
// order check reads the store, never a cached list.
func (s *TableService) CloseTable(ctx context.Context, businessID, tableID string) (models.Table, error) {
	table, err := s.Tables.GetTable(ctx, businessID, tableID)
	if err != nil {
		return models.Table{}, err
	}
	orders, err := s.Orders.ListActiveOrdersForTable(ctx, businessID, tableID)
	if err != nil {
		return models.Table{}, err
	}
	if err := ticketing.CloseTable(&table, orders); err != nil {
		return models.Table{}, err
	}
	if err := s.save(ctx, &table); err != nil {
		return models.Table{}, err
	}
	tableLog(table).Info("Table closed")
	return table, nil
}

func (s *TableService) save(ctx context.Context, table *models.Table) error {
	table.UpdatedAt = s.Now()
	return s.Tables.UpdateTable(ctx, table, table.Version)
}

// Priorities ranks the tables waiting on ready items.
func (s *TableService) Priorities(ctx context.Context, businessID string) ([]ticketing.TablePriority, error) {
	tables, err := s.Tables.ListTables(ctx, businessID)
	if err != nil {
		return nil, err
	}
	orders, err := s.Orders.ListActiveOrders(ctx, businessID)
	if err != nil {
		return nil, err
	}
	ranked := ticketing.RankTables(tables, orders)
	if ranked == nil {
		ranked = []ticketing.TablePriority{}
	}
	return ranked, nil
}

type TableCountResult struct {
	Count int      `json:"count"`
	Kept  []string `json:"kept,omitempty"`
}

// SetTableCount provisions tables table-1..count. Surplus tables are only
// removed while empty; occupied ones are kept and reported.
func (s *TableService) SetTableCount(ctx context.Context, businessID string, count int) (TableCountResult, error) {
	if count < 0 {
		return TableCountResult{}, fmt.Errorf("%w: table count must not be negative", ticketing.ErrInvalidArgument)
	}
	if count > 0 {
		if err := s.Tables.CreateTables(ctx, businessID, 1, count); err != nil {
			return TableCountResult{}, err
		}
	}

	tables, err := s.Tables.ListTables(ctx, businessID)
	if err != nil {
		return TableCountResult{}, err
	}
	result := TableCountResult{Count: count}
	for _, t := range tables {
		if t.Number <= count {
			continue
		}
		deleted, err := s.Tables.DeleteEmptyTable(ctx, businessID, t.ID)
		if err != nil && !errors.Is(err, ticketing.ErrNotFound) {
			return TableCountResult{}, err
		}
		if !deleted && err == nil {
			result.Kept = append(result.Kept, t.ID)
		}
	}
	if s.Businesses != nil {
		if err := s.Businesses.SetTableCount(ctx, businessID, count); err != nil {
			return TableCountResult{}, err
		}
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"business_id": businessID,
		"count":       count,
		"kept":        len(result.Kept),
	}).Info("Table count updated")
	return result, nil
}

type DashboardStats struct {
	Tables         int     `json:"tables"`
	EmptyTables    int     `json:"empty_tables"`
	OccupiedTables int     `json:"occupied_tables"`
	Guests         int     `json:"guests"`
	ActiveOrders   int     `json:"active_orders"`
	OpenTotal      float64 `json:"open_total"`
	OpenTotalText  string  `json:"open_total_text"`
}

func (s *TableService) Dashboard(ctx context.Context, businessID string) (DashboardStats, error) {
	tables, err := s.Tables.ListTables(ctx, businessID)
	if err != nil {
		return DashboardStats{}, err
	}
	orders, err := s.Orders.ListActiveOrders(ctx, businessID)
	if err != nil {
		return DashboardStats{}, err
	}
	return BuildDashboard(tables, orders), nil
}

func BuildDashboard(tables []models.Table, orders []models.Order) DashboardStats {
	stats := DashboardStats{Tables: len(tables)}
	for _, t := range tables {
		if t.Status == models.TableOccupied {
			stats.OccupiedTables++
			stats.Guests += t.GuestCount
		} else {
			stats.EmptyTables++
		}
	}
	for _, o := range orders {
		if o.IsActive() {
			stats.ActiveOrders++
			stats.OpenTotal += o.Total
		}
	}
	stats.OpenTotalText = utils.FormatCurrency(stats.OpenTotal)
	return stats
}

func tableLog(table models.Table) *logrus.Entry {
	return utils.InfoLogger.WithFields(logrus.Fields{
		"business_id": table.BusinessID,
		"table_id":    table.ID,
		"status":      table.Status,
	})
}
