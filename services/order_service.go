package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/restaurant-pos/models"
	"github.com/yeremiapane/restaurant-pos/store"
	"github.com/yeremiapane/restaurant-pos/ticketing"
	"github.com/yeremiapane/restaurant-pos/utils"
)

// maxWriteAttempts bounds the read-modify-write loop of a single order
// when another writer bumps its version in between.
const maxWriteAttempts = 2

// TicketPublisher receives the per-destination tickets of every submitted
// order.
type TicketPublisher interface {
	PublishTicket(ctx context.Context, ticket ticketing.Ticket) error
}

// StaffNotifier delivers short messages to every display of a business.
type StaffNotifier interface {
	BroadcastStaffNotification(businessID, message string)
}

type OrderService struct {
	Orders    store.OrderStore
	Tables    store.TableStore
	Catalog   store.Catalog
	Publisher TicketPublisher
	Notifier  StaffNotifier
	Now       func() time.Time
	NewID     func() string
}

func NewOrderService(orders store.OrderStore, tables store.TableStore, catalog store.Catalog, publisher TicketPublisher) *OrderService {
	return &OrderService{
		Orders:    orders,
		Tables:    tables,
		Catalog:   catalog,
		Publisher: publisher,
		Now:       time.Now,
		NewID:     uuid.NewString,
	}
}

type SubmitLine struct {
	MenuItemID string `json:"menu_item_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required"`
	Notes      string `json:"notes"`
	SeatNumber int    `json:"seat_number"`
}

type SubmitOrderInput struct {
	BusinessID string
	TableID    string
	WaiterID   uint
	Waiter     string
	Lines      []SubmitLine
}

// SubmitOrder turns a waiter's cart into an active order on an occupied
// table. Identical lines are folded together, prices are frozen from the
// current catalog, and one ticket per touched destination is published
// once the order is stored. A table that changed between the read and the
// write is read again, so a submission racing a close fails as not open.
func (s *OrderService) SubmitOrder(ctx context.Context, in SubmitOrderInput) (models.Order, error) {
	if len(in.Lines) == 0 {
		return models.Order{}, fmt.Errorf("%w: order has no items", ticketing.ErrInvalidArgument)
	}

	var (
		order models.Order
		err   error
	)
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var tableVersion int64
		order, tableVersion, err = s.buildOrder(ctx, in)
		if err != nil {
			return models.Order{}, err
		}
		err = s.Orders.CreateOrder(ctx, &order, tableVersion)
		if err == nil || !errors.Is(err, ticketing.ErrConflictOnConcurrentWrite) {
			break
		}
	}
	if err != nil {
		return models.Order{}, err
	}
	orderLog(order).WithField("total", order.Total).Info("Order submitted")

	s.publish(ctx, order)
	s.announceSubmitted(order)
	return order, nil
}

// buildOrder validates the submission against the current table and
// catalog. It returns the table version the order was built against.
func (s *OrderService) buildOrder(ctx context.Context, in SubmitOrderInput) (models.Order, int64, error) {
	table, err := s.Tables.GetTable(ctx, in.BusinessID, in.TableID)
	if err != nil {
		return models.Order{}, 0, err
	}
	if table.Status != models.TableOccupied {
		return models.Order{}, 0, fmt.Errorf("%w: table %d is not open", ticketing.ErrInvalidState, table.Number)
	}

	var cart ticketing.Cart
	for _, line := range in.Lines {
		item, err := s.Catalog.GetMenuItem(ctx, in.BusinessID, line.MenuItemID)
		if errors.Is(err, ticketing.ErrNotFound) || (err == nil && !item.IsActive) {
			return models.Order{}, 0, fmt.Errorf("%w: menu item %s is not available", ticketing.ErrInvalidArgument, line.MenuItemID)
		}
		if err != nil {
			return models.Order{}, 0, err
		}
		seat, err := ticketing.ValidateSeat(line.SeatNumber, table)
		if err != nil {
			return models.Order{}, 0, err
		}
		if err := cart.Add(item.Snapshot(), line.Quantity, line.Notes, seat); err != nil {
			return models.Order{}, 0, err
		}
	}

	now := s.Now()
	waiter := in.Waiter
	if waiter == "" {
		waiter = table.Waiter
	}
	order := models.Order{
		ID:          s.NewID(),
		BusinessID:  in.BusinessID,
		TableID:     table.ID,
		TableNumber: table.Number,
		Items:       cart.OrderItems(now, s.NewID),
		WaiterID:    in.WaiterID,
		Waiter:      waiter,
		Status:      models.OrderActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	order.Total = order.ComputeTotal()
	return order, table.Version, nil
}

func (s *OrderService) publish(ctx context.Context, order models.Order) {
	if s.Publisher == nil {
		return
	}
	for _, ticket := range ticketing.BuildTickets(order) {
		if err := s.Publisher.PublishTicket(ctx, ticket); err != nil {
			utils.ErrorLogger.WithFields(logrus.Fields{
				"order_id":    order.ID,
				"destination": ticket.Destination,
			}).Errorf("Error publishing ticket: %v", err)
		}
	}
}

// announceSubmitted tells the floor how many portions went to each
// station.
func (s *OrderService) announceSubmitted(order models.Order) {
	if s.Notifier == nil {
		return
	}
	for _, d := range models.Destinations {
		quantity := 0
		for _, item := range ticketing.ItemsFor(order, d) {
			quantity += item.Quantity
		}
		if quantity > 0 {
			s.Notifier.BroadcastStaffNotification(order.BusinessID,
				fmt.Sprintf("Table %d: %d items sent to %s", order.TableNumber, quantity, d))
		}
	}
}

func (s *OrderService) Get(ctx context.Context, businessID, orderID string) (models.Order, error) {
	return s.Orders.GetOrder(ctx, businessID, orderID)
}

func (s *OrderService) ListActive(ctx context.Context, businessID string) ([]models.Order, error) {
	return s.Orders.ListActiveOrders(ctx, businessID)
}

// ListMine returns the active orders taken by waiterID.
func (s *OrderService) ListMine(ctx context.Context, businessID string, waiterID uint) ([]models.Order, error) {
	orders, err := s.Orders.ListActiveOrders(ctx, businessID)
	if err != nil {
		return nil, err
	}
	mine := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if o.WaiterID == waiterID {
			mine = append(mine, o)
		}
	}
	return mine, nil
}

// Ticket builds the printable ticket of one order for destination.
func (s *OrderService) Ticket(ctx context.Context, businessID, orderID string, destination models.Destination) (ticketing.Ticket, error) {
	if !destination.Valid() {
		return ticketing.Ticket{}, fmt.Errorf("%w: unknown destination %q", ticketing.ErrInvalidArgument, destination)
	}
	order, err := s.Orders.GetOrder(ctx, businessID, orderID)
	if err != nil {
		return ticketing.Ticket{}, err
	}
	ticket, ok := ticketing.BuildTicket(order, destination)
	if !ok {
		return ticketing.Ticket{}, fmt.Errorf("%w: order %s has nothing for %s", ticketing.ErrNotFound, orderID, destination)
	}
	return ticket, nil
}

func (s *OrderService) MarkItemReady(ctx context.Context, businessID, orderID, itemID string) (models.Order, error) {
	return s.mutateItems(ctx, businessID, orderID, func(o *models.Order, now time.Time) error {
		return ticketing.MarkItemReady(o, itemID, now)
	})
}

func (s *OrderService) MarkDestinationReady(ctx context.Context, businessID, orderID string, destination models.Destination) (models.Order, error) {
	return s.mutateItems(ctx, businessID, orderID, func(o *models.Order, now time.Time) error {
		_, err := ticketing.MarkDestinationReady(o, destination, now)
		return err
	})
}

func (s *OrderService) Complete(ctx context.Context, businessID, orderID string) (models.Order, error) {
	order, err := s.mutate(ctx, businessID, orderID, ticketing.Complete, s.Orders.UpdateOrderStatus)
	if err == nil {
		orderLog(order).Info("Order completed")
	}
	return order, err
}

func (s *OrderService) Cancel(ctx context.Context, businessID, orderID string) (models.Order, error) {
	order, err := s.mutate(ctx, businessID, orderID, ticketing.Cancel, s.Orders.UpdateOrderStatus)
	if err == nil {
		orderLog(order).Info("Order cancelled")
	}
	return order, err
}

// MarkGroupReady marks every item of the merged group identified by key
// ready. The group is resolved against a fresh snapshot, then each owning
// order is read, updated and written on its own. Orders that could not be
// written are reported in a *ticketing.PropagationError; the others keep
// their update.
func (s *OrderService) MarkGroupReady(ctx context.Context, businessID string, destination models.Destination, key string) (ticketing.MergedGroup, error) {
	if !destination.Valid() {
		return ticketing.MergedGroup{}, fmt.Errorf("%w: unknown destination %q", ticketing.ErrInvalidArgument, destination)
	}
	active, err := s.Orders.ListActiveOrders(ctx, businessID)
	if err != nil {
		return ticketing.MergedGroup{}, err
	}
	group, ok := ticketing.FindGroup(ticketing.Merge(active, destination), key)
	if !ok {
		return ticketing.MergedGroup{}, fmt.Errorf("%w: group %s on %s", ticketing.ErrNotFound, key, destination)
	}

	orderIDs, itemsByOrder := ticketing.ByOrder(group.Items)
	var failures []ticketing.OrderFailure
	for _, orderID := range orderIDs {
		itemIDs := itemsByOrder[orderID]
		_, err := s.mutateItems(ctx, businessID, orderID, func(o *models.Order, now time.Time) error {
			return ticketing.MarkItemsReady(o, itemIDs, now)
		})
		if err != nil {
			failures = append(failures, ticketing.OrderFailure{
				OrderID: orderID,
				ItemIDs: itemIDs,
				Err:     err,
				Reason:  err.Error(),
			})
			utils.ErrorLogger.WithFields(logrus.Fields{
				"business_id": businessID,
				"order_id":    orderID,
				"group":       key,
			}).Warnf("Group ready not applied: %v", err)
		}
	}
	failed := make(map[string]bool, len(failures))
	for _, f := range failures {
		failed[f.OrderID] = true
	}
	for i := range group.Items {
		if !failed[group.Items[i].OrderID] {
			group.Items[i].Status = models.ItemReady
		}
	}
	group.AllReady = len(failures) == 0
	if len(failures) > 0 {
		return group, &ticketing.PropagationError{Failures: failures}
	}

	utils.InfoLogger.WithFields(logrus.Fields{
		"business_id": businessID,
		"destination": destination,
		"group":       key,
		"orders":      len(orderIDs),
	}).Info("Group marked ready")
	return group, nil
}

// mutateItems writes item status changes and tells the floor when the
// change left every item of the order ready.
func (s *OrderService) mutateItems(ctx context.Context, businessID, orderID string, fn func(*models.Order, time.Time) error) (models.Order, error) {
	wasReady := false
	order, err := s.mutate(ctx, businessID, orderID, func(o *models.Order, now time.Time) error {
		wasReady = ticketing.AllReady(*o)
		return fn(o, now)
	}, s.Orders.UpdateOrderItems)
	if err != nil || wasReady || !ticketing.AllReady(order) {
		return order, err
	}
	orderLog(order).Info("Order ready to serve")
	if s.Notifier != nil {
		s.Notifier.BroadcastStaffNotification(businessID,
			fmt.Sprintf("Table %d: order ready to serve", order.TableNumber))
	}
	return order, nil
}

// mutate reads the current order, applies fn and writes it back with a
// version check. A mutation that changes nothing is not written. On a
// version conflict the cycle starts over from a fresh read.
func (s *OrderService) mutate(
	ctx context.Context,
	businessID, orderID string,
	fn func(*models.Order, time.Time) error,
	write func(context.Context, *models.Order, int64) error,
) (models.Order, error) {
	var err error
	for attempt := 0; attempt < maxWriteAttempts; attempt++ {
		var order models.Order
		order, err = s.Orders.GetOrder(ctx, businessID, orderID)
		if err != nil {
			return models.Order{}, err
		}
		before := order.Clone()
		if err = fn(&order, s.Now()); err != nil {
			return order, err
		}
		if !changed(before, order) {
			return order, nil
		}
		err = write(ctx, &order, order.Version)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, ticketing.ErrConflictOnConcurrentWrite) {
			return models.Order{}, err
		}
	}
	return models.Order{}, err
}

func changed(before, after models.Order) bool {
	if before.Status != after.Status || len(before.Items) != len(after.Items) {
		return true
	}
	for i := range before.Items {
		if before.Items[i].Status != after.Items[i].Status {
			return true
		}
	}
	return false
}

// BoardOrder is one order as a preparation screen lists it.
type BoardOrder struct {
	OrderID        string             `json:"order_id"`
	TableID        string             `json:"table_id"`
	TableNumber    int                `json:"table_number"`
	Waiter         string             `json:"waiter"`
	CreatedAt      time.Time          `json:"created_at"`
	ElapsedMinutes int                `json:"elapsed_minutes"`
	Urgent         bool               `json:"urgent"`
	Complete       bool               `json:"complete"`
	Items          []models.OrderItem `json:"items"`
}

// Board is everything a bar or kitchen display shows, derived from one
// snapshot of active orders.
type Board struct {
	Destination models.Destination      `json:"destination"`
	Pending     []ticketing.MergedGroup `json:"pending"`
	Ready       []ticketing.MergedGroup `json:"ready"`
	Orders      []BoardOrder            `json:"orders"`
	GeneratedAt time.Time               `json:"generated_at"`
}

// BuildBoard recomputes a destination board from scratch.
func BuildBoard(orders []models.Order, destination models.Destination, now time.Time) Board {
	pending, ready := ticketing.Partition(ticketing.Merge(orders, destination))
	board := Board{
		Destination: destination,
		Pending:     pending,
		Ready:       ready,
		Orders:      []BoardOrder{},
		GeneratedAt: now,
	}
	for _, o := range ticketing.ForDestination(orders, destination) {
		board.Orders = append(board.Orders, BoardOrder{
			OrderID:        o.ID,
			TableID:        o.TableID,
			TableNumber:    o.TableNumber,
			Waiter:         o.Waiter,
			CreatedAt:      o.CreatedAt,
			ElapsedMinutes: int(now.Sub(o.CreatedAt) / time.Minute),
			Urgent:         ticketing.IsUrgent(o, destination, now),
			Complete:       ticketing.IsDestinationComplete(o, destination),
			Items:          ticketing.ItemsFor(o, destination),
		})
	}
	return board
}

func (s *OrderService) Board(ctx context.Context, businessID string, destination models.Destination) (Board, error) {
	if !destination.Valid() {
		return Board{}, fmt.Errorf("%w: unknown destination %q", ticketing.ErrInvalidArgument, destination)
	}
	orders, err := s.Orders.ListActiveOrders(ctx, businessID)
	if err != nil {
		return Board{}, err
	}
	return BuildBoard(orders, destination, s.Now()), nil
}

// ParseDestination accepts "bar" or "kitchen" in any case.
func ParseDestination(raw string) (models.Destination, error) {
	d := models.Destination(strings.ToLower(strings.TrimSpace(raw)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: unknown destination %q", ticketing.ErrInvalidArgument, raw)
	}
	return d, nil
}

func orderLog(order models.Order) *logrus.Entry {
	return utils.InfoLogger.WithFields(logrus.Fields{
		"business_id": order.BusinessID,
		"order_id":    order.ID,
		"table_id":    order.TableID,
		"status":      order.Status,
	})
}
