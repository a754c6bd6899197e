package services

import (
	"errors"
	"fmt"
	"time"

	"tableside_backend/internal/models"
	"tableside_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// --- Custom Service Errors ---
var (
	ErrTableNotFound       = errors.New("table not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrNoActiveOrder       = errors.New("no unpaid order for this table")
	ErrNoItemsProvided     = errors.New("no items provided")
	ErrMenuItemUnavailable = errors.New("menu item not found or not available")
	ErrInvalidOrderStatus  = errors.New("invalid order status")
	ErrMissingStatus       = errors.New("no status provided")
	ErrValidation          = errors.New("validation error")
)

// Order status constants. An order is "active" while its status is not
// StatusCompleted; a cancelled order still blocks a new order for its table
// until it is completed or removed.
const (
	StatusPending   = "pending"
	StatusPreparing = "preparing"
	StatusServed    = "served"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// isValidOrderStatus reports whether status is one of the five known values.
func isValidOrderStatus(status string) bool {
	switch status {
	case StatusPending, StatusPreparing, StatusServed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// StatusTransitionValidator decides whether an order may move from one status
// to another. The default allows any transition between known statuses.
type StatusTransitionValidator func(from, to string) error

// AllowAnyTransition is the default StatusTransitionValidator.
func AllowAnyTransition(from, to string) error {
	return nil
}

// --- Data Transfer Objects (DTOs) ---

// OrderLineRequest is one requested line of an order. Quantity defaults to 1
// when omitted.
type OrderLineRequest struct {
	MenuItemID int64 `json:"menu_item_id" binding:"required"`
	Quantity   int   `json:"quantity"`
}

// PlaceOrderRequest is used for placing a new order or adding to an open one.
type PlaceOrderRequest struct {
	Items []OrderLineRequest `json:"items"`
}

// UpdateOrderStatusRequest is used for updating the status of an order.
type UpdateOrderStatusRequest struct {
	Status string `json:"status"`
}

// --- OrderService Interface ---

// OrderService is the order lifecycle engine. All customer-facing operations
// are scoped by table_number.
type OrderService interface {
	// GetActiveOrder returns the table's unpaid order with items and total.
	// Returns ErrNoActiveOrder when the table is missing or has no unpaid order.
	GetActiveOrder(tableNumber string) (*models.Order, error)
	// PlaceOrUpdateOrder adds the requested lines to the table's open order,
	// creating the order (and occupying the table) if none exists.
	PlaceOrUpdateOrder(tableNumber string, req PlaceOrderRequest) (*models.Order, error)
	// AdvanceStatus overwrites the order's status after validation.
	AdvanceStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error)
	// CustomerCheckout marks the table's unpaid order paid and completed. It
	// deliberately does not free the table; only payment settlement does.
	CustomerCheckout(tableNumber string) (*models.Order, error)

	GetOrders(filters models.OrderFilters) ([]models.Order, int, error)
	GetOrderByID(orderID int64) (*models.Order, error)

	// SetTransitionValidator replaces the default permissive status-transition
	// policy.
	SetTransitionValidator(v StatusTransitionValidator)
}

// --- orderService Implementation ---
type orderService struct {
	orderRepo  repositories.OrderRepository
	tableRepo  repositories.TableRepository
	menuRepo   repositories.MenuRepository
	db         Database // For managing transactions
	transition StatusTransitionValidator
}

// NewOrderService creates a new instance of OrderService.
func NewOrderService(
	or repositories.OrderRepository,
	tr repositories.TableRepository,
	mr repositories.MenuRepository,
	db Database,
) OrderService {
	return &orderService{
		orderRepo:  or,
		tableRepo:  tr,
		menuRepo:   mr,
		db:         db,
		transition: AllowAnyTransition,
	}
}

func (s *orderService) SetTransitionValidator(v StatusTransitionValidator) {
	if v == nil {
		v = AllowAnyTransition
	}
	s.transition = v
}

// orderTotal sums quantity times the captured unit price across the lines.
func orderTotal(items []models.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// loadOrderView attaches line items and the computed total to an order.
func (s *orderService) loadOrderView(order *models.Order) (*models.Order, error) {
	items, err := s.orderRepo.GetOrderItemsByOrderID(s.db, order.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch order items for order %d: %w", order.ID, err)
	}
	order.Items = items
	order.TotalPrice = orderTotal(items)
	return order, nil
}

func (s *orderService) GetActiveOrder(tableNumber string) (*models.Order, error) {
	table, err := s.tableRepo.GetTableByNumber(s.db, tableNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			// The read path collapses "table missing" and "table idle" into one
			// empty-result outcome.
			return nil, ErrNoActiveOrder
		}
		return nil, fmt.Errorf("failed to resolve table '%s': %w", tableNumber, err)
	}

	order, err := s.orderRepo.GetUnpaidOrderByTableID(s.db, table.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoActiveOrder
		}
		return nil, fmt.Errorf("failed to fetch unpaid order for table '%s': %w", tableNumber, err)
	}
	return s.loadOrderView(order)
}

// ensureOpenOrder resolves the table's open (not completed) order, creating it
// when absent. A freshly created order occupies the table. Runs in its own
// transaction so a later line-item failure never rolls the order back, which
// matches the observable "keep what succeeded" contract of order placement.
func (s *orderService) ensureOpenOrder(tableNumber string) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start database transaction: %w", err)
	}
	defer tx.Rollback()

	// Row lock on the table serializes concurrent placement for the same table.
	table, err := s.tableRepo.GetTableByNumberForUpdate(tx, tableNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrTableNotFound, tableNumber)
		}
		return nil, fmt.Errorf("failed to resolve table '%s': %w", tableNumber, err)
	}

	order, err := s.orderRepo.GetActiveOrderByTableIDForUpdate(tx, table.ID)
	if err == nil {
		return order, tx.Commit()
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch active order for table '%s': %w", tableNumber, err)
	}

	newOrder := &models.Order{
		TableID: table.ID,
		Status:  StatusPending,
	}
	// The INSERT runs under a savepoint: a unique violation aborts the current
	// statement, and without the savepoint the whole transaction would be
	// poisoned and the winner's order could not be read back.
	if _, err := tx.Exec("SAVEPOINT create_order"); err != nil {
		return nil, fmt.Errorf("failed to set savepoint for table '%s': %w", tableNumber, err)
	}
	if _, err := s.orderRepo.CreateOrder(tx, newOrder); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			// Lost the race against a concurrent placement; roll back to the
			// savepoint and use the winner's order.
			if _, rbErr := tx.Exec("ROLLBACK TO SAVEPOINT create_order"); rbErr == nil {
				if existing, readErr := s.orderRepo.GetActiveOrderByTableIDForUpdate(tx, table.ID); readErr == nil {
					return existing, tx.Commit()
				}
			}
		}
		return nil, fmt.Errorf("failed to create order for table '%s': %w", tableNumber, err)
	}
	newOrder.TableNumber = table.TableNumber

	if err := s.tableRepo.SetAvailability(tx, table.ID, false); err != nil {
		return nil, fmt.Errorf("failed to occupy table '%s': %w", tableNumber, err)
	}

	return newOrder, tx.Commit()
}

func (s *orderService) PlaceOrUpdateOrder(tableNumber string, req PlaceOrderRequest) (*models.Order, error) {
	order, err := s.ensureOpenOrder(tableNumber)
	if err != nil {
		return nil, err
	}

	if len(req.Items) == 0 {
		return nil, ErrNoItemsProvided
	}

	// Lines are applied one at a time; an unavailable item aborts the rest but
	// keeps the lines already written.
	for _, line := range req.Items {
		if line.Quantity < 0 {
			return nil, fmt.Errorf("%w: quantity for menu item ID %d must not be negative", ErrValidation, line.MenuItemID)
		}
		quantity := line.Quantity
		if quantity == 0 {
			quantity = 1
		}

		menuItem, err := s.menuRepo.GetAvailableItemByID(s.db, line.MenuItemID)
		if err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return nil, fmt.Errorf("%w: menu item ID %d", ErrMenuItemUnavailable, line.MenuItemID)
			}
			return nil, fmt.Errorf("failed to resolve menu item %d: %w", line.MenuItemID, err)
		}

		item := &models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: menuItem.ID,
			Quantity:   quantity,
			Price:      menuItem.Price, // locked at creation; the upsert never rewrites it
		}
		if _, err := s.orderRepo.UpsertOrderItem(s.db, item); err != nil {
			return nil, fmt.Errorf("failed to add menu item %d to order %d: %w", menuItem.ID, order.ID, err)
		}
	}

	return s.GetOrderByID(order.ID)
}

func (s *orderService) AdvanceStatus(orderID int64, req UpdateOrderStatusRequest) (*models.Order, error) {
	if req.Status == "" {
		return nil, ErrMissingStatus
	}
	if !isValidOrderStatus(req.Status) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidOrderStatus, req.Status)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	currentOrder, err := s.orderRepo.GetOrderByID(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order for status update: %w", err)
	}

	if err := s.transition(currentOrder.Status, req.Status); err != nil {
		return nil, fmt.Errorf("%w: %s -> %s: %v", ErrInvalidOrderStatus, currentOrder.Status, req.Status, err)
	}

	if err := s.orderRepo.UpdateOrderStatus(tx, orderID, req.Status, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to update order status in repository: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction for order status update: %w", err)
	}
	return s.GetOrderByID(orderID)
}

func (s *orderService) CustomerCheckout(tableNumber string) (*models.Order, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	table, err := s.tableRepo.GetTableByNumberForUpdate(tx, tableNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, fmt.Errorf("%w: '%s'", ErrTableNotFound, tableNumber)
		}
		return nil, fmt.Errorf("failed to resolve table '%s': %w", tableNumber, err)
	}

	order, err := s.orderRepo.GetUnpaidOrderByTableIDForUpdate(tx, table.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNoActiveOrder
		}
		return nil, fmt.Errorf("failed to fetch unpaid order for table '%s': %w", tableNumber, err)
	}

	// Checkout closes the order but leaves the table occupied until payment
	// settlement frees it.
	if err := s.orderRepo.MarkOrderPaid(tx, order.ID, StatusCompleted, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to close order %d at checkout: %w", order.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout transaction: %w", err)
	}
	return s.GetOrderByID(order.ID)
}

func (s *orderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders, totalCount, err := s.orderRepo.GetOrders(filters)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get orders: %w", err)
	}
	return orders, totalCount, nil
}

func (s *orderService) GetOrderByID(orderID int64) (*models.Order, error) {
	order, err := s.orderRepo.GetOrderByID(s.db, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to get order by ID from repository: %w", err)
	}
	return s.loadOrderView(order)
}
