package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableside_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// OrderRepository defines the interface for order and order-item database operations.
//
// A partial unique index on orders(table_id) WHERE status <> 'completed' backs
// the one-active-order-per-table invariant; CreateOrder surfaces a violation as
// ErrDuplicateKey so the service can re-read the winning row.
type OrderRepository interface {
	// Order methods
	CreateOrder(executor SQLExecutor, order *models.Order) (int64, error)
	GetOrderByID(executor SQLExecutor, orderID int64) (*models.Order, error)
	GetOrderByIDForUpdate(executor SQLExecutor, orderID int64) (*models.Order, error)
	// GetActiveOrderByTableID returns the table's order with status <> 'completed', if any.
	GetActiveOrderByTableID(executor SQLExecutor, tableID int64) (*models.Order, error)
	GetActiveOrderByTableIDForUpdate(executor SQLExecutor, tableID int64) (*models.Order, error)
	// GetUnpaidOrderByTableID returns the table's order with is_paid = FALSE, if any.
	GetUnpaidOrderByTableID(executor SQLExecutor, tableID int64) (*models.Order, error)
	GetUnpaidOrderByTableIDForUpdate(executor SQLExecutor, tableID int64) (*models.Order, error)
	GetOrders(filters models.OrderFilters) ([]models.Order, int, error) // orders, total count, error
	UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error
	// MarkOrderPaid sets is_paid = TRUE together with the terminal status.
	MarkOrderPaid(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error

	// OrderItem methods
	// UpsertOrderItem inserts a line item, or, when a row for the same
	// (order_id, menu_item_id) already exists, adds the quantity to it. The
	// locked price is never overwritten by the conflict path.
	UpsertOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error)
	GetOrderItemsByOrderID(executor SQLExecutor, orderID int64) ([]models.OrderItem, error)
	GetOrderItemByID(executor SQLExecutor, itemID int64) (*models.OrderItem, error)
	UpdateOrderItemQuantity(executor SQLExecutor, itemID int64, quantity int, updatedAt time.Time) error
	DeleteOrderItem(executor SQLExecutor, itemID int64) error
}

type orderRepository struct {
	db *sql.DB
}

// NewOrderRepository creates a new instance of OrderRepository.
func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepository{db: db}
}

// --- Order Methods ---

func (r *orderRepository) CreateOrder(executor SQLExecutor, order *models.Order) (int64, error) {
	query := `INSERT INTO orders (table_id, status, is_paid, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = order.CreatedAt
	}

	err := executor.QueryRow(query,
		order.TableID, order.Status, order.IsPaid, order.CreatedAt, order.UpdatedAt,
	).Scan(&order.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			// A concurrent request created the active order for this table first.
			return 0, fmt.Errorf("%w: active order already exists for table ID %d (constraint: %s)", ErrDuplicateKey, order.TableID, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating order: %v", ErrDatabaseError, err)
	}
	return order.ID, nil
}

const orderSelect = `
	SELECT o.id, o.table_id, o.status, o.is_paid, o.created_at, o.updated_at,
	       dt.table_number
	FROM orders o
	JOIN dining_tables dt ON o.table_id = dt.id`

func scanOrder(s scanner, o *models.Order) error {
	return s.Scan(&o.ID, &o.TableID, &o.Status, &o.IsPaid, &o.CreatedAt, &o.UpdatedAt, &o.TableNumber)
}

func (r *orderRepository) getOrderWhere(executor SQLExecutor, where string, forUpdate bool, args ...interface{}) (*models.Order, error) {
	order := &models.Order{}
	query := orderSelect + " WHERE " + where + " ORDER BY o.created_at DESC LIMIT 1"
	if forUpdate {
		query += " FOR UPDATE OF o"
	}
	err := scanOrder(executor.QueryRow(query, args...), order)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order: %v", ErrDatabaseError, err)
	}
	return order, nil
}

func (r *orderRepository) GetOrderByID(executor SQLExecutor, orderID int64) (*models.Order, error) {
	return r.getOrderWhere(executor, "o.id = $1", false, orderID)
}

func (r *orderRepository) GetOrderByIDForUpdate(executor SQLExecutor, orderID int64) (*models.Order, error) {
	return r.getOrderWhere(executor, "o.id = $1", true, orderID)
}

func (r *orderRepository) GetActiveOrderByTableID(executor SQLExecutor, tableID int64) (*models.Order, error) {
	return r.getOrderWhere(executor, "o.table_id = $1 AND o.status <> 'completed'", false, tableID)
}

func (r *orderRepository) GetActiveOrderByTableIDForUpdate(executor SQLExecutor, tableID int64) (*models.Order, error) {
	return r.getOrderWhere(executor, "o.table_id = $1 AND o.status <> 'completed'", true, tableID)
}

func (r *orderRepository) GetUnpaidOrderByTableID(executor SQLExecutor, tableID int64) (*models.Order, error) {
	return r.getOrderWhere(executor, "o.table_id = $1 AND o.is_paid = FALSE", false, tableID)
}

func (r *orderRepository) GetUnpaidOrderByTableIDForUpdate(executor SQLExecutor, tableID int64) (*models.Order, error) {
	return r.getOrderWhere(executor, "o.table_id = $1 AND o.is_paid = FALSE", true, tableID)
}

func (r *orderRepository) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	orders := []models.Order{}
	totalCount := 0

	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
        SELECT o.id, o.table_id, o.status, o.is_paid, o.created_at, o.updated_at,
               dt.table_number,
               COUNT(*) OVER() as total_count
        FROM orders o
        JOIN dining_tables dt ON o.table_id = dt.id
    `)

	var conditions []string
	var args []interface{}
	argCounter := 1

	if filters.TableNumber != nil && *filters.TableNumber != "" {
		conditions = append(conditions, fmt.Sprintf("dt.table_number = $%d", argCounter))
		args = append(args, *filters.TableNumber)
		argCounter++
	}
	if filters.Status != nil && *filters.Status != "" {
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", argCounter))
		args = append(args, *filters.Status)
		argCounter++
	}
	if filters.IsPaid != nil {
		conditions = append(conditions, fmt.Sprintf("o.is_paid = $%d", argCounter))
		args = append(args, *filters.IsPaid)
		argCounter++
	}

	if len(conditions) > 0 {
		queryBuilder.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	queryBuilder.WriteString(" ORDER BY o.created_at DESC")

	if filters.PageSize > 0 {
		queryBuilder.WriteString(fmt.Sprintf(" LIMIT $%d", argCounter))
		args = append(args, filters.PageSize)
		argCounter++
		if filters.Page > 0 {
			offset := (filters.Page - 1) * filters.PageSize
			queryBuilder.WriteString(fmt.Sprintf(" OFFSET $%d", argCounter))
			args = append(args, offset)
		}
	}

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: querying orders: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var o models.Order
		err := rows.Scan(
			&o.ID, &o.TableID, &o.Status, &o.IsPaid, &o.CreatedAt, &o.UpdatedAt,
			&o.TableNumber,
			&totalCount,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: scanning order: %v", ErrDatabaseError, err)
		}
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: iterating order rows: %v", ErrDatabaseError, err)
	}
	return orders, totalCount, nil
}

func (r *orderRepository) UpdateOrderStatus(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	query := `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newStatus, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: updating order status for ID %d: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order status update ID %d: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) MarkOrderPaid(executor SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	query := `UPDATE orders SET is_paid = TRUE, status = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, newStatus, updatedAt, orderID)
	if err != nil {
		return fmt.Errorf("%w: marking order ID %d paid: %v", ErrDatabaseError, orderID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for marking order ID %d paid: %v", ErrDatabaseError, orderID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- OrderItem Methods ---

func (r *orderRepository) UpsertOrderItem(executor SQLExecutor, item *models.OrderItem) (int64, error) {
	query := `INSERT INTO order_items (order_id, menu_item_id, quantity, price, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (order_id, menu_item_id)
	          DO UPDATE SET quantity = order_items.quantity + EXCLUDED.quantity,
	                        updated_at = EXCLUDED.updated_at
	          RETURNING id, quantity, price`
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}

	err := executor.QueryRow(query,
		item.OrderID, item.MenuItemID, item.Quantity, item.Price,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID, &item.Quantity, &item.Price)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return 0, fmt.Errorf("%w: upserting order item (constraint: %s): %v", ErrForeignKeyViolation, pqErr.Constraint, err)
		}
		return 0, fmt.Errorf("%w: upserting order item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

const orderItemSelect = `
	SELECT oi.id, oi.order_id, oi.menu_item_id, oi.quantity, oi.price,
	       oi.created_at, oi.updated_at,
	       mi.name, mi.description, mi.price, mi.is_available
	FROM order_items oi
	JOIN menu_items mi ON oi.menu_item_id = mi.id`

func scanOrderItem(s scanner, item *models.OrderItem) error {
	menuItem := &models.MenuItem{}
	err := s.Scan(
		&item.ID, &item.OrderID, &item.MenuItemID, &item.Quantity, &item.Price,
		&item.CreatedAt, &item.UpdatedAt,
		&menuItem.Name, &menuItem.Description, &menuItem.Price, &menuItem.IsAvailable,
	)
	if err != nil {
		return err
	}
	menuItem.ID = item.MenuItemID
	item.MenuItem = menuItem
	return nil
}

func (r *orderRepository) GetOrderItemsByOrderID(executor SQLExecutor, orderID int64) ([]models.OrderItem, error) {
	items := []models.OrderItem{}
	query := orderItemSelect + ` WHERE oi.order_id = $1 ORDER BY oi.id`

	rows, err := executor.Query(query, orderID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order items for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var item models.OrderItem
		if err := scanOrderItem(rows, &item); err != nil {
			return nil, fmt.Errorf("%w: scanning order item for order ID %d: %v", ErrDatabaseError, orderID, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating order item rows for order ID %d: %v", ErrDatabaseError, orderID, err)
	}
	return items, nil
}

func (r *orderRepository) GetOrderItemByID(executor SQLExecutor, itemID int64) (*models.OrderItem, error) {
	item := &models.OrderItem{}
	query := orderItemSelect + ` WHERE oi.id = $1`
	err := scanOrderItem(executor.QueryRow(query, itemID), item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting order item by ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return item, nil
}

func (r *orderRepository) UpdateOrderItemQuantity(executor SQLExecutor, itemID int64, quantity int, updatedAt time.Time) error {
	query := `UPDATE order_items SET quantity = $1, updated_at = $2 WHERE id = $3`
	result, err := executor.Exec(query, quantity, updatedAt, itemID)
	if err != nil {
		return fmt.Errorf("%w: updating quantity for order item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for order item update ID %d: %v", ErrDatabaseError, itemID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *orderRepository) DeleteOrderItem(executor SQLExecutor, itemID int64) error {
	query := `DELETE FROM order_items WHERE id = $1`
	result, err := executor.Exec(query, itemID)
	if err != nil {
		return fmt.Errorf("%w: deleting order item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting order item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
