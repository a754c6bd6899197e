package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table represents a physical dining table. Tables are addressed by their
// human-readable table_number everywhere in the API; the numeric id is an
// internal storage key only.
type Table struct {
	ID          int64  `json:"id"`
	TableNumber string `json:"table_number" db:"table_number"`
	IsAvailable bool   `json:"is_available" db:"is_available"`
}

// MenuItem represents a dish on the menu. Price is fixed-point with two
// fractional digits; changing it never touches prices already locked into
// order items.
type MenuItem struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name" db:"name"`
	Description string          `json:"description" db:"description"`
	Price       decimal.Decimal `json:"price" db:"price"`
	IsAvailable bool            `json:"is_available" db:"is_available"`
}

// Order belongs to exactly one table. At most one order per table may be in a
// non-completed status at any instant (enforced by a partial unique index on
// orders.table_id).
type Order struct {
	ID          int64           `json:"id"`
	TableID     int64           `json:"-" db:"table_id"`
	TableNumber string          `json:"table_number"`
	Status      string          `json:"status" db:"status"`
	IsPaid      bool            `json:"is_paid" db:"is_paid"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
	Items       []OrderItem     `json:"items"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

// OrderItem is one line of an order. Price is captured from the menu item at
// creation time and is immutable afterwards; quantity is the only field staff
// may correct. Line items are unique per (order_id, menu_item_id).
type OrderItem struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"order_id" db:"order_id"`
	MenuItemID int64           `json:"-" db:"menu_item_id"`
	Quantity   int             `json:"quantity" db:"quantity"`
	Price      decimal.Decimal `json:"price" db:"price"`
	CreatedAt  time.Time       `json:"-" db:"created_at"`
	UpdatedAt  time.Time       `json:"-" db:"updated_at"`
	MenuItem   *MenuItem       `json:"menu_item,omitempty"`
}
