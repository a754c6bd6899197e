package models

import "github.com/shopspring/decimal"

// SummaryReport aggregates today's activity for the staff dashboard.
type SummaryReport struct {
	Date            string          `json:"date"` // YYYY-MM-DD
	OrdersPlaced    int             `json:"orders_placed"`
	OrdersCompleted int             `json:"orders_completed"`
	OpenOrders      int             `json:"open_orders"`
	PaidRevenue     decimal.Decimal `json:"paid_revenue"`
	TablesTotal     int             `json:"tables_total"`
	TablesOccupied  int             `json:"tables_occupied"`
}
