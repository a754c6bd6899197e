package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"tableside_backend/internal/models"

	"github.com/shopspring/decimal"
)

// ReportRepository defines the interface for summary-report queries.
type ReportRepository interface {
	GetSummary(day time.Time) (*models.SummaryReport, error)
}

type reportRepository struct {
	db *sql.DB
}

// NewReportRepository creates a new instance of ReportRepository.
func NewReportRepository(db *sql.DB) ReportRepository {
	return &reportRepository{db: db}
}

// GetSummary aggregates order and table activity for the given calendar day.
// Revenue is summed from the locked line prices of paid orders, so later menu
// price edits never shift historical numbers.
func (r *reportRepository) GetSummary(day time.Time) (*models.SummaryReport, error) {
	startOfDay := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	endOfDay := startOfDay.AddDate(0, 0, 1)

	summary := &models.SummaryReport{Date: startOfDay.Format("2006-01-02")}

	query := `
		SELECT
		    COUNT(*) FILTER (WHERE o.created_at >= $1 AND o.created_at < $2) AS orders_placed,
		    COUNT(*) FILTER (WHERE o.status = 'completed' AND o.updated_at >= $1 AND o.updated_at < $2) AS orders_completed,
		    COUNT(*) FILTER (WHERE o.status <> 'completed') AS open_orders
		FROM orders o`
	err := r.db.QueryRow(query, startOfDay, endOfDay).Scan(
		&summary.OrdersPlaced, &summary.OrdersCompleted, &summary.OpenOrders,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: querying order summary: %v", ErrDatabaseError, err)
	}

	var revenue sql.NullString
	revenueQuery := `
		SELECT SUM(oi.price * oi.quantity)
		FROM order_items oi
		JOIN orders o ON oi.order_id = o.id
		WHERE o.is_paid = TRUE AND o.updated_at >= $1 AND o.updated_at < $2`
	if err := r.db.QueryRow(revenueQuery, startOfDay, endOfDay).Scan(&revenue); err != nil {
		return nil, fmt.Errorf("%w: querying paid revenue: %v", ErrDatabaseError, err)
	}
	summary.PaidRevenue = decimal.Zero
	if revenue.Valid {
		parsed, err := decimal.NewFromString(revenue.String)
		if err != nil {
			return nil, fmt.Errorf("%w: parsing paid revenue '%s': %v", ErrDatabaseError, revenue.String, err)
		}
		summary.PaidRevenue = parsed
	}

	tablesQuery := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE is_available = FALSE)
		FROM dining_tables`
	if err := r.db.QueryRow(tablesQuery).Scan(&summary.TablesTotal, &summary.TablesOccupied); err != nil {
		return nil, fmt.Errorf("%w: querying table occupancy: %v", ErrDatabaseError, err)
	}

	return summary, nil
}
