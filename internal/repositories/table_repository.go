package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"tableside_backend/internal/models"

	"github.com/lib/pq"
)

// TableRepository defines the interface for dining-table database operations.
// All lookups are keyed by the human-readable table_number.
type TableRepository interface {
	CreateTable(executor SQLExecutor, table *models.Table) (int64, error)
	GetTableByNumber(executor SQLExecutor, tableNumber string) (*models.Table, error)
	// GetTableByNumberForUpdate locks the table row for the duration of the
	// surrounding transaction, serializing concurrent order placement per table.
	GetTableByNumberForUpdate(executor SQLExecutor, tableNumber string) (*models.Table, error)
	GetTables() ([]models.Table, error)
	UpdateTable(executor SQLExecutor, table *models.Table) error
	DeleteTable(executor SQLExecutor, tableNumber string) error
	SetAvailability(executor SQLExecutor, tableID int64, available bool) error
	// HasBlockingOrders reports whether the table owns an order that is unpaid
	// and neither completed nor cancelled.
	HasBlockingOrders(executor SQLExecutor, tableID int64) (bool, error)
}

type tableRepository struct {
	db *sql.DB
}

// NewTableRepository creates a new instance of TableRepository.
func NewTableRepository(db *sql.DB) TableRepository {
	return &tableRepository{db: db}
}

const tableColumns = `id, table_number, is_available`

func scanTable(s scanner, t *models.Table) error {
	return s.Scan(&t.ID, &t.TableNumber, &t.IsAvailable)
}

func (r *tableRepository) CreateTable(executor SQLExecutor, table *models.Table) (int64, error) {
	query := `INSERT INTO dining_tables (table_number, is_available)
	          VALUES ($1, $2)
	          RETURNING id`
	err := executor.QueryRow(query, table.TableNumber, table.IsAvailable).Scan(&table.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: table number '%s' already exists (constraint: %s)", ErrDuplicateKey, table.TableNumber, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating table: %v", ErrDatabaseError, err)
	}
	return table.ID, nil
}

func (r *tableRepository) GetTableByNumber(executor SQLExecutor, tableNumber string) (*models.Table, error) {
	table := &models.Table{}
	query := `SELECT ` + tableColumns + ` FROM dining_tables WHERE table_number = $1`
	err := scanTable(executor.QueryRow(query, tableNumber), table)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting table '%s': %v", ErrDatabaseError, tableNumber, err)
	}
	return table, nil
}

func (r *tableRepository) GetTableByNumberForUpdate(executor SQLExecutor, tableNumber string) (*models.Table, error) {
	table := &models.Table{}
	query := `SELECT ` + tableColumns + ` FROM dining_tables WHERE table_number = $1 FOR UPDATE`
	err := scanTable(executor.QueryRow(query, tableNumber), table)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: locking table '%s': %v", ErrDatabaseError, tableNumber, err)
	}
	return table, nil
}

func (r *tableRepository) GetTables() ([]models.Table, error) {
	tables := []models.Table{}
	query := `SELECT ` + tableColumns + ` FROM dining_tables ORDER BY table_number`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying tables: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var t models.Table
		if err := scanTable(rows, &t); err != nil {
			return nil, fmt.Errorf("%w: scanning table: %v", ErrDatabaseError, err)
		}
		tables = append(tables, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating table rows: %v", ErrDatabaseError, err)
	}
	return tables, nil
}

func (r *tableRepository) UpdateTable(executor SQLExecutor, table *models.Table) error {
	query := `UPDATE dining_tables SET table_number = $1, is_available = $2 WHERE id = $3`
	result, err := executor.Exec(query, table.TableNumber, table.IsAvailable, table.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: table number '%s' already exists (constraint: %s)", ErrDuplicateKey, table.TableNumber, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating table ID %d: %v", ErrDatabaseError, table.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for table update ID %d: %v", ErrDatabaseError, table.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) DeleteTable(executor SQLExecutor, tableNumber string) error {
	query := `DELETE FROM dining_tables WHERE table_number = $1`
	result, err := executor.Exec(query, tableNumber)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return fmt.Errorf("%w: table '%s' still has orders (constraint: %s)", ErrForeignKeyViolation, tableNumber, pqErr.Constraint)
		}
		return fmt.Errorf("%w: deleting table '%s': %v", ErrDatabaseError, tableNumber, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting table '%s': %v", ErrDatabaseError, tableNumber, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) SetAvailability(executor SQLExecutor, tableID int64, available bool) error {
	query := `UPDATE dining_tables SET is_available = $1 WHERE id = $2`
	result, err := executor.Exec(query, available, tableID)
	if err != nil {
		return fmt.Errorf("%w: setting availability for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for availability update ID %d: %v", ErrDatabaseError, tableID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tableRepository) HasBlockingOrders(executor SQLExecutor, tableID int64) (bool, error) {
	query := `SELECT EXISTS (
	            SELECT 1 FROM orders
	            WHERE table_id = $1 AND is_paid = FALSE AND status NOT IN ('completed', 'cancelled')
	          )`
	var exists bool
	if err := executor.QueryRow(query, tableID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: checking blocking orders for table ID %d: %v", ErrDatabaseError, tableID, err)
	}
	return exists, nil
}
