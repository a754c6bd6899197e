package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"tableside_backend/internal/models"

	"github.com/lib/pq"
)

// MenuRepository defines the interface for menu-item database operations.
type MenuRepository interface {
	CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error)
	GetItemByID(executor SQLExecutor, itemID int64) (*models.MenuItem, error)
	// GetAvailableItemByID resolves an item only if it is currently on sale.
	// Returns ErrNotFound for both missing and unavailable items, matching the
	// order-placement contract.
	GetAvailableItemByID(executor SQLExecutor, itemID int64) (*models.MenuItem, error)
	GetItems(availableOnly bool) ([]models.MenuItem, error)
	UpdateItem(executor SQLExecutor, item *models.MenuItem) error
	DeleteItem(executor SQLExecutor, itemID int64) error
}

type menuRepository struct {
	db *sql.DB
}

// NewMenuRepository creates a new instance of MenuRepository.
func NewMenuRepository(db *sql.DB) MenuRepository {
	return &menuRepository{db: db}
}

const menuItemColumns = `id, name, description, price, is_available`

func scanMenuItem(s scanner, m *models.MenuItem) error {
	return s.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.IsAvailable)
}

func (r *menuRepository) CreateItem(executor SQLExecutor, item *models.MenuItem) (int64, error) {
	query := `INSERT INTO menu_items (name, description, price, is_available)
	          VALUES ($1, $2, $3, $4)
	          RETURNING id`
	err := executor.QueryRow(query, item.Name, item.Description, item.Price, item.IsAvailable).Scan(&item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return 0, fmt.Errorf("%w: menu item name '%s' already exists (constraint: %s)", ErrDuplicateKey, item.Name, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating menu item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

func (r *menuRepository) GetItemByID(executor SQLExecutor, itemID int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1`
	err := scanMenuItem(executor.QueryRow(query, itemID), item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting menu item by ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return item, nil
}

func (r *menuRepository) GetAvailableItemByID(executor SQLExecutor, itemID int64) (*models.MenuItem, error) {
	item := &models.MenuItem{}
	query := `SELECT ` + menuItemColumns + ` FROM menu_items WHERE id = $1 AND is_available = TRUE`
	err := scanMenuItem(executor.QueryRow(query, itemID), item)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting available menu item by ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return item, nil
}

func (r *menuRepository) GetItems(availableOnly bool) ([]models.MenuItem, error) {
	items := []models.MenuItem{}
	query := `SELECT ` + menuItemColumns + ` FROM menu_items`
	if availableOnly {
		query += ` WHERE is_available = TRUE`
	}
	query += ` ORDER BY name`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: querying menu items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.MenuItem
		if err := scanMenuItem(rows, &m); err != nil {
			return nil, fmt.Errorf("%w: scanning menu item: %v", ErrDatabaseError, err)
		}
		items = append(items, m)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating menu item rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *menuRepository) UpdateItem(executor SQLExecutor, item *models.MenuItem) error {
	query := `UPDATE menu_items SET name = $1, description = $2, price = $3, is_available = $4 WHERE id = $5`
	result, err := executor.Exec(query, item.Name, item.Description, item.Price, item.IsAvailable, item.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return fmt.Errorf("%w: menu item name '%s' already exists (constraint: %s)", ErrDuplicateKey, item.Name, pqErr.Constraint)
		}
		return fmt.Errorf("%w: updating menu item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for menu item update ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *menuRepository) DeleteItem(executor SQLExecutor, itemID int64) error {
	query := `DELETE FROM menu_items WHERE id = $1`
	result, err := executor.Exec(query, itemID)
	if err != nil {
		return fmt.Errorf("%w: deleting menu item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting menu item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
