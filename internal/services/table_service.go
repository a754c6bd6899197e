package services

import (
	"errors"
	"fmt"

	"tableside_backend/internal/models"
	"tableside_backend/internal/repositories"
	"tableside_backend/internal/tablecode"
	"tableside_backend/pkg/utils"
)

var (
	ErrTableNumberExists = errors.New("table number already exists")
	ErrTableHasOrders    = errors.New("table has unpaid or uncancelled orders")
)

// --- Table DTOs ---

type CreateTableRequest struct {
	TableNumber string `json:"table_number" binding:"required,max=10"`
}

type UpdateTableRequest struct {
	TableNumber *string `json:"table_number"`
	IsAvailable *bool   `json:"is_available"`
}

// TableResponse includes the access URL produced by the post-creation hook.
type TableResponse struct {
	models.Table
	AccessURL string `json:"access_url,omitempty"`
}

// --- TableService Interface ---

// TableService is the table registry. Deleting a table with blocking orders
// is rejected, and a table cannot be marked available while it still has one.
type TableService interface {
	CreateTable(req CreateTableRequest) (*TableResponse, error)
	GetTableByNumber(tableNumber string) (*models.Table, error)
	GetTables() ([]models.Table, error)
	UpdateTable(tableNumber string, req UpdateTableRequest) (*models.Table, error)
	DeleteTable(tableNumber string) error
}

type tableService struct {
	tableRepo repositories.TableRepository
	codeGen   tablecode.Generator
	db        Database
}

// NewTableService creates a new instance of TableService. codeGen may be nil,
// in which case no access artifact is generated.
func NewTableService(repo repositories.TableRepository, codeGen tablecode.Generator, db Database) TableService {
	return &tableService{tableRepo: repo, codeGen: codeGen, db: db}
}

func (s *tableService) CreateTable(req CreateTableRequest) (*TableResponse, error) {
	table := &models.Table{
		TableNumber: req.TableNumber,
		IsAvailable: true,
	}
	if _, err := s.tableRepo.CreateTable(s.db, table); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrTableNumberExists, req.TableNumber)
		}
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	resp := &TableResponse{Table: *table}
	if s.codeGen != nil {
		url, err := s.codeGen.Generate(table.TableNumber)
		if err != nil {
			// The table exists either way; a failed artifact can be regenerated.
			utils.LogError(err, "CreateTable: failed to generate access artifact for table "+table.TableNumber)
		} else {
			resp.AccessURL = url
		}
	}
	return resp, nil
}

func (s *tableService) GetTableByNumber(tableNumber string) (*models.Table, error) {
	table, err := s.tableRepo.GetTableByNumber(s.db, tableNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to get table: %w", err)
	}
	return table, nil
}

func (s *tableService) GetTables() ([]models.Table, error) {
	tables, err := s.tableRepo.GetTables()
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	return tables, nil
}

func (s *tableService) UpdateTable(tableNumber string, req UpdateTableRequest) (*models.Table, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	table, err := s.tableRepo.GetTableByNumberForUpdate(tx, tableNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTableNotFound
		}
		return nil, fmt.Errorf("failed to fetch table for update: %w", err)
	}

	if req.IsAvailable != nil && *req.IsAvailable && !table.IsAvailable {
		blocked, err := s.tableRepo.HasBlockingOrders(tx, table.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check orders for table '%s': %w", tableNumber, err)
		}
		if blocked {
			return nil, fmt.Errorf("%w: '%s' cannot be marked available", ErrTableHasOrders, tableNumber)
		}
	}

	if req.TableNumber != nil {
		table.TableNumber = *req.TableNumber
	}
	if req.IsAvailable != nil {
		table.IsAvailable = *req.IsAvailable
	}

	if err := s.tableRepo.UpdateTable(tx, table); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrTableNumberExists, table.TableNumber)
		}
		return nil, fmt.Errorf("failed to update table: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit table update: %w", err)
	}
	return table, nil
}

func (s *tableService) DeleteTable(tableNumber string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	table, err := s.tableRepo.GetTableByNumberForUpdate(tx, tableNumber)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		return fmt.Errorf("failed to fetch table for deletion: %w", err)
	}

	blocked, err := s.tableRepo.HasBlockingOrders(tx, table.ID)
	if err != nil {
		return fmt.Errorf("failed to check orders for table '%s': %w", tableNumber, err)
	}
	if blocked {
		return fmt.Errorf("%w: '%s' cannot be deleted", ErrTableHasOrders, tableNumber)
	}

	if err := s.tableRepo.DeleteTable(tx, tableNumber); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrTableNotFound
		}
		if errors.Is(err, repositories.ErrForeignKeyViolation) {
			// Settled orders still reference the table; deletion must not cascade.
			return fmt.Errorf("%w: '%s' cannot be deleted", ErrTableHasOrders, tableNumber)
		}
		return fmt.Errorf("failed to delete table: %w", err)
	}

	return tx.Commit()
}
