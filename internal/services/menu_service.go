package services

import (
	"errors"
	"fmt"

	"tableside_backend/internal/models"
	"tableside_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

var (
	ErrMenuItemNotFound   = errors.New("menu item not found")
	ErrMenuItemNameExists = errors.New("menu item name already exists")
)

// --- Menu DTOs ---

// CreateMenuItemRequest is the staff-facing payload for adding a dish.
type CreateMenuItemRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	IsAvailable *bool           `json:"is_available"`
}

// UpdateMenuItemRequest uses pointers to distinguish omitted fields from zero
// values.
type UpdateMenuItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	IsAvailable *bool            `json:"is_available"`
}

// MenuItemView is the customer-facing shape of a menu item; availability is
// implied by presence in the list.
type MenuItemView struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// --- MenuService Interface ---
type MenuService interface {
	// ListAvailableMenuItems returns the customer menu: available items only.
	ListAvailableMenuItems() ([]MenuItemView, error)

	CreateItem(req CreateMenuItemRequest) (*models.MenuItem, error)
	GetItemByID(itemID int64) (*models.MenuItem, error)
	GetItems() ([]models.MenuItem, error)
	UpdateItem(itemID int64, req UpdateMenuItemRequest) (*models.MenuItem, error)
	DeleteItem(itemID int64) error
}

type menuService struct {
	menuRepo repositories.MenuRepository
	db       Database
}

// NewMenuService creates a new instance of MenuService.
func NewMenuService(repo repositories.MenuRepository, db Database) MenuService {
	return &menuService{menuRepo: repo, db: db}
}

func (s *menuService) ListAvailableMenuItems() ([]MenuItemView, error) {
	items, err := s.menuRepo.GetItems(true)
	if err != nil {
		return nil, fmt.Errorf("failed to list available menu items: %w", err)
	}
	views := make([]MenuItemView, 0, len(items))
	for _, item := range items {
		views = append(views, MenuItemView{
			ID:          item.ID,
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
		})
	}
	return views, nil
}

func (s *menuService) CreateItem(req CreateMenuItemRequest) (*models.MenuItem, error) {
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
	}

	available := true
	if req.IsAvailable != nil {
		available = *req.IsAvailable
	}

	item := &models.MenuItem{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		IsAvailable: available,
	}
	if _, err := s.menuRepo.CreateItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrMenuItemNameExists, req.Name)
		}
		return nil, fmt.Errorf("failed to create menu item: %w", err)
	}
	return item, nil
}

func (s *menuService) GetItemByID(itemID int64) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetItemByID(s.db, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to get menu item: %w", err)
	}
	return item, nil
}

func (s *menuService) GetItems() ([]models.MenuItem, error) {
	items, err := s.menuRepo.GetItems(false)
	if err != nil {
		return nil, fmt.Errorf("failed to list menu items: %w", err)
	}
	return items, nil
}

func (s *menuService) UpdateItem(itemID int64, req UpdateMenuItemRequest) (*models.MenuItem, error) {
	item, err := s.menuRepo.GetItemByID(s.db, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("failed to fetch menu item for update: %w", err)
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		if req.Price.IsNegative() {
			return nil, fmt.Errorf("%w: price must not be negative", ErrValidation)
		}
		// Price edits apply to future orders only; locked line prices keep the
		// value captured at ordering time.
		item.Price = *req.Price
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
	}

	if err := s.menuRepo.UpdateItem(s.db, item); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: '%s'", ErrMenuItemNameExists, item.Name)
		}
		return nil, fmt.Errorf("failed to update menu item: %w", err)
	}
	return item, nil
}

// DeleteItem removes a dish. Line items referencing it are removed with it;
// this mirrors the catalog's ownership of its dishes.
func (s *menuService) DeleteItem(itemID int64) error {
	if err := s.menuRepo.DeleteItem(s.db, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMenuItemNotFound
		}
		return fmt.Errorf("failed to delete menu item: %w", err)
	}
	return nil
}
