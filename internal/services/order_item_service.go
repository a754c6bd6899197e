package services

import (
	"errors"
	"fmt"
	"time"

	"tableside_backend/internal/models"
	"tableside_backend/internal/repositories"
)

var (
	ErrOrderItemNotFound = errors.New("order item not found")
)

// UpdateOrderItemRequest carries the staff correction for a line item.
// Quantity is the only mutable field; the locked price and the menu item
// association are immutable after creation.
type UpdateOrderItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// OrderItemService is the staff correction path for individual line items.
type OrderItemService interface {
	GetItem(itemID int64) (*models.OrderItem, error)
	UpdateQuantity(itemID int64, req UpdateOrderItemRequest) (*models.OrderItem, error)
	DeleteItem(itemID int64) error
}

type orderItemService struct {
	orderRepo repositories.OrderRepository
	db        Database
}

// NewOrderItemService creates a new instance of OrderItemService.
func NewOrderItemService(or repositories.OrderRepository, db Database) OrderItemService {
	return &orderItemService{orderRepo: or, db: db}
}

func (s *orderItemService) GetItem(itemID int64) (*models.OrderItem, error) {
	item, err := s.orderRepo.GetOrderItemByID(s.db, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("failed to get order item: %w", err)
	}
	return item, nil
}

func (s *orderItemService) UpdateQuantity(itemID int64, req UpdateOrderItemRequest) (*models.OrderItem, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", ErrValidation)
	}

	if err := s.orderRepo.UpdateOrderItemQuantity(s.db, itemID, req.Quantity, time.Now()); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderItemNotFound
		}
		return nil, fmt.Errorf("failed to update order item quantity: %w", err)
	}
	return s.GetItem(itemID)
}

func (s *orderItemService) DeleteItem(itemID int64) error {
	if err := s.orderRepo.DeleteOrderItem(s.db, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrOrderItemNotFound
		}
		return fmt.Errorf("failed to delete order item: %w", err)
	}
	return nil
}
