package services

import (
	"errors"
	"fmt"
	"time"

	"tableside_backend/internal/models"
	"tableside_backend/internal/repositories"
)

var (
	// ErrAlreadyPaid rejects double settlement of an order.
	ErrAlreadyPaid = errors.New("order has already been paid")
)

// SettlementResult is the payment confirmation returned to the caller.
type SettlementResult struct {
	Message string        `json:"message"`
	Order   *models.Order `json:"order"`
}

// PaymentService settles orders. Settlement is the authoritative path that
// frees a table for reuse. No external payment gateway is called; the charge
// is simulated.
type PaymentService interface {
	SettlePayment(orderID int64) (*SettlementResult, error)
}

type paymentService struct {
	orderRepo repositories.OrderRepository
	tableRepo repositories.TableRepository
	orderSvc  OrderService
	db        Database
}

// NewPaymentService creates a new instance of PaymentService.
func NewPaymentService(
	or repositories.OrderRepository,
	tr repositories.TableRepository,
	os OrderService,
	db Database,
) PaymentService {
	return &paymentService{
		orderRepo: or,
		tableRepo: tr,
		orderSvc:  os,
		db:        db,
	}
}

func (s *paymentService) SettlePayment(orderID int64) (*SettlementResult, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	// Row lock so two settle calls for the same order serialize; the loser
	// observes is_paid = true and gets the conflict.
	order, err := s.orderRepo.GetOrderByIDForUpdate(tx, orderID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to fetch order %d for settlement: %w", orderID, err)
	}

	if order.IsPaid {
		return nil, fmt.Errorf("%w: order %d", ErrAlreadyPaid, orderID)
	}

	// A real integration would charge a payment gateway here and wait for its
	// callback; the charge is simulated as immediately successful.

	if err := s.orderRepo.MarkOrderPaid(tx, orderID, StatusCompleted, time.Now()); err != nil {
		return nil, fmt.Errorf("failed to mark order %d paid: %w", orderID, err)
	}

	if err := s.tableRepo.SetAvailability(tx, order.TableID, true); err != nil {
		return nil, fmt.Errorf("failed to free table for order %d: %w", orderID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit settlement transaction: %w", err)
	}

	settled, err := s.orderSvc.GetOrderByID(orderID)
	if err != nil {
		return nil, fmt.Errorf("order %d settled but failed to reload it: %w", orderID, err)
	}
	return &SettlementResult{
		Message: "Payment successful.",
		Order:   settled,
	}, nil
}
