package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tableside_backend/internal/services"
	"tableside_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// PaymentHandler holds the payment service.
type PaymentHandler struct {
	paymentService services.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(ps services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: ps}
}

// SettlePayment handles the staff settlement of an order. On success the
// order is completed and its table goes back to the available pool.
func (h *PaymentHandler) SettlePayment(c *gin.Context) {
	idStr := c.Param("id")
	orderID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid order ID format.", err.Error()))
		return
	}

	result, err := h.paymentService.SettlePayment(orderID)
	if err != nil {
		utils.LogError(err, "SettlePayment: Error from paymentService.SettlePayment for ID "+idStr)
		if errors.Is(err, services.ErrOrderNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order not found.", err.Error()))
		} else if errors.Is(err, services.ErrAlreadyPaid) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Order is already paid.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to settle payment.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": result.Message,
		"order":   result.Order,
	})
}
