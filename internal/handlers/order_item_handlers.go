package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tableside_backend/internal/services"
	"tableside_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// OrderItemHandler holds the order item service.
type OrderItemHandler struct {
	orderItemService services.OrderItemService
}

// NewOrderItemHandler creates a new OrderItemHandler.
func NewOrderItemHandler(ois services.OrderItemService) *OrderItemHandler {
	return &OrderItemHandler{orderItemService: ois}
}

func (h *OrderItemHandler) parseItemID(c *gin.Context) (int64, bool) {
	idStr := c.Param("item_id")
	itemID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid order item ID format.", err.Error()))
		return 0, false
	}
	return itemID, true
}

// GetOrderItem handles fetching a single order line.
func (h *OrderItemHandler) GetOrderItem(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	item, err := h.orderItemService.GetItem(itemID)
	if err != nil {
		utils.LogError(err, "GetOrderItem: Error from orderItemService.GetItem")
		if errors.Is(err, services.ErrOrderItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order item not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch order item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateOrderItem handles changing the quantity of an order line. The
// captured unit price is never touched here.
func (h *OrderItemHandler) UpdateOrderItem(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	var req services.UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateOrderItem: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	item, err := h.orderItemService.UpdateQuantity(itemID, req)
	if err != nil {
		utils.LogError(err, "UpdateOrderItem: Error from orderItemService.UpdateQuantity")
		if errors.Is(err, services.ErrOrderItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order item not found to update.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid quantity.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update order item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteOrderItem handles removing a line from an order.
func (h *OrderItemHandler) DeleteOrderItem(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	if err := h.orderItemService.DeleteItem(itemID); err != nil {
		utils.LogError(err, "DeleteOrderItem: Error from orderItemService.DeleteItem")
		if errors.Is(err, services.ErrOrderItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Order item not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete order item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Order item deleted successfully"})
}
