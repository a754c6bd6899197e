package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tableside_backend/internal/models"
	"tableside_backend/internal/services"
	"tableside_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// MenuHandler holds the menu service.
type MenuHandler struct {
	menuService services.MenuService
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(ms services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: ms}
}

// GetMenu handles the customer menu listing. Only available items show up
// and availability itself stays out of the response.
func (h *MenuHandler) GetMenu(c *gin.Context) {
	items, err := h.menuService.ListAvailableMenuItems()
	if err != nil {
		utils.LogError(err, "GetMenu: Error from menuService.ListAvailableMenuItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch menu.", "Internal error"))
		return
	}
	if items == nil {
		items = []services.MenuItemView{}
	}
	c.JSON(http.StatusOK, items)
}

// CreateMenuItem handles the admin creation of a menu item.
func (h *MenuHandler) CreateMenuItem(c *gin.Context) {
	var req services.CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateMenuItem: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	item, err := h.menuService.CreateItem(req)
	if err != nil {
		utils.LogError(err, "CreateMenuItem: Error from menuService.CreateItem")
		if errors.Is(err, services.ErrMenuItemNameExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "A menu item with this name already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid menu item data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create menu item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetMenuItems handles the admin listing of all menu items, including
// unavailable ones.
func (h *MenuHandler) GetMenuItems(c *gin.Context) {
	items, err := h.menuService.GetItems()
	if err != nil {
		utils.LogError(err, "GetMenuItems: Error from menuService.GetItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch menu items.", "Internal error"))
		return
	}
	if items == nil {
		items = []models.MenuItem{}
	}
	c.JSON(http.StatusOK, items)
}

// GetMenuItemByID handles fetching a single menu item.
func (h *MenuHandler) GetMenuItemByID(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	item, err := h.menuService.GetItemByID(itemID)
	if err != nil {
		utils.LogError(err, "GetMenuItemByID: Error from menuService.GetItemByID")
		if errors.Is(err, services.ErrMenuItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch menu item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateMenuItem handles the admin update of a menu item.
func (h *MenuHandler) UpdateMenuItem(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	var req services.UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateMenuItem: Failed to bind JSON")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	item, err := h.menuService.UpdateItem(itemID, req)
	if err != nil {
		utils.LogError(err, "UpdateMenuItem: Error from menuService.UpdateItem")
		if errors.Is(err, services.ErrMenuItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found to update.", err.Error()))
		} else if errors.Is(err, services.ErrMenuItemNameExists) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "A menu item with this name already exists.", err.Error()))
		} else if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid menu item data.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update menu item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteMenuItem handles the admin deletion of a menu item.
func (h *MenuHandler) DeleteMenuItem(c *gin.Context) {
	itemID, ok := h.parseItemID(c)
	if !ok {
		return
	}

	if err := h.menuService.DeleteItem(itemID); err != nil {
		utils.LogError(err, "DeleteMenuItem: Error from menuService.DeleteItem")
		if errors.Is(err, services.ErrMenuItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Menu item not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete menu item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}

func (h *MenuHandler) parseItemID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	itemID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid menu item ID format.", err.Error()))
		return 0, false
	}
	return itemID, true
}
