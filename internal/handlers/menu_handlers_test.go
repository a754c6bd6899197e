package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tableside_backend/internal/models"
	"tableside_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMenuService struct {
	views     []services.MenuItemView
	viewsErr  error
	item      *models.MenuItem
	itemErr   error
	items     []models.MenuItem
	deleteErr error
}

func (f *fakeMenuService) ListAvailableMenuItems() ([]services.MenuItemView, error) {
	return f.views, f.viewsErr
}

func (f *fakeMenuService) CreateItem(req services.CreateMenuItemRequest) (*models.MenuItem, error) {
	return f.item, f.itemErr
}

func (f *fakeMenuService) GetItemByID(itemID int64) (*models.MenuItem, error) {
	return f.item, f.itemErr
}

func (f *fakeMenuService) GetItems() ([]models.MenuItem, error) {
	return f.items, nil
}

func (f *fakeMenuService) UpdateItem(itemID int64, req services.UpdateMenuItemRequest) (*models.MenuItem, error) {
	return f.item, f.itemErr
}

func (f *fakeMenuService) DeleteItem(itemID int64) error {
	return f.deleteErr
}

func newMenuTestRouter(svc services.MenuService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewMenuHandler(svc)
	r := gin.New()
	r.GET("/menu", h.GetMenu)
	r.GET("/menu-items/:id", h.GetMenuItemByID)
	r.DELETE("/menu-items/:id", h.DeleteMenuItem)
	return r
}

func TestGetMenu_ReturnsCustomerViews(t *testing.T) {
	price, _ := decimal.NewFromString("9.50")
	r := newMenuTestRouter(&fakeMenuService{
		views: []services.MenuItemView{
			{ID: 1, Name: "Margherita", Description: "Tomato and mozzarella", Price: price},
		},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/menu", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Margherita", got[0]["name"])
	// availability is an internal flag, the customer menu never exposes it
	assert.NotContains(t, got[0], "is_available")
}

func TestGetMenu_EmptyIsAList(t *testing.T) {
	r := newMenuTestRouter(&fakeMenuService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/menu", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())
}

func TestGetMenuItemByID_NotFound(t *testing.T) {
	r := newMenuTestRouter(&fakeMenuService{itemErr: services.ErrMenuItemNotFound})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/menu-items/42", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteMenuItem_NotFound(t *testing.T) {
	r := newMenuTestRouter(&fakeMenuService{deleteErr: services.ErrMenuItemNotFound})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/menu-items/42", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
