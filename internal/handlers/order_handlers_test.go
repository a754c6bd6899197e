package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tableside_backend/internal/models"
	"tableside_backend/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOrderService returns canned results per method.
type fakeOrderService struct {
	activeOrder *models.Order
	activeErr   error

	placedOrder *models.Order
	placeErr    error
	placedReq   services.PlaceOrderRequest
	placedTable string

	statusOrder *models.Order
	statusErr   error

	checkoutOrder *models.Order
	checkoutErr   error
}

func (f *fakeOrderService) GetActiveOrder(tableNumber string) (*models.Order, error) {
	return f.activeOrder, f.activeErr
}

func (f *fakeOrderService) PlaceOrUpdateOrder(tableNumber string, req services.PlaceOrderRequest) (*models.Order, error) {
	f.placedTable = tableNumber
	f.placedReq = req
	return f.placedOrder, f.placeErr
}

func (f *fakeOrderService) AdvanceStatus(orderID int64, req services.UpdateOrderStatusRequest) (*models.Order, error) {
	return f.statusOrder, f.statusErr
}

func (f *fakeOrderService) CustomerCheckout(tableNumber string) (*models.Order, error) {
	return f.checkoutOrder, f.checkoutErr
}

func (f *fakeOrderService) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	return nil, 0, nil
}

func (f *fakeOrderService) GetOrderByID(orderID int64) (*models.Order, error) {
	return nil, services.ErrOrderNotFound
}

func (f *fakeOrderService) SetTransitionValidator(v services.StatusTransitionValidator) {}

func newOrderTestRouter(svc services.OrderService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(svc)
	r := gin.New()
	r.GET("/tables/:table_number/order", h.GetTableOrder)
	r.POST("/tables/:table_number/order", h.PlaceOrder)
	r.PATCH("/tables/:table_number/order", h.CustomerCheckout)
	r.PATCH("/orders/:id/status", h.UpdateOrderStatus)
	return r
}

func TestGetTableOrder_NoActiveOrder(t *testing.T) {
	r := newOrderTestRouter(&fakeOrderService{activeErr: services.ErrNoActiveOrder})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/tables/T1/order", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["info"], "No unpaid order")
}

func TestGetTableOrder_Found(t *testing.T) {
	r := newOrderTestRouter(&fakeOrderService{
		activeOrder: &models.Order{ID: 7, TableNumber: "T1", Status: services.StatusPending},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/tables/T1/order", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, services.StatusPending, got.Status)
}

func TestPlaceOrder_Success(t *testing.T) {
	svc := &fakeOrderService{
		placedOrder: &models.Order{ID: 3, TableNumber: "T2", Status: services.StatusPending},
	}
	r := newOrderTestRouter(svc)

	payload := `{"items":[{"menu_item_id":1,"quantity":2}]}`
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/tables/T2/order", bytes.NewBufferString(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "T2", svc.placedTable)
	require.Len(t, svc.placedReq.Items, 1)
	assert.Equal(t, int64(1), svc.placedReq.Items[0].MenuItemID)
	assert.Equal(t, 2, svc.placedReq.Items[0].Quantity)
}

func TestPlaceOrder_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unknown table", services.ErrTableNotFound, http.StatusNotFound},
		{"empty items", services.ErrNoItemsProvided, http.StatusBadRequest},
		{"unavailable menu item", services.ErrMenuItemUnavailable, http.StatusBadRequest},
		{"bad quantity", services.ErrValidation, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newOrderTestRouter(&fakeOrderService{placeErr: tt.err})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/tables/T1/order", bytes.NewBufferString(`{"items":[]}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestCustomerCheckout_NoOpenOrder(t *testing.T) {
	r := newOrderTestRouter(&fakeOrderService{checkoutErr: services.ErrNoActiveOrder})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/tables/T1/order", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCustomerCheckout_Success(t *testing.T) {
	r := newOrderTestRouter(&fakeOrderService{
		checkoutOrder: &models.Order{ID: 5, TableNumber: "T1", Status: services.StatusCompleted, IsPaid: true},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/tables/T1/order", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	var got models.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.True(t, got.IsPaid)
	assert.Equal(t, services.StatusCompleted, got.Status)
}

func TestUpdateOrderStatus_ErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"order missing", services.ErrOrderNotFound, http.StatusNotFound},
		{"status missing", services.ErrMissingStatus, http.StatusBadRequest},
		{"status unknown", services.ErrInvalidOrderStatus, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newOrderTestRouter(&fakeOrderService{statusErr: tt.err})

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPatch, "/orders/9/status", bytes.NewBufferString(`{"status":"preparing"}`))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
		})
	}
}

func TestUpdateOrderStatus_BadID(t *testing.T) {
	r := newOrderTestRouter(&fakeOrderService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPatch, "/orders/abc/status", bytes.NewBufferString(`{"status":"preparing"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
