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

type fakeTableService struct {
	created    *services.TableResponse
	createErr  error
	table      *models.Table
	tableErr   error
	tables     []models.Table
	updated    *models.Table
	updateErr  error
	deleteErr  error
	deletedNum string
}

func (f *fakeTableService) CreateTable(req services.CreateTableRequest) (*services.TableResponse, error) {
	return f.created, f.createErr
}

func (f *fakeTableService) GetTableByNumber(tableNumber string) (*models.Table, error) {
	return f.table, f.tableErr
}

func (f *fakeTableService) GetTables() ([]models.Table, error) {
	return f.tables, nil
}

func (f *fakeTableService) UpdateTable(tableNumber string, req services.UpdateTableRequest) (*models.Table, error) {
	return f.updated, f.updateErr
}

func (f *fakeTableService) DeleteTable(tableNumber string) error {
	f.deletedNum = tableNumber
	return f.deleteErr
}

func newTableTestRouter(svc services.TableService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewTableHandler(svc)
	r := gin.New()
	r.POST("/tables", h.CreateTable)
	r.GET("/tables", h.GetTables)
	r.GET("/tables/:table_number", h.GetTableByNumber)
	r.PUT("/tables/:table_number", h.UpdateTable)
	r.DELETE("/tables/:table_number", h.DeleteTable)
	return r
}

func TestCreateTable_Success(t *testing.T) {
	r := newTableTestRouter(&fakeTableService{
		created: &services.TableResponse{
			Table:     models.Table{ID: 1, TableNumber: "T1", IsAvailable: true},
			AccessURL: "http://localhost:3000/tables/T1",
		},
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/tables", bytes.NewBufferString(`{"table_number":"T1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	var got services.TableResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "T1", got.TableNumber)
	assert.True(t, got.IsAvailable)
	assert.NotEmpty(t, got.AccessURL)
}

func TestCreateTable_DuplicateNumber(t *testing.T) {
	r := newTableTestRouter(&fakeTableService{createErr: services.ErrTableNumberExists})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/tables", bytes.NewBufferString(`{"table_number":"T1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestCreateTable_MissingNumber(t *testing.T) {
	r := newTableTestRouter(&fakeTableService{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/tables", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateTable_BlockedByOpenOrder(t *testing.T) {
	r := newTableTestRouter(&fakeTableService{updateErr: services.ErrTableHasOrders})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPut, "/tables/T1", bytes.NewBufferString(`{"is_available":true}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteTable_BlockedByOrders(t *testing.T) {
	r := newTableTestRouter(&fakeTableService{deleteErr: services.ErrTableHasOrders})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/tables/T1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDeleteTable_Success(t *testing.T) {
	svc := &fakeTableService{}
	r := newTableTestRouter(svc)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodDelete, "/tables/T3", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "T3", svc.deletedNum)
}

func TestGetTableByNumber_NotFound(t *testing.T) {
	r := newTableTestRouter(&fakeTableService{tableErr: services.ErrTableNotFound})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/tables/T9", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
