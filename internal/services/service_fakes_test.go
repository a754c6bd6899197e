package services

import (
	"database/sql"
	"testing"
	"time"

	"tableside_backend/internal/models"
	"tableside_backend/internal/repositories"

	"github.com/shopspring/decimal"
)

// In-memory stand-ins for the database and the repositories. The repositories
// ignore the executor argument; the fake transaction only records the control
// statements issued against it.

type fakeTx struct {
	execs      []string
	committed  bool
	rolledBack bool
}

func (t *fakeTx) Exec(query string, args ...interface{}) (sql.Result, error) {
	t.execs = append(t.execs, query)
	return nil, nil
}

func (t *fakeTx) QueryRow(query string, args ...interface{}) *sql.Row { return nil }

func (t *fakeTx) Query(query string, args ...interface{}) (*sql.Rows, error) { return nil, nil }

func (t *fakeTx) Commit() error {
	t.committed = true
	return nil
}

func (t *fakeTx) Rollback() error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

type fakeDatabase struct {
	txs []*fakeTx
}

func (d *fakeDatabase) Begin() (Tx, error) {
	tx := &fakeTx{}
	d.txs = append(d.txs, tx)
	return tx, nil
}

func (d *fakeDatabase) Exec(query string, args ...interface{}) (sql.Result, error) {
	return nil, nil
}

func (d *fakeDatabase) QueryRow(query string, args ...interface{}) *sql.Row { return nil }

func (d *fakeDatabase) Query(query string, args ...interface{}) (*sql.Rows, error) {
	return nil, nil
}

func (d *fakeDatabase) lastTx() *fakeTx {
	if len(d.txs) == 0 {
		return nil
	}
	return d.txs[len(d.txs)-1]
}

// --- Table repository ---

type fakeTableRepo struct {
	nextID               int64
	tables               map[int64]*models.Table
	setAvailabilityCalls int
	blockingOrders       bool
}

func newFakeTableRepo() *fakeTableRepo {
	return &fakeTableRepo{tables: map[int64]*models.Table{}}
}

func (r *fakeTableRepo) CreateTable(_ repositories.SQLExecutor, table *models.Table) (int64, error) {
	for _, t := range r.tables {
		if t.TableNumber == table.TableNumber {
			return 0, repositories.ErrDuplicateKey
		}
	}
	r.nextID++
	table.ID = r.nextID
	c := *table
	r.tables[table.ID] = &c
	return table.ID, nil
}

func (r *fakeTableRepo) byNumber(tableNumber string) (*models.Table, error) {
	for _, t := range r.tables {
		if t.TableNumber == tableNumber {
			c := *t
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeTableRepo) GetTableByNumber(_ repositories.SQLExecutor, tableNumber string) (*models.Table, error) {
	return r.byNumber(tableNumber)
}

func (r *fakeTableRepo) GetTableByNumberForUpdate(_ repositories.SQLExecutor, tableNumber string) (*models.Table, error) {
	return r.byNumber(tableNumber)
}

func (r *fakeTableRepo) GetTables() ([]models.Table, error) {
	var out []models.Table
	for _, t := range r.tables {
		out = append(out, *t)
	}
	return out, nil
}

func (r *fakeTableRepo) UpdateTable(_ repositories.SQLExecutor, table *models.Table) error {
	stored, ok := r.tables[table.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	*stored = *table
	return nil
}

func (r *fakeTableRepo) DeleteTable(_ repositories.SQLExecutor, tableNumber string) error {
	for id, t := range r.tables {
		if t.TableNumber == tableNumber {
			delete(r.tables, id)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeTableRepo) SetAvailability(_ repositories.SQLExecutor, tableID int64, available bool) error {
	stored, ok := r.tables[tableID]
	if !ok {
		return repositories.ErrNotFound
	}
	r.setAvailabilityCalls++
	stored.IsAvailable = available
	return nil
}

func (r *fakeTableRepo) HasBlockingOrders(_ repositories.SQLExecutor, tableID int64) (bool, error) {
	return r.blockingOrders, nil
}

// --- Menu repository ---

type fakeMenuRepo struct {
	nextID int64
	items  map[int64]*models.MenuItem
}

func newFakeMenuRepo() *fakeMenuRepo {
	return &fakeMenuRepo{items: map[int64]*models.MenuItem{}}
}

func (r *fakeMenuRepo) CreateItem(_ repositories.SQLExecutor, item *models.MenuItem) (int64, error) {
	r.nextID++
	item.ID = r.nextID
	c := *item
	r.items[item.ID] = &c
	return item.ID, nil
}

func (r *fakeMenuRepo) GetItemByID(_ repositories.SQLExecutor, itemID int64) (*models.MenuItem, error) {
	item, ok := r.items[itemID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	c := *item
	return &c, nil
}

func (r *fakeMenuRepo) GetAvailableItemByID(_ repositories.SQLExecutor, itemID int64) (*models.MenuItem, error) {
	item, ok := r.items[itemID]
	if !ok || !item.IsAvailable {
		return nil, repositories.ErrNotFound
	}
	c := *item
	return &c, nil
}

func (r *fakeMenuRepo) GetItems(availableOnly bool) ([]models.MenuItem, error) {
	var out []models.MenuItem
	for _, item := range r.items {
		if availableOnly && !item.IsAvailable {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (r *fakeMenuRepo) UpdateItem(_ repositories.SQLExecutor, item *models.MenuItem) error {
	stored, ok := r.items[item.ID]
	if !ok {
		return repositories.ErrNotFound
	}
	*stored = *item
	return nil
}

func (r *fakeMenuRepo) DeleteItem(_ repositories.SQLExecutor, itemID int64) error {
	if _, ok := r.items[itemID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, itemID)
	return nil
}

// --- Order repository ---

type fakeOrderRepo struct {
	nextOrderID int64
	nextItemID  int64
	orders      map[int64]*models.Order
	items       []*models.OrderItem
	tables      *fakeTableRepo

	// createOrderErr is returned by the next CreateOrder call, once.
	createOrderErr error
	// activeOrderMisses makes the next N active-order lookups report
	// ErrNotFound, simulating a concurrent placement that commits between the
	// lookup and the insert.
	activeOrderMisses int
}

func newFakeOrderRepo(tables *fakeTableRepo) *fakeOrderRepo {
	return &fakeOrderRepo{orders: map[int64]*models.Order{}, tables: tables}
}

func (r *fakeOrderRepo) cloneOrder(o *models.Order) *models.Order {
	c := *o
	c.Items = nil
	if t, ok := r.tables.tables[o.TableID]; ok {
		c.TableNumber = t.TableNumber
	}
	return &c
}

func (r *fakeOrderRepo) CreateOrder(_ repositories.SQLExecutor, order *models.Order) (int64, error) {
	if err := r.createOrderErr; err != nil {
		r.createOrderErr = nil
		return 0, err
	}
	r.nextOrderID++
	order.ID = r.nextOrderID
	c := *order
	r.orders[order.ID] = &c
	return order.ID, nil
}

func (r *fakeOrderRepo) getOrder(orderID int64) (*models.Order, error) {
	o, ok := r.orders[orderID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return r.cloneOrder(o), nil
}

func (r *fakeOrderRepo) GetOrderByID(_ repositories.SQLExecutor, orderID int64) (*models.Order, error) {
	return r.getOrder(orderID)
}

func (r *fakeOrderRepo) GetOrderByIDForUpdate(_ repositories.SQLExecutor, orderID int64) (*models.Order, error) {
	return r.getOrder(orderID)
}

func (r *fakeOrderRepo) activeOrder(tableID int64) (*models.Order, error) {
	if r.activeOrderMisses > 0 {
		r.activeOrderMisses--
		return nil, repositories.ErrNotFound
	}
	for _, o := range r.orders {
		if o.TableID == tableID && o.Status != StatusCompleted {
			return r.cloneOrder(o), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeOrderRepo) GetActiveOrderByTableID(_ repositories.SQLExecutor, tableID int64) (*models.Order, error) {
	return r.activeOrder(tableID)
}

func (r *fakeOrderRepo) GetActiveOrderByTableIDForUpdate(_ repositories.SQLExecutor, tableID int64) (*models.Order, error) {
	return r.activeOrder(tableID)
}

func (r *fakeOrderRepo) unpaidOrder(tableID int64) (*models.Order, error) {
	for _, o := range r.orders {
		if o.TableID == tableID && !o.IsPaid {
			return r.cloneOrder(o), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeOrderRepo) GetUnpaidOrderByTableID(_ repositories.SQLExecutor, tableID int64) (*models.Order, error) {
	return r.unpaidOrder(tableID)
}

func (r *fakeOrderRepo) GetUnpaidOrderByTableIDForUpdate(_ repositories.SQLExecutor, tableID int64) (*models.Order, error) {
	return r.unpaidOrder(tableID)
}

func (r *fakeOrderRepo) GetOrders(filters models.OrderFilters) ([]models.Order, int, error) {
	var out []models.Order
	for _, o := range r.orders {
		out = append(out, *r.cloneOrder(o))
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) UpdateOrderStatus(_ repositories.SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	o, ok := r.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Status = newStatus
	o.UpdatedAt = updatedAt
	return nil
}

func (r *fakeOrderRepo) MarkOrderPaid(_ repositories.SQLExecutor, orderID int64, newStatus string, updatedAt time.Time) error {
	o, ok := r.orders[orderID]
	if !ok {
		return repositories.ErrNotFound
	}
	o.IsPaid = true
	o.Status = newStatus
	o.UpdatedAt = updatedAt
	return nil
}

func (r *fakeOrderRepo) UpsertOrderItem(_ repositories.SQLExecutor, item *models.OrderItem) (int64, error) {
	for _, existing := range r.items {
		if existing.OrderID == item.OrderID && existing.MenuItemID == item.MenuItemID {
			// Conflict path adds the quantity; the locked price stays.
			existing.Quantity += item.Quantity
			existing.UpdatedAt = time.Now()
			item.ID = existing.ID
			item.Quantity = existing.Quantity
			item.Price = existing.Price
			return existing.ID, nil
		}
	}
	r.nextItemID++
	item.ID = r.nextItemID
	c := *item
	r.items = append(r.items, &c)
	return item.ID, nil
}

func (r *fakeOrderRepo) GetOrderItemsByOrderID(_ repositories.SQLExecutor, orderID int64) ([]models.OrderItem, error) {
	var out []models.OrderItem
	for _, item := range r.items {
		if item.OrderID == orderID {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) GetOrderItemByID(_ repositories.SQLExecutor, itemID int64) (*models.OrderItem, error) {
	for _, item := range r.items {
		if item.ID == itemID {
			c := *item
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (r *fakeOrderRepo) UpdateOrderItemQuantity(_ repositories.SQLExecutor, itemID int64, quantity int, updatedAt time.Time) error {
	for _, item := range r.items {
		if item.ID == itemID {
			item.Quantity = quantity
			item.UpdatedAt = updatedAt
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (r *fakeOrderRepo) DeleteOrderItem(_ repositories.SQLExecutor, itemID int64) error {
	for i, item := range r.items {
		if item.ID == itemID {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return nil
		}
	}
	return repositories.ErrNotFound
}

// --- Fixture ---

// lifecycleFixture wires the order and payment services over the in-memory
// repositories, seeded with table "T1" and two menu items.
type lifecycleFixture struct {
	db         *fakeDatabase
	tableRepo  *fakeTableRepo
	menuRepo   *fakeMenuRepo
	orderRepo  *fakeOrderRepo
	orderSvc   OrderService
	paymentSvc PaymentService

	table      *models.Table
	margherita *models.MenuItem
	lemonade   *models.MenuItem
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	db := &fakeDatabase{}
	tableRepo := newFakeTableRepo()
	menuRepo := newFakeMenuRepo()
	orderRepo := newFakeOrderRepo(tableRepo)

	table := &models.Table{TableNumber: "T1", IsAvailable: true}
	if _, err := tableRepo.CreateTable(nil, table); err != nil {
		t.Fatalf("seed table: %v", err)
	}

	margherita := &models.MenuItem{Name: "Margherita", Price: decimal.RequireFromString("9.50"), IsAvailable: true}
	lemonade := &models.MenuItem{Name: "Lemonade", Price: decimal.RequireFromString("3.00"), IsAvailable: true}
	for _, item := range []*models.MenuItem{margherita, lemonade} {
		if _, err := menuRepo.CreateItem(nil, item); err != nil {
			t.Fatalf("seed menu item: %v", err)
		}
	}

	orderSvc := NewOrderService(orderRepo, tableRepo, menuRepo, db)
	paymentSvc := NewPaymentService(orderRepo, tableRepo, orderSvc, db)

	return &lifecycleFixture{
		db:         db,
		tableRepo:  tableRepo,
		menuRepo:   menuRepo,
		orderRepo:  orderRepo,
		orderSvc:   orderSvc,
		paymentSvc: paymentSvc,
		table:      table,
		margherita: margherita,
		lemonade:   lemonade,
	}
}

func (f *lifecycleFixture) storedTable(t *testing.T) *models.Table {
	t.Helper()
	stored, ok := f.tableRepo.tables[f.table.ID]
	if !ok {
		t.Fatalf("table %d not in repository", f.table.ID)
	}
	return stored
}
