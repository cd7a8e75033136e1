package services_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"secure-shop/audit"
	"secure-shop/models"
	"secure-shop/services"
)

// memStore is an in-memory implementation of the store interfaces, guarded by
// one mutex so the conditional stock decrement is atomic the way the Mongo
// update is.
type memStore struct {
	mu       sync.Mutex
	products map[primitive.ObjectID]models.Product
	carts    map[primitive.ObjectID]models.Cart
	orders   []models.Order

	insertOrderErr error
	clearCartErr   error
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[primitive.ObjectID]models.Product),
		carts:    make(map[primitive.ObjectID]models.Cart),
	}
}

// --- ProductStore -----------------------------------------------------------

func (m *memStore) FindByID(_ context.Context, id primitive.ObjectID) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (m *memStore) FindAll(_ context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, nil
}

func (m *memStore) Count(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.products)), nil
}

func (m *memStore) Insert(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.ID = primitive.NewObjectID()
	m.products[p.ID] = *p
	return nil
}

func (m *memStore) Update(_ context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[p.ID]; !ok {
		return models.ErrNotFound
	}
	m.products[p.ID] = *p
	return nil
}

func (m *memStore) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return models.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

func (m *memStore) DecrementStock(_ context.Context, id primitive.ObjectID, qty int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok || p.Stock < qty {
		return false, nil
	}
	p.Stock -= qty
	m.products[id] = p
	return true, nil
}

func (m *memStore) IncrementStock(_ context.Context, id primitive.ObjectID, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return models.ErrNotFound
	}
	p.Stock += qty
	m.products[id] = p
	return nil
}

// --- CartStore --------------------------------------------------------------

func (m *memStore) FindByUser(_ context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	cart.Items = items
	return &cart, nil
}

func (m *memStore) Save(_ context.Context, cart *models.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	items := make([]models.CartItem, len(cart.Items))
	copy(items, cart.Items)
	stored := *cart
	stored.Items = items
	m.carts[cart.UserID] = stored
	return nil
}

func (m *memStore) Clear(_ context.Context, userID primitive.ObjectID) error {
	if m.clearCartErr != nil {
		return m.clearCartErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cart, ok := m.carts[userID]
	if !ok {
		return nil
	}
	cart.Items = []models.CartItem{}
	m.carts[userID] = cart
	return nil
}

// --- OrderStore -------------------------------------------------------------

func (m *memStore) InsertOrder(_ context.Context, order *models.Order) error {
	if m.insertOrderErr != nil {
		return m.insertOrderErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order.ID = primitive.NewObjectID()
	m.orders = append(m.orders, *order)
	return nil
}

func (m *memStore) FindOrderByID(_ context.Context, id primitive.ObjectID) (*models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, order := range m.orders {
		if order.ID == id {
			o := order
			return &o, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *memStore) FindOrdersByUser(_ context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, order := range m.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (m *memStore) FindAllOrders(_ context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Order, len(m.orders))
	copy(out, m.orders)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})
	return out, nil
}

func (m *memStore) UpdateOrderStatus(_ context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, order := range m.orders {
		if order.ID == id {
			m.orders[i].Status = status
			return nil
		}
	}
	return models.ErrNotFound
}

func (m *memStore) CountOrders(_ context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.orders)), nil
}

// memOrders adapts memStore to services.OrderStore; the method names differ
// from the product methods sharing the struct.
type memOrders struct{ *memStore }

func (m memOrders) Insert(ctx context.Context, o *models.Order) error { return m.InsertOrder(ctx, o) }
func (m memOrders) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return m.FindOrderByID(ctx, id)
}
func (m memOrders) FindByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return m.FindOrdersByUser(ctx, userID)
}
func (m memOrders) FindAll(ctx context.Context) ([]models.Order, error) {
	return m.FindAllOrders(ctx)
}
func (m memOrders) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) error {
	return m.UpdateOrderStatus(ctx, id, status)
}
func (m memOrders) Count(ctx context.Context) (int64, error) { return m.CountOrders(ctx) }

// --- fixtures ---------------------------------------------------------------

type fixture struct {
	store    *memStore
	sink     *audit.CaptureSink
	orders   *services.OrderService
	catalog  *services.CatalogService
	dash     *services.AnalyticsService
	recorder *audit.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	sink := &audit.CaptureSink{}
	recorder := audit.NewRecorder(sink)
	return &fixture{
		store:    store,
		sink:     sink,
		recorder: recorder,
		orders:   services.NewOrderService(store, store, memOrders{store}, recorder),
		catalog:  services.NewCatalogService(store, recorder),
		dash:     services.NewAnalyticsService(store, memOrders{store}),
	}
}

func (f *fixture) addProduct(t *testing.T, name string, price float64, stock int, category string) primitive.ObjectID {
	t.Helper()
	p := models.Product{Name: name, Price: price, Stock: stock, Category: category, CreatedAt: time.Now().UTC()}
	if err := f.store.Insert(context.Background(), &p); err != nil {
		t.Fatalf("insert product %s: %v", name, err)
	}
	return p.ID
}

func (f *fixture) addCartLine(t *testing.T, userID, productID primitive.ObjectID, qty int) {
	t.Helper()
	if _, err := f.orders.AddToCart(context.Background(), userID, productID, qty); err != nil {
		t.Fatalf("add to cart: %v", err)
	}
}

func (f *fixture) stockOf(t *testing.T, id primitive.ObjectID) int {
	t.Helper()
	p, err := f.store.FindByID(context.Background(), id)
	if err != nil {
		t.Fatalf("find product: %v", err)
	}
	return p.Stock
}

func (f *fixture) addOrder(total float64, ts time.Time, items ...models.OrderItem) {
	f.store.orders = append(f.store.orders, models.Order{
		ID:         primitive.NewObjectID(),
		UserID:     primitive.NewObjectID(),
		Items:      items,
		OrderTotal: total,
		Status:     models.StatusPaid,
		Timestamp:  ts,
	})
}

func findAuditAction(entries []audit.Entry, action string) (audit.Entry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return audit.Entry{}, false
}
