package services

import (
	"context"
	"sync"

	"github.com/shopswift/backend/models"
	"github.com/shopswift/backend/repository"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memStore is an in-memory stand-in for MongoDB shared by the repository
// mocks. The tx runner serializes transactions and restores a snapshot when
// the callback fails, matching the all-or-nothing semantics of the real
// session-based runner.
type memStore struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	users    map[primitive.ObjectID]*models.User
	products map[primitive.ObjectID]*models.Product
	carts    map[primitive.ObjectID]*models.Cart // keyed by user ID
	orders   map[primitive.ObjectID]*models.Order
}

func newMemStore() *memStore {
	return &memStore{
		users:    make(map[primitive.ObjectID]*models.User),
		products: make(map[primitive.ObjectID]*models.Product),
		carts:    make(map[primitive.ObjectID]*models.Cart),
		orders:   make(map[primitive.ObjectID]*models.Order),
	}
}

func (s *memStore) addProduct(p models.Product) primitive.ObjectID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	s.products[p.ID] = &p
	return p.ID
}

func (s *memStore) addCart(userID primitive.ObjectID, items []models.CartItem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[userID] = &models.Cart{
		ID:     primitive.NewObjectID(),
		UserID: userID,
		Items:  items,
	}
}

func (s *memStore) stock(id primitive.ObjectID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.products[id].StockQuantity
}

func copyCart(c *models.Cart) *models.Cart {
	dup := *c
	dup.Items = append([]models.CartItem(nil), c.Items...)
	return &dup
}

func copyOrder(o *models.Order) *models.Order {
	dup := *o
	dup.Items = append([]models.OrderItem(nil), o.Items...)
	return &dup
}

type snapshot struct {
	products map[primitive.ObjectID]*models.Product
	carts    map[primitive.ObjectID]*models.Cart
	orders   map[primitive.ObjectID]*models.Order
}

func (s *memStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		products: make(map[primitive.ObjectID]*models.Product, len(s.products)),
		carts:    make(map[primitive.ObjectID]*models.Cart, len(s.carts)),
		orders:   make(map[primitive.ObjectID]*models.Order, len(s.orders)),
	}
	for id, p := range s.products {
		dup := *p
		snap.products[id] = &dup
	}
	for id, c := range s.carts {
		snap.carts[id] = copyCart(c)
	}
	for id, o := range s.orders {
		snap.orders[id] = copyOrder(o)
	}
	return snap
}

func (s *memStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = snap.products
	s.carts = snap.carts
	s.orders = snap.orders
}

type memTxRunner struct {
	store *memStore
}

func (r *memTxRunner) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.store.txMu.Lock()
	defer r.store.txMu.Unlock()

	snap := r.store.snapshot()
	if err := fn(ctx); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

type memUserRepo struct {
	store *memStore
}

func (r *memUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for _, u := range r.store.users {
		if u.Email == email {
			dup := *u
			return &dup, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if u, ok := r.store.users[id]; ok {
		dup := *u
		return &dup, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) Create(ctx context.Context, user *models.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	dup := *user
	r.store.users[user.ID] = &dup
	return nil
}

type memProductRepo struct {
	store *memStore
}

func (r *memProductRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if p, ok := r.store.products[id]; ok {
		dup := *p
		return &dup, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memProductRepo) Find(ctx context.Context, query repository.ProductQuery) ([]models.Product, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Product
	for _, p := range r.store.products {
		if query.Category != "" && p.Category != query.Category {
			continue
		}
		out = append(out, *p)
	}
	return out, int64(len(out)), nil
}

func (r *memProductRepo) Create(ctx context.Context, product *models.Product) error {
	product.ID = r.store.addProduct(*product)
	return nil
}

func (r *memProductRepo) Update(ctx context.Context, id primitive.ObjectID, updates map[string]interface{}) (*models.Product, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if v, ok := updates["price"].(float64); ok {
		p.Price = v
	}
	if v, ok := updates["stock_quantity"].(int); ok {
		p.StockQuantity = v
	}
	if v, ok := updates["name"].(string); ok {
		p.Name = v
	}
	dup := *p
	return &dup, nil
}

func (r *memProductRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.products[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.store.products, id)
	return nil
}

func (r *memProductRepo) DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	p, ok := r.store.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	if p.StockQuantity < quantity {
		return repository.ErrInsufficientStock
	}
	p.StockQuantity -= quantity
	return nil
}

type memCartRepo struct {
	store *memStore
}

func (r *memCartRepo) FindByUser(ctx context.Context, userID primitive.ObjectID) (*models.Cart, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if c, ok := r.store.carts[userID]; ok {
		return copyCart(c), nil
	}
	return nil, repository.ErrNotFound
}

func (r *memCartRepo) Upsert(ctx context.Context, cart *models.Cart) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if cart.ID.IsZero() {
		cart.ID = primitive.NewObjectID()
	}
	r.store.carts[cart.UserID] = copyCart(cart)
	return nil
}

type memOrderRepo struct {
	store *memStore
}

func (r *memOrderRepo) Create(ctx context.Context, order *models.Order) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if order.ID.IsZero() {
		order.ID = primitive.NewObjectID()
	}
	r.store.orders[order.ID] = copyOrder(order)
	return nil
}

func (r *memOrderRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if o, ok := r.store.orders[id]; ok {
		return copyOrder(o), nil
	}
	return nil, repository.ErrNotFound
}

func (r *memOrderRepo) FindByUser(ctx context.Context, userID primitive.ObjectID, page, limit int) ([]models.Order, int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	var out []models.Order
	for _, o := range r.store.orders {
		if o.UserID == userID {
			out = append(out, *copyOrder(o))
		}
	}
	return out, int64(len(out)), nil
}

func (r *memOrderRepo) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.OrderStatus) (*models.Order, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	o, ok := r.store.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	o.Status = status
	return copyOrder(o), nil
}

// fakeCache records writes and always misses on reads, so tests exercise the
// store paths while still asserting invalidation happened.
type fakeCache struct {
	mu              sync.Mutex
	deletedCarts    []string
	deletedProducts []string
	setOrders       []string
	listsInvalid    int
}

func (c *fakeCache) GetCart(ctx context.Context, userID string) (*models.CartDetail, bool) {
	return nil, false
}
func (c *fakeCache) SetCart(ctx context.Context, userID string, cart *models.CartDetail) {}
func (c *fakeCache) DeleteCart(ctx context.Context, userID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletedCarts = append(c.deletedCarts, userID)
}

func (c *fakeCache) GetProduct(ctx context.Context, productID string) (*models.Product, bool) {
	return nil, false
}
func (c *fakeCache) SetProduct(ctx context.Context, productID string, product *models.Product) {}
func (c *fakeCache) DeleteProduct(ctx context.Context, productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deletedProducts = append(c.deletedProducts, productID)
}

func (c *fakeCache) GetProductList(ctx context.Context, query repository.ProductQuery) (*models.ProductList, bool) {
	return nil, false
}
func (c *fakeCache) SetProductList(ctx context.Context, query repository.ProductQuery, list *models.ProductList) {
}
func (c *fakeCache) InvalidateProductLists(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listsInvalid++
}

func (c *fakeCache) GetOrder(ctx context.Context, orderID string) (*models.Order, bool) {
	return nil, false
}
func (c *fakeCache) SetOrder(ctx context.Context, order *models.Order) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setOrders = append(c.setOrders, order.ID.Hex())
}

// servingCache is a fakeCache that additionally stores and serves order
// entries, for tests that need to exercise the cache-hit paths.
type servingCache struct {
	fakeCache
	ordersMu sync.Mutex
	orders   map[string]*models.Order
}

func newServingCache() *servingCache {
	return &servingCache{orders: make(map[string]*models.Order)}
}

func (c *servingCache) GetOrder(ctx context.Context, orderID string) (*models.Order, bool) {
	c.ordersMu.Lock()
	defer c.ordersMu.Unlock()
	if o, ok := c.orders[orderID]; ok {
		return copyOrder(o), true
	}
	return nil, false
}

func (c *servingCache) SetOrder(ctx context.Context, order *models.Order) {
	c.ordersMu.Lock()
	defer c.ordersMu.Unlock()
	c.orders[order.ID.Hex()] = copyOrder(order)
}

func (c *servingCache) evictOrder(orderID string) {
	c.ordersMu.Lock()
	defer c.ordersMu.Unlock()
	delete(c.orders, orderID)
}

type fakePublisher struct {
	mu     sync.Mutex
	orders []*models.Order
	err    error
}

func (p *fakePublisher) OrderCreated(ctx context.Context, order *models.Order) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.orders = append(p.orders, order)
	return nil
}
