package services

import (
	"context"
	"database/sql"
	"sync"

	"marketplace-service/models"
	"marketplace-service/repository"
)

// fakeStore is an in-memory stand-in for the MySQL repos. Transact snapshots
// the state and restores it when the function fails, mirroring a rollback;
// transactions are serialized the way row locks serialize real checkouts.
type fakeStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	carts      map[int64]models.Cart // keyed by user id
	cartItems  map[int64][]models.CartItem
	products   map[int64]models.Product
	orders     map[int64]models.Order
	orderItems map[int64][]models.OrderItem
	cartSeq    int64
	orderSeq   int64
	itemSeq    int64
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		carts:      make(map[int64]models.Cart),
		cartItems:  make(map[int64][]models.CartItem),
		products:   make(map[int64]models.Product),
		orders:     make(map[int64]models.Order),
		orderItems: make(map[int64][]models.OrderItem),
	}
}

func (f *fakeStore) addProduct(p models.Product) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products[p.ID] = p
}

func (f *fakeStore) product(id int64) models.Product {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.products[id]
}

func (f *fakeStore) snapshot() *fakeStore {
	s := newFakeStore()
	for k, v := range f.carts {
		s.carts[k] = v
	}
	for k, v := range f.cartItems {
		s.cartItems[k] = append([]models.CartItem(nil), v...)
	}
	for k, v := range f.products {
		s.products[k] = v
	}
	for k, v := range f.orders {
		s.orders[k] = v
	}
	for k, v := range f.orderItems {
		s.orderItems[k] = append([]models.OrderItem(nil), v...)
	}
	s.cartSeq, s.orderSeq, s.itemSeq = f.cartSeq, f.orderSeq, f.itemSeq
	return s
}

func (f *fakeStore) restore(s *fakeStore) {
	f.carts = s.carts
	f.cartItems = s.cartItems
	f.products = s.products
	f.orders = s.orders
	f.orderItems = s.orderItems
	f.cartSeq, f.orderSeq, f.itemSeq = s.cartSeq, s.orderSeq, s.itemSeq
}

// cart repo

type fakeCartRepo struct{ s *fakeStore }

func (r fakeCartRepo) GetByUserID(_ context.Context, userID int64) (models.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cart, ok := r.s.carts[userID]
	if !ok {
		return models.Cart{}, sql.ErrNoRows
	}
	return cart, nil
}

func (r fakeCartRepo) Create(_ context.Context, userID int64) (models.Cart, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cartSeq++
	cart := models.Cart{ID: r.s.cartSeq, UserID: userID}
	r.s.carts[userID] = cart
	return cart, nil
}

func (r fakeCartRepo) GetLines(_ context.Context, cartID int64) ([]models.CartLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var lines []models.CartLine
	for _, item := range r.s.cartItems[cartID] {
		p := r.s.products[item.ProductID]
		lines = append(lines, models.CartLine{
			CartItem:        item,
			ProductName:     p.Name,
			ProductPrice:    p.Price,
			ProductImage:    p.Image,
			ProductStock:    p.Stock,
			ProductActive:   p.IsActive,
			ProductVendorID: p.VendorID,
		})
	}
	return lines, nil
}

func (r fakeCartRepo) GetItem(_ context.Context, cartID, productID int64) (models.CartItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, item := range r.s.cartItems[cartID] {
		if item.ProductID == productID {
			return item, nil
		}
	}
	return models.CartItem{}, sql.ErrNoRows
}

func (r fakeCartRepo) InsertItem(_ context.Context, item models.CartItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.itemSeq++
	item.ID = r.s.itemSeq
	r.s.cartItems[item.CartID] = append(r.s.cartItems[item.CartID], item)
	return nil
}

func (r fakeCartRepo) UpdateItem(_ context.Context, cartID, productID int64, quantity int, price float64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.cartItems[cartID]
	for i := range items {
		if items[i].ProductID == productID {
			items[i].Quantity = quantity
			items[i].Price = price
		}
	}
	return nil
}

func (r fakeCartRepo) DeleteItem(_ context.Context, cartID, productID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	items := r.s.cartItems[cartID][:0]
	for _, item := range r.s.cartItems[cartID] {
		if item.ProductID != productID {
			items = append(items, item)
		}
	}
	r.s.cartItems[cartID] = items
	return nil
}

func (r fakeCartRepo) ClearItems(_ context.Context, cartID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.cartItems[cartID] = nil
	return nil
}

// product repo

type fakeProductRepo struct{ s *fakeStore }

func (r fakeProductRepo) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.Lock()
	snap := r.s.snapshot()
	r.s.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.s.mu.Lock()
		r.s.restore(snap)
		r.s.mu.Unlock()
		return err
	}
	return nil
}

func (r fakeProductRepo) Create(_ context.Context, p models.Product) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = p
	return p.ID, nil
}

func (r fakeProductRepo) GetByID(_ context.Context, id int64) (models.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[id]
	if !ok {
		return models.Product{}, sql.ErrNoRows
	}
	return p, nil
}

func (r fakeProductRepo) List(_ context.Context, _ repository.ProductFilter) ([]models.Product, int, error) {
	return nil, 0, nil
}

func (r fakeProductRepo) Update(_ context.Context, p models.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.products[p.ID] = p
	return nil
}

func (r fakeProductRepo) Delete(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.products[id]
	delete(r.s.products, id)
	return ok, nil
}

func (r fakeProductRepo) DecrementStock(_ context.Context, productID int64, quantity int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[productID]
	if !ok || p.Stock < quantity {
		return false, nil
	}
	p.Stock -= quantity
	p.Sold += quantity
	r.s.products[productID] = p
	return true, nil
}

// order repo

type fakeOrderRepo struct{ s *fakeStore }

func (r fakeOrderRepo) Transact(ctx context.Context, fn func(ctx context.Context) error) error {
	r.s.txMu.Lock()
	defer r.s.txMu.Unlock()

	r.s.mu.Lock()
	snap := r.s.snapshot()
	r.s.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.s.mu.Lock()
		r.s.restore(snap)
		r.s.mu.Unlock()
		return err
	}
	return nil
}

func (r fakeOrderRepo) Create(_ context.Context, order models.Order) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.orders {
		if existing.OrderID == order.OrderID {
			return 0, sql.ErrTxDone // stand-in for a duplicate key failure
		}
	}
	r.s.orderSeq++
	order.ID = r.s.orderSeq
	r.s.orders[order.ID] = order
	return order.ID, nil
}

func (r fakeOrderRepo) InsertItems(_ context.Context, orderID int64, items []models.OrderItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for i := range items {
		items[i].OrderID = orderID
	}
	r.s.orderItems[orderID] = append([]models.OrderItem(nil), items...)
	return nil
}

func (r fakeOrderRepo) GetByID(_ context.Context, id int64) (models.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, ok := r.s.orders[id]
	if !ok {
		return models.Order{}, sql.ErrNoRows
	}
	order.Items = append([]models.OrderItem(nil), r.s.orderItems[id]...)
	return order, nil
}

func (r fakeOrderRepo) List(_ context.Context, f repository.OrderFilter) ([]models.Order, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var res []models.Order
	for id, order := range r.s.orders {
		order.Items = append([]models.OrderItem(nil), r.s.orderItems[id]...)
		if f.CustomerID != 0 && order.CustomerID != f.CustomerID {
			continue
		}
		if f.Status != "" && order.Status != f.Status {
			continue
		}
		if f.VendorID != 0 {
			found := false
			for _, item := range order.Items {
				if item.VendorID == f.VendorID {
					found = true
				}
			}
			if !found {
				continue
			}
		}
		res = append(res, order)
	}
	return res, len(res), nil
}

func (r fakeOrderRepo) UpdateStatus(_ context.Context, id int64, status string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, ok := r.s.orders[id]
	if !ok {
		return sql.ErrNoRows
	}
	order.Status = status
	r.s.orders[id] = order
	return nil
}

func (r fakeOrderRepo) CancelIfUnpaid(_ context.Context, id int64) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	order, ok := r.s.orders[id]
	if !ok || order.Status != models.OrderPending || order.PaymentStatus != models.PaymentPending {
		return false, nil
	}
	order.Status = models.OrderCancelled
	r.s.orders[id] = order
	return true, nil
}
