package store

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/sportsequipment/shopclient/lib/mylog"
	"github.com/sportsequipment/shopclient/lib/mypublisher"
	"github.com/sportsequipment/shopclient/services/cart/cartevents"
)

// Item is one product-quantity pair within the cart aggregate.
type Item struct {
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Image     string          `json:"image"`
	Quantity  int             `json:"quantity"`
}

func (i Item) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Product is the projection of a catalog product the cart cares about.
type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
	Image string
}

// CartStore is the tab-local cache of the server's last-known cart state.
// It is not a source of truth: callers issue the matching remote call and
// reconcile the result in here. Mutations serialize behind one mutex,
// last writer wins.
type CartStore struct {
	sync.Mutex
	items     map[int64]Item
	order     []int64
	loading   bool
	lastError string
	publisher mypublisher.Publisher
	logger    mylog.Logger
}

func New(publisher mypublisher.Publisher) *CartStore {
	return &CartStore{
		items:     map[int64]Item{},
		publisher: publisher,
		logger:    mylog.New("cartstore"),
	}
}

// SetItems replaces the whole aggregate with the server's view.
func (s *CartStore) SetItems(c context.Context, items []Item) {
	s.mutate(c, func() {
		s.items = map[int64]Item{}
		s.order = nil
		for _, item := range items {
			_, exists := s.items[item.ProductID]
			if !exists {
				s.order = append(s.order, item.ProductID)
			}
			s.items[item.ProductID] = item
		}
	})
}

// Add puts a product in the cart, incrementing the quantity of an already
// present line instead of duplicating it.
func (s *CartStore) Add(c context.Context, product Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mutate(c, func() {
		existing, exists := s.items[product.ID]
		if exists {
			existing.Quantity += quantity
			s.items[product.ID] = existing

			return
		}

		s.items[product.ID] = Item{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Image:     product.Image,
			Quantity:  quantity,
		}
		s.order = append(s.order, product.ID)
	})
}

func (s *CartStore) UpdateQuantity(c context.Context, productID int64, quantity int) {
	if quantity < 1 {
		s.logger.Log(c, "cart", mylog.SeverityWarn, "Ignoring non-positive quantity %d for product %d", quantity, productID)

		return
	}

	s.mutate(c, func() {
		item, exists := s.items[productID]
		if !exists {
			return
		}

		item.Quantity = quantity
		s.items[productID] = item
	})
}

// Remove of an unknown product is a no-op.
func (s *CartStore) Remove(c context.Context, productID int64) {
	s.mutate(c, func() {
		_, exists := s.items[productID]
		if !exists {
			return
		}

		delete(s.items, productID)
		remaining := make([]int64, 0, len(s.order))
		for _, uid := range s.order {
			if uid != productID {
				remaining = append(remaining, uid)
			}
		}
		s.order = remaining
	})
}

func (s *CartStore) Clear(c context.Context) {
	s.mutate(c, func() {
		s.items = map[int64]Item{}
		s.order = nil
	})
}

// SetError records a failed remote cart operation.
func (s *CartStore) SetError(c context.Context, message string) {
	s.Lock()
	s.lastError = message
	s.loading = false
	s.Unlock()
}

func (s *CartStore) Items() []Item {
	s.Lock()
	defer s.Unlock()

	result := make([]Item, 0, len(s.items))
	for _, uid := range s.order {
		result = append(result, s.items[uid])
	}

	return result
}

// TotalItems is recomputed on every read, never cached.
func (s *CartStore) TotalItems() int {
	s.Lock()
	defer s.Unlock()

	return s.totalItemsLocked()
}

func (s *CartStore) TotalPrice() decimal.Decimal {
	s.Lock()
	defer s.Unlock()

	return s.totalPriceLocked()
}

func (s *CartStore) Loading() bool {
	s.Lock()
	defer s.Unlock()

	return s.loading
}

func (s *CartStore) LastError() string {
	s.Lock()
	defer s.Unlock()

	return s.lastError
}

func (s *CartStore) totalItemsLocked() int {
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}

	return total
}

func (s *CartStore) totalPriceLocked() decimal.Decimal {
	total := decimal.Zero
	for _, item := range s.items {
		total = total.Add(item.LineTotal())
	}

	return total
}

// mutate runs one mutation to completion: flag loading, clear the previous
// error, apply, unflag. Observers are notified outside the lock so they can
// read the store.
func (s *CartStore) mutate(c context.Context, apply func()) {
	s.Lock()
	s.loading = true
	s.lastError = ""

	apply()

	s.loading = false
	totalItems := s.totalItemsLocked()
	totalPrice := s.totalPriceLocked()
	s.Unlock()

	err := s.publisher.Publish(c, cartevents.TopicName, cartevents.CartChanged{
		TotalItems: totalItems,
		TotalPrice: totalPrice.String(),
	})
	if err != nil {
		s.logger.Log(c, "cart", mylog.SeverityError, "Error publishing cart-changed: %s", err)
	}
}
