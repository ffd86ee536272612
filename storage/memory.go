package storage

import (
	"sync"
	"time"

	"github.com/it21816772/neon---pos/common"
)

// MemoryStore is an in-memory Store used for standalone terminals and tests.
// A single mutex guards all state; WithinTx holds it for the whole
// transaction and stages writes that are applied only when the callback
// succeeds, so a failed transaction leaves nothing behind.
type MemoryStore struct {
	mu sync.RWMutex

	categories map[string]common.Category
	products   map[string]common.Product
	inventory  map[string]common.Inventory // keyed by product id
	users      map[string]common.User
	orders     map[string]common.Order
	orderIDs   []string // insertion order, oldest first
	receipts   map[string][]common.Receipt
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		categories: make(map[string]common.Category),
		products:   make(map[string]common.Product),
		inventory:  make(map[string]common.Inventory),
		users:      make(map[string]common.User),
		orders:     make(map[string]common.Order),
		receipts:   make(map[string][]common.Receipt),
	}
}

// AddCategory inserts or replaces a category.
func (s *MemoryStore) AddCategory(c common.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.ID] = c
}

// AddProduct inserts or replaces a product and its inventory record.
func (s *MemoryStore) AddProduct(p common.Product, quantity, minStock int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p.Inventory = nil
	p.Category = nil
	s.products[p.ID] = p
	s.inventory[p.ID] = common.Inventory{
		ID:        "inv-" + p.ID,
		ProductID: p.ID,
		Quantity:  quantity,
		MinStock:  minStock,
	}
}

// AddUser inserts or replaces a user.
func (s *MemoryStore) AddUser(u common.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// productView returns a detached copy of the product with its category and
// inventory populated.
func (s *MemoryStore) productView(id string) (common.Product, bool) {
	p, ok := s.products[id]
	if !ok {
		return common.Product{}, false
	}
	if c, ok := s.categories[p.CategoryID]; ok {
		cc := c
		p.Category = &cc
	}
	if inv, ok := s.inventory[id]; ok {
		ii := inv
		p.Inventory = &ii
	}
	return p, true
}

func (s *MemoryStore) ProductsWithInventory(ids []string) (map[string]common.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make(map[string]common.Product, len(ids))
	for _, id := range ids {
		if p, ok := s.productView(id); ok {
			res[id] = p
		}
	}
	return res, nil
}

func (s *MemoryStore) ListProducts() ([]common.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]common.Product, 0, len(s.products))
	for id := range s.products {
		p, _ := s.productView(id)
		res = append(res, p)
	}
	return res, nil
}

func (s *MemoryStore) ListInventory() ([]common.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res := make([]common.Inventory, 0, len(s.inventory))
	for _, inv := range s.inventory {
		res = append(res, inv)
	}
	return res, nil
}

func (s *MemoryStore) GetInventory(productID string) (common.Inventory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	inv, ok := s.inventory[productID]
	if !ok {
		return common.Inventory{}, &common.NotFoundError{Kind: "inventory", ID: productID}
	}
	return inv, nil
}

func (s *MemoryStore) UpdateInventory(productID string, upd InventoryUpdate) (common.Inventory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inv, ok := s.inventory[productID]
	if !ok {
		return common.Inventory{}, &common.NotFoundError{Kind: "inventory", ID: productID}
	}
	if upd.Quantity != nil {
		inv.Quantity = *upd.Quantity
	}
	if upd.MinStock != nil {
		inv.MinStock = *upd.MinStock
	}
	s.inventory[productID] = inv
	return inv, nil
}

// orderView returns a detached copy of the order with products, buyer and
// receipts populated.
func (s *MemoryStore) orderView(o common.Order) common.Order {
	items := make([]common.OrderItem, len(o.Items))
	copy(items, o.Items)
	for i := range items {
		if p, ok := s.productView(items[i].ProductID); ok {
			p.Inventory = nil
			pp := p
			items[i].Product = &pp
		}
	}
	o.Items = items

	if u, ok := s.users[o.UserID]; ok {
		uu := u
		o.User = &uu
	}
	if rs, ok := s.receipts[o.ID]; ok {
		o.Receipts = make([]common.Receipt, len(rs))
		copy(o.Receipts, rs)
	}
	return o
}

func (s *MemoryStore) ListOrders() ([]common.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Newest first. Insertion order tracks creation time.
	res := make([]common.Order, 0, len(s.orderIDs))
	for i := len(s.orderIDs) - 1; i >= 0; i-- {
		res = append(res, s.orderView(s.orders[s.orderIDs[i]]))
	}
	return res, nil
}

func (s *MemoryStore) GetOrder(id string) (common.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return common.Order{}, &common.NotFoundError{Kind: "order", ID: id}
	}
	return s.orderView(o), nil
}

func (s *MemoryStore) CreateReceipt(r *common.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[r.OrderID]; !ok {
		return &common.NotFoundError{Kind: "order", ID: r.OrderID}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now().UTC()
	}
	s.receipts[r.OrderID] = append(s.receipts[r.OrderID], *r)
	return nil
}

func (s *MemoryStore) WithinTx(fn func(tx Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &memoryTx{
		store: s,
		stock: make(map[string]common.Inventory),
	}
	if err := fn(tx); err != nil {
		// Staged writes are discarded; nothing reached the store.
		return err
	}

	for id, inv := range tx.stock {
		s.inventory[id] = inv
	}
	for _, o := range tx.orders {
		s.orders[o.ID] = o
		s.orderIDs = append(s.orderIDs, o.ID)
	}
	return nil
}

// memoryTx stages writes while the store mutex is held by WithinTx. Reads go
// through the staged state first so a transaction observes its own writes.
type memoryTx struct {
	store  *MemoryStore
	orders []common.Order
	stock  map[string]common.Inventory
}

func (t *memoryTx) CreateOrder(order *common.Order) error {
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now().UTC()
	}
	o := *order
	o.Items = make([]common.OrderItem, len(order.Items))
	copy(o.Items, order.Items)
	o.User = nil
	o.Receipts = nil
	for i := range o.Items {
		o.Items[i].Product = nil
	}
	t.orders = append(t.orders, o)
	return nil
}

func (t *memoryTx) DecrementStock(productID string, qty int64) (common.Inventory, error) {
	inv, ok := t.stock[productID]
	if !ok {
		inv, ok = t.store.inventory[productID]
		if !ok {
			return common.Inventory{}, &common.NotFoundError{Kind: "inventory", ID: productID}
		}
	}
	if qty > inv.Quantity {
		name := ""
		if p, ok := t.store.products[productID]; ok {
			name = p.Name
		}
		return common.Inventory{}, &common.InsufficientStockError{
			ProductID:   productID,
			ProductName: name,
			Requested:   qty,
			Available:   inv.Quantity,
		}
	}
	inv.Quantity -= qty
	t.stock[productID] = inv
	return inv, nil
}
