package orders

import (
	"github.com/it21816772/neon---pos/common"
	"github.com/it21816772/neon---pos/storage"
)

// Query is the read side of the order service. It carries no business logic.
type Query struct {
	store storage.Store
}

func NewQuery(store storage.Store) *Query {
	return &Query{store: store}
}

// List returns persisted orders newest first.
func (q *Query) List() ([]common.Order, error) {
	return q.store.ListOrders()
}

// Get returns one order with items, products, buyer and receipts populated.
func (q *Query) Get(id string) (common.Order, error) {
	return q.store.GetOrder(id)
}
