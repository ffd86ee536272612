package storage

import (
	"github.com/it21816772/neon---pos/common"
)

// InventoryUpdate is a partial administrative update; nil fields are left
// untouched.
type InventoryUpdate struct {
	Quantity *int64
	MinStock *int64
}

// Tx is the write side of one atomic order transaction. Every call either
// commits together with the rest of the transaction or not at all; a Tx never
// commits independently mid-transaction.
type Tx interface {
	// CreateOrder persists the order header together with its items.
	CreateOrder(order *common.Order) error
	// DecrementStock atomically subtracts qty from the product's inventory
	// and returns the updated row. Fails with common.NotFoundError when no
	// inventory record exists and common.InsufficientStockError when qty
	// exceeds the current quantity.
	DecrementStock(productID string, qty int64) (common.Inventory, error)
}

// Store is the catalog/order persistence port shared by the in-memory and
// GORM implementations.
type Store interface {
	// ProductsWithInventory loads the requested products with their
	// inventory and category in one read, keyed by product id. Missing ids
	// are simply absent from the result.
	ProductsWithInventory(ids []string) (map[string]common.Product, error)
	ListProducts() ([]common.Product, error)

	ListInventory() ([]common.Inventory, error)
	GetInventory(productID string) (common.Inventory, error)
	UpdateInventory(productID string, upd InventoryUpdate) (common.Inventory, error)

	ListOrders() ([]common.Order, error)
	GetOrder(id string) (common.Order, error)

	CreateReceipt(r *common.Receipt) error

	// WithinTx runs fn inside one atomic transaction. If fn returns an
	// error every write staged through the Tx is rolled back.
	WithinTx(fn func(tx Tx) error) error
}
