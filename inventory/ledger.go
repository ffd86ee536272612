// Package inventory is the stock ledger: per-product on-hand quantity with an
// advisory reorder threshold.
package inventory

import (
	"github.com/it21816772/neon---pos/common"
	"github.com/it21816772/neon---pos/storage"
)

// Ledger exposes inventory reads, administrative updates and the atomic
// decrement used by the order transaction.
type Ledger struct {
	store storage.Store
}

func NewLedger(store storage.Store) *Ledger {
	return &Ledger{store: store}
}

func (l *Ledger) Get(productID string) (common.Inventory, error) {
	return l.store.GetInventory(productID)
}

func (l *Ledger) List() ([]common.Inventory, error) {
	return l.store.ListInventory()
}

// Update applies an administrative stock adjustment outside the order path.
func (l *Ledger) Update(productID string, upd storage.InventoryUpdate) (common.Inventory, error) {
	if upd.Quantity != nil && *upd.Quantity < 0 {
		return common.Inventory{}, &common.InvalidInputError{Reason: "quantity cannot be negative"}
	}
	if upd.MinStock != nil && *upd.MinStock < 0 {
		return common.Inventory{}, &common.InvalidInputError{Reason: "min_stock cannot be negative"}
	}
	return l.store.UpdateInventory(productID, upd)
}

// Decrement subtracts qty from the product's stock inside the caller's
// transaction. It never commits independently: the write becomes visible only
// when the surrounding transaction commits.
func (l *Ledger) Decrement(tx storage.Tx, productID string, qty int64) (common.Inventory, error) {
	if qty < 1 {
		return common.Inventory{}, &common.InvalidInputError{Reason: "decrement quantity must be at least 1"}
	}
	return tx.DecrementStock(productID, qty)
}
