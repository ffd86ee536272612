// Package orders holds the order transaction coordinator and the read-side
// query service.
package orders

import (
	"context"
	"fmt"
	"log"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/it21816772/neon---pos/common"
	"github.com/it21816772/neon---pos/inventory"
	"github.com/it21816772/neon---pos/pricing"
	"github.com/it21816772/neon---pos/storage"
)

// Line is one requested product/quantity pair. Duplicate product ids are kept
// as independent lines, never merged.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

// SubmitRequest is the input to one order submission.
type SubmitRequest struct {
	BuyerID       string
	Lines         []Line
	CustomerEmail string
	PaymentMethod common.PaymentMethod // defaults to CASH
}

// Notifier receives best-effort post-commit events. Implementations must
// never fail the order path; publish errors are logged and swallowed.
type Notifier interface {
	OrderCompleted(ctx context.Context, order common.Order)
	LowStock(ctx context.Context, inv common.Inventory)
}

// Coordinator owns the order write path: it is the only component that
// persists orders and decrements stock, and it does both inside one atomic
// transaction.
type Coordinator struct {
	store    storage.Store
	ledger   *inventory.Ledger
	notifier Notifier
}

func NewCoordinator(store storage.Store, ledger *inventory.Ledger, notifier Notifier) *Coordinator {
	return &Coordinator{store: store, ledger: ledger, notifier: notifier}
}

// Submit validates the cart against a snapshot of the catalog, prices it, and
// persists the order plus per-line stock decrements as one atomic unit. On
// any failure nothing is written. Committed orders are COMPLETED immediately;
// payment is assumed settled before submission.
func (c *Coordinator) Submit(ctx context.Context, req SubmitRequest) (common.Order, error) {
	if err := validate(&req); err != nil {
		return common.Order{}, err
	}

	// One read of every referenced product with its inventory.
	ids := make([]string, 0, len(req.Lines))
	seen := make(map[string]bool, len(req.Lines))
	for _, l := range req.Lines {
		if !seen[l.ProductID] {
			seen[l.ProductID] = true
			ids = append(ids, l.ProductID)
		}
	}
	products, err := c.store.ProductsWithInventory(ids)
	if err != nil {
		return common.Order{}, err
	}

	// Short-circuit validation against the snapshot: the first failing line
	// aborts before any write.
	priceLines := make([]pricing.Line, 0, len(req.Lines))
	for _, l := range req.Lines {
		p, ok := products[l.ProductID]
		if !ok {
			return common.Order{}, &common.NotFoundError{Kind: "product", ID: l.ProductID}
		}
		if p.Inventory == nil || p.Inventory.Quantity < l.Quantity {
			var available int64
			if p.Inventory != nil {
				available = p.Inventory.Quantity
			}
			return common.Order{}, &common.InsufficientStockError{
				ProductID:   p.ID,
				ProductName: p.Name,
				Requested:   l.Quantity,
				Available:   available,
			}
		}
		priceLines = append(priceLines, pricing.Line{
			UnitPriceCents: p.PriceCents,
			Quantity:       l.Quantity,
		})
	}

	totals, err := pricing.Calculate(priceLines)
	if err != nil {
		return common.Order{}, err
	}

	order := common.Order{
		ID:            uuid.New().String(),
		UserID:        req.BuyerID,
		Status:        common.OrderCompleted,
		SubtotalCents: totals.SubtotalCents,
		TaxCents:      totals.TaxCents,
		DiscountCents: totals.DiscountCents,
		TotalCents:    totals.TotalCents,
		PaymentMethod: req.PaymentMethod,
		CreatedAt:     time.Now().UTC(),
	}
	if req.CustomerEmail != "" {
		email := req.CustomerEmail
		order.CustomerEmail = &email
	}
	for _, l := range req.Lines {
		p := products[l.ProductID]
		order.Items = append(order.Items, common.OrderItem{
			ID:            uuid.New().String(),
			OrderID:       order.ID,
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			PriceCents:    p.PriceCents, // snapshot, not re-read
			SubtotalCents: p.PriceCents * l.Quantity,
		})
	}

	// One atomic transaction: order header, items, and every decrement
	// commit together or not at all. A concurrent sale that drained stock
	// since the snapshot read fails the decrement here and rolls everything
	// back.
	var lowStock []common.Inventory
	err = c.store.WithinTx(func(tx storage.Tx) error {
		if err := tx.CreateOrder(&order); err != nil {
			return err
		}
		for _, l := range req.Lines {
			inv, err := c.ledger.Decrement(tx, l.ProductID, l.Quantity)
			if err != nil {
				return err
			}
			if inv.Quantity < inv.MinStock {
				lowStock = append(lowStock, inv)
			}
		}
		return nil
	})
	if err != nil {
		return common.Order{}, err
	}

	full, err := c.store.GetOrder(order.ID)
	if err != nil {
		// The transaction committed; fall back to the in-memory copy.
		log.Printf("Failed to reload order %s after commit: %v", order.ID, err)
		full = order
	}

	// Post-commit, best-effort side effects.
	if c.notifier != nil {
		c.notifier.OrderCompleted(ctx, full)
		for _, inv := range lowStock {
			c.notifier.LowStock(ctx, inv)
		}
	}

	return full, nil
}

func validate(req *SubmitRequest) error {
	if req.BuyerID == "" {
		return &common.InvalidInputError{Reason: "buyer id is required"}
	}
	if len(req.Lines) == 0 {
		return &common.InvalidInputError{Reason: "order must contain at least one item"}
	}
	for i, l := range req.Lines {
		if l.ProductID == "" {
			return &common.InvalidInputError{Reason: fmt.Sprintf("line %d: product id is required", i)}
		}
		if l.Quantity < 1 {
			return &common.InvalidInputError{Reason: fmt.Sprintf("line %d: quantity must be at least 1", i)}
		}
	}
	if req.PaymentMethod == "" {
		req.PaymentMethod = common.PaymentCash
	}
	if !common.ValidPaymentMethod(req.PaymentMethod) {
		return &common.InvalidInputError{Reason: "payment method must be CASH, CARD or MOBILE"}
	}
	if req.CustomerEmail != "" {
		if _, err := mail.ParseAddress(req.CustomerEmail); err != nil {
			return &common.InvalidInputError{Reason: "customer email is not a valid address"}
		}
	}
	return nil
}
