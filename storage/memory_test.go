package storage

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/it21816772/neon---pos/common"
)

func testStore() *MemoryStore {
	s := NewMemoryStore()
	s.AddCategory(common.Category{ID: "cat-1", Name: "Drinks"})
	s.AddUser(common.User{ID: "user-1", Email: "cashier@example.com", Name: "Cashier", Role: common.RoleCashier})
	s.AddProduct(common.Product{ID: "prod-1", Name: "Coffee", PriceCents: 250, CategoryID: "cat-1"}, 50, 10)
	s.AddProduct(common.Product{ID: "prod-2", Name: "Muffin", PriceCents: 350, CategoryID: "cat-1"}, 1, 0)
	return s
}

func testOrder(id string, createdAt time.Time) common.Order {
	return common.Order{
		ID:            id,
		UserID:        "user-1",
		Status:        common.OrderCompleted,
		SubtotalCents: 500,
		TaxCents:      38,
		TotalCents:    538,
		PaymentMethod: common.PaymentCash,
		CreatedAt:     createdAt,
		Items: []common.OrderItem{
			{ID: id + "-item", OrderID: id, ProductID: "prod-1", Quantity: 2, PriceCents: 250, SubtotalCents: 500},
		},
	}
}

func TestMemoryStore_ProductsWithInventory(t *testing.T) {
	s := testStore()

	products, err := s.ProductsWithInventory([]string{"prod-1", "missing"})

	require.NoError(t, err)
	require.Len(t, products, 1)
	p := products["prod-1"]
	assert.Equal(t, "Coffee", p.Name)
	require.NotNil(t, p.Inventory)
	assert.Equal(t, int64(50), p.Inventory.Quantity)
	require.NotNil(t, p.Category)
	assert.Equal(t, "Drinks", p.Category.Name)
}

func TestMemoryStore_TxCommitAppliesAllWrites(t *testing.T) {
	s := testStore()

	err := s.WithinTx(func(tx Tx) error {
		order := testOrder("order-1", time.Now())
		if err := tx.CreateOrder(&order); err != nil {
			return err
		}
		_, err := tx.DecrementStock("prod-1", 2)
		return err
	})

	require.NoError(t, err)

	inv, err := s.GetInventory("prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(48), inv.Quantity)

	order, err := s.GetOrder("order-1")
	require.NoError(t, err)
	assert.Equal(t, common.OrderCompleted, order.Status)
	require.Len(t, order.Items, 1)
	require.NotNil(t, order.Items[0].Product)
	assert.Equal(t, "Coffee", order.Items[0].Product.Name)
	require.NotNil(t, order.User)
	assert.Equal(t, "cashier@example.com", order.User.Email)
}

func TestMemoryStore_TxErrorDiscardsAllWrites(t *testing.T) {
	s := testStore()

	err := s.WithinTx(func(tx Tx) error {
		order := testOrder("order-1", time.Now())
		if err := tx.CreateOrder(&order); err != nil {
			return err
		}
		if _, err := tx.DecrementStock("prod-1", 2); err != nil {
			return err
		}
		return errors.New("boom")
	})

	require.Error(t, err)

	inv, err := s.GetInventory("prod-1")
	require.NoError(t, err)
	assert.Equal(t, int64(50), inv.Quantity, "rolled-back decrement must not be visible")

	_, err = s.GetOrder("order-1")
	var notFound *common.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	orders, err := s.ListOrders()
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestMemoryStore_TxSeesItsOwnDecrements(t *testing.T) {
	s := testStore()

	// 1 in stock: first decrement succeeds, second must fail on the staged value.
	err := s.WithinTx(func(tx Tx) error {
		if _, err := tx.DecrementStock("prod-2", 1); err != nil {
			return err
		}
		_, err := tx.DecrementStock("prod-2", 1)
		return err
	})

	var stock *common.InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, "prod-2", stock.ProductID)
	assert.Equal(t, int64(0), stock.Available)

	inv, err := s.GetInventory("prod-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), inv.Quantity, "failed transaction leaves stock untouched")
}

func TestMemoryStore_DecrementErrors(t *testing.T) {
	s := testStore()

	err := s.WithinTx(func(tx Tx) error {
		_, err := tx.DecrementStock("missing", 1)
		return err
	})
	var notFound *common.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "missing", notFound.ID)

	err = s.WithinTx(func(tx Tx) error {
		_, err := tx.DecrementStock("prod-2", 2)
		return err
	})
	var stock *common.InsufficientStockError
	require.ErrorAs(t, err, &stock)
	assert.Equal(t, "prod-2", stock.ProductID)
	assert.Equal(t, "Muffin", stock.ProductName)
	assert.Equal(t, int64(2), stock.Requested)
	assert.Equal(t, int64(1), stock.Available)
}

func TestMemoryStore_UpdateInventory(t *testing.T) {
	s := testStore()

	qty := int64(75)
	min := int64(20)
	inv, err := s.UpdateInventory("prod-1", InventoryUpdate{Quantity: &qty, MinStock: &min})

	require.NoError(t, err)
	assert.Equal(t, int64(75), inv.Quantity)
	assert.Equal(t, int64(20), inv.MinStock)

	// Partial update keeps the other field.
	newMin := int64(5)
	inv, err = s.UpdateInventory("prod-1", InventoryUpdate{MinStock: &newMin})
	require.NoError(t, err)
	assert.Equal(t, int64(75), inv.Quantity)
	assert.Equal(t, int64(5), inv.MinStock)

	_, err = s.UpdateInventory("missing", InventoryUpdate{Quantity: &qty})
	var notFound *common.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestMemoryStore_ListOrdersNewestFirst(t *testing.T) {
	s := testStore()

	base := time.Now().UTC()
	for i, id := range []string{"order-a", "order-b", "order-c"} {
		order := testOrder(id, base.Add(time.Duration(i)*time.Second))
		require.NoError(t, s.WithinTx(func(tx Tx) error {
			return tx.CreateOrder(&order)
		}))
	}

	orders, err := s.ListOrders()
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, "order-c", orders[0].ID)
	assert.Equal(t, "order-b", orders[1].ID)
	assert.Equal(t, "order-a", orders[2].ID)
}

func TestMemoryStore_Receipts(t *testing.T) {
	s := testStore()

	order := testOrder("order-1", time.Now())
	require.NoError(t, s.WithinTx(func(tx Tx) error {
		return tx.CreateOrder(&order)
	}))

	r := common.Receipt{ID: "rcpt-1", OrderID: "order-1", Kind: common.ReceiptPrint}
	require.NoError(t, s.CreateReceipt(&r))
	assert.False(t, r.CreatedAt.IsZero())

	got, err := s.GetOrder("order-1")
	require.NoError(t, err)
	require.Len(t, got.Receipts, 1)
	assert.Equal(t, "rcpt-1", got.Receipts[0].ID)

	var notFound *common.NotFoundError
	err = s.CreateReceipt(&common.Receipt{ID: "rcpt-2", OrderID: "missing", Kind: common.ReceiptPrint})
	assert.ErrorAs(t, err, &notFound)
}
