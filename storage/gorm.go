package storage

import (
	"errors"
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/it21816772/neon---pos/common"
)

// GormStore is the SQL-backed Store. The guarded UPDATE in DecrementStock
// serializes concurrent terminals on the inventory row, so the check inside
// the transaction holds even when the pre-transaction snapshot was stale.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore opens the database at dsn and migrates the schema.
func NewGormStore(dsn string) (*GormStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.AutoMigrate(
		&common.Category{},
		&common.Product{},
		&common.Inventory{},
		&common.User{},
		&common.Order{},
		&common.OrderItem{},
		&common.Receipt{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &GormStore{db: db}, nil
}

func (s *GormStore) ProductsWithInventory(ids []string) (map[string]common.Product, error) {
	var products []common.Product
	err := s.db.
		Preload("Inventory").
		Preload("Category").
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	res := make(map[string]common.Product, len(products))
	for _, p := range products {
		res[p.ID] = p
	}
	return res, nil
}

func (s *GormStore) ListProducts() ([]common.Product, error) {
	var products []common.Product
	err := s.db.
		Preload("Inventory").
		Preload("Category").
		Order("name").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (s *GormStore) ListInventory() ([]common.Inventory, error) {
	var inventory []common.Inventory
	if err := s.db.Find(&inventory).Error; err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	return inventory, nil
}

func (s *GormStore) GetInventory(productID string) (common.Inventory, error) {
	var inv common.Inventory
	err := s.db.Where("product_id = ?", productID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.Inventory{}, &common.NotFoundError{Kind: "inventory", ID: productID}
	}
	if err != nil {
		return common.Inventory{}, fmt.Errorf("failed to load inventory: %w", err)
	}
	return inv, nil
}

func (s *GormStore) UpdateInventory(productID string, upd InventoryUpdate) (common.Inventory, error) {
	inv, err := s.GetInventory(productID)
	if err != nil {
		return common.Inventory{}, err
	}
	if upd.Quantity != nil {
		inv.Quantity = *upd.Quantity
	}
	if upd.MinStock != nil {
		inv.MinStock = *upd.MinStock
	}
	if err := s.db.Save(&inv).Error; err != nil {
		return common.Inventory{}, fmt.Errorf("failed to update inventory: %w", err)
	}
	return inv, nil
}

func (s *GormStore) ListOrders() ([]common.Order, error) {
	var orders []common.Order
	err := s.db.
		Preload("Items.Product").
		Preload("User").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (s *GormStore) GetOrder(id string) (common.Order, error) {
	var order common.Order
	err := s.db.
		Preload("Items.Product.Category").
		Preload("User").
		Preload("Receipts").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return common.Order{}, &common.NotFoundError{Kind: "order", ID: id}
	}
	if err != nil {
		return common.Order{}, fmt.Errorf("failed to load order: %w", err)
	}
	return order, nil
}

func (s *GormStore) CreateReceipt(r *common.Receipt) error {
	var count int64
	if err := s.db.Model(&common.Order{}).Where("id = ?", r.OrderID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to check order: %w", err)
	}
	if count == 0 {
		return &common.NotFoundError{Kind: "order", ID: r.OrderID}
	}
	if err := s.db.Create(r).Error; err != nil {
		return fmt.Errorf("failed to create receipt: %w", err)
	}
	return nil
}

func (s *GormStore) WithinTx(fn func(tx Tx) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) CreateOrder(order *common.Order) error {
	if err := t.db.Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (t *gormTx) DecrementStock(productID string, qty int64) (common.Inventory, error) {
	// Guarded update: only succeeds when enough stock remains, so two
	// concurrent decrements can never drive the quantity negative.
	res := t.db.Model(&common.Inventory{}).
		Where("product_id = ? AND quantity >= ?", productID, qty).
		UpdateColumn("quantity", gorm.Expr("quantity - ?", qty))
	if res.Error != nil {
		return common.Inventory{}, fmt.Errorf("failed to decrement stock: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		var inv common.Inventory
		err := t.db.Where("product_id = ?", productID).First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return common.Inventory{}, &common.NotFoundError{Kind: "inventory", ID: productID}
		}
		if err != nil {
			return common.Inventory{}, fmt.Errorf("failed to load inventory: %w", err)
		}
		var name string
		var product common.Product
		if err := t.db.Select("name").First(&product, "id = ?", productID).Error; err == nil {
			name = product.Name
		}
		return common.Inventory{}, &common.InsufficientStockError{
			ProductID:   productID,
			ProductName: name,
			Requested:   qty,
			Available:   inv.Quantity,
		}
	}

	var inv common.Inventory
	if err := t.db.Where("product_id = ?", productID).First(&inv).Error; err != nil {
		return common.Inventory{}, fmt.Errorf("failed to reload inventory: %w", err)
	}
	return inv, nil
}
