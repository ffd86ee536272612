package storage

import (
	"log"

	"github.com/it21816772/neon---pos/common"
)

// Demo catalog for standalone terminals: matches the seed data cashiers
// train against.

type seedProduct struct {
	product  common.Product
	quantity int64
	minStock int64
}

func strptr(s string) *string { return &s }

var demoCategory = common.Category{
	ID:          "cat-general",
	Name:        "General",
	Description: "Default product category",
}

var demoUsers = []common.User{
	{ID: "user-admin", Email: "admin@example.com", Name: "Admin", Role: common.RoleManager},
	{ID: "user-cashier", Email: "cashier@example.com", Name: "Cashier", Role: common.RoleCashier},
}

var demoProducts = []seedProduct{
	{
		product: common.Product{
			ID:          "prod-coffee",
			Name:        "Plain Coffee",
			Description: "Freshly brewed black coffee",
			PriceCents:  250,
			Barcode:     strptr("COF-0001"),
			CategoryID:  demoCategory.ID,
		},
		quantity: 50,
		minStock: 10,
	},
	{
		product: common.Product{
			ID:          "prod-muffin",
			Name:        "Blueberry Muffin",
			Description: "House baked muffin with blueberries",
			PriceCents:  350,
			Barcode:     strptr("MUF-0001"),
			CategoryID:  demoCategory.ID,
		},
		quantity: 30,
		minStock: 5,
	},
	{
		product: common.Product{
			ID:          "prod-water",
			Name:        "Bottled Water",
			Description: "500ml spring water",
			PriceCents:  150,
			Barcode:     strptr("WTR-0001"),
			CategoryID:  demoCategory.ID,
		},
		quantity: 100,
		minStock: 20,
	},
}

// SeedDemo loads the demo catalog and users.
func (s *MemoryStore) SeedDemo() {
	s.AddCategory(demoCategory)
	for _, u := range demoUsers {
		s.AddUser(u)
	}
	for _, sp := range demoProducts {
		s.AddProduct(sp.product, sp.quantity, sp.minStock)
	}
	log.Printf("Seeded demo catalog with %d products", len(demoProducts))
}

// SeedDemo loads the demo catalog and users if the catalog is empty.
func (s *GormStore) SeedDemo() error {
	var count int64
	if err := s.db.Model(&common.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if err := s.db.Create(&demoCategory).Error; err != nil {
		return err
	}
	for _, u := range demoUsers {
		if err := s.db.Create(&u).Error; err != nil {
			return err
		}
	}
	for _, sp := range demoProducts {
		p := sp.product
		if err := s.db.Create(&p).Error; err != nil {
			return err
		}
		inv := common.Inventory{
			ID:        "inv-" + p.ID,
			ProductID: p.ID,
			Quantity:  sp.quantity,
			MinStock:  sp.minStock,
		}
		if err := s.db.Create(&inv).Error; err != nil {
			return err
		}
	}
	log.Printf("Seeded demo catalog with %d products", len(demoProducts))
	return nil
}
