package common

import "time"

// All monetary amounts are integer minor currency units (cents).

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentMobile PaymentMethod = "MOBILE"
)

// ValidPaymentMethod reports whether m is one of the accepted payment methods.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentMobile:
		return true
	}
	return false
}

type ReceiptKind string

const (
	ReceiptPrint ReceiptKind = "PRINT"
	ReceiptEmail ReceiptKind = "EMAIL"
)

const (
	RoleCashier = "CASHIER"
	RoleManager = "MANAGER"
)

type Category struct {
	ID          string `json:"id" gorm:"primaryKey"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Product struct {
	ID          string     `json:"id" gorm:"primaryKey"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	PriceCents  int64      `json:"price_cents"`
	Barcode     *string    `json:"barcode,omitempty" gorm:"uniqueIndex"`
	ImageURL    string     `json:"image_url,omitempty"`
	CategoryID  string     `json:"category_id"`
	Category    *Category  `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Inventory   *Inventory `json:"inventory,omitempty" gorm:"foreignKey:ProductID"`
}

// Inventory tracks on-hand stock for exactly one product. Quantity never
// goes negative; MinStock is an advisory reorder threshold.
type Inventory struct {
	ID        string `json:"id" gorm:"primaryKey"`
	ProductID string `json:"product_id" gorm:"uniqueIndex"`
	Quantity  int64  `json:"quantity"`
	MinStock  int64  `json:"min_stock"`
}

type User struct {
	ID    string `json:"id" gorm:"primaryKey"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

type Order struct {
	ID            string        `json:"id" gorm:"primaryKey"`
	UserID        string        `json:"user_id"`
	Status        OrderStatus   `json:"status"`
	SubtotalCents int64         `json:"subtotal_cents"`
	TaxCents      int64         `json:"tax_cents"`
	DiscountCents int64         `json:"discount_cents"`
	TotalCents    int64         `json:"total_cents"`
	CustomerEmail *string       `json:"customer_email,omitempty"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	CreatedAt     time.Time     `json:"created_at"`
	Items         []OrderItem   `json:"items" gorm:"foreignKey:OrderID"`
	User          *User         `json:"user,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Receipts      []Receipt     `json:"receipts,omitempty" gorm:"foreignKey:OrderID"`
}

// OrderItem is one line of an order. PriceCents is snapshotted from the
// product at order time so later catalog changes never alter past orders.
type OrderItem struct {
	ID            string   `json:"id" gorm:"primaryKey"`
	OrderID       string   `json:"order_id"`
	ProductID     string   `json:"product_id"`
	Quantity      int64    `json:"quantity"`
	PriceCents    int64    `json:"price_cents"`
	SubtotalCents int64    `json:"subtotal_cents"`
	Product       *Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

type Receipt struct {
	ID          string      `json:"id" gorm:"primaryKey"`
	OrderID     string      `json:"order_id"`
	Kind        ReceiptKind `json:"kind"`
	Destination string      `json:"destination,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}
