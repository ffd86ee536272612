package common

// Event payloads published after an order transaction commits. Downstream
// consumers (receipt printer, email worker, restock dashboard) are decoupled:
// a failed publish never affects committed order state.

type OrderCompletedEvent struct {
	OrderID       string        `json:"order_id"`
	UserID        string        `json:"user_id"`
	TotalCents    int64         `json:"total_cents"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	ItemCount     int           `json:"item_count"`
	CustomerEmail string        `json:"customer_email,omitempty"`
	CreatedAt     string        `json:"created_at"`
}

type LowStockEvent struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
	MinStock  int64  `json:"min_stock"`
}

type ReceiptRequestedEvent struct {
	ReceiptID   string      `json:"receipt_id"`
	OrderID     string      `json:"order_id"`
	Kind        ReceiptKind `json:"kind"`
	Destination string      `json:"destination,omitempty"`
}
