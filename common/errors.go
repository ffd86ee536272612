package common

import "fmt"

// NotFoundError reports a missing entity. Kind is "product", "order" or
// "inventory"; ID names the offending entity so clients can message the
// cashier precisely.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// InsufficientStockError reports a line whose requested quantity exceeds the
// current inventory for the named product.
type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Requested   int64
	Available   int64
}

func (e *InsufficientStockError) Error() string {
	name := e.ProductName
	if name == "" {
		name = e.ProductID
	}
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		name, e.Requested, e.Available)
}

// InvalidInputError reports a request rejected before any read occurs.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return "invalid input: " + e.Reason
}
