// Package receipts handles everything that happens to an order after commit:
// receipt records and the events consumed by the external printer, email and
// restock workers. Nothing here can roll back or retry an order.
package receipts

import (
	"context"
	"log"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/it21816772/neon---pos/common"
	"github.com/it21816772/neon---pos/storage"
)

// Broker publishes JSON messages by routing key. Satisfied by
// common.RabbitMQClient; LogBroker stands in when no broker is configured.
type Broker interface {
	PublishMessage(ctx context.Context, routingKey string, message interface{}) error
}

// LogBroker logs events instead of publishing them. Used for standalone
// terminals running without RabbitMQ.
type LogBroker struct{}

func (LogBroker) PublishMessage(_ context.Context, routingKey string, message interface{}) error {
	log.Printf("Event %s: %+v", routingKey, message)
	return nil
}

// Publisher emits post-commit events. All publishes are best-effort: failures
// are logged and never surfaced to the order path.
type Publisher struct {
	broker Broker
}

func NewPublisher(broker Broker) *Publisher {
	return &Publisher{broker: broker}
}

func (p *Publisher) OrderCompleted(ctx context.Context, order common.Order) {
	event := common.OrderCompletedEvent{
		OrderID:       order.ID,
		UserID:        order.UserID,
		TotalCents:    order.TotalCents,
		PaymentMethod: order.PaymentMethod,
		ItemCount:     len(order.Items),
		CreatedAt:     order.CreatedAt.Format(time.RFC3339),
	}
	if order.CustomerEmail != nil {
		event.CustomerEmail = *order.CustomerEmail
	}
	if err := p.broker.PublishMessage(ctx, common.OrderCompletedRoutingKey, event); err != nil {
		log.Printf("Failed to publish order completed event for order %s: %v", order.ID, err)
	}
}

func (p *Publisher) LowStock(ctx context.Context, inv common.Inventory) {
	event := common.LowStockEvent{
		ProductID: inv.ProductID,
		Quantity:  inv.Quantity,
		MinStock:  inv.MinStock,
	}
	if err := p.broker.PublishMessage(ctx, common.LowStockRoutingKey, event); err != nil {
		log.Printf("Failed to publish low stock event for product %s: %v", inv.ProductID, err)
	}
}

// Service records receipt requests against committed orders and hands them to
// the external render workers over the broker.
type Service struct {
	store     storage.Store
	publisher *Publisher
}

func NewService(store storage.Store, publisher *Publisher) *Service {
	return &Service{store: store, publisher: publisher}
}

// Request records a receipt for an existing order and publishes a
// receipt.requested event. EMAIL receipts need a destination: explicit, or
// the customer email captured on the order.
func (s *Service) Request(ctx context.Context, orderID string, kind common.ReceiptKind, destination string) (common.Receipt, error) {
	if kind != common.ReceiptPrint && kind != common.ReceiptEmail {
		return common.Receipt{}, &common.InvalidInputError{Reason: "receipt kind must be PRINT or EMAIL"}
	}

	order, err := s.store.GetOrder(orderID)
	if err != nil {
		return common.Receipt{}, err
	}

	if kind == common.ReceiptEmail {
		if destination == "" && order.CustomerEmail != nil {
			destination = *order.CustomerEmail
		}
		if destination == "" {
			return common.Receipt{}, &common.InvalidInputError{Reason: "email receipt needs a destination address"}
		}
		if _, err := mail.ParseAddress(destination); err != nil {
			return common.Receipt{}, &common.InvalidInputError{Reason: "destination is not a valid email address"}
		}
	}

	receipt := common.Receipt{
		ID:          uuid.New().String(),
		OrderID:     order.ID,
		Kind:        kind,
		Destination: destination,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.CreateReceipt(&receipt); err != nil {
		return common.Receipt{}, err
	}

	event := common.ReceiptRequestedEvent{
		ReceiptID:   receipt.ID,
		OrderID:     receipt.OrderID,
		Kind:        receipt.Kind,
		Destination: receipt.Destination,
	}
	if err := s.publisher.broker.PublishMessage(ctx, common.ReceiptRequestedRoutingKey, event); err != nil {
		// The receipt row stays; the worker can be nudged again later.
		log.Printf("Failed to publish receipt requested event for order %s: %v", orderID, err)
	}

	return receipt, nil
}
