package common

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// Queue names
	ReceiptQueue   = "receipt_queue"
	RestockQueue   = "restock_queue"
	AnalyticsQueue = "analytics_queue"

	// Exchange name
	POSExchange = "pos_exchange"

	// Routing keys
	OrderCompletedRoutingKey   = "order.completed"
	ReceiptRequestedRoutingKey = "receipt.requested"
	LowStockRoutingKey         = "inventory.low_stock"
)

// RabbitMQConfig holds the configuration for RabbitMQ
type RabbitMQConfig struct {
	URL      string
	Exchange string
}

// RabbitMQClient is a wrapper around a RabbitMQ connection and channel.
type RabbitMQClient struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	Config  RabbitMQConfig
}

// NewRabbitMQClient connects with retry, declares the POS topic exchange and
// binds the well-known queues so consumers can attach at any time.
func NewRabbitMQClient(config RabbitMQConfig) (*RabbitMQClient, error) {
	if config.Exchange == "" {
		return nil, fmt.Errorf("exchange name cannot be empty")
	}

	var conn *amqp.Connection
	var err error

	// Retry connection up to 5 times with exponential backoff
	for i := 0; i < 5; i++ {
		conn, err = amqp.Dial(config.URL)
		if err == nil {
			break
		}
		retryTime := time.Duration(i*i)*time.Second + time.Second
		log.Printf("Failed to connect to RabbitMQ, retrying in %v: %v", retryTime, err)
		time.Sleep(retryTime)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ after retries: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		config.Exchange, // name
		"topic",         // type
		true,            // durable
		false,           // auto-deleted
		false,           // internal
		false,           // no-wait
		nil,             // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", config.Exchange, err)
	}

	queues := []string{ReceiptQueue, RestockQueue, AnalyticsQueue}
	routingKeys := []string{ReceiptRequestedRoutingKey, LowStockRoutingKey, OrderCompletedRoutingKey}

	for i, queueName := range queues {
		q, err := channel.QueueDeclare(
			queueName, // name
			true,      // durable
			false,     // delete when unused
			false,     // exclusive
			false,     // no-wait
			nil,       // arguments
		)
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to declare queue %s: %w", queueName, err)
		}

		err = channel.QueueBind(
			q.Name,          // queue name
			routingKeys[i],  // routing key
			config.Exchange, // exchange
			false,           // no-wait
			nil,             // arguments
		)
		if err != nil {
			channel.Close()
			conn.Close()
			return nil, fmt.Errorf("failed to bind queue %s to exchange %s: %w",
				queueName, config.Exchange, err)
		}
	}

	log.Printf("Connected to RabbitMQ, exchange %s ready", config.Exchange)

	return &RabbitMQClient{
		conn:    conn,
		channel: channel,
		Config:  config,
	}, nil
}

// Close closes the RabbitMQ connection and channel
func (c *RabbitMQClient) Close() error {
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			return err
		}
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// PublishMessage publishes a JSON message to the specified routing key.
func (c *RabbitMQClient) PublishMessage(ctx context.Context, routingKey string, message interface{}) error {
	messageBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	err = c.channel.PublishWithContext(
		ctx,
		c.Config.Exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			Body:         messageBytes,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish message to exchange %s with routing key %s: %w",
			c.Config.Exchange, routingKey, err)
	}
	return nil
}
