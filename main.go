package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/it21816772/neon---pos/common"
	"github.com/it21816772/neon---pos/handlers"
	"github.com/it21816772/neon---pos/inventory"
	"github.com/it21816772/neon---pos/orders"
	"github.com/it21816772/neon---pos/receipts"
	"github.com/it21816772/neon---pos/storage"
)

func main() {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	var store storage.Store
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		log.Printf("Opening database at %s...", dsn)
		gs, err := storage.NewGormStore(dsn)
		if err != nil {
			log.Fatalf("Failed to open store: %v", err)
		}
		if err := gs.SeedDemo(); err != nil {
			log.Fatalf("Failed to seed catalog: %v", err)
		}
		store = gs
	} else {
		log.Println("DATABASE_DSN not set, using in-memory store")
		ms := storage.NewMemoryStore()
		ms.SeedDemo()
		store = ms
	}

	var broker receipts.Broker = receipts.LogBroker{}
	var client *common.RabbitMQClient
	if rabbitURL := os.Getenv("RABBIT_URL"); rabbitURL != "" {
		log.Printf("Connecting to RabbitMQ at %s...", rabbitURL)
		c, err := common.NewRabbitMQClient(common.RabbitMQConfig{
			URL:      rabbitURL,
			Exchange: common.POSExchange,
		})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		client = c
		broker = client
	} else {
		log.Println("RABBIT_URL not set, post-commit events will be logged only")
	}

	publisher := receipts.NewPublisher(broker)
	ledger := inventory.NewLedger(store)

	api := &handlers.API{
		Store:       store,
		Coordinator: orders.NewCoordinator(store, ledger, publisher),
		Query:       orders.NewQuery(store),
		Ledger:      ledger,
		Receipts:    receipts.NewService(store, publisher),
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", port),
		Handler: api.Router(),
	}

	go func() {
		log.Printf("POS service starting on port %s...", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
	if client != nil {
		if err := client.Close(); err != nil {
			log.Printf("RabbitMQ close: %v", err)
		}
	}
}
