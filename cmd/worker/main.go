// The worker consumes order lifecycle events: notifications and the delayed
// payment check that auto-cancels unpaid pending orders. It runs as its own
// process so the API serves requests without background workers.
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"marketplace-service/config"
	"marketplace-service/consumers"
	"marketplace-service/database"
	"marketplace-service/rabbitmq"
	"marketplace-service/repository"
)

func main() {
	cfg := config.LoadConfig()

	if err := database.InitDB(cfg); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	defer database.CloseDB()

	rmq, err := rabbitmq.NewRabbitMQ(cfg)
	if err != nil {
		log.Fatalf("RabbitMQ initialization failed: %v", err)
	}
	defer rmq.Close()

	if err := rmq.SetupQueues(); err != nil {
		log.Fatalf("Failed to setup RabbitMQ queues: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	orderRepo := repository.NewOrderRepo(database.DB)
	consumer := consumers.NewOrderConsumer(cfg, orderRepo)

	log.Printf("Order worker consuming from %s", cfg.OrderQueue)
	if err := consumer.Start(ctx, rmq.Channel); err != nil && ctx.Err() == nil {
		log.Fatalf("Consumer stopped: %v", err)
	}
}
