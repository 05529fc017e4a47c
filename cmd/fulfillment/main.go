package main

import (
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"feria-storefront/config"
	"feria-storefront/fulfillment"
	"feria-storefront/logger"

	"github.com/joho/godotenv"
	amqp "github.com/rabbitmq/amqp091-go"
)

func main() {
	_ = godotenv.Load()
	cfg := config.LoadConfig()

	logg := logger.New(logger.Options{
		Service: "fulfillment",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
	})
	logg.Info("starting fulfillment consumer", "workers", cfg.NumWorkers, "queue", cfg.RabbitMQQueue)

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("Failed to connect to RabbitMQ: %v", err)
	}
	defer conn.Close()

	// Declare the queue up front so the consumer can start before the
	// storefront has published anything.
	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("Failed to open a channel: %v", err)
	}
	_, err = ch.QueueDeclare(
		cfg.RabbitMQQueue, // name
		true,              // durable
		false,             // delete when unused
		false,             // exclusive
		false,             // no-wait
		nil,               // arguments
	)
	if err != nil {
		log.Fatalf("Failed to declare queue: %v", err)
	}
	ch.Close()

	tracker := fulfillment.NewSalesTracker()

	var wg sync.WaitGroup
	for i := 0; i < cfg.NumWorkers; i++ {
		worker, err := fulfillment.NewWorker(i+1, conn, cfg.RabbitMQQueue, tracker, logg)
		if err != nil {
			log.Fatalf("Failed to create worker %d: %v", i+1, err)
		}
		wg.Add(1)
		go worker.Start(&wg)
	}

	logg.Info("all workers started")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logg.Info("received shutdown signal, stopping workers")
	conn.Close()
	wg.Wait()

	tracker.PrintSummary()
	logg.Info("fulfillment consumer shut down")
}
