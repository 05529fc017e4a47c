package fulfillment

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"feria-storefront/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Worker consumes order-confirmed events from the fulfillment queue and
// records them on the shared tracker. Each worker owns its channel and
// processes one message at a time.
type Worker struct {
	workerID  int
	channel   *amqp.Channel
	queueName string
	tracker   *SalesTracker
	log       *slog.Logger
}

func NewWorker(workerID int, conn *amqp.Connection, queueName string, tracker *SalesTracker, log *slog.Logger) (*Worker, error) {
	if log == nil {
		log = slog.Default()
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open channel for worker %d: %w", workerID, err)
	}

	if err := ch.Qos(1, 0, false); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to set QoS for worker %d: %w", workerID, err)
	}

	return &Worker{
		workerID:  workerID,
		channel:   ch,
		queueName: queueName,
		tracker:   tracker,
		log:       log,
	}, nil
}

// Start consumes messages until the channel closes.
func (w *Worker) Start(wg *sync.WaitGroup) {
	defer wg.Done()
	defer w.channel.Close()

	msgs, err := w.channel.Consume(
		w.queueName,
		fmt.Sprintf("fulfillment-worker-%d", w.workerID),
		false, // auto-ack off; we ack after recording
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		w.log.Error("worker failed to register consumer", "worker", w.workerID, "error", err)
		return
	}

	w.log.Info("worker waiting for order events", "worker", w.workerID)

	for msg := range msgs {
		w.processMessage(msg)
	}

	w.log.Info("worker stopped", "worker", w.workerID)
}

func (w *Worker) processMessage(msg amqp.Delivery) {
	var ev models.OrderConfirmed
	if err := json.Unmarshal(msg.Body, &ev); err != nil {
		w.log.Error("failed to unmarshal order event", "worker", w.workerID, "error", err)
		// Malformed payload: reject without requeue.
		msg.Nack(false, false)
		return
	}

	w.tracker.RecordOrder(ev)

	if err := msg.Ack(false); err != nil {
		w.log.Error("failed to acknowledge order event", "worker", w.workerID, "order_id", ev.OrderID, "error", err)
		return
	}
	w.log.Info("recorded confirmed order", "worker", w.workerID, "order_id", ev.OrderID)
}

// Stop closes the worker's channel, draining its consume loop.
func (w *Worker) Stop() {
	if w.channel != nil {
		w.channel.Close()
	}
}
