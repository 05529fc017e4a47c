package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"feria-storefront/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher emits confirmed orders onto the fulfillment queue.
type Publisher struct {
	pool      *ChannelPool
	queueName string
	log       *slog.Logger
}

func NewPublisher(pool *ChannelPool, queueName string, log *slog.Logger) *Publisher {
	if log == nil {
		log = slog.Default()
	}
	return &Publisher{
		pool:      pool,
		queueName: queueName,
		log:       log,
	}
}

// PublishOrderConfirmed publishes an order-confirmed event as a persistent
// JSON message.
func (p *Publisher) PublishOrderConfirmed(ctx context.Context, ev models.OrderConfirmed) error {
	ch, err := p.pool.GetChannel()
	if err != nil {
		return fmt.Errorf("failed to get channel from pool: %w", err)
	}
	defer p.pool.ReturnChannel(ch)

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal order event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",          // exchange
		p.queueName, // routing key (queue name)
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish order event: %w", err)
	}

	p.log.Info("published order-confirmed event", "order_id", ev.OrderID, "queue", p.queueName)
	return nil
}
