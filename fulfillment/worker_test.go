package fulfillment

import (
	"encoding/json"
	"log/slog"
	"testing"

	"feria-storefront/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

type fakeAcknowledger struct {
	acked   bool
	nacked  bool
	requeue bool
}

func (a *fakeAcknowledger) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *fakeAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func (a *fakeAcknowledger) Reject(tag uint64, requeue bool) error {
	a.nacked = true
	a.requeue = requeue
	return nil
}

func TestWorkerAcksValidEvent(t *testing.T) {
	tracker := NewSalesTracker()
	w := &Worker{workerID: 1, tracker: tracker, log: slog.Default()}

	body, _ := json.Marshal(models.OrderConfirmed{
		OrderID: "ord-1",
		Items:   []models.OrderConfirmedItem{{ArtworkID: "a", ArtistID: "art-1", Qty: 1, UnitPrice: 100}},
	})
	ack := &fakeAcknowledger{}
	w.processMessage(amqp.Delivery{Acknowledger: ack, Body: body})

	if !ack.acked {
		t.Fatalf("valid event must be acknowledged")
	}
	if tracker.TotalOrders() != 1 {
		t.Fatalf("event was not recorded")
	}
}

func TestWorkerNacksMalformedEventWithoutRequeue(t *testing.T) {
	tracker := NewSalesTracker()
	w := &Worker{workerID: 1, tracker: tracker, log: slog.Default()}

	ack := &fakeAcknowledger{}
	w.processMessage(amqp.Delivery{Acknowledger: ack, Body: []byte("not json")})

	if !ack.nacked {
		t.Fatalf("malformed payload must be rejected")
	}
	if ack.requeue {
		t.Fatalf("malformed payload must not be requeued")
	}
	if tracker.TotalOrders() != 0 {
		t.Fatalf("malformed payload must not be recorded")
	}
}
