package checkout_test

import (
	"context"
	"errors"
	"testing"

	"feria-storefront/cart"
	"feria-storefront/checkout"
	"feria-storefront/clients"
	"feria-storefront/models"
)

type fakeOrders struct {
	createFn func(models.CreateOrderRequest) (models.Order, error)
	calls    int
}

func (f *fakeOrders) CreateOrder(_ context.Context, req models.CreateOrderRequest) (models.Order, error) {
	f.calls++
	return f.createFn(req)
}

type fakePayments struct {
	confirmFn func(orderID string, p models.PaymentRequest) (models.PaymentResult, error)
}

func (f *fakePayments) Confirm(_ context.Context, orderID string, p models.PaymentRequest) (models.PaymentResult, error) {
	return f.confirmFn(orderID, p)
}

type fakeCatalog struct {
	rows map[string]models.ArtworkRow
}

func (f *fakeCatalog) GetArtwork(_ context.Context, id string) (models.ArtworkRow, error) {
	row, ok := f.rows[id]
	if !ok {
		return models.ArtworkRow{}, clients.ErrNotFound
	}
	return row, nil
}

type fakePublisher struct {
	events []models.OrderConfirmed
}

func (f *fakePublisher) PublishOrderConfirmed(_ context.Context, ev models.OrderConfirmed) error {
	f.events = append(f.events, ev)
	return nil
}

func buyer() models.Buyer {
	return models.Buyer{
		FirstName:      "Ana",
		LastName:       "Gómez",
		Email:          "ana@example.com",
		Phone:          "3001234567",
		DocumentNumber: "1020304050",
		Address:        "Cra 7 # 45-10",
		City:           "Bogotá",
	}
}

func setup(t *testing.T) (*checkout.Manager, *cart.Store, string, *fakeOrders, *fakePayments, *fakePublisher) {
	t.Helper()

	orders := &fakeOrders{createFn: func(models.CreateOrderRequest) (models.Order, error) {
		return models.Order{ID: "ord-12345678abcd", Status: "created"}, nil
	}}
	payments := &fakePayments{confirmFn: func(string, models.PaymentRequest) (models.PaymentResult, error) {
		return models.PaymentResult{Status: "approved", Reference: "pay-1"}, nil
	}}
	catalogReader := &fakeCatalog{rows: map[string]models.ArtworkRow{
		"obra-1": {
			ID: "obra-1", Title: "X", Price: 2_000_000, Stock: 1, Currency: "COP",
			ArtistInfo:   &models.RelationInfo{ID: "art-1", Name: "Rivera"},
			PavilionInfo: &models.RelationInfo{ID: "pav-1", Name: "Central"},
		},
	}}
	publisher := &fakePublisher{}

	store := cart.NewStore(nil, nil)
	cartID := store.Create()

	m := checkout.NewManager(store, orders, payments, catalogReader, publisher, "feria-2025", nil)
	return m, store, cartID, orders, payments, publisher
}

func TestAddThenBuyScenario(t *testing.T) {
	ctx := context.Background()
	m, store, cartID, orders, _, _ := setup(t)

	store.Add(ctx, cartID, models.CartItem{ArtworkID: "obra-1", Title: "X", Price: 2_000_000}, 1)
	if store.TotalItems(ctx, cartID) != 1 || store.Subtotal(ctx, cartID) != 2_000_000 {
		t.Fatalf("unexpected cart state after add")
	}

	st, err := m.SubmitAddress(ctx, cartID, buyer())
	if err != nil {
		t.Fatalf("SubmitAddress failed: %v", err)
	}
	if st.Step != checkout.StepPayment {
		t.Fatalf("expected step 2 after order creation, got %d", st.Step)
	}
	if st.Processing {
		t.Fatalf("processing flag must be cleared after the transition")
	}
	if orders.calls != 1 {
		t.Fatalf("expected exactly one order creation, got %d", orders.calls)
	}
	if st.Order == nil || st.Order.ID != "ord-12345678abcd" {
		t.Fatalf("order reference missing from state: %+v", st.Order)
	}
}

func TestSubmitAddressValidationBlocksOrderCreation(t *testing.T) {
	ctx := context.Background()
	m, store, cartID, orders, _, _ := setup(t)
	store.Add(ctx, cartID, models.CartItem{ArtworkID: "obra-1", Price: 100}, 1)

	b := buyer()
	b.DocumentNumber = "12"
	_, err := m.SubmitAddress(ctx, cartID, b)

	var verr *checkout.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if orders.calls != 0 {
		t.Fatalf("invalid form must never reach the order service")
	}

	st, _ := m.State(ctx, cartID)
	if st.Step != checkout.StepAddress {
		t.Fatalf("step must not advance on validation failure")
	}
}

func TestOrderCreationFailureClearsProcessingAndAllowsRetry(t *testing.T) {
	ctx := context.Background()
	m, store, cartID, orders, _, _ := setup(t)
	store.Add(ctx, cartID, models.CartItem{ArtworkID: "obra-1", Price: 100}, 1)

	failing := true
	orders.createFn = func(models.CreateOrderRequest) (models.Order, error) {
		if failing {
			return models.Order{}, errors.New("upstream down")
		}
		return models.Order{ID: "ord-2"}, nil
	}

	st, err := m.SubmitAddress(ctx, cartID, buyer())
	if err == nil {
		t.Fatalf("expected order creation error")
	}
	if st.Step != checkout.StepAddress || st.Processing {
		t.Fatalf("failure must leave the flow on step 1 with processing cleared, got %+v", st)
	}

	failing = false
	st, err = m.SubmitAddress(ctx, cartID, buyer())
	if err != nil || st.Step != checkout.StepPayment {
		t.Fatalf("retry should succeed, got (%+v, %v)", st, err)
	}
}

func TestUnavailableArtworkBlocksOrder(t *testing.T) {
	ctx := context.Background()
	m, store, cartID, orders, _, _ := setup(t)
	store.Add(ctx, cartID, models.CartItem{ArtworkID: "gone", Price: 100}, 1)

	_, err := m.SubmitAddress(ctx, cartID, buyer())
	if !errors.Is(err, checkout.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if orders.calls != 0 {
		t.Fatalf("order must not be created for unavailable artwork")
	}
}

func TestConfirmPaymentAdvancesClearsCartAndPublishes(t *testing.T) {
	ctx := context.Background()
	m, store, cartID, _, _, publisher := setup(t)
	store.Add(ctx, cartID, models.CartItem{ArtworkID: "obra-1", Title: "X", Price: 2_000_000}, 1)

	if _, err := m.SubmitAddress(ctx, cartID, buyer()); err != nil {
		t.Fatalf("SubmitAddress failed: %v", err)
	}

	st, err := m.ConfirmPayment(ctx, cartID, models.PaymentRequest{
		Method: models.PaymentMethodCard,
		Card:   &models.CardDetails{Token: "tok-1"},
	})
	if err != nil {
		t.Fatalf("ConfirmPayment failed: %v", err)
	}
	if st.Step != checkout.StepConfirmation {
		t.Fatalf("expected step 3, got %d", st.Step)
	}
	if st.OrderNumber == "" {
		t.Fatalf("expected derived order number")
	}
	if store.TotalItems(ctx, cartID) != 0 {
		t.Fatalf("cart must be cleared after payment confirmation")
	}
	if len(publisher.events) != 1 {
		t.Fatalf("expected one order-confirmed event, got %d", len(publisher.events))
	}
	ev := publisher.events[0]
	if ev.Items[0].PavilionID != "pav-1" || ev.Items[0].ArtistID != "art-1" {
		t.Fatalf("event missing denormalized relations: %+v", ev.Items[0])
	}
	// Step 3 with an empty cart must not trip the empty-cart guard.
	if st.EmptyCart {
		t.Fatalf("confirmation step must not short-circuit to the empty-cart state")
	}
}

func TestPaymentFailureStaysOnStepTwo(t *testing.T) {
	ctx := context.Background()
	m, store, cartID, _, payments, _ := setup(t)
	store.Add(ctx, cartID, models.CartItem{ArtworkID: "obra-1", Price: 100}, 1)
	m.SubmitAddress(ctx, cartID, buyer())

	payments.confirmFn = func(string, models.PaymentRequest) (models.PaymentResult, error) {
		return models.PaymentResult{}, errors.New("declined")
	}

	st, err := m.ConfirmPayment(ctx, cartID, models.PaymentRequest{Method: models.PaymentMethodWhatsApp})
	if err == nil {
		t.Fatalf("expected payment error")
	}
	if st.Step != checkout.StepPayment || st.Processing {
		t.Fatalf("failure must leave the flow on step 2 with processing cleared, got %+v", st)
	}
	if store.TotalItems(ctx, cartID) != 1 {
		t.Fatalf("cart must not be cleared on payment failure")
	}
}

func TestStepperForwardGating(t *testing.T) {
	ctx := context.Background()
	m, store, cartID, _, _, _ := setup(t)
	store.Add(ctx, cartID, models.CartItem{ArtworkID: "obra-1", Price: 100}, 1)

	// Jumping 1 -> 3 directly is rejected.
	if _, err := m.Navigate(ctx, cartID, checkout.StepConfirmation); !errors.Is(err, checkout.ErrStepLocked) {
		t.Fatalf("expected ErrStepLocked, got %v", err)
	}

	m.SubmitAddress(ctx, cartID, buyer())

	// Backward navigation is unconditional and side-effect free.
	st, err := m.Navigate(ctx, cartID, checkout.StepAddress)
	if err != nil || st.Step != checkout.StepAddress {
		t.Fatalf("backward navigation failed: (%+v, %v)", st, err)
	}
	if st.Order == nil {
		t.Fatalf("backward navigation must not discard the created order")
	}
}

func TestEmptyCartGuardReRunsOnEveryRead(t *testing.T) {
	ctx := context.Background()
	m, store, cartID, _, _, _ := setup(t)

	st, err := m.State(ctx, cartID)
	if err != nil {
		t.Fatalf("State failed: %v", err)
	}
	if !st.EmptyCart {
		t.Fatalf("empty cart on step 1 must short-circuit")
	}

	store.Add(ctx, cartID, models.CartItem{ArtworkID: "obra-1", Price: 100}, 1)
	m.SubmitAddress(ctx, cartID, buyer())

	// The cart empties mid-flow (e.g. another tab); the guard catches it on
	// the next read, not only on flow creation.
	store.Clear(ctx, cartID)
	st, _ = m.State(ctx, cartID)
	if !st.EmptyCart {
		t.Fatalf("guard must re-run on every read")
	}

	if _, err := m.State(ctx, "no-such-cart"); !errors.Is(err, checkout.ErrCartNotFound) {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestSubmitAddressOnEmptyCart(t *testing.T) {
	ctx := context.Background()
	m, _, cartID, _, _, _ := setup(t)

	if _, err := m.SubmitAddress(ctx, cartID, buyer()); !errors.Is(err, checkout.ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestOrderNumberDerivation(t *testing.T) {
	if got := checkout.OrderNumber("ord-12345678abcd"); got != "FM-5678ABCD" {
		t.Fatalf("unexpected order number: %q", got)
	}
	if got := checkout.OrderNumber("abc"); got != "FM-ABC" {
		t.Fatalf("unexpected short order number: %q", got)
	}
}
