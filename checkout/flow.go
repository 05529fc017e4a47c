package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"feria-storefront/cart"
	"feria-storefront/clients"
	"feria-storefront/models"

	"golang.org/x/sync/errgroup"
)

// The three steps of the purchase flow. StepConfirmation is terminal.
const (
	StepAddress      = 1
	StepPayment      = 2
	StepConfirmation = 3
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrEmptyCart    = errors.New("cart is empty")
	ErrStepLocked   = errors.New("cannot skip ahead in the checkout flow")
	ErrWrongStep    = errors.New("action not valid for the current step")
	ErrUnavailable  = errors.New("artwork no longer available")
)

// ValidationError carries the field-level errors of a rejected address form.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid buyer form: %d field error(s)", len(e.Fields))
}

// OrderCreator is the slice of the order service the flow depends on.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (models.Order, error)
}

// PaymentConfirmer confirms a payment for a created order.
type PaymentConfirmer interface {
	Confirm(ctx context.Context, orderID string, payment models.PaymentRequest) (models.PaymentResult, error)
}

// ArtworkReader fetches a single artwork for pre-order verification.
type ArtworkReader interface {
	GetArtwork(ctx context.Context, artworkID string) (models.ArtworkRow, error)
}

// EventPublisher emits the order-confirmed event after step 2 succeeds.
type EventPublisher interface {
	PublishOrderConfirmed(ctx context.Context, ev models.OrderConfirmed) error
}

// Flow is the per-cart checkout state. Steps only advance forward as the
// result of a successful side effect; backward navigation is unconditional.
type Flow struct {
	step        int
	order       *models.Order
	rows        map[string]models.ArtworkRow
	processing  bool
	orderNumber string
}

// State is the view of a flow handed to the HTTP layer. EmptyCart signals
// the short-circuit display: when set, the stepper is not rendered at all.
type State struct {
	Step        int               `json:"step"`
	EmptyCart   bool              `json:"empty_cart"`
	Processing  bool              `json:"processing"`
	Order       *models.Order     `json:"order,omitempty"`
	OrderNumber string            `json:"order_number,omitempty"`
	Items       []models.CartItem `json:"items,omitempty"`
	Subtotal    int64             `json:"subtotal"`
}

// Manager owns one checkout flow per cart and drives the step transitions.
type Manager struct {
	mu    sync.Mutex
	flows map[string]*Flow

	carts     *cart.Store
	orders    OrderCreator
	payments  PaymentConfirmer
	catalog   ArtworkReader
	publisher EventPublisher
	event     string
	maxVerify int
	log       *slog.Logger
}

func NewManager(carts *cart.Store, orders OrderCreator, payments PaymentConfirmer, catalogReader ArtworkReader, publisher EventPublisher, event string, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		flows:     make(map[string]*Flow),
		carts:     carts,
		orders:    orders,
		payments:  payments,
		catalog:   catalogReader,
		publisher: publisher,
		event:     event,
		maxVerify: 5,
		log:       log,
	}
}

func (m *Manager) flow(cartID string) *Flow {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flows[cartID]
	if !ok {
		f = &Flow{step: StepAddress}
		m.flows[cartID] = f
	}
	return f
}

// State builds the current view for the cart's flow. The empty-cart guard is
// re-evaluated on every call, not just when the flow is created, so a cart
// emptied from elsewhere mid-flow is caught.
func (m *Manager) State(ctx context.Context, cartID string) (State, error) {
	items, ok := m.carts.Items(ctx, cartID)
	if !ok {
		return State{}, ErrCartNotFound
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.flows[cartID]
	if !ok {
		f = &Flow{step: StepAddress}
		m.flows[cartID] = f
	}

	st := State{
		Step:        f.step,
		Processing:  f.processing,
		Order:       f.order,
		OrderNumber: f.orderNumber,
		Items:       items,
	}
	for _, it := range items {
		st.Subtotal += it.Price * int64(it.Quantity)
	}
	if len(items) == 0 && f.step != StepConfirmation {
		st.EmptyCart = true
	}
	return st, nil
}

// SubmitAddress handles the step 1 -> 2 transition: validate the buyer form
// locally, verify the cart lines against the catalog, create the order. Any
// failure leaves the flow on step 1 with the processing flag cleared so the
// user can resubmit.
func (m *Manager) SubmitAddress(ctx context.Context, cartID string, buyer models.Buyer) (State, error) {
	items, ok := m.carts.Items(ctx, cartID)
	if !ok {
		return State{}, ErrCartNotFound
	}
	if len(items) == 0 {
		return State{}, ErrEmptyCart
	}

	if fieldErrs := ValidateBuyer(buyer); len(fieldErrs) > 0 {
		return State{}, &ValidationError{Fields: fieldErrs}
	}

	f := m.flow(cartID)
	m.mu.Lock()
	if f.step != StepAddress {
		m.mu.Unlock()
		return State{}, ErrWrongStep
	}
	if f.processing {
		m.mu.Unlock()
		return State{}, ErrWrongStep
	}
	f.processing = true
	m.mu.Unlock()

	rows, err := m.verifyLines(ctx, items)
	if err != nil {
		m.clearProcessing(f)
		m.log.Warn("cart verification failed", "cart_id", cartID, "error", err)
		st, _ := m.State(ctx, cartID)
		return st, err
	}

	orderReq := models.CreateOrderRequest{
		Event: m.event,
		Buyer: buyer,
		Items: make([]models.OrderItem, 0, len(items)),
	}
	for _, it := range items {
		oi := models.OrderItem{
			ArtworkID: it.ArtworkID,
			Qty:       it.Quantity,
			UnitPrice: it.Price,
			Currency:  "COP",
		}
		if row, ok := rows[it.ArtworkID]; ok {
			if row.ArtistInfo != nil {
				oi.ArtistID = row.ArtistInfo.ID
			}
			if row.Currency != "" {
				oi.Currency = row.Currency
			}
		}
		orderReq.Items = append(orderReq.Items, oi)
	}

	order, err := m.orders.CreateOrder(ctx, orderReq)
	if err != nil {
		m.clearProcessing(f)
		m.log.Warn("order creation failed", "cart_id", cartID, "error", err)
		st, _ := m.State(ctx, cartID)
		return st, fmt.Errorf("order creation failed: %w", err)
	}

	m.mu.Lock()
	f.order = &order
	f.rows = rows
	f.step = StepPayment
	f.processing = false
	m.mu.Unlock()

	m.log.Info("order created", "cart_id", cartID, "order_id", order.ID)
	return m.State(ctx, cartID)
}

// ConfirmPayment handles the step 2 -> 3 transition. On success the cart is
// cleared, an order-number label is derived for display and the confirmed
// order is published to the fulfillment queue (best-effort).
func (m *Manager) ConfirmPayment(ctx context.Context, cartID string, payment models.PaymentRequest) (State, error) {
	f := m.flow(cartID)

	m.mu.Lock()
	if f.step != StepPayment || f.order == nil {
		m.mu.Unlock()
		return State{}, ErrWrongStep
	}
	if f.processing {
		m.mu.Unlock()
		return State{}, ErrWrongStep
	}
	f.processing = true
	order := *f.order
	m.mu.Unlock()

	result, err := m.payments.Confirm(ctx, order.ID, payment)
	if err != nil {
		m.clearProcessing(f)
		m.log.Warn("payment confirmation failed", "cart_id", cartID, "order_id", order.ID, "error", err)
		st, _ := m.State(ctx, cartID)
		return st, fmt.Errorf("payment confirmation failed: %w", err)
	}

	items, _ := m.carts.Items(ctx, cartID)
	orderNumber := OrderNumber(order.ID)

	m.publishConfirmed(ctx, cartID, order, orderNumber, items, f)

	m.carts.Clear(ctx, cartID)

	m.mu.Lock()
	f.orderNumber = orderNumber
	f.step = StepConfirmation
	f.processing = false
	m.mu.Unlock()

	m.log.Info("payment confirmed", "cart_id", cartID, "order_id", order.ID,
		"status", result.Status, "reference", result.Reference)
	return m.State(ctx, cartID)
}

// Navigate handles stepper clicks. Moving to any step at or below the
// current one is allowed without side effects; jumping forward is rejected.
func (m *Manager) Navigate(ctx context.Context, cartID string, target int) (State, error) {
	if target < StepAddress || target > StepConfirmation {
		return State{}, fmt.Errorf("invalid step %d", target)
	}

	f := m.flow(cartID)
	m.mu.Lock()
	if target > f.step {
		m.mu.Unlock()
		return State{}, ErrStepLocked
	}
	f.step = target
	m.mu.Unlock()

	return m.State(ctx, cartID)
}

// Reset discards the flow for a cart (navigation away).
func (m *Manager) Reset(cartID string) {
	m.mu.Lock()
	delete(m.flows, cartID)
	m.mu.Unlock()
}

// verifyLines checks every cart line against the catalog with bounded
// concurrency: the artwork must still exist and have stock.
func (m *Manager) verifyLines(ctx context.Context, items []models.CartItem) (map[string]models.ArtworkRow, error) {
	rows := make([]models.ArtworkRow, len(items))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(m.maxVerify)

	for idx := range items {
		idx := idx
		g.Go(func() error {
			it := items[idx]
			row, err := m.catalog.GetArtwork(ctx, it.ArtworkID)
			if errors.Is(err, clients.ErrNotFound) {
				return fmt.Errorf("artwork %s: %w", it.ArtworkID, ErrUnavailable)
			}
			if err != nil {
				return fmt.Errorf("failed to verify artwork %s: %w", it.ArtworkID, err)
			}
			if row.Stock <= 0 {
				return fmt.Errorf("artwork %s: %w", it.ArtworkID, ErrUnavailable)
			}
			rows[idx] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byID := make(map[string]models.ArtworkRow, len(rows))
	for _, row := range rows {
		byID[row.ID] = row
	}
	return byID, nil
}

func (m *Manager) publishConfirmed(ctx context.Context, cartID string, order models.Order, orderNumber string, items []models.CartItem, f *Flow) {
	if m.publisher == nil {
		return
	}

	ev := models.OrderConfirmed{
		OrderID:     order.ID,
		OrderNumber: orderNumber,
		CartID:      cartID,
		ConfirmedAt: time.Now().UTC().Format(time.RFC3339),
	}
	m.mu.Lock()
	rows := f.rows
	m.mu.Unlock()
	for _, it := range items {
		ci := models.OrderConfirmedItem{
			ArtworkID: it.ArtworkID,
			Title:     it.Title,
			Qty:       it.Quantity,
			UnitPrice: it.Price,
		}
		if row, ok := rows[it.ArtworkID]; ok {
			if row.ArtistInfo != nil {
				ci.ArtistID = row.ArtistInfo.ID
			}
			if row.PavilionInfo != nil {
				ci.PavilionID = row.PavilionInfo.ID
				ci.PavilionName = row.PavilionInfo.Name
			}
		}
		ev.Subtotal += it.Price * int64(it.Quantity)
		ev.Items = append(ev.Items, ci)
	}

	if err := m.publisher.PublishOrderConfirmed(ctx, ev); err != nil {
		m.log.Warn("failed to publish order-confirmed event", "order_id", order.ID, "error", err)
	}
}

func (m *Manager) clearProcessing(f *Flow) {
	m.mu.Lock()
	f.processing = false
	m.mu.Unlock()
}

// OrderNumber derives the display label shown on the confirmation step from
// the order's identifier.
func OrderNumber(orderID string) string {
	id := strings.ReplaceAll(orderID, "-", "")
	if len(id) > 8 {
		id = id[len(id)-8:]
	}
	return "FM-" + strings.ToUpper(id)
}
