package cart

import (
	"context"
	"log/slog"
	"sync"

	"feria-storefront/models"

	"github.com/google/uuid"
)

// SnapshotRepo persists cart snapshots across restarts. Persistence is
// best-effort: the in-memory state stays authoritative for the session when
// the repo is unavailable.
type SnapshotRepo interface {
	Save(ctx context.Context, cartID string, snap Snapshot) error
	Load(ctx context.Context, cartID string) (Snapshot, bool, error)
	Delete(ctx context.Context, cartID string) error
}

// Store is the single source of truth for shopping carts. Each mutator
// replaces the cart's item list atomically under the lock; readers get
// copies.
type Store struct {
	mu        sync.RWMutex
	carts     map[string][]models.CartItem
	snapshots SnapshotRepo
	log       *slog.Logger
}

func NewStore(snapshots SnapshotRepo, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{
		carts:     make(map[string][]models.CartItem),
		snapshots: snapshots,
		log:       log,
	}
}

// Create registers a new empty cart and returns its id.
func (s *Store) Create() string {
	id := uuid.NewString()
	s.mu.Lock()
	s.carts[id] = []models.CartItem{}
	s.mu.Unlock()
	return id
}

// Items returns a copy of the cart's lines. Carts not in memory are restored
// from their persisted snapshot when one exists.
func (s *Store) Items(ctx context.Context, cartID string) ([]models.CartItem, bool) {
	s.mu.RLock()
	items, ok := s.carts[cartID]
	s.mu.RUnlock()
	if !ok {
		items, ok = s.restore(ctx, cartID)
		if !ok {
			return nil, false
		}
	}
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out, true
}

// Add appends a new line for the artwork or accumulates quantity onto the
// existing one. qty values below 1 default to 1. No client-side stock cap is
// applied; the order service is the authority at checkout time.
func (s *Store) Add(ctx context.Context, cartID string, item models.CartItem, qty int) bool {
	if qty < 1 {
		qty = 1
	}

	s.mu.Lock()
	items, ok := s.carts[cartID]
	if !ok {
		s.mu.Unlock()
		if items, ok = s.restore(ctx, cartID); !ok {
			return false
		}
		s.mu.Lock()
		items = s.carts[cartID]
	}

	found := false
	for i := range items {
		if items[i].ArtworkID == item.ArtworkID {
			items[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		item.Quantity = qty
		items = append(items, item)
	}
	s.carts[cartID] = items
	snap := s.snapshotLocked(cartID)
	s.mu.Unlock()

	s.persist(ctx, cartID, snap)
	return true
}

// UpdateQty replaces the stored quantity for the artwork. A quantity <= 0
// removes the line. No-op when the artwork is not in the cart.
func (s *Store) UpdateQty(ctx context.Context, cartID, artworkID string, quantity int) bool {
	if quantity <= 0 {
		return s.Remove(ctx, cartID, artworkID)
	}

	s.mu.Lock()
	items, ok := s.carts[cartID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	for i := range items {
		if items[i].ArtworkID == artworkID {
			items[i].Quantity = quantity
			break
		}
	}
	snap := s.snapshotLocked(cartID)
	s.mu.Unlock()

	s.persist(ctx, cartID, snap)
	return true
}

// Remove deletes the line with the matching artwork id; no-op if absent.
func (s *Store) Remove(ctx context.Context, cartID, artworkID string) bool {
	s.mu.Lock()
	items, ok := s.carts[cartID]
	if !ok {
		s.mu.Unlock()
		return false
	}
	next := items[:0]
	for _, it := range items {
		if it.ArtworkID != artworkID {
			next = append(next, it)
		}
	}
	s.carts[cartID] = next
	snap := s.snapshotLocked(cartID)
	s.mu.Unlock()

	s.persist(ctx, cartID, snap)
	return true
}

// Clear empties the cart's item list.
func (s *Store) Clear(ctx context.Context, cartID string) bool {
	s.mu.Lock()
	if _, ok := s.carts[cartID]; !ok {
		s.mu.Unlock()
		return false
	}
	s.carts[cartID] = []models.CartItem{}
	s.mu.Unlock()

	if s.snapshots != nil {
		if err := s.snapshots.Delete(ctx, cartID); err != nil {
			s.log.Warn("cart snapshot delete failed", "cart_id", cartID, "error", err)
		}
	}
	return true
}

// TotalItems returns the sum of all line quantities.
func (s *Store) TotalItems(ctx context.Context, cartID string) int {
	items, _ := s.Items(ctx, cartID)
	total := 0
	for _, it := range items {
		total += it.Quantity
	}
	return total
}

// Subtotal returns the sum of price*quantity over all lines.
func (s *Store) Subtotal(ctx context.Context, cartID string) int64 {
	items, _ := s.Items(ctx, cartID)
	var sum int64
	for _, it := range items {
		sum += it.Price * int64(it.Quantity)
	}
	return sum
}

func (s *Store) snapshotLocked(cartID string) Snapshot {
	items := s.carts[cartID]
	cp := make([]models.CartItem, len(items))
	copy(cp, items)
	return Snapshot{SchemaVersion: SchemaVersion, Items: cp}
}

func (s *Store) persist(ctx context.Context, cartID string, snap Snapshot) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Save(ctx, cartID, snap); err != nil {
		s.log.Warn("cart snapshot save failed", "cart_id", cartID, "error", err)
	}
}

func (s *Store) restore(ctx context.Context, cartID string) ([]models.CartItem, bool) {
	if s.snapshots == nil {
		return nil, false
	}
	snap, ok, err := s.snapshots.Load(ctx, cartID)
	if err != nil {
		s.log.Warn("cart snapshot load failed", "cart_id", cartID, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	s.mu.Lock()
	if existing, raced := s.carts[cartID]; raced {
		s.mu.Unlock()
		return existing, true
	}
	s.carts[cartID] = snap.Items
	s.mu.Unlock()
	return snap.Items, true
}
