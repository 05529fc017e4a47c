package fulfillment

import (
	"fmt"
	"strings"
	"sync"

	"feria-storefront/models"
)

// PavilionSales aggregates the confirmed sales of one pavilion.
type PavilionSales struct {
	Name    string
	Pieces  int
	Revenue int64
}

// SalesTracker tallies confirmed orders per pavilion and artist in a
// thread-safe manner.
type SalesTracker struct {
	mu          sync.Mutex
	totalOrders int64
	revenue     int64
	byPavilion  map[string]PavilionSales
	byArtist    map[string]int
}

func NewSalesTracker() *SalesTracker {
	return &SalesTracker{
		byPavilion: make(map[string]PavilionSales),
		byArtist:   make(map[string]int),
	}
}

// RecordOrder tallies one confirmed order.
func (t *SalesTracker) RecordOrder(ev models.OrderConfirmed) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.totalOrders++
	t.revenue += ev.Subtotal

	for _, item := range ev.Items {
		if item.PavilionID != "" {
			s := t.byPavilion[item.PavilionID]
			if s.Name == "" {
				s.Name = item.PavilionName
			}
			s.Pieces += item.Qty
			s.Revenue += item.UnitPrice * int64(item.Qty)
			t.byPavilion[item.PavilionID] = s
		}
		if item.ArtistID != "" {
			t.byArtist[item.ArtistID] += item.Qty
		}
	}
}

// TotalOrders returns the number of confirmed orders seen so far.
func (t *SalesTracker) TotalOrders() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.totalOrders
}

// PavilionPieces returns the pieces sold for a pavilion.
func (t *SalesTracker) PavilionPieces(pavilionID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byPavilion[pavilionID].Pieces
}

// ArtistPieces returns the pieces sold for an artist.
func (t *SalesTracker) ArtistPieces(artistID string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.byArtist[artistID]
}

// PrintSummary prints the final tally on shutdown.
func (t *SalesTracker) PrintSummary() {
	t.mu.Lock()
	defer t.mu.Unlock()

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("FULFILLMENT SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Confirmed orders: %d\n", t.totalOrders)
	fmt.Printf("Total revenue:    %s\n", models.FormatCOP(t.revenue))
	for id, s := range t.byPavilion {
		fmt.Printf("  pavilion %s (%s): %d piece(s), %s\n", id, s.Name, s.Pieces, models.FormatCOP(s.Revenue))
	}
	fmt.Println(strings.Repeat("=", 60))
}
