package catalog

import (
	"sort"
	"strings"
	"time"

	"feria-storefront/models"
)

// Sort keys accepted by the refinement pass.
const (
	SortByPrice     = "price"
	SortByID        = "_id"
	SortByCreatedAt = "createdAt"
)

// Refinement is the client-local filter/sort pass applied to the accumulated
// rows after server pagination. It only ever sees rows fetched so far, so
// its output grows as more pages load.
type Refinement struct {
	HasImage bool
	InStock  bool
	MinPrice *int64
	MaxPrice *int64
	SortBy   string
	SortDir  int // +1 ascending, -1 descending
}

// PriceRangeWarning flags an inverted price range. The violating values are
// surfaced to the caller, not auto-corrected.
func (r Refinement) PriceRangeWarning() string {
	if r.MinPrice != nil && r.MaxPrice != nil && *r.MinPrice > *r.MaxPrice {
		return "minimum price is greater than maximum price"
	}
	return ""
}

// Refine filters and sorts the accumulated rows. It is a pure derivation:
// the input slice is never mutated, and unchanged inputs yield an identical
// output.
func Refine(rows []models.ArtworkRow, r Refinement) []models.ArtworkRow {
	out := make([]models.ArtworkRow, 0, len(rows))
	for _, row := range rows {
		if r.HasImage && !HasImage(row) {
			continue
		}
		if r.InStock && row.Stock <= 0 {
			continue
		}
		if r.MinPrice != nil && row.Price < *r.MinPrice {
			continue
		}
		if r.MaxPrice != nil && row.Price > *r.MaxPrice {
			continue
		}
		out = append(out, row)
	}

	dir := r.SortDir
	if dir == 0 {
		dir = 1
	}

	switch r.SortBy {
	case SortByPrice:
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].Price == out[j].Price {
				return false
			}
			if dir > 0 {
				return out[i].Price < out[j].Price
			}
			return out[i].Price > out[j].Price
		})
	case SortByCreatedAt:
		sort.SliceStable(out, func(i, j int) bool {
			ti, tj := parseCreatedAt(out[i].CreatedAt), parseCreatedAt(out[j].CreatedAt)
			if ti.Equal(tj) {
				return false
			}
			if dir > 0 {
				return ti.Before(tj)
			}
			return ti.After(tj)
		})
	case SortByID:
		sort.SliceStable(out, func(i, j int) bool {
			return dir*strings.Compare(out[i].ID, out[j].ID) < 0
		})
	}

	return out
}

func parseCreatedAt(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
