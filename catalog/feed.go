package catalog

import (
	"context"
	"sync"

	"feria-storefront/models"
)

// Lister is the slice of the catalog service the feed consumes: one
// cursor-paginated page per call.
type Lister interface {
	ListArtworks(ctx context.Context, key QueryKey, cursor string) (models.CatalogPage, error)
}

// Feed accumulates the cursor-paginated pages of one query key into a
// growing row list. At most one page request is in flight at a time, and a
// page whose originating key no longer matches the active key is discarded
// on arrival so a slow response for an abandoned filter can never corrupt
// the accumulated list.
type Feed struct {
	mu         sync.Mutex
	lister     Lister
	key        QueryKey
	rows       []models.ArtworkRow
	nextCursor string
	started    bool
	fetching   bool
	total      *int
}

func NewFeed(lister Lister, key QueryKey) *Feed {
	return &Feed{lister: lister, key: key.Normalize()}
}

// Key returns the active query key.
func (f *Feed) Key() QueryKey {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.key
}

// SetKey switches the feed to a new query key. When the key actually
// changes, every accumulated page is discarded and pagination restarts from
// the first page; reports whether a reset happened.
func (f *Feed) SetKey(key QueryKey) bool {
	key = key.Normalize()
	f.mu.Lock()
	defer f.mu.Unlock()
	if key.String() == f.key.String() {
		return false
	}
	f.key = key
	f.rows = nil
	f.nextCursor = ""
	f.started = false
	f.fetching = false
	f.total = nil
	return true
}

// Rows returns a copy of the accumulated rows, in fetch order. The server's
// ordering is preserved across pages; the feed never resorts across the
// pagination boundary.
func (f *Feed) Rows() []models.ArtworkRow {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.ArtworkRow, len(f.rows))
	copy(out, f.rows)
	return out
}

// HasNext reports whether another page can be requested for the active key.
func (f *Feed) HasNext() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.started || f.nextCursor != ""
}

// Total returns the server-reported total count when one has been seen.
func (f *Feed) Total() (int, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.total == nil {
		return 0, false
	}
	return *f.total, true
}

// LoadMore fetches the next page for the active key and appends its rows.
// It is a no-op when a fetch is already in flight or the cursor is
// exhausted, which makes repeated scroll-trigger calls idempotent. Returns
// the number of rows appended.
func (f *Feed) LoadMore(ctx context.Context) (int, error) {
	f.mu.Lock()
	if f.fetching || (f.started && f.nextCursor == "") {
		f.mu.Unlock()
		return 0, nil
	}
	key := f.key
	cursor := f.nextCursor
	f.fetching = true
	f.mu.Unlock()

	page, err := f.lister.ListArtworks(ctx, key, cursor)

	f.mu.Lock()
	defer f.mu.Unlock()

	if key.String() != f.key.String() {
		// The filter changed while this page was in flight. SetKey already
		// cleared the fetching flag for the new key; drop the page.
		return 0, nil
	}

	f.fetching = false
	if err != nil {
		return 0, err
	}

	f.rows = append(f.rows, page.Docs...)
	f.started = true
	if page.PageInfo.NextCursor != nil && *page.PageInfo.NextCursor != "" {
		f.nextCursor = *page.PageInfo.NextCursor
	} else {
		f.nextCursor = ""
	}
	if page.PageInfo.Total != nil {
		f.total = page.PageInfo.Total
	}
	return len(page.Docs), nil
}
