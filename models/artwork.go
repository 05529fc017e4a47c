package models

// RelationInfo is the denormalized artist/technique/pavilion shape the
// catalog service embeds on each artwork row.
type RelationInfo struct {
	ID   string `json:"_id"`
	Name string `json:"name"`
}

// ArtworkRow is the read-only artwork projection returned by the external
// catalog service. Field names mirror the upstream API, which the storefront
// never mutates.
type ArtworkRow struct {
	ID            string        `json:"_id"`
	Title         string        `json:"title"`
	Price         int64         `json:"price"`
	Currency      string        `json:"currency,omitempty"`
	Stock         int           `json:"stock"`
	Image         string        `json:"image,omitempty"`
	Images        []string      `json:"images,omitempty"`
	CreatedAt     string        `json:"createdAt,omitempty"`
	ArtistInfo    *RelationInfo `json:"artistInfo,omitempty"`
	TechniqueInfo *RelationInfo `json:"techniqueInfo,omitempty"`
	PavilionInfo  *RelationInfo `json:"pavilionInfo,omitempty"`
}

// PageInfo carries the cursor-pagination metadata of one catalog page.
// NextCursor is an opaque continuation token; nil means the result set is
// exhausted.
type PageInfo struct {
	NextCursor *string `json:"nextCursor"`
	HasNext    bool    `json:"hasNext"`
	Total      *int    `json:"total,omitempty"`
	Limit      int     `json:"limit"`
	SortBy     string  `json:"sortBy,omitempty"`
	SortDir    string  `json:"sortDir,omitempty"`
}

// CatalogPage is one page of the cursor-paginated artwork listing.
type CatalogPage struct {
	Docs     []ArtworkRow `json:"docs"`
	PageInfo PageInfo     `json:"pageInfo"`
}
