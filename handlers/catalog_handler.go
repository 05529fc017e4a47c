package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"sync"

	"feria-storefront/catalog"
	"feria-storefront/clients"
	"feria-storefront/models"

	"github.com/gin-gonic/gin"
)

// CatalogService is the slice of the catalog client the handler needs.
type CatalogService interface {
	catalog.Lister
	GetArtwork(ctx context.Context, artworkID string) (models.ArtworkRow, error)
}

// FilterRequest sets the server-side query key and the client-local
// refinement for a session's catalog feed. q, pavilion and artistId may also
// arrive as URL query parameters, mirroring how a shared storefront link
// seeds the initial filter state.
type FilterRequest struct {
	Q          string   `json:"q"`
	Pavilion   string   `json:"pavilion"`
	ArtistID   string   `json:"artist_id"`
	Techniques []string `json:"techniques"`

	HasImage bool   `json:"has_image"`
	InStock  bool   `json:"in_stock"`
	MinPrice *int64 `json:"min_price"`
	MaxPrice *int64 `json:"max_price"`
	SortBy   string `json:"sort_by"`
	SortDir  string `json:"sort_dir"`
	ViewMode string `json:"view_mode"`
}

// CatalogRowView is one refined row plus its normalized image list.
type CatalogRowView struct {
	models.ArtworkRow
	ImageURLs []string `json:"image_urls"`
	Available bool     `json:"available"`
}

type CatalogView struct {
	SessionID  string                           `json:"session_id"`
	Rows       []CatalogRowView                 `json:"rows"`
	Fetched    int                              `json:"fetched"`
	HasNext    bool                             `json:"has_next"`
	Total      *int                             `json:"total,omitempty"`
	Techniques map[string]int                   `json:"technique_facets"`
	Pavilions  map[string]catalog.PavilionFacet `json:"pavilion_facets"`
	Warning    string                           `json:"warning,omitempty"`
	ViewMode   string                           `json:"view_mode"`
}

type sessionFeed struct {
	feed       *catalog.Feed
	refinement catalog.Refinement
	viewMode   string
}

// CatalogHandler keeps one cursor feed per browsing session.
type CatalogHandler struct {
	mu       sync.Mutex
	sessions map[string]*sessionFeed

	service CatalogService
	event   string
	limit   int
	log     *slog.Logger
}

func NewCatalogHandler(service CatalogService, event string, limit int, log *slog.Logger) *CatalogHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CatalogHandler{
		sessions: make(map[string]*sessionFeed),
		service:  service,
		event:    event,
		limit:    limit,
		log:      log,
	}
}

func (h *CatalogHandler) session(sessionID string) *sessionFeed {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[sessionID]
	if !ok {
		s = &sessionFeed{
			feed:     catalog.NewFeed(h.service, catalog.QueryKey{Event: h.event, Limit: h.limit}),
			viewMode: "grid",
		}
		h.sessions[sessionID] = s
	}
	return s
}

// SetFilters handles PUT /sessions/:sessionId/catalog/filters. A change to
// the server-side part of the filters resets the session's feed; refinement
// toggles never do.
func (h *CatalogHandler) SetFilters(c *gin.Context) {
	sessionID := c.Param("sessionId")

	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "INVALID_INPUT",
			Message: "Invalid request body",
			Details: err.Error(),
		})
		return
	}

	// URL parameters seed fields the body leaves empty.
	if req.Q == "" {
		req.Q = c.Query("q")
	}
	if req.Pavilion == "" {
		req.Pavilion = c.Query("pavilion")
	}
	if req.ArtistID == "" {
		req.ArtistID = c.Query("artistId")
	}

	key := catalog.QueryKey{
		Query:      req.Q,
		Event:      h.event,
		Pavilion:   req.Pavilion,
		Artist:     req.ArtistID,
		Techniques: req.Techniques,
		Limit:      h.limit,
	}

	s := h.session(sessionID)
	reset := s.feed.SetKey(key)

	dir := 1
	if req.SortDir == "desc" {
		dir = -1
	}
	h.mu.Lock()
	s.refinement = catalog.Refinement{
		HasImage: req.HasImage,
		InStock:  req.InStock,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		SortBy:   req.SortBy,
		SortDir:  dir,
	}
	if req.ViewMode == "grid" || req.ViewMode == "list" {
		s.viewMode = req.ViewMode
	}
	h.mu.Unlock()

	if reset {
		h.log.Info("catalog filters changed", "session_id", sessionID, "key", s.feed.Key().String())
	}

	h.render(c, sessionID, s)
}

// LoadMore handles POST /sessions/:sessionId/catalog/more. Repeated calls
// while a page is in flight are no-ops.
func (h *CatalogHandler) LoadMore(c *gin.Context) {
	sessionID := c.Param("sessionId")
	s := h.session(sessionID)

	added, err := s.feed.LoadMore(c.Request.Context())
	if err != nil {
		h.log.Warn("catalog page fetch failed", "session_id", sessionID, "error", err)
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "CATALOG_UNAVAILABLE",
			Message: "Failed to load more artworks",
			Details: err.Error(),
		})
		return
	}

	h.log.Debug("catalog page loaded", "session_id", sessionID, "added", added)
	h.render(c, sessionID, s)
}

// GetCatalog handles GET /sessions/:sessionId/catalog.
func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	sessionID := c.Param("sessionId")
	h.render(c, sessionID, h.session(sessionID))
}

// GetArtwork handles GET /artworks/:artworkId. A 404 from the catalog is a
// distinct not-found state, never conflated with transient failures.
func (h *CatalogHandler) GetArtwork(c *gin.Context) {
	artworkID := c.Param("artworkId")

	row, err := h.service.GetArtwork(c.Request.Context(), artworkID)
	if errors.Is(err, clients.ErrNotFound) {
		c.JSON(http.StatusNotFound, models.ErrorResponse{
			Error:   "NOT_FOUND",
			Message: "Artwork not found",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, models.ErrorResponse{
			Error:   "CATALOG_UNAVAILABLE",
			Message: "Failed to fetch artwork",
			Details: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, CatalogRowView{
		ArtworkRow: row,
		ImageURLs:  catalog.NormalizeImages(row),
		Available:  row.Stock > 0,
	})
}

func (h *CatalogHandler) render(c *gin.Context, sessionID string, s *sessionFeed) {
	h.mu.Lock()
	refinement := s.refinement
	viewMode := s.viewMode
	h.mu.Unlock()

	accumulated := s.feed.Rows()
	refined := catalog.Refine(accumulated, refinement)

	rows := make([]CatalogRowView, 0, len(refined))
	for _, row := range refined {
		rows = append(rows, CatalogRowView{
			ArtworkRow: row,
			ImageURLs:  catalog.NormalizeImages(row),
			Available:  row.Stock > 0,
		})
	}

	view := CatalogView{
		SessionID:  sessionID,
		Rows:       rows,
		Fetched:    len(accumulated),
		HasNext:    s.feed.HasNext(),
		Techniques: catalog.TechniqueCounts(accumulated),
		Pavilions:  catalog.PavilionCounts(accumulated),
		Warning:    refinement.PriceRangeWarning(),
		ViewMode:   viewMode,
	}
	if total, ok := s.feed.Total(); ok {
		view.Total = &total
	}
	c.JSON(http.StatusOK, view)
}
