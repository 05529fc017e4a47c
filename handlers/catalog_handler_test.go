package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"feria-storefront/catalog"
	"feria-storefront/clients"
	"feria-storefront/handlers"
	"feria-storefront/models"

	"github.com/gin-gonic/gin"
)

type fakeCatalogService struct {
	pages map[string]models.CatalogPage // keyed by cursor
	rows  map[string]models.ArtworkRow
}

func (f *fakeCatalogService) ListArtworks(_ context.Context, _ catalog.QueryKey, cursor string) (models.CatalogPage, error) {
	return f.pages[cursor], nil
}

func (f *fakeCatalogService) GetArtwork(_ context.Context, id string) (models.ArtworkRow, error) {
	row, ok := f.rows[id]
	if !ok {
		return models.ArtworkRow{}, clients.ErrNotFound
	}
	return row, nil
}

func newCatalogRouter(service *fakeCatalogService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewCatalogHandler(service, "feria-2025", 12, nil)

	router := gin.New()
	router.PUT("/sessions/:sessionId/catalog/filters", h.SetFilters)
	router.POST("/sessions/:sessionId/catalog/more", h.LoadMore)
	router.GET("/sessions/:sessionId/catalog", h.GetCatalog)
	router.GET("/artworks/:artworkId", h.GetArtwork)
	return router
}

func TestCatalogFeedOverHTTP(t *testing.T) {
	service := &fakeCatalogService{pages: map[string]models.CatalogPage{
		"": {
			Docs: []models.ArtworkRow{
				{ID: "a", Price: 100_000, Stock: 1, Image: "a.jpg"},
				{ID: "b", Price: 500_000, Stock: 1, Image: "b.jpg"},
				{ID: "c", Price: 900_000, Stock: 1, Image: "c.jpg"},
			},
		},
	}}
	router := newCatalogRouter(service)

	// Price range refinement applies to the accumulated rows.
	w := doJSON(t, router, http.MethodPut, "/sessions/s1/catalog/filters", handlers.FilterRequest{
		MinPrice: i64(200_000),
		MaxPrice: i64(600_000),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("set filters: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/sessions/s1/catalog/more", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("load more: expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var view handlers.CatalogView
	json.Unmarshal(w.Body.Bytes(), &view)
	if view.Fetched != 3 {
		t.Fatalf("expected 3 accumulated rows, got %d", view.Fetched)
	}
	if len(view.Rows) != 1 || view.Rows[0].ID != "b" {
		t.Fatalf("expected only the 500000 row after refinement, got %+v", view.Rows)
	}
}

func TestCatalogFilterChangeResetsFeed(t *testing.T) {
	service := &fakeCatalogService{pages: map[string]models.CatalogPage{
		"": {Docs: []models.ArtworkRow{{ID: "a", Price: 1, Stock: 1}}},
	}}
	router := newCatalogRouter(service)

	doJSON(t, router, http.MethodPut, "/sessions/s1/catalog/filters", handlers.FilterRequest{Q: "bosque"})
	doJSON(t, router, http.MethodPost, "/sessions/s1/catalog/more", nil)

	// New free-text query: accumulated rows must be discarded.
	w := doJSON(t, router, http.MethodPut, "/sessions/s1/catalog/filters", handlers.FilterRequest{Q: "rio"})
	var view handlers.CatalogView
	json.Unmarshal(w.Body.Bytes(), &view)
	if view.Fetched != 0 {
		t.Fatalf("expected feed reset on filter change, got %d accumulated rows", view.Fetched)
	}

	// A refinement-only change keeps the accumulated rows.
	doJSON(t, router, http.MethodPost, "/sessions/s1/catalog/more", nil)
	w = doJSON(t, router, http.MethodPut, "/sessions/s1/catalog/filters", handlers.FilterRequest{Q: "rio", InStock: true})
	json.Unmarshal(w.Body.Bytes(), &view)
	if view.Fetched != 1 {
		t.Fatalf("refinement toggles must not reset the feed, got %d rows", view.Fetched)
	}
}

func TestCatalogPriceWarningSurfaced(t *testing.T) {
	router := newCatalogRouter(&fakeCatalogService{})

	w := doJSON(t, router, http.MethodPut, "/sessions/s1/catalog/filters", handlers.FilterRequest{
		MinPrice: i64(600_000),
		MaxPrice: i64(200_000),
	})
	var view handlers.CatalogView
	json.Unmarshal(w.Body.Bytes(), &view)
	if view.Warning == "" {
		t.Fatalf("inverted price range must surface a warning")
	}
}

func TestArtworkDetailNotFound(t *testing.T) {
	router := newCatalogRouter(&fakeCatalogService{rows: map[string]models.ArtworkRow{}})

	w := doJSON(t, router, http.MethodGet, "/artworks/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected distinct 404 state, got %d", w.Code)
	}
}

func i64(v int64) *int64 { return &v }
