package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"feria-storefront/catalog"
	"feria-storefront/models"
)

// ErrNotFound marks a 404 from a detail lookup. Callers render a distinct
// not-found state and must not retry.
var ErrNotFound = errors.New("resource not found")

// CatalogClient wraps the external catalog service's list and detail
// endpoints.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewCatalogClient(baseURL string) *CatalogClient {
	return &CatalogClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

var _ catalog.Lister = (*CatalogClient)(nil)

// ListArtworks fetches one page of the cursor-paginated artwork listing for
// the given query key. An empty cursor requests the first page.
func (c *CatalogClient) ListArtworks(ctx context.Context, key catalog.QueryKey, cursor string) (models.CatalogPage, error) {
	params := key.Values()
	if cursor != "" {
		params.Set("cursor", cursor)
	}

	url := fmt.Sprintf("%s/catalogs/artworks?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.CatalogPage{}, fmt.Errorf("failed to build catalog request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.CatalogPage{}, fmt.Errorf("failed to call catalog service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.CatalogPage{}, fmt.Errorf("failed to read catalog response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return models.CatalogPage{}, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}

	var page models.CatalogPage
	if err := json.Unmarshal(body, &page); err != nil {
		return models.CatalogPage{}, fmt.Errorf("failed to unmarshal catalog page: %w", err)
	}
	return page, nil
}

// GetArtwork fetches one artwork document. Returns ErrNotFound on 404.
func (c *CatalogClient) GetArtwork(ctx context.Context, artworkID string) (models.ArtworkRow, error) {
	url := fmt.Sprintf("%s/catalogs/artworks/%s", c.baseURL, artworkID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.ArtworkRow{}, fmt.Errorf("failed to build artwork request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.ArtworkRow{}, fmt.Errorf("failed to call catalog service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.ArtworkRow{}, fmt.Errorf("failed to read artwork response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var row models.ArtworkRow
		if err := json.Unmarshal(body, &row); err != nil {
			return models.ArtworkRow{}, fmt.Errorf("failed to unmarshal artwork: %w", err)
		}
		return row, nil
	case http.StatusNotFound:
		return models.ArtworkRow{}, ErrNotFound
	default:
		return models.ArtworkRow{}, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}
}
