package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"feria-storefront/models"
)

// OrdersClient wraps the external order service.
type OrdersClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewOrdersClient(baseURL string) *OrdersClient {
	return &OrdersClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateOrder submits a new order for the cart's lines and buyer data.
func (c *OrdersClient) CreateOrder(ctx context.Context, orderReq models.CreateOrderRequest) (models.Order, error) {
	jsonData, err := json.Marshal(orderReq)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to marshal order request: %w", err)
	}

	url := fmt.Sprintf("%s/order/orders", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to call order service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to read order response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var order models.Order
		if err := json.Unmarshal(body, &order); err != nil {
			return models.Order{}, fmt.Errorf("failed to unmarshal order: %w", err)
		}
		return order, nil
	case http.StatusBadRequest:
		return models.Order{}, fmt.Errorf("order rejected: %s", string(body))
	default:
		return models.Order{}, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}
}

// GetOrder re-fetches an order document. Returns ErrNotFound on 404.
func (c *OrdersClient) GetOrder(ctx context.Context, orderID string) (models.Order, error) {
	url := fmt.Sprintf("%s/order/orders/%s", c.baseURL, orderID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to build order request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to call order service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Order{}, fmt.Errorf("failed to read order response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var order models.Order
		if err := json.Unmarshal(body, &order); err != nil {
			return models.Order{}, fmt.Errorf("failed to unmarshal order: %w", err)
		}
		return order, nil
	case http.StatusNotFound:
		return models.Order{}, ErrNotFound
	default:
		return models.Order{}, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}
}
