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

// TicketOrderRequest is the fair-ticket purchase payload forwarded to the
// external ticket service.
type TicketOrderRequest struct {
	Event    string       `json:"event"`
	TicketID string       `json:"ticketId"`
	Qty      int          `json:"qty"`
	Buyer    models.Buyer `json:"buyer"`
}

type TicketOrder struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// TicketsClient wraps the external ticket service.
type TicketsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewTicketsClient(baseURL string) *TicketsClient {
	return &TicketsClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// CreateTicketOrder submits a ticket purchase.
func (c *TicketsClient) CreateTicketOrder(ctx context.Context, ticketReq TicketOrderRequest) (TicketOrder, error) {
	jsonData, err := json.Marshal(ticketReq)
	if err != nil {
		return TicketOrder{}, fmt.Errorf("failed to marshal ticket request: %w", err)
	}

	url := fmt.Sprintf("%s/tickets/orders", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return TicketOrder{}, fmt.Errorf("failed to build ticket request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return TicketOrder{}, fmt.Errorf("failed to call ticket service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return TicketOrder{}, fmt.Errorf("failed to read ticket response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var order TicketOrder
		if err := json.Unmarshal(body, &order); err != nil {
			return TicketOrder{}, fmt.Errorf("failed to unmarshal ticket order: %w", err)
		}
		return order, nil
	case http.StatusBadRequest:
		return TicketOrder{}, fmt.Errorf("ticket order rejected: %s", string(body))
	default:
		return TicketOrder{}, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}
}
