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

// PaymentsClient wraps the payment gateway's charge endpoint and the
// WhatsApp handoff initiation. The only contract the storefront relies on is
// a success/failure discriminant plus a reference for the confirmation view.
type PaymentsClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewPaymentsClient(baseURL string) *PaymentsClient {
	return &PaymentsClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type chargeRequest struct {
	OrderID      string `json:"orderId"`
	Token        string `json:"token"`
	Installments int    `json:"installments,omitempty"`
}

type handoffRequest struct {
	OrderID string `json:"orderId"`
}

// Confirm runs the method-specific payment confirmation for the order.
func (c *PaymentsClient) Confirm(ctx context.Context, orderID string, payment models.PaymentRequest) (models.PaymentResult, error) {
	switch payment.Method {
	case models.PaymentMethodCard:
		if payment.Card == nil {
			return models.PaymentResult{}, fmt.Errorf("card payment requires card details")
		}
		return c.post(ctx, "/payments/charges", chargeRequest{
			OrderID:      orderID,
			Token:        payment.Card.Token,
			Installments: payment.Card.Installments,
		})
	case models.PaymentMethodWhatsApp:
		return c.post(ctx, "/payments/whatsapp-handoffs", handoffRequest{OrderID: orderID})
	default:
		return models.PaymentResult{}, fmt.Errorf("unsupported payment method %q", payment.Method)
	}
}

func (c *PaymentsClient) post(ctx context.Context, path string, payload any) (models.PaymentResult, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return models.PaymentResult{}, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return models.PaymentResult{}, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.PaymentResult{}, fmt.Errorf("failed to call payment service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.PaymentResult{}, fmt.Errorf("failed to read payment response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		var result models.PaymentResult
		if err := json.Unmarshal(body, &result); err != nil {
			return models.PaymentResult{}, fmt.Errorf("failed to unmarshal payment result: %w", err)
		}
		return result, nil
	case http.StatusPaymentRequired:
		return models.PaymentResult{}, fmt.Errorf("payment declined: %s", string(body))
	case http.StatusBadRequest:
		return models.PaymentResult{}, fmt.Errorf("invalid payment request: %s", string(body))
	default:
		return models.PaymentResult{}, fmt.Errorf("unexpected status code %d: %s", resp.StatusCode, string(body))
	}
}
