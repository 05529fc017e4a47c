package models

// OrderItem mirrors the item shape the external order service expects.
type OrderItem struct {
	ArtworkID string `json:"artworkId"`
	ArtistID  string `json:"artistId,omitempty"`
	Qty       int    `json:"qty"`
	UnitPrice int64  `json:"unitPrice"`
	Currency  string `json:"currency"`
}

// Buyer is the personal/address form submitted on checkout step 1. Field
// presence is enforced by binding; the document-number format check is a
// separate local validation.
type Buyer struct {
	FirstName      string `json:"first_name" binding:"required"`
	LastName       string `json:"last_name" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Phone          string `json:"phone" binding:"required"`
	DocumentNumber string `json:"document_number" binding:"required"`
	Address        string `json:"address" binding:"required"`
	City           string `json:"city" binding:"required"`
}

type CreateOrderRequest struct {
	Event string      `json:"event"`
	Items []OrderItem `json:"items"`
	Buyer Buyer       `json:"buyer"`
}

// Order is the order document owned by the external order service. It is
// never mutated locally except by re-fetch.
type Order struct {
	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Event     string      `json:"event,omitempty"`
	Items     []OrderItem `json:"items,omitempty"`
	Total     int64       `json:"total,omitempty"`
	CreatedAt string      `json:"createdAt,omitempty"`
}

// OrderConfirmed is the event published to the fulfillment queue once
// payment has been confirmed.
type OrderConfirmed struct {
	OrderID     string               `json:"order_id"`
	OrderNumber string               `json:"order_number"`
	CartID      string               `json:"cart_id"`
	Items       []OrderConfirmedItem `json:"items"`
	Subtotal    int64                `json:"subtotal"`
	ConfirmedAt string               `json:"confirmed_at"`
}

type OrderConfirmedItem struct {
	ArtworkID    string `json:"artwork_id"`
	Title        string `json:"title"`
	ArtistID     string `json:"artist_id,omitempty"`
	PavilionID   string `json:"pavilion_id,omitempty"`
	PavilionName string `json:"pavilion_name,omitempty"`
	Qty          int    `json:"qty"`
	UnitPrice    int64  `json:"unit_price"`
}
