package models

// CartItem is one line of a shopping cart. There is exactly one item per
// artwork id within a cart, and Quantity is always >= 1; updating a line to a
// non-positive quantity removes it instead.
type CartItem struct {
	ArtworkID string `json:"artwork_id"`
	Title     string `json:"title"`
	Price     int64  `json:"price"`
	Image     string `json:"image,omitempty"`
	Quantity  int    `json:"quantity"`
}

type CreateCartResponse struct {
	CartID string `json:"cart_id"`
}

type AddItemRequest struct {
	ArtworkID string `json:"artwork_id" binding:"required"`
	Title     string `json:"title" binding:"required"`
	Price     int64  `json:"price" binding:"gte=0"`
	Image     string `json:"image"`
	Quantity  int    `json:"quantity" binding:"gte=0"`
}

// UpdateQuantityRequest intentionally has no minimum bound: zero or negative
// values mean "remove the line".
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartView struct {
	CartID        string     `json:"cart_id"`
	Items         []CartItem `json:"items"`
	TotalItems    int        `json:"total_items"`
	Subtotal      int64      `json:"subtotal"`
	SubtotalLabel string     `json:"subtotal_label"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}
