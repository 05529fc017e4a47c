package models

// Payment methods supported on checkout step 2.
const (
	PaymentMethodCard     = "card"
	PaymentMethodWhatsApp = "whatsapp"
)

type CardDetails struct {
	Token        string `json:"token" binding:"required"`
	Installments int    `json:"installments"`
}

// PaymentRequest is the step-2 confirmation payload. Card payments carry a
// gateway token; WhatsApp payments only need the handoff to be initiated.
type PaymentRequest struct {
	Method string       `json:"method" binding:"required,oneof=card whatsapp"`
	Card   *CardDetails `json:"card,omitempty"`
}

// PaymentResult is the success discriminant this service relies on; anything
// beyond Status and Reference belongs to the gateway.
type PaymentResult struct {
	Status    string `json:"status"`
	Reference string `json:"reference,omitempty"`
}
