package controller

import (
	"time"

	"github.com/cassiomorais/paygate/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// --- Request DTOs ---
// These DTOs handle HTTP/JSON concerns. Amounts decode through
// shopspring/decimal so "100.50" survives the wire exactly; controllers
// convert to domain drafts before calling business logic.

// CreatePaymentRequest holds the input for processing a payment.
type CreatePaymentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	CardNumber  string          `json:"cardNumber" validate:"required"`
	OrderID     string          `json:"orderId" validate:"required"`
	CallbackURL string          `json:"callbackUrl" validate:"required,url"`
}

// --- Response DTOs ---

// PaymentResponse represents a payment in API responses. The card number is
// never echoed back.
type PaymentResponse struct {
	ID         string    `json:"id"`
	ExternalID string    `json:"externalId"`
	Amount     string    `json:"amount"`
	OrderID    string    `json:"orderId"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// FromPayment converts a domain payment to an API response.
func FromPayment(p *payment.Payment) *PaymentResponse {
	return &PaymentResponse{
		ID:         p.ID.String(),
		ExternalID: p.ExternalID,
		Amount:     p.Amount.StringFixed(2),
		OrderID:    p.OrderID,
		Status:     string(p.Status),
		Message:    p.Message,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}
