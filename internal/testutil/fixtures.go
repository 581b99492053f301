package testutil

import (
	"time"

	"github.com/cassiomorais/paygate/internal/domain/payment"
	"github.com/shopspring/decimal"
)

// NewDraftPayment builds an unpersisted payment draft with sensible test
// defaults. The amount is given as a decimal string ("100.50").
func NewDraftPayment(amount string) *payment.Payment {
	now := time.Now()
	return &payment.Payment{
		Amount:      decimal.RequireFromString(amount),
		CardNumber:  "4111111111111111",
		OrderID:     "order-123",
		CallbackURL: "http://localhost:9999/callback",
		Status:      payment.StatusPending,
		Message:     "payment received",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewSubmittedPayment builds a persisted-looking pending payment carrying
// an external id.
func NewSubmittedPayment(amount string) *payment.Payment {
	p := NewDraftPayment(amount)
	p.ExternalID = payment.NewExternalID()
	p.Message = "submitted for processing"
	return p
}
