package notification

import (
	"context"

	"github.com/cassiomorais/paygate/internal/domain/payment"
	"github.com/google/uuid"
)

// Notification is the decision payload delivered to a payment's callback
// URL. PaymentID is deliberately null: callback recipients correlate by
// ExternalID and OrderID, never by the internal id.
type Notification struct {
	PaymentID  *uuid.UUID     `json:"paymentId"`
	ExternalID string         `json:"externalId"`
	Status     payment.Status `json:"status"`
	Message    string         `json:"message"`
	OrderID    string         `json:"orderId"`
}

// Dispatcher delivers decision notifications to caller-supplied callback
// endpoints. Delivery is best effort: implementations record failures and
// swallow them, never retry, and never propagate an error to the caller.
type Dispatcher interface {
	Send(ctx context.Context, callbackURL string, n Notification)
}
