package payment

import (
	"strings"
	"time"

	"github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status represents the payment status in the state machine
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	// StatusRefunded is reserved for the refund workflow. Nothing in this
	// service produces it; it exists so stored refunds scan cleanly.
	StatusRefunded Status = "REFUNDED"
)

// Valid reports whether s is a known status value.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusRefunded:
		return true
	}
	return false
}

// IsTerminal reports whether s is a terminal settlement outcome.
func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusRefunded
}

// ExternalIDPrefix prefixes every caller-facing payment identifier.
const ExternalIDPrefix = "PAYER-"

// Payment represents one settlement attempt. Values are immutable once
// persisted: every revision is produced by a copy-on-write helper
// (Submitted, WithStatus) rather than in-place mutation.
type Payment struct {
	// ID is assigned by the store on the first save; uuid.Nil on drafts.
	ID         uuid.UUID
	ExternalID string
	Amount     decimal.Decimal
	// CardNumber is an opaque sensitive string. It is passed through to the
	// store untouched and must never reach logs or API responses in clear.
	CardNumber  string
	OrderID     string
	CallbackURL string
	Status      Status
	Message     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDraft creates an unpersisted payment draft from caller input.
func NewDraft(amount decimal.Decimal, cardNumber, orderID, callbackURL string) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, errors.NewValidationError("amount", "must be greater than 0")
	}
	if strings.TrimSpace(orderID) == "" {
		return nil, errors.NewValidationError("order_id", "cannot be empty")
	}
	if strings.TrimSpace(callbackURL) == "" {
		return nil, errors.NewValidationError("callback_url", "cannot be empty")
	}

	now := time.Now()
	return &Payment{
		Amount:      amount,
		CardNumber:  cardNumber,
		OrderID:     orderID,
		CallbackURL: callbackURL,
		Status:      StatusPending,
		Message:     "payment received",
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// NewExternalID generates a fresh caller-facing payment identifier.
func NewExternalID() string {
	return ExternalIDPrefix + uuid.NewString()
}

// Submitted returns a copy of the draft carrying the external id and the
// pending submission message. The external id is assigned exactly once;
// calling Submitted on a payment that already has one is a programming error.
func (p *Payment) Submitted(externalID string) (*Payment, error) {
	if p.ExternalID != "" {
		return nil, errors.NewDomainError(
			"external_id_reassigned",
			"external id already assigned: "+p.ExternalID,
			errors.ErrInvalidStateTransition,
		)
	}
	next := p.clone()
	next.ExternalID = externalID
	next.Status = StatusPending
	next.Message = "submitted for processing"
	next.UpdatedAt = bumpedClock(p.UpdatedAt)
	return next, nil
}

// WithStatus returns a copy of p carrying the new status and message.
// Terminal payments never transition again within this service; REFUNDED
// belongs to an out-of-scope refund flow.
func (p *Payment) WithStatus(status Status, message string) (*Payment, error) {
	if p.Status.IsTerminal() {
		return nil, errors.NewDomainError(
			"invalid_transition",
			"cannot transition from "+string(p.Status)+" to "+string(status),
			errors.ErrInvalidStateTransition,
		)
	}
	next := p.clone()
	next.Status = status
	next.Message = message
	next.UpdatedAt = bumpedClock(p.UpdatedAt)
	return next, nil
}

// IsTerminal reports whether the payment reached a terminal status.
func (p *Payment) IsTerminal() bool {
	return p.Status.IsTerminal()
}

// MaskedCard returns the card number with all but the last four digits hidden.
func (p *Payment) MaskedCard() string {
	digits := strings.ReplaceAll(p.CardNumber, " ", "")
	if len(digits) <= 4 {
		return "****"
	}
	return "**** **** **** " + digits[len(digits)-4:]
}

func (p *Payment) clone() *Payment {
	cp := *p
	return &cp
}

// bumpedClock returns the current time, nudged forward when the wall clock
// has not advanced past prev. UpdatedAt must strictly increase on every
// persisted revision.
func bumpedClock(prev time.Time) time.Time {
	now := time.Now()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}
