package payment

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the interface for payment persistence
type Repository interface {
	// Save persists a payment revision. Drafts (ID == uuid.Nil) receive a
	// store-assigned id; the returned payment is the stored revision.
	Save(ctx context.Context, payment *Payment) (*Payment, error)

	// GetByID retrieves a payment by its store-assigned id
	GetByID(ctx context.Context, id uuid.UUID) (*Payment, error)

	// GetByExternalID retrieves a payment by its caller-facing id
	GetByExternalID(ctx context.Context, externalID string) (*Payment, error)

	// List lists payments with filters
	List(ctx context.Context, filter ListFilter) ([]*Payment, error)
}

// ListFilter defines filters for listing payments
type ListFilter struct {
	Status    *Status
	OrderID   *string
	Limit     int
	Offset    int
	SortBy    string
	SortOrder string
}
