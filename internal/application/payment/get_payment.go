package payment

import (
	"context"

	"github.com/cassiomorais/paygate/internal/domain/payment"
	"github.com/google/uuid"
)

// GetPaymentUseCase looks up persisted payments.
type GetPaymentUseCase struct {
	payments payment.Repository
}

// NewGetPaymentUseCase creates a new GetPaymentUseCase.
func NewGetPaymentUseCase(payments payment.Repository) *GetPaymentUseCase {
	return &GetPaymentUseCase{payments: payments}
}

// Execute retrieves a payment by its store-assigned id.
func (uc *GetPaymentUseCase) Execute(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	return uc.payments.GetByID(ctx, id)
}

// ExecuteByExternalID retrieves a payment by its caller-facing id.
func (uc *GetPaymentUseCase) ExecuteByExternalID(ctx context.Context, externalID string) (*payment.Payment, error) {
	return uc.payments.GetByExternalID(ctx, externalID)
}

// List lists payments matching the filter.
func (uc *GetPaymentUseCase) List(ctx context.Context, filter payment.ListFilter) ([]*payment.Payment, error) {
	return uc.payments.List(ctx, filter)
}
