package payment

import (
	"context"
	"fmt"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/payment"
	"github.com/cassiomorais/paygate/internal/settlement"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProcessPaymentUseCase drives a payment draft through submission to the
// settlement authority and resolves a terminal outcome where one is
// available. The two persistence calls it makes are independent units: a
// crash between them leaves the payment PENDING, an accepted
// eventual-consistency gap of this design.
type ProcessPaymentUseCase struct {
	payments   payment.Repository
	settlement settlement.Service
	logger     zerolog.Logger
}

// NewProcessPaymentUseCase creates a new ProcessPaymentUseCase.
func NewProcessPaymentUseCase(
	payments payment.Repository,
	settlementSvc settlement.Service,
	logger zerolog.Logger,
) *ProcessPaymentUseCase {
	return &ProcessPaymentUseCase{
		payments:   payments,
		settlement: settlementSvc,
		logger:     logger,
	}
}

// Execute processes a payment draft:
//
//  1. assign a fresh external id and persist the payment as PENDING;
//  2. submit it to the settlement service; a submission failure converts
//     to a terminal REJECTED revision carrying the failure detail, and the
//     status check is skipped entirely;
//  3. otherwise check the decision and persist the terminal revision, or
//     return the pending revision unchanged when no decision is available.
//
// Only a failure of the initial save propagates to the caller; every later
// failure resolves into the returned payment instead.
func (uc *ProcessPaymentUseCase) Execute(ctx context.Context, draft *payment.Payment) (*payment.Payment, error) {
	if err := checkDraft(draft); err != nil {
		return nil, err
	}

	externalID := payment.NewExternalID()
	uc.logger.Info().
		Str("external_id", externalID).
		Str("order_id", draft.OrderID).
		Msg("Processing payment")

	pending, err := draft.Submitted(externalID)
	if err != nil {
		return nil, err
	}

	saved, err := uc.payments.Save(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("save pending payment: %w", err)
	}
	uc.logger.Info().
		Str("payment_id", saved.ID.String()).
		Str("external_id", saved.ExternalID).
		Msg("Payment persisted as pending")

	transactionID, err := uc.settlement.Submit(ctx, saved)
	if err != nil {
		uc.logger.Error().Err(err).
			Str("external_id", saved.ExternalID).
			Msg("Settlement submission failed")
		return uc.finalize(ctx, saved, payment.StatusRejected, "processing error: "+err.Error())
	}
	uc.logger.Info().
		Str("external_id", saved.ExternalID).
		Str("transaction_id", transactionID).
		Msg("Payment submitted to settlement service")

	status, err := uc.settlement.CheckStatus(ctx, transactionID)
	if err != nil {
		uc.logger.Error().Err(err).
			Str("transaction_id", transactionID).
			Msg("Settlement status check failed")
		return uc.finalize(ctx, saved, payment.StatusRejected, "processing error: "+err.Error())
	}

	switch status {
	case payment.StatusApproved:
		return uc.finalize(ctx, saved, payment.StatusApproved, "approved by settlement service")
	case payment.StatusRejected:
		return uc.finalize(ctx, saved, payment.StatusRejected, "rejected by settlement service: amount exceeds limit")
	default:
		// Decision not yet available; the pending revision stands and the
		// callback will carry the outcome later.
		return saved, nil
	}
}

// finalize persists the terminal revision of p and returns it.
func (uc *ProcessPaymentUseCase) finalize(ctx context.Context, p *payment.Payment, status payment.Status, message string) (*payment.Payment, error) {
	terminal, err := p.WithStatus(status, message)
	if err != nil {
		return nil, err
	}

	saved, err := uc.payments.Save(ctx, terminal)
	if err != nil {
		return nil, fmt.Errorf("save %s payment: %w", status, err)
	}

	uc.logger.Info().
		Str("payment_id", saved.ID.String()).
		Str("external_id", saved.ExternalID).
		Str("status", string(saved.Status)).
		Msg("Payment resolved")
	return saved, nil
}

// checkDraft guards against callers handing in an already-persisted payment.
func checkDraft(draft *payment.Payment) error {
	if draft == nil {
		return domainErrors.NewValidationError("payment", "cannot be nil")
	}
	if draft.ID != uuid.Nil {
		return domainErrors.NewValidationError("id", "must be absent on drafts")
	}
	return nil
}
