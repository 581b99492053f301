package settlement

import (
	"context"

	"github.com/cassiomorais/paygate/internal/domain/payment"
)

// Service is the seam between the payment use case and the external
// settlement authority. MockService and GatewayClient both implement it;
// callers outside this package depend only on Submit and CheckStatus.
type Service interface {
	// Submit hands a persisted payment to the settlement authority and
	// returns an opaque transaction id. It fails with
	// errors.ErrSubmitFailed on transport or validation problems.
	Submit(ctx context.Context, p *payment.Payment) (string, error)

	// CheckStatus reports the decision for a previously submitted
	// transaction: StatusPending, StatusApproved or StatusRejected. It
	// fails with errors.ErrUnknownTransaction when the id was never
	// issued by this service instance.
	CheckStatus(ctx context.Context, transactionID string) (payment.Status, error)
}
