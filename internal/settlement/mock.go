package settlement

import (
	"context"
	"fmt"
	"sync"
	"time"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/payment"
	"github.com/cassiomorais/paygate/internal/infrastructure/observability"
	"github.com/cassiomorais/paygate/internal/notification"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	transactionIDPrefix = "MOCK-TRANS-"
	defaultNotifyDelay  = 10 * time.Second
)

// defaultApprovalLimit is the reference decision threshold, in the same
// currency unit as payment amounts.
var defaultApprovalLimit = decimal.RequireFromString("10000.00")

// transactionRecord holds the decided outcome for one submission. Records
// are created once at Submit and never mutated or evicted afterwards, so
// the synchronous status check and the delayed notification always observe
// the same decision.
type transactionRecord struct {
	payment  *payment.Payment
	decision payment.Status
	message  string
}

// MockService is the reference settlement backend. It decides each
// submission immediately against a configured amount threshold, caches the
// decision, and independently pushes the same decision to the payment's
// callback URL after a fixed delay, modeling a gateway that notifies
// regardless of being polled.
type MockService struct {
	limit       decimal.Decimal
	notifyDelay time.Duration
	dispatcher  notification.Dispatcher
	logger      zerolog.Logger
	metrics     *observability.Metrics

	mu           sync.RWMutex
	transactions map[string]*transactionRecord
}

type MockServiceOption func(*MockService)

// WithApprovalLimit sets the amount threshold above which submissions are
// rejected. Amounts exactly at the limit are approved.
func WithApprovalLimit(limit decimal.Decimal) MockServiceOption {
	return func(s *MockService) { s.limit = limit }
}

// WithNotifyDelay sets the delay before the asynchronous callback fires.
func WithNotifyDelay(d time.Duration) MockServiceOption {
	return func(s *MockService) { s.notifyDelay = d }
}

// WithMockMetrics records submission and decision counts on the given metrics.
func WithMockMetrics(m *observability.Metrics) MockServiceOption {
	return func(s *MockService) { s.metrics = m }
}

func NewMockService(dispatcher notification.Dispatcher, logger zerolog.Logger, opts ...MockServiceOption) *MockService {
	s := &MockService{
		limit:        defaultApprovalLimit,
		notifyDelay:  defaultNotifyDelay,
		dispatcher:   dispatcher,
		logger:       logger,
		transactions: make(map[string]*transactionRecord),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Submit decides the payment, caches the outcome under a fresh transaction
// id, schedules the delayed callback, and returns without waiting for it.
func (s *MockService) Submit(ctx context.Context, p *payment.Payment) (string, error) {
	if p == nil || !p.Amount.IsPositive() {
		s.recordSubmission("invalid")
		return "", fmt.Errorf("%w: payment amount must be positive", domainErrors.ErrSubmitFailed)
	}
	if p.CallbackURL == "" {
		s.recordSubmission("invalid")
		return "", fmt.Errorf("%w: missing callback url", domainErrors.ErrSubmitFailed)
	}

	transactionID := transactionIDPrefix + uuid.NewString()
	decision, message := s.decide(p)

	snapshot := *p
	record := &transactionRecord{payment: &snapshot, decision: decision, message: message}

	s.mu.Lock()
	s.transactions[transactionID] = record
	s.mu.Unlock()

	s.recordSubmission("accepted")
	if s.metrics != nil {
		s.metrics.SettlementDecisions.WithLabelValues(string(decision)).Inc()
	}

	s.logger.Info().
		Str("transaction_id", transactionID).
		Str("external_id", p.ExternalID).
		Str("decision", string(decision)).
		Msg("Settlement decided")

	// One-shot delayed callback. There is no cancellation once Submit
	// returns; a terminated process simply drops pending notifications.
	time.AfterFunc(s.notifyDelay, func() {
		s.deliver(transactionID)
	})

	return transactionID, nil
}

// CheckStatus returns the cached decision synchronously; it never waits for
// the delayed callback. An id this instance never issued fails with
// ErrUnknownTransaction rather than defaulting to PENDING, so callers can
// distinguish a stale handle from an undecided submission.
func (s *MockService) CheckStatus(_ context.Context, transactionID string) (payment.Status, error) {
	s.mu.RLock()
	record, ok := s.transactions[transactionID]
	s.mu.RUnlock()

	if !ok {
		return "", fmt.Errorf("%w: %s", domainErrors.ErrUnknownTransaction, transactionID)
	}
	return record.decision, nil
}

func (s *MockService) recordSubmission(result string) {
	if s.metrics != nil {
		s.metrics.SettlementSubmissions.WithLabelValues(result).Inc()
	}
}

func (s *MockService) decide(p *payment.Payment) (payment.Status, string) {
	if p.Amount.Cmp(s.limit) <= 0 {
		return payment.StatusApproved, "approved by settlement service"
	}
	return payment.StatusRejected, "rejected by settlement service: amount exceeds limit of " + s.limit.StringFixed(2)
}

// deliver runs on the scheduler goroutine. A panicking dispatcher must not
// take other pending notifications down with it.
func (s *MockService) deliver(transactionID string) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error().
				Str("transaction_id", transactionID).
				Interface("panic", r).
				Msg("Notification delivery panicked")
		}
	}()

	s.mu.RLock()
	record, ok := s.transactions[transactionID]
	s.mu.RUnlock()
	if !ok {
		return
	}

	n := notification.Notification{
		PaymentID:  nil,
		ExternalID: record.payment.ExternalID,
		Status:     record.decision,
		Message:    record.message,
		OrderID:    record.payment.OrderID,
	}

	s.logger.Info().
		Str("transaction_id", transactionID).
		Str("external_id", n.ExternalID).
		Str("callback_url", record.payment.CallbackURL).
		Msg("Pushing settlement notification")

	s.dispatcher.Send(context.Background(), record.payment.CallbackURL, n)
}
