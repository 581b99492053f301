package testutil

import (
	"context"
	"sync"

	"github.com/cassiomorais/paygate/internal/domain/payment"
	"github.com/cassiomorais/paygate/internal/notification"
	"github.com/google/uuid"
)

// --- Payment Repository Mock ---

// MockPaymentRepository is a mock implementation of payment.Repository. It
// records every saved revision in order, which tests use to assert the
// one-save vs two-save contract of the process use case.
type MockPaymentRepository struct {
	mu        sync.Mutex
	payments  map[uuid.UUID]*payment.Payment
	byExtID   map[string]*payment.Payment
	revisions []*payment.Payment

	SaveFunc            func(ctx context.Context, p *payment.Payment) (*payment.Payment, error)
	GetByIDFunc         func(ctx context.Context, id uuid.UUID) (*payment.Payment, error)
	GetByExternalIDFunc func(ctx context.Context, externalID string) (*payment.Payment, error)
	ListFunc            func(ctx context.Context, filter payment.ListFilter) ([]*payment.Payment, error)
}

func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[uuid.UUID]*payment.Payment),
		byExtID:  make(map[string]*payment.Payment),
	}
}

func (m *MockPaymentRepository) Save(ctx context.Context, p *payment.Payment) (*payment.Payment, error) {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, p)
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	stored := *p
	if stored.ID == uuid.Nil {
		stored.ID = uuid.New()
	}
	m.payments[stored.ID] = &stored
	if stored.ExternalID != "" {
		m.byExtID[stored.ExternalID] = &stored
	}
	m.revisions = append(m.revisions, &stored)
	return &stored, nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.payments[id]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (m *MockPaymentRepository) GetByExternalID(ctx context.Context, externalID string) (*payment.Payment, error) {
	if m.GetByExternalIDFunc != nil {
		return m.GetByExternalIDFunc(ctx, externalID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byExtID[externalID]
	if !ok {
		return nil, nil
	}
	return p, nil
}

func (m *MockPaymentRepository) List(ctx context.Context, filter payment.ListFilter) ([]*payment.Payment, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]*payment.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		result = append(result, p)
	}
	return result, nil
}

// SaveCount returns how many revisions were persisted.
func (m *MockPaymentRepository) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.revisions)
}

// Revision returns the i-th persisted revision (zero-based).
func (m *MockPaymentRepository) Revision(i int) *payment.Payment {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.revisions[i]
}

// --- Settlement Service Mock ---

// MockSettlementService is a scripted settlement backend for use case
// tests. It counts calls so tests can assert CheckStatus is skipped on
// submission failure.
type MockSettlementService struct {
	mu               sync.Mutex
	submitCalls      int
	checkStatusCalls int

	SubmitFunc      func(ctx context.Context, p *payment.Payment) (string, error)
	CheckStatusFunc func(ctx context.Context, transactionID string) (payment.Status, error)
}

func (m *MockSettlementService) Submit(ctx context.Context, p *payment.Payment) (string, error) {
	m.mu.Lock()
	m.submitCalls++
	m.mu.Unlock()
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, p)
	}
	return "MOCK-TRANS-" + uuid.NewString(), nil
}

func (m *MockSettlementService) CheckStatus(ctx context.Context, transactionID string) (payment.Status, error) {
	m.mu.Lock()
	m.checkStatusCalls++
	m.mu.Unlock()
	if m.CheckStatusFunc != nil {
		return m.CheckStatusFunc(ctx, transactionID)
	}
	return payment.StatusApproved, nil
}

func (m *MockSettlementService) SubmitCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.submitCalls
}

func (m *MockSettlementService) CheckStatusCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkStatusCalls
}

// --- Notification Dispatcher Mock ---

// Delivery captures one dispatched notification.
type Delivery struct {
	URL          string
	Notification notification.Notification
}

// MockDispatcher records dispatched notifications and signals each one on
// Delivered, so tests can wait for the delayed callback without sleeping.
type MockDispatcher struct {
	mu         sync.Mutex
	deliveries []Delivery

	Delivered chan Delivery
	SendFunc  func(ctx context.Context, callbackURL string, n notification.Notification)
}

func NewMockDispatcher() *MockDispatcher {
	return &MockDispatcher{Delivered: make(chan Delivery, 16)}
}

func (m *MockDispatcher) Send(ctx context.Context, callbackURL string, n notification.Notification) {
	if m.SendFunc != nil {
		m.SendFunc(ctx, callbackURL, n)
		return
	}
	d := Delivery{URL: callbackURL, Notification: n}
	m.mu.Lock()
	m.deliveries = append(m.deliveries, d)
	m.mu.Unlock()
	m.Delivered <- d
}

func (m *MockDispatcher) Deliveries() []Delivery {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Delivery, len(m.deliveries))
	copy(out, m.deliveries)
	return out
}
