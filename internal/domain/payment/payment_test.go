package payment_test

import (
	"strings"
	"testing"

	"github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestNewDraft_Valid(t *testing.T) {
	p, err := payment.NewDraft(amount("100.50"), "4111111111111111", "order-1", "http://example.com/cb")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusPending, p.Status)
	assert.Equal(t, uuid.Nil, p.ID)
	assert.Empty(t, p.ExternalID)
	assert.True(t, p.Amount.Equal(amount("100.50")))
	assert.Equal(t, "order-1", p.OrderID)
	assert.False(t, p.CreatedAt.IsZero())
}

func TestNewDraft_InvalidAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{"zero", "0"},
		{"negative", "-10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := payment.NewDraft(amount(tt.amount), "4111", "order-1", "http://example.com/cb")
			assert.Error(t, err)
			var ve *errors.ValidationError
			assert.ErrorAs(t, err, &ve)
		})
	}
}

func TestNewDraft_MissingOrderID(t *testing.T) {
	_, err := payment.NewDraft(amount("10.00"), "4111", "  ", "http://example.com/cb")
	assert.Error(t, err)
}

func TestNewDraft_MissingCallbackURL(t *testing.T) {
	_, err := payment.NewDraft(amount("10.00"), "4111", "order-1", "")
	assert.Error(t, err)
}

func TestSubmitted_AssignsExternalIDOnce(t *testing.T) {
	draft, err := payment.NewDraft(amount("10.00"), "4111", "order-1", "http://example.com/cb")
	require.NoError(t, err)

	externalID := payment.NewExternalID()
	pending, err := draft.Submitted(externalID)
	require.NoError(t, err)
	assert.Equal(t, externalID, pending.ExternalID)
	assert.Equal(t, payment.StatusPending, pending.Status)
	assert.Equal(t, "submitted for processing", pending.Message)

	// The draft itself is untouched.
	assert.Empty(t, draft.ExternalID)

	// A second assignment is refused.
	_, err = pending.Submitted(payment.NewExternalID())
	assert.ErrorIs(t, err, errors.ErrInvalidStateTransition)
}

func TestNewExternalID_PrefixAndUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := payment.NewExternalID()
		assert.True(t, strings.HasPrefix(id, payment.ExternalIDPrefix))
		assert.False(t, seen[id], "external id %s generated twice", id)
		seen[id] = true
	}
}

func TestWithStatus_CopyOnWrite(t *testing.T) {
	p := mustDraft(t, "10.00")

	approved, err := p.WithStatus(payment.StatusApproved, "approved by settlement service")
	require.NoError(t, err)

	assert.Equal(t, payment.StatusApproved, approved.Status)
	assert.Equal(t, "approved by settlement service", approved.Message)
	assert.Equal(t, payment.StatusPending, p.Status, "original must not mutate")
	assert.Equal(t, p.CreatedAt, approved.CreatedAt)
}

func TestWithStatus_UpdatedAtStrictlyIncreases(t *testing.T) {
	p := mustDraft(t, "10.00")

	rev1, err := p.WithStatus(payment.StatusPending, "submitted for processing")
	require.NoError(t, err)
	rev2, err := rev1.WithStatus(payment.StatusApproved, "approved by settlement service")
	require.NoError(t, err)

	assert.True(t, rev1.UpdatedAt.After(p.UpdatedAt))
	assert.True(t, rev2.UpdatedAt.After(rev1.UpdatedAt))
}

func TestWithStatus_TerminalIsFinal(t *testing.T) {
	p := mustDraft(t, "10.00")

	rejected, err := p.WithStatus(payment.StatusRejected, "rejected")
	require.NoError(t, err)

	_, err = rejected.WithStatus(payment.StatusApproved, "approved")
	assert.ErrorIs(t, err, errors.ErrInvalidStateTransition)

	// REFUNDED has no producing transition in this service either.
	_, err = rejected.WithStatus(payment.StatusRefunded, "refunded")
	assert.ErrorIs(t, err, errors.ErrInvalidStateTransition)
}

func TestStatus_IsTerminal(t *testing.T) {
	assert.False(t, payment.StatusPending.IsTerminal())
	assert.True(t, payment.StatusApproved.IsTerminal())
	assert.True(t, payment.StatusRejected.IsTerminal())
	assert.True(t, payment.StatusRefunded.IsTerminal())
}

func TestMaskedCard(t *testing.T) {
	p := mustDraft(t, "10.00")
	p.CardNumber = "4111 1111 1111 1234"
	assert.Equal(t, "**** **** **** 1234", p.MaskedCard())

	p.CardNumber = "123"
	assert.Equal(t, "****", p.MaskedCard())
}

func mustDraft(t *testing.T, amt string) *payment.Payment {
	t.Helper()
	p, err := payment.NewDraft(amount(amt), "4111111111111111", "order-1", "http://example.com/cb")
	require.NoError(t, err)
	return p
}
