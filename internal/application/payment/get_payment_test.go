package payment_test

import (
	"context"
	"testing"

	apppayment "github.com/cassiomorais/paygate/internal/application/payment"
	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/payment"
	"github.com/cassiomorais/paygate/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPayment_ByID(t *testing.T) {
	repo := testutil.NewMockPaymentRepository()
	stored, err := repo.Save(context.Background(), testutil.NewSubmittedPayment("50.00"))
	require.NoError(t, err)

	uc := apppayment.NewGetPaymentUseCase(repo)
	got, err := uc.Execute(context.Background(), stored.ID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
	assert.Equal(t, stored.ExternalID, got.ExternalID)
}

func TestGetPayment_ByExternalID(t *testing.T) {
	repo := testutil.NewMockPaymentRepository()
	stored, err := repo.Save(context.Background(), testutil.NewSubmittedPayment("50.00"))
	require.NoError(t, err)

	uc := apppayment.NewGetPaymentUseCase(repo)
	got, err := uc.ExecuteByExternalID(context.Background(), stored.ExternalID)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, got.ID)
}

func TestGetPayment_NotFound(t *testing.T) {
	repo := testutil.NewMockPaymentRepository()
	repo.GetByIDFunc = func(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
		return nil, domainErrors.ErrPaymentNotFound
	}

	uc := apppayment.NewGetPaymentUseCase(repo)
	_, err := uc.Execute(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domainErrors.ErrPaymentNotFound)
}

func TestGetPayment_List(t *testing.T) {
	repo := testutil.NewMockPaymentRepository()
	for _, amt := range []string{"10.00", "20.00", "30.00"} {
		_, err := repo.Save(context.Background(), testutil.NewSubmittedPayment(amt))
		require.NoError(t, err)
	}

	uc := apppayment.NewGetPaymentUseCase(repo)
	got, err := uc.List(context.Background(), payment.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, got, 3)

	pending := payment.StatusPending
	got, err = uc.List(context.Background(), payment.ListFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, got, 3)
}
