package settlement_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/payment"
	"github.com/cassiomorais/paygate/internal/settlement"
	"github.com/cassiomorais/paygate/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGateway(t *testing.T, baseURL string) *settlement.GatewayClient {
	t.Helper()
	return settlement.NewGatewayClient(
		baseURL,
		zerolog.Nop(),
		settlement.WithGatewayRetry(2, time.Millisecond),
	)
}

func TestGatewaySubmit(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/settlements", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"transaction_id": "GW-42"})
	}))
	defer srv.Close()

	p := testutil.NewSubmittedPayment("100.50")
	transactionID, err := newGateway(t, srv.URL).Submit(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "GW-42", transactionID)
	assert.Equal(t, p.ExternalID, got["external_id"])
	assert.Equal(t, "100.50", got["amount"])
	assert.Equal(t, p.OrderID, got["order_id"])
	assert.Equal(t, p.CallbackURL, got["callback_url"])
}

func TestGatewaySubmit_RejectsEmptyTransactionID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	}))
	defer srv.Close()

	_, err := newGateway(t, srv.URL).Submit(context.Background(), testutil.NewSubmittedPayment("10.00"))
	assert.ErrorIs(t, err, domainErrors.ErrSubmitFailed)
}

func TestGatewaySubmit_ServerErrorIsRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]string{"transaction_id": "GW-42"})
	}))
	defer srv.Close()

	transactionID, err := newGateway(t, srv.URL).Submit(context.Background(), testutil.NewSubmittedPayment("10.00"))
	require.NoError(t, err)
	assert.Equal(t, "GW-42", transactionID)
	assert.Equal(t, int32(2), calls.Load())
}

func TestGatewaySubmit_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	_, err := newGateway(t, srv.URL).Submit(context.Background(), testutil.NewSubmittedPayment("10.00"))
	assert.ErrorIs(t, err, domainErrors.ErrSubmitFailed)
}

func TestGatewayCheckStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/settlements/GW-42", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]string{"status": "APPROVED"})
	}))
	defer srv.Close()

	status, err := newGateway(t, srv.URL).CheckStatus(context.Background(), "GW-42")
	require.NoError(t, err)
	assert.Equal(t, payment.StatusApproved, status)
}

func TestGatewayCheckStatus_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := newGateway(t, srv.URL).CheckStatus(context.Background(), "GW-missing")
	assert.ErrorIs(t, err, domainErrors.ErrUnknownTransaction)
}

func TestGatewayCheckStatus_UnrecognizedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"status": "MAYBE"})
	}))
	defer srv.Close()

	_, err := newGateway(t, srv.URL).CheckStatus(context.Background(), "GW-42")
	assert.ErrorIs(t, err, domainErrors.ErrGatewayUnavailable)
}
