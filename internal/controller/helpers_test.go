package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", domainErrors.ErrPaymentNotFound, http.StatusNotFound, "not_found"},
		{"wrapped not found", fmt.Errorf("lookup: %w", domainErrors.ErrPaymentNotFound), http.StatusNotFound, "not_found"},
		{"invalid amount", domainErrors.ErrInvalidAmount, http.StatusBadRequest, "invalid_amount"},
		{"invalid transition", domainErrors.ErrInvalidStateTransition, http.StatusConflict, "invalid_state_transition"},
		{"unknown transaction", domainErrors.ErrUnknownTransaction, http.StatusNotFound, "unknown_transaction"},
		{"gateway unavailable", domainErrors.ErrGatewayUnavailable, http.StatusServiceUnavailable, "gateway_unavailable"},
		{"validation", domainErrors.NewValidationError("amount", "must be positive"), http.StatusBadRequest, "validation_error"},
		{"bare domain error", domainErrors.NewDomainError("duplicate_order", "order already paid", nil), http.StatusUnprocessableEntity, "duplicate_order"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
		})
	}
}

func TestWriteError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("pq: connection refused on 10.0.0.3"))

	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}
