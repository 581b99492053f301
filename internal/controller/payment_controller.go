package controller

import (
	"net/http"
	"strconv"
	"time"

	paymentApp "github.com/cassiomorais/paygate/internal/application/payment"
	"github.com/cassiomorais/paygate/internal/domain/payment"
	"github.com/cassiomorais/paygate/internal/infrastructure/observability"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// PaymentController handles payment-related HTTP requests.
type PaymentController struct {
	processUC *paymentApp.ProcessPaymentUseCase
	getUC     *paymentApp.GetPaymentUseCase
	metrics   *observability.Metrics
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(
	processUC *paymentApp.ProcessPaymentUseCase,
	getUC *paymentApp.GetPaymentUseCase,
	metrics *observability.Metrics,
) *PaymentController {
	return &PaymentController{
		processUC: processUC,
		getUC:     getUC,
		metrics:   metrics,
	}
}

// CreatePayment handles POST /api/v1/payments. The settlement flow runs
// synchronously but the decision may still be pending, so 202 is returned
// either way, matching the callback-driven contract.
func (h *PaymentController) CreatePayment(w http.ResponseWriter, r *http.Request) {
	var req CreatePaymentRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	draft, err := payment.NewDraft(req.Amount, req.CardNumber, req.OrderID, req.CallbackURL)
	if err != nil {
		writeError(w, err)
		return
	}

	start := time.Now()
	processed, err := h.processUC.Execute(r.Context(), draft)
	if err != nil {
		writeError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.PaymentsProcessed.WithLabelValues(string(processed.Status)).Inc()
		h.metrics.PaymentDuration.WithLabelValues(string(processed.Status)).Observe(time.Since(start).Seconds())
	}

	writeJSON(w, http.StatusAccepted, FromPayment(processed))
}

// GetPayment handles GET /api/v1/payments/{id}
func (h *PaymentController) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid payment id", Code: "invalid_id"})
		return
	}

	p, err := h.getUC.Execute(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromPayment(p))
}

// GetPaymentByExternalID handles GET /api/v1/payments/external/{externalId}
func (h *PaymentController) GetPaymentByExternalID(w http.ResponseWriter, r *http.Request) {
	externalID := chi.URLParam(r, "externalId")
	if externalID == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing external id", Code: "invalid_id"})
		return
	}

	p, err := h.getUC.ExecuteByExternalID(r.Context(), externalID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, FromPayment(p))
}

// ListPayments handles GET /api/v1/payments
func (h *PaymentController) ListPayments(w http.ResponseWriter, r *http.Request) {
	filter := payment.ListFilter{}

	if s := r.URL.Query().Get("status"); s != "" {
		status := payment.Status(s)
		if !status.Valid() {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid status filter", Code: "invalid_status"})
			return
		}
		filter.Status = &status
	}
	if s := r.URL.Query().Get("order_id"); s != "" {
		filter.OrderID = &s
	}
	filter.Limit, _ = strconv.Atoi(r.URL.Query().Get("limit"))
	filter.Offset, _ = strconv.Atoi(r.URL.Query().Get("offset"))
	filter.SortBy = r.URL.Query().Get("sort_by")
	filter.SortOrder = r.URL.Query().Get("sort_order")

	payments, err := h.getUC.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, FromPayment(p))
	}
	writeJSON(w, http.StatusOK, resp)
}
