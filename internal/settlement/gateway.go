package settlement

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	domainErrors "github.com/cassiomorais/paygate/internal/domain/errors"
	"github.com/cassiomorais/paygate/internal/domain/payment"
	"github.com/cassiomorais/paygate/internal/infrastructure/observability"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"
)

// GatewayClient talks to a real settlement authority over HTTP. It is the
// production-facing variant behind the Service seam; the decision semantics
// live on the gateway side, this client only moves requests and maps
// failures onto the settlement error taxonomy.
type GatewayClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	logger     zerolog.Logger
	metrics    *observability.Metrics
	attempts   uint
	retryDelay time.Duration
}

type GatewayOption func(*GatewayClient)

func WithGatewayHTTPClient(c *http.Client) GatewayOption {
	return func(g *GatewayClient) { g.httpClient = c }
}

func WithGatewayRetry(attempts uint, delay time.Duration) GatewayOption {
	return func(g *GatewayClient) {
		g.attempts = attempts
		g.retryDelay = delay
	}
}

// WithGatewayMetrics records submission outcomes and breaker state on the
// given metrics.
func WithGatewayMetrics(m *observability.Metrics) GatewayOption {
	return func(g *GatewayClient) { g.metrics = m }
}

func NewGatewayClient(baseURL string, logger zerolog.Logger, opts ...GatewayOption) *GatewayClient {
	g := &GatewayClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
		attempts:   3,
		retryDelay: 500 * time.Millisecond,
	}
	for _, o := range opts {
		o(g)
	}

	g.breaker = gobreaker.NewCircuitBreaker[*http.Response](gobreaker.Settings{
		Name:        "settlement-gateway",
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			g.logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
			if g.metrics != nil {
				g.metrics.CircuitBreakerState.WithLabelValues(name).Set(breakerStateValue(to))
			}
		},
	})
	return g
}

func breakerStateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}

type submitRequest struct {
	ExternalID  string `json:"external_id"`
	Amount      string `json:"amount"`
	OrderID     string `json:"order_id"`
	CallbackURL string `json:"callback_url"`
}

type submitResponse struct {
	TransactionID string `json:"transaction_id"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Submit posts the payment to the gateway and returns its transaction id.
func (g *GatewayClient) Submit(ctx context.Context, p *payment.Payment) (string, error) {
	body, err := json.Marshal(submitRequest{
		ExternalID:  p.ExternalID,
		Amount:      p.Amount.StringFixed(2),
		OrderID:     p.OrderID,
		CallbackURL: p.CallbackURL,
	})
	if err != nil {
		return "", fmt.Errorf("%w: encode request: %v", domainErrors.ErrSubmitFailed, err)
	}

	resp, err := g.do(ctx, http.MethodPost, g.baseURL+"/settlements", body)
	if err != nil {
		g.recordSubmission("error")
		return "", fmt.Errorf("%w: %v", domainErrors.ErrSubmitFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		g.recordSubmission("rejected")
		return "", fmt.Errorf("%w: gateway returned status %d", domainErrors.ErrSubmitFailed, resp.StatusCode)
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		g.recordSubmission("error")
		return "", fmt.Errorf("%w: decode response: %v", domainErrors.ErrSubmitFailed, err)
	}
	if out.TransactionID == "" {
		g.recordSubmission("error")
		return "", fmt.Errorf("%w: gateway returned empty transaction id", domainErrors.ErrSubmitFailed)
	}
	g.recordSubmission("accepted")
	return out.TransactionID, nil
}

func (g *GatewayClient) recordSubmission(result string) {
	if g.metrics != nil {
		g.metrics.SettlementSubmissions.WithLabelValues(result).Inc()
	}
}

// CheckStatus queries the gateway for the decision on transactionID.
func (g *GatewayClient) CheckStatus(ctx context.Context, transactionID string) (payment.Status, error) {
	resp, err := g.do(ctx, http.MethodGet, g.baseURL+"/settlements/"+transactionID, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainErrors.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", domainErrors.ErrUnknownTransaction, transactionID)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: gateway returned status %d", domainErrors.ErrGatewayUnavailable, resp.StatusCode)
	}

	var out statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domainErrors.ErrGatewayUnavailable, err)
	}

	status := payment.Status(out.Status)
	if !status.Valid() {
		return "", fmt.Errorf("%w: unrecognized status %q", domainErrors.ErrGatewayUnavailable, out.Status)
	}
	if g.metrics != nil {
		g.metrics.SettlementDecisions.WithLabelValues(string(status)).Inc()
	}
	return status, nil
}

// do issues the request through the circuit breaker with bounded retries.
// Server-side errors (5xx) and transport errors count against the breaker;
// 4xx responses are returned to the caller untouched.
func (g *GatewayClient) do(ctx context.Context, method, url string, body []byte) (*http.Response, error) {
	return retry.DoWithData(
		func() (*http.Response, error) {
			return g.breaker.Execute(func() (*http.Response, error) {
				var reader io.Reader
				if body != nil {
					reader = bytes.NewReader(body)
				}
				req, err := http.NewRequestWithContext(ctx, method, url, reader)
				if err != nil {
					return nil, retry.Unrecoverable(err)
				}
				if body != nil {
					req.Header.Set("Content-Type", "application/json")
				}

				resp, err := g.httpClient.Do(req)
				if err != nil {
					return nil, err
				}
				if resp.StatusCode >= 500 {
					resp.Body.Close()
					return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
				}
				return resp, nil
			})
		},
		retry.Context(ctx),
		retry.Attempts(g.attempts),
		retry.Delay(g.retryDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			g.logger.Warn().Uint("attempt", n+1).Err(err).Str("url", url).Msg("Retrying gateway call")
		}),
	)
}
