package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/cassiomorais/paygate/internal/infrastructure/observability"
	"github.com/rs/zerolog"
)

const defaultSendTimeout = 5 * time.Second

// HTTPDispatcher posts notifications as JSON to the callback URL.
type HTTPDispatcher struct {
	client  *http.Client
	logger  zerolog.Logger
	metrics *observability.Metrics
}

type HTTPDispatcherOption func(*HTTPDispatcher)

// WithHTTPClient overrides the HTTP client used for delivery.
func WithHTTPClient(c *http.Client) HTTPDispatcherOption {
	return func(d *HTTPDispatcher) { d.client = c }
}

// WithMetrics records delivery outcomes on the given metrics.
func WithMetrics(m *observability.Metrics) HTTPDispatcherOption {
	return func(d *HTTPDispatcher) { d.metrics = m }
}

func NewHTTPDispatcher(logger zerolog.Logger, opts ...HTTPDispatcherOption) *HTTPDispatcher {
	d := &HTTPDispatcher{
		client: &http.Client{Timeout: defaultSendTimeout},
		logger: logger,
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// Send posts the notification to callbackURL. Every failure mode (bad URL,
// connection refused, non-2xx status) is logged and absorbed here; callers
// must never observe a delivery failure.
func (d *HTTPDispatcher) Send(ctx context.Context, callbackURL string, n Notification) {
	body, err := json.Marshal(n)
	if err != nil {
		d.record("marshal_error")
		d.logger.Error().Err(err).Str("external_id", n.ExternalID).Msg("Failed to encode notification")
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, callbackURL, bytes.NewReader(body))
	if err != nil {
		d.record("invalid_url")
		d.logger.Error().Err(err).Str("external_id", n.ExternalID).Msg("Invalid callback URL")
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		d.record("connection_error")
		d.logger.Error().Err(err).
			Str("external_id", n.ExternalID).
			Str("order_id", n.OrderID).
			Msg("Failed to deliver notification")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		d.record("http_error")
		d.logger.Error().
			Int("status_code", resp.StatusCode).
			Str("external_id", n.ExternalID).
			Str("order_id", n.OrderID).
			Msg("Callback endpoint rejected notification")
		return
	}

	d.record("success")
	d.logger.Info().
		Str("external_id", n.ExternalID).
		Str("status", string(n.Status)).
		Msg("Notification delivered")
}

func (d *HTTPDispatcher) record(result string) {
	if d.metrics != nil {
		d.metrics.NotificationDeliveries.WithLabelValues(result).Inc()
	}
}
