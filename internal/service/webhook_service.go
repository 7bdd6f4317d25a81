package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"hydrogen-credit-ledger/internal/core/domain"
	"hydrogen-credit-ledger/internal/core/ports"

	"github.com/rs/zerolog"
)

// DefaultWebhookRetryIntervals are the waits between delivery attempts.
var DefaultWebhookRetryIntervals = []time.Duration{
	5 * time.Second,
	15 * time.Second,
	60 * time.Second,
	2 * time.Minute,
	5 * time.Minute,
}

// WebhookPayload is the JSON body POSTed to the webhook URL.
type WebhookPayload struct {
	EventType domain.EventType `json:"event_type"`
	Seq       uint64           `json:"seq"`
	Data      interface{}      `json:"data"`
	Timestamp int64            `json:"timestamp"`
}

// HTTPClient interface for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// WebhookPublisher delivers ledger events to one HTTP endpoint as signed
// POSTs. It implements ports.EventPublisher; the dispatcher calls it from a
// single worker so deliveries stay in order.
type WebhookPublisher struct {
	url            string
	secret         string
	sigSvc         ports.SignatureService
	httpClient     HTTPClient
	retryIntervals []time.Duration
	now            func() time.Time
	log            zerolog.Logger
}

// NewWebhookPublisher creates a webhook sink for url.
func NewWebhookPublisher(
	url string,
	secret string,
	sigSvc ports.SignatureService,
	httpClient HTTPClient,
	retryIntervals []time.Duration,
	log zerolog.Logger,
) *WebhookPublisher {
	return &WebhookPublisher{
		url:            url,
		secret:         secret,
		sigSvc:         sigSvc,
		httpClient:     httpClient,
		retryIntervals: retryIntervals,
		now:            time.Now,
		log:            log,
	}
}

// Name implements ports.EventPublisher.
func (p *WebhookPublisher) Name() string {
	return "webhook"
}

// Publish delivers ev, retrying on transport errors and non-2xx responses.
// It returns an error once every attempt has failed or ctx is done.
func (p *WebhookPublisher) Publish(ctx context.Context, ev domain.Event) error {
	body, err := json.Marshal(WebhookPayload{
		EventType: ev.Type,
		Seq:       ev.Seq,
		Data:      ev.Data,
		Timestamp: ev.Timestamp.Unix(),
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	for attempt := 0; attempt <= len(p.retryIntervals); attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(p.retryIntervals[attempt-1]):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		status, err := p.deliver(ctx, body)
		if err != nil {
			p.log.Warn().Err(err).Str("event", string(ev.Type)).Uint64("seq", ev.Seq).Int("attempt", attempt+1).Msg("webhook: delivery failed")
			continue
		}
		if status >= 200 && status < 300 {
			p.log.Debug().Str("event", string(ev.Type)).Uint64("seq", ev.Seq).Int("attempt", attempt+1).Msg("webhook: delivered")
			return nil
		}
		p.log.Warn().Str("event", string(ev.Type)).Uint64("seq", ev.Seq).Int("attempt", attempt+1).Int("status", status).Msg("webhook: non-2xx response, retrying")
	}

	p.log.Error().Str("event", string(ev.Type)).Uint64("seq", ev.Seq).Msg("webhook: all retry attempts exhausted")
	return fmt.Errorf("webhook delivery of seq %d failed after %d attempts", ev.Seq, len(p.retryIntervals)+1)
}

func (p *WebhookPublisher) deliver(ctx context.Context, body []byte) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(SignatureHeader, SignedHeaderValue(p.sigSvc, p.secret, p.now(), body))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}
