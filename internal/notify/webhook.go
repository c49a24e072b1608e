package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/quoteflow/backoffice/internal/common"
	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
)

// WebhookNotifier forwards domain events to a downstream system (CRM,
// ERP) as signed JSON POSTs. Delivery shares the emitting request's
// deadline; a slow receiver cannot hold a quote operation hostage
// beyond the client timeout.
type WebhookNotifier struct {
	URL    string
	Secret string
	Client *http.Client
	Topics map[string]bool
}

// NewWebhookNotifier delivers every topic unless a topic filter is set
// afterwards.
func NewWebhookNotifier(endpoint, secret string, timeout time.Duration) (*WebhookNotifier, error) {
	if err := validateURL(endpoint); err != nil {
		return nil, err
	}
	return &WebhookNotifier{
		URL:    endpoint,
		Secret: secret,
		Client: HTTPClient(timeout),
	}, nil
}

// Notify implements events.Notifier.
func (n *WebhookNotifier) Notify(ctx context.Context, event dbgen.DomainEvent) error {
	if n == nil || n.URL == "" {
		return nil
	}
	if n.Topics != nil && !n.Topics[event.Topic] {
		return nil
	}
	ctx, span := otel.Tracer("notify.WebhookNotifier").Start(ctx, "WebhookNotifier.Notify")
	defer span.End()
	span.SetAttributes(
		attribute.String("webhook.topic", event.Topic),
		attribute.String("webhook.aggregate_id", common.UUIDString(event.AggregateID)),
	)

	var occurred time.Time
	if event.OccurredAt.Valid {
		occurred = event.OccurredAt.Time
	} else {
		occurred = time.Now()
	}
	envelope := struct {
		EventID     string          `json:"eventId"`
		Topic       string          `json:"topic"`
		AggregateID string          `json:"aggregateId"`
		Data        json.RawMessage `json:"data"`
		OccurredAt  time.Time       `json:"occurredAt"`
	}{
		EventID:     common.UUIDString(event.ID),
		Topic:       event.Topic,
		AggregateID: common.UUIDString(event.AggregateID),
		Data:        json.RawMessage(event.Payload),
		OccurredAt:  occurred,
	}
	body, err := json.Marshal(envelope)
	if err != nil {
		span.RecordError(err)
		return err
	}

	ts := time.Now().Unix()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "backoffice-webhooks/1.0")
	req.Header.Set("X-Event-ID", envelope.EventID)
	req.Header.Set("X-Timestamp", strconv.FormatInt(ts, 10))
	if n.Secret != "" {
		req.Header.Set("X-Signature", ComputeSignature(n.Secret, ts, envelope.EventID, body))
	}

	client := n.Client
	if client == nil {
		client = HTTPClient(0)
	}
	resp, err := client.Do(req)
	if err != nil {
		span.RecordError(err)
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook %s responded %d", event.Topic, resp.StatusCode)
	}
	return nil
}

// ComputeSignature is HMAC-SHA256 over "<ts>.<eventID>.<body>" using the
// shared secret, hex encoded. Receivers recompute it to authenticate the
// delivery.
func ComputeSignature(secret string, ts int64, eventID string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(strconv.FormatInt(ts, 10)))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write([]byte(eventID))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// HTTPClient returns the client used for webhook delivery, with tracing
// on the transport.
func HTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid webhook url: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return errors.New("webhook url must be http or https")
	}
	if parsed.Scheme == "http" {
		host := parsed.Hostname()
		if host != "localhost" && host != "127.0.0.1" {
			return errors.New("http webhook only allowed for localhost")
		}
	}
	if parsed.Host == "" {
		return errors.New("webhook url must include host")
	}
	return nil
}
