// Package notify turns domain events into operator-facing alerts.
package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/quoteflow/backoffice/internal/common"
	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
	"github.com/quoteflow/backoffice/internal/events"
)

// AlertNotifier emits a structured alert log line for the topics it
// watches. Delivery is best-effort; the emitting operation never depends
// on it.
type AlertNotifier struct {
	Logger zerolog.Logger
	Topics map[string]bool
}

// NewAlertNotifier watches the expiry and conversion topics by default.
func NewAlertNotifier(logger zerolog.Logger) *AlertNotifier {
	return &AlertNotifier{
		Logger: logger,
		Topics: map[string]bool{
			events.TopicQuoteExpired:   true,
			events.TopicQuoteConverted: true,
		},
	}
}

// Notify implements events.Notifier.
func (n *AlertNotifier) Notify(_ context.Context, event dbgen.DomainEvent) error {
	if n == nil || (n.Topics != nil && !n.Topics[event.Topic]) {
		return nil
	}
	n.Logger.Info().
		Str("topic", event.Topic).
		Str("aggregate_id", common.UUIDString(event.AggregateID)).
		RawJSON("payload", event.Payload).
		Msg("alert")
	return nil
}
