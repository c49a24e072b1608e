// Package jobs defines the scheduled background tasks: the nightly quote
// expiry sweep and audit log cleanup. Tasks are scheduled and executed
// through asynq so only one worker instance runs each occurrence.
package jobs

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/quoteflow/backoffice/internal/audit"
	"github.com/quoteflow/backoffice/internal/quote"
)

const (
	// TypeExpirySweep moves stale sent and viewed quotes to expired.
	TypeExpirySweep = "quotes:expiry_sweep"
	// TypeAuditCleanup prunes audit entries past the retention window.
	TypeAuditCleanup = "audit:cleanup"
)

// Handlers executes the scheduled tasks.
type Handlers struct {
	Quotes         *quote.Service
	Audit          audit.Service
	AuditRetention time.Duration
	Log            zerolog.Logger
}

// Register attaches all task handlers to the mux.
func (h Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeExpirySweep, h.HandleExpirySweep)
	mux.HandleFunc(TypeAuditCleanup, h.HandleAuditCleanup)
}

// HandleExpirySweep expires every quote whose validity date has passed.
func (h Handlers) HandleExpirySweep(ctx context.Context, _ *asynq.Task) error {
	expired, err := h.Quotes.SweepExpired(ctx)
	if err != nil {
		h.Log.Error().Err(err).Int("expired", expired).Msg("expiry sweep finished with errors")
		return err
	}
	h.Log.Info().Int("expired", expired).Msg("expiry sweep complete")
	return nil
}

// HandleAuditCleanup removes audit entries older than the retention window.
func (h Handlers) HandleAuditCleanup(ctx context.Context, _ *asynq.Task) error {
	removed, err := h.Audit.Cleanup(ctx, h.AuditRetention)
	if err != nil {
		h.Log.Error().Err(err).Msg("audit cleanup failed")
		return err
	}
	h.Log.Info().Int64("removed", removed).Msg("audit cleanup complete")
	return nil
}

// Schedule registers the cron entries on the asynq scheduler.
func Schedule(scheduler *asynq.Scheduler, expiryCron, auditCron string) error {
	if _, err := scheduler.Register(expiryCron, asynq.NewTask(TypeExpirySweep, nil)); err != nil {
		return err
	}
	_, err := scheduler.Register(auditCron, asynq.NewTask(TypeAuditCleanup, nil))
	return err
}
