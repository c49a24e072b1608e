// Package audit persists an append-only trail of business actions. The
// pricing and lifecycle engines write to it and never read it back.
package audit

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
)

// ActorKind represents the source of an audited action.
type ActorKind string

const (
	// ActorKindUser represents an authenticated end-user.
	ActorKindUser ActorKind = "user"
	// ActorKindSystem represents internal automated actions such as the expiry sweep.
	ActorKindSystem ActorKind = "system"
)

// Actor describes the entity performing the action.
type Actor struct {
	Kind ActorKind
	ID   string
}

// SystemActor is the canonical actor for scheduled jobs.
var SystemActor = Actor{Kind: ActorKindSystem, ID: "system"}

// Store defines the database operations required for auditing.
type Store interface {
	InsertAuditLog(ctx context.Context, arg dbgen.InsertAuditLogParams) (dbgen.AuditLog, error)
	DeleteAuditLogsBefore(ctx context.Context, cutoff pgtype.Timestamptz) (int64, error)
	ListAuditLogs(ctx context.Context, arg dbgen.ListAuditLogsParams) ([]dbgen.AuditLog, error)
}

// Service persists audit entries for critical flows.
type Service struct {
	Store   Store
	Enabled bool
	Now     func() time.Time
}

// Record persists one immutable audit entry when auditing is enabled.
func (s Service) Record(ctx context.Context, actor Actor, action, resourceType, resourceID string, metadata any) error {
	if !s.Enabled {
		return nil
	}
	if s.Store == nil {
		return errors.New("audit: store not configured")
	}
	kind := actor.Kind
	if kind == "" {
		kind = ActorKindSystem
	}
	encoded, err := encodeMetadata(metadata)
	if err != nil {
		return err
	}
	_, err = s.Store.InsertAuditLog(ctx, dbgen.InsertAuditLogParams{
		ActorKind:    string(kind),
		ActorID:      toNullText(actor.ID),
		Action:       strings.TrimSpace(action),
		ResourceType: strings.TrimSpace(resourceType),
		ResourceID:   toNullText(resourceID),
		Metadata:     encoded,
	})
	return err
}

// Cleanup deletes audit entries older than the retention window and
// returns the number of rows removed. Safe to run repeatedly.
func (s Service) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	if s.Store == nil {
		return 0, errors.New("audit: store not configured")
	}
	cutoff := s.now().Add(-retention)
	return s.Store.DeleteAuditLogsBefore(ctx, pgtype.Timestamptz{Time: cutoff, Valid: true})
}

func (s Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func encodeMetadata(metadata any) ([]byte, error) {
	if metadata == nil {
		return []byte("{}"), nil
	}
	if raw, ok := metadata.([]byte); ok {
		if len(raw) == 0 {
			return []byte("{}"), nil
		}
		if !json.Valid(raw) {
			return nil, errors.New("audit: metadata is not valid json")
		}
		return append([]byte(nil), raw...), nil
	}
	return json.Marshal(metadata)
}

func toNullText(value string) pgtype.Text {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: trimmed, Valid: true}
}
