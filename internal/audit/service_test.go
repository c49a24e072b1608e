package audit

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
)

type stubStore struct {
	lastInsert dbgen.InsertAuditLogParams
	inserted   bool
	cutoff     pgtype.Timestamptz
	deleted    int64
}

func (s *stubStore) InsertAuditLog(_ context.Context, arg dbgen.InsertAuditLogParams) (dbgen.AuditLog, error) {
	s.inserted = true
	s.lastInsert = arg
	return dbgen.AuditLog{}, nil
}

func (s *stubStore) DeleteAuditLogsBefore(_ context.Context, cutoff pgtype.Timestamptz) (int64, error) {
	s.cutoff = cutoff
	return s.deleted, nil
}

func (s *stubStore) ListAuditLogs(context.Context, dbgen.ListAuditLogsParams) ([]dbgen.AuditLog, error) {
	return nil, nil
}

func TestRecordPersistsEntry(t *testing.T) {
	store := &stubStore{}
	svc := Service{Store: store, Enabled: true}

	err := svc.Record(context.Background(), Actor{Kind: ActorKindUser, ID: "u-123"}, "quote.finalized", "quote", "q-1", map[string]string{"number": "DEV-2025-0001"})
	if err != nil {
		t.Fatalf("record: %v", err)
	}
	if !store.inserted {
		t.Fatal("expected insert")
	}
	if store.lastInsert.ActorKind != string(ActorKindUser) {
		t.Fatalf("actor kind: %s", store.lastInsert.ActorKind)
	}
	if !store.lastInsert.ActorID.Valid || store.lastInsert.ActorID.String != "u-123" {
		t.Fatalf("actor id: %+v", store.lastInsert.ActorID)
	}
	if store.lastInsert.Action != "quote.finalized" {
		t.Fatalf("action: %s", store.lastInsert.Action)
	}
	var meta map[string]string
	if err := json.Unmarshal(store.lastInsert.Metadata, &meta); err != nil {
		t.Fatalf("metadata: %v", err)
	}
	if meta["number"] != "DEV-2025-0001" {
		t.Fatalf("metadata content: %+v", meta)
	}
}

func TestRecordDisabledIsNoop(t *testing.T) {
	store := &stubStore{}
	svc := Service{Store: store, Enabled: false}

	if err := svc.Record(context.Background(), SystemActor, "quote.expired", "quote", "q-1", nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if store.inserted {
		t.Fatal("disabled service must not write")
	}
}

func TestRecordNilMetadataDefaultsToEmptyObject(t *testing.T) {
	store := &stubStore{}
	svc := Service{Store: store, Enabled: true}

	if err := svc.Record(context.Background(), SystemActor, "quote.expired", "quote", "q-1", nil); err != nil {
		t.Fatalf("record: %v", err)
	}
	if string(store.lastInsert.Metadata) != "{}" {
		t.Fatalf("metadata: %s", store.lastInsert.Metadata)
	}
}

func TestCleanupUsesRetentionCutoff(t *testing.T) {
	store := &stubStore{deleted: 7}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc := Service{Store: store, Enabled: true, Now: func() time.Time { return now }}

	removed, err := svc.Cleanup(context.Background(), 30*24*time.Hour)
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if removed != 7 {
		t.Fatalf("removed: %d", removed)
	}
	want := now.Add(-30 * 24 * time.Hour)
	if !store.cutoff.Valid || !store.cutoff.Time.Equal(want) {
		t.Fatalf("cutoff: %+v, want %s", store.cutoff, want)
	}
}
