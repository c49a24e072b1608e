package promo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
)

type stubLedgerQuerier struct {
	code        dbgen.PromotionCode
	existing    *dbgen.PromotionRedemption
	countByCode int64
	countByUser int64

	inserted   []dbgen.InsertRedemptionParams
	increments []pgtype.UUID
}

func (s *stubLedgerQuerier) GetPromotionCodeForUpdate(_ context.Context, id pgtype.UUID) (dbgen.PromotionCode, error) {
	return s.code, nil
}

func (s *stubLedgerQuerier) CountRedemptionsByCode(context.Context, pgtype.UUID) (int64, error) {
	return s.countByCode, nil
}

func (s *stubLedgerQuerier) CountRedemptionsByCodeAndUser(context.Context, dbgen.CountRedemptionsByCodeAndUserParams) (int64, error) {
	return s.countByUser, nil
}

func (s *stubLedgerQuerier) GetRedemptionByQuote(context.Context, dbgen.GetRedemptionByQuoteParams) (dbgen.PromotionRedemption, error) {
	if s.existing != nil {
		return *s.existing, nil
	}
	return dbgen.PromotionRedemption{}, pgx.ErrNoRows
}

func (s *stubLedgerQuerier) InsertRedemption(_ context.Context, arg dbgen.InsertRedemptionParams) (dbgen.PromotionRedemption, error) {
	s.inserted = append(s.inserted, arg)
	return dbgen.PromotionRedemption{
		ID:          pgUUID(uuid.New()),
		PromotionID: arg.PromotionID,
		CodeID:      arg.CodeID,
		QuoteID:     arg.QuoteID,
	}, nil
}

func (s *stubLedgerQuerier) IncrementCodeUses(_ context.Context, id pgtype.UUID) error {
	s.increments = append(s.increments, id)
	return nil
}

func commitParams(codeID uuid.UUID) CommitParams {
	return CommitParams{
		PromotionID: pgUUID(uuid.New()),
		CodeID:      pgUUID(codeID),
		QuoteID:     pgUUID(uuid.New()),
		Amount:      dec("12.50"),
	}
}

func TestLedgerCommitInsertsAndBumpsUses(t *testing.T) {
	codeID := uuid.New()
	q := &stubLedgerQuerier{code: dbgen.PromotionCode{ID: pgUUID(codeID), Code: "SPRING10", IsActive: true}}

	_, err := Ledger{Q: q}.Commit(context.Background(), commitParams(codeID))
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(q.inserted) != 1 {
		t.Fatalf("expected one insert, got %d", len(q.inserted))
	}
	if len(q.increments) != 1 || uuid.UUID(q.increments[0].Bytes) != codeID {
		t.Fatalf("expected uses bump for code %s", codeID)
	}
}

func TestLedgerCommitIdempotentPerQuote(t *testing.T) {
	codeID := uuid.New()
	existing := dbgen.PromotionRedemption{ID: pgUUID(uuid.New()), CodeID: pgUUID(codeID)}
	q := &stubLedgerQuerier{existing: &existing}

	got, err := Ledger{Q: q}.Commit(context.Background(), commitParams(codeID))
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if got.ID != existing.ID {
		t.Fatal("expected the existing redemption back")
	}
	if len(q.inserted) != 0 || len(q.increments) != 0 {
		t.Fatal("repeat commit must not write")
	}
}

func TestLedgerCommitGlobalLimit(t *testing.T) {
	codeID := uuid.New()
	q := &stubLedgerQuerier{
		code: dbgen.PromotionCode{
			ID:             pgUUID(codeID),
			Code:           "CAP1",
			IsActive:       true,
			MaxRedemptions: pgtype.Int4{Int32: 1, Valid: true},
		},
		countByCode: 1,
	}

	_, err := Ledger{Q: q}.Commit(context.Background(), commitParams(codeID))
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	if len(q.inserted) != 0 {
		t.Fatal("limit violation must not insert")
	}
}

func TestLedgerCommitPerUserLimit(t *testing.T) {
	codeID := uuid.New()
	q := &stubLedgerQuerier{
		code: dbgen.PromotionCode{
			ID:         pgUUID(codeID),
			Code:       "ONCE",
			IsActive:   true,
			MaxPerUser: pgtype.Int4{Int32: 1, Valid: true},
		},
		countByUser: 1,
	}
	params := commitParams(codeID)
	params.UserID = pgUUID(uuid.New())

	_, err := Ledger{Q: q}.Commit(context.Background(), params)
	if !errors.Is(err, ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
}

func TestLedgerCommitCodelessPromotion(t *testing.T) {
	q := &stubLedgerQuerier{}
	params := CommitParams{
		PromotionID: pgUUID(uuid.New()),
		QuoteID:     pgUUID(uuid.New()),
		Amount:      dec("5.00"),
	}

	_, err := Ledger{Q: q}.Commit(context.Background(), params)
	if err != nil {
		t.Fatalf("commit: %v", err)
	}
	if len(q.increments) != 0 {
		t.Fatal("codeless redemption must not bump code uses")
	}
}
