package promo

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
)

// LedgerQuerier captures the database methods the redemption ledger needs.
// Commit must run on a Queries bound to an open transaction so the code row
// lock, the count, the insert and the counter bump form one atomic unit.
type LedgerQuerier interface {
	GetPromotionCodeForUpdate(ctx context.Context, id pgtype.UUID) (dbgen.PromotionCode, error)
	CountRedemptionsByCode(ctx context.Context, codeID pgtype.UUID) (int64, error)
	CountRedemptionsByCodeAndUser(ctx context.Context, arg dbgen.CountRedemptionsByCodeAndUserParams) (int64, error)
	GetRedemptionByQuote(ctx context.Context, arg dbgen.GetRedemptionByQuoteParams) (dbgen.PromotionRedemption, error)
	InsertRedemption(ctx context.Context, arg dbgen.InsertRedemptionParams) (dbgen.PromotionRedemption, error)
	IncrementCodeUses(ctx context.Context, id pgtype.UUID) error
}

// Ledger atomically consumes promotion code usage. It is invoked only when
// a quote's pricing is being finalized; speculative re-pricing never
// touches it.
type Ledger struct {
	Q LedgerQuerier
}

// CommitParams describe one redemption to record.
type CommitParams struct {
	PromotionID pgtype.UUID
	CodeID      pgtype.UUID
	UserID      pgtype.UUID
	QuoteID     pgtype.UUID
	Amount      decimal.Decimal
}

// Commit re-validates redemption limits at commit time, inserts the ledger
// row and bumps the code's cached uses counter. A second commit for the
// same (quote, promotion) pair returns the existing record unchanged, so
// repeated finalization never double-counts. Limit violations return
// ErrLimitExceeded and the caller must roll back the enclosing transaction.
func (l Ledger) Commit(ctx context.Context, arg CommitParams) (dbgen.PromotionRedemption, error) {
	if l.Q == nil {
		return dbgen.PromotionRedemption{}, errors.New("promo: ledger not configured")
	}
	if !arg.QuoteID.Valid || !arg.PromotionID.Valid {
		return dbgen.PromotionRedemption{}, errors.New("promo: quote and promotion ids are required")
	}

	existing, err := l.Q.GetRedemptionByQuote(ctx, dbgen.GetRedemptionByQuoteParams{
		QuoteID:     arg.QuoteID,
		PromotionID: arg.PromotionID,
	})
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return dbgen.PromotionRedemption{}, err
	}

	if arg.CodeID.Valid {
		// Lock the code row so concurrent commits serialize here.
		code, err := l.Q.GetPromotionCodeForUpdate(ctx, arg.CodeID)
		if err != nil {
			return dbgen.PromotionRedemption{}, err
		}
		if code.MaxRedemptions.Valid {
			used, err := l.Q.CountRedemptionsByCode(ctx, arg.CodeID)
			if err != nil {
				return dbgen.PromotionRedemption{}, err
			}
			if used >= int64(code.MaxRedemptions.Int32) {
				return dbgen.PromotionRedemption{}, fmt.Errorf("%w: code %s", ErrLimitExceeded, code.Code)
			}
		}
		if code.MaxPerUser.Valid && arg.UserID.Valid {
			used, err := l.Q.CountRedemptionsByCodeAndUser(ctx, dbgen.CountRedemptionsByCodeAndUserParams{
				CodeID: arg.CodeID,
				UserID: arg.UserID,
			})
			if err != nil {
				return dbgen.PromotionRedemption{}, err
			}
			if used >= int64(code.MaxPerUser.Int32) {
				return dbgen.PromotionRedemption{}, fmt.Errorf("%w: code %s for user", ErrLimitExceeded, code.Code)
			}
		}
	}

	record, err := l.Q.InsertRedemption(ctx, dbgen.InsertRedemptionParams{
		PromotionID:      arg.PromotionID,
		CodeID:           arg.CodeID,
		UserID:           arg.UserID,
		QuoteID:          arg.QuoteID,
		AmountDiscounted: arg.Amount,
	})
	if err != nil {
		return dbgen.PromotionRedemption{}, err
	}
	if arg.CodeID.Valid {
		if err := l.Q.IncrementCodeUses(ctx, arg.CodeID); err != nil {
			return dbgen.PromotionRedemption{}, err
		}
	}
	return record, nil
}
