package promo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
)

// UsageReader exposes redemption counts for limit checks at evaluation
// time. No state is mutated here; the ledger consumes usage at commit.
type UsageReader interface {
	CountRedemptionsByCode(ctx context.Context, codeID pgtype.UUID) (int64, error)
	CountRedemptionsByCodeAndUser(ctx context.Context, arg dbgen.CountRedemptionsByCodeAndUserParams) (int64, error)
}

// Evaluator decides whether a single catalog promotion applies to a
// pricing context.
type Evaluator struct {
	Usage UsageReader
}

// Evaluate returns the eligible promotion with its resolved code, or an
// error explaining why it does not apply. Evaluation errors are
// recoverable: the caller simply excludes the promotion.
func (e Evaluator) Evaluate(ctx context.Context, p Promotion, pc PricingContext) (Eligible, error) {
	if !scopeMatches(p, pc) {
		return Eligible{}, ErrNotEligible
	}
	if p.MinSubtotal != nil && pc.Subtotal.LessThan(*p.MinSubtotal) {
		return Eligible{}, ErrMinimumSubtotalUnmet
	}
	if p.MinQuantity != nil && pc.TotalQuantity < *p.MinQuantity {
		return Eligible{}, ErrMinimumQuantityUnmet
	}
	if len(p.Codes) == 0 {
		return Eligible{Promotion: p}, nil
	}
	code, ok := matchCode(p.Codes, pc.SuppliedCode, pc)
	if !ok {
		return Eligible{}, ErrCodeNotEligible
	}
	if err := e.checkLimits(ctx, code, pc.UserID); err != nil {
		return Eligible{}, err
	}
	id := code.ID
	return Eligible{Promotion: p, CodeID: &id}, nil
}

func scopeMatches(p Promotion, pc PricingContext) bool {
	switch p.Scope {
	case ScopeOrder:
		return true
	case ScopeCategory:
		for _, line := range pc.Lines {
			if intersects(line.CategoryIDs, p.CategoryIDs) {
				return true
			}
		}
		return false
	case ScopeProduct:
		for _, line := range pc.Lines {
			if containsUUID(p.ProductIDs, line.ProductID) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// ScopedSubtotal returns the pre-tax amount of the lines a promotion's
// discount acts on: the full subtotal for order scope, the matching lines
// only for category and product scope.
func ScopedSubtotal(p Promotion, pc PricingContext) decimal.Decimal {
	switch p.Scope {
	case ScopeCategory:
		total := decimal.Zero
		for _, line := range pc.Lines {
			if intersects(line.CategoryIDs, p.CategoryIDs) {
				total = total.Add(line.Subtotal())
			}
		}
		return total
	case ScopeProduct:
		total := decimal.Zero
		for _, line := range pc.Lines {
			if containsUUID(p.ProductIDs, line.ProductID) {
				total = total.Add(line.Subtotal())
			}
		}
		return total
	default:
		return pc.Subtotal
	}
}

func matchCode(codes []Code, supplied string, pc PricingContext) (Code, bool) {
	trimmed := strings.TrimSpace(supplied)
	if trimmed == "" {
		return Code{}, false
	}
	for _, c := range codes {
		if strings.EqualFold(c.Code, trimmed) && c.ActiveWithin(pc.Now) {
			return c, true
		}
	}
	return Code{}, false
}

func (e Evaluator) checkLimits(ctx context.Context, code Code, userID *uuid.UUID) error {
	if e.Usage == nil {
		return nil
	}
	codeID := pgtype.UUID{Bytes: code.ID, Valid: true}
	if code.MaxRedemptions != nil {
		used, err := e.Usage.CountRedemptionsByCode(ctx, codeID)
		if err != nil {
			return err
		}
		if used >= int64(*code.MaxRedemptions) {
			return ErrCodeLimitReached
		}
	}
	if code.MaxPerUser != nil && userID != nil {
		used, err := e.Usage.CountRedemptionsByCodeAndUser(ctx, dbgen.CountRedemptionsByCodeAndUserParams{
			CodeID: codeID,
			UserID: pgtype.UUID{Bytes: *userID, Valid: true},
		})
		if err != nil {
			return err
		}
		if used >= int64(*code.MaxPerUser) {
			return ErrCodePerUserLimitReached
		}
	}
	return nil
}

func intersects(a, b []uuid.UUID) bool {
	for _, x := range a {
		if containsUUID(b, x) {
			return true
		}
	}
	return false
}

func containsUUID(haystack []uuid.UUID, needle uuid.UUID) bool {
	for _, id := range haystack {
		if id == needle {
			return true
		}
	}
	return false
}
