package promo

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/quoteflow/backoffice/internal/obs"
)

// PricingResult is the outcome of one pipeline run: the applied-promotions
// record, the aggregate discount, and the reason the supplied code was
// rejected when it could not be honoured.
type PricingResult struct {
	Applied       []AppliedPromotion `json:"applied_promotions"`
	DiscountTotal decimal.Decimal    `json:"discount_total"`
	RejectedCode  *RejectedCode      `json:"rejected_code,omitempty"`
}

// Service orchestrates the pricing pipeline: catalog filter, eligibility,
// stacking, discount calculation. It never consumes redemptions; the
// finalize path owns that via the Ledger.
type Service struct {
	Catalog   Catalog
	Evaluator Evaluator
	Now       func() time.Time
}

// Price runs the pipeline against the provided context. Evaluation errors
// exclude the promotion; a rejected supplied code is reported but does not
// fail the run.
func (s *Service) Price(ctx context.Context, pc PricingContext) (PricingResult, error) {
	if pc.Now.IsZero() {
		pc.Now = s.now()
	}
	candidates, err := s.Catalog.ActiveAt(ctx, pc.Now)
	if err != nil {
		observePricing("error")
		return PricingResult{}, err
	}

	var (
		eligible     []Eligible
		rejectedCode *RejectedCode
	)
	for _, p := range candidates {
		ev, err := s.Evaluator.Evaluate(ctx, p, pc)
		if err != nil {
			if reason := codeRejectionReason(err); reason != "" && len(p.Codes) > 0 && pc.SuppliedCode != "" {
				rejectedCode = &RejectedCode{Code: pc.SuppliedCode, Reason: reason}
				observeCodeRejection(reason)
			}
			continue
		}
		eligible = append(eligible, ev)
	}

	applied := ResolveStacking(eligible)
	records, total, err := ComputeDiscounts(applied, pc)
	if err != nil {
		observePricing("invariant_violation")
		return PricingResult{}, err
	}

	// A code that unlocked an applied promotion was not rejected, whatever
	// other code-gated promotions said about it.
	for _, rec := range records {
		if rec.CodeID != nil {
			rejectedCode = nil
			break
		}
	}

	observePricing("ok")
	for _, rec := range records {
		observeApplied(rec.ActionType)
	}
	return PricingResult{Applied: records, DiscountTotal: total, RejectedCode: rejectedCode}, nil
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func codeRejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrCodeLimitReached):
		return "limit_reached"
	case errors.Is(err, ErrCodePerUserLimitReached):
		return "per_user_limit_reached"
	case errors.Is(err, ErrCodeNotEligible):
		return "code_invalid"
	default:
		return ""
	}
}

func observePricing(result string) {
	if obs.QuotesPricedTotal != nil {
		obs.QuotesPricedTotal.WithLabelValues(result).Inc()
	}
}

func observeApplied(actionType string) {
	if obs.PromotionsAppliedTotal != nil {
		obs.PromotionsAppliedTotal.WithLabelValues(actionType).Inc()
	}
}

func observeCodeRejection(reason string) {
	if obs.PromotionCodesRejectedTotal != nil {
		obs.PromotionCodesRejectedTotal.WithLabelValues(reason).Inc()
	}
}
