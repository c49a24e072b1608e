package promo

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quoteflow/backoffice/internal/money"
)

// ComputeDiscounts walks the applied set in order and computes the monetary
// discount of each promotion's actions against the remaining discountable
// base. Order-scope promotions act on the full subtotal, category/product
// scope on the matching lines only. The running total never exceeds the
// quote subtotal; anything past the floor is a hard invariant failure
// rather than a silent clamp.
func ComputeDiscounts(applied []Eligible, pc PricingContext) ([]AppliedPromotion, decimal.Decimal, error) {
	records := make([]AppliedPromotion, 0, len(applied))
	total := decimal.Zero
	for _, e := range applied {
		scoped := ScopedSubtotal(e.Promotion, pc)
		for _, action := range e.Promotion.Actions {
			remaining := pc.Subtotal.Sub(total)
			if remaining.IsNegative() {
				return nil, decimal.Zero, fmt.Errorf("%w: discount %s exceeds subtotal %s", money.ErrInvariant, total, pc.Subtotal)
			}
			base := money.Min(scoped, remaining)
			amount := actionAmount(action, base, pc)
			if action.MaxDiscount != nil {
				amount = money.Min(amount, *action.MaxDiscount)
			}
			amount = money.Round2(money.ClampNonNegative(money.Min(amount, remaining)))
			if amount.IsZero() {
				continue
			}
			total = total.Add(amount)
			records = append(records, AppliedPromotion{
				PromotionID:      e.Promotion.ID,
				CodeID:           e.CodeID,
				ActionType:       string(action.Type),
				Value:            action.Value,
				AmountDiscounted: amount,
			})
		}
	}
	if total.GreaterThan(pc.Subtotal) {
		return nil, decimal.Zero, fmt.Errorf("%w: discount %s exceeds subtotal %s", money.ErrInvariant, total, pc.Subtotal)
	}
	return records, total, nil
}

func actionAmount(action Action, base decimal.Decimal, pc PricingContext) decimal.Decimal {
	switch action.Type {
	case ActionPercent:
		return money.Percent(base, action.Value)
	case ActionFixed:
		return money.Min(action.Value, base)
	case ActionBogoFree:
		return bogoAmount(action, pc, decimal.NewFromInt(100))
	case ActionBogoPercent:
		return bogoAmount(action, pc, action.BogoValue)
	default:
		return decimal.Zero
	}
}

// bogoAmount matches buy_qty units of the buy SKU to get_qty units of the
// get SKU (same SKU when unspecified) and discounts the matched get units
// at pct percent of their unit price. When buy and get are the same SKU a
// complete set needs buy_qty plus get_qty units, so the discounted units
// are carved out of the pool instead of double-counting as buys. When the
// get SKU spans several lines the cheapest line prices the discount.
func bogoAmount(action Action, pc PricingContext, pct decimal.Decimal) decimal.Decimal {
	buySKU := action.BuySKU
	getSKU := action.GetSKU
	if getSKU == "" {
		getSKU = buySKU
	}
	if buySKU == "" {
		buySKU = getSKU
	}
	if buySKU == "" || action.BuyQty <= 0 || action.GetQty <= 0 {
		return decimal.Zero
	}

	var buyUnits, getUnits int32
	var getUnitPrice decimal.Decimal
	for _, line := range pc.Lines {
		if line.SKU == buySKU {
			buyUnits += line.Quantity
		}
		if line.SKU == getSKU {
			if getUnits == 0 || line.UnitPrice.LessThan(getUnitPrice) {
				getUnitPrice = line.UnitPrice
			}
			getUnits += line.Quantity
		}
	}

	var sets int32
	if buySKU == getSKU {
		sets = buyUnits / (action.BuyQty + action.GetQty)
	} else {
		sets = buyUnits / action.BuyQty
	}
	if sets <= 0 {
		return decimal.Zero
	}
	matched := sets * action.GetQty
	if matched > getUnits {
		matched = getUnits
	}
	if matched <= 0 {
		return decimal.Zero
	}
	gross := getUnitPrice.Mul(decimal.NewFromInt32(matched))
	return money.Percent(gross, pct)
}
