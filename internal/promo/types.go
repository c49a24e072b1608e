// Package promo implements the promotion selection and discount pipeline:
// catalog filtering, eligibility evaluation, stacking resolution, discount
// calculation and the redemption ledger. The pipeline operates on immutable
// value objects converted from storage rows at the boundary; persistence is
// always a separate, explicit step.
package promo

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotEligible is returned when a promotion cannot be applied to the provided context.
	ErrNotEligible = errors.New("promotion not eligible")
	// ErrCodeNotEligible is returned when the supplied code is missing, inactive, or outside its window.
	ErrCodeNotEligible = errors.New("promotion code not eligible")
	// ErrCodeLimitReached indicates the code exhausted its global redemption quota.
	ErrCodeLimitReached = errors.New("promotion code redemption limit reached")
	// ErrCodePerUserLimitReached indicates the caller exceeded the per-user allowance.
	ErrCodePerUserLimitReached = errors.New("promotion code per-user limit reached")
	// ErrLimitExceeded is returned by the ledger when a limit is violated at commit time.
	ErrLimitExceeded = errors.New("redemption limit exceeded")
	// ErrMinimumSubtotalUnmet indicates the quote subtotal did not meet the promotion requirement.
	ErrMinimumSubtotalUnmet = errors.New("promotion minimum subtotal not met")
	// ErrMinimumQuantityUnmet indicates the quote quantity did not meet the promotion requirement.
	ErrMinimumQuantityUnmet = errors.New("promotion minimum quantity not met")
)

// Scope is the authoritative targeting dimension of a promotion.
type Scope string

const (
	ScopeOrder    Scope = "order"
	ScopeCategory Scope = "category"
	ScopeProduct  Scope = "product"
)

// ActionType identifies the discount effect of a promotion action.
type ActionType string

const (
	ActionPercent     ActionType = "percent"
	ActionFixed       ActionType = "fixed"
	ActionBogoFree    ActionType = "bogo_free"
	ActionBogoPercent ActionType = "bogo_percent"
)

// Promotion is a fully hydrated discount rule, including its actions, codes
// and scope targets.
type Promotion struct {
	ID                    uuid.UUID
	Name                  string
	Type                  string
	Scope                 Scope
	Priority              int32
	Exclusive             bool
	StopFurtherProcessing bool
	StartsAt              *time.Time
	EndsAt                *time.Time
	DaysOfWeek            uint8
	MinSubtotal           *decimal.Decimal
	MinQuantity           *int32
	Actions               []Action
	Codes                 []Code
	CategoryIDs           []uuid.UUID
	ProductIDs            []uuid.UUID
}

// Action is one discount effect attached to a promotion.
type Action struct {
	ID          uuid.UUID
	Type        ActionType
	Value       decimal.Decimal
	MaxDiscount *decimal.Decimal
	BuySKU      string
	BuyQty      int32
	GetSKU      string
	GetQty      int32
	BogoValue   decimal.Decimal
}

// Code gates a promotion behind an explicit coupon string.
type Code struct {
	ID             uuid.UUID
	Code           string
	MaxRedemptions *int32
	MaxPerUser     *int32
	Uses           int32
	StartsAt       *time.Time
	EndsAt         *time.Time
	Active         bool
}

// ActiveWithin reports whether the code's own validity window contains now.
func (c Code) ActiveWithin(now time.Time) bool {
	if !c.Active {
		return false
	}
	if c.StartsAt != nil && now.Before(*c.StartsAt) {
		return false
	}
	if c.EndsAt != nil && now.After(*c.EndsAt) {
		return false
	}
	return true
}

// Line is one quote line as seen by the pricing pipeline. Prices and
// category memberships are frozen snapshots; the live catalog is never
// consulted here.
type Line struct {
	ProductID   uuid.UUID
	SKU         string
	CategoryIDs []uuid.UUID
	Quantity    int32
	UnitPrice   decimal.Decimal
}

// Subtotal returns the pre-tax amount of the line.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt32(l.Quantity))
}

// PricingContext is the immutable snapshot a quote exposes to the engine.
type PricingContext struct {
	Lines         []Line
	Subtotal      decimal.Decimal
	TotalQuantity int32
	SuppliedCode  string
	UserID        *uuid.UUID
	Now           time.Time
}

// Eligible pairs an eligible promotion with the code that unlocked it, if any.
type Eligible struct {
	Promotion Promotion
	CodeID    *uuid.UUID
}

// AppliedPromotion records exactly what was applied to a quote, for audit
// and idempotent redisplay. Serialized to the quote's applied_promotions
// column at the storage boundary.
type AppliedPromotion struct {
	PromotionID      uuid.UUID       `json:"promotion_id"`
	CodeID           *uuid.UUID      `json:"code_id,omitempty"`
	ActionType       string          `json:"action_type"`
	Value            decimal.Decimal `json:"value"`
	AmountDiscounted decimal.Decimal `json:"amount_discounted"`
}

// RejectedCode explains why a supplied code was not applied. Pricing
// proceeds without the code; the reason is surfaced to the caller.
type RejectedCode struct {
	Code   string `json:"code"`
	Reason string `json:"reason"`
}
