package promo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
)

// CatalogQuerier captures the read-only queries the catalog needs.
type CatalogQuerier interface {
	ListActivePromotionsAt(ctx context.Context, now pgtype.Timestamptz) ([]dbgen.Promotion, error)
	ListPromotionActions(ctx context.Context, promotionID pgtype.UUID) ([]dbgen.PromotionAction, error)
	ListPromotionCodes(ctx context.Context, promotionID pgtype.UUID) ([]dbgen.PromotionCode, error)
	ListPromotionCategoryIDs(ctx context.Context, promotionID pgtype.UUID) ([]pgtype.UUID, error)
	ListPromotionProductIDs(ctx context.Context, promotionID pgtype.UUID) ([]pgtype.UUID, error)
}

// Catalog loads promotions that are structurally eligible at a moment in
// time. It is a pure filter: active flag, soft-delete tombstone, validity
// window, day-of-week mask. Business eligibility happens later.
type Catalog struct {
	Q CatalogQuerier
}

// ActiveAt returns the hydrated promotions structurally active at now.
func (c Catalog) ActiveAt(ctx context.Context, now time.Time) ([]Promotion, error) {
	rows, err := c.Q.ListActivePromotionsAt(ctx, pgtype.Timestamptz{Time: now, Valid: true})
	if err != nil {
		return nil, err
	}
	out := make([]Promotion, 0, len(rows))
	for _, row := range rows {
		p := PromotionFromModel(row)
		if !activeOnWeekday(p.DaysOfWeek, now.Weekday()) {
			continue
		}
		actions, err := c.Q.ListPromotionActions(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		for _, a := range actions {
			p.Actions = append(p.Actions, ActionFromModel(a))
		}
		codes, err := c.Q.ListPromotionCodes(ctx, row.ID)
		if err != nil {
			return nil, err
		}
		for _, code := range codes {
			p.Codes = append(p.Codes, CodeFromModel(code))
		}
		switch p.Scope {
		case ScopeCategory:
			ids, err := c.Q.ListPromotionCategoryIDs(ctx, row.ID)
			if err != nil {
				return nil, err
			}
			p.CategoryIDs = toUUIDSlice(ids)
		case ScopeProduct:
			ids, err := c.Q.ListPromotionProductIDs(ctx, row.ID)
			if err != nil {
				return nil, err
			}
			p.ProductIDs = toUUIDSlice(ids)
		}
		out = append(out, p)
	}
	return out, nil
}

// activeOnWeekday applies the 7-bit day mask. An all-zero mask means "no
// restriction", so the promotion runs every day. Reversing this default
// would silently disable every promotion created without a day filter.
func activeOnWeekday(mask uint8, day time.Weekday) bool {
	if mask == 0 {
		return true
	}
	return mask&(1<<uint(day)) != 0
}

// PromotionFromModel converts a storage row into the engine's value type.
func PromotionFromModel(row dbgen.Promotion) Promotion {
	p := Promotion{
		ID:                    uuid.UUID(row.ID.Bytes),
		Name:                  row.Name,
		Type:                  row.Type,
		Scope:                 Scope(row.ApplyScope),
		Priority:              row.Priority,
		Exclusive:             row.IsExclusive,
		StopFurtherProcessing: row.StopFurtherProcessing,
		DaysOfWeek:            uint8(row.DaysOfWeek),
	}
	if row.StartsAt.Valid {
		t := row.StartsAt.Time
		p.StartsAt = &t
	}
	if row.EndsAt.Valid {
		t := row.EndsAt.Time
		p.EndsAt = &t
	}
	if row.MinSubtotal.Valid {
		v := row.MinSubtotal.Decimal
		p.MinSubtotal = &v
	}
	if row.MinQuantity.Valid {
		q := row.MinQuantity.Int32
		p.MinQuantity = &q
	}
	return p
}

// ActionFromModel converts a storage action row into the engine's value type.
func ActionFromModel(row dbgen.PromotionAction) Action {
	a := Action{
		ID:    uuid.UUID(row.ID.Bytes),
		Type:  ActionType(row.ActionType),
		Value: row.Value,
	}
	if row.MaxDiscountAmount.Valid {
		v := row.MaxDiscountAmount.Decimal
		a.MaxDiscount = &v
	}
	if row.BuySku.Valid {
		a.BuySKU = row.BuySku.String
	}
	if row.BuyQty.Valid {
		a.BuyQty = row.BuyQty.Int32
	}
	if row.GetSku.Valid {
		a.GetSKU = row.GetSku.String
	}
	if row.GetQty.Valid {
		a.GetQty = row.GetQty.Int32
	}
	if row.BogoDiscountValue.Valid {
		a.BogoValue = row.BogoDiscountValue.Decimal
	}
	return a
}

// CodeFromModel converts a storage code row into the engine's value type.
func CodeFromModel(row dbgen.PromotionCode) Code {
	c := Code{
		ID:     uuid.UUID(row.ID.Bytes),
		Code:   row.Code,
		Uses:   row.Uses,
		Active: row.IsActive,
	}
	if row.MaxRedemptions.Valid {
		v := row.MaxRedemptions.Int32
		c.MaxRedemptions = &v
	}
	if row.MaxPerUser.Valid {
		v := row.MaxPerUser.Int32
		c.MaxPerUser = &v
	}
	if row.StartsAt.Valid {
		t := row.StartsAt.Time
		c.StartsAt = &t
	}
	if row.EndsAt.Valid {
		t := row.EndsAt.Time
		c.EndsAt = &t
	}
	return c
}

func toUUIDSlice(values []pgtype.UUID) []uuid.UUID {
	if len(values) == 0 {
		return nil
	}
	out := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		if v.Valid {
			out = append(out, uuid.UUID(v.Bytes))
		}
	}
	return out
}
