package promo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
)

func pipelineCatalog(rows ...dbgen.Promotion) *stubCatalogQuerier {
	return &stubCatalogQuerier{
		promotions: rows,
		actions:    map[uuid.UUID][]dbgen.PromotionAction{},
		codes:      map[uuid.UUID][]dbgen.PromotionCode{},
	}
}

func TestPriceAppliesEligiblePromotions(t *testing.T) {
	id := uuid.New()
	q := pipelineCatalog(promotionRow(id, 0))
	q.actions[id] = []dbgen.PromotionAction{{
		ID:          pgUUID(uuid.New()),
		PromotionID: pgUUID(id),
		ActionType:  "percent",
		Value:       dec("10"),
	}}

	svc := &Service{Catalog: Catalog{Q: q}, Now: time.Now}
	pc := testContext(Line{ProductID: uuid.New(), SKU: "A", Quantity: 1, UnitPrice: dec("100.00")})

	got, err := svc.Price(context.Background(), pc)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if !got.DiscountTotal.Equal(dec("10.00")) {
		t.Fatalf("expected 10.00, got %s", got.DiscountTotal)
	}
	if len(got.Applied) != 1 || got.Applied[0].PromotionID != id {
		t.Fatalf("unexpected applied set: %+v", got.Applied)
	}
	if got.RejectedCode != nil {
		t.Fatalf("unexpected rejection: %+v", got.RejectedCode)
	}
}

func TestPriceReportsRejectedCode(t *testing.T) {
	id := uuid.New()
	q := pipelineCatalog(promotionRow(id, 0))
	q.actions[id] = []dbgen.PromotionAction{{
		ID:          pgUUID(uuid.New()),
		PromotionID: pgUUID(id),
		ActionType:  "percent",
		Value:       dec("10"),
	}}
	q.codes[id] = []dbgen.PromotionCode{{
		ID:          pgUUID(uuid.New()),
		PromotionID: pgUUID(id),
		Code:        "VIP",
		IsActive:    true,
	}}

	svc := &Service{Catalog: Catalog{Q: q}, Now: time.Now}
	pc := testContext(Line{ProductID: uuid.New(), SKU: "A", Quantity: 1, UnitPrice: dec("100.00")})
	pc.SuppliedCode = "WRONG"

	got, err := svc.Price(context.Background(), pc)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if len(got.Applied) != 0 {
		t.Fatalf("expected nothing applied, got %+v", got.Applied)
	}
	if got.RejectedCode == nil || got.RejectedCode.Reason != "code_invalid" {
		t.Fatalf("expected code_invalid rejection, got %+v", got.RejectedCode)
	}
	if !got.DiscountTotal.IsZero() {
		t.Fatalf("expected zero discount, got %s", got.DiscountTotal)
	}
}

func TestPriceCodeUnlocksAndClearsRejection(t *testing.T) {
	gated := uuid.New()
	other := uuid.New()
	q := pipelineCatalog(promotionRow(gated, 0), promotionRow(other, 0))
	q.actions[gated] = []dbgen.PromotionAction{{
		ID: pgUUID(uuid.New()), PromotionID: pgUUID(gated), ActionType: "fixed", Value: dec("5.00"),
	}}
	q.actions[other] = []dbgen.PromotionAction{{
		ID: pgUUID(uuid.New()), PromotionID: pgUUID(other), ActionType: "fixed", Value: dec("3.00"),
	}}
	q.codes[gated] = []dbgen.PromotionCode{{
		ID: pgUUID(uuid.New()), PromotionID: pgUUID(gated), Code: "STACK", IsActive: true,
	}}

	svc := &Service{Catalog: Catalog{Q: q}, Now: time.Now}
	pc := testContext(Line{ProductID: uuid.New(), SKU: "A", Quantity: 1, UnitPrice: dec("100.00")})
	pc.SuppliedCode = "stack"

	got, err := svc.Price(context.Background(), pc)
	if err != nil {
		t.Fatalf("price: %v", err)
	}
	if len(got.Applied) != 2 {
		t.Fatalf("expected both promotions applied, got %d", len(got.Applied))
	}
	if got.RejectedCode != nil {
		t.Fatalf("code was honoured, rejection must be clear: %+v", got.RejectedCode)
	}
	if !got.DiscountTotal.Equal(dec("8.00")) {
		t.Fatalf("expected 8.00, got %s", got.DiscountTotal)
	}
}
