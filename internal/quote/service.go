// Package quote implements the quote lifecycle: creation with frozen line
// snapshots, speculative and final pricing, the status state machine with
// its append-only history, expiry sweeps and conversion to orders.
package quote

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/quoteflow/backoffice/internal/audit"
	"github.com/quoteflow/backoffice/internal/common"
	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
	"github.com/quoteflow/backoffice/internal/events"
	"github.com/quoteflow/backoffice/internal/lock"
	"github.com/quoteflow/backoffice/internal/obs"
	"github.com/quoteflow/backoffice/internal/promo"
)

var (
	// ErrNotFound is returned when the quote does not exist.
	ErrNotFound = errors.New("quote not found")
	// ErrNotEditable is returned when pricing is finalized on a non-draft quote.
	ErrNotEditable = errors.New("quote can no longer be modified")
	// ErrNotConvertible is returned when conversion is attempted outside the accepted state.
	ErrNotConvertible = errors.New("quote is not accepted")
	// ErrDuplicateConversion is returned when the quote already produced an order.
	ErrDuplicateConversion = errors.New("quote already converted to an order")
	// ErrNoItems is returned when a quote is created without lines.
	ErrNoItems = errors.New("quote requires at least one item")
)

// Service owns all quote state changes. Every mutation runs inside a
// single database transaction; audit entries and domain events are
// written after the transaction commits.
type Service struct {
	DB             Beginner
	Q              Store
	Pricer         *promo.Service
	Audit          audit.Service
	Events         *events.Bus
	Locker         lock.Locker
	Log            zerolog.Logger
	ConvertLockTTL time.Duration
	ValidityDays   int
	Now            func() time.Time
}

// CreateItemInput is one line of a new quote. Prices, names and category
// memberships are frozen here and never re-read from a live catalog.
type CreateItemInput struct {
	ProductID   string
	ProductName string
	SKU         string
	UnitPriceHT decimal.Decimal
	TaxRate     decimal.Decimal
	Quantity    int32
	CategoryIDs []string
}

// CreateInput describes a new draft quote.
type CreateInput struct {
	ClientID       string
	ClientSnapshot json.RawMessage
	QuoteDate      time.Time
	ValidUntil     time.Time
	Items          []CreateItemInput
}

// Detail bundles a quote with its line items.
type Detail struct {
	Quote dbgen.Quote
	Items []dbgen.QuoteItem
}

// Create opens a draft quote with sequential numbering and frozen line
// amounts. Totals are computed immediately, without promotions.
func (s *Service) Create(ctx context.Context, in CreateInput) (Detail, error) {
	if len(in.Items) == 0 {
		return Detail{}, ErrNoItems
	}
	clientID, err := common.ToUUID(in.ClientID)
	if err != nil {
		return Detail{}, fmt.Errorf("quote: invalid client id: %w", err)
	}
	now := s.now()
	quoteDate := in.QuoteDate
	if quoteDate.IsZero() {
		quoteDate = now
	}
	validUntil := in.ValidUntil
	if validUntil.IsZero() {
		days := s.ValidityDays
		if days <= 0 {
			days = 30
		}
		validUntil = quoteDate.AddDate(0, 0, days)
	}
	snapshot := in.ClientSnapshot
	if len(snapshot) == 0 {
		snapshot = json.RawMessage("{}")
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Detail{}, err
	}
	defer tx.Rollback(ctx)
	qtx := s.Q.WithTx(tx)

	maxNumber, err := qtx.MaxQuoteNumberForYear(ctx, NumberPattern(QuoteNumberPrefix, quoteDate.Year()))
	if err != nil {
		return Detail{}, err
	}
	q, err := qtx.CreateQuote(ctx, dbgen.CreateQuoteParams{
		Number:         NextNumber(QuoteNumberPrefix, quoteDate.Year(), maxNumber),
		ClientID:       clientID,
		ClientSnapshot: snapshot,
		QuoteDate:      pgtype.Date{Time: quoteDate, Valid: true},
		ValidUntil:     pgtype.Date{Time: validUntil, Valid: true},
	})
	if err != nil {
		return Detail{}, err
	}

	items := make([]dbgen.QuoteItem, 0, len(in.Items))
	for idx, line := range in.Items {
		productID, err := common.ToUUID(line.ProductID)
		if err != nil {
			return Detail{}, fmt.Errorf("quote: invalid product id on line %d: %w", idx+1, err)
		}
		categoryIDs := make([]pgtype.UUID, 0, len(line.CategoryIDs))
		for _, raw := range line.CategoryIDs {
			cid, err := common.ToUUID(raw)
			if err != nil {
				return Detail{}, fmt.Errorf("quote: invalid category id on line %d: %w", idx+1, err)
			}
			categoryIDs = append(categoryIDs, cid)
		}
		subtotal, tax, total := LineAmounts(line.UnitPriceHT, line.TaxRate, line.Quantity)
		item, err := qtx.InsertQuoteItem(ctx, dbgen.InsertQuoteItemParams{
			QuoteID:        q.ID,
			ProductID:      productID,
			ProductName:    line.ProductName,
			Sku:            line.SKU,
			UnitPriceHt:    line.UnitPriceHT,
			TaxRate:        line.TaxRate,
			Quantity:       line.Quantity,
			LineSubtotalHt: subtotal,
			LineTax:        tax,
			LineTotalTtc:   total,
			CategoryIds:    categoryIDs,
			SortOrder:      int32(idx),
		})
		if err != nil {
			return Detail{}, err
		}
		items = append(items, item)
	}

	totals := CalculateTotals(items)
	if err := qtx.UpdateQuoteTotals(ctx, dbgen.UpdateQuoteTotalsParams{
		ID:                q.ID,
		SubtotalHt:        totals.SubtotalHT,
		TaxAmount:         totals.Tax,
		TotalTtc:          totals.TotalTTC,
		DiscountTotal:     decimal.Zero,
		AppliedPromotions: []byte("[]"),
	}); err != nil {
		return Detail{}, err
	}
	q, err = qtx.GetQuote(ctx, q.ID)
	if err != nil {
		return Detail{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Detail{}, err
	}

	s.record(ctx, ActorFromContext(ctx), "quote.created", q.ID, map[string]any{
		"number":    q.Number,
		"client_id": common.UUIDString(q.ClientID),
	})
	return Detail{Quote: q, Items: items}, nil
}

// Get loads a quote and its items.
func (s *Service) Get(ctx context.Context, id string) (Detail, error) {
	quoteID, err := common.ToUUID(id)
	if err != nil {
		return Detail{}, ErrNotFound
	}
	q, err := s.Q.GetQuote(ctx, quoteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	items, err := s.Q.ListQuoteItems(ctx, quoteID)
	if err != nil {
		return Detail{}, err
	}
	return Detail{Quote: q, Items: items}, nil
}

// List returns a page of quotes, optionally filtered by status, with the
// total count for pagination.
func (s *Service) List(ctx context.Context, status string, limit, offset int32) ([]dbgen.Quote, int64, error) {
	var filter *string
	if status != "" {
		if !ValidStatus(status) {
			return nil, 0, fmt.Errorf("quote: unknown status %q", status)
		}
		filter = &status
	}
	rows, err := s.Q.ListQuotes(ctx, dbgen.ListQuotesParams{Status: filter, Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, err
	}
	count, err := s.Q.CountQuotes(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return rows, count, nil
}

// History returns the append-only transition log of a quote.
func (s *Service) History(ctx context.Context, id string) ([]dbgen.QuoteStatusHistory, error) {
	quoteID, err := common.ToUUID(id)
	if err != nil {
		return nil, ErrNotFound
	}
	return s.Q.ListQuoteStatusHistory(ctx, quoteID)
}

// Price runs the promotion pipeline against the quote speculatively.
// Nothing is persisted and no redemption is consumed, so callers may
// re-price as often as they like while editing.
func (s *Service) Price(ctx context.Context, id, code, userID string) (promo.PricingResult, Totals, error) {
	detail, err := s.Get(ctx, id)
	if err != nil {
		return promo.PricingResult{}, Totals{}, err
	}
	pc, err := pricingContext(detail.Items, code, userID, s.now())
	if err != nil {
		return promo.PricingResult{}, Totals{}, err
	}
	result, err := s.Pricer.Price(ctx, pc)
	if err != nil {
		return promo.PricingResult{}, Totals{}, err
	}
	totals := CalculateTotalsWithDiscount(CalculateTotals(detail.Items), result.DiscountTotal)
	return result, totals, nil
}

// Finalize prices the quote one last time and commits the result: totals
// and the applied-promotions record are persisted and every code-gated
// application consumes a redemption, all in one transaction. Limits are
// re-checked under lock at this point; a violation rolls everything back.
func (s *Service) Finalize(ctx context.Context, id, code, userID string) (Detail, promo.PricingResult, error) {
	quoteID, err := common.ToUUID(id)
	if err != nil {
		return Detail{}, promo.PricingResult{}, ErrNotFound
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return Detail{}, promo.PricingResult{}, err
	}
	defer tx.Rollback(ctx)
	qtx := s.Q.WithTx(tx)

	q, err := qtx.GetQuoteForUpdate(ctx, quoteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Detail{}, promo.PricingResult{}, ErrNotFound
		}
		return Detail{}, promo.PricingResult{}, err
	}
	if Status(q.Status) != StatusDraft {
		return Detail{}, promo.PricingResult{}, ErrNotEditable
	}
	items, err := qtx.ListQuoteItems(ctx, quoteID)
	if err != nil {
		return Detail{}, promo.PricingResult{}, err
	}

	pc, err := pricingContext(items, code, userID, s.now())
	if err != nil {
		return Detail{}, promo.PricingResult{}, err
	}
	// The pipeline runs on the transaction so catalog reads and the
	// redemption commits below see one consistent snapshot.
	pricer := &promo.Service{
		Catalog:   promo.Catalog{Q: qtx},
		Evaluator: promo.Evaluator{Usage: qtx},
		Now:       s.Now,
	}
	result, err := pricer.Price(ctx, pc)
	if err != nil {
		return Detail{}, promo.PricingResult{}, err
	}

	ledger := promo.Ledger{Q: qtx}
	for _, rec := range result.Applied {
		if rec.CodeID == nil {
			continue
		}
		commit := promo.CommitParams{
			PromotionID: pgtype.UUID{Bytes: rec.PromotionID, Valid: true},
			CodeID:      pgtype.UUID{Bytes: *rec.CodeID, Valid: true},
			QuoteID:     quoteID,
			Amount:      rec.AmountDiscounted,
		}
		if pc.UserID != nil {
			commit.UserID = pgtype.UUID{Bytes: *pc.UserID, Valid: true}
		}
		if _, err := ledger.Commit(ctx, commit); err != nil {
			observeRedemption("rejected")
			return Detail{}, promo.PricingResult{}, err
		}
		observeRedemption("committed")
	}

	totals := CalculateTotalsWithDiscount(CalculateTotals(items), result.DiscountTotal)
	applied, err := json.Marshal(result.Applied)
	if err != nil {
		return Detail{}, promo.PricingResult{}, err
	}
	if len(result.Applied) == 0 {
		applied = []byte("[]")
	}
	if err := qtx.UpdateQuoteTotals(ctx, dbgen.UpdateQuoteTotalsParams{
		ID:                quoteID,
		SubtotalHt:        totals.SubtotalHT,
		TaxAmount:         totals.Tax,
		TotalTtc:          totals.TotalTTC,
		DiscountTotal:     totals.Discount,
		AppliedPromotions: applied,
	}); err != nil {
		return Detail{}, promo.PricingResult{}, err
	}
	q, err = qtx.GetQuote(ctx, quoteID)
	if err != nil {
		return Detail{}, promo.PricingResult{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return Detail{}, promo.PricingResult{}, err
	}

	actor := ActorFromContext(ctx)
	s.record(ctx, actor, "quote.finalized", quoteID, map[string]any{
		"number":         q.Number,
		"discount_total": totals.Discount.String(),
		"total_ttc":      totals.TotalTTC.String(),
	})
	for _, rec := range result.Applied {
		if rec.CodeID == nil {
			continue
		}
		s.emit(ctx, events.TopicPromotionRedeemed, quoteID, map[string]any{
			"promotion_id": rec.PromotionID.String(),
			"code_id":      rec.CodeID.String(),
			"amount":       rec.AmountDiscounted.String(),
		})
	}
	return Detail{Quote: q, Items: items}, result, nil
}

// ChangeStatus attempts the lifecycle transition and reports whether it
// happened. Invalid moves return (false, nil) and leave no trace beyond a
// log line; the state machine is closed-world and never errors on them.
func (s *Service) ChangeStatus(ctx context.Context, id string, to Status, actor audit.Actor, comment string) (bool, error) {
	if !ValidStatus(string(to)) {
		return false, fmt.Errorf("quote: unknown status %q", to)
	}
	quoteID, err := common.ToUUID(id)
	if err != nil {
		return false, ErrNotFound
	}

	tx, err := s.DB.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)
	qtx := s.Q.WithTx(tx)

	q, err := qtx.GetQuoteForUpdate(ctx, quoteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, err
	}
	from := Status(q.Status)
	if !CanTransition(from, to) {
		observeTransition(to, "rejected")
		s.Log.Debug().
			Str("quote_id", common.UUIDString(quoteID)).
			Str("from", string(from)).
			Str("to", string(to)).
			Msg("lifecycle transition rejected")
		return false, nil
	}
	if err := qtx.UpdateQuoteStatus(ctx, dbgen.UpdateQuoteStatusParams{ID: quoteID, Status: string(to)}); err != nil {
		return false, err
	}
	if from == StatusExpired && to == StatusSent {
		// Resending an expired quote must open a new validity window,
		// otherwise the next sweep puts it straight back into expired.
		days := s.ValidityDays
		if days <= 0 {
			days = 30
		}
		if err := qtx.UpdateQuoteValidUntil(ctx, dbgen.UpdateQuoteValidUntilParams{
			ID:         quoteID,
			ValidUntil: pgtype.Date{Time: s.now().AddDate(0, 0, days), Valid: true},
		}); err != nil {
			return false, err
		}
	}
	if err := qtx.InsertQuoteStatusHistory(ctx, dbgen.InsertQuoteStatusHistoryParams{
		QuoteID:    quoteID,
		FromStatus: string(from),
		ToStatus:   string(to),
		Actor:      historyActor(actor),
		Comment:    toNullComment(comment),
	}); err != nil {
		return false, err
	}
	if err := tx.Commit(ctx); err != nil {
		return false, err
	}

	observeTransition(to, "ok")
	s.record(ctx, actor, "quote.status_changed", quoteID, map[string]any{
		"from": string(from),
		"to":   string(to),
	})
	topic := events.TopicQuoteStatusChanged
	if to == StatusExpired {
		topic = events.TopicQuoteExpired
	}
	s.emit(ctx, topic, quoteID, map[string]any{
		"number": q.Number,
		"from":   string(from),
		"to":     string(to),
	})
	return true, nil
}

// ConvertToOrder turns an accepted quote into an order, copying the frozen
// totals and line snapshots verbatim. A per-quote distributed lock plus the
// unique quote_id constraint on orders guarantee at most one order per
// quote even under concurrent requests.
func (s *Service) ConvertToOrder(ctx context.Context, id string, actor audit.Actor) (dbgen.Order, error) {
	quoteID, err := common.ToUUID(id)
	if err != nil {
		return dbgen.Order{}, ErrNotFound
	}

	var order dbgen.Order
	err = s.Locker.WithLock(ctx, lock.ConvertKey(common.UUIDString(quoteID)), s.ConvertLockTTL, func(ctx context.Context) error {
		tx, err := s.DB.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)
		qtx := s.Q.WithTx(tx)

		q, err := qtx.GetQuoteForUpdate(ctx, quoteID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if Status(q.Status) != StatusAccepted {
			if Status(q.Status) == StatusConverted {
				return ErrDuplicateConversion
			}
			return ErrNotConvertible
		}
		if _, err := qtx.GetOrderByQuote(ctx, quoteID); err == nil {
			return ErrDuplicateConversion
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		year := s.now().Year()
		maxNumber, err := qtx.MaxOrderNumberForYear(ctx, NumberPattern(OrderNumberPrefix, year))
		if err != nil {
			return err
		}
		order, err = qtx.CreateOrder(ctx, dbgen.CreateOrderParams{
			Number:            NextNumber(OrderNumberPrefix, year, maxNumber),
			QuoteID:           quoteID,
			ClientID:          q.ClientID,
			ClientSnapshot:    q.ClientSnapshot,
			SubtotalHt:        q.SubtotalHt,
			TaxAmount:         q.TaxAmount,
			TotalTtc:          q.TotalTtc,
			DiscountTotal:     q.DiscountTotal,
			AppliedPromotions: q.AppliedPromotions,
		})
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateConversion
			}
			return err
		}
		items, err := qtx.ListQuoteItems(ctx, quoteID)
		if err != nil {
			return err
		}
		for _, it := range items {
			if err := qtx.InsertOrderItem(ctx, dbgen.InsertOrderItemParams{
				OrderID:        order.ID,
				ProductID:      it.ProductID,
				ProductName:    it.ProductName,
				Sku:            it.Sku,
				UnitPriceHt:    it.UnitPriceHt,
				TaxRate:        it.TaxRate,
				Quantity:       it.Quantity,
				LineSubtotalHt: it.LineSubtotalHt,
				LineTax:        it.LineTax,
				LineTotalTtc:   it.LineTotalTtc,
				SortOrder:      it.SortOrder,
			}); err != nil {
				return err
			}
		}

		if err := qtx.UpdateQuoteStatus(ctx, dbgen.UpdateQuoteStatusParams{ID: quoteID, Status: string(StatusConverted)}); err != nil {
			return err
		}
		if err := qtx.InsertQuoteStatusHistory(ctx, dbgen.InsertQuoteStatusHistoryParams{
			QuoteID:    quoteID,
			FromStatus: string(StatusAccepted),
			ToStatus:   string(StatusConverted),
			Actor:      historyActor(actor),
			Comment:    toNullComment("converted to order " + order.Number),
		}); err != nil {
			return err
		}
		return tx.Commit(ctx)
	})
	if err != nil {
		observeConversion("error")
		return dbgen.Order{}, err
	}

	observeConversion("ok")
	observeTransition(StatusConverted, "ok")
	s.record(ctx, actor, "quote.converted", quoteID, map[string]any{
		"order_id":     common.UUIDString(order.ID),
		"order_number": order.Number,
	})
	s.emit(ctx, events.TopicQuoteConverted, quoteID, map[string]any{
		"order_id":     common.UUIDString(order.ID),
		"order_number": order.Number,
	})
	s.emit(ctx, events.TopicOrderCreated, order.ID, map[string]any{
		"quote_id": common.UUIDString(quoteID),
		"number":   order.Number,
	})
	return order, nil
}

// SweepExpired moves every sent or viewed quote whose validity date has
// passed into the expired state. Each quote is handled independently so
// one failure does not abort the sweep. Returns the number expired.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	today := s.now()
	rows, err := s.Q.ListExpirableQuotes(ctx, pgtype.Date{Time: today, Valid: true})
	if err != nil {
		return 0, err
	}
	expired := 0
	var firstErr error
	for _, q := range rows {
		ok, err := s.ChangeStatus(ctx, common.UUIDString(q.ID), StatusExpired, audit.SystemActor, "validity period elapsed")
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			s.Log.Error().Err(err).Str("quote_id", common.UUIDString(q.ID)).Msg("expiry sweep failed for quote")
			continue
		}
		if ok {
			expired++
			if obs.QuotesExpiredTotal != nil {
				obs.QuotesExpiredTotal.Inc()
			}
		}
	}
	return expired, firstErr
}

func pricingContext(items []dbgen.QuoteItem, code, userID string, now time.Time) (promo.PricingContext, error) {
	pc := promo.PricingContext{
		SuppliedCode: code,
		Now:          now,
		Subtotal:     decimal.Zero,
	}
	if userID != "" {
		uid, err := common.ToUUID(userID)
		if err != nil {
			return promo.PricingContext{}, fmt.Errorf("quote: invalid user id: %w", err)
		}
		parsed := uuidFromPG(uid)
		pc.UserID = &parsed
	}
	for _, it := range items {
		line := promo.Line{
			ProductID: uuidFromPG(it.ProductID),
			SKU:       it.Sku,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPriceHt,
		}
		for _, cid := range it.CategoryIds {
			line.CategoryIDs = append(line.CategoryIDs, uuidFromPG(cid))
		}
		pc.Lines = append(pc.Lines, line)
		pc.Subtotal = pc.Subtotal.Add(it.LineSubtotalHt)
		pc.TotalQuantity += it.Quantity
	}
	return pc, nil
}

func (s *Service) record(ctx context.Context, actor audit.Actor, action string, resourceID pgtype.UUID, metadata map[string]any) {
	if err := s.Audit.Record(ctx, actor, action, "quote", common.UUIDString(resourceID), metadata); err != nil {
		s.Log.Error().Err(err).Str("action", action).Msg("audit record failed")
	}
}

func (s *Service) emit(ctx context.Context, topic string, aggregateID pgtype.UUID, payload map[string]any) {
	if s.Events == nil {
		return
	}
	if _, err := s.Events.Emit(ctx, topic, aggregateID, payload); err != nil {
		s.Log.Error().Err(err).Str("topic", topic).Msg("event emission failed")
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// ActorFromContext resolves the audit actor from the authenticated
// request context, defaulting to the system actor for internal callers.
func ActorFromContext(ctx context.Context) audit.Actor {
	if id, ok := common.ActorID(ctx); ok && id != "" {
		return audit.Actor{Kind: audit.ActorKindUser, ID: id}
	}
	return audit.SystemActor
}

func uuidFromPG(v pgtype.UUID) uuid.UUID {
	return uuid.UUID(v.Bytes)
}

func historyActor(actor audit.Actor) string {
	if actor.ID != "" {
		return actor.ID
	}
	return string(audit.ActorKindSystem)
}

func toNullComment(comment string) pgtype.Text {
	if comment == "" {
		return pgtype.Text{}
	}
	return pgtype.Text{String: comment, Valid: true}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func observeTransition(to Status, result string) {
	if obs.QuoteTransitionsTotal != nil {
		obs.QuoteTransitionsTotal.WithLabelValues(string(to), result).Inc()
	}
}

func observeConversion(result string) {
	if obs.QuotesConvertedTotal != nil {
		obs.QuotesConvertedTotal.WithLabelValues(result).Inc()
	}
}

func observeRedemption(result string) {
	if obs.RedemptionCommitsTotal != nil {
		obs.RedemptionCommitsTotal.WithLabelValues(result).Inc()
	}
}
