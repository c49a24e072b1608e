package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/quoteflow/backoffice/internal/audit"
	"github.com/quoteflow/backoffice/internal/common"
	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
	"github.com/quoteflow/backoffice/internal/lock"
	"github.com/quoteflow/backoffice/internal/promo"
)

// stubTx satisfies pgx.Tx while only tracking commit and rollback, so
// the tests can assert which way a service flow resolved.
type stubTx struct {
	committed  bool
	rolledBack bool
}

func (t *stubTx) Begin(context.Context) (pgx.Tx, error) { return t, nil }

func (t *stubTx) Commit(context.Context) error {
	t.committed = true
	return nil
}

func (t *stubTx) Rollback(context.Context) error {
	if !t.committed {
		t.rolledBack = true
	}
	return nil
}

func (t *stubTx) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *stubTx) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults { return nil }
func (t *stubTx) LargeObjects() pgx.LargeObjects                         { return pgx.LargeObjects{} }
func (t *stubTx) Prepare(context.Context, string, string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *stubTx) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}
func (t *stubTx) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }
func (t *stubTx) QueryRow(context.Context, string, ...any) pgx.Row        { return nil }
func (t *stubTx) Conn() *pgx.Conn                                         { return nil }

type stubDB struct {
	txs []*stubTx
}

func (d *stubDB) Begin(context.Context) (pgx.Tx, error) {
	tx := &stubTx{}
	d.txs = append(d.txs, tx)
	return tx, nil
}

func (d *stubDB) lastTx(t *testing.T) *stubTx {
	t.Helper()
	if len(d.txs) == 0 {
		t.Fatal("no transaction was opened")
	}
	return d.txs[len(d.txs)-1]
}

// stubStore keeps quotes, orders and promotion fixtures in maps and
// records every write, standing in for the generated queries.
type stubStore struct {
	quotes  map[string]dbgen.Quote
	items   map[string][]dbgen.QuoteItem
	orders  map[string]dbgen.Order
	history []dbgen.InsertQuoteStatusHistoryParams

	statusWrites   []dbgen.UpdateQuoteStatusParams
	validityWrites []dbgen.UpdateQuoteValidUntilParams
	totalsWrites   []dbgen.UpdateQuoteTotalsParams
	orderItems     []dbgen.InsertOrderItemParams
	redemptions    []dbgen.InsertRedemptionParams

	promotions   []dbgen.Promotion
	actions      map[string][]dbgen.PromotionAction
	promoCodes   map[string][]dbgen.PromotionCode
	ledgerCodes  map[string]dbgen.PromotionCode
	usedByCode   map[string]int64
	expirable    []dbgen.Quote
}

func newStubStore() *stubStore {
	return &stubStore{
		quotes:      map[string]dbgen.Quote{},
		items:       map[string][]dbgen.QuoteItem{},
		orders:      map[string]dbgen.Order{},
		actions:     map[string][]dbgen.PromotionAction{},
		promoCodes:  map[string][]dbgen.PromotionCode{},
		ledgerCodes: map[string]dbgen.PromotionCode{},
		usedByCode:  map[string]int64{},
	}
}

func (s *stubStore) WithTx(pgx.Tx) Querier { return s }

func pgKey(id pgtype.UUID) string { return common.UUIDString(id) }

func (s *stubStore) MaxQuoteNumberForYear(context.Context, string) (string, error) { return "", nil }

func (s *stubStore) CreateQuote(_ context.Context, arg dbgen.CreateQuoteParams) (dbgen.Quote, error) {
	q := dbgen.Quote{
		ID:                newPGUUID(),
		Number:            arg.Number,
		ClientID:          arg.ClientID,
		ClientSnapshot:    arg.ClientSnapshot,
		Status:            string(StatusDraft),
		QuoteDate:         arg.QuoteDate,
		ValidUntil:        arg.ValidUntil,
		AppliedPromotions: []byte("[]"),
	}
	s.quotes[pgKey(q.ID)] = q
	return q, nil
}

func (s *stubStore) GetQuote(_ context.Context, id pgtype.UUID) (dbgen.Quote, error) {
	q, ok := s.quotes[pgKey(id)]
	if !ok {
		return dbgen.Quote{}, pgx.ErrNoRows
	}
	return q, nil
}

func (s *stubStore) GetQuoteForUpdate(ctx context.Context, id pgtype.UUID) (dbgen.Quote, error) {
	return s.GetQuote(ctx, id)
}

func (s *stubStore) ListQuotes(context.Context, dbgen.ListQuotesParams) ([]dbgen.Quote, error) {
	return nil, nil
}

func (s *stubStore) CountQuotes(context.Context, *string) (int64, error) { return 0, nil }

func (s *stubStore) ListQuoteItems(_ context.Context, quoteID pgtype.UUID) ([]dbgen.QuoteItem, error) {
	return s.items[pgKey(quoteID)], nil
}

func (s *stubStore) InsertQuoteItem(_ context.Context, arg dbgen.InsertQuoteItemParams) (dbgen.QuoteItem, error) {
	item := dbgen.QuoteItem{
		ID:             newPGUUID(),
		QuoteID:        arg.QuoteID,
		ProductID:      arg.ProductID,
		ProductName:    arg.ProductName,
		Sku:            arg.Sku,
		UnitPriceHt:    arg.UnitPriceHt,
		TaxRate:        arg.TaxRate,
		Quantity:       arg.Quantity,
		LineSubtotalHt: arg.LineSubtotalHt,
		LineTax:        arg.LineTax,
		LineTotalTtc:   arg.LineTotalTtc,
		CategoryIds:    arg.CategoryIds,
		SortOrder:      arg.SortOrder,
	}
	key := pgKey(arg.QuoteID)
	s.items[key] = append(s.items[key], item)
	return item, nil
}

func (s *stubStore) UpdateQuoteTotals(_ context.Context, arg dbgen.UpdateQuoteTotalsParams) error {
	s.totalsWrites = append(s.totalsWrites, arg)
	if q, ok := s.quotes[pgKey(arg.ID)]; ok {
		q.SubtotalHt = arg.SubtotalHt
		q.TaxAmount = arg.TaxAmount
		q.TotalTtc = arg.TotalTtc
		q.DiscountTotal = arg.DiscountTotal
		q.AppliedPromotions = arg.AppliedPromotions
		s.quotes[pgKey(arg.ID)] = q
	}
	return nil
}

func (s *stubStore) UpdateQuoteStatus(_ context.Context, arg dbgen.UpdateQuoteStatusParams) error {
	s.statusWrites = append(s.statusWrites, arg)
	if q, ok := s.quotes[pgKey(arg.ID)]; ok {
		q.Status = arg.Status
		s.quotes[pgKey(arg.ID)] = q
	}
	return nil
}

func (s *stubStore) UpdateQuoteValidUntil(_ context.Context, arg dbgen.UpdateQuoteValidUntilParams) error {
	s.validityWrites = append(s.validityWrites, arg)
	if q, ok := s.quotes[pgKey(arg.ID)]; ok {
		q.ValidUntil = arg.ValidUntil
		s.quotes[pgKey(arg.ID)] = q
	}
	return nil
}

func (s *stubStore) InsertQuoteStatusHistory(_ context.Context, arg dbgen.InsertQuoteStatusHistoryParams) error {
	s.history = append(s.history, arg)
	return nil
}

func (s *stubStore) ListQuoteStatusHistory(context.Context, pgtype.UUID) ([]dbgen.QuoteStatusHistory, error) {
	return nil, nil
}

func (s *stubStore) ListExpirableQuotes(context.Context, pgtype.Date) ([]dbgen.Quote, error) {
	return s.expirable, nil
}

func (s *stubStore) GetOrderByQuote(_ context.Context, quoteID pgtype.UUID) (dbgen.Order, error) {
	o, ok := s.orders[pgKey(quoteID)]
	if !ok {
		return dbgen.Order{}, pgx.ErrNoRows
	}
	return o, nil
}

func (s *stubStore) MaxOrderNumberForYear(context.Context, string) (string, error) { return "", nil }

func (s *stubStore) CreateOrder(_ context.Context, arg dbgen.CreateOrderParams) (dbgen.Order, error) {
	o := dbgen.Order{
		ID:                newPGUUID(),
		Number:            arg.Number,
		QuoteID:           arg.QuoteID,
		ClientID:          arg.ClientID,
		ClientSnapshot:    arg.ClientSnapshot,
		SubtotalHt:        arg.SubtotalHt,
		TaxAmount:         arg.TaxAmount,
		TotalTtc:          arg.TotalTtc,
		DiscountTotal:     arg.DiscountTotal,
		AppliedPromotions: arg.AppliedPromotions,
	}
	s.orders[pgKey(arg.QuoteID)] = o
	return o, nil
}

func (s *stubStore) InsertOrderItem(_ context.Context, arg dbgen.InsertOrderItemParams) error {
	s.orderItems = append(s.orderItems, arg)
	return nil
}

func (s *stubStore) ListActivePromotionsAt(context.Context, pgtype.Timestamptz) ([]dbgen.Promotion, error) {
	return s.promotions, nil
}

func (s *stubStore) ListPromotionActions(_ context.Context, promotionID pgtype.UUID) ([]dbgen.PromotionAction, error) {
	return s.actions[pgKey(promotionID)], nil
}

func (s *stubStore) ListPromotionCodes(_ context.Context, promotionID pgtype.UUID) ([]dbgen.PromotionCode, error) {
	return s.promoCodes[pgKey(promotionID)], nil
}

func (s *stubStore) ListPromotionCategoryIDs(context.Context, pgtype.UUID) ([]pgtype.UUID, error) {
	return nil, nil
}

func (s *stubStore) ListPromotionProductIDs(context.Context, pgtype.UUID) ([]pgtype.UUID, error) {
	return nil, nil
}

func (s *stubStore) GetPromotionCodeForUpdate(_ context.Context, id pgtype.UUID) (dbgen.PromotionCode, error) {
	code, ok := s.ledgerCodes[pgKey(id)]
	if !ok {
		return dbgen.PromotionCode{}, pgx.ErrNoRows
	}
	return code, nil
}

func (s *stubStore) CountRedemptionsByCode(_ context.Context, codeID pgtype.UUID) (int64, error) {
	return s.usedByCode[pgKey(codeID)], nil
}

func (s *stubStore) CountRedemptionsByCodeAndUser(context.Context, dbgen.CountRedemptionsByCodeAndUserParams) (int64, error) {
	return 0, nil
}

func (s *stubStore) GetRedemptionByQuote(context.Context, dbgen.GetRedemptionByQuoteParams) (dbgen.PromotionRedemption, error) {
	return dbgen.PromotionRedemption{}, pgx.ErrNoRows
}

func (s *stubStore) InsertRedemption(_ context.Context, arg dbgen.InsertRedemptionParams) (dbgen.PromotionRedemption, error) {
	s.redemptions = append(s.redemptions, arg)
	return dbgen.PromotionRedemption{
		ID:               newPGUUID(),
		PromotionID:      arg.PromotionID,
		CodeID:           arg.CodeID,
		UserID:           arg.UserID,
		QuoteID:          arg.QuoteID,
		AmountDiscounted: arg.AmountDiscounted,
	}, nil
}

func (s *stubStore) IncrementCodeUses(context.Context, pgtype.UUID) error { return nil }

func newPGUUID() pgtype.UUID {
	return pgtype.UUID{Bytes: uuid.New(), Valid: true}
}

func newTestService(store *stubStore, db *stubDB) *Service {
	return &Service{
		DB:           db,
		Q:            store,
		Audit:        audit.Service{},
		Log:          zerolog.Nop(),
		ValidityDays: 15,
		Now:          func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) },
	}
}

func seedQuote(store *stubStore, status Status) dbgen.Quote {
	q := dbgen.Quote{
		ID:                newPGUUID(),
		Number:            "DEV-2026-0001",
		ClientID:          newPGUUID(),
		ClientSnapshot:    []byte("{}"),
		Status:            string(status),
		QuoteDate:         pgtype.Date{Time: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		ValidUntil:        pgtype.Date{Time: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), Valid: true},
		SubtotalHt:        decimal.RequireFromString("100.00"),
		TaxAmount:         decimal.RequireFromString("20.00"),
		TotalTtc:          decimal.RequireFromString("120.00"),
		AppliedPromotions: []byte("[]"),
	}
	store.quotes[pgKey(q.ID)] = q
	store.items[pgKey(q.ID)] = []dbgen.QuoteItem{{
		ID:             newPGUUID(),
		QuoteID:        q.ID,
		ProductID:      newPGUUID(),
		ProductName:    "Desk",
		Sku:            "DESK-1",
		UnitPriceHt:    decimal.RequireFromString("100.00"),
		TaxRate:        decimal.RequireFromString("20.00"),
		Quantity:       1,
		LineSubtotalHt: decimal.RequireFromString("100.00"),
		LineTax:        decimal.RequireFromString("20.00"),
		LineTotalTtc:   decimal.RequireFromString("120.00"),
	}}
	return q
}

func TestFinalizeRejectsNonDraft(t *testing.T) {
	store := newStubStore()
	db := &stubDB{}
	svc := newTestService(store, db)
	q := seedQuote(store, StatusSent)

	_, _, err := svc.Finalize(context.Background(), pgKey(q.ID), "", "")
	if !errors.Is(err, ErrNotEditable) {
		t.Fatalf("expected ErrNotEditable, got %v", err)
	}
	if db.lastTx(t).committed {
		t.Fatal("transaction must not commit for a non-draft quote")
	}
	if len(store.totalsWrites) != 0 {
		t.Fatal("totals must not be written")
	}
}

// A code that still looked usable at evaluation time can hit its ceiling
// by commit time. The ledger re-check must surface the limit error and
// the whole finalization must roll back, totals included.
func TestFinalizeLimitReachedAtCommitRollsBack(t *testing.T) {
	store := newStubStore()
	db := &stubDB{}
	svc := newTestService(store, db)
	q := seedQuote(store, StatusDraft)

	promoID := newPGUUID()
	codeID := newPGUUID()
	store.promotions = []dbgen.Promotion{{
		ID:         promoID,
		Name:       "Spring",
		Type:       "code",
		ApplyScope: "order",
		IsActive:   true,
	}}
	store.actions[pgKey(promoID)] = []dbgen.PromotionAction{{
		ID:          newPGUUID(),
		PromotionID: promoID,
		ActionType:  "percent",
		Value:       decimal.RequireFromString("10"),
	}}
	// The catalog row carries no ceiling, so evaluation lets the code
	// through. The row the ledger locks has one redemption left and it
	// is already spent.
	store.promoCodes[pgKey(promoID)] = []dbgen.PromotionCode{{
		ID:          codeID,
		PromotionID: promoID,
		Code:        "SPRING10",
		IsActive:    true,
	}}
	store.ledgerCodes[pgKey(codeID)] = dbgen.PromotionCode{
		ID:             codeID,
		PromotionID:    promoID,
		Code:           "SPRING10",
		MaxRedemptions: pgtype.Int4{Int32: 1, Valid: true},
		IsActive:       true,
	}
	store.usedByCode[pgKey(codeID)] = 1

	_, _, err := svc.Finalize(context.Background(), pgKey(q.ID), "SPRING10", "")
	if !errors.Is(err, promo.ErrLimitExceeded) {
		t.Fatalf("expected ErrLimitExceeded, got %v", err)
	}
	tx := db.lastTx(t)
	if tx.committed {
		t.Fatal("transaction must roll back when the commit-time limit check fails")
	}
	if !tx.rolledBack {
		t.Fatal("rollback must run")
	}
	if len(store.redemptions) != 0 {
		t.Fatal("no redemption row may be inserted")
	}
	if len(store.totalsWrites) != 0 {
		t.Fatal("totals must not be persisted")
	}
}

func TestFinalizeCommitsTotalsAndRedemption(t *testing.T) {
	store := newStubStore()
	db := &stubDB{}
	svc := newTestService(store, db)
	q := seedQuote(store, StatusDraft)

	promoID := newPGUUID()
	codeID := newPGUUID()
	store.promotions = []dbgen.Promotion{{
		ID:         promoID,
		Name:       "Spring",
		Type:       "code",
		ApplyScope: "order",
		IsActive:   true,
	}}
	store.actions[pgKey(promoID)] = []dbgen.PromotionAction{{
		ID:          newPGUUID(),
		PromotionID: promoID,
		ActionType:  "percent",
		Value:       decimal.RequireFromString("10"),
	}}
	store.promoCodes[pgKey(promoID)] = []dbgen.PromotionCode{{
		ID:          codeID,
		PromotionID: promoID,
		Code:        "SPRING10",
		IsActive:    true,
	}}
	store.ledgerCodes[pgKey(codeID)] = dbgen.PromotionCode{
		ID:          codeID,
		PromotionID: promoID,
		Code:        "SPRING10",
		IsActive:    true,
	}

	_, result, err := svc.Finalize(context.Background(), pgKey(q.ID), "SPRING10", "")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if !db.lastTx(t).committed {
		t.Fatal("transaction must commit")
	}
	if !result.DiscountTotal.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("expected 10.00 discount, got %s", result.DiscountTotal)
	}
	if len(store.redemptions) != 1 {
		t.Fatalf("expected one redemption, got %d", len(store.redemptions))
	}
	if len(store.totalsWrites) != 1 {
		t.Fatalf("expected one totals write, got %d", len(store.totalsWrites))
	}
	if !store.totalsWrites[0].DiscountTotal.Equal(decimal.RequireFromString("10.00")) {
		t.Fatalf("persisted discount mismatch: %s", store.totalsWrites[0].DiscountTotal)
	}
}

func TestChangeStatusInvalidTransitionLeavesNoTrace(t *testing.T) {
	store := newStubStore()
	db := &stubDB{}
	svc := newTestService(store, db)
	q := seedQuote(store, StatusRejected)

	ok, err := svc.ChangeStatus(context.Background(), pgKey(q.ID), StatusSent, audit.SystemActor, "")
	if err != nil {
		t.Fatalf("invalid transition must not error, got %v", err)
	}
	if ok {
		t.Fatal("rejected is terminal")
	}
	if len(store.statusWrites) != 0 || len(store.history) != 0 {
		t.Fatal("no writes may happen for a rejected transition")
	}
	if db.lastTx(t).committed {
		t.Fatal("transaction must not commit")
	}
}

// Resending an expired quote opens a fresh validity window. Without it
// the nightly sweep would immediately move the quote back to expired.
func TestChangeStatusResendRefreshesValidity(t *testing.T) {
	store := newStubStore()
	db := &stubDB{}
	svc := newTestService(store, db)
	q := seedQuote(store, StatusExpired)

	ok, err := svc.ChangeStatus(context.Background(), pgKey(q.ID), StatusSent, audit.SystemActor, "resend")
	if err != nil {
		t.Fatalf("change status: %v", err)
	}
	if !ok {
		t.Fatal("expired to sent is a valid transition")
	}
	if len(store.validityWrites) != 1 {
		t.Fatalf("expected one validity write, got %d", len(store.validityWrites))
	}
	want := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC).AddDate(0, 0, 15)
	if got := store.validityWrites[0].ValidUntil.Time; !got.Equal(want) {
		t.Fatalf("expected valid_until %s, got %s", want, got)
	}
	if updated := store.quotes[pgKey(q.ID)]; updated.ValidUntil.Time.Equal(q.ValidUntil.Time) {
		t.Fatal("stored validity date must change")
	}
	if !db.lastTx(t).committed {
		t.Fatal("transaction must commit")
	}
}

func TestChangeStatusToSentFromDraftKeepsValidity(t *testing.T) {
	store := newStubStore()
	db := &stubDB{}
	svc := newTestService(store, db)
	q := seedQuote(store, StatusDraft)

	ok, err := svc.ChangeStatus(context.Background(), pgKey(q.ID), StatusSent, audit.SystemActor, "")
	if err != nil || !ok {
		t.Fatalf("draft to sent must succeed, ok=%v err=%v", ok, err)
	}
	if len(store.validityWrites) != 0 {
		t.Fatal("first send keeps the validity window the quote was created with")
	}
}

func TestConvertToOrderRequiresAcceptedState(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := newStubStore()
	db := &stubDB{}
	svc := newTestService(store, db)
	svc.Locker = lock.Locker{R: client}
	svc.ConvertLockTTL = time.Second
	q := seedQuote(store, StatusDraft)

	_, err = svc.ConvertToOrder(context.Background(), pgKey(q.ID), audit.SystemActor)
	if !errors.Is(err, ErrNotConvertible) {
		t.Fatalf("expected ErrNotConvertible, got %v", err)
	}
	if len(store.orders) != 0 {
		t.Fatal("no order may be created")
	}
}

func TestConvertToOrderCopiesFrozenAmounts(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := newStubStore()
	db := &stubDB{}
	svc := newTestService(store, db)
	svc.Locker = lock.Locker{R: client}
	svc.ConvertLockTTL = time.Second
	q := seedQuote(store, StatusAccepted)

	order, err := svc.ConvertToOrder(context.Background(), pgKey(q.ID), audit.SystemActor)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if !order.TotalTtc.Equal(q.TotalTtc) || !order.SubtotalHt.Equal(q.SubtotalHt) {
		t.Fatalf("order amounts must mirror the quote, got %s / %s", order.SubtotalHt, order.TotalTtc)
	}
	if len(store.orderItems) != 1 {
		t.Fatalf("expected one copied line, got %d", len(store.orderItems))
	}
	if got := store.quotes[pgKey(q.ID)].Status; got != string(StatusConverted) {
		t.Fatalf("quote must end converted, got %s", got)
	}
	if len(store.history) != 1 || store.history[0].ToStatus != string(StatusConverted) {
		t.Fatalf("conversion must log one history row, got %+v", store.history)
	}
	if !db.lastTx(t).committed {
		t.Fatal("transaction must commit")
	}
}

func TestSweepExpiredLogsOneHistoryRowPerQuote(t *testing.T) {
	store := newStubStore()
	db := &stubDB{}
	svc := newTestService(store, db)
	q := seedQuote(store, StatusSent)
	store.expirable = []dbgen.Quote{q}

	count, err := svc.SweepExpired(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 expired quote, got %d", count)
	}
	if len(store.history) != 1 {
		t.Fatalf("expected exactly one history row, got %d", len(store.history))
	}
	entry := store.history[0]
	if entry.FromStatus != string(StatusSent) || entry.ToStatus != string(StatusExpired) {
		t.Fatalf("unexpected transition %s -> %s", entry.FromStatus, entry.ToStatus)
	}
	if entry.Actor != audit.SystemActor.ID {
		t.Fatalf("sweep runs as the system actor, got %q", entry.Actor)
	}
	if got := store.quotes[pgKey(q.ID)].Status; got != string(StatusExpired) {
		t.Fatalf("quote must end expired, got %s", got)
	}
}
