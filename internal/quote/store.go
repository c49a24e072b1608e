package quote

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
	"github.com/quoteflow/backoffice/internal/promo"
)

// Beginner starts database transactions. Satisfied by pgxpool.Pool.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Querier is the generated query surface the quote service runs against.
// The transaction-bound querier also feeds the promotion pipeline during
// finalization, so the promo contracts are embedded here.
type Querier interface {
	promo.CatalogQuerier
	promo.LedgerQuerier

	MaxQuoteNumberForYear(ctx context.Context, pattern string) (string, error)
	CreateQuote(ctx context.Context, arg dbgen.CreateQuoteParams) (dbgen.Quote, error)
	GetQuote(ctx context.Context, id pgtype.UUID) (dbgen.Quote, error)
	GetQuoteForUpdate(ctx context.Context, id pgtype.UUID) (dbgen.Quote, error)
	ListQuotes(ctx context.Context, arg dbgen.ListQuotesParams) ([]dbgen.Quote, error)
	CountQuotes(ctx context.Context, status *string) (int64, error)
	ListQuoteItems(ctx context.Context, quoteID pgtype.UUID) ([]dbgen.QuoteItem, error)
	InsertQuoteItem(ctx context.Context, arg dbgen.InsertQuoteItemParams) (dbgen.QuoteItem, error)
	UpdateQuoteTotals(ctx context.Context, arg dbgen.UpdateQuoteTotalsParams) error
	UpdateQuoteStatus(ctx context.Context, arg dbgen.UpdateQuoteStatusParams) error
	UpdateQuoteValidUntil(ctx context.Context, arg dbgen.UpdateQuoteValidUntilParams) error
	InsertQuoteStatusHistory(ctx context.Context, arg dbgen.InsertQuoteStatusHistoryParams) error
	ListQuoteStatusHistory(ctx context.Context, quoteID pgtype.UUID) ([]dbgen.QuoteStatusHistory, error)
	ListExpirableQuotes(ctx context.Context, today pgtype.Date) ([]dbgen.Quote, error)
	GetOrderByQuote(ctx context.Context, quoteID pgtype.UUID) (dbgen.Order, error)
	MaxOrderNumberForYear(ctx context.Context, pattern string) (string, error)
	CreateOrder(ctx context.Context, arg dbgen.CreateOrderParams) (dbgen.Order, error)
	InsertOrderItem(ctx context.Context, arg dbgen.InsertOrderItemParams) error
}

// Store is a Querier that can rebind itself to an open transaction.
type Store interface {
	Querier
	WithTx(tx pgx.Tx) Querier
}

type dbStore struct {
	*dbgen.Queries
}

// NewStore adapts the generated queries to the service's Store contract.
func NewStore(q *dbgen.Queries) Store {
	return dbStore{Queries: q}
}

func (s dbStore) WithTx(tx pgx.Tx) Querier {
	return s.Queries.WithTx(tx)
}
