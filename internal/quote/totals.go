package quote

import (
	"github.com/shopspring/decimal"

	dbgen "github.com/quoteflow/backoffice/internal/db/gen"
	"github.com/quoteflow/backoffice/internal/money"
)

// Totals is a priced-quote projection. SubtotalHT is always the
// pre-discount base; Tax and TotalTTC reflect the discount when one is
// present.
type Totals struct {
	SubtotalHT decimal.Decimal `json:"subtotal_ht"`
	Discount   decimal.Decimal `json:"discount_total"`
	Tax        decimal.Decimal `json:"tax"`
	TotalTTC   decimal.Decimal `json:"total_ttc"`
}

// LineAmounts computes the frozen amounts of one line from its snapshot
// unit price and tax rate.
func LineAmounts(unitPrice, taxRate decimal.Decimal, quantity int32) (subtotal, tax, total decimal.Decimal) {
	subtotal = money.Round2(unitPrice.Mul(decimal.NewFromInt32(quantity)))
	tax = money.Round2(money.Percent(subtotal, taxRate))
	total = money.Round2(subtotal.Add(tax))
	return subtotal, tax, total
}

// CalculateTotals sums the line snapshots without any discount.
func CalculateTotals(items []dbgen.QuoteItem) Totals {
	t := Totals{
		SubtotalHT: decimal.Zero,
		Discount:   decimal.Zero,
		Tax:        decimal.Zero,
		TotalTTC:   decimal.Zero,
	}
	for _, it := range items {
		t.SubtotalHT = t.SubtotalHT.Add(it.LineSubtotalHt)
		t.Tax = t.Tax.Add(it.LineTax)
		t.TotalTTC = t.TotalTTC.Add(it.LineTotalTtc)
	}
	return t
}

// CalculateTotalsWithDiscount reprices the quote after discount. The
// discount reduces the pre-tax base and tax is re-derived at the blended
// rate of the original lines, which keeps mixed-rate quotes fiscally
// consistent without allocating the discount line by line.
func CalculateTotalsWithDiscount(base Totals, discount decimal.Decimal) Totals {
	d := money.ClampNonNegative(discount)
	d = money.Min(d, base.SubtotalHT)

	effectiveRate := money.Rate(base.Tax, base.SubtotalHT)
	newSubtotal := money.Round2(base.SubtotalHT.Sub(d))
	newTax := money.Round2(newSubtotal.Mul(effectiveRate))
	newTotal := money.Round2(newSubtotal.Add(newTax))

	return Totals{
		SubtotalHT: base.SubtotalHT,
		Discount:   d,
		Tax:        newTax,
		TotalTTC:   money.ClampNonNegative(newTotal),
	}
}
