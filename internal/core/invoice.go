package core

import "github.com/shopspring/decimal"

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

type (
	DiscountType string

	// Discount is an invoice-level discount, either a percentage of the
	// subtotal or a fixed amount.
	Discount struct {
		Type  DiscountType    `json:"type"`
		Value decimal.Decimal `json:"value"`
	}

	// ItemTotal is the derived breakdown for a single line item.
	ItemTotal struct {
		LineTotal      decimal.Decimal `json:"lineTotal"`
		TaxAmount      decimal.Decimal `json:"taxAmount"`
		DiscountAmount decimal.Decimal `json:"discountAmount"`
		Total          decimal.Decimal `json:"total"`
	}

	// Totals is the aggregate summary for an invoice or estimate.
	Totals struct {
		Items          []ItemTotal     `json:"items"`
		Subtotal       decimal.Decimal `json:"subtotal"`
		TotalTax       decimal.Decimal `json:"totalTax"`
		ItemDiscounts  decimal.Decimal `json:"itemDiscounts"`
		DiscountAmount decimal.Decimal `json:"discountAmount"`
		Shipping       decimal.Decimal `json:"shipping"`
		GrandTotal     decimal.Decimal `json:"grandTotal"`
		RoundOff       decimal.Decimal `json:"roundOff"`
	}
)

var hundred = decimal.NewFromInt(100)

// ComputeTotals derives per-item totals and the invoice summary from a list
// of line items. It is deterministic, allocates fresh output and is cheap
// enough to run on every keystroke.
//
// Per item: lineTotal = qty*price, taxAmount = lineTotal*tax/100, and an
// optional per-item discount of lineTotal*discountPercent/100. The invoice
// level discount applies to the subtotal (percent) or is taken verbatim
// (fixed). When roundOff is set the grand total is rounded half-up to the
// nearest integer unit and the adjustment recorded; rounding an already
// rounded total is a no-op.
//
// Inputs are used mechanically: negative or out-of-range values are not
// rejected here. An empty item list produces all-zero totals.
func ComputeTotals(items []LineItem, discount Discount, shipping decimal.Decimal, roundOff bool) Totals {
	t := Totals{
		Items:    make([]ItemTotal, 0, len(items)),
		Shipping: shipping,
	}

	for _, it := range items {
		lineTotal := it.Quantity.Mul(it.UnitPrice)
		taxAmount := lineTotal.Mul(it.TaxPercent).Div(hundred)
		itemDiscount := lineTotal.Mul(it.DiscountPercent).Div(hundred)

		t.Items = append(t.Items, ItemTotal{
			LineTotal:      lineTotal,
			TaxAmount:      taxAmount,
			DiscountAmount: itemDiscount,
			Total:          lineTotal.Add(taxAmount).Sub(itemDiscount),
		})

		t.Subtotal = t.Subtotal.Add(lineTotal)
		t.TotalTax = t.TotalTax.Add(taxAmount)
		t.ItemDiscounts = t.ItemDiscounts.Add(itemDiscount)
	}

	switch discount.Type {
	case DiscountPercent:
		t.DiscountAmount = t.Subtotal.Mul(discount.Value).Div(hundred)
	case DiscountFixed:
		t.DiscountAmount = discount.Value
	}

	t.GrandTotal = t.Subtotal.
		Add(t.TotalTax).
		Sub(t.ItemDiscounts).
		Sub(t.DiscountAmount).
		Add(shipping)

	if roundOff {
		rounded := t.GrandTotal.Round(0)
		t.RoundOff = rounded.Sub(t.GrandTotal)
		t.GrandTotal = rounded
	}

	return t
}
