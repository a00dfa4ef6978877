// Package export shapes computed data for external renderers and file
// downloads. No business math happens here: totals and aggregates arrive
// already computed and only get arranged into rows, sheets and document
// models.
package export

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"bizhub/internal/core"
)

type (
	// InvoiceDocument is the renderer-agnostic model of a multi-section
	// invoice report: header, tabular line items, totals block.
	InvoiceDocument struct {
		Title       string
		Number      string
		IssuedOn    time.Time
		Currency    string
		From        string
		BillTo      string
		Columns     []string
		Rows        [][]string
		TotalsBlock [][2]string
		Notes       string
	}

	// PDFRenderer is the port to the external PDF library.
	PDFRenderer interface {
		RenderPDF(ctx context.Context, doc InvoiceDocument, w io.Writer) error
	}

	// ImageRenderer is the port to the external rasterizer.
	ImageRenderer interface {
		RenderImage(ctx context.Context, region string, w io.Writer) error
	}
)

// Filename builds the download name convention {tool}_{ref}.{ext}, e.g.
// "invoice_INV-0042.pdf" or "expenseTracker_2025-06.csv".
func Filename(tool, ref, ext string) string {
	clean := func(s string) string {
		return strings.Map(func(r rune) rune {
			switch r {
			case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
				return '-'
			}
			return r
		}, strings.TrimSpace(s))
	}
	return fmt.Sprintf("%s_%s.%s", clean(tool), clean(ref), strings.TrimPrefix(ext, "."))
}

// BuildInvoiceDocument arranges line items and their computed totals into
// the document model consumed by the PDF renderer.
func BuildInvoiceDocument(number, from, billTo, currency string, issuedOn time.Time, items []core.LineItem, totals core.Totals) InvoiceDocument {
	doc := InvoiceDocument{
		Title:    "Invoice",
		Number:   number,
		IssuedOn: issuedOn,
		Currency: currency,
		From:     from,
		BillTo:   billTo,
		Columns:  []string{"Item", "Qty", "Unit Price", "Tax %", "Amount"},
	}

	for i, it := range items {
		amount := ""
		if i < len(totals.Items) {
			amount = core.FormatAmount(totals.Items[i].Total, currency)
		}
		doc.Rows = append(doc.Rows, []string{
			it.Name,
			it.Quantity.String(),
			core.FormatAmount(it.UnitPrice, currency),
			it.TaxPercent.String(),
			amount,
		})
	}

	doc.TotalsBlock = [][2]string{
		{"Subtotal", core.FormatAmount(totals.Subtotal, currency)},
		{"Tax", core.FormatAmount(totals.TotalTax, currency)},
	}
	if !totals.ItemDiscounts.IsZero() || !totals.DiscountAmount.IsZero() {
		discount := totals.ItemDiscounts.Add(totals.DiscountAmount)
		doc.TotalsBlock = append(doc.TotalsBlock, [2]string{"Discount", core.FormatAmount(discount, currency)})
	}
	if !totals.Shipping.IsZero() {
		doc.TotalsBlock = append(doc.TotalsBlock, [2]string{"Shipping", core.FormatAmount(totals.Shipping, currency)})
	}
	if !totals.RoundOff.IsZero() {
		doc.TotalsBlock = append(doc.TotalsBlock, [2]string{"Round Off", core.FormatAmount(totals.RoundOff, currency)})
	}
	doc.TotalsBlock = append(doc.TotalsBlock, [2]string{"Grand Total", core.FormatAmount(totals.GrandTotal, currency)})

	return doc
}

// RecordRows flattens money records into the column set shared by the CSV
// and spreadsheet exports.
func RecordRows(records []core.MoneyRecord) (columns []string, rows [][]string) {
	columns = []string{"Date", "Category", "Amount", "Status", "Payment Method", "Description"}
	rows = make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Date.Format("2006-01-02"),
			r.Category,
			r.Amount.String(),
			string(r.Status),
			r.PaymentMethod,
			r.Description,
		})
	}
	return columns, rows
}
