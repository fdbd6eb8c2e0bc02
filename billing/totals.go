// Package billing holds the invoice arithmetic: row and invoice totals, the
// submission gate, invoice numbering and the amount-in-words renderer.
// Everything here is pure and safe for concurrent use.
package billing

// LineItem is one product row as entered on the invoice form.
type LineItem struct {
	ProductName string `json:"productName"`
	Quantity    Number `json:"quantity"`
	UnitPrice   Number `json:"price"`
	GSTPercent  Number `json:"gst"`
	RowTotal    Number `json:"rowTotal"`
}

// InvoiceTotals are the aggregate amounts of an invoice.
type InvoiceTotals struct {
	Subtotal   float64 `json:"subtotal"`
	TaxTotal   float64 `json:"totalGst"`
	GrandTotal float64 `json:"grandTotal"`
}

// ComputeRowTotal returns quantity*unitPrice plus GST on that amount.
// Inputs are coerced with Coerce, so form strings and blanks are accepted.
// The result is not rounded.
func ComputeRowTotal(quantity, unitPrice, gstPercent any) float64 {
	q, p, g := Coerce(quantity), Coerce(unitPrice), Coerce(gstPercent)
	base := q * p
	tax := base * g / 100
	return base + tax
}

// ComputeInvoiceTotals sums net amounts and GST independently across items.
func ComputeInvoiceTotals(items []LineItem) InvoiceTotals {
	var subtotal, taxTotal float64
	for _, item := range items {
		base := Coerce(item.Quantity) * Coerce(item.UnitPrice)
		subtotal += base
		taxTotal += base * Coerce(item.GSTPercent) / 100
	}
	return InvoiceTotals{
		Subtotal:   subtotal,
		TaxTotal:   taxTotal,
		GrandTotal: subtotal + taxTotal,
	}
}

// WithRowTotal returns a copy of item with RowTotal recomputed.
func (item LineItem) WithRowTotal() LineItem {
	item.RowTotal = Number(ComputeRowTotal(item.Quantity, item.UnitPrice, item.GSTPercent))
	return item
}
