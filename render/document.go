// Package render turns a stored invoice into printable output: an HTML tax
// invoice for the browser print dialog and a PDF download. Amounts are
// rounded to paise only here.
package render

import (
	"strconv"
	"strings"
	"time"

	"taxinvoice-backend/billing"
	"taxinvoice-backend/models"

	"github.com/shopspring/decimal"
)

// Shop is the seller identity printed in the header and signature block.
type Shop struct {
	Name    string
	Address string
	Phone   string
	Email   string
	GSTIN   string
}

type Line struct {
	Sr        int
	Product   string
	Qty       string
	UnitPrice string
	GST       string
	Amount    string
}

// Document is the view model shared by the HTML and PDF renderers.
type Document struct {
	Shop          Shop
	Title         string
	InvoiceNumber string
	Date          string
	CustomerName  string
	Mobile        string
	Address       string
	Lines         []Line
	Subtotal      string
	GST           string
	GrandTotal    string
	AmountInWords string
	Terms         []string
	Footer        string
}

var defaultTerms = []string{
	"Goods once sold will not be taken back.",
	"All disputes subject to local jurisdiction.",
}

// NewDocument builds the printable view of invoice.
func NewDocument(invoice *models.Invoice, shop Shop) Document {
	doc := Document{
		Shop:          shop,
		Title:         "TAX INVOICE",
		InvoiceNumber: invoice.InvoiceNumber,
		Date:          FormatDate(invoice.CreatedAt),
		CustomerName:  invoice.CustomerName,
		Mobile:        invoice.MobileNumber,
		Address:       invoice.CustomerAddress,
		Subtotal:      FormatAmount(invoice.Subtotal),
		GST:           FormatAmount(invoice.TotalGst),
		GrandTotal:    FormatAmount(invoice.GrandTotal),
		AmountInWords: billing.AmountToWords(invoice.GrandTotal) + " Only",
		Terms:         defaultTerms,
		Footer:        "Thank you for your business!",
	}
	for i, item := range invoice.Items {
		doc.Lines = append(doc.Lines, Line{
			Sr:        i + 1,
			Product:   item.ProductName,
			Qty:       formatPlain(item.Quantity),
			UnitPrice: FormatAmount(item.Price),
			GST:       formatPlain(item.Gst) + "%",
			Amount:    FormatAmount(item.RowTotal),
		})
	}
	return doc
}

// FormatDate renders t the way Indian invoices print it: "18 October 2026".
func FormatDate(t time.Time) string {
	return t.Format("2 January 2006")
}

// FormatAmount rounds to two decimals and groups digits on the Indian scale:
// 1234567.891 -> "12,34,567.89".
func FormatAmount(amount float64) string {
	fixed := decimal.NewFromFloat(amount).Round(2).StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	if sign == "-" && strings.Trim(intPart+frac, "0") == "" {
		sign = ""
	}
	return sign + groupIndian(intPart) + "." + frac
}

func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var groups []string
	for len(head) > 2 {
		groups = append([]string{head[len(head)-2:]}, groups...)
		head = head[:len(head)-2]
	}
	groups = append([]string{head}, groups...)
	return strings.Join(groups, ",") + "," + tail
}

func formatPlain(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
