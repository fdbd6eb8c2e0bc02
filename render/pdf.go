package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

type PageSize string

const (
	PageA4     PageSize = "a4"
	PageA5     PageSize = "a5"
	PageLetter PageSize = "letter"
)

// ParsePageSize accepts a4, a5 and letter in any case; anything else is A4.
func ParsePageSize(s string) PageSize {
	switch PageSize(strings.ToLower(strings.TrimSpace(s))) {
	case PageA5:
		return PageA5
	case PageLetter:
		return PageLetter
	default:
		return PageA4
	}
}

func (p PageSize) maroto() pagesize.Type {
	switch p {
	case PageA5:
		return pagesize.A5
	case PageLetter:
		return pagesize.Letter
	default:
		return pagesize.A4
	}
}

// The built-in PDF fonts have no rupee glyph.
const pdfCurrency = "Rs. "

// PDF renders doc as a tax invoice on the given page size.
func PDF(doc Document, size PageSize) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(size.maroto()).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	small := props.Text{Size: 8, Align: align.Center}

	// Shop header
	m.AddRow(9,
		text.NewCol(12, doc.Shop.Name, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}),
	)
	if doc.Shop.Address != "" {
		m.AddRow(5, text.NewCol(12, doc.Shop.Address, small))
	}
	if contact := shopContact(doc.Shop); contact != "" {
		m.AddRow(5, text.NewCol(12, contact, small))
	}
	if doc.Shop.GSTIN != "" {
		m.AddRow(5, text.NewCol(12, "GSTIN: "+doc.Shop.GSTIN, small))
	}

	m.AddRow(10,
		text.NewCol(12, doc.Title, props.Text{Top: 3, Size: 12, Style: fontstyle.Bold, Align: align.Center}),
	)

	// Bill-to and invoice meta
	m.AddRow(24,
		col.New(7).Add(
			text.New("Bill To:", props.Text{Size: 9, Style: fontstyle.Bold}),
			text.New(doc.CustomerName, props.Text{Top: 5, Size: 9, Style: fontstyle.Bold}),
			text.New("Mobile: "+doc.Mobile, props.Text{Top: 9, Size: 9}),
			text.New(doc.Address, props.Text{Top: 13, Size: 9}),
		),
		col.New(5).Add(
			text.New("Invoice No: "+doc.InvoiceNumber, props.Text{Size: 9, Align: align.Right}),
			text.New("Date: "+doc.Date, props.Text{Top: 5, Size: 9, Align: align.Right}),
		),
	)

	header := props.Text{Size: 9, Style: fontstyle.Bold}
	headerRight := props.Text{Size: 9, Style: fontstyle.Bold, Align: align.Right}
	m.AddRow(8,
		text.NewCol(1, "Sr.", header),
		text.NewCol(4, "Product / Service", header),
		text.NewCol(1, "Qty", headerRight),
		text.NewCol(2, "Unit Price", headerRight),
		text.NewCol(1, "GST %", headerRight),
		text.NewCol(3, "Amount", headerRight),
	)

	cell := props.Text{Size: 9}
	cellRight := props.Text{Size: 9, Align: align.Right}
	for _, line := range doc.Lines {
		m.AddRow(7,
			text.NewCol(1, strconv.Itoa(line.Sr), cell),
			text.NewCol(4, line.Product, cell),
			text.NewCol(1, line.Qty, cellRight),
			text.NewCol(2, pdfCurrency+line.UnitPrice, cellRight),
			text.NewCol(1, line.GST, cellRight),
			text.NewCol(3, pdfCurrency+line.Amount, cellRight),
		)
	}

	// Totals
	m.AddRow(4, col.New(12))
	totalRow := func(label, value string, style fontstyle.Type) {
		m.AddRow(6,
			col.New(6),
			text.NewCol(3, label, props.Text{Size: 9, Style: style}),
			text.NewCol(3, pdfCurrency+value, props.Text{Size: 9, Style: style, Align: align.Right}),
		)
	}
	totalRow("Subtotal:", doc.Subtotal, fontstyle.Normal)
	totalRow("GST Amount:", doc.GST, fontstyle.Normal)
	totalRow("Grand Total:", doc.GrandTotal, fontstyle.Bold)

	m.AddRow(12,
		text.NewCol(12, "Amount in Words: "+doc.AmountInWords, props.Text{Top: 4, Size: 9}),
	)

	// Terms and signature
	terms := col.New(7).Add(text.New("Terms & Conditions:", props.Text{Size: 8, Style: fontstyle.Bold}))
	for i, t := range doc.Terms {
		terms.Add(text.New(fmt.Sprintf("%d. %s", i+1, t), props.Text{Top: float64(4 * (i + 1)), Size: 8}))
	}
	m.AddRow(26,
		terms,
		col.New(5).Add(
			text.New("Authorized Signatory", props.Text{Size: 8, Align: align.Center}),
			text.New(doc.Shop.Name, props.Text{Top: 18, Size: 8, Style: fontstyle.Bold, Align: align.Center}),
		),
	)

	if doc.Footer != "" {
		m.AddRow(8, text.NewCol(12, doc.Footer, props.Text{Top: 2, Size: 9, Style: fontstyle.Italic, Align: align.Center}))
	}

	out, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generate invoice pdf: %w", err)
	}
	return out.GetBytes(), nil
}

func shopContact(s Shop) string {
	var parts []string
	if s.Phone != "" {
		parts = append(parts, "Phone: "+s.Phone)
	}
	if s.Email != "" {
		parts = append(parts, "Email: "+s.Email)
	}
	return strings.Join(parts, " | ")
}
