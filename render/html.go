package render

import (
	"html/template"
	"io"
)

const invoiceHTMLTemplate = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Invoice {{.InvoiceNumber}}</title>
  <style>
    * { box-sizing: border-box; }
    body { margin: 0; padding: 24px; font-family: Arial, Helvetica, sans-serif; color: #222; }
    .invoice { max-width: 800px; margin: 0 auto; border: 1px solid #333; padding: 24px; }
    .shop { text-align: center; border-bottom: 2px solid #333; padding-bottom: 12px; }
    .shop h1 { margin: 0 0 4px; font-size: 24px; letter-spacing: 1px; }
    .shop p { margin: 2px 0; font-size: 12px; }
    .title { text-align: center; background: #333; color: #fff; margin: 12px 0; padding: 6px; font-size: 16px; }
    .details { display: flex; justify-content: space-between; margin-bottom: 16px; font-size: 13px; }
    .details h3 { margin: 0 0 4px; font-size: 13px; }
    .details p { margin: 2px 0; }
    table.items { width: 100%; border-collapse: collapse; font-size: 13px; }
    table.items th, table.items td { border: 1px solid #333; padding: 6px; }
    table.items th { background: #eee; }
    .num { text-align: right; }
    .totals { margin-left: auto; width: 280px; margin-top: 12px; font-size: 13px; }
    .totals div { display: flex; justify-content: space-between; padding: 3px 0; }
    .totals .grand { border-top: 2px solid #333; font-weight: bold; font-size: 15px; }
    .words { margin: 16px 0; font-size: 13px; }
    .footer { display: flex; justify-content: space-between; font-size: 12px; margin-top: 32px; }
    .sig { text-align: center; }
    .sig-line { border-top: 1px solid #333; width: 180px; margin: 36px auto 4px; }
    .thanks { text-align: center; margin-top: 20px; font-style: italic; }
    @media print { body { padding: 0; } .invoice { border: none; } }
  </style>
</head>
<body onload="window.print()">
<div class="invoice">
  <div class="shop">
    <h1>{{.Shop.Name}}</h1>
    {{if .Shop.Address}}<p>{{.Shop.Address}}</p>{{end}}
    <p>{{if .Shop.Phone}}Phone: {{.Shop.Phone}}{{end}}{{if and .Shop.Phone .Shop.Email}} | {{end}}{{if .Shop.Email}}Email: {{.Shop.Email}}{{end}}</p>
    {{if .Shop.GSTIN}}<p>GSTIN: {{.Shop.GSTIN}}</p>{{end}}
  </div>

  <div class="title">{{.Title}}</div>

  <div class="details">
    <div>
      <h3>Bill To:</h3>
      <p><strong>{{.CustomerName}}</strong></p>
      <p>Mobile: {{.Mobile}}</p>
      <p>{{.Address}}</p>
    </div>
    <div>
      <p><strong>Invoice No:</strong> {{.InvoiceNumber}}</p>
      <p><strong>Date:</strong> {{.Date}}</p>
    </div>
  </div>

  <table class="items">
    <thead>
      <tr>
        <th>Sr.</th>
        <th>Product / Service</th>
        <th class="num">Qty</th>
        <th class="num">Unit Price</th>
        <th class="num">GST %</th>
        <th class="num">Amount</th>
      </tr>
    </thead>
    <tbody>
      {{range .Lines}}
      <tr>
        <td>{{.Sr}}</td>
        <td>{{.Product}}</td>
        <td class="num">{{.Qty}}</td>
        <td class="num">&#8377;{{.UnitPrice}}</td>
        <td class="num">{{.GST}}</td>
        <td class="num">&#8377;{{.Amount}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <div class="totals">
    <div><span>Subtotal:</span><span>&#8377;{{.Subtotal}}</span></div>
    <div><span>GST Amount:</span><span>&#8377;{{.GST}}</span></div>
    <div class="grand"><span>Grand Total:</span><span>&#8377;{{.GrandTotal}}</span></div>
  </div>

  <div class="words"><strong>Amount in Words:</strong> {{.AmountInWords}}</div>

  <div class="footer">
    <div>
      <p><strong>Terms &amp; Conditions:</strong></p>
      {{range $i, $t := .Terms}}<p>{{inc $i}}. {{$t}}</p>{{end}}
    </div>
    <div class="sig">
      <p>Authorized Signatory</p>
      <div class="sig-line"></div>
      <p>{{.Shop.Name}}</p>
    </div>
  </div>

  <div class="thanks">{{.Footer}}</div>
</div>
</body>
</html>
`

var invoiceHTML = template.Must(template.New("invoice").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).Parse(invoiceHTMLTemplate))

// HTML writes the printable tax invoice.
func HTML(w io.Writer, doc Document) error {
	return invoiceHTML.Execute(w, doc)
}
