package controllers

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"taxinvoice-backend/config"
	"taxinvoice-backend/models"
	"taxinvoice-backend/render"

	"github.com/gofiber/fiber/v2"
)

func shop() render.Shop {
	s := config.Get().Shop
	return render.Shop{
		Name:    s.Name,
		Address: s.Address,
		Phone:   s.Phone,
		Email:   s.Email,
		GSTIN:   s.GSTIN,
	}
}

// PrintInvoice serves the browser print view.
func PrintInvoice(c *fiber.Ctx) error {
	invoice, err := invoiceStore(c).GetByID(c.UserContext(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := render.HTML(&buf, render.NewDocument(invoice, shop())); err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.Send(buf.Bytes())
}

// InvoicePDF downloads a stored invoice as PDF; ?size=a4|a5|letter.
func InvoicePDF(c *fiber.Ctx) error {
	invoice, err := invoiceStore(c).GetByID(c.UserContext(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return err
	}
	return sendPDF(c, invoice)
}

// PreviewPDF renders an unsaved submission. Nothing is persisted and no
// sequence value is consumed; the number is a TEMP- placeholder.
func PreviewPDF(c *fiber.Ctx) error {
	draft, _, err := parseSubmission(c)
	if err != nil {
		return err
	}

	now := time.Now()
	invoice := invoiceFromDraft(draft)
	invoice.InvoiceNumber = "TEMP-" + strconv.FormatInt(now.UnixMilli(), 10)
	invoice.CreatedAt = now
	return sendPDF(c, &invoice)
}

func sendPDF(c *fiber.Ctx, invoice *models.Invoice) error {
	out, err := render.PDF(render.NewDocument(invoice, shop()), render.ParsePageSize(c.Query("size")))
	if err != nil {
		return err
	}
	c.Attachment("Invoice_" + invoice.InvoiceNumber + ".pdf")
	return c.Send(out)
}
