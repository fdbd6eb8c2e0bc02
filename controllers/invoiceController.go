package controllers

import (
	"strings"

	"taxinvoice-backend/billing"
	"taxinvoice-backend/config"
	"taxinvoice-backend/database"
	"taxinvoice-backend/logger"
	"taxinvoice-backend/middlewares"
	"taxinvoice-backend/models"
	"taxinvoice-backend/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const defaultListLimit = 0 // no limit

// createInvoiceRequest is the form payload. Totals are what the browser
// computed; the server recomputes them and only logs a disagreement.
type createInvoiceRequest struct {
	billing.Submission
	Subtotal   *billing.Number `json:"subtotal"`
	TotalGst   *billing.Number `json:"totalGst"`
	GrandTotal *billing.Number `json:"grandTotal"`
}

type invoiceItemRules struct {
	Quantity float64 `json:"quantity" validate:"gt=0"`
	Price    float64 `json:"price" validate:"gte=0"`
	Gst      float64 `json:"gst" validate:"gstrate"`
}

type invoiceRules struct {
	Items []invoiceItemRules `json:"items" validate:"dive"`
}

func invoiceStore(c *fiber.Ctx) *database.InvoiceStore {
	return database.NewInvoiceStore(database.GetDB(c), config.Get().Invoice.NumberTemplate)
}

func GetInvoices(c *fiber.Ctx) error {
	invoices, err := invoiceStore(c).List(c.UserContext(), database.ListOptions{
		Limit:  utils.ParseIntDefault(c.Query("limit"), defaultListLimit),
		Offset: utils.ParseIntDefault(c.Query("offset"), 0),
	})
	if err != nil {
		return err
	}
	return c.JSON(invoices)
}

func GetInvoice(c *fiber.Ctx) error {
	invoice, err := invoiceStore(c).GetByID(c.UserContext(), strings.TrimSpace(c.Params("id")))
	if err != nil {
		return err
	}
	return c.JSON(invoice)
}

func CreateInvoice(c *fiber.Ctx) error {
	draft, req, err := parseSubmission(c)
	if err != nil {
		return err
	}
	warnOnTotalsMismatch(c, req, draft.Totals)

	invoice := invoiceFromDraft(draft)
	if err := invoiceStore(c).Create(c.UserContext(), &invoice); err != nil {
		return err
	}
	logger.L().Info("invoice created",
		zap.String("id", invoice.ID),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.Int("items", len(invoice.Items)),
	)
	return c.Status(fiber.StatusCreated).JSON(invoice)
}

func DeleteInvoice(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	if err := invoiceStore(c).DeleteByID(c.UserContext(), id); err != nil {
		return err
	}
	logger.L().Info("invoice deleted", zap.String("id", id))
	return c.JSON(fiber.Map{"message": "Invoice deleted successfully"})
}

// parseSubmission binds the body, runs the submission gate and then the
// per-item field rules on the rows that survived it.
func parseSubmission(c *fiber.Ctx) (billing.Draft, createInvoiceRequest, error) {
	var req createInvoiceRequest
	if err := c.BodyParser(&req); err != nil {
		return billing.Draft{}, req, fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	draft, err := billing.PrepareSubmission(req.Submission)
	if err != nil {
		return billing.Draft{}, req, err
	}

	rules := invoiceRules{Items: make([]invoiceItemRules, len(draft.Items))}
	for i, item := range draft.Items {
		rules.Items[i] = invoiceItemRules{
			Quantity: item.Quantity.Float64(),
			Price:    item.UnitPrice.Float64(),
			Gst:      item.GSTPercent.Float64(),
		}
	}
	if err := middlewares.ValidateStruct(rules); err != nil {
		return billing.Draft{}, req, err
	}
	return draft, req, nil
}

func warnOnTotalsMismatch(c *fiber.Ctx, req createInvoiceRequest, totals billing.InvoiceTotals) {
	mismatch := func(client *billing.Number, server float64) bool {
		return client != nil && !utils.SameAmount(client.Float64(), server)
	}
	if !mismatch(req.Subtotal, totals.Subtotal) &&
		!mismatch(req.TotalGst, totals.TaxTotal) &&
		!mismatch(req.GrandTotal, totals.GrandTotal) {
		return
	}

	fields := []zap.Field{
		zap.Any("request_id", c.Locals("requestid")),
		zap.Float64("subtotal", totals.Subtotal),
		zap.Float64("total_gst", totals.TaxTotal),
		zap.Float64("grand_total", totals.GrandTotal),
	}
	if req.Subtotal != nil {
		fields = append(fields, zap.Float64("client_subtotal", req.Subtotal.Float64()))
	}
	if req.TotalGst != nil {
		fields = append(fields, zap.Float64("client_total_gst", req.TotalGst.Float64()))
	}
	if req.GrandTotal != nil {
		fields = append(fields, zap.Float64("client_grand_total", req.GrandTotal.Float64()))
	}
	logger.L().Warn("client totals differ from recomputed totals", fields...)
}

func invoiceFromDraft(d billing.Draft) models.Invoice {
	invoice := models.Invoice{
		CustomerName:    d.CustomerName,
		MobileNumber:    d.MobileNumber,
		CustomerAddress: d.CustomerAddress,
		Subtotal:        d.Totals.Subtotal,
		TotalGst:        d.Totals.TaxTotal,
		GrandTotal:      d.Totals.GrandTotal,
		Items:           make([]models.InvoiceItem, 0, len(d.Items)),
	}
	for _, item := range d.Items {
		invoice.Items = append(invoice.Items, models.InvoiceItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity.Float64(),
			Price:       item.UnitPrice.Float64(),
			Gst:         item.GSTPercent.Float64(),
			RowTotal:    item.RowTotal.Float64(),
		})
	}
	return invoice
}
