package routes

import (
	"github.com/gofiber/fiber/v2"

	"taxinvoice-backend/controllers"
	"taxinvoice-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	api.Get("/health", controllers.Health)

	invoices := api.Group("/invoices")

	// Idempotency guard FIRST (not tied to request TX)
	invoices.Use(middlewares.Idempotency())

	// Then the per-request transaction (commits/rolls back mutating requests)
	invoices.Use(middlewares.RequestTx())

	invoices.Get("/", controllers.GetInvoices)
	invoices.Post("/", controllers.CreateInvoice)
	invoices.Post("/preview/pdf", controllers.PreviewPDF)
	invoices.Get("/:id", controllers.GetInvoice)
	invoices.Delete("/:id", controllers.DeleteInvoice)
	invoices.Get("/:id/print", controllers.PrintInvoice)
	invoices.Get("/:id/pdf", controllers.InvoicePDF)
}
