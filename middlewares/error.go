package middlewares

import (
	"errors"
	"reflect"
	"strings"

	"taxinvoice-backend/billing"
	"taxinvoice-backend/database"
	"taxinvoice-backend/logger"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ErrorHandler centralizes error responses and keeps messages sanitized.
func ErrorHandler(c *fiber.Ctx, err error) error {
	// Fiber errors carry their own status and message
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(fiber.Map{"message": fe.Message})
	}

	// Submission gate failures
	var ve *billing.ValidationError
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": ve.Message})
	}

	if errors.Is(err, database.ErrInvoiceNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": "Invoice not found"})
	}

	// Field constraints (422 + per-field info)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		out := make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			out[fieldPath(fe)] = fe.Tag()
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"message": "validation failed",
			"errors":  out,
		})
	}

	logger.L().Error("internal error",
		zap.Error(err),
		zap.String("method", c.Method()),
		zap.String("path", c.Path()),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "internal server error",
	})
}

// fieldPath strips the root struct name: "invoiceItemInput.quantity" -> "quantity".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func jsonTagName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}
