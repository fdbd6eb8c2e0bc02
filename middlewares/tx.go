package middlewares

import (
	"taxinvoice-backend/database"
	"taxinvoice-backend/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequestTx opens a per-request DB transaction for mutating requests and
// commits it when the handler succeeds. Order: run AFTER Idempotency() so
// idempotency records aren't tied to the handler TX.
func RequestTx() fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		switch c.Method() {
		case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
			return c.Next()
		}

		tx := database.DB.WithContext(c.UserContext()).Begin()
		if tx.Error != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to begin transaction")
		}

		// Ensure we always cleanup.
		defer func() {
			if r := recover(); r != nil {
				_ = tx.Rollback()
				panic(r) // re-panic after rollback so Fiber's handler can catch
			}
			if err != nil {
				_ = tx.Rollback()
				return
			}
			if e := tx.Commit().Error; e != nil {
				logger.L().Error("tx commit failed", zap.Error(e))
				err = fiber.NewError(fiber.StatusInternalServerError, "transaction commit failed")
			}
		}()

		// Make the TX available to handlers via database.GetDB(c).
		c.Locals(database.TxLocalsKey, tx)

		err = c.Next()
		return err
	}
}
