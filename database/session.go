package database

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TxLocalsKey is where middlewares.RequestTx stores the per-request transaction.
const TxLocalsKey = "tx"

// GetDB returns a *gorm.DB for the request. A per-request transaction opened by
// middlewares.RequestTx wins; otherwise the shared handle bound to the
// request context is returned.
func GetDB(c *fiber.Ctx) *gorm.DB {
	if v := c.Locals(TxLocalsKey); v != nil {
		if tx, ok := v.(*gorm.DB); ok && tx != nil {
			return tx
		}
	}
	return DB.WithContext(c.UserContext())
}
