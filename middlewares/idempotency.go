package middlewares

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"taxinvoice-backend/database"
	"taxinvoice-backend/logger"
	"taxinvoice-backend/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const IdempotencyHeader = "Idempotency-Key"

// errReplayed marks a request answered from a stored response.
var errReplayed = errors.New("idempotent replay")

// Idempotency processes Idempotency-Key for mutating HTTP methods. The first
// completed JSON response is stored and replayed for retries of the same
// request; a different request reusing the key gets 409.
func Idempotency() fiber.Handler {
	return func(c *fiber.Ctx) error {
		method := strings.ToUpper(c.Method())
		if method != fiber.MethodPost && method != fiber.MethodPut && method != fiber.MethodPatch && method != fiber.MethodDelete {
			return c.Next()
		}

		key := strings.TrimSpace(c.Get(IdempotencyHeader))
		if key == "" {
			return c.Next()
		}
		if len(key) > 128 {
			return fiber.NewError(fiber.StatusBadRequest, "Idempotency-Key too long")
		}

		path := c.OriginalURL() // includes query string
		reqHash := requestHash(method, path, c.Body())

		// ---- Phase 1: read or create the pending record
		err := database.DB.WithContext(c.UserContext()).Transaction(func(tx *gorm.DB) error {
			var existing models.IdempotencyKey
			if err := tx.Where("idempotency_key = ?", key).First(&existing).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return fiber.NewError(fiber.StatusInternalServerError, "idempotency lookup failed")
				}
				rec := models.IdempotencyKey{
					Key:         key,
					RequestHash: reqHash,
					Method:      method,
					Path:        path,
				}
				if e2 := tx.Create(&rec).Error; e2 != nil {
					// Could be a unique race: read again
					if e3 := tx.Where("idempotency_key = ?", key).First(&existing).Error; e3 != nil {
						return fiber.NewError(fiber.StatusInternalServerError, "idempotency create failed")
					}
				} else {
					return nil
				}
			}

			if existing.RequestHash != reqHash {
				return fiber.NewError(fiber.StatusConflict, "Idempotency-Key reuse with different request")
			}
			if existing.ResponseStatus == 0 {
				return fiber.NewError(fiber.StatusConflict, "request with this Idempotency-Key is still in progress")
			}

			c.Set("Idempotent-Replayed", "true")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			c.Status(existing.ResponseStatus)
			if err := c.Send(existing.ResponseBody); err != nil {
				return err
			}
			return errReplayed
		})
		if errors.Is(err, errReplayed) {
			return nil
		}
		if err != nil {
			return err
		}

		// ---- Run the handler once
		if err := c.Next(); err != nil {
			// Failed requests may be retried with the same key.
			if e := database.DB.Where("idempotency_key = ? AND response_status = 0", key).Delete(&models.IdempotencyKey{}).Error; e != nil {
				logger.L().Warn("idempotency key release failed", zap.String("key", key), zap.Error(e))
			}
			return err
		}

		// ---- Phase 2: store the response
		status := c.Response().StatusCode()
		resp := c.Response().Body()
		if !json.Valid(resp) {
			_ = database.DB.Where("idempotency_key = ? AND response_status = 0", key).Delete(&models.IdempotencyKey{}).Error
			return nil
		}
		blob := make([]byte, len(resp))
		copy(blob, resp)

		now := time.Now().UTC()
		if err := database.DB.Model(&models.IdempotencyKey{}).
			Where("idempotency_key = ?", key).
			Updates(map[string]any{
				"response_status": status,
				"response_body":   datatypes.JSON(blob),
				"completed_at":    &now,
			}).Error; err != nil {
			// best-effort: don't break the successful response
			logger.L().Warn("idempotency response not stored", zap.String("key", key), zap.Error(err))
		}
		return nil
	}
}

func requestHash(method, path string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(path))
	h.Write([]byte{'\n'})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}
