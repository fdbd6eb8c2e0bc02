package models

import (
	"time"

	"gorm.io/datatypes"
)

// IdempotencyKey stores the first completed response for a given request hash.
// Key is the Idempotency-Key header value; RequestHash is the sha256 of
// method|path|body. ResponseStatus stays 0 while the request is in flight.
type IdempotencyKey struct {
	ID             uint           `json:"id" gorm:"primaryKey"`
	Key            string         `json:"key" gorm:"column:idempotency_key;size:128;uniqueIndex"`
	RequestHash    string         `json:"request_hash" gorm:"size:64"`
	Method         string         `json:"method" gorm:"size:10"`
	Path           string         `json:"path" gorm:"size:255"`
	ResponseStatus int            `json:"response_status"`
	ResponseBody   datatypes.JSON `json:"-"`
	CreatedAt      time.Time      `json:"created_at"`
	CompletedAt    *time.Time     `json:"completed_at"`
}
