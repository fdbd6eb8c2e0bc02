package database

import (
	"context"
	"fmt"
	"testing"

	"taxinvoice-backend/config"
	"taxinvoice-backend/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func TestOpen_QueryErrorsGoToZap(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	logger.Set(zap.New(core))
	t.Cleanup(func() { logger.Set(zap.NewNop()) })

	db, err := Open(config.DatabaseConfig{
		Driver:       "sqlite",
		URL:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	}, gormlogger.Error)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	require.NoError(t, Migrate(db))

	_, err = NewInvoiceStore(db, "").GetByID(context.Background(), uuid.NewString())
	require.ErrorIs(t, err, ErrInvoiceNotFound)
	assert.Zero(t, logs.FilterMessage("gorm query").Len(), "not found is not a query error")

	var n int64
	require.Error(t, db.Raw("SELECT count(*) FROM no_such_table").Scan(&n).Error)

	entries := logs.FilterMessage("gorm query").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "gorm", entries[0].ContextMap()["component"])
	assert.Contains(t, entries[0].ContextMap()["sql"], "no_such_table")
}
