package database

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"taxinvoice-backend/config"
	"taxinvoice-backend/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(config.DatabaseConfig{
		Driver:       "sqlite",
		URL:          fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		MaxOpenConns: 1,
	}, gormlogger.Silent)
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func newTestStore(t *testing.T, db *gorm.DB, at time.Time) *InvoiceStore {
	t.Helper()
	s := NewInvoiceStore(db, "")
	s.now = func() time.Time { return at }
	return s
}

func sampleInvoice(customer string) *models.Invoice {
	return &models.Invoice{
		CustomerName:    customer,
		MobileNumber:    "9876543210",
		CustomerAddress: "Main Bazaar, Jaipur",
		Items: []models.InvoiceItem{
			{ProductName: "Kurta", Quantity: 2, Price: 450, Gst: 5, RowTotal: 945},
			{ProductName: "Dupatta", Quantity: 1, Price: 300, Gst: 12, RowTotal: 336},
		},
		Subtotal:   1200,
		TotalGst:   81,
		GrandTotal: 1281,
	}
}

func TestInvoiceStore_CreateAssignsSequentialNumbers(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t, db, time.Date(2026, time.October, 18, 11, 0, 0, 0, time.UTC))
	ctx := context.Background()

	var numbers []string
	for _, name := range []string{"A", "B", "C"} {
		inv := sampleInvoice(name)
		require.NoError(t, store.Create(ctx, inv))
		assert.NotEmpty(t, inv.ID)
		numbers = append(numbers, inv.InvoiceNumber)
	}

	assert.Equal(t, []string{"INV-202610-0001", "INV-202610-0002", "INV-202610-0003"}, numbers)
}

func TestInvoiceStore_NumbersNotReusedAfterDelete(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t, db, time.Date(2026, time.January, 5, 9, 0, 0, 0, time.UTC))
	ctx := context.Background()

	var created []*models.Invoice
	for i := 0; i < 3; i++ {
		inv := sampleInvoice(fmt.Sprintf("Customer %d", i))
		require.NoError(t, store.Create(ctx, inv))
		created = append(created, inv)
	}

	require.NoError(t, store.DeleteByID(ctx, created[2].ID))
	require.NoError(t, store.DeleteByID(ctx, created[1].ID))

	next := sampleInvoice("Customer 3")
	require.NoError(t, store.Create(ctx, next))
	assert.Equal(t, "INV-202601-0004", next.InvoiceNumber)
}

func TestInvoiceStore_StoresTotalsAsGiven(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t, db, time.Now())
	ctx := context.Background()

	inv := sampleInvoice("Trusting")
	inv.Subtotal, inv.TotalGst, inv.GrandTotal = 1, 2, 3
	require.NoError(t, store.Create(ctx, inv))

	got, err := store.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, 1.0, got.Subtotal)
	assert.Equal(t, 2.0, got.TotalGst)
	assert.Equal(t, 3.0, got.GrandTotal)
}

func TestInvoiceStore_GetByIDKeepsItemOrder(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t, db, time.Now())
	ctx := context.Background()

	inv := sampleInvoice("Ordered")
	inv.Items = append(inv.Items, models.InvoiceItem{ProductName: "Bangles", Quantity: 6, Price: 40, Gst: 3, RowTotal: 247.2})
	require.NoError(t, store.Create(ctx, inv))

	got, err := store.GetByID(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 3)
	assert.Equal(t, "Kurta", got.Items[0].ProductName)
	assert.Equal(t, "Dupatta", got.Items[1].ProductName)
	assert.Equal(t, "Bangles", got.Items[2].ProductName)
	assert.Equal(t, inv.InvoiceNumber, got.InvoiceNumber)
}

func TestInvoiceStore_ListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	store := NewInvoiceStore(db, "")
	ctx := context.Background()

	base := time.Date(2026, time.May, 1, 8, 0, 0, 0, time.UTC)
	for i, name := range []string{"first", "second", "third"} {
		at := base.Add(time.Duration(i) * time.Hour)
		store.now = func() time.Time { return at }
		require.NoError(t, store.Create(ctx, sampleInvoice(name)))
	}

	all, err := store.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].CustomerName)
	assert.Equal(t, "second", all[1].CustomerName)
	assert.Equal(t, "first", all[2].CustomerName)
	assert.Len(t, all[0].Items, 2)

	page, err := store.List(ctx, ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].CustomerName)
}

func TestInvoiceStore_ListEmpty(t *testing.T) {
	store := NewInvoiceStore(newTestDB(t), "")

	all, err := store.List(context.Background(), ListOptions{})
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestInvoiceStore_NotFound(t *testing.T) {
	store := NewInvoiceStore(newTestDB(t), "")
	ctx := context.Background()

	_, err := store.GetByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, ErrInvoiceNotFound)

	assert.ErrorIs(t, store.DeleteByID(ctx, uuid.NewString()), ErrInvoiceNotFound)
}

func TestInvoiceStore_DeleteRemovesItems(t *testing.T) {
	db := newTestDB(t)
	store := NewInvoiceStore(db, "")
	ctx := context.Background()

	inv := sampleInvoice("Gone")
	require.NoError(t, store.Create(ctx, inv))
	require.NoError(t, store.DeleteByID(ctx, inv.ID))

	var items int64
	require.NoError(t, db.Model(&models.InvoiceItem{}).Where("invoice_id = ?", inv.ID).Count(&items).Error)
	assert.Zero(t, items)

	_, err := store.GetByID(ctx, inv.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

// The test pool has one connection, so the creates queue on it; the counter
// still has to hand every caller its own number.
func TestInvoiceStore_ParallelCallersOnSharedPoolGetDistinctNumbers(t *testing.T) {
	db := newTestDB(t)
	store := newTestStore(t, db, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC))
	ctx := context.Background()

	const n = 12
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[string]bool{}
		errs    []error
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			inv := sampleInvoice(fmt.Sprintf("Parallel %d", i))
			err := store.Create(ctx, inv)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers[inv.InvoiceNumber] = true
		}(i)
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Len(t, numbers, n)
	for i := 1; i <= n; i++ {
		assert.True(t, numbers[fmt.Sprintf("INV-202610-%04d", i)], "missing sequence %d", i)
	}
}

func TestInvoiceStore_CustomTemplate(t *testing.T) {
	db := newTestDB(t)
	store := NewInvoiceStore(db, "TAX/{YY}/{SEQ6}")
	store.now = func() time.Time { return time.Date(2027, time.February, 2, 0, 0, 0, 0, time.UTC) }

	inv := sampleInvoice("Template")
	require.NoError(t, store.Create(context.Background(), inv))
	assert.Equal(t, "TAX/27/000001", inv.InvoiceNumber)
}

func TestMigrate_SeedsSequenceFromExistingInvoices(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	legacy := sampleInvoice("Legacy")
	legacy.InvoiceNumber = "INV-202401-0005"
	legacy.Sequence = 5
	require.NoError(t, db.Create(legacy).Error)
	require.NoError(t, db.Where("name = ?", models.InvoiceSequenceName).Delete(&models.InvoiceSequence{}).Error)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))

	store := newTestStore(t, db, time.Date(2026, time.October, 18, 0, 0, 0, 0, time.UTC))
	inv := sampleInvoice("After upgrade")
	require.NoError(t, store.Create(ctx, inv))
	assert.Equal(t, "INV-202610-0006", inv.InvoiceNumber)
}

func TestInvoiceStore_MissingSequenceRow(t *testing.T) {
	db := newTestDB(t)
	require.NoError(t, db.Where("1 = 1").Delete(&models.InvoiceSequence{}).Error)

	err := NewInvoiceStore(db, "").Create(context.Background(), sampleInvoice("x"))
	assert.ErrorIs(t, err, ErrSequenceNotInitialized)
}

func TestDialector_UnsupportedDriver(t *testing.T) {
	_, err := Dialector(config.DatabaseConfig{Driver: "oracle"})
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "oracle"))
}
