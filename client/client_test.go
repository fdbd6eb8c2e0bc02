package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"taxinvoice-backend/billing"
	"taxinvoice-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(url string) *Client {
	return New(url, WithRetryInterval(time.Millisecond), WithTimeout(2*time.Second))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func submission() billing.Submission {
	return billing.Submission{
		CustomerName:    " Anita ",
		MobileNumber:    "9000000001",
		CustomerAddress: "Sector 5, Noida",
		Items: []billing.LineItem{
			{ProductName: "Lamp", Quantity: 2, UnitPrice: 300, GSTPercent: 12},
			{ProductName: "", Quantity: 1, UnitPrice: 99, GSTPercent: 5},
		},
	}
}

func TestCreateInvoice_GateFailureSkipsNetwork(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	s := submission()
	s.MobileNumber = "  "
	_, err := newTestClient(srv.URL).CreateInvoice(context.Background(), s)

	var ve *billing.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, billing.MsgMobileNumberRequired, ve.Message)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestCreateInvoice_SendsCleanedSubmission(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/invoices", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		var body createInvoiceBody
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&body)) || !assert.Len(t, body.Items, 1) {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad body"})
			return
		}
		assert.Equal(t, "Anita", body.CustomerName)
		assert.InDelta(t, 672, body.Items[0].RowTotal.Float64(), 1e-9)
		assert.InDelta(t, 600, body.Subtotal, 1e-9)
		assert.InDelta(t, 72, body.TotalGst, 1e-9)
		assert.InDelta(t, 672, body.GrandTotal, 1e-9)

		writeJSON(w, http.StatusCreated, models.Invoice{ID: "abc", InvoiceNumber: "INV-202610-0001", GrandTotal: 672})
	}))
	defer srv.Close()

	inv, err := newTestClient(srv.URL).CreateInvoice(context.Background(), submission())
	require.NoError(t, err)
	assert.Equal(t, "INV-202610-0001", inv.InvoiceNumber)
}

func TestCreateInvoice_RetriesWithSameKey(t *testing.T) {
	var (
		mu   sync.Mutex
		keys []string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		keys = append(keys, r.Header.Get("Idempotency-Key"))
		n := len(keys)
		mu.Unlock()

		switch n {
		case 1:
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"message": "busy"})
		case 2:
			writeJSON(w, http.StatusConflict, map[string]string{"message": "in progress"})
		default:
			writeJSON(w, http.StatusCreated, models.Invoice{ID: "abc", InvoiceNumber: "INV-202610-0009"})
		}
	}))
	defer srv.Close()

	inv, err := newTestClient(srv.URL).CreateInvoice(context.Background(), submission())
	require.NoError(t, err)
	assert.Equal(t, "INV-202610-0009", inv.InvoiceNumber)

	require.Len(t, keys, 3)
	assert.Equal(t, keys[0], keys[1])
	assert.Equal(t, keys[0], keys[2])
}

func TestGetInvoice_NotFoundIsFinal(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Invoice not found"})
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).GetInvoice(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestDeleteInvoice_APIError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad id"})
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).DeleteInvoice(context.Background(), "x")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "bad id", apiErr.Message)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestListInvoices_UnavailableAfterRetries(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "internal server error"})
	}))
	defer srv.Close()

	c := New(srv.URL, WithRetryInterval(time.Millisecond), WithMaxAttempts(4))
	_, err := c.ListInvoices(context.Background(), ListOptions{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, int32(4), atomic.LoadInt32(&calls))
}

func TestListInvoices_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "20", r.URL.Query().Get("offset"))
		writeJSON(w, http.StatusOK, []models.Invoice{{ID: "1"}, {ID: "2"}})
	}))
	defer srv.Close()

	list, err := newTestClient(srv.URL).ListInvoices(context.Background(), ListOptions{Limit: 10, Offset: 20})
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestHealth_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newTestClient(url).Health(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHealth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/health", r.URL.Path)
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "timestamp": "2026-10-18T10:00:00Z"})
	}))
	defer srv.Close()

	h, err := newTestClient(srv.URL + "/").Health(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", h.Status)
	assert.Equal(t, 2026, h.Timestamp.Year())
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://billing.example.com")
	t.Setenv("API_TIMEOUT_MS", "2500")
	t.Setenv("API_RETRY_ATTEMPTS", "5")

	cfg := LoadConfig()
	assert.Equal(t, "https://billing.example.com", cfg.BaseURL)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, uint(5), cfg.RetryAttempts)

	c := NewFromConfig(cfg)
	assert.Equal(t, 2500*time.Millisecond, c.http.Timeout)
	assert.Equal(t, uint(5), c.maxAttempts)
}
