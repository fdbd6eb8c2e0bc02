// Package client is a Go client for the invoice REST API. Calls are retried
// with exponential backoff on transport failures and 5xx responses. Creates
// always carry an Idempotency-Key, so a retried create never issues a second
// invoice.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"taxinvoice-backend/billing"
	"taxinvoice-backend/models"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultMaxAttempts = 3

	idempotencyHeader = "Idempotency-Key"
)

var (
	ErrNotFound    = errors.New("invoice not found")
	ErrUnavailable = errors.New("invoice service unavailable")
	ErrBadResponse = errors.New("unexpected response body")
)

// APIError is a 4xx answer other than 404, carrying the server's message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("invoice api: %d %s", e.StatusCode, e.Message)
}

type HealthStatus struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type ListOptions struct {
	Limit  int
	Offset int
}

type Client struct {
	baseURL       string
	http          *http.Client
	maxAttempts   uint
	retryInterval time.Duration
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithMaxAttempts sets the total number of tries per call, first one included.
func WithMaxAttempts(n uint) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

// WithRetryInterval sets the first backoff interval.
func WithRetryInterval(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.retryInterval = d
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:       strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		http:          &http.Client{Timeout: DefaultTimeout},
		maxAttempts:   DefaultMaxAttempts,
		retryInterval: 500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) ListInvoices(ctx context.Context, opts ListOptions) ([]models.Invoice, error) {
	q := url.Values{}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Offset > 0 {
		q.Set("offset", strconv.Itoa(opts.Offset))
	}
	path := "/api/invoices"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []models.Invoice
	if err := c.do(ctx, http.MethodGet, path, nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetInvoice(ctx context.Context, id string) (*models.Invoice, error) {
	var out models.Invoice
	if err := c.do(ctx, http.MethodGet, "/api/invoices/"+url.PathEscape(id), nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type createInvoiceBody struct {
	CustomerName    string             `json:"customerName"`
	MobileNumber    string             `json:"mobileNumber"`
	CustomerAddress string             `json:"customerAddress"`
	Items           []billing.LineItem `json:"items"`
	Subtotal        float64            `json:"subtotal"`
	TotalGst        float64            `json:"totalGst"`
	GrandTotal      float64            `json:"grandTotal"`
}

// CreateInvoice runs the submission gate locally and, when it passes, posts
// the cleaned invoice. A gate failure is returned as *billing.ValidationError
// without contacting the server.
func (c *Client) CreateInvoice(ctx context.Context, s billing.Submission) (*models.Invoice, error) {
	draft, err := billing.PrepareSubmission(s)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(createInvoiceBody{
		CustomerName:    draft.CustomerName,
		MobileNumber:    draft.MobileNumber,
		CustomerAddress: draft.CustomerAddress,
		Items:           draft.Items,
		Subtotal:        draft.Totals.Subtotal,
		TotalGst:        draft.Totals.TaxTotal,
		GrandTotal:      draft.Totals.GrandTotal,
	})
	if err != nil {
		return nil, fmt.Errorf("encode invoice: %w", err)
	}

	var out models.Invoice
	if err := c.do(ctx, http.MethodPost, "/api/invoices", body, uuid.NewString(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteInvoice(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/invoices/"+url.PathEscape(id), nil, "", nil)
}

func (c *Client) Health(ctx context.Context) (HealthStatus, error) {
	var out HealthStatus
	err := c.do(ctx, http.MethodGet, "/api/health", nil, "", &out)
	return out, err
}

type errorBody struct {
	Message string `json:"message"`
}

// do sends one logical call, retrying transient failures. 4xx answers are
// final, except 409 on a keyed create whose first attempt is still running.
func (c *Client) do(ctx context.Context, method, path string, body []byte, idempotencyKey string, out any) error {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInterval

	op := func() (struct{}, error) {
		var reader io.Reader
		if body != nil {
			reader = bytes.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return struct{}{}, backoff.Permanent(err)
		}
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		if idempotencyKey != "" {
			req.Header.Set(idempotencyHeader, idempotencyKey)
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return struct{}{}, backoff.Permanent(ctx.Err())
			}
			return struct{}{}, err
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= http.StatusInternalServerError:
			return struct{}{}, fmt.Errorf("server error %d", resp.StatusCode)
		case resp.StatusCode == http.StatusNotFound:
			return struct{}{}, backoff.Permanent(ErrNotFound)
		case resp.StatusCode == http.StatusConflict && idempotencyKey != "":
			return struct{}{}, &APIError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
		case resp.StatusCode >= http.StatusBadRequest:
			return struct{}{}, backoff.Permanent(&APIError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)})
		}

		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return struct{}{}, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return struct{}{}, backoff.Permanent(fmt.Errorf("%w: %s %s: %v", ErrBadResponse, method, path, err))
		}
		return struct{}{}, nil
	}

	_, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(c.maxAttempts),
	)
	if err == nil {
		return nil
	}

	var apiErr *APIError
	switch {
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrBadResponse), errors.As(err, &apiErr):
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	}
	return fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, path, err)
}

func readMessage(r io.Reader) string {
	var eb errorBody
	if err := json.NewDecoder(r).Decode(&eb); err != nil || strings.TrimSpace(eb.Message) == "" {
		return "request failed"
	}
	return eb.Message
}
