package pricing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	pkgerrors "github.com/tetstore/guestcart-backend/pkg/errors"
	"github.com/tetstore/guestcart-backend/pkg/metrics"
)

const (
	guestSummaryPath          = "/orders/guest-summary"
	discountPath              = "/orders/discount"
	responseBodyReadLimit int64 = 4096
)

var errBaseURLRequired = errors.New("pricing base url is required")

// HTTPOracle calls the storefront backend's guest summary endpoint.
type HTTPOracle struct {
	httpClient *http.Client
	baseURL    string
	metrics    *metrics.PricingMetrics
}

// Option configures optional client behavior.
type Option func(*HTTPOracle)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(o *HTTPOracle) {
		if client != nil {
			o.httpClient = client
		}
	}
}

// WithMetrics attaches oracle call metrics.
func WithMetrics(m *metrics.PricingMetrics) Option {
	return func(o *HTTPOracle) {
		o.metrics = m
	}
}

// NewHTTPOracle builds the pricing client for the given backend base URL.
func NewHTTPOracle(baseURL string, timeout time.Duration, opts ...Option) (*HTTPOracle, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	oracle := &HTTPOracle{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(oracle)
		}
	}
	return oracle, nil
}

type quoteRequest struct {
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type quoteResponse struct {
	Subtotal float64 `json:"subtotal"`
}

// QuoteSubtotal posts (price, quantity) and returns the backend subtotal.
// Any non-2xx status or transport failure is an error; no retry is performed.
func (o *HTTPOracle) QuoteSubtotal(ctx context.Context, unitPrice float64, quantity int) (float64, error) {
	body, err := json.Marshal(quoteRequest{Price: unitPrice, Quantity: quantity})
	if err != nil {
		return 0, fmt.Errorf("encoding quote request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+guestSummaryPath, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("building quote request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := o.httpClient.Do(req)
	o.metrics.ObserveOracleLatency("guest-summary", time.Since(start))
	if err != nil {
		return 0, fmt.Errorf("calling pricing oracle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return 0, &pkgerrors.UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var payload quoteResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decoding quote response: %w", err)
	}
	return payload.Subtotal, nil
}

type discountResponse struct {
	Discount float64 `json:"discount"`
}

// FetchDiscount returns the current second-unit discount percent.
func (o *HTTPOracle) FetchDiscount(ctx context.Context) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+discountPath, nil)
	if err != nil {
		return 0, fmt.Errorf("building discount request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("fetching discount: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return 0, &pkgerrors.UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}

	var payload discountResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(&payload); err != nil {
		return 0, fmt.Errorf("decoding discount response: %w", err)
	}
	if payload.Discount < 0 || payload.Discount > 100 {
		return 0, fmt.Errorf("discount %v out of range", payload.Discount)
	}
	return payload.Discount, nil
}
