package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/tetstore/guestcart-backend/api/middleware"
	"github.com/tetstore/guestcart-backend/internal/cart"
	"github.com/tetstore/guestcart-backend/internal/cartstore"
	checkoutsvc "github.com/tetstore/guestcart-backend/internal/checkout"
	pkgerrors "github.com/tetstore/guestcart-backend/pkg/errors"
)

type stubSubmitter struct {
	token string
	err   error
}

func (s *stubSubmitter) Submit(ctx context.Context, payload []byte) (string, json.RawMessage, error) {
	if s.err != nil {
		return "", nil, s.err
	}
	return s.token, json.RawMessage(`{"id":7}`), nil
}

func seedCheckoutCart(t *testing.T, store *cartstore.MemoryStore, sessionID string) {
	t.Helper()
	total := decimal.NewFromInt(195)
	lines := []cart.Line{{ID: 1, Quantity: 2, UnitPrice: decimal.NewFromInt(100), LineTotal: &total}}
	raw, err := json.Marshal(lines)
	if err != nil {
		t.Fatalf("marshal lines: %v", err)
	}
	if err := store.Set(context.Background(), cartstore.LinesKey(sessionID), string(raw)); err != nil {
		t.Fatalf("seed cart: %v", err)
	}
}

func checkoutHandler(t *testing.T, store *cartstore.MemoryStore, submitter checkoutsvc.Submitter) http.Handler {
	t.Helper()
	svc, err := checkoutsvc.NewService(store, submitter, nil)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return middleware.Session(nil)(Checkout(svc, nil))
}

const validAddress = `{
	"name": "Guest",
	"phone": "0512345678",
	"email": "guest@example.com",
	"location_id": "riyadh-1"
}`

func TestCheckoutSuccess(t *testing.T) {
	t.Parallel()

	store := cartstore.NewMemoryStore()
	seedCheckoutCart(t, store, "sess-1")
	handler := checkoutHandler(t, store, &stubSubmitter{token: "jwt-1"})

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(validAddress))
	req.Header.Set(middleware.SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data checkoutsvc.Result `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid response: %v", err)
	}
	if envelope.Data.Token != "jwt-1" {
		t.Fatalf("expected token in response, got %+v", envelope.Data)
	}
}

func TestCheckoutInvalidAddress(t *testing.T) {
	t.Parallel()

	store := cartstore.NewMemoryStore()
	seedCheckoutCart(t, store, "sess-1")
	handler := checkoutHandler(t, store, &stubSubmitter{token: "jwt-1"})

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(`{"name": "Guest", "phone": "12345"}`))
	req.Header.Set(middleware.SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCheckoutUpstreamFailure(t *testing.T) {
	t.Parallel()

	store := cartstore.NewMemoryStore()
	seedCheckoutCart(t, store, "sess-1")
	submitter := &stubSubmitter{err: pkgerrors.New(pkgerrors.CodeDependency, "upstream rejected")}
	handler := checkoutHandler(t, store, submitter)

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(validAddress))
	req.Header.Set(middleware.SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	if _, err := store.Get(context.Background(), cartstore.LinesKey("sess-1")); err != nil {
		t.Fatalf("cart must survive a failed checkout: %v", err)
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	t.Parallel()

	store := cartstore.NewMemoryStore()
	handler := checkoutHandler(t, store, &stubSubmitter{token: "jwt-1"})

	req := httptest.NewRequest(http.MethodPost, "/checkout", strings.NewReader(validAddress))
	req.Header.Set(middleware.SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty cart, got %d", rec.Code)
	}
}
