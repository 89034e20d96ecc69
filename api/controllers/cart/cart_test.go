package cart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tetstore/guestcart-backend/api/middleware"
	cartsvc "github.com/tetstore/guestcart-backend/internal/cart"
	"github.com/tetstore/guestcart-backend/internal/cartstore"
	"github.com/tetstore/guestcart-backend/internal/pricing"
)

type stubOracle struct {
	subtotals map[float64]float64
}

func (s *stubOracle) QuoteSubtotal(ctx context.Context, unitPrice float64, quantity int) (float64, error) {
	if v, ok := s.subtotals[unitPrice]; ok {
		return v, nil
	}
	return unitPrice * float64(quantity), nil
}

func newTestEngine(t *testing.T, oracle pricing.Oracle) *cartsvc.Engine {
	t.Helper()
	if oracle == nil {
		oracle = &stubOracle{}
	}
	calc, err := pricing.NewCalculator(oracle, pricing.StaticDiscount(decimal.NewFromInt(5)), nil, nil)
	if err != nil {
		t.Fatalf("NewCalculator failed: %v", err)
	}
	engine, err := cartsvc.NewEngine(cartstore.NewMemoryStore(), calc, nil)
	if err != nil {
		t.Fatalf("NewEngine failed: %v", err)
	}
	return engine
}

func newRouter(engine *cartsvc.Engine) http.Handler {
	r := chi.NewRouter()
	r.Route("/guest-cart", func(r chi.Router) {
		r.Use(middleware.Session(nil))
		r.Get("/", Fetch(engine, nil))
		r.Delete("/", Clear(engine, nil))
		r.Get("/summary", SummaryFetch(engine, nil))
		r.Post("/items", ItemUpsert(engine, nil))
		r.Patch("/items/{productID}", ItemSetQuantity(engine, nil))
		r.Delete("/items/{productID}", ItemRemove(engine, nil))
	})
	return r
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(middleware.SessionHeader, "sess-1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeCart(t *testing.T, rec *httptest.ResponseRecorder) CartResponse {
	t.Helper()
	var envelope struct {
		Data CartResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid cart response: %v body=%s", err, rec.Body.String())
	}
	return envelope.Data
}

func TestItemUpsertAddsLine(t *testing.T) {
	t.Parallel()

	handler := newRouter(newTestEngine(t, nil))

	rec := doRequest(t, handler, http.MethodPost, "/guest-cart/items", `{
		"id": 11,
		"price": "100",
		"quantity": 2,
		"product_name_en": "Shirt"
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	cart := decodeCart(t, rec)
	if cart.ItemCount != 1 || len(cart.Items) != 1 {
		t.Fatalf("expected one line, got %+v", cart)
	}
	if cart.Items[0].ID != 11 || cart.Items[0].Quantity != 2 {
		t.Fatalf("unexpected line %+v", cart.Items[0])
	}
	if cart.Summary.ItemCount != 2 {
		t.Fatalf("expected summary item count 2, got %d", cart.Summary.ItemCount)
	}
}

func TestItemUpsertSameProductUpdatesInPlace(t *testing.T) {
	t.Parallel()

	handler := newRouter(newTestEngine(t, nil))

	doRequest(t, handler, http.MethodPost, "/guest-cart/items", `{"id": 11, "price": "100", "quantity": 1}`)
	rec := doRequest(t, handler, http.MethodPost, "/guest-cart/items", `{"id": 11, "price": "100", "quantity": 3}`)

	cart := decodeCart(t, rec)
	if len(cart.Items) != 1 {
		t.Fatalf("expected a single line for repeated product, got %d", len(cart.Items))
	}
	if cart.Items[0].Quantity != 3 {
		t.Fatalf("expected quantity 3, got %d", cart.Items[0].Quantity)
	}
}

func TestItemUpsertRejectsNegativePrice(t *testing.T) {
	t.Parallel()

	handler := newRouter(newTestEngine(t, nil))

	rec := doRequest(t, handler, http.MethodPost, "/guest-cart/items", `{"id": 11, "price": "-5", "quantity": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestFetchRecomputesLineTotals(t *testing.T) {
	t.Parallel()

	oracle := &stubOracle{subtotals: map[float64]float64{100: 195}}
	handler := newRouter(newTestEngine(t, oracle))

	doRequest(t, handler, http.MethodPost, "/guest-cart/items", `{"id": 11, "price": "100", "quantity": 2}`)
	rec := doRequest(t, handler, http.MethodGet, "/guest-cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cart := decodeCart(t, rec)
	if cart.Items[0].LineTotal == nil || !cart.Items[0].LineTotal.Equal(decimal.NewFromInt(195)) {
		t.Fatalf("expected line total 195, got %+v", cart.Items[0].LineTotal)
	}
	if !cart.Summary.Subtotal.Equal(decimal.NewFromInt(195)) {
		t.Fatalf("expected subtotal 195, got %s", cart.Summary.Subtotal)
	}
	if !cart.Summary.Total.Equal(cart.Summary.Subtotal) {
		t.Fatalf("total must equal subtotal, got %s vs %s", cart.Summary.Total, cart.Summary.Subtotal)
	}
}

func TestItemSetQuantityZeroRemovesLine(t *testing.T) {
	t.Parallel()

	handler := newRouter(newTestEngine(t, nil))

	doRequest(t, handler, http.MethodPost, "/guest-cart/items", `{"id": 11, "price": "100", "quantity": 2}`)
	rec := doRequest(t, handler, http.MethodPatch, "/guest-cart/items/11", `{"quantity": 0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	cart := decodeCart(t, rec)
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", cart.Items)
	}
	if !cart.Summary.Subtotal.IsZero() || cart.Summary.ItemCount != 0 {
		t.Fatalf("expected zero summary, got %+v", cart.Summary)
	}
}

func TestItemSetQuantityUnknownProduct(t *testing.T) {
	t.Parallel()

	handler := newRouter(newTestEngine(t, nil))

	rec := doRequest(t, handler, http.MethodPatch, "/guest-cart/items/99", `{"quantity": 2}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestItemSetQuantityInvalidID(t *testing.T) {
	t.Parallel()

	handler := newRouter(newTestEngine(t, nil))

	rec := doRequest(t, handler, http.MethodPatch, "/guest-cart/items/abc", `{"quantity": 2}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	t.Parallel()

	handler := newRouter(newTestEngine(t, nil))

	doRequest(t, handler, http.MethodPost, "/guest-cart/items", `{"id": 11, "price": "100", "quantity": 2}`)
	rec := doRequest(t, handler, http.MethodDelete, "/guest-cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	cart := decodeCart(t, rec)
	if len(cart.Items) != 0 || cart.Summary.ItemCount != 0 {
		t.Fatalf("expected cleared cart, got %+v", cart)
	}

	rec = doRequest(t, handler, http.MethodGet, "/guest-cart", "")
	cart = decodeCart(t, rec)
	if len(cart.Items) != 0 {
		t.Fatalf("cleared cart must stay empty, got %+v", cart.Items)
	}
}

func TestSummaryFetch(t *testing.T) {
	t.Parallel()

	handler := newRouter(newTestEngine(t, nil))

	doRequest(t, handler, http.MethodPost, "/guest-cart/items", `{"id": 11, "price": "100", "quantity": 2}`)
	doRequest(t, handler, http.MethodPost, "/guest-cart/items", `{"id": 12, "price": "50", "quantity": 1}`)

	rec := doRequest(t, handler, http.MethodGet, "/guest-cart/summary", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data cartsvc.Summary `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("invalid summary response: %v", err)
	}
	if envelope.Data.ItemCount != 3 {
		t.Fatalf("expected item count 3, got %d", envelope.Data.ItemCount)
	}
}

func TestRequestsWithoutSessionRejected(t *testing.T) {
	t.Parallel()

	handler := newRouter(newTestEngine(t, nil))

	req := httptest.NewRequest(http.MethodGet, "/guest-cart", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without session header, got %d", rec.Code)
	}
}
