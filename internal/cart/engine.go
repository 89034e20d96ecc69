package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/tetstore/guestcart-backend/internal/cartstore"
	"github.com/tetstore/guestcart-backend/internal/pricing"
	pkgerrors "github.com/tetstore/guestcart-backend/pkg/errors"
	"github.com/tetstore/guestcart-backend/pkg/logger"
)

var maxCachedLineTotal = decimal.NewFromInt(pricing.MaxLineTotal)

// CountObserver is notified with the number of distinct lines after every
// cart mutation (drives the storefront's cart badge).
type CountObserver func(sessionID string, count int)

// Engine owns the guest cart lifecycle for a session: line mutations, line
// total recomputation through the pricing calculator, summary aggregation,
// and persistence. The store is the durable copy; every operation is a
// read-modify-write against it (single logical writer per session).
type Engine struct {
	store   cartstore.Store
	calc    *pricing.Calculator
	logg    *logger.Logger
	onCount CountObserver
	pending *PendingOps
}

// EngineOption configures optional engine behavior.
type EngineOption func(*Engine)

// WithCountObserver registers the cart badge observer.
func WithCountObserver(fn CountObserver) EngineOption {
	return func(e *Engine) {
		e.onCount = fn
	}
}

// NewEngine builds a guest cart engine backed by the provided stack.
func NewEngine(store cartstore.Store, calc *pricing.Calculator, logg *logger.Logger, opts ...EngineOption) (*Engine, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if calc == nil {
		return nil, fmt.Errorf("pricing calculator required")
	}
	engine := &Engine{
		store:   store,
		calc:    calc,
		logg:    logg,
		pending: NewPendingOps(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(engine)
		}
	}
	return engine, nil
}

// Pending exposes the per-session in-flight operation tracker.
func (e *Engine) Pending() *PendingOps {
	return e.pending
}

// Load reads the session's cart lines. A missing or malformed value yields
// an empty cart; quantities are normalized to at least one.
func (e *Engine) Load(ctx context.Context, sessionID string) ([]Line, error) {
	raw, err := e.store.Get(ctx, cartstore.LinesKey(sessionID))
	if err != nil {
		if errors.Is(err, cartstore.ErrNotFound) {
			return []Line{}, nil
		}
		return nil, fmt.Errorf("loading cart: %w", err)
	}

	var lines []Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		if e.logg != nil {
			e.logg.Warn(ctx, "stored cart is malformed, resetting to empty: "+err.Error())
		}
		return []Line{}, nil
	}

	for i := range lines {
		if lines[i].Quantity < 1 {
			lines[i].Quantity = 1
		}
	}
	return lines, nil
}

// AddOrUpdate inserts a new line or, when a line with the same product id
// exists, updates its quantity, choice, and price snapshot in place. The
// line total is left uncomputed until the next recompute pass.
func (e *Engine) AddOrUpdate(ctx context.Context, sessionID string, snapshot ProductSnapshot, quantity int, choiceID *string) ([]Line, error) {
	if quantity < 1 {
		quantity = 1
	}

	e.pending.Begin(sessionID, snapshot.ID)
	defer e.pending.End(sessionID, snapshot.ID)

	lines, err := e.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	updated := false
	for i := range lines {
		if lines[i].ID != snapshot.ID {
			continue
		}
		lines[i].Quantity = quantity
		lines[i].ChoiceID = choiceID
		lines[i].UnitPrice = snapshot.UnitPrice
		lines[i].LineTotal = nil
		updated = true
		break
	}
	if !updated {
		lines = append(lines, Line{
			ID:        snapshot.ID,
			ChoiceID:  choiceID,
			Quantity:  quantity,
			UnitPrice: snapshot.UnitPrice,
			NameAr:    snapshot.NameAr,
			NameEn:    snapshot.NameEn,
			ImageURL:  snapshot.ImageURL,
			Slug:      snapshot.Slug,
		})
	}

	e.saveLines(ctx, sessionID, lines)
	if _, err := e.RecomputeSummary(ctx, sessionID, lines); err != nil {
		return nil, err
	}
	e.notifyCount(sessionID, len(lines))
	return lines, nil
}

// SetQuantity updates one line's quantity and recomputes its total through
// the calculator. A quantity of zero or less removes the line.
func (e *Engine) SetQuantity(ctx context.Context, sessionID string, productID int64, quantity int) ([]Line, error) {
	if quantity <= 0 {
		return e.Remove(ctx, sessionID, productID)
	}

	e.pending.Begin(sessionID, productID)
	defer e.pending.End(sessionID, productID)

	lines, err := e.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range lines {
		if lines[i].ID != productID {
			continue
		}
		total := e.calc.LineTotal(ctx, lines[i].UnitPrice, quantity)
		lines[i].Quantity = quantity
		lines[i].LineTotal = &total
		found = true
		break
	}
	if !found {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("product %d not in cart", productID))
	}

	e.saveLines(ctx, sessionID, lines)
	if _, err := e.RecomputeSummary(ctx, sessionID, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Remove drops the line with the given product id.
func (e *Engine) Remove(ctx context.Context, sessionID string, productID int64) ([]Line, error) {
	e.pending.Begin(sessionID, productID)
	defer e.pending.End(sessionID, productID)

	lines, err := e.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	filtered := lines[:0]
	for _, line := range lines {
		if line.ID != productID {
			filtered = append(filtered, line)
		}
	}

	e.saveLines(ctx, sessionID, filtered)
	if _, err := e.RecomputeSummary(ctx, sessionID, filtered); err != nil {
		return nil, err
	}
	e.notifyCount(sessionID, len(filtered))
	return filtered, nil
}

// Clear empties the cart and persists a zero summary.
func (e *Engine) Clear(ctx context.Context, sessionID string) error {
	e.saveLines(ctx, sessionID, []Line{})
	e.saveSummary(ctx, sessionID, ZeroSummary())
	e.notifyCount(sessionID, 0)
	return nil
}

// RecomputeSummary rebuilds the order summary in full from the given lines
// and persists it under its own key. A cached line total is used when
// present and under the sanity ceiling; otherwise price × quantity.
func (e *Engine) RecomputeSummary(ctx context.Context, sessionID string, lines []Line) (Summary, error) {
	subtotal := decimal.Zero
	itemCount := 0

	for _, line := range lines {
		quantity := line.Quantity
		if quantity < 1 {
			quantity = 1
		}

		if line.LineTotal != nil && line.LineTotal.LessThan(maxCachedLineTotal) {
			subtotal = subtotal.Add(*line.LineTotal)
		} else {
			if line.LineTotal != nil && e.logg != nil {
				entry := e.logg.WithProductID(ctx, line.ID)
				e.logg.Warn(entry, "cached line total out of range, using price*quantity")
			}
			subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(quantity))))
		}
		itemCount += quantity
	}

	summary := Summary{Subtotal: subtotal, Total: subtotal, ItemCount: itemCount}
	e.saveSummary(ctx, sessionID, summary)
	return summary, nil
}

// RecomputeAllLines recomputes every line's total with one concurrent
// calculator call per line, then rebuilds the summary once all calls have
// settled. Each line falls back independently; one line's oracle failure
// never blocks or invalidates the others.
func (e *Engine) RecomputeAllLines(ctx context.Context, sessionID string) ([]Line, Summary, error) {
	lines, err := e.Load(ctx, sessionID)
	if err != nil {
		return nil, Summary{}, err
	}
	if len(lines) == 0 {
		summary, err := e.RecomputeSummary(ctx, sessionID, lines)
		return lines, summary, err
	}

	totals := make([]decimal.Decimal, len(lines))
	var wg sync.WaitGroup
	for i := range lines {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			totals[i] = e.calc.LineTotal(ctx, lines[i].UnitPrice, lines[i].Quantity)
		}(i)
	}
	wg.Wait()

	for i := range lines {
		total := totals[i]
		lines[i].LineTotal = &total
	}

	e.saveLines(ctx, sessionID, lines)
	summary, err := e.RecomputeSummary(ctx, sessionID, lines)
	if err != nil {
		return nil, Summary{}, err
	}
	e.notifyCount(sessionID, len(lines))
	return lines, summary, nil
}

func (e *Engine) saveLines(ctx context.Context, sessionID string, lines []Line) {
	payload, err := json.Marshal(lines)
	if err != nil {
		e.logWriteFailure(ctx, sessionID, "encoding cart lines", err)
		return
	}
	if err := e.store.Set(ctx, cartstore.LinesKey(sessionID), string(payload)); err != nil {
		e.logWriteFailure(ctx, sessionID, "persisting cart lines", err)
	}
}

func (e *Engine) saveSummary(ctx context.Context, sessionID string, summary Summary) {
	payload, err := json.Marshal(summary)
	if err != nil {
		e.logWriteFailure(ctx, sessionID, "encoding order summary", err)
		return
	}
	if err := e.store.Set(ctx, cartstore.SummaryKey(sessionID), string(payload)); err != nil {
		e.logWriteFailure(ctx, sessionID, "persisting order summary", err)
	}
}

// Persistence failures are logged, never fatal: the caller still gets the
// computed state and the next successful mutation rewrites the keys.
func (e *Engine) logWriteFailure(ctx context.Context, sessionID, step string, err error) {
	if e.logg == nil {
		return
	}
	entry := e.logg.WithSessionID(ctx, sessionID)
	e.logg.Error(entry, step+" failed", err)
}

func (e *Engine) notifyCount(sessionID string, count int) {
	if e.onCount != nil {
		e.onCount(sessionID, count)
	}
}
