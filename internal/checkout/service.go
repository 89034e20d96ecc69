package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tetstore/guestcart-backend/internal/cart"
	"github.com/tetstore/guestcart-backend/internal/cartstore"
	"github.com/tetstore/guestcart-backend/pkg/auth"
	pkgerrors "github.com/tetstore/guestcart-backend/pkg/errors"
	"github.com/tetstore/guestcart-backend/pkg/logger"
	"github.com/tetstore/guestcart-backend/pkg/types"
)

// Submitter is the upstream surface used to place a guest checkout.
type Submitter interface {
	Submit(ctx context.Context, payload []byte) (token string, user json.RawMessage, err error)
}

// CheckoutData is the staging blob persisted before submission.
type CheckoutData struct {
	Address types.Address `json:"address"`
	Cart    []cart.Line   `json:"cart"`
	Summary cart.Summary  `json:"summary"`
}

// Result is returned to the storefront after a successful checkout.
type Result struct {
	Token string          `json:"token"`
	User  json.RawMessage `json:"user,omitempty"`
}

// Service implements the guest checkout flow: the guest cart plus a fresh
// address become the order. On success the session's guest keys are
// consumed and the server-side cart is the source of truth from then on;
// there is no field-level merge with any pre-existing account cart.
type Service struct {
	store  cartstore.Store
	client Submitter
	logg   *logger.Logger
	now    func() time.Time
}

// NewService builds the checkout service.
func NewService(store cartstore.Store, client Submitter, logg *logger.Logger) (*Service, error) {
	if store == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if client == nil {
		return nil, fmt.Errorf("checkout client required")
	}
	return &Service{
		store:  store,
		client: client,
		logg:   logg,
		now:    time.Now,
	}, nil
}

// Submit stages the cart, summary, and address under the checkout-data key,
// submits upstream, and on success deletes the three guest cart keys and
// stores the returned access token. On any failure the cart keys are left
// untouched so the guest can retry.
func (s *Service) Submit(ctx context.Context, sessionID string, address types.Address) (*Result, error) {
	lines, err := s.loadLines(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	summary, err := s.loadSummary(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	staged := CheckoutData{Address: address, Cart: lines, Summary: summary}
	payload, err := json.Marshal(staged)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding checkout data")
	}
	if err := s.store.Set(ctx, cartstore.CheckoutKey(sessionID), string(payload)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "staging checkout data")
	}

	token, user, err := s.client.Submit(ctx, payload)
	if err != nil {
		entry := s.logWith(ctx, sessionID)
		if s.logg != nil {
			s.logg.Error(entry, "guest checkout failed, cart preserved", err)
		}
		return nil, err
	}

	s.storeToken(ctx, sessionID, token)

	if err := s.store.Del(ctx,
		cartstore.CheckoutKey(sessionID),
		cartstore.SummaryKey(sessionID),
		cartstore.LinesKey(sessionID),
	); err != nil && s.logg != nil {
		// The order went through; leftover keys expire with the TTL.
		s.logg.Error(s.logWith(ctx, sessionID), "clearing consumed guest cart keys failed", err)
	}

	if s.logg != nil {
		s.logg.Info(s.logWith(ctx, sessionID), "guest checkout confirmed")
	}
	return &Result{Token: token, User: user}, nil
}

func (s *Service) loadLines(ctx context.Context, sessionID string) ([]cart.Line, error) {
	raw, err := s.store.Get(ctx, cartstore.LinesKey(sessionID))
	if err != nil {
		if errors.Is(err, cartstore.ErrNotFound) {
			return []cart.Line{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart for checkout")
	}
	var lines []cart.Line
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return []cart.Line{}, nil
	}
	return lines, nil
}

func (s *Service) loadSummary(ctx context.Context, sessionID string) (cart.Summary, error) {
	raw, err := s.store.Get(ctx, cartstore.SummaryKey(sessionID))
	if err != nil {
		if errors.Is(err, cartstore.ErrNotFound) {
			return cart.ZeroSummary(), nil
		}
		return cart.Summary{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading summary for checkout")
	}
	var summary cart.Summary
	if err := json.Unmarshal([]byte(raw), &summary); err != nil {
		return cart.ZeroSummary(), nil
	}
	return summary, nil
}

// storeToken persists the access token under the session's auth-token key.
// Failures here are logged only; the order already exists upstream.
func (s *Service) storeToken(ctx context.Context, sessionID, token string) {
	payload, err := json.Marshal(auth.StoredToken{Token: token})
	if err != nil {
		return
	}
	if _, err := auth.TokenExpiry(token, s.now()); err != nil && s.logg != nil {
		s.logg.Warn(s.logWith(ctx, sessionID), "checkout token has no readable expiry: "+err.Error())
	}
	if err := s.store.Set(ctx, cartstore.AuthTokenKey(sessionID), string(payload)); err != nil && s.logg != nil {
		s.logg.Error(s.logWith(ctx, sessionID), "storing checkout token failed", err)
	}
}

func (s *Service) logWith(ctx context.Context, sessionID string) context.Context {
	if s.logg == nil {
		return ctx
	}
	return s.logg.WithSessionID(ctx, sessionID)
}
