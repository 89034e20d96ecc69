package controllers

import (
	"net/http"

	"github.com/tetstore/guestcart-backend/api/middleware"
	"github.com/tetstore/guestcart-backend/api/responses"
	"github.com/tetstore/guestcart-backend/api/validators"
	checkoutsvc "github.com/tetstore/guestcart-backend/internal/checkout"
	pkgerrors "github.com/tetstore/guestcart-backend/pkg/errors"
	"github.com/tetstore/guestcart-backend/pkg/logger"
	"github.com/tetstore/guestcart-backend/pkg/types"
)

// Checkout places the guest order: the address from the body plus the
// session's stored cart and summary.
func Checkout(svc *checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		sessionID := middleware.SessionIDFromContext(r.Context())
		if sessionID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "missing guest session"))
			return
		}

		var address types.Address
		if err := validators.DecodeJSONBody(r, &address); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), sessionID, address)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
