package middleware

import (
	"net/http"
	"strings"

	"github.com/tetstore/guestcart-backend/api/responses"
	pkgerrors "github.com/tetstore/guestcart-backend/pkg/errors"
	"github.com/tetstore/guestcart-backend/pkg/logger"
)

// SessionHeader carries the opaque guest session identifier on every
// cart-scoped request.
const SessionHeader = "X-Guest-Session"

// Session requires the guest session header and injects its value into the
// request context and log entries.
func Session(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := strings.TrimSpace(r.Header.Get(SessionHeader))
			if sessionID == "" {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "missing "+SessionHeader+" header"))
				return
			}

			ctx := WithSessionID(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
