package auth

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// StoredToken is the shape persisted under the session's auth-token key after
// a successful guest checkout.
type StoredToken struct {
	Token string `json:"token"`
}

// TokenExpiry reads the exp claim from an access token without verifying the
// signature. The token is minted and verified upstream; this service only
// needs the expiry to bound how long it keeps the token around.
func TokenExpiry(tokenString string, now time.Time) (time.Time, error) {
	trimmed := strings.TrimSpace(tokenString)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("token is required")
	}

	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(trimmed, claims); err != nil {
		return time.Time{}, fmt.Errorf("parsing token: %w", err)
	}

	if claims.ExpiresAt == nil {
		return time.Time{}, fmt.Errorf("token has no expiry")
	}
	expiry := claims.ExpiresAt.Time
	if !expiry.After(now) {
		return time.Time{}, fmt.Errorf("token already expired at %s", expiry.Format(time.RFC3339))
	}
	return expiry, nil
}
