package cartstore

import "strings"

const keyNamespace = "tet:cart"

// Leaf key names mirror the storefront's client-side storage keys.
const (
	linesLeaf     = "orderDetails"
	summaryLeaf   = "order-summary"
	checkoutLeaf  = "checkout-data"
	authTokenLeaf = "auth_token"
)

// LinesKey addresses the session's cart line list.
func LinesKey(sessionID string) string {
	return buildKey(sessionID, linesLeaf)
}

// SummaryKey addresses the session's order summary.
func SummaryKey(sessionID string) string {
	return buildKey(sessionID, summaryLeaf)
}

// CheckoutKey addresses the session's staged checkout blob.
func CheckoutKey(sessionID string) string {
	return buildKey(sessionID, checkoutLeaf)
}

// AuthTokenKey addresses the session's post-checkout access token.
func AuthTokenKey(sessionID string) string {
	return buildKey(sessionID, authTokenLeaf)
}

func buildKey(parts ...string) string {
	clean := []string{keyNamespace}
	for _, part := range parts {
		if part == "" {
			continue
		}
		clean = append(clean, strings.TrimSpace(part))
	}
	return strings.Join(clean, ":")
}
