package pricing

import (
	"context"
	"math"
)

// MaxLineTotal is the sanity ceiling applied to oracle subtotals; anything at
// or above it is treated as a corrupt backend response.
const MaxLineTotal = 1_000_000

// Oracle computes authoritative discounted subtotals on the backend. The
// subtotal is surfaced as a raw float so callers can guard against NaN and
// infinity before any money math happens.
type Oracle interface {
	QuoteSubtotal(ctx context.Context, unitPrice float64, quantity int) (float64, error)
}

// ValidSubtotal reports whether an oracle subtotal is usable: positive,
// finite, not NaN, and below the sanity ceiling.
func ValidSubtotal(subtotal float64) bool {
	if math.IsNaN(subtotal) || math.IsInf(subtotal, 0) {
		return false
	}
	if subtotal <= 0 {
		return false
	}
	return subtotal < MaxLineTotal
}
