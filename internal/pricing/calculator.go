package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/tetstore/guestcart-backend/pkg/logger"
	"github.com/tetstore/guestcart-backend/pkg/metrics"
)

var hundred = decimal.NewFromInt(100)

// DiscountSource supplies the current second-unit discount percent.
type DiscountSource interface {
	Percent(ctx context.Context) decimal.Decimal
}

// StaticDiscount is a fixed-percent DiscountSource.
type StaticDiscount decimal.Decimal

func (s StaticDiscount) Percent(context.Context) decimal.Decimal {
	return decimal.Decimal(s)
}

// Calculator computes line totals, preferring the backend oracle and falling
// back to the local second-unit-discount formula when the oracle is
// unreachable or returns an invalid value. Oracle failures never escape it.
type Calculator struct {
	oracle   Oracle
	discount DiscountSource
	logg     *logger.Logger
	metrics  *metrics.PricingMetrics
}

// NewCalculator builds a calculator backed by the provided oracle.
func NewCalculator(oracle Oracle, discount DiscountSource, logg *logger.Logger, m *metrics.PricingMetrics) (*Calculator, error) {
	if oracle == nil {
		return nil, fmt.Errorf("pricing oracle required")
	}
	if discount == nil {
		discount = StaticDiscount(decimal.Zero)
	}
	return &Calculator{
		oracle:   oracle,
		discount: discount,
		logg:     logg,
		metrics:  m,
	}, nil
}

// LocalLineTotal is the deterministic fallback formula: the first and
// third-and-beyond units are full price, exactly the second unit carries the
// discount. It is an approximation of the backend rule, never the source of
// truth while the oracle is reachable.
func LocalLineTotal(unitPrice decimal.Decimal, quantity int, discountPercent decimal.Decimal) decimal.Decimal {
	switch {
	case quantity == 1:
		return unitPrice
	case quantity >= 2:
		discounted := unitPrice.Mul(hundred.Sub(discountPercent)).Div(hundred)
		rest := unitPrice.Mul(decimal.NewFromInt(int64(quantity - 2)))
		return unitPrice.Add(discounted).Add(rest)
	default:
		return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	}
}

// LineTotal computes one line's total, oracle-first. Quantity one skips the
// remote call entirely: the total is the unit price and the backend has a
// known quirk with quantity-1 requests.
func (c *Calculator) LineTotal(ctx context.Context, unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	if quantity == 1 {
		c.metrics.IncOutcome(metrics.OutcomeShortCircuit)
		return unitPrice
	}
	if quantity < 1 {
		return LocalLineTotal(unitPrice, quantity, c.discount.Percent(ctx))
	}

	subtotal, err := c.oracle.QuoteSubtotal(ctx, unitPrice.InexactFloat64(), quantity)
	if err != nil {
		if c.logg != nil {
			entry := c.logg.WithFields(ctx, map[string]any{
				"quantity": quantity,
				"price":    unitPrice.String(),
			})
			c.logg.Warn(entry, fmt.Sprintf("pricing oracle unavailable, using local formula: %v", err))
		}
		c.metrics.IncOutcome(metrics.OutcomeFallback)
		return LocalLineTotal(unitPrice, quantity, c.discount.Percent(ctx))
	}

	if !ValidSubtotal(subtotal) {
		if c.logg != nil {
			entry := c.logg.WithFields(ctx, map[string]any{
				"quantity": quantity,
				"price":    unitPrice.String(),
				"subtotal": fmt.Sprint(subtotal),
			})
			c.logg.Warn(entry, "pricing oracle returned invalid subtotal, using local formula")
		}
		c.metrics.IncOutcome(metrics.OutcomeInvalid)
		return LocalLineTotal(unitPrice, quantity, c.discount.Percent(ctx))
	}

	c.metrics.IncOutcome(metrics.OutcomeOracle)
	return decimal.NewFromFloat(subtotal)
}
