package cart

import (
	"github.com/shopspring/decimal"
)

// Line is one product (plus optional variant choice) entry in a guest cart.
// JSON field names mirror the storefront's stored cart shape; prices arrive
// as either JSON numbers or strings and decimal handles both.
type Line struct {
	ID        int64            `json:"id"`
	ChoiceID  *string          `json:"choice_id,omitempty"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"price"`
	LineTotal *decimal.Decimal `json:"lineTotal,omitempty"`

	// Display-only fields carried for rendering; no invariants.
	NameAr   string `json:"product_name_ar,omitempty"`
	NameEn   string `json:"product_name_en,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Slug     string `json:"slug,omitempty"`
}

// Summary is the aggregate derived from all cart lines. Total equals
// Subtotal for guest carts (no shipping or tax at this stage).
type Summary struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// ZeroSummary is the summary of an empty cart.
func ZeroSummary() Summary {
	return Summary{Subtotal: decimal.Zero, Total: decimal.Zero, ItemCount: 0}
}

// ProductSnapshot captures the product fields recorded when a guest adds an
// item; the unit price is a snapshot taken at add time.
type ProductSnapshot struct {
	ID        int64
	UnitPrice decimal.Decimal
	NameAr    string
	NameEn    string
	ImageURL  string
	Slug      string
}
