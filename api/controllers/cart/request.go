package cart

import (
	"github.com/shopspring/decimal"

	cartsvc "github.com/tetstore/guestcart-backend/internal/cart"
)

// UpsertItemRequest mirrors the storefront's add-to-cart payload. The price
// is a snapshot taken when the product page was rendered; it arrives as a
// JSON number or string.
type UpsertItemRequest struct {
	ProductID int64           `json:"id" validate:"required,gt=0"`
	Price     decimal.Decimal `json:"price" validate:"required"`
	Quantity  int             `json:"quantity"`
	ChoiceID  *string         `json:"choice_id"`

	NameAr   string `json:"product_name_ar"`
	NameEn   string `json:"product_name_en"`
	ImageURL string `json:"image_url"`
	Slug     string `json:"slug"`
}

func (r UpsertItemRequest) snapshot() cartsvc.ProductSnapshot {
	return cartsvc.ProductSnapshot{
		ID:        r.ProductID,
		UnitPrice: r.Price,
		NameAr:    r.NameAr,
		NameEn:    r.NameEn,
		ImageURL:  r.ImageURL,
		Slug:      r.Slug,
	}
}

// SetQuantityRequest updates one line's quantity; zero or negative removes
// the line.
type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}
