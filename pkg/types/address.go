package types

// Address is the delivery address collected at guest checkout. Phone numbers
// follow the storefront's local format (05 followed by eight digits).
type Address struct {
	Name       string `json:"name" validate:"required"`
	Phone      string `json:"phone" validate:"required,storefront_phone"`
	Email      string `json:"email" validate:"required,email"`
	LocationID string `json:"location_id" validate:"required"`
	Line1      string `json:"line1,omitempty"`
	City       string `json:"city,omitempty"`
	Notes      string `json:"notes,omitempty"`
}
