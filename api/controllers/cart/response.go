package cart

import (
	cartsvc "github.com/tetstore/guestcart-backend/internal/cart"
)

// CartResponse is the cart payload returned by every mutating handler.
type CartResponse struct {
	Items     []cartsvc.Line  `json:"items"`
	Summary   cartsvc.Summary `json:"summary"`
	ItemCount int             `json:"item_count"`
}

func newCartResponse(lines []cartsvc.Line, summary cartsvc.Summary) CartResponse {
	if lines == nil {
		lines = []cartsvc.Line{}
	}
	return CartResponse{
		Items:     lines,
		Summary:   summary,
		ItemCount: len(lines),
	}
}
