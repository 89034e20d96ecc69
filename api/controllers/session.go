package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tetstore/guestcart-backend/api/responses"
)

// MintSession issues a fresh guest session identifier. The storefront stores
// it and sends it back on every cart request.
func MintSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccessStatus(w, http.StatusCreated, map[string]string{
			"session_id": uuid.NewString(),
		})
	}
}
