package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/menden/shop-api/internal/cart"
	"github.com/menden/shop-api/internal/domain"
)

// CartHandler serves the session-scoped cart. The session token comes
// from the request context; the cart never touches the document store.
type CartHandler struct {
	carts *cart.Manager
	log   zerolog.Logger
}

func NewCartHandler(carts *cart.Manager, log zerolog.Logger) *CartHandler {
	return &CartHandler{carts: carts, log: log}
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var item domain.CartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if item.ProductID == "" {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	added, err := h.carts.AddItem(r.Context(), token, item)
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, added)
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing session")
		return
	}

	items, err := h.carts.Items(r.Context(), token)
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

func (h *CartHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing session")
		return
	}

	item, ok, err := h.carts.Item(r.Context(), token, chi.URLParam(r, "id"))
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "not found")
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// SetQuantity overwrites the quantity of one line item and returns the
// cart. A product that is not in the cart leaves it unchanged.
func (h *CartHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing session")
		return
	}

	var body domain.CartItem
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.ProductID == "" {
		respondError(w, http.StatusBadRequest, "product_id is required")
		return
	}

	items, err := h.carts.SetQuantity(r.Context(), token, body.ProductID, body.Quantity)
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// RemoveItem drops a line item and returns the remaining cart. Removing
// an absent product is a no-op.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing session")
		return
	}

	items, err := h.carts.RemoveItem(r.Context(), token, chi.URLParam(r, "id"))
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Visit bumps the session's visit counter.
func (h *CartHandler) Visit(w http.ResponseWriter, r *http.Request) {
	token := sessionToken(r.Context())
	if token == "" {
		respondError(w, http.StatusUnauthorized, "missing session")
		return
	}

	visits, err := h.carts.RecordVisit(r.Context(), token)
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"visits": visits})
}
