package api

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/menden/shop-api/internal/service"
)

// CatalogHandler serves keyword product search.
type CatalogHandler struct {
	catalog *service.Catalog
	log     zerolog.Logger
}

func NewCatalogHandler(catalog *service.Catalog, log zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, log: log}
}

func (h *CatalogHandler) Search(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("keyword")
	if keyword == "" {
		respondError(w, http.StatusBadRequest, "keyword is required")
		return
	}

	products, err := h.catalog.Search(r.Context(), keyword)
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}
