package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/menden/shop-api/internal/domain"
	"github.com/menden/shop-api/internal/repository"
)

// Resource serves the CRUD surface of one collection. Every handler is a
// single database call followed by a serialized result; the pattern
// repeats per resource with only the routes and updatable fields varying.
type Resource struct {
	docs repository.Documents
	log  zerolog.Logger
}

func NewResource(docs repository.Documents, log zerolog.Logger) *Resource {
	return &Resource{docs: docs, log: log}
}

func (h *Resource) List(w http.ResponseWriter, r *http.Request) {
	docs, err := h.docs.All(r.Context())
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, docs)
}

func (h *Resource) GetByID(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}

// GetByField serves single-document lookups by a secondary field, e.g.
// an account by phone number.
func (h *Resource) GetByField(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.docs.FindOneByField(r.Context(), field, chi.URLParam(r, "value"))
		if err != nil {
			respondFailure(h.log, w, err)
			return
		}
		respondJSON(w, http.StatusOK, doc)
	}
}

// ListByField serves filtered listings by exact match on a secondary
// field, e.g. products by category.
func (h *Resource) ListByField(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := h.docs.FindByField(r.Context(), field, chi.URLParam(r, "value"))
		if err != nil {
			respondFailure(h.log, w, err)
			return
		}
		respondJSON(w, http.StatusOK, docs)
	}
}

// SearchByField serves case-insensitive substring lookups on a field,
// e.g. categories by name.
func (h *Resource) SearchByField(field string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		docs, err := h.docs.Search(r.Context(), field, chi.URLParam(r, "value"))
		if err != nil {
			respondFailure(h.log, w, err)
			return
		}
		respondJSON(w, http.StatusOK, docs)
	}
}

// Create inserts the request body as a new document and echoes it back
// with its assigned id.
func (h *Resource) Create(w http.ResponseWriter, r *http.Request) {
	var doc domain.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	inserted, err := h.docs.Insert(r.Context(), doc)
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, inserted)
}

// Update sets the named fields from a body that must carry the document
// id, and returns the post-update record.
func (h *Resource) Update(updatable ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body domain.Document
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			respondError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		id, _ := body["_id"].(string)
		if id == "" {
			respondError(w, http.StatusBadRequest, "document id is required")
			return
		}

		fields := make(domain.Document, len(updatable))
		for _, name := range updatable {
			if v, ok := body[name]; ok {
				fields[name] = v
			}
		}
		if len(fields) == 0 {
			respondError(w, http.StatusBadRequest, "no updatable fields in body")
			return
		}

		doc, err := h.docs.Update(r.Context(), id, fields)
		if err != nil {
			respondFailure(h.log, w, err)
			return
		}
		respondJSON(w, http.StatusOK, doc)
	}
}

// SetFieldByID writes a fixed value into one field of the document named
// by the path, e.g. confirming an order's status.
func (h *Resource) SetFieldByID(field, value string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := h.docs.Update(r.Context(), chi.URLParam(r, "id"), domain.Document{field: value})
		if err != nil {
			respondFailure(h.log, w, err)
			return
		}
		respondJSON(w, http.StatusOK, doc)
	}
}

// Delete removes the document and returns it as it existed immediately
// before deletion.
func (h *Resource) Delete(w http.ResponseWriter, r *http.Request) {
	doc, err := h.docs.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondFailure(h.log, w, err)
		return
	}
	respondJSON(w, http.StatusOK, doc)
}
