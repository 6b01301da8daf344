// Package repository is the gateway to the document store. Every method
// maps to a single database operation; no transactional wrapping spans
// multiple calls.
package repository

import (
	"context"
	"errors"

	"github.com/menden/shop-api/internal/domain"
)

var (
	// ErrNotFound is returned when no document matches the identifier or
	// filter.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID is returned when an identifier is not a valid object id.
	ErrInvalidID = errors.New("invalid document id")
	// ErrUnavailable is returned when the store is refusing calls, e.g.
	// because the circuit breaker is open.
	ErrUnavailable = errors.New("document store unavailable")
)

// Documents exposes one collection of loosely typed documents.
// Consumers define this interface, not the MongoDB implementation.
type Documents interface {
	// All returns every document, in the collection's configured order.
	All(ctx context.Context) ([]domain.Document, error)
	// Get returns the document with the given id.
	Get(ctx context.Context, id string) (domain.Document, error)
	// FindByField returns all documents whose field equals value exactly.
	FindByField(ctx context.Context, field, value string) ([]domain.Document, error)
	// FindOneByField returns the first document whose field equals value.
	FindOneByField(ctx context.Context, field, value string) (domain.Document, error)
	// Search returns documents whose field contains keyword,
	// case-insensitively.
	Search(ctx context.Context, field, keyword string) ([]domain.Document, error)
	// Insert stores the document, assigning an id when absent, and
	// returns it with the id set.
	Insert(ctx context.Context, doc domain.Document) (domain.Document, error)
	// Update sets the given fields on the document with the given id and
	// returns the post-update document.
	Update(ctx context.Context, id string, fields domain.Document) (domain.Document, error)
	// UpdateByField sets the given fields on all documents whose field
	// equals value.
	UpdateByField(ctx context.Context, field, value string, fields domain.Document) error
	// Delete removes the document with the given id and returns it as it
	// existed immediately before deletion.
	Delete(ctx context.Context, id string) (domain.Document, error)
}
