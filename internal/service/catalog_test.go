package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/menden/shop-api/internal/domain"
	"github.com/menden/shop-api/internal/repository"
)

type searchableDocuments struct {
	mockDocuments
	products []domain.Document
}

func (s *searchableDocuments) Search(_ context.Context, field, keyword string) ([]domain.Document, error) {
	var out []domain.Document
	for _, p := range s.products {
		name, _ := p[field].(string)
		if strings.Contains(strings.ToLower(name), strings.ToLower(keyword)) {
			out = append(out, p)
		}
	}
	return out, nil
}

var _ repository.Documents = (*searchableDocuments)(nil)

func TestCatalogSearch(t *testing.T) {
	docs := &searchableDocuments{products: []domain.Document{
		{"Name": "Facial Cleanser"},
		{"Name": "CLEANSING Oil"},
		{"Name": "Sunscreen"},
	}}
	catalog := NewCatalog(docs)

	found, err := catalog.Search(context.Background(), "clean")
	require.NoError(t, err)
	assert.Len(t, found, 2)

	none, err := catalog.Search(context.Background(), "lipstick")
	require.NoError(t, err)
	assert.Empty(t, none)
}
