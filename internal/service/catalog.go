package service

import (
	"context"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/menden/shop-api/internal/domain"
	"github.com/menden/shop-api/internal/repository"
)

// Catalog answers product searches. Concurrent identical searches are
// collapsed into one database call.
type Catalog struct {
	products repository.Documents
	sfg      singleflight.Group
}

func NewCatalog(products repository.Documents) *Catalog {
	return &Catalog{products: products}
}

// Search returns products whose name contains keyword, case-insensitively.
func (c *Catalog) Search(ctx context.Context, keyword string) ([]domain.Document, error) {
	v, err, _ := c.sfg.Do("search:"+strings.ToLower(keyword), func() (interface{}, error) {
		return c.products.Search(ctx, "Name", keyword)
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Document), nil
}
