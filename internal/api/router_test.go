package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/menden/shop-api/internal/cart"
	"github.com/menden/shop-api/internal/domain"
	"github.com/menden/shop-api/internal/repository"
	"github.com/menden/shop-api/internal/service"
	"github.com/menden/shop-api/internal/session"
)

// fakeDocs is an in-memory Documents used to test the HTTP surface
// without a database.
type fakeDocs struct {
	mu    sync.Mutex
	seq   int
	docs  map[string]domain.Document
	order []string
}

func newFakeDocs() *fakeDocs {
	return &fakeDocs{docs: make(map[string]domain.Document)}
}

func (f *fakeDocs) All(context.Context) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Document, 0, len(f.order))
	for _, id := range f.order {
		out = append(out, f.docs[id])
	}
	return out, nil
}

func (f *fakeDocs) Get(_ context.Context, id string) (domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return doc, nil
}

func (f *fakeDocs) FindByField(_ context.Context, field, value string) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Document
	for _, id := range f.order {
		if v, _ := f.docs[id][field].(string); v == value {
			out = append(out, f.docs[id])
		}
	}
	return out, nil
}

func (f *fakeDocs) FindOneByField(ctx context.Context, field, value string) (domain.Document, error) {
	docs, err := f.FindByField(ctx, field, value)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, repository.ErrNotFound
	}
	return docs[0], nil
}

func (f *fakeDocs) Search(_ context.Context, field, keyword string) ([]domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Document
	for _, id := range f.order {
		v, _ := f.docs[id][field].(string)
		if strings.Contains(strings.ToLower(v), strings.ToLower(keyword)) {
			out = append(out, f.docs[id])
		}
	}
	return out, nil
}

func (f *fakeDocs) Insert(_ context.Context, doc domain.Document) (domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	stored := make(domain.Document, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	if stored.ID() == "" {
		stored["_id"] = fmt.Sprintf("%024x", f.seq)
	}
	f.docs[stored.ID()] = stored
	f.order = append(f.order, stored.ID())
	return stored, nil
}

func (f *fakeDocs) Update(_ context.Context, id string, fields domain.Document) (domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	for k, v := range fields {
		if k == "_id" {
			continue
		}
		doc[k] = v
	}
	return doc, nil
}

func (f *fakeDocs) UpdateByField(ctx context.Context, field, value string, fields domain.Document) error {
	doc, err := f.FindOneByField(ctx, field, value)
	if err != nil {
		return err
	}
	_, err = f.Update(ctx, doc.ID(), fields)
	return err
}

func (f *fakeDocs) Delete(_ context.Context, id string) (domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, ok := f.docs[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	delete(f.docs, id)
	for i, oid := range f.order {
		if oid == id {
			f.order = append(f.order[:i], f.order[i+1:]...)
			break
		}
	}
	return doc, nil
}

type testEnv struct {
	server   *httptest.Server
	client   *http.Client
	products *fakeDocs
	accounts *fakeDocs
}

func newTestEnv(t *testing.T) *testEnv {
	store := session.NewMemoryStore(time.Hour)
	t.Cleanup(func() { store.Close() })

	products := newFakeDocs()
	accounts := newFakeDocs()

	deps := Dependencies{
		Logger:         zerolog.Nop(),
		Sessions:       store,
		SessionMaxAge:  time.Hour,
		RequestTimeout: 5 * time.Second,
		Carts:          cart.NewManager(store),
		Catalog:        service.NewCatalog(products),
		Accounts:       service.NewAccounts(accounts),
		Products:       products,
		Categories:     newFakeDocs(),
		Customers:      newFakeDocs(),
		AccountDocs:    accounts,
		Orders:         newFakeDocs(),
		Delivery:       newFakeDocs(),
	}

	server := httptest.NewServer(NewRouter(deps))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		server:   server,
		client:   &http.Client{Jar: jar},
		products: products,
		accounts: accounts,
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, e.server.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(data)
}
