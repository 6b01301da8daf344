// Package api wires the HTTP surface: one route per database operation,
// plus the session cart and the login flow.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/menden/shop-api/internal/cart"
	"github.com/menden/shop-api/internal/repository"
	"github.com/menden/shop-api/internal/service"
	"github.com/menden/shop-api/internal/session"
)

// Dependencies carries everything the router needs, constructed once at
// startup and passed explicitly. No handler reaches for global state.
type Dependencies struct {
	Logger         zerolog.Logger
	Sessions       session.Store
	SessionMaxAge  time.Duration
	RequestTimeout time.Duration

	Carts    *cart.Manager
	Catalog  *service.Catalog
	Accounts *service.Accounts

	Products    repository.Documents
	Categories  repository.Documents
	Customers   repository.Documents
	AccountDocs repository.Documents
	Orders      repository.Documents
	Delivery    repository.Documents
}

func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(deps.RequestTimeout))
	r.Use(CORS)
	r.Use(Sessions(deps.Sessions, deps.SessionMaxAge, deps.Logger))

	products := NewResource(deps.Products, deps.Logger)
	categories := NewResource(deps.Categories, deps.Logger)
	customers := NewResource(deps.Customers, deps.Logger)
	accounts := NewResource(deps.AccountDocs, deps.Logger)
	orders := NewResource(deps.Orders, deps.Logger)
	delivery := NewResource(deps.Delivery, deps.Logger)

	cartHandler := NewCartHandler(deps.Carts, deps.Logger)
	authHandler := NewAuthHandler(deps.Accounts, deps.Logger)
	catalogHandler := NewCatalogHandler(deps.Catalog, deps.Logger)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"service": "shop-api"})
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/products", func(r chi.Router) {
		r.Get("/", products.List)
		r.Get("/detail/{id}", products.GetByID)
		r.Get("/category/{value}", products.ListByField("Category"))
		r.Post("/", products.Create)
		r.Put("/", products.Update("Name", "Price", "Image", "Description",
			"Ingredients", "Uses", "Store", "Warnings", "Category", "Quantity"))
		r.Delete("/{id}", products.Delete)
	})

	r.Get("/search", catalogHandler.Search)

	r.Route("/categories", func(r chi.Router) {
		r.Get("/", categories.List)
		r.Get("/{id}", categories.GetByID)
		r.Get("/name/{value}", categories.SearchByField("Name"))
		r.Post("/", categories.Create)
		r.Put("/", categories.Update("Name", "Description", "Image"))
		r.Delete("/{id}", categories.Delete)
	})

	r.Route("/customers", func(r chi.Router) {
		r.Get("/", customers.List)
		r.Get("/{id}", customers.GetByID)
		r.Get("/phone/{value}", customers.GetByField("Phone"))
		r.Post("/", customers.Create)
		r.Put("/", customers.Update("CustomerName", "Phone", "Mail", "BOD",
			"Gender", "Image"))
	})

	r.Route("/accounts", func(r chi.Router) {
		r.Get("/", accounts.List)
		r.Get("/phone/{value}", accounts.GetByField("phonenumber"))
		r.Post("/", authHandler.Register)
	})
	r.Post("/login", authHandler.Login)
	r.Put("/change-password", authHandler.ChangePassword)

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", orders.List)
		r.Get("/{id}", orders.GetByID)
		r.Get("/customer/{value}", orders.ListByField("CustomerName"))
		r.Post("/", orders.Create)
		r.Put("/", orders.Update("Status"))
		r.Put("/confirm/{id}", orders.SetFieldByID("Status", "confirmed"))
		r.Delete("/{id}", orders.Delete)
	})

	r.Route("/delivery", func(r chi.Router) {
		r.Get("/", delivery.List)
		r.Get("/phone/{value}", delivery.GetByField("Phone"))
		r.Post("/", delivery.Create)
		r.Put("/", delivery.Update("Address"))
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Post("/", cartHandler.AddItem)
		r.Put("/", cartHandler.SetQuantity)
		r.Get("/{id}", cartHandler.GetItem)
		r.Delete("/delete/{id}", cartHandler.RemoveItem)
	})

	r.Get("/contact", cartHandler.Visit)

	return r
}
