package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/menden/shop-api/internal/api"
	"github.com/menden/shop-api/internal/cart"
	"github.com/menden/shop-api/internal/config"
	"github.com/menden/shop-api/internal/repository"
	"github.com/menden/shop-api/internal/service"
	"github.com/menden/shop-api/internal/session"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "shop-api").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()
	db, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("mongo disconnect failed")
		}
	}()
	log.Info().Str("uri", cfg.MongoURI).Str("db", cfg.MongoDBName).Msg("connected to MongoDB")

	collection := func(name string, opts ...repository.MongoOption) repository.Documents {
		return repository.NewBreaker(name,
			repository.NewMongoDocuments(db, name, cfg.DBCallTimeout, opts...))
	}

	products := collection("products", repository.WithSortDesc("Create_date"))
	categories := collection("categories")
	customers := collection("customers")
	accountDocs := collection("accounts")
	orders := collection("orders")
	delivery := collection("delivery_addresses")

	sessions, err := newSessionStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up session store")
	}
	defer sessions.Close()

	deps := api.Dependencies{
		Logger:         log,
		Sessions:       sessions,
		SessionMaxAge:  cfg.SessionMaxAge,
		RequestTimeout: cfg.RequestTimeout,
		Carts:          cart.NewManager(sessions),
		Catalog:        service.NewCatalog(products),
		Accounts:       service.NewAccounts(accountDocs),
		Products:       products,
		Categories:     categories,
		Customers:      customers,
		AccountDocs:    accountDocs,
		Orders:         orders,
		Delivery:       delivery,
	}

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      otelhttp.NewHandler(api.NewRouter(deps), "shop-api"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shut down")
	}
	log.Info().Msg("server exited")
}

func newSessionStore(ctx context.Context, cfg config.Config, log zerolog.Logger) (session.Store, error) {
	if cfg.RedisAddr == "" {
		log.Info().Msg("using in-memory session store")
		return session.NewMemoryStore(cfg.SessionMaxAge), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}
	log.Info().Str("addr", cfg.RedisAddr).Msg("using Redis session store")
	return session.NewRedisStore(client, cfg.SessionMaxAge), nil
}
