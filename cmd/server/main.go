package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/cache"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/cart"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/catalog"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/checkout"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/config"
	h "github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/http"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/mongodb"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/notify"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/order"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/payment"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/ratelimit"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/repository"
	"github.com/jameshorton2486/kollect-it-marketplace-sub000/internal/wishlist"
)

func main() {
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Postgres: catalog + orders
	creds := &repository.Credentials{
		Host:              cfg.Postgres.Host,
		Port:              cfg.Postgres.Port,
		User:              cfg.Postgres.User,
		Password:          cfg.Postgres.Password,
		DBName:            cfg.Postgres.DBName,
		MigrationsDirPath: cfg.Postgres.MigrationsDirPath,
	}
	repo, err := repository.NewRepository(creds)
	if err != nil {
		log.Fatalf("Failed to connect to postgres: %v", err)
	}
	defer repo.Close()
	if err := repo.RunMigrations(creds); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Printf("Connected to postgres at %s:%d", cfg.Postgres.Host, cfg.Postgres.Port)

	// Mongo: saved carts + wishlists
	mongoDB, err := mongodb.Connect(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Client().Disconnect(ctx)
	if err := cart.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("Failed to create cart indexes: %v", err)
	}
	if err := wishlist.EnsureIndexes(ctx, mongoDB); err != nil {
		log.Fatalf("Failed to create wishlist indexes: %v", err)
	}
	log.Printf("Connected to MongoDB at %s", cfg.MongoURI)

	// Redis: catalog cache
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Redis connection failed: %v", err)
	}
	log.Printf("Redis ping succeeded")

	catalogService := catalog.NewService(repo, cache.NewRedisCache(redisClient))
	validator := cart.NewValidator(catalogService)
	cartService := cart.NewService(cart.NewMongoStore(mongoDB), catalogService)
	wishlistStore := wishlist.NewMongoStore(mongoDB)

	paymentClient := payment.NewHTTPClient(cfg.PaymentAPIURL, cfg.PaymentSecretKey)
	checkoutService := checkout.NewService(validator, paymentClient)

	dispatcher := notify.NewDispatcher(cfg.KafkaBrokers, cfg.NotificationTopic)
	orderService := order.NewService(repo, paymentClient, dispatcher)

	emailClient := notify.NewEmailClient(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailFrom)
	mailer := notify.NewMailer(cfg.KafkaBrokers, cfg.NotificationTopic, emailClient, cfg.AdminEmail)
	defer mailer.Close()
	go mailer.Run(ctx)

	limiter := ratelimit.New(cfg.RateLimit, cfg.RateLimitWindow)
	go func() {
		ticker := time.NewTicker(cfg.RateLimitWindow)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiter.Sweep()
			case <-ctx.Done():
				return
			}
		}
	}()

	router := h.NewRouter(h.RouterConfig{
		SessionSecret:  cfg.SessionSecret,
		AdminAPIToken:  cfg.AdminAPIToken,
		RequestTimeout: cfg.RequestTimeout,
		ListingLimiter: limiter,
	}, h.Handlers{
		Products: h.NewProductsHandler(catalogService),
		Cart:     h.NewCartHandler(validator, cartService),
		Wishlist: h.NewWishlistHandler(wishlistStore, catalogService),
		Checkout: h.NewCheckoutHandler(checkoutService),
		Orders:   h.NewOrdersHandler(orderService),
		Webhook:  h.NewWebhookHandler(orderService, cfg.PaymentWebhookSecret, cfg.IsDevelopment(), cfg.MaxRequestBodySize),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Storefront API starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	cancel() // stop the mailer and the limiter sweeper

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
