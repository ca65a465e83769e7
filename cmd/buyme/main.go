package main

//go:generate swag init -g cmd/buyme/main.go -d ../../ -o ../../docs

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aaravmahajanofficial/buyme/docs"
	"github.com/aaravmahajanofficial/buyme/internal/api/handlers"
	"github.com/aaravmahajanofficial/buyme/internal/api/middleware"
	"github.com/aaravmahajanofficial/buyme/internal/cache"
	"github.com/aaravmahajanofficial/buyme/internal/config"
	"github.com/aaravmahajanofficial/buyme/internal/events"
	"github.com/aaravmahajanofficial/buyme/internal/health"
	"github.com/aaravmahajanofficial/buyme/internal/metrics"
	repository "github.com/aaravmahajanofficial/buyme/internal/repositories"
	service "github.com/aaravmahajanofficial/buyme/internal/services"
	"github.com/aaravmahajanofficial/buyme/internal/tracing"
	"github.com/aaravmahajanofficial/buyme/pkg/sendgrid"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

//	@title						Buy me API
//	@version					1.0
//	@description				Marketplace backend: catalog, baskets, orders and notifications.
//	@BasePath					/api/v1
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.MustLoad()

	shutdownTracing, err := tracing.Init(context.Background(), cfg.Otel)
	if err != nil {
		slog.Error("Error initializing tracing", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos, err := repository.New(cfg)
	if err != nil {
		slog.Error("Error accessing the database", slog.String("error", err.Error()))
		os.Exit(1)
	}

	defer func() {
		if err := repos.Close(); err != nil {
			slog.Error("Error closing database connection", slog.String("error", err.Error()))
		} else {
			slog.Info("Database connection closed")
		}
	}()

	redisClient, err := repository.NewRedisClient(cfg)
	if err != nil {
		slog.Error("Error accessing the redis instance", slog.String("error", err.Error()))
		os.Exit(1)
	}

	catalogCache := cache.NewRedisCache(redisClient, &cfg.Cache)
	defer catalogCache.Close()

	publisher, err := events.NewPublisher(cfg.RabbitMQ)
	if err != nil {
		slog.Error("Error connecting to the event broker", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer publisher.Close()

	jwtKey := []byte(cfg.Security.JWTKey)
	emailClient := sendgrid.NewEmailService(cfg.SendGrid.APIKey, cfg.SendGrid.FromEmail, cfg.SendGrid.FromName)
	rateLimitRepo := repository.NewRateLimitRepo(redisClient, cfg.RateConfig)

	userService := service.NewUserService(repos.User, rateLimitRepo, jwtKey, cfg.Security.TokenTTL())
	catalogService := service.NewCatalogService(repos.Catalog, catalogCache, cfg.Cache)
	basketService := service.NewBasketService(repos.Basket, publisher)
	contactService := service.NewContactService(repos.Contact)
	notificationService := service.NewNotificationService(repos.Notification, emailClient)
	orderService := service.NewOrderService(repos.Order, repos.Basket, repos.Contact, catalogService, notificationService, publisher)

	userHandler := handlers.NewUserHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	basketHandler := handlers.NewBasketHandler(basketService)
	contactHandler := handlers.NewContactHandler(contactService)
	orderHandler := handlers.NewOrderHandler(orderService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	authMiddleware := middleware.NewAuthMiddleware(jwtKey)

	healthHandler, err := health.NewHealthHandler(cfg, &health.Endpoints{Events: publisher})
	if err != nil {
		slog.Error("Error creating health checks", slog.String("error", err.Error()))
		os.Exit(1)
	}

	docs.SwaggerInfo.Host = cfg.Addr

	slog.Info("storage initialized", slog.String("env", cfg.Env), slog.String("version", health.Version))

	router := http.NewServeMux()
	router.HandleFunc("POST /api/v1/users/register", userHandler.Register())
	router.HandleFunc("POST /api/v1/users/login", userHandler.Login())
	router.HandleFunc("GET /api/v1/users/profile", authMiddleware.Authenticate(userHandler.Profile()))
	router.HandleFunc("POST /api/v1/token/refresh", authMiddleware.Authenticate(userHandler.RefreshToken()))
	router.HandleFunc("POST /api/v1/token/verify", userHandler.VerifyToken())
	router.HandleFunc("GET /api/v1/shops", authMiddleware.Authenticate(catalogHandler.ListShops()))
	router.HandleFunc("GET /api/v1/shops/{id}", authMiddleware.Authenticate(catalogHandler.GetShop()))
	router.HandleFunc("GET /api/v1/listings", authMiddleware.Authenticate(catalogHandler.ListListings()))
	router.HandleFunc("GET /api/v1/listings/{id}", authMiddleware.Authenticate(catalogHandler.GetListing()))
	router.HandleFunc("GET /api/v1/basket", authMiddleware.Authenticate(basketHandler.GetBasket()))
	router.HandleFunc("POST /api/v1/basket/items", authMiddleware.Authenticate(basketHandler.AddItem()))
	router.HandleFunc("POST /api/v1/basket/items/{listingId}/decrease", authMiddleware.Authenticate(basketHandler.DecreaseItem()))
	router.HandleFunc("DELETE /api/v1/basket/items/{listingId}", authMiddleware.Authenticate(basketHandler.RemoveItem()))
	router.HandleFunc("POST /api/v1/contacts", authMiddleware.Authenticate(contactHandler.CreateContact()))
	router.HandleFunc("GET /api/v1/contacts", authMiddleware.Authenticate(contactHandler.ListContacts()))
	router.HandleFunc("POST /api/v1/orders", authMiddleware.Authenticate(orderHandler.PlaceOrder()))
	router.HandleFunc("GET /api/v1/orders", authMiddleware.Authenticate(orderHandler.ListOrders()))
	router.HandleFunc("GET /api/v1/orders/{id}", authMiddleware.Authenticate(orderHandler.GetOrder()))
	router.HandleFunc("PATCH /api/v1/orders/{id}/state", authMiddleware.Authenticate(orderHandler.UpdateOrderState()))
	router.HandleFunc("GET /api/v1/notifications", authMiddleware.Authenticate(notificationHandler.ListNotifications()))
	router.Handle("GET /health", healthHandler.Handler())
	router.Handle("GET /metrics", metrics.Handler())
	router.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// metrics reads the matched pattern, so it must sit directly on the mux
	var handler http.Handler = router
	handler = metrics.Middleware(handler)
	handler = middleware.Logging(handler)
	handler = otelhttp.NewHandler(handler, "buyme")

	server := http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	slog.Info("Server is starting...", slog.String("address", cfg.Addr))

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Failed to start server", slog.String("error", err.Error()))
			done <- syscall.SIGTERM
		}
	}()

	<-done

	slog.Warn("Shutdown signal received. Preparing to stop the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown encountered an issue", slog.String("error", err.Error()))
	} else {
		slog.Info("Server shut down gracefully. All connections closed.")
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Warn("Tracer provider shutdown failed", slog.String("error", err.Error()))
	}
}
