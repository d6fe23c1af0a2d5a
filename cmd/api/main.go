package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/dividee/dividee/docs"
	"github.com/dividee/dividee/internal/accessrequest"
	"github.com/dividee/dividee/internal/auth"
	"github.com/dividee/dividee/internal/config"
	"github.com/dividee/dividee/internal/credential"
	"github.com/dividee/dividee/internal/dashboard"
	"github.com/dividee/dividee/internal/database"
	"github.com/dividee/dividee/internal/group"
	"github.com/dividee/dividee/internal/notification"
	"github.com/dividee/dividee/internal/payment"
	"github.com/dividee/dividee/internal/payment/pricing"
	"github.com/dividee/dividee/internal/secrets"
	"github.com/dividee/dividee/internal/subscription"
	"github.com/dividee/dividee/internal/user"
	"github.com/dividee/dividee/pkg/logging"
	mw "github.com/dividee/dividee/pkg/middleware"
)

// @title           Dividee API
// @version         1.0
// @description     Subscription sharing backend: groups, pooled subscriptions, access requests, payments.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg := config.Load()
	logging.Setup(cfg.LogLevel)

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("connected to database")

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	var secretsManager secrets.Manager
	if cfg.SecretsToken != "" {
		secretsManager = secrets.NewHTTPManager(cfg.SecretsURL, cfg.SecretsToken)
	} else {
		slog.Warn("SECRETS_TOKEN not set, storing credentials in memory")
		secretsManager = secrets.NewMemoryManager()
	}

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, jwtManager)
	userHandler := user.NewHandler(userService)

	// Notification feature (also serves the other features as their notifier)
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, userRepo, notificationService)
	groupHandler := group.NewHandler(groupService)

	// Subscription feature
	subscriptionRepo := subscription.NewRepository(db)
	subscriptionService := subscription.NewService(subscriptionRepo, groupRepo)
	subscriptionHandler := subscription.NewHandler(subscriptionService)

	// Access request feature
	accessRequestRepo := accessrequest.NewRepository(db)
	accessRequestService := accessrequest.NewService(accessRequestRepo, notificationService)
	accessRequestHandler := accessrequest.NewHandler(accessRequestService)

	// Payment feature (pricing strategies injected)
	paymentRepo := payment.NewRepository(db)
	paymentService := payment.NewService(paymentRepo, pricing.NewFactory())
	paymentHandler := payment.NewHandler(paymentService)

	// Dashboard feature
	dashboardRepo := dashboard.NewRepository(db)
	dashboardService := dashboard.NewService(dashboardRepo)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// Credential feature
	credentialService := credential.NewService(subscriptionRepo, secretsManager)
	credentialHandler := credential.NewHandler(credentialService)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(mw.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", userHandler.AuthRoutes())

		// Automation endpoint for the external cron, guarded by a shared
		// secret instead of user auth.
		r.With(mw.CronSecret(cfg.CronSecret)).Post("/notifications/run-checks", notificationHandler.RunChecks)

		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(jwtManager))

			r.Mount("/users", userHandler.Routes())
			r.Mount("/groups", groupHandler.Routes())
			r.Mount("/subscriptions", subscriptionHandler.Routes())
			r.Mount("/access-requests", accessRequestHandler.Routes())
			r.Mount("/payments", paymentHandler.Routes())
			r.Mount("/notifications", notificationHandler.Routes())
			r.Mount("/dashboard", dashboardHandler.Routes())
			r.Mount("/credentials", credentialHandler.Routes())
		})
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
