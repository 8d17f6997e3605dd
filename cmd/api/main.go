package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/harvestlane/marketplace-backend/api/routes"
	"github.com/harvestlane/marketplace-backend/internal/catalog"
	"github.com/harvestlane/marketplace-backend/internal/invoices"
	"github.com/harvestlane/marketplace-backend/internal/notifications"
	"github.com/harvestlane/marketplace-backend/internal/orders"
	"github.com/harvestlane/marketplace-backend/internal/payments"
	"github.com/harvestlane/marketplace-backend/internal/pricing"
	"github.com/harvestlane/marketplace-backend/internal/suppliers"
	"github.com/harvestlane/marketplace-backend/internal/users"
	stripewebhook "github.com/harvestlane/marketplace-backend/internal/webhooks/stripe"
	"github.com/harvestlane/marketplace-backend/pkg/config"
	"github.com/harvestlane/marketplace-backend/pkg/db"
	"github.com/harvestlane/marketplace-backend/pkg/logger"
	"github.com/harvestlane/marketplace-backend/pkg/metrics"
	"github.com/harvestlane/marketplace-backend/pkg/migrate"
	"github.com/harvestlane/marketplace-backend/pkg/redis"
	"github.com/harvestlane/marketplace-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap stripe", err)
		os.Exit(1)
	}

	gdb := dbClient.DB()
	usersRepo := users.NewRepository(gdb)
	suppliersRepo := suppliers.NewRepository(gdb)
	catalogRepo := catalog.NewRepository(gdb)
	ordersRepo := orders.NewRepository(gdb)
	paymentsRepo := payments.NewRepository(gdb)
	notificationsRepo := notifications.NewRepository(gdb)

	catalogService, err := catalog.NewService(catalogRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	resolver, err := pricing.NewResolver(catalogService, catalogService)
	if err != nil {
		logg.Error(context.Background(), "failed to create pricing resolver", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(orders.ServiceParams{
		Users:             usersRepo,
		Resolver:          resolver,
		Repo:              ordersRepo,
		TransactionRunner: dbClient,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	paymentsService, err := payments.NewService(payments.ServiceParams{
		Users:     usersRepo,
		Orders:    ordersRepo,
		Suppliers: suppliersRepo,
		Payments:  paymentsRepo,
		Stripe:    payments.NewStripeClient(stripeClient),
		Config:    cfg.Payments,
		Logger:    logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(notificationsRepo, usersRepo, suppliersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	invoicesService, err := invoices.NewService(gdb)
	if err != nil {
		logg.Error(context.Background(), "failed to create invoices service", err)
		os.Exit(1)
	}

	webhookMetrics := metrics.NewWebhookMetrics(prometheus.DefaultRegisterer)

	webhookService, err := stripewebhook.NewService(stripewebhook.ServiceParams{
		Payments:      paymentsRepo,
		Notifications: notificationsService,
		Invoices:      invoicesService,
		Metrics:       webhookMetrics,
		Logger:        logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook service", err)
		os.Exit(1)
	}

	webhookGuard, err := stripewebhook.NewIdempotencyGuard(redisClient, cfg.Webhook.IdempotencyTTL, "stripe-webhook")
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:               cfg,
			Logger:               logg,
			DB:                   dbClient,
			Redis:                redisClient,
			StripeClient:         stripeClient,
			CatalogService:       catalogService,
			OrdersService:        ordersService,
			PaymentsService:      paymentsService,
			NotificationsService: notificationsService,
			WebhookService:       webhookService,
			WebhookGuard:         webhookGuard,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
