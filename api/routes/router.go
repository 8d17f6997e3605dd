package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/harvestlane/marketplace-backend/api/controllers"
	webhookcontrollers "github.com/harvestlane/marketplace-backend/api/controllers/webhooks"
	"github.com/harvestlane/marketplace-backend/api/middleware"
	"github.com/harvestlane/marketplace-backend/internal/catalog"
	"github.com/harvestlane/marketplace-backend/internal/notifications"
	"github.com/harvestlane/marketplace-backend/internal/orders"
	"github.com/harvestlane/marketplace-backend/internal/payments"
	stripewebhook "github.com/harvestlane/marketplace-backend/internal/webhooks/stripe"
	"github.com/harvestlane/marketplace-backend/pkg/config"
	"github.com/harvestlane/marketplace-backend/pkg/db"
	"github.com/harvestlane/marketplace-backend/pkg/logger"
	"github.com/harvestlane/marketplace-backend/pkg/redis"
	"github.com/harvestlane/marketplace-backend/pkg/stripe"
)

// RouterParams carries everything the HTTP surface depends on.
type RouterParams struct {
	Config               *config.Config
	Logger               *logger.Logger
	DB                   *db.Client
	Redis                *redis.Client
	StripeClient         *stripe.Client
	CatalogService       *catalog.Service
	OrdersService        *orders.Service
	PaymentsService      *payments.Service
	NotificationsService *notifications.Service
	WebhookService       *stripewebhook.Service
	WebhookGuard         *stripewebhook.IdempotencyGuard
}

// NewRouter assembles the chi router with the service's full route surface.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DB, p.Redis))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(p.WebhookService, p.StripeClient, p.WebhookGuard, logg))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", controllers.CreateOrder(p.OrdersService, logg))
			r.Get("/", controllers.ListOrders(p.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderDetail(p.OrdersService, logg))
		})

		r.Post("/payments/checkout", controllers.CreateCheckout(p.PaymentsService, cfg.Payments, logg))

		r.Get("/notifications", controllers.ListNotifications(p.NotificationsService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole("admin", logg))
			r.Post("/wholesale", controllers.AddWholesale(p.CatalogService, logg))
		})
	})

	return r
}
