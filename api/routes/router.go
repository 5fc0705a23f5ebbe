package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/prodeel-backend/api/controllers"
	"github.com/angelmondragon/prodeel-backend/api/middleware"
	"github.com/angelmondragon/prodeel-backend/internal/calendar"
	"github.com/angelmondragon/prodeel-backend/internal/customers"
	"github.com/angelmondragon/prodeel-backend/internal/dashboard"
	"github.com/angelmondragon/prodeel-backend/internal/orders"
	products "github.com/angelmondragon/prodeel-backend/internal/products"
	"github.com/angelmondragon/prodeel-backend/internal/settings"
	"github.com/angelmondragon/prodeel-backend/internal/storefront"
	"github.com/angelmondragon/prodeel-backend/pkg/config"
	"github.com/angelmondragon/prodeel-backend/pkg/logger"
	"github.com/angelmondragon/prodeel-backend/pkg/redis"
)

const megabyte = 1 << 20

// Deps carries everything the router mounts. Nil readiness pingers are
// reported as disabled; a nil RateLimiter turns rate limiting off.
type Deps struct {
	DB    controllers.Pinger
	Redis controllers.Pinger
	GCS   controllers.Pinger

	RateLimiter redis.RateLimiter
	Gatherer    prometheus.Gatherer

	Dashboard dashboard.Service
	Orders    orders.Service
	Customers customers.Service
	Products  products.Service
	Settings  settings.Service
	Calendar  calendar.Service
	Loader    *storefront.Loader
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	apiPolicy := middleware.NewRateLimitPolicy("api", cfg.Redis.RateLimitWindow, cfg.Redis.RateLimitMax)
	pageSize := cfg.Dashboard.PageSize
	maxImageBytes := int64(cfg.GCS.MaxUploadMB) * megabyte

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"db":    deps.DB,
			"redis": deps.Redis,
			"gcs":   deps.GCS,
		}))
	})

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Auth, logg))
		r.Use(middleware.StoreContext(logg))
		r.Use(middleware.RateLimit(apiPolicy, deps.RateLimiter, logg))

		r.Get("/bootstrap", controllers.Bootstrap(deps.Loader, logg))

		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/overview", controllers.DashboardOverview(deps.Dashboard, logg))
			r.Get("/analytics", controllers.DashboardAnalytics(deps.Dashboard, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.ListOrders(deps.Orders, pageSize, logg))
			r.Post("/", controllers.IngestOrders(deps.Orders, logg))
			r.Delete("/{orderId}", controllers.DeleteOrder(deps.Orders, logg))
		})
		r.Get("/customers", controllers.ListCustomers(deps.Customers, pageSize, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, pageSize, logg))
			r.Post("/", controllers.CreateProduct(deps.Products, maxImageBytes, logg))
			r.Delete("/{productId}", controllers.DeleteProduct(deps.Products, logg))
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", controllers.GetSettings(deps.Settings, logg))
			r.Put("/profile", controllers.UpdateProfile(deps.Settings, logg))
		})

		r.Route("/calendar", func(r chi.Router) {
			r.Get("/", controllers.CalendarView(deps.Calendar, logg))
			r.Get("/leave-check", controllers.CalendarLeaveCheck(deps.Calendar, logg))
			r.Post("/flush", controllers.CalendarFlush(deps.Calendar, logg))
			r.Post("/days/{date}/click", controllers.CalendarClickDay(deps.Calendar, logg))
			r.Route("/events", func(r chi.Router) {
				r.Post("/", controllers.CalendarAddEvent(deps.Calendar, logg))
				r.Post("/move", controllers.CalendarMoveEvent(deps.Calendar, logg))
				r.Post("/delete-request", controllers.CalendarRequestDelete(deps.Calendar, logg))
				r.Post("/delete-confirm", controllers.CalendarConfirmDelete(deps.Calendar, logg))
				r.Post("/delete-cancel", controllers.CalendarCancelDelete(deps.Calendar, logg))
			})
		})
	})

	return r
}
