package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zenmart-labs/zenmart-backend/api/controllers"
	"github.com/zenmart-labs/zenmart-backend/api/middleware"
	"github.com/zenmart-labs/zenmart-backend/internal/cart"
	"github.com/zenmart-labs/zenmart-backend/internal/catalog"
	"github.com/zenmart-labs/zenmart-backend/internal/orders"
	"github.com/zenmart-labs/zenmart-backend/internal/users"
	"github.com/zenmart-labs/zenmart-backend/pkg/config"
	"github.com/zenmart-labs/zenmart-backend/pkg/enums"
	"github.com/zenmart-labs/zenmart-backend/pkg/logger"
	"github.com/zenmart-labs/zenmart-backend/pkg/metrics"
	"github.com/zenmart-labs/zenmart-backend/pkg/redis"
)

// NewRouter assembles the HTTP surface: public catalog and auth routes,
// authenticated cart and order routes, and the admin dashboard routes.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	metricsHandler http.Handler,
	dbPing controllers.Pinger,
	redisClient *redis.Client,
	usersService users.Service,
	catalogService catalog.Service,
	cartService cart.Service,
	ordersService orders.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg, httpMetrics),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"signup",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"postgres": dbPing,
			"redis":    redisClient,
		}, logg))
	})

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthRateLimit(registerPolicy, redisClient, logg))
			r.Use(middleware.Idempotency(redisClient, cfg.Checkout.IdempotencyTTL, logg))
			r.Post("/signup", controllers.Register(usersService, logg))
		})
		r.With(middleware.AuthRateLimit(loginPolicy, redisClient, logg)).
			Post("/login", controllers.Login(usersService, logg))
		r.With(middleware.Auth(cfg.JWT, logg)).
			Get("/profile", controllers.Profile(usersService, logg))
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ProductList(catalogService, logg))
		r.Get("/flash-deals", controllers.ProductFlashDeals(catalogService, logg))
		r.Get("/{id}", controllers.ProductGet(catalogService, logg))

		r.Group(func(r chi.Router) {
			r.Use(
				middleware.Auth(cfg.JWT, logg),
				middleware.RequireRole(enums.UserRoleAdmin.String(), logg),
			)
			r.Post("/", controllers.ProductCreate(catalogService, logg))
			r.Put("/{id}", controllers.ProductUpdate(catalogService, logg))
			r.Delete("/{id}", controllers.ProductDelete(catalogService, logg))
		})
	})
	r.Get("/api/categories", controllers.ProductCategories(catalogService, logg))

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Post("/", controllers.CartAdd(cartService, logg))
		r.Get("/{userId}", controllers.CartRead(cartService, logg))
		r.Put("/{userId}/{productId}", controllers.CartUpdate(cartService, logg))
		r.Delete("/{userId}/{productId}", controllers.CartRemove(cartService, logg))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.With(middleware.Idempotency(redisClient, cfg.Checkout.IdempotencyTTL, logg)).
			Post("/", controllers.OrderPlace(ordersService, logg))
		r.Get("/user/me", controllers.OrderListMine(ordersService, logg))
		r.Get("/single/{id}", controllers.OrderGet(ordersService, logg))
		r.Put("/{id}/cancel", controllers.OrderCancel(ordersService, logg))
		r.Put("/payment/success/{id}", controllers.OrderPaymentSuccess(ordersService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))
			r.Get("/all", controllers.AdminOrderList(ordersService, logg))
			r.Put("/{id}/status", controllers.AdminOrderUpdateStatus(ordersService, logg))
			r.Delete("/{id}", controllers.AdminOrderDelete(ordersService, logg))
		})
	})

	r.Route("/api/admin/users", func(r chi.Router) {
		r.Use(
			middleware.Auth(cfg.JWT, logg),
			middleware.RequireRole(enums.UserRoleAdmin.String(), logg),
		)
		r.Get("/", controllers.AdminUserList(usersService, logg))
		r.Put("/{id}/promote", controllers.AdminUserPromote(usersService, logg))
		r.Put("/{id}/demote", controllers.AdminUserDemote(usersService, logg))
		r.Delete("/{id}", controllers.AdminUserDelete(usersService, logg))
	})

	return r
}
