package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quickcartlabs/quickcart-backend/api/controllers"
	authcontrollers "github.com/quickcartlabs/quickcart-backend/api/controllers/auth"
	cartcontrollers "github.com/quickcartlabs/quickcart-backend/api/controllers/cart"
	catalogcontrollers "github.com/quickcartlabs/quickcart-backend/api/controllers/catalog"
	checkoutcontrollers "github.com/quickcartlabs/quickcart-backend/api/controllers/checkout"
	ordercontrollers "github.com/quickcartlabs/quickcart-backend/api/controllers/orders"
	"github.com/quickcartlabs/quickcart-backend/api/middleware"
	authsvc "github.com/quickcartlabs/quickcart-backend/internal/auth"
	cartsvc "github.com/quickcartlabs/quickcart-backend/internal/carts"
	catalogsvc "github.com/quickcartlabs/quickcart-backend/internal/catalog"
	checkoutsvc "github.com/quickcartlabs/quickcart-backend/internal/checkout"
	ordersvc "github.com/quickcartlabs/quickcart-backend/internal/orders"
	"github.com/quickcartlabs/quickcart-backend/pkg/config"
	"github.com/quickcartlabs/quickcart-backend/pkg/logger"
	"github.com/quickcartlabs/quickcart-backend/pkg/metrics"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DBPinger    controllers.Pinger
	RedisPinger controllers.Pinger
	RateLimiter middleware.OTPRateLimiterStore
	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth     authsvc.Service
	Catalog  catalogsvc.Service
	Carts    cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
}

// NewRouter assembles the storefront API.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg.App.Env))
		r.Get("/ready", controllers.HealthReady(cfg.App.Env, logg, deps.DBPinger, deps.RedisPinger))
	})

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	otpPolicy := middleware.NewOTPRateLimitPolicy(
		"otp",
		cfg.OTP.RateLimitWindow,
		cfg.OTP.RateLimitIP,
		cfg.OTP.RateLimitPhone,
	)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Session(logg))

		r.Route("/auth/otp", func(r chi.Router) {
			r.With(middleware.OTPRateLimit(otpPolicy, deps.RateLimiter, logg)).
				Post("/request", authcontrollers.OTPRequest(deps.Auth, logg))
			r.Post("/verify", authcontrollers.OTPVerify(deps.Auth, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalogcontrollers.ProductList(deps.Catalog, logg))
			r.Get("/{productId}", catalogcontrollers.ProductDetail(deps.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", cartcontrollers.Fetch(deps.Carts, logg))
			r.Delete("/", cartcontrollers.Clear(deps.Carts, logg))
			r.Post("/items", cartcontrollers.AddItem(deps.Carts, logg))
			r.Patch("/items/{productId}", cartcontrollers.UpdateItem(deps.Carts, logg))
			r.Delete("/items/{productId}", cartcontrollers.RemoveItem(deps.Carts, logg))
			r.Post("/coupon", cartcontrollers.ApplyCoupon(deps.Carts, logg))
			r.Delete("/coupon", cartcontrollers.RemoveCoupon(deps.Carts, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/checkout", checkoutcontrollers.PlaceOrder(deps.Checkout, logg))
			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(deps.Orders, logg))
				r.Get("/{reference}", ordercontrollers.Detail(deps.Orders, logg))
			})
		})
	})

	return r
}
