package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/glasscart/storefront/internal/gateway"
	"github.com/glasscart/storefront/internal/orders"
	"github.com/glasscart/storefront/internal/service"
	"github.com/glasscart/storefront/internal/session"
	"github.com/glasscart/storefront/pkg/health"
	"github.com/glasscart/storefront/pkg/middleware"
)

// RouterDeps bundles the collaborators the router wires into handlers.
type RouterDeps struct {
	Cart     *service.CartService
	Wishlist *service.WishlistService
	Checkout *service.CheckoutService
	Account  *service.AccountService
	Orders   orders.Repository
	Bridge   *gateway.Bridge
	Sessions session.Provider
	Health   *health.Handler
	Logger   *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health check endpoints
	r.Get("/health/live", deps.Health.LivenessHandler())
	r.Get("/health/ready", deps.Health.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(deps.Cart, deps.Logger)
	wishlistHandler := NewWishlistHandler(deps.Wishlist, deps.Logger)
	checkoutHandler := NewCheckoutHandler(deps.Checkout, deps.Bridge, deps.Logger)
	accountHandler := NewAccountHandler(deps.Account, deps.Logger)
	ordersHandler := NewOrdersHandler(deps.Orders, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Post("/session", accountHandler.Login)

		r.Group(func(r chi.Router) {
			r.Use(Authenticate(deps.Sessions))

			r.Delete("/session", accountHandler.Logout)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.Load)
				r.Get("/summary", cartHandler.Summary)
				r.Post("/items", cartHandler.AddItem)
				r.Delete("/items/{itemId}", cartHandler.RemoveItem)
				r.Post("/items/{itemId}/increment", cartHandler.IncrementItem)
				r.Post("/items/{itemId}/decrement", cartHandler.DecrementItem)
				r.Put("/coupon", cartHandler.SetCoupon)
			})

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.Load)
				r.Post("/items", wishlistHandler.SaveItem)
				r.Delete("/items/{itemId}", wishlistHandler.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", checkoutHandler.Start)
				r.Get("/", checkoutHandler.Status)
				r.Post("/callback", checkoutHandler.Callback)
				r.Post("/dismiss", checkoutHandler.Dismiss)
			})

			r.Get("/orders", ordersHandler.List)
		})
	})

	return r
}
