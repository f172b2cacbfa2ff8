package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/drinkshop/drinkshop-backend/api/controllers"
	cartcontrollers "github.com/drinkshop/drinkshop-backend/api/controllers/cart"
	"github.com/drinkshop/drinkshop-backend/api/middleware"
	"github.com/drinkshop/drinkshop-backend/internal/cart"
	"github.com/drinkshop/drinkshop-backend/pkg/config"
	"github.com/drinkshop/drinkshop-backend/pkg/db"
	"github.com/drinkshop/drinkshop-backend/pkg/logger"
	"github.com/drinkshop/drinkshop-backend/pkg/redis"
)

// NewRouter wires probes, metrics and the cart API. redisP may be nil when the
// cross-instance relay is disabled; gatherer defaults to the global registry.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisP redis.Pinger,
	cartService cart.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.HTTP.AllowedOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1/cart", func(r chi.Router) {
		r.Get("/", cartcontrollers.CartSummary(cartService, logg))
		r.Delete("/", cartcontrollers.CartClear(cartService, logg))
		r.Get("/stream", cartcontrollers.CartStream(cartService, cfg.Cart.StreamHeartbeat, logg))
		r.Post("/add", cartcontrollers.CartAddItem(cartService, logg))
		r.Route("/items", func(r chi.Router) {
			r.Post("/", cartcontrollers.CartInsertItem(cartService, logg))
			r.Get("/{drinkId}", cartcontrollers.CartCheckItem(cartService, logg))
			r.Put("/{drinkId}", cartcontrollers.CartUpdateItem(cartService, logg))
			r.Delete("/{drinkId}", cartcontrollers.CartDeleteItem(cartService, logg))
		})
	})

	return r
}
