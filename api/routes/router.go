package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tetstore/guestcart-backend/api/controllers"
	cartcontrollers "github.com/tetstore/guestcart-backend/api/controllers/cart"
	"github.com/tetstore/guestcart-backend/api/middleware"
	cartsvc "github.com/tetstore/guestcart-backend/internal/cart"
	checkoutsvc "github.com/tetstore/guestcart-backend/internal/checkout"
	"github.com/tetstore/guestcart-backend/pkg/config"
	"github.com/tetstore/guestcart-backend/pkg/logger"
	"github.com/tetstore/guestcart-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	redisClient redis.Pinger,
	engine *cartsvc.Engine,
	checkoutService *checkoutsvc.Service,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, redisClient))
	})

	if registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	r.Post("/guest-session", controllers.MintSession())

	r.Route("/guest-cart", func(r chi.Router) {
		r.Use(middleware.Session(logg))
		r.Get("/", cartcontrollers.Fetch(engine, logg))
		r.Delete("/", cartcontrollers.Clear(engine, logg))
		r.Get("/summary", cartcontrollers.SummaryFetch(engine, logg))
		r.Post("/items", cartcontrollers.ItemUpsert(engine, logg))
		r.Patch("/items/{productID}", cartcontrollers.ItemSetQuantity(engine, logg))
		r.Delete("/items/{productID}", cartcontrollers.ItemRemove(engine, logg))
	})

	r.With(middleware.Session(logg)).Post("/checkout", controllers.Checkout(checkoutService, logg))

	return r
}
