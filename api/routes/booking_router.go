package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loomhotels/roomledger/api/controllers"
	"github.com/loomhotels/roomledger/api/middleware"
	bookingsvc "github.com/loomhotels/roomledger/internal/bookings"
	"github.com/loomhotels/roomledger/pkg/config"
	"github.com/loomhotels/roomledger/pkg/logger"
	pkgredis "github.com/loomhotels/roomledger/pkg/redis"
)

// NewBookingRouter assembles the booking service HTTP surface.
func NewBookingRouter(
	cfg *config.Config,
	logg *logger.Logger,
	store pkgredis.IdempotencyStore,
	bookingService bookingsvc.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg))
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/bookings", func(r chi.Router) {
		r.Use(middleware.Idempotency(store, logg))
		r.Get("/", controllers.ListBookings(bookingService, logg))
		r.Post("/", controllers.CreateBooking(bookingService, logg))
		r.Get("/{bookingID}", controllers.GetBooking(bookingService, logg))
		r.Patch("/{bookingID}", controllers.UpdateBooking(bookingService, logg))
		r.Delete("/{bookingID}", controllers.CancelBooking(bookingService, logg))
	})

	return r
}
