package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/loomhotels/roomledger/api/controllers"
	"github.com/loomhotels/roomledger/api/middleware"
	inventorysvc "github.com/loomhotels/roomledger/internal/inventory"
	"github.com/loomhotels/roomledger/pkg/config"
	"github.com/loomhotels/roomledger/pkg/logger"
)

// NewInventoryRouter assembles the inventory service HTTP surface.
func NewInventoryRouter(
	cfg *config.Config,
	logg *logger.Logger,
	inventoryService inventorysvc.Service,
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

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/{hotelID}", controllers.ListInventory(inventoryService, logg))
		r.Get("/hotel_name/{hotelID}", controllers.GetHotelName(inventoryService, logg))
		r.Post("/{hotelID}/adjust", controllers.AdjustInventory(inventoryService, logg))
	})

	return r
}
