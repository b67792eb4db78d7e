package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/ratedesk/ratedesk-backend/api/controllers"
	"github.com/ratedesk/ratedesk-backend/api/middleware"
	"github.com/ratedesk/ratedesk-backend/internal/catalog"
	"github.com/ratedesk/ratedesk-backend/internal/lookups"
	"github.com/ratedesk/ratedesk-backend/internal/offers"
	pkgauth "github.com/ratedesk/ratedesk-backend/pkg/auth"
	"github.com/ratedesk/ratedesk-backend/pkg/config"
	"github.com/ratedesk/ratedesk-backend/pkg/db"
	"github.com/ratedesk/ratedesk-backend/pkg/logger"
	"github.com/ratedesk/ratedesk-backend/pkg/metrics"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	cacheP db.Pinger,
	checker pkgauth.Checker,
	offersService offers.Service,
	catalogService catalog.Service,
	lookupsService lookups.Service,
	metricsRegistry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, cacheP))
	})

	if metricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(metricsRegistry))
	}

	catalogRead := middleware.RequireCapability(checker, pkgauth.CapabilityCatalogRead, logg)
	catalogWrite := middleware.RequireCapability(checker, pkgauth.CapabilityCatalogWrite, logg)
	configWrite := middleware.RequireCapability(checker, pkgauth.CapabilityConfigWrite, logg)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))

		r.Route("/offers", func(r chi.Router) {
			r.With(catalogWrite).Post("/", controllers.SubmitOffer(offersService, logg))
			r.With(catalogWrite).Post("/batch", controllers.SubmitOfferBatch(offersService, logg))
			r.With(catalogRead).Get("/", controllers.ListOffers(offersService, logg))
			r.With(catalogRead).Get("/{id}", controllers.GetOffer(offersService, logg))
		})

		r.Route("/suppliers", func(r chi.Router) {
			r.With(catalogWrite).Post("/", controllers.CreateSupplier(catalogService, logg))
			r.With(catalogRead).Get("/", controllers.ListSuppliers(catalogService, logg))
			r.Route("/{supplierID}/connections", func(r chi.Router) {
				r.With(catalogWrite).Post("/", controllers.CreateConnection(catalogService, logg))
				r.With(catalogRead).Get("/", controllers.ListConnections(catalogService, logg))
			})
		})

		r.Route("/countries", func(r chi.Router) {
			r.With(catalogWrite).Post("/", controllers.CreateCountry(catalogService, logg))
			r.With(catalogRead).Get("/", controllers.ListCountries(catalogService, logg))
		})

		r.Route("/networks", func(r chi.Router) {
			r.With(catalogWrite).Post("/", controllers.CreateNetwork(catalogService, logg))
			r.With(catalogRead).Get("/", controllers.ListNetworks(catalogService, logg))
		})

		r.Route("/config", func(r chi.Router) {
			r.With(catalogRead).Get("/dropdowns", controllers.GetDropdowns(lookupsService, logg))
			r.With(configWrite).Put("/dropdowns", controllers.UpdateDropdowns(lookupsService, logg))
		})
	})

	return r
}
