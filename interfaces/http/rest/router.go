package rest

import (
	"net/http"
	"time"

	"github.com/gabeliss/tickX/application/services"
	"github.com/gabeliss/tickX/interfaces/http/rest/handlers"
	"github.com/gabeliss/tickX/interfaces/http/rest/middleware"
	"github.com/gabeliss/tickX/pkg/errors"
	"github.com/gabeliss/tickX/pkg/observability"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// RouterConfig holds the HTTP-level settings of the router.
type RouterConfig struct {
	CORSOrigins    []string
	RequestTimeout time.Duration
}

// Router creates and configures the HTTP router
type Router struct {
	catalog      *services.CatalogService
	sync         handlers.SyncRunner
	metrics      *observability.Metrics
	logger       *zap.Logger
	errorHandler *errors.ErrorHandler
	cfg          RouterConfig
}

// NewRouter creates a new router instance. sync and metrics may be nil,
// which leaves POST /sync and GET /metrics unmounted.
func NewRouter(
	catalog *services.CatalogService,
	sync handlers.SyncRunner,
	metrics *observability.Metrics,
	logger *zap.Logger,
	errorHandler *errors.ErrorHandler,
	cfg RouterConfig,
) *Router {
	return &Router{
		catalog:      catalog,
		sync:         sync,
		metrics:      metrics,
		logger:       logger,
		errorHandler: errorHandler,
		cfg:          cfg,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Global middleware
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.Logger(rt.logger))
	router.Use(middleware.Metrics(rt.metrics))

	origins := rt.cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.Get("/health", handlers.Health(Version))
	if rt.metrics != nil {
		router.Handle("/metrics", rt.metrics.Handler())
	}

	router.Group(func(r chi.Router) {
		if rt.cfg.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(rt.cfg.RequestTimeout))
		}

		eventHandler := handlers.NewEventHandler(rt.catalog, rt.logger, rt.errorHandler)
		r.Route("/events", func(r chi.Router) {
			r.Get("/", eventHandler.ListEvents)
			r.Get("/{eventId}", eventHandler.GetEvent)
			r.Put("/{eventId}/listing-count", eventHandler.SetListingCount)
			r.Put("/{eventId}/featured", eventHandler.SetFeatured)
		})

		venueHandler := handlers.NewVenueHandler(rt.catalog, rt.logger, rt.errorHandler)
		r.Route("/venues", func(r chi.Router) {
			r.Get("/", venueHandler.ListVenues)
			r.Get("/{venueId}", venueHandler.GetVenue)
		})
	})

	// Sync runs far longer than a request timeout.
	if rt.sync != nil {
		router.Post("/sync", handlers.NewSyncHandler(rt.sync, rt.logger).Trigger)
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errorHandler.Handle(w, r, errors.NewNotFoundError("Route", "").WithDetail("path", r.URL.Path))
	})

	return router
}
