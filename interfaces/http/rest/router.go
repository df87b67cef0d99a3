package rest

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"parkwise/domain/core/valueobjects"
	"parkwise/infrastructure/config"
	"parkwise/interfaces/http/rest/handlers"
	"parkwise/interfaces/http/rest/middleware"
	"parkwise/pkg/auth"
	pkgerrors "parkwise/pkg/errors"
	"parkwise/pkg/observability"
)

// Handlers groups the route handlers.
type Handlers struct {
	Auth      *handlers.AuthHandler
	Buildings *handlers.BuildingHandler
	Offices   *handlers.OfficeHandler
	Vehicles  *handlers.VehicleHandler
	Parkings  *handlers.ParkingHandler
	Billing   *handlers.BillingHandler
	Health    *handlers.HealthHandler
}

// Router creates and configures the HTTP router
type Router struct {
	handlers     Handlers
	tokens       middleware.TokenValidator
	loginLimiter auth.RateLimiter
	collector    *observability.Collector
	tracer       *observability.Tracer
	cfg          *config.Config
	errors       *pkgerrors.ErrorHandler
	logger       *zap.Logger
}

// NewRouter creates a new router instance. collector may be nil when metrics
// are disabled.
func NewRouter(
	h Handlers,
	tokens middleware.TokenValidator,
	loginLimiter auth.RateLimiter,
	collector *observability.Collector,
	tracer *observability.Tracer,
	cfg *config.Config,
	errs *pkgerrors.ErrorHandler,
	logger *zap.Logger,
) *Router {
	return &Router{
		handlers:     h,
		tokens:       tokens,
		loginLimiter: loginLimiter,
		collector:    collector,
		tracer:       tracer,
		cfg:          cfg,
		errors:       errs,
		logger:       logger,
	}
}

// Setup configures all routes and middleware
func (rt *Router) Setup() *chi.Mux {
	router := chi.NewRouter()

	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(rt.tracer.Middleware)
	router.Use(rt.errors.Middleware)
	router.Use(middleware.Logger(rt.logger))
	if rt.collector != nil {
		router.Use(middleware.Metrics(rt.collector))
	}
	if rt.cfg.EnableCORS {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins: rt.cfg.CORSAllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders: []string{"X-Request-ID"},
			MaxAge:         300,
		}))
	}

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusNotFound, "Route not found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		rt.errors.HandleStatus(w, r, http.StatusMethodNotAllowed, "Method not allowed")
	})

	router.Get("/health", rt.handlers.Health.Health)
	router.Get("/ready", rt.handlers.Health.Ready)
	if rt.collector != nil {
		router.Method(http.MethodGet, "/metrics", rt.collector.Handler())
	}

	router.Route("/auth", func(r chi.Router) {
		r.Post("/register", rt.handlers.Auth.Register)
		r.With(middleware.RateLimit(rt.loginLimiter, rt.errors, rt.logger)).
			Post("/login", rt.handlers.Auth.Login)
	})
	router.Get("/offices", rt.handlers.Offices.GetOffices)

	authenticate := middleware.Authenticate(rt.tokens, rt.errors, rt.logger)

	// Provisioning
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireRole(rt.errors, valueobjects.RoleAdmin))

		r.Route("/buildings", func(r chi.Router) {
			r.Post("/", rt.handlers.Buildings.AddBuilding)
			r.Get("/", rt.handlers.Buildings.GetBuildings)
			r.Route("/{buildingId}", func(r chi.Router) {
				r.Post("/floors", rt.handlers.Buildings.AddFloor)
				r.Get("/floors", rt.handlers.Buildings.GetFloors)
				r.Get("/floors/{floorNumber}/slots", rt.handlers.Buildings.GetSlots)
				r.Post("/offices", rt.handlers.Offices.AddOffice)
			})
		})
		r.Delete("/offices/{officeId}", rt.handlers.Offices.DeleteOffice)
	})

	// Customer self-service
	router.Group(func(r chi.Router) {
		r.Use(authenticate)
		r.Use(middleware.RequireRole(rt.errors, valueobjects.RoleCustomer))

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", rt.handlers.Vehicles.GetVehicles)
			r.Post("/", rt.handlers.Vehicles.AddVehicle)
			r.Delete("/{numberplate}", rt.handlers.Vehicles.DeleteVehicle)
		})
		r.Route("/parkings", func(r chi.Router) {
			r.Post("/", rt.handlers.Parkings.Park)
			r.Get("/", rt.handlers.Parkings.GetParkings)
			r.Patch("/{numberplate}/unpark", rt.handlers.Parkings.Unpark)
		})
		r.Get("/billing", rt.handlers.Billing.GetBill)
	})

	return router
}
