package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"familytrips/internal/security"
)

// RouterConfig holds the HTTP concerns configured outside the handlers
type RouterConfig struct {
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
}

// Deps are the collaborators the router wires into handlers
type Deps struct {
	Families    FamilyService
	Itineraries ItineraryService
	Tokens      *security.TokenManager
	DB          Pinger
}

// NewRouter builds the API router
func NewRouter(cfg RouterConfig, deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(RequestID)
	r.Use(Logging)
	r.Use(chimiddleware.Recoverer)
	r.Use(Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, r, http.StatusNotFound, "Route not found", "", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondWithError(w, r, http.StatusMethodNotAllowed, "Method not allowed", "", nil)
	})

	if deps.DB != nil {
		r.Get("/healthz", Health(deps.DB))
	}
	r.Handle("/metrics", promhttp.Handler())

	itineraries := NewItineraryHandler(deps.Itineraries)
	families := NewFamilyHandler(deps.Families)

	r.Route("/api", func(r chi.Router) {
		r.Use(rateLimit(cfg))

		r.Get("/tags", Tags)

		r.Route("/itineraries", func(r chi.Router) {
			r.Get("/", itineraries.List)
			r.Get("/{id}", itineraries.Get)

			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin(deps.Tokens))
				r.Post("/", itineraries.Create)
				r.Put("/{id}", itineraries.Update)
				r.Delete("/{id}", itineraries.Delete)
			})
		})

		r.Route("/families", func(r chi.Router) {
			r.Post("/", families.Onboard)
			r.Route("/by-device/{device_id}", func(r chi.Router) {
				r.Get("/", families.GetProfile)
				r.Put("/", families.UpdateProfile)
				r.Post("/members", families.AddMember)
				r.Put("/members/{member_id}", families.UpdateMember)
				r.Delete("/members/{member_id}", families.RemoveMember)
			})
		})
	})

	return r
}

func rateLimit(cfg RouterConfig) func(http.Handler) http.Handler {
	if cfg.RateLimitDisabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	return httprate.Limit(
		cfg.RateLimitRequests,
		cfg.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			respondWithError(w, r, http.StatusTooManyRequests, "Too many requests", "", nil)
		}),
	)
}
