package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"aivenger/internal/http/handlers"
	"aivenger/internal/middleware"
)

// NewRouter assembles the HTTP surface. countryLookup may be nil when GeoIP
// is not configured.
func NewRouter(app *handlers.App, countryLookup middleware.CountryLookup) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(app.Logger, countryLookup),
		middleware.CORS([]string{app.Config.AppURL}),
		middleware.RateLimit(app.Config.RateLimitPerMin, time.Minute),
	)

	r.Get("/v1/healthz", app.Health)
	r.Get("/v1/stats", app.StatsSummary)
	r.Method(http.MethodGet, "/metrics", app.Metrics.Handler())

	if app.Config.StorageBackend == "filesystem" {
		r.Get("/static/*", app.BlobDownload)
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthJWT(app.Config.JWTSecret))

		r.Route("/v1/generations", func(r chi.Router) {
			r.Post("/", app.GenerationsCreate)
			r.Get("/", app.GenerationsList)
			r.Delete("/{id}", app.GenerationsDelete)
		})

		r.Get("/v1/me/stats", app.MeStats)
	})

	return r
}
