package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	"server/internal/middleware"
)

type RouterOptions struct {
	Logger         zerolog.Logger
	JWTSecret      string
	AllowedOrigins []string
	Country        middleware.CountryLookup
	RateLimiter    *middleware.RateLimiter
}

func NewRouter(app *handlers.App, opts RouterOptions) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.Logger(opts.Logger),
		middleware.CORS(opts.AllowedOrigins),
		middleware.I18N("en", opts.Country),
	)
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Handler)
	}
	r.Use(middleware.OptionalAuthJWT(opts.JWTSecret))

	r.Get("/v1/healthz", app.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Post("/v1/auth/clerk", app.AuthClerkVerify)
	r.Route("/v1/chat", func(r chi.Router) {
		r.Post("/session", app.CreateSession)
		r.Get("/usage", app.MessageUsage)
	})
	r.Get("/v1/me/plan", app.CurrentPlan)
	r.Post("/v1/fit/analyze", app.AnalyzeJobFit)

	return r
}
