// Package httpapi assembles the middleware chain and route table.
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"impact/internal/http/handlers"
	"impact/internal/middleware"
	"impact/web"
)

// Options configures the cross-cutting middleware.
type Options struct {
	Logger            zerolog.Logger
	CountryLookup     middleware.CountryLookup
	AllowedOrigins    []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// NewRouter builds the full HTTP handler: global middleware, the JSON API
// under /api and the embedded client everywhere else.
func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID,
		chimiddleware.RealIP,
		middleware.AccessLog(opts.Logger, opts.CountryLookup),
		chimiddleware.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
		middleware.RateLimit(opts.RateLimitRequests, opts.RateLimitWindow),
	)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.Health)
		r.Post("/register", app.Register)
		r.Post("/login", app.Login)

		r.Get("/dashboard", app.Authed(app.GetDashboard))
		r.Post("/donations", app.Authed(app.CreateDonation))
		r.Post("/conversions", app.Authed(app.CreateConversion))
		r.Post("/media", app.Authed(app.CreateMediaShare))
		r.Post("/campaigns", app.Authed(app.CreateCampaign))
	})

	r.Handle("/*", web.Handler())

	return r
}
