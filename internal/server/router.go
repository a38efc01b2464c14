// Package server assembles the HTTP surface: middleware chain, API routes,
// probes and the embedded page.
package server

import (
	"context"
	"net/http"
	"time"

	"bookshelf/internal/book"
	"bookshelf/internal/config"
	"bookshelf/internal/httpx"
	"bookshelf/internal/web"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sirupsen/logrus"
)

// Pinger reports whether the database answers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Books  *book.HTTPHandler
	DB     Pinger
	Log    logrus.FieldLogger
	Config config.ServerConfig
}

// NewRouter wires every route. ctx bounds background work owned by the
// router, such as rate limiter cleanup.
func NewRouter(ctx context.Context, d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(httpx.RequestIDMiddleware)
	r.Use(httpx.AccessLogMiddleware(d.Log))
	r.Use(httpx.RecoveryMiddleware(d.Log))
	r.Use(httpx.SecurityHeadersMiddleware(d.Config.EnableHSTS))
	if len(d.Config.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   d.Config.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Origin", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", readyHandler(d.DB))

	r.Get("/", web.IndexHandler())
	r.Handle("/static/*", web.AssetHandler())

	r.Route("/api/entries", func(api chi.Router) {
		api.Use(httpx.RequestSizeLimitMiddleware(d.Config.MaxBodyBytes))
		if d.Config.RateLimitRPS > 0 {
			api.Use(httpx.NewRateLimitMiddleware(ctx, d.Config.RateLimitRPS, d.Config.RateLimitBurst).Middleware)
		}

		api.Get("/", d.Books.List)
		api.Post("/", d.Books.Create)
		api.Delete("/isbn/{isbn}", d.Books.DeleteByISBN)
		api.Put("/{isbn}/location", d.Books.UpdateLocation)
	})

	return r
}

func readyHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := db.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	}
}
