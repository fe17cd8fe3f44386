package router

import (
	"net/http"

	handler "product-catalog/internal/handler/http"
	middleware_http "product-catalog/internal/middleware/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Options struct {
	// APIPrefix is where the product routes are mounted, e.g. "/api".
	// Empty mounts them at the root.
	APIPrefix string
	Products  *handler.ProductHandler
	// Health is optional.
	Health *handler.HealthHandler
}

// New builds the HTTP handler for the service.
func New(opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware_http.TraceMiddleware)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodGet, http.MethodHead, http.MethodPut,
			http.MethodPatch, http.MethodPost, http.MethodDelete,
		},
		// Any header a preflight asks for is allowed.
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{middleware_http.TraceIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if opts.Health != nil {
		r.Get("/healthz", opts.Health.Check)
	}

	products := func(r chi.Router) {
		r.Post("/products", opts.Products.Create)
		r.Get("/products", opts.Products.List)
		r.Post("/products/{"+handler.IDParam+"}/review", opts.Products.AddReview)
		r.Delete("/products/{"+handler.IDParam+"}", opts.Products.Delete)
	}

	if opts.APIPrefix == "" {
		products(r)
	} else {
		r.Route(opts.APIPrefix, products)
	}

	return r
}
