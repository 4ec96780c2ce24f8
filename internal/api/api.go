package api

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/authcore-io/authcore/internal/auth"
	"github.com/authcore-io/authcore/internal/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Api wires the HTTP surface over the auth service.
type Api struct {
	Config config.Config
	Auth   *auth.Service
	Router *chi.Mux
}

// NewApi creates the API with its routes set up.
func NewApi(cfg config.Config, svc *auth.Service) *Api {
	api := &Api{
		Config: cfg,
		Auth:   svc,
		Router: chi.NewRouter(),
	}
	api.setupRoutes()
	return api
}

func (api *Api) setupRoutes() {
	r := api.Router

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// Public routes
	r.Post("/register", api.RegisterHandler)
	r.Post("/token", api.TokenHandler)

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(api.BearerAuthMiddleware)
		r.Get("/me", api.MeHandler)
	})
}

// Serve starts the HTTP server on the configured port.
func (api *Api) Serve() error {
	addr := fmt.Sprintf(":%d", api.Config.APIPort)
	log.Printf("API listening on %s", addr)

	server := &http.Server{
		Addr:              addr,
		Handler:           api.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return server.ListenAndServe()
}
