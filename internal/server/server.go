package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"

	v1 "github.com/hanbit-dev/weekplan/internal/api/v1"
	"github.com/hanbit-dev/weekplan/internal/api/ws"
	"github.com/hanbit-dev/weekplan/internal/config"
	"github.com/hanbit-dev/weekplan/internal/feedback"
	"github.com/hanbit-dev/weekplan/internal/lifecycle"
	"github.com/hanbit-dev/weekplan/internal/server/middleware"
	"github.com/hanbit-dev/weekplan/internal/store/postgres"
	redisstore "github.com/hanbit-dev/weekplan/internal/store/redis"
)

// Server is the HTTP server that wires all application routes and middleware.
type Server struct {
	router     chi.Router
	httpServer *http.Server
	store      *postgres.Store
	tasks      *lifecycle.Service
	wsHub      *ws.Hub // nil when Redis is not configured
	cfg        *config.Config
}

// New creates a Server with all routes wired. pubsub may be nil; the
// websocket live feed is only mounted when it is provided.
func New(ctx context.Context, cfg *config.Config, store *postgres.Store, pubsub *redisstore.PubSub, tasks *lifecycle.Service, gen feedback.Generator) *Server {
	router := chi.NewRouter()

	// Global middleware stack.
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(chimw.Logger)
	router.Use(chimw.Recoverer)
	router.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.Server.CORSOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}).Handler)

	s := &Server{
		router: router,
		store:  store,
		tasks:  tasks,
		cfg:    cfg,
		httpServer: &http.Server{
			Addr:         cfg.Server.Addr,
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
		},
	}

	// Mount API routes on /api/v1.
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RateLimitByIP(ctx, 100, 200))

		apiConfig := huma.DefaultConfig("Weekplan API", "1.0.0")
		apiConfig.Servers = []*huma.Server{
			{URL: "/api/v1"},
		}
		api := humachi.New(r, apiConfig)

		v1.RegisterTaskRoutes(api, tasks)
		v1.RegisterEventRoutes(api, tasks)
		v1.RegisterAnalyticsRoutes(api, store.Analytics())
		v1.RegisterFeedbackRoutes(api, gen)
	})

	// WebSocket live feed, only when Redis is configured.
	if pubsub != nil {
		hub := ws.NewHub(pubsub)
		s.wsHub = hub
		router.Route("/ws", func(r chi.Router) {
			r.Get("/tasks", hub.ServeFeed)
			r.Get("/tasks/{taskID}", hub.ServeTask)
		})
		log.Info().Msg("live task feed enabled")
	}

	// Health check.
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	return s
}

// Start begins listening for HTTP requests.
func (s *Server) Start(_ context.Context) error {
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server.Start: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}
