package bikesharetraffic

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/theoremus-urban-solutions/bikeshare-traffic/config"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/formatter"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/internal/log"
	"github.com/theoremus-urban-solutions/bikeshare-traffic/session"
)

var (
	server *http.Server
)

// Service serves one bike-share system over HTTP
type Service struct {
	registry *session.Registry
	mapCfg   config.MapConfig
	origins  []string
	cache    *ViewCache
	builder  payloadBuilder
}

type payloadBuilder interface {
	Build(format string, res any) ([]byte, error)
}

// NewService wires a registry to the HTTP handlers
func NewService(reg *session.Registry, cfg config.AppConfig) *Service {
	return &Service{
		registry: reg,
		mapCfg:   cfg.Map,
		origins:  cfg.Server.AllowedOrigins,
		cache:    NewViewCache(reg.Data(), reg.Options()),
		builder:  formatter.NewResponseBuilder(),
	}
}

// Router returns the chi router with every endpoint mounted
func (s *Service) Router() http.Handler {
	origins := s.origins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"*"},
		MaxAge:         300,
	}))

	r.Get("/api/health", s.handleHealth)
	r.Get("/api/stations", s.handleStations)
	r.Route("/api/sessions", func(r chi.Router) {
		r.Post("/", s.handleCreateSession)
		r.Get("/{id}/markers", s.handleMarkers)
		r.Delete("/{id}", s.handleDeleteSession)
	})
	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		log.Debugw("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

// StartServer starts listening on port in the background
func StartServer(svc *Service, port int) {
	addr := fmt.Sprintf(":%d", port)
	server = &http.Server{
		Addr:              addr,
		Handler:           svc.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          zap.NewStdLog(log.GetZapLogger()),
	}
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()
	log.Infow("server listening", "addr", addr, "system", svc.registry.Data().System)
}

// HandleGracefulShutdown blocks until SIGINT or SIGTERM, then stops the server
func HandleGracefulShutdown() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if server != nil {
		if err := server.Shutdown(ctx); err != nil {
			log.Errorw("server shutdown error", "error", err)
		} else {
			log.Info("server shut down successfully")
		}
	}
}
