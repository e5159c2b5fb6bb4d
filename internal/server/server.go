// Package server provides the HTTP server setup and routing configuration.
package server

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lolitemaultes/NRTV/internal/api"
	"github.com/lolitemaultes/NRTV/internal/config"
	"github.com/lolitemaultes/NRTV/internal/db"
	"github.com/lolitemaultes/NRTV/internal/guide"
	"github.com/lolitemaultes/NRTV/internal/logger"
	"github.com/lolitemaultes/NRTV/internal/middleware"
	"github.com/lolitemaultes/NRTV/internal/syncer"
)

// Server represents the HTTP server
type Server struct {
	config *config.Config
	store  *guide.Store
	syncer *syncer.Syncer
	db     *db.DB // may be nil
	router *gin.Engine
	server *http.Server
}

// New creates a new server instance. database may be nil when the snapshot
// cache is disabled.
func New(cfg *config.Config, store *guide.Store, s *syncer.Syncer, database *db.DB) *Server {
	return &Server{
		config: cfg,
		store:  store,
		syncer: s,
		db:     database,
	}
}

// setupRouter initializes the Gin router with middleware and routes
func (s *Server) setupRouter() {
	if s.config.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s.router = gin.New()

	s.router.Use(middleware.RequestLogger()) // Custom zerolog request logger
	s.router.Use(gin.Recovery())             // Panic recovery
	s.router.Use(cors.Default())             // CORS support (grid UI may be served from elsewhere)

	// Channel grid UI
	staticDir := s.config.Server.StaticDir
	s.router.StaticFile("/", filepath.Join(staticDir, "index.html"))
	s.router.Static("/static", staticDir)

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := s.router.Group("/api")

	api.SetupHealthRoutes(apiGroup, s.store, s.syncer, s.db)
	api.SetupChannelRoutes(apiGroup, s.store)
	api.SetupGuideRoutes(apiGroup, s.store)
	api.SetupStreamRoutes(apiGroup, s.store, s.config.Upstream.UserAgent)
	api.SetupRefreshRoutes(apiGroup, s.syncer)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.setupRouter()

	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.server = &http.Server{
		Addr:           addr,
		Handler:        s.router,
		ReadTimeout:    s.config.Server.ReadTimeout,
		WriteTimeout:   s.config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // 1 MB
	}

	logger.Log.Info().
		Str("host", s.config.Server.Host).
		Int("port", s.config.Server.Port).
		Msg("Starting HTTP server")

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Log.Info().Msg("Shutting down server gracefully")

	if s.server != nil {
		if err := s.server.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
	}

	logger.Log.Info().Msg("Server stopped")
	return nil
}
