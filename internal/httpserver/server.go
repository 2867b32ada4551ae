package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/loghaven/loghaven/internal/gateway"
	"github.com/loghaven/loghaven/internal/model"
	"github.com/loghaven/loghaven/internal/search"
	"github.com/loghaven/loghaven/internal/stats"
)

// AdminStore is the narrow store contract required by the management
// endpoints (server, API key and log source administration) and health.
type AdminStore interface {
	CreateServer(ctx context.Context, srv *model.Server) (int64, error)
	GetServer(ctx context.Context, id int64) (*model.Server, error)
	ListServers(ctx context.Context) ([]model.Server, error)
	UpdateServer(ctx context.Context, srv *model.Server) error
	SetServerActive(ctx context.Context, id int64, active bool) error
	TouchHeartbeat(ctx context.Context, id int64) error

	CreateAPIKey(ctx context.Context, key *model.APIKey) (int64, error)
	ListAPIKeys(ctx context.Context) ([]model.APIKey, error)
	ListAPIKeysByServer(ctx context.Context, serverID int64) ([]model.APIKey, error)
	SetAPIKeyActive(ctx context.Context, keyID int64, active bool) error

	CreateLogSource(ctx context.Context, src *model.LogSource) (int64, error)
	ListLogSourcesByServer(ctx context.Context, serverID int64) ([]model.LogSource, error)

	TotalLogCount(ctx context.Context) (int64, error)
}

// Config holds HTTP server settings.
type Config struct {
	Addr string
	// ReleaseMode hides storage error detail from untrusted submitters.
	ReleaseMode bool
	// AllowedOrigins restricts browser dashboards; empty allows any origin.
	AllowedOrigins []string
}

// Server provides the HTTP API: log ingestion, search, statistics, and the
// administrative surface for servers, API keys and log sources.
type Server struct {
	cfg      Config
	gw       *gateway.Gateway
	engine   *search.Engine
	reporter *stats.Reporter
	admin    AdminStore

	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates the HTTP API server. Dependencies are injected; the
// server owns no store lifecycle.
func NewServer(cfg Config, gw *gateway.Gateway, engine *search.Engine, reporter *stats.Reporter, admin AdminStore) *Server {
	if cfg.Addr == "" {
		cfg.Addr = "0.0.0.0:8080"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		cfg:      cfg,
		gw:       gw,
		engine:   engine,
		reporter: reporter,
		admin:    admin,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	if s.cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.corsMiddleware())
	s.registerRoutes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	conf := cors.DefaultConfig()
	conf.AllowMethods = []string{"GET", "POST", "PUT", "HEAD"}
	conf.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	if len(s.cfg.AllowedOrigins) > 0 {
		conf.AllowOrigins = s.cfg.AllowedOrigins
	} else {
		conf.AllowAllOrigins = true
	}
	return cors.New(conf)
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)

	r.POST("/api/logs/ingest", s.handleIngest)
	r.POST("/api/logs/search", s.handleSearch)
	r.GET("/api/logs/server/:id", s.handleServerLogs)
	r.GET("/api/statistics/:id", s.handleStatistics)

	r.POST("/api/servers", s.handleCreateServer)
	r.GET("/api/servers", s.handleListServers)
	r.GET("/api/servers/:id", s.handleGetServer)
	r.PUT("/api/servers/:id", s.handleUpdateServer)
	r.POST("/api/servers/:id/heartbeat", s.handleHeartbeat)
	r.POST("/api/servers/:id/deactivate", s.handleDeactivateServer)
	r.GET("/api/servers/:id/apikeys", s.handleListServerAPIKeys)
	r.GET("/api/servers/:id/logsources", s.handleListServerLogSources)

	r.POST("/api/apikeys", s.handleCreateAPIKey)
	r.GET("/api/apikeys", s.handleListAPIKeys)
	r.POST("/api/apikeys/:id/deactivate", s.handleDeactivateAPIKey)

	r.POST("/api/logsources", s.handleCreateLogSource)
}

func (s *Server) handleHealth(c *gin.Context) {
	logCount, err := s.admin.TotalLogCount(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read health metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"uptime":    time.Since(s.startTime).String(),
		"log_count": logCount,
	})
}
