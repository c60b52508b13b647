package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/ai-rio/lgpd-sentinel/internal/audit"
	"github.com/ai-rio/lgpd-sentinel/internal/cache"
	"github.com/ai-rio/lgpd-sentinel/internal/config"
	"github.com/ai-rio/lgpd-sentinel/internal/logger"
	"github.com/ai-rio/lgpd-sentinel/internal/notify"
	"github.com/ai-rio/lgpd-sentinel/internal/pii"
	"github.com/ai-rio/lgpd-sentinel/internal/web"
	"github.com/ai-rio/lgpd-sentinel/internal/websocket"
)

// Server exposes the PII engine over HTTP. All collaborators are
// injected; the server owns no global state.
type Server struct {
	config   *config.Config
	logger   *logger.Logger
	engine   *pii.Engine
	router   *mux.Router
	server   *http.Server
	wsHub    *websocket.Hub
	notifier *notify.Notifier

	// Optional collaborators, nil when disabled in config.
	auditStore *audit.Store
	scanCache  *cache.ScanCache

	limiter   *rateLimiter
	startTime time.Time

	totalScans      int64
	totalDetections int64
}

// New creates a new server instance. auditStore and scanCache may be nil.
func New(cfg *config.Config, log *logger.Logger, engine *pii.Engine, auditStore *audit.Store, scanCache *cache.ScanCache) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("engine is required")
	}

	// Create WebSocket hub
	wsHub := websocket.NewHub(&websocket.HubConfig{
		BroadcastPIIDetections: cfg.WebSocket.Events.BroadcastDetections,
		BroadcastScans:         cfg.WebSocket.Events.BroadcastScans,
		BroadcastNotifications: true,
		BroadcastSystem:        cfg.WebSocket.Events.BroadcastSystem,
		BroadcastConnections:   cfg.WebSocket.Events.BroadcastConnections,
	}, log.WithComponent("websocket").Logger)

	// Create router
	router := mux.NewRouter()

	server := &Server{
		config:     cfg,
		logger:     log.WithComponent("server"),
		engine:     engine,
		router:     router,
		wsHub:      wsHub,
		notifier:   notify.New(wsHub, log.WithComponent("notify").Logger),
		auditStore: auditStore,
		scanCache:  scanCache,
		startTime:  time.Now(),
	}

	if cfg.RateLimit.Enabled {
		server.limiter = newRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
	}

	// Setup routes
	server.setupRoutes()

	// Create HTTP server
	server.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Info endpoint
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	// Dashboard page
	dashboard := web.Dashboard(s.config.Server.DashboardDir)
	s.router.HandleFunc("/", dashboard).Methods("GET")
	s.router.HandleFunc("/dashboard", dashboard).Methods("GET")

	// WebSocket endpoint for dashboard
	if s.config.WebSocket.Enabled {
		s.router.HandleFunc(s.config.WebSocket.Path, s.handleWebSocket).Methods("GET")
	}

	// Scan API endpoints
	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware)
	api.Use(s.rateLimitMiddleware)
	api.HandleFunc("/scan", s.handleScan).Methods("POST")
	api.HandleFunc("/mask", s.handleMask).Methods("POST")
	api.HandleFunc("/compliance", s.handleCompliance).Methods("POST")
	api.HandleFunc("/summary", s.handleSummary).Methods("POST")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("Starting LGPD-Sentinel server",
		zap.Int("port", s.config.Server.Port),
		zap.Int("patterns", s.engine.Catalog().Len()),
		zap.Bool("audit_enabled", s.auditStore != nil),
		zap.Bool("cache_enabled", s.scanCache != nil),
	)

	// Start WebSocket hub in a separate goroutine
	go s.wsHub.Run()

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping LGPD-Sentinel server")
	return s.server.Shutdown(ctx)
}

// handleHealth handles health check requests
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
}

// handleInfo handles info requests
func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{
		"name":"lgpd-sentinel",
		"version":"0.1.0",
		"patterns":%d,
		"total_scans":%d,
		"total_detections":%d,
		"uptime":"%s"
	}`, s.engine.Catalog().Len(),
		atomic.LoadInt64(&s.totalScans),
		atomic.LoadInt64(&s.totalDetections),
		time.Since(s.startTime).Round(time.Second))
}

// handleWebSocket handles WebSocket connections for the dashboard
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.wsHub.HandleWebSocket(w, r)
}

// GetWebSocketHub returns the WebSocket hub for broadcasting events
func (s *Server) GetWebSocketHub() *websocket.Hub {
	return s.wsHub
}
