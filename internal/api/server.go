// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/asset-disposition/internal/logging"
	"github.com/asset-disposition/internal/models"
	"github.com/asset-disposition/internal/service"
	"github.com/asset-disposition/internal/types"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// Service interfaces for dependency injection and testing

// ModelServiceInterface defines the interface for model service operations
type ModelServiceInterface interface {
	GetModel(ctx context.Context, assetID string, strategy types.Strategy, scenario types.Scenario) (*models.ModelResult, error)
	GetComparison(ctx context.Context, assetID string, scenario types.Scenario) (*service.StrategyComparison, error)
	RunPool(ctx context.Context, input *service.PoolInput) (*service.PoolResult, error)
	SetDurationOverride(ctx context.Context, assetID string, field service.DurationField, deltaMonths int) error
	SetAcquisitionPrice(ctx context.Context, assetID string, price decimal.Decimal) error
}

// Server represents the HTTP API server.
type Server struct {
	router       *mux.Router
	httpServer   *http.Server
	modelService ModelServiceInterface
	config       *ServerConfig
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	FreeTierRPS     int // Requests per second for free tier
	PaidTierRPS     int // Requests per second for paid tier
}

// NewServer creates a new API server instance.
func NewServer(config *ServerConfig, modelService ModelServiceInterface) *Server {
	s := &Server{
		router:       mux.NewRouter(),
		modelService: modelService,
		config:       config,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.FreeTierRPS, s.config.PaidTierRPS)

	// Set up middleware (order matters!)
	s.router.Use(LoggingMiddleware)
	s.router.Use(RecoveryMiddleware)
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter)) // Rate limiting after CORS
	s.router.Use(CompressionMiddleware)

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check endpoint
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	api := s.router.PathPrefix("/api").Subrouter()

	// Model read endpoints
	api.HandleFunc("/assets/{id}/fc-model", s.handleGetFCModel).Methods("GET")
	api.HandleFunc("/assets/{id}/reo-model", s.handleGetREOModel).Methods("GET")
	api.HandleFunc("/assets/{id}/model", s.handleGetComparison).Methods("GET")

	// Override write endpoints
	api.HandleFunc("/assets/{id}/fc-duration-override", s.handleSetFCDurationOverride).Methods("POST")
	api.HandleFunc("/assets/{id}/reo-duration-override", s.handleSetREODurationOverride).Methods("POST")
	api.HandleFunc("/assets/{id}/renovation-duration-override", s.handleSetRenovationDurationOverride).Methods("POST")
	api.HandleFunc("/assets/{id}/marketing-duration-override", s.handleSetMarketingDurationOverride).Methods("POST")
	api.HandleFunc("/assets/{id}/acquisition-price", s.handleSetAcquisitionPrice).Methods("POST")

	// Pool endpoint
	api.HandleFunc("/pools/model", s.handleRunPool).Methods("POST")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "asset-disposition",
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	logging.Infof("Starting API server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down API server...")
	return s.httpServer.Shutdown(ctx)
}
