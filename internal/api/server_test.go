package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/asset-disposition/internal/models"
	"github.com/asset-disposition/internal/service"
	"github.com/asset-disposition/internal/types"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// mockModelService implements ModelServiceInterface for handler tests,
// recording the arguments of the last call
type mockModelService struct {
	modelResult   *models.ModelResult
	modelErr      error
	comparison    *service.StrategyComparison
	comparisonErr error
	poolResult    *service.PoolResult
	poolErr       error
	overrideErr   error
	priceErr      error

	lastAssetID   string
	lastStrategy  types.Strategy
	lastScenario  types.Scenario
	lastField     service.DurationField
	lastMonths    int
	lastPrice     decimal.Decimal
	lastPoolInput *service.PoolInput
}

func (m *mockModelService) GetModel(ctx context.Context, assetID string, strategy types.Strategy, scenario types.Scenario) (*models.ModelResult, error) {
	m.lastAssetID = assetID
	m.lastStrategy = strategy
	m.lastScenario = scenario
	return m.modelResult, m.modelErr
}

func (m *mockModelService) GetComparison(ctx context.Context, assetID string, scenario types.Scenario) (*service.StrategyComparison, error) {
	m.lastAssetID = assetID
	m.lastScenario = scenario
	return m.comparison, m.comparisonErr
}

func (m *mockModelService) RunPool(ctx context.Context, input *service.PoolInput) (*service.PoolResult, error) {
	m.lastPoolInput = input
	return m.poolResult, m.poolErr
}

func (m *mockModelService) SetDurationOverride(ctx context.Context, assetID string, field service.DurationField, deltaMonths int) error {
	m.lastAssetID = assetID
	m.lastField = field
	m.lastMonths = deltaMonths
	return m.overrideErr
}

func (m *mockModelService) SetAcquisitionPrice(ctx context.Context, assetID string, price decimal.Decimal) error {
	m.lastAssetID = assetID
	m.lastPrice = price
	return m.priceErr
}

// Helper function to create test server backed by the mock service
func createTestServer(svc ModelServiceInterface) *Server {
	config := &ServerConfig{
		Host:         "localhost",
		Port:         "8080",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
		FreeTierRPS:  100,
		PaidTierRPS:  1000,
	}

	server := &Server{
		router:       mux.NewRouter(),
		modelService: svc,
		config:       config,
	}
	server.setupRouter()
	return server
}

// decodeErrorBody decodes the standard error envelope
func decodeErrorBody(t *testing.T, w *httptest.ResponseRecorder) types.ServiceError {
	t.Helper()
	var resp ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return resp.Error
}

// TestHealthEndpoint tests the health check endpoint
func TestHealthEndpoint(t *testing.T) {
	server := createTestServer(&mockModelService{})

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %s", body["status"])
	}
}

// TestUnknownRoute tests that unregistered paths return 404
func TestUnknownRoute(t *testing.T) {
	server := createTestServer(&mockModelService{})

	req := httptest.NewRequest("GET", "/api/unknown", nil)
	w := httptest.NewRecorder()

	server.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

// TestRateLimiting tests that a user exhausting their burst gets 429
func TestRateLimiting(t *testing.T) {
	// A tiny refill rate so only the burst of 10 is available
	limiter := NewRateLimiter(1, 1000)

	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	var lastCode int
	for i := 0; i < 11; i++ {
		req := httptest.NewRequest("GET", "/api/assets/asset-1/fc-model", nil)
		req.Header.Set("X-User-ID", "user-123")
		req.Header.Set("X-User-Tier", "free")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		lastCode = w.Code
	}

	if lastCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429 after exhausting burst, got %d", lastCode)
	}
}

// TestRateLimiting_SeparateUsers tests that limits are tracked per user
func TestRateLimiting_SeparateUsers(t *testing.T) {
	limiter := NewRateLimiter(1, 1000)
	handler := RateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 11; i++ {
		req := httptest.NewRequest("GET", "/health", nil)
		req.Header.Set("X-User-ID", "user-a")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
	}

	// A different user still has a full burst
	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set("X-User-ID", "user-b")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200 for fresh user, got %d", w.Code)
	}
}
