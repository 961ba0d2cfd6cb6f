package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fzokart/fzokart-orders-service/internal/config"
	"github.com/fzokart/fzokart-orders-service/internal/handlers"
	"github.com/fzokart/fzokart-orders-service/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func TestRoutes(t *testing.T) {
	cfg := &config.Config{Environment: "test", Server: config.ServerConfig{Port: 8082}}
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	m.Quotes.WithLabelValues("preview").Inc()

	h := handlers.NewHandlers(nil, nil, nil, cfg, zap.NewNop())
	srv := New(h, registry, cfg, zap.NewNop())

	tests := []struct {
		path     string
		wantCode int
		contains string
	}{
		{"/health", http.StatusOK, "healthy"},
		{"/live", http.StatusOK, "alive"},
		{"/ready", http.StatusOK, "ready"},
		{"/metrics", http.StatusOK, "fzokart_pricing_quotes_total"},
		{"/api/v1/unknown", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))

			if w.Code != tt.wantCode {
				t.Errorf("Expected status %d, got %d", tt.wantCode, w.Code)
			}
			if tt.contains != "" && !strings.Contains(w.Body.String(), tt.contains) {
				t.Errorf("Expected body to contain %q", tt.contains)
			}
			if w.Header().Get("X-Request-Id") == "" {
				t.Error("Expected a request id header")
			}
		})
	}
}
