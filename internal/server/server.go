package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fzokart/fzokart-orders-service/internal/config"
	"github.com/fzokart/fzokart-orders-service/internal/handlers"
	"github.com/fzokart/fzokart-orders-service/internal/logging"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Server struct {
	config     *config.Config
	router     *gin.Engine
	handlers   *handlers.Handlers
	httpServer *http.Server
	logger     *zap.Logger
}

// New builds the HTTP server. gatherer backs /metrics.
func New(h *handlers.Handlers, gatherer prometheus.Gatherer, cfg *config.Config, logger *zap.Logger) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.GinMiddleware(logger))

	s := &Server{
		config:   cfg,
		router:   router,
		handlers: h,
		logger:   logger.Named("server"),
	}
	s.setupRoutes(gatherer)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	return s
}

func (s *Server) setupRoutes(gatherer prometheus.Gatherer) {
	s.router.GET("/health", s.handlers.Health)
	s.router.GET("/ready", s.handlers.Ready)
	s.router.GET("/live", s.handlers.Live)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/orders/preview", s.handlers.PreviewOrder)
		v1.POST("/orders", s.handlers.CreateOrder)
		v1.GET("/orders/:id", s.handlers.GetOrder)
		v1.POST("/orders/:id/payment", s.handlers.UpdatePayment)
		v1.GET("/users/:userId/orders", s.handlers.ListUserOrders)

		v1.POST("/pricing/gst", s.handlers.CartGST)
		v1.GET("/pricing/delivery", s.handlers.DeliveryCharge)
		v1.GET("/pricing/config", s.handlers.PricingConfig)
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("Starting server", zap.String("addr", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
