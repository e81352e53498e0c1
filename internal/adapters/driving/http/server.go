package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	nethttp "net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-audio/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP API server.
type Server struct {
	ports  *Ports
	config Config
	router *gin.Engine
}

// NewServer creates a server with its routes and middleware installed.
func NewServer(ports *Ports, cfg Config) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, err
	}

	s := &Server{ports: ports, config: cfg}
	s.router = s.buildRouter()
	return s, nil
}

func (s *Server) buildRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware())
	if s.ports.Metrics != nil {
		router.Use(metricsMiddleware(s.ports.Metrics))
	}

	router.GET("/healthz", handleHealth)
	if s.ports.Metrics != nil {
		router.GET("/metrics", gin.WrapH(s.ports.Metrics.Handler()))
	}

	api := router.Group("/")
	if s.config.RateLimit > 0 {
		burst := s.config.RateBurst
		if burst < 1 {
			burst = 1
		}
		api.Use(rateLimitMiddleware(rate.NewLimiter(rate.Limit(s.config.RateLimit), burst)))
	}
	if s.config.MaxUploadBytes > 0 {
		api.Use(bodyLimitMiddleware(s.config.MaxUploadBytes))
	}
	if s.config.RequestTimeout > 0 {
		api.Use(timeoutMiddleware(s.config.RequestTimeout))
	}
	api.POST("/upload", s.handleUpload)
	api.POST("/chat", s.handleChat)

	return router
}

// Handler returns the router for use with httptest or a custom listener.
func (s *Server) Handler() nethttp.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then
// drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &nethttp.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	logger.Info("HTTP API listening on %s", ln.Addr())

	select {
	case err := <-errCh:
		if errors.Is(err, nethttp.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
