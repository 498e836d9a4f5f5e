package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"frizo/futures_grid/internal/config"
	"frizo/futures_grid/internal/logger"
	"frizo/futures_grid/internal/margin"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
)

const shutdownTimeout = 10 * time.Second

// Server serves the calculator to the dashboard's form layer.
type Server struct {
	cfg    *config.Config
	log    *logger.Logger
	router *gin.Engine
}

// NewServer wires routes and middleware.
func NewServer(cfg *config.Config, log *logger.Logger, table *margin.Table) *Server {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if table == nil {
		table = margin.Default()
	}

	router := gin.New()
	router.Use(RequestID())
	router.Use(Logger(log))
	router.Use(ErrorHandler(log))

	gridHandler := NewGridHandler(cfg.Formula(), table, cfg.PricePrecision, cfg.AmountPrecision, log)
	marginHandler := NewMarginHandler(table)

	router.GET("/health", Health)
	router.GET("/version", Version)

	api := router.Group("/api/v1")
	{
		api.POST("/grid/calculate", gridHandler.Calculate)
		api.GET("/margin/tiers", marginHandler.ListTiers)
	}

	router.NoRoute(func(c *gin.Context) {
		respondError(c, http.StatusNotFound, ErrorDetail{Code: CodeNotFound, Message: "Not found"})
	})

	return &Server{cfg: cfg, log: log, router: router}
}

// Handler returns the router wrapped with CORS.
func (s *Server) Handler() http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: s.cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
	}).Handler(s.router)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("API server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen on %s: %w", srv.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("Shutting down API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
