// Package server exposes the processor and the history over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bitrise-io/ai-verse-processor/common"
	"github.com/bitrise-io/ai-verse-processor/logger"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

// NewRouter wires the handlers, CORS and the metrics endpoint
func NewRouter(h *Handler, settings common.Server, gatherer prometheus.Gatherer) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	logger.Infow("CORS allowed origins", "urls", settings.AllowedOrigins)
	r.Use(cors.New(cors.Config{
		AllowOrigins: settings.AllowedOrigins,
		AllowMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	api := r.Group("/api")
	api.POST("/process", h.Process)
	api.GET("/history", h.GetHistory)
	api.GET("/history/:id", h.GetHistoryItem)
	api.POST("/history/:id/select", h.SelectHistoryItem)
	api.DELETE("/history", h.ClearHistory)

	r.GET("/health", h.GetHealth)
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.With("method", c.Request.Method, "path", c.FullPath()).Debugw("HTTP request",
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

// Run serves router on addr until ctx is cancelled, then shuts down gracefully
func Run(ctx context.Context, addr string, router http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	logger.Info("Shutting down server")
	return srv.Shutdown(shutdownCtx)
}
