package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-telegram/bot/models"
	"go.uber.org/zap"
)

const HealthText = "Bot is running!"

// UpdateProcessor is satisfied by *bot.Bot.
type UpdateProcessor interface {
	ProcessUpdate(ctx context.Context, upd *models.Update)
}

type Server struct {
	http   *http.Server
	ctx    context.Context
	logger *zap.Logger
}

// New builds the HTTP server. webhookPath may be empty, in which case only
// the health check is served. Updates are processed under ctx, not the
// request context.
func New(ctx context.Context, port string, webhookPath string, processor UpdateProcessor, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{ctx: ctx, logger: logger}
	s.http = &http.Server{
		Addr:         ":" + port,
		Handler:      s.router(webhookPath, processor),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

func (s *Server) router(webhookPath string, processor UpdateProcessor) *gin.Engine {
	router := gin.New()
	router.Use(requestLogger(s.logger), gin.Recovery())

	router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, HealthText)
	})

	if webhookPath != "" && processor != nil {
		router.POST(webhookPath, s.webhook(processor))
	}
	return router
}

// webhook always answers 200; Telegram retries anything else and a broken
// update would be redelivered forever. The update is handed over before
// answering so that updates reach the processor in delivery order; the
// processor only routes and queues, so this returns quickly.
func (s *Server) webhook(processor UpdateProcessor) gin.HandlerFunc {
	return func(c *gin.Context) {
		var update models.Update
		if err := c.ShouldBindJSON(&update); err != nil {
			s.logger.Warn("[Server.webhook] bad update", zap.Error(err))
			c.Status(http.StatusOK)
			return
		}

		s.process(processor, &update)
		c.Status(http.StatusOK)
	}
}

func (s *Server) process(processor UpdateProcessor, u *models.Update) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("[Server.process] update panicked", zap.Int64("update_id", u.ID), zap.Any("panic", r))
		}
	}()
	processor.ProcessUpdate(s.ctx, u)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[Server.Run] listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("[Server.Run] graceful shutdown failed", zap.Error(err))
		return err
	}
	s.logger.Info("[Server.Run] stopped")
	return nil
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("[Server] request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("took", time.Since(start)))
	}
}
