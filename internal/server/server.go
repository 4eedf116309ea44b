// Package server exposes the task pipeline over HTTP: JSON snapshots of both
// lists, server-sent events on every publication and one route per action.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	log "github.com/sirupsen/logrus"

	"notes/internal/pipeline"
	"notes/internal/service"
)

const shutdownTimeout = 5 * time.Second

// Server serves one pipeline.Store.
type Server struct {
	store  *pipeline.Store
	logger log.FieldLogger
	echo   *echo.Echo
}

// New creates a Server with every route registered.
func New(store *pipeline.Store, logger log.FieldLogger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{store: store, logger: logger, echo: e}
	e.Use(s.logRequests)
	s.register(e)
	return s
}

func (s *Server) register(e *echo.Echo) {
	e.GET("/tasks/active", s.getActive)
	e.GET("/tasks/completed", s.getCompleted)
	e.GET("/stream", s.stream)

	e.POST("/tasks", s.addTask)
	e.PUT("/tasks/:id", s.updateTask)
	e.POST("/tasks/:id/complete", s.setCompleted(true))
	e.POST("/tasks/:id/uncomplete", s.setCompleted(false))
	e.POST("/tasks/:id/favorite", s.setFavorite(true))
	e.POST("/tasks/:id/unfavorite", s.setFavorite(false))
	e.DELETE("/tasks/:id", s.deleteTask)
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.echo }

// Run listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.echo.Start(addr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		if err := next(c); err != nil {
			// Commit the error response so its status is logged.
			c.Error(err)
		}
		s.logger.WithFields(log.Fields{
			"method":   c.Request().Method,
			"path":     c.Path(),
			"status":   c.Response().Status,
			"duration": time.Since(start),
		}).Debug("request")
		return nil
	}
}

// httpError maps a failure kind to a status code.
func httpError(err error) error {
	f := service.AsFailure(err)
	code := http.StatusInternalServerError
	switch f.Kind {
	case service.Validation:
		code = http.StatusBadRequest
	case service.NotFound:
		code = http.StatusNotFound
	case service.Connectivity:
		code = http.StatusServiceUnavailable
	}
	return echo.NewHTTPError(code, f.Msg)
}
