// Package server is the weektrack sync server: account sessions plus
// per-user timer and history records over a JSON API.
package server

import (
	"context"
	"net/http"

	"github.com/existflow/weektrack/internal/logger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Server is the sync server
type Server struct {
	store Store
	echo  *echo.Echo
}

// New connects to PostgreSQL at dbURL and creates a server over it
func New(ctx context.Context, dbURL string) (*Server, error) {
	store, err := OpenPostgres(ctx, dbURL)
	if err != nil {
		return nil, err
	}
	return NewWithStore(store), nil
}

// NewWithStore creates a server over an existing store
func NewWithStore(store Store) *Server {
	s := &Server{store: store}
	s.setupEcho()
	return s
}

func (s *Server) setupEcho() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(requestLogger)
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.BodyLimit("1M"))

	// Health check
	e.GET("/health", s.handleHealth)

	// API v1
	api := e.Group("/api/v1")

	// Auth endpoints (public)
	api.POST("/register", s.handleRegister)
	api.POST("/login", s.handleLogin)

	// Protected endpoints
	protected := api.Group("")
	protected.Use(s.authMiddleware)
	protected.GET("/me", s.handleMe)
	protected.POST("/logout", s.handleLogout)

	protected.GET("/timers", s.handleListTimers)
	protected.POST("/timers", s.handleSaveTimer)
	protected.PATCH("/timers/:id", s.handlePatchTimer)
	protected.DELETE("/timers/:id", s.handleDeleteTimer)

	protected.GET("/history", s.handleListHistory)
	protected.POST("/history", s.handleAppendHistory)

	s.echo = e
}

// Close closes the store
func (s *Server) Close() error {
	return s.store.Close()
}

// Router returns the HTTP handler
func (s *Server) Router() http.Handler {
	return s.echo
}

// Start starts the server
func (s *Server) Start(addr string) error {
	logger.Info("Sync server listening", logger.F("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown stops accepting requests and waits for in-flight ones
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func errorJSON(c echo.Context, status int, msg string) error {
	return c.JSON(status, map[string]string{"error": msg})
}

func internalError(c echo.Context, msg string, err error) error {
	requestLog(c).Error(msg,
		logger.F("method", c.Request().Method),
		logger.F("uri", c.Request().RequestURI),
		logger.Err(err))
	return errorJSON(c, http.StatusInternalServerError, "internal error")
}

func currentUser(c echo.Context) string {
	userID, _ := c.Get(contextUserID).(string)
	return userID
}
