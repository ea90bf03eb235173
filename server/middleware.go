package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/weektrack/internal/logger"
	"github.com/labstack/echo/v4"
)

const (
	contextUserID = "user_id"
	contextToken  = "token"
	contextLogger = "logger"
)

// requestLogger attaches a logger tagged with the request id, then logs the
// request and its outcome. It must run after middleware.RequestID.
func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		req := c.Request()

		log := logger.WithFields(logger.F("request_id", c.Response().Header().Get(echo.HeaderXRequestID)))
		c.Set(contextLogger, log)

		err := next(c)
		if err != nil {
			c.Error(err)
		}

		res := c.Response()
		fields := []logger.Field{
			logger.F("method", req.Method),
			logger.F("uri", req.RequestURI),
			logger.F("status", res.Status),
			logger.F("size", res.Size),
			logger.F("duration", time.Since(start).String()),
		}
		if res.Status >= http.StatusInternalServerError {
			log.Warn("HTTP Response", fields...)
		} else {
			log.Info("HTTP Response", fields...)
		}

		return nil
	}
}

// requestLog returns the logger for the current request
func requestLog(c echo.Context) *logger.Logger {
	if log, ok := c.Get(contextLogger).(*logger.Logger); ok {
		return log
	}
	return logger.WithFields()
}

// authMiddleware checks for valid session token
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		// Get token from Authorization header
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return errorJSON(c, http.StatusUnauthorized, "authorization required")
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth || token == "" {
			return errorJSON(c, http.StatusUnauthorized, "invalid authorization format")
		}

		// Validate session
		session, err := s.store.GetSession(c.Request().Context(), token)
		if errors.Is(err, ErrNotFound) {
			return errorJSON(c, http.StatusUnauthorized, "invalid token")
		}
		if err != nil {
			return internalError(c, "Session lookup failed", err)
		}

		if session.IsExpired() {
			return errorJSON(c, http.StatusUnauthorized, "token expired")
		}

		c.Set(contextUserID, session.UserID)
		c.Set(contextLogger, requestLog(c).WithFields(logger.F("user_id", session.UserID)))
		c.Set(contextToken, token)
		return next(c)
	}
}
