package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/existflow/weektrack/internal/logger"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// sessionTTL is how long a login stays valid
const sessionTTL = 30 * 24 * time.Hour

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
}

// handleRegister handles user registration
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	// Validate
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return errorJSON(c, http.StatusBadRequest, "username, email, and password required")
	}

	if len(req.Password) < 8 {
		return errorJSON(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	// Hash password
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return internalError(c, "Password hashing failed", err)
	}

	ctx := c.Request().Context()
	userID, err := s.store.CreateUser(ctx, req.Username, req.Email, string(hash))
	if errors.Is(err, ErrConflict) {
		return errorJSON(c, http.StatusConflict, "username or email already exists")
	}
	if err != nil {
		return internalError(c, "Failed to create user", err)
	}

	resp, err := s.createSession(c, userID)
	if err != nil {
		return internalError(c, "Failed to create session", err)
	}

	requestLog(c).Info("User registered", logger.F("username", req.Username), logger.F("user_id", userID))
	return c.JSON(http.StatusOK, resp)
}

// handleLogin handles user login
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "invalid request")
	}

	user, err := s.store.GetUserByUsername(c.Request().Context(), strings.TrimSpace(req.Username))
	if errors.Is(err, ErrNotFound) {
		return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return internalError(c, "User lookup failed", err)
	}

	// Check password
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return errorJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	resp, err := s.createSession(c, user.ID)
	if err != nil {
		return internalError(c, "Failed to create session", err)
	}

	requestLog(c).Info("User logged in", logger.F("username", user.Username))
	return c.JSON(http.StatusOK, resp)
}

// handleMe returns current user info
func (s *Server) handleMe(c echo.Context) error {
	user, err := s.store.GetUser(c.Request().Context(), currentUser(c))
	if errors.Is(err, ErrNotFound) {
		return errorJSON(c, http.StatusNotFound, "user not found")
	}
	if err != nil {
		return internalError(c, "User lookup failed", err)
	}

	return c.JSON(http.StatusOK, user)
}

// handleLogout revokes the session used for this request
func (s *Server) handleLogout(c echo.Context) error {
	token, _ := c.Get(contextToken).(string)
	if err := s.store.DeleteSession(c.Request().Context(), token); err != nil {
		return internalError(c, "Failed to delete session", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// createSession creates a new session for a user
func (s *Server) createSession(c echo.Context, userID string) (authResponse, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return authResponse{}, err
	}
	token := hex.EncodeToString(tokenBytes)
	expiresAt := time.Now().Add(sessionTTL)

	if err := s.store.CreateSession(c.Request().Context(), userID, token, expiresAt); err != nil {
		return authResponse{}, err
	}

	return authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		UserID:    userID,
	}, nil
}
