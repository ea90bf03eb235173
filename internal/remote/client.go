// Package remote is the client for the weektrack sync server. It holds the
// session for the signed-in account and implements the identity-scoped
// persistence contract used by the remote strategy.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/existflow/weektrack/internal/config"
	"github.com/existflow/weektrack/internal/logger"
	"github.com/existflow/weektrack/internal/model"
	"github.com/existflow/weektrack/internal/wire"
)

// DefaultServerURL is used until a server is configured
const DefaultServerURL = "http://localhost:8080"

var (
	// ErrNotLoggedIn is returned by data calls without a session
	ErrNotLoggedIn = errors.New("not logged in, run 'weektrack auth login' first")
	// ErrNotFound is returned when the server has no such record for the user
	ErrNotFound = errors.New("record not found")
)

// Config holds the remote session
type Config struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	ExpiresAt string `json:"expires_at,omitempty"`
}

// Client is the sync server client
type Client struct {
	config     *Config
	configPath string
	httpClient *http.Client
}

// NewClient creates a client using ~/.weektrack/remote.json
func NewClient() (*Client, error) {
	base := config.BaseDir()
	if base == "" {
		return nil, fmt.Errorf("failed to resolve home directory")
	}
	return NewClientAt(filepath.Join(base, "remote.json")), nil
}

// NewClientAt creates a client whose session is stored at configPath
func NewClientAt(configPath string) *Client {
	c := &Client{
		configPath: configPath,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	c.loadConfig()
	return c
}

func (c *Client) loadConfig() {
	c.config = &Config{ServerURL: DefaultServerURL}

	data, err := os.ReadFile(c.configPath)
	if err != nil {
		return
	}
	if err := json.Unmarshal(data, c.config); err != nil {
		logger.Warn("Ignoring unreadable remote config", logger.F("path", c.configPath), logger.Err(err))
		c.config = &Config{ServerURL: DefaultServerURL}
	}
	if c.config.ServerURL == "" {
		c.config.ServerURL = DefaultServerURL
	}
}

func (c *Client) saveConfig() error {
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c.config, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(c.configPath, data, 0600)
}

// SetServer sets the sync server URL
func (c *Client) SetServer(serverURL string) error {
	u, err := url.Parse(serverURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server url %q", serverURL)
	}
	c.config.ServerURL = strings.TrimRight(serverURL, "/")
	return c.saveConfig()
}

// IsLoggedIn returns true if a session token is stored
func (c *Client) IsLoggedIn() bool {
	return c.config.Token != ""
}

// GetStatus returns the server URL and signed-in user id
func (c *Client) GetStatus() (string, string) {
	return c.config.ServerURL, c.config.UserID
}

// UserID returns the signed-in user id
func (c *Client) UserID() string {
	return c.config.UserID
}

type authResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
	UserID    string `json:"user_id"`
}

// Register creates a new account and stores its session
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	return c.authenticate(ctx, "/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
}

// Login authenticates with username and password and stores the session
func (c *Client) Login(ctx context.Context, username, password string) error {
	return c.authenticate(ctx, "/login", map[string]string{
		"username": username,
		"password": password,
	})
}

func (c *Client) authenticate(ctx context.Context, path string, body map[string]string) error {
	var result authResponse
	if err := c.send(ctx, http.MethodPost, path, body, &result, false); err != nil {
		return fmt.Errorf("%s failed: %w", strings.TrimPrefix(path, "/"), err)
	}

	c.config.Token = result.Token
	c.config.UserID = result.UserID
	c.config.ExpiresAt = result.ExpiresAt
	return c.saveConfig()
}

// Logout ends the session on the server, then forgets it locally. The local
// session is cleared even if the server cannot be reached.
func (c *Client) Logout(ctx context.Context) error {
	if c.IsLoggedIn() {
		if err := c.send(ctx, http.MethodPost, "/logout", nil, nil, true); err != nil {
			logger.Warn("Server logout failed", logger.Err(err))
		}
	}

	c.config.Token = ""
	c.config.UserID = ""
	c.config.ExpiresAt = ""
	return c.saveConfig()
}

// Me returns the signed-in account
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var user model.User
	err := c.send(ctx, http.MethodGet, "/me", nil, &user, true)
	return user, err
}

// LoadTimers returns all timers owned by the signed-in user
func (c *Client) LoadTimers(ctx context.Context) ([]model.Timer, error) {
	var records []wire.TimerRecord
	if err := c.send(ctx, http.MethodGet, "/timers", nil, &records, true); err != nil {
		return nil, err
	}

	timers := make([]model.Timer, 0, len(records))
	for _, r := range records {
		timers = append(timers, wire.ToTimer(r))
	}
	return timers, nil
}

// LoadHistory returns archived weeks, most recent first
func (c *Client) LoadHistory(ctx context.Context) ([]model.WeekHistory, error) {
	var records []wire.HistoryRecord
	if err := c.send(ctx, http.MethodGet, "/history", nil, &records, true); err != nil {
		return nil, err
	}

	history := make([]model.WeekHistory, 0, len(records))
	for _, r := range records {
		h, err := wire.ToHistory(r)
		if err != nil {
			return nil, err
		}
		history = append(history, h)
	}
	return history, nil
}

// SaveTimer creates or replaces a timer record
func (c *Client) SaveTimer(ctx context.Context, t model.Timer) error {
	return c.send(ctx, http.MethodPost, "/timers", wire.FromTimer(t, c.config.UserID), nil, true)
}

// RemoveTimer deletes a timer record. A missing record is not an error.
func (c *Client) RemoveTimer(ctx context.Context, id string) error {
	err := c.send(ctx, http.MethodDelete, "/timers/"+url.PathEscape(id), nil, nil, true)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// PatchTimer updates the given record keys. A missing record is not an error.
func (c *Client) PatchTimer(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	err := c.send(ctx, http.MethodPatch, "/timers/"+url.PathEscape(id), fields, nil, true)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	return err
}

// AppendHistory stores an archived week
func (c *Client) AppendHistory(ctx context.Context, h model.WeekHistory) error {
	record, err := wire.FromHistory(h, c.config.UserID)
	if err != nil {
		return err
	}
	return c.send(ctx, http.MethodPost, "/history", record, nil, true)
}

// send performs a JSON request against /api/v1. out may be nil.
func (c *Client) send(ctx context.Context, method, path string, body, out any, auth bool) error {
	if auth && !c.IsLoggedIn() {
		return ErrNotLoggedIn
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.ServerURL+"/api/v1"+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%s %s: %s", method, path, errorMessage(resp))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// errorMessage extracts the server's {"error": ...} message, falling back to
// the status text
func errorMessage(resp *http.Response) string {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(data, &body) == nil && body.Error != "" {
		return body.Error
	}
	if len(data) > 0 {
		return strings.TrimSpace(string(data))
	}
	return resp.Status
}
