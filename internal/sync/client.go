// Package sync talks to the ConstructPro projects API. The client keeps
// its server URL and session token in ~/.constructpro/session.json and
// translates between the wire schema and the in-memory model.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hardhatlabs/constructpro/internal/logger"
	"github.com/hardhatlabs/constructpro/internal/model"
)

// Config holds the client's durable connection state
type Config struct {
	ServerURL string `json:"server_url"`
	Token     string `json:"token"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

// Client is the projects API client
type Client struct {
	config     *Config
	configPath string
	httpClient *http.Client
}

// NewClient creates a client, loading any stored session state.
func NewClient(serverURL string) (*Client, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	c := &Client{
		configPath: filepath.Join(home, ".constructpro", "session.json"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}

	c.loadConfig()
	if serverURL != "" {
		c.config.ServerURL = serverURL
	}

	return c, nil
}

func (c *Client) loadConfig() {
	data, err := os.ReadFile(c.configPath)
	if err != nil {
		c.config = &Config{ServerURL: "http://localhost:8080"}
		return
	}

	c.config = &Config{}
	if err := json.Unmarshal(data, c.config); err != nil {
		logger.Warn("Stored session file is corrupt, starting fresh", logger.F("error", err))
		c.config = &Config{ServerURL: "http://localhost:8080"}
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

// SetServer sets the API server URL
func (c *Client) SetServer(url string) error {
	c.config.ServerURL = url
	return c.saveConfig()
}

// IsLoggedIn returns true if a session token is stored
func (c *Client) IsLoggedIn() bool {
	return c.config.Token != ""
}

// Identity returns the stored account, built from the last login.
func (c *Client) Identity() model.User {
	return model.User{
		ID:       c.config.UserID,
		Username: c.config.Username,
		Email:    c.config.Email,
	}
}

type authResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// Register creates a new account and stores the resulting session.
func (c *Client) Register(ctx context.Context, username, email, password string) error {
	var result authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, &result)
	if err != nil {
		return err
	}

	c.config.Token = result.Token
	c.config.UserID = result.UserID
	c.config.Username = username
	c.config.Email = email
	return c.saveConfig()
}

// Login authenticates with username and password.
func (c *Client) Login(ctx context.Context, username, password string) error {
	var result authResponse
	err := c.do(ctx, http.MethodPost, "/api/v1/login", map[string]string{
		"username": username,
		"password": password,
	}, &result)
	if err != nil {
		return err
	}

	c.config.Token = result.Token
	c.config.UserID = result.UserID
	c.config.Username = username
	return c.saveConfig()
}

// Logout clears the stored session.
func (c *Client) Logout() error {
	c.config.Token = ""
	c.config.UserID = ""
	c.config.Username = ""
	c.config.Email = ""
	return c.saveConfig()
}

// Me fetches the authenticated account from the server.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	var result struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Role     string `json:"role"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/me", nil, &result); err != nil {
		return model.User{}, err
	}
	return model.User{ID: result.ID, Username: result.Username, Email: result.Email, Role: result.Role}, nil
}

// do performs one API call: JSON request body, bearer token, JSON
// response. Non-2xx responses are turned into errors carrying the
// server's error message.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	url := c.config.ServerURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	logger.Debug("API request", logger.F("method", method), logger.F("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("API request failed", logger.F("url", url), logger.F("error", err))
		return fmt.Errorf("failed to connect: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	logger.Debug("API response", logger.F("url", url), logger.F("status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, string(respBody))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
