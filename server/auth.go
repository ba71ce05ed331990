package server

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

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

// handleRegister handles account registration
func (s *Server) handleRegister(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request")
	}

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apiError(c, http.StatusBadRequest, "username, email, and password required")
	}
	if len(req.Password) < 8 {
		return apiError(c, http.StatusBadRequest, "password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.Logger().Error("bcrypt error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}

	userID := uuid.NewString()
	_, err = s.db.Exec(s.rebind(`
		INSERT INTO users (id, username, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, 'manager', ?)`),
		userID, req.Username, req.Email, string(hash), now(),
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return apiError(c, http.StatusConflict, "username or email already exists")
		}
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}

	token, expiresAt, err := s.createSession(userID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		UserID:    userID,
	})
}

// handleLogin handles user login
func (s *Server) handleLogin(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request")
	}

	var userID, passwordHash string
	err := s.db.QueryRow(s.rebind(`
		SELECT id, password_hash FROM users WHERE username = ?`),
		req.Username,
	).Scan(&userID, &passwordHash)
	if err != nil {
		return apiError(c, http.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(req.Password)); err != nil {
		return apiError(c, http.StatusUnauthorized, "invalid credentials")
	}

	token, expiresAt, err := s.createSession(userID)
	if err != nil {
		c.Logger().Error("session error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		UserID:    userID,
	})
}

// handleMe returns the authenticated account
func (s *Server) handleMe(c echo.Context) error {
	userID := c.Get("user_id").(string)

	var username, email, role string
	err := s.db.QueryRow(s.rebind(`
		SELECT username, email, role FROM users WHERE id = ?`),
		userID,
	).Scan(&username, &email, &role)
	if err != nil {
		return apiError(c, http.StatusNotFound, "user not found")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"id":       userID,
		"username": username,
		"email":    email,
		"role":     role,
	})
}

// handleLogout invalidates the presented session token
func (s *Server) handleLogout(c echo.Context) error {
	token := c.Get("token").(string)
	if _, err := s.db.Exec(s.rebind(`DELETE FROM sessions WHERE token = ?`), token); err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

// createSession creates a new session for a user
func (s *Server) createSession(userID string) (string, time.Time, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", time.Time{}, err
	}
	token := hex.EncodeToString(tokenBytes)

	// Sessions expire in 30 days
	expiresAt := time.Now().UTC().Add(30 * 24 * time.Hour)

	_, err := s.db.Exec(s.rebind(`
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)`),
		uuid.NewString(), userID, token, expiresAt.Format(time.RFC3339), now(),
	)

	return token, expiresAt, err
}
