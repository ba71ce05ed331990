package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// authMiddleware checks for a valid session token and stashes the owning
// user id on the request context. Every protected handler trusts only
// this user id for scoping.
func (s *Server) authMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		auth := c.Request().Header.Get("Authorization")
		if auth == "" {
			return apiError(c, http.StatusUnauthorized, "authorization required")
		}

		token := strings.TrimPrefix(auth, "Bearer ")
		if token == auth {
			return apiError(c, http.StatusUnauthorized, "invalid authorization format")
		}

		var userID, expiresAt string
		err := s.db.QueryRow(s.rebind(`
			SELECT user_id, expires_at FROM sessions WHERE token = ?`),
			token,
		).Scan(&userID, &expiresAt)
		if err != nil {
			return apiError(c, http.StatusUnauthorized, "invalid token")
		}

		if time.Now().After(parseTime(expiresAt)) {
			return apiError(c, http.StatusUnauthorized, "token expired")
		}

		c.Set("user_id", userID)
		c.Set("token", token)
		return next(c)
	}
}
