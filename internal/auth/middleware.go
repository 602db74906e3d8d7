package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/hafizkhan902/portfolio-backend/internal/admins"
)

// AdminFinder resolves a token's admin id to a live, active admin.
type AdminFinder interface {
	FindActiveByID(ctx context.Context, id int64) (*admins.Admin, error)
}

// RequireAdmin gates a route group behind a bearer token. The token is taken
// from the Authorization header ("Bearer ", "bearer " or a bare token), with
// the "token" query parameter or JSON body field as fallbacks. The resolved
// admin is attached to the request context.
func RequireAdmin(secret []byte, finder AdminFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)

		if token == "" {
			abort(c, "Access denied. No token provided.")
			return
		}
		if token == "null" || token == "undefined" {
			abort(c, "Access denied. Invalid token format.")
			return
		}

		adminID, err := ParseToken(secret, token)
		if err != nil {
			abort(c, "Access denied. Invalid token.")
			return
		}

		admin, err := finder.FindActiveByID(c.Request.Context(), adminID)
		if err != nil {
			if errors.Is(err, admins.ErrNotFound) {
				abort(c, "Access denied. Invalid token or inactive admin.")
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"message": "Authentication failed",
			})
			return
		}

		c.Set(ctxAdminKey, admin)
		c.Next()
	}
}

// RequireSuperAdmin additionally checks the acting admin's role. It must run
// after RequireAdmin.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		admin := CurrentAdmin(c)
		if admin == nil || admin.Role != admins.RoleSuperAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"message": "Access denied. Super admin privileges required.",
			})
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header != "" {
		lower := strings.ToLower(header)
		if strings.HasPrefix(lower, "bearer ") {
			return strings.TrimSpace(header[7:])
		}
		return strings.TrimSpace(header)
	}

	if t := c.Query("token"); t != "" {
		return t
	}

	return tokenFromBody(c)
}

// tokenFromBody peeks at a JSON body for a "token" field, restoring the body
// so downstream binding still sees it.
func tokenFromBody(c *gin.Context) string {
	if c.Request.Body == nil || !strings.Contains(c.ContentType(), "application/json") {
		return ""
	}

	data, err := io.ReadAll(c.Request.Body)
	c.Request.Body = io.NopCloser(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	var body struct {
		Token string `json:"token"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	return body.Token
}

func abort(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
