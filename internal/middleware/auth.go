package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"owltrack/internal/pkg/authctx"
	"owltrack/internal/pkg/jwt"
	"owltrack/internal/pkg/response"
)

// JWTAuth validates the bearer token and stores user_id and role.
func JWTAuth(jwtService *jwt.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.CustomError(c, http.StatusUnauthorized, "AUTH_HEADER_MISSING", "Authorization header is required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			response.CustomError(c, http.StatusUnauthorized, "INVALID_AUTH_FORMAT", "Authorization header must be 'Bearer <token>'")
			return
		}

		claims, err := jwtService.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

// AdminLookup answers whether a user currently holds admin privilege.
type AdminLookup interface {
	IsAdmin(ctx context.Context, userID int64) (bool, error)
}

// Identity resolves the caller's admin flag once and stores the typed
// auth context for handlers. It must run after JWTAuth.
func Identity(lookup AdminLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetInt64("user_id")
		if userID == 0 {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}

		isAdmin, err := lookup.IsAdmin(c.Request.Context(), userID)
		if err != nil {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Unknown user")
			return
		}

		authctx.Set(c, authctx.AuthContext{UserID: userID, IsAdmin: isAdmin})
		c.Next()
	}
}
