package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"owltrack/internal/pkg/authctx"
	"owltrack/internal/pkg/response"
)

// AdminOnly requires an admin auth context set by Identity.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		ac, ok := authctx.From(c)
		if !ok {
			response.CustomError(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			return
		}
		if !ac.IsAdmin {
			response.CustomError(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
			return
		}
		c.Next()
	}
}
