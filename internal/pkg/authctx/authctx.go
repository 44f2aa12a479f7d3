// Package authctx carries the caller identity resolved once per request.
package authctx

import "github.com/gin-gonic/gin"

const contextKey = "auth_context"

// AuthContext is the typed capability handed to every lifecycle operation.
type AuthContext struct {
	UserID  int64
	IsAdmin bool
}

func Set(c *gin.Context, ac AuthContext) {
	c.Set(contextKey, ac)
	c.Set("user_id", ac.UserID)
}

func From(c *gin.Context) (AuthContext, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return AuthContext{}, false
	}
	ac, ok := v.(AuthContext)
	if !ok || ac.UserID == 0 {
		return AuthContext{}, false
	}
	return ac, true
}
