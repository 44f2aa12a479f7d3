package auth

import "github.com/gin-gonic/gin"

// RegisterPublicRoutes mounts /auth; limit runs before every handler.
func (h *Handler) RegisterPublicRoutes(r gin.IRouter, limit ...gin.HandlerFunc) {
	authGroup := r.Group("/auth", limit...)
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/admin-login", h.AdminLogin)
	}
}

// RegisterAdminRoutes expects a group already guarded by AdminOnly.
func (h *Handler) RegisterAdminRoutes(admin gin.IRouter) {
	admin.GET("/users", h.ListUsers)
}
