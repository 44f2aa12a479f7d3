package notification

import "github.com/gin-gonic/gin"

// RegisterRoutes registers the notification routes on an authenticated group.
func (h *Handler) RegisterRoutes(protected gin.IRouter) {
	notifGroup := protected.Group("/notifications")
	{
		notifGroup.GET("", h.GetNotifications)
		notifGroup.POST("/read-all", h.MarkAllAsRead)
		notifGroup.POST("/:id/read", h.MarkAsRead)
	}
}

// RegisterWSRoutes mounts the live feed outside the JWT header middleware.
func (h *WSHandler) RegisterWSRoutes(r gin.IRouter) {
	r.GET("/ws/applications", h.HandleWebSocket)
}
