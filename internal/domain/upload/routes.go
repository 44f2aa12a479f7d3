package upload

import "github.com/gin-gonic/gin"

func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/uploads/:name", h.Serve)
}
