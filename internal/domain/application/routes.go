package application

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the lifecycle endpoints on an authenticated group.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.POST("/apply_project/:project_id", h.ApplyProject)
	api.POST("/apply_internship", h.ApplyInternship)
	api.GET("/my_applications", h.MyApplications)

	for _, kind := range Kinds {
		g := api.Group("/" + kind.Table)
		{
			g.GET("", h.listAll(kind))
			g.GET("/mine", h.listMine(kind))
			g.PUT("/:id/submission", h.submit(kind))
			g.PUT("/:id/status", h.decide(kind))
		}
	}
}
