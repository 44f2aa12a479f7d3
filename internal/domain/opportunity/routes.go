package opportunity

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts /projects and /internships. Reads are open to any
// authenticated caller; writes go through adminOnly.
func (h *Handler) RegisterRoutes(api gin.IRouter, adminOnly gin.HandlerFunc) {
	for _, t := range []struct {
		path string
		typ  Type
	}{
		{"/projects", TypeProject},
		{"/internships", TypeInternship},
	} {
		g := api.Group(t.path)
		{
			g.GET("", h.list(t.typ))
			g.GET("/:id", h.get(t.typ))
			g.POST("", adminOnly, h.create(t.typ))
			g.PUT("/:id", adminOnly, h.update(t.typ))
			g.DELETE("/:id", adminOnly, h.delete(t.typ))
		}
	}
}
