package routes

import (
	"setshaba-be/controllers"

	"github.com/gin-gonic/gin"
)

// PortalRoutes sets up the public citizen routes
func PortalRoutes(r *gin.Engine, h *controllers.Handler) {
	api := r.Group("/api")
	{
		api.GET("/meta", h.GetMeta)
		api.GET("/home", h.GetHome)
		api.GET("/feedback", h.GetFeedback)
		api.POST("/feedback", h.SubmitFeedback)
		api.GET("/announcements", h.GetAnnouncements)
		api.GET("/events", h.GetEvents)
	}
}
