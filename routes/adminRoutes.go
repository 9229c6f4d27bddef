package routes

import (
	"setshaba-be/controllers"

	"github.com/gin-gonic/gin"
)

// AdminRoutes sets up the administrator routes
func AdminRoutes(r *gin.Engine, h *controllers.Handler, auth gin.HandlerFunc) {
	admin := r.Group("/api/admin", adminOnly(auth)...)
	{
		admin.GET("/dashboard", h.GetDashboard)
		admin.GET("/nav", h.GetAdminNav)
		admin.GET("/issues", h.ManageIssues)
		admin.POST("/issues", h.AdminCreateIssue)
		admin.PATCH("/issues/:id", h.UpdateIssue)
		admin.PATCH("/feedback/:id", h.UpdateFeedbackStatus)
		admin.POST("/announcements", h.PostAnnouncement)
		admin.POST("/events", h.PostEvent)
	}
}
