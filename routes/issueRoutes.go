package routes

import (
	"setshaba-be/controllers"

	"github.com/gin-gonic/gin"
)

// IssueRoutes sets up the citizen issue routes
func IssueRoutes(r *gin.Engine, h *controllers.Handler, auth, limiter gin.HandlerFunc) {
	issue := r.Group("/api/issue")
	{
		issue.GET("", h.GetAllIssues)
		issue.GET("/options", h.GetIssueFormOptions)
		issue.POST("/create", auth, limiter, h.CreateIssue)
		issue.GET("/:id", h.GetIssue)
		issue.GET("/:id/card", h.GetIssueCard)
	}
}
