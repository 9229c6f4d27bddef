package routes

import (
	"setshaba-be/controllers"
	"setshaba-be/middlewares"

	"github.com/gin-gonic/gin"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, h *controllers.Handler, auth gin.HandlerFunc) {
	group := r.Group("/api/auth")
	{
		group.POST("/register", h.RegisterUser)
		group.POST("/login", h.LoginUser)
		group.POST("/admin/login", h.AdminLogin)
		group.POST("/logout", h.LogoutUser)
		group.GET("/me", auth, h.GetMe)
	}
}

// adminOnly chains token verification with the role check.
func adminOnly(auth gin.HandlerFunc) []gin.HandlerFunc {
	return []gin.HandlerFunc{auth, middlewares.RequireAdmin()}
}
