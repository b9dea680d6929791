package routes

import (
	"github.com/gin-gonic/gin"

	"civicsync-dashboard/controllers"
)

// AuthRoutes sets up the authentication routes
func AuthRoutes(r *gin.Engine, ac *controllers.AuthController, auth gin.HandlerFunc) {
	group := r.Group("/api/auth")
	{
		group.POST("/login", ac.Login)
		group.POST("/logout", auth, ac.Logout)
		group.GET("/me", auth, ac.GetMe)
	}
}
