package routes

import (
	"github.com/gin-gonic/gin"

	"civicsync-dashboard/controllers"
)

// SessionRoutes sets up the per-user workspace routes
func SessionRoutes(r *gin.Engine, sc *controllers.SessionController, auth gin.HandlerFunc) {
	ws := r.Group("/api/session", auth)
	{
		ws.GET("/issues", sc.GetWorkspaceIssues)
		ws.PUT("/filters", sc.ReplaceFilters)
		ws.POST("/filters/toggle", sc.ToggleFilter)
		ws.DELETE("/filters", sc.ClearFilters)
		ws.GET("/selection", sc.GetSelection)
		ws.DELETE("/selection", sc.ClearSelection)
	}
}

// MetaRoutes sets up the unauthenticated lookup routes
func MetaRoutes(r *gin.Engine) {
	r.GET("/ping", controllers.Ping)
	r.GET("/api/meta/labels", controllers.GetLabels)
}
