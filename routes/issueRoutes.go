package routes

import (
	"github.com/gin-gonic/gin"

	"civicsync-dashboard/controllers"
)

// IssueRoutes sets up the dashboard and issue routes. Updates go through
// the per-user rate limiter.
func IssueRoutes(r *gin.Engine, ic *controllers.IssueController, sc *controllers.SessionController, auth, limiter gin.HandlerFunc) {
	r.GET("/api/dashboard", auth, ic.GetDashboard)

	issues := r.Group("/api/issues", auth)
	{
		issues.GET("", ic.ListIssues)
		issues.GET("/:id", ic.GetIssue)
		issues.GET("/:id/history", ic.GetHistory)
		issues.PATCH("/:id/status", limiter, ic.UpdateStatus)
		issues.POST("/:id/assign", limiter, ic.AssignIssue)
		issues.POST("/:id/select", sc.SelectIssue)
	}
}
