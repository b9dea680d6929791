package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"civicsync-dashboard/middlewares"
	"civicsync-dashboard/models"
	"civicsync-dashboard/services"
)

type IssueController struct {
	issues *services.IssueService
}

func NewIssueController(issues *services.IssueService) *IssueController {
	return &IssueController{issues: issues}
}

// GetDashboard returns counts over every issue plus the most recent ones
func (ic *IssueController) GetDashboard(c *gin.Context) {
	c.JSON(http.StatusOK, ic.issues.Dashboard())
}

// ListIssues handles retrieving issues with filtering and search
func (ic *IssueController) ListIssues(c *gin.Context) {
	spec, search, err := parseListQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ic.issues.List(spec, search))
}

// GetIssue retrieves a single issue by ID
func (ic *IssueController) GetIssue(c *gin.Context) {
	issue, err := ic.issues.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, issue)
}

// GetHistory lists the recorded updates of an issue, oldest first
func (ic *IssueController) GetHistory(c *gin.Context) {
	events, err := ic.issues.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// UpdateStatus moves an issue to a new status
func (ic *IssueController) UpdateStatus(c *gin.Context) {
	sess, ok := middlewares.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		Status models.IssueStatus `json:"status" binding:"required,issue_status"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	updated, err := ic.issues.UpdateStatus(c.Request.Context(), sess.User, id, input.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// AssignIssue routes an issue to a staff member
func (ic *IssueController) AssignIssue(c *gin.Context) {
	sess, ok := middlewares.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var input struct {
		AssigneeID   string `json:"assigneeId" binding:"required"`
		AssigneeName string `json:"assigneeName" binding:"required,max=100"`
		Department   string `json:"department" binding:"required,max=100"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	assignee := models.Assignee{ID: input.AssigneeID, Name: input.AssigneeName, Department: input.Department}
	updated, err := ic.issues.Assign(c.Request.Context(), sess.User, id, assignee)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}
