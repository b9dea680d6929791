package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"civicsync-dashboard/middlewares"
	"civicsync-dashboard/models"
	"civicsync-dashboard/query"
	"civicsync-dashboard/services"
	"civicsync-dashboard/session"
)

// SessionController serves the per-user workspace: saved filters, search
// term and the issue open in the detail view.
type SessionController struct {
	issues   *services.IssueService
	sessions *session.Manager
}

func NewSessionController(issues *services.IssueService, sessions *session.Manager) *SessionController {
	return &SessionController{issues: issues, sessions: sessions}
}

type workspaceResponse struct {
	Filters     query.FilterSpec `json:"filters"`
	Search      string           `json:"search"`
	ActiveCount int              `json:"activeCount"`
}

func workspaceOf(sess *session.Session) workspaceResponse {
	return workspaceResponse{
		Filters:     sess.Filters,
		Search:      sess.Search,
		ActiveCount: sess.Filters.ActiveCount(),
	}
}

// selectionResponse carries the selected issue as it is in the store now.
type selectionResponse struct {
	Issue *models.Issue `json:"issue"`
}

// GetWorkspaceIssues lists issues through the filters saved in the session
func (sc *SessionController) GetWorkspaceIssues(c *gin.Context) {
	sess, ok := sc.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"workspace": workspaceOf(sess),
		"result":    sc.issues.List(sess.Filters, sess.Search),
	})
}

// ReplaceFilters overwrites the saved filters
func (sc *SessionController) ReplaceFilters(c *gin.Context) {
	sess, ok := sc.current(c)
	if !ok {
		return
	}

	var input struct {
		Category []models.IssueCategory `json:"category" binding:"omitempty,dive,issue_category"`
		Priority []models.IssuePriority `json:"priority" binding:"omitempty,dive,issue_priority"`
		Status   []models.IssueStatus   `json:"status" binding:"omitempty,dive,issue_status"`
		Location string                 `json:"location" binding:"max=200"`
		Start    string                 `json:"start"`
		End      string                 `json:"end"`
		Search   *string                `json:"search" binding:"omitempty,max=200"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dates, err := parseDateRange(input.Start, input.End)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sc.updateWorkspace(c, sess.ID, func(s *session.Session) error {
		s.Filters = query.FilterSpec{
			Category:  input.Category,
			Priority:  input.Priority,
			Status:    input.Status,
			Location:  strings.TrimSpace(input.Location),
			DateRange: dates,
		}
		if input.Search != nil {
			s.Search = *input.Search
		}
		return nil
	})
}

// ToggleFilter adds or removes one value of a set dimension
func (sc *SessionController) ToggleFilter(c *gin.Context) {
	sess, ok := sc.current(c)
	if !ok {
		return
	}

	var input struct {
		Dimension query.Dimension `json:"dimension" binding:"required,filter_dimension"`
		Value     string          `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !validDimensionValue(input.Dimension, input.Value) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + string(input.Dimension) + " " + input.Value})
		return
	}

	sc.updateWorkspace(c, sess.ID, func(s *session.Session) error {
		next, err := s.Filters.Toggle(input.Dimension, input.Value)
		if err != nil {
			return err
		}
		s.Filters = next
		return nil
	})
}

// ClearFilters resets the saved filters and search term
func (sc *SessionController) ClearFilters(c *gin.Context) {
	sess, ok := sc.current(c)
	if !ok {
		return
	}
	sc.updateWorkspace(c, sess.ID, func(s *session.Session) error {
		s.Filters = query.FilterSpec{}
		s.Search = ""
		return nil
	})
}

// SelectIssue opens an issue in the detail view
func (sc *SessionController) SelectIssue(c *gin.Context) {
	sess, ok := sc.current(c)
	if !ok {
		return
	}
	issue, err := sc.issues.Get(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	updated, err := sc.sessions.Update(c.Request.Context(), sess.ID, func(s *session.Session) error {
		s.Selection.Select(issue.ID)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, selectionResponse{Issue: sc.issues.Selected(updated.Selection)})
}

// GetSelection returns the issue open in the detail view, if any
func (sc *SessionController) GetSelection(c *gin.Context) {
	sess, ok := sc.current(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, selectionResponse{Issue: sc.issues.Selected(sess.Selection)})
}

// ClearSelection closes the detail view
func (sc *SessionController) ClearSelection(c *gin.Context) {
	sess, ok := sc.current(c)
	if !ok {
		return
	}
	_, err := sc.sessions.Update(c.Request.Context(), sess.ID, func(s *session.Session) error {
		s.Selection.Clear()
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (sc *SessionController) current(c *gin.Context) (*session.Session, bool) {
	sess, ok := middlewares.CurrentSession(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
	}
	return sess, ok
}

func (sc *SessionController) updateWorkspace(c *gin.Context, id string, fn func(*session.Session) error) {
	updated, err := sc.sessions.Update(c.Request.Context(), id, fn)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, workspaceOf(updated))
}
