package query

import (
	"time"

	"civicsync-dashboard/models"
)

// UpdateStatus returns a copy of issue moved to status, stamped with now.
// It leaves ResolvedAt alone even when moving to resolved; use
// MarkResolved for that.
func UpdateStatus(issue models.Issue, status models.IssueStatus, now time.Time) models.Issue {
	issue.Status = status
	issue.UpdatedAt = now
	return issue
}

// MarkResolved returns a copy of issue in the resolved state with both
// ResolvedAt and UpdatedAt set to now.
func MarkResolved(issue models.Issue, now time.Time) models.Issue {
	issue = UpdateStatus(issue, models.StatusResolved, now)
	resolvedAt := now
	issue.ResolvedAt = &resolvedAt
	return issue
}

// Assign returns a copy of issue routed to the given staff member. The
// status is forced to assigned whatever it was before.
func Assign(issue models.Issue, assigneeID, assigneeName, department string, now time.Time) models.Issue {
	issue.AssignedTo = &models.Assignee{
		ID:         assigneeID,
		Name:       assigneeName,
		Department: department,
	}
	issue.Status = models.StatusAssigned
	issue.UpdatedAt = now
	return issue
}
