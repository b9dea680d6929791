package models

import (
	"time"
)

// IssueCategory enum
type IssueCategory string

const (
	CategoryPothole     IssueCategory = "pothole"
	CategoryStreetlight IssueCategory = "streetlight"
	CategoryTrash       IssueCategory = "trash"
	CategoryGraffiti    IssueCategory = "graffiti"
	CategoryWaterLeak   IssueCategory = "water_leak"
	CategoryTrafficSign IssueCategory = "traffic_sign"
	CategoryOther       IssueCategory = "other"
)

// IssuePriority enum, ordered by severity
type IssuePriority string

const (
	PriorityLow    IssuePriority = "low"
	PriorityMedium IssuePriority = "medium"
	PriorityHigh   IssuePriority = "high"
	PriorityUrgent IssuePriority = "urgent"
)

// IssueStatus enum
type IssueStatus string

const (
	StatusNew        IssueStatus = "new"
	StatusAssigned   IssueStatus = "assigned"
	StatusInProgress IssueStatus = "in_progress"
	StatusResolved   IssueStatus = "resolved"
	StatusClosed     IssueStatus = "closed"
)

// Coordinates are carried for map views; nothing in the query engine reads them.
type Coordinates struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

type Location struct {
	Address     string      `bson:"address" json:"address"`
	Coordinates Coordinates `bson:"coordinates" json:"coordinates"`
}

// Reporter is the citizen who filed the issue. Never changes after creation.
type Reporter struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

// Assignee is the staff member an issue is routed to. Its presence on an
// issue is what hides the "Assign" action in the dashboard.
type Assignee struct {
	ID         string `bson:"id" json:"id" binding:"required"`
	Name       string `bson:"name" json:"name" binding:"required,max=100"`
	Department string `bson:"department" json:"department" binding:"required,max=100"`
}

// Issue represents a civic issue reported by a citizen
type Issue struct {
	ID                  string        `bson:"_id" json:"id"`
	Title               string        `bson:"title" json:"title"`
	Description         string        `bson:"description" json:"description"`
	Category            IssueCategory `bson:"category" json:"category"`
	Priority            IssuePriority `bson:"priority" json:"priority"`
	Status              IssueStatus   `bson:"status" json:"status"`
	Location            Location      `bson:"location" json:"location"`
	ImageURL            string        `bson:"imageUrl" json:"imageUrl"`
	ReportedBy          Reporter      `bson:"reportedBy" json:"reportedBy"`
	AssignedTo          *Assignee     `bson:"assignedTo,omitempty" json:"assignedTo,omitempty"`
	CreatedAt           time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time     `bson:"updatedAt" json:"updatedAt"`
	ResolvedAt          *time.Time    `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
	EstimatedResolution *time.Time    `bson:"estimatedResolution,omitempty" json:"estimatedResolution,omitempty"`
}

// IsAssigned reports whether the issue has been routed to a staff member.
func (i Issue) IsAssigned() bool {
	return i.AssignedTo != nil
}
