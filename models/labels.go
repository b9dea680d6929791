package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Badge is the display form of an enum value: a human label plus the colour
// family the dashboard uses for its pill.
type Badge struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Tone  string `json:"tone"`
}

// Humanize turns a snake_case value into Title Case ("water_leak" -> "Water Leak").
// A Caser carries state, so one is built per call.
func Humanize(value string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(value, "_", " "))
}

// Categories, Priorities and Statuses list the known values in the order
// the filter sidebar shows them.
var (
	Categories = []IssueCategory{
		CategoryPothole, CategoryStreetlight, CategoryTrash, CategoryGraffiti,
		CategoryWaterLeak, CategoryTrafficSign, CategoryOther,
	}
	Priorities = []IssuePriority{PriorityUrgent, PriorityHigh, PriorityMedium, PriorityLow}
	Statuses   = []IssueStatus{StatusNew, StatusAssigned, StatusInProgress, StatusResolved, StatusClosed}
)

var categoryBadges = map[IssueCategory]Badge{
	CategoryPothole:     {Value: "pothole", Label: "Pothole", Tone: "orange"},
	CategoryStreetlight: {Value: "streetlight", Label: "Streetlight", Tone: "yellow"},
	CategoryTrash:       {Value: "trash", Label: "Trash", Tone: "green"},
	CategoryGraffiti:    {Value: "graffiti", Label: "Graffiti", Tone: "purple"},
	CategoryWaterLeak:   {Value: "water_leak", Label: "Water Leak", Tone: "blue"},
	CategoryTrafficSign: {Value: "traffic_sign", Label: "Traffic Sign", Tone: "red"},
	CategoryOther:       {Value: "other", Label: "Other", Tone: "gray"},
}

var priorityBadges = map[IssuePriority]Badge{
	PriorityUrgent: {Value: "urgent", Label: "Urgent", Tone: "red"},
	PriorityHigh:   {Value: "high", Label: "High", Tone: "orange"},
	PriorityMedium: {Value: "medium", Label: "Medium", Tone: "yellow"},
	PriorityLow:    {Value: "low", Label: "Low", Tone: "green"},
}

var statusBadges = map[IssueStatus]Badge{
	StatusNew:        {Value: "new", Label: "New", Tone: "blue"},
	StatusAssigned:   {Value: "assigned", Label: "Assigned", Tone: "purple"},
	StatusInProgress: {Value: "in_progress", Label: "In Progress", Tone: "yellow"},
	StatusResolved:   {Value: "resolved", Label: "Resolved", Tone: "green"},
	StatusClosed:     {Value: "closed", Label: "Closed", Tone: "gray"},
}

// Valid reports whether c is one of the enumerated categories.
func (c IssueCategory) Valid() bool {
	_, ok := categoryBadges[c]
	return ok
}

// Normalize maps unknown categories onto "other".
func (c IssueCategory) Normalize() IssueCategory {
	if c.Valid() {
		return c
	}
	return CategoryOther
}

func (c IssueCategory) Badge() Badge { return categoryBadges[c.Normalize()] }

func (p IssuePriority) Valid() bool {
	_, ok := priorityBadges[p]
	return ok
}

// Normalize maps unknown priorities onto "medium".
func (p IssuePriority) Normalize() IssuePriority {
	if p.Valid() {
		return p
	}
	return PriorityMedium
}

func (p IssuePriority) Badge() Badge { return priorityBadges[p.Normalize()] }

func (s IssueStatus) Valid() bool {
	_, ok := statusBadges[s]
	return ok
}

// Normalize maps unknown statuses onto "new".
func (s IssueStatus) Normalize() IssueStatus {
	if s.Valid() {
		return s
	}
	return StatusNew
}

func (s IssueStatus) Badge() Badge { return statusBadges[s.Normalize()] }

// LabelTables is the full set of badges, served to clients so they never
// hardcode labels of their own.
type LabelTables struct {
	Categories []Badge `json:"categories"`
	Priorities []Badge `json:"priorities"`
	Statuses   []Badge `json:"statuses"`
}

func Labels() LabelTables {
	tables := LabelTables{
		Categories: make([]Badge, 0, len(Categories)),
		Priorities: make([]Badge, 0, len(Priorities)),
		Statuses:   make([]Badge, 0, len(Statuses)),
	}
	for _, c := range Categories {
		tables.Categories = append(tables.Categories, c.Badge())
	}
	for _, p := range Priorities {
		tables.Priorities = append(tables.Priorities, p.Badge())
	}
	for _, s := range Statuses {
		tables.Statuses = append(tables.Statuses, s.Badge())
	}
	return tables
}
