package query

import (
	"math"
	"slices"

	"civicsync-dashboard/models"
)

// DefaultRecentLimit is how many issues the dashboard lists as recent.
const DefaultRecentLimit = 5

// FilterIssues returns the issues accepted by pred, in their original
// order. The result is never nil.
func FilterIssues(issues []models.Issue, pred Predicate) []models.Issue {
	out := make([]models.Issue, 0, len(issues))
	for _, issue := range issues {
		if pred(issue) {
			out = append(out, issue)
		}
	}
	return out
}

// CategoryShare is one row of the dashboard's category breakdown.
type CategoryShare struct {
	Category   models.IssueCategory `json:"category"`
	Label      string               `json:"label"`
	Tone       string               `json:"tone"`
	Count      int                  `json:"count"`
	Percentage int                  `json:"percentage"`
}

// Counts holds aggregate statistics over an issue collection. Maps only
// carry keys that occur; a missing key reads as zero.
type Counts struct {
	Total      int                          `json:"total"`
	ByStatus   map[models.IssueStatus]int   `json:"byStatus"`
	ByCategory map[models.IssueCategory]int `json:"byCategory"`
	ByPriority map[models.IssuePriority]int `json:"byPriority"`
	Categories []CategoryShare              `json:"categories"`
}

// AggregateCounts tallies issues by status, category and priority. Values
// outside the known enums are counted under their default bucket.
// Category shares are listed in order of first occurrence, with
// percentages rounded half up. An empty input yields zero counts and no
// shares.
func AggregateCounts(issues []models.Issue) Counts {
	counts := Counts{
		Total:      len(issues),
		ByStatus:   make(map[models.IssueStatus]int),
		ByCategory: make(map[models.IssueCategory]int),
		ByPriority: make(map[models.IssuePriority]int),
		Categories: []CategoryShare{},
	}

	var order []models.IssueCategory
	for _, issue := range issues {
		counts.ByStatus[issue.Status.Normalize()]++
		counts.ByPriority[issue.Priority.Normalize()]++

		category := issue.Category.Normalize()
		if counts.ByCategory[category] == 0 {
			order = append(order, category)
		}
		counts.ByCategory[category]++
	}

	if counts.Total == 0 {
		return counts
	}
	for _, category := range order {
		badge := category.Badge()
		count := counts.ByCategory[category]
		counts.Categories = append(counts.Categories, CategoryShare{
			Category:   category,
			Label:      badge.Label,
			Tone:       badge.Tone,
			Count:      count,
			Percentage: percentage(count, counts.Total),
		})
	}
	return counts
}

func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(float64(count)*100/float64(total) + 0.5))
}

// RecentIssues returns up to n issues, newest createdAt first. Issues with
// equal createdAt keep their input order. The input is not reordered.
func RecentIssues(issues []models.Issue, n int) []models.Issue {
	if n <= 0 {
		return []models.Issue{}
	}
	sorted := slices.Clone(issues)
	slices.SortStableFunc(sorted, func(a, b models.Issue) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	if sorted == nil {
		sorted = []models.Issue{}
	}
	return sorted
}
