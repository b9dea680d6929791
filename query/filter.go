package query

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"civicsync-dashboard/models"
)

// DateRange bounds an issue's createdAt. Nil bounds are open.
type DateRange struct {
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`
}

// FilterSpec is the declarative filter state behind the issue list. Empty
// sets and an empty location impose no restriction on their dimension.
type FilterSpec struct {
	Category  []models.IssueCategory `json:"category"`
	Priority  []models.IssuePriority `json:"priority"`
	Status    []models.IssueStatus   `json:"status"`
	Location  string                 `json:"location"`
	DateRange DateRange              `json:"dateRange"`
}

// Dimension names one of the set-valued filter dimensions.
type Dimension string

const (
	DimensionCategory Dimension = "category"
	DimensionPriority Dimension = "priority"
	DimensionStatus   Dimension = "status"
)

// IsEmpty reports whether the spec restricts nothing.
func (f FilterSpec) IsEmpty() bool {
	return len(f.Category) == 0 && len(f.Priority) == 0 && len(f.Status) == 0 &&
		f.Location == "" && f.DateRange.Start == nil && f.DateRange.End == nil
}

// ActiveCount is the number shown on the "Clear All" badge: one per selected
// set value, plus one for a location filter. Date bounds are not counted.
func (f FilterSpec) ActiveCount() int {
	n := len(f.Category) + len(f.Priority) + len(f.Status)
	if f.Location != "" {
		n++
	}
	return n
}

// Toggle adds value to the given set dimension, or removes it if it is
// already selected. The receiver is not modified.
func (f FilterSpec) Toggle(dim Dimension, value string) (FilterSpec, error) {
	next := f.clone()
	switch dim {
	case DimensionCategory:
		next.Category = toggle(next.Category, models.IssueCategory(value))
	case DimensionPriority:
		next.Priority = toggle(next.Priority, models.IssuePriority(value))
	case DimensionStatus:
		next.Status = toggle(next.Status, models.IssueStatus(value))
	default:
		return f, fmt.Errorf("unknown filter dimension %q", dim)
	}
	return next, nil
}

func (f FilterSpec) clone() FilterSpec {
	f.Category = slices.Clone(f.Category)
	f.Priority = slices.Clone(f.Priority)
	f.Status = slices.Clone(f.Status)
	return f
}

func toggle[T comparable](set []T, value T) []T {
	if i := slices.Index(set, value); i >= 0 {
		return slices.Delete(set, i, i+1)
	}
	return append(set, value)
}

const dateOnly = "2006-01-02"

// ParseDateBound parses a date range bound. A bare date is a whole UTC day:
// as a start bound it means the first instant of that day, as an end bound
// the last one. RFC3339 timestamps are taken as given. Empty text is an
// open bound.
func ParseDateBound(text string, isEnd bool) (*time.Time, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	if day, err := time.Parse(dateOnly, text); err == nil {
		if isEnd {
			day = day.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return &day, nil
	}
	t, err := time.Parse(time.RFC3339, text)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: want YYYY-MM-DD or RFC3339", text)
	}
	return &t, nil
}

// Predicate decides whether an issue belongs to a view.
type Predicate func(models.Issue) bool

// BuildPredicate combines spec and the free-text search term into a single
// predicate. Every active dimension must match. The search term matches
// title, description or address. All text comparisons are
// case-insensitive substring matches.
func BuildPredicate(spec FilterSpec, searchTerm string) Predicate {
	spec = spec.clone()
	term := strings.ToLower(searchTerm)
	location := strings.ToLower(spec.Location)

	return func(issue models.Issue) bool {
		address := strings.ToLower(issue.Location.Address)

		if term != "" &&
			!strings.Contains(strings.ToLower(issue.Title), term) &&
			!strings.Contains(strings.ToLower(issue.Description), term) &&
			!strings.Contains(address, term) {
			return false
		}
		if len(spec.Category) > 0 && !slices.Contains(spec.Category, issue.Category) {
			return false
		}
		if len(spec.Priority) > 0 && !slices.Contains(spec.Priority, issue.Priority) {
			return false
		}
		if len(spec.Status) > 0 && !slices.Contains(spec.Status, issue.Status) {
			return false
		}
		if location != "" && !strings.Contains(address, location) {
			return false
		}
		if spec.DateRange.Start != nil && issue.CreatedAt.Before(*spec.DateRange.Start) {
			return false
		}
		if spec.DateRange.End != nil && issue.CreatedAt.After(*spec.DateRange.End) {
			return false
		}
		return true
	}
}
