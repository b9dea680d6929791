package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"civicsync-dashboard/clock"
	"civicsync-dashboard/models"
	"civicsync-dashboard/query"
)

var ErrInvalidStatus = errors.New("invalid status")

// IssueWriter persists an updated issue. The in-memory deployment has none.
type IssueWriter interface {
	Save(ctx context.Context, issue models.Issue) error
}

// EventLog is the append-only history of issue updates.
type EventLog interface {
	Append(ctx context.Context, event models.IssueEvent) error
	ListByIssue(ctx context.Context, issueID string) ([]models.IssueEvent, error)
}

type IssueServiceConfig struct {
	Policy          query.Policy
	StampResolvedAt bool
	RecentLimit     int
}

// IssueService answers dashboard and list queries over the store and
// applies staff updates to it.
type IssueService struct {
	store         *query.Store
	writer        IssueWriter
	events        EventLog
	policy        query.Policy
	stampResolved bool
	recentLimit   int
	clock         clock.Clock
	logger        *slog.Logger
}

func NewIssueService(store *query.Store, writer IssueWriter, events EventLog, cfg IssueServiceConfig, clk clock.Clock, logger *slog.Logger) *IssueService {
	if cfg.RecentLimit <= 0 {
		cfg.RecentLimit = query.DefaultRecentLimit
	}
	if cfg.Policy.Name == "" {
		cfg.Policy = query.Permissive()
	}
	return &IssueService{
		store:         store,
		writer:        writer,
		events:        events,
		policy:        cfg.Policy,
		stampResolved: cfg.StampResolvedAt,
		recentLimit:   cfg.RecentLimit,
		clock:         clk,
		logger:        logger,
	}
}

// Dashboard is the summary shown on the landing page.
type Dashboard struct {
	Counts query.Counts   `json:"counts"`
	Urgent int            `json:"urgent"`
	Recent []models.Issue `json:"recent"`
}

// IssueList is one filtered view of the store.
type IssueList struct {
	Issues  []models.Issue `json:"issues"`
	Counts  query.Counts   `json:"counts"`
	Showing int            `json:"showing"`
	Total   int            `json:"total"`
}

func (s *IssueService) Dashboard() Dashboard {
	issues := s.store.All()
	counts := query.AggregateCounts(issues)
	return Dashboard{
		Counts: counts,
		Urgent: counts.ByPriority[models.PriorityUrgent],
		Recent: query.RecentIssues(issues, s.recentLimit),
	}
}

func (s *IssueService) List(spec query.FilterSpec, searchTerm string) IssueList {
	issues := s.store.All()
	filtered := query.FilterIssues(issues, query.BuildPredicate(spec, searchTerm))
	return IssueList{
		Issues:  filtered,
		Counts:  query.AggregateCounts(filtered),
		Showing: len(filtered),
		Total:   len(issues),
	}
}

func (s *IssueService) Get(id string) (models.Issue, error) {
	issue, ok := s.store.Get(id)
	if !ok {
		return models.Issue{}, fmt.Errorf("%w: %s", query.ErrIssueNotFound, id)
	}
	return issue, nil
}

func (s *IssueService) History(ctx context.Context, id string) ([]models.IssueEvent, error) {
	if _, err := s.Get(id); err != nil {
		return nil, err
	}
	return s.events.ListByIssue(ctx, id)
}

// Selected returns the current record of the issue sel points at, or nil
// when nothing is selected or the issue is gone.
func (s *IssueService) Selected(sel query.Selection) *models.Issue {
	issue, ok := sel.Resolve(s.store.Get)
	if !ok {
		return nil
	}
	return &issue
}

// UpdateStatus moves an issue to status on behalf of actor.
func (s *IssueService) UpdateStatus(ctx context.Context, actor models.User, id string, status models.IssueStatus) (models.Issue, error) {
	if !status.Valid() {
		return models.Issue{}, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	return s.apply(ctx, actor, id,
		func(current models.Issue) error {
			return s.policy.CheckStatus(current.Status, status)
		},
		func(current models.Issue, now time.Time) models.Issue {
			if s.stampResolved && status == models.StatusResolved && current.Status != models.StatusResolved {
				return query.MarkResolved(current, now)
			}
			return query.UpdateStatus(current, status, now)
		},
		models.EventStatusChanged,
	)
}

// Assign routes an issue to a staff member on behalf of actor.
func (s *IssueService) Assign(ctx context.Context, actor models.User, id string, assignee models.Assignee) (models.Issue, error) {
	return s.apply(ctx, actor, id,
		func(current models.Issue) error {
			return s.policy.CheckAssign(current.Status)
		},
		func(current models.Issue, now time.Time) models.Issue {
			return query.Assign(current, assignee.ID, assignee.Name, assignee.Department, now)
		},
		models.EventAssigned,
	)
}

func (s *IssueService) apply(
	ctx context.Context,
	actor models.User,
	id string,
	check func(models.Issue) error,
	change func(models.Issue, time.Time) models.Issue,
	kind models.EventKind,
) (models.Issue, error) {
	current, err := s.Get(id)
	if err != nil {
		return models.Issue{}, err
	}
	if err := check(current); err != nil {
		return models.Issue{}, err
	}

	now := s.clock.Now()
	if now.Before(current.UpdatedAt) {
		now = current.UpdatedAt
	}
	updated := change(current, now)

	if err := s.store.Replace(updated, current.UpdatedAt); err != nil {
		return models.Issue{}, err
	}
	if s.writer != nil {
		if err := s.writer.Save(ctx, updated); err != nil {
			if rbErr := s.store.Replace(current, updated.UpdatedAt); rbErr != nil {
				s.logger.Error("rollback failed", "issue_id", id, "error", rbErr)
			}
			return models.Issue{}, fmt.Errorf("persist issue %s: %w", id, err)
		}
	}

	event := models.IssueEvent{
		ID:         uuid.NewString(),
		IssueID:    id,
		Kind:       kind,
		Actor:      models.Actor{ID: actor.ID, Name: actor.Name},
		FromStatus: current.Status,
		ToStatus:   updated.Status,
		Assignee:   updated.AssignedTo,
		At:         now,
	}
	if kind != models.EventAssigned {
		event.Assignee = nil
	}
	if err := s.events.Append(ctx, event); err != nil {
		s.logger.Warn("issue history not recorded", "issue_id", id, "kind", kind, "error", err)
	}

	s.logger.Info("issue updated",
		"issue_id", id,
		"kind", kind,
		"from", current.Status,
		"to", updated.Status,
		"actor", actor.ID,
	)
	return updated, nil
}
