package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsync-dashboard/clock"
	"civicsync-dashboard/models"
	"civicsync-dashboard/query"
	"civicsync-dashboard/repository"
)

type recordingWriter struct {
	saved []models.Issue
	err   error
}

func (w *recordingWriter) Save(_ context.Context, issue models.Issue) error {
	if w.err != nil {
		return w.err
	}
	w.saved = append(w.saved, issue)
	return nil
}

var (
	testNow  = time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC)
	testUser = models.SeedUser()
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, writer IssueWriter, cfg IssueServiceConfig) (*IssueService, *query.Store, *repository.MemoryEventLog) {
	t.Helper()
	store, err := query.NewStore(models.SeedIssues())
	require.NoError(t, err)
	events := repository.NewMemoryEventLog()
	svc := NewIssueService(store, writer, events, cfg, clock.NewFake(testNow), discardLogger())
	return svc, store, events
}

func TestIssueService_Dashboard(t *testing.T) {
	svc, _, _ := newTestService(t, nil, IssueServiceConfig{})
	dash := svc.Dashboard()

	assert.Equal(t, 6, dash.Counts.Total)
	assert.Equal(t, 2, dash.Urgent)
	require.Len(t, dash.Recent, 5)
	assert.Equal(t, "1", dash.Recent[0].ID)
}

func TestIssueService_ListCountsFilteredView(t *testing.T) {
	svc, _, _ := newTestService(t, nil, IssueServiceConfig{})
	spec := query.FilterSpec{Priority: []models.IssuePriority{models.PriorityUrgent}}

	list := svc.List(spec, "leak")
	require.Len(t, list.Issues, 1)
	assert.Equal(t, "5", list.Issues[0].ID)
	assert.Equal(t, 1, list.Showing)
	assert.Equal(t, 6, list.Total)
	assert.Equal(t, 1, list.Counts.Total)
}

func TestIssueService_UpdateStatus(t *testing.T) {
	writer := &recordingWriter{}
	svc, store, events := newTestService(t, writer, IssueServiceConfig{})

	sel := query.Selection{}
	sel.Select("2")

	updated, err := svc.UpdateStatus(context.Background(), testUser, "2", models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, updated.Status)
	assert.Equal(t, testNow, updated.UpdatedAt)

	stored, _ := store.Get("2")
	assert.Equal(t, updated, stored)
	current := svc.Selected(sel)
	require.NotNil(t, current)
	assert.Equal(t, updated, *current)
	require.Len(t, writer.saved, 1)

	history, err := events.ListByIssue(context.Background(), "2")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.EventStatusChanged, history[0].Kind)
	assert.Equal(t, models.StatusNew, history[0].FromStatus)
	assert.Equal(t, models.StatusInProgress, history[0].ToStatus)
	assert.Equal(t, testUser.ID, history[0].Actor.ID)
	assert.Nil(t, history[0].Assignee)
}

func TestIssueService_ResolvedAtIsOptIn(t *testing.T) {
	svc, _, _ := newTestService(t, nil, IssueServiceConfig{})
	updated, err := svc.UpdateStatus(context.Background(), testUser, "1", models.StatusResolved)
	require.NoError(t, err)
	assert.Nil(t, updated.ResolvedAt)

	svc, _, _ = newTestService(t, nil, IssueServiceConfig{StampResolvedAt: true})
	updated, err = svc.UpdateStatus(context.Background(), testUser, "1", models.StatusResolved)
	require.NoError(t, err)
	require.NotNil(t, updated.ResolvedAt)
	assert.Equal(t, testNow, *updated.ResolvedAt)
}

func TestIssueService_SelectedFollowsOtherUpdates(t *testing.T) {
	svc, store, _ := newTestService(t, nil, IssueServiceConfig{})
	other, _ := store.Get("3")
	var sel query.Selection
	sel.Select("3")

	_, err := svc.UpdateStatus(context.Background(), testUser, "2", models.StatusClosed)
	require.NoError(t, err)
	require.NotNil(t, svc.Selected(sel))
	assert.Equal(t, other, *svc.Selected(sel))

	updated, err := svc.UpdateStatus(context.Background(), testUser, "3", models.StatusInProgress)
	require.NoError(t, err)
	assert.Equal(t, updated, *svc.Selected(sel))

	sel.Select("999")
	assert.Nil(t, svc.Selected(sel))
	sel.Clear()
	assert.Nil(t, svc.Selected(sel))
}

func TestIssueService_Assign(t *testing.T) {
	svc, _, events := newTestService(t, nil, IssueServiceConfig{})
	assignee := models.Assignee{ID: "staff2", Name: "Dana Ortiz", Department: "Utilities"}

	updated, err := svc.Assign(context.Background(), testUser, "4", assignee)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAssigned, updated.Status)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, assignee, *updated.AssignedTo)

	history, _ := events.ListByIssue(context.Background(), "4")
	require.Len(t, history, 1)
	assert.Equal(t, models.EventAssigned, history[0].Kind)
	assert.Equal(t, models.StatusResolved, history[0].FromStatus)
	require.NotNil(t, history[0].Assignee)
	assert.Equal(t, "Dana Ortiz", history[0].Assignee.Name)
}

func TestIssueService_UnknownIssue(t *testing.T) {
	svc, _, _ := newTestService(t, nil, IssueServiceConfig{})

	_, err := svc.UpdateStatus(context.Background(), testUser, "999", models.StatusClosed)
	assert.ErrorIs(t, err, query.ErrIssueNotFound)
	_, err = svc.Assign(context.Background(), testUser, "999", models.Assignee{ID: "x", Name: "x"})
	assert.ErrorIs(t, err, query.ErrIssueNotFound)
	_, err = svc.History(context.Background(), "999")
	assert.ErrorIs(t, err, query.ErrIssueNotFound)
}

func TestIssueService_InvalidStatus(t *testing.T) {
	svc, _, _ := newTestService(t, nil, IssueServiceConfig{})
	_, err := svc.UpdateStatus(context.Background(), testUser, "1", "reopened")
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestIssueService_WorkflowPolicy(t *testing.T) {
	svc, store, events := newTestService(t, nil, IssueServiceConfig{Policy: query.Workflow()})

	_, err := svc.UpdateStatus(context.Background(), testUser, "2", models.StatusResolved)
	assert.ErrorIs(t, err, query.ErrTransitionNotAllowed)
	unchanged, _ := store.Get("2")
	assert.Equal(t, models.StatusNew, unchanged.Status)

	_, err = svc.Assign(context.Background(), testUser, "4", models.Assignee{ID: "x", Name: "x"})
	assert.ErrorIs(t, err, query.ErrTransitionNotAllowed)

	history, _ := events.ListByIssue(context.Background(), "2")
	assert.Empty(t, history)
}

func TestIssueService_WriterFailureRollsBack(t *testing.T) {
	writer := &recordingWriter{err: errors.New("mongo down")}
	svc, store, events := newTestService(t, writer, IssueServiceConfig{})
	before, _ := store.Get("1")

	_, err := svc.UpdateStatus(context.Background(), testUser, "1", models.StatusClosed)
	require.Error(t, err)

	after, _ := store.Get("1")
	assert.Equal(t, before, after)
	history, _ := events.ListByIssue(context.Background(), "1")
	assert.Empty(t, history)
}
