package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"civicsync-dashboard/clock"
	"civicsync-dashboard/controllers"
	"civicsync-dashboard/middlewares"
	"civicsync-dashboard/models"
	"civicsync-dashboard/query"
	"civicsync-dashboard/repository"
	"civicsync-dashboard/services"
	"civicsync-dashboard/session"
	authUtils "civicsync-dashboard/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router *gin.Engine
	clock  *clock.Fake
	token  string
}

func newTestApp(t *testing.T, policy query.Policy, rateLimit int) *testApp {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clk := clock.NewFake(time.Date(2024, 1, 16, 12, 0, 0, 0, time.UTC))

	store, err := query.NewStore(models.SeedIssues())
	require.NoError(t, err)
	issues := services.NewIssueService(store, nil, repository.NewMemoryEventLog(),
		services.IssueServiceConfig{Policy: policy}, clk, logger)

	tokens, err := authUtils.NewTokenIssuer("test-secret", time.Hour, clk)
	require.NoError(t, err)
	sessions := session.NewManager(session.NewMemoryStore(clk), time.Hour, clk)
	auth := services.NewAuthService(services.StubAuthenticator{}, sessions, tokens, logger)

	r, err := NewRouter(Deps{
		Logger:      logger,
		Auth:        auth,
		Issues:      issues,
		Cookie:      controllers.CookieConfig{MaxAge: time.Hour},
		RateCounter: middlewares.NewMemoryCounter(clk),
		RateQueue:   "issue_updates",
		RateLimit:   rateLimit,
		RateWindow:  time.Hour,
	})
	require.NoError(t, err)
	return &testApp{router: r, clock: clk}
}

func (a *testApp) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) login(t *testing.T) {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "sarah.chen@city.gov", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string      `json:"token"`
		User  models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, "Sarah Chen", resp.User.Name)

	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)
	assert.Equal(t, middlewares.AuthCookieName, cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	a.token = resp.Token
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func issueIDs(issues []models.Issue) []string {
	out := []string{}
	for _, issue := range issues {
		out = append(out, issue.ID)
	}
	return out
}

func TestPingAndLabelsArePublic(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 10)

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/ping", nil).Code)

	w := app.do(t, http.MethodGet, "/api/meta/labels", nil)
	require.Equal(t, http.StatusOK, w.Code)
	labels := decode[models.LabelTables](t, w)
	assert.Len(t, labels.Categories, 7)
	assert.Equal(t, "Water Leak", labels.Categories[4].Label)
}

func TestProtectedRoutesNeedLogin(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 10)
	for _, path := range []string{"/api/dashboard", "/api/issues", "/api/auth/me", "/api/session/issues"} {
		assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, path, nil).Code, path)
	}
}

func TestLoginValidation(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 10)
	w := app.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "a@b.gov"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = app.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "", "password": "pw"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStubLoginAcceptsAnyNonEmptyEmail(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 10)
	w := app.do(t, http.MethodPost, "/api/auth/login", gin.H{"email": "staff", "password": "pw"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[struct {
		User models.User `json:"user"`
	}](t, w)
	assert.Equal(t, "staff", resp.User.Email)
}

func TestMeAndLogout(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 10)
	app.login(t)

	w := app.do(t, http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sarah.chen@city.gov")
	assert.NotContains(t, w.Body.String(), "password")

	assert.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/api/auth/logout", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, app.do(t, http.MethodGet, "/api/auth/me", nil).Code)
}

func TestDashboard(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 10)
	app.login(t)

	w := app.do(t, http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	dash := decode[services.Dashboard](t, w)
	assert.Equal(t, 6, dash.Counts.Total)
	assert.Equal(t, 2, dash.Urgent)
	assert.Equal(t, []string{"1", "5", "2", "6", "3"}, issueIDs(dash.Recent))
}

func TestListIssues(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 10)
	app.login(t)

	w := app.do(t, http.MethodGet, "/api/issues?priority=urgent&search=leak", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[services.IssueList](t, w)
	assert.Equal(t, []string{"5"}, issueIDs(list.Issues))
	assert.Equal(t, 1, list.Showing)
	assert.Equal(t, 6, list.Total)

	w = app.do(t, http.MethodGet, "/api/issues?status=new,in_progress&status=assigned", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = decode[services.IssueList](t, w)
	assert.Equal(t, []string{"1", "2", "3", "5", "6"}, issueIDs(list.Issues))

	w = app.do(t, http.MethodGet, "/api/issues?start=2024-01-14&end=2024-01-14", nil)
	require.Equal(t, http.StatusOK, w.Code)
	list = decode[services.IssueList](t, w)
	assert.Equal(t, []string{"2", "6"}, issueIDs(list.Issues))

	w = app.do(t, http.MethodGet, "/api/issues?location=park", nil)
	list = decode[services.IssueList](t, w)
	assert.Equal(t, []string{"2", "3"}, issueIDs(list.Issues))

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/issues?status=reopened", nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/issues?start=yesterday", nil).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodGet, "/api/issues?start=2024-01-15&end=2024-01-14", nil).Code)
}

func TestGetIssue(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 10)
	app.login(t)

	w := app.do(t, http.MethodGet, "/api/issues/3", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Overflowing trash bins at Central Park", decode[models.Issue](t, w).Title)

	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodGet, "/api/issues/999", nil).Code)
}

func TestUpdateStatusSyncsSelectionAndHistory(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 10)
	app.login(t)

	require.Equal(t, http.StatusOK, app.do(t, http.MethodPost, "/api/issues/2/select", nil).Code)

	w := app.do(t, http.MethodPatch, "/api/issues/2/status", gin.H{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.StatusInProgress, decode[models.Issue](t, w).Status)

	w = app.do(t, http.MethodGet, "/api/session/selection", nil)
	require.Equal(t, http.StatusOK, w.Code)
	sel := decode[selection](t, w)
	require.NotNil(t, sel.Issue)
	assert.Equal(t, models.StatusInProgress, sel.Issue.Status)

	w = app.do(t, http.MethodGet, "/api/issues/2/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	history := decode[struct {
		Events []models.IssueEvent `json:"events"`
	}](t, w)
	require.Len(t, history.Events, 1)
	assert.Equal(t, "1", history.Events[0].Actor.ID)

	assert.Equal(t, http.StatusNoContent, app.do(t, http.MethodDelete, "/api/session/selection", nil).Code)
	sel = decode[selection](t, app.do(t, http.MethodGet, "/api/session/selection", nil))
	assert.Nil(t, sel.Issue)
}

func TestSelectionFollowsUpdatesFromOtherSessions(t *testing.T) {
	alice := newTestApp(t, query.Permissive(), 10)
	alice.login(t)
	bob := &testApp{router: alice.router, clock: alice.clock}
	bob.login(t)
	require.NotEqual(t, alice.token, bob.token)

	w := alice.do(t, http.MethodPost, "/api/issues/3/select", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, decode[selection](t, w).Issue)

	w = bob.do(t, http.MethodPatch, "/api/issues/3/status", gin.H{"status": "in_progress"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	stored := decode[models.Issue](t, alice.do(t, http.MethodGet, "/api/issues/3", nil))
	sel := decode[selection](t, alice.do(t, http.MethodGet, "/api/session/selection", nil))
	require.NotNil(t, sel.Issue)
	assert.Equal(t, models.StatusInProgress, sel.Issue.Status)
	assert.Equal(t, stored.Status, sel.Issue.Status)
	assert.True(t, stored.UpdatedAt.Equal(sel.Issue.UpdatedAt))

	// bob's own selection is untouched
	assert.Nil(t, decode[selection](t, bob.do(t, http.MethodGet, "/api/session/selection", nil)).Issue)
}

func TestUpdateStatusErrors(t *testing.T) {
	app := newTestApp(t, query.Workflow(), 10)
	app.login(t)

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPatch, "/api/issues/2/status", gin.H{"status": "reopened"}).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPatch, "/api/issues/2/status", gin.H{}).Code)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodPatch, "/api/issues/999/status", gin.H{"status": "closed"}).Code)
	assert.Equal(t, http.StatusConflict, app.do(t, http.MethodPatch, "/api/issues/2/status", gin.H{"status": "resolved"}).Code)
}

func TestAssignIssue(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 10)
	app.login(t)

	body := gin.H{"assigneeId": "staff9", "assigneeName": "Dana Ortiz", "department": "Utilities"}
	w := app.do(t, http.MethodPost, "/api/issues/5/assign", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	issue := decode[models.Issue](t, w)
	assert.Equal(t, models.StatusAssigned, issue.Status)
	require.NotNil(t, issue.AssignedTo)
	assert.Equal(t, "Dana Ortiz", issue.AssignedTo.Name)

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/issues/5/assign", gin.H{"assigneeId": "x"}).Code)
}

func TestUpdatesAreRateLimited(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 2)
	app.login(t)

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, app.do(t, http.MethodPatch, "/api/issues/1/status", gin.H{"status": "closed"}).Code)
	}
	w := app.do(t, http.MethodPatch, "/api/issues/1/status", gin.H{"status": "closed"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	// reads are not limited
	assert.Equal(t, http.StatusOK, app.do(t, http.MethodGet, "/api/issues/1", nil).Code)
}

type selection struct {
	Issue *models.Issue `json:"issue"`
}

type workspace struct {
	Filters     query.FilterSpec `json:"filters"`
	Search      string           `json:"search"`
	ActiveCount int              `json:"activeCount"`
}

func TestWorkspaceFilters(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 10)
	app.login(t)

	w := app.do(t, http.MethodPut, "/api/session/filters", gin.H{
		"priority": []string{"high"},
		"location": "Main",
		"search":   "pothole",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ws := decode[workspace](t, w)
	assert.Equal(t, 2, ws.ActiveCount)
	assert.Equal(t, "pothole", ws.Search)

	w = app.do(t, http.MethodGet, "/api/session/issues", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decode[struct {
		Result services.IssueList `json:"result"`
	}](t, w)
	assert.Equal(t, []string{"1"}, issueIDs(view.Result.Issues))

	w = app.do(t, http.MethodPost, "/api/session/filters/toggle", gin.H{"dimension": "priority", "value": "high"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decode[workspace](t, w).Filters.Priority)

	w = app.do(t, http.MethodPost, "/api/session/filters/toggle", gin.H{"dimension": "status", "value": "new"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []models.IssueStatus{models.StatusNew}, decode[workspace](t, w).Filters.Status)

	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/session/filters/toggle", gin.H{"dimension": "colour", "value": "red"}).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPost, "/api/session/filters/toggle", gin.H{"dimension": "status", "value": "reopened"}).Code)
	assert.Equal(t, http.StatusBadRequest, app.do(t, http.MethodPut, "/api/session/filters", gin.H{"category": []string{"sinkhole"}}).Code)

	w = app.do(t, http.MethodDelete, "/api/session/filters", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ws = decode[workspace](t, w)
	assert.True(t, ws.Filters.IsEmpty())
	assert.Equal(t, 0, ws.ActiveCount)
	assert.Equal(t, "", ws.Search)
}

func TestSelectUnknownIssue(t *testing.T) {
	app := newTestApp(t, query.Permissive(), 10)
	app.login(t)
	assert.Equal(t, http.StatusNotFound, app.do(t, http.MethodPost, "/api/issues/999/select", nil).Code)
}
