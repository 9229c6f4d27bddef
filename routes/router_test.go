package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"setshaba-be/config"
	"setshaba-be/controllers"
	"setshaba-be/middlewares"
	"setshaba-be/models"
	"setshaba-be/seed"
	"setshaba-be/store/memory"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

type testServer struct {
	t      *testing.T
	router *gin.Engine
	store  *memory.Store
}

type countingLimiter struct{ counts map[string]int64 }

func (c *countingLimiter) Incr(_ context.Context, key string, _ time.Duration) (int64, error) {
	c.counts[key]++
	return c.counts[key], nil
}

func (c *countingLimiter) TTL(context.Context, string) (time.Duration, error) {
	return time.Hour, nil
}

func newTestServer(t *testing.T, overrides ...func(*config.Config)) *testServer {
	t.Helper()
	return newTestServerWithCounter(t, &countingLimiter{counts: map[string]int64{}}, overrides...)
}

func newTestServerWithCounter(t *testing.T, counter middlewares.Counter, overrides ...func(*config.Config)) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	clock := func() time.Time { return fixedNow }
	st := memory.New(memory.WithClock(clock))
	_, err := seed.EnsureAdmin(context.Background(), st, "admin@example.com", "adminpass")
	require.NoError(t, err)

	cfg := config.Defaults()
	cfg.JWTSecret = "test-secret"
	cfg.IssueDailyLimit = 3
	for _, o := range overrides {
		o(&cfg)
	}

	h := controllers.NewHandler(st, cfg, controllers.WithClock(clock), controllers.WithVersion("test"))
	r, err := NewRouter(cfg, h, zap.NewNop(), counter)
	require.NoError(t, err)

	return &testServer{t: t, router: r, store: st}
}

func (s *testServer) do(method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(s.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func (s *testServer) login(path, email, password string) string {
	s.t.Helper()
	w, body := s.do(http.MethodPost, path, "", gin.H{"email": email, "password": password})
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	tok, _ := body["token"].(string)
	require.NotEmpty(s.t, tok)
	return tok
}

func (s *testServer) adminToken() string {
	return s.login("/api/auth/admin/login", "admin@example.com", "adminpass")
}

func (s *testServer) citizenToken() string {
	s.t.Helper()
	w, _ := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Lerato", "email": "lerato@example.com", "password": "secret123",
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return s.login("/api/auth/login", "lerato@example.com", "secret123")
}

func pothole() gin.H {
	return gin.H{
		"title":       "Pothole on Main St",
		"category":    "Roads",
		"urgency":     "High",
		"location":    "Main St",
		"description": "Large pothole",
	}
}

func issueCount(t *testing.T, s *testServer) int {
	issues, err := s.store.ListIssues(context.Background(), models.IssueFilter{})
	require.NoError(t, err)
	return len(issues)
}

func TestPing(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(http.MethodGet, "/ping", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", body["message"])
}

func TestAdminAddAndResolveIssue(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	w, body := s.do(http.MethodPost, "/api/admin/issues", admin, pothole())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	issue := body["issue"].(map[string]any)
	assert.Equal(t, "Reported", issue["status"])
	assert.Equal(t, float64(0), issue["progress"])
	assert.Equal(t, "Admin", issue["reportedBy"])
	timeline := issue["timeline"].([]any)
	require.Len(t, timeline, 1)
	assert.Equal(t, "Created by admin", timeline[0].(map[string]any)["event"])
	assert.Equal(t, 1, issueCount(t, s))

	id := issue["id"].(string)
	w, body = s.do(http.MethodPatch, "/api/admin/issues/"+id, admin, gin.H{"status": "Resolved"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := body["issue"].(map[string]any)
	assert.Equal(t, "Resolved", updated["status"])
	assert.Equal(t, float64(100), updated["progress"])
}

func TestUpdateIgnoresClientProgress(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	_, body := s.do(http.MethodPost, "/api/admin/issues", admin, pothole())
	id := body["issue"].(map[string]any)["id"].(string)

	w, body := s.do(http.MethodPatch, "/api/admin/issues/"+id, admin, gin.H{"status": "In Progress", "progress": 73})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(50), body["issue"].(map[string]any)["progress"])
}

func TestAdminAddIssue_MissingField(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	for _, field := range []string{"title", "category", "urgency", "location", "description"} {
		in := pothole()
		delete(in, field)
		w, body := s.do(http.MethodPost, "/api/admin/issues", admin, in)
		assert.Equal(t, http.StatusBadRequest, w.Code, field)
		assert.Equal(t, "Please fill in all fields.", body["error"], field)
		assert.Equal(t, "MISSING_REQUIRED_FIELD", body["code"], field)
	}

	blank := pothole()
	blank["location"] = "   "
	w, _ := s.do(http.MethodPost, "/api/admin/issues", admin, blank)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	assert.Equal(t, 0, issueCount(t, s))
}

func TestAdminAddIssue_InvalidCategory(t *testing.T) {
	s := newTestServer(t)
	in := pothole()
	in["category"] = "Parks"

	w, body := s.do(http.MethodPost, "/api/admin/issues", s.adminToken(), in)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid category", body["error"])
	assert.Equal(t, 0, issueCount(t, s))
}

func TestUpdateIssue_NotFound(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	s.do(http.MethodPost, "/api/admin/issues", admin, pothole())

	w, body := s.do(http.MethodPatch, "/api/admin/issues/does-not-exist", admin, gin.H{"status": "Resolved"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "RECORD_NOT_FOUND", body["code"])
	assert.Equal(t, 1, issueCount(t, s))
}

func TestUpdateIssue_UnknownStatus(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	_, body := s.do(http.MethodPost, "/api/admin/issues", admin, pothole())
	id := body["issue"].(map[string]any)["id"].(string)

	w, body := s.do(http.MethodPatch, "/api/admin/issues/"+id, admin, gin.H{"status": "Closed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status", body["error"])
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)

	w, _ := s.do(http.MethodGet, "/api/admin/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = s.do(http.MethodGet, "/api/admin/dashboard", s.citizenToken(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminLogin_RejectsCitizen(t *testing.T) {
	s := newTestServer(t)
	s.citizenToken()

	w, _ := s.do(http.MethodPost, "/api/auth/admin/login", "", gin.H{"email": "lerato@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, _ = s.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "lerato@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	s := newTestServer(t)
	s.citizenToken()

	w, body := s.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Other", "email": "lerato@example.com", "password": "secret123",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "User with this email already exists", body["error"])
}

func TestGetMe(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(http.MethodGet, "/api/auth/me", s.citizenToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Lerato", body["name"])
	assert.Equal(t, "citizen", body["role"])
}

func TestCitizenReportAndTrack(t *testing.T) {
	s := newTestServer(t)
	citizen := s.citizenToken()

	w, _ := s.do(http.MethodPost, "/api/issue/create", "", pothole())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := s.do(http.MethodPost, "/api/issue/create", citizen, pothole())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Lerato", body["reportedBy"])
	id := body["id"].(string)

	w, body = s.do(http.MethodGet, "/api/issue/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Reported by Lerato", body["timeline"].([]any)[0].(map[string]any)["event"])

	w, body = s.do(http.MethodGet, "/api/issue/"+id+"/card?progress=false", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "🚧", body["categoryIcon"])
	assert.Equal(t, "status-badge-reported", body["statusBadge"])
	_, hasProgress := body["progress"]
	assert.False(t, hasProgress)

	w, body = s.do(http.MethodGet, "/api/issue?urgency=High&status=Reported", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["totalIssues"])

	w, body = s.do(http.MethodGet, "/api/issue?category=Water", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), body["totalIssues"])

	w, _ = s.do(http.MethodGet, "/api/issue?status=Closed", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodGet, "/api/issue/missing", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCitizenReportRateLimited(t *testing.T) {
	s := newTestServer(t)
	citizen := s.citizenToken()

	for i := 0; i < 3; i++ {
		w, _ := s.do(http.MethodPost, "/api/issue/create", citizen, pothole())
		require.Equal(t, http.StatusCreated, w.Code)
	}
	w, _ := s.do(http.MethodPost, "/api/issue/create", citizen, pothole())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, 3, issueCount(t, s))
}

func TestDashboard(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	emergency := pothole()
	emergency["urgency"] = "Emergency"
	emergency["category"] = "Water"
	s.do(http.MethodPost, "/api/admin/issues", admin, emergency)
	_, body := s.do(http.MethodPost, "/api/admin/issues", admin, pothole())
	id := body["issue"].(map[string]any)["id"].(string)
	s.do(http.MethodPatch, "/api/admin/issues/"+id, admin, gin.H{"status": "Resolved"})

	s.do(http.MethodPost, "/api/feedback", "", gin.H{"name": "Sipho", "message": "Thanks"})
	s.do(http.MethodPost, "/api/admin/events", admin, gin.H{"title": "Clean-up", "date": fixedNow.Add(48 * time.Hour)})

	w, body := s.do(http.MethodGet, "/api/admin/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stats := body["stats"].(map[string]any)
	assert.Equal(t, float64(2), stats["totalIssues"])
	assert.Equal(t, float64(1), stats["activeIssues"])
	assert.Equal(t, float64(1), stats["resolvedIssues"])
	assert.Equal(t, float64(1), stats["emergencyIssues"])
	assert.Equal(t, float64(1), stats["pendingFeedback"])
	assert.Equal(t, float64(1), stats["upcomingEvents"])
	assert.Len(t, body["emergencyIssues"], 1)
}

func TestManageIssuesTable(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()
	s.do(http.MethodPost, "/api/admin/issues", admin, pothole())

	w, body := s.do(http.MethodGet, "/api/admin/issues", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := body["rows"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	assert.Equal(t, "Admin", row["reportedBy"])
	assert.Equal(t, "2026-03-14", row["date"])
	assert.Contains(t, row["urgencyColor"], "orange")
}

func TestAdminNav(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(http.MethodGet, "/api/admin/nav?path=/admin/feedback", s.adminToken(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	for _, l := range body["links"].([]any) {
		link := l.(map[string]any)
		assert.Equal(t, link["path"] == "/admin/feedback", link["active"])
	}
}

func TestAnnouncementsAndEvents(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	w, _ := s.do(http.MethodPost, "/api/admin/announcements", admin, gin.H{"title": "Water outage"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body := s.do(http.MethodPost, "/api/admin/announcements", admin, gin.H{"title": "Water outage", "message": "Tuesday 08:00-12:00"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Admin", body["author"])

	s.do(http.MethodPost, "/api/admin/events", admin, gin.H{"title": "Past", "date": fixedNow.Add(-time.Hour)})
	s.do(http.MethodPost, "/api/admin/events", admin, gin.H{"title": "Future", "date": fixedNow.Add(time.Hour)})

	req, _ := http.NewRequest(http.MethodGet, "/api/events?upcoming=true", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 1)
	assert.Equal(t, "Future", events[0].Title)

	req, _ = http.NewRequest(http.MethodGet, "/api/announcements", nil)
	rec = httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	var list []models.Announcement
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}

func TestFeedback(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(http.MethodPost, "/api/feedback", "", gin.H{"name": "Sipho", "message": "Great service"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "In Review", body["status"])

	w, _ = s.do(http.MethodPost, "/api/feedback", "", gin.H{"name": "Sipho"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHomeAndMeta(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(http.MethodGet, "/api/home", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Welcome to Setshaba Connect", body["heading"])

	w, body = s.do(http.MethodGet, "/api/meta", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Setshaba Connect", body["name"])
	assert.Equal(t, "test", body["version"])

	w, body = s.do(http.MethodGet, "/api/issue/options", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["statuses"], 3)
}

func authCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middlewares.AuthCookie {
			return ck
		}
	}
	t.Fatal("auth cookie not set")
	return nil
}

func TestLoginCookie_LaxOutsideProduction(t *testing.T) {
	s := newTestServer(t)
	w, _ := s.do(http.MethodPost, "/api/auth/admin/login", "", gin.H{"email": "admin@example.com", "password": "adminpass"})
	require.Equal(t, http.StatusOK, w.Code)

	ck := authCookie(t, w)
	assert.Equal(t, http.SameSiteLaxMode, ck.SameSite)
	assert.False(t, ck.Secure)
	assert.True(t, ck.HttpOnly)
}

func TestLoginCookie_CrossSiteInProduction(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config) { cfg.Environment = "production" })
	w, _ := s.do(http.MethodPost, "/api/auth/admin/login", "", gin.H{"email": "admin@example.com", "password": "adminpass"})
	require.Equal(t, http.StatusOK, w.Code)

	ck := authCookie(t, w)
	assert.Equal(t, http.SameSiteNoneMode, ck.SameSite)
	assert.True(t, ck.Secure)
}

func TestAdminUpdatesFeedbackStatus(t *testing.T) {
	s := newTestServer(t)
	admin := s.adminToken()

	_, body := s.do(http.MethodPost, "/api/feedback", "", gin.H{"name": "Sipho", "message": "Streetlight on 5th is out"})
	id := body["id"].(string)

	w, body := s.do(http.MethodPatch, "/api/admin/feedback/"+id, admin, gin.H{"status": "Acknowledged"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Acknowledged", body["feedback"].(map[string]any)["status"])

	w, body = s.do(http.MethodPatch, "/api/admin/feedback/"+id, admin, gin.H{"status": "Archived"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid status", body["error"])

	w, _ = s.do(http.MethodPatch, "/api/admin/feedback/"+id, admin, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = s.do(http.MethodPatch, "/api/admin/feedback/missing", admin, gin.H{"status": "Resolved"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, _ = s.do(http.MethodPatch, "/api/admin/feedback/"+id, s.citizenToken(), gin.H{"status": "Resolved"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	list, err := s.store.ListFeedback(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.Acknowledged, list[0].Status)
}

func TestCitizenReportRateLimitedWithoutRedis(t *testing.T) {
	s := newTestServerWithCounter(t, nil)
	citizen := s.citizenToken()

	for i := 0; i < 3; i++ {
		w, _ := s.do(http.MethodPost, "/api/issue/create", citizen, pothole())
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	w, body := s.do(http.MethodPost, "/api/issue/create", citizen, pothole())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Greater(t, body["retry_after"], float64(0))
	assert.Equal(t, 3, issueCount(t, s))
}
