package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"pmdashboard/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type apiClient struct {
	t      *testing.T
	router http.Handler
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		DBDriver:         "sqlite",
		DBDSN:            filepath.Join(t.TempDir(), "api.db"),
		JWTSecret:        "access-secret",
		JWTRefreshSecret: "refresh-secret",
		AccessTokenTTL:   30 * time.Minute,
		RefreshTokenTTL:  time.Hour,
		BcryptCost:       bcrypt.MinCost,
		SeedPasswords:    map[string]string{"admin": "adminpass", "manager": "managerpass", "member": "memberpass"},
	}
	app, err := NewApp(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close() })

	_, err = app.Seed(context.Background())
	require.NoError(t, err)

	router, err := Router(app.Services, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	return &apiClient{t: t, router: router}
}

func (a *apiClient) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(a.t, err)
		r = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *apiClient) decode(w *httptest.ResponseRecorder) map[string]any {
	a.t.Helper()
	var got map[string]any
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &got), w.Body.String())
	return got
}

func (a *apiClient) signin(username, password string) (string, string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/auth/signin", "", gin.H{"username": username, "password": password})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	token := a.decode(w)["token"].(map[string]any)
	return token["accessToken"].(string), token["refreshToken"].(string)
}

// create posts body and returns the id field of the named object in the
// response.
func (a *apiClient) create(path, token string, body any, object, idField string) int {
	a.t.Helper()
	w := a.do(http.MethodPost, path, token, body)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return int(a.decode(w)[object].(map[string]any)[idField].(float64))
}

func TestSigninRejectsIdentically(t *testing.T) {
	api := newAPI(t)

	wrong := api.do(http.MethodPost, "/auth/signin", "", gin.H{"username": "admin", "password": "nope"})
	unknown := api.do(http.MethodPost, "/auth/signin", "", gin.H{"username": "ghost", "password": "nope"})

	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, wrong.Body.String(), unknown.Body.String())
	assert.Equal(t, "REJECTED", api.decode(wrong)["code"])
}

func TestSignupAndProfile(t *testing.T) {
	api := newAPI(t)

	w := api.do(http.MethodPost, "/auth/signup", "", gin.H{"username": "dana", "email": "dana@example.com", "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/auth/signup", "", gin.H{"username": "dana", "email": "other@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "UNIQUENESS_VIOLATION", api.decode(w)["code"])

	w = api.do(http.MethodPost, "/auth/signup", "", gin.H{"username": "eve", "email": "eve@example.com", "password": "secret1", "role": "Admin"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	access, _ := api.signin("dana", "secret1")
	w = api.do(http.MethodGet, "/user/profile", access, nil)
	require.Equal(t, http.StatusOK, w.Code)
	profile := api.decode(w)
	assert.Equal(t, "dana", profile["username"])
	assert.Equal(t, "Team Member", profile["role"])
	assert.NotContains(t, profile, "password_hash")
}

func TestRefreshTokenPicksUpRoleChange(t *testing.T) {
	api := newAPI(t)
	adminToken, _ := api.signin("admin", "adminpass")
	memberToken, memberRefresh := api.signin("member", "memberpass")

	w := api.do(http.MethodGet, "/admin/users", memberToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodGet, "/user/profile", memberToken, nil)
	memberID := int(api.decode(w)["user_id"].(float64))

	w = api.do(http.MethodPut, "/admin/users/"+strconv.Itoa(memberID)+"/role", adminToken, gin.H{"role": "Project Manager"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/auth/newaccesstoken", memberRefresh, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	promoted := api.decode(w)["accessToken"].(string)

	w = api.do(http.MethodPost, "/project", promoted, gin.H{"name": "Promoted"})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = api.do(http.MethodPost, "/auth/newaccesstoken", memberToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectTaskFlow(t *testing.T) {
	api := newAPI(t)
	manager, _ := api.signin("manager", "managerpass")
	member, _ := api.signin("member", "memberpass")

	w := api.do(http.MethodPost, "/project", member, gin.H{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	projectID := api.create("/project", manager, gin.H{
		"name": "Mobile App", "priority": "High", "start_date": "2026-01-05", "due_date": "2026-03-01",
	}, "project", "project_id")
	project := "/project/" + strconv.Itoa(projectID)

	taskA := api.create("/task", manager, gin.H{"title": "Design", "project_id": projectID, "estimate_hours": 8}, "task", "task_id")
	taskB := api.create("/task", manager, gin.H{"title": "Build", "project_id": projectID, "dependency_task_id": taskA}, "task", "task_id")
	taskC := api.create("/task", manager, gin.H{"title": "Ship", "project_id": projectID, "dependency_task_id": taskB}, "task", "task_id")

	// Closing A -> C would form a cycle.
	w = api.do(http.MethodPut, "/task/"+strconv.Itoa(taskA)+"/dependency", manager, gin.H{"depends_on_id": taskC})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "CYCLIC_DEPENDENCY", api.decode(w)["code"])

	w = api.do(http.MethodGet, project+"/wbs", member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var wbs []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &wbs))
	require.Len(t, wbs, 1)
	assert.Equal(t, "Design", wbs[0]["title"])

	advance := "/task/" + strconv.Itoa(taskA) + "/advance"
	w = api.do(http.MethodPut, advance, member, gin.H{"status": "Done", "hours": 2.5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = api.do(http.MethodPut, advance, member, gin.H{"status": "Done", "hours": 30})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodPut, advance, member, gin.H{"status": "Blocked"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/task/"+strconv.Itoa(taskA)+"/hours", member, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 2.5, api.decode(w)["logged_hours"], 1e-9)

	w = api.do(http.MethodGet, project+"/histogram", member, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	w = api.do(http.MethodGet, project+"/kanban", member, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPut, project, manager, gin.H{"name": "Mobile App v2", "version": 99})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "CONFLICT", api.decode(w)["code"])

	w = api.do(http.MethodDelete, project, manager, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.EqualValues(t, 3, api.decode(w)["tasks"])

	w = api.do(http.MethodGet, project, manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = api.do(http.MethodGet, "/task/"+strconv.Itoa(taskB), manager, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportCSV(t *testing.T) {
	api := newAPI(t)
	manager, _ := api.signin("manager", "managerpass")
	member, _ := api.signin("member", "memberpass")

	w := api.do(http.MethodGet, "/report/export/time_logs", manager, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "time_logs_report_")

	w = api.do(http.MethodGet, "/report/export/users", manager, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "$2a$")

	w = api.do(http.MethodGet, "/report/export/invoices", manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = api.do(http.MethodGet, "/report/export/tasks", member, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = api.do(http.MethodGet, "/report/weekly", member, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestInvalidPathID(t *testing.T) {
	api := newAPI(t)
	manager, _ := api.signin("manager", "managerpass")

	w := api.do(http.MethodGet, "/project/abc", manager, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	w = api.do(http.MethodGet, "/project/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProjectAndTaskRoutes(t *testing.T) {
	api := newAPI(t)
	engine, ok := api.router.(*gin.Engine)
	require.True(t, ok)

	registered := map[string]bool{}
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}
	for _, route := range []string{
		"GET /project", "GET /project/:id", "POST /project", "PUT /project/:id", "DELETE /project/:id",
		"GET /project/:id/kanban", "GET /project/:id/wbs", "GET /project/:id/risks",
		"POST /task", "GET /task/:id", "PUT /task/:id", "PUT /task/:id/advance",
		"PUT /task/:id/sprint", "PUT /task/:id/dependency", "GET /task/:id/hours",
	} {
		assert.True(t, registered[route], route)
	}

	member, _ := api.signin("member", "memberpass")
	for _, req := range []struct{ method, path string }{
		{http.MethodPost, "/project"},
		{http.MethodPut, "/project/1"},
		{http.MethodDelete, "/project/1"},
		{http.MethodPost, "/task"},
		{http.MethodPut, "/task/1"},
		{http.MethodPut, "/task/1/sprint"},
		{http.MethodPut, "/task/1/dependency"},
	} {
		w := api.do(req.method, req.path, member, gin.H{})
		assert.Equal(t, http.StatusForbidden, w.Code, req.method+" "+req.path)
	}
}
