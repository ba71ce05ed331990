package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func request(t *testing.T, s *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func registerUser(t *testing.T, s *Server, username string) string {
	t.Helper()
	rec := request(t, s, http.MethodPost, "/api/v1/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[authResponse](t, rec).Token
}

func createProject(t *testing.T, s *Server, token, name string) projectResponse {
	t.Helper()
	rec := request(t, s, http.MethodPost, "/api/v1/projects", token, map[string]any{"name": name})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[projectResponse](t, rec)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := request(t, s, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	rec := request(t, s, http.MethodPost, "/api/v1/register", "", map[string]string{
		"username": "pm", "email": "pm@example.com", "password": "short",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = request(t, s, http.MethodPost, "/api/v1/register", "", map[string]string{
		"username": "pm",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegisterDuplicate(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "pm")

	rec := request(t, s, http.MethodPost, "/api/v1/register", "", map[string]string{
		"username": "pm", "email": "pm@example.com", "password": "password123",
	})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestLogin(t *testing.T) {
	s := newTestServer(t)
	registerUser(t, s, "pm")

	rec := request(t, s, http.MethodPost, "/api/v1/login", "", map[string]string{
		"username": "pm", "password": "password123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	auth := decode[authResponse](t, rec)
	require.NotEmpty(t, auth.Token)
	require.NotEmpty(t, auth.UserID)

	rec = request(t, s, http.MethodPost, "/api/v1/login", "", map[string]string{
		"username": "pm", "password": "wrong-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(t, s, http.MethodPost, "/api/v1/login", "", map[string]string{
		"username": "nobody", "password": "password123",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMe(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "pm")

	rec := request(t, s, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	me := decode[map[string]string](t, rec)
	require.Equal(t, "pm", me["username"])
	require.Equal(t, "manager", me["role"])
}

func TestAuthRequired(t *testing.T) {
	s := newTestServer(t)

	rec := request(t, s, http.MethodGet, "/api/v1/projects", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = request(t, s, http.MethodGet, "/api/v1/projects", "made-up-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutInvalidatesToken(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "pm")

	rec := request(t, s, http.MethodPost, "/api/v1/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = request(t, s, http.MethodGet, "/api/v1/me", token, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateProjectDefaults(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "pm")

	p := createProject(t, s, token, "Warehouse")
	require.NotEmpty(t, p.ID)
	require.NotEmpty(t, p.OwnerID)
	require.Equal(t, "planning", p.Status)
	require.Equal(t, "medium", p.Priority)
	require.Equal(t, "#4ECDC4", p.Color)
	require.Equal(t, []string{}, p.AssignedTeam)
	require.False(t, p.IsDeleted)
	require.Nil(t, p.DeletedAt)
	require.False(t, p.CreatedAt.IsZero())

	rec := request(t, s, http.MethodPost, "/api/v1/projects", token, map[string]any{})
	require.Equal(t, http.StatusBadRequest, rec.Code, "name is required")
}

func TestUpdateProjectPartial(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "pm")
	p := createProject(t, s, token, "Warehouse")

	rec := request(t, s, http.MethodPut, "/api/v1/projects/"+p.ID, token, map[string]any{
		"status":        "active",
		"completion":    30,
		"assigned_team": []string{"per-1"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	updated := decode[projectResponse](t, rec)
	require.Equal(t, "Warehouse", updated.Name, "unset fields keep their values")
	require.Equal(t, "active", updated.Status)
	require.Equal(t, 30, updated.Completion)
	require.Equal(t, []string{"per-1"}, updated.AssignedTeam)

	rec = request(t, s, http.MethodPut, "/api/v1/projects/missing", token, map[string]any{"name": "x"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "pm")
	p := createProject(t, s, token, "Warehouse")

	// Purging an active project is rejected.
	rec := request(t, s, http.MethodDelete, "/api/v1/projects/"+p.ID+"/permanent", token, nil)
	require.Equal(t, http.StatusConflict, rec.Code)

	// Bin.
	rec = request(t, s, http.MethodDelete, "/api/v1/projects/"+p.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	binned := decode[projectResponse](t, rec)
	require.True(t, binned.IsDeleted)
	require.NotNil(t, binned.DeletedAt)

	// Default listing hides binned projects; include_deleted shows them.
	rec = request(t, s, http.MethodGet, "/api/v1/projects", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[[]projectResponse](t, rec))

	rec = request(t, s, http.MethodGet, "/api/v1/projects?include_deleted=true", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, decode[[]projectResponse](t, rec), 1)

	// Restore.
	rec = request(t, s, http.MethodPost, "/api/v1/projects/"+p.ID+"/restore", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	restored := decode[projectResponse](t, rec)
	require.False(t, restored.IsDeleted)
	require.Nil(t, restored.DeletedAt)

	// Bin again, then purge for good.
	rec = request(t, s, http.MethodDelete, "/api/v1/projects/"+p.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = request(t, s, http.MethodDelete, "/api/v1/projects/"+p.ID+"/permanent", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// A second purge finds nothing.
	rec = request(t, s, http.MethodDelete, "/api/v1/projects/"+p.ID+"/permanent", token, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProjectsAreOwnerScoped(t *testing.T) {
	s := newTestServer(t)
	ownerToken := registerUser(t, s, "owner")
	otherToken := registerUser(t, s, "intruder")

	p := createProject(t, s, ownerToken, "Private Site")

	rec := request(t, s, http.MethodGet, "/api/v1/projects", otherToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, decode[[]projectResponse](t, rec))

	// Foreign projects are indistinguishable from missing ones.
	rec = request(t, s, http.MethodPut, "/api/v1/projects/"+p.ID, otherToken, map[string]any{"name": "stolen"})
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(t, s, http.MethodDelete, "/api/v1/projects/"+p.ID, otherToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(t, s, http.MethodDelete, "/api/v1/projects/"+p.ID+"/permanent", otherToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = request(t, s, http.MethodGet, "/api/v1/projects", ownerToken, nil)
	projects := decode[[]projectResponse](t, rec)
	require.Len(t, projects, 1)
	require.Equal(t, "Private Site", projects[0].Name)
}

func TestListNewestFirst(t *testing.T) {
	s := newTestServer(t)
	token := registerUser(t, s, "pm")

	createProject(t, s, token, "First")
	createProject(t, s, token, "Second")

	rec := request(t, s, http.MethodGet, "/api/v1/projects", token, nil)
	projects := decode[[]projectResponse](t, rec)
	require.Len(t, projects, 2)
}
