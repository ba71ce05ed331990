package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/hardhatlabs/constructpro/internal/model"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return &Client{
		config:     &Config{ServerURL: srv.URL, Token: "test-token"},
		configPath: filepath.Join(t.TempDir(), "session.json"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
	}
}

func TestListSendsBearerTokenAndDecodesWire(t *testing.T) {
	deleted := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/api/v1/projects", r.URL.Path)
		require.Equal(t, "true", r.URL.Query().Get("include_deleted"))
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))

		_ = json.NewEncoder(w).Encode([]map[string]any{
			{
				"id": "p1", "owner_id": "u1", "name": "Bridge",
				"start_date": "2026-01-15", "client_name": "City of Springfield",
				"assigned_team": []string{"per-1", "per-2"},
				"is_deleted":    false, "completion": 40,
			},
			{
				"id": "p2", "name": "Old depot",
				"is_deleted": true, "deleted_at": deleted.Format(time.RFC3339),
			},
		})
	})

	c := newTestClient(t, handler)
	projects, err := c.List(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, projects, 2)

	require.Equal(t, "Bridge", projects[0].Name)
	require.Equal(t, "u1", projects[0].OwnerID)
	require.Equal(t, "2026-01-15", projects[0].StartDate)
	require.Equal(t, "City of Springfield", projects[0].ClientName)
	require.Equal(t, []string{"per-1", "per-2"}, projects[0].AssignedTeam)
	require.Equal(t, 40, projects[0].Completion)

	require.True(t, projects[1].IsDeleted)
	require.NotNil(t, projects[1].DeletedAt)
	require.True(t, projects[1].DeletedAt.Equal(deleted))
}

func TestListWithoutDeleted(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Empty(t, r.URL.Query().Get("include_deleted"))
		_ = json.NewEncoder(w).Encode([]map[string]any{})
	})

	c := newTestClient(t, handler)
	projects, err := c.List(context.Background(), false)
	require.NoError(t, err)
	require.Empty(t, projects)
}

func TestCreateSendsSnakeCaseDraft(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/projects", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "Warehouse", body["name"])
		require.Equal(t, "ACME Corp", body["client_name"])
		require.Equal(t, "2026-02-01", body["start_date"])
		require.NotContains(t, body, "id", "the server assigns identity")
		require.NotContains(t, body, "owner_id")
		require.NotContains(t, body, "is_deleted")

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "srv-1", "name": "Warehouse"})
	})

	c := newTestClient(t, handler)
	p, err := c.Create(context.Background(), model.ProjectDraft{
		Name: "Warehouse", ClientName: "ACME Corp", StartDate: "2026-02-01",
	})
	require.NoError(t, err)
	require.Equal(t, "srv-1", p.ID)
}

func TestUpdateSerializesOnlySetFields(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/api/v1/projects/p1", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, map[string]any{"status": "active", "completion": float64(55)}, body)

		_ = json.NewEncoder(w).Encode(map[string]any{"id": "p1", "status": "active", "completion": 55})
	})

	c := newTestClient(t, handler)
	status := model.StatusActive
	completion := 55
	p, err := c.Update(context.Background(), "p1", model.ProjectPatch{Status: &status, Completion: &completion})
	require.NoError(t, err)
	require.Equal(t, "active", p.Status)
	require.Equal(t, 55, p.Completion)
}

func TestBinRestorePurgePaths(t *testing.T) {
	var calls []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)
		if r.Method == http.MethodDelete && r.URL.Path == "/api/v1/projects/p1/permanent" {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "p1", "is_deleted": r.Method == http.MethodDelete})
	})

	c := newTestClient(t, handler)

	binned, err := c.Bin(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, binned.IsDeleted)

	restored, err := c.Restore(context.Background(), "p1")
	require.NoError(t, err)
	require.False(t, restored.IsDeleted)

	require.NoError(t, c.Purge(context.Background(), "p1"))

	require.Equal(t, []string{
		"DELETE /api/v1/projects/p1",
		"POST /api/v1/projects/p1/restore",
		"DELETE /api/v1/projects/p1/permanent",
	}, calls)
}

func TestServerErrorMessageSurfaces(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "project is not in the bin"})
	})

	c := newTestClient(t, handler)
	err := c.Purge(context.Background(), "p1")
	require.Error(t, err)
	require.Contains(t, err.Error(), "project is not in the bin")
	require.Contains(t, err.Error(), "409")
}

func TestLoginStoresSession(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/login", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "pm", body["username"])
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "fresh-token", "user_id": "u1"})
	})

	c := newTestClient(t, handler)
	c.config.Token = ""

	require.NoError(t, c.Login(context.Background(), "pm", "secret"))
	require.True(t, c.IsLoggedIn())
	require.Equal(t, "u1", c.Identity().ID)
	require.Equal(t, "pm", c.Identity().Username)
}
