package server

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type projectResponse struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"owner_id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	StartDate    string     `json:"start_date"`
	EndDate      string     `json:"end_date"`
	Budget       float64    `json:"budget"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	AssignedTeam []string   `json:"assigned_team"`
	Location     string     `json:"location"`
	Type         string     `json:"type"`
	ClientName   string     `json:"client_name"`
	Completion   int        `json:"completion"`
	Color        string     `json:"color"`
	IsDeleted    bool       `json:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type projectDraftRequest struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	StartDate    string   `json:"start_date"`
	EndDate      string   `json:"end_date"`
	Budget       float64  `json:"budget"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	AssignedTeam []string `json:"assigned_team"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	ClientName   string   `json:"client_name"`
	Completion   int      `json:"completion"`
	Color        string   `json:"color"`
}

type projectPatchRequest struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	StartDate    *string   `json:"start_date"`
	EndDate      *string   `json:"end_date"`
	Budget       *float64  `json:"budget"`
	Status       *string   `json:"status"`
	Priority     *string   `json:"priority"`
	AssignedTeam *[]string `json:"assigned_team"`
	Location     *string   `json:"location"`
	Type         *string   `json:"type"`
	ClientName   *string   `json:"client_name"`
	Completion   *int      `json:"completion"`
	Color        *string   `json:"color"`
}

const projectColumns = `id, owner_id, name, description, start_date, end_date, budget,
	status, priority, assigned_team, location, type, client_name, completion,
	color, is_deleted, deleted_at, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (projectResponse, error) {
	var (
		p         projectResponse
		team      string
		deletedAt sql.NullString
		createdAt string
		updatedAt string
	)
	err := row.Scan(&p.ID, &p.OwnerID, &p.Name, &p.Description, &p.StartDate, &p.EndDate,
		&p.Budget, &p.Status, &p.Priority, &team, &p.Location, &p.Type, &p.ClientName,
		&p.Completion, &p.Color, &p.IsDeleted, &deletedAt, &createdAt, &updatedAt)
	if err != nil {
		return projectResponse{}, err
	}

	p.AssignedTeam = []string{}
	_ = json.Unmarshal([]byte(team), &p.AssignedTeam)
	if deletedAt.Valid {
		t := parseTime(deletedAt.String)
		p.DeletedAt = &t
	}
	p.CreatedAt = parseTime(createdAt)
	p.UpdatedAt = parseTime(updatedAt)
	return p, nil
}

// getProject fetches one project scoped to its owner. Projects belonging
// to other users are indistinguishable from missing ones.
func (s *Server) getProject(ownerID, id string) (projectResponse, error) {
	row := s.db.QueryRow(s.rebind(`
		SELECT `+projectColumns+` FROM projects WHERE id = ? AND owner_id = ?`),
		id, ownerID)
	return scanProject(row)
}

// handleListProjects returns the caller's projects, newest first. Binned
// projects are excluded unless include_deleted=true.
func (s *Server) handleListProjects(c echo.Context) error {
	ownerID := c.Get("user_id").(string)
	includeDeleted := c.QueryParam("include_deleted") == "true"

	query := `SELECT ` + projectColumns + ` FROM projects WHERE owner_id = ?`
	if !includeDeleted {
		query += ` AND is_deleted = FALSE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.Query(s.rebind(query), ownerID)
	if err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}
	defer rows.Close()

	projects := make([]projectResponse, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			c.Logger().Error("scan error:", err)
			return apiError(c, http.StatusInternalServerError, "internal error")
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, projects)
}

// handleCreateProject inserts a new project owned by the caller. The
// server assigns id, ownership, lifecycle fields, and timestamps; any
// the client sent are ignored by the request shape.
func (s *Server) handleCreateProject(c echo.Context) error {
	ownerID := c.Get("user_id").(string)

	var req projectDraftRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request")
	}
	if req.Name == "" {
		return apiError(c, http.StatusBadRequest, "name required")
	}

	if req.Status == "" {
		req.Status = "planning"
	}
	if req.Priority == "" {
		req.Priority = "medium"
	}
	if req.Color == "" {
		req.Color = "#4ECDC4"
	}
	if req.AssignedTeam == nil {
		req.AssignedTeam = []string{}
	}

	team, _ := json.Marshal(req.AssignedTeam)
	id := uuid.NewString()
	ts := now()

	_, err := s.db.Exec(s.rebind(`
		INSERT INTO projects (id, owner_id, name, description, start_date, end_date,
			budget, status, priority, assigned_team, location, type, client_name,
			completion, color, is_deleted, deleted_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, FALSE, NULL, ?, ?)`),
		id, ownerID, req.Name, req.Description, req.StartDate, req.EndDate,
		req.Budget, req.Status, req.Priority, string(team), req.Location, req.Type,
		req.ClientName, req.Completion, req.Color, ts, ts,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}

	p, err := s.getProject(ownerID, id)
	if err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, p)
}

// handleUpdateProject applies a partial update. Unset fields keep their
// stored values; id, owner, lifecycle fields, and created_at cannot be
// changed through this route.
func (s *Server) handleUpdateProject(c echo.Context) error {
	ownerID := c.Get("user_id").(string)
	id := c.Param("id")

	var req projectPatchRequest
	if err := c.Bind(&req); err != nil {
		return apiError(c, http.StatusBadRequest, "invalid request")
	}

	p, err := s.getProject(ownerID, id)
	if err != nil {
		return apiError(c, http.StatusNotFound, "project not found")
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.StartDate != nil {
		p.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		p.EndDate = *req.EndDate
	}
	if req.Budget != nil {
		p.Budget = *req.Budget
	}
	if req.Status != nil {
		p.Status = *req.Status
	}
	if req.Priority != nil {
		p.Priority = *req.Priority
	}
	if req.AssignedTeam != nil {
		p.AssignedTeam = *req.AssignedTeam
	}
	if req.Location != nil {
		p.Location = *req.Location
	}
	if req.Type != nil {
		p.Type = *req.Type
	}
	if req.ClientName != nil {
		p.ClientName = *req.ClientName
	}
	if req.Completion != nil {
		p.Completion = *req.Completion
	}
	if req.Color != nil {
		p.Color = *req.Color
	}

	team, _ := json.Marshal(p.AssignedTeam)
	_, err = s.db.Exec(s.rebind(`
		UPDATE projects SET name = ?, description = ?, start_date = ?, end_date = ?,
			budget = ?, status = ?, priority = ?, assigned_team = ?, location = ?,
			type = ?, client_name = ?, completion = ?, color = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`),
		p.Name, p.Description, p.StartDate, p.EndDate, p.Budget, p.Status, p.Priority,
		string(team), p.Location, p.Type, p.ClientName, p.Completion, p.Color, now(),
		id, ownerID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}

	p, err = s.getProject(ownerID, id)
	if err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, p)
}

// handleBinProject soft-deletes a project: the record stays, marked
// deleted with a deletion timestamp, and can be restored.
func (s *Server) handleBinProject(c echo.Context) error {
	ownerID := c.Get("user_id").(string)
	id := c.Param("id")

	res, err := s.db.Exec(s.rebind(`
		UPDATE projects SET is_deleted = TRUE, deleted_at = ?, updated_at = ?
		WHERE id = ? AND owner_id = ?`),
		now(), now(), id, ownerID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apiError(c, http.StatusNotFound, "project not found")
	}

	p, err := s.getProject(ownerID, id)
	if err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, p)
}

// handleRestoreProject brings a binned project back to active.
func (s *Server) handleRestoreProject(c echo.Context) error {
	ownerID := c.Get("user_id").(string)
	id := c.Param("id")

	res, err := s.db.Exec(s.rebind(`
		UPDATE projects SET is_deleted = FALSE, deleted_at = NULL, updated_at = ?
		WHERE id = ? AND owner_id = ?`),
		now(), id, ownerID,
	)
	if err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apiError(c, http.StatusNotFound, "project not found")
	}

	p, err := s.getProject(ownerID, id)
	if err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}
	return c.JSON(http.StatusOK, p)
}

// handlePurgeProject permanently removes a binned project. Active
// projects must be binned first.
func (s *Server) handlePurgeProject(c echo.Context) error {
	ownerID := c.Get("user_id").(string)
	id := c.Param("id")

	var isDeleted bool
	err := s.db.QueryRow(s.rebind(`
		SELECT is_deleted FROM projects WHERE id = ? AND owner_id = ?`),
		id, ownerID,
	).Scan(&isDeleted)
	if err == sql.ErrNoRows {
		return apiError(c, http.StatusNotFound, "project not found")
	}
	if err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}
	if !isDeleted {
		return apiError(c, http.StatusConflict, "project must be moved to the bin first")
	}

	if _, err := s.db.Exec(s.rebind(`
		DELETE FROM projects WHERE id = ? AND owner_id = ?`),
		id, ownerID,
	); err != nil {
		c.Logger().Error("db error:", err)
		return apiError(c, http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "deleted"})
}
