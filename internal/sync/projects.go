package sync

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/hardhatlabs/constructpro/internal/model"
)

// wireProject is the project record as the API serves it. Field names at
// the wire boundary are snake_case; the in-memory model is camelCase.
type wireProject struct {
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

func (w wireProject) toModel() model.Project {
	return model.Project{
		ID:           w.ID,
		OwnerID:      w.OwnerID,
		Name:         w.Name,
		Description:  w.Description,
		StartDate:    w.StartDate,
		EndDate:      w.EndDate,
		Budget:       w.Budget,
		Status:       w.Status,
		Priority:     w.Priority,
		AssignedTeam: w.AssignedTeam,
		Location:     w.Location,
		Type:         w.Type,
		ClientName:   w.ClientName,
		Completion:   w.Completion,
		Color:        w.Color,
		IsDeleted:    w.IsDeleted,
		DeletedAt:    w.DeletedAt,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

// wireDraft carries only the client-supplied fields of a new project.
// Identity, ownership, and lifecycle fields never cross the wire on
// create; the server assigns them.
type wireDraft struct {
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

func draftToWire(d model.ProjectDraft) wireDraft {
	return wireDraft{
		Name:         d.Name,
		Description:  d.Description,
		StartDate:    d.StartDate,
		EndDate:      d.EndDate,
		Budget:       d.Budget,
		Status:       d.Status,
		Priority:     d.Priority,
		AssignedTeam: d.AssignedTeam,
		Location:     d.Location,
		Type:         d.Type,
		ClientName:   d.ClientName,
		Completion:   d.Completion,
		Color:        d.Color,
	}
}

// wirePatch is a partial update. Only set fields are serialized, and the
// immutable/server-owned fields (id, owner, timestamps, lifecycle) have
// no representation here at all.
type wirePatch struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	StartDate    *string   `json:"start_date,omitempty"`
	EndDate      *string   `json:"end_date,omitempty"`
	Budget       *float64  `json:"budget,omitempty"`
	Status       *string   `json:"status,omitempty"`
	Priority     *string   `json:"priority,omitempty"`
	AssignedTeam *[]string `json:"assigned_team,omitempty"`
	Location     *string   `json:"location,omitempty"`
	Type         *string   `json:"type,omitempty"`
	ClientName   *string   `json:"client_name,omitempty"`
	Completion   *int      `json:"completion,omitempty"`
	Color        *string   `json:"color,omitempty"`
}

func patchToWire(p model.ProjectPatch) wirePatch {
	return wirePatch{
		Name:         p.Name,
		Description:  p.Description,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Budget:       p.Budget,
		Status:       p.Status,
		Priority:     p.Priority,
		AssignedTeam: p.AssignedTeam,
		Location:     p.Location,
		Type:         p.Type,
		ClientName:   p.ClientName,
		Completion:   p.Completion,
		Color:        p.Color,
	}
}

// List fetches the caller's projects. The server scopes the result to the
// session owner; includeDeleted adds binned projects so the bin view can
// be rendered without a second fetch.
func (c *Client) List(ctx context.Context, includeDeleted bool) ([]model.Project, error) {
	path := "/api/v1/projects"
	if includeDeleted {
		path += "?include_deleted=true"
	}

	var wire []wireProject
	if err := c.do(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}

	projects := make([]model.Project, 0, len(wire))
	for _, w := range wire {
		projects = append(projects, w.toModel())
	}
	return projects, nil
}

// Create submits a new project and returns the server's canonical record.
func (c *Client) Create(ctx context.Context, draft model.ProjectDraft) (model.Project, error) {
	var wire wireProject
	if err := c.do(ctx, http.MethodPost, "/api/v1/projects", draftToWire(draft), &wire); err != nil {
		return model.Project{}, err
	}
	return wire.toModel(), nil
}

// Update submits a partial update and returns the server's echo.
func (c *Client) Update(ctx context.Context, id string, patch model.ProjectPatch) (model.Project, error) {
	var wire wireProject
	path := fmt.Sprintf("/api/v1/projects/%s", id)
	if err := c.do(ctx, http.MethodPut, path, patchToWire(patch), &wire); err != nil {
		return model.Project{}, err
	}
	return wire.toModel(), nil
}

// Bin soft-deletes a project server-side and returns the binned record.
func (c *Client) Bin(ctx context.Context, id string) (model.Project, error) {
	var wire wireProject
	path := fmt.Sprintf("/api/v1/projects/%s", id)
	if err := c.do(ctx, http.MethodDelete, path, nil, &wire); err != nil {
		return model.Project{}, err
	}
	return wire.toModel(), nil
}

// Restore brings a binned project back and returns the restored record.
func (c *Client) Restore(ctx context.Context, id string) (model.Project, error) {
	var wire wireProject
	path := fmt.Sprintf("/api/v1/projects/%s/restore", id)
	if err := c.do(ctx, http.MethodPost, path, nil, &wire); err != nil {
		return model.Project{}, err
	}
	return wire.toModel(), nil
}

// Purge permanently deletes a binned project.
func (c *Client) Purge(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/v1/projects/%s/permanent", id)
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}
