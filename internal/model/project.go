package model

import "time"

// Project statuses
const (
	StatusPlanning  = "planning"
	StatusActive    = "active"
	StatusOnHold    = "on-hold"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Project priorities
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Project represents a construction project. Projects are the only
// collection synchronized with the remote API; they are never written to
// local storage and are fetched fresh on every session start.
type Project struct {
	ID           string     `json:"id"`
	OwnerID      string     `json:"ownerId"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	StartDate    string     `json:"startDate"`
	EndDate      string     `json:"endDate"`
	Budget       float64    `json:"budget"`
	Status       string     `json:"status"`
	Priority     string     `json:"priority"`
	AssignedTeam []string   `json:"assignedTeam"`
	Location     string     `json:"location"`
	Type         string     `json:"type"`
	ClientName   string     `json:"clientName"`
	Completion   int        `json:"completion"`
	Color        string     `json:"color"`
	IsDeleted    bool       `json:"isDeleted"`
	DeletedAt    *time.Time `json:"deletedAt"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// EntityID returns the project id.
func (p Project) EntityID() string { return p.ID }

// WithEntityID returns a copy of the project with the given id.
func (p Project) WithEntityID(id string) Project {
	p.ID = id
	return p
}

// Binned reports whether the project has been soft-deleted.
func (p Project) Binned() bool { return p.IsDeleted }

// ProjectDraft is the client-supplied portion of a new project. Identity,
// ownership, and lifecycle fields are server-assigned.
type ProjectDraft struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	StartDate    string   `json:"startDate"`
	EndDate      string   `json:"endDate"`
	Budget       float64  `json:"budget"`
	Status       string   `json:"status"`
	Priority     string   `json:"priority"`
	AssignedTeam []string `json:"assignedTeam"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	ClientName   string   `json:"clientName"`
	Completion   int      `json:"completion"`
	Color        string   `json:"color"`
}

// ProjectPatch is a partial update. Nil fields are left unchanged by the
// server. Ownership and lifecycle fields are deliberately absent: the
// server is the only writer of those.
type ProjectPatch struct {
	Name         *string   `json:"name,omitempty"`
	Description  *string   `json:"description,omitempty"`
	StartDate    *string   `json:"startDate,omitempty"`
	EndDate      *string   `json:"endDate,omitempty"`
	Budget       *float64  `json:"budget,omitempty"`
	Status       *string   `json:"status,omitempty"`
	Priority     *string   `json:"priority,omitempty"`
	AssignedTeam *[]string `json:"assignedTeam,omitempty"`
	Location     *string   `json:"location,omitempty"`
	Type         *string   `json:"type,omitempty"`
	ClientName   *string   `json:"clientName,omitempty"`
	Completion   *int      `json:"completion,omitempty"`
	Color        *string   `json:"color,omitempty"`
}
