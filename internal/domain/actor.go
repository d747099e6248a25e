package domain

import "time"

// Role is an actor's position in the canvassing hierarchy
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleTeamLeader Role = "team_leader"
)

// Valid reports whether r is one of the known roles
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSupervisor, RoleTeamLeader:
		return true
	}
	return false
}

// CanAuthor reports whether the role may write status records and category assignments
func (r Role) CanAuthor() bool {
	return r == RoleSupervisor || r == RoleTeamLeader
}

// Actor represents an authenticated worker. SupervisorID is set only for team leaders.
type Actor struct {
	ID           string    `json:"id"`
	Role         Role      `json:"role"`
	SupervisorID string    `json:"supervisor_id,omitempty"`
	ShortCode    string    `json:"short_code"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (a *Actor) IsAdmin() bool      { return a != nil && a.Role == RoleAdmin }
func (a *Actor) IsSupervisor() bool { return a != nil && a.Role == RoleSupervisor }
func (a *Actor) IsTeamLeader() bool { return a != nil && a.Role == RoleTeamLeader }

// CreateActorRequest represents an actor creation request
type CreateActorRequest struct {
	Role         string `json:"role" validate:"required,oneof=admin supervisor team_leader"`
	SupervisorID string `json:"supervisor_id" validate:"omitempty,max=64"`
	ShortCode    string `json:"short_code" validate:"required,min=2,max=32"`
	Name         string `json:"name" validate:"required,max=200"`
}
