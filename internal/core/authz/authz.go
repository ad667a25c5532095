// Package authz holds the role → capability table. Every decision is a pure
// function of the role so it can be checked without a database.
package authz

import "github.com/sitecrew/timeclock/internal/core/domain"

// Capability is a named permission derived from a role.
type Capability string

const (
	ManageWorkmen Capability = "manage_workmen"
	ClockWorkmen  Capability = "clock_workmen"
	Admin         Capability = "admin"
)

var grants = map[Capability]map[domain.Role]bool{
	ManageWorkmen: {domain.RoleAdmin: true, domain.RoleSupervisor: true},
	ClockWorkmen:  {domain.RoleAdmin: true, domain.RoleSupervisor: true, domain.RoleEmployee: true},
	Admin:         {domain.RoleAdmin: true},
}

// Allowed reports whether role holds capability.
func Allowed(role domain.Role, c Capability) bool {
	return grants[c][role]
}

// Require returns ErrUnauthenticated for a missing actor and ErrForbidden
// when the actor's role lacks the capability.
func Require(actor *domain.User, c Capability) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	if !Allowed(actor.Role, c) {
		return domain.ErrForbidden
	}
	return nil
}

// Authenticated only checks that an actor is present.
func Authenticated(actor *domain.User) error {
	if actor == nil {
		return domain.ErrUnauthenticated
	}
	return nil
}

// Permissions is the capability summary exposed to clients.
type Permissions struct {
	CanManageWorkmen bool `json:"can_manage_workmen"`
	CanClockWorkmen  bool `json:"can_clock_workmen"`
	IsAdmin          bool `json:"is_admin"`
}

// PermissionsFor summarises the capabilities of role.
func PermissionsFor(role domain.Role) Permissions {
	return Permissions{
		CanManageWorkmen: Allowed(role, ManageWorkmen),
		CanClockWorkmen:  Allowed(role, ClockWorkmen),
		IsAdmin:          Allowed(role, Admin),
	}
}
