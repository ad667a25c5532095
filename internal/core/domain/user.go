package domain

import "time"

// Role is the authorization role of a user account.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSupervisor Role = "supervisor"
	RoleEmployee   Role = "employee"
)

// Roles lists every assignable role in display order.
var Roles = []Role{RoleAdmin, RoleSupervisor, RoleEmployee}

// ParseRole converts s into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleSupervisor, RoleEmployee:
		return r, nil
	}
	return "", &ValidationError{Field: "role", Reason: "must be one of: admin supervisor employee"}
}

// User models an account that can sign in to either surface.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	IsActive     bool      `json:"is_active"`
	TokenDigest  string    `json:"-"` // SHA-256 hex of the current API token; empty when none
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasToken reports whether an API token is currently issued to the user.
func (u *User) HasToken() bool {
	return u.TokenDigest != ""
}

// UserPatch carries the optional fields an admin may change on an account.
type UserPatch struct {
	Username *string
	Email    *string
	Role     *Role
	IsActive *bool
	Password *string
}
