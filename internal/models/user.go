package models

import (
	"time"
)

// User represents a user in the system. Identity and role resolution happen
// upstream; this core reads users only for author metadata and role checks.
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Role      string    `json:"role" db:"role"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// RoleAdmin is the role allowed to moderate comments
const RoleAdmin = "admin"

// ValidRoles defines allowed user roles
var ValidRoles = map[string]bool{
	"admin":  true,
	"editor": true,
	"viewer": true,
}

// Principal is the already-authenticated caller identity, resolved by the
// upstream auth layer and passed through on each request.
type Principal struct {
	UserID string
	Role   string
}

// IsAdmin reports whether the principal may perform moderation actions
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
