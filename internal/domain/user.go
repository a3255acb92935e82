package domain

import "time"

// Role enumerates account roles. Role checks are exact-match: a
// SUPERADMIN does not implicitly satisfy a USER-gated route.
type Role string

const (
	RoleUser       Role = "USER"
	RoleSuperadmin Role = "SUPERADMIN"
)

// User is the domain model for console and storefront accounts.
// RefreshToken holds the most recently issued refresh token; a newer
// login overwrites it and silently invalidates the prior one.
type User struct {
	ID                string
	Email             string
	PasswordHash      string
	Role              Role
	IsConfirmed       bool
	ConfirmationToken *string
	RefreshToken      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Identity is the non-secret slice of a User returned by auth
// endpoints and embedded into token claims.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// Identity projects the user into its public identity.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}
