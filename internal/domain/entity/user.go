package entity

import "time"

// Role is a flat two-value enum; there is no hierarchy beyond this
// distinction and no automatic transitions.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the two known roles.
func (r Role) Valid() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in PasswordHash.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor is the resolved identity behind a request: who is calling and with
// which role. It is passed explicitly to every service call; there is no
// ambient current-user state.
type Actor struct {
	ID   string
	Role Role
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
