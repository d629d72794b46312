package domain

import "time"

// UserRole enumerates account roles. Only moderators are eligible for
// automatic ticket assignment.
type UserRole string

const (
	RoleUser      UserRole = "user"
	RoleModerator UserRole = "moderator"
	RoleAdmin     UserRole = "admin"
)

// User is the domain model for accounts in the directory.
type User struct {
	ID        string
	Email     string
	Role      UserRole
	Skills    []string
	CreatedAt time.Time
}
