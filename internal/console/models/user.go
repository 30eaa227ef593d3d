// Package models defines the data shapes the console exchanges with the
// log-management backend.
package models

import "time"

// Role is one of the fixed authorization levels attached to a User.
//
// Unknown values coming from a newer backend are carried through unchanged;
// gates only ever compare roles for equality, so an unrecognized role simply
// matches nothing.
type Role string

const (
	RoleUser    Role = "USER"
	RoleAnalyst Role = "ANALYST"
	RoleAdmin   Role = "ADMIN"
)

// In reports whether r is a member of the given set.
func (r Role) In(roles []Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// User is the backend's identity record. The console never mutates it
// field-by-field; it is only ever replaced wholesale by a backend response.
type User struct {
	ID        string     `json:"id"`
	Username  string     `json:"username"`
	Email     string     `json:"email"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	LastLogin *time.Time `json:"last_login"`
}

// HasAnyRole reports whether the user's role is in roles.
func (u *User) HasAnyRole(roles []Role) bool {
	return u != nil && u.Role.In(roles)
}
