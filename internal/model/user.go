package model

import "time"

// Role names stored in the `user_roles` table.
const (
	RoleAdmin     = "ADMIN"
	RoleStaff     = "STAFF"
	RoleSponsor   = "SPONSOR"
	RoleMentor    = "MENTOR"
	RoleVolunteer = "VOLUNTEER"
	RoleAttendee  = "ATTENDEE"
)

// User represents an application user record as stored in the `users`
// table together with its role entries.  PasswordHash holds the bcrypt hash
// and Roles the entries from `user_roles`.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	Roles        []UserRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRole is a single role entry of a user.  Inactive roles are kept so an
// admin can restore them, but they grant nothing.
type UserRole struct {
	Role   string `json:"role"`
	Active bool   `json:"active"`
}

// KnownRole reports whether name is one of the role constants above.
func KnownRole(name string) bool {
	switch name {
	case RoleAdmin, RoleStaff, RoleSponsor, RoleMentor, RoleVolunteer, RoleAttendee:
		return true
	}
	return false
}

// HasRole reports whether the user holds any of the given roles actively.
func HasRole(roles []UserRole, names ...string) bool {
	for _, r := range roles {
		if !r.Active {
			continue
		}
		for _, n := range names {
			if r.Role == n {
				return true
			}
		}
	}
	return false
}
