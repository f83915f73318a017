package entity

// Role is the authorization role assigned to a user.
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleGuest   Role = "Guest"
	RoleBlogger Role = "Blogger"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleGuest, RoleBlogger:
		return true
	}
	return false
}

// In reports membership in an allowed-role set.
func (r Role) In(roles ...Role) bool {
	for _, allowed := range roles {
		if r == allowed {
			return true
		}
	}
	return false
}
