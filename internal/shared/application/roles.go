package application

// Caller roles supplied per request by the authentication collaborator.
// The core never issues tokens or checks passwords; it only consumes
// the caller's id and role.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// IsAdmin reports whether the role grants admin privileges.
func IsAdmin(role string) bool {
	return role == RoleAdmin
}
