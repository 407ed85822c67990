// Package domain contains the user model for the identity context.
package domain

import (
	"strings"
	"time"

	sharedDomain "github.com/felixgeelhaar/taskhive/internal/shared/domain"
	"github.com/google/uuid"
)

var (
	ErrUserNotFound = sharedDomain.NotFoundf("user not found")
	ErrEmptyName    = sharedDomain.Validationf("name is required")
	ErrInvalidEmail = sharedDomain.Validationf("a valid email is required")
	ErrInvalidRole  = sharedDomain.Validationf("invalid role")
)

// Role determines what a user may do across the system.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// IsValid checks if the role is valid.
func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User is a member of the workspace.
type User struct {
	sharedDomain.BaseEntity
	name            string
	email           string
	role            Role
	profileImageURL *string
}

// NewUser creates a user. An empty role defaults to member.
func NewUser(name, email string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, ErrInvalidEmail
	}
	if role == "" {
		role = RoleMember
	}
	if !role.IsValid() {
		return nil, ErrInvalidRole
	}

	return &User{
		BaseEntity: sharedDomain.NewBaseEntity(),
		name:       name,
		email:      email,
		role:       role,
	}, nil
}

// RehydrateUser recreates a user from persisted state.
func RehydrateUser(id uuid.UUID, name, email string, role Role, profileImageURL *string, createdAt, updatedAt time.Time) *User {
	return &User{
		BaseEntity:      sharedDomain.RehydrateBaseEntity(id, createdAt, updatedAt),
		name:            name,
		email:           email,
		role:            role,
		profileImageURL: profileImageURL,
	}
}

// Getters
func (u *User) Name() string             { return u.name }
func (u *User) Email() string            { return u.email }
func (u *User) Role() Role               { return u.role }
func (u *User) ProfileImageURL() *string { return u.profileImageURL }

// IsAdmin checks if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.role == RoleAdmin
}

// SetName renames the user.
func (u *User) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	u.name = name
	u.Touch()
	return nil
}

// SetRole changes the user's role.
func (u *User) SetRole(role Role) error {
	if !role.IsValid() {
		return ErrInvalidRole
	}
	u.role = role
	u.Touch()
	return nil
}

// SetProfileImageURL updates the avatar location.
func (u *User) SetProfileImageURL(url string) {
	if url == "" {
		u.profileImageURL = nil
	} else {
		u.profileImageURL = &url
	}
	u.Touch()
}
