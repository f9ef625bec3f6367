package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserStore defines persistence operations for users and their memberships.
type UserStore interface {
	GetByToken(ctx context.Context, token string) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	Create(ctx context.Context, user User) (User, error)
	UpdateProfile(ctx context.Context, token string, name string, avatarURL string) error
	Deactivate(ctx context.Context, token string) error
	AddMembership(ctx context.Context, userID uuid.UUID, orgID string, role Role) error
	UpdateMembershipRole(ctx context.Context, userID uuid.UUID, orgID string, role Role) error
	RemoveMembership(ctx context.Context, userID uuid.UUID, orgID string) error
}

// User represents a directory user mapped from an external auth identity.
type User struct {
	ID          uuid.UUID
	Token       string
	Name        string
	AvatarURL   string
	Memberships []Membership
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

// Membership ties a user to an organization with a role.
type Membership struct {
	OrgID string
	Role  Role
}

// MembershipIn returns the user's membership in the given organization.
func (u User) MembershipIn(orgID string) (Membership, bool) {
	for _, m := range u.Memberships {
		if m.OrgID == orgID {
			return m, true
		}
	}
	return Membership{}, false
}

// Role enumerates organization roles.
type Role string

const (
	// RoleAdmin may moderate any file in the organization.
	RoleAdmin Role = "admin"
	// RoleModerator may moderate any file in the organization.
	RoleModerator Role = "moderator"
	// RoleMember may only moderate files they authored.
	RoleMember Role = "member"
)

// ParseRole normalizes identity-provider role strings ("org:admin" style)
// into the closed Role enum.
func ParseRole(s string) (Role, error) {
	switch s {
	case "org:admin", "admin":
		return RoleAdmin, nil
	case "org:moderator", "moderator":
		return RoleModerator, nil
	case "org:member", "member":
		return RoleMember, nil
	default:
		return "", &ValidationError{Field: "role", Reason: "unknown role " + s}
	}
}
