// Package access holds the pure authorization predicates. Every decision
// takes an already-resolved user; no store access happens here.
package access

import (
	"github.com/filedrive/filedrive-server/internal/model"
)

// CanAccessOrg reports whether the user may read and write files of the
// organization. An org id equal to the user's own external identity token
// is always accessible: that is the personal namespace of a user operating
// without a real organization.
func CanAccessOrg(user model.User, orgID string) bool {
	if _, ok := user.MembershipIn(orgID); ok {
		return true
	}
	return user.Token == orgID
}

// CanAccessFile reports whether the user may see the file.
func CanAccessFile(user model.User, file model.File) bool {
	return CanAccessOrg(user, file.OrgID)
}

// CanModerate reports whether the user may trash, restore or delete the
// file: the author always can, as can organization admins and moderators.
func CanModerate(user model.User, file model.File) bool {
	if file.AuthorID == user.ID {
		return true
	}
	m, ok := user.MembershipIn(file.OrgID)
	if !ok {
		return false
	}
	switch m.Role {
	case model.RoleAdmin, model.RoleModerator:
		return true
	case model.RoleMember:
		return false
	default:
		return false
	}
}
