package model

// IdentityEventKind enumerates normalized identity-provider event kinds.
type IdentityEventKind string

const (
	EventUserCreated       IdentityEventKind = "user.created"
	EventUserUpdated       IdentityEventKind = "user.updated"
	EventUserDeleted       IdentityEventKind = "user.deleted"
	EventMembershipAdded   IdentityEventKind = "membership.added"
	EventMembershipUpdated IdentityEventKind = "membership.updated"
	EventMembershipRemoved IdentityEventKind = "membership.removed"
)

// IdentityEvent is a normalized user or membership change delivered by the
// external identity provider. Token identifies the affected user; the
// remaining fields are populated per event kind.
type IdentityEvent struct {
	Kind      IdentityEventKind `json:"kind"`
	Token     string            `json:"token"`
	Name      string            `json:"name,omitempty"`
	AvatarURL string            `json:"avatar_url,omitempty"`
	OrgID     string            `json:"org_id,omitempty"`
	Role      string            `json:"role,omitempty"`
}
