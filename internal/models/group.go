package models

// Role is a member's permission level inside a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Group represents a set of members voting on tracks together.
// Groups own their weeks; deleting a group removes its weeks, tracks and votes.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group. The only mutable field.
	Name string

	// InviteCode is the 8-character uppercase alphanumeric join code.
	// Unique across all groups.
	InviteCode string

	// CreatedBy is the user ID of the creator, who is enrolled as admin.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// GroupMember is one user's membership in a group.
type GroupMember struct {
	GroupID  string
	UserID   string
	Role     Role
	JoinedAt int64

	// Profile is filled in by listings that join the users table.
	Profile Profile
}

// IsAdmin reports whether the member may manage weeks and the group itself.
func (m *GroupMember) IsAdmin() bool {
	return m != nil && m.Role == RoleAdmin
}
