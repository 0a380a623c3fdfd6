// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/loekvdlooilionx/votejam/internal/models"
)

// UserStore persists registered users.
type UserStore interface {
	// CreateUser inserts a user. Returns models.ErrEmailExists on a duplicate email.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil, nil when no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns nil, nil when the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs returns a map of user ID to User. Unknown IDs are omitted.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)
}

// GroupStore persists groups and their memberships.
type GroupStore interface {
	// CreateGroup inserts the group and enrolls group.CreatedBy as admin in
	// one transaction. Returns models.ErrInviteCodeTaken when the code collides.
	CreateGroup(ctx context.Context, group *models.Group) error

	GetGroup(ctx context.Context, groupID string) (*models.Group, error)
	GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error)

	// ListGroupsForUser returns the groups the user belongs to, newest first.
	ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error)

	RenameGroup(ctx context.Context, groupID, name string) error

	// DeleteGroup removes the group and cascades to members, weeks, tracks and votes.
	DeleteGroup(ctx context.Context, groupID string) error

	// AddGroupMember enrolls a user. Adding an existing member is a no-op
	// that keeps the current role.
	AddGroupMember(ctx context.Context, member *models.GroupMember) error

	// GetGroupMember returns models.ErrNotMember when the user is not enrolled.
	GetGroupMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error)

	ListGroupMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error)
}

// WeekStore persists voting weeks.
type WeekStore interface {
	// ActivateWeek deactivates the group's current active week (if any) and
	// inserts week as the new active week, as one atomic unit.
	// It returns the ID of the week it deactivated, or "" if none was active.
	ActivateWeek(ctx context.Context, week *models.GroupWeek) (string, error)

	// DeactivateWeek clears the active flag of the given week.
	// Returns models.ErrInactiveWeek when the week is not active.
	DeactivateWeek(ctx context.Context, groupID, weekID string) error

	// GetActiveWeek returns nil, nil when the group has no active week.
	GetActiveWeek(ctx context.Context, groupID string) (*models.GroupWeek, error)

	GetWeek(ctx context.Context, weekID string) (*models.GroupWeek, error)

	// ListWeeks returns the group's weeks, newest first.
	ListWeeks(ctx context.Context, groupID string) ([]*models.GroupWeek, error)
}

// TrackStore persists submitted tracks.
type TrackStore interface {
	// InsertTrack inserts the track only if its week is active at insert time.
	// Duplicates are rejected by the (week, catalog id) unique constraint with
	// models.ErrDuplicateTrack; an inactive week yields models.ErrInactiveWeek.
	InsertTrack(ctx context.Context, track *models.Track) error

	GetTrack(ctx context.Context, trackID string) (*models.Track, error)

	// ListTracksByWeek returns the week's tracks in submission order.
	ListTracksByWeek(ctx context.Context, weekID string) ([]*models.Track, error)
}

// VoteStore persists votes.
type VoteStore interface {
	// InsertVote checks, atomically with the insert, that the track belongs to
	// vote.GroupWeekID, that the week is active, and that the user's total in
	// the week plus vote.CoinsSpent does not exceed maxCoins.
	InsertVote(ctx context.Context, vote *models.Vote, maxCoins int) error

	// CoinsSpent sums the user's coins in the week.
	CoinsSpent(ctx context.Context, userID, weekID string) (int, error)

	// ListVotesByWeek returns the week's votes in cast order.
	ListVotesByWeek(ctx context.Context, weekID string) ([]*models.Vote, error)
}

// Store defines the full storage surface.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL)
// without changing the voting engine or the service layer.
type Store interface {
	UserStore
	GroupStore
	WeekStore
	TrackStore
	VoteStore

	// Close releases any resources held by the store.
	Close() error
}
