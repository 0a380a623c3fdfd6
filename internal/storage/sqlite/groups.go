package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/loekvdlooilionx/votejam/internal/models"
)

// CreateGroup inserts a group and enrolls its creator as admin.
// Generates ID and CreatedAt when they are unset.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO groups (id, name, invite_code, created_by, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, group.ID, group.Name, group.InviteCode, group.CreatedBy, group.CreatedAt)
	if isUniqueViolation(err) {
		return models.ErrInviteCodeTaken
	}
	if err != nil {
		return unavailable("insert group", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
	`, group.ID, group.CreatedBy, string(models.RoleAdmin), group.CreatedAt)
	if err != nil {
		return unavailable("insert group admin", err)
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit transaction", err)
	}

	return nil
}

const groupColumns = `id, name, invite_code, created_by, created_at`

func scanGroup(row rowScanner) (*models.Group, error) {
	group := &models.Group{}
	err := row.Scan(&group.ID, &group.Name, &group.InviteCode, &group.CreatedBy, &group.CreatedAt)
	return group, err
}

// GetGroup retrieves a group by ID. Returns models.ErrGroupNotFound when absent.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	group, err := scanGroup(s.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE id = ?`, groupID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrGroupNotFound
	}
	if err != nil {
		return nil, unavailable("get group", err)
	}
	return group, nil
}

// GetGroupByInviteCode retrieves a group by its join code.
func (s *SQLiteStore) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	group, err := scanGroup(s.db.QueryRowContext(ctx,
		`SELECT `+groupColumns+` FROM groups WHERE invite_code = ?`, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrGroupNotFound
	}
	if err != nil {
		return nil, unavailable("get group by invite code", err)
	}
	return group, nil
}

// ListGroupsForUser returns every group the user is a member of, newest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.invite_code, g.created_by, g.created_at
		FROM groups g
		JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = ?
		ORDER BY g.created_at DESC, g.rowid DESC
	`, userID)
	if err != nil {
		return nil, unavailable("list groups", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group, err := scanGroup(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate groups", err)
	}

	return groups, nil
}

// RenameGroup updates the group's display name.
func (s *SQLiteStore) RenameGroup(ctx context.Context, groupID, name string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE groups SET name = ? WHERE id = ?`, name, groupID)
	if err != nil {
		return unavailable("rename group", err)
	}
	return requireAffected(result, models.ErrGroupNotFound)
}

// DeleteGroup removes a group. Foreign keys cascade to members, weeks, tracks and votes.
func (s *SQLiteStore) DeleteGroup(ctx context.Context, groupID string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM groups WHERE id = ?`, groupID)
	if err != nil {
		return unavailable("delete group", err)
	}
	return requireAffected(result, models.ErrGroupNotFound)
}

// AddGroupMember enrolls a user in a group. Existing members keep their role.
func (s *SQLiteStore) AddGroupMember(ctx context.Context, member *models.GroupMember) error {
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO group_members (group_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (group_id, user_id) DO NOTHING
	`, member.GroupID, member.UserID, string(member.Role), member.JoinedAt)
	if isForeignKeyViolation(err) {
		return models.ErrGroupNotFound
	}
	if err != nil {
		return unavailable("add group member", err)
	}
	return nil
}

// GetGroupMember returns the membership row, or models.ErrNotMember.
func (s *SQLiteStore) GetGroupMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	member := &models.GroupMember{}
	var role string
	err := s.db.QueryRowContext(ctx, `
		SELECT m.group_id, m.user_id, m.role, m.joined_at,
		       COALESCE(u.display_name, ''), COALESCE(u.avatar_url, '')
		FROM group_members m
		LEFT JOIN users u ON u.id = m.user_id
		WHERE m.group_id = ? AND m.user_id = ?
	`, groupID, userID).Scan(
		&member.GroupID, &member.UserID, &role, &member.JoinedAt,
		&member.Profile.DisplayName, &member.Profile.AvatarURL,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotMember
	}
	if err != nil {
		return nil, unavailable("get group member", err)
	}
	member.Role = models.Role(role)
	member.Profile.UserID = member.UserID
	return member, nil
}

// ListGroupMembers returns the group's members in join order with their profiles.
func (s *SQLiteStore) ListGroupMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.group_id, m.user_id, m.role, m.joined_at,
		       COALESCE(u.display_name, ''), COALESCE(u.avatar_url, '')
		FROM group_members m
		LEFT JOIN users u ON u.id = m.user_id
		WHERE m.group_id = ?
		ORDER BY m.joined_at, m.rowid
	`, groupID)
	if err != nil {
		return nil, unavailable("list group members", err)
	}
	defer rows.Close()

	var members []*models.GroupMember
	for rows.Next() {
		member := &models.GroupMember{}
		var role string
		if err := rows.Scan(
			&member.GroupID, &member.UserID, &role, &member.JoinedAt,
			&member.Profile.DisplayName, &member.Profile.AvatarURL,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		member.Role = models.Role(role)
		member.Profile.UserID = member.UserID
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate group members", err)
	}

	return members, nil
}

// requireAffected returns notFound when the statement touched no rows.
func requireAffected(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return unavailable("read affected rows", err)
	}
	if n == 0 {
		return notFound
	}
	return nil
}
