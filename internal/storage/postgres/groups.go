package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/loekvdlooilionx/votejam/internal/models"
)

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	row := userRowFromModel(user)
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return models.ErrEmailExists
		}
		return s.fail("create user", err, "user_id", user.ID)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get user by email", err)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var row userRow
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, s.fail("get user by ID", err, "user_id", id)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error) {
	users := make(map[string]*models.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	var rows []userRow
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, s.fail("get users by IDs", err)
	}
	for _, row := range rows {
		users[row.ID] = row.toModel()
	}
	return users, nil
}

func (s *PostgresStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		row := groupRow{
			ID:         group.ID,
			Name:       group.Name,
			InviteCode: group.InviteCode,
			CreatedBy:  group.CreatedBy,
			CreatedAt:  group.CreatedAt,
		}
		if err := tx.Create(&row).Error; err != nil {
			if isUniqueViolation(err) {
				return models.ErrInviteCodeTaken
			}
			return err
		}
		admin := memberRow{
			GroupID:  group.ID,
			UserID:   group.CreatedBy,
			Role:     string(models.RoleAdmin),
			JoinedAt: group.CreatedAt,
		}
		return tx.Create(&admin).Error
	})
	if err != nil {
		return s.fail("create group", err, "group_id", group.ID)
	}
	return nil
}

func (s *PostgresStore) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	var row groupRow
	err := s.db.WithContext(ctx).Where("id = ?", groupID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrGroupNotFound
	}
	if err != nil {
		return nil, s.fail("get group", err, "group_id", groupID)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) GetGroupByInviteCode(ctx context.Context, code string) (*models.Group, error) {
	var row groupRow
	err := s.db.WithContext(ctx).Where("invite_code = ?", code).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrGroupNotFound
	}
	if err != nil {
		return nil, s.fail("get group by invite code", err)
	}
	return row.toModel(), nil
}

func (s *PostgresStore) ListGroupsForUser(ctx context.Context, userID string) ([]*models.Group, error) {
	var rows []groupRow
	err := s.db.WithContext(ctx).
		Table("groups AS g").
		Select("g.*").
		Joins("JOIN group_members AS m ON m.group_id = g.id").
		Where("m.user_id = ?", userID).
		Order("g.created_at DESC, g.id DESC").
		Scan(&rows).
		Error
	if err != nil {
		return nil, s.fail("list groups", err, "user_id", userID)
	}

	groups := make([]*models.Group, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, row.toModel())
	}
	return groups, nil
}

func (s *PostgresStore) RenameGroup(ctx context.Context, groupID, name string) error {
	result := s.db.WithContext(ctx).Model(&groupRow{}).Where("id = ?", groupID).Update("name", name)
	if result.Error != nil {
		return s.fail("rename group", result.Error, "group_id", groupID)
	}
	if result.RowsAffected == 0 {
		return models.ErrGroupNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteGroup(ctx context.Context, groupID string) error {
	result := s.db.WithContext(ctx).Where("id = ?", groupID).Delete(&groupRow{})
	if result.Error != nil {
		return s.fail("delete group", result.Error, "group_id", groupID)
	}
	if result.RowsAffected == 0 {
		return models.ErrGroupNotFound
	}
	return nil
}

func (s *PostgresStore) AddGroupMember(ctx context.Context, member *models.GroupMember) error {
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}
	row := memberRow{
		GroupID:  member.GroupID,
		UserID:   member.UserID,
		Role:     string(member.Role),
		JoinedAt: member.JoinedAt,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error
	if isForeignKeyViolation(err) {
		return models.ErrGroupNotFound
	}
	if err != nil {
		return s.fail("add group member", err, "group_id", member.GroupID)
	}
	return nil
}

const memberProfileQuery = `
	SELECT m.group_id, m.user_id, m.role, m.joined_at,
	       COALESCE(u.display_name, '') AS display_name,
	       COALESCE(u.avatar_url, '') AS avatar_url
	FROM group_members m
	LEFT JOIN users u ON u.id = m.user_id
`

func (s *PostgresStore) GetGroupMember(ctx context.Context, groupID, userID string) (*models.GroupMember, error) {
	var rows []memberProfileRow
	err := s.db.WithContext(ctx).
		Raw(memberProfileQuery+" WHERE m.group_id = ? AND m.user_id = ?", groupID, userID).
		Scan(&rows).Error
	if err != nil {
		return nil, s.fail("get group member", err, "group_id", groupID)
	}
	if len(rows) == 0 {
		return nil, models.ErrNotMember
	}
	return rows[0].toModel(), nil
}

func (s *PostgresStore) ListGroupMembers(ctx context.Context, groupID string) ([]*models.GroupMember, error) {
	var rows []memberProfileRow
	err := s.db.WithContext(ctx).
		Raw(memberProfileQuery+" WHERE m.group_id = ? ORDER BY m.joined_at, m.seq", groupID).
		Scan(&rows).Error
	if err != nil {
		return nil, s.fail("list group members", err, "group_id", groupID)
	}

	members := make([]*models.GroupMember, 0, len(rows))
	for _, row := range rows {
		members = append(members, row.toModel())
	}
	return members, nil
}
