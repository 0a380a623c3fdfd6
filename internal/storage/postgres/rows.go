package postgres

import "github.com/loekvdlooilionx/votejam/internal/models"

type userRow struct {
	ID           string `gorm:"column:id;primaryKey"`
	Email        string `gorm:"column:email"`
	DisplayName  string `gorm:"column:display_name"`
	AvatarURL    string `gorm:"column:avatar_url"`
	PasswordHash string `gorm:"column:password_hash"`
	CreatedAt    int64  `gorm:"column:created_at;autoCreateTime:false"`
	UpdatedAt    int64  `gorm:"column:updated_at;autoUpdateTime:false"`
}

func (userRow) TableName() string { return "users" }

func userRowFromModel(u *models.User) userRow {
	return userRow{
		ID:           u.ID,
		Email:        u.Email,
		DisplayName:  u.DisplayName,
		AvatarURL:    u.AvatarURL,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (r userRow) toModel() *models.User {
	return &models.User{
		ID:           r.ID,
		Email:        r.Email,
		DisplayName:  r.DisplayName,
		AvatarURL:    r.AvatarURL,
		PasswordHash: r.PasswordHash,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type groupRow struct {
	ID         string `gorm:"column:id;primaryKey"`
	Name       string `gorm:"column:name"`
	InviteCode string `gorm:"column:invite_code"`
	CreatedBy  string `gorm:"column:created_by"`
	CreatedAt  int64  `gorm:"column:created_at;autoCreateTime:false"`
}

func (groupRow) TableName() string { return "groups" }

func (r groupRow) toModel() *models.Group {
	return &models.Group{
		ID:         r.ID,
		Name:       r.Name,
		InviteCode: r.InviteCode,
		CreatedBy:  r.CreatedBy,
		CreatedAt:  r.CreatedAt,
	}
}

type memberRow struct {
	GroupID  string `gorm:"column:group_id;primaryKey"`
	UserID   string `gorm:"column:user_id;primaryKey"`
	Role     string `gorm:"column:role"`
	JoinedAt int64  `gorm:"column:joined_at"`
}

func (memberRow) TableName() string { return "group_members" }

// memberProfileRow is a membership joined with the member's user profile.
type memberProfileRow struct {
	GroupID     string `gorm:"column:group_id"`
	UserID      string `gorm:"column:user_id"`
	Role        string `gorm:"column:role"`
	JoinedAt    int64  `gorm:"column:joined_at"`
	DisplayName string `gorm:"column:display_name"`
	AvatarURL   string `gorm:"column:avatar_url"`
}

func (r memberProfileRow) toModel() *models.GroupMember {
	return &models.GroupMember{
		GroupID:  r.GroupID,
		UserID:   r.UserID,
		Role:     models.Role(r.Role),
		JoinedAt: r.JoinedAt,
		Profile: models.Profile{
			UserID:      r.UserID,
			DisplayName: r.DisplayName,
			AvatarURL:   r.AvatarURL,
		},
	}
}

type weekRow struct {
	ID         string `gorm:"column:id;primaryKey"`
	GroupID    string `gorm:"column:group_id"`
	WeekNumber int    `gorm:"column:week_number"`
	Year       int    `gorm:"column:year"`
	WeekStart  int64  `gorm:"column:week_start"`
	WeekEnd    int64  `gorm:"column:week_end"`
	IsActive   bool   `gorm:"column:is_active"`
	CreatedAt  int64  `gorm:"column:created_at;autoCreateTime:false"`
}

func (weekRow) TableName() string { return "group_weeks" }

func weekRowFromModel(w *models.GroupWeek) weekRow {
	return weekRow{
		ID:         w.ID,
		GroupID:    w.GroupID,
		WeekNumber: w.WeekNumber,
		Year:       w.Year,
		WeekStart:  w.WeekStart,
		WeekEnd:    w.WeekEnd,
		IsActive:   w.IsActive,
		CreatedAt:  w.CreatedAt,
	}
}

func (r weekRow) toModel() *models.GroupWeek {
	return &models.GroupWeek{
		ID:         r.ID,
		GroupID:    r.GroupID,
		WeekNumber: r.WeekNumber,
		Year:       r.Year,
		WeekStart:  r.WeekStart,
		WeekEnd:    r.WeekEnd,
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
	}
}

type trackRow struct {
	ID          string `gorm:"column:id;primaryKey"`
	Seq         int64  `gorm:"column:seq;->"`
	GroupWeekID string `gorm:"column:group_week_id"`
	CatalogID   string `gorm:"column:catalog_id"`
	Title       string `gorm:"column:title"`
	Artist      string `gorm:"column:artist"`
	Album       string `gorm:"column:album"`
	ArtworkURL  string `gorm:"column:artwork_url"`
	PreviewURL  string `gorm:"column:preview_url"`
	AddedBy     string `gorm:"column:added_by"`
	AddedAt     int64  `gorm:"column:added_at"`
}

func (trackRow) TableName() string { return "tracks" }

func (r trackRow) toModel() *models.Track {
	return &models.Track{
		ID:          r.ID,
		GroupWeekID: r.GroupWeekID,
		CatalogID:   r.CatalogID,
		Title:       r.Title,
		Artist:      r.Artist,
		Album:       r.Album,
		ArtworkURL:  r.ArtworkURL,
		PreviewURL:  r.PreviewURL,
		AddedBy:     r.AddedBy,
		AddedAt:     r.AddedAt,
		Seq:         r.Seq,
	}
}

type voteRow struct {
	ID          string `gorm:"column:id;primaryKey"`
	TrackID     string `gorm:"column:track_id"`
	UserID      string `gorm:"column:user_id"`
	GroupWeekID string `gorm:"column:group_week_id"`
	CoinsSpent  int    `gorm:"column:coins_spent"`
	VotedAt     int64  `gorm:"column:voted_at"`
}

func (voteRow) TableName() string { return "votes" }

func (r voteRow) toModel() *models.Vote {
	return &models.Vote{
		ID:          r.ID,
		TrackID:     r.TrackID,
		UserID:      r.UserID,
		GroupWeekID: r.GroupWeekID,
		CoinsSpent:  r.CoinsSpent,
		VotedAt:     r.VotedAt,
	}
}
