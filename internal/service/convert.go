package service

import (
	"github.com/loekvdlooilionx/votejam/internal/models"
	"github.com/loekvdlooilionx/votejam/pkg/api"
)

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}

func toAPIGroup(g *models.Group) *api.Group {
	return &api.Group{
		ID:         g.ID,
		Name:       g.Name,
		InviteCode: g.InviteCode,
		CreatedBy:  g.CreatedBy,
		CreatedAt:  g.CreatedAt,
	}
}

func toAPIMember(m *models.GroupMember) *api.Member {
	return &api.Member{
		UserID:      m.UserID,
		DisplayName: m.Profile.DisplayName,
		AvatarURL:   m.Profile.AvatarURL,
		Role:        string(m.Role),
		JoinedAt:    m.JoinedAt,
	}
}

// toAPIWeek returns nil for a nil week.
func toAPIWeek(w *models.GroupWeek) *api.Week {
	if w == nil {
		return nil
	}
	return &api.Week{
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

func toAPITrack(t *models.Track) *api.Track {
	return &api.Track{
		ID:         t.ID,
		WeekID:     t.GroupWeekID,
		CatalogID:  t.CatalogID,
		Title:      t.Title,
		Artist:     t.Artist,
		Album:      t.Album,
		ArtworkURL: t.ArtworkURL,
		PreviewURL: t.PreviewURL,
		AddedBy:    t.AddedBy,
		AddedAt:    t.AddedAt,
	}
}

func toAPITracks(tracks []*models.Track) []*api.Track {
	out := make([]*api.Track, len(tracks))
	for i, t := range tracks {
		out[i] = toAPITrack(t)
	}
	return out
}

func toAPICatalogTrack(c models.CatalogTrack) *api.CatalogTrack {
	return &api.CatalogTrack{
		CatalogID:  c.CatalogID,
		Title:      c.Title,
		Artists:    c.Artists,
		AlbumName:  c.AlbumName,
		ArtworkURL: c.ArtworkURL,
		PreviewURL: c.PreviewURL,
	}
}

func fromAPICatalogTrack(c *api.CatalogTrack) models.CatalogTrack {
	if c == nil {
		return models.CatalogTrack{}
	}
	return models.CatalogTrack{
		CatalogID:  c.CatalogID,
		Title:      c.Title,
		Artists:    c.Artists,
		AlbumName:  c.AlbumName,
		ArtworkURL: c.ArtworkURL,
		PreviewURL: c.PreviewURL,
	}
}

func toAPIVote(v *models.Vote) *api.Vote {
	return &api.Vote{
		ID:      v.ID,
		TrackID: v.TrackID,
		UserID:  v.UserID,
		WeekID:  v.GroupWeekID,
		Coins:   v.CoinsSpent,
		VotedAt: v.VotedAt,
	}
}

func toAPIBudget(b models.Budget) *api.Budget {
	return &api.Budget{Spent: b.Spent, Remaining: b.Remaining, Max: models.MaxCoins}
}

// toAPIStandings numbers the standings from 1 in the order given.
func toAPIStandings(standings []models.Standing) []*api.Standing {
	out := make([]*api.Standing, len(standings))
	for i := range standings {
		s := &standings[i]
		voters := make([]*api.Voter, len(s.Voters))
		for j, v := range s.Voters {
			voters[j] = &api.Voter{
				UserID:      v.Profile.UserID,
				DisplayName: v.Profile.DisplayName,
				AvatarURL:   v.Profile.AvatarURL,
				Coins:       v.CoinsSpent,
			}
		}
		out[i] = &api.Standing{
			Rank:      i + 1,
			Track:     toAPITrack(&s.Track),
			VoteCount: s.VoteCount,
			Voters:    voters,
		}
	}
	return out
}
