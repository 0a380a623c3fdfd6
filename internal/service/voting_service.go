package service

import (
	"context"
	"log/slog"
	"time"

	"connectrpc.com/connect"

	"github.com/loekvdlooilionx/votejam/internal/voting"
	"github.com/loekvdlooilionx/votejam/pkg/api"
	"github.com/loekvdlooilionx/votejam/pkg/api/apiconnect"
)

// VotingService exposes a voting.Session over Connect.
type VotingService struct {
	apiconnect.UnimplementedVotingServiceHandler
	session *voting.Session
	now     func() time.Time
}

// NewVotingService creates a VotingService backed by session.
func NewVotingService(session *voting.Session) *VotingService {
	return &VotingService{session: session, now: time.Now}
}

// StartWeek opens a new week, closing the active one. Admin only.
func (s *VotingService) StartWeek(ctx context.Context, req *connect.Request[api.StartWeekRequest]) (*connect.Response[api.StartWeekResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	msg := req.Msg

	weekNumber, year := msg.WeekNumber, msg.Year
	start, end := time.Unix(msg.WeekStart, 0), time.Unix(msg.WeekEnd, 0)
	if weekNumber == 0 && year == 0 && msg.WeekStart == 0 && msg.WeekEnd == 0 {
		weekNumber, year, start, end = voting.ISOWeekBounds(s.now())
	}

	week, err := s.session.StartNewWeek(ctx, msg.GroupID, userID, weekNumber, year, start, end)
	if err != nil {
		return nil, toConnectError(ctx, "StartWeek", err, "group_id", msg.GroupID)
	}
	return connect.NewResponse(&api.StartWeekResponse{Week: toAPIWeek(week)}), nil
}

// CloseWeek ends the active week. Admin only.
func (s *VotingService) CloseWeek(ctx context.Context, req *connect.Request[api.CloseWeekRequest]) (*connect.Response[api.CloseWeekResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	week, err := s.session.CloseWeek(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(ctx, "CloseWeek", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.CloseWeekResponse{Week: toAPIWeek(week)}), nil
}

func (s *VotingService) GetActiveWeek(ctx context.Context, req *connect.Request[api.GetActiveWeekRequest]) (*connect.Response[api.GetActiveWeekResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	week, err := s.session.ActiveWeek(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(ctx, "GetActiveWeek", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.GetActiveWeekResponse{Week: toAPIWeek(week)}), nil
}

func (s *VotingService) ListWeeks(ctx context.Context, req *connect.Request[api.ListWeeksRequest]) (*connect.Response[api.ListWeeksResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	weeks, err := s.session.Weeks(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(ctx, "ListWeeks", err, "group_id", req.Msg.GroupID)
	}

	out := make([]*api.Week, len(weeks))
	for i, w := range weeks {
		out[i] = toAPIWeek(w)
	}
	return connect.NewResponse(&api.ListWeeksResponse{Weeks: out}), nil
}

// SearchTracks queries the external catalog.
func (s *VotingService) SearchTracks(ctx context.Context, req *connect.Request[api.SearchTracksRequest]) (*connect.Response[api.SearchTracksResponse], error) {
	if _, err := callerID(ctx); err != nil {
		return nil, err
	}

	results, err := s.session.SearchCatalog(ctx, req.Msg.Query)
	if err != nil {
		return nil, toConnectError(ctx, "SearchTracks", err, "query", req.Msg.Query)
	}

	out := make([]*api.CatalogTrack, len(results))
	for i, r := range results {
		out[i] = toAPICatalogTrack(r)
	}
	return connect.NewResponse(&api.SearchTracksResponse{Tracks: out}), nil
}

// AddTrack submits a catalog track into the active week.
//
// When the submission succeeds but the automatic vote fails for a reason
// other than an exhausted budget, the error is returned and the track stays.
func (s *VotingService) AddTrack(ctx context.Context, req *connect.Request[api.AddTrackRequest]) (*connect.Response[api.AddTrackResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}
	groupID := req.Msg.GroupID

	result, err := s.session.AddTrack(ctx, groupID, userID, fromAPICatalogTrack(req.Msg.Track))
	if err != nil {
		if result != nil && result.Track != nil {
			slog.Warn("Track added without auto-vote", "group_id", groupID, "track_id", result.Track.ID)
		}
		return nil, toConnectError(ctx, "AddTrack", err, "group_id", groupID)
	}

	return connect.NewResponse(&api.AddTrackResponse{
		Track:     toAPITrack(result.Track),
		AutoVoted: result.AutoVoted,
		Budget:    toAPIBudget(result.Budget),
	}), nil
}

// CastVote spends one of the caller's coins on a track.
func (s *VotingService) CastVote(ctx context.Context, req *connect.Request[api.CastVoteRequest]) (*connect.Response[api.CastVoteResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.session.CastVote(ctx, req.Msg.GroupID, userID, req.Msg.TrackID)
	if err != nil {
		return nil, toConnectError(ctx, "CastVote", err, "group_id", req.Msg.GroupID, "track_id", req.Msg.TrackID)
	}

	return connect.NewResponse(&api.CastVoteResponse{
		Vote:   toAPIVote(result.Vote),
		Budget: toAPIBudget(result.Budget),
	}), nil
}

// GetStandings ranks the active week. With no active week the response is empty.
func (s *VotingService) GetStandings(ctx context.Context, req *connect.Request[api.GetStandingsRequest]) (*connect.Response[api.GetStandingsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.session.Standings(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(ctx, "GetStandings", err, "group_id", req.Msg.GroupID)
	}

	return connect.NewResponse(&api.GetStandingsResponse{
		Week:      toAPIWeek(result.Week),
		Standings: toAPIStandings(result.Standings),
		Budget:    toAPIBudget(result.Budget),
	}), nil
}

// ListUnvotedTracks lists tracks without votes in the active week. Admin only.
func (s *VotingService) ListUnvotedTracks(ctx context.Context, req *connect.Request[api.ListUnvotedTracksRequest]) (*connect.Response[api.ListUnvotedTracksResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	tracks, err := s.session.UnvotedTracks(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(ctx, "ListUnvotedTracks", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.ListUnvotedTracksResponse{Tracks: toAPITracks(tracks)}), nil
}

func (s *VotingService) GetCoins(ctx context.Context, req *connect.Request[api.GetCoinsRequest]) (*connect.Response[api.GetCoinsResponse], error) {
	userID, err := callerID(ctx)
	if err != nil {
		return nil, err
	}

	week, budget, err := s.session.Coins(ctx, req.Msg.GroupID, userID)
	if err != nil {
		return nil, toConnectError(ctx, "GetCoins", err, "group_id", req.Msg.GroupID)
	}
	return connect.NewResponse(&api.GetCoinsResponse{
		Week:   toAPIWeek(week),
		Budget: toAPIBudget(budget),
	}), nil
}
